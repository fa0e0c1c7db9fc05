// YouTube Music API [Client] implementation
//
// Communicates with the FastAPI proxy server running on port 8080.
// The proxy wraps the ytmusicapi Python library; session credentials are
// provided per request via the X-Auth-File header.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/time/rate"
)

const defaultBaseURL string = "http://localhost:8080"

// maxSearchLimit bounds how many results a single scoped search may request.
const maxSearchLimit = 100

// YouTubeMusicService implements [Client] against the ytmusicapi proxy.
type YouTubeMusicService struct {
	baseURL    string
	authFile   string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// YouTubeMusicOpts configures a [YouTubeMusicService].
type YouTubeMusicOpts struct {
	BaseURL    string
	AuthFile   string       // Path to browser.json or oauth.json
	HTTPClient *http.Client // Defaults to http.DefaultClient
	RateLimit  float64      // Requests per second; <=0 disables pacing
}

// NewYouTubeMusicService creates a new YouTube Music client.
func NewYouTubeMusicService(opts YouTubeMusicOpts) *YouTubeMusicService {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	return &YouTubeMusicService{
		baseURL:    opts.BaseURL,
		authFile:   opts.AuthFile,
		httpClient: opts.HTTPClient,
		limiter:    limiter,
	}
}

// Name returns the service name.
func (y *YouTubeMusicService) Name() string {
	return "YouTube Music"
}

// SetAuthFile points the client at a different credential file.
func (y *YouTubeMusicService) SetAuthFile(path string) {
	y.authFile = path
}

func (y *YouTubeMusicService) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	if y.limiter != nil {
		if err := y.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, y.baseURL+endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if y.authFile != "" {
		req.Header.Set("X-Auth-File", y.authFile)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errResp struct {
			Detail string `json:"detail"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
			apiErr.Message = errResp.Detail
		}
		return apiErr
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// Search issues a category-scoped search.
//
// Calls GET /api/search?q={query}&filter={category}&limit={n} on the proxy.
func (y *YouTubeMusicService) Search(ctx context.Context, query string, category SearchCategory, limit int) ([]SearchResult, error) {
	if limit <= 0 || limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	endpoint := fmt.Sprintf("/api/search?q=%s&filter=%s&limit=%s",
		url.QueryEscape(query), url.QueryEscape(string(category)), strconv.Itoa(limit))

	var results []SearchResult
	if err := y.doRequest(ctx, http.MethodGet, endpoint, nil, &results); err != nil {
		return nil, err
	}

	return results, nil
}

// CreatePlaylist creates a playlist on YouTube Music.
//
// Calls POST /api/playlists on the proxy.
func (y *YouTubeMusicService) CreatePlaylist(ctx context.Context, title, description, privacy string) (string, error) {
	createReq := struct {
		Title         string `json:"title"`
		Description   string `json:"description"`
		PrivacyStatus string `json:"privacy_status"`
	}{
		Title:         title,
		Description:   description,
		PrivacyStatus: privacy,
	}

	var createResp struct {
		PlaylistID string `json:"playlist_id"`
	}
	if err := y.doRequest(ctx, http.MethodPost, "/api/playlists", createReq, &createResp); err != nil {
		return "", err
	}

	if createResp.PlaylistID == "" {
		return "", fmt.Errorf("playlist creation returned no ID")
	}

	return createResp.PlaylistID, nil
}

// AddPlaylistItems adds videos to an existing playlist, forwarding the
// duplicates flag to the remote service.
//
// Calls POST /api/playlists/{id}/items on the proxy. The raw payload is kept
// on the response so callers can apply their own success interpretation.
func (y *YouTubeMusicService) AddPlaylistItems(ctx context.Context, playlistID string, videoIDs []string, allowDuplicates bool) (*AddItemsResponse, error) {
	addReq := struct {
		VideoIDs   []string `json:"video_ids"`
		Duplicates bool     `json:"duplicates"`
	}{
		VideoIDs:   videoIDs,
		Duplicates: allowDuplicates,
	}

	var raw json.RawMessage
	endpoint := fmt.Sprintf("/api/playlists/%s/items", url.PathEscape(playlistID))
	if err := y.doRequest(ctx, http.MethodPost, endpoint, addReq, &raw); err != nil {
		return nil, err
	}

	resp := &AddItemsResponse{Raw: raw}
	// Status marker is best effort; the payload shape is not strictly documented.
	_ = json.Unmarshal(raw, resp)

	return resp, nil
}

// Ping checks that the proxy is reachable and the session is accepted.
//
// Calls GET /health on the proxy.
func (y *YouTubeMusicService) Ping(ctx context.Context) error {
	return y.doRequest(ctx, http.MethodGet, "/health", nil, nil)
}
