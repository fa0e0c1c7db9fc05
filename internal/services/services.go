// package services defines interface Client for session-based calls to the
// YouTube Music API (via the ytmusicapi proxy)
package services

import (
	"context"
	"fmt"
	"net/http"
)

// SearchCategory scopes a remote search to one result type.
type SearchCategory string

const (
	CategorySongs  SearchCategory = "songs"
	CategoryVideos SearchCategory = "videos"
)

// Client defines the remote operations the pipeline needs from YouTube Music:
// category-scoped search, playlist creation, and item insertion.
type Client interface {
	// Search issues a remote search scoped to the given category, returning
	// at most limit results in remote ranking order.
	Search(ctx context.Context, query string, category SearchCategory, limit int) ([]SearchResult, error)

	// CreatePlaylist creates a playlist and returns its ID.
	// privacy is one of PUBLIC, PRIVATE, UNLISTED.
	CreatePlaylist(ctx context.Context, title, description, privacy string) (string, error)

	// AddPlaylistItems adds videos to a playlist. The duplicates flag is
	// forwarded to the remote service, which applies its own duplicate policy
	// independently of local tracking.
	AddPlaylistItems(ctx context.Context, playlistID string, videoIDs []string, allowDuplicates bool) (*AddItemsResponse, error)

	// Ping verifies the session is usable. Called once at startup; a failure
	// here is fatal to the run.
	Ping(ctx context.Context) error

	// Name returns the service name for logging.
	Name() string
}

// Artist is an artist entry in a search result.
type Artist struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// SearchResult is one entry of a remote search response.
type SearchResult struct {
	VideoID    string   `json:"videoId"`
	Title      string   `json:"title"`
	ResultType string   `json:"resultType"`
	Artists    []Artist `json:"artists"`
	Duration   string   `json:"duration"`
}

// PrimaryArtist returns the first artist name, or "" when none is present.
func (r SearchResult) PrimaryArtist() string {
	if len(r.Artists) == 0 {
		return ""
	}
	return r.Artists[0].Name
}

// AddItemsResponse is the remote response to an add-items call. Status carries
// the explicit success marker when the service provides one; Raw preserves the
// full payload so callers can distinguish an empty response from an
// unrecognized one.
type AddItemsResponse struct {
	Status string `json:"status"`
	Raw    []byte `json:"-"`
}

// Succeeded reports whether the response carries the explicit success marker.
func (r *AddItemsResponse) Succeeded() bool {
	return r != nil && r.Status == "STATUS_SUCCEEDED"
}

// Empty reports whether the remote returned no usable payload.
func (r *AddItemsResponse) Empty() bool {
	return r == nil || len(r.Raw) == 0 || string(r.Raw) == "null" || string(r.Raw) == "{}"
}

// APIError is a transport-level failure carrying the remote HTTP status, so
// callers can tell transient conflicts from terminal failures.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("youtube music API error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("youtube music API error: status %d", e.StatusCode)
}

// IsConflict reports whether the error is an HTTP 409 Conflict, the one error
// class retried by the insertion engine.
func (e *APIError) IsConflict() bool {
	return e.StatusCode == http.StatusConflict
}
