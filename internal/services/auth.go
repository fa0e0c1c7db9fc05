// Session credential files for YouTube Music.
//
// Two formats are supported, matching what ytmusicapi accepts: browser.json
// (request headers captured from a logged-in music.youtube.com session) and
// oauth.json (a device-flow OAuth token for the YouTube TV client).
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Jokaes/txt-to-youtube-music/internal/shared"
	"golang.org/x/oauth2"
)

// requiredBrowserHeaders are filled with defaults when the captured request
// did not include them.
var requiredBrowserHeaders = map[string]string{
	"accept":          "*/*",
	"accept-language": "en-US,en;q=0.9",
	"content-type":    "application/json",
	"x-goog-authuser": "0",
	"origin":          "https://music.youtube.com",
	"user-agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64)",
}

// WriteBrowserAuth validates parsed session headers and writes them as a
// browser.json credential file.
func WriteBrowserAuth(headers *shared.CurlHeaders, path string) error {
	if err := headers.Validate(); err != nil {
		return err
	}

	auth := make(map[string]string, len(headers.Headers)+1)
	for key, value := range requiredBrowserHeaders {
		auth[key] = value
	}
	for key, value := range headers.Headers {
		auth[key] = value
	}
	auth["cookie"] = headers.Cookie

	data, err := json.MarshalIndent(auth, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal browser auth: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create auth directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write browser auth file: %w", err)
	}

	return nil
}

// OAuthEndpoint is Google's device-authorization endpoint set for the YouTube
// TV client that ytmusicapi-style OAuth tokens are issued against.
var OAuthEndpoint = oauth2.Endpoint{
	AuthURL:       "https://accounts.google.com/o/oauth2/auth",
	TokenURL:      "https://oauth2.googleapis.com/token",
	DeviceAuthURL: "https://oauth2.googleapis.com/device/code",
}

// NewOAuthConfig builds the device-flow OAuth config for the given client
// credentials.
func NewOAuthConfig(clientID, clientSecret string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Scopes:       []string{"https://www.googleapis.com/auth/youtube"},
		Endpoint:     OAuthEndpoint,
	}
}

// DeviceFlow runs the OAuth device authorization grant. The prompt callback
// receives the verification URL and user code to display (and may open a
// browser); the call then blocks polling for the token until the user
// approves or ctx expires.
func DeviceFlow(ctx context.Context, config *oauth2.Config, prompt func(verificationURL, userCode string)) (*oauth2.Token, error) {
	resp, err := config.DeviceAuth(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: device authorization failed: %v", shared.ErrAuthFailed, err)
	}

	if prompt != nil {
		prompt(resp.VerificationURI, resp.UserCode)
	}

	token, err := config.DeviceAccessToken(ctx, resp)
	if err != nil {
		return nil, fmt.Errorf("%w: device token exchange failed: %v", shared.ErrAuthFailed, err)
	}

	return token, nil
}

// oauthFile is the on-disk shape of oauth.json, mirroring what ytmusicapi
// writes so the proxy accepts either producer.
type oauthFile struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	Scope        string `json:"scope"`
	ExpiresAt    int64  `json:"expires_at"`
}

// WriteOAuthToken persists a device-flow token as an oauth.json credential file.
func WriteOAuthToken(token *oauth2.Token, path string) error {
	file := oauthFile{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		Scope:        "https://www.googleapis.com/auth/youtube",
		ExpiresAt:    token.Expiry.Unix(),
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal oauth token: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create auth directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write oauth file: %w", err)
	}

	return nil
}

// ResolveAuthFile picks the credential file to use: an explicit override
// first, then the configured browser file, then the oauth file. Returns
// [shared.ErrMissingAuthFile] when none exists on disk.
func ResolveAuthFile(override string, cfg shared.AuthConfig) (string, error) {
	candidates := []string{override, cfg.BrowserFile, cfg.OAuthFile}
	for _, path := range candidates {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: checked %v", shared.ErrMissingAuthFile, candidates)
}

// TokenExpired reports whether an oauth.json file on disk holds an expired
// access token with no refresh token to renew it.
func TokenExpired(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}

	var file oauthFile
	if err := json.Unmarshal(data, &file); err != nil {
		return false, fmt.Errorf("failed to parse oauth file: %w", err)
	}

	if file.RefreshToken != "" {
		return false, nil
	}

	return time.Unix(file.ExpiresAt, 0).Before(time.Now()), nil
}
