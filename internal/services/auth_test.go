package services

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Jokaes/txt-to-youtube-music/internal/shared"
	"golang.org/x/oauth2"
)

func TestWriteBrowserAuth(t *testing.T) {
	t.Run("writes merged headers", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "browser.json")
		headers := &shared.CurlHeaders{
			Headers: map[string]string{"authorization": "SAPISIDHASH abc"},
			Cookie:  "SAPISID=secret; CONSENT=YES",
		}

		if err := WriteBrowserAuth(headers, path); err != nil {
			t.Fatalf("WriteBrowserAuth() error = %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read auth file: %v", err)
		}

		var auth map[string]string
		if err := json.Unmarshal(data, &auth); err != nil {
			t.Fatalf("auth file is not valid JSON: %v", err)
		}

		if auth["cookie"] != "SAPISID=secret; CONSENT=YES" {
			t.Errorf("cookie = %q", auth["cookie"])
		}
		if auth["authorization"] != "SAPISIDHASH abc" {
			t.Errorf("authorization = %q", auth["authorization"])
		}
		if auth["origin"] != "https://music.youtube.com" {
			t.Errorf("default origin missing, got %q", auth["origin"])
		}
	})

	t.Run("rejects session without SAPISID", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "browser.json")
		headers := &shared.CurlHeaders{Cookie: "CONSENT=YES"}

		if err := WriteBrowserAuth(headers, path); err == nil {
			t.Error("expected validation error")
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Error("invalid session should not produce a file")
		}
	})
}

func TestWriteOAuthToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oauth.json")
	token := &oauth2.Token{
		AccessToken:  "at",
		RefreshToken: "rt",
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(time.Hour),
	}

	if err := WriteOAuthToken(token, path); err != nil {
		t.Fatalf("WriteOAuthToken() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read oauth file: %v", err)
	}

	var file struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		Scope        string `json:"scope"`
	}
	if err := json.Unmarshal(data, &file); err != nil {
		t.Fatalf("oauth file is not valid JSON: %v", err)
	}

	if file.AccessToken != "at" || file.RefreshToken != "rt" {
		t.Errorf("unexpected token fields: %+v", file)
	}
	if file.Scope == "" {
		t.Error("scope should be recorded")
	}

	t.Run("TokenExpired", func(t *testing.T) {
		expired, err := TokenExpired(path)
		if err != nil {
			t.Fatalf("TokenExpired() error = %v", err)
		}
		if expired {
			t.Error("token with refresh token should not be expired")
		}
	})
}

func TestResolveAuthFile(t *testing.T) {
	tmpDir := t.TempDir()
	browserPath := filepath.Join(tmpDir, "browser.json")
	oauthPath := filepath.Join(tmpDir, "oauth.json")

	t.Run("nothing on disk", func(t *testing.T) {
		_, err := ResolveAuthFile("", shared.AuthConfig{BrowserFile: browserPath, OAuthFile: oauthPath})
		if !errors.Is(err, shared.ErrMissingAuthFile) {
			t.Errorf("expected ErrMissingAuthFile, got %v", err)
		}
	})

	if err := os.WriteFile(oauthPath, []byte("{}"), 0600); err != nil {
		t.Fatal(err)
	}

	t.Run("falls back to oauth file", func(t *testing.T) {
		got, err := ResolveAuthFile("", shared.AuthConfig{BrowserFile: browserPath, OAuthFile: oauthPath})
		if err != nil {
			t.Fatalf("ResolveAuthFile() error = %v", err)
		}
		if got != oauthPath {
			t.Errorf("got %s, want %s", got, oauthPath)
		}
	})

	if err := os.WriteFile(browserPath, []byte("{}"), 0600); err != nil {
		t.Fatal(err)
	}

	t.Run("browser file preferred", func(t *testing.T) {
		got, err := ResolveAuthFile("", shared.AuthConfig{BrowserFile: browserPath, OAuthFile: oauthPath})
		if err != nil {
			t.Fatalf("ResolveAuthFile() error = %v", err)
		}
		if got != browserPath {
			t.Errorf("got %s, want %s", got, browserPath)
		}
	})

	t.Run("override wins", func(t *testing.T) {
		override := filepath.Join(tmpDir, "custom.json")
		if err := os.WriteFile(override, []byte("{}"), 0600); err != nil {
			t.Fatal(err)
		}

		got, err := ResolveAuthFile(override, shared.AuthConfig{BrowserFile: browserPath})
		if err != nil {
			t.Fatalf("ResolveAuthFile() error = %v", err)
		}
		if got != override {
			t.Errorf("got %s, want %s", got, override)
		}
	})
}
