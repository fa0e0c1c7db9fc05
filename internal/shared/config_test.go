package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./txt2ytm.db" {
			t.Errorf("expected database path ./txt2ytm.db, got %s", config.Database.Path)
		}

		if config.Insert.MaxRetries != 2 {
			t.Errorf("expected max_retries 2, got %d", config.Insert.MaxRetries)
		}

		if config.Insert.RetryDelaySeconds != 6 {
			t.Errorf("expected retry_delay_seconds 6, got %d", config.Insert.RetryDelaySeconds)
		}

		if config.Search.Limit != 100 {
			t.Errorf("expected search limit 100, got %d", config.Search.Limit)
		}

		if config.Playlist.Privacy != "PRIVATE" {
			t.Errorf("expected privacy PRIVATE, got %s", config.Playlist.Privacy)
		}

		if config.Insert.AllowDuplicates {
			t.Error("expected allow_duplicates to default to false")
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[auth]
browser_file = "/home/me/.browser.json"

[search]
limit = 25
perfect_match = true

[insert]
allow_duplicates = true
max_retries = 5
retry_delay_seconds = 2

[playlist]
privacy = "UNLISTED"

[database]
path = "/custom/path.db"
max_open_conns = 20
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Auth.BrowserFile != "/home/me/.browser.json" {
			t.Errorf("expected browser_file /home/me/.browser.json, got %s", config.Auth.BrowserFile)
		}

		if config.Search.Limit != 25 || !config.Search.PerfectMatch {
			t.Errorf("unexpected search config: %+v", config.Search)
		}

		if config.Insert.MaxRetries != 5 || config.Insert.RetryDelaySeconds != 2 || !config.Insert.AllowDuplicates {
			t.Errorf("unexpected insert config: %+v", config.Insert)
		}

		if config.Playlist.Privacy != "UNLISTED" {
			t.Errorf("expected privacy UNLISTED, got %s", config.Playlist.Privacy)
		}
	})

	t.Run("LoadConfig missing file", func(t *testing.T) {
		if _, err := LoadConfig("/nonexistent/config.toml"); err == nil {
			t.Error("expected error for missing config file")
		}
	})

	t.Run("ValidPrivacy", func(t *testing.T) {
		for _, status := range []string{"PUBLIC", "PRIVATE", "UNLISTED"} {
			if !ValidPrivacy(status) {
				t.Errorf("expected %s to be valid", status)
			}
		}
		for _, status := range []string{"private", "SECRET", ""} {
			if ValidPrivacy(status) {
				t.Errorf("expected %s to be invalid", status)
			}
		}
	})
}
