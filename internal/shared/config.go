package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Auth     AuthConfig     `toml:"auth"`
	Search   SearchConfig   `toml:"search"`
	Insert   InsertConfig   `toml:"insert"`
	Playlist PlaylistConfig `toml:"playlist"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
}

// AuthConfig locates the session credential files for YouTube Music.
type AuthConfig struct {
	BrowserFile string `toml:"browser_file"`
	OAuthFile   string `toml:"oauth_file"`
}

// SearchConfig controls query resolution behavior.
type SearchConfig struct {
	Limit        int  `toml:"limit"`
	PerfectMatch bool `toml:"perfect_match"`
}

// InsertConfig controls playlist insertion behavior.
type InsertConfig struct {
	AllowDuplicates   bool `toml:"allow_duplicates"`
	MaxRetries        int  `toml:"max_retries"`
	RetryDelaySeconds int  `toml:"retry_delay_seconds"`
}

// PlaylistConfig contains defaults for created playlists.
type PlaylistConfig struct {
	Privacy string `toml:"privacy"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LogsConfig contains log file settings.
type LogsConfig struct {
	Dir string `toml:"dir"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ValidPrivacy reports whether a privacy status is one the remote service accepts.
func ValidPrivacy(status string) bool {
	switch status {
	case "PUBLIC", "PRIVATE", "UNLISTED":
		return true
	}
	return false
}
