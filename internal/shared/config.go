package shared

import (
	_ "embed"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Watchlist storage backends accepted in [WatchlistConfig.Backend].
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

var backends = []string{BackendMemory, BackendFile, BackendSQLite, BackendRedis}

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	TMDB      TMDBConfig      `toml:"tmdb"`
	Watchlist WatchlistConfig `toml:"watchlist"`
	Database  DatabaseConfig  `toml:"database"`
	Redis     RedisConfig     `toml:"redis"`
	Log       LogConfig       `toml:"log"`
	Export    ExportConfig    `toml:"export"`
}

// TMDBConfig contains catalog credentials and endpoints.
type TMDBConfig struct {
	APIKey         string `toml:"api_key"`
	AccessToken    string `toml:"access_token"`
	BaseURL        string `toml:"base_url"`
	ImageBaseURL   string `toml:"image_base_url"`
	Language       string `toml:"language"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Timeout returns the per-request timeout, defaulting to 15 seconds.
func (c TMDBConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// HasCredentials reports whether either credential form is configured.
func (c TMDBConfig) HasCredentials() bool {
	return c.APIKey != "" || c.AccessToken != ""
}

// WatchlistConfig selects where the watchlist slot lives.
type WatchlistConfig struct {
	Backend string `toml:"backend"`
	Slot    string `toml:"slot"`
	Dir     string `toml:"dir"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// RedisConfig contains Redis connection settings for the redis backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// LogConfig controls log verbosity and the TUI log file.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// ExportConfig contains watchlist export settings.
type ExportConfig struct {
	RateLimit float64 `toml:"rate_limit"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their embedded default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	if !slices.Contains(backends, c.Watchlist.Backend) {
		return fmt.Errorf("%w: unknown watchlist backend %q", ErrInvalidConfig, c.Watchlist.Backend)
	}
	if c.Watchlist.Slot == "" {
		return fmt.Errorf("%w: watchlist slot must not be empty", ErrInvalidConfig)
	}
	if c.Export.RateLimit < 0 {
		return fmt.Errorf("%w: export rate_limit must not be negative", ErrInvalidConfig)
	}
	return nil
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
