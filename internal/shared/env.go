package shared

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables that override config file values.
const (
	EnvAPIKey           = "TMDB_API_KEY"
	EnvAccessToken      = "TMDB_ACCESS_TOKEN"
	EnvWatchlistBackend = "KINOX_WATCHLIST_BACKEND"
)

// LoadEnv loads variables from the given dotenv files into the process environment.
//
// Missing files are skipped; variables already set are not overwritten.
func LoadEnv(paths ...string) error {
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// ApplyEnv overrides credentials and backend selection from the environment.
func ApplyEnv(c *Config) error {
	if v := os.Getenv(EnvAPIKey); v != "" {
		c.TMDB.APIKey = v
	}
	if v := os.Getenv(EnvAccessToken); v != "" {
		c.TMDB.AccessToken = v
	}
	if v := os.Getenv(EnvWatchlistBackend); v != "" {
		c.Watchlist.Backend = v
	}
	return c.Validate()
}
