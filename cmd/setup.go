package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/kinox/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup creates the config file from the embedded template when missing, then prepares the configured watchlist
// backend: the slot directory for file, the database and its migrations for sqlite, a ping for redis.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := r.configPath
	if configPath == "" {
		configPath = "config.toml"
	}

	if _, err := os.Stat(configPath); err == nil {
		r.logger.Info("using existing config", "path", configPath)
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		r.writePlain("✓ Created %s\n", configPath)

		config, err := shared.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if err := shared.ApplyEnv(config); err != nil {
			return err
		}
		r.config = config
	}

	backend := r.config.Watchlist.Backend
	r.logger.Info("initializing watchlist storage", "backend", backend)

	if _, err := r.openBackend(ctx); err != nil {
		return fmt.Errorf("failed to initialize %s backend: %w", backend, err)
	}

	switch backend {
	case shared.BackendSQLite:
		r.writePlain("✓ Database ready: %s\n", r.config.Database.Path)
	case shared.BackendFile:
		r.writePlain("✓ Watchlist directory ready: %s\n", shared.ExpandHome(r.config.Watchlist.Dir))
	case shared.BackendRedis:
		r.writePlain("✓ Redis reachable at %s\n", r.config.Redis.Addr)
	default:
		r.writePlain("✓ Using in-memory watchlist (nothing is saved between runs)\n")
	}

	if !r.config.TMDB.HasCredentials() {
		r.writePlainln("Next steps:")
		r.writePlain("1. Set tmdb.api_key or tmdb.access_token in %s (or %s in .env)\n", configPath, shared.EnvAPIKey)
		r.writePlain("2. Run 'kinox trending' to test the connection\n")
	}

	return nil
}
