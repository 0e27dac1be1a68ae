package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/kinox/internal/repositories"
	"github.com/desertthunder/kinox/internal/services"
	"github.com/desertthunder/kinox/internal/shared"
	"github.com/desertthunder/kinox/internal/tasks"
	"github.com/desertthunder/kinox/internal/watchlist"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// Services that need configuration or a connection are opened on first use, so commands like genres never touch
// the network.
type Runner struct {
	config       *shared.Config
	configPath   string
	configLoaded bool
	catalog      services.Catalog
	lookup       services.MovieLookup
	backend      watchlist.Backend
	slots        *repositories.SlotRepository
	store        *watchlist.Store
	download     tasks.Downloader
	httpClient   *http.Client
	logger       *log.Logger
	output       io.Writer
	closers      []io.Closer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Catalog    services.Catalog
	Lookup     services.MovieLookup
	Backend    watchlist.Backend
	Download   tasks.Downloader
	HTTPClient *http.Client // base client for catalog requests; nil builds one from config
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration.
//
// A provided Config is used as is; otherwise the config file is read when a command runs.
func NewRunner(opts RunnerOpts) *Runner {
	loaded := opts.Config != nil
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:       opts.Config,
		configPath:   opts.ConfigPath,
		configLoaded: loaded,
		catalog:      opts.Catalog,
		lookup:       opts.Lookup,
		backend:      opts.Backend,
		download:     opts.Download,
		httpClient:   opts.HTTPClient,
		logger:       opts.Logger,
		output:       opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, trendingCommand, searchCommand, movieCommand, genresCommand, watchlistCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the logger used by the runner and everything it opens afterwards.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// Before loads the config file named by --config, applies environment overrides and sets the log level.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if path := cmd.String("config"); path != "" {
		r.configPath = path
	}

	if !r.configLoaded {
		config, err := r.loadConfig()
		if err != nil {
			return ctx, err
		}
		r.config = config
		r.configLoaded = true
	}

	shared.SetLogLevel(r.logger, shared.ParseLogLevel(r.config.Log.Level))
	if cmd.Bool("debug") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}
	return ctx, nil
}

// After releases connections opened by the command.
func (r *Runner) After(ctx context.Context, cmd *cli.Command) error {
	return r.Close()
}

// Close closes every database or redis connection the runner opened.
func (r *Runner) Close() error {
	var first error
	for _, c := range r.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	r.closers = nil
	return first
}

func (r *Runner) loadConfig() (*shared.Config, error) {
	config := shared.DefaultConfig()
	if r.configPath != "" {
		if _, err := os.Stat(r.configPath); err == nil {
			loaded, err := shared.LoadConfig(r.configPath)
			if err != nil {
				return nil, err
			}
			config = loaded
		} else {
			r.logger.Debug("config file not found, using defaults", "path", r.configPath)
		}
	}

	if err := shared.ApplyEnv(config); err != nil {
		return nil, err
	}
	return config, nil
}

// tmdb builds the catalog client from config once and serves both catalog roles.
func (r *Runner) tmdb() (*services.TMDBService, error) {
	if !r.config.TMDB.HasCredentials() {
		return nil, fmt.Errorf("%w: set tmdb.api_key or tmdb.access_token in %s, or %s",
			shared.ErrMissingCredentials, r.configPath, shared.EnvAPIKey)
	}

	svc, err := services.NewTMDBService(services.TMDBOptions{
		APIKey:      r.config.TMDB.APIKey,
		AccessToken: r.config.TMDB.AccessToken,
		BaseURL:     r.config.TMDB.BaseURL,
		Language:    r.config.TMDB.Language,
		Timeout:     r.config.TMDB.Timeout(),
		HTTPClient:  r.httpClient,
	})
	if err != nil {
		return nil, err
	}

	if r.catalog == nil {
		r.catalog = svc
	}
	if r.lookup == nil {
		r.lookup = svc
	}
	return svc, nil
}

func (r *Runner) catalogService() (services.Catalog, error) {
	if r.catalog != nil {
		return r.catalog, nil
	}
	if _, err := r.tmdb(); err != nil {
		return nil, err
	}
	return r.catalog, nil
}

func (r *Runner) lookupService() (services.MovieLookup, error) {
	if r.lookup != nil {
		return r.lookup, nil
	}
	if _, err := r.tmdb(); err != nil {
		return nil, err
	}
	return r.lookup, nil
}

func (r *Runner) images() services.Images {
	return services.NewImages(r.config.TMDB.ImageBaseURL)
}

// openBackend connects the configured watchlist backend.
func (r *Runner) openBackend(ctx context.Context) (watchlist.Backend, error) {
	if r.backend != nil {
		return r.backend, nil
	}

	cfg := r.config.Watchlist
	logger := r.logger.With("backend", cfg.Backend)

	switch cfg.Backend {
	case shared.BackendMemory:
		r.backend = watchlist.NewMemoryBackend()
	case shared.BackendFile:
		fb, err := watchlist.NewFileBackend(shared.ExpandHome(cfg.Dir))
		if err != nil {
			return nil, err
		}
		r.backend = fb
	case shared.BackendSQLite:
		db, err := r.openDatabase()
		if err != nil {
			return nil, err
		}
		r.slots = repositories.NewSlotRepository(db)
		r.backend = r.slots
	case shared.BackendRedis:
		client, err := repositories.NewRedisClient(ctx, r.config.Redis)
		if err != nil {
			return nil, err
		}
		r.closers = append(r.closers, client)
		r.backend = repositories.NewRedisSlots(client, repositories.DefaultRedisPrefix)
	default:
		return nil, fmt.Errorf("%w: unknown watchlist backend %q", shared.ErrInvalidConfig, cfg.Backend)
	}

	logger.Debug("watchlist backend ready", "slot", cfg.Slot)
	return r.backend, nil
}

// openDatabase opens the configured SQLite database and applies pending migrations.
func (r *Runner) openDatabase() (*sql.DB, error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	r.closers = append(r.closers, db)
	return db, nil
}

// watchlistStore opens the backend and loads the watchlist slot.
func (r *Runner) watchlistStore(ctx context.Context) (*watchlist.Store, error) {
	if r.store != nil {
		return r.store, nil
	}

	backend, err := r.openBackend(ctx)
	if err != nil {
		return nil, err
	}

	r.store = watchlist.NewStore(backend, watchlist.Options{
		Slot:   r.config.Watchlist.Slot,
		Logger: r.logger,
	})
	return r.store, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
