package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/desertthunder/kinox/internal/formatter"
	"github.com/desertthunder/kinox/internal/shared"
	"github.com/desertthunder/kinox/internal/tasks"
	"github.com/urfave/cli/v3"
)

// WatchlistList prints the saved movies in the order they were added.
func (r *Runner) WatchlistList(ctx context.Context, cmd *cli.Command) error {
	store, err := r.watchlistStore(ctx)
	if err != nil {
		return err
	}

	movies := store.Movies()
	if cmd.Bool("json") {
		return r.writeJSON(movies, cmd.Bool("pretty"))
	}

	if len(movies) == 0 {
		r.writePlain("No movies in watchlist\n")
		return nil
	}

	r.writePlainHeader("Your Watchlist")
	r.writePlain("%d movies saved\n\n", len(movies))
	for i, m := range movies {
		line := fmt.Sprintf("%2d. %s", i+1, m.Title)
		if year := m.Year(); year != "" {
			line += fmt.Sprintf(" (%s)", year)
		}
		r.writePlain("%s  [id: %d]\n", line, m.ID)
	}
	return nil
}

// WatchlistAdd fetches a movie from the catalog and saves it. Adding a saved movie is a no-op.
func (r *Runner) WatchlistAdd(ctx context.Context, cmd *cli.Command) error {
	id, err := r.movieIDArg(cmd)
	if err != nil {
		return err
	}

	store, err := r.watchlistStore(ctx)
	if err != nil {
		return err
	}

	if store.Contains(id) {
		r.writePlain("Movie %d is already in the watchlist\n", id)
		return nil
	}

	lookup, err := r.lookupService()
	if err != nil {
		return err
	}

	movie, err := lookup.MovieDetails(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch movie %d: %w", id, err)
	}

	if err := store.Add(*movie); err != nil {
		return err
	}

	r.logger.Info("movie saved", "id", movie.ID, "title", movie.Title)
	r.writePlain("✓ Added %s to watchlist (%d saved)\n", movie.Title, store.Len())
	return nil
}

// WatchlistRemove drops a movie from the watchlist. Removing an unsaved id is a no-op.
func (r *Runner) WatchlistRemove(ctx context.Context, cmd *cli.Command) error {
	id, err := r.movieIDArg(cmd)
	if err != nil {
		return err
	}

	store, err := r.watchlistStore(ctx)
	if err != nil {
		return err
	}

	if !store.Contains(id) {
		r.writePlain("Movie %d is not in the watchlist\n", id)
		return nil
	}

	if err := store.Remove(id); err != nil {
		return err
	}

	r.logger.Info("movie removed", "id", id)
	r.writePlain("✓ Removed %d from watchlist (%d saved)\n", id, store.Len())
	return nil
}

// WatchlistExport writes the watchlist to a file, optionally downloading posters alongside it.
func (r *Runner) WatchlistExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	rate := cmd.Float("rate")
	if rate < 0 {
		return fmt.Errorf("%w: --rate must not be negative", shared.ErrInvalidFlag)
	}
	if rate == 0 {
		rate = r.config.Export.RateLimit
	}

	store, err := r.watchlistStore(ctx)
	if err != nil {
		return err
	}

	movies := store.Movies()
	if len(movies) == 0 {
		r.logger.Warn("exporting an empty watchlist")
	}

	engine := tasks.NewExportEngine(r.images(), r.download, r.logger)
	opts := tasks.ExportOpts{
		Name:       cmd.String("name"),
		Format:     format,
		OutputPath: cmd.String("output"),
		PosterDir:  cmd.String("posters"),
		NumWorkers: int(cmd.Int("workers")),
		RateLimit:  rate,
	}

	progress := make(chan tasks.ProgressUpdate, 16)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for update := range progress {
			r.logger.Debug(update.Message, "phase", update.Phase, "step", update.Step, "total", update.Total)
		}
	}()

	result, err := engine.ExportWatchlist(ctx, progress, movies, opts)
	close(progress)
	wg.Wait()
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	r.writePlain("✓ Exported %d movies to %s\n", result.Movies, result.OutputPath)
	if opts.PosterDir != "" {
		r.writePlain("  Posters: %d downloaded, %d failed, %d without poster\n",
			result.Downloaded, result.Failed, result.Skipped)
		for _, p := range result.Posters {
			if p.Error != nil {
				r.writePlain("  ✗ %s: %v\n", p.Title, p.Error)
			}
		}
	}
	return nil
}

// WatchlistHistory shows when the watchlist slot was last written. Only the sqlite backend keeps history.
func (r *Runner) WatchlistHistory(ctx context.Context, cmd *cli.Command) error {
	if r.config.Watchlist.Backend != shared.BackendSQLite {
		return fmt.Errorf("%w: history requires the %q watchlist backend, configured %q",
			shared.ErrServiceUnavailable, shared.BackendSQLite, r.config.Watchlist.Backend)
	}

	if _, err := r.openBackend(ctx); err != nil {
		return err
	}
	if r.slots == nil {
		return fmt.Errorf("%w: slot history is not available", shared.ErrServiceUnavailable)
	}

	writes, err := r.slots.History(r.config.Watchlist.Slot, int(cmd.Int("limit")))
	if err != nil {
		return err
	}

	if len(writes) == 0 {
		r.writePlain("No writes recorded for %s\n", r.config.Watchlist.Slot)
		return nil
	}

	r.writePlainHeader(fmt.Sprintf("History of %s", r.config.Watchlist.Slot))
	for _, w := range writes {
		r.writePlain("%s  %6d bytes\n", w.WrittenAt.Local().Format("2006-01-02 15:04:05"), w.Size)
	}
	return nil
}
