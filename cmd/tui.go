package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/kinox/internal/services"
	"github.com/desertthunder/kinox/internal/shared"
	"github.com/desertthunder/kinox/internal/ui"
	"github.com/desertthunder/kinox/internal/watchlist"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive movie explorer.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Log.File)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, r.logger.GetLevel())
	r.SetLogger(fileLogger)

	catalog, err := r.catalogService()
	if err != nil {
		return err
	}

	store, err := r.watchlistStore(ctx)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	changes, err := r.watchChanges(ctx, store)
	if err != nil {
		r.logger.Warn("watchlist changes from other processes will not be shown", "error", err)
	}

	model := ui.NewModel(ctx, ui.Options{
		Catalog:   services.NewCatalogClient(catalog, r.logger),
		Watchlist: store,
		Images:    r.images(),
		Logger:    r.logger,
		Changes:   changes,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// watchChanges reports replacements of the watchlist file made by other kinox processes. Backends other than file
// have nothing to watch and yield a nil channel.
func (r *Runner) watchChanges(ctx context.Context, store *watchlist.Store) (<-chan struct{}, error) {
	fb, ok := r.backend.(*watchlist.FileBackend)
	if !ok {
		return nil, nil
	}

	changes := make(chan struct{}, 1)
	err := watchlist.Watch(ctx, fb, store.Slot(), func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	})
	if err != nil {
		return nil, err
	}
	return changes, nil
}
