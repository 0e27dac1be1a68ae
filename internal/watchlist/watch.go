package watchlist

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce collapses the burst of events one replace produces into a single callback.
const watchDebounce = 100 * time.Millisecond

// Watch calls fn whenever the slot file under b is created, written or renamed into place.
//
// The directory is watched rather than the file because [FileBackend.SetText] replaces the file. Watch returns once the
// watcher is registered; events are delivered from a background goroutine until ctx is done.
func Watch(ctx context.Context, b *FileBackend, slot string, fn func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := w.Add(b.Dir()); err != nil {
		w.Close()
		return fmt.Errorf("failed to watch %s: %w", b.Dir(), err)
	}

	target := filepath.Clean(b.Path(slot))

	go func() {
		defer w.Close()

		var (
			mu    sync.Mutex
			timer *time.Timer
		)
		schedule := func() {
			mu.Lock()
			defer mu.Unlock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, func() {
				if ctx.Err() == nil {
					fn()
				}
			})
		}
		defer func() {
			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			mu.Unlock()
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
					continue
				}
				schedule()
			case _, ok := <-w.Errors:
				if !ok {
					return
				}
				// Dropped events (queue overflow) may have included the slot.
				schedule()
			}
		}
	}()

	return nil
}
