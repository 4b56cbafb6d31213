// Package watcher re-runs a callback when the shared fragments change.
package watcher

import (
	"context"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when a zero debounce is configured.
const DefaultDebounce = 300 * time.Millisecond

// Handler is called once per settled burst of fragment changes with the
// base names of the fragments that changed.
type Handler func(ctx context.Context, changed []string)

// Watch starts an fsnotify watcher on dir and calls h after each burst of
// writes to one of the named files has been quiet for debounce. Other files
// in dir are ignored. Watch returns when ctx is cancelled.
//
// Editors that save through a rename produce a Create for the target name,
// which is handled like a Write.
func Watch(ctx context.Context, dir string, names []string, debounce time.Duration, logger *slog.Logger, h Handler) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return err
	}

	watched := make(map[string]struct{}, len(names))
	for _, n := range names {
		watched[filepath.Base(n)] = struct{}{}
	}

	logger.Info("watcher: started", slog.String("dir", dir), slog.Any("files", names))

	var timer *time.Timer
	var fire <-chan time.Time
	pending := make(map[string]struct{})

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			fire = timer.C
			return
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(debounce)
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-fire:
			changed := make([]string, 0, len(pending))
			for n := range pending {
				changed = append(changed, n)
			}
			sort.Strings(changed)
			clear(pending)
			logger.Debug("watcher: fragments changed", slog.Any("files", changed))
			h(ctx, changed)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			name := filepath.Base(ev.Name)
			if _, ok := watched[name]; !ok {
				continue
			}
			pending[name] = struct{}{}
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
