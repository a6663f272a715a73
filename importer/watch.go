package importer

import (
	"context"
	"errors"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Bursts of files landing together are collapsed into one run.
const watchDebounce = 2 * time.Second

// Watch blocks, triggering an import run whenever files land in the spool
// directory and at every fallback interval. It returns when ctx is
// cancelled or the watcher breaks. An overlapping trigger while a run is
// in flight is dropped; whatever it would have picked up is caught by the
// next one.
func (r *Runner) Watch(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Minute
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(r.cfg.SpoolDir); err != nil {
		return err
	}

	run := func() {
		if err := r.RunOnce(); err != nil && !errors.Is(err, ErrImportRunning) {
			r.log.Critical("import run failed", "error", err.Error())
		}
	}

	// Catch up on whatever is already spooled before waiting for events.
	run()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var debounce *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) {
				if debounce == nil {
					debounce = time.NewTimer(watchDebounce)
					fire = debounce.C
				} else {
					debounce.Reset(watchDebounce)
				}
			}
		case <-fire:
			debounce = nil
			fire = nil
			run()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			r.log.Error("spool watcher error", "error", err.Error())
		case <-ticker.C:
			run()
		}
	}
}
