package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces the burst of events editors emit for one save.
// watchMaxWait caps how long a steady stream of writes can hold off fn.
const (
	watchDebounce = 100 * time.Millisecond
	watchMaxWait  = time.Second
)

// watchFile calls fn whenever path is written or replaced, until ctx is
// cancelled. The parent directory is watched so atomic renames are seen.
// Errors from fn are reported through onErr and do not stop the watch.
func watchFile(ctx context.Context, path string, fn func() error, onErr func(error)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("input watcher: %w", err)
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("input watcher add %s: %w", path, err)
	}

	var (
		timer   <-chan time.Time
		pending time.Time // first event not yet handled by fn
	)
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if pending.IsZero() {
				pending = time.Now()
			}
			timer = time.After(min(watchDebounce, watchMaxWait-time.Since(pending)))
		case <-timer:
			timer = nil
			pending = time.Time{}
			if err := fn(); err != nil {
				onErr(err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			onErr(err)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
