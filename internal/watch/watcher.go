package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"csuite/pkg/logging"
)

const watchSubsystem = "Watcher"

// DefaultDebounce is how long to wait for further changes before reacting.
const DefaultDebounce = 500 * time.Millisecond

// Watcher calls a function whenever a single file changes. Bursts of events,
// as produced by editors that write in several steps, are collapsed into one
// call.
type Watcher struct {
	path     string
	debounce time.Duration
	onChange func(ctx context.Context) error
}

// New creates a watcher for path. A zero debounce uses DefaultDebounce.
func New(path string, debounce time.Duration, onChange func(ctx context.Context) error) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		path:     filepath.Clean(path),
		debounce: debounce,
		onChange: onChange,
	}
}

// Run watches until ctx is done. Errors from the callback are logged and do
// not stop the watcher; it returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fsw.Close()

	// Watch the directory so that replace-by-rename saves are seen too.
	dir := filepath.Dir(w.path)
	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	logging.Info(watchSubsystem, "Watching %s for changes", w.path)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.Debug(watchSubsystem, "Stopped watching %s", w.path)
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			logging.Debug(watchSubsystem, "Change detected: %s", event)
			timer.Reset(w.debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logging.Error(watchSubsystem, err, "File watcher error")

		case <-timer.C:
			if err := w.onChange(ctx); err != nil {
				logging.Error(watchSubsystem, err, "Handling change of %s failed", w.path)
			}
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Op&(fsnotify.Create|fsnotify.Write) != 0
}
