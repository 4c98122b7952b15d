// Package confwatch reloads dynamic settings when the config file changes.
//
// The tail engine itself is pure polling; fsnotify is used only here, to
// pick up edits to the TOML config without restarting the agent. Changes
// are debounced because editors typically fire several events per save.
package confwatch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/logtail/internal/ports"
)

// DefaultDebounceDelay is the wait after a change before reloading.
const DefaultDebounceDelay = 100 * time.Millisecond

// Watcher monitors one config file via fsnotify and invokes a reload
// callback after edits settle.
type Watcher struct {
	path     string
	onChange func()
	logger   ports.Logger

	debounceDelay time.Duration

	mu       sync.Mutex
	debounce *time.Timer
}

// New creates a watcher for the given config file path. onChange runs on
// the watcher goroutine after each (debounced) modification.
func New(path string, onChange func(), logger ports.Logger) *Watcher {
	return &Watcher{
		path:          path,
		onChange:      onChange,
		logger:        logger,
		debounceDelay: DefaultDebounceDelay,
	}
}

// Run watches the config file's directory until the context is done.
// Watching the directory rather than the file survives the
// write-temp-then-rename pattern editors and config management tools use.
func (w *Watcher) Run(ctx context.Context) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.logger.Error("config watcher: create failed", ports.Err(err))
		return
	}
	defer watcher.Close()

	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		w.logger.Error("config watcher: watch failed",
			ports.String("dir", dir), ports.Err(err))
		return
	}

	w.logger.Info("watching config file", ports.String("path", w.path))

	for {
		select {
		case <-ctx.Done():
			w.stopDebounce()
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.scheduleReload()

		case werr, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher: error", ports.Err(werr))
		}
	}
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(w.debounceDelay, func() {
		w.logger.Info("config file changed, reloading", ports.String("path", w.path))
		w.onChange()
	})
}

func (w *Watcher) stopDebounce() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.debounce != nil {
		w.debounce.Stop()
	}
}
