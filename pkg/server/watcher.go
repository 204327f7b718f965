package server

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"urlcopier/pkg/logger"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce groups the burst of writes a single save produces.
const DefaultDebounce = 250 * time.Millisecond

// StoreWatcher calls OnChange after the store file, or its journal, has
// been written and stayed quiet for the debounce delay.
type StoreWatcher struct {
	path     string
	delay    time.Duration
	onChange func()

	watcher *fsnotify.Watcher
	mu      sync.Mutex
	timer   *time.Timer
}

func NewStoreWatcher(path string, delay time.Duration, onChange func()) (*StoreWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	// The directory is watched; SQLite replaces journal files next to the
	// database rather than writing through one handle.
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &StoreWatcher{path: path, delay: delay, onChange: onChange, watcher: w}, nil
}

// Run delivers change notifications until ctx is done.
func (sw *StoreWatcher) Run(ctx context.Context) error {
	defer sw.stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-sw.watcher.Events:
			if !ok {
				return nil
			}
			if sw.relevant(event) {
				sw.schedule()
			}
		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("Store watcher error")
		}
	}
}

func (sw *StoreWatcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	// templates.db, templates.db-wal, templates.db-journal
	return strings.HasPrefix(filepath.Base(event.Name), filepath.Base(sw.path))
}

func (sw *StoreWatcher) schedule() {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	if sw.timer != nil {
		sw.timer.Stop()
	}
	sw.timer = time.AfterFunc(sw.delay, sw.onChange)
}

func (sw *StoreWatcher) stop() {
	sw.mu.Lock()
	if sw.timer != nil {
		sw.timer.Stop()
	}
	sw.mu.Unlock()
	sw.watcher.Close()
}
