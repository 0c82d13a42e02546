// ABOUTME: Debounced fsnotify watcher that triggers rescans on workspace changes
// ABOUTME: Watches the root and first-level subdirectories, matching the scan depth

package venv

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ruyisdk/ruyi-tui/internal/log"
)

const defaultRescanDebounce = 500 * time.Millisecond

// RescanWatcher invokes a callback when directories appear or disappear
// under the workspace root, so the venv list stays fresh without manual
// refreshes. Events are debounced; bursts from an unpacking venv collapse
// into one rescan.
type RescanWatcher struct {
	root     string
	onChange func()
	debounce time.Duration
	watcher  *fsnotify.Watcher
	stopCh   chan struct{}
	doneCh   chan struct{}

	mu      sync.Mutex
	running bool
}

// NewRescanWatcher creates a watcher for root. onChange runs on the
// watcher goroutine after the debounce window closes.
func NewRescanWatcher(root string, onChange func()) (*RescanWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating rescan watcher: %w", err)
	}
	return &RescanWatcher{
		root:     root,
		onChange: onChange,
		debounce: defaultRescanDebounce,
		watcher:  w,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// SetDebounce overrides the default debounce window (500ms).
func (r *RescanWatcher) SetDebounce(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.debounce = d
}

// Start registers the root and its first-level subdirectories and begins
// watching. Safe to call once; subsequent calls are no-ops.
func (r *RescanWatcher) Start() error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil
	}
	r.mu.Unlock()

	if err := r.watcher.Add(r.root); err != nil {
		return fmt.Errorf("watching %s: %w", r.root, err)
	}
	entries, err := os.ReadDir(r.root)
	if err != nil {
		return fmt.Errorf("listing %s: %w", r.root, err)
	}
	for _, e := range entries {
		if !e.IsDir() || !IsSafeRelativeSegment(e.Name()) {
			continue
		}
		// Depth-2 candidates live one level down; watch those dirs too.
		// Failures here degrade freshness, nothing else.
		if err := r.watcher.Add(filepath.Join(r.root, e.Name())); err != nil {
			log.Debug("rescan watcher: %v", err)
		}
	}

	r.mu.Lock()
	r.running = true
	r.mu.Unlock()

	go r.loop()
	return nil
}

// Stop halts the watcher. Safe to call multiple times.
func (r *RescanWatcher) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	r.mu.Unlock()

	close(r.stopCh)
	<-r.doneCh
	r.watcher.Close()
}

func (r *RescanWatcher) loop() {
	defer close(r.doneCh)

	r.mu.Lock()
	debounce := r.debounce
	r.mu.Unlock()

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case ev, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if ev.Op&fsnotify.Create != 0 && filepath.Dir(ev.Name) == r.root {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					if err := r.watcher.Add(ev.Name); err != nil {
						log.Debug("rescan watcher: %v", err)
					}
				}
			}
			timer.Reset(debounce)
		case <-timer.C:
			r.onChange()
		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			log.Warn("rescan watcher: %v", err)
		case <-r.stopCh:
			return
		}
	}
}
