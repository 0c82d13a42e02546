// ABOUTME: Single source of truth for the currently active virtual environment
// ABOUTME: Normalized-path deduplication and ordered synchronous notification

package venv

import (
	"sync"

	"github.com/ruyisdk/ruyi-tui/internal/eventbus"
)

// StateStore holds the one active-venv path for the session. The empty
// string means no venv is active. The stored value may point at a
// directory that no longer exists: scans and activation are independent,
// and a removed venv stays "active" until deactivated or the shell closes.
type StateStore struct {
	root string // workspace root used to normalize relative paths

	// setMu serializes whole compare+set+notify batches so that
	// notification order always matches state-change order. Listeners
	// must not call SetCurrent from their handler.
	setMu sync.Mutex

	mu      sync.Mutex // guards current for lock-free-ish reads
	current string
	bus     *eventbus.Bus[string]
}

// NewStateStore creates an empty store whose relative paths resolve
// against root.
func NewStateStore(root string) *StateStore {
	return &StateStore{
		root: root,
		bus:  eventbus.New[string](),
	}
}

// Current returns the active venv path as last set, or "" when none.
func (s *StateStore) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// SetCurrent records the active venv path ("" deactivates). A value that
// normalizes to the stored one is dropped without notification; this
// deduplication is what keeps shell-watcher updates and UI-driven updates
// from feeding back into each other. On an effective change, subscribers
// are notified synchronously in registration order with the new
// caller-supplied value.
//
// Concurrent calls are serialized as whole batches: the state change and
// its notification round complete before the next call's begin, so the
// last notification delivered always matches Current(). Callers arrive
// from several goroutines here (controller commands, the shell watcher,
// the session exit handler).
func (s *StateStore) SetCurrent(path string) {
	s.setMu.Lock()
	defer s.setMu.Unlock()

	s.mu.Lock()
	if SamePath(s.current, path, s.root) {
		s.mu.Unlock()
		return
	}
	s.current = path
	s.mu.Unlock()

	s.bus.Publish(path)
}

// Subscribe registers a listener for subsequent changes and returns an
// unsubscribe function. The current value is never replayed. A listener
// that panics is logged and does not prevent the others from running;
// unsubscribing during notification is safe.
func (s *StateStore) Subscribe(fn func(path string)) func() {
	return s.bus.Subscribe(fn)
}
