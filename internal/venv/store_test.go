// ABOUTME: Tests for the active-venv state store
// ABOUTME: Deduplication under normalization, notification order, no replay

package venv

import (
	"sync"
	"testing"
)

func TestStateStore_StartsEmpty(t *testing.T) {
	t.Parallel()

	store := NewStateStore("/ws")
	if got := store.Current(); got != "" {
		t.Errorf("Current() = %q, want empty", got)
	}
}

func TestStateStore_SetAndNotify(t *testing.T) {
	t.Parallel()

	store := NewStateStore("/ws")
	var events []string
	store.Subscribe(func(p string) { events = append(events, p) })

	store.SetCurrent("/ws/envA")

	if got := store.Current(); got != "/ws/envA" {
		t.Errorf("Current() = %q, want %q", got, "/ws/envA")
	}
	if len(events) != 1 || events[0] != "/ws/envA" {
		t.Errorf("events = %v, want one %q", events, "/ws/envA")
	}
}

func TestStateStore_DedupExactRepeat(t *testing.T) {
	t.Parallel()

	store := NewStateStore("/ws")
	var count int
	store.Subscribe(func(string) { count++ })

	store.SetCurrent("/ws/envA")
	store.SetCurrent("/ws/envA")

	if count != 1 {
		t.Errorf("notified %d times, want 1", count)
	}
}

func TestStateStore_DedupNormalizedVariants(t *testing.T) {
	t.Parallel()

	store := NewStateStore("/ws")
	var count int
	store.Subscribe(func(string) { count++ })

	store.SetCurrent("/ws/envA")
	store.SetCurrent("/ws/envA/") // trailing separator
	store.SetCurrent("envA")      // relative to root

	if count != 1 {
		t.Errorf("notified %d times, want 1", count)
	}
	// The stored value is whatever the first effective set supplied.
	if got := store.Current(); got != "/ws/envA" {
		t.Errorf("Current() = %q, want %q", got, "/ws/envA")
	}
}

func TestStateStore_ClearNotifiesOnce(t *testing.T) {
	t.Parallel()

	store := NewStateStore("/ws")
	store.SetCurrent("/ws/envA")

	var events []string
	store.Subscribe(func(p string) { events = append(events, p) })

	store.SetCurrent("")
	store.SetCurrent("") // already empty, no event

	if len(events) != 1 || events[0] != "" {
		t.Errorf("events = %v, want one empty event", events)
	}
}

func TestStateStore_NoReplayOnSubscribe(t *testing.T) {
	t.Parallel()

	store := NewStateStore("/ws")
	store.SetCurrent("/ws/envA")

	called := false
	store.Subscribe(func(string) { called = true })

	if called {
		t.Error("subscriber must not receive the current value at subscribe time")
	}
}

func TestStateStore_NotifiesInRegistrationOrder(t *testing.T) {
	t.Parallel()

	store := NewStateStore("/ws")
	var order []int
	store.Subscribe(func(string) { order = append(order, 1) })
	store.Subscribe(func(string) { order = append(order, 2) })
	store.Subscribe(func(string) { order = append(order, 3) })

	store.SetCurrent("/ws/envA")

	want := []int{1, 2, 3}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %d, want %d", i, order[i], want[i])
		}
	}
}

func TestStateStore_Unsubscribe(t *testing.T) {
	t.Parallel()

	store := NewStateStore("/ws")
	var count int
	unsub := store.Subscribe(func(string) { count++ })

	store.SetCurrent("/ws/envA")
	unsub()
	store.SetCurrent("/ws/envB")

	if count != 1 {
		t.Errorf("notified %d times, want 1", count)
	}
}

func TestStateStore_ConcurrentSetsKeepNotificationOrder(t *testing.T) {
	t.Parallel()

	store := NewStateStore("/ws")
	var mu sync.Mutex
	var last string
	store.Subscribe(func(p string) {
		mu.Lock()
		last = p
		mu.Unlock()
	})

	paths := []string{"/ws/a", "/ws/b", "/ws/c", ""}
	var wg sync.WaitGroup
	for i := range 200 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.SetCurrent(paths[i%len(paths)])
		}()
	}
	wg.Wait()

	// Batches are serialized whole, so the last delivered notification
	// always matches the final state.
	mu.Lock()
	defer mu.Unlock()
	if cur := store.Current(); last != cur {
		t.Errorf("last notification %q, state %q; notification batches interleaved", last, cur)
	}
}

func TestStateStore_PanickingSubscriberDoesNotBlockOthers(t *testing.T) {
	t.Parallel()

	store := NewStateStore("/ws")
	var reached bool
	store.Subscribe(func(string) { panic("listener bug") })
	store.Subscribe(func(string) { reached = true })

	store.SetCurrent("/ws/envA")

	if !reached {
		t.Error("second subscriber not notified after first panicked")
	}
	if got := store.Current(); got != "/ws/envA" {
		t.Errorf("Current() = %q after panic, want %q", got, "/ws/envA")
	}
}
