// ABOUTME: Typed event bus with ordered subscriber delivery
// ABOUTME: Handlers run synchronously in registration order; panics recovered per handler

package eventbus

import (
	"sync"

	"github.com/ruyisdk/ruyi-tui/internal/log"
)

// Handler is a callback function for events.
type Handler[T any] func(T)

type subscriber[T any] struct {
	id int
	fn Handler[T]
}

// Bus is a typed event bus that delivers events to registered handlers.
// Delivery order is registration order, which the venv state contracts
// rely on; this is a guarantee, not an accident of implementation.
type Bus[T any] struct {
	mu     sync.Mutex
	subs   []subscriber[T]
	nextID int
}

// New creates a new event bus.
func New[T any]() *Bus[T] {
	return &Bus[T]{}
}

// Subscribe registers a handler and returns an unsubscribe function.
// Subscribing never replays past events.
func (b *Bus[T]) Subscribe(handler Handler[T]) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs = append(b.subs, subscriber[T]{id: id, fn: handler})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				break
			}
		}
		b.mu.Unlock()
	}
}

// Publish delivers an event to every handler registered at call time,
// synchronously and in registration order. Unsubscribing during delivery
// affects later publishes only (delivery iterates a snapshot). A panicking
// handler is logged and does not stop delivery to the remaining handlers.
func (b *Bus[T]) Publish(event T) {
	b.mu.Lock()
	snapshot := make([]subscriber[T], len(b.subs))
	copy(snapshot, b.subs)
	b.mu.Unlock()

	for _, s := range snapshot {
		deliver(s.fn, event)
	}
}

// Count returns the number of registered handlers.
func (b *Bus[T]) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

func deliver[T any](fn Handler[T], event T) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("eventbus: handler panicked: %v", r)
		}
	}()
	fn(event)
}
