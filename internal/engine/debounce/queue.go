// Package debounce provides a per-key debounce primitive with cancellation.
package debounce

import (
	"sync"
	"time"
)

type ticket struct {
	timer   *time.Timer
	resolve func(settled bool)
}

// Queue coalesces bursts of ticks on the same key.
//
// Each key has at most one outstanding ticket. A new tick on a key resolves
// the previous ticket false and stops its timer, so of n rapid ticks only the
// last one resolves true. Different keys never affect each other. Callers that
// debounce unrelated things (paths and targets, for example) must use
// separate queues.
type Queue[K comparable] struct {
	mu      sync.Mutex
	tickets map[K]*ticket
	closed  bool
}

// New creates an empty Queue.
func New[K comparable]() *Queue[K] {
	return &Queue[K]{tickets: make(map[K]*ticket)}
}

// Tick arms a ticket for key that settles after delay. The returned channel
// receives exactly one value: true if the ticket settled, false if a later
// tick on the same key superseded it or the queue was closed.
func (q *Queue[K]) Tick(key K, delay time.Duration) <-chan bool {
	ch := make(chan bool, 1)
	q.TickFunc(key, delay, func(settled bool) { ch <- settled })
	return ch
}

// TickFunc is the callback form of Tick. fn is called exactly once.
// fn(true) runs on the timer goroutine; fn(false) runs on the goroutine
// whose Tick or Close superseded the ticket. The queue lock is not held
// while fn runs.
func (q *Queue[K]) TickFunc(key K, delay time.Duration, fn func(settled bool)) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		fn(false)
		return
	}

	prev := q.tickets[key]
	if prev != nil {
		prev.timer.Stop()
	}

	t := &ticket{resolve: fn}
	q.tickets[key] = t
	t.timer = time.AfterFunc(delay, func() { q.fire(key, t) })
	q.mu.Unlock()

	if prev != nil {
		prev.resolve(false)
	}
}

// fire settles t unless it was superseded after its timer expired.
func (q *Queue[K]) fire(key K, t *ticket) {
	q.mu.Lock()
	if q.tickets[key] != t {
		q.mu.Unlock()
		return
	}
	delete(q.tickets, key)
	q.mu.Unlock()

	t.resolve(true)
}

// Pending returns the number of keys with an outstanding ticket.
func (q *Queue[K]) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tickets)
}

// Close resolves every outstanding ticket false. Ticks after Close resolve
// false immediately.
func (q *Queue[K]) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	pending := make([]*ticket, 0, len(q.tickets))
	for key, t := range q.tickets {
		t.timer.Stop()
		pending = append(pending, t)
		delete(q.tickets, key)
	}
	q.mu.Unlock()

	for _, t := range pending {
		t.resolve(false)
	}
}
