// Package event is a synchronous, ordered publisher used by domain objects to notify
// views of changes.
package event

import (
	"sync"
	"sync/atomic"
)

// Subscription identifies one Watch call.
type Subscription struct {
	id     uint64
	active atomic.Bool
}

// Active reports whether the subscription has not been unwatched. It is safe to call
// from any goroutine.
func (s *Subscription) Active() bool {
	return s != nil && s.active.Load()
}

type subscriber[T any] struct {
	sub *Subscription
	fn  func(T)
}

// Event fires callbacks in registration order. Fire iterates a snapshot of the
// subscriber list, so callbacks may Watch or Unwatch (themselves or others) while it
// runs. A callback unwatched during a fire is not invoked afterwards; one watched during
// a fire is first invoked by the next fire.
//
// The zero value is ready to use.
type Event[T any] struct {
	mu     sync.Mutex
	nextID uint64
	subs   []subscriber[T]
}

func (e *Event[T]) Watch(fn func(T)) *Subscription {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.nextID++
	sub := &Subscription{id: e.nextID}
	sub.active.Store(true)
	e.subs = append(e.subs, subscriber[T]{sub: sub, fn: fn})
	return sub
}

// Unwatch removes sub and reports whether it was registered on e.
func (e *Event[T]) Unwatch(sub *Subscription) bool {
	if sub == nil {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for i, s := range e.subs {
		if s.sub != sub {
			continue
		}
		sub.active.Store(false)
		// copy so a snapshot held by a running Fire is not mutated
		next := make([]subscriber[T], 0, len(e.subs)-1)
		next = append(next, e.subs[:i]...)
		e.subs = append(next, e.subs[i+1:]...)
		return true
	}
	return false
}

func (e *Event[T]) Fire(v T) {
	e.mu.Lock()
	snapshot := e.subs
	e.mu.Unlock()

	for _, s := range snapshot {
		if !s.sub.Active() {
			continue
		}
		s.fn(v)
	}
}

// Len is the number of live subscriptions.
func (e *Event[T]) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.subs)
}
