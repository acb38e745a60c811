// Package observer provides typed events with explicit subscription handles.
//
// Every Add returns a [Subscription]; dropping a listener is done through
// that handle rather than by comparing function values. Triggering iterates
// over a copy of the listener list, so listeners may subscribe or
// unsubscribe while an event is being delivered.
package observer

import "sync"

// Subscription detaches one listener. The zero value is a no-op.
type Subscription struct {
	cancel func()
}

// Unsubscribe removes the listener. Calling it more than once is safe.
func (s Subscription) Unsubscribe() {
	if s.cancel != nil {
		s.cancel()
	}
}

// Subscriptions collects handles so an owner can release them together.
type Subscriptions []Subscription

func (s *Subscriptions) Add(sub Subscription) {
	*s = append(*s, sub)
}

// UnsubscribeAll releases every handle and empties the list.
func (s *Subscriptions) UnsubscribeAll() {
	for _, sub := range *s {
		sub.Unsubscribe()
	}
	*s = nil
}

type listener[T any] struct {
	id int64
	fn func(T)
}

// Event delivers values of type T to its listeners in registration order.
// The zero value is ready to use.
type Event[T any] struct {
	mu        sync.Mutex
	nextID    int64
	listeners []listener[T]
}

// Add registers fn.
func (e *Event[T]) Add(fn func(T)) Subscription {
	e.mu.Lock()
	e.nextID++
	id := e.nextID
	e.listeners = append(e.listeners, listener[T]{id: id, fn: fn})
	e.mu.Unlock()

	var once sync.Once
	return Subscription{cancel: func() {
		once.Do(func() { e.remove(id) })
	}}
}

// AddOnce registers fn for the next trigger only.
func (e *Event[T]) AddOnce(fn func(T)) Subscription {
	var sub Subscription
	sub = e.Add(func(v T) {
		sub.Unsubscribe()
		fn(v)
	})
	return sub
}

func (e *Event[T]) remove(id int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, l := range e.listeners {
		if l.id == id {
			e.listeners = append(e.listeners[:i:i], e.listeners[i+1:]...)
			return
		}
	}
}

// Trigger calls every listener registered at the time of the call.
func (e *Event[T]) Trigger(v T) {
	e.mu.Lock()
	snapshot := make([]listener[T], len(e.listeners))
	copy(snapshot, e.listeners)
	e.mu.Unlock()

	for _, l := range snapshot {
		l.fn(v)
	}
}

// Len returns the number of listeners.
func (e *Event[T]) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners)
}

// Clear drops every listener.
func (e *Event[T]) Clear() {
	e.mu.Lock()
	e.listeners = nil
	e.mu.Unlock()
}
