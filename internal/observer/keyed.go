package observer

import "sync"

// KeyedEvent routes values to listeners registered for a specific key,
// plus listeners that want every key.
type KeyedEvent[K comparable, T any] struct {
	mu    sync.Mutex
	byKey map[K]*Event[T]
	any   Event[Keyed[K, T]]
}

// Keyed pairs a key with the triggered value for catch-all listeners.
type Keyed[K comparable, T any] struct {
	Key   K
	Value T
}

// Add registers fn for key.
func (e *KeyedEvent[K, T]) Add(key K, fn func(T)) Subscription {
	e.mu.Lock()
	if e.byKey == nil {
		e.byKey = make(map[K]*Event[T])
	}
	ev, ok := e.byKey[key]
	if !ok {
		ev = &Event[T]{}
		e.byKey[key] = ev
	}
	e.mu.Unlock()
	return ev.Add(fn)
}

// AddAny registers fn for every key.
func (e *KeyedEvent[K, T]) AddAny(fn func(K, T)) Subscription {
	return e.any.Add(func(k Keyed[K, T]) { fn(k.Key, k.Value) })
}

// Trigger calls the listeners of key, then the catch-all listeners.
func (e *KeyedEvent[K, T]) Trigger(key K, v T) {
	e.mu.Lock()
	ev := e.byKey[key]
	e.mu.Unlock()

	if ev != nil {
		ev.Trigger(v)
	}
	e.any.Trigger(Keyed[K, T]{Key: key, Value: v})
}

// Has reports whether key has at least one dedicated listener.
func (e *KeyedEvent[K, T]) Has(key K) bool {
	e.mu.Lock()
	ev := e.byKey[key]
	e.mu.Unlock()
	return ev != nil && ev.Len() > 0
}
