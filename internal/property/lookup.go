package property

import (
	"sort"
	"strings"

	"github.com/MKhiriev/go-sync-framework/internal/observer"
)

// LookupHost is the entity a Lookup adds its properties to.
type LookupHost interface {
	PropertySet() *Set
	AddStorageProperty(p Prop) Prop
	NotifyOnReady(fn func())
	OnStoreKeyUpdated(fn func(key string)) observer.Subscription
	StoreKeys() []string
}

// Lookup manages a dynamic family of same-typed properties whose store keys
// share a prefix, such as per-user scores. Every store key with the prefix
// gets a property, whether it was added locally or by another peer.
type Lookup[T any] struct {
	host   LookupHost
	prefix string
	kind   Kind[T]
	props  map[string]*Property[T]
	sub    observer.Subscription

	// OnChange fires with the unprefixed key whenever one of the properties
	// changes, and once when a property is added.
	OnChange observer.KeyedEvent[string, Change[T]]
}

// NewLookup binds a lookup to host.
func NewLookup[T any](host LookupHost, prefix string, kind Kind[T]) *Lookup[T] {
	l := &Lookup[T]{
		host:   host,
		prefix: prefix,
		kind:   kind,
		props:  make(map[string]*Property[T]),
	}
	l.sub = host.OnStoreKeyUpdated(func(key string) { l.checkAddStoreValue(key) })
	host.NotifyOnReady(func() {
		for _, key := range host.StoreKeys() {
			l.checkAddStoreValue(key)
		}
	})
	return l
}

// AddProperty returns the property for key, creating it with start as its
// pending value if needed.
func (l *Lookup[T]) AddProperty(key string, start T) *Property[T] {
	if p, ok := l.props[key]; ok {
		return p
	}
	full := l.prefix + key
	if existing, ok := l.host.PropertySet().GetProperty(full); ok {
		if p, ok := existing.(*Property[T]); ok {
			l.props[key] = p
			return p
		}
	}

	p := Manual(full, l.kind, start)
	l.host.AddStorageProperty(p)
	l.props[key] = p
	p.OnAnyChange.Add(func(c Change[T]) { l.OnChange.Trigger(key, c) })

	v, _ := p.CurrentValue()
	l.OnChange.Trigger(key, Change[T]{Value: v})
	return p
}

// GetProperty returns the property for the unprefixed key.
func (l *Lookup[T]) GetProperty(key string) (*Property[T], bool) {
	p, ok := l.props[key]
	return p, ok
}

// Keys returns the unprefixed keys known to the lookup, sorted.
func (l *Lookup[T]) Keys() []string {
	out := make([]string, 0, len(l.props))
	for k := range l.props {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Close stops following store updates.
func (l *Lookup[T]) Close() { l.sub.Unsubscribe() }

func (l *Lookup[T]) checkAddStoreValue(storeKey string) {
	if !strings.HasPrefix(storeKey, l.prefix) {
		return
	}
	var start T
	l.AddProperty(strings.TrimPrefix(storeKey, l.prefix), start)
}
