package property

import (
	"fmt"

	"github.com/MKhiriev/go-sync-framework/internal/logger"
	"github.com/MKhiriev/go-sync-framework/internal/realtime"
	"github.com/MKhiriev/go-sync-framework/models"
)

// Set is the collection of properties belonging to one entity. Properties
// are visited in the order they were added.
type Set struct {
	props  map[string]Prop
	order  []string
	logger *logger.Logger
}

// NewSet creates a set holding props.
func NewSet(log *logger.Logger, props ...Prop) *Set {
	if log == nil {
		log = logger.Nop()
	}
	s := &Set{props: make(map[string]Prop), logger: log}
	for _, p := range props {
		s.AddProperty(p)
	}
	return s
}

// SetLogger replaces the logger of the set and of every property in it.
func (s *Set) SetLogger(log *logger.Logger) {
	s.logger = log
	for _, p := range s.props {
		p.setLogger(log)
	}
}

// AddProperty adds p. A key that is already taken is renamed to
// key_<n> with a warning, n starting at the size of the set and growing
// until the key is free.
func (s *Set) AddProperty(p Prop) Prop {
	if _, taken := s.props[p.Key()]; taken {
		old := p.Key()
		for n := len(s.props); ; n++ {
			key := fmt.Sprintf("%s_%d", old, n)
			if _, taken = s.props[key]; !taken {
				p.setKey(key)
				break
			}
		}
		s.logger.Warn().Str("key", old).Str("renamed_to", p.Key()).Msg("duplicate storage key")
	}
	p.setLogger(s.logger)
	s.props[p.Key()] = p
	s.order = append(s.order, p.Key())
	return p
}

func (s *Set) GetProperty(key string) (Prop, bool) {
	p, ok := s.props[key]
	return p, ok
}

// Properties returns the properties in insertion order.
func (s *Set) Properties() []Prop {
	out := make([]Prop, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, s.props[k])
	}
	return out
}

func (s *Set) Len() int { return len(s.props) }

// ApplyKeyUpdate applies the store value under key to the matching property.
// Keys without a property are ignored.
func (s *Set) ApplyKeyUpdate(store realtime.DataStore, key string, clearPending, dontTriggerEvents bool, info *models.UpdateInfo) {
	p, ok := s.props[key]
	if !ok {
		return
	}
	v, ok := store.Get(key)
	if !ok {
		return
	}
	p.ApplyStoreValue(v, clearPending, dontTriggerEvents, info)
}

// InitializeFromStore applies every store key that has a property.
func (s *Set) InitializeFromStore(store realtime.DataStore, dontTriggerEvents bool) {
	for _, k := range s.order {
		if store.Has(k) {
			s.ApplyKeyUpdate(store, k, true, dontTriggerEvents, nil)
		}
	}
}

// CheckForChanges promotes local changes and writes the changed properties
// to store. All properties share one timestamp. It reports whether anything
// was written.
func (s *Set) CheckForChanges(store realtime.DataStore, timestamp float64) bool {
	changed := false
	for _, k := range s.order {
		p := s.props[k]
		if p.CheckLocalValueChanged(timestamp) {
			p.PutCurrentValue(store, timestamp)
			changed = true
		}
	}
	return changed
}

// SmoothingUpdate plays back buffered values for every smoothed property.
func (s *Set) SmoothingUpdate(timestamp float64) {
	for _, k := range s.order {
		if p := s.props[k]; p.HasSmoothing() {
			p.ApplySnapshotSmoothing(timestamp)
		}
	}
}

// ApplyFrameUpdates is the per-frame step of a peer that cannot write the
// store: smoothed properties are interpolated, the rest are optionally
// forced back to the store value without firing events.
func (s *Set) ApplyFrameUpdates(serverTime float64, forceUpdateValues bool, store realtime.DataStore) {
	for _, k := range s.order {
		p := s.props[k]
		switch {
		case p.HasSmoothing():
			p.ApplySnapshotSmoothing(serverTime)
		case forceUpdateValues && store.Has(k):
			s.ApplyKeyUpdate(store, k, true, true, nil)
		}
	}
}

// ForceWriteState writes every property that has a current value.
func (s *Set) ForceWriteState(store realtime.DataStore, timestamp float64) {
	for _, k := range s.order {
		if p := s.props[k]; p.HasCurrentValue() {
			p.PutCurrentValue(store, timestamp)
		}
	}
}
