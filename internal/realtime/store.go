// Package realtime holds the replicated key-value store as seen by one peer.
//
// A [Store] is a replica: writes go through the substrate's [Writer] first
// and only land locally once the substrate accepts them, while updates from
// other peers are applied with the Apply* methods by the substrate itself.
package realtime

import (
	"fmt"
	"sort"
	"sync"

	"github.com/MKhiriev/go-sync-framework/models"
)

// DataStore is the key-value surface property sets read from and write to.
//
//go:generate mockgen -source=store.go -destination=../mock/datastore_mock.go -package=mock
type DataStore interface {
	Has(key string) bool
	Get(key string) (models.Value, bool)
	Put(key string, v models.Value) error
	Keys() []string
}

// Writer forwards a local write to the substrate.
type Writer interface {
	WriteValue(store *Store, key string, v models.Value) error
}

// Store is one peer's replica of a realtime store.
type Store struct {
	mu          sync.RWMutex
	id          string
	data        map[string]models.Value
	owner       *models.UserInfo
	persistence models.Persistence
	creation    models.CreationInfo
	deleted     bool
	writer      Writer
}

// NewStore builds a replica from a snapshot. writer may be nil for a
// detached store that only accepts local writes.
func NewStore(snap models.StoreSnapshot, writer Writer) *Store {
	data := make(map[string]models.Value, len(snap.Data))
	for k, v := range snap.Data {
		data[k] = v
	}
	var owner *models.UserInfo
	if snap.Owner != nil {
		o := *snap.Owner
		owner = &o
	}
	return &Store{
		id:          snap.ID,
		data:        data,
		owner:       owner,
		persistence: snap.Persistence,
		creation:    snap.Creation,
		writer:      writer,
	}
}

// ID is the substrate identifier of the store. It is unique per store
// instance, unlike the network id which two racing peers may share.
func (s *Store) ID() string { return s.id }

// NetworkID returns the value of the reserved network id key, if present.
func (s *Store) NetworkID() string {
	v, ok := s.Get(models.NetworkIDKey)
	if !ok {
		return ""
	}
	id, _ := v.Str()
	return id
}

func (s *Store) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.data[key]
	return ok
}

func (s *Store) Get(key string) (models.Value, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok
}

// Keys returns the keys in sorted order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.data)
}

// Put writes v under key. The write is validated and sent to the substrate
// first; it is applied locally only if the substrate accepts it.
func (s *Store) Put(key string, v models.Value) error {
	if !v.Type().Valid() {
		return fmt.Errorf("put %q: %w: %q", key, models.ErrUnsupportedValueType, v.Type())
	}
	if s.IsDeleted() {
		return fmt.Errorf("put %q: %w", key, ErrStoreDeleted)
	}
	if s.writer != nil {
		if err := s.writer.WriteValue(s, key, v); err != nil {
			return fmt.Errorf("put %q: %w", key, err)
		}
	}
	s.mu.Lock()
	s.data[key] = v
	s.mu.Unlock()
	return nil
}

// Owner returns the owning connection, or nil when the store is unowned.
func (s *Store) Owner() *models.UserInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.owner == nil {
		return nil
	}
	o := *s.owner
	return &o
}

func (s *Store) Persistence() models.Persistence {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.persistence
}

func (s *Store) CreationInfo() models.CreationInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creation
}

func (s *Store) IsDeleted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.deleted
}

// Snapshot copies the replica.
func (s *Store) Snapshot() models.StoreSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data := make(map[string]models.Value, len(s.data))
	for k, v := range s.data {
		data[k] = v
	}
	snap := models.StoreSnapshot{
		ID:          s.id,
		Data:        data,
		Persistence: s.persistence,
		Creation:    s.creation,
	}
	if s.owner != nil {
		o := *s.owner
		snap.Owner = &o
	}
	return snap
}

// ApplyUpdate stores a value written by another peer.
func (s *Store) ApplyUpdate(key string, v models.Value, serverTimeMs int64) {
	s.mu.Lock()
	s.data[key] = v
	if serverTimeMs > 0 {
		s.creation.LastUpdatedServerTimeMs = serverTimeMs
	}
	s.mu.Unlock()
}

// ApplyOwner records an ownership change. A nil owner clears ownership.
func (s *Store) ApplyOwner(owner *models.UserInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if owner == nil {
		s.owner = nil
		return
	}
	o := *owner
	s.owner = &o
}

// ApplyDeleted marks the replica as deleted; further writes fail.
func (s *Store) ApplyDeleted() {
	s.mu.Lock()
	s.deleted = true
	s.mu.Unlock()
}

// DataMap is an in-memory DataStore, used to assemble the initial contents
// of a store before it is created.
type DataMap map[string]models.Value

func (m DataMap) Has(key string) bool {
	_, ok := m[key]
	return ok
}

func (m DataMap) Get(key string) (models.Value, bool) {
	v, ok := m[key]
	return v, ok
}

func (m DataMap) Put(key string, v models.Value) error {
	if !v.Type().Valid() {
		return fmt.Errorf("put %q: %w: %q", key, models.ErrUnsupportedValueType, v.Type())
	}
	m[key] = v
	return nil
}

func (m DataMap) Keys() []string { return sortedKeys(m) }

func sortedKeys(m map[string]models.Value) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
