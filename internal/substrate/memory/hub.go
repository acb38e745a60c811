// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package memory is an in-process implementation of the session substrate.
//
// A [Hub] holds the authoritative copy of every store and the list of
// connected peers. Each [Peer] owns a scheduler loop; the hub never calls
// into a peer directly but posts notifications onto that loop, which gives
// every peer the same ordered, single-threaded view a networked transport
// would.
//
// Store lifetimes follow the persistence class:
//
//	Ephemeral  removed when the creator leaves
//	Owner      removed when the current owner leaves
//	Session    removed when the last user leaves
//	Persist    kept, and written through a StoreRepository when one is set
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MKhiriev/go-sync-framework/internal/logger"
	"github.com/MKhiriev/go-sync-framework/internal/observer"
	"github.com/MKhiriev/go-sync-framework/internal/realtime"
	"github.com/MKhiriev/go-sync-framework/internal/scheduler"
	"github.com/MKhiriev/go-sync-framework/internal/substrate"
	"github.com/MKhiriev/go-sync-framework/models"
)

// StoreRepository persists Persist-class stores across hub restarts.
//
//go:generate mockgen -source=hub.go -destination=../../mock/store_repository_mock.go -package=mock
type StoreRepository interface {
	LoadStores(ctx context.Context) ([]models.StoreSnapshot, error)
	SaveStore(ctx context.Context, snap models.StoreSnapshot) error
	DeleteStore(ctx context.Context, storeID string) error
}

type hubStore struct {
	snap     models.StoreSnapshot
	replicas map[string]*realtime.Store
}

// Hub is the shared session all peers connect to.
type Hub struct {
	mu     sync.Mutex
	clock  scheduler.Clock
	logger *logger.Logger
	repo   StoreRepository

	peers  []*Peer
	stores map[string]*hubStore
	order  []string

	dirty   map[string]struct{}
	removed map[string]struct{}

	mapBuilt bool

	events observer.Event[models.StoreEvent]
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithRepository enables persistence of Persist-class stores.
func WithRepository(repo StoreRepository) HubOption {
	return func(h *Hub) { h.repo = repo }
}

// WithClock sets the clock the session server time is read from.
func WithClock(clock scheduler.Clock) HubOption {
	return func(h *Hub) { h.clock = clock }
}

// NewHub creates an empty session.
func NewHub(log *logger.Logger, opts ...HubOption) *Hub {
	if log == nil {
		log = logger.Nop()
	}
	h := &Hub{
		clock:   scheduler.SystemClock{},
		logger:  log,
		stores:  make(map[string]*hubStore),
		dirty:   make(map[string]struct{}),
		removed: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ServerTimeMs is the session clock shared by every peer.
func (h *Hub) ServerTimeMs() int64 {
	return h.clock.Now().UnixMilli()
}

// OnEvent subscribes to every store and membership change. fn is called on
// the goroutine of the peer that caused the change and must not block.
func (h *Hub) OnEvent(fn func(models.StoreEvent)) observer.Subscription {
	return h.events.Add(fn)
}

// NewPeer registers a peer that is not yet connected. An empty connection
// id is replaced with a generated one.
func (h *Hub) NewPeer(user models.UserInfo, loop *scheduler.Loop, opts ...PeerOption) *Peer {
	if user.ConnectionID == "" {
		user.ConnectionID = uuid.NewString()
	}
	p := &Peer{
		hub:      h,
		user:     user,
		loop:     loop,
		creation: models.SessionCreationMultiplayer,
		logger:   h.logger.WithPeer(user.ConnectionID),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Peers returns the connected users in join order.
func (h *Hub) Peers() []models.UserInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]models.UserInfo, 0, len(h.peers))
	for _, p := range h.peers {
		out = append(out, p.user)
	}
	return out
}

// Peer finds a connected peer by connection id.
func (h *Hub) Peer(connectionID string) (*Peer, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, p := range h.peers {
		if p.user.ConnectionID == connectionID {
			return p, true
		}
	}
	return nil, false
}

// Stores returns the authoritative copy of every live store in creation order.
func (h *Hub) Stores() []models.StoreSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]models.StoreSnapshot, 0, len(h.order))
	for _, id := range h.order {
		out = append(out, copySnapshot(h.stores[id].snap))
	}
	return out
}

// Restore loads persisted stores. It must be called before any peer connects.
func (h *Hub) Restore(ctx context.Context) error {
	if h.repo == nil {
		return nil
	}
	snaps, err := h.repo.LoadStores(ctx)
	if err != nil {
		return fmt.Errorf("restore persisted stores: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, snap := range snaps {
		if _, ok := h.stores[snap.ID]; ok {
			continue
		}
		// the owning connection did not survive the restart
		snap.Owner = nil
		snap.Creation.OwnerInfo = nil
		h.addStoreLocked(snap)
	}
	h.logger.Info().Int("stores", len(snaps)).Msg("restored persisted stores")
	return nil
}

// FlushPersisted writes pending changes of Persist-class stores to the
// repository. It is a no-op without a repository.
func (h *Hub) FlushPersisted(ctx context.Context) error {
	if h.repo == nil {
		return nil
	}

	h.mu.Lock()
	var save []models.StoreSnapshot
	for id := range h.dirty {
		if s, ok := h.stores[id]; ok {
			save = append(save, copySnapshot(s.snap))
		}
	}
	var remove []string
	for id := range h.removed {
		remove = append(remove, id)
	}
	h.dirty = make(map[string]struct{})
	h.removed = make(map[string]struct{})
	h.mu.Unlock()

	sort.Strings(remove)
	var errs []error
	for _, id := range remove {
		if err := h.repo.DeleteStore(ctx, id); err != nil {
			h.markRemoved(id)
			errs = append(errs, fmt.Errorf("delete persisted store %s: %w", id, err))
		}
	}
	for _, snap := range save {
		if err := h.repo.SaveStore(ctx, snap); err != nil {
			h.markDirty(snap.ID)
			errs = append(errs, fmt.Errorf("save persisted store %s: %w", snap.ID, err))
		}
	}
	if len(save)+len(remove) > 0 {
		h.logger.Debug().Int("saved", len(save)).Int("deleted", len(remove)).Int("failed", len(errs)).Msg("flushed persisted stores")
	}
	return errors.Join(errs...)
}

func (h *Hub) markDirty(id string) {
	h.mu.Lock()
	h.dirty[id] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) markRemoved(id string) {
	h.mu.Lock()
	h.removed[id] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) emit(ev models.StoreEvent) {
	ev.Time = h.clock.Now()
	h.events.Trigger(ev)
}

func (h *Hub) addStoreLocked(snap models.StoreSnapshot) *hubStore {
	s := &hubStore{snap: snap, replicas: make(map[string]*realtime.Store)}
	h.stores[snap.ID] = s
	h.order = append(h.order, snap.ID)
	return s
}

func (h *Hub) removeStoreLocked(id string) *hubStore {
	s, ok := h.stores[id]
	if !ok {
		return nil
	}
	delete(h.stores, id)
	for i, sid := range h.order {
		if sid == id {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
	if s.snap.Persistence == models.Persist {
		delete(h.dirty, id)
		h.removed[id] = struct{}{}
	}
	return s
}

func (h *Hub) isConnectedLocked(p *Peer) bool {
	for _, other := range h.peers {
		if other == p {
			return true
		}
	}
	return false
}

// replicaLocked returns p's replica of s, creating it on first use.
func (h *Hub) replicaLocked(s *hubStore, p *Peer) *realtime.Store {
	r, ok := s.replicas[p.user.ConnectionID]
	if !ok {
		r = realtime.NewStore(copySnapshot(s.snap), p)
		s.replicas[p.user.ConnectionID] = r
	}
	return r
}

func (h *Hub) connect(p *Peer) error {
	h.mu.Lock()
	if h.isConnectedLocked(p) {
		h.mu.Unlock()
		return fmt.Errorf("connect %s: already connected", p.user.ConnectionID)
	}
	others := append([]*Peer(nil), h.peers...)
	h.peers = append(h.peers, p)
	info := h.connectionInfoLocked(p)
	h.mu.Unlock()

	p.logger.Info().Str("user_id", p.user.UserID).Int("stores", len(info.Stores)).Msg("peer connected")

	listener := p.listener
	p.loop.Post(func() {
		listener.OnSessionCreated(p, p.creation)
		listener.OnConnected(p, info)
	})
	for _, o := range others {
		o.loop.Post(func() { o.listener.OnUserJoined(o, p.user) })
	}
	h.emit(models.StoreEvent{Kind: models.StoreEventUserJoin, Actor: p.user})
	return nil
}

func (h *Hub) connectionInfoLocked(p *Peer) substrate.ConnectionInfo {
	info := substrate.ConnectionInfo{LocalUser: p.user}
	for _, o := range h.peers {
		if o != p {
			info.ExternalUsers = append(info.ExternalUsers, o.user)
		}
	}
	for _, id := range h.order {
		info.Stores = append(info.Stores, h.replicaLocked(h.stores[id], p))
	}
	return info
}

func (h *Hub) leave(p *Peer, reason string) {
	h.mu.Lock()
	if !h.isConnectedLocked(p) {
		h.mu.Unlock()
		return
	}
	for i, o := range h.peers {
		if o == p {
			h.peers = append(h.peers[:i], h.peers[i+1:]...)
			break
		}
	}
	remaining := append([]*Peer(nil), h.peers...)
	connID := p.user.ConnectionID

	var deleted, cleared []*hubStore
	for _, id := range append([]string(nil), h.order...) {
		s := h.stores[id]
		delete(s.replicas, connID)
		ownedByLeaver := s.snap.Owner != nil && s.snap.Owner.ConnectionID == connID
		switch {
		case s.snap.Persistence == models.Ephemeral && s.snap.Creation.CreatorInfo.ConnectionID == connID,
			s.snap.Persistence == models.Owner && ownedByLeaver,
			s.snap.Persistence <= models.Session && len(remaining) == 0:
			deleted = append(deleted, h.removeStoreLocked(id))
		case ownedByLeaver:
			s.snap.Owner = nil
			if s.snap.Persistence == models.Persist {
				h.dirty[id] = struct{}{}
			}
			cleared = append(cleared, s)
		}
	}
	notifyDeleted := h.replicaSetsLocked(deleted, remaining)
	notifyCleared := h.replicaSetsLocked(cleared, remaining)
	h.mu.Unlock()

	p.logger.Info().Str("reason", reason).Int("deleted_stores", len(deleted)).Msg("peer left")

	for _, o := range remaining {
		dels := notifyDeleted[o.user.ConnectionID]
		clrs := notifyCleared[o.user.ConnectionID]
		o.loop.Post(func() {
			for _, r := range clrs {
				r.ApplyOwner(nil)
				o.listener.OnStoreOwnershipUpdated(o, r, nil)
			}
			for _, r := range dels {
				r.ApplyDeleted()
				o.listener.OnStoreDeleted(o, r)
			}
			o.listener.OnUserLeft(o, p.user)
		})
	}
	p.loop.Post(func() { p.listener.OnDisconnected(p, reason) })

	for _, s := range deleted {
		h.emit(models.StoreEvent{Kind: models.StoreEventDeleted, StoreID: s.snap.ID, NetworkID: s.snap.NetworkID(), Actor: p.user})
	}
	h.emit(models.StoreEvent{Kind: models.StoreEventUserLeft, Actor: p.user})
}

// replicaSetsLocked groups the replicas of stores by the connection holding them.
func (h *Hub) replicaSetsLocked(stores []*hubStore, peers []*Peer) map[string][]*realtime.Store {
	out := make(map[string][]*realtime.Store, len(peers))
	for _, s := range stores {
		for _, o := range peers {
			if r, ok := s.replicas[o.user.ConnectionID]; ok {
				out[o.user.ConnectionID] = append(out[o.user.ConnectionID], r)
			}
		}
	}
	return out
}

func (h *Hub) createStore(p *Peer, opts substrate.CreateStoreOptions) (*realtime.Store, error) {
	now := h.ServerTimeMs()
	snap := models.StoreSnapshot{
		ID:          uuid.NewString(),
		Data:        make(map[string]models.Value, len(opts.InitialData)),
		Persistence: opts.Persistence,
		Creation: models.CreationInfo{
			CreatorInfo:             p.user,
			SentServerTimeMs:        now,
			LastUpdatedServerTimeMs: now,
		},
	}
	snap.Creation.StoreID = snap.ID
	for k, v := range opts.InitialData {
		snap.Data[k] = v
	}
	if opts.Ownership == models.Owned {
		owner := p.user
		snap.Owner = &owner
		snap.Creation.OwnerInfo = &owner
	}

	h.mu.Lock()
	if !h.isConnectedLocked(p) {
		h.mu.Unlock()
		return nil, substrate.ErrNotConnected
	}
	s := h.addStoreLocked(snap)
	if snap.Persistence == models.Persist {
		h.dirty[snap.ID] = struct{}{}
	}
	peers := append([]*Peer(nil), h.peers...)
	replicas := make(map[*Peer]*realtime.Store, len(peers))
	for _, o := range peers {
		replicas[o] = h.replicaLocked(s, o)
	}
	h.mu.Unlock()

	for _, o := range peers {
		if o == p {
			continue
		}
		r := replicas[o]
		o.loop.Post(func() { o.listener.OnStoreCreated(o, r, r.Owner(), r.CreationInfo()) })
	}
	h.emit(models.StoreEvent{Kind: models.StoreEventCreated, StoreID: snap.ID, NetworkID: snap.NetworkID(), Actor: p.user, Owner: snap.Owner})
	return replicas[p], nil
}

func (h *Hub) write(p *Peer, store *realtime.Store, key string, v models.Value) error {
	now := h.ServerTimeMs()

	h.mu.Lock()
	s, ok := h.stores[store.ID()]
	if !ok {
		h.mu.Unlock()
		return substrate.ErrStoreNotFound
	}
	if s.snap.Owner != nil && s.snap.Owner.ConnectionID != p.user.ConnectionID {
		h.mu.Unlock()
		return substrate.ErrPermissionDenied
	}
	s.snap.Data[key] = v
	s.snap.Creation.LastUpdatedServerTimeMs = now
	if s.snap.Persistence == models.Persist {
		h.dirty[s.snap.ID] = struct{}{}
	}
	targets := make(map[*Peer]*realtime.Store)
	for _, o := range h.peers {
		if o != p {
			targets[o] = h.replicaLocked(s, o)
		}
	}
	networkID := s.snap.NetworkID()
	h.mu.Unlock()

	info := models.UpdateInfo{SentServerTimeMs: now, UpdaterInfo: p.user}
	for o, r := range targets {
		o.loop.Post(func() {
			r.ApplyUpdate(key, v, now)
			o.listener.OnStoreUpdated(o, r, key, info)
		})
	}
	h.emit(models.StoreEvent{Kind: models.StoreEventUpdated, StoreID: store.ID(), NetworkID: networkID, Key: key, Value: &v, Actor: p.user})
	return nil
}

func (h *Hub) deleteStore(p *Peer, store *realtime.Store) (map[*Peer]*realtime.Store, error) {
	h.mu.Lock()
	s, ok := h.stores[store.ID()]
	if !ok {
		h.mu.Unlock()
		return nil, substrate.ErrStoreNotFound
	}
	if s.snap.Owner != nil && s.snap.Owner.ConnectionID != p.user.ConnectionID {
		h.mu.Unlock()
		return nil, substrate.ErrPermissionDenied
	}
	h.removeStoreLocked(s.snap.ID)
	targets := make(map[*Peer]*realtime.Store)
	for _, o := range h.peers {
		if r, ok := s.replicas[o.user.ConnectionID]; ok {
			targets[o] = r
		}
	}
	h.mu.Unlock()

	h.emit(models.StoreEvent{Kind: models.StoreEventDeleted, StoreID: s.snap.ID, NetworkID: s.snap.NetworkID(), Actor: p.user})
	return targets, nil
}

// setOwner changes ownership. When claim is true p becomes the owner if the
// store is free; otherwise p gives up ownership it holds.
func (h *Hub) setOwner(p *Peer, store *realtime.Store, claim bool) (map[*Peer]*realtime.Store, *models.UserInfo, error) {
	h.mu.Lock()
	s, ok := h.stores[store.ID()]
	if !ok {
		h.mu.Unlock()
		return nil, nil, substrate.ErrStoreNotFound
	}
	current := s.snap.Owner
	ownedByMe := current != nil && current.ConnectionID == p.user.ConnectionID
	var next *models.UserInfo
	switch {
	case claim && current != nil && !ownedByMe:
		h.mu.Unlock()
		return nil, nil, fmt.Errorf("%w: store %s is owned by %s", substrate.ErrRejected, s.snap.ID, current.ConnectionID)
	case !claim && current != nil && !ownedByMe:
		h.mu.Unlock()
		return nil, nil, substrate.ErrPermissionDenied
	case claim:
		owner := p.user
		next = &owner
	}
	s.snap.Owner = next
	if s.snap.Persistence == models.Persist {
		h.dirty[s.snap.ID] = struct{}{}
	}
	targets := make(map[*Peer]*realtime.Store)
	for _, o := range h.peers {
		targets[o] = h.replicaLocked(s, o)
	}
	networkID := s.snap.NetworkID()
	h.mu.Unlock()

	h.emit(models.StoreEvent{Kind: models.StoreEventOwnership, StoreID: s.snap.ID, NetworkID: networkID, Actor: p.user, Owner: next})
	return targets, next, nil
}

func (h *Hub) broadcast(p *Peer, msg string) {
	h.mu.Lock()
	targets := make([]*Peer, 0, len(h.peers))
	for _, o := range h.peers {
		if o != p {
			targets = append(targets, o)
		}
	}
	h.mu.Unlock()

	for _, o := range targets {
		o.loop.Post(func() { o.listener.OnMessageReceived(o, p.user, msg) })
	}
}

func (h *Hub) share(p *Peer) (substrate.ConnectionInfo, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.isConnectedLocked(p) {
		return substrate.ConnectionInfo{}, substrate.ErrNotConnected
	}
	return h.connectionInfoLocked(p), nil
}

func (h *Hub) buildMap(d time.Duration) {
	h.mu.Lock()
	h.mapBuilt = true
	h.mu.Unlock()
	h.logger.Debug().Dur("took", d).Msg("colocated map built")
}

func (h *Hub) isMapBuilt() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.mapBuilt
}

func copySnapshot(s models.StoreSnapshot) models.StoreSnapshot {
	data := make(map[string]models.Value, len(s.Data))
	for k, v := range s.Data {
		data[k] = v
	}
	s.Data = data
	if s.Owner != nil {
		o := *s.Owner
		s.Owner = &o
	}
	return s
}
