// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package entity implements SyncEntity, the binding between a local object
// and one realtime store.
//
// An entity is registered under its network id as soon as it is built. Once
// the session is ready it looks for a store carrying that id, creates one
// after a grace period if nobody else did, and from then on keeps its
// property set and the store in step: the peer that may modify the store
// writes local changes, every other peer applies remote ones.
//
//	Constructed -> WaitingForSession -> WaitingForStore -> Ready -> Destroyed
//
// When two peers create a store for the same id anyway, every peer prefers
// the one created by the lowest connection id and the losing creator
// deletes its own copy.
package entity

import (
	"fmt"
	"time"

	"github.com/MKhiriev/go-sync-framework/internal/async"
	"github.com/MKhiriev/go-sync-framework/internal/logger"
	"github.com/MKhiriev/go-sync-framework/internal/netid"
	"github.com/MKhiriev/go-sync-framework/internal/networkroot"
	"github.com/MKhiriev/go-sync-framework/internal/observer"
	"github.com/MKhiriev/go-sync-framework/internal/property"
	"github.com/MKhiriev/go-sync-framework/internal/realtime"
	"github.com/MKhiriev/go-sync-framework/internal/scene"
	"github.com/MKhiriev/go-sync-framework/internal/scheduler"
	"github.com/MKhiriev/go-sync-framework/internal/session"
	"github.com/MKhiriev/go-sync-framework/internal/substrate"
	"github.com/MKhiriev/go-sync-framework/models"
)

// TypeName is the component type name used in hierarchy network ids.
const TypeName = "SyncEntity"

// DefaultStoreGracePeriod is how long an entity waits for another peer's
// store before creating its own.
const DefaultStoreGracePeriod = 100 * time.Millisecond

// State is the lifecycle state of an entity.
type State int

const (
	StateConstructed State = iota
	StateWaitingForSession
	StateWaitingForStore
	StateReady
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateConstructed:
		return "constructed"
	case StateWaitingForSession:
		return "waiting_for_session"
	case StateWaitingForStore:
		return "waiting_for_store"
	case StateReady:
		return "ready"
	case StateDestroyed:
		return "destroyed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Options configures a new entity.
type Options struct {
	// PropertySet is used as is. A nil set starts empty.
	PropertySet *property.Set
	// ClaimOwnership queues an ownership claim at construction.
	ClaimOwnership bool
	// Persistence is a persistence class name. Empty means Session.
	// Entities under a network root use the root's persistence instead.
	Persistence string
	ID          netid.Options
	// StoreGracePeriod defaults to DefaultStoreGracePeriod.
	StoreGracePeriod time.Duration
}

// SyncEntity keeps a property set in sync with a realtime store.
type SyncEntity struct {
	reg    *Registry
	ctrl   *session.Controller
	loop   *scheduler.Loop
	logger *logger.Logger

	networkID   string
	host        *scene.Object
	root        *networkroot.Info
	props       *property.Set
	persistence models.Persistence
	gracePeriod time.Duration
	forceState  bool

	state         State
	store         *realtime.Store
	owner         *models.UserInfo
	creating      bool
	requesting    bool
	createTimer   *scheduler.Timer
	setupFinished bool
	destroyed     bool

	pendingClaims  []*async.Op[*realtime.Store]
	pendingRevokes []*async.Op[*realtime.Store]

	subs       observer.Subscriptions
	keyUpdated observer.Event[string]
	events     observer.KeyedEvent[string, Message]
	remote     observer.KeyedEvent[string, Message]

	OnOwnerUpdated    observer.Event[*models.UserInfo]
	OnSetupFinished   observer.Event[struct{}]
	OnDestroyed       observer.Event[struct{}]
	OnLocalDestroyed  observer.Event[struct{}]
	OnRemoteDestroyed observer.Event[struct{}]
}

var (
	_ scene.Destroyable   = (*SyncEntity)(nil)
	_ property.LookupHost = (*SyncEntity)(nil)
)

// New attaches an entity to host and registers it. The network id is
// derived from host according to opts.ID.
func New(reg *Registry, host *scene.Object, opts Options) (*SyncEntity, error) {
	if host == nil {
		return nil, ErrNoHost
	}
	e := newEntity(reg, host, opts)
	host.AddComponent(e)
	if root, ok := networkroot.Find(host); ok {
		e.root = root
		e.persistence = root.Persistence()
	}

	id, err := netid.Derive(host, e, opts.ID)
	if err != nil {
		host.RemoveComponent(e)
		return nil, fmt.Errorf("derive network id: %w", err)
	}
	if err := e.start(id, opts); err != nil {
		host.RemoveComponent(e)
		return nil, err
	}
	return e, nil
}

// NewStandalone creates an entity that is not attached to any object, such
// as a shared scoreboard. opts.ID.Prefix is honored; the rest of opts.ID is
// replaced by networkID.
func NewStandalone(reg *Registry, networkID string, opts Options) (*SyncEntity, error) {
	opts.ID = netid.Options{Type: netid.Custom, CustomID: networkID, Prefix: opts.ID.Prefix}
	id, err := netid.Derive(nil, nil, opts.ID)
	if err != nil {
		return nil, fmt.Errorf("derive network id: %w", err)
	}
	e := newEntity(reg, nil, opts)
	if err := e.start(id, opts); err != nil {
		return nil, err
	}
	return e, nil
}

func newEntity(reg *Registry, host *scene.Object, opts Options) *SyncEntity {
	props := opts.PropertySet
	if props == nil {
		props = property.NewSet(nil)
	}
	grace := opts.StoreGracePeriod
	if grace <= 0 {
		grace = DefaultStoreGracePeriod
	}
	persistence, err := models.ParsePersistence(opts.Persistence)
	if err != nil {
		reg.logger.Warn().Err(err).Str("persistence", opts.Persistence).Msg("falling back to session persistence")
	}
	return &SyncEntity{
		reg:         reg,
		ctrl:        reg.ctrl,
		loop:        reg.ctrl.Loop(),
		logger:      reg.logger,
		host:        host,
		props:       props,
		persistence: persistence,
		gracePeriod: grace,
		forceState:  true,
	}
}

// start registers the entity under id and hooks it to the session.
func (e *SyncEntity) start(id string, opts Options) error {
	e.networkID = id
	e.logger = e.reg.logger.WithNetworkID(id)
	e.props.SetLogger(e.logger)
	if err := e.reg.register(e); err != nil {
		e.logger.Warn().Err(err).Msg("entity not created")
		return fmt.Errorf("register %q: %w", id, err)
	}

	e.subs.Add(e.ctrl.Events.OnStoreCreated.Add(e.onStoreCreated))
	e.subs.Add(e.ctrl.Events.OnStoreUpdated.Add(e.onStoreUpdated))
	e.subs.Add(e.ctrl.Events.OnStoreDeleted.Add(e.onStoreDeleted))
	e.subs.Add(e.ctrl.Events.OnStoreOwnershipUpdated.Add(e.onOwnershipUpdated))
	e.subs.Add(e.loop.OnLateUpdate(e.lateUpdate))

	if opts.ClaimOwnership {
		e.TryClaimOwnership()
	}
	e.state = StateWaitingForSession
	e.ctrl.NotifyOnReady(e.onSessionReady)
	return nil
}

func (e *SyncEntity) TypeName() string { return TypeName }

func (e *SyncEntity) NetworkID() string { return e.networkID }

// Host returns the object the entity is attached to, nil for standalone
// entities.
func (e *SyncEntity) Host() *scene.Object { return e.host }

// NetworkRoot returns the instantiated prefab the entity belongs to, or nil.
func (e *SyncEntity) NetworkRoot() *networkroot.Info { return e.root }

func (e *SyncEntity) PropertySet() *property.Set { return e.props }

// Store returns the backing store, nil until setup finishes.
func (e *SyncEntity) Store() *realtime.Store { return e.store }

func (e *SyncEntity) State() State { return e.state }

func (e *SyncEntity) Persistence() models.Persistence { return e.persistence }

func (e *SyncEntity) IsSetupFinished() bool { return e.setupFinished }

func (e *SyncEntity) IsDestroyed() bool { return e.destroyed }

// SetForceStateIfCantModify controls whether a peer that cannot modify the
// store re-applies the store values every frame. It is on by default.
func (e *SyncEntity) SetForceStateIfCantModify(force bool) { e.forceState = force }

// NotifyOnReady runs fn once setup is finished, right away if it already is.
func (e *SyncEntity) NotifyOnReady(fn func()) {
	if e.setupFinished {
		fn()
		return
	}
	e.OnSetupFinished.AddOnce(func(struct{}) { fn() })
}

// AddStorageProperty adds p to the property set. If the store already holds
// a value for its key, p takes it over without firing events.
func (e *SyncEntity) AddStorageProperty(p property.Prop) property.Prop {
	if e.destroyed {
		e.logger.Warn().Str("key", p.Key()).Msg("adding property to a destroyed entity")
	}
	p = e.props.AddProperty(p)
	if e.store != nil {
		if v, ok := e.store.Get(p.Key()); ok {
			p.SilentSetValue(v)
		}
	}
	return p
}

// OnStoreKeyUpdated registers fn for every store update received while the
// entity is set up.
func (e *SyncEntity) OnStoreKeyUpdated(fn func(key string)) observer.Subscription {
	return e.keyUpdated.Add(fn)
}

// StoreKeys returns the keys of the backing store, or nil without one.
func (e *SyncEntity) StoreKeys() []string {
	if e.store == nil {
		return nil
	}
	return e.store.Keys()
}

// Describe returns a snapshot of the entity for diagnostics.
func (e *SyncEntity) Describe() models.EntityInfo {
	info := models.EntityInfo{
		NetworkID:     e.networkID,
		State:         e.state.String(),
		Owner:         e.owner,
		Persistence:   e.persistence,
		SetupFinished: e.setupFinished,
	}
	if e.store != nil {
		snap := e.store.Snapshot()
		info.StoreID = snap.ID
		info.Persistence = snap.Persistence
		info.Values = snap.Data
	}
	return info
}

// Destroy destroys the host object, which destroys the entity. Standalone
// entities are destroyed directly. The store is deleted if the local peer
// may modify it.
func (e *SyncEntity) Destroy() {
	if e.host != nil && !e.host.IsDestroyed() {
		e.host.Destroy()
		return
	}
	e.localDestroy()
}

// OnDestroy is called by the scene when the host object is destroyed.
func (e *SyncEntity) OnDestroy() { e.localDestroy() }

func (e *SyncEntity) localDestroy() {
	if e.destroyed {
		return
	}
	e.logger.Debug().Msg("local destroy")
	e.destroyed = true
	e.state = StateDestroyed
	e.cleanup()
	if e.store != nil && e.CanIModifyStore() {
		e.deleteStore(e.store)
	}
	e.OnLocalDestroyed.Trigger(struct{}{})
	e.OnDestroyed.Trigger(struct{}{})
}

func (e *SyncEntity) remoteDestroy() {
	if e.destroyed {
		return
	}
	e.logger.Debug().Msg("store deleted remotely")
	e.destroyed = true
	e.state = StateDestroyed
	e.cleanup()
	if e.host != nil {
		e.host.Destroy()
	}
	e.OnRemoteDestroyed.Trigger(struct{}{})
	e.OnDestroyed.Trigger(struct{}{})
}

// cleanup detaches the entity from the session and the registry. Pending
// ownership requests fail with ErrDestroyed.
func (e *SyncEntity) cleanup() {
	e.subs.UnsubscribeAll()
	e.createTimer.Cancel()
	e.reg.unregister(e)
	for _, op := range e.pendingClaims {
		op.Reject(ErrDestroyed)
	}
	for _, op := range e.pendingRevokes {
		op.Reject(ErrDestroyed)
	}
	e.pendingClaims, e.pendingRevokes = nil, nil
}

func (e *SyncEntity) deleteStore(store *realtime.Store) {
	sess := e.ctrl.Session()
	if sess == nil {
		return
	}
	e.logger.Debug().Str("store_id", store.ID()).Msg("requesting store deletion")
	sess.DeleteStore(store).Then(nil, func(err error) {
		e.logger.Warn().Err(err).Str("store_id", store.ID()).Msg("error deleting realtime store")
	})
}

func (e *SyncEntity) lateUpdate(scheduler.Frame) {
	if e.destroyed || !e.setupFinished {
		return
	}
	if e.CanIModifyStore() {
		e.props.CheckForChanges(e.store, e.loop.Seconds())
		return
	}
	serverTime, ok := e.ctrl.ServerTimeSeconds()
	if !ok {
		return
	}
	e.props.ApplyFrameUpdates(serverTime, e.forceState, e.store)
}

// createOptions assembles the initial contents of a new store from the
// current property values.
func (e *SyncEntity) createOptions() substrate.CreateStoreOptions {
	data := realtime.DataMap{models.NetworkIDKey: models.StringValue(e.networkID)}
	ts := e.loop.Seconds()
	e.props.ForceWriteState(data, ts)
	e.props.CheckForChanges(data, ts)

	opts := substrate.CreateStoreOptions{InitialData: data, Persistence: e.persistence}
	if e.startOwned() {
		opts.Ownership = models.Owned
	}
	return opts
}
