// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package relay is the legacy replication protocol: a flat entity registry
// kept in step by broadcasting JSON operations over the session's string
// message channel, without realtime stores.
//
// Every message has the shape
//
//	{"op": "...", "id": "...", "args": {...}, "time": 0, "recipient": "..."}
//
// with update, delete, instantiate, entrance, user, batch and batchEnd as
// the built-in ops. Any other op is an entity message delivered to the
// entity's OnMessage listeners.
//
// A joining user announces itself with an entrance op. The host, which is
// the user with the lowest id, answers with the full state split into
// batches that are sent one per frame. A user that hears nothing within
// the entrance timeout assumes it is alone.
package relay

import (
	"sort"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/MKhiriev/go-sync-framework/internal/entity"
	"github.com/MKhiriev/go-sync-framework/internal/instantiator"
	"github.com/MKhiriev/go-sync-framework/internal/logger"
	"github.com/MKhiriev/go-sync-framework/internal/observer"
	"github.com/MKhiriev/go-sync-framework/internal/scene"
	"github.com/MKhiriev/go-sync-framework/internal/scheduler"
	"github.com/MKhiriev/go-sync-framework/internal/session"
	"github.com/MKhiriev/go-sync-framework/models"
)

// Built-in ops.
const (
	OpUpdate      = "update"
	OpDelete      = "delete"
	OpBuild       = "build"
	OpBatch       = "batch"
	OpBatchEnd    = "batchEnd"
	OpInstantiate = "instantiate"
	OpEntrance    = "entrance"
	OpUser        = "user"
)

const (
	DefaultEntranceTimeout = 2 * time.Second
	DefaultBatchSize       = 512
)

// Options configures a Relay.
type Options struct {
	// Scene receives instantiated prefabs under a "relay" container object.
	Scene   *scene.Scene
	Prefabs *instantiator.Catalog
	// Registry is handed to component factories of instantiated prefabs.
	// It is only needed when prefabs carry SyncEntity components.
	Registry *entity.Registry

	EntranceTimeout time.Duration
	// BatchSize is the number of items per state batch.
	BatchSize int
	// NewID generates message and entity id suffixes. Defaults to ulids.
	NewID func() string
}

// User is a user known to the relay.
type User struct {
	ID          string
	DisplayName string
	Data        Plan
}

// Entity is one replicated object.
type Entity struct {
	ID         string
	Object     *scene.Object
	State      Plan
	PrefabName string
	BindedUser string
	OwnerID    string
	ParentID   string
	ChildIDs   []string
	// Deleted marks scene entities removed during the session. Instantiated
	// entities are forgotten instead.
	Deleted     bool
	LastUpdated int64
}

// Change is the payload of entity events.
type Change struct {
	Who   string
	State Plan
	Time  int64
}

// EventWrapper holds the listeners of one entity id. It exists before the
// entity does, so listeners can be attached early.
type EventWrapper struct {
	ID        string
	OnCreate  observer.Event[Change]
	OnUpdate  observer.Event[Change]
	OnDelete  observer.Event[Change]
	OnMessage observer.KeyedEvent[string, Change]
}

type pendingUpdate struct {
	who   string
	state Plan
	time  int64
}

// Relay is one peer's endpoint of the relay protocol.
type Relay struct {
	ctrl      *session.Controller
	loop      *scheduler.Loop
	logger    *logger.Logger
	opts      Options
	container *scene.Object

	local           *models.UserInfo
	initialized     bool
	waitingForUsers bool
	receivingBatch  bool
	entranceTimer   *scheduler.Timer

	entities map[string]*Entity
	users    map[string]*User
	orphans  map[string][]string
	pending  map[string]pendingUpdate
	wrappers map[string]*EventWrapper
	queue    []models.RelayMessage

	subs observer.Subscriptions

	OnInitialized observer.Event[models.UserInfo]
	OnUserJoined  observer.Event[models.UserInfo]
}

// New starts a relay on ctrl. It announces itself once the session is
// ready.
func New(ctrl *session.Controller, opts Options, log *logger.Logger) *Relay {
	if log == nil {
		log = ctrl.Logger()
	}
	if opts.EntranceTimeout <= 0 {
		opts.EntranceTimeout = DefaultEntranceTimeout
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.NewID == nil {
		opts.NewID = func() string { return strings.ToLower(ulid.Make().String()) }
	}
	if opts.Scene == nil {
		opts.Scene = scene.New()
	}
	r := &Relay{
		ctrl:      ctrl,
		loop:      ctrl.Loop(),
		logger:    log.WithComponent("relay"),
		opts:      opts,
		container: opts.Scene.CreateObject("relay", nil),
		entities:  make(map[string]*Entity),
		users:     make(map[string]*User),
		orphans:   make(map[string][]string),
		pending:   make(map[string]pendingUpdate),
		wrappers:  make(map[string]*EventWrapper),
	}
	r.subs.Add(ctrl.Events.OnMessageReceived.Add(r.onMessageReceived))
	r.subs.Add(ctrl.Events.OnUserJoined.Add(r.onUserJoined))
	r.subs.Add(ctrl.Events.OnUserLeft.Add(r.onUserLeft))
	r.subs.Add(r.loop.OnUpdate(r.onUpdate))
	ctrl.NotifyOnReady(r.onInitialConnection)
	return r
}

// Close stops listening. Entities and objects are left as they are.
func (r *Relay) Close() {
	r.subs.UnsubscribeAll()
	r.entranceTimer.Cancel()
}

func (r *Relay) IsInitialized() bool { return r.initialized }

// NotifyOnInitialize runs fn once the relay has the session state, right
// away if it already has.
func (r *Relay) NotifyOnInitialize(fn func(models.UserInfo)) {
	if r.initialized && r.local != nil {
		fn(*r.local)
		return
	}
	r.OnInitialized.AddOnce(fn)
}

// OwnUserID returns the local user id, or "" before the session is ready.
func (r *Relay) OwnUserID() string {
	if r.local == nil {
		return ""
	}
	return r.local.UserID
}

func (r *Relay) OwnDisplayName() string {
	if r.local == nil {
		return ""
	}
	return r.local.DisplayName
}

// IsHost reports whether the local user has the lowest id among the known
// users.
func (r *Relay) IsHost() bool {
	own := r.OwnUserID()
	ids := r.userIDs()
	return own != "" && len(ids) > 0 && ids[0] == own
}

func (r *Relay) userIDs() []string {
	ids := make([]string, 0, len(r.users))
	for id := range r.users {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Users returns the known users sorted by id.
func (r *Relay) Users() []User {
	out := make([]User, 0, len(r.users))
	for _, id := range r.userIDs() {
		out = append(out, *r.users[id])
	}
	return out
}

func (r *Relay) EntityByID(id string) (*Entity, bool) {
	e, ok := r.entities[id]
	return e, ok
}

// Entities returns the entity ids in sorted order.
func (r *Relay) Entities() []string {
	ids := make([]string, 0, len(r.entities))
	for id := range r.entities {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// OwnerByID returns the owning user id of an entity, or "".
func (r *Relay) OwnerByID(id string) string {
	if e, ok := r.entities[id]; ok {
		return e.OwnerID
	}
	return ""
}

// ParentByID returns the parent entity id of an entity, or "".
func (r *Relay) ParentByID(id string) string {
	if e, ok := r.entities[id]; ok {
		return e.ParentID
	}
	return ""
}

// AllowedToModifyID reports whether the local user may modify the entity.
func (r *Relay) AllowedToModifyID(id string) bool {
	e, ok := r.entities[id]
	return ok && r.allowedToModify(e)
}

func (r *Relay) allowedToModify(e *Entity) bool {
	return e.OwnerID == "" || e.OwnerID == r.OwnUserID()
}

// HasSession reports whether the controller is connected to a session.
func (r *Relay) HasSession() bool { return r.ctrl.Session() != nil }

// ServerTimeMs returns the session clock, or 0 without a session.
func (r *Relay) ServerTimeMs() int64 {
	if s := r.ctrl.Session(); s != nil {
		return s.ServerTimeMs()
	}
	return 0
}

// EventWrapperFor returns the listeners of the entity id.
func (r *Relay) EventWrapperFor(id string) *EventWrapper {
	w, ok := r.wrappers[id]
	if !ok {
		w = &EventWrapper{ID: id}
		r.wrappers[id] = w
	}
	return w
}

// EventWrapperForObject returns the listeners of the entity registered on
// obj.
func (r *Relay) EventWrapperForObject(obj *scene.Object) (*EventWrapper, error) {
	id, ok := IDOf(obj)
	if !ok {
		return nil, ErrNoEntityID
	}
	return r.EventWrapperFor(id), nil
}

func (r *Relay) generateID() string {
	return r.OwnUserID() + ":" + r.opts.NewID()
}

// GenerateChildID derives a child entity id. An empty childID is replaced
// with a generated one.
func (r *Relay) GenerateChildID(parentID, childID string) string {
	if childID == "" {
		childID = r.opts.NewID()
	}
	return parentID + ":" + childID
}
