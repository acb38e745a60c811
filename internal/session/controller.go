// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package session implements the per-peer session controller.
//
// A [Controller] is the substrate listener of one peer. It keeps the user
// and store indices every other component reads, re-publishes substrate
// notifications as typed events and drives the readiness gate:
//
//	session created -> connected -> invite shared (optional)
//	  -> session store bootstrapped (optional) -> colocation set up (optional)
//
// OnReady fires exactly once, when every configured precondition holds.
package session

import (
	"fmt"
	"time"

	"github.com/MKhiriev/go-sync-framework/internal/async"
	"github.com/MKhiriev/go-sync-framework/internal/logger"
	"github.com/MKhiriev/go-sync-framework/internal/observer"
	"github.com/MKhiriev/go-sync-framework/internal/realtime"
	"github.com/MKhiriev/go-sync-framework/internal/scheduler"
	"github.com/MKhiriev/go-sync-framework/internal/substrate"
	"github.com/MKhiriev/go-sync-framework/models"
)

// DefaultSessionStoreGracePeriod is how long a peer waits for someone else's
// session store before creating it.
const DefaultSessionStoreGracePeriod = 100 * time.Millisecond

// State is the coarse state of the controller.
type State int

const (
	StateNotInitialized State = iota
	StateInitialized
	StateWaitingForInvite
	StateReady
)

func (s State) String() string {
	switch s {
	case StateNotInitialized:
		return "not_initialized"
	case StateInitialized:
		return "initialized"
	case StateWaitingForInvite:
		return "waiting_for_invite"
	case StateReady:
		return "ready"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Options configures the readiness gate.
type Options struct {
	// RequireInvite shares the session and waits for the share to finish
	// before becoming ready. Peers that joined through an invite skip it.
	RequireInvite bool
	// RequireSessionStore waits for the shared session store.
	RequireSessionStore bool
	// Colocated waits for shared-space tracking. It implies RequireSessionStore.
	Colocated  bool
	Colocation substrate.Colocation
	// SessionStoreGracePeriod defaults to DefaultSessionStoreGracePeriod.
	SessionStoreGracePeriod time.Duration
}

// StoreInfo is what the controller knows about a tracked store.
type StoreInfo struct {
	Store    *realtime.Store
	Owner    *models.UserInfo
	Creation models.CreationInfo
}

// Payloads of the controller events.
type (
	Message struct {
		Sender models.UserInfo
		Text   string
	}
	Error struct {
		Code        string
		Description string
	}
	StoreCreated struct {
		Store    *realtime.Store
		Owner    *models.UserInfo
		Creation models.CreationInfo
	}
	StoreUpdated struct {
		Store *realtime.Store
		Key   string
		Info  models.UpdateInfo
	}
	OwnershipUpdated struct {
		Store *realtime.Store
		Owner *models.UserInfo
	}
)

// Events are the notifications a Controller publishes.
type Events struct {
	OnReady                 observer.Event[struct{}]
	OnSessionCreated        observer.Event[models.SessionCreationType]
	OnSessionShared         observer.Event[struct{}]
	OnConnected             observer.Event[substrate.ConnectionInfo]
	OnDisconnected          observer.Event[string]
	OnMessageReceived       observer.Event[Message]
	OnUserJoined            observer.Event[models.UserInfo]
	OnUserLeft              observer.Event[models.UserInfo]
	OnError                 observer.Event[Error]
	OnStoreCreated          observer.Event[StoreCreated]
	OnStoreUpdated          observer.Event[StoreUpdated]
	OnStoreDeleted          observer.Event[*realtime.Store]
	OnStoreOwnershipUpdated observer.Event[OwnershipUpdated]
}

type flowState struct {
	connected              bool
	shared                 bool
	waitingForSessionStore bool
	colocatedSetupStarted  bool
	colocatedSetupFinished bool
}

// Controller tracks one peer's view of the session.
type Controller struct {
	connector substrate.Connector
	loop      *scheduler.Loop
	opts      Options
	logger    *logger.Logger

	state    State
	session  substrate.Session
	creation models.SessionCreationType
	local    *models.UserInfo
	flow     flowState

	users     []models.UserInfo
	byUserID  map[string][]models.UserInfo
	byConnID  map[string]models.UserInfo
	stores    []*realtime.Store
	storeByID map[string]*StoreInfo

	sessionStoreWaiter *scheduler.Waiter
	colocationSubs     observer.Subscriptions
	isReady, sentReady bool

	// Events re-publishes substrate notifications after the indices are
	// updated.
	Events Events
}

var _ substrate.Listener = (*Controller)(nil)

// New creates a controller. It does not connect until Start is called.
func New(connector substrate.Connector, loop *scheduler.Loop, opts Options, log *logger.Logger) (*Controller, error) {
	if opts.Colocated {
		if opts.Colocation == nil {
			return nil, ErrColocationRequired
		}
		opts.RequireSessionStore = true
	}
	if opts.SessionStoreGracePeriod <= 0 {
		opts.SessionStoreGracePeriod = DefaultSessionStoreGracePeriod
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Controller{
		connector: connector,
		loop:      loop,
		opts:      opts,
		logger:    log.WithComponent("session"),
		byUserID:  make(map[string][]models.UserInfo),
		byConnID:  make(map[string]models.UserInfo),
		storeByID: make(map[string]*StoreInfo),
	}, nil
}

// Start connects to the session.
func (c *Controller) Start() error {
	if c.state != StateNotInitialized {
		return ErrAlreadyStarted
	}
	c.state = StateInitialized
	if err := c.connector.Connect(c); err != nil {
		return fmt.Errorf("connect to session: %w", err)
	}
	return nil
}

// Close releases the colocation listeners and any pending session store wait.
func (c *Controller) Close() {
	c.colocationSubs.UnsubscribeAll()
	c.sessionStoreWaiter.Cancel()
}

func (c *Controller) Loop() *scheduler.Loop { return c.loop }

func (c *Controller) Logger() *logger.Logger { return c.logger }

// Session returns the substrate session, or nil before it is created.
func (c *Controller) Session() substrate.Session { return c.session }

func (c *Controller) State() State { return c.state }

func (c *Controller) SessionCreationType() models.SessionCreationType { return c.creation }

func (c *Controller) IsReady() bool { return c.isReady }

// NotifyOnReady runs fn now if the session is ready, otherwise once it is.
func (c *Controller) NotifyOnReady(fn func()) {
	if c.isReady {
		fn()
		return
	}
	c.Events.OnReady.AddOnce(func(struct{}) { fn() })
}

// ServerTimeSeconds returns the session clock, or false before a session exists.
func (c *Controller) ServerTimeSeconds() (float64, bool) {
	if c.session == nil {
		return 0, false
	}
	return float64(c.session.ServerTimeMs()) * 0.001, true
}

// CreateStore creates a realtime store. Failures are logged and returned.
func (c *Controller) CreateStore(opts substrate.CreateStoreOptions) *async.Op[*realtime.Store] {
	if c.session == nil {
		return async.Failed[*realtime.Store](ErrNoSession)
	}
	return c.session.CreateStore(opts).Then(nil, func(err error) {
		c.logger.Warn().Err(err).Msg("error creating realtime store")
	})
}

// ShareInvite shares the session. It is only allowed once the controller is
// ready or waiting for the invite.
func (c *Controller) ShareInvite() *async.Op[struct{}] {
	if c.session == nil {
		return async.Failed[struct{}](ErrNoSession)
	}
	if c.state != StateReady && c.state != StateWaitingForInvite {
		return async.Failed[struct{}](ErrNotReady)
	}
	c.flow.connected = false
	c.flow.shared = false
	return c.session.Share().Then(nil, func(err error) {
		c.logger.Warn().Err(err).Msg("error sharing session")
	})
}

func (c *Controller) IsSessionShared() bool { return c.flow.shared }

// checkIfReady walks the readiness preconditions in order and starts the
// work needed for the first unmet one.
func (c *Controller) checkIfReady() {
	if c.session == nil || c.local == nil || !c.flow.connected {
		return
	}

	if c.opts.RequireInvite && !c.flow.shared && c.creation != models.SessionCreationReceiver {
		if c.state != StateWaitingForInvite {
			c.state = StateWaitingForInvite
			c.ShareInvite()
		}
		return
	}

	if c.opts.RequireSessionStore && c.SessionStore() == nil {
		if !c.flow.waitingForSessionStore {
			c.flow.waitingForSessionStore = true
			c.waitAndCreateSessionStore()
		}
		return
	}

	if c.opts.Colocated && !c.flow.colocatedSetupFinished {
		if !c.flow.colocatedSetupStarted {
			c.startColocated()
			c.checkIfReady()
		}
		return
	}

	c.state = StateReady
	if !c.sentReady {
		c.logger.Debug().Msg("session is now ready")
		c.isReady = true
		c.sentReady = true
		c.Events.OnReady.Trigger(struct{}{})
	}
}
