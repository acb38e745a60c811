// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package substrate defines the contract between the sync framework and the
// session transport underneath it.
//
// The transport owns peer discovery, message delivery and the authoritative
// server clock. The framework only sees it through three interfaces:
//
//   - [Session] is the handle a connected peer uses to create, delete and
//     claim stores and to broadcast messages;
//   - [Listener] receives every session notification on the peer's loop;
//   - [Connector] joins a session and starts delivering notifications.
//
// All Listener callbacks are invoked on the goroutine that owns the peer's
// scheduler loop, and every [async.Op] returned by a Session completes there
// too, so framework code never needs locking of its own.
package substrate

import (
	"github.com/MKhiriev/go-sync-framework/internal/async"
	"github.com/MKhiriev/go-sync-framework/internal/observer"
	"github.com/MKhiriev/go-sync-framework/internal/realtime"
	"github.com/MKhiriev/go-sync-framework/models"
)

// CreateStoreOptions configures a new realtime store.
type CreateStoreOptions struct {
	InitialData realtime.DataMap
	Persistence models.Persistence
	Ownership   models.Ownership
}

// ConnectionInfo is delivered once a peer is connected to a session.
// It carries everything a late joiner needs to catch up.
type ConnectionInfo struct {
	LocalUser     models.UserInfo
	ExternalUsers []models.UserInfo
	Stores        []*realtime.Store
}

// Session is a connected peer's handle on the shared session.
//
//go:generate mockgen -source=substrate.go -destination=../mock/substrate_mock.go -package=mock
type Session interface {
	// LocalUser returns the connection this session belongs to.
	LocalUser() models.UserInfo
	// ServerTimeMs returns the authoritative session clock in milliseconds.
	ServerTimeMs() int64

	// CreateStore creates a store. Every peer, the creator included, is
	// notified through Listener.OnStoreCreated.
	CreateStore(opts CreateStoreOptions) *async.Op[*realtime.Store]
	DeleteStore(store *realtime.Store) *async.Op[struct{}]
	RequestOwnership(store *realtime.Store) *async.Op[*realtime.Store]
	ClearOwnership(store *realtime.Store) *async.Op[*realtime.Store]

	// SendMessage broadcasts msg to every other connection in the session.
	SendMessage(msg string)

	// Share invites other users into the session. On success the listener
	// gets OnSessionShared followed by a fresh OnConnected.
	Share() *async.Op[struct{}]
}

// Listener receives session notifications.
type Listener interface {
	OnSessionCreated(s Session, creation models.SessionCreationType)
	OnConnected(s Session, info ConnectionInfo)
	OnDisconnected(s Session, reason string)
	OnSessionShared(s Session)
	OnMessageReceived(s Session, sender models.UserInfo, msg string)
	OnUserJoined(s Session, user models.UserInfo)
	OnUserLeft(s Session, user models.UserInfo)
	OnError(code, description string)

	OnStoreCreated(s Session, store *realtime.Store, owner *models.UserInfo, creation models.CreationInfo)
	OnStoreUpdated(s Session, store *realtime.Store, key string, info models.UpdateInfo)
	OnStoreDeleted(s Session, store *realtime.Store)
	OnStoreOwnershipUpdated(s Session, store *realtime.Store, owner *models.UserInfo)
}

// Connector joins a session on behalf of a listener.
type Connector interface {
	Connect(l Listener) error
}

// Colocation is the shared-space tracking provider a colocated session
// waits on before it becomes ready.
type Colocation interface {
	// CanTrack reports whether a shared map is already available.
	CanTrack() bool
	// Join tries to download an existing map for the session.
	Join(s Session)
	// StartBuilding starts mapping the space for the session.
	StartBuilding(s Session)

	OnTrackingAvailable(fn func()) observer.Subscription
	OnJoinFailed(fn func()) observer.Subscription
	OnBuildFailed(fn func()) observer.Subscription
}
