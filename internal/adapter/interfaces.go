// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter is the client side of the sync host's debug API.
//
// [DebugAdapter] hides the transport from syncctl. The HTTP implementation
// ([NewHTTPDebugAdapter]) uses resty for requests and a gorilla websocket for
// the event stream. Non-2xx answers are mapped to the sentinel errors in
// errors.go so callers can use [errors.Is].
package adapter

import (
	"context"

	"github.com/MKhiriev/go-sync-framework/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/debug_adapter_mock.go -package=mock

// DebugAdapter talks to a running sync host.
type DebugAdapter interface {
	// Version returns the host build version.
	Version(ctx context.Context) (string, error)

	// Peers lists the peers hosted by the process.
	Peers(ctx context.Context) ([]models.PeerInfo, error)

	// Users lists the session users as seen by peerID.
	Users(ctx context.Context, peerID string) ([]models.UserInfo, error)

	// Entities lists the entities registered on peerID.
	Entities(ctx context.Context, peerID string) ([]models.EntityInfo, error)

	// Entity describes one entity. Network ids may contain slashes.
	Entity(ctx context.Context, peerID, networkID string) (models.EntityInfo, error)

	// ToggleOwnership claims the entity's store for peerID, or revokes the
	// claim when peerID already owns it, and returns the updated entity.
	ToggleOwnership(ctx context.Context, peerID, networkID string) (models.EntityInfo, error)

	// Watch streams hub events to fn until ctx is done or the host closes
	// the stream. A closed stream after ctx is done is not an error.
	Watch(ctx context.Context, fn func(models.StoreEvent)) error
}
