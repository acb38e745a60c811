package service

import (
	"context"

	"github.com/MKhiriev/go-sync-framework/internal/observer"
	"github.com/MKhiriev/go-sync-framework/models"
)

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
	GetAppInfo(ctx context.Context) models.AppInfo
}

// PeerService is the read and control view over the peers hosted by the
// process. Every call hops onto the peer's loop, so ctx bounds how long the
// caller waits for a busy loop.
type PeerService interface {
	Peers(ctx context.Context) ([]models.PeerInfo, error)
	Entities(ctx context.Context, peerID string) ([]models.EntityInfo, error)
	Entity(ctx context.Context, peerID, networkID string) (models.EntityInfo, error)
	ToggleOwnership(ctx context.Context, peerID, networkID string) (models.EntityInfo, error)
	Users(ctx context.Context, peerID string) ([]models.UserInfo, error)
}

// EventService fans hub events out to stream subscribers.
type EventService interface {
	// Subscribe returns a channel of events that is closed when ctx is done.
	// A subscriber that falls behind loses events instead of stalling the hub.
	Subscribe(ctx context.Context) <-chan models.StoreEvent
}

// EventSource is the hub side of the event stream.
type EventSource interface {
	OnEvent(fn func(models.StoreEvent)) observer.Subscription
}
