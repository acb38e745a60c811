package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-sync-framework/internal/entity"
	"github.com/MKhiriev/go-sync-framework/internal/logger"
	"github.com/MKhiriev/go-sync-framework/internal/scheduler"
	"github.com/MKhiriev/go-sync-framework/internal/session"
	"github.com/MKhiriev/go-sync-framework/internal/substrate/memory"
	"github.com/MKhiriev/go-sync-framework/models"
)

// startPeers hosts the given peers on running loops. The loops stop at the
// end of the test.
func startPeers(t *testing.T, hub *memory.Hub, ids ...string) []HostedPeer {
	t.Helper()
	peers := make([]HostedPeer, 0, len(ids))
	for _, id := range ids {
		loop := scheduler.NewLoop(scheduler.SystemClock{}, logger.Nop())
		p := hub.NewPeer(models.UserInfo{ConnectionID: id, UserID: "user-" + id, DisplayName: id}, loop)
		ctrl, err := session.New(p, loop, session.Options{}, logger.Nop())
		require.NoError(t, err)
		require.NoError(t, ctrl.Start())

		loop.Start(context.Background(), time.Millisecond)
		t.Cleanup(loop.Stop)

		peers = append(peers, HostedPeer{
			ID:       id,
			Loop:     loop,
			Session:  ctrl,
			Entities: entity.NewRegistry(ctrl, logger.Nop()),
		})
	}
	return peers
}

func onLoop(t *testing.T, p HostedPeer, fn func()) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, p.Loop.Call(ctx, fn))
}

func waitReady(t *testing.T, svc PeerService) {
	t.Helper()
	require.Eventually(t, func() bool {
		peers, err := svc.Peers(context.Background())
		if err != nil {
			return false
		}
		for _, p := range peers {
			if !p.Ready {
				return false
			}
		}
		return true
	}, 2*time.Second, 5*time.Millisecond)
}

func TestNewPeerService_NoPeers(t *testing.T) {
	svc, err := NewPeerService(nil, logger.Nop())
	assert.Nil(t, svc)
	assert.ErrorIs(t, err, ErrNoPeersHosted)
}

func TestPeerService_PeersAndUsers(t *testing.T) {
	hub := memory.NewHub(logger.Nop())
	peers := startPeers(t, hub, "alpha", "beta")

	svc, err := NewPeerService(peers, logger.Nop())
	require.NoError(t, err)
	waitReady(t, svc)

	infos, err := svc.Peers(context.Background())
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "alpha", infos[0].User.ConnectionID)
	assert.Equal(t, "user-alpha", infos[0].User.UserID)
	assert.Equal(t, "beta", infos[1].User.ConnectionID)

	require.Eventually(t, func() bool {
		users, err := svc.Users(context.Background(), "alpha")
		return err == nil && len(users) == 2
	}, time.Second, 5*time.Millisecond)

	_, err = svc.Users(context.Background(), "gamma")
	assert.ErrorIs(t, err, ErrPeerNotFound)
}

func TestPeerService_EntitiesAndOwnershipToggle(t *testing.T) {
	hub := memory.NewHub(logger.Nop())
	peers := startPeers(t, hub, "alpha", "beta")

	svc, err := NewPeerService(peers, logger.Nop())
	require.NoError(t, err)
	waitReady(t, svc)

	for _, p := range peers {
		var createErr error
		onLoop(t, p, func() {
			_, createErr = entity.NewStandalone(p.Entities, "door", entity.Options{})
		})
		require.NoError(t, createErr)
	}

	require.Eventually(t, func() bool {
		info, err := svc.Entity(context.Background(), "alpha", "door")
		return err == nil && info.State == "ready"
	}, 2*time.Second, 5*time.Millisecond)

	list, err := svc.Entities(context.Background(), "beta")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "door", list[0].NetworkID)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	info, err := svc.ToggleOwnership(ctx, "alpha", "door")
	require.NoError(t, err)
	require.NotNil(t, info.Owner)
	assert.Equal(t, "alpha", info.Owner.ConnectionID)

	info, err = svc.ToggleOwnership(ctx, "alpha", "door")
	require.NoError(t, err)
	assert.Nil(t, info.Owner)

	_, err = svc.Entity(context.Background(), "alpha", "window")
	assert.ErrorIs(t, err, ErrEntityNotFound)
	_, err = svc.ToggleOwnership(ctx, "alpha", "window")
	assert.ErrorIs(t, err, ErrEntityNotFound)
}

func TestPeerService_StoppedLoopHonoursContext(t *testing.T) {
	loop := scheduler.NewLoop(scheduler.SystemClock{}, logger.Nop())
	hub := memory.NewHub(logger.Nop())
	p := hub.NewPeer(models.UserInfo{ConnectionID: "alpha"}, loop)
	ctrl, err := session.New(p, loop, session.Options{}, logger.Nop())
	require.NoError(t, err)

	svc, err := NewPeerService([]HostedPeer{{ID: "alpha", Loop: loop, Session: ctrl, Entities: entity.NewRegistry(ctrl, logger.Nop())}}, logger.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = svc.Peers(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
