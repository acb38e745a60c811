package demo

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-sync-framework/internal/entity"
	"github.com/MKhiriev/go-sync-framework/internal/instantiator"
	"github.com/MKhiriev/go-sync-framework/internal/relay"
	"github.com/MKhiriev/go-sync-framework/internal/scheduler"
	"github.com/MKhiriev/go-sync-framework/internal/session"
	"github.com/MKhiriev/go-sync-framework/internal/substrate/memory"
	"github.com/MKhiriev/go-sync-framework/models"
)

type kitchenPeer struct {
	kitchen *Kitchen
	relay   *relay.Relay
}

type kitchenWorld struct {
	t     *testing.T
	clock *scheduler.ManualClock
	hub   *memory.Hub
	loops []*scheduler.Loop
}

func newKitchenWorld(t *testing.T) *kitchenWorld {
	clock := scheduler.NewManualClock(time.Time{})
	return &kitchenWorld{t: t, clock: clock, hub: memory.NewHub(nil, memory.WithClock(clock))}
}

func (w *kitchenWorld) join(connID string) *kitchenPeer {
	w.t.Helper()
	loop := scheduler.NewLoop(w.clock, nil)
	w.loops = append(w.loops, loop)

	p := w.hub.NewPeer(models.UserInfo{ConnectionID: connID, UserID: "user-" + connID, DisplayName: connID}, loop)
	ctrl, err := session.New(p, loop, session.Options{}, nil)
	require.NoError(w.t, err)
	require.NoError(w.t, ctrl.Start())

	cat, err := Catalog()
	require.NoError(w.t, err)
	reg := entity.NewRegistry(ctrl, nil)
	rl := relay.New(ctrl, relay.Options{Prefabs: cat, EntranceTimeout: 200 * time.Millisecond}, nil)

	k, err := NewKitchen(reg, Options{Catalog: cat, Relay: rl, OrderInterval: 250 * time.Millisecond})
	require.NoError(w.t, err)
	return &kitchenPeer{kitchen: k, relay: rl}
}

func (w *kitchenWorld) tick(n int) {
	for i := 0; i < n; i++ {
		w.clock.Advance(time.Second / 60)
		for _, l := range w.loops {
			l.Tick()
		}
	}
}

func TestCatalog_HasKitchenPrefabs(t *testing.T) {
	cat, err := Catalog()
	require.NoError(t, err)
	assert.Equal(t, []string{PanPrefab, TicketPrefab}, cat.Names())
}

func TestNewKitchen_MissingPrefab(t *testing.T) {
	w := newKitchenWorld(t)
	loop := scheduler.NewLoop(w.clock, nil)
	p := w.hub.NewPeer(models.UserInfo{ConnectionID: "a", UserID: "a"}, loop)
	ctrl, err := session.New(p, loop, session.Options{}, nil)
	require.NoError(t, err)

	cat, err := instantiator.ParseCatalog(strings.NewReader("prefabs:\n  - name: Pan\n"))
	require.NoError(t, err)

	_, err = NewKitchen(entity.NewRegistry(ctrl, nil), Options{Catalog: cat})
	assert.ErrorIs(t, err, ErrMissingPrefab)
}

func TestKitchen_TwoPeersShareTheScene(t *testing.T) {
	w := newKitchenWorld(t)
	a := w.join("a")
	b := w.join("b")
	assert.False(t, a.kitchen.Menu().Enabled(), "menu waits for the board")

	w.tick(120)

	assert.True(t, a.kitchen.Menu().Enabled())
	assert.True(t, b.kitchen.Menu().Enabled())
	panA, ok := a.kitchen.Pan()
	require.True(t, ok, "peer a has no pan")
	panB, ok := b.kitchen.Pan()
	require.True(t, ok, "peer b has no pan")
	assert.True(t, panA.DoIOwnStore())
	assert.True(t, panB.DoIOwnStore())

	networkIDs := make(map[string]bool)
	for _, s := range w.hub.Stores() {
		networkIDs[s.NetworkID()] = true
	}
	assert.True(t, networkIDs["pan_a"])
	assert.True(t, networkIDs["pan_b"])
	assert.True(t, networkIDs[BoardID])

	a.kitchen.Close()
	b.kitchen.Close()
	w.tick(30)

	assert.Positive(t, a.kitchen.Orders())
	assert.Equal(t, a.kitchen.Orders(), b.kitchen.Orders())

	require.NotEmpty(t, a.kitchen.ticketID)
	assert.Contains(t, b.relay.Entities(), a.kitchen.ticketID)
}

func TestKitchen_CloseIsIdempotent(t *testing.T) {
	w := newKitchenWorld(t)
	a := w.join("a")
	a.kitchen.Close()
	a.kitchen.Close()

	w.tick(60)
	assert.Zero(t, a.kitchen.Orders())
}
