package instantiator

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-sync-framework/internal/async"
	"github.com/MKhiriev/go-sync-framework/internal/entity"
	"github.com/MKhiriev/go-sync-framework/internal/netid"
	"github.com/MKhiriev/go-sync-framework/internal/networkroot"
	"github.com/MKhiriev/go-sync-framework/internal/property"
	"github.com/MKhiriev/go-sync-framework/internal/scene"
	"github.com/MKhiriev/go-sync-framework/internal/scheduler"
	"github.com/MKhiriev/go-sync-framework/internal/session"
	"github.com/MKhiriev/go-sync-framework/internal/substrate/memory"
	"github.com/MKhiriev/go-sync-framework/models"
)

type world struct {
	t     *testing.T
	clock *scheduler.ManualClock
	hub   *memory.Hub
	loops []*scheduler.Loop
	cat   *Catalog
}

func newWorld(t *testing.T) *world {
	clock := scheduler.NewManualClock(time.Time{})
	cat, err := ParseCatalog(strings.NewReader(rockCatalog))
	require.NoError(t, err)
	return &world{t: t, clock: clock, hub: memory.NewHub(nil, memory.WithClock(clock)), cat: cat}
}

type testPeer struct {
	ctrl  *session.Controller
	reg   *entity.Registry
	scene *scene.Scene
}

func (w *world) join(connID string) *testPeer {
	w.t.Helper()
	loop := scheduler.NewLoop(w.clock, nil)
	w.loops = append(w.loops, loop)
	p := w.hub.NewPeer(models.UserInfo{ConnectionID: connID, UserID: "user-" + connID}, loop)
	ctrl, err := session.New(p, loop, session.Options{}, nil)
	require.NoError(w.t, err)
	require.NoError(w.t, ctrl.Start())
	return &testPeer{ctrl: ctrl, reg: entity.NewRegistry(ctrl, nil), scene: scene.New()}
}

func (w *world) tick(n int) {
	for i := 0; i < n; i++ {
		w.clock.Advance(time.Second / 60)
		for _, l := range w.loops {
			l.Tick()
		}
	}
}

func (w *world) storesFor(networkID string) []models.StoreSnapshot {
	var out []models.StoreSnapshot
	for _, s := range w.hub.Stores() {
		if s.NetworkID() == networkID {
			out = append(out, s)
		}
	}
	return out
}

// spawner builds the same spawner object on a peer.
func (w *world) spawner(p *testPeer, opts Options) *Instantiator {
	w.t.Helper()
	opts.Prefabs = w.cat
	opts.ID = netid.Options{Type: netid.Hierarchy}
	in, err := New(p.reg, p.scene.CreateObject("spawner", nil), opts)
	require.NoError(w.t, err)
	return in
}

func resolved(t *testing.T, op *async.Op[*networkroot.Info]) *networkroot.Info {
	t.Helper()
	r, done := op.Result()
	require.True(t, done, "instantiation still pending")
	require.NoError(t, r.Err)
	return r.Value
}

func rockEntity(t *testing.T, root *networkroot.Info) *entity.SyncEntity {
	t.Helper()
	child := root.InstantiatedChild()
	require.NotNil(t, child)
	e, ok := entity.EntityOf(child)
	require.True(t, ok)
	return e
}

func hits(t *testing.T, e *entity.SyncEntity) *property.Property[int] {
	t.Helper()
	p, ok := e.PropertySet().GetProperty("hits")
	require.True(t, ok)
	return p.(*property.Property[int])
}

func TestInstantiator_ReplicatesToOtherPeer(t *testing.T) {
	w := newWorld(t)
	a, b := w.join("a"), w.join("b")
	ia := w.spawner(a, Options{})
	ib := w.spawner(b, Options{})
	w.tick(15)
	require.True(t, ia.IsReady())
	require.True(t, ib.IsReady())
	assert.Equal(t, "spawner_0/SyncEntity_0", ia.Entity().NetworkID())

	var succeeded *networkroot.Info
	op := ia.Instantiate("Rock", InstantiationOptions{
		OverrideNetworkID: "rock_1",
		LocalPosition:     &models.Vec3{X: 1, Y: 2, Z: 3},
		Persistence:       "Persist",
		OnSuccess:         func(i *networkroot.Info) { succeeded = i },
	})
	w.tick(3)

	root := resolved(t, op)
	assert.Same(t, root, succeeded)
	assert.True(t, root.LocallyCreated())
	assert.Equal(t, "holder:rock_1", root.Holder().Name())
	assert.Equal(t, models.Persist, root.Persistence())

	snaps := w.storesFor("rock_1")
	require.Len(t, snaps, 1)
	assert.Equal(t, models.StringValue("Rock"), snaps[0].Data[models.PrefabNameKey])
	assert.Equal(t, models.StringValue("spawner_0/SyncEntity_0"), snaps[0].Data[models.SpawnerIDKey])
	assert.Equal(t, models.Vec3Value(models.Vec3{X: 1, Y: 2, Z: 3}), snaps[0].Data[models.InitPositionKey])

	remote, ok := ib.Spawned("rock_1")
	require.True(t, ok)
	assert.False(t, remote.LocallyCreated())
	assert.Equal(t, models.Vec3{X: 1, Y: 2, Z: 3}, remote.Holder().LocalPosition())
	require.NotNil(t, remote.InstantiatedChild())
	assert.Equal(t, "Rock", remote.InstantiatedChild().Name())
	assert.Equal(t, 1, remote.InstantiatedChild().ChildCount())

	ea, eb := rockEntity(t, root), rockEntity(t, remote)
	assert.Equal(t, "rock_1/Rock_0/SyncEntity_0", ea.NetworkID())
	assert.Equal(t, ea.NetworkID(), eb.NetworkID())
	w.tick(3)
	require.True(t, ea.IsSetupFinished())
	require.True(t, eb.IsSetupFinished())
	assert.Equal(t, ea.Store().ID(), eb.Store().ID())

	hits(t, ea).SetPendingValue(4)
	w.tick(2)
	got, _ := hits(t, eb).CurrentValue()
	assert.Equal(t, 4, got)
}

func TestInstantiator_LateJoinerReplaysInstances(t *testing.T) {
	w := newWorld(t)
	a := w.join("a")
	ia := w.spawner(a, Options{})
	w.tick(15)

	op := ia.Instantiate("Rock", InstantiationOptions{OverrideNetworkID: "rock_1"})
	w.tick(3)
	e := rockEntity(t, resolved(t, op))
	hits(t, e).SetPendingValue(9)
	w.tick(2)

	c := w.join("c")
	ic := w.spawner(c, Options{})
	var replayed []string
	ic.OnInstantiated.Add(func(i *networkroot.Info) { replayed = append(replayed, i.NetworkID()) })
	w.tick(3)

	assert.Equal(t, []string{"rock_1"}, replayed)
	remote, ok := ic.Spawned("rock_1")
	require.True(t, ok)
	ec := rockEntity(t, remote)
	require.True(t, ec.IsSetupFinished())
	got, _ := hits(t, ec).CurrentValue()
	assert.Equal(t, 9, got)
	assert.Len(t, w.storesFor("rock_1"), 1)
}

func TestInstantiator_OverrideIDReturnsExisting(t *testing.T) {
	w := newWorld(t)
	a := w.join("a")
	ia := w.spawner(a, Options{})
	w.tick(15)

	first := ia.Instantiate("Rock", InstantiationOptions{OverrideNetworkID: "rock_1"})
	pending := ia.Instantiate("Rock", InstantiationOptions{OverrideNetworkID: "rock_1"})
	w.tick(3)
	again := ia.Instantiate("Rock", InstantiationOptions{OverrideNetworkID: "rock_1"})

	root := resolved(t, first)
	assert.Same(t, root, resolved(t, pending))
	assert.Same(t, root, resolved(t, again))
	assert.Len(t, w.storesFor("rock_1"), 1)
	assert.Equal(t, 1, ia.Instances())
}

func TestInstantiator_GeneratedIDs(t *testing.T) {
	w := newWorld(t)
	a := w.join("a")
	ia := w.spawner(a, Options{})
	w.tick(15)

	one := ia.Instantiate("Pebble", InstantiationOptions{})
	two := ia.Instantiate("Pebble", InstantiationOptions{})
	w.tick(3)

	r1, r2 := resolved(t, one), resolved(t, two)
	assert.True(t, strings.HasPrefix(r1.NetworkID(), "Pebble_"))
	assert.NotEqual(t, r1.NetworkID(), r2.NetworkID())
	assert.Equal(t, 2, ia.Instances())
}

func TestInstantiator_UnknownPrefab(t *testing.T) {
	w := newWorld(t)
	a := w.join("a")
	ia := w.spawner(a, Options{})
	w.tick(15)

	var gotErr error
	op := ia.Instantiate("Boulder", InstantiationOptions{OnError: func(err error) { gotErr = err }})
	r, done := op.Result()
	require.True(t, done)
	assert.ErrorIs(t, r.Err, ErrUnknownPrefab)
	assert.ErrorIs(t, gotErr, ErrUnknownPrefab)
	assert.Empty(t, a.scene.Roots()[1:])
}

func TestInstantiator_SpawnerOwnsObject(t *testing.T) {
	w := newWorld(t)
	a, b := w.join("a"), w.join("b")
	ia := w.spawner(a, Options{SpawnerOwnsObject: true, SpawnAsChildren: true})
	ib := w.spawner(b, Options{SpawnerOwnsObject: true, SpawnAsChildren: true})
	w.tick(15)

	op := ia.Instantiate("Rock", InstantiationOptions{OverrideNetworkID: "rock_1"})
	w.tick(3)
	root := resolved(t, op)
	assert.True(t, root.DoIOwnStore())
	assert.Same(t, ia.host, root.Holder().Parent())

	remote, ok := ib.Spawned("rock_1")
	require.True(t, ok)
	assert.True(t, remote.IsOwnedBy("a"))
	assert.False(t, remote.CanIModifyStore())
	assert.Same(t, ib.host, remote.Holder().Parent())

	w.tick(3)
	assert.True(t, rockEntity(t, root).DoIOwnStore())
}

func TestInstantiator_DestroyRemovesEverywhere(t *testing.T) {
	w := newWorld(t)
	a, b := w.join("a"), w.join("b")
	ia := w.spawner(a, Options{})
	ib := w.spawner(b, Options{})
	w.tick(15)

	op := ia.Instantiate("Rock", InstantiationOptions{OverrideNetworkID: "rock_1"})
	w.tick(5)
	root := resolved(t, op)
	remote, ok := ib.Spawned("rock_1")
	require.True(t, ok)

	root.Destroy()
	w.tick(3)

	assert.Zero(t, ia.Instances())
	assert.Zero(t, ib.Instances())
	assert.True(t, remote.Holder().IsDestroyed())
	assert.Empty(t, w.storesFor("rock_1"))
	assert.Empty(t, w.storesFor("rock_1/Rock_0/SyncEntity_0"))
}

func TestInstantiator_AutoInstantiate(t *testing.T) {
	w := newWorld(t)
	a, b := w.join("a"), w.join("b")
	auto := Options{AutoInstantiate: AutoInstantiate{Prefabs: []string{"Pebble"}, ClaimOwnership: true}}
	ia := w.spawner(a, auto)
	ib := w.spawner(b, auto)
	w.tick(20)

	assert.Equal(t, 2, ia.Instances())
	assert.Equal(t, 2, ib.Instances())
}

func TestNew_RequiresCatalog(t *testing.T) {
	w := newWorld(t)
	a := w.join("a")
	_, err := New(a.reg, a.scene.CreateObject("spawner", nil), Options{})
	assert.ErrorIs(t, err, ErrNoCatalog)
}
