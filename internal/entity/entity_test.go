package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-sync-framework/internal/netid"
	"github.com/MKhiriev/go-sync-framework/internal/networkroot"
	"github.com/MKhiriev/go-sync-framework/internal/property"
	"github.com/MKhiriev/go-sync-framework/internal/realtime"
	"github.com/MKhiriev/go-sync-framework/internal/scene"
	"github.com/MKhiriev/go-sync-framework/internal/scheduler"
	"github.com/MKhiriev/go-sync-framework/internal/session"
	"github.com/MKhiriev/go-sync-framework/internal/substrate/memory"
	"github.com/MKhiriev/go-sync-framework/models"
)

// ── helpers ───────────────────────────────────────────────────────────────────

type world struct {
	t     *testing.T
	clock *scheduler.ManualClock
	hub   *memory.Hub
	loops []*scheduler.Loop
}

func newWorld(t *testing.T) *world {
	clock := scheduler.NewManualClock(time.Time{})
	return &world{t: t, clock: clock, hub: memory.NewHub(nil, memory.WithClock(clock))}
}

type testPeer struct {
	peer  *memory.Peer
	ctrl  *session.Controller
	reg   *Registry
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
	return &testPeer{peer: p, ctrl: ctrl, reg: NewRegistry(ctrl, nil), scene: scene.New()}
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

// cube builds the same "cube" object on a peer, with a synced entity.
func (p *testPeer) cube(t *testing.T, opts Options) *SyncEntity {
	t.Helper()
	obj := p.scene.CreateObject("cube", nil)
	if opts.ID == (netid.Options{}) {
		opts.ID = netid.Options{Type: netid.Hierarchy}
	}
	e, err := New(p.reg, obj, opts)
	require.NoError(t, err)
	return e
}

const cubeID = "cube_0/SyncEntity_0"

// ── lifecycle ─────────────────────────────────────────────────────────────────

func TestEntity_Lifecycle(t *testing.T) {
	w := newWorld(t)
	a := w.join("a")
	e := a.cube(t, Options{})

	assert.Equal(t, cubeID, e.NetworkID())
	found, ok := a.reg.FindByID(cubeID)
	require.True(t, ok, "registered before any network activity")
	assert.Same(t, e, found)
	assert.Equal(t, StateWaitingForSession, e.State())

	byHost, ok := EntityOf(e.Host())
	require.True(t, ok)
	assert.Same(t, e, byHost)

	readyCalls := 0
	e.NotifyOnReady(func() { readyCalls++ })

	w.tick(2)
	assert.Equal(t, StateWaitingForStore, e.State())
	assert.Nil(t, e.Store())

	w.tick(10)
	require.Equal(t, StateReady, e.State())
	require.True(t, e.IsSetupFinished())
	assert.Equal(t, 1, readyCalls)
	id, _ := e.Store().Get(models.NetworkIDKey)
	assert.Equal(t, models.StringValue(cubeID), id)
	assert.Equal(t, models.Session, e.Persistence())

	late := false
	e.NotifyOnReady(func() { late = true })
	assert.True(t, late)

	info := e.Describe()
	assert.Equal(t, "ready", info.State)
	assert.Equal(t, e.Store().ID(), info.StoreID)
}

func TestEntity_DuplicateNetworkID(t *testing.T) {
	w := newWorld(t)
	a := w.join("a")
	opts := Options{ID: netid.Options{Type: netid.Custom, CustomID: "score"}}

	_, err := New(a.reg, a.scene.CreateObject("one", nil), opts)
	require.NoError(t, err)

	other := a.scene.CreateObject("two", nil)
	_, err = New(a.reg, other, opts)
	assert.ErrorIs(t, err, ErrDuplicateNetworkID)
	assert.Empty(t, other.Components())

	_, err = NewStandalone(a.reg, "score", Options{})
	assert.ErrorIs(t, err, ErrDuplicateNetworkID)
	assert.Equal(t, 1, a.reg.Len())
}

func TestNew_RequiresHost(t *testing.T) {
	w := newWorld(t)
	a := w.join("a")
	_, err := New(a.reg, nil, Options{})
	assert.ErrorIs(t, err, ErrNoHost)
}

func TestEntity_UnknownPersistenceFallsBack(t *testing.T) {
	w := newWorld(t)
	a := w.join("a")
	e, err := NewStandalone(a.reg, "score", Options{Persistence: "forever"})
	require.NoError(t, err)
	assert.Equal(t, models.Session, e.Persistence())

	p, err := NewStandalone(a.reg, "saved", Options{Persistence: "persist"})
	require.NoError(t, err)
	w.tick(12)
	assert.Equal(t, models.Persist, p.Store().Persistence())
}

// ── store races ───────────────────────────────────────────────────────────────

func TestEntity_LateJoinerAdoptsExistingStore(t *testing.T) {
	w := newWorld(t)
	a := w.join("a")
	ea := a.cube(t, Options{})
	w.tick(12)
	require.True(t, ea.IsSetupFinished())

	b := w.join("b")
	eb := b.cube(t, Options{})
	w.tick(2)

	require.True(t, eb.IsSetupFinished(), "no grace period when the store is known")
	assert.Equal(t, ea.Store().ID(), eb.Store().ID())
	assert.Len(t, w.storesFor(cubeID), 1)
}

func TestEntity_RacingPeersConverge(t *testing.T) {
	w := newWorld(t)
	a := w.join("a")
	b := w.join("b")
	ea := a.cube(t, Options{})
	eb := b.cube(t, Options{})

	w.tick(15)
	require.True(t, ea.IsSetupFinished())
	require.True(t, eb.IsSetupFinished())
	assert.Equal(t, ea.Store().ID(), eb.Store().ID())

	stores := w.storesFor(cubeID)
	require.Len(t, stores, 1)
	assert.Equal(t, "a", stores[0].Creation.CreatorInfo.ConnectionID)
	assert.False(t, ea.IsDestroyed())
	assert.False(t, eb.IsDestroyed(), "deleting the losing store does not destroy the entity")
}

func TestEntity_LocallyInstantiatedRootCreatesRightAway(t *testing.T) {
	w := newWorld(t)
	a := w.join("a")
	w.tick(1)

	holder := a.scene.CreateObject("holder:rock_1", nil)
	networkroot.New(a.ctrl, holder, "rock_1", nil, true, nil, models.Persist)
	e, err := New(a.reg, a.scene.CreateObject("Rock", holder), Options{})
	require.NoError(t, err)
	assert.Equal(t, "rock_1/Rock_0/SyncEntity_0", e.NetworkID())

	w.tick(2)
	require.True(t, e.IsSetupFinished())
	assert.Equal(t, models.Persist, e.Store().Persistence())
}

func TestEntity_RemotelyInstantiatedRootWaits(t *testing.T) {
	w := newWorld(t)
	a := w.join("a")
	w.tick(1)

	holder := a.scene.CreateObject("holder:rock_1", nil)
	networkroot.New(a.ctrl, holder, "rock_1", nil, false, nil, models.Session)
	e, err := New(a.reg, a.scene.CreateObject("Rock", holder), Options{})
	require.NoError(t, err)

	w.tick(30)
	assert.False(t, e.IsSetupFinished())
	assert.Empty(t, w.storesFor(e.NetworkID()))
}

// ── destroy ───────────────────────────────────────────────────────────────────

func TestEntity_DestroyIsIdempotent(t *testing.T) {
	w := newWorld(t)
	a := w.join("a")
	b := w.join("b")
	ea := a.cube(t, Options{})
	eb := b.cube(t, Options{})
	w.tick(15)
	require.True(t, eb.IsSetupFinished())

	deletions := 0
	w.hub.OnEvent(func(ev models.StoreEvent) {
		if ev.Kind == models.StoreEventDeleted {
			deletions++
		}
	})
	var local, remote []string
	ea.OnLocalDestroyed.Add(func(struct{}) { local = append(local, "local") })
	ea.OnDestroyed.Add(func(struct{}) { local = append(local, "destroyed") })
	eb.OnRemoteDestroyed.Add(func(struct{}) { remote = append(remote, "remote") })
	eb.OnDestroyed.Add(func(struct{}) { remote = append(remote, "destroyed") })

	ea.Destroy()
	ea.Destroy()
	ea.Host().Destroy()
	w.tick(2)

	assert.Equal(t, 1, deletions)
	assert.Equal(t, []string{"local", "destroyed"}, local)
	assert.Equal(t, StateDestroyed, ea.State())
	assert.Zero(t, a.reg.Len())

	assert.Equal(t, []string{"remote", "destroyed"}, remote)
	assert.True(t, eb.Host().IsDestroyed())
	assert.Zero(t, b.reg.Len())
	assert.Empty(t, w.storesFor(cubeID))
}

func TestEntity_DestroyBeforeStoreExists(t *testing.T) {
	w := newWorld(t)
	a := w.join("a")
	e := a.cube(t, Options{})
	claim := e.TryClaimOwnership()

	e.Destroy()
	w.tick(15)

	assert.Empty(t, w.storesFor(cubeID), "the pending creation is cancelled")
	r, done := claim.Result()
	require.True(t, done)
	assert.ErrorIs(t, r.Err, ErrDestroyed)

	_, err := claim.Wait(t.Context())
	assert.ErrorIs(t, err, ErrDestroyed)
	assert.ErrorIs(t, e.SendEvent("late", nil, false), ErrDestroyed)
	r2, _ := e.TryClaimOwnership().Result()
	assert.ErrorIs(t, r2.Err, ErrDestroyed)
}

// ── ownership ─────────────────────────────────────────────────────────────────

func TestEntity_QueuedClaimResolvesOnce(t *testing.T) {
	w := newWorld(t)
	a := w.join("a")
	e := a.cube(t, Options{})

	resolved := 0
	e.TryClaimOwnership().Then(func(*realtime.Store) { resolved++ }, nil)
	w.tick(15)

	require.True(t, e.IsSetupFinished())
	assert.True(t, e.DoIOwnStore(), "a queued claim creates the store owned")
	assert.Equal(t, 1, resolved)

	again, done := e.TryClaimOwnership().Result()
	require.True(t, done)
	assert.NoError(t, again.Err)
	assert.Equal(t, 1, resolved)
}

func TestEntity_ClaimWaitsForRelease(t *testing.T) {
	w := newWorld(t)
	a := w.join("a")
	b := w.join("b")
	ea := a.cube(t, Options{ClaimOwnership: true})
	w.tick(12)
	eb := b.cube(t, Options{})
	w.tick(2)
	require.True(t, ea.DoIOwnStore())
	require.True(t, eb.IsStoreOwned())
	assert.False(t, eb.CanIModifyStore())
	assert.Equal(t, "a", eb.OwnerID())

	var owners []string
	eb.OnOwnerUpdated.Add(func(u *models.UserInfo) {
		if u == nil {
			owners = append(owners, "")
			return
		}
		owners = append(owners, u.ConnectionID)
	})
	resolved := 0
	eb.TryClaimOwnership().Then(func(*realtime.Store) { resolved++ }, nil)
	w.tick(2)
	assert.Zero(t, resolved, "the store is still owned by a")

	revoked := false
	ea.TryRevokeOwnership().Then(func(*realtime.Store) { revoked = true }, nil)
	w.tick(4)

	assert.True(t, revoked)
	assert.True(t, eb.DoIOwnStore())
	assert.False(t, ea.CanIModifyStore())
	assert.Equal(t, 1, resolved)
	assert.Equal(t, []string{"", "b"}, owners)
	assert.Equal(t, "user-b", ea.OwnerUserID())
}

func TestEntity_RevokeWithoutOwnershipResolves(t *testing.T) {
	w := newWorld(t)
	a := w.join("a")
	e := a.cube(t, Options{})
	op := e.TryRevokeOwnership()
	assert.False(t, op.Done(), "queued until the store exists")

	w.tick(12)
	r, done := op.Result()
	require.True(t, done)
	assert.NoError(t, r.Err)
	assert.False(t, e.IsStoreOwned())
}

// ── properties ────────────────────────────────────────────────────────────────

func TestEntity_ReplicatesProperties(t *testing.T) {
	w := newWorld(t)
	a := w.join("a")
	b := w.join("b")

	healthA := property.ManualInt("health", 10)
	ea := a.cube(t, Options{PropertySet: property.NewSet(nil, healthA), ClaimOwnership: true})
	w.tick(12)
	require.True(t, ea.DoIOwnStore())

	healthB := property.ManualInt("health", 0)
	var remote []int
	healthB.OnRemoteChange.Add(func(c property.Change[int]) { remote = append(remote, c.Value) })
	eb := b.cube(t, Options{PropertySet: property.NewSet(nil, healthB)})
	w.tick(2)

	require.True(t, eb.IsSetupFinished())
	v, ok := healthB.CurrentValue()
	require.True(t, ok)
	assert.Equal(t, 10, v, "joining copies the store state")

	healthA.SetPendingValue(7)
	w.tick(2)
	v, _ = healthB.CurrentValue()
	assert.Equal(t, 7, v)
	assert.Equal(t, []int{10, 7}, remote)
}

func TestEntity_ForceStateIfCantModify(t *testing.T) {
	w := newWorld(t)
	a := w.join("a")
	b := w.join("b")

	a.cube(t, Options{PropertySet: property.NewSet(nil, property.ManualInt("health", 10)), ClaimOwnership: true})
	w.tick(12)
	healthB := property.ManualInt("health", 0)
	eb := b.cube(t, Options{PropertySet: property.NewSet(nil, healthB)})
	w.tick(2)
	require.False(t, eb.CanIModifyStore())

	healthB.SetPendingValue(99)
	w.tick(1)
	v, _ := healthB.PendingValue()
	assert.Equal(t, 10, v, "non-owners are forced back to the store value")

	eb.SetForceStateIfCantModify(false)
	healthB.SetPendingValue(99)
	w.tick(1)
	v, _ = healthB.PendingValue()
	assert.Equal(t, 99, v)
	stored, _ := eb.Store().Get("health")
	assert.Equal(t, models.IntValue(10), stored, "the store is never written by a non-owner")
}

func TestEntity_AddStoragePropertyTakesStoreValue(t *testing.T) {
	w := newWorld(t)
	a := w.join("a")
	b := w.join("b")

	_, err := NewStandalone(a.reg, "board", Options{
		PropertySet:    property.NewSet(nil, property.ManualString("title", "menu")),
		ClaimOwnership: true,
	})
	require.NoError(t, err)
	w.tick(12)

	eb, err := NewStandalone(b.reg, "board", Options{})
	require.NoError(t, err)
	require.True(t, eb.IsSetupFinished())

	title := property.ManualString("title", "")
	eb.AddStorageProperty(title)
	v, ok := title.CurrentValue()
	require.True(t, ok)
	assert.Equal(t, "menu", v)

	eb.AddStorageProperty(property.ManualBool("open", false))
	dup := eb.AddStorageProperty(property.ManualString("title", ""))
	assert.Equal(t, "title_2", dup.Key(), "duplicate keys are renamed")
	assert.Equal(t, 3, eb.PropertySet().Len())
}

func TestEntity_LookupFollowsStoreKeys(t *testing.T) {
	w := newWorld(t)
	a := w.join("a")
	b := w.join("b")

	ea, err := NewStandalone(a.reg, "scores", Options{ClaimOwnership: true})
	require.NoError(t, err)
	scoresA := property.NewLookup[int](ea, "score_", property.Int)
	w.tick(12)
	require.True(t, ea.DoIOwnStore())

	eb, err := NewStandalone(b.reg, "scores", Options{})
	require.NoError(t, err)
	scoresB := property.NewLookup[int](eb, "score_", property.Int)
	w.tick(2)

	scoresA.AddProperty("ann", 3)
	w.tick(2)

	require.Equal(t, []string{"ann"}, scoresB.Keys())
	p, ok := scoresB.GetProperty("ann")
	require.True(t, ok)
	v, _ := p.CurrentValue()
	assert.Equal(t, 3, v)
}

// ── messaging ─────────────────────────────────────────────────────────────────

func TestEntity_Events(t *testing.T) {
	w := newWorld(t)
	a := w.join("a")
	b := w.join("b")
	ea := a.cube(t, Options{})
	eb := b.cube(t, Options{})
	assert.ErrorIs(t, ea.SendEvent("hit", nil, false), ErrNotReady)
	w.tick(15)

	var anyA, remoteA, anyB, remoteB []Message
	hit := ea.EventWrapper("hit")
	hit.OnEventReceived(func(m Message) { anyA = append(anyA, m) })
	hit.OnRemoteEventReceived(func(m Message) { remoteA = append(remoteA, m) })
	eb.OnEventReceived("hit", func(m Message) { anyB = append(anyB, m) })
	eb.OnRemoteEventReceived("hit", func(m Message) { remoteB = append(remoteB, m) })

	require.NoError(t, hit.Send(models.Vec3{X: 1, Y: 2, Z: 3}, false))
	require.Len(t, anyA, 1, "local listeners run synchronously")
	assert.Empty(t, remoteA)
	assert.Equal(t, "a", anyA[0].Sender.ConnectionID)
	assert.Equal(t, models.Vec3{X: 1, Y: 2, Z: 3}, anyA[0].Data)

	w.tick(1)
	require.Len(t, anyB, 1)
	require.Len(t, remoteB, 1)
	assert.Equal(t, "hit", remoteB[0].Name)
	assert.Equal(t, "a", remoteB[0].Sender.ConnectionID)
	assert.Equal(t, models.Vec3{X: 1, Y: 2, Z: 3}, remoteB[0].Data)

	require.NoError(t, ea.SendEvent("hit", map[string]any{"power": 2}, true))
	w.tick(1)
	assert.Len(t, anyA, 1, "remote-only events skip local listeners")
	require.Len(t, anyB, 2)
	assert.Equal(t, map[string]any{"power": float64(2)}, anyB[1].Data)

	var names []string
	eb.OnAnyEventReceived(func(name string, _ Message) { names = append(names, name) })
	require.NoError(t, ea.SendEvent("miss", nil, true))
	a.peer.SendMessage("not json")
	a.peer.SendMessage(`{"_network_id":"someone_else","_message":"hit"}`)
	w.tick(1)
	assert.Equal(t, []string{"miss"}, names)
	assert.Len(t, anyB, 2)
}

// ── registry ──────────────────────────────────────────────────────────────────

func TestRegistry_EntitiesAndClose(t *testing.T) {
	w := newWorld(t)
	a := w.join("a")
	b := w.join("b")
	zeta, err := NewStandalone(a.reg, "zeta", Options{})
	require.NoError(t, err)
	_, err = NewStandalone(a.reg, "alpha", Options{})
	require.NoError(t, err)
	eb, err := NewStandalone(b.reg, "zeta", Options{})
	require.NoError(t, err)
	w.tick(15)

	var ids []string
	for _, e := range a.reg.Entities() {
		ids = append(ids, e.NetworkID())
	}
	assert.Equal(t, []string{"alpha", "zeta"}, ids)

	b.reg.Close()
	assert.Zero(t, b.reg.Len())

	zeta.Destroy()
	w.tick(2)
	assert.False(t, eb.IsDestroyed(), "closed registries no longer follow the session")
}
