package networkroot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-sync-framework/internal/async"
	"github.com/MKhiriev/go-sync-framework/internal/mock"
	"github.com/MKhiriev/go-sync-framework/internal/realtime"
	"github.com/MKhiriev/go-sync-framework/internal/scene"
	"github.com/MKhiriev/go-sync-framework/internal/scheduler"
	"github.com/MKhiriev/go-sync-framework/internal/session"
	"github.com/MKhiriev/go-sync-framework/internal/substrate"
	"github.com/MKhiriev/go-sync-framework/internal/substrate/memory"
	"github.com/MKhiriev/go-sync-framework/models"
)

var (
	ann = models.UserInfo{ConnectionID: "a", UserID: "ann"}
	bob = models.UserInfo{ConnectionID: "b", UserID: "bob"}
)

// connectedController returns a ready controller driven by a mocked session.
func connectedController(t *testing.T, sess substrate.Session) *session.Controller {
	t.Helper()
	ctrl, err := session.New(nil, scheduler.NewLoop(nil, nil), session.Options{}, nil)
	require.NoError(t, err)
	ctrl.OnSessionCreated(sess, models.SessionCreationMultiplayer)
	ctrl.OnConnected(sess, substrate.ConnectionInfo{LocalUser: ann})
	require.True(t, ctrl.IsReady())
	return ctrl
}

func newStore(id string) *realtime.Store {
	return realtime.NewStore(models.StoreSnapshot{ID: id}, nil)
}

func TestInfo_LocalDestroyDeletesStoreOnce(t *testing.T) {
	mc := gomock.NewController(t)
	sess := mock.NewMockSession(mc)
	ctrl := connectedController(t, sess)

	store := newStore("s1")
	sess.EXPECT().DeleteStore(store).Return(async.Resolved(struct{}{})).Times(1)

	s := scene.New()
	holder := s.CreateObject("holder:rock_1", nil)
	info := New(ctrl, holder, "rock_1", store, true, nil, models.Session)
	child := s.CreateObject("Rock", holder)
	info.FinishSetup(nil)
	assert.Same(t, child, info.InstantiatedChild())

	var order []string
	info.OnLocalDestroyed.Add(func(struct{}) { order = append(order, "local") })
	info.OnRemoteDestroyed.Add(func(struct{}) { order = append(order, "remote") })
	info.OnDestroyed.Add(func(struct{}) { order = append(order, "destroyed") })

	info.Destroy()
	info.Destroy()
	holder.Destroy()

	assert.True(t, holder.IsDestroyed())
	assert.True(t, child.IsDestroyed())
	assert.True(t, info.IsDestroyed())
	assert.Equal(t, []string{"local", "destroyed"}, order)
}

func TestInfo_ChildDestroyDestroysHolder(t *testing.T) {
	mc := gomock.NewController(t)
	sess := mock.NewMockSession(mc)
	ctrl := connectedController(t, sess)

	store := newStore("s1")
	sess.EXPECT().DeleteStore(store).Return(async.Resolved(struct{}{})).Times(1)

	s := scene.New()
	holder := s.CreateObject("holder:rock_1", nil)
	info := New(ctrl, holder, "rock_1", store, true, &ann, models.Session)
	child := s.CreateObject("Rock", holder)
	info.FinishSetup(child)

	child.Destroy()
	assert.True(t, holder.IsDestroyed())
	assert.True(t, info.IsDestroyed())
	assert.Nil(t, info.InstantiatedChild())
}

func TestInfo_ForeignOwnedIsNotDeleted(t *testing.T) {
	mc := gomock.NewController(t)
	sess := mock.NewMockSession(mc)
	ctrl := connectedController(t, sess)

	s := scene.New()
	holder := s.CreateObject("holder:rock_1", nil)
	info := New(ctrl, holder, "rock_1", newStore("s1"), false, &bob, models.Persist)
	child := s.CreateObject("Rock", holder)
	info.FinishSetup(child)

	assert.False(t, info.CanIModifyStore())
	assert.False(t, info.DoIOwnStore())
	assert.True(t, info.IsOwnedBy("b"))
	assert.True(t, info.IsOwnedByUser(bob))
	assert.False(t, info.IsOwnedBy(""))
	assert.Equal(t, "bob", info.OwnerUserID())

	// the child is not tied to the holder when someone else owns the store
	child.Destroy()
	assert.False(t, holder.IsDestroyed())

	fired := 0
	info.OnLocalDestroyed.Add(func(struct{}) { fired++ })
	info.Destroy()
	assert.Equal(t, 1, fired)
}

func TestInfo_OwnershipFollowsController(t *testing.T) {
	mc := gomock.NewController(t)
	sess := mock.NewMockSession(mc)
	ctrl := connectedController(t, sess)

	store := newStore("s1")
	holder := scene.New().CreateObject("holder", nil)
	info := New(ctrl, holder, "rock_1", store, true, nil, models.Session)
	assert.True(t, info.CanIModifyStore())
	assert.False(t, info.DoIOwnStore())
	assert.Empty(t, info.OwnerID())

	ctrl.OnStoreOwnershipUpdated(sess, store, &ann)
	assert.True(t, info.DoIOwnStore())

	ctrl.OnStoreOwnershipUpdated(sess, newStore("other"), &bob)
	assert.Equal(t, "a", info.OwnerID(), "updates for other stores are ignored")

	ctrl.OnStoreOwnershipUpdated(sess, store, &bob)
	assert.False(t, info.CanIModifyStore())
}

func TestFind(t *testing.T) {
	mc := gomock.NewController(t)
	ctrl := connectedController(t, mock.NewMockSession(mc))

	s := scene.New()
	holder := s.CreateObject("holder", nil)
	info := New(ctrl, holder, "rock_1", newStore("s1"), true, nil, models.Session)
	leaf := s.CreateObject("leaf", s.CreateObject("Rock", holder))

	got, ok := Find(leaf)
	require.True(t, ok)
	assert.Same(t, info, got)

	_, ok = Find(s.CreateObject("loose", nil))
	assert.False(t, ok)
}

func TestInfo_RemoteDeleteDestroysHolder(t *testing.T) {
	clock := scheduler.NewManualClock(time.Time{})
	hub := memory.NewHub(nil, memory.WithClock(clock))
	var loops []*scheduler.Loop
	join := func(u models.UserInfo) (*memory.Peer, *session.Controller) {
		loop := scheduler.NewLoop(clock, nil)
		loops = append(loops, loop)
		p := hub.NewPeer(u, loop)
		ctrl, err := session.New(p, loop, session.Options{}, nil)
		require.NoError(t, err)
		require.NoError(t, ctrl.Start())
		return p, ctrl
	}
	tick := func(n int) {
		for i := 0; i < n; i++ {
			clock.Advance(time.Second / 60)
			for _, l := range loops {
				l.Tick()
			}
		}
	}

	pa, a := join(ann)
	_, b := join(bob)
	tick(1)

	var created *realtime.Store
	a.CreateStore(substrate.CreateStoreOptions{
		InitialData: realtime.DataMap{models.NetworkIDKey: models.StringValue("rock_1")},
	}).Then(func(s *realtime.Store) { created = s }, nil)
	tick(1)
	require.NotNil(t, created)

	replica, ok := b.StoreInfoByID("rock_1")
	require.True(t, ok)

	s := scene.New()
	holder := s.CreateObject("holder:rock_1", nil)
	info := New(b, holder, "rock_1", replica.Store, false, nil, models.Session)
	child := s.CreateObject("Rock", holder)
	info.FinishSetup(child)

	var order []string
	info.OnLocalDestroyed.Add(func(struct{}) { order = append(order, "local") })
	info.OnRemoteDestroyed.Add(func(struct{}) { order = append(order, "remote") })
	info.OnDestroyed.Add(func(struct{}) { order = append(order, "destroyed") })

	pa.DeleteStore(created)
	tick(1)

	assert.True(t, holder.IsDestroyed())
	assert.True(t, child.IsDestroyed())
	assert.Equal(t, []string{"remote", "destroyed"}, order)
	assert.Empty(t, hub.Stores())
}
