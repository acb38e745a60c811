package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-sync-framework/internal/mock"
	"github.com/MKhiriev/go-sync-framework/internal/realtime"
	"github.com/MKhiriev/go-sync-framework/internal/substrate"
	"github.com/MKhiriev/go-sync-framework/models"
)

// ── Restore ──────────────────────────────────────────────────────────────────

func TestHub_RestoreClearsOwner(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockStoreRepository(ctrl)
	owner := models.UserInfo{ConnectionID: "gone", UserID: "u"}
	repo.EXPECT().LoadStores(gomock.Any()).Return([]models.StoreSnapshot{{
		ID:          "s1",
		Data:        map[string]models.Value{models.NetworkIDKey: models.StringValue("board")},
		Owner:       &owner,
		Persistence: models.Persist,
	}}, nil)

	s := newTestSession(t, WithRepository(repo))
	require.NoError(t, s.hub.Restore(context.Background()))

	a := s.join("a")
	require.Len(t, a.rec.connected.Stores, 1)
	st := a.rec.connected.Stores[0]
	assert.Equal(t, "board", st.NetworkID())
	assert.Nil(t, st.Owner())
}

func TestHub_RestoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockStoreRepository(ctrl)
	repo.EXPECT().LoadStores(gomock.Any()).Return(nil, errors.New("disk"))

	s := newTestSession(t, WithRepository(repo))
	assert.Error(t, s.hub.Restore(context.Background()))
}

// ── FlushPersisted ───────────────────────────────────────────────────────────

func TestHub_FlushPersisted_SavesOnlyPersistStores(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockStoreRepository(ctrl)
	s := newTestSession(t, WithRepository(repo))
	a := s.join("a")

	persist := a.CreateStore(substrate.CreateStoreOptions{
		InitialData: realtime.DataMap{models.NetworkIDKey: models.StringValue("p")},
		Persistence: models.Persist,
	})
	a.CreateStore(substrate.CreateStoreOptions{
		InitialData: realtime.DataMap{models.NetworkIDKey: models.StringValue("s")},
		Persistence: models.Session,
	})
	s.tick()
	st, _ := persist.Result()

	repo.EXPECT().SaveStore(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, snap models.StoreSnapshot) error {
		assert.Equal(t, st.Value.ID(), snap.ID)
		return nil
	})
	require.NoError(t, s.hub.FlushPersisted(context.Background()))

	// nothing changed since the last flush
	require.NoError(t, s.hub.FlushPersisted(context.Background()))
}

func TestHub_FlushPersisted_DeleteAndRetry(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockStoreRepository(ctrl)
	s := newTestSession(t, WithRepository(repo))
	a := s.join("a")

	op := a.CreateStore(substrate.CreateStoreOptions{InitialData: realtime.DataMap{}, Persistence: models.Persist})
	s.tick()
	st, _ := op.Result()
	a.DeleteStore(st.Value)
	s.tick()

	gomock.InOrder(
		repo.EXPECT().DeleteStore(gomock.Any(), st.Value.ID()).Return(errors.New("locked")),
		repo.EXPECT().DeleteStore(gomock.Any(), st.Value.ID()).Return(nil),
	)
	assert.Error(t, s.hub.FlushPersisted(context.Background()))
	assert.NoError(t, s.hub.FlushPersisted(context.Background()))
}

func TestHub_FlushPersisted_NoRepository(t *testing.T) {
	s := newTestSession(t)
	assert.NoError(t, s.hub.FlushPersisted(context.Background()))
}
