package realtime

import (
	"errors"
	"testing"

	"github.com/MKhiriev/go-sync-framework/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	writes []string
	err    error
}

func (w *recordingWriter) WriteValue(_ *Store, key string, _ models.Value) error {
	if w.err != nil {
		return w.err
	}
	w.writes = append(w.writes, key)
	return nil
}

func newTestStore(w Writer) *Store {
	return NewStore(models.StoreSnapshot{
		ID: "store-1",
		Data: map[string]models.Value{
			models.NetworkIDKey: models.StringValue("pan"),
		},
		Persistence: models.Session,
	}, w)
}

func TestStore_PutGoesThroughWriter(t *testing.T) {
	w := &recordingWriter{}
	s := newTestStore(w)

	require.NoError(t, s.Put("heat", models.FloatValue(0.5)))
	assert.Equal(t, []string{"heat"}, w.writes)

	v, ok := s.Get("heat")
	require.True(t, ok)
	f, _ := v.Float()
	assert.Equal(t, 0.5, f)
	assert.Equal(t, "pan", s.NetworkID())
}

func TestStore_RejectedWriteIsNotApplied(t *testing.T) {
	denied := errors.New("denied")
	s := newTestStore(&recordingWriter{err: denied})

	err := s.Put("heat", models.FloatValue(1))
	assert.ErrorIs(t, err, denied)
	assert.False(t, s.Has("heat"))
}

func TestStore_PutUnsupportedType(t *testing.T) {
	s := newTestStore(nil)
	err := s.Put("broken", models.Value{})
	assert.ErrorIs(t, err, models.ErrUnsupportedValueType)
}

func TestStore_DeletedRejectsWrites(t *testing.T) {
	s := newTestStore(nil)
	s.ApplyDeleted()
	assert.ErrorIs(t, s.Put("k", models.IntValue(1)), ErrStoreDeleted)
}

func TestStore_OwnerIsCopied(t *testing.T) {
	s := newTestStore(nil)
	owner := models.UserInfo{ConnectionID: "c1", UserID: "u1"}
	s.ApplyOwner(&owner)
	owner.ConnectionID = "changed"

	got := s.Owner()
	require.NotNil(t, got)
	assert.Equal(t, "c1", got.ConnectionID)

	s.ApplyOwner(nil)
	assert.Nil(t, s.Owner())
}

func TestStore_SnapshotIsIndependent(t *testing.T) {
	s := newTestStore(nil)
	snap := s.Snapshot()
	snap.Data["extra"] = models.IntValue(1)

	assert.False(t, s.Has("extra"))
	assert.Equal(t, []string{models.NetworkIDKey}, s.Keys())
}

func TestDataMap(t *testing.T) {
	m := DataMap{}
	require.NoError(t, m.Put("b", models.BoolValue(true)))
	require.NoError(t, m.Put("a", models.IntValue(2)))

	assert.Equal(t, []string{"a", "b"}, m.Keys())
	assert.True(t, m.Has("a"))
	assert.Error(t, m.Put("c", models.Value{}))
}
