package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-sync-framework/internal/logger"
	"github.com/MKhiriev/go-sync-framework/internal/substrate/memory"
	"github.com/MKhiriev/go-sync-framework/models"
)

var _ memory.StoreRepository = (*storeRepository)(nil)

func newTestStoreRepo(t *testing.T) (*storeRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	l := logger.Nop()
	repo := &storeRepository{
		DB:     &DB{DB: db, logger: l},
		logger: l,
	}
	return repo, mock, db
}

func testSnapshot() models.StoreSnapshot {
	owner := models.UserInfo{ConnectionID: "alpha", UserID: "u1", DisplayName: "Alpha"}
	return models.StoreSnapshot{
		ID: "store-1",
		Data: map[string]models.Value{
			models.NetworkIDKey: models.StringValue("root/door"),
			"open":              models.BoolValue(true),
		},
		Owner:       &owner,
		Persistence: models.Persist,
		Creation: models.CreationInfo{
			StoreID:                 "store-1",
			CreatorInfo:             owner,
			SentServerTimeMs:        1000,
			LastUpdatedServerTimeMs: 2500,
		},
	}
}

func TestSaveStore_Success(t *testing.T) {
	repo, mock, db := newTestStoreRepo(t)
	defer db.Close()

	snap := testSnapshot()
	row, err := encodeStoreRow(snap)
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO stores").
		WithArgs("store-1", "root/door", "Persist", row.Data, *row.Owner, row.Creation, int64(2500)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SaveStore(context.Background(), snap))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveStore_NilOwnerStoredAsNull(t *testing.T) {
	repo, mock, db := newTestStoreRepo(t)
	defer db.Close()

	snap := testSnapshot()
	snap.Owner = nil

	mock.ExpectExec("INSERT INTO stores").
		WithArgs("store-1", "root/door", "Persist", sqlmock.AnyArg(), nil, sqlmock.AnyArg(), int64(2500)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SaveStore(context.Background(), snap))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveStore_ExecError(t *testing.T) {
	repo, mock, db := newTestStoreRepo(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO stores").WillReturnError(errors.New("disk full"))

	err := repo.SaveStore(context.Background(), testSnapshot())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExecutingStatement)
}

func TestSaveStore_NoRowsAffected(t *testing.T) {
	repo, mock, db := newTestStoreRepo(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO stores").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SaveStore(context.Background(), testSnapshot())
	assert.ErrorIs(t, err, ErrStoreNotSaved)
}

func TestLoadStores_Success(t *testing.T) {
	repo, mock, db := newTestStoreRepo(t)
	defer db.Close()

	snap := testSnapshot()
	row, err := encodeStoreRow(snap)
	require.NoError(t, err)

	rows := sqlmock.NewRows(storeColumns).
		AddRow(row.ID, row.NetworkID, row.Persistence, row.Data, *row.Owner, row.Creation, row.UpdatedAt).
		AddRow("store-2", "", "Session", `{}`, nil, `{"storeId":"store-2","creatorInfo":{"connectionId":"beta","userId":"","displayName":""},"sentServerTimeMs":0,"lastUpdatedServerTimeMs":0}`, int64(3000))

	mock.ExpectQuery("SELECT (.+) FROM stores ORDER BY updated_at, id").WillReturnRows(rows)

	got, err := repo.LoadStores(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "store-1", got[0].ID)
	assert.Equal(t, "root/door", got[0].NetworkID())
	assert.Equal(t, models.Persist, got[0].Persistence)
	require.NotNil(t, got[0].Owner)
	assert.Equal(t, "alpha", got[0].Owner.ConnectionID)
	open, ok := got[0].Data["open"].Bool()
	assert.True(t, ok)
	assert.True(t, open)
	assert.Equal(t, int64(2500), got[0].Creation.LastUpdatedServerTimeMs)

	assert.Equal(t, "store-2", got[1].ID)
	assert.Nil(t, got[1].Owner)
	assert.Equal(t, models.Session, got[1].Persistence)
	assert.Equal(t, "beta", got[1].Creation.CreatorInfo.ConnectionID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadStores_Empty(t *testing.T) {
	repo, mock, db := newTestStoreRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM stores").WillReturnRows(sqlmock.NewRows(storeColumns))

	got, err := repo.LoadStores(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoadStores_QueryError(t *testing.T) {
	repo, mock, db := newTestStoreRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM stores").WillReturnError(sql.ErrConnDone)

	_, err := repo.LoadStores(context.Background())
	assert.ErrorIs(t, err, ErrExecutingQuery)
}

func TestLoadStores_CorruptRow(t *testing.T) {
	repo, mock, db := newTestStoreRepo(t)
	defer db.Close()

	rows := sqlmock.NewRows(storeColumns).
		AddRow("store-1", "", "Persist", `{not json`, nil, `{}`, int64(1))
	mock.ExpectQuery("SELECT (.+) FROM stores").WillReturnRows(rows)

	_, err := repo.LoadStores(context.Background())
	assert.ErrorIs(t, err, ErrScanningRows)
}

func TestLoadStores_UnknownPersistence(t *testing.T) {
	repo, mock, db := newTestStoreRepo(t)
	defer db.Close()

	rows := sqlmock.NewRows(storeColumns).
		AddRow("store-1", "", "Forever", `{}`, nil, `{}`, int64(1))
	mock.ExpectQuery("SELECT (.+) FROM stores").WillReturnRows(rows)

	_, err := repo.LoadStores(context.Background())
	assert.ErrorIs(t, err, models.ErrUnknownPersistence)
}

func TestDeleteStore(t *testing.T) {
	repo, mock, db := newTestStoreRepo(t)
	defer db.Close()

	mock.ExpectExec("DELETE FROM stores WHERE id = ?").
		WithArgs("store-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.DeleteStore(context.Background(), "store-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteStore_ExecError(t *testing.T) {
	repo, mock, db := newTestStoreRepo(t)
	defer db.Close()

	mock.ExpectExec("DELETE FROM stores").WillReturnError(errors.New("locked"))

	err := repo.DeleteStore(context.Background(), "store-1")
	assert.ErrorIs(t, err, ErrExecutingStatement)
}
