package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

const storesTable = "stores"

// storeColumns is the column order shared by selects and inserts.
var storeColumns = []string{
	"id",
	"network_id",
	"persistence",
	"data",
	"owner",
	"creation",
	"updated_at",
}

// sqlite uses ? placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

func buildSelectStoresQuery(_ context.Context) (string, []any, error) {
	query, args, err := psql.
		Select(storeColumns...).
		From(storesTable).
		OrderBy("updated_at", "id").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

// storeRow is a snapshot already encoded into column values.
type storeRow struct {
	ID          string
	NetworkID   string
	Persistence string
	Data        string
	Owner       *string
	Creation    string
	UpdatedAt   int64
}

func buildUpsertStoreQuery(_ context.Context, row storeRow) (string, []any, error) {
	query, args, err := psql.
		Insert(storesTable).
		Columns(storeColumns...).
		Values(row.ID, row.NetworkID, row.Persistence, row.Data, row.Owner, row.Creation, row.UpdatedAt).
		Suffix(`ON CONFLICT(id) DO UPDATE SET
			network_id = excluded.network_id,
			persistence = excluded.persistence,
			data = excluded.data,
			owner = excluded.owner,
			creation = excluded.creation,
			updated_at = excluded.updated_at`).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildDeleteStoreQuery(_ context.Context, storeID string) (string, []any, error) {
	query, args, err := psql.
		Delete(storesTable).
		Where(sq.Eq{"id": storeID}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}
