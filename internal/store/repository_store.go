// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/go-sync-framework/internal/logger"
	"github.com/MKhiriev/go-sync-framework/models"
)

// storeRepository keeps Persist-class store snapshots in the "stores" table.
// Data, owner and creation info are stored as JSON text; persistence as its
// class name.
type storeRepository struct {
	*DB
	logger *logger.Logger
}

func NewStoreRepository(db *DB, logger *logger.Logger) StoreRepository {
	return &storeRepository{
		DB:     db,
		logger: logger,
	}
}

// LoadStores returns every saved snapshot, oldest update first.
func (s *storeRepository) LoadStores(ctx context.Context) ([]models.StoreSnapshot, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectStoresQuery(ctx)
	if err != nil {
		log.Err(err).Str("func", "storeRepository.LoadStores").Msg("failed to create query")
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "storeRepository.LoadStores").Msg("failed to execute query for loading stores")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	snapshots := make([]models.StoreSnapshot, 0)
	for rows.Next() {
		var row storeRow
		var owner sql.NullString
		if err := rows.Scan(&row.ID, &row.NetworkID, &row.Persistence, &row.Data, &owner, &row.Creation, &row.UpdatedAt); err != nil {
			log.Err(err).Str("func", "storeRepository.LoadStores").Msg("failed to scan store row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		if owner.Valid {
			row.Owner = &owner.String
		}

		snap, err := decodeStoreRow(row)
		if err != nil {
			log.Err(err).
				Str("func", "storeRepository.LoadStores").
				Str("store_id", row.ID).
				Msg("failed to decode store row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		snapshots = append(snapshots, snap)
	}

	if err := rows.Err(); err != nil {
		log.Err(err).Str("func", "storeRepository.LoadStores").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	log.Debug().Str("func", "storeRepository.LoadStores").Int("count", len(snapshots)).Msg("stores loaded")
	return snapshots, nil
}

// SaveStore inserts or replaces the snapshot with the same id.
func (s *storeRepository) SaveStore(ctx context.Context, snap models.StoreSnapshot) error {
	log := logger.FromContext(ctx)

	row, err := encodeStoreRow(snap)
	if err != nil {
		log.Err(err).Str("func", "storeRepository.SaveStore").Str("store_id", snap.ID).Msg("failed to encode snapshot")
		return err
	}

	query, args, err := buildUpsertStoreQuery(ctx, row)
	if err != nil {
		log.Err(err).Str("func", "storeRepository.SaveStore").Str("store_id", snap.ID).Msg("failed to create query")
		return err
	}

	result, err := s.DB.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "storeRepository.SaveStore").Str("store_id", snap.ID).Msg("failed to save store")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return ErrStoreNotSaved
	}

	return nil
}

// DeleteStore removes the snapshot. Deleting a missing id is not an error.
func (s *storeRepository) DeleteStore(ctx context.Context, storeID string) error {
	log := logger.FromContext(ctx)

	query, args, err := buildDeleteStoreQuery(ctx, storeID)
	if err != nil {
		log.Err(err).Str("func", "storeRepository.DeleteStore").Str("store_id", storeID).Msg("failed to create query")
		return err
	}

	if _, err = s.DB.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "storeRepository.DeleteStore").Str("store_id", storeID).Msg("failed to delete store")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func encodeStoreRow(snap models.StoreSnapshot) (storeRow, error) {
	row := storeRow{
		ID:          snap.ID,
		NetworkID:   snap.NetworkID(),
		Persistence: snap.Persistence.String(),
		UpdatedAt:   snap.Creation.LastUpdatedServerTimeMs,
	}

	data := snap.Data
	if data == nil {
		data = map[string]models.Value{}
	}
	encoded, err := json.Marshal(data)
	if err != nil {
		return storeRow{}, fmt.Errorf("%w: %w", ErrEncodingSnapshot, err)
	}
	row.Data = string(encoded)

	if snap.Owner != nil {
		encoded, err = json.Marshal(snap.Owner)
		if err != nil {
			return storeRow{}, fmt.Errorf("%w: %w", ErrEncodingSnapshot, err)
		}
		owner := string(encoded)
		row.Owner = &owner
	}

	encoded, err = json.Marshal(snap.Creation)
	if err != nil {
		return storeRow{}, fmt.Errorf("%w: %w", ErrEncodingSnapshot, err)
	}
	row.Creation = string(encoded)

	return row, nil
}

func decodeStoreRow(row storeRow) (models.StoreSnapshot, error) {
	snap := models.StoreSnapshot{ID: row.ID}

	if err := snap.Persistence.UnmarshalText([]byte(row.Persistence)); err != nil {
		return models.StoreSnapshot{}, err
	}
	if err := json.Unmarshal([]byte(row.Data), &snap.Data); err != nil {
		return models.StoreSnapshot{}, err
	}
	if row.Owner != nil {
		var owner models.UserInfo
		if err := json.Unmarshal([]byte(*row.Owner), &owner); err != nil {
			return models.StoreSnapshot{}, err
		}
		snap.Owner = &owner
	}
	if err := json.Unmarshal([]byte(row.Creation), &snap.Creation); err != nil {
		return models.StoreSnapshot{}, err
	}

	return snap, nil
}
