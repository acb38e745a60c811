package store

import "github.com/MKhiriev/go-sync-framework/internal/logger"

// Repositories groups the persistence backends of the host.
type Repositories struct {
	Stores StoreRepository
}

func NewRepositories(db *DB, log *logger.Logger) *Repositories {
	return &Repositories{
		Stores: NewStoreRepository(db, log),
	}
}
