package store

import (
	"context"

	"github.com/MKhiriev/go-sync-framework/models"
)

// StoreRepository persists snapshots of Persist-class stores between host
// restarts. It satisfies the memory hub's repository contract.
type StoreRepository interface {
	LoadStores(ctx context.Context) ([]models.StoreSnapshot, error)
	SaveStore(ctx context.Context, snap models.StoreSnapshot) error
	DeleteStore(ctx context.Context, storeID string) error
}
