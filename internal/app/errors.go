package app

import "errors"

var (
	ErrStorageUnavailable   = errors.New("persistence storage unavailable")
	ErrInvalidPrefabCatalog = errors.New("invalid prefab catalog")
)
