package demo

import "errors"

// ErrMissingPrefab is returned when the catalog lacks a prefab the kitchen spawns.
var ErrMissingPrefab = errors.New("prefab missing from catalog")
