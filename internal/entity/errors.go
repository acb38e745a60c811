package entity

import "errors"

var (
	ErrDuplicateNetworkID = errors.New("network id is already registered")
	ErrDestroyed          = errors.New("entity is destroyed")
	ErrNotReady           = errors.New("entity setup is not finished")
	ErrNoHost             = errors.New("entity needs a host object")
	ErrUnknownSyncMode    = errors.New("unknown transform sync mode")
)
