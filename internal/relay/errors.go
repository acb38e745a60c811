package relay

import "errors"

var (
	ErrNilObject     = errors.New("object is nil")
	ErrNoEntityID    = errors.New("object has no relay id")
	ErrUnknownEntity = errors.New("unknown relay entity")
	ErrNotAllowed    = errors.New("entity is owned by another user")
	ErrNotConnected  = errors.New("relay is not connected")
	ErrNoPrefabs     = errors.New("relay has no prefab catalog")
	ErrReservedOp    = errors.New("op is reserved by the relay protocol")
)
