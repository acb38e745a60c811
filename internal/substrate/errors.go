package substrate

import "errors"

var (
	ErrRejected         = errors.New("request rejected by session")
	ErrPermissionDenied = errors.New("permission denied")
	ErrStoreNotFound    = errors.New("store not found")
	ErrNotConnected     = errors.New("not connected to a session")
)
