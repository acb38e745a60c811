package realtime

import "errors"

var ErrStoreDeleted = errors.New("store deleted")
