// Package workers runs the background jobs of the sync host: the frame
// loops of hosted peers and the periodic flush of persisted stores.
// A Workers aggregate starts and stops them as one unit.
package workers

import "context"

// Worker is a background job. Run must not block: it starts the job and
// returns. Stop blocks until the job has exited and is safe to call on a
// job that is not running.
type Worker interface {
	Run(ctx context.Context)
	Stop()
}

// PersistFlusher writes dirty Persist-class stores to durable storage.
// The memory hub implements it.
type PersistFlusher interface {
	FlushPersisted(ctx context.Context) error
}
