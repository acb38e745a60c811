package entity

import (
	"github.com/MKhiriev/go-sync-framework/internal/async"
	"github.com/MKhiriev/go-sync-framework/internal/realtime"
	"github.com/MKhiriev/go-sync-framework/internal/session"
	"github.com/MKhiriev/go-sync-framework/models"
)

func (e *SyncEntity) OwnerInfo() *models.UserInfo { return e.owner }

// OwnerID returns the owning connection id, or "" when unowned.
func (e *SyncEntity) OwnerID() string {
	if e.owner == nil {
		return ""
	}
	return e.owner.ConnectionID
}

// OwnerUserID returns the owning user id, or "" when unowned.
func (e *SyncEntity) OwnerUserID() string {
	if e.owner == nil {
		return ""
	}
	return e.owner.UserID
}

func (e *SyncEntity) IsStoreOwned() bool { return e.owner != nil }

// CanIModifyStore reports whether the store is unowned or owned by the local
// connection.
func (e *SyncEntity) CanIModifyStore() bool {
	return e.owner == nil || e.owner.ConnectionID == e.ctrl.LocalConnectionID()
}

// DoIOwnStore reports whether the store exists and the local connection
// owns it.
func (e *SyncEntity) DoIOwnStore() bool {
	return e.store != nil && e.owner != nil && e.owner.ConnectionID == e.ctrl.LocalConnectionID()
}

// TryClaimOwnership asks for ownership of the store. The returned op
// resolves once the local connection owns it. Requests made before the
// store exists, or while someone else holds it, stay queued and are retried
// whenever the store becomes free. A rejected request fails every queued
// claim; retrying is up to the caller.
func (e *SyncEntity) TryClaimOwnership() *async.Op[*realtime.Store] {
	if e.destroyed {
		e.logger.Warn().Msg("claiming ownership of a destroyed entity")
		return async.Failed[*realtime.Store](ErrDestroyed)
	}
	if e.DoIOwnStore() {
		return async.Resolved(e.store)
	}
	op := async.New[*realtime.Store]()
	e.pendingClaims = append(e.pendingClaims, op)
	if e.store == nil {
		e.logger.Debug().Msg("claiming ownership before the store exists")
		return op
	}
	e.retryOwnershipRequests()
	return op
}

// TryRevokeOwnership gives up ownership. It resolves right away when the
// local connection does not own the store.
func (e *SyncEntity) TryRevokeOwnership() *async.Op[*realtime.Store] {
	if e.destroyed {
		e.logger.Warn().Msg("revoking ownership of a destroyed entity")
		return async.Failed[*realtime.Store](ErrDestroyed)
	}
	op := async.New[*realtime.Store]()
	e.pendingRevokes = append(e.pendingRevokes, op)
	if e.store == nil {
		e.logger.Debug().Msg("revoking ownership before the store exists")
		return op
	}
	e.resolveOwnershipRequests()
	e.retryOwnershipRequests()
	return op
}

func (e *SyncEntity) onOwnershipUpdated(ev session.OwnershipUpdated) {
	if e.store == nil || ev.Store.ID() != e.store.ID() {
		return
	}
	e.updateOwner(ev.Owner)
}

func (e *SyncEntity) updateOwner(owner *models.UserInfo) {
	e.owner = owner
	e.resolveOwnershipRequests()
	e.retryOwnershipRequests()
	e.OnOwnerUpdated.Trigger(owner)
}

// resolveOwnershipRequests completes the queued requests the current owner
// already satisfies.
func (e *SyncEntity) resolveOwnershipRequests() {
	if e.store == nil {
		return
	}
	if e.DoIOwnStore() {
		for _, op := range e.pendingClaims {
			op.Resolve(e.store)
		}
		e.pendingClaims = nil
	} else {
		for _, op := range e.pendingRevokes {
			op.Resolve(e.store)
		}
		e.pendingRevokes = nil
	}
}

// retryOwnershipRequests sends at most one ownership request for the queue.
// Claims wait while another connection owns the store.
func (e *SyncEntity) retryOwnershipRequests() {
	sess := e.ctrl.Session()
	if e.store == nil || e.requesting || sess == nil {
		return
	}
	switch {
	case len(e.pendingClaims) > 0 && e.owner == nil:
		e.requesting = true
		e.logger.Debug().Msg("requesting store ownership")
		e.track(sess.RequestOwnership(e.store), &e.pendingClaims)
	case len(e.pendingRevokes) > 0 && e.DoIOwnStore():
		e.requesting = true
		e.logger.Debug().Msg("clearing store ownership")
		e.track(sess.ClearOwnership(e.store), &e.pendingRevokes)
	}
}

// track settles queue with the outcome of an ownership request. Success is
// usually observed first through the ownership notification.
func (e *SyncEntity) track(req *async.Op[*realtime.Store], queue *[]*async.Op[*realtime.Store]) {
	req.OnDone(func(r async.Result[*realtime.Store]) {
		e.requesting = false
		if e.destroyed {
			return
		}
		if r.Err != nil {
			e.logger.Warn().Err(r.Err).Msg("ownership request failed")
			for _, op := range *queue {
				op.Reject(r.Err)
			}
			*queue = nil
			return
		}
		if r.Value != nil && r.Value.ID() == e.store.ID() && !sameOwner(e.owner, r.Value.Owner()) {
			e.updateOwner(r.Value.Owner())
			return
		}
		e.resolveOwnershipRequests()
		e.retryOwnershipRequests()
	})
}

func sameOwner(a, b *models.UserInfo) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.ConnectionID == b.ConnectionID
}
