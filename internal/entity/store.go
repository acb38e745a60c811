package entity

import (
	"github.com/MKhiriev/go-sync-framework/internal/async"
	"github.com/MKhiriev/go-sync-framework/internal/realtime"
	"github.com/MKhiriev/go-sync-framework/internal/session"
	"github.com/MKhiriev/go-sync-framework/models"
)

// onSessionReady picks the store source: an already tracked store, an
// immediate creation for locally instantiated prefabs, nothing for remotely
// instantiated ones (their creator makes the store), or a delayed creation.
func (e *SyncEntity) onSessionReady() {
	if e.destroyed || e.state != StateWaitingForSession {
		return
	}
	e.state = StateWaitingForStore

	if info, ok := e.ctrl.StoreInfoByID(e.networkID); ok {
		e.logger.Debug().Str("store_id", info.Store.ID()).Msg("found existing store")
		e.considerStore(info.Store, info.Owner)
		return
	}
	switch {
	case e.root != nil && e.root.LocallyCreated():
		e.createStore()
	case e.root != nil:
		e.logger.Debug().Msg("waiting for the instantiating peer's store")
	default:
		e.createTimer = e.loop.Delay(e.gracePeriod, e.createStore)
	}
}

func (e *SyncEntity) createStore() {
	if e.destroyed || e.store != nil || e.creating {
		return
	}
	e.creating = true
	e.logger.Debug().Msg("creating realtime store")
	e.ctrl.CreateStore(e.createOptions()).OnDone(func(r async.Result[*realtime.Store]) {
		e.creating = false
		if r.Err != nil {
			return
		}
		if e.destroyed {
			e.logger.Debug().Str("store_id", r.Value.ID()).Msg("entity destroyed while creating its store")
			e.deleteStore(r.Value)
			return
		}
		if e.store == nil {
			e.considerStore(r.Value, r.Value.Owner())
		}
	})
}

// startOwned reports whether a store created now should be owned locally.
func (e *SyncEntity) startOwned() bool {
	if e.root != nil && e.root.DoIOwnStore() {
		return true
	}
	return len(e.pendingClaims) > 0
}

func (e *SyncEntity) onStoreCreated(ev session.StoreCreated) {
	if e.state < StateWaitingForStore || ev.Store.NetworkID() != e.networkID {
		return
	}
	e.considerStore(ev.Store, ev.Owner)
}

// considerStore adopts store unless a preferred store with the same network
// id is already in use. The creator of the losing store deletes it.
func (e *SyncEntity) considerStore(store *realtime.Store, owner *models.UserInfo) {
	if e.destroyed {
		return
	}
	switch {
	case e.store == nil:
		e.adopt(store, owner)
	case e.store.ID() == store.ID():
	case session.PreferStore(store, e.store):
		lost := e.store
		e.logger.Debug().
			Str("store_id", store.ID()).
			Str("replaced_store_id", lost.ID()).
			Msg("switching to the earlier store")
		e.adopt(store, owner)
		e.deleteIfCreatedLocally(lost)
	default:
		e.deleteIfCreatedLocally(store)
	}
}

func (e *SyncEntity) deleteIfCreatedLocally(store *realtime.Store) {
	creator := store.CreationInfo().CreatorInfo
	if e.ctrl.IsLocalUserConnection(&creator) {
		e.deleteStore(store)
	}
}

func (e *SyncEntity) adopt(store *realtime.Store, owner *models.UserInfo) {
	e.createTimer.Cancel()
	e.store = store
	e.owner = owner

	if e.DoIOwnStore() {
		e.props.ForceWriteState(store, e.loop.Seconds())
	} else {
		e.props.InitializeFromStore(store, false)
	}
	e.resolveOwnershipRequests()
	e.OnOwnerUpdated.Trigger(e.owner)
	e.retryOwnershipRequests()

	if !e.setupFinished {
		e.setupFinished = true
		e.state = StateReady
		e.logger.Debug().Str("store_id", store.ID()).Msg("entity setup finished")
		e.OnSetupFinished.Trigger(struct{}{})
	}
}

func (e *SyncEntity) onStoreUpdated(ev session.StoreUpdated) {
	if e.store == nil || ev.Store.ID() != e.store.ID() {
		return
	}
	if !e.DoIOwnStore() && ev.Info.UpdaterInfo.ConnectionID != e.ctrl.LocalConnectionID() {
		info := ev.Info
		e.props.ApplyKeyUpdate(ev.Store, ev.Key, false, false, &info)
	}
	e.keyUpdated.Trigger(ev.Key)
}

func (e *SyncEntity) onStoreDeleted(store *realtime.Store) {
	if e.store == nil || store.ID() != e.store.ID() {
		return
	}
	e.remoteDestroy()
}
