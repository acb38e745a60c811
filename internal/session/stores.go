package session

import (
	"github.com/MKhiriev/go-sync-framework/internal/realtime"
	"github.com/MKhiriev/go-sync-framework/internal/substrate"
	"github.com/MKhiriev/go-sync-framework/models"
)

// PreferStore reports whether candidate should replace current when both
// carry the same network id. The store created by the lowest connection id
// wins; creation time and then store id break remaining ties. Every peer
// reaches the same answer, so racing creators converge on one store.
func PreferStore(candidate, current *realtime.Store) bool {
	if current == nil {
		return true
	}
	if candidate.ID() == current.ID() {
		return false
	}
	a, b := candidate.CreationInfo(), current.CreationInfo()
	if a.CreatorInfo.ConnectionID != b.CreatorInfo.ConnectionID {
		return a.CreatorInfo.ConnectionID < b.CreatorInfo.ConnectionID
	}
	if a.SentServerTimeMs != b.SentServerTimeMs {
		return a.SentServerTimeMs < b.SentServerTimeMs
	}
	return candidate.ID() < current.ID()
}

// StoreInfoByID returns the tracked store for a network id.
func (c *Controller) StoreInfoByID(networkID string) (StoreInfo, bool) {
	info, ok := c.storeByID[networkID]
	if !ok {
		return StoreInfo{}, false
	}
	return *info, true
}

// Stores returns the tracked stores in the order they were first seen.
func (c *Controller) Stores() []*realtime.Store {
	out := make([]*realtime.Store, len(c.stores))
	copy(out, c.stores)
	return out
}

func (c *Controller) trackStore(store *realtime.Store, owner *models.UserInfo, creation models.CreationInfo) {
	networkID := store.NetworkID()
	if networkID == "" {
		return
	}
	existing, ok := c.storeByID[networkID]
	switch {
	case !ok:
		c.storeByID[networkID] = &StoreInfo{Store: store, Owner: owner, Creation: creation}
		c.stores = append(c.stores, store)
	case existing.Store.ID() == store.ID():
		existing.Owner = owner
	case PreferStore(store, existing.Store):
		c.logger.Debug().
			Str("network_id", networkID).
			Str("store_id", store.ID()).
			Str("replaced_store_id", existing.Store.ID()).
			Msg("duplicate network id, preferring earlier creator")
		for i, s := range c.stores {
			if s == existing.Store {
				c.stores[i] = store
			}
		}
		c.storeByID[networkID] = &StoreInfo{Store: store, Owner: owner, Creation: creation}
		if networkID == models.SessionStoreID && c.IsLocalUserConnection(&existing.Creation.CreatorInfo) {
			c.deleteDuplicate(existing.Store)
		}
	default:
		if networkID == models.SessionStoreID && c.IsLocalUserConnection(&creation.CreatorInfo) {
			c.deleteDuplicate(store)
		}
	}
}

func (c *Controller) deleteDuplicate(store *realtime.Store) {
	c.logger.Debug().Str("store_id", store.ID()).Msg("deleting duplicate session store")
	c.session.DeleteStore(store).Then(nil, func(err error) {
		c.logger.Warn().Err(err).Str("store_id", store.ID()).Msg("error deleting duplicate session store")
	})
}

func (c *Controller) untrackStore(store *realtime.Store) {
	networkID := store.NetworkID()
	if existing, ok := c.storeByID[networkID]; ok && existing.Store.ID() == store.ID() {
		delete(c.storeByID, networkID)
	}
	for i, s := range c.stores {
		if s.ID() == store.ID() {
			c.stores = append(c.stores[:i:i], c.stores[i+1:]...)
			break
		}
	}
}

// SessionStore returns the shared session store, or nil if it does not
// exist yet.
func (c *Controller) SessionStore() *realtime.Store {
	if info, ok := c.storeByID[models.SessionStoreID]; ok {
		return info.Store
	}
	return nil
}

func (c *Controller) createSessionStore() {
	initial := realtime.DataMap{
		models.NetworkIDKey:            models.StringValue(models.SessionStoreID),
		models.ColocatedBuildStatusKey: models.StringValue(string(models.ColocatedBuildNone)),
	}
	c.logger.Debug().Msg("creating the session store")
	c.CreateStore(substrate.CreateStoreOptions{
		InitialData: initial,
		Persistence: models.Persist,
	}).Then(func(store *realtime.Store) {
		c.logger.Debug().Str("store_id", store.ID()).Msg("created session store")
		c.checkIfReady()
	}, nil)
}

// waitAndCreateSessionStore gives another peer's session store the grace
// period to show up before creating one.
func (c *Controller) waitAndCreateSessionStore() {
	c.sessionStoreWaiter = c.loop.WaitUntilTrue(
		func() bool { return c.SessionStore() != nil },
		func() {
			c.logger.Debug().Msg("found session store")
			c.checkIfReady()
		},
		c.opts.SessionStoreGracePeriod,
		c.createSessionStore,
	)
}

// ColocatedBuildStatus reads the shared map state from the session store.
func (c *Controller) ColocatedBuildStatus() models.ColocatedBuildStatus {
	store := c.SessionStore()
	if store == nil {
		return models.ColocatedBuildNone
	}
	v, _ := store.Get(models.ColocatedBuildStatusKey)
	s, _ := v.Str()
	if s == "" {
		return models.ColocatedBuildNone
	}
	return models.ColocatedBuildStatus(s)
}

func (c *Controller) setColocatedBuildStatus(status models.ColocatedBuildStatus) {
	store := c.SessionStore()
	if store == nil {
		return
	}
	if err := store.Put(models.ColocatedBuildStatusKey, models.StringValue(string(status))); err != nil {
		c.logger.Warn().Err(err).Str("status", string(status)).Msg("error writing colocated build status")
	}
}

func (c *Controller) startColocated() {
	c.logger.Debug().Msg("starting colocated setup")
	c.flow.colocatedSetupStarted = true

	c.joinExistingColocated()

	switch status := c.ColocatedBuildStatus(); status {
	case models.ColocatedBuildNone:
		c.logger.Debug().Msg("no map built yet, building")
		c.createNewColocatedSession()
	case models.ColocatedBuildBuilding:
		c.logger.Debug().Msg("map building in progress, waiting")
	case models.ColocatedBuildBuilt:
		c.logger.Debug().Msg("map already built, waiting for download")
	default:
		c.logger.Warn().Str("status", string(status)).Msg("unknown colocated build status")
	}
}

func (c *Controller) createNewColocatedSession() {
	col := c.opts.Colocation
	if col.CanTrack() {
		c.logger.Debug().Msg("already tracking, no need to build")
		c.flow.colocatedSetupFinished = true
		c.checkIfReady()
		return
	}
	c.colocationSubs.Add(col.OnTrackingAvailable(func() {
		c.logger.Debug().Msg("map built, can now track")
		c.setColocatedBuildStatus(models.ColocatedBuildBuilt)
		c.flow.colocatedSetupFinished = true
		c.checkIfReady()
	}))
	c.colocationSubs.Add(col.OnBuildFailed(func() {
		c.logger.Warn().Msg("colocated map could not be built")
		c.setColocatedBuildStatus(models.ColocatedBuildNone)
	}))
	c.setColocatedBuildStatus(models.ColocatedBuildBuilding)
	col.StartBuilding(c.session)
}

func (c *Controller) joinExistingColocated() {
	col := c.opts.Colocation
	c.colocationSubs.Add(col.OnTrackingAvailable(func() {
		c.logger.Debug().Msg("map downloaded, can now track")
		c.flow.colocatedSetupFinished = true
		c.checkIfReady()
	}))
	c.colocationSubs.Add(col.OnJoinFailed(func() {
		c.logger.Warn().Msg("no colocated map was downloaded for session")
	}))
	col.Join(c.session)
}
