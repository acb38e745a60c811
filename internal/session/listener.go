package session

import (
	"github.com/MKhiriev/go-sync-framework/internal/realtime"
	"github.com/MKhiriev/go-sync-framework/internal/substrate"
	"github.com/MKhiriev/go-sync-framework/models"
)

func (c *Controller) OnSessionCreated(s substrate.Session, creation models.SessionCreationType) {
	c.session = s
	c.creation = creation
	c.Events.OnSessionCreated.Trigger(creation)
}

func (c *Controller) OnSessionShared(s substrate.Session) {
	c.session = s
	c.flow.shared = true
	c.Events.OnSessionShared.Trigger(struct{}{})
	c.checkIfReady()
}

// OnConnected rebuilds the user and store indices from the connection info.
func (c *Controller) OnConnected(s substrate.Session, info substrate.ConnectionInfo) {
	c.logger.Debug().Str("connection_id", info.LocalUser.ConnectionID).Msg("connected to session")
	c.session = s

	c.users = nil
	c.byUserID = make(map[string][]models.UserInfo)
	c.byConnID = make(map[string]models.UserInfo)

	local := info.LocalUser
	c.local = &local
	c.trackUser(local)
	for _, u := range info.ExternalUsers {
		c.trackUser(u)
	}
	for _, store := range info.Stores {
		c.trackStore(store, store.Owner(), store.CreationInfo())
	}

	c.flow.connected = true
	c.Events.OnConnected.Trigger(info)
	c.checkIfReady()
}

func (c *Controller) OnDisconnected(_ substrate.Session, reason string) {
	c.logger.Debug().Str("reason", reason).Msg("disconnected from session")
	c.Events.OnDisconnected.Trigger(reason)
}

func (c *Controller) OnMessageReceived(_ substrate.Session, sender models.UserInfo, msg string) {
	c.Events.OnMessageReceived.Trigger(Message{Sender: sender, Text: msg})
}

func (c *Controller) OnUserJoined(_ substrate.Session, user models.UserInfo) {
	if !c.trackUser(user) {
		c.logger.Debug().Str("connection_id", user.ConnectionID).Msg("skipping duplicate user")
		return
	}
	c.logger.Debug().Str("connection_id", user.ConnectionID).Str("display_name", user.DisplayName).Msg("user joined session")
	c.Events.OnUserJoined.Trigger(user)
}

func (c *Controller) OnUserLeft(_ substrate.Session, user models.UserInfo) {
	c.untrackUser(user)
	c.Events.OnUserLeft.Trigger(user)
}

func (c *Controller) OnError(code, description string) {
	c.logger.Warn().Str("code", code).Str("description", description).Msg("session error")
	c.Events.OnError.Trigger(Error{Code: code, Description: description})
}

func (c *Controller) OnStoreCreated(_ substrate.Session, store *realtime.Store, owner *models.UserInfo, creation models.CreationInfo) {
	c.logger.Debug().Str("store_id", store.ID()).Str("network_id", store.NetworkID()).Msg("realtime store created")
	c.trackStore(store, owner, creation)
	c.Events.OnStoreCreated.Trigger(StoreCreated{Store: store, Owner: owner, Creation: creation})
}

func (c *Controller) OnStoreUpdated(_ substrate.Session, store *realtime.Store, key string, info models.UpdateInfo) {
	c.Events.OnStoreUpdated.Trigger(StoreUpdated{Store: store, Key: key, Info: info})
}

func (c *Controller) OnStoreDeleted(_ substrate.Session, store *realtime.Store) {
	c.untrackStore(store)
	c.Events.OnStoreDeleted.Trigger(store)
}

func (c *Controller) OnStoreOwnershipUpdated(_ substrate.Session, store *realtime.Store, owner *models.UserInfo) {
	c.trackStore(store, owner, store.CreationInfo())
	c.Events.OnStoreOwnershipUpdated.Trigger(OwnershipUpdated{Store: store, Owner: owner})
}
