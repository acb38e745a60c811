package session

import "github.com/MKhiriev/go-sync-framework/models"

// LocalUserInfo returns the local connection once connected.
func (c *Controller) LocalUserInfo() (models.UserInfo, bool) {
	if c.local == nil {
		return models.UserInfo{}, false
	}
	return *c.local, true
}

func (c *Controller) LocalUserID() string {
	u, _ := c.LocalUserInfo()
	return u.UserID
}

func (c *Controller) LocalConnectionID() string {
	u, _ := c.LocalUserInfo()
	return u.ConnectionID
}

func (c *Controller) LocalUserName() string {
	u, _ := c.LocalUserInfo()
	return u.DisplayName
}

// IsSameUserAsLocal compares user ids, so another device of the local user
// matches too.
func (c *Controller) IsSameUserAsLocal(u models.UserInfo) bool {
	return c.local != nil && c.local.UserID == u.UserID
}

// IsLocalUserConnection compares connection ids.
func (c *Controller) IsLocalUserConnection(u *models.UserInfo) bool {
	return c.local != nil && u != nil && c.local.ConnectionID == u.ConnectionID
}

// Users returns every tracked connection.
func (c *Controller) Users() []models.UserInfo {
	out := make([]models.UserInfo, len(c.users))
	copy(out, c.users)
	return out
}

// UserByID returns the first connection of userID.
func (c *Controller) UserByID(userID string) (models.UserInfo, bool) {
	users := c.byUserID[userID]
	if len(users) == 0 {
		return models.UserInfo{}, false
	}
	return users[0], true
}

func (c *Controller) UserByConnectionID(connectionID string) (models.UserInfo, bool) {
	u, ok := c.byConnID[connectionID]
	return u, ok
}

// UsersByUserID returns every connection of userID.
func (c *Controller) UsersByUserID(userID string) []models.UserInfo {
	users := c.byUserID[userID]
	out := make([]models.UserInfo, len(users))
	copy(out, users)
	return out
}

// trackUser adds u to every index missing it and reports whether any index
// changed.
func (c *Controller) trackUser(u models.UserInfo) bool {
	if u.ConnectionID == "" {
		return false
	}
	added := false
	if _, ok := c.byConnID[u.ConnectionID]; !ok {
		c.byConnID[u.ConnectionID] = u
		added = true
	}
	var ok bool
	if c.byUserID[u.UserID], ok = appendMissing(c.byUserID[u.UserID], u); ok {
		added = true
	}
	if c.users, ok = appendMissing(c.users, u); ok {
		added = true
	}
	return added
}

func (c *Controller) untrackUser(u models.UserInfo) {
	delete(c.byConnID, u.ConnectionID)
	if list, ok := c.byUserID[u.UserID]; ok {
		list = removeConnection(list, u.ConnectionID)
		if len(list) == 0 {
			delete(c.byUserID, u.UserID)
		} else {
			c.byUserID[u.UserID] = list
		}
	}
	c.users = removeConnection(c.users, u.ConnectionID)
}

func appendMissing(list []models.UserInfo, u models.UserInfo) ([]models.UserInfo, bool) {
	for _, x := range list {
		if x.ConnectionID == u.ConnectionID {
			return list, false
		}
	}
	return append(list, u), true
}

func removeConnection(list []models.UserInfo, connectionID string) []models.UserInfo {
	out := list[:0:0]
	for _, x := range list {
		if x.ConnectionID != connectionID {
			out = append(out, x)
		}
	}
	return out
}
