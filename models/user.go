package models

// UserInfo identifies one connection of a user in a session.
// A single user may be connected from several devices at once, so
// UserID is shared between connections while ConnectionID is unique.
type UserInfo struct {
	// ConnectionID is unique per connection and stable for its lifetime.
	// It is the identity used for store ownership.
	ConnectionID string `json:"connectionId"`

	// UserID identifies the person behind the connection.
	// Several connections may carry the same UserID.
	UserID string `json:"userId"`

	// DisplayName is the human readable name shown to other users.
	DisplayName string `json:"displayName"`
}

// IsZero reports whether the info identifies nobody.
func (u UserInfo) IsZero() bool {
	return u.ConnectionID == "" && u.UserID == ""
}

// SameConnection reports whether u and other describe the same connection.
func (u UserInfo) SameConnection(other UserInfo) bool {
	return u.ConnectionID != "" && u.ConnectionID == other.ConnectionID
}

// SessionCreationType tells how the local peer entered the session.
type SessionCreationType int

const (
	// SessionCreationMultiplayer is a peer that started or joined a session on its own.
	SessionCreationMultiplayer SessionCreationType = iota
	// SessionCreationReceiver is a peer that joined by accepting an invite.
	SessionCreationReceiver
)
