package models

// EntityInfo is a point-in-time description of one SyncEntity on a peer.
// The debug API serves it and syncctl prints it.
type EntityInfo struct {
	// NetworkID binds the entity to its store on every peer.
	NetworkID string `json:"networkId"`

	// State is the lifecycle state name, e.g. "ready".
	State string `json:"state"`

	// StoreID is empty until a store was created or adopted.
	StoreID string `json:"storeId,omitempty"`

	Owner       *UserInfo   `json:"owner,omitempty"`
	Persistence Persistence `json:"persistence"`

	SetupFinished bool `json:"setupFinished"`

	// Values holds the store contents, reserved keys included.
	Values map[string]Value `json:"values,omitempty"`
}

// PeerInfo describes one simulated peer of the debug server.
type PeerInfo struct {
	User     UserInfo `json:"user"`
	State    string   `json:"state"`
	Ready    bool     `json:"ready"`
	Entities int      `json:"entities"`
}
