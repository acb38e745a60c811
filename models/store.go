// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"strings"
)

// Reserved store keys written by the framework itself.
const (
	// NetworkIDKey holds the network id the store is bound to.
	NetworkIDKey = "_network_id"
	// NetworkTypeKey marks stores with a special meaning, see NetworkTypePrefab.
	NetworkTypeKey = "_network_type"
	// NetworkTypePrefab tags a store created by an Instantiator.
	NetworkTypePrefab = "prefab"

	SpawnerIDKey    = "_spawner_id"
	PrefabNameKey   = "_prefab_name"
	InitPositionKey = "_init_pos"
	InitRotationKey = "_init_rot"
	InitScaleKey    = "_init_scale"

	// SessionStoreID is the network id of the shared session store.
	SessionStoreID = "__session"
	// ColocatedBuildStatusKey lives in the session store.
	ColocatedBuildStatusKey = "_colocated_build_status"
)

// ColocatedBuildStatus is the shared colocation map state.
type ColocatedBuildStatus string

const (
	ColocatedBuildNone     ColocatedBuildStatus = "none"
	ColocatedBuildBuilding ColocatedBuildStatus = "building"
	ColocatedBuildBuilt    ColocatedBuildStatus = "built"
)

// Persistence governs how long a store outlives the connections that use it.
// The classes are ordered from the shortest to the longest lifetime.
type Persistence int

const (
	// Ephemeral stores are removed when their creator disconnects.
	Ephemeral Persistence = iota
	// Owner stores are removed when their current owner disconnects.
	Owner
	// Session stores live until the last user leaves the session.
	Session
	// Persist stores survive the session and are restored when it restarts.
	Persist
)

var persistenceNames = map[Persistence]string{
	Ephemeral: "Ephemeral",
	Owner:     "Owner",
	Session:   "Session",
	Persist:   "Persist",
}

func (p Persistence) String() string {
	if name, ok := persistenceNames[p]; ok {
		return name
	}
	return "Unknown"
}

// ParsePersistence parses a persistence class name, ignoring case.
// An empty name yields Session. An unknown name yields Session together with
// ErrUnknownPersistence so the caller can warn about the misconfiguration.
func ParsePersistence(s string) (Persistence, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Session, nil
	}
	for p, name := range persistenceNames {
		if strings.EqualFold(name, s) {
			return p, nil
		}
	}
	return Session, ErrUnknownPersistence
}

func (p Persistence) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Persistence) UnmarshalText(text []byte) error {
	parsed, err := ParsePersistence(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Ownership is requested at store creation time.
type Ownership int

const (
	Unowned Ownership = iota
	Owned
)

// UpdateInfo accompanies a remote store update.
type UpdateInfo struct {
	// SentServerTimeMs is the server clock when the update was sent.
	// Zero means unknown.
	SentServerTimeMs int64
	// UpdaterInfo is the connection that wrote the value.
	UpdaterInfo UserInfo
}

// CreationInfo describes when and by whom a store was created.
type CreationInfo struct {
	StoreID                 string    `json:"storeId"`
	CreatorInfo             UserInfo  `json:"creatorInfo"`
	OwnerInfo               *UserInfo `json:"ownerInfo,omitempty"`
	SentServerTimeMs        int64     `json:"sentServerTimeMs"`
	LastUpdatedServerTimeMs int64     `json:"lastUpdatedServerTimeMs"`
}

// StoreSnapshot is a point in time copy of a store, used for late joiners,
// persistence and the debug API.
type StoreSnapshot struct {
	ID          string           `json:"id"`
	Data        map[string]Value `json:"data"`
	Owner       *UserInfo        `json:"owner,omitempty"`
	Persistence Persistence      `json:"persistence"`
	Creation    CreationInfo     `json:"creation"`
}

// NetworkID returns the network id recorded in the snapshot, if any.
func (s StoreSnapshot) NetworkID() string {
	id, _ := s.Data[NetworkIDKey].Str()
	return id
}
