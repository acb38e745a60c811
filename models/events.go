package models

import "time"

// StoreEventKind names a change observed on the session hub.
type StoreEventKind string

const (
	StoreEventCreated   StoreEventKind = "created"
	StoreEventUpdated   StoreEventKind = "updated"
	StoreEventDeleted   StoreEventKind = "deleted"
	StoreEventOwnership StoreEventKind = "ownership"
	StoreEventUserJoin  StoreEventKind = "user_joined"
	StoreEventUserLeft  StoreEventKind = "user_left"
)

// StoreEvent is one entry of the debug event stream.
type StoreEvent struct {
	Kind      StoreEventKind `json:"kind"`
	StoreID   string         `json:"storeId,omitempty"`
	NetworkID string         `json:"networkId,omitempty"`
	Key       string         `json:"key,omitempty"`
	Value     *Value         `json:"value,omitempty"`
	Actor     UserInfo       `json:"actor"`
	Owner     *UserInfo      `json:"owner,omitempty"`
	Time      time.Time      `json:"time"`
}
