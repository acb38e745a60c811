package models

import (
	"encoding/json"
	"fmt"
)

// EntityMessage is the wire shape of a SyncEntity event:
//
//	{"_message": "<event name>", "_data": <payload>, "_network_id": "<id>"}
//
// Vector values inside the payload use the tagged form, see TaggedTypeKey.
type EntityMessage struct {
	Message   string          `json:"_message"`
	Data      json.RawMessage `json:"_data,omitempty"`
	NetworkID string          `json:"_network_id"`
}

// NewEntityMessage encodes data into an EntityMessage. A nil data leaves
// the _data field out.
func NewEntityMessage(networkID, name string, data any) (EntityMessage, error) {
	msg := EntityMessage{Message: name, NetworkID: networkID}
	if data == nil {
		return msg, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return EntityMessage{}, fmt.Errorf("encode %q event data: %w", name, err)
	}
	msg.Data = raw
	return msg, nil
}

// DecodeData returns the payload with tagged vectors restored.
func (m EntityMessage) DecodeData() (any, error) {
	if len(m.Data) == 0 {
		return nil, nil
	}
	return DecodeTagged(m.Data)
}

// RelayMessage is the wire shape of the legacy relay protocol.
type RelayMessage struct {
	Op          string          `json:"op"`
	ID          string          `json:"id,omitempty"`
	Args        json.RawMessage `json:"args,omitempty"`
	Time        int64           `json:"time,omitempty"`
	Recipient   string          `json:"recipient,omitempty"`
	PrefabName  string          `json:"prefabName,omitempty"`
	OwnerID     string          `json:"ownerId,omitempty"`
	BindedUser  string          `json:"bindedUser,omitempty"`
	DisplayName string          `json:"displayName,omitempty"`
	Parent      string          `json:"parent,omitempty"`
}

// RelayBatch is the args payload of a batch message.
type RelayBatch struct {
	Batch []RelayMessage `json:"batch"`
}
