package entity

import (
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/go-sync-framework/internal/observer"
	"github.com/MKhiriev/go-sync-framework/models"
)

// Message is a network event received by an entity.
type Message struct {
	Sender models.UserInfo
	Name   string
	// Data is the decoded payload. Tagged vectors come back as models.Vec2,
	// Vec3, Vec4 and Quat.
	Data any
}

// SendEvent broadcasts an event to every copy of the entity. Unless
// onlySendRemote is set, local listeners receive it too, with the payload
// decoded the same way remote peers decode it.
func (e *SyncEntity) SendEvent(name string, data any, onlySendRemote bool) error {
	if e.destroyed {
		e.logger.Warn().Str("event", name).Msg("sending an event on a destroyed entity")
		return ErrDestroyed
	}
	if !e.setupFinished {
		e.logger.Warn().Str("event", name).Msg("sending an event before setup is finished")
		return ErrNotReady
	}

	msg, err := models.NewEntityMessage(e.networkID, name, data)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode %q event: %w", name, err)
	}
	e.ctrl.Session().SendMessage(string(raw))

	if onlySendRemote {
		return nil
	}
	decoded, err := msg.DecodeData()
	if err != nil {
		return fmt.Errorf("decode %q event: %w", name, err)
	}
	local, _ := e.ctrl.LocalUserInfo()
	e.dispatch(Message{Sender: local, Name: name, Data: decoded})
	return nil
}

// OnEventReceived registers fn for every name event, local or remote.
func (e *SyncEntity) OnEventReceived(name string, fn func(Message)) observer.Subscription {
	return e.events.Add(name, fn)
}

// OnRemoteEventReceived registers fn for name events sent by other
// connections.
func (e *SyncEntity) OnRemoteEventReceived(name string, fn func(Message)) observer.Subscription {
	return e.remote.Add(name, fn)
}

// OnAnyEventReceived registers fn for every event.
func (e *SyncEntity) OnAnyEventReceived(fn func(name string, m Message)) observer.Subscription {
	return e.events.AddAny(fn)
}

func (e *SyncEntity) receive(sender models.UserInfo, raw string) {
	var msg models.EntityMessage
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		e.logger.Debug().Err(err).Msg("ignoring malformed entity message")
		return
	}
	if msg.Message == "" {
		return
	}
	data, err := msg.DecodeData()
	if err != nil {
		e.logger.Warn().Err(err).Str("event", msg.Message).Msg("error decoding event data")
		return
	}
	e.dispatch(Message{Sender: sender, Name: msg.Message, Data: data})
}

func (e *SyncEntity) dispatch(m Message) {
	if m.Sender.ConnectionID != e.ctrl.LocalConnectionID() {
		e.remote.Trigger(m.Name, m)
	}
	e.events.Trigger(m.Name, m)
}

// EventWrapper binds one event name of an entity.
type EventWrapper struct {
	entity *SyncEntity
	name   string
}

// EventWrapper returns a helper for the name event.
func (e *SyncEntity) EventWrapper(name string) EventWrapper {
	return EventWrapper{entity: e, name: name}
}

func (w EventWrapper) Name() string { return w.name }

func (w EventWrapper) Send(data any, onlySendRemote bool) error {
	return w.entity.SendEvent(w.name, data, onlySendRemote)
}

func (w EventWrapper) OnEventReceived(fn func(Message)) observer.Subscription {
	return w.entity.OnEventReceived(w.name, fn)
}

func (w EventWrapper) OnRemoteEventReceived(fn func(Message)) observer.Subscription {
	return w.entity.OnRemoteEventReceived(w.name, fn)
}
