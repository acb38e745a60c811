package entity

import (
	"sort"

	"github.com/tidwall/gjson"

	"github.com/MKhiriev/go-sync-framework/internal/logger"
	"github.com/MKhiriev/go-sync-framework/internal/observer"
	"github.com/MKhiriev/go-sync-framework/internal/scene"
	"github.com/MKhiriev/go-sync-framework/internal/session"
	"github.com/MKhiriev/go-sync-framework/models"
)

// Registry owns the network id to entity index of one peer and routes
// entity messages to their entity. There is one Registry per session
// controller; Close tears it down when the session ends.
type Registry struct {
	ctrl     *session.Controller
	logger   *logger.Logger
	entities map[string]*SyncEntity
	msgSub   observer.Subscription

	// OnRegistered and OnUnregistered fire as entities enter and leave
	// the index.
	OnRegistered   observer.Event[*SyncEntity]
	OnUnregistered observer.Event[*SyncEntity]
}

func NewRegistry(ctrl *session.Controller, log *logger.Logger) *Registry {
	if log == nil {
		log = ctrl.Logger()
	}
	r := &Registry{
		ctrl:     ctrl,
		logger:   log.WithComponent("entity"),
		entities: make(map[string]*SyncEntity),
	}
	r.msgSub = ctrl.Events.OnMessageReceived.Add(r.route)
	return r
}

func (r *Registry) Controller() *session.Controller { return r.ctrl }

func (r *Registry) Logger() *logger.Logger { return r.logger }

// FindByID returns the live entity registered under networkID.
func (r *Registry) FindByID(networkID string) (*SyncEntity, bool) {
	e, ok := r.entities[networkID]
	return e, ok
}

// Entities returns the registered entities sorted by network id.
func (r *Registry) Entities() []*SyncEntity {
	out := make([]*SyncEntity, 0, len(r.entities))
	for _, e := range r.entities {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].networkID < out[j].networkID })
	return out
}

func (r *Registry) Len() int { return len(r.entities) }

// Close detaches every entity from the session without deleting stores and
// stops routing messages. Entities stay usable as local objects.
func (r *Registry) Close() {
	r.msgSub.Unsubscribe()
	for _, e := range r.Entities() {
		e.cleanup()
	}
}

// EntityOf returns the entity attached to obj, if any.
func EntityOf(obj *scene.Object) (*SyncEntity, bool) {
	return scene.ComponentOf[*SyncEntity](obj)
}

func (r *Registry) register(e *SyncEntity) error {
	if _, taken := r.entities[e.networkID]; taken {
		return ErrDuplicateNetworkID
	}
	r.entities[e.networkID] = e
	r.OnRegistered.Trigger(e)
	return nil
}

func (r *Registry) unregister(e *SyncEntity) {
	if cur, ok := r.entities[e.networkID]; ok && cur == e {
		delete(r.entities, e.networkID)
		r.OnUnregistered.Trigger(e)
	}
}

// route hands a session message to the entity named by its _network_id.
// Messages from other protocols lack the field and are skipped without
// decoding.
func (r *Registry) route(m session.Message) {
	id := gjson.Get(m.Text, models.NetworkIDKey)
	if id.Type != gjson.String {
		return
	}
	e, ok := r.entities[id.Str]
	if !ok {
		return
	}
	e.receive(m.Sender, m.Text)
}
