package relay

import (
	"fmt"
	"slices"

	"github.com/MKhiriev/go-sync-framework/internal/instantiator"
	"github.com/MKhiriev/go-sync-framework/internal/scene"
	"github.com/MKhiriev/go-sync-framework/models"
)

// TagTypeName is the component name of Tag.
const TagTypeName = "RelayTag"

// Tag marks an object as a relay entity.
type Tag struct {
	id string
}

func (t *Tag) TypeName() string { return TagTypeName }

func (t *Tag) ID() string { return t.id }

// IDOf returns the relay id registered on obj.
func IDOf(obj *scene.Object) (string, bool) {
	if obj == nil {
		return "", false
	}
	t, ok := scene.ComponentOf[*Tag](obj)
	if !ok || t.id == "" {
		return "", false
	}
	return t.id, true
}

func setID(obj *scene.Object, id string) {
	if t, ok := scene.ComponentOf[*Tag](obj); ok {
		t.id = id
		return
	}
	obj.AddComponent(&Tag{id: id})
}

// RegisterOptions describes an entity being registered.
type RegisterOptions struct {
	State      Plan
	PrefabName string
	BindedUser string
	OwnerID    string
	ParentID   string
}

// Register makes obj the entity id. Children that arrived before their
// parent are adopted, and updates received for id before now are applied.
func (r *Relay) Register(obj *scene.Object, id string, opts RegisterOptions) (*Entity, error) {
	if obj == nil {
		return nil, ErrNilObject
	}
	if id == "" {
		return nil, ErrNoEntityID
	}
	setID(obj, id)

	state := opts.State
	if state == nil {
		state = Plan{}
	}
	e := &Entity{
		ID:         id,
		Object:     obj,
		State:      state,
		PrefabName: opts.PrefabName,
		BindedUser: opts.BindedUser,
		OwnerID:    opts.OwnerID,
	}
	r.entities[id] = e

	if opts.ParentID != "" {
		e.ParentID = opts.ParentID
		r.registerChildWithParent(id, opts.ParentID)
	}
	r.checkOrphans(id)
	r.TriggerPendingUpdates(id)
	return e, nil
}

func (r *Relay) registerChildWithParent(childID, parentID string) {
	parent, ok := r.entities[parentID]
	if !ok {
		r.logger.Debug().Str("child", childID).Str("parent", parentID).Msg("parent unknown, keeping child as orphan")
		r.orphans[parentID] = append(r.orphans[parentID], childID)
		return
	}
	if !slices.Contains(parent.ChildIDs, childID) {
		parent.ChildIDs = append(parent.ChildIDs, childID)
	}
}

func (r *Relay) checkOrphans(parentID string) {
	orphans := r.orphans[parentID]
	if len(orphans) == 0 {
		return
	}
	delete(r.orphans, parentID)
	r.logger.Debug().Str("parent", parentID).Int("children", len(orphans)).Msg("adopting orphans")
	parent := r.entities[parentID]
	for _, id := range orphans {
		if !slices.Contains(parent.ChildIDs, id) {
			parent.ChildIDs = append(parent.ChildIDs, id)
		}
	}
}

// TriggerPendingUpdates applies the newest update received for id before
// the entity was registered.
func (r *Relay) TriggerPendingUpdates(id string) {
	p, ok := r.pending[id]
	if !ok {
		return
	}
	delete(r.pending, id)
	r.internalApplyUpdate(id, p.who, p.state, p.time)
}

// InstantiateOptions configures Instantiate.
type InstantiateOptions struct {
	// BindToLocalUser ties the entity to the local user; the host deletes it
	// when the user leaves.
	BindToLocalUser bool
	// OwnedByLocalUser stops other users from modifying the entity.
	OwnedByLocalUser bool
}

// Instantiate builds the prefab locally under the relay container and asks
// every other user to do the same. The plan's transform is applied to the
// new object.
func (r *Relay) Instantiate(prefab string, plan Plan, opts InstantiateOptions) (*Entity, error) {
	if r.opts.Prefabs == nil {
		return nil, ErrNoPrefabs
	}
	if plan == nil {
		plan = Plan{}
	}
	obj, err := r.build(prefab)
	if err != nil {
		return nil, err
	}
	plan.ApplyToTransform(obj)

	msg := models.RelayMessage{
		Op:         OpInstantiate,
		ID:         r.generateID(),
		PrefabName: prefab,
		Time:       r.ServerTimeMs(),
	}
	if opts.BindToLocalUser {
		msg.BindedUser = r.OwnUserID()
	}
	if opts.OwnedByLocalUser {
		msg.OwnerID = r.OwnUserID()
	}
	if msg.Args, err = encodePlan(plan); err != nil {
		obj.Destroy()
		return nil, fmt.Errorf("encode plan of %q: %w", prefab, err)
	}
	if err := r.send(msg); err != nil {
		obj.Destroy()
		return nil, err
	}

	e, err := r.Register(obj, msg.ID, RegisterOptions{
		State:      plan,
		PrefabName: prefab,
		BindedUser: msg.BindedUser,
		OwnerID:    msg.OwnerID,
	})
	if err != nil {
		return nil, err
	}
	e.LastUpdated = msg.Time
	return e, nil
}

func (r *Relay) build(prefab string) (*scene.Object, error) {
	ctx := instantiator.BuildContext{Registry: r.opts.Registry, Logger: r.logger}
	return r.opts.Prefabs.Build(ctx, prefab, r.container)
}

// UpdateEntity replaces the entity state and broadcasts it.
func (r *Relay) UpdateEntity(id string, plan Plan) error {
	e, ok := r.entities[id]
	if !ok {
		return fmt.Errorf("update %q: %w", id, ErrUnknownEntity)
	}
	if !r.allowedToModify(e) {
		r.logger.Warn().Str("entity", id).Str("owner", e.OwnerID).Msg("not allowed to update entity")
		return fmt.Errorf("update %q: %w", id, ErrNotAllowed)
	}
	if plan == nil {
		plan = Plan{}
	}
	args, err := encodePlan(plan)
	if err != nil {
		return fmt.Errorf("encode plan of %q: %w", id, err)
	}
	now := r.ServerTimeMs()
	if err := r.send(models.RelayMessage{Op: OpUpdate, ID: id, Args: args, Time: now}); err != nil {
		return err
	}
	e.State = plan
	e.LastUpdated = now
	return nil
}

// UpdateObject is UpdateEntity for the entity registered on obj.
func (r *Relay) UpdateObject(obj *scene.Object, plan Plan) error {
	id, ok := IDOf(obj)
	if !ok {
		return ErrNoEntityID
	}
	return r.UpdateEntity(id, plan)
}

// DeleteEntity removes the entity and its children everywhere.
func (r *Relay) DeleteEntity(id string) error {
	e, ok := r.entities[id]
	if !ok {
		return fmt.Errorf("delete %q: %w", id, ErrUnknownEntity)
	}
	if !r.allowedToModify(e) {
		r.logger.Warn().Str("entity", id).Str("owner", e.OwnerID).Msg("not allowed to delete entity")
		return fmt.Errorf("delete %q: %w", id, ErrNotAllowed)
	}
	if err := r.send(models.RelayMessage{Op: OpDelete, ID: id}); err != nil {
		return err
	}
	r.internalDelete(id, r.OwnUserID(), true)
	return nil
}

func (r *Relay) DeleteObject(obj *scene.Object) error {
	id, ok := IDOf(obj)
	if !ok {
		return ErrNoEntityID
	}
	return r.DeleteEntity(id)
}

// SendEntityMessage delivers a custom op to the OnMessage listeners of the
// entity on every other user.
func (r *Relay) SendEntityMessage(id, op string, plan Plan) error {
	if isBuiltinOp(op) {
		return fmt.Errorf("send %q to %q: %w", op, id, ErrReservedOp)
	}
	args, err := encodePlan(plan)
	if err != nil {
		return fmt.Errorf("encode %q args: %w", op, err)
	}
	return r.send(models.RelayMessage{Op: op, ID: id, Args: args})
}

func (r *Relay) SendObjectMessage(obj *scene.Object, op string, plan Plan) error {
	id, ok := IDOf(obj)
	if !ok {
		return ErrNoEntityID
	}
	return r.SendEntityMessage(id, op, plan)
}

// SendObjectMessageToParent sends to the closest registered ancestor of obj.
func (r *Relay) SendObjectMessageToParent(obj *scene.Object, op string, plan Plan) error {
	id, ok := r.FindParentID(obj)
	if !ok {
		return ErrNoEntityID
	}
	return r.SendEntityMessage(id, op, plan)
}

// FindParentID walks up from obj's parent and returns the first relay id.
func (r *Relay) FindParentID(obj *scene.Object) (string, bool) {
	if obj == nil {
		return "", false
	}
	for p := obj.Parent(); p != nil; p = p.Parent() {
		if id, ok := IDOf(p); ok {
			return id, true
		}
	}
	return "", false
}

func (r *Relay) internalApplyUpdate(id, who string, plan Plan, t int64) {
	e, ok := r.entities[id]
	if !ok {
		if p, ok := r.pending[id]; ok && p.time >= t {
			r.logger.Debug().Str("entity", id).Msg("discarding stale pending update")
			return
		}
		r.pending[id] = pendingUpdate{who: who, state: plan, time: t}
		return
	}
	e.State = plan
	e.LastUpdated = t
	if w, ok := r.wrappers[id]; ok {
		w.OnUpdate.Trigger(Change{Who: who, State: plan, Time: t})
	}
}

func (r *Relay) internalDelete(id, who string, notifyParent bool) {
	e, ok := r.entities[id]
	if !ok || e.Deleted {
		return
	}
	if w, ok := r.wrappers[id]; ok {
		w.OnDelete.Trigger(Change{Who: who, State: e.State, Time: r.ServerTimeMs()})
	}
	for _, child := range e.ChildIDs {
		r.internalDelete(child, who, false)
	}
	e.ChildIDs = nil

	if notifyParent && e.ParentID != "" {
		if parent, ok := r.entities[e.ParentID]; ok {
			parent.ChildIDs = slices.DeleteFunc(parent.ChildIDs, func(c string) bool { return c == id })
		}
	}

	if e.Object != nil {
		if e.Object.IsDestroyed() {
			r.logger.Warn().Str("entity", id).Msg("object already destroyed")
		} else {
			e.Object.Destroy()
		}
		e.Object = nil
	}

	if e.PrefabName != "" {
		delete(r.entities, id)
		return
	}
	e.Deleted = true
	e.LastUpdated = r.ServerTimeMs()
}
