// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package instantiator spawns prefabs on every peer of a session.
//
// The spawning peer creates a holder object and a store tagged with the
// prefab name, the spawner's network id and the initial transform. When the
// store exists it builds the prefab under the holder. Every other peer sees
// the tagged store, through a store-created notification or in the
// connection snapshot of a late join, and builds the same prefab under a
// holder of its own. Entities inside the prefab derive their ids from the
// holder's network id, so they line up across peers.
package instantiator

import (
	"fmt"

	"github.com/oklog/ulid/v2"

	"github.com/MKhiriev/go-sync-framework/internal/async"
	"github.com/MKhiriev/go-sync-framework/internal/entity"
	"github.com/MKhiriev/go-sync-framework/internal/logger"
	"github.com/MKhiriev/go-sync-framework/internal/netid"
	"github.com/MKhiriev/go-sync-framework/internal/networkroot"
	"github.com/MKhiriev/go-sync-framework/internal/observer"
	"github.com/MKhiriev/go-sync-framework/internal/realtime"
	"github.com/MKhiriev/go-sync-framework/internal/scene"
	"github.com/MKhiriev/go-sync-framework/internal/session"
	"github.com/MKhiriev/go-sync-framework/internal/substrate"
	"github.com/MKhiriev/go-sync-framework/models"
)

// TypeName is the component type name of an Instantiator.
const TypeName = "Instantiator"

// HolderPrefix is prepended to the network id to name holder objects.
const HolderPrefix = "holder:"

// AutoInstantiate spawns prefabs once the instantiator is ready.
type AutoInstantiate struct {
	Prefabs        []string
	Persistence    string
	ClaimOwnership bool
}

// Options configures an Instantiator.
type Options struct {
	Prefabs *Catalog
	// ID selects the network id of the instantiator's own entity. Remote
	// peers only replay prefabs whose spawner id matches theirs.
	ID netid.Options
	// SpawnerOwnsObject makes every spawned store owned by the spawning peer.
	SpawnerOwnsObject bool
	// SpawnAsChildren places holders under SpawnUnder, or under the
	// instantiator's own object when SpawnUnder is nil.
	SpawnAsChildren bool
	SpawnUnder      *scene.Object
	AutoInstantiate AutoInstantiate
}

// InstantiationOptions configures one spawn. World values are applied
// before local ones.
type InstantiationOptions struct {
	// OverrideNetworkID replaces the generated <prefab>_<ulid> id. Spawning
	// an id that already exists returns the existing instance.
	OverrideNetworkID string
	ClaimOwnership    bool
	Persistence       string

	WorldPosition *models.Vec3
	WorldRotation *models.Quat
	WorldScale    *models.Vec3
	LocalPosition *models.Vec3
	LocalRotation *models.Quat
	LocalScale    *models.Vec3

	OnSuccess func(*networkroot.Info)
	OnError   func(error)
}

type spawn struct {
	holder *scene.Object
	op     *async.Op[*networkroot.Info]
}

// Instantiator spawns prefabs from its catalog.
type Instantiator struct {
	reg     *entity.Registry
	ctrl    *session.Controller
	host    *scene.Object
	entity  *entity.SyncEntity
	catalog *Catalog
	opts    Options
	logger  *logger.Logger

	spawning map[string]*spawn
	spawned  map[string]*networkroot.Info

	destroyed bool
	subs      observer.Subscriptions

	// OnInstantiated fires for every instance built on this peer, local or
	// replayed from another peer.
	OnInstantiated observer.Event[*networkroot.Info]
}

var _ scene.Destroyable = (*Instantiator)(nil)

// New attaches an Instantiator and its entity to host.
func New(reg *entity.Registry, host *scene.Object, opts Options) (*Instantiator, error) {
	if opts.Prefabs == nil {
		return nil, ErrNoCatalog
	}
	ent, err := entity.New(reg, host, entity.Options{ID: opts.ID})
	if err != nil {
		return nil, fmt.Errorf("create spawner entity: %w", err)
	}
	ctrl := reg.Controller()
	in := &Instantiator{
		reg:      reg,
		ctrl:     ctrl,
		host:     host,
		entity:   ent,
		catalog:  opts.Prefabs,
		opts:     opts,
		logger:   reg.Logger().WithComponent("instantiator").WithNetworkID(ent.NetworkID()),
		spawning: make(map[string]*spawn),
		spawned:  make(map[string]*networkroot.Info),
	}
	host.AddComponent(in)

	in.subs.Add(ctrl.Events.OnStoreCreated.Add(func(ev session.StoreCreated) {
		in.onStoreCreated(ev.Store, ev.Owner)
	}))
	in.subs.Add(ctrl.Events.OnConnected.Add(func(info substrate.ConnectionInfo) {
		for _, s := range info.Stores {
			in.onStoreCreated(s, s.Owner())
		}
	}))
	for _, s := range ctrl.Stores() {
		in.onStoreCreated(s, s.Owner())
	}
	ent.NotifyOnReady(in.onReady)
	return in, nil
}

func (in *Instantiator) TypeName() string { return TypeName }

// Entity returns the instantiator's own entity. Its network id is the
// spawner id written to every spawned store.
func (in *Instantiator) Entity() *entity.SyncEntity { return in.entity }

func (in *Instantiator) Catalog() *Catalog { return in.catalog }

func (in *Instantiator) IsReady() bool { return in.entity.IsSetupFinished() }

func (in *Instantiator) NotifyOnReady(fn func()) { in.entity.NotifyOnReady(fn) }

// Spawned returns the instance with networkID, if it was built on this peer.
func (in *Instantiator) Spawned(networkID string) (*networkroot.Info, bool) {
	info, ok := in.spawned[networkID]
	return info, ok
}

// Instances returns the number of live instances on this peer.
func (in *Instantiator) Instances() int { return len(in.spawned) }

// Instantiate spawns prefab across the session. The returned op resolves
// with the network root once the prefab is built locally.
func (in *Instantiator) Instantiate(prefab string, opts InstantiationOptions) *async.Op[*networkroot.Info] {
	op := async.New[*networkroot.Info]()
	op.Then(opts.OnSuccess, opts.OnError)

	if in.destroyed {
		op.Reject(ErrDestroyed)
		return op
	}
	if _, ok := in.catalog.Prefab(prefab); !ok {
		in.logger.Warn().Str("prefab", prefab).Msg("prefab is not in the catalog")
		op.Reject(fmt.Errorf("%w: %q", ErrUnknownPrefab, prefab))
		return op
	}

	id := opts.OverrideNetworkID
	if id == "" {
		id = prefab + "_" + ulid.Make().String()
	}
	if existing, ok := in.spawned[id]; ok {
		in.logger.Debug().Str("network_id", id).Msg("using existing instance")
		op.Resolve(existing)
		return op
	}
	if pending, ok := in.spawning[id]; ok {
		async.Forward(pending.op, op)
		return op
	}

	in.instantiateNew(id, prefab, opts, op)
	return op
}

func (in *Instantiator) instantiateNew(id, prefab string, opts InstantiationOptions, op *async.Op[*networkroot.Info]) {
	in.logger.Debug().Str("prefab", prefab).Str("network_id", id).Msg("instantiating new prefab")
	holder := in.newHolder(id)

	data := realtime.DataMap{
		models.NetworkIDKey:   models.StringValue(id),
		models.NetworkTypeKey: models.StringValue(models.NetworkTypePrefab),
		models.PrefabNameKey:  models.StringValue(prefab),
		models.SpawnerIDKey:   models.StringValue(in.entity.NetworkID()),
	}
	if opts.WorldPosition != nil {
		holder.SetWorldPosition(*opts.WorldPosition)
		data[models.InitPositionKey] = models.Vec3Value(holder.LocalPosition())
	}
	if opts.WorldRotation != nil {
		holder.SetWorldRotation(*opts.WorldRotation)
		data[models.InitRotationKey] = models.QuatValue(holder.LocalRotation())
	}
	if opts.WorldScale != nil {
		holder.SetWorldScale(*opts.WorldScale)
		data[models.InitScaleKey] = models.Vec3Value(holder.LocalScale())
	}
	if opts.LocalPosition != nil {
		holder.SetLocalPosition(*opts.LocalPosition)
		data[models.InitPositionKey] = models.Vec3Value(holder.LocalPosition())
	}
	if opts.LocalRotation != nil {
		holder.SetLocalRotation(*opts.LocalRotation)
		data[models.InitRotationKey] = models.QuatValue(holder.LocalRotation())
	}
	if opts.LocalScale != nil {
		holder.SetLocalScale(*opts.LocalScale)
		data[models.InitScaleKey] = models.Vec3Value(holder.LocalScale())
	}

	persistence, err := models.ParsePersistence(opts.Persistence)
	if err != nil {
		in.logger.Warn().Err(err).Str("persistence", opts.Persistence).Msg("falling back to session persistence")
	}
	storeOpts := substrate.CreateStoreOptions{InitialData: data, Persistence: persistence}
	shouldOwn := opts.ClaimOwnership || in.opts.SpawnerOwnsObject
	if shouldOwn {
		storeOpts.Ownership = models.Owned
	}

	in.spawning[id] = &spawn{holder: holder, op: op}
	in.ctrl.CreateStore(storeOpts).OnDone(func(r async.Result[*realtime.Store]) {
		delete(in.spawning, id)
		if r.Err != nil {
			holder.Destroy()
			op.Reject(fmt.Errorf("create store for %q: %w", id, r.Err))
			return
		}
		if in.destroyed {
			holder.Destroy()
			op.Reject(ErrDestroyed)
			return
		}
		var owner *models.UserInfo
		if shouldOwn {
			if local, ok := in.ctrl.LocalUserInfo(); ok {
				owner = &local
			}
		}
		root := networkroot.New(in.ctrl, holder, id, r.Value, true, owner, persistence)
		if err := in.finish(root, prefab); err != nil {
			op.Reject(err)
			return
		}
		op.Resolve(root)
	})
}

// onStoreCreated replays prefabs spawned by the same instantiator on
// another peer.
func (in *Instantiator) onStoreCreated(store *realtime.Store, owner *models.UserInfo) {
	if in.destroyed || !isPrefabStore(store) {
		return
	}
	if spawner, _ := stringAt(store, models.SpawnerIDKey); spawner != in.entity.NetworkID() {
		return
	}
	id := store.NetworkID()
	if _, ok := in.spawned[id]; ok {
		return
	}
	if _, ok := in.spawning[id]; ok {
		return
	}
	if _, err := in.instantiateFromStore(store, owner); err != nil {
		in.logger.Warn().Err(err).Str("network_id", id).Msg("error instantiating prefab from store")
	}
}

func (in *Instantiator) instantiateFromStore(store *realtime.Store, owner *models.UserInfo) (*networkroot.Info, error) {
	id := store.NetworkID()
	prefab, _ := stringAt(store, models.PrefabNameKey)
	in.logger.Debug().Str("prefab", prefab).Str("network_id", id).Msg("instantiating prefab from store")
	if _, ok := in.catalog.Prefab(prefab); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPrefab, prefab)
	}

	holder := in.newHolder(id)
	if v, ok := store.Get(models.InitPositionKey); ok {
		if pos, ok := v.Vec3(); ok {
			holder.SetLocalPosition(pos)
		}
	}
	if v, ok := store.Get(models.InitRotationKey); ok {
		if rot, ok := v.Quat(); ok {
			holder.SetLocalRotation(rot)
		}
	}
	if v, ok := store.Get(models.InitScaleKey); ok {
		if scale, ok := v.Vec3(); ok {
			holder.SetLocalScale(scale)
		}
	}

	root := networkroot.New(in.ctrl, holder, id, store, false, owner, store.Persistence())
	if err := in.finish(root, prefab); err != nil {
		return nil, err
	}
	return root, nil
}

// finish builds the prefab under the root's holder and records the
// instance.
func (in *Instantiator) finish(root *networkroot.Info, prefab string) error {
	id := root.NetworkID()
	in.spawned[id] = root
	child, err := in.catalog.Build(BuildContext{Registry: in.reg, Logger: in.logger}, prefab, root.Holder())
	if err != nil {
		delete(in.spawned, id)
		root.Destroy()
		return err
	}
	root.FinishSetup(child)
	root.OnDestroyed.Add(func(struct{}) {
		if in.spawned[id] == root {
			delete(in.spawned, id)
		}
	})
	in.OnInstantiated.Trigger(root)
	return nil
}

// newHolder creates the holder at the scene root and moves it under the
// spawn parent, keeping its identity world transform.
func (in *Instantiator) newHolder(id string) *scene.Object {
	holder := in.host.Scene().CreateObject(HolderPrefix+id, nil)
	if in.opts.SpawnAsChildren {
		parent := in.opts.SpawnUnder
		if parent == nil {
			parent = in.host
		}
		holder.SetParent(parent)
	}
	return holder
}

func (in *Instantiator) onReady() {
	auto := in.opts.AutoInstantiate
	for _, name := range auto.Prefabs {
		in.Instantiate(name, InstantiationOptions{
			ClaimOwnership: auto.ClaimOwnership,
			Persistence:    auto.Persistence,
		}).Then(nil, func(err error) {
			in.logger.Warn().Err(err).Str("prefab", name).Msg("auto instantiation failed")
		})
	}
}

// OnDestroy stops replaying remote prefabs. Spawned instances stay.
func (in *Instantiator) OnDestroy() {
	if in.destroyed {
		return
	}
	in.destroyed = true
	in.subs.UnsubscribeAll()
}

func isPrefabStore(store *realtime.Store) bool {
	typ, _ := stringAt(store, models.NetworkTypeKey)
	return typ == models.NetworkTypePrefab
}

func stringAt(store realtime.DataStore, key string) (string, bool) {
	v, ok := store.Get(key)
	if !ok {
		return "", false
	}
	return v.Str()
}
