// Package networkroot tracks network-instantiated prefabs.
//
// An [Info] lives on the holder object a prefab is instantiated under. It
// ties the lifetime of three things together: the holder, the instantiated
// child and the backing store. Destroying any of them destroys the others,
// exactly once, and deletes the store when the local peer may modify it.
package networkroot

import (
	"github.com/MKhiriev/go-sync-framework/internal/logger"
	"github.com/MKhiriev/go-sync-framework/internal/netid"
	"github.com/MKhiriev/go-sync-framework/internal/observer"
	"github.com/MKhiriev/go-sync-framework/internal/realtime"
	"github.com/MKhiriev/go-sync-framework/internal/scene"
	"github.com/MKhiriev/go-sync-framework/internal/session"
	"github.com/MKhiriev/go-sync-framework/models"
)

// TypeName is the component type name of an Info.
const TypeName = "NetworkRootInfo"

// Info describes one instantiated prefab.
type Info struct {
	netid.RootMarker

	ctrl   *session.Controller
	logger *logger.Logger

	networkID      string
	holder         *scene.Object
	store          *realtime.Store
	locallyCreated bool
	owner          *models.UserInfo
	persistence    models.Persistence
	child          *scene.Object

	destroyed bool
	subs      observer.Subscriptions

	// OnDestroyed fires after a local or a remote destroy.
	OnDestroyed       observer.Event[struct{}]
	OnLocalDestroyed  observer.Event[struct{}]
	OnRemoteDestroyed observer.Event[struct{}]
}

var (
	_ netid.Root        = (*Info)(nil)
	_ scene.Destroyable = (*Info)(nil)
)

// New attaches an Info to holder. The holder is destroyed when the store
// is deleted by another peer.
func New(
	ctrl *session.Controller,
	holder *scene.Object,
	networkID string,
	store *realtime.Store,
	locallyCreated bool,
	owner *models.UserInfo,
	persistence models.Persistence,
) *Info {
	i := &Info{
		ctrl:           ctrl,
		logger:         ctrl.Logger().WithComponent("network_root").WithNetworkID(networkID),
		networkID:      networkID,
		holder:         holder,
		store:          store,
		locallyCreated: locallyCreated,
		owner:          owner,
		persistence:    persistence,
	}
	holder.AddComponent(i)

	i.subs.Add(ctrl.Events.OnStoreDeleted.Add(func(s *realtime.Store) {
		if i.isMyStore(s) {
			i.onRemoteDestroy()
		}
	}))
	i.subs.Add(ctrl.Events.OnStoreOwnershipUpdated.Add(func(e session.OwnershipUpdated) {
		if i.isMyStore(e.Store) {
			i.owner = e.Owner
		}
	}))
	return i
}

// Find returns the Info on obj or its closest ancestor that has one.
func Find(obj *scene.Object) (*Info, bool) {
	for o := obj; o != nil; o = o.Parent() {
		if i, ok := scene.ComponentOf[*Info](o); ok {
			return i, true
		}
	}
	return nil, false
}

func (i *Info) TypeName() string { return TypeName }

func (i *Info) NetworkID() string { return i.networkID }

func (i *Info) Holder() *scene.Object { return i.holder }

func (i *Info) Store() *realtime.Store { return i.store }

// LocallyCreated reports whether this peer instantiated the prefab in the
// current session.
func (i *Info) LocallyCreated() bool { return i.locallyCreated }

func (i *Info) OwnerInfo() *models.UserInfo { return i.owner }

func (i *Info) Persistence() models.Persistence { return i.persistence }

// InstantiatedChild returns the prefab instance, or nil before FinishSetup
// or after it was destroyed.
func (i *Info) InstantiatedChild() *scene.Object { return i.child }

func (i *Info) IsDestroyed() bool { return i.destroyed }

// FinishSetup records the instantiated child. A nil child means the
// holder's first child. When the local peer may modify the store,
// destroying the child destroys the holder too.
func (i *Info) FinishSetup(child *scene.Object) {
	if child == nil {
		child = i.holder.Child(0)
	}
	i.child = child
	if child == nil || !i.CanIModifyStore() {
		return
	}
	i.subs.Add(child.OnDestroyed(func(*scene.Object) {
		if i.destroyed {
			return
		}
		i.child = nil
		i.holder.Destroy()
	}))
}

// OwnerID returns the owning connection id, or "" when unowned.
func (i *Info) OwnerID() string {
	if i.owner == nil {
		return ""
	}
	return i.owner.ConnectionID
}

// OwnerUserID returns the owning user id, or "" when unowned.
func (i *Info) OwnerUserID() string {
	if i.owner == nil {
		return ""
	}
	return i.owner.UserID
}

// IsOwnedBy reports whether connectionID owns the instance.
func (i *Info) IsOwnedBy(connectionID string) bool {
	return connectionID != "" && i.OwnerID() == connectionID
}

func (i *Info) IsOwnedByUser(u models.UserInfo) bool {
	return i.IsOwnedBy(u.ConnectionID)
}

// CanIModifyStore reports whether the store is unowned or owned locally.
func (i *Info) CanIModifyStore() bool {
	return i.OwnerID() == "" || i.IsOwnedBy(i.ctrl.LocalConnectionID())
}

func (i *Info) DoIOwnStore() bool {
	return i.IsOwnedBy(i.ctrl.LocalConnectionID())
}

// Destroy destroys the holder, which deletes the store if permitted.
func (i *Info) Destroy() {
	if i.holder.IsDestroyed() {
		i.onLocalDestroy()
		return
	}
	i.holder.Destroy()
}

// OnDestroy is called by the scene when the holder is destroyed.
func (i *Info) OnDestroy() { i.onLocalDestroy() }

func (i *Info) isMyStore(s *realtime.Store) bool {
	return i.store != nil && s.ID() == i.store.ID()
}

func (i *Info) onLocalDestroy() {
	if i.destroyed {
		return
	}
	i.destroyed = true
	i.subs.UnsubscribeAll()
	if i.CanIModifyStore() {
		if sess := i.ctrl.Session(); sess != nil && i.store != nil {
			i.logger.Debug().Str("store_id", i.store.ID()).Msg("deleting instantiation store")
			sess.DeleteStore(i.store).Then(nil, func(err error) {
				i.logger.Warn().Err(err).Str("store_id", i.store.ID()).Msg("error deleting realtime store")
			})
		}
	}
	i.OnLocalDestroyed.Trigger(struct{}{})
	i.OnDestroyed.Trigger(struct{}{})
}

func (i *Info) onRemoteDestroy() {
	if i.destroyed {
		return
	}
	i.destroyed = true
	i.subs.UnsubscribeAll()
	i.holder.Destroy()
	i.OnRemoteDestroyed.Trigger(struct{}{})
	i.OnDestroyed.Trigger(struct{}{})
}
