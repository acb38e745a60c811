// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package entity

import (
	"fmt"

	"github.com/MKhiriev/go-sync-framework/internal/networkroot"
	"github.com/MKhiriev/go-sync-framework/internal/observer"
	"github.com/MKhiriev/go-sync-framework/internal/property"
	"github.com/MKhiriev/go-sync-framework/internal/scene"
	"github.com/MKhiriev/go-sync-framework/internal/session"
	"github.com/MKhiriev/go-sync-framework/internal/snapshot"
	"github.com/MKhiriev/go-sync-framework/models"
)

func setEnabled(objs []*scene.Object, enabled bool) {
	for _, o := range objs {
		if o != nil {
			o.SetEnabled(enabled)
		}
	}
}

// SetEnabledOnReady enables ready and disables notReady once the entity has
// finished its setup, and the reverse until then.
func SetEnabledOnReady(e *SyncEntity, ready, notReady []*scene.Object) observer.Subscription {
	update := func() {
		finished := e.IsSetupFinished()
		setEnabled(ready, finished)
		setEnabled(notReady, !finished)
	}
	update()
	return e.OnSetupFinished.Add(func(struct{}) { update() })
}

// SetEnabledOnSessionReady is [SetEnabledOnReady] for the session itself.
func SetEnabledOnSessionReady(ctrl *session.Controller, ready, notReady []*scene.Object) {
	update := func() {
		r := ctrl.IsReady()
		setEnabled(ready, r)
		setEnabled(notReady, !r)
	}
	update()
	if !ctrl.IsReady() {
		ctrl.NotifyOnReady(update)
	}
}

// SetEnabledIfOwner enables owner while the local connection owns the
// entity's store and nonOwner otherwise. It follows every ownership change.
func SetEnabledIfOwner(e *SyncEntity, owner, nonOwner []*scene.Object) observer.Subscription {
	update := func() {
		mine := e.ctrl.IsLocalUserConnection(e.OwnerInfo())
		setEnabled(owner, mine)
		setEnabled(nonOwner, !mine)
	}
	update()
	return e.OnOwnerUpdated.Add(func(*models.UserInfo) { update() })
}

// SetEnabledIfRootOwner applies the owner of the network root above obj once.
// Root ownership is fixed at instantiation so there is nothing to follow.
// It reports false when obj has no network root.
func SetEnabledIfRootOwner(ctrl *session.Controller, obj *scene.Object, owner, nonOwner []*scene.Object) bool {
	root, ok := networkroot.Find(obj)
	if !ok {
		return false
	}
	mine := ctrl.IsLocalUserConnection(root.OwnerInfo())
	setEnabled(owner, mine)
	setEnabled(nonOwner, !mine)
	return true
}

// SyncMode selects which space a transform part is synced in.
type SyncMode string

const (
	SyncNone  SyncMode = "none"
	SyncLocal SyncMode = "local"
	SyncWorld SyncMode = "world"
)

// ParseSyncMode accepts "", "none", "local" and "world".
func ParseSyncMode(s string) (SyncMode, error) {
	switch SyncMode(s) {
	case "", SyncNone:
		return SyncNone, nil
	case SyncLocal, SyncWorld:
		return SyncMode(s), nil
	}
	return SyncNone, fmt.Errorf("%w: %q", ErrUnknownSyncMode, s)
}

// DefaultTransformSendsPerSecond is used when TransformOptions leaves the
// send rate at zero.
const DefaultTransformSendsPerSecond = 10

// TransformOptions configures [SyncTransform].
type TransformOptions struct {
	Position SyncMode
	Rotation SyncMode
	Scale    SyncMode

	SendsPerSecond float64
	Smoothing      bool
	// InterpolationTarget overrides the smoothing target when non-zero.
	InterpolationTarget float64
}

// TransformProperties builds the transform properties opts asks for, in
// position, rotation, scale order.
func TransformProperties(obj *scene.Object, opts TransformOptions) []property.Prop {
	rate := opts.SendsPerSecond
	if rate <= 0 {
		rate = DefaultTransformSendsPerSecond
	}
	popts := []property.Option{property.WithSendsPerSecond(rate)}
	if opts.Smoothing {
		so := snapshot.DefaultOptions()
		if opts.InterpolationTarget != 0 {
			so.InterpolationTarget = opts.InterpolationTarget
		}
		popts = append(popts, property.WithSmoothing(so))
	}

	var out []property.Prop
	if opts.Position != SyncNone && opts.Position != "" {
		out = append(out, property.ForPosition(obj, opts.Position == SyncLocal, popts...))
	}
	if opts.Rotation != SyncNone && opts.Rotation != "" {
		out = append(out, property.ForRotation(obj, opts.Rotation == SyncLocal, popts...))
	}
	if opts.Scale != SyncNone && opts.Scale != "" {
		out = append(out, property.ForScale(obj, opts.Scale == SyncLocal, popts...))
	}
	return out
}

// SyncTransform attaches an entity to obj that syncs its transform. The
// transform properties are added to opts.PropertySet, or to a new set.
func SyncTransform(reg *Registry, obj *scene.Object, t TransformOptions, opts Options) (*SyncEntity, error) {
	if opts.PropertySet == nil {
		opts.PropertySet = property.NewSet(reg.logger)
	}
	for _, p := range TransformProperties(obj, t) {
		opts.PropertySet.AddProperty(p)
	}
	return New(reg, obj, opts)
}
