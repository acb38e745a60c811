// Package netid derives the network id that binds a local component to its
// store. Every peer derives the id on its own, so the result only depends on
// things all peers agree on: the scene layout, the network root an object
// was instantiated under, or an id the caller chose.
package netid

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-sync-framework/internal/scene"
)

var (
	ErrEmptyCustomID = errors.New("custom network id is empty")
	ErrNoTarget      = errors.New("network id needs an object and component")
	ErrNotAttached   = errors.New("component is not attached to the object")
	ErrUnknownType   = errors.New("unknown network id type")
)

// Type selects how an id is derived.
type Type int

const (
	// ObjectID uses the object's scene id. Under a network root it falls
	// back to Hierarchy, since scene ids of remotely instantiated objects
	// differ between peers.
	ObjectID Type = iota
	// Hierarchy uses the path of names and sibling indices from the scene
	// root, or from the closest network root.
	Hierarchy
	// Custom uses Options.CustomID, scoped by the network root if there is one.
	Custom
)

var typeNames = map[Type]string{
	ObjectID:  "objectId",
	Hierarchy: "hierarchy",
	Custom:    "custom",
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("type(%d)", int(t))
}

// ParseType accepts the names returned by String. Empty means ObjectID.
func ParseType(s string) (Type, error) {
	if s == "" {
		return ObjectID, nil
	}
	for t, name := range typeNames {
		if strings.EqualFold(name, s) {
			return t, nil
		}
	}
	return ObjectID, fmt.Errorf("%w: %q", ErrUnknownType, s)
}

// Options configures id derivation.
type Options struct {
	Type     Type
	CustomID string
	// Prefix is prepended to the derived id.
	Prefix string
}

// Root is implemented by the component that marks an instantiated prefab's
// holder object. Having a NetworkID is not enough: synced components carry
// one too, so a root must embed [RootMarker].
type Root interface {
	scene.Component
	NetworkID() string
	networkRoot()
}

// RootMarker is embedded by network root components.
type RootMarker struct{}

func (RootMarker) networkRoot() {}

// FindRoot returns the closest Root on obj or one of its ancestors.
func FindRoot(obj *scene.Object) (Root, bool) {
	for o := obj; o != nil; o = o.Parent() {
		if r, ok := scene.ComponentOf[Root](o); ok {
			return r, true
		}
	}
	return nil, false
}

// Derive returns the network id of comp attached to obj. obj may be nil
// only for Custom ids.
func Derive(obj *scene.Object, comp scene.Component, opts Options) (string, error) {
	var root Root
	if obj != nil {
		root, _ = FindRoot(obj)
	}

	var id string
	switch opts.Type {
	case ObjectID, Hierarchy:
		if obj == nil || comp == nil {
			return "", ErrNoTarget
		}
		idx := obj.ComponentIndex(comp)
		if idx < 0 {
			return "", fmt.Errorf("%w: %s on %s", ErrNotAttached, comp.TypeName(), obj.Name())
		}
		if opts.Type == ObjectID && root == nil {
			id = fmt.Sprintf("%s#%d", obj.ID(), idx)
			break
		}
		id = FromHierarchy(obj) + componentSegment(comp, idx)
	case Custom:
		if opts.CustomID == "" {
			return "", ErrEmptyCustomID
		}
		id = opts.CustomID
		if root != nil {
			id = root.NetworkID() + "/" + id
		}
	default:
		return "", fmt.Errorf("%w: %d", ErrUnknownType, int(opts.Type))
	}
	return opts.Prefix + id, nil
}

// FromHierarchy returns the path of obj as name_index segments joined by
// "/". A network root object contributes its network id instead of its
// path, so ids under it match on every peer.
func FromHierarchy(obj *scene.Object) string {
	if r, ok := scene.ComponentOf[Root](obj); ok {
		return r.NetworkID()
	}
	var path string
	if obj.HasParent() {
		path = FromHierarchy(obj.Parent()) + "/"
	}
	return path + fmt.Sprintf("%s_%d", obj.Name(), obj.Index())
}

func componentSegment(c scene.Component, idx int) string {
	return fmt.Sprintf("/%s_%d", c.TypeName(), idx)
}
