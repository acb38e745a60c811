// Package scene is a headless object tree standing in for the host engine's
// scene graph.
//
// An [Object] has a name, a parent, ordered children, a local transform
// and ordered components. World transforms are derived from the parent
// chain. Objects are not safe for concurrent use; like the rest of the
// framework they belong to one scheduler loop.
package scene

import (
	"fmt"

	"github.com/MKhiriev/go-sync-framework/internal/observer"
	"github.com/MKhiriev/go-sync-framework/models"
)

// Component is anything attached to an Object.
type Component interface {
	TypeName() string
}

// Destroyable components are told when their object is destroyed.
type Destroyable interface {
	OnDestroy()
}

// Scene holds the root objects.
type Scene struct {
	roots  []*Object
	nextID int64

	// OnObjectCreated fires for every object created in the scene.
	OnObjectCreated observer.Event[*Object]
}

func New() *Scene {
	return &Scene{}
}

// Roots returns the objects without a parent, in creation order.
func (s *Scene) Roots() []*Object {
	out := make([]*Object, len(s.roots))
	copy(out, s.roots)
	return out
}

// CreateObject adds an object under parent, or at the root when parent is
// nil. Its id is derived from creation order, so peers building the same
// scene in the same order agree on it.
func (s *Scene) CreateObject(name string, parent *Object) *Object {
	s.nextID++
	o := &Object{
		scene:      s,
		id:         fmt.Sprintf("obj-%d", s.nextID),
		name:       name,
		enabled:    true,
		localRot:   models.QuatIdentity(),
		localScale: models.Vec3One(),
	}
	if parent != nil {
		o.parent = parent
		parent.children = append(parent.children, o)
	} else {
		s.roots = append(s.roots, o)
	}
	s.OnObjectCreated.Trigger(o)
	return o
}

// Walk visits every live object depth first.
func (s *Scene) Walk(fn func(*Object)) {
	var visit func(o *Object)
	visit = func(o *Object) {
		fn(o)
		for _, c := range o.Children() {
			visit(c)
		}
	}
	for _, r := range s.Roots() {
		visit(r)
	}
}

func (s *Scene) removeRoot(o *Object) {
	for i, r := range s.roots {
		if r == o {
			s.roots = append(s.roots[:i:i], s.roots[i+1:]...)
			return
		}
	}
}

// ComponentOf returns the first component of o with type T.
func ComponentOf[T Component](o *Object) (T, bool) {
	for _, c := range o.components {
		if t, ok := c.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}

// ComponentsOf returns every component of type T on o and its descendants.
func ComponentsOf[T Component](o *Object) []T {
	var out []T
	for _, c := range o.components {
		if t, ok := c.(T); ok {
			out = append(out, t)
		}
	}
	for _, child := range o.children {
		out = append(out, ComponentsOf[T](child)...)
	}
	return out
}
