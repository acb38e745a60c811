package scene

import (
	"github.com/MKhiriev/go-sync-framework/internal/observer"
	"github.com/MKhiriev/go-sync-framework/models"
)

// Object is a node of the scene tree.
type Object struct {
	scene    *Scene
	id       string
	name     string
	enabled  bool
	parent   *Object
	children []*Object

	components []Component

	localPos   models.Vec3
	localRot   models.Quat
	localScale models.Vec3

	destroyed bool
	destroyEv observer.Event[*Object]
}

func (o *Object) ID() string { return o.id }

// SetID overrides the creation-order id.
func (o *Object) SetID(id string) { o.id = id }

func (o *Object) Name() string { return o.name }

func (o *Object) SetName(name string) { o.name = name }

func (o *Object) Scene() *Scene { return o.scene }

func (o *Object) Enabled() bool { return o.enabled }

func (o *Object) SetEnabled(enabled bool) { o.enabled = enabled }

func (o *Object) Parent() *Object { return o.parent }

func (o *Object) HasParent() bool { return o.parent != nil }

func (o *Object) Children() []*Object {
	out := make([]*Object, len(o.children))
	copy(out, o.children)
	return out
}

func (o *Object) ChildCount() int { return len(o.children) }

// Child returns the i-th child, or nil.
func (o *Object) Child(i int) *Object {
	if i < 0 || i >= len(o.children) {
		return nil
	}
	return o.children[i]
}

// Index returns the position of o among its parent's children, or among
// the scene roots.
func (o *Object) Index() int {
	siblings := o.scene.roots
	if o.parent != nil {
		siblings = o.parent.children
	}
	for i, s := range siblings {
		if s == o {
			return i
		}
	}
	return -1
}

// SetParent moves o under parent, or to the root when parent is nil, keeping
// its world transform.
func (o *Object) SetParent(parent *Object) {
	if parent == o.parent {
		return
	}
	pos, rot, scale := o.WorldPosition(), o.WorldRotation(), o.WorldScale()
	o.detach()
	o.parent = parent
	if parent != nil {
		parent.children = append(parent.children, o)
	} else {
		o.scene.roots = append(o.scene.roots, o)
	}
	o.SetWorldPosition(pos)
	o.SetWorldRotation(rot)
	o.SetWorldScale(scale)
}

func (o *Object) RemoveParent() { o.SetParent(nil) }

func (o *Object) detach() {
	if o.parent == nil {
		o.scene.removeRoot(o)
		return
	}
	siblings := o.parent.children
	for i, s := range siblings {
		if s == o {
			o.parent.children = append(siblings[:i:i], siblings[i+1:]...)
			break
		}
	}
	o.parent = nil
}

// AddComponent attaches c and returns its index on the object.
func (o *Object) AddComponent(c Component) int {
	o.components = append(o.components, c)
	return len(o.components) - 1
}

// RemoveComponent detaches c. Indices of later components shift down.
func (o *Object) RemoveComponent(c Component) bool {
	i := o.ComponentIndex(c)
	if i < 0 {
		return false
	}
	o.components = append(o.components[:i:i], o.components[i+1:]...)
	return true
}

func (o *Object) Components() []Component {
	out := make([]Component, len(o.components))
	copy(out, o.components)
	return out
}

// ComponentIndex returns the index of c on the object, or -1.
func (o *Object) ComponentIndex(c Component) int {
	for i, x := range o.components {
		if x == c {
			return i
		}
	}
	return -1
}

// OnDestroyed registers fn to run when o is destroyed.
func (o *Object) OnDestroyed(fn func(*Object)) observer.Subscription {
	return o.destroyEv.Add(fn)
}

func (o *Object) IsDestroyed() bool { return o.destroyed }

// Destroy removes o and its descendants from the scene. Children are
// destroyed first; repeated calls are ignored.
func (o *Object) Destroy() {
	if o.destroyed {
		return
	}
	o.destroyed = true
	for _, c := range o.Children() {
		c.Destroy()
	}
	for _, c := range o.components {
		if d, ok := c.(Destroyable); ok {
			d.OnDestroy()
		}
	}
	o.destroyEv.Trigger(o)
	o.detach()
}

// Path returns the slash separated names from the root down to o.
func (o *Object) Path() string {
	if o.parent == nil {
		return o.name
	}
	return o.parent.Path() + "/" + o.name
}
