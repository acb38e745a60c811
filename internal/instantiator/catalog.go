package instantiator

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/MKhiriev/go-sync-framework/internal/entity"
	"github.com/MKhiriev/go-sync-framework/internal/logger"
	"github.com/MKhiriev/go-sync-framework/internal/netid"
	"github.com/MKhiriev/go-sync-framework/internal/property"
	"github.com/MKhiriev/go-sync-framework/internal/scene"
	"github.com/MKhiriev/go-sync-framework/models"
)

// Prefab is an object template: a named object with components and
// children, built under a holder object on every peer.
type Prefab struct {
	Name       string          `yaml:"name"`
	Position   *models.Vec3    `yaml:"position,omitempty"`
	Rotation   *models.Quat    `yaml:"rotation,omitempty"`
	Scale      *models.Vec3    `yaml:"scale,omitempty"`
	Components []ComponentSpec `yaml:"components,omitempty"`
	Children   []Prefab        `yaml:"children,omitempty"`
}

// ComponentSpec is one component entry of a prefab. Type selects the
// factory, the rest of the entry is decoded by it.
type ComponentSpec struct {
	Type string
	node yaml.Node
}

func (c *ComponentSpec) UnmarshalYAML(n *yaml.Node) error {
	var head struct {
		Type string `yaml:"type"`
	}
	if err := n.Decode(&head); err != nil {
		return err
	}
	if head.Type == "" {
		return fmt.Errorf("line %d: %w", n.Line, ErrMissingComponentType)
	}
	c.Type, c.node = head.Type, *n
	return nil
}

// Decode decodes the full component entry into v.
func (c ComponentSpec) Decode(v any) error {
	if c.node.IsZero() {
		return nil
	}
	return c.node.Decode(v)
}

// BuildContext is passed to component factories.
type BuildContext struct {
	Registry *entity.Registry
	Logger   *logger.Logger
}

// ComponentFactory attaches the component described by spec to obj.
type ComponentFactory func(ctx BuildContext, obj *scene.Object, spec ComponentSpec) error

// Catalog holds the prefabs an Instantiator may spawn and the component
// factories used to build them.
type Catalog struct {
	prefabs   map[string]Prefab
	factories map[string]ComponentFactory
}

type catalogFile struct {
	Prefabs []Prefab `yaml:"prefabs"`
}

// NewCatalog returns a catalog holding prefabs and the built-in SyncEntity
// factory.
func NewCatalog(prefabs ...Prefab) (*Catalog, error) {
	c := &Catalog{
		prefabs:   make(map[string]Prefab),
		factories: map[string]ComponentFactory{entity.TypeName: buildSyncEntity},
	}
	for _, p := range prefabs {
		if err := c.Add(p); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// LoadCatalog reads a YAML catalog file. Unknown fields are rejected.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prefab catalog: %w", err)
	}
	return ParseCatalog(bytes.NewReader(data))
}

// ParseCatalog decodes a YAML catalog document.
func ParseCatalog(r io.Reader) (*Catalog, error) {
	var file catalogFile
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse prefab catalog: %w", err)
	}
	return NewCatalog(file.Prefabs...)
}

// Add registers p. Names must be unique.
func (c *Catalog) Add(p Prefab) error {
	if p.Name == "" {
		return ErrEmptyPrefabName
	}
	if _, ok := c.prefabs[p.Name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicatePrefab, p.Name)
	}
	c.prefabs[p.Name] = p
	return nil
}

// Register installs a factory for component type typ, replacing any
// existing one.
func (c *Catalog) Register(typ string, f ComponentFactory) {
	c.factories[typ] = f
}

func (c *Catalog) Prefab(name string) (Prefab, bool) {
	p, ok := c.prefabs[name]
	return p, ok
}

// Names returns the prefab names in sorted order.
func (c *Catalog) Names() []string {
	out := make([]string, 0, len(c.prefabs))
	for name := range c.prefabs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Build instantiates the named prefab under parent. A failed build leaves
// nothing behind.
func (c *Catalog) Build(ctx BuildContext, name string, parent *scene.Object) (*scene.Object, error) {
	p, ok := c.prefabs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPrefab, name)
	}
	if parent == nil {
		return nil, ErrNoParent
	}
	obj, err := c.build(ctx, p, parent)
	if err != nil {
		if obj != nil {
			obj.Destroy()
		}
		return nil, fmt.Errorf("build prefab %q: %w", name, err)
	}
	return obj, nil
}

func (c *Catalog) build(ctx BuildContext, p Prefab, parent *scene.Object) (*scene.Object, error) {
	obj := parent.Scene().CreateObject(p.Name, parent)
	if p.Position != nil {
		obj.SetLocalPosition(*p.Position)
	}
	if p.Rotation != nil {
		obj.SetLocalRotation(p.Rotation.Normalize())
	}
	if p.Scale != nil {
		obj.SetLocalScale(*p.Scale)
	}
	for _, spec := range p.Components {
		f, ok := c.factories[spec.Type]
		if !ok {
			return obj, fmt.Errorf("%w: %q on %s", ErrUnknownComponent, spec.Type, obj.Path())
		}
		if err := f(ctx, obj, spec); err != nil {
			return obj, fmt.Errorf("%s on %s: %w", spec.Type, obj.Path(), err)
		}
	}
	for _, child := range p.Children {
		if _, err := c.build(ctx, child, obj); err != nil {
			return obj, err
		}
	}
	return obj, nil
}

// PropertySpec declares a manual property of a SyncEntity component.
type PropertySpec struct {
	Key   string           `yaml:"key"`
	Type  models.ValueType `yaml:"type"`
	Value yaml.Node        `yaml:"value"`
}

// TransformSpec syncs parts of the object's transform.
type TransformSpec struct {
	Position       bool    `yaml:"position"`
	Rotation       bool    `yaml:"rotation"`
	Scale          bool    `yaml:"scale"`
	Local          bool    `yaml:"local"`
	Smoothing      bool    `yaml:"smoothing"`
	SendsPerSecond float64 `yaml:"sendsPerSecond"`
}

func (t TransformSpec) options() entity.TransformOptions {
	mode := func(on bool) entity.SyncMode {
		switch {
		case !on:
			return entity.SyncNone
		case t.Local:
			return entity.SyncLocal
		}
		return entity.SyncWorld
	}
	return entity.TransformOptions{
		Position:       mode(t.Position),
		Rotation:       mode(t.Rotation),
		Scale:          mode(t.Scale),
		SendsPerSecond: t.SendsPerSecond,
		Smoothing:      t.Smoothing,
	}
}

type syncEntitySpec struct {
	Type           string         `yaml:"type"`
	Persistence    string         `yaml:"persistence"`
	ClaimOwnership bool           `yaml:"claimOwnership"`
	ID             string         `yaml:"id"`
	CustomID       string         `yaml:"customId"`
	Prefix         string         `yaml:"prefix"`
	Transform      *TransformSpec `yaml:"transform"`
	Properties     []PropertySpec `yaml:"properties"`
}

func buildSyncEntity(ctx BuildContext, obj *scene.Object, spec ComponentSpec) error {
	var s syncEntitySpec
	if err := spec.Decode(&s); err != nil {
		return err
	}
	idType, err := netid.ParseType(s.ID)
	if err != nil {
		return err
	}

	set := property.NewSet(ctx.Logger)
	if t := s.Transform; t != nil {
		for _, p := range entity.TransformProperties(obj, t.options()) {
			set.AddProperty(p)
		}
	}
	for _, ps := range s.Properties {
		p, err := manualProperty(ps)
		if err != nil {
			return err
		}
		set.AddProperty(p)
	}

	_, err = entity.New(ctx.Registry, obj, entity.Options{
		PropertySet:    set,
		ClaimOwnership: s.ClaimOwnership,
		Persistence:    s.Persistence,
		ID:             netid.Options{Type: idType, CustomID: s.CustomID, Prefix: s.Prefix},
	})
	return err
}

func manualProperty(ps PropertySpec) (property.Prop, error) {
	if ps.Key == "" {
		return nil, ErrEmptyPropertyKey
	}
	switch ps.Type {
	case models.TypeBool:
		return manual(ps, property.Bool, false)
	case models.TypeInt:
		return manual(ps, property.Int, 0)
	case models.TypeFloat:
		return manual(ps, property.Float, 0)
	case models.TypeDouble:
		return manual(ps, property.Double, 0)
	case models.TypeString:
		return manual(ps, property.String, "")
	case models.TypeVec2:
		return manual(ps, property.Vec2, models.Vec2{})
	case models.TypeVec3:
		return manual(ps, property.Vec3, models.Vec3{})
	case models.TypeVec4:
		return manual(ps, property.Vec4, models.Vec4{})
	case models.TypeQuat:
		return manual(ps, property.Quat, models.QuatIdentity())
	}
	return nil, fmt.Errorf("%w: %q for %q", ErrUnsupportedPropertyType, ps.Type, ps.Key)
}

func manual[T any](ps PropertySpec, kind property.Kind[T], start T) (property.Prop, error) {
	if !ps.Value.IsZero() {
		if err := ps.Value.Decode(&start); err != nil {
			return nil, fmt.Errorf("property %q: %w", ps.Key, err)
		}
	}
	return property.Manual(ps.Key, kind, start), nil
}
