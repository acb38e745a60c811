package relay

import (
	"encoding/json"

	"github.com/MKhiriev/go-sync-framework/models"
)

// Plan is the free-form state of a relay entity. Transform parts live under
// "pos" and "scale" as [x, y, z] and under "rot" as [w, x, y, z].
type Plan map[string]any

const (
	planPosKey   = "pos"
	planRotKey   = "rot"
	planScaleKey = "scale"
)

// Transform is the part of an object a plan can be applied to.
type Transform interface {
	LocalPosition() models.Vec3
	SetLocalPosition(models.Vec3)
	LocalRotation() models.Quat
	SetLocalRotation(models.Quat)
	LocalScale() models.Vec3
	SetLocalScale(models.Vec3)
}

// WriteTransform stores the local transform of t in p and returns p.
func (p Plan) WriteTransform(t Transform) Plan {
	pos, rot, scale := t.LocalPosition(), t.LocalRotation(), t.LocalScale()
	p[planPosKey] = []float64{pos.X, pos.Y, pos.Z}
	p[planRotKey] = []float64{rot.W, rot.X, rot.Y, rot.Z}
	p[planScaleKey] = []float64{scale.X, scale.Y, scale.Z}
	return p
}

// ApplyToTransform sets the transform parts present in p on t.
func (p Plan) ApplyToTransform(t Transform) {
	if v, ok := p.Position(); ok {
		t.SetLocalPosition(v)
	}
	if q, ok := p.Rotation(); ok {
		t.SetLocalRotation(q)
	}
	if v, ok := p.Scale(); ok {
		t.SetLocalScale(v)
	}
}

func (p Plan) Position() (models.Vec3, bool) { return p.vec3(planPosKey) }

func (p Plan) Scale() (models.Vec3, bool) { return p.vec3(planScaleKey) }

func (p Plan) Rotation() (models.Quat, bool) {
	a, ok := p.floats(planRotKey, 4)
	if !ok {
		return models.Quat{}, false
	}
	return models.Quat{W: a[0], X: a[1], Y: a[2], Z: a[3]}, true
}

func (p Plan) vec3(key string) (models.Vec3, bool) {
	a, ok := p.floats(key, 3)
	if !ok {
		return models.Vec3{}, false
	}
	return models.Vec3{X: a[0], Y: a[1], Z: a[2]}, true
}

// floats reads an n element number list. Plans built locally hold
// []float64, decoded ones hold []any.
func (p Plan) floats(key string, n int) ([]float64, bool) {
	switch a := p[key].(type) {
	case []float64:
		if len(a) >= n {
			return a, true
		}
	case []any:
		if len(a) < n {
			return nil, false
		}
		out := make([]float64, n)
		for i := range out {
			f, ok := a[i].(float64)
			if !ok {
				return nil, false
			}
			out[i] = f
		}
		return out, true
	}
	return nil, false
}

func encodePlan(p Plan) (json.RawMessage, error) {
	if p == nil {
		return json.RawMessage("{}"), nil
	}
	return json.Marshal(p)
}

func decodePlan(raw json.RawMessage) (Plan, error) {
	p := Plan{}
	if len(raw) == 0 || string(raw) == "null" {
		return p, nil
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return p, nil
}
