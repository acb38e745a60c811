// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"fmt"
)

// TaggedTypeKey marks a JSON object that encodes a vector or quaternion.
//
// Vectors travel as {"___lst":"vec3","a":[x,y,z]} so a receiver can restore
// the concrete type instead of getting a plain object or array back.
const TaggedTypeKey = "___lst"

const (
	tagVec2 = "vec2"
	tagVec3 = "vec3"
	tagVec4 = "vec4"
	tagQuat = "quat"
)

type taggedJSON struct {
	Type string    `json:"___lst"`
	A    []float64 `json:"a"`
}

func marshalTagged(tag string, a ...float64) ([]byte, error) {
	return json.Marshal(taggedJSON{Type: tag, A: a})
}

func unmarshalTagged(data []byte, tag string, n int) ([]float64, error) {
	var t taggedJSON
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	if t.Type != tag {
		return nil, fmt.Errorf("%w: expected %q, got %q", ErrTaggedTypeMismatch, tag, t.Type)
	}
	if len(t.A) != n {
		return nil, fmt.Errorf("%w: %s needs %d components, got %d", ErrTaggedTypeMismatch, tag, n, len(t.A))
	}
	return t.A, nil
}

func (v Vec2) MarshalJSON() ([]byte, error) { return marshalTagged(tagVec2, v.X, v.Y) }

func (v *Vec2) UnmarshalJSON(data []byte) error {
	a, err := unmarshalTagged(data, tagVec2, 2)
	if err != nil {
		return err
	}
	*v = Vec2{a[0], a[1]}
	return nil
}

func (v Vec3) MarshalJSON() ([]byte, error) { return marshalTagged(tagVec3, v.X, v.Y, v.Z) }

func (v *Vec3) UnmarshalJSON(data []byte) error {
	a, err := unmarshalTagged(data, tagVec3, 3)
	if err != nil {
		return err
	}
	*v = Vec3{a[0], a[1], a[2]}
	return nil
}

func (v Vec4) MarshalJSON() ([]byte, error) { return marshalTagged(tagVec4, v.X, v.Y, v.Z, v.W) }

func (v *Vec4) UnmarshalJSON(data []byte) error {
	a, err := unmarshalTagged(data, tagVec4, 4)
	if err != nil {
		return err
	}
	*v = Vec4{a[0], a[1], a[2], a[3]}
	return nil
}

// MarshalJSON writes the components in w, x, y, z order.
func (q Quat) MarshalJSON() ([]byte, error) { return marshalTagged(tagQuat, q.W, q.X, q.Y, q.Z) }

func (q *Quat) UnmarshalJSON(data []byte) error {
	a, err := unmarshalTagged(data, tagQuat, 4)
	if err != nil {
		return err
	}
	*q = Quat{a[0], a[1], a[2], a[3]}
	return nil
}

// DecodeTagged parses arbitrary JSON and replaces every tagged vector object
// with its concrete type (Vec2, Vec3, Vec4 or Quat).
func DecodeTagged(data []byte) (any, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return Revive(raw), nil
}

// Revive walks a value produced by json.Unmarshal into any and converts
// tagged vector objects back into vector types.
func Revive(v any) any {
	switch t := v.(type) {
	case map[string]any:
		if vec, ok := reviveTagged(t); ok {
			return vec
		}
		for k, inner := range t {
			t[k] = Revive(inner)
		}
		return t
	case []any:
		for i, inner := range t {
			t[i] = Revive(inner)
		}
		return t
	default:
		return v
	}
}

func reviveTagged(m map[string]any) (any, bool) {
	tag, ok := m[TaggedTypeKey].(string)
	if !ok {
		return nil, false
	}
	raw, ok := m["a"].([]any)
	if !ok {
		return nil, false
	}
	a := make([]float64, len(raw))
	for i, c := range raw {
		f, ok := c.(float64)
		if !ok {
			return nil, false
		}
		a[i] = f
	}
	switch {
	case tag == tagVec2 && len(a) == 2:
		return Vec2{a[0], a[1]}, true
	case tag == tagVec3 && len(a) == 3:
		return Vec3{a[0], a[1], a[2]}, true
	case tag == tagVec4 && len(a) == 4:
		return Vec4{a[0], a[1], a[2], a[3]}, true
	case tag == tagQuat && len(a) == 4:
		return Quat{a[0], a[1], a[2], a[3]}, true
	}
	return nil, false
}
