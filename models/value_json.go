package models

import (
	"encoding/json"
	"fmt"
)

type valueJSON struct {
	Type ValueType       `json:"t"`
	V    json.RawMessage `json:"v"`
}

// MarshalJSON encodes v as {"t": <type>, "v": <payload>}.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.IsZero() {
		return []byte("null"), nil
	}
	payload, err := json.Marshal(v.data)
	if err != nil {
		return nil, fmt.Errorf("marshal %s value: %w", v.typ, err)
	}
	return json.Marshal(valueJSON{Type: v.typ, V: payload})
}

// UnmarshalJSON is the inverse of MarshalJSON. Every storage type has its
// own decode branch; an unknown tag is an error.
func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = Value{}
		return nil
	}
	var raw valueJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	decoded, err := decodeValue(raw.Type, raw.V)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}

func decodeAs[T any](typ ValueType, data json.RawMessage) (Value, error) {
	var t T
	if err := json.Unmarshal(data, &t); err != nil {
		return Value{}, fmt.Errorf("decode %s value: %w", typ, err)
	}
	return Value{typ: typ, data: t}, nil
}

func decodeValue(typ ValueType, data json.RawMessage) (Value, error) {
	switch typ {
	case TypeBool:
		return decodeAs[bool](typ, data)
	case TypeInt:
		return decodeAs[int](typ, data)
	case TypeFloat, TypeDouble:
		return decodeAs[float64](typ, data)
	case TypeString:
		return decodeAs[string](typ, data)
	case TypeVec2:
		return decodeAs[Vec2](typ, data)
	case TypeVec3:
		return decodeAs[Vec3](typ, data)
	case TypeVec4:
		return decodeAs[Vec4](typ, data)
	case TypeQuat:
		return decodeAs[Quat](typ, data)
	case TypeMat2:
		return decodeAs[Mat2](typ, data)
	case TypeMat3:
		return decodeAs[Mat3](typ, data)
	case TypeMat4:
		return decodeAs[Mat4](typ, data)
	case TypeBoolArray:
		return decodeAs[[]bool](typ, data)
	case TypeIntArray:
		return decodeAs[[]int](typ, data)
	case TypeFloatArray, TypeDoubleArray:
		return decodeAs[[]float64](typ, data)
	case TypeStringArray:
		return decodeAs[[]string](typ, data)
	case TypeVec2Array:
		return decodeAs[[]Vec2](typ, data)
	case TypeVec3Array:
		return decodeAs[[]Vec3](typ, data)
	case TypeVec4Array:
		return decodeAs[[]Vec4](typ, data)
	case TypeQuatArray:
		return decodeAs[[]Quat](typ, data)
	case TypeMat2Array:
		return decodeAs[[]Mat2](typ, data)
	case TypeMat3Array:
		return decodeAs[[]Mat3](typ, data)
	case TypeMat4Array:
		return decodeAs[[]Mat4](typ, data)
	}
	return Value{}, fmt.Errorf("%w: %q", ErrUnsupportedValueType, typ)
}
