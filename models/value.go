package models

import "strings"

// ValueType names the storage type of a replicated store value.
type ValueType string

const (
	TypeBool   ValueType = "Bool"
	TypeInt    ValueType = "Int"
	TypeFloat  ValueType = "Float"
	TypeDouble ValueType = "Double"
	TypeString ValueType = "String"
	TypeVec2   ValueType = "Vec2"
	TypeVec3   ValueType = "Vec3"
	TypeVec4   ValueType = "Vec4"
	TypeQuat   ValueType = "Quat"
	TypeMat2   ValueType = "Mat2"
	TypeMat3   ValueType = "Mat3"
	TypeMat4   ValueType = "Mat4"

	TypeBoolArray   ValueType = "BoolArray"
	TypeIntArray    ValueType = "IntArray"
	TypeFloatArray  ValueType = "FloatArray"
	TypeDoubleArray ValueType = "DoubleArray"
	TypeStringArray ValueType = "StringArray"
	TypeVec2Array   ValueType = "Vec2Array"
	TypeVec3Array   ValueType = "Vec3Array"
	TypeVec4Array   ValueType = "Vec4Array"
	TypeQuatArray   ValueType = "QuatArray"
	TypeMat2Array   ValueType = "Mat2Array"
	TypeMat3Array   ValueType = "Mat3Array"
	TypeMat4Array   ValueType = "Mat4Array"
)

const arraySuffix = "Array"

var baseTypes = []ValueType{
	TypeBool, TypeInt, TypeFloat, TypeDouble, TypeString,
	TypeVec2, TypeVec3, TypeVec4, TypeQuat,
	TypeMat2, TypeMat3, TypeMat4,
}

// Valid reports whether t is one of the supported storage types.
func (t ValueType) Valid() bool {
	base := t.Base()
	for _, b := range baseTypes {
		if b == base {
			return true
		}
	}
	return false
}

// IsArray reports whether t is a homogeneous array type.
func (t ValueType) IsArray() bool {
	return strings.HasSuffix(string(t), arraySuffix)
}

// Base returns the element type of an array type, or t itself.
func (t ValueType) Base() ValueType {
	return ValueType(strings.TrimSuffix(string(t), arraySuffix))
}

// ArrayOf returns the array type whose elements are t.
func (t ValueType) ArrayOf() ValueType {
	if t.IsArray() {
		return t
	}
	return t + arraySuffix
}

// Value is a tagged variant holding one store value. The concrete Go type
// of the payload is fixed by the tag:
//
//	Bool bool, Int int, Float/Double float64, String string,
//	Vec2..Vec4, Quat, Mat2..Mat4 their model types,
//	arrays the matching slices ([]bool, []int, []float64, []Vec3, ...).
//
// Values are built with the typed constructors and read back with the
// typed accessors, so a mismatched type is reported instead of coerced.
type Value struct {
	typ  ValueType
	data any
}

// Type returns the tag.
func (v Value) Type() ValueType { return v.typ }

// IsZero reports whether v holds nothing.
func (v Value) IsZero() bool { return v.typ == "" }

// Raw returns the payload as an untyped value.
func (v Value) Raw() any { return v.data }

func BoolValue(b bool) Value { return Value{TypeBool, b} }
func IntValue(i int) Value { return Value{TypeInt, i} }
func FloatValue(f float64) Value { return Value{TypeFloat, f} }
func DoubleValue(f float64) Value { return Value{TypeDouble, f} }
func StringValue(s string) Value { return Value{TypeString, s} }
func Vec2Value(v Vec2) Value { return Value{TypeVec2, v} }
func Vec3Value(v Vec3) Value { return Value{TypeVec3, v} }
func Vec4Value(v Vec4) Value { return Value{TypeVec4, v} }
func QuatValue(q Quat) Value { return Value{TypeQuat, q} }
func Mat2Value(m Mat2) Value { return Value{TypeMat2, m} }
func Mat3Value(m Mat3) Value { return Value{TypeMat3, m} }
func Mat4Value(m Mat4) Value { return Value{TypeMat4, m} }
func BoolArrayValue(a []bool) Value { return Value{TypeBoolArray, clone(a)} }
func IntArrayValue(a []int) Value { return Value{TypeIntArray, clone(a)} }
func StringArrayValue(a []string) Value {
	return Value{TypeStringArray, clone(a)}
}
func FloatArrayValue(a []float64) Value { return Value{TypeFloatArray, clone(a)} }
func DoubleArrayValue(a []float64) Value { return Value{TypeDoubleArray, clone(a)} }
func Vec2ArrayValue(a []Vec2) Value { return Value{TypeVec2Array, clone(a)} }
func Vec3ArrayValue(a []Vec3) Value { return Value{TypeVec3Array, clone(a)} }
func Vec4ArrayValue(a []Vec4) Value { return Value{TypeVec4Array, clone(a)} }
func QuatArrayValue(a []Quat) Value { return Value{TypeQuatArray, clone(a)} }
func Mat2ArrayValue(a []Mat2) Value { return Value{TypeMat2Array, clone(a)} }
func Mat3ArrayValue(a []Mat3) Value { return Value{TypeMat3Array, clone(a)} }
func Mat4ArrayValue(a []Mat4) Value { return Value{TypeMat4Array, clone(a)} }

func clone[T any](a []T) []T {
	if a == nil {
		return nil
	}
	out := make([]T, len(a))
	copy(out, a)
	return out
}

func get[T any](v Value, want ValueType) (T, bool) {
	var zero T
	if v.typ != want {
		return zero, false
	}
	t, ok := v.data.(T)
	return t, ok
}

func getSlice[T any](v Value, want ValueType) ([]T, bool) {
	a, ok := get[[]T](v, want)
	if !ok {
		return nil, false
	}
	return clone(a), true
}

func (v Value) Bool() (bool, bool) { return get[bool](v, TypeBool) }
func (v Value) Int() (int, bool) { return get[int](v, TypeInt) }
func (v Value) Str() (string, bool) { return get[string](v, TypeString) }
func (v Value) Vec2() (Vec2, bool) { return get[Vec2](v, TypeVec2) }
func (v Value) Vec3() (Vec3, bool) { return get[Vec3](v, TypeVec3) }
func (v Value) Vec4() (Vec4, bool) { return get[Vec4](v, TypeVec4) }
func (v Value) Quat() (Quat, bool) { return get[Quat](v, TypeQuat) }
func (v Value) Mat2() (Mat2, bool) { return get[Mat2](v, TypeMat2) }
func (v Value) Mat3() (Mat3, bool) { return get[Mat3](v, TypeMat3) }
func (v Value) Mat4() (Mat4, bool) { return get[Mat4](v, TypeMat4) }
func (v Value) Float() (float64, bool) { return get[float64](v, TypeFloat) }
func (v Value) Double() (float64, bool) { return get[float64](v, TypeDouble) }
func (v Value) BoolArray() ([]bool, bool) { return getSlice[bool](v, TypeBoolArray) }
func (v Value) IntArray() ([]int, bool) { return getSlice[int](v, TypeIntArray) }
func (v Value) StringArray() ([]string, bool) {
	return getSlice[string](v, TypeStringArray)
}
func (v Value) FloatArray() ([]float64, bool) { return getSlice[float64](v, TypeFloatArray) }
func (v Value) DoubleArray() ([]float64, bool) { return getSlice[float64](v, TypeDoubleArray) }
func (v Value) Vec2Array() ([]Vec2, bool) { return getSlice[Vec2](v, TypeVec2Array) }
func (v Value) Vec3Array() ([]Vec3, bool) { return getSlice[Vec3](v, TypeVec3Array) }
func (v Value) Vec4Array() ([]Vec4, bool) { return getSlice[Vec4](v, TypeVec4Array) }
func (v Value) QuatArray() ([]Quat, bool) { return getSlice[Quat](v, TypeQuatArray) }
func (v Value) Mat2Array() ([]Mat2, bool) { return getSlice[Mat2](v, TypeMat2Array) }
func (v Value) Mat3Array() ([]Mat3, bool) { return getSlice[Mat3](v, TypeMat3Array) }
func (v Value) Mat4Array() ([]Mat4, bool) { return getSlice[Mat4](v, TypeMat4Array) }
