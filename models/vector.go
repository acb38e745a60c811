package models

import "math"

// Vec2 is a two component vector.
type Vec2 struct {
	X float64
	Y float64
}

// Vec3 is a three component vector used for positions and scales.
type Vec3 struct {
	X float64
	Y float64
	Z float64
}

// Vec4 is a four component vector.
type Vec4 struct {
	X float64
	Y float64
	Z float64
	W float64
}

// Quat is a rotation quaternion. The zero value is not a valid rotation,
// use QuatIdentity.
type Quat struct {
	W float64
	X float64
	Y float64
	Z float64
}

// Mat2 is a column-major 2x2 matrix.
type Mat2 [4]float64

// Mat3 is a column-major 3x3 matrix.
type Mat3 [9]float64

// Mat4 is a column-major 4x4 matrix.
type Mat4 [16]float64

func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

func (v Vec2) Length() float64 { return math.Hypot(v.X, v.Y) }

func (v Vec2) Distance(o Vec2) float64 { return v.Sub(o).Length() }

func (v Vec2) Lerp(o Vec2, t float64) Vec2 {
	return Vec2{Lerp(v.X, o.X, t), Lerp(v.Y, o.Y, t)}
}

// Vec3One returns (1, 1, 1).
func Vec3One() Vec3 { return Vec3{1, 1, 1} }

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Mul multiplies component-wise.
func (v Vec3) Mul(o Vec3) Vec3 { return Vec3{v.X * o.X, v.Y * o.Y, v.Z * o.Z} }

// Div divides component-wise. Zero components of o produce zero.
func (v Vec3) Div(o Vec3) Vec3 {
	div := func(a, b float64) float64 {
		if b == 0 {
			return 0
		}
		return a / b
	}
	return Vec3{div(v.X, o.X), div(v.Y, o.Y), div(v.Z, o.Z)}
}

func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) Length() float64 { return math.Sqrt(v.Dot(v)) }

func (v Vec3) Distance(o Vec3) float64 { return v.Sub(o).Length() }

func (v Vec3) Lerp(o Vec3, t float64) Vec3 {
	return Vec3{Lerp(v.X, o.X, t), Lerp(v.Y, o.Y, t), Lerp(v.Z, o.Z, t)}
}

func (v Vec4) Sub(o Vec4) Vec4 { return Vec4{v.X - o.X, v.Y - o.Y, v.Z - o.Z, v.W - o.W} }

func (v Vec4) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z + v.W*v.W)
}

func (v Vec4) Distance(o Vec4) float64 { return v.Sub(o).Length() }

func (v Vec4) Lerp(o Vec4, t float64) Vec4 {
	return Vec4{Lerp(v.X, o.X, t), Lerp(v.Y, o.Y, t), Lerp(v.Z, o.Z, t), Lerp(v.W, o.W, t)}
}

// QuatIdentity returns the rotation that does nothing.
func QuatIdentity() Quat { return Quat{W: 1} }

// QuatAngleAxis builds a rotation of angle radians around axis.
func QuatAngleAxis(angle float64, axis Vec3) Quat {
	l := axis.Length()
	if l == 0 {
		return QuatIdentity()
	}
	axis = axis.Scale(1 / l)
	s := math.Sin(angle / 2)
	return Quat{W: math.Cos(angle / 2), X: axis.X * s, Y: axis.Y * s, Z: axis.Z * s}
}

func (q Quat) Dot(o Quat) float64 { return q.W*o.W + q.X*o.X + q.Y*o.Y + q.Z*o.Z }

func (q Quat) Normalize() Quat {
	l := math.Sqrt(q.Dot(q))
	if l == 0 {
		return QuatIdentity()
	}
	return Quat{q.W / l, q.X / l, q.Y / l, q.Z / l}
}

func (q Quat) Negate() Quat { return Quat{-q.W, -q.X, -q.Y, -q.Z} }

// Invert returns the inverse of a unit quaternion.
func (q Quat) Invert() Quat { return Quat{q.W, -q.X, -q.Y, -q.Z} }

// Mul returns q*o, the rotation o followed by q.
func (q Quat) Mul(o Quat) Quat {
	return Quat{
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
		X: q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		Y: q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		Z: q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
	}
}

// Rotate applies the rotation to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	u := Vec3{q.X, q.Y, q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}

// Slerp interpolates along the shortest arc between q and o.
func (q Quat) Slerp(o Quat, t float64) Quat {
	cos := q.Dot(o)
	if cos < 0 {
		o = o.Negate()
		cos = -cos
	}
	if cos > 0.9995 {
		return Quat{
			Lerp(q.W, o.W, t),
			Lerp(q.X, o.X, t),
			Lerp(q.Y, o.Y, t),
			Lerp(q.Z, o.Z, t),
		}.Normalize()
	}
	theta := math.Acos(cos)
	sin := math.Sin(theta)
	a := math.Sin((1-t)*theta) / sin
	b := math.Sin(t*theta) / sin
	return Quat{
		a*q.W + b*o.W,
		a*q.X + b*o.X,
		a*q.Y + b*o.Y,
		a*q.Z + b*o.Z,
	}
}

func Mat2Identity() Mat2 { return Mat2{1, 0, 0, 1} }

func Mat3Identity() Mat3 { return Mat3{1, 0, 0, 0, 1, 0, 0, 0, 1} }

func Mat4Identity() Mat4 {
	return Mat4{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
}
