package property

import (
	"github.com/MKhiriev/go-sync-framework/internal/snapshot"
	"github.com/MKhiriev/go-sync-framework/models"
)

type settings struct {
	smoothing      *snapshot.Options
	sendsPerSecond *float64
}

// Option configures a property at construction.
type Option func(*settings)

// WithSmoothing buffers remote values and plays them back interpolated.
func WithSmoothing(opts snapshot.Options) Option {
	return func(s *settings) { s.smoothing = &opts }
}

// WithSendsPerSecond caps the rate at which local changes are written.
func WithSendsPerSecond(n float64) Option {
	return func(s *settings) { s.sendsPerSecond = &n }
}

// Manual creates a property whose value is pushed with SetPendingValue.
func Manual[T any](key string, kind Kind[T], start T, opts ...Option) *Property[T] {
	p := New(key, kind, opts...)
	p.SetPendingValue(start)
	return p
}

func ManualBool(key string, start bool) *Property[bool] { return Manual(key, Bool, start) }

func ManualInt(key string, start int) *Property[int] { return Manual(key, Int, start) }

func ManualString(key string, start string) *Property[string] { return Manual(key, String, start) }

func ManualFloat(key string, start float64, opts ...Option) *Property[float64] {
	return Manual(key, Float, start, opts...)
}

func ManualDouble(key string, start float64, opts ...Option) *Property[float64] {
	return Manual(key, Double, start, opts...)
}

func ManualVec2(key string, start models.Vec2, opts ...Option) *Property[models.Vec2] {
	return Manual(key, Vec2, start, opts...)
}

func ManualVec3(key string, start models.Vec3, opts ...Option) *Property[models.Vec3] {
	return Manual(key, Vec3, start, opts...)
}

func ManualVec4(key string, start models.Vec4, opts ...Option) *Property[models.Vec4] {
	return Manual(key, Vec4, start, opts...)
}

func ManualQuat(key string, start models.Quat, opts ...Option) *Property[models.Quat] {
	return Manual(key, Quat, start, opts...)
}

// Auto creates a property that polls getter every check and pushes remote
// values into setter.
func Auto[T any](key string, kind Kind[T], getter func() T, setter func(T), opts ...Option) *Property[T] {
	p := New(key, kind, opts...)
	p.getter = getter
	p.setter = setter
	return p
}

func AutoFloat(key string, getter func() float64, setter func(float64), opts ...Option) *Property[float64] {
	return Auto(key, Float, getter, setter, opts...)
}

func AutoVec3(key string, getter func() models.Vec3, setter func(models.Vec3), opts ...Option) *Property[models.Vec3] {
	return Auto(key, Vec3, getter, setter, opts...)
}

func AutoQuat(key string, getter func() models.Quat, setter func(models.Quat), opts ...Option) *Property[models.Quat] {
	return Auto(key, Quat, getter, setter, opts...)
}

// WrapProperty keeps *target in sync.
func WrapProperty[T any](key string, kind Kind[T], target *T, opts ...Option) *Property[T] {
	return Auto(key, kind,
		func() T { return *target },
		func(v T) { *target = v },
		opts...)
}

// WrapGetterSetter syncs a value exposed through accessor methods.
func WrapGetterSetter[T any](key string, kind Kind[T], get func() T, set func(T), opts ...Option) *Property[T] {
	return Auto(key, kind, get, set, opts...)
}

// Transform is the part of a scene object a transform property reads and writes.
type Transform interface {
	Name() string

	LocalPosition() models.Vec3
	SetLocalPosition(models.Vec3)
	WorldPosition() models.Vec3
	SetWorldPosition(models.Vec3)

	LocalRotation() models.Quat
	SetLocalRotation(models.Quat)
	WorldRotation() models.Quat
	SetWorldRotation(models.Quat)

	LocalScale() models.Vec3
	SetLocalScale(models.Vec3)
	WorldScale() models.Vec3
	SetWorldScale(models.Vec3)
}

func space(local bool) string {
	if local {
		return "Local"
	}
	return "World"
}

func transformKey(prefix string, src, dst Transform, srcLocal bool) string {
	return prefix + space(srcLocal) + "_" + src.Name() + "_" + dst.Name()
}

func pick[T any](local bool, l, w T) T {
	if local {
		return l
	}
	return w
}

// ForPosition syncs the position of t.
func ForPosition(t Transform, local bool, opts ...Option) *Property[models.Vec3] {
	return CopyPosition(t, t, local, local, opts...)
}

// ForRotation syncs the rotation of t.
func ForRotation(t Transform, local bool, opts ...Option) *Property[models.Quat] {
	return CopyRotation(t, t, local, local, opts...)
}

// ForScale syncs the scale of t.
func ForScale(t Transform, local bool, opts ...Option) *Property[models.Vec3] {
	return CopyScale(t, t, local, local, opts...)
}

// CopyPosition reads the position of src and writes remote values to dst.
func CopyPosition(src, dst Transform, srcLocal, dstLocal bool, opts ...Option) *Property[models.Vec3] {
	return Auto(transformKey("pos", src, dst, srcLocal), Vec3,
		pick(srcLocal, src.LocalPosition, src.WorldPosition),
		pick(dstLocal, dst.SetLocalPosition, dst.SetWorldPosition),
		opts...)
}

func CopyRotation(src, dst Transform, srcLocal, dstLocal bool, opts ...Option) *Property[models.Quat] {
	return Auto(transformKey("rot", src, dst, srcLocal), Quat,
		pick(srcLocal, src.LocalRotation, src.WorldRotation),
		pick(dstLocal, dst.SetLocalRotation, dst.SetWorldRotation),
		opts...)
}

func CopyScale(src, dst Transform, srcLocal, dstLocal bool, opts ...Option) *Property[models.Vec3] {
	return Auto(transformKey("scale", src, dst, srcLocal), Vec3,
		pick(srcLocal, src.LocalScale, src.WorldScale),
		pick(dstLocal, dst.SetLocalScale, dst.SetWorldScale),
		opts...)
}
