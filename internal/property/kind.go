package property

import (
	"math"

	"github.com/MKhiriev/go-sync-framework/internal/snapshot"
	"github.com/MKhiriev/go-sync-framework/models"
)

const (
	floatTolerance = 1e-5
	vecTolerance   = 1e-6
	quatMinDot     = 0.999999
)

// Kind describes how values of one storage type are stored, compared and
// interpolated.
type Kind[T any] struct {
	Type   models.ValueType
	Wrap   func(T) models.Value
	Unwrap func(models.Value) (T, bool)
	Equal  func(a, b T) bool
	// Lerp is nil for types that cannot be interpolated; smoothing then
	// snaps to the later sample.
	Lerp snapshot.LerpFunc[T]
}

func equalFloat(a, b float64) bool { return math.Abs(a-b) < floatTolerance }

func equalVec2(a, b models.Vec2) bool { return a.Distance(b) < vecTolerance }

func equalVec3(a, b models.Vec3) bool { return a.Distance(b) < vecTolerance }

func equalVec4(a, b models.Vec4) bool { return a.Distance(b) < vecTolerance }

// equalQuat treats q and -q as the same rotation.
func equalQuat(a, b models.Quat) bool { return math.Abs(a.Dot(b)) >= quatMinDot }

func equalComparable[T comparable](a, b T) bool { return a == b }

func arrayOf[T any](base Kind[T], wrap func([]T) models.Value, unwrap func(models.Value) ([]T, bool)) Kind[[]T] {
	k := Kind[[]T]{
		Type:   base.Type.ArrayOf(),
		Wrap:   wrap,
		Unwrap: unwrap,
		Equal: func(a, b []T) bool {
			if len(a) != len(b) {
				return false
			}
			for i := range a {
				if !base.Equal(a[i], b[i]) {
					return false
				}
			}
			return true
		},
	}
	if base.Lerp != nil {
		k.Lerp = func(a, b []T, t float64) []T {
			if len(a) != len(b) {
				return b
			}
			out := make([]T, len(a))
			for i := range a {
				out[i] = base.Lerp(a[i], b[i], t)
			}
			return out
		}
	}
	return k
}

var (
	Bool = Kind[bool]{
		Type: models.TypeBool, Wrap: models.BoolValue, Unwrap: models.Value.Bool,
		Equal: equalComparable[bool],
	}
	Int = Kind[int]{
		Type: models.TypeInt, Wrap: models.IntValue, Unwrap: models.Value.Int,
		Equal: equalComparable[int],
	}
	Float = Kind[float64]{
		Type: models.TypeFloat, Wrap: models.FloatValue, Unwrap: models.Value.Float,
		Equal: equalFloat, Lerp: models.Lerp,
	}
	Double = Kind[float64]{
		Type: models.TypeDouble, Wrap: models.DoubleValue, Unwrap: models.Value.Double,
		Equal: equalFloat, Lerp: models.Lerp,
	}
	String = Kind[string]{
		Type: models.TypeString, Wrap: models.StringValue, Unwrap: models.Value.Str,
		Equal: equalComparable[string],
	}
	Vec2 = Kind[models.Vec2]{
		Type: models.TypeVec2, Wrap: models.Vec2Value, Unwrap: models.Value.Vec2,
		Equal: equalVec2, Lerp: models.Vec2.Lerp,
	}
	Vec3 = Kind[models.Vec3]{
		Type: models.TypeVec3, Wrap: models.Vec3Value, Unwrap: models.Value.Vec3,
		Equal: equalVec3, Lerp: models.Vec3.Lerp,
	}
	Vec4 = Kind[models.Vec4]{
		Type: models.TypeVec4, Wrap: models.Vec4Value, Unwrap: models.Value.Vec4,
		Equal: equalVec4, Lerp: models.Vec4.Lerp,
	}
	Quat = Kind[models.Quat]{
		Type: models.TypeQuat, Wrap: models.QuatValue, Unwrap: models.Value.Quat,
		Equal: equalQuat, Lerp: models.Quat.Slerp,
	}
	Mat2 = Kind[models.Mat2]{
		Type: models.TypeMat2, Wrap: models.Mat2Value, Unwrap: models.Value.Mat2,
		Equal: equalComparable[models.Mat2],
	}
	Mat3 = Kind[models.Mat3]{
		Type: models.TypeMat3, Wrap: models.Mat3Value, Unwrap: models.Value.Mat3,
		Equal: equalComparable[models.Mat3],
	}
	Mat4 = Kind[models.Mat4]{
		Type: models.TypeMat4, Wrap: models.Mat4Value, Unwrap: models.Value.Mat4,
		Equal: equalComparable[models.Mat4],
	}

	BoolArray   = arrayOf(Bool, models.BoolArrayValue, models.Value.BoolArray)
	IntArray    = arrayOf(Int, models.IntArrayValue, models.Value.IntArray)
	FloatArray  = arrayOf(Float, models.FloatArrayValue, models.Value.FloatArray)
	DoubleArray = arrayOf(Double, models.DoubleArrayValue, models.Value.DoubleArray)
	StringArray = arrayOf(String, models.StringArrayValue, models.Value.StringArray)
	Vec2Array   = arrayOf(Vec2, models.Vec2ArrayValue, models.Value.Vec2Array)
	Vec3Array   = arrayOf(Vec3, models.Vec3ArrayValue, models.Value.Vec3Array)
	Vec4Array   = arrayOf(Vec4, models.Vec4ArrayValue, models.Value.Vec4Array)
	QuatArray   = arrayOf(Quat, models.QuatArrayValue, models.Value.QuatArray)
	Mat2Array   = arrayOf(Mat2, models.Mat2ArrayValue, models.Value.Mat2Array)
	Mat3Array   = arrayOf(Mat3, models.Mat3ArrayValue, models.Value.Mat3Array)
	Mat4Array   = arrayOf(Mat4, models.Mat4ArrayValue, models.Value.Mat4Array)
)
