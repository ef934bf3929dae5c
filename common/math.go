package common

import (
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// SingularEpsilon is the determinant magnitude below which a matrix is treated as non-invertible.
const SingularEpsilon float32 = 1e-12

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// Invert computes the inverse of a 4x4 matrix.
// If the matrix is singular (|determinant| below SingularEpsilon) the identity is returned along with false.
//
// Parameters:
//   - m: the matrix to invert
//
// Returns:
//   - mgl32.Mat4: the inverse, or identity if singular
//   - bool: true if the matrix was successfully inverted, false if singular
func Invert(m mgl32.Mat4) (mgl32.Mat4, bool) {
	det := m.Det()
	if math.IsNaN(float64(det)) || float32(math.Abs(float64(det))) < SingularEpsilon {
		return mgl32.Ident4(), false
	}
	return m.Inv(), true
}

// NormalMatrix computes the inverse-transpose of the upper-left 3x3 of m, extended back to 4x4.
// Used to transform surface normals under non-uniform scale.
//
// Parameters:
//   - m: the model (global) matrix
//
// Returns:
//   - mgl32.Mat4: the normal matrix, or identity if the 3x3 block is singular
//   - bool: false if the block was singular
func NormalMatrix(m mgl32.Mat4) (mgl32.Mat4, bool) {
	upper := m.Mat3()
	det := upper.Det()
	if math.IsNaN(float64(det)) || float32(math.Abs(float64(det))) < SingularEpsilon {
		return mgl32.Ident4(), false
	}
	return upper.Inv().Transpose().Mat4(), true
}

// Position extracts the translation column of a transform.
//
// Parameters:
//   - m: the transform matrix
//
// Returns:
//   - mgl32.Vec3: the translation component
func Position(m mgl32.Mat4) mgl32.Vec3 {
	return m.Col(3).Vec3()
}

// SetPosition returns m with its translation column replaced by p.
//
// Parameters:
//   - m: the transform matrix
//   - p: the new translation
//
// Returns:
//   - mgl32.Mat4: the updated matrix
func SetPosition(m mgl32.Mat4, p mgl32.Vec3) mgl32.Mat4 {
	m[12], m[13], m[14] = p[0], p[1], p[2]
	return m
}

// RotationMatrix returns the upper-left 3x3 of m as a 4x4 with no translation.
//
// Parameters:
//   - m: the transform matrix
//
// Returns:
//   - mgl32.Mat4: the rotation (and scale) part of m
func RotationMatrix(m mgl32.Mat4) mgl32.Mat4 {
	return m.Mat3().Mat4()
}

// LookAtWorld builds an object-to-world transform placed at eye whose -Z axis points at target.
// This is the inverse of the classic view matrix: it orients an object (a camera node,
// a light) rather than producing a view transform.
//
// Parameters:
//   - eye: the object position in world space
//   - target: the point to face
//   - up: the reference up vector (typically 0,1,0)
//
// Returns:
//   - mgl32.Mat4: the world transform
func LookAtWorld(eye, target, up mgl32.Vec3) mgl32.Mat4 {
	forward := target.Sub(eye)
	if forward.Len() == 0 {
		return mgl32.Translate3D(eye[0], eye[1], eye[2])
	}
	forward = forward.Normalize()
	// Facing straight up or down makes the reference up vector parallel to forward.
	if float32(math.Abs(float64(forward.Dot(up.Normalize())))) > 0.9999 {
		up = mgl32.Vec3{0, 0, 1}
		if forward[1] < 0 {
			up = mgl32.Vec3{0, 0, -1}
		}
	}
	right := forward.Cross(up).Normalize()
	realUp := right.Cross(forward).Normalize()
	back := forward.Mul(-1)
	return mgl32.Mat4{
		right[0], right[1], right[2], 0,
		realUp[0], realUp[1], realUp[2], 0,
		back[0], back[1], back[2], 0,
		eye[0], eye[1], eye[2], 1,
	}
}

// Normalize3 returns v scaled to unit length. Returns the zero vector unchanged.
//
// Parameters:
//   - v: the vector to normalize
//
// Returns:
//   - mgl32.Vec3: the normalized vector
func Normalize3(v mgl32.Vec3) mgl32.Vec3 {
	if v.Len() == 0 {
		return v
	}
	return v.Normalize()
}

// DegToRad converts degrees to radians.
func DegToRad(deg float32) float32 {
	return mgl32.DegToRad(deg)
}
