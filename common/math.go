package common

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// epsilon32 is the length below which a vector is considered zero.
const epsilon32 = 1e-6

// Inf32 returns positive float32 infinity.
//
// Returns:
//   - float32: +Inf
func Inf32() float32 {
	return math32.Inf(1)
}

// MinVec3 returns the component-wise minimum of two vectors.
//
// Parameters:
//   - a: the first vector
//   - b: the second vector
//
// Returns:
//   - mgl32.Vec3: (min(a.x,b.x), min(a.y,b.y), min(a.z,b.z))
func MinVec3(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{
		math32.Min(a[0], b[0]),
		math32.Min(a[1], b[1]),
		math32.Min(a[2], b[2]),
	}
}

// MaxVec3 returns the component-wise maximum of two vectors.
//
// Parameters:
//   - a: the first vector
//   - b: the second vector
//
// Returns:
//   - mgl32.Vec3: (max(a.x,b.x), max(a.y,b.y), max(a.z,b.z))
func MaxVec3(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{
		math32.Max(a[0], b[0]),
		math32.Max(a[1], b[1]),
		math32.Max(a[2], b[2]),
	}
}

// NormalizeOrZero returns v scaled to unit length, or the zero vector when v is too short to normalize.
// Opposing inputs that cancel out therefore produce no movement rather than NaN.
//
// Parameters:
//   - v: the vector to normalize
//
// Returns:
//   - mgl32.Vec3: the unit vector, or zero
func NormalizeOrZero(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l < epsilon32 || math32.IsNaN(l) || math32.IsInf(l, 0) {
		return mgl32.Vec3{}
	}
	return v.Mul(1 / l)
}

// Horizontal returns v with its Y component zeroed.
//
// Parameters:
//   - v: the input vector
//
// Returns:
//   - mgl32.Vec3: (v.x, 0, v.z)
func Horizontal(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{v[0], 0, v[2]}
}

// YawPitch builds the orientation yaw(world Y) * pitch(local X).
// Applying yaw first about the world up axis and then pitch about the resulting local right axis keeps roll at zero.
//
// Parameters:
//   - yaw: rotation about world +Y in radians
//   - pitch: rotation about local +X in radians
//
// Returns:
//   - mgl32.Quat: the combined unit quaternion
func YawPitch(yaw, pitch float32) mgl32.Quat {
	qYaw := mgl32.QuatRotate(yaw, mgl32.Vec3{0, 1, 0})
	qPitch := mgl32.QuatRotate(pitch, mgl32.Vec3{1, 0, 0})
	return qYaw.Mul(qPitch).Normalize()
}
