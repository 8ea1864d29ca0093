// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"github.com/go-gl/mathgl/mgl32"
)

// AABB is an axis-aligned bounding box defined by its component-wise min and max corners.
// A zero-value AABB is a degenerate box at the origin; use EmptyAABB as the identity for Union.
type AABB struct {
	// Min is the corner with the smallest coordinate on every axis.
	Min mgl32.Vec3

	// Max is the corner with the largest coordinate on every axis.
	Max mgl32.Vec3
}

// NewAABB creates an AABB from two corners, sorting each axis so that Min <= Max.
//
// Parameters:
//   - a: the first corner
//   - b: the second corner
//
// Returns:
//   - AABB: the box spanning both corners
func NewAABB(a, b mgl32.Vec3) AABB {
	return AABB{
		Min: MinVec3(a, b),
		Max: MaxVec3(a, b),
	}
}

// EmptyAABB returns the identity element for Union: a box whose Min is +Inf and Max is -Inf on every axis.
// Union(EmptyAABB(), b) == b for any box b.
//
// Returns:
//   - AABB: the inverted infinite box
func EmptyAABB() AABB {
	inf := Inf32()
	return AABB{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
}

// IsEmpty reports whether the box is inverted on any axis, which is the case for EmptyAABB and
// for the union of no boxes.
//
// Returns:
//   - bool: true if Min exceeds Max on at least one axis
func (b AABB) IsEmpty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// Union returns the smallest box containing both b and o, computed as min-of-mins and max-of-maxes.
// The operation is associative and commutative, so folding a set of boxes yields the same result in any order.
//
// Parameters:
//   - o: the other box
//
// Returns:
//   - AABB: the combined box
func (b AABB) Union(o AABB) AABB {
	return AABB{
		Min: MinVec3(b.Min, o.Min),
		Max: MaxVec3(b.Max, o.Max),
	}
}

// HalfExtents returns half the size of the box on each axis.
//
// Returns:
//   - mgl32.Vec3: (max - min) / 2
func (b AABB) HalfExtents() mgl32.Vec3 {
	return b.Max.Sub(b.Min).Mul(0.5)
}

// Center returns the midpoint of the box.
//
// Returns:
//   - mgl32.Vec3: (max + min) / 2
func (b AABB) Center() mgl32.Vec3 {
	return b.Max.Add(b.Min).Mul(0.5)
}

// Translate returns the box moved by the given offset.
//
// Parameters:
//   - offset: the translation to apply
//
// Returns:
//   - AABB: the moved box
func (b AABB) Translate(offset mgl32.Vec3) AABB {
	return AABB{Min: b.Min.Add(offset), Max: b.Max.Add(offset)}
}

// Overlaps reports whether two boxes intersect with a strictly positive volume.
// Touching faces do not count as overlap.
//
// Parameters:
//   - o: the other box
//
// Returns:
//   - bool: true if the interiors intersect
func (b AABB) Overlaps(o AABB) bool {
	for i := 0; i < 3; i++ {
		if b.Max[i] <= o.Min[i] || o.Max[i] <= b.Min[i] {
			return false
		}
	}
	return true
}

// UnionAll folds Union over the given boxes starting from EmptyAABB.
//
// Parameters:
//   - boxes: the boxes to combine
//
// Returns:
//   - AABB: the union, or an empty box if no boxes were given
func UnionAll(boxes ...AABB) AABB {
	out := EmptyAABB()
	for _, b := range boxes {
		out = out.Union(b)
	}
	return out
}

// Transform is a translation, rotation and scale applied in TRS order.
type Transform struct {
	// Translation is the offset from the parent origin.
	Translation mgl32.Vec3

	// Rotation is a unit quaternion orientation relative to the parent.
	Rotation mgl32.Quat

	// Scale is the per-axis scale factor.
	Scale mgl32.Vec3
}

// IdentityTransform returns a transform with no translation, identity rotation and unit scale.
//
// Returns:
//   - Transform: the identity transform
func IdentityTransform() Transform {
	return Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// TransformFromXYZ returns an identity transform translated to (x, y, z).
//
// Parameters:
//   - x, y, z: the translation components
//
// Returns:
//   - Transform: the translated transform
func TransformFromXYZ(x, y, z float32) Transform {
	t := IdentityTransform()
	t.Translation = mgl32.Vec3{x, y, z}
	return t
}

// Matrix returns the column-major 4x4 matrix T * R * S.
//
// Returns:
//   - mgl32.Mat4: the model matrix for this transform
func (t Transform) Matrix() mgl32.Mat4 {
	tr := mgl32.Translate3D(t.Translation[0], t.Translation[1], t.Translation[2])
	sc := mgl32.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2])
	return tr.Mul4(t.Rotation.Mat4()).Mul4(sc)
}

// Mul composes two transforms so that the result applies o first and then t, which is how a child
// transform o is lifted into its parent's space.
// Non-uniform parent scale combined with child rotation is approximated component-wise.
//
// Parameters:
//   - o: the inner (child) transform
//
// Returns:
//   - Transform: the composed transform
func (t Transform) Mul(o Transform) Transform {
	scaled := mgl32.Vec3{
		o.Translation[0] * t.Scale[0],
		o.Translation[1] * t.Scale[1],
		o.Translation[2] * t.Scale[2],
	}
	return Transform{
		Translation: t.Translation.Add(t.Rotation.Rotate(scaled)),
		Rotation:    t.Rotation.Mul(o.Rotation).Normalize(),
		Scale: mgl32.Vec3{
			t.Scale[0] * o.Scale[0],
			t.Scale[1] * o.Scale[1],
			t.Scale[2] * o.Scale[2],
		},
	}
}

// LocalZ returns the transform's local +Z axis in its parent's space.
//
// Returns:
//   - mgl32.Vec3: the rotated unit Z vector
func (t Transform) LocalZ() mgl32.Vec3 {
	return t.Rotation.Rotate(mgl32.Vec3{0, 0, 1})
}

// Forward returns the direction the transform faces, which is local -Z.
//
// Returns:
//   - mgl32.Vec3: the rotated unit -Z vector
func (t Transform) Forward() mgl32.Vec3 {
	return t.Rotation.Rotate(mgl32.Vec3{0, 0, -1})
}

// Color is a linear RGB color.
type Color = mgl32.Vec3
