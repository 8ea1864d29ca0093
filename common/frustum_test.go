package common

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestTransformAABB(t *testing.T) {
	box := NewAABB(mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1})

	moved := TransformAABB(box, mgl32.Translate3D(5, 0, 0).Mul4(mgl32.Scale3D(2, 1, 1)))
	assert.True(t, moved.Min.ApproxEqual(mgl32.Vec3{3, -1, -1}))
	assert.True(t, moved.Max.ApproxEqual(mgl32.Vec3{7, 1, 1}))

	rotated := TransformAABB(NewAABB(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{2, 0, 0}), mgl32.HomogRotate3DY(mgl32.DegToRad(90)))
	assert.True(t, rotated.Min.ApproxEqualThreshold(mgl32.Vec3{0, 0, -2}, 1e-5), "got %v", rotated.Min)
	assert.True(t, rotated.Max.ApproxEqualThreshold(mgl32.Vec3{0, 0, 0}, 1e-5), "got %v", rotated.Max)

	assert.True(t, TransformAABB(EmptyAABB(), mgl32.Ident4()).IsEmpty())
}

func TestFrustum_IntersectsAABB(t *testing.T) {
	// An orthographic box; with [0, 1] depth the near plane sits at z = 0.
	f := ExtractFrustum(mgl32.Ortho(-1, 1, -1, 1, -1, 1))

	assert.True(t, f.IntersectsAABB(NewAABB(mgl32.Vec3{-0.5, -0.5, -0.5}, mgl32.Vec3{0.5, 0.5, 0.5})))
	assert.True(t, f.IntersectsAABB(NewAABB(mgl32.Vec3{0.5, 0, 0}, mgl32.Vec3{3, 0.1, 0.1})), "partly inside")
	assert.False(t, f.IntersectsAABB(NewAABB(mgl32.Vec3{2, 0, 0}, mgl32.Vec3{3, 0.1, 0.1})))
	assert.False(t, f.IntersectsAABB(EmptyAABB()))
}
