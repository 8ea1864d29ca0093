package camera

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestCameraController_Defaults(t *testing.T) {
	cc := NewCameraController()
	assert.Equal(t, float32(0), cc.Yaw())
	assert.Equal(t, float32(0), cc.Pitch())
	assert.Equal(t, -DefaultMaxPitch, cc.MinPitch())
	assert.Equal(t, DefaultMaxPitch, cc.MaxPitch())
	assert.True(t, cc.Forward().ApproxEqual(mgl32.Vec3{0, 0, -1}))
	assert.True(t, cc.Right().ApproxEqual(mgl32.Vec3{1, 0, 0}))
}

func TestCameraController_Look(t *testing.T) {
	tests := []struct {
		name      string
		dx, dy    float32
		wantYaw   float32
		wantPitch float32
	}{
		{"right turns right", 90, 0, -mgl32.DegToRad(90), 0},
		{"left turns left", -45, 0, mgl32.DegToRad(45), 0},
		{"down looks down", 0, 30, 0, -mgl32.DegToRad(30)},
		{"far up is clamped", 0, -1000, 0, DefaultMaxPitch},
		{"far down is clamped", 0, 1000, 0, -DefaultMaxPitch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cc := NewCameraController(WithMouseSensitivity(1))
			cc.Look(tt.dx, tt.dy)
			assert.InDelta(t, tt.wantYaw, cc.Yaw(), 1e-6)
			assert.InDelta(t, tt.wantPitch, cc.Pitch(), 1e-6)
		})
	}
}

func TestCameraController_Basis(t *testing.T) {
	tests := []struct {
		name    string
		yaw     float32
		forward mgl32.Vec3
		right   mgl32.Vec3
	}{
		{"facing -Z", 0, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{1, 0, 0}},
		{"facing +X", -math32.Pi / 2, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
		{"facing +Z", math32.Pi, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{-1, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cc := NewCameraController(WithYaw(tt.yaw), WithPitch(0.8))
			assert.True(t, cc.Forward().ApproxEqualThreshold(tt.forward, 1e-5), "forward %v", cc.Forward())
			assert.True(t, cc.Right().ApproxEqualThreshold(tt.right, 1e-5), "right %v", cc.Right())

			// The rotation's view axis agrees with the horizontal basis.
			view := cc.Rotation().Rotate(mgl32.Vec3{0, 0, -1})
			flat := mgl32.Vec3{view.X(), 0, view.Z()}.Normalize()
			assert.True(t, flat.ApproxEqualThreshold(tt.forward, 1e-5), "view %v", view)
		})
	}
}

func TestCameraController_PitchBounds(t *testing.T) {
	cc := NewCameraController(WithPitchBounds(-0.5, 0.25), WithPitch(1))
	assert.Equal(t, float32(0.25), cc.Pitch(), "initial pitch is clamped")

	cc.SetPitch(-2)
	assert.Equal(t, float32(-0.5), cc.Pitch())

	cc.SetYaw(3)
	assert.Equal(t, float32(3), cc.Yaw())
}
