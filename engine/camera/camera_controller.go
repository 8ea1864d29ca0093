package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraController defines a first-person look controller.
// The controller owns the view angles (yaw about world up, pitch about the local right axis) and derives
// the camera rotation and the horizontal movement basis from them. Position stays with whatever node the
// camera is attached to.
type CameraController interface {
	// Look turns the view by a pointer motion, scaled by MouseSensitivity degrees per unit.
	// Moving right turns right and moving down looks down. Pitch is clamped to the controller's bounds.
	//
	// Parameters:
	//   - dx: horizontal motion
	//   - dy: vertical motion, positive downward
	Look(dx, dy float32)

	// Yaw returns the current rotation about world +Y.
	//
	// Returns:
	//   - float32: yaw in radians
	Yaw() float32

	// SetYaw sets the rotation about world +Y directly.
	//
	// Parameters:
	//   - yaw: new yaw in radians
	SetYaw(yaw float32)

	// Pitch returns the current rotation about the local right axis.
	//
	// Returns:
	//   - float32: pitch in radians, positive looking up
	Pitch() float32

	// SetPitch sets the pitch directly, clamped to min/max bounds.
	//
	// Parameters:
	//   - pitch: new pitch in radians
	SetPitch(pitch float32)

	// MinPitch returns the lowest allowed pitch.
	MinPitch() float32

	// MaxPitch returns the highest allowed pitch.
	MaxPitch() float32

	// MouseSensitivity returns the look speed in degrees per unit of pointer motion.
	MouseSensitivity() float32

	// Rotation returns the view orientation, yaw applied before pitch, with no roll.
	//
	// Returns:
	//   - mgl32.Quat: the camera rotation
	Rotation() mgl32.Quat

	// Forward returns the horizontal direction the view faces.
	//
	// Returns:
	//   - mgl32.Vec3: unit vector on the XZ plane, independent of pitch
	Forward() mgl32.Vec3

	// Right returns the horizontal direction to the right of the view.
	//
	// Returns:
	//   - mgl32.Vec3: unit vector on the XZ plane, perpendicular to Forward
	Right() mgl32.Vec3
}
