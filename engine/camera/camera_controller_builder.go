package camera

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithYaw sets the initial rotation about world +Y.
//
// Parameters:
//   - yaw: yaw in radians (0 faces -Z)
//
// Returns:
//   - CameraControllerOption: functional option to set the yaw
func WithYaw(yaw float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.yaw = yaw
	}
}

// WithPitch sets the initial pitch. It is clamped to the pitch bounds once all options are applied.
//
// Parameters:
//   - pitch: pitch in radians (0 = horizontal)
//
// Returns:
//   - CameraControllerOption: functional option to set the pitch
func WithPitch(pitch float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.pitch = pitch
	}
}

// WithPitchBounds sets the minimum and maximum pitch.
//
// Parameters:
//   - min: lowest pitch in radians
//   - max: highest pitch in radians
//
// Returns:
//   - CameraControllerOption: functional option to set pitch bounds
func WithPitchBounds(min, max float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.minPitch = min
		cc.maxPitch = max
	}
}

// WithMouseSensitivity sets the look speed.
//
// Parameters:
//   - sensitivity: degrees turned per unit of pointer motion
//
// Returns:
//   - CameraControllerOption: functional option to set mouse sensitivity
func WithMouseSensitivity(sensitivity float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.mouseSensitivity = sensitivity
	}
}
