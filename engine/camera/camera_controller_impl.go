package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-dungeon/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultMaxPitch keeps the view just short of straight up or down, where yaw would flip.
const DefaultMaxPitch = math32.Pi/2 - 0.01

// cameraControllerImpl is the single implementation of CameraController.
type cameraControllerImpl struct {
	mu *sync.Mutex

	yaw   float32
	pitch float32

	minPitch float32
	maxPitch float32

	mouseSensitivity float32
}

// Compile-time interface compliance check
var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a new first-person controller facing -Z with a level view.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:               &sync.Mutex{},
		minPitch:         -DefaultMaxPitch,
		maxPitch:         DefaultMaxPitch,
		mouseSensitivity: 0.1,
	}

	for _, option := range options {
		option(cc)
	}

	cc.pitch = cc.clampPitch(cc.pitch)
	return cc
}

// clampPitch bounds a pitch to [minPitch, maxPitch].
// Caller must hold the mutex or own cc exclusively.
func (cc *cameraControllerImpl) clampPitch(pitch float32) float32 {
	return mgl32.Clamp(pitch, cc.minPitch, cc.maxPitch)
}

func (cc *cameraControllerImpl) Look(dx, dy float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.yaw -= mgl32.DegToRad(cc.mouseSensitivity * dx)
	cc.pitch = cc.clampPitch(cc.pitch - mgl32.DegToRad(cc.mouseSensitivity*dy))
}

func (cc *cameraControllerImpl) Yaw() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.yaw
}

func (cc *cameraControllerImpl) SetYaw(yaw float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.yaw = yaw
}

func (cc *cameraControllerImpl) Pitch() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.pitch
}

func (cc *cameraControllerImpl) SetPitch(pitch float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.pitch = cc.clampPitch(pitch)
}

func (cc *cameraControllerImpl) MinPitch() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.minPitch
}

func (cc *cameraControllerImpl) MaxPitch() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.maxPitch
}

func (cc *cameraControllerImpl) MouseSensitivity() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.mouseSensitivity
}

func (cc *cameraControllerImpl) Rotation() mgl32.Quat {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return common.YawPitch(cc.yaw, cc.pitch)
}

// Forward is -Z rotated by yaw about world up.
func (cc *cameraControllerImpl) Forward() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	s, c := math32.Sincos(cc.yaw)
	return mgl32.Vec3{-s, 0, -c}
}

// Right is +X rotated by yaw about world up.
func (cc *cameraControllerImpl) Right() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	s, c := math32.Sincos(cc.yaw)
	return mgl32.Vec3{c, 0, -s}
}
