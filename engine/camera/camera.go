package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-dungeon/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

type cameraImpl struct {
	mu *sync.Mutex

	fov    float32
	aspect float32
	near   float32
	far    float32

	viewMatrix           mgl32.Mat4
	projectionMatrix     mgl32.Mat4
	viewProjectionMatrix mgl32.Mat4
}

// Camera defines the interface for a perspective camera attached to a scene node.
// The camera holds projection settings; its view is derived from the world transform
// of the node it is attached to, passed in through Update each tick.
type Camera interface {
	// Fov returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// ViewMatrix returns the current view matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix
	ViewMatrix() mgl32.Mat4

	// ProjectionMatrix returns the current projection matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix
	ProjectionMatrix() mgl32.Mat4

	// ViewProjectionMatrix returns projection * view.
	//
	// Returns:
	//   - mgl32.Mat4: the combined view-projection matrix
	ViewProjectionMatrix() mgl32.Mat4

	// Frustum returns the world-space view frustum for the current view and projection.
	Frustum() common.Frustum

	// Update recomputes the view matrix from the world transform of the node the camera is attached to.
	//
	// Parameters:
	//   - world: the camera node's world transform
	Update(world common.Transform)

	// SetFov sets the field of view in radians and recomputes matrices.
	//
	// Parameters:
	//   - fov: field of view in radians
	SetFov(fov float32)

	// SetAspect sets the aspect ratio and recomputes matrices.
	// Called from the window resize callback.
	//
	// Parameters:
	//   - aspect: width / height
	SetAspect(aspect float32)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera with a 60 degree field of view and the provided options applied.
//
// Parameters:
//   - options: variadic list of CameraBuilderOption functions to configure the camera
//
// Returns:
//   - Camera: the configured camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:         &sync.Mutex{},
		fov:        mgl32.DegToRad(60),
		aspect:     16.0 / 9.0,
		near:       0.05,
		far:        500,
		viewMatrix: mgl32.Ident4(),
	}
	for _, opt := range options {
		opt(c)
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) ViewMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) Frustum() common.Frustum {
	return common.ExtractFrustum(c.ViewProjectionMatrix())
}

func (c *cameraImpl) Update(world common.Transform) {
	c.mu.Lock()
	defer c.mu.Unlock()
	// The view is the inverse of the camera's rigid world transform; scale is ignored.
	inv := world.Rotation.Inverse()
	c.viewMatrix = inv.Mat4().Mul4(mgl32.Translate3D(-world.Translation[0], -world.Translation[1], -world.Translation[2]))
	c.viewProjectionMatrix = c.projectionMatrix.Mul4(c.viewMatrix)
}

func (c *cameraImpl) SetFov(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = fov
	c.updateMatrices()
}

func (c *cameraImpl) SetAspect(aspect float32) {
	if aspect <= 0 || math32.IsNaN(aspect) || math32.IsInf(aspect, 0) {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.updateMatrices()
}

// updateMatrices rebuilds the projection for WebGPU's [0, 1] clip-space depth range.
// Callers must hold c.mu, except during construction.
func (c *cameraImpl) updateMatrices() {
	f := 1 / math32.Tan(c.fov/2)
	p := mgl32.Mat4{}
	p[0] = f / c.aspect
	p[5] = f
	p[10] = c.far / (c.near - c.far)
	p[11] = -1
	p[14] = (c.near * c.far) / (c.near - c.far)
	c.projectionMatrix = p
	c.viewProjectionMatrix = p.Mul4(c.viewMatrix)
}
