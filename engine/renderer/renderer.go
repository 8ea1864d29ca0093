package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-dungeon/common"

	"github.com/cogentcore/webgpu/wgpu"
	"go.uber.org/zap"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend
	logger      *zap.Logger

	width, height int
	frames        uint64

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
}

// Surface is the window side of the renderer: where frames are presented and how large it is.
type Surface interface {
	// SurfaceDescriptor returns the platform surface to present to.
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// Size returns the drawable size in pixels.
	Size() (int, int)
}

// Renderer presents frames to a window surface.
//
// Each frame is a single pass that clears the surface to the scene's clear color. Scene geometry is
// not drawn; the presenter exists so the game loop has a real swapchain to pace against and resize.
type Renderer interface {
	// Resize configures the underlying backend to handle a new surface size.
	// A zero dimension (a minimized window) pauses rendering until the next non-zero resize.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// SetPresentMode changes the present mode and reconfigures the surface.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// RenderFrame clears the surface to the given color and presents it.
	// It does nothing while the surface has a zero dimension.
	//
	// Parameters:
	//   - clear: the linear RGB clear color
	//
	// Returns:
	//   - error: error if the frame could not be acquired or submitted
	RenderFrame(clear common.Color) error

	// Frames returns the number of frames presented so far.
	Frames() uint64

	// Close releases the GPU objects. The renderer must not be used afterwards.
	Close()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer instance with the specified backend type and surface.
//
// Parameters:
//   - backendType: the GPU backend to use
//   - surface: the window to present to
//   - options: a variadic list of RendererBuilderOption functions
//
// Returns:
//   - Renderer: the configured renderer
//   - error: error if no adapter or device is available or the surface cannot be configured
func NewRenderer(backendType RendererBackendType, surface Surface, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: backendType,
		logger:      zap.NewNop(),
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		b, err := newWGPURendererBackend(surface.SurfaceDescriptor(), r.forceFallbackAdapter)
		if err != nil {
			return nil, err
		}
		r.backend = b
	}

	width, height := surface.Size()
	if err := r.init(width, height); err != nil {
		r.backend.Release()
		return nil, err
	}
	return r, nil
}

// init applies pending options to the backend and configures the first surface.
func (r *renderer) init(width, height int) error {
	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	r.width, r.height = width, height
	if width <= 0 || height <= 0 {
		return nil
	}
	if err := r.backend.ConfigureSurface(width, height); err != nil {
		return fmt.Errorf("configure surface %dx%d: %w", width, height, err)
	}
	r.logger.Info("renderer ready", zap.Int("width", width), zap.Int("height", height))
	return nil
}

func (r *renderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.width, r.height = width, height
	if width <= 0 || height <= 0 {
		return
	}
	if err := r.backend.ConfigureSurface(width, height); err != nil {
		r.logger.Error("unable to reconfigure surface", zap.Int("width", width), zap.Int("height", height), zap.Error(err))
	}
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.backend.SetPresentMode(mode)
	if r.width > 0 && r.height > 0 {
		if err := r.backend.ConfigureSurface(r.width, r.height); err != nil {
			r.logger.Error("unable to reconfigure surface", zap.Error(err))
		}
	}
}

func (r *renderer) RenderFrame(clear common.Color) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.width <= 0 || r.height <= 0 {
		return nil
	}

	if err := r.backend.BeginFrame(wgpu.Color{R: float64(clear.X()), G: float64(clear.Y()), B: float64(clear.Z()), A: 1}); err != nil {
		return fmt.Errorf("begin frame: %w", err)
	}
	if err := r.backend.EndFrame(); err != nil {
		return fmt.Errorf("end frame: %w", err)
	}
	r.backend.Present()
	r.frames++
	return nil
}

func (r *renderer) Frames() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

func (r *renderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.Release()
}
