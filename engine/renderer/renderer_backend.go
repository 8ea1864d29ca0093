package renderer

import "github.com/cogentcore/webgpu/wgpu"

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// RendererBackend is the GPU API seam of the Renderer. A frame is BeginFrame, EndFrame, Present.
type RendererBackend interface {
	// ConfigureSurface (re)creates the swapchain at the given pixel size.
	ConfigureSurface(width, height int) error

	// SetPresentMode selects the present mode used by the next ConfigureSurface.
	SetPresentMode(mode PresentMode)

	// BeginFrame acquires the next surface texture and opens a render pass that clears it.
	BeginFrame(clear wgpu.Color) error

	// EndFrame closes the render pass and submits the recorded commands.
	EndFrame() error

	// Present shows the acquired surface texture and releases per-frame resources.
	Present()

	// Release frees every GPU object owned by the backend.
	Release()
}
