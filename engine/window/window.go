package window

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
)

// DisplayMode selects how the window occupies the screen.
type DisplayMode int

const (
	// DisplayModeBorderlessFullscreen covers the primary monitor at its current video mode.
	DisplayModeBorderlessFullscreen DisplayMode = iota

	// DisplayModeWindowed opens a decorated, resizable window.
	DisplayModeWindowed
)

// String returns the lowercase name of the display mode.
func (m DisplayMode) String() string {
	switch m {
	case DisplayModeBorderlessFullscreen:
		return "borderless-fullscreen"
	case DisplayModeWindowed:
		return "windowed"
	default:
		return "unknown"
	}
}

// Window provides platform windowing and input event handling.
// Wraps platform-specific window implementations with a common interface.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the window is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetKeyDownCallback sets the callback for key press events. Key repeats are not reported.
	//
	// Parameters:
	//   - callback: function receiving the virtual key code
	SetKeyDownCallback(callback func(keyCode int))

	// SetKeyUpCallback sets the callback for key release events.
	//
	// Parameters:
	//   - callback: function receiving the virtual key code
	SetKeyUpCallback(callback func(keyCode int))

	// SetMouseButtonCallback sets the callback for mouse button presses and releases.
	//
	// Parameters:
	//   - callback: function receiving the button code and whether it was pressed
	SetMouseButtonCallback(callback func(button int, pressed bool))

	// SetMouseDeltaCallback sets the callback for relative pointer motion.
	// Deltas keep arriving while the cursor is grabbed, where absolute positions are meaningless.
	//
	// Parameters:
	//   - callback: function receiving the motion since the previous event, in pixels
	SetMouseDeltaCallback(callback func(dx, dy float32))

	// SetCursorGrabbed hides the cursor and locks it to the window, or releases it.
	//
	// Parameters:
	//   - grabbed: true to grab, false to release
	SetCursorGrabbed(grabbed bool)

	// CursorGrabbed reports whether the cursor is currently grabbed.
	CursorGrabbed() bool

	// SetTitle replaces the title bar text.
	SetTitle(title string)

	// Title returns the current title bar text.
	Title() string

	// Mode returns the display mode the window was created with.
	Mode() DisplayMode

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// ProcessMessages runs the window message loop.
	// Blocks until the window is closed. Calls OnUpdate callback each iteration.
	ProcessMessages()

	// Size returns the current client area size in pixels.
	//
	// Returns:
	//   - int: width in pixels
	//   - int: height in pixels
	Size() (int, int)
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and event callbacks.
type engineWindow struct {
	// title is the window title displayed in the title bar.
	title string

	// mode is the display mode requested at creation.
	mode DisplayMode

	// maxWidth is the maximum allowed window width during resize.
	maxWidth int

	// maxHeight is the maximum allowed window height during resize.
	maxHeight int

	// minWidth is the minimum allowed window width during resize.
	minWidth int

	// minHeight is the minimum allowed window height during resize.
	minHeight int

	// width is the current window client area width in pixels.
	width int

	// height is the current window client area height in pixels.
	height int

	// grabbed is true while the cursor is hidden and locked.
	grabbed bool

	// delta converts absolute cursor positions into relative motion.
	delta deltaTracker

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	// onUpdate is called each iteration of the message loop (if set).
	onUpdate func()

	// onResize is called when the window is resized.
	onResize func(width, height int)

	// onKeyDown is called when a key is pressed.
	onKeyDown func(keyCode int)

	// onKeyUp is called when a key is released.
	onKeyUp func(keyCode int)

	// onMouseButton is called when a mouse button is pressed or released.
	onMouseButton func(button int, pressed bool)

	// onMouseDelta is called with relative pointer motion.
	onMouseDelta func(dx, dy float32)
}

var _ Window = &engineWindow{}

// NewWindow creates a new Window with the specified options.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the configured window
//   - error: error if the platform window cannot be created, e.g. on a headless machine
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		title:     "Default Window Title",
		mode:      DisplayModeBorderlessFullscreen,
		maxWidth:  3840,
		maxHeight: 2160,
		minWidth:  600,
		minHeight: 200,
		width:     1280,
		height:    720,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("failed to create platform window: %w", err)
	}
	return w, nil
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode int)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SetKeyUpCallback(callback func(keyCode int)) {
	w.onKeyUp = callback
}

func (w *engineWindow) SetMouseButtonCallback(callback func(button int, pressed bool)) {
	w.onMouseButton = callback
}

func (w *engineWindow) SetMouseDeltaCallback(callback func(dx, dy float32)) {
	w.onMouseDelta = callback
}

func (w *engineWindow) SetCursorGrabbed(grabbed bool) {
	if w.grabbed == grabbed {
		return
	}
	w.grabbed = grabbed
	// The cursor jumps when its mode changes, which must not read as motion.
	w.delta.reset()
	platformSetCursorGrabbed(w, grabbed)
}

func (w *engineWindow) CursorGrabbed() bool {
	return w.grabbed
}

func (w *engineWindow) SetTitle(title string) {
	if title == w.title {
		return
	}
	w.title = title
	platformSetTitle(w, title)
}

func (w *engineWindow) Title() string {
	return w.title
}

func (w *engineWindow) Mode() DisplayMode {
	return w.mode
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}

func (w *engineWindow) Size() (int, int) {
	return w.width, w.height
}

// cursorMoved feeds an absolute cursor position through the delta tracker.
func (w *engineWindow) cursorMoved(x, y float64) {
	dx, dy, ok := w.delta.move(x, y)
	if ok && w.onMouseDelta != nil && (dx != 0 || dy != 0) {
		w.onMouseDelta(dx, dy)
	}
}

// deltaTracker turns a stream of absolute cursor positions into relative motion.
// The first position after a reset only primes the tracker.
type deltaTracker struct {
	lastX, lastY float64
	primed       bool
}

// move records a position and returns the motion since the previous one.
//
// Returns:
//   - float32: horizontal motion, positive to the right
//   - float32: vertical motion, positive downward
//   - bool: false when this was the priming position
func (d *deltaTracker) move(x, y float64) (float32, float32, bool) {
	if !d.primed {
		d.lastX, d.lastY, d.primed = x, y, true
		return 0, 0, false
	}
	dx, dy := x-d.lastX, y-d.lastY
	d.lastX, d.lastY = x, y
	return float32(dx), float32(dy), true
}

func (d *deltaTracker) reset() {
	d.primed = false
}
