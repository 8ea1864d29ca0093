package common

// Virtual key codes for cross-platform input handling.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyW           = 87  // W key (ASCII)
	KeyA           = 65  // A key (ASCII)
	KeyS           = 83  // S key (ASCII)
	KeyD           = 68  // D key (ASCII)
	KeyG           = 71  // G key (ASCII)
	KeySpace       = 32  // Spacebar (ASCII)
	KeyGraveAccent = 96  // ` key (ASCII)
	KeyEsc         = 256 // Escape key (GLFW)
)

// Mouse button codes matching glfw.MouseButton values.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#MouseButton
const (
	MouseButtonLeft   = 0
	MouseButtonRight  = 1
	MouseButtonMiddle = 2
)
