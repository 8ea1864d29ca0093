package input

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// State collects keyboard and mouse input between ticks.
// Window callbacks write into it; the simulation reads it once per tick and then calls EndTick.
// Thread-safe for concurrent access.
type State struct {
	mu *sync.Mutex

	held        map[int]bool
	justPressed map[int]bool
	buttons     map[int]bool
	justClicked map[int]bool
	mouseDelta  mgl32.Vec2
}

// NewState creates an empty State.
func NewState() *State {
	return &State{
		mu:          &sync.Mutex{},
		held:        make(map[int]bool),
		justPressed: make(map[int]bool),
		buttons:     make(map[int]bool),
		justClicked: make(map[int]bool),
	}
}

// KeyDown records a key press. Key repeats for a key already held are ignored.
//
// Parameters:
//   - key: the key code, see common.Key*
func (s *State) KeyDown(key int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.held[key] {
		s.justPressed[key] = true
	}
	s.held[key] = true
}

// KeyUp records a key release.
func (s *State) KeyUp(key int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.held, key)
}

// MouseDown records a mouse button press.
//
// Parameters:
//   - button: the button code, see common.MouseButton*
func (s *State) MouseDown(button int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.buttons[button] {
		s.justClicked[button] = true
	}
	s.buttons[button] = true
}

// MouseUp records a mouse button release.
func (s *State) MouseUp(button int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.buttons, button)
}

// MouseMoved accumulates relative pointer motion in pixels.
func (s *State) MouseMoved(dx, dy float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mouseDelta = s.mouseDelta.Add(mgl32.Vec2{dx, dy})
}

// Held reports whether a key is currently down.
func (s *State) Held(key int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.held[key]
}

// JustPressed reports whether a key went down since the last EndTick.
func (s *State) JustPressed(key int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.justPressed[key]
}

// JustClicked reports whether a mouse button went down since the last EndTick.
func (s *State) JustClicked(button int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.justClicked[button]
}

// ButtonHeld reports whether a mouse button is currently down.
func (s *State) ButtonHeld(button int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buttons[button]
}

// DrainMouseDelta returns the pointer motion accumulated since the last drain or EndTick and resets it.
//
// Returns:
//   - mgl32.Vec2: the (dx, dy) motion in pixels
func (s *State) DrainMouseDelta() mgl32.Vec2 {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.mouseDelta
	s.mouseDelta = mgl32.Vec2{}
	return d
}

// EndTick clears the per-tick press edges and any pointer motion nobody drained this tick.
// Held keys and buttons stay held.
func (s *State) EndTick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.justPressed)
	clear(s.justClicked)
	s.mouseDelta = mgl32.Vec2{}
}

// Reset releases everything, as when the window loses focus.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.held)
	clear(s.justPressed)
	clear(s.buttons)
	clear(s.justClicked)
	s.mouseDelta = mgl32.Vec2{}
}
