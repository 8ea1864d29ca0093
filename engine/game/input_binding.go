package game

import (
	"github.com/Carmen-Shannon/oxy-dungeon/engine/input"
	"github.com/Carmen-Shannon/oxy-dungeon/engine/window"
)

// BindWindow routes a window's keyboard and mouse callbacks into an input state.
// The callbacks fire while the engine polls the window, before the tick that samples them.
//
// Parameters:
//   - w: the window producing events
//   - in: the state the game samples each tick
func BindWindow(w window.Window, in *input.State) {
	w.SetKeyDownCallback(in.KeyDown)
	w.SetKeyUpCallback(in.KeyUp)
	w.SetMouseButtonCallback(func(button int, pressed bool) {
		if pressed {
			in.MouseDown(button)
		} else {
			in.MouseUp(button)
		}
	})
	w.SetMouseDeltaCallback(in.MouseMoved)
}
