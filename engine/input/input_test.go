package input

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-dungeon/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestState_KeyEdges(t *testing.T) {
	s := NewState()
	s.KeyDown(common.KeySpace)
	assert.True(t, s.Held(common.KeySpace))
	assert.True(t, s.JustPressed(common.KeySpace))

	s.EndTick()
	assert.True(t, s.Held(common.KeySpace))
	assert.False(t, s.JustPressed(common.KeySpace))

	s.KeyDown(common.KeySpace)
	assert.False(t, s.JustPressed(common.KeySpace), "repeat is not a new press")

	s.KeyUp(common.KeySpace)
	s.KeyDown(common.KeySpace)
	assert.True(t, s.JustPressed(common.KeySpace))
}

func TestState_PressAndReleaseWithinTick(t *testing.T) {
	s := NewState()
	s.KeyDown(common.KeySpace)
	s.KeyUp(common.KeySpace)
	assert.False(t, s.Held(common.KeySpace))
	assert.True(t, s.JustPressed(common.KeySpace), "a tap between ticks is not lost")
}

func TestState_Mouse(t *testing.T) {
	s := NewState()
	s.MouseDown(common.MouseButtonRight)
	assert.True(t, s.JustClicked(common.MouseButtonRight))
	assert.True(t, s.ButtonHeld(common.MouseButtonRight))
	s.EndTick()
	assert.False(t, s.JustClicked(common.MouseButtonRight))
	s.MouseUp(common.MouseButtonRight)
	assert.False(t, s.ButtonHeld(common.MouseButtonRight))

	s.MouseMoved(3, -1)
	s.MouseMoved(2, 4)
	assert.Equal(t, mgl32.Vec2{5, 3}, s.DrainMouseDelta())
	assert.Equal(t, mgl32.Vec2{}, s.DrainMouseDelta())
}

func TestState_EndTickDropsUndrainedMotion(t *testing.T) {
	s := NewState()
	for range 30 {
		s.MouseMoved(20, 0)
		s.EndTick()
	}
	assert.Equal(t, mgl32.Vec2{}, s.DrainMouseDelta())

	s.MouseMoved(1, 2)
	assert.Equal(t, mgl32.Vec2{1, 2}, s.DrainMouseDelta(), "motion within a tick is kept")
}

func TestState_Reset(t *testing.T) {
	s := NewState()
	s.KeyDown(common.KeyW)
	s.MouseMoved(1, 1)
	s.Reset()
	assert.False(t, s.Held(common.KeyW))
	assert.Equal(t, mgl32.Vec2{}, s.DrainMouseDelta())
}
