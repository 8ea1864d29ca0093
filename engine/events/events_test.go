package events

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

type fakeTitle struct {
	titles []string
}

func (f *fakeTitle) SetTitle(title string) {
	f.titles = append(f.titles, title)
}

func TestQueue(t *testing.T) {
	q := NewQueue[PlayerMoved]()
	q.Push(PlayerMoved{Tick: 1})
	q.Push(PlayerMoved{Tick: 1, Displacement: mgl32.Vec3{1, 0, 0}})
	assert.Equal(t, 2, q.Len())
	assert.Len(t, q.Read(), 2)
	assert.Equal(t, 2, q.Len(), "read does not consume")

	q.Clear()
	assert.Zero(t, q.Len())

	q.Push(PlayerMoved{Tick: 2})
	drained := q.Drain()
	assert.Equal(t, []PlayerMoved{{Tick: 2}}, drained)
	assert.Zero(t, q.Len())
}

func TestInstructions(t *testing.T) {
	w := &fakeTitle{}
	i := NewInstructions("Use WASD to move", "Dungeon")

	i.Show(w)
	i.Show(w)
	assert.True(t, i.Visible())
	assert.Equal(t, []string{"Dungeon - Use WASD to move"}, w.titles)

	i.Update(w, nil)
	assert.True(t, i.Visible())

	i.Update(w, []PlayerMoved{{Tick: 5}})
	assert.False(t, i.Visible())
	assert.Equal(t, "Dungeon", w.titles[len(w.titles)-1])

	i.Show(w)
	i.Update(w, []PlayerMoved{{Tick: 6}})
	assert.False(t, i.Visible())
	assert.Len(t, w.titles, 2)
}

func TestInstructions_Headless(t *testing.T) {
	i := NewInstructions("text", "title")
	i.Show(nil)
	i.Update(nil, []PlayerMoved{{}})
	assert.False(t, i.Visible())
}
