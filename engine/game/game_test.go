package game

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-dungeon/common"
	"github.com/Carmen-Shannon/oxy-dungeon/engine/app_state"
	"github.com/Carmen-Shannon/oxy-dungeon/engine/input"
	"github.com/Carmen-Shannon/oxy-dungeon/engine/physics"
	"github.com/Carmen-Shannon/oxy-dungeon/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-dungeon/engine/scene"
	"github.com/Carmen-Shannon/oxy-dungeon/engine/window"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const (
	dt      = float32(1.0 / 60.0)
	waitFor = 2 * time.Second

	testInstructions = "Walk with WASD"
)

type fakeWindow struct {
	w, h    int
	title   string
	grabbed bool
}

func (f *fakeWindow) Size() (int, int)              { return f.w, f.h }
func (f *fakeWindow) SetTitle(title string)         { f.title = title }
func (f *fakeWindow) SetCursorGrabbed(grabbed bool) { f.grabbed = grabbed }
func (f *fakeWindow) CursorGrabbed() bool           { return f.grabbed }

// levelBuffer holds a unit quad (4 positions) and a unit cube (8 positions), then their uint16 indices.
func levelBuffer(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	quad := [4][3]float32{{-1, 0, -1}, {1, 0, -1}, {1, 0, 1}, {-1, 0, 1}}
	cube := [8][3]float32{
		{-0.5, -0.5, -0.5}, {0.5, -0.5, -0.5}, {0.5, 0.5, -0.5}, {-0.5, 0.5, -0.5},
		{-0.5, -0.5, 0.5}, {0.5, -0.5, 0.5}, {0.5, 0.5, 0.5}, {-0.5, 0.5, 0.5},
	}
	quadIdx := [6]uint16{0, 2, 1, 0, 3, 2}
	cubeIdx := [36]uint16{
		0, 2, 1, 0, 3, 2,
		4, 5, 6, 4, 6, 7,
		0, 1, 5, 0, 5, 4,
		3, 7, 6, 3, 6, 2,
		0, 4, 7, 0, 7, 3,
		1, 2, 6, 1, 6, 5,
	}
	for _, v := range []any{quad, cube, quadIdx, cubeIdx} {
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, v))
	}
	return buf.Bytes()
}

// levelDoc is a 20x20 collider-only floor at y=0 and a rigid crate held above it. The crate glows.
func levelDoc(t *testing.T) []byte {
	t.Helper()
	data := levelBuffer(t)
	doc := map[string]any{
		"asset":  map[string]any{"version": "2.0"},
		"scene":  0,
		"scenes": []any{map[string]any{"nodes": []int{0, 1}}},
		"nodes": []any{
			map[string]any{"name": "Floor-colonly", "mesh": 0, "scale": []float32{10, 1, 10}},
			map[string]any{"name": "Crate-rigid", "mesh": 1, "translation": []float32{3, 2, 0}},
		},
		"meshes": []any{
			map[string]any{"name": "Quad", "primitives": []any{map[string]any{"attributes": map[string]int{"POSITION": 0}, "indices": 2}}},
			map[string]any{"name": "Cube", "primitives": []any{map[string]any{"attributes": map[string]int{"POSITION": 1}, "indices": 3, "material": 0}}},
		},
		"materials": []any{map[string]any{"name": "Glow", "emissiveFactor": []float32{0.5, 0.25, 0}}},
		"accessors": []any{
			map[string]any{"bufferView": 0, "componentType": 5126, "count": 4, "type": "VEC3"},
			map[string]any{"bufferView": 1, "componentType": 5126, "count": 8, "type": "VEC3"},
			map[string]any{"bufferView": 2, "componentType": 5123, "count": 6, "type": "SCALAR"},
			map[string]any{"bufferView": 3, "componentType": 5123, "count": 36, "type": "SCALAR"},
		},
		"bufferViews": []any{
			map[string]any{"buffer": 0, "byteOffset": 0, "byteLength": 48},
			map[string]any{"buffer": 0, "byteOffset": 48, "byteLength": 96},
			map[string]any{"buffer": 0, "byteOffset": 144, "byteLength": 12},
			map[string]any{"buffer": 0, "byteOffset": 156, "byteLength": 72},
		},
		"buffers": []any{map[string]any{
			"byteLength": len(data),
			"uri":        "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(data),
		}},
	}
	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	return raw
}

type paths struct {
	config string
	scene  string
}

func writeAssets(t *testing.T) paths {
	t.Helper()
	dir := t.TempDir()
	p := paths{
		config: filepath.Join(dir, "config.json"),
		scene:  filepath.Join(dir, "dungeon.gltf"),
	}
	cfg := `{"instructions": "` + testInstructions + `", "spawn_position": [0, 0, 0], "clear_color": [0.1, 0.1, 0.1]}`
	require.NoError(t, os.WriteFile(p.config, []byte(cfg), 0o644))
	require.NoError(t, os.WriteFile(p.scene, levelDoc(t), 0o644))
	return p
}

func newTestGame(t *testing.T, p paths, options ...GameBuilderOption) Game {
	t.Helper()
	options = append([]GameBuilderOption{WithConfigPath(p.config), WithScenePath(p.scene)}, options...)
	g := NewGame(options...)
	t.Cleanup(g.Close)
	return g
}

// tickUntil ticks the game until it reaches state, failing on any tick error.
func tickUntil(t *testing.T, g Game, state app_state.AppState) {
	t.Helper()
	deadline := time.Now().Add(waitFor)
	for g.State() != state {
		require.True(t, time.Now().Before(deadline), "stuck in %s", g.State())
		require.NoError(t, g.Tick(dt))
		time.Sleep(time.Millisecond)
	}
}

func TestTick_ReachesInGame(t *testing.T) {
	fw := &fakeWindow{w: 800, h: 600}
	var ready scene.Scene
	g := newTestGame(t, writeAssets(t), WithWindow(fw), WithSceneReady(func(sc scene.Scene) { ready = sc }))

	assert.Nil(t, g.Scene())
	tickUntil(t, g, app_state.InGame)

	sc := g.Scene()
	require.NotNil(t, sc)
	assert.Same(t, sc, ready)
	assert.Equal(t, testInstructions, g.Config().Instructions)
	assert.Equal(t, common.Color{0.1, 0.1, 0.1}, sc.Environment().ClearColor)

	require.NotNil(t, g.Player())
	assert.Equal(t, 3, g.World().Len(), "floor, crate and player")

	floor, ok := sc.FindByName("Floor-colonly")
	require.True(t, ok)
	assert.False(t, sc.IsVisible(floor))

	assert.True(t, fw.grabbed, "entering the game grabs the cursor")
	assert.Equal(t, DefaultTitle+" - "+testInstructions, fw.title)
	assert.InDelta(t, 800.0/600.0, sc.Camera().Aspect(), 1e-6)
}

func TestTick_EmissiveScaledOnce(t *testing.T) {
	g := newTestGame(t, writeAssets(t))
	tickUntil(t, g, app_state.InGame)
	for range 20 {
		require.NoError(t, g.Tick(dt))
	}

	var glow material.Material
	for _, m := range g.Scene().Materials() {
		if m.Name() == "Glow" {
			glow = m
		}
	}
	require.NotNil(t, glow)
	assert.Equal(t, common.Color{2, 1, 0}, glow.Emissive(), "scaled by the default factor of 4, once")
}

func TestTick_LoadingMotionDoesNotTurnPlayer(t *testing.T) {
	fw := &fakeWindow{w: 800, h: 600}
	g := newTestGame(t, writeAssets(t), WithWindow(fw))

	deadline := time.Now().Add(waitFor)
	for g.State() != app_state.InGame {
		require.True(t, time.Now().Before(deadline), "stuck in %s", g.State())
		g.Input().MouseMoved(20, 0)
		require.NoError(t, g.Tick(dt))
		time.Sleep(time.Millisecond)
	}
	require.NotNil(t, g.Player())

	require.NoError(t, g.Tick(dt))
	assert.InDelta(t, -math.Pi/2, g.Player().Yaw(), 1e-6)
}

func TestTick_SyncsDynamicBodies(t *testing.T) {
	g := newTestGame(t, writeAssets(t))
	tickUntil(t, g, app_state.InGame)

	sc := g.Scene()
	crate, ok := sc.FindByName("Crate-rigid")
	require.True(t, ok)

	for range 30 {
		require.NoError(t, g.Tick(dt))
	}
	body, ok := g.World().Body(crate)
	require.True(t, ok)
	assert.Equal(t, physics.BodyDynamic, body.Kind)
	assert.Less(t, body.Translation.Y(), float32(2), "the crate falls")
	assert.True(t, sc.WorldTransform(crate).Translation.ApproxEqualThreshold(body.Translation, 1e-5))
}

func TestTick_InstructionsDismissedOnMove(t *testing.T) {
	fw := &fakeWindow{w: 800, h: 600}
	g := newTestGame(t, writeAssets(t), WithWindow(fw))
	tickUntil(t, g, app_state.InGame)
	require.Equal(t, DefaultTitle+" - "+testInstructions, fw.title)

	require.NoError(t, g.Tick(dt))
	assert.Equal(t, DefaultTitle+" - "+testInstructions, fw.title, "standing still keeps the instructions")

	g.Input().KeyDown(common.KeyW)
	require.NoError(t, g.Tick(dt))
	assert.Equal(t, DefaultTitle, fw.title)
}

func TestTick_AssetFailure(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(t *testing.T, p *paths)
		path   func(p paths) string
	}{
		{
			name:   "missing config",
			mutate: func(t *testing.T, p *paths) { p.config = filepath.Join(t.TempDir(), "missing.json") },
			path:   func(p paths) string { return p.config },
		},
		{
			name:   "missing scene",
			mutate: func(t *testing.T, p *paths) { p.scene = filepath.Join(t.TempDir(), "missing.gltf") },
			path:   func(p paths) string { return p.scene },
		},
		{
			name: "invalid config",
			mutate: func(t *testing.T, p *paths) {
				require.NoError(t, os.WriteFile(p.config, []byte(`{"player_capsule_radius": 0}`), 0o644))
			},
			path: func(p paths) string { return p.config },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := writeAssets(t)
			tt.mutate(t, &p)
			g := newTestGame(t, p)

			deadline := time.Now().Add(waitFor)
			var err error
			for err == nil {
				require.True(t, time.Now().Before(deadline), "load never failed")
				err = g.Tick(dt)
				time.Sleep(time.Millisecond)
			}
			assert.ErrorIs(t, err, ErrAssetLoadFailed)
			assert.Contains(t, err.Error(), tt.path(p))
			assert.Equal(t, app_state.LoadingAssets, g.State())
		})
	}
}

func TestDebugKeys_GrabCursor(t *testing.T) {
	t.Run("headless", func(t *testing.T) {
		core, logs := observer.New(zapcore.WarnLevel)
		g := newTestGame(t, writeAssets(t), WithLogger(zap.New(core)))

		g.Input().KeyDown(common.KeyGraveAccent)
		require.NoError(t, g.Tick(dt))
		assert.Equal(t, 1, logs.FilterMessage("no primary window when trying to grab cursor").Len())
	})

	t.Run("window", func(t *testing.T) {
		fw := &fakeWindow{w: 800, h: 600}
		g := newTestGame(t, writeAssets(t), WithWindow(fw))

		press := func() {
			g.Input().KeyDown(common.KeyGraveAccent)
			require.NoError(t, g.Tick(dt))
			g.Input().KeyUp(common.KeyGraveAccent)
		}
		press()
		assert.True(t, fw.grabbed)
		press()
		assert.False(t, fw.grabbed)
	})
}

func TestDebugKeys_PhysicsDebug(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	g := newTestGame(t, writeAssets(t), WithLogger(zap.New(core)))
	tickUntil(t, g, app_state.InGame)

	g.Input().KeyDown(common.KeyG)
	require.NoError(t, g.Tick(dt))
	assert.True(t, g.PhysicsDebug())

	toggled := logs.FilterMessage("physics debug toggled").All()
	require.Len(t, toggled, 1)
	fields := toggled[0].ContextMap()
	assert.Equal(t, int64(3), fields["bodies"])
	assert.Equal(t, int64(1), fields["dynamic"])
	assert.Equal(t, int64(1), fields["meshes_in_view"], "the crate ahead is in view and the hidden floor is not")

	g.Input().KeyUp(common.KeyG)
	require.NoError(t, g.Tick(dt))
	assert.True(t, g.PhysicsDebug(), "holding the key does not toggle again")

	g.Input().KeyDown(common.KeyG)
	require.NoError(t, g.Tick(dt))
	assert.False(t, g.PhysicsDebug())
}

// bindingWindow records the callbacks BindWindow installs. Methods it does not override panic if called.
type bindingWindow struct {
	window.Window
	keyDown func(int)
	keyUp   func(int)
	button  func(int, bool)
	delta   func(float32, float32)
}

func (b *bindingWindow) SetKeyDownCallback(cb func(int))                 { b.keyDown = cb }
func (b *bindingWindow) SetKeyUpCallback(cb func(int))                   { b.keyUp = cb }
func (b *bindingWindow) SetMouseButtonCallback(cb func(int, bool))       { b.button = cb }
func (b *bindingWindow) SetMouseDeltaCallback(cb func(float32, float32)) { b.delta = cb }

func TestBindWindow(t *testing.T) {
	w := &bindingWindow{}
	in := input.NewState()
	BindWindow(w, in)

	w.keyDown(common.KeyW)
	assert.True(t, in.Held(common.KeyW))
	w.keyUp(common.KeyW)
	assert.False(t, in.Held(common.KeyW))

	w.button(common.MouseButtonRight, true)
	assert.True(t, in.JustClicked(common.MouseButtonRight))
	w.button(common.MouseButtonRight, false)
	assert.False(t, in.ButtonHeld(common.MouseButtonRight))

	w.delta(3, -2)
	w.delta(1, 1)
	assert.Equal(t, float32(4), in.DrainMouseDelta().X())
}
