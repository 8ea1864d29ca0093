package player

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-dungeon/common"
	"github.com/Carmen-Shannon/oxy-dungeon/engine/config"
	"github.com/Carmen-Shannon/oxy-dungeon/engine/events"
	"github.com/Carmen-Shannon/oxy-dungeon/engine/input"
	"github.com/Carmen-Shannon/oxy-dungeon/engine/physics"
	"github.com/Carmen-Shannon/oxy-dungeon/engine/scene"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const dt = float32(1.0 / 60.0)

type fakeViewport struct {
	w, h int
}

func (f fakeViewport) Size() (int, int) { return f.w, f.h }

type fixture struct {
	sc    scene.Scene
	world physics.World
	cfg   config.Config
	in    *input.State
	moved *events.Queue[events.PlayerMoved]
	p     Player
}

// newFixture spawns a player at the origin of a 100x100 floor at y = 0.
func newFixture(t *testing.T, options ...PlayerBuilderOption) *fixture {
	t.Helper()
	f := &fixture{
		sc:    scene.NewScene("level"),
		world: physics.NewWorld(),
		cfg:   config.Defaults(),
		in:    input.NewState(),
		moved: events.NewQueue[events.PlayerMoved](),
	}
	floorNode := f.sc.AddNode("Floor-colonly", common.IdentityTransform(), scene.NoNode)
	floor, err := physics.NewTriMesh(
		[]mgl32.Vec3{{-50, 0, -50}, {50, 0, -50}, {50, 0, 50}, {-50, 0, 50}},
		[]uint32{0, 1, 2, 0, 2, 3},
	)
	require.NoError(t, err)
	require.NoError(t, f.world.Insert(floorNode, physics.BodyFixed, floor, common.IdentityTransform()))

	options = append([]PlayerBuilderOption{WithInput(f.in), WithEvents(f.moved), WithViewport(fakeViewport{800, 600})}, options...)
	f.p, err = Spawn(f.sc, f.world, f.cfg, options...)
	require.NoError(t, err)
	return f
}

// tick runs one player update and ends the tick the way the game loop does.
func (f *fixture) tick(t *testing.T) []events.PlayerMoved {
	t.Helper()
	require.NoError(t, f.p.Update(1, dt))
	f.in.EndTick()
	return f.moved.Drain()
}

// settle lets the player touch down on the floor.
func (f *fixture) settle(t *testing.T) {
	t.Helper()
	f.tick(t)
	require.True(t, f.p.Grounded())
}

func TestSpawn(t *testing.T) {
	f := newFixture(t)

	body, ok := f.world.Body(f.p.Body())
	require.True(t, ok)
	assert.Equal(t, physics.BodyKinematicPositionBased, body.Kind)
	assert.Equal(t, physics.ColliderCapsule, body.Collider.Kind())
	assert.Equal(t, mgl32.Vec3{0, 0.25, 0}, body.Translation)

	cam, ok := f.sc.Node(f.p.Camera())
	require.True(t, ok)
	assert.Equal(t, f.p.Body(), cam.Parent)
	assert.Equal(t, f.p.Camera(), f.sc.CameraNode())

	view := f.sc.WorldTransform(f.p.Camera())
	assert.True(t, view.Translation.ApproxEqual(mgl32.Vec3{0, 1.25, 0}))
	assert.True(t, view.Forward().ApproxEqualThreshold(mgl32.Vec3{1, 0, 0}, 1e-5), "camera faces +X, got %v", view.Forward())
}

func TestUpdate_Horizontal(t *testing.T) {
	step := float32(5) * dt
	tests := []struct {
		name string
		keys []int
		want mgl32.Vec3
	}{
		{"forward", []int{common.KeyW}, mgl32.Vec3{step, 0, 0}},
		{"back", []int{common.KeyS}, mgl32.Vec3{-step, 0, 0}},
		{"right", []int{common.KeyD}, mgl32.Vec3{0, 0, step}},
		{"left", []int{common.KeyA}, mgl32.Vec3{0, 0, -step}},
		{"forward right", []int{common.KeyW, common.KeyD}, mgl32.Vec3{step / math32.Sqrt(2), 0, step / math32.Sqrt(2)}},
		{"forward back cancel", []int{common.KeyW, common.KeyS}, mgl32.Vec3{}},
		{"all four cancel", []int{common.KeyW, common.KeyA, common.KeyS, common.KeyD}, mgl32.Vec3{}},
		{"none", nil, mgl32.Vec3{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.settle(t)
			before, _ := f.world.Body(f.p.Body())

			for _, k := range tt.keys {
				f.in.KeyDown(k)
			}
			moved := f.tick(t)

			after, _ := f.world.Body(f.p.Body())
			got := common.Horizontal(after.Translation.Sub(before.Translation))
			assert.True(t, got.ApproxEqualThreshold(tt.want, 1e-5), "moved %v, want %v", got, tt.want)

			if tt.want == (mgl32.Vec3{}) {
				assert.Empty(t, moved)
				return
			}
			require.Len(t, moved, 1, "one message per tick")
			assert.True(t, moved[0].Displacement.ApproxEqualThreshold(tt.want, 1e-5))
			assert.InDelta(t, step, moved[0].Displacement.Len(), 1e-5, "diagonal input is normalized")
		})
	}
}

func TestUpdate_Jump(t *testing.T) {
	f := newFixture(t)
	f.settle(t)

	f.in.KeyDown(common.KeySpace)
	f.tick(t)
	assert.Equal(t, f.cfg.JumpVelocity, f.p.VerticalVelocity())
	assert.False(t, f.p.Grounded())

	// A second press in the air only lets gravity act.
	f.in.KeyUp(common.KeySpace)
	f.in.KeyDown(common.KeySpace)
	f.tick(t)
	assert.InDelta(t, f.cfg.JumpVelocity-f.cfg.Gravity*dt, f.p.VerticalVelocity(), 1e-5)

	body, _ := f.world.Body(f.p.Body())
	assert.Greater(t, body.Translation.Y(), float32(0.25))
}

func TestUpdate_GroundedVelocity(t *testing.T) {
	f := newFixture(t)
	assert.False(t, f.p.Grounded(), "airborne until the first move")
	f.settle(t)
	assert.Less(t, f.p.VerticalVelocity(), float32(0))

	f.tick(t)
	assert.Equal(t, GroundedVelocity, f.p.VerticalVelocity())
	assert.True(t, f.p.Grounded())

	f.tick(t)
	assert.Equal(t, GroundedVelocity, f.p.VerticalVelocity(), "stays clamped while standing")
}

func TestUpdate_Respawn(t *testing.T) {
	f := newFixture(t)
	crateNode := f.sc.AddNode("Crate-rigid", common.TransformFromXYZ(4, 0.5, 0), scene.NoNode)
	require.NoError(t, f.world.Insert(crateNode, physics.BodyDynamic, physics.NewCuboid(mgl32.Vec3{0.5, 0.5, 0.5}), common.TransformFromXYZ(4, 0.5, 0)))
	require.NoError(t, f.world.SetTranslation(crateNode, mgl32.Vec3{10, 0.5, 10}))

	require.NoError(t, f.world.SetTranslation(f.p.Body(), mgl32.Vec3{5, -20, 5}))
	f.in.MouseMoved(200, 50)
	f.tick(t)

	body, _ := f.world.Body(f.p.Body())
	want := f.cfg.SpawnPosition.Add(mgl32.Vec3{0, f.cfg.PlayerCapsuleRadius, 0})
	assert.Equal(t, want, body.Translation)
	assert.Equal(t, float32(0), f.p.VerticalVelocity())
	assert.False(t, f.p.Grounded())
	assert.True(t, f.sc.WorldTransform(f.p.Body()).Translation.ApproxEqual(want))
	assert.True(t, f.sc.WorldTransform(f.p.Camera()).Forward().ApproxEqualThreshold(mgl32.Vec3{1, 0, 0}, 1e-5))

	crate, _ := f.world.Body(crateNode)
	assert.Equal(t, mgl32.Vec3{10, 0.5, 10}, crate.Translation, "other bodies are not reset")
}

func TestUpdate_StaysAboveFallLevel(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.world.SetTranslation(f.p.Body(), mgl32.Vec3{0, -5, 0}))
	f.tick(t)

	body, _ := f.world.Body(f.p.Body())
	assert.Less(t, body.Translation.Y(), float32(-5), "still falling, not yet below the fall level")
}

func TestUpdate_Look(t *testing.T) {
	f := newFixture(t)

	f.in.MouseMoved(100, 0)
	f.tick(t)
	// 0.00012 * 600 pixels * 100 = 7.2 degrees.
	assert.InDelta(t, -math32.Pi/2-mgl32.DegToRad(7.2), f.p.Yaw(), 1e-5)
	assert.Equal(t, float32(0), f.p.Pitch())

	f.in.MouseMoved(0, 1e6)
	f.tick(t)
	assert.InDelta(t, -MaxPitch, f.p.Pitch(), 1e-6)

	f.in.MouseMoved(0, -2e6)
	f.tick(t)
	assert.InDelta(t, MaxPitch, f.p.Pitch(), 1e-6)

	view := f.sc.WorldTransform(f.p.Camera())
	right := view.Rotation.Rotate(mgl32.Vec3{1, 0, 0})
	assert.InDelta(t, 0, right.Y(), 1e-5, "look never rolls the camera")
}

func TestUpdate_LookIgnoresMotionFromEarlierTicks(t *testing.T) {
	f := newFixture(t)

	// Ticks that end without a player update, as while the level is still loading.
	for range 30 {
		f.in.MouseMoved(20, 0)
		f.in.EndTick()
	}
	f.tick(t)
	assert.Equal(t, float32(-math32.Pi/2), f.p.Yaw())
	assert.Equal(t, float32(0), f.p.Pitch())
}

func TestUpdate_LookWithoutWindow(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	f := newFixture(t, WithViewport(nil), WithLogger(zap.New(core)))

	f.in.MouseMoved(100, 100)
	f.tick(t)
	assert.Equal(t, float32(-math32.Pi/2), f.p.Yaw())
	assert.Equal(t, 1, logs.FilterMessage("no primary window, cannot look around").Len())

	f.tick(t)
	assert.Equal(t, 1, logs.Len(), "no motion, no warning")
}

func TestUpdate_ForcePush(t *testing.T) {
	tests := []struct {
		name    string
		kind    physics.BodyKind
		x       float32
		wantVel mgl32.Vec3
	}{
		{"dynamic in reach", physics.BodyDynamic, 3, mgl32.Vec3{-3, 0, 0}},
		{"dynamic out of reach", physics.BodyDynamic, 10, mgl32.Vec3{}},
		{"fixed in reach", physics.BodyFixed, 3, mgl32.Vec3{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			target := f.sc.AddNode("Crate-rigid", common.TransformFromXYZ(tt.x, 1.25, 0), scene.NoNode)
			require.NoError(t, f.world.Insert(target, tt.kind, physics.NewCuboid(mgl32.Vec3{0.5, 0.5, 0.5}), common.TransformFromXYZ(tt.x, 1.25, 0)))

			f.in.MouseDown(common.MouseButtonRight)
			f.tick(t)

			body, _ := f.world.Body(target)
			assert.True(t, body.Velocity.ApproxEqualThreshold(tt.wantVel, 1e-4), "velocity %v", body.Velocity)

			// Holding the button does not push again.
			f.tick(t)
			again, _ := f.world.Body(target)
			assert.Equal(t, body.Velocity, again.Velocity)
		})
	}
}
