package player

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-dungeon/common"
	"github.com/Carmen-Shannon/oxy-dungeon/engine/camera"
	"github.com/Carmen-Shannon/oxy-dungeon/engine/config"
	"github.com/Carmen-Shannon/oxy-dungeon/engine/events"
	"github.com/Carmen-Shannon/oxy-dungeon/engine/input"
	"github.com/Carmen-Shannon/oxy-dungeon/engine/physics"
	"github.com/Carmen-Shannon/oxy-dungeon/engine/scene"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

const (
	// GroundedVelocity is the vertical velocity held while standing, so the body keeps pressing into the ground
	// and the solver keeps reporting contact.
	GroundedVelocity float32 = -0.1

	// MaxPitch keeps the camera just short of straight up or down.
	MaxPitch = camera.DefaultMaxPitch

	// spawnYaw turns the camera from -Z to face +X.
	spawnYaw = -math32.Pi / 2
)

// Viewport reports the size of the window the player looks through.
type Viewport interface {
	Size() (width, height int)
}

// Player is a first-person kinematic character: a capsule body with a camera attached as a child node.
// It is created when the scene is set up and updated once per tick while in game.
type Player interface {
	// Body returns the node that carries the capsule body.
	Body() scene.NodeID

	// Camera returns the camera node, a child of Body.
	Camera() scene.NodeID

	// Grounded reports whether the last move ended on the ground.
	Grounded() bool

	// VerticalVelocity returns the current vertical speed in meters per second.
	VerticalVelocity() float32

	// Yaw returns the camera's rotation about world up, in radians.
	Yaw() float32

	// Pitch returns the camera's rotation about its local right axis, in radians.
	Pitch() float32

	// Update runs one tick of movement, look, force push and respawn, in that order, and emits
	// a PlayerMoved message when there was horizontal input.
	//
	// Parameters:
	//   - tick: the tick number, stamped on emitted messages
	//   - dt: the tick duration in seconds
	//
	// Returns:
	//   - error: error if the physics world rejects a query for the player's own body
	Update(tick uint64, dt float32) error

	// Respawn puts the player back at the spawn point with zero vertical velocity.
	// Other bodies in the world are left where they are.
	//
	// Returns:
	//   - error: error if the body cannot be moved
	Respawn() error
}

type player struct {
	sc     scene.Scene
	world  physics.World
	cfg    config.Config
	logger *zap.Logger

	in       *input.State
	moved    *events.Queue[events.PlayerMoved]
	viewport Viewport
	cam      camera.Camera
	look     camera.CameraController

	body        scene.NodeID
	cameraNode  scene.NodeID
	spawnBody   common.Transform
	spawnCamera common.Transform

	verticalVelocity float32
	grounded         bool
}

var _ Player = &player{}

// Spawn creates the player's capsule body at the configured spawn point, resting on it, with a camera
// child at camera height facing +X. The camera becomes the scene's camera.
//
// Parameters:
//   - sc: the scene to add the player nodes to
//   - w: the physics world to add the body to
//   - cfg: the applied configuration
//   - options: variadic list of PlayerBuilderOption functions
//
// Returns:
//   - Player: the spawned player
//   - error: error if the body cannot be inserted
func Spawn(sc scene.Scene, w physics.World, cfg config.Config, options ...PlayerBuilderOption) (Player, error) {
	p := &player{
		sc:     sc,
		world:  w,
		cfg:    cfg,
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		opt(p)
	}
	if p.in == nil {
		p.in = input.NewState()
	}
	if p.moved == nil {
		p.moved = events.NewQueue[events.PlayerMoved]()
	}
	if p.cam == nil {
		p.cam = camera.NewCamera()
	}
	p.look = camera.NewCameraController(
		camera.WithYaw(spawnYaw),
		camera.WithPitchBounds(-MaxPitch, MaxPitch),
		camera.WithMouseSensitivity(cfg.MouseSensitivity),
	)

	p.spawnBody = common.IdentityTransform()
	p.spawnBody.Translation = cfg.SpawnPosition.Add(mgl32.Vec3{0, cfg.PlayerCapsuleRadius, 0})
	p.spawnCamera = common.TransformFromXYZ(0, cfg.PlayerCameraHeight, 0)
	p.spawnCamera.Rotation = p.look.Rotation()

	p.body = sc.AddNode("Player", p.spawnBody, scene.NoNode)
	p.cameraNode = sc.AddNode("PlayerCamera", p.spawnCamera, p.body)

	capsule := physics.NewCapsule(mgl32.Vec3{}, mgl32.Vec3{0, cfg.PlayerCapsuleCylinderHeight, 0}, cfg.PlayerCapsuleRadius)
	if err := w.Insert(p.body, physics.BodyKinematicPositionBased, capsule, p.spawnBody); err != nil {
		return nil, fmt.Errorf("spawn player: %w", err)
	}
	sc.SetCamera(p.cameraNode, p.cam)
	p.cam.Update(sc.WorldTransform(p.cameraNode))

	p.logger.Info("player spawned", zap.Float32s("position", p.spawnBody.Translation[:]))
	return p, nil
}

func (p *player) Body() scene.NodeID        { return p.body }
func (p *player) Camera() scene.NodeID      { return p.cameraNode }
func (p *player) Grounded() bool            { return p.grounded }
func (p *player) VerticalVelocity() float32 { return p.verticalVelocity }
func (p *player) Yaw() float32              { return p.look.Yaw() }
func (p *player) Pitch() float32            { return p.look.Pitch() }

func (p *player) Update(tick uint64, dt float32) error {
	horizontal := p.horizontal(dt)
	jump := p.in.JustPressed(common.KeySpace)

	switch {
	case jump && p.grounded:
		p.verticalVelocity = p.cfg.JumpVelocity
		p.grounded = false
	case p.grounded && p.verticalVelocity < 0:
		p.verticalVelocity = GroundedVelocity
	default:
		p.verticalVelocity -= p.cfg.Gravity * dt
	}

	out, err := p.world.MoveKinematic(p.body, horizontal.Add(mgl32.Vec3{0, p.verticalVelocity * dt, 0}))
	if err != nil {
		return fmt.Errorf("move player: %w", err)
	}
	p.grounded = out.Grounded
	p.sc.SetWorldTranslation(p.body, out.Translation)

	p.turn()

	if p.in.JustClicked(common.MouseButtonRight) {
		if err := p.forcePush(); err != nil {
			return err
		}
	}

	if out.Translation.Y() < p.cfg.FallOffLevelY {
		if err := p.Respawn(); err != nil {
			return err
		}
	}

	if horizontal != (mgl32.Vec3{}) {
		p.moved.Push(events.PlayerMoved{Tick: tick, Displacement: horizontal})
	}

	p.cam.Update(p.sc.WorldTransform(p.cameraNode))
	return nil
}

func (p *player) Respawn() error {
	p.verticalVelocity = 0
	p.grounded = false
	if err := p.world.SetTranslation(p.body, p.spawnBody.Translation); err != nil {
		return fmt.Errorf("respawn player: %w", err)
	}
	p.sc.SetTransform(p.body, p.spawnBody)
	p.sc.SetTransform(p.cameraNode, p.spawnCamera)
	p.look.SetYaw(spawnYaw)
	p.look.SetPitch(0)
	p.logger.Info("player fell off the level, respawning")
	return nil
}

// horizontal returns this tick's desired horizontal displacement from the held movement keys.
func (p *player) horizontal(dt float32) mgl32.Vec3 {
	forward, right := p.look.Forward(), p.look.Right()

	var dir mgl32.Vec3
	if p.in.Held(common.KeyW) {
		dir = dir.Add(forward)
	}
	if p.in.Held(common.KeyS) {
		dir = dir.Sub(forward)
	}
	if p.in.Held(common.KeyD) {
		dir = dir.Add(right)
	}
	if p.in.Held(common.KeyA) {
		dir = dir.Sub(right)
	}
	return common.NormalizeOrZero(dir).Mul(p.cfg.PlayerSpeed * dt)
}

// turn applies the pointer motion since the last tick. Motion is scaled by the smaller window
// dimension so the same physical motion turns the same amount at any resolution.
func (p *player) turn() {
	delta := p.in.DrainMouseDelta()
	if delta == (mgl32.Vec2{}) {
		return
	}
	if p.viewport == nil {
		p.logger.Warn("no primary window, cannot look around")
		return
	}
	w, h := p.viewport.Size()
	delta = delta.Mul(float32(min(w, h)))
	p.look.Look(delta.X(), delta.Y())

	t := p.spawnCamera
	if n, ok := p.sc.Node(p.cameraNode); ok {
		t = n.Transform
	}
	t.Rotation = p.look.Rotation()
	p.sc.SetTransform(p.cameraNode, t)
}

// forcePush casts a ray along the camera's view and gives a struck dynamic body an impulse directed back
// along the ray.
func (p *player) forcePush() error {
	view := p.sc.WorldTransform(p.cameraNode)
	dir := view.Forward()
	hit, ok := p.world.CastRay(view.Translation, dir, p.cfg.PlayerForcePushMaxDistance, p.body)
	if !ok {
		return nil
	}
	if hit.Kind != physics.BodyDynamic {
		p.logger.Debug("force push hit a non-dynamic body", zap.Int("node", int(hit.Node)))
		return nil
	}
	if err := p.world.ApplyImpulse(hit.Node, dir.Mul(-p.cfg.PlayerForcePushVelocity)); err != nil {
		return fmt.Errorf("force push: %w", err)
	}
	p.logger.Debug("force push", zap.Int("node", int(hit.Node)), zap.Float32("distance", hit.Distance))
	return nil
}
