package game

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-dungeon/common"
	"github.com/Carmen-Shannon/oxy-dungeon/engine/app_state"
	"github.com/Carmen-Shannon/oxy-dungeon/engine/asset_server"
	"github.com/Carmen-Shannon/oxy-dungeon/engine/camera"
	"github.com/Carmen-Shannon/oxy-dungeon/engine/collider_synth"
	"github.com/Carmen-Shannon/oxy-dungeon/engine/config"
	"github.com/Carmen-Shannon/oxy-dungeon/engine/events"
	"github.com/Carmen-Shannon/oxy-dungeon/engine/input"
	"github.com/Carmen-Shannon/oxy-dungeon/engine/loader"
	"github.com/Carmen-Shannon/oxy-dungeon/engine/physics"
	"github.com/Carmen-Shannon/oxy-dungeon/engine/player"
	"github.com/Carmen-Shannon/oxy-dungeon/engine/scene"
	"github.com/Carmen-Shannon/oxy-dungeon/engine/scene_fixup"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// ErrAssetLoadFailed is returned from Tick when any asset in the loading set fails. It is fatal.
var ErrAssetLoadFailed = errors.New("asset load failed")

// errUnexpectedAsset is recorded when a decoder hands back a value of the wrong type.
var errUnexpectedAsset = errors.New("unexpected asset type")

const (
	// DefaultScenePath is the level scene loaded when no path is given.
	DefaultScenePath = "assets/dungeon.gltf"

	// DefaultTitle is the window title shown once the instructions are dismissed.
	DefaultTitle = "Oxy Dungeon"
)

// Window is the part of the platform window the game drives directly.
// Input reaches the game through the input.State bound with BindWindow instead.
type Window interface {
	Size() (width, height int)
	SetTitle(title string)
	SetCursorGrabbed(grabbed bool)
	CursorGrabbed() bool
}

// Game sequences asset loading, scene setup and play, and runs one simulation tick at a time.
// It belongs to the simulation thread and is not safe for concurrent use.
type Game interface {
	// Tick advances the game by one fixed step.
	// Within a tick the order is: input sampling, desired motion, physics resolution, post-resolution sync,
	// event emission, then the end-of-tick input and event reset.
	//
	// Parameters:
	//   - dt: the tick duration in seconds
	//
	// Returns:
	//   - error: an error wrapping ErrAssetLoadFailed when loading fails, or a physics error from the player
	Tick(dt float32) error

	// State returns the current application state.
	State() app_state.AppState

	// Config returns the applied configuration, or Defaults before loading completes.
	Config() config.Config

	// Scene returns the loaded level, or nil while assets are loading.
	Scene() scene.Scene

	// World returns the physics world, or nil while assets are loading.
	World() physics.World

	// Player returns the player, or nil before scene setup.
	Player() player.Player

	// Input returns the input state window callbacks should write into.
	Input() *input.State

	// PhysicsDebug reports whether physics debug logging is on.
	PhysicsDebug() bool

	// Close stops the asset server if the game created it.
	Close()
}

type game struct {
	logger *zap.Logger

	assets     asset_server.AssetServer
	ownsAssets bool
	loader     loader.Loader
	configPath string
	scenePath  string

	window       Window
	title        string
	onSceneReady func(scene.Scene)

	machine      *app_state.Machine
	loads        *asset_server.LoadSet
	configHandle asset_server.Handle
	sceneHandle  asset_server.Handle

	cfg       config.Config
	sc        scene.Scene
	world     physics.World
	synth     collider_synth.Synthesizer
	fixup     scene_fixup.Fixup
	synthOnce app_state.Once
	fixupOnce app_state.Once

	pl           player.Player
	in           *input.State
	moved        *events.Queue[events.PlayerMoved]
	instructions *events.Instructions
	physicsDebug bool
}

var _ Game = &game{}

// NewGame creates a Game in LoadingAssets. The config and scene loads are queued on the first Tick.
//
// Parameters:
//   - options: variadic list of GameBuilderOption functions
//
// Returns:
//   - Game: the game, ready to tick
func NewGame(options ...GameBuilderOption) Game {
	g := &game{
		logger:     zap.NewNop(),
		configPath: config.DefaultPath,
		scenePath:  DefaultScenePath,
		title:      DefaultTitle,
		machine:    app_state.NewMachine(),
		loads:      asset_server.NewLoadSet(),
		cfg:        config.Defaults(),
		in:         input.NewState(),
		moved:      events.NewQueue[events.PlayerMoved](),
	}
	for _, opt := range options {
		opt(g)
	}
	if g.assets == nil {
		g.assets = asset_server.NewAssetServer(asset_server.WithLogger(g.logger))
		g.ownsAssets = true
	}
	if g.loader == nil {
		g.loader = loader.NewLoader(loader.WithLogger(g.logger))
	}
	g.synth = collider_synth.NewSynthesizer(collider_synth.WithLogger(g.logger))
	g.fixup = scene_fixup.NewFixup(scene_fixup.WithLogger(g.logger))
	return g
}

func (g *game) State() app_state.AppState { return g.machine.State() }
func (g *game) Config() config.Config     { return g.cfg }
func (g *game) Scene() scene.Scene        { return g.sc }
func (g *game) World() physics.World      { return g.world }
func (g *game) Player() player.Player     { return g.pl }
func (g *game) Input() *input.State       { return g.in }
func (g *game) PhysicsDebug() bool        { return g.physicsDebug }

func (g *game) Close() {
	if g.ownsAssets {
		g.assets.Close()
	}
}

func (g *game) Tick(dt float32) error {
	g.machine.BeginTick()
	defer g.endTick()

	if g.machine.EnteredThisTick() && g.machine.State() == app_state.LoadingAssets {
		g.queueLoads()
	}
	g.debugKeys()

	switch g.machine.State() {
	case app_state.LoadingAssets:
		return g.pollLoads()
	case app_state.SettingUpScene:
		return g.awaitSetup()
	case app_state.InGame:
		return g.play(dt)
	}
	return nil
}

// queueLoads submits the config and the scene to the asset server and registers both in the loading set.
func (g *game) queueLoads() {
	g.configHandle = g.assets.Load(g.configPath, func(path string) (any, error) {
		return config.Load(path)
	})
	g.sceneHandle = g.assets.Load(g.scenePath, g.loader.Decode)

	for _, h := range []asset_server.Handle{g.configHandle, g.sceneHandle} {
		if err := g.loads.Register(h); err != nil {
			g.logger.Error("unable to track asset", zap.String("path", h.Path()), zap.Error(err))
		}
	}
	g.logger.Info("loading assets", zap.Int("assets", g.loads.Len()))
}

// pollLoads checks the loading set once without blocking.
func (g *game) pollLoads() error {
	switch g.loads.AggregateStatus(g.assets) {
	case asset_server.StatusFailed:
		failed := g.loads.Failed(g.assets)
		paths := make([]string, len(failed))
		for i, h := range failed {
			paths[i] = h.Path()
		}
		g.logger.Error("at least one resource failed to load", zap.Strings("paths", paths))
		_, err := g.assets.Value(failed[0])
		return fmt.Errorf("%w: %w", ErrAssetLoadFailed, err)

	case asset_server.StatusLoaded:
		g.logger.Info("resources loaded, setting up scene")
		if err := g.leaveLoading(); err != nil {
			return fmt.Errorf("%w: %w", ErrAssetLoadFailed, err)
		}
		return g.advance(app_state.SettingUpScene)
	}
	return nil
}

// leaveLoading applies the loaded config and takes ownership of the loaded scene.
func (g *game) leaveLoading() error {
	g.loads.Close()

	v, err := g.assets.Value(g.configHandle)
	if err != nil {
		return err
	}
	cfg, ok := v.(config.Config)
	if !ok {
		return fmt.Errorf("%s: %w %T", g.configHandle.Path(), errUnexpectedAsset, v)
	}

	v, err = g.assets.Value(g.sceneHandle)
	if err != nil {
		return err
	}
	sc, ok := v.(scene.Scene)
	if !ok {
		return fmt.Errorf("%s: %w %T", g.sceneHandle.Path(), errUnexpectedAsset, v)
	}

	g.cfg = cfg
	g.sc = sc
	g.world = physics.NewWorld(
		physics.WithGravity(mgl32.Vec3{0, -cfg.Gravity, 0}),
		physics.WithLogger(g.logger),
	)
	g.instructions = events.NewInstructions(cfg.Instructions, g.title)
	return nil
}

// awaitSetup moves to InGame once collider synthesis and lighting fixup have both run.
func (g *game) awaitSetup() error {
	next, changed := app_state.Transition(g.machine.State(), false, g.synthOnce.Done() && g.fixupOnce.Done())
	if !changed {
		return nil
	}
	return g.advance(next)
}

func (g *game) advance(next app_state.AppState) error {
	if err := g.machine.Advance(next); err != nil {
		return err
	}
	g.logger.Info("application state changed", zap.Stringer("state", next), zap.Uint64("tick", g.machine.Tick()))
	return g.enter(next)
}

// enter runs the one-shot work for a state on the tick it is entered.
func (g *game) enter(state app_state.AppState) error {
	switch state {
	case app_state.SettingUpScene:
		if err := g.spawnPlayer(); err != nil {
			return err
		}
		g.synthOnce.Do(func() {
			r := g.synth.Run(g.sc, g.world)
			g.logger.Info("converted scene physics",
				zap.Int("collision_only", r.ColliderOnly),
				zap.Int("rigid", r.Rigid),
				zap.Int("skipped", r.Skipped),
			)
		})
		g.fixupOnce.Do(func() {
			g.fixup.Run(g.sc, g.cfg)
		})
		if g.onSceneReady != nil {
			g.onSceneReady(g.sc)
		}

	case app_state.InGame:
		if g.window != nil {
			g.window.SetCursorGrabbed(true)
		}
		g.instructions.Show(g.titleSetter())
	}
	return nil
}

func (g *game) spawnPlayer() error {
	aspect := float32(0)
	if g.window != nil {
		if w, h := g.window.Size(); w > 0 && h > 0 {
			aspect = float32(w) / float32(h)
		}
	}
	options := []player.PlayerBuilderOption{
		player.WithInput(g.in),
		player.WithEvents(g.moved),
		player.WithCamera(camera.NewCamera(camera.WithAspect(aspect))),
		player.WithLogger(g.logger),
	}
	if g.window != nil {
		options = append(options, player.WithViewport(g.window))
	}

	pl, err := player.Spawn(g.sc, g.world, g.cfg, options...)
	if err != nil {
		return err
	}
	g.pl = pl
	return nil
}

// play runs one in-game tick: the player's kinematic move, the dynamic step and the sync back into the scene.
func (g *game) play(dt float32) error {
	if err := g.pl.Update(g.machine.Tick(), dt); err != nil {
		return err
	}

	g.world.Step(dt)
	g.syncBodies()

	g.instructions.Update(g.titleSetter(), g.moved.Read())
	return nil
}

// syncBodies copies every dynamic body's resolved position onto its scene node.
func (g *game) syncBodies() {
	for _, b := range g.world.Bodies() {
		if b.Kind == physics.BodyDynamic {
			g.sc.SetWorldTranslation(b.Node, b.Translation)
		}
	}
}

// debugKeys handles the cursor grab and physics debug toggles. Both work in every state.
func (g *game) debugKeys() {
	if g.in.JustPressed(common.KeyGraveAccent) {
		if g.window == nil {
			g.logger.Warn("no primary window when trying to grab cursor")
		} else {
			g.window.SetCursorGrabbed(!g.window.CursorGrabbed())
		}
	}

	if g.in.JustPressed(common.KeyG) {
		g.physicsDebug = !g.physicsDebug
		fields := []zap.Field{zap.Bool("enabled", g.physicsDebug)}
		if g.world != nil {
			fields = append(fields, colliderCounts(g.world)...)
		}
		if g.sc != nil {
			fields = append(fields, zap.Int("meshes_in_view", meshesInView(g.sc)))
		}
		g.logger.Info("physics debug toggled", fields...)
	}
}

func (g *game) endTick() {
	if g.physicsDebug && g.world != nil && g.machine.State() == app_state.InGame {
		g.logger.Debug("physics", colliderCounts(g.world)...)
	}
	g.in.EndTick()
	g.moved.Clear()
}

// titleSetter returns the window as a title target, nil when headless.
func (g *game) titleSetter() events.TitleSetter {
	if g.window == nil {
		return nil
	}
	return g.window
}

// meshesInView counts the visible mesh nodes whose bounds reach into the scene camera's frustum.
func meshesInView(sc scene.Scene) int {
	cam := sc.Camera()
	if cam == nil {
		return 0
	}
	frustum := cam.Frustum()

	var meshed []scene.Node
	sc.Walk(func(n scene.Node) bool {
		if n.HasMesh() {
			meshed = append(meshed, n)
		}
		return true
	})

	count := 0
	for _, n := range meshed {
		if !sc.IsVisible(n.ID) {
			continue
		}
		mesh, ok := sc.Mesh(*n.Mesh)
		if !ok {
			continue
		}
		box := common.TransformAABB(mesh.AABB(), sc.WorldTransform(n.ID).Matrix())
		if frustum.IntersectsAABB(box) {
			count++
		}
	}
	return count
}

// colliderCounts summarizes the world's bodies by kind.
func colliderCounts(w physics.World) []zap.Field {
	counts := make(map[physics.BodyKind]int)
	for _, b := range w.Bodies() {
		counts[b.Kind]++
	}
	return []zap.Field{
		zap.Int("bodies", w.Len()),
		zap.Int("fixed", counts[physics.BodyFixed]),
		zap.Int("dynamic", counts[physics.BodyDynamic]),
		zap.Int("kinematic", counts[physics.BodyKinematicPositionBased]),
	}
}
