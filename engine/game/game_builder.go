package game

import (
	"github.com/Carmen-Shannon/oxy-dungeon/engine/asset_server"
	"github.com/Carmen-Shannon/oxy-dungeon/engine/loader"
	"github.com/Carmen-Shannon/oxy-dungeon/engine/logging"
	"github.com/Carmen-Shannon/oxy-dungeon/engine/scene"
	"go.uber.org/zap"
)

// GameBuilderOption is a functional option for configuring a Game.
type GameBuilderOption func(*game)

// WithLogger sets the logger shared by the game and every subsystem it creates.
//
// Parameters:
//   - l: the logger, nil for none
//
// Returns:
//   - GameBuilderOption: option function to apply
func WithLogger(l *zap.Logger) GameBuilderOption {
	return func(g *game) {
		g.logger = logging.OrNop(l).Named("game")
	}
}

// WithAssetServer sets the asset server loads are queued on. The game does not close a server it was given.
//
// Parameters:
//   - s: the asset server
//
// Returns:
//   - GameBuilderOption: option function to apply
func WithAssetServer(s asset_server.AssetServer) GameBuilderOption {
	return func(g *game) {
		g.assets = s
	}
}

// WithLoader sets the scene loader.
func WithLoader(l loader.Loader) GameBuilderOption {
	return func(g *game) {
		g.loader = l
	}
}

// WithConfigPath sets the config file to load.
//
// Parameters:
//   - path: the config path (default config.DefaultPath)
//
// Returns:
//   - GameBuilderOption: option function to apply
func WithConfigPath(path string) GameBuilderOption {
	return func(g *game) {
		if path != "" {
			g.configPath = path
		}
	}
}

// WithScenePath sets the level scene to load.
//
// Parameters:
//   - path: a .gltf or .glb path, optionally with a .zst suffix (default DefaultScenePath)
//
// Returns:
//   - GameBuilderOption: option function to apply
func WithScenePath(path string) GameBuilderOption {
	return func(g *game) {
		if path != "" {
			g.scenePath = path
		}
	}
}

// WithWindow sets the window the game grabs the cursor on and shows instructions in.
// Leave it unset to run headless; a typed nil pointer must not be passed.
//
// Parameters:
//   - w: the window
//
// Returns:
//   - GameBuilderOption: option function to apply
func WithWindow(w Window) GameBuilderOption {
	return func(g *game) {
		g.window = w
	}
}

// WithTitle sets the base window title restored after the instructions are dismissed.
func WithTitle(title string) GameBuilderOption {
	return func(g *game) {
		g.title = title
	}
}

// WithSceneReady sets a callback run once the loaded scene has been set up, typically to hand it to the engine.
//
// Parameters:
//   - fn: the callback
//
// Returns:
//   - GameBuilderOption: option function to apply
func WithSceneReady(fn func(scene.Scene)) GameBuilderOption {
	return func(g *game) {
		g.onSceneReady = fn
	}
}
