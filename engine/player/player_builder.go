package player

import (
	"github.com/Carmen-Shannon/oxy-dungeon/engine/camera"
	"github.com/Carmen-Shannon/oxy-dungeon/engine/events"
	"github.com/Carmen-Shannon/oxy-dungeon/engine/input"
	"github.com/Carmen-Shannon/oxy-dungeon/engine/logging"
	"go.uber.org/zap"
)

// PlayerBuilderOption is a functional option for configuring a Player via Spawn.
type PlayerBuilderOption func(*player)

// WithInput sets the input state the player reads each tick. Without it the player never moves on its own.
//
// Parameters:
//   - in: the shared input state
//
// Returns:
//   - PlayerBuilderOption: option function to apply
func WithInput(in *input.State) PlayerBuilderOption {
	return func(p *player) {
		p.in = in
	}
}

// WithEvents sets the queue PlayerMoved messages are pushed onto.
//
// Parameters:
//   - q: the tick's movement queue
//
// Returns:
//   - PlayerBuilderOption: option function to apply
func WithEvents(q *events.Queue[events.PlayerMoved]) PlayerBuilderOption {
	return func(p *player) {
		p.moved = q
	}
}

// WithViewport sets the window used to scale mouse look. Without it, look input is ignored with a warning.
//
// Parameters:
//   - v: the window
//
// Returns:
//   - PlayerBuilderOption: option function to apply
func WithViewport(v Viewport) PlayerBuilderOption {
	return func(p *player) {
		p.viewport = v
	}
}

// WithCamera sets the camera attached to the player's camera node.
//
// Parameters:
//   - c: the camera
//
// Returns:
//   - PlayerBuilderOption: option function to apply
func WithCamera(c camera.Camera) PlayerBuilderOption {
	return func(p *player) {
		p.cam = c
	}
}

// WithLogger sets the player's logger.
//
// Parameters:
//   - l: the logger; nil disables logging
//
// Returns:
//   - PlayerBuilderOption: option function to apply
func WithLogger(l *zap.Logger) PlayerBuilderOption {
	return func(p *player) {
		p.logger = logging.OrNop(l).Named("player")
	}
}
