package physics

import (
	"github.com/Carmen-Shannon/oxy-dungeon/engine/logging"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// WorldBuilderOption is a functional option for configuring a World via NewWorld.
type WorldBuilderOption func(*world)

// WithGravity sets the gravity acceleration applied to dynamic bodies.
//
// Parameters:
//   - g: the acceleration vector, e.g. (0, -9.81, 0)
//
// Returns:
//   - WorldBuilderOption: option function to apply
func WithGravity(g mgl32.Vec3) WorldBuilderOption {
	return func(w *world) {
		w.gravity = g
	}
}

// WithGroundFriction sets how quickly grounded dynamic bodies lose horizontal speed, per second.
//
// Parameters:
//   - f: the fraction of horizontal velocity removed per second of ground contact
//
// Returns:
//   - WorldBuilderOption: option function to apply
func WithGroundFriction(f float32) WorldBuilderOption {
	return func(w *world) {
		if f >= 0 {
			w.friction = f
		}
	}
}

// WithDefaultMass sets the mass given to every inserted body.
//
// Parameters:
//   - m: the mass; non-positive values are ignored
//
// Returns:
//   - WorldBuilderOption: option function to apply
func WithDefaultMass(m float32) WorldBuilderOption {
	return func(w *world) {
		if m > 0 {
			w.mass = m
		}
	}
}

// WithLogger sets the logger used for body lifecycle messages.
//
// Parameters:
//   - l: the logger; nil disables logging
//
// Returns:
//   - WorldBuilderOption: option function to apply
func WithLogger(l *zap.Logger) WorldBuilderOption {
	return func(w *world) {
		w.logger = logging.OrNop(l).Named("physics")
	}
}
