package collider_synth

import (
	"github.com/Carmen-Shannon/oxy-dungeon/engine/logging"
	"go.uber.org/zap"
)

// SynthesizerBuilderOption is a functional option for configuring a Synthesizer via NewSynthesizer.
type SynthesizerBuilderOption func(*synthesizer)

// WithLogger sets the logger that receives per-node warnings and the pass summary.
//
// Parameters:
//   - l: the logger; nil disables logging
//
// Returns:
//   - SynthesizerBuilderOption: option function to apply
func WithLogger(l *zap.Logger) SynthesizerBuilderOption {
	return func(s *synthesizer) {
		s.logger = logging.OrNop(l).Named("colliders")
	}
}
