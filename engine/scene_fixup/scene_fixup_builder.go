package scene_fixup

import (
	"github.com/Carmen-Shannon/oxy-dungeon/engine/logging"
	"go.uber.org/zap"
)

// FixupBuilderOption is a functional option for configuring a Fixup via NewFixup.
type FixupBuilderOption func(*fixup)

// WithLogger sets the logger for the pass summary.
//
// Parameters:
//   - l: the logger; nil disables logging
//
// Returns:
//   - FixupBuilderOption: option function to apply
func WithLogger(l *zap.Logger) FixupBuilderOption {
	return func(f *fixup) {
		f.logger = logging.OrNop(l).Named("fixup")
	}
}
