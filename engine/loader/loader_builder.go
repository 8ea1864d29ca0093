package loader

import (
	"github.com/Carmen-Shannon/oxy-dungeon/engine/logging"
	"github.com/Carmen-Shannon/oxy-dungeon/engine/scene"

	"go.uber.org/zap"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithLogger sets the logger that receives warnings about skipped scene content.
//
// Parameters:
//   - l: the logger, nil for none
//
// Returns:
//   - LoaderBuilderOption: a function that applies the logger option to a loader
func WithLogger(l *zap.Logger) LoaderBuilderOption {
	return func(ld *loader) {
		ld.logger = logging.OrNop(l).Named("loader")
	}
}

// WithScene is an option builder that pre-populates the scene cache.
//
// Parameters:
//   - key: the cache key for the scene
//   - sc: the scene to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the scene option to a loader
func WithScene(key string, sc scene.Scene) LoaderBuilderOption {
	return func(l *loader) {
		l.sceneCache[key] = sc
	}
}
