package asset_server

import (
	"github.com/Carmen-Shannon/oxy-dungeon/engine/logging"
	"go.uber.org/zap"
)

// AssetServerBuilderOption is a functional option for configuring an AssetServer via NewAssetServer.
type AssetServerBuilderOption func(*assetServer)

// WithWorkers sets the number of decode workers.
//
// Parameters:
//   - n: the worker count (minimum 1)
//
// Returns:
//   - AssetServerBuilderOption: option function to apply
func WithWorkers(n int) AssetServerBuilderOption {
	return func(s *assetServer) {
		s.workers = max(n, 1)
	}
}

// WithQueueSize sets how many loads can wait for a worker before Load blocks.
//
// Parameters:
//   - n: the queue capacity
//
// Returns:
//   - AssetServerBuilderOption: option function to apply
func WithQueueSize(n int) AssetServerBuilderOption {
	return func(s *assetServer) {
		s.queueSize = max(n, 1)
	}
}

// WithLogger sets the logger for load results.
//
// Parameters:
//   - l: the logger; nil disables logging
//
// Returns:
//   - AssetServerBuilderOption: option function to apply
func WithLogger(l *zap.Logger) AssetServerBuilderOption {
	return func(s *assetServer) {
		s.logger = logging.OrNop(l).Named("assets")
	}
}
