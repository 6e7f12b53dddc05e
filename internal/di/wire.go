//go:build wireinject
// +build wireinject

package di

import (
	"BtcPulse/pkg/config"
	"BtcPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Outbound infrastructure
		ProvideHTTPClient,
		ProvideRateLimiter,

		// Source clients
		ProvideMarketSource,
		ProvideDerivativesSource,
		ProvideNewsSource,
		ProvidePredictionSource,
		ProvidePriceStream,

		// Decision engine and published state
		ProvideEngine,
		ProvideSnapshotCache,
		ProvideHistoryRing,

		// Use cases
		ProvideRefreshCoordinator,
		ProvideScheduler,

		// HTTP surface and application
		ProvideHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}
