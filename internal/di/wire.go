//go:build wireinject
// +build wireinject

package di

import (
	"github.com/jomarcello/Signal-Processor/pkg/config"
	"github.com/jomarcello/Signal-Processor/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Observability
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideKafkaProducer,
		ProvideCacheService,

		// Repositories
		ProvideAuditTrail,
		ProvideMatchCache,

		// Downstream clients
		ProvideRegistry,

		// Use cases
		ProvideDispatcher,
		ProvideHealthReporter,

		// HTTP surface
		ProvideRateLimiter,
		ProvideSignalHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
