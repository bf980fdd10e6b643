//go:build wireinject
// +build wireinject

package di

import (
	"AstroChart/pkg/config"
	"AstroChart/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,

		// Repositories
		ProvideEventPublisher,
		ProvideResultStore,

		// Domain
		ProvideTables,
		ProvideOracle,
		ProvideEventPipeline,
		ProvideChartService,

		// Transport
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
