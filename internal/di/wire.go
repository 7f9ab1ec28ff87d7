//go:build wireinject
// +build wireinject

package di

import (
	"StockPilot/pkg/config"
	"StockPilot/pkg/server"

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
		ProvideCache,

		// Repositories
		ProvideBarStore,
		ProvideDecisionPublisher,
		ProvideYahooClient,
		ProvideBarProvider,
		ProvideQuoteProvider,
		ProvideNewsProvider,

		// Pipeline services
		ProvideCleaner,
		ProvideGenerator,
		ProvideClassifierFactory,

		// Use cases
		ProvideBarSource,
		ProvideAdvisor,
		ProvideChart,
		ProvideTodayInfo,
		ProvideNews,

		// HTTP
		ProvideLimiter,
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
