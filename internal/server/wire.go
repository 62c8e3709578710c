//go:build wireinject
// +build wireinject

package server

import (
	"context"

	"github.com/google/wire"

	"github.com/inkhouse/backend/internal/adapters/rest"
	"github.com/inkhouse/backend/internal/platform/eventbus"
	"github.com/inkhouse/backend/internal/platform/logger"
)

// InitializeApp creates a fully configured App with all dependencies
func InitializeApp(ctx context.Context) (*App, func(), error) {
	wire.Build(
		// Bootstrap phase
		logger.NewBootstrapLogger,
		LoadConfig,

		// Logger configuration
		provideLoggerConfig,

		// Main logger
		logger.NewConfiguredLogger,
		wire.Bind(new(logger.Logger), new(*logger.SlogAdapter)),

		// Content provider selection
		provideContentProvider,

		// Platform services
		eventbus.NewBus,

		// Application services
		provideContentService,

		// REST handlers
		rest.ProviderSet,
		provideVersion,
		provideFeedConfig,
		provideProbe,

		// HTTP Server
		NewHTTPServer,

		// App
		NewApp,
	)

	return nil, nil, nil
}
