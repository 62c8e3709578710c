package server

import (
	"context"

	"github.com/inkhouse/backend/internal/adapters/rest"
	"github.com/inkhouse/backend/internal/content/application"
	"github.com/inkhouse/backend/internal/content/ports"
	"github.com/inkhouse/backend/internal/content/selector"
	"github.com/inkhouse/backend/internal/platform/eventbus"
	"github.com/inkhouse/backend/internal/platform/logger"
)

// provideVersion provides the application version
func provideVersion() string {
	return "1.0.0"
}

// provideLoggerConfig creates logger config from server config
func provideLoggerConfig(config Config) logger.Config {
	return logger.Config{
		Environment: config.Environment,
		LogLevel:    config.LogLevel,
	}
}

// provideContentProvider selects and constructs the active content backend
func provideContentProvider(ctx context.Context, config Config, log logger.Logger) (ports.ContentProvider, func(), error) {
	return selector.New(ctx, config.ContentSettings(), log)
}

// provideContentService wires the service with the active provider's name
func provideContentService(provider ports.ContentProvider, config Config, bus *eventbus.Bus, log logger.Logger) *application.ContentService {
	name := config.ContentProvider
	if name == "" {
		name = selector.ProviderDefault
	}
	return application.NewContentService(provider, name, bus, log)
}

// provideFeedConfig describes the public site for the syndication endpoints
func provideFeedConfig(config Config) rest.FeedConfig {
	return rest.FeedConfig{
		SiteURL:     config.SiteBaseURL,
		Title:       config.SiteTitle,
		Description: config.SiteDescription,
	}
}

// provideProbe checks backend reachability for the readiness endpoint
func provideProbe(provider ports.ContentProvider) rest.ProbeFunc {
	return func(ctx context.Context) error {
		_, err := provider.ListCategories(ctx)
		return err
	}
}
