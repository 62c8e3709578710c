package server

import (
	"context"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/inkhouse/backend/internal/content/selector"
	"github.com/inkhouse/backend/internal/platform/logger"
)

// Config carries every setting the process reads. Provider-specific keys are
// validated by the content selector, not here: only the selected backend's
// keys have to be present.
type Config struct {
	ContentProvider string `mapstructure:"CONTENT_PROVIDER"`

	DatabaseURL string `mapstructure:"DATABASE_URL"`

	RestCMSBaseURL     string `mapstructure:"RESTCMS_BASE_URL"`
	RestCMSUsername    string `mapstructure:"RESTCMS_USERNAME"`
	RestCMSAppPassword string `mapstructure:"RESTCMS_APP_PASSWORD"`

	DocCMSProjectID  string `mapstructure:"DOCCMS_PROJECT_ID"`
	DocCMSDataset    string `mapstructure:"DOCCMS_DATASET"`
	DocCMSAPIVersion string `mapstructure:"DOCCMS_API_VERSION"`
	DocCMSWriteToken string `mapstructure:"DOCCMS_WRITE_TOKEN"`
	DocCMSUseCDN     bool   `mapstructure:"DOCCMS_USE_CDN"`

	SiteBaseURL     string `mapstructure:"SITE_BASE_URL"`
	SiteTitle       string `mapstructure:"SITE_TITLE"`
	SiteDescription string `mapstructure:"SITE_DESCRIPTION"`

	ServerAddress string `mapstructure:"SERVER_ADDRESS"`
	Environment   string `mapstructure:"ENVIRONMENT"`
	LogLevel      string `mapstructure:"LOG_LEVEL"`
}

func LoadConfig(bootstrapLogger *logger.BootstrapLogger) (Config, error) {
	ctx := context.Background()

	// Load .env file if it exists (godotenv will find it automatically)
	// It's okay if the file doesn't exist - we'll use environment variables
	if err := godotenv.Load(); err != nil {
		bootstrapLogger.Info(ctx, "no .env file found, using environment variables only")
	} else {
		bootstrapLogger.Info(ctx, "loaded .env file")
	}

	v := viper.New()

	v.SetDefault("CONTENT_PROVIDER", selector.ProviderDefault)
	v.SetDefault("DOCCMS_API_VERSION", "2025-02-19")
	v.SetDefault("SITE_BASE_URL", "http://localhost:3000")
	v.SetDefault("SITE_TITLE", "Inkhouse")
	v.SetDefault("SITE_DESCRIPTION", "Notes from the Inkhouse team")
	v.SetDefault("SERVER_ADDRESS", ":8080")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")

	// Enable automatic environment variable reading
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		bootstrapLogger.Error(ctx, "failed to unmarshal configuration", "error", err)
		return Config{}, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	bootstrapLogger.Info(ctx, "configuration loaded",
		"environment", config.Environment,
		"log_level", config.LogLevel,
		"server_address", config.ServerAddress,
		"content_provider", config.ContentProvider,
	)

	return config, nil
}

// ContentSettings maps the process configuration onto the selector's
// settings.
func (c Config) ContentSettings() selector.Settings {
	return selector.Settings{
		Provider:           c.ContentProvider,
		DatabaseURL:        c.DatabaseURL,
		RestCMSBaseURL:     c.RestCMSBaseURL,
		RestCMSUsername:    c.RestCMSUsername,
		RestCMSAppPassword: c.RestCMSAppPassword,
		DocCMSProjectID:    c.DocCMSProjectID,
		DocCMSDataset:      c.DocCMSDataset,
		DocCMSAPIVersion:   c.DocCMSAPIVersion,
		DocCMSWriteToken:   c.DocCMSWriteToken,
		DocCMSUseCDN:       c.DocCMSUseCDN,
	}
}
