package selector

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkhouse/backend/internal/adapters/doccms"
	pgadapter "github.com/inkhouse/backend/internal/adapters/postgres"
	"github.com/inkhouse/backend/internal/adapters/restcms"
	"github.com/inkhouse/backend/internal/content/ports"
	"github.com/inkhouse/backend/internal/platform/apperror"
	"github.com/inkhouse/backend/internal/platform/logger"
)

// Provider names accepted by the CONTENT_PROVIDER setting.
const (
	ProviderDefault     = "default"
	ProviderRestCMS     = "rest-cms"
	ProviderDocumentCMS = "document-cms"
)

// Settings carries every backend's configuration. Only the keys of the
// selected provider are validated; the others may stay empty.
type Settings struct {
	Provider string

	DatabaseURL string

	RestCMSBaseURL     string
	RestCMSUsername    string
	RestCMSAppPassword string

	DocCMSProjectID  string
	DocCMSDataset    string
	DocCMSAPIVersion string
	DocCMSWriteToken string
	DocCMSUseCDN     bool
}

// New validates the selected provider's settings and constructs exactly one
// provider. Validation is fail-fast: a missing setting is reported by key at
// startup, before any backend traffic. The returned cleanup releases whatever
// the provider holds open.
func New(ctx context.Context, settings Settings, log logger.Logger) (ports.ContentProvider, func(), error) {
	name := settings.Provider
	if name == "" {
		name = ProviderDefault
	}

	switch name {
	case ProviderDefault:
		if settings.DatabaseURL == "" {
			return nil, nil, apperror.MissingSetting("DATABASE_URL")
		}
		pool, cleanup, err := connectPool(ctx, settings.DatabaseURL, log)
		if err != nil {
			return nil, nil, err
		}
		log.Info(ctx, "content provider selected", "provider", ProviderDefault)
		return pgadapter.NewProvider(pool, log), cleanup, nil

	case ProviderRestCMS:
		if settings.RestCMSBaseURL == "" {
			return nil, nil, apperror.MissingSetting("RESTCMS_BASE_URL")
		}
		log.Info(ctx, "content provider selected",
			"provider", ProviderRestCMS,
			"writable", settings.RestCMSUsername != "" && settings.RestCMSAppPassword != "",
		)
		provider := restcms.NewProvider(restcms.Config{
			BaseURL:     settings.RestCMSBaseURL,
			Username:    settings.RestCMSUsername,
			AppPassword: settings.RestCMSAppPassword,
		}, log)
		return provider, func() {}, nil

	case ProviderDocumentCMS:
		for key, value := range map[string]string{
			"DOCCMS_PROJECT_ID":  settings.DocCMSProjectID,
			"DOCCMS_DATASET":     settings.DocCMSDataset,
			"DOCCMS_API_VERSION": settings.DocCMSAPIVersion,
		} {
			if value == "" {
				return nil, nil, apperror.MissingSetting(key)
			}
		}
		log.Info(ctx, "content provider selected",
			"provider", ProviderDocumentCMS,
			"dataset", settings.DocCMSDataset,
			"cdn", settings.DocCMSUseCDN,
			"writable", settings.DocCMSWriteToken != "",
		)
		provider := doccms.NewProvider(doccms.Config{
			ProjectID:  settings.DocCMSProjectID,
			Dataset:    settings.DocCMSDataset,
			APIVersion: settings.DocCMSAPIVersion,
			WriteToken: settings.DocCMSWriteToken,
			UseCDN:     settings.DocCMSUseCDN,
		}, log)
		return provider, func() {}, nil

	default:
		return nil, nil, apperror.New(
			apperror.CodeConfiguration,
			apperror.BusinessCodeUnknownProvider,
			fmt.Sprintf("unknown content provider %q", name),
			http.StatusInternalServerError,
		).WithDetails(name)
	}
}

// connectPool opens the relational backend's connection pool and verifies it
// with a ping before the provider is handed out.
func connectPool(ctx context.Context, databaseURL string, log logger.Logger) (*pgxpool.Pool, func(), error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = 5 * time.Minute
	poolConfig.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}

	log.Info(ctx, "database connection established")
	cleanup := func() {
		log.Info(context.Background(), "closing database connection pool")
		pool.Close()
	}
	return pool, cleanup, nil
}
