package main

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	adapters "github.com/inkhouse/backend/internal/adapters/postgres"
	"github.com/inkhouse/backend/internal/platform/logger"
	"github.com/inkhouse/backend/internal/platform/seeder"
	"github.com/inkhouse/backend/internal/server"
)

// Seeds the relational backend with baseline reference data. Only meaningful
// when CONTENT_PROVIDER is the default relational backend.
func main() {
	ctx := context.Background()

	bootstrapLogger := logger.NewBootstrapLogger()
	config, err := server.LoadConfig(bootstrapLogger)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if config.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required for seeding")
	}

	appLogger := logger.NewConfiguredLogger(logger.Config{
		Environment: config.Environment,
		LogLevel:    config.LogLevel,
	})

	pool, err := pgxpool.New(ctx, config.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	orchestrator := seeder.NewOrchestrator(appLogger, pool, []seeder.Seeder{
		adapters.NewContentSeeder(),
	})
	if err := orchestrator.RunAll(ctx); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
