package seeder

import (
	"context"
	"fmt"

	"github.com/inkhouse/backend/internal/platform/logger"
	"github.com/inkhouse/backend/internal/platform/postgres"
)

// Seeder populates one slice of reference data. Implementations must be
// idempotent - safe to run multiple times.
type Seeder interface {
	// Name returns the name of the seeder for logging
	Name() string

	// Seed runs the seeding logic with database access
	Seed(ctx context.Context, db postgres.Querier) error
}

// Orchestrator runs seeders in registration order, stopping at the first
// failure.
type Orchestrator struct {
	seeders []Seeder
	logger  logger.Logger
	db      postgres.Querier
}

func NewOrchestrator(logger logger.Logger, db postgres.Querier, seeders []Seeder) *Orchestrator {
	return &Orchestrator{
		seeders: seeders,
		logger:  logger,
		db:      db,
	}
}

// RunAll executes all registered seeders in order
func (o *Orchestrator) RunAll(ctx context.Context) error {
	o.logger.Info(ctx, "starting data seeding", "seeder_count", len(o.seeders))

	for _, seeder := range o.seeders {
		o.logger.Info(ctx, "running seeder", "seeder", seeder.Name())

		if err := seeder.Seed(ctx, o.db); err != nil {
			o.logger.Error(ctx, "seeder failed",
				"seeder", seeder.Name(),
				"error", err,
			)
			return fmt.Errorf("seeder %s failed: %w", seeder.Name(), err)
		}

		o.logger.Info(ctx, "seeder completed", "seeder", seeder.Name())
	}

	o.logger.Info(ctx, "all seeders completed")
	return nil
}
