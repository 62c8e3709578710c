package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TransactionManager provides transaction management capabilities
type TransactionManager interface {
	BeginTx(ctx context.Context) (pgx.Tx, error)
}

// PoolTransactionManager implements TransactionManager using a pgxpool.Pool
type PoolTransactionManager struct {
	pool *pgxpool.Pool
}

// NewTransactionManager creates a new transaction manager
func NewTransactionManager(pool *pgxpool.Pool) TransactionManager {
	return &PoolTransactionManager{pool: pool}
}

// BeginTx starts a new database transaction
func (m *PoolTransactionManager) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return m.pool.Begin(ctx)
}

// RunInTx opens a transaction, runs fn, and guarantees commit-or-rollback on
// every exit path, including panics. Statements that must be atomic (e.g. a
// post's tag repopulation) run inside a single RunInTx scope.
func RunInTx(ctx context.Context, tm TransactionManager, fn func(tx pgx.Tx) error) (err error) {
	tx, err := tm.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		err = tx.Commit(ctx)
	}()

	err = fn(tx)
	return err
}
