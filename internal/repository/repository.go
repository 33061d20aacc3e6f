package repository

import (
	"context"
	"database/sql"
	"fmt"

	"skillcheck/internal/logger"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// DBTX is the subset of *sqlx.DB and *sqlx.Tx the repositories use.
type DBTX interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	Rebind(query string) string
}

type contextKey string

const txContextKey contextKey = "tx"

// executor returns the transaction carried by ctx, or db.
func executor(ctx context.Context, db DBTX) DBTX {
	if tx, ok := ctx.Value(txContextKey).(*sqlx.Tx); ok {
		return tx
	}
	return db
}

// withTransaction runs fn in a transaction stored in the context passed to
// it. The transaction is rolled back when fn returns an error or panics.
func withTransaction(ctx context.Context, db *sqlx.DB, fn func(ctx context.Context) error) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.Get().Error("rollback after panic failed", zap.Error(rbErr))
			}
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txContextKey, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Get().Error("rollback failed", zap.Error(rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
