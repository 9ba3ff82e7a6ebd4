package db

import (
	"context"
	"fmt"

	internalctx "github.com/grana-sh/grana/internal/context"
	"github.com/grana-sh/grana/internal/db/queryable"
	"github.com/grana-sh/grana/internal/env"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func NewPool(ctx context.Context, logger *zap.Logger) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(env.DatabaseUrl())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	if maxConns := env.DatabaseMaxConns(); maxConns != nil {
		config.MaxConns = int32(*maxConns)
	}
	if env.EnableQueryLogging() {
		config.ConnConfig.Tracer = &queryLoggingTracer{logger: logger}
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}

// RunTx runs f with a transaction placed in the context, so that all db
// functions called from f participate in it. Nested calls open a savepoint
// on the surrounding transaction.
func RunTx(ctx context.Context, f func(ctx context.Context) error) error {
	db := internalctx.GetDb(ctx)
	if txdb, ok := db.(queryable.TxQueryable); ok {
		tx, err := txdb.Begin(ctx)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer func() { _ = tx.Rollback(ctx) }()
		if err := f(internalctx.WithDb(ctx, tx)); err != nil {
			return err
		}
		return tx.Commit(ctx)
	}
	return f(ctx)
}

type queryLoggingTracer struct {
	logger *zap.Logger
}

func (t *queryLoggingTracer) TraceQueryStart(
	ctx context.Context,
	_ *pgx.Conn,
	data pgx.TraceQueryStartData,
) context.Context {
	t.logger.Debug("query start", zap.String("sql", data.SQL))
	return ctx
}

func (t *queryLoggingTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	if data.Err != nil {
		t.logger.Debug("query end", zap.Error(data.Err))
	}
}
