package queryable

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Queryable is the subset of pgxpool.Pool and pgx.Tx the db package relies on,
// so that all queries run transparently against either.
type Queryable interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type TxQueryable interface {
	Queryable
	Begin(ctx context.Context) (pgx.Tx, error)
}
