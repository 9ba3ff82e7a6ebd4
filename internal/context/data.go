package context

import (
	"context"

	"github.com/grana-sh/grana/internal/db/queryable"
	"github.com/grana-sh/grana/internal/types"
	"go.uber.org/zap"
)

func GetDb(ctx context.Context) queryable.Queryable {
	if db, ok := ctx.Value(ctxKeyDb).(queryable.Queryable); ok {
		if db != nil {
			return db
		}
	}
	panic("db not contained in context")
}

func WithDb(ctx context.Context, db queryable.Queryable) context.Context {
	return context.WithValue(ctx, ctxKeyDb, db)
}

func GetLogger(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(ctxKeyLogger).(*zap.Logger); ok {
		if logger != nil {
			return logger
		}
	}
	panic("logger not contained in context")
}

func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKeyLogger, logger)
}

func GetUserAccount(ctx context.Context) *types.UserAccount {
	if userAccount, ok := ctx.Value(ctxKeyUserAccount).(*types.UserAccount); ok {
		if userAccount != nil {
			return userAccount
		}
	}
	panic("no UserAccount found in context")
}

func WithUserAccount(ctx context.Context, userAccount *types.UserAccount) context.Context {
	return context.WithValue(ctx, ctxKeyUserAccount, userAccount)
}
