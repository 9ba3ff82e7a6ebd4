// Package svc wires the shared server dependencies together.
package svc

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/grana-sh/grana/internal/buildconfig"
	"github.com/grana-sh/grana/internal/db"
	"github.com/grana-sh/grana/internal/env"
	"github.com/grana-sh/grana/internal/jobs"
	"github.com/grana-sh/grana/internal/linking"
	"github.com/grana-sh/grana/internal/whatsapp"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type Registry struct {
	logger         *zap.Logger
	dbPool         *pgxpool.Pool
	messenger      whatsapp.Messenger
	linkingService *linking.Service
	jobsScheduler  *jobs.Scheduler
}

// New initializes all shared dependencies. Call Shutdown when done.
func New(ctx context.Context) (*Registry, error) {
	logger := createLogger()

	if dsn := env.SentryDSN(); dsn != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:         dsn,
			Debug:       env.SentryDebug(),
			Environment: env.SentryEnvironment(),
			Release:     buildconfig.Version(),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize sentry: %w", err)
		}
	}

	dbPool, err := db.NewPool(ctx, logger)
	if err != nil {
		return nil, err
	}

	registry := Registry{
		logger:    logger,
		dbPool:    dbPool,
		messenger: whatsapp.NewClient(env.GetEvolutionConfig(), logger),
	}
	registry.linkingService = linking.NewService(db.LinkingStore{}, registry.messenger)
	if registry.jobsScheduler, err = registry.createJobsScheduler(); err != nil {
		return nil, err
	}
	return &registry, nil
}

func (r *Registry) Shutdown() {
	if err := r.jobsScheduler.Shutdown(); err != nil {
		r.logger.Warn("failed to shut down job scheduler", zap.Error(err))
	}
	r.dbPool.Close()
	sentry.Flush(5 * time.Second)
	_ = r.logger.Sync()
}

func (r *Registry) GetLogger() *zap.Logger           { return r.logger }
func (r *Registry) GetDbPool() *pgxpool.Pool         { return r.dbPool }
func (r *Registry) GetMessenger() whatsapp.Messenger { return r.messenger }

func (r *Registry) GetLinkingService() *linking.Service { return r.linkingService }

func createLogger() *zap.Logger {
	if env.EnableDebugLogging() {
		return zap.Must(zap.NewDevelopment())
	}
	return zap.Must(zap.NewProduction())
}
