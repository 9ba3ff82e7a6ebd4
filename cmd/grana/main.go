package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/grana-sh/grana/internal/auth"
	"github.com/grana-sh/grana/internal/buildconfig"
	"github.com/grana-sh/grana/internal/env"
	"github.com/grana-sh/grana/internal/handlers"
	"github.com/grana-sh/grana/internal/migrations"
	"github.com/grana-sh/grana/internal/svc"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "grana",
		Version: fmt.Sprintf("%v (%v)", buildconfig.Version(), buildconfig.Commit()),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			env.Initialize()
			auth.Init()
		},
	}
	rootCmd.AddCommand(newServeCommand(), newMigrateCommand())
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run database migrations and start the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			registry, err := svc.New(ctx)
			if err != nil {
				return err
			}
			defer registry.Shutdown()
			logger := registry.GetLogger()

			if err := migrations.Up(logger); err != nil {
				return err
			}

			registry.GetJobsScheduler().Start()

			server := &http.Server{
				Addr:    env.Host(),
				Handler: handlers.NewRouter(registry.GetDbPool(), logger, registry.GetLinkingService()),
			}

			serverErr := make(chan error, 1)
			go func() {
				logger.Info("server starting", zap.String("addr", server.Addr))
				serverErr <- server.ListenAndServe()
			}()

			select {
			case err := <-serverErr:
				return err
			case <-ctx.Done():
			}

			if delay := env.ServerShutdownDelayDuration(); delay != nil {
				logger.Info("delaying shutdown", zap.Duration("delay", *delay))
				time.Sleep(*delay)
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			logger.Info("server shutting down")
			if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
}

func newMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	migrateCmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				return migrations.Up(zap.Must(zap.NewProduction()))
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			RunE: func(cmd *cobra.Command, args []string) error {
				return migrations.Down(zap.Must(zap.NewProduction()))
			},
		},
	)
	return migrateCmd
}
