// Package migrations applies the embedded schema migrations.
package migrations

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/grana-sh/grana/internal/env"
	"go.uber.org/zap"
)

//go:embed sql/*.sql
var migrationsFS embed.FS

// migrateDatabaseUrl rewrites the connection URL for golang-migrate, which
// selects its database driver by scheme. The imported pgx driver registers
// pgx5, while the pool and operators use the standard postgres scheme.
func migrateDatabaseUrl(url string) string {
	for _, scheme := range []string{"postgresql://", "postgres://"} {
		if rest, ok := strings.CutPrefix(url, scheme); ok {
			return "pgx5://" + rest
		}
	}
	return url
}

func newMigrator() (*migrate.Migrate, error) {
	source, err := iofs.New(migrationsFS, "sql")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded migrations: %w", err)
	}
	return migrate.NewWithSourceInstance("iofs", source, migrateDatabaseUrl(env.DatabaseUrl()))
}

// Up applies all pending migrations. An already up-to-date schema is not an
// error.
func Up(logger *zap.Logger) error {
	m, err := newMigrator()
	if err != nil {
		return err
	}
	defer m.Close()
	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("database schema is up to date")
			return nil
		}
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	version, _, err := m.Version()
	if err != nil {
		return err
	}
	logger.Info("database schema migrated", zap.Uint("version", version))
	return nil
}

// Down rolls back the most recent migration.
func Down(logger *zap.Logger) error {
	m, err := newMigrator()
	if err != nil {
		return err
	}
	defer m.Close()
	if err := m.Steps(-1); err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}
	logger.Info("rolled back one migration")
	return nil
}
