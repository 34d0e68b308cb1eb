// Package storage opens the configured store and hands back the repository
// ports the services depend on.
package storage

import (
	"context"
	"fmt"
	"log/slog"

	portsrepo "github.com/SscSPs/ledger_invoicing_app/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_invoicing_app/internal/platform/config"
	"github.com/SscSPs/ledger_invoicing_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/ledger_invoicing_app/internal/repositories/database/sqlite"
	"github.com/SscSPs/ledger_invoicing_app/pkg/database"
)

// Open connects to the store selected by cfg.StorageDriver. PostgreSQL is
// migrated before use; SQLite migrates its own schema. The returned func
// releases the store.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	switch cfg.StorageDriver {
	case config.StorageDriverSQLite:
		store, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		logger.Info("SQLite store opened", slog.String("path", cfg.SQLitePath))
		closer := func() {
			if err := store.Close(); err != nil {
				logger.Error("Error closing sqlite store", slog.String("error", err.Error()))
			}
		}
		return sqlite.NewRepositoryProvider(store), closer, nil

	case config.StorageDriverPostgres:
		dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("failed to initialize database pool: %w", err)
		}
		if err := RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
			dbPool.Close()
			return portsrepo.RepositoryProvider{}, nil, err
		}
		logger.Info("Database connection pool established.")
		return pgsql.NewRepositoryProvider(dbPool), func() { database.ClosePgxPool(dbPool) }, nil

	default:
		return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
