package factory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aldenluthfi/situs-backend/internal/storage"
	"github.com/aldenluthfi/situs-backend/internal/storage/in_mem"
	"github.com/aldenluthfi/situs-backend/internal/storage/pg"
	pkgserver "github.com/aldenluthfi/situs-backend/pkg/server"
)

type StorageConfig struct {
	storage.Type
	Pg *pg.PoolConfig
	// Migrate applies pending migrations before the store is returned.
	Migrate bool
}

// NewStore builds the configured relational store together with a health
// checker for it.
func NewStore(ctx context.Context, cfg StorageConfig) (storage.Store, pkgserver.HealthChecker, error) {
	switch cfg.Type {
	case storage.PG:
		if cfg.Pg == nil || cfg.Pg.ConnStr == "" {
			return nil, nil, fmt.Errorf("PostgreSQL connection string is not set")
		}

		if cfg.Migrate {
			if err := pg.Migrate(cfg.Pg.MigrationsPath, cfg.Pg.ConnStr); err != nil {
				return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
			}
		}

		pool, err := pg.NewConnectionPool(ctx, *cfg.Pg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
		}

		slog.Info("Store ready", "type", cfg.Type)
		return pg.NewStore(pool), pg.NewHealthChecker(pool), nil

	case storage.InMem:
		slog.Info("Store ready", "type", cfg.Type)
		return in_mem.NewInMemStore(), pkgserver.NewOkHealthChecker(), nil

	default:
		return nil, nil, fmt.Errorf(string(storage.ErrUnsupportedStorer), cfg.Type)
	}
}
