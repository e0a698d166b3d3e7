package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Skotchmaster/storefront/internal/config"
	"github.com/Skotchmaster/storefront/internal/db"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/repo/mongorepo"
	"github.com/Skotchmaster/storefront/internal/service"
)

// backend is what both storage implementations provide.
type backend interface {
	service.CartRepo
	service.ProductResolver
	service.UserRepo
	service.FormRepo
	CreateProduct(ctx context.Context, p *models.Product) error
	Ping(ctx context.Context) error
	Close() error
}

// openStore connects the configured store and brings its schema up to date.
func openStore(ctx context.Context, cfg config.Config, l *slog.Logger) (backend, error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		m, err := mongorepo.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		if err := m.EnsureIndexes(ctx); err != nil {
			_ = m.Close()
			return nil, fmt.Errorf("ensure indexes: %w", err)
		}
		l.Info("store_ready", "driver", cfg.StoreDriver, "database", cfg.MongoDB)
		return m, nil

	case config.StoreGorm:
		gdb, err := db.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		g := repo.New(gdb)
		if err := repo.Migrate(gdb); err != nil {
			_ = g.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		l.Info("store_ready", "driver", cfg.StoreDriver, "dialect", cfg.DBDriver)
		return g, nil
	}
	return nil, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.StoreDriver)
}
