package api

import (
	"context"
	"fmt"
	"log/slog"

	catalogmemory "github.com/Apurer/go-gin-brewery-api/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/Apurer/go-gin-brewery-api/internal/domains/catalog/adapters/persistence/postgres"
	catalogports "github.com/Apurer/go-gin-brewery-api/internal/domains/catalog/ports"
	customermemory "github.com/Apurer/go-gin-brewery-api/internal/domains/customers/adapters/memory"
	customerpostgres "github.com/Apurer/go-gin-brewery-api/internal/domains/customers/adapters/persistence/postgres"
	customerports "github.com/Apurer/go-gin-brewery-api/internal/domains/customers/ports"
	inventorymemory "github.com/Apurer/go-gin-brewery-api/internal/domains/inventory/adapters/memory"
	inventorypostgres "github.com/Apurer/go-gin-brewery-api/internal/domains/inventory/adapters/persistence/postgres"
	inventoryports "github.com/Apurer/go-gin-brewery-api/internal/domains/inventory/ports"
	ordermemory "github.com/Apurer/go-gin-brewery-api/internal/domains/orders/adapters/memory"
	orderpostgres "github.com/Apurer/go-gin-brewery-api/internal/domains/orders/adapters/persistence/postgres"
	orderports "github.com/Apurer/go-gin-brewery-api/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-brewery-api/internal/platform/migrations"
	platformpostgres "github.com/Apurer/go-gin-brewery-api/internal/platform/postgres"
)

// Stores bundles the repositories of every bounded context. They share one
// backend so cross-context references resolve consistently.
type Stores struct {
	Beers           catalogports.Repository
	Customers       customerports.Repository
	Inventory       inventoryports.Repository
	Orders          orderports.Repository
	IdempotencyKeys orderports.IdempotencyStore
	Durable         bool
}

// MemoryStores returns a fresh in-memory backend.
func MemoryStores() *Stores {
	return &Stores{
		Beers:           catalogmemory.NewRepository(),
		Customers:       customermemory.NewRepository(),
		Inventory:       inventorymemory.NewRepository(),
		Orders:          ordermemory.NewRepository(),
		IdempotencyKeys: ordermemory.NewIdempotencyStore(),
	}
}

// BuildStores uses PostgreSQL when cfg.PostgresDSN is reachable, applying the
// schema first, and falls back to memory otherwise.
func BuildStores(ctx context.Context, cfg Config, logger *slog.Logger) (*Stores, func(), error) {
	db, cleanup := platformpostgres.ConnectOptional(ctx, cfg.PostgresDSN, logger)
	if db == nil {
		return MemoryStores(), cleanup, nil
	}
	if err := migrations.Run(db); err != nil {
		cleanup()
		return nil, func() {}, fmt.Errorf("failed to apply migrations: %w", err)
	}
	logger.Info("repositories configured with postgres")
	return &Stores{
		Beers:           catalogpostgres.NewRepository(db),
		Customers:       customerpostgres.NewRepository(db),
		Inventory:       inventorypostgres.NewRepository(db),
		Orders:          orderpostgres.NewRepository(db),
		IdempotencyKeys: orderpostgres.NewIdempotencyStore(db),
		Durable:         true,
	}, cleanup, nil
}
