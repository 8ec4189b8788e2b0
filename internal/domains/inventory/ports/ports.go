package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-brewery-api/internal/domains/inventory/domain"
	"github.com/Apurer/go-gin-brewery-api/internal/shared/projection"
)

var (
	ErrNotFound               = errors.New("inventory record not found")
	ErrConcurrentModification = errors.New("inventory record was modified concurrently")
)

// RecordProjection transports an inventory snapshot with its timestamps.
type RecordProjection = projection.Projection[*domain.Record]

// Repository stores inventory snapshots. Save exists for seeding and
// replenishment jobs; the HTTP surface is read-only.
type Repository interface {
	Save(ctx context.Context, record *domain.Record) (*RecordProjection, error)
	GetByID(ctx context.Context, id int64) (*RecordProjection, error)
	List(ctx context.Context) ([]*RecordProjection, error)
	ListByBeer(ctx context.Context, beerID int64) ([]*RecordProjection, error)
}

// BeerDirectory answers whether a beer exists in the catalog.
type BeerDirectory interface {
	BeerExists(ctx context.Context, beerID int64) (bool, error)
}

// Service is the read-only inventory query surface.
type Service interface {
	List(ctx context.Context) ([]*RecordProjection, error)
	GetByID(ctx context.Context, id int64) (*RecordProjection, error)
	ListByBeer(ctx context.Context, beerID int64) ([]*RecordProjection, error)
}
