package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-brewery-api/internal/domains/catalog/application/types"
	"github.com/Apurer/go-gin-brewery-api/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-brewery-api/internal/shared/paging"
)

var (
	ErrNotFound               = errors.New("beer not found")
	ErrConcurrentModification = errors.New("beer was modified concurrently")
	ErrDuplicateUPC           = errors.New("a beer with this upc already exists")
	// ErrInUse blocks deleting a beer that order lines still reference.
	ErrInUse = errors.New("beer is referenced by existing orders")
)

// Repository persists beers. Updates are conditioned on Beer.Version.
type Repository interface {
	Save(ctx context.Context, beer *domain.Beer) (*types.BeerProjection, error)
	GetByID(ctx context.Context, id int64) (*types.BeerProjection, error)
	FindByIDs(ctx context.Context, ids []int64) ([]*types.BeerProjection, error)
	List(ctx context.Context, page *paging.Request) (types.BeerPage, error)
	Delete(ctx context.Context, id int64) error
}

// UsageChecker guards beer deletes against orders that reference the beer.
type UsageChecker interface {
	// DeleteBeerIfUnused calls remove only when no order references beerID.
	// No new order can pick up the beer until remove returns.
	DeleteBeerIfUnused(ctx context.Context, beerID int64, remove func(context.Context) error) (inUse bool, err error)
}
