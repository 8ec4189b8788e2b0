package ports

import (
	"context"

	"github.com/Apurer/go-gin-brewery-api/internal/domains/catalog/application/types"
)

// Service exposes catalog use cases to adapters.
type Service interface {
	CreateBeer(ctx context.Context, input types.BeerInput) (*types.BeerProjection, error)
	GetBeer(ctx context.Context, id int64) (*types.BeerProjection, error)
	ListBeers(ctx context.Context, input types.ListBeersInput) (types.BeerPage, error)
	UpdateBeer(ctx context.Context, input types.UpdateBeerInput) (*types.BeerProjection, error)
	DeleteBeer(ctx context.Context, id int64) error
}
