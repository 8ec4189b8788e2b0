package ports

import (
	"context"

	"github.com/Apurer/go-gin-brewery-api/internal/domains/orders/domain"
)

// CustomerStore resolves customer references.
type CustomerStore interface {
	// FindByID returns ErrNotFound when the customer does not exist.
	FindByID(ctx context.Context, id int64) (*domain.CustomerRef, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
}

// ReferenceGuard keeps resolved customers and beers from being deleted until
// fn returns, so an order is stored only against references that still exist.
type ReferenceGuard interface {
	WithReferences(ctx context.Context, fn func(context.Context) error) error
}

// ProductStore resolves beer references.
type ProductStore interface {
	// FindByIDs returns the beers that exist; missing ids are absent from the map.
	FindByIDs(ctx context.Context, ids []int64) (map[int64]*domain.BeerRef, error)
}
