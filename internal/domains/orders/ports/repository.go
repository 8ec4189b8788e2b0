package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-brewery-api/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-brewery-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-brewery-api/internal/shared/paging"
)

var (
	ErrNotFound = errors.New("order not found")
	// ErrConcurrentModification means the stored version moved since it was read.
	ErrConcurrentModification = errors.New("order was modified concurrently")
	// ErrDanglingReference means the store refused a row pointing at a missing customer or beer.
	ErrDanglingReference = errors.New("order references a missing customer or beer")
)

// Repository stores orders together with their owned lines.
type Repository interface {
	// Save inserts the order and all of its lines as one unit when order.ID is zero.
	// Otherwise it updates the order row, conditioned on order.Version, and bumps the version.
	Save(ctx context.Context, order *domain.Order) (*types.OrderProjection, error)
	GetByID(ctx context.Context, id int64) (*types.OrderProjection, error)
	// List returns orders by ascending id; a nil page returns all of them.
	List(ctx context.Context, page *paging.Request) ([]*types.OrderProjection, error)
	ListByCustomer(ctx context.Context, customerID int64, page *paging.Request) ([]*types.OrderProjection, error)
	Exists(ctx context.Context, id int64) (bool, error)
	// Delete removes the order and its lines.
	Delete(ctx context.Context, id int64) error
	HasOrdersForCustomer(ctx context.Context, customerID int64) (bool, error)
	HasLinesForBeer(ctx context.Context, beerID int64) (bool, error)
}
