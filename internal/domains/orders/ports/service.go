package ports

import (
	"context"

	"github.com/Apurer/go-gin-brewery-api/internal/domains/orders/application/types"
)

// Service exposes order use cases to adapters. Lookups report absence through
// the boolean result rather than an error.
type Service interface {
	CreateOrder(ctx context.Context, input types.CreateOrderInput) (*types.OrderProjection, error)
	GetByID(ctx context.Context, id int64) (*types.OrderProjection, bool, error)
	List(ctx context.Context, input types.ListOrdersInput) ([]*types.OrderProjection, error)
	ListByCustomer(ctx context.Context, input types.ListCustomerOrdersInput) ([]*types.OrderProjection, error)
	UpdateStatus(ctx context.Context, input types.UpdateStatusInput) (*types.OrderProjection, bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}
