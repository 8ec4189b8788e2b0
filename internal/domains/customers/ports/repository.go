package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-brewery-api/internal/domains/customers/application/types"
	"github.com/Apurer/go-gin-brewery-api/internal/domains/customers/domain"
)

var (
	ErrNotFound               = errors.New("customer not found")
	ErrConcurrentModification = errors.New("customer was modified concurrently")
	// ErrInUse blocks deleting a customer that still owns orders.
	ErrInUse = errors.New("customer has existing orders")
)

// Repository persists customers. Updates are conditioned on Customer.Version.
type Repository interface {
	Save(ctx context.Context, customer *domain.Customer) (*types.CustomerProjection, error)
	GetByID(ctx context.Context, id int64) (*types.CustomerProjection, error)
	Exists(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context) ([]*types.CustomerProjection, error)
	Delete(ctx context.Context, id int64) error
}

// UsageChecker guards customer deletes against orders the customer still owns.
type UsageChecker interface {
	// DeleteCustomerIfUnused calls remove only when no order belongs to customerID.
	DeleteCustomerIfUnused(ctx context.Context, customerID int64, remove func(context.Context) error) (inUse bool, err error)
}

// Service exposes customer directory use cases to adapters.
type Service interface {
	CreateCustomer(ctx context.Context, input types.CustomerInput) (*types.CustomerProjection, error)
	GetCustomer(ctx context.Context, id int64) (*types.CustomerProjection, error)
	ListCustomers(ctx context.Context) ([]*types.CustomerProjection, error)
	UpdateCustomer(ctx context.Context, input types.UpdateCustomerInput) (*types.CustomerProjection, error)
	DeleteCustomer(ctx context.Context, id int64) error
}
