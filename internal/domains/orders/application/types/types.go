package types

import (
	"github.com/Apurer/go-gin-brewery-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-brewery-api/internal/shared/projection"
)

// OrderProjection transports an order aggregate with its persistence timestamps.
type OrderProjection = projection.Projection[*domain.Order]

// LineInput is one requested (beer, quantity) pair.
type LineInput struct {
	BeerID        int64
	OrderQuantity int32
}

// CreateOrderInput carries everything needed to place an order.
type CreateOrderInput struct {
	CustomerID  int64
	CallbackURL string
	Lines       []LineInput
	// IdempotencyKey, when set, makes durable placement reuse the first run for the same key.
	IdempotencyKey string
}

// PageInput selects an optional zero-based page. Both fields must be set for paging to apply.
type PageInput struct {
	PageNumber *int32
	PageSize   *int32
}

type ListOrdersInput struct {
	PageInput
}

type ListCustomerOrdersInput struct {
	CustomerID int64
	PageInput
}

// UpdateStatusInput moves an order to Status. ExpectedVersion, when set,
// must match the stored version or the update is rejected as a conflict.
type UpdateStatusInput struct {
	OrderID         int64
	Status          string
	ExpectedVersion *int64
}

// LineRequests converts transport lines into domain requests.
func (in CreateOrderInput) LineRequests() []domain.LineRequest {
	requests := make([]domain.LineRequest, 0, len(in.Lines))
	for _, line := range in.Lines {
		requests = append(requests, domain.LineRequest{BeerID: line.BeerID, Quantity: line.OrderQuantity})
	}
	return requests
}
