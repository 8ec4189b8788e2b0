package mapper

import (
	"time"

	ordertypes "github.com/Apurer/go-gin-brewery-api/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-brewery-api/internal/domains/orders/domain"
)

// OrderLinePayload is one requested line. Allocation is never client-set.
type OrderLinePayload struct {
	BeerID        int64 `json:"beerId" binding:"required,gt=0"`
	OrderQuantity int32 `json:"orderQuantity" binding:"required,gt=0"`
}

// OrderPayload is the body of POST /beer-orders. CustomerRef is the
// customer's own note for the order; it is validated but not stored.
type OrderPayload struct {
	CustomerID             int64              `json:"customerId" binding:"required,gt=0"`
	CustomerRef            string             `json:"customerRef" binding:"omitempty,max=100"`
	OrderStatusCallbackURL string             `json:"orderStatusCallbackUrl" binding:"omitempty,max=255"`
	OrderLines             []OrderLinePayload `json:"orderLines" binding:"required,min=1,dive"`
}

type OrderLine struct {
	ID                int64 `json:"id"`
	Version           int64 `json:"version"`
	BeerID            int64 `json:"beerId"`
	OrderQuantity     int32 `json:"orderQuantity"`
	QuantityAllocated int32 `json:"quantityAllocated"`
}

// Order is the HTTP representation of an order aggregate.
type Order struct {
	ID                     int64       `json:"id"`
	Version                int64       `json:"version"`
	CustomerID             int64       `json:"customerId"`
	OrderStatus            string      `json:"orderStatus"`
	OrderStatusCallbackURL string      `json:"orderStatusCallbackUrl,omitempty"`
	OrderLines             []OrderLine `json:"orderLines"`
	CreatedDate            time.Time   `json:"createdDate"`
	UpdateDate             time.Time   `json:"updateDate"`
}

// ToCreateOrderInput converts the request body. idempotencyKey comes from the request header.
func ToCreateOrderInput(payload OrderPayload, idempotencyKey string) ordertypes.CreateOrderInput {
	lines := make([]ordertypes.LineInput, 0, len(payload.OrderLines))
	for _, line := range payload.OrderLines {
		lines = append(lines, ordertypes.LineInput{BeerID: line.BeerID, OrderQuantity: line.OrderQuantity})
	}
	return ordertypes.CreateOrderInput{
		CustomerID:     payload.CustomerID,
		CallbackURL:    payload.OrderStatusCallbackURL,
		Lines:          lines,
		IdempotencyKey: idempotencyKey,
	}
}

func FromDomainOrder(order *domain.Order) Order {
	lines := make([]OrderLine, 0, len(order.Lines))
	for _, line := range order.Lines {
		lines = append(lines, OrderLine{
			ID:                line.ID,
			Version:           line.Version,
			BeerID:            line.BeerID,
			OrderQuantity:     line.OrderQuantity,
			QuantityAllocated: line.QuantityAllocated,
		})
	}
	return Order{
		ID:                     order.ID,
		Version:                order.Version,
		CustomerID:             order.CustomerID,
		OrderStatus:            string(order.Status),
		OrderStatusCallbackURL: order.CallbackURL,
		OrderLines:             lines,
	}
}

// FromProjection maps a stored order and its timestamps.
func FromProjection(p *ordertypes.OrderProjection) Order {
	order := FromDomainOrder(p.Entity)
	order.CreatedDate = p.Metadata.CreatedAt
	order.UpdateDate = p.Metadata.UpdatedAt
	return order
}

func FromProjectionList(list []*ordertypes.OrderProjection) []Order {
	result := make([]Order, 0, len(list))
	for _, item := range list {
		result = append(result, FromProjection(item))
	}
	return result
}
