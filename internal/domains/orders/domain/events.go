package domain

import "time"

// Event is implemented by every order domain event.
type Event interface {
	EventName() string
	OccurredAt() time.Time
	AggregateID() int64
}

// BaseEvent provides common event metadata.
type BaseEvent struct {
	OrderID   int64     `json:"orderId"`
	Timestamp time.Time `json:"occurredAt"`
}

func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

func (e BaseEvent) AggregateID() int64 { return e.OrderID }

// OrderPlaced is raised once an order and its lines are persisted.
type OrderPlaced struct {
	BaseEvent
	CustomerID int64       `json:"customerId"`
	Status     Status      `json:"orderStatus"`
	Lines      []LineEvent `json:"orderLines"`
}

// LineEvent is the line shape carried by OrderPlaced.
type LineEvent struct {
	BeerID        int64 `json:"beerId"`
	OrderQuantity int32 `json:"orderQuantity"`
}

func (e OrderPlaced) EventName() string { return "orders.order.placed" }

// OrderStatusChanged is raised after a status update is persisted.
type OrderStatusChanged struct {
	BaseEvent
	PreviousStatus Status `json:"previousStatus"`
	Status         Status `json:"orderStatus"`
	Version        int64  `json:"version"`
}

func (e OrderStatusChanged) EventName() string { return "orders.order.status_changed" }

// OrderDeleted is raised after an order and its lines are removed.
type OrderDeleted struct {
	BaseEvent
}

func (e OrderDeleted) EventName() string { return "orders.order.deleted" }

// NewOrderPlaced builds the creation event for a persisted order.
func NewOrderPlaced(order *Order, at time.Time) OrderPlaced {
	lines := make([]LineEvent, 0, len(order.Lines))
	for _, line := range order.Lines {
		lines = append(lines, LineEvent{BeerID: line.BeerID, OrderQuantity: line.OrderQuantity})
	}
	return OrderPlaced{
		BaseEvent:  BaseEvent{OrderID: order.ID, Timestamp: at},
		CustomerID: order.CustomerID,
		Status:     order.Status,
		Lines:      lines,
	}
}
