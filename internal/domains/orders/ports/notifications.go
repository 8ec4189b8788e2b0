package ports

import (
	"context"
	"time"

	"github.com/Apurer/go-gin-brewery-api/internal/domains/orders/domain"
)

// EventPublisher ships order domain events to other systems.
type EventPublisher interface {
	Publish(ctx context.Context, events ...domain.Event) error
}

// StatusNotification is delivered to an order's callback URL.
type StatusNotification struct {
	OrderID        int64         `json:"orderId"`
	CustomerID     int64         `json:"customerId"`
	Status         domain.Status `json:"orderStatus"`
	PreviousStatus domain.Status `json:"previousStatus,omitempty"`
	Version        int64         `json:"version"`
	OccurredAt     time.Time     `json:"occurredAt"`
}

// StatusNotifier calls back the URL an order was placed with.
type StatusNotifier interface {
	Notify(ctx context.Context, callbackURL string, notification StatusNotification) error
}
