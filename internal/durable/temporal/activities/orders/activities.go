package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/go-gin-brewery-api/internal/domains/orders/application"
	ordertypes "github.com/Apurer/go-gin-brewery-api/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-brewery-api/internal/domains/orders/domain"
	orderports "github.com/Apurer/go-gin-brewery-api/internal/domains/orders/ports"
)

const (
	// PlaceOrderActivityName persists an order and its lines.
	PlaceOrderActivityName = "orders.activities.PlaceOrder"
	// NotifyOrderPlacedActivityName publishes the placement event for a persisted order.
	NotifyOrderPlacedActivityName = "orders.activities.NotifyOrderPlaced"
)

// Error types carried by non-retryable activity failures.
const (
	ErrorTypeReferenceNotFound   = "ReferenceNotFound"
	ErrorTypeInvalidInput        = "InvalidInput"
	ErrorTypeIdempotencyConflict = "IdempotencyConflict"
)

// NotifyOrderPlacedInput identifies the order whose placement is announced.
type NotifyOrderPlacedInput struct {
	OrderID int64
}

// Activities groups the order placement activities.
type Activities struct {
	placeService orderports.Service
	repo         orderports.Repository
	events       orderports.EventPublisher
}

// NewActivities wires the order collaborators into the Temporal activities bundle.
// placeService should be built without an event publisher; NotifyOrderPlaced owns that step.
func NewActivities(placeService orderports.Service, repo orderports.Repository, events orderports.EventPublisher) *Activities {
	return &Activities{placeService: placeService, repo: repo, events: events}
}

// PlaceOrder validates and persists the order. Validation and reference
// failures are returned as non-retryable so the workflow fails fast.
func (a *Activities) PlaceOrder(ctx context.Context, input ordertypes.CreateOrderInput) (*ordertypes.OrderProjection, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.placeService == nil {
		logger.Error("order placement activity not initialized", "customerId", input.CustomerID)
		return nil, errors.New("order placement activity not initialized")
	}
	logger.Info("PlaceOrder activity started", "customerId", input.CustomerID, "lines", len(input.Lines))
	projection, err := a.placeService.CreateOrder(ctx, input)
	if err != nil {
		logger.Error("PlaceOrder activity failed", "customerId", input.CustomerID, "error", err)
		return nil, classify(err)
	}
	logger.Info("PlaceOrder activity completed", "orderId", projection.Entity.ID)
	return projection, nil
}

// NotifyOrderPlaced loads the order and publishes its placement event once.
func (a *Activities) NotifyOrderPlaced(ctx context.Context, input NotifyOrderPlacedInput) error {
	logger := activity.GetLogger(ctx)
	if a == nil {
		return errors.New("order notification activity not initialized")
	}
	if a.events == nil {
		logger.Info("event publisher not configured; skipping", "orderId", input.OrderID)
		return nil
	}
	if a.repo == nil {
		logger.Error("order repository not configured for notification", "orderId", input.OrderID)
		return errors.New("order repository not configured for notification")
	}

	var hb notifyHeartbeat
	if activity.HasHeartbeatDetails(ctx) {
		_ = activity.GetHeartbeatDetails(ctx, &hb)
	}
	if hb.Published {
		logger.Info("NotifyOrderPlaced already completed in prior attempt; skipping", "orderId", input.OrderID)
		return nil
	}

	projection, err := a.repo.GetByID(ctx, input.OrderID)
	if errors.Is(err, orderports.ErrNotFound) {
		logger.Info("order deleted before notification; skipping", "orderId", input.OrderID)
		return nil
	}
	if err != nil {
		logger.Error("NotifyOrderPlaced failed to load order", "orderId", input.OrderID, "error", err)
		return err
	}
	info := activity.GetInfo(ctx)
	if err := a.events.Publish(ctx, domain.NewOrderPlaced(projection.Entity, info.StartedTime)); err != nil {
		logger.Error("NotifyOrderPlaced failed", "orderId", input.OrderID, "error", err)
		return err
	}
	activity.RecordHeartbeat(ctx, notifyHeartbeat{Published: true})
	logger.Info("NotifyOrderPlaced activity completed", "orderId", input.OrderID)
	return nil
}

type notifyHeartbeat struct {
	Published bool
}

func classify(err error) error {
	var ref *application.ReferenceError
	switch {
	case errors.As(err, &ref):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrorTypeReferenceNotFound, err, *ref)
	case errors.Is(err, application.ErrInvalidInput):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrorTypeInvalidInput, err)
	case errors.Is(err, orderports.ErrIdempotencyConflict):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrorTypeIdempotencyConflict, err)
	default:
		return err
	}
}
