package sequences

import (
	"strings"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	ordertypes "github.com/Apurer/go-gin-brewery-api/internal/domains/orders/application/types"
	orderactivities "github.com/Apurer/go-gin-brewery-api/internal/durable/temporal/activities/orders"
)

// WorkflowKeyPrefix marks idempotency keys derived from a workflow id.
const WorkflowKeyPrefix = "workflow:"

// RunOrderPlacementSequence persists the order, then announces it. A failed
// announcement does not undo the placement. Requests without an idempotency
// key are keyed by the workflow id so a retried PlaceOrder whose first result
// was lost returns the order already committed.
func RunOrderPlacementSequence(ctx workflow.Context, input ordertypes.CreateOrderInput) (*ordertypes.OrderProjection, error) {
	logger := workflow.GetLogger(ctx)
	if strings.TrimSpace(input.IdempotencyKey) == "" {
		input.IdempotencyKey = WorkflowKeyPrefix + workflow.GetInfo(ctx).WorkflowExecution.ID
	}
	logger.Info("order placement sequence started", "customerId", input.CustomerID)
	placeOptions := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}
	notifyOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		HeartbeatTimeout:    10 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    5 * time.Second,
			MaximumAttempts:    3,
		},
	}

	var projection ordertypes.OrderProjection
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, placeOptions), orderactivities.PlaceOrderActivityName, input).Get(ctx, &projection)
	if err != nil {
		logger.Error("order placement sequence failed", "customerId", input.CustomerID, "error", err)
		return nil, err
	}
	if projection.Entity == nil {
		logger.Error("order placement sequence returned no order", "customerId", input.CustomerID)
		return &projection, nil
	}
	logger.Info("order placement sequence persisted", "orderId", projection.Entity.ID)

	notifyInput := orderactivities.NotifyOrderPlacedInput{OrderID: projection.Entity.ID}
	if err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, notifyOptions), orderactivities.NotifyOrderPlacedActivityName, notifyInput).Get(ctx, nil); err != nil {
		logger.Warn("order placement notification failed", "orderId", projection.Entity.ID, "error", err)
		return &projection, nil
	}
	logger.Info("order placement sequence notified", "orderId", projection.Entity.ID)
	return &projection, nil
}
