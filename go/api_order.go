package breweryserver

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	ordermapper "github.com/Apurer/go-gin-brewery-api/internal/domains/orders/adapters/http/mapper"
	ordertypes "github.com/Apurer/go-gin-brewery-api/internal/domains/orders/application/types"
	orderports "github.com/Apurer/go-gin-brewery-api/internal/domains/orders/ports"
	apierrors "github.com/Apurer/go-gin-brewery-api/internal/shared/errors"
)

// IdempotencyKeyHeader lets clients retry order placement without creating duplicates.
const IdempotencyKeyHeader = "Idempotency-Key"

const maxIdempotencyKeyLength = 128

// OrderAPI wires HTTP transport with the order manager and placement workflows.
type OrderAPI struct {
	service   orderports.Service
	workflows orderports.WorkflowOrchestrator
}

// NewOrderAPI creates an OrderAPI. A nil workflows places orders directly through service.
func NewOrderAPI(service orderports.Service, workflows orderports.WorkflowOrchestrator) OrderAPI {
	return OrderAPI{service: service, workflows: workflows}
}

// Post /api/v1/beer-orders
// Place an order with all of its lines
func (api *OrderAPI) PlaceOrder(c *gin.Context) {
	key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
	if len(key) > maxIdempotencyKeyLength {
		respondProblem(c, apierrors.NewValidationProblem(map[string]string{IdempotencyKeyHeader: "must be at most 128 characters"}))
		return
	}
	var payload ordermapper.OrderPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondProblem(c, apierrors.FromBindingError(err))
		return
	}
	placed, err := api.placeOrder(c.Request.Context(), ordermapper.ToCreateOrderInput(payload, key))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Header("Location", c.FullPath()+"/"+formatID(placed.Entity.ID))
	c.JSON(http.StatusCreated, ordermapper.FromProjection(placed))
}

func (api *OrderAPI) placeOrder(ctx context.Context, input ordertypes.CreateOrderInput) (*ordertypes.OrderProjection, error) {
	if api.workflows != nil {
		return api.workflows.PlaceOrder(ctx, input)
	}
	return api.service.CreateOrder(ctx, input)
}

// Get /api/v1/beer-orders
func (api *OrderAPI) ListOrders(c *gin.Context) {
	input := ordertypes.ListOrdersInput{}
	if !bindPageParams(c, &input.PageNumber, &input.PageSize) {
		return
	}
	orders, err := api.service.List(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromProjectionList(orders))
}

// Get /api/v1/beer-orders/:orderId
func (api *OrderAPI) GetOrderById(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	order, found, err := api.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !found {
		respondProblem(c, apierrors.NewNotFoundProblem("order", id))
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromProjection(order))
}

// Get /api/v1/beer-orders/customer/:customerId
// Unknown customers yield an empty list
func (api *OrderAPI) ListCustomerOrders(c *gin.Context) {
	customerID, ok := parseIDParam(c, "customerId")
	if !ok {
		return
	}
	input := ordertypes.ListCustomerOrdersInput{CustomerID: customerID}
	if !bindPageParams(c, &input.PageNumber, &input.PageSize) {
		return
	}
	orders, err := api.service.ListByCustomer(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromProjectionList(orders))
}

// Put /api/v1/beer-orders/:orderId/status
// Move an order to the status named by the orderStatus query parameter
func (api *OrderAPI) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	var status string
	if err := runtime.BindQueryParameter("form", true, true, "orderStatus", c.Request.URL.Query(), &status); err != nil {
		respondProblem(c, apierrors.NewValidationProblem(map[string]string{"orderStatus": "is required"}))
		return
	}
	expected, ok := parseIfMatch(c)
	if !ok {
		return
	}
	updated, found, err := api.service.UpdateStatus(c.Request.Context(), ordertypes.UpdateStatusInput{
		OrderID:         id,
		Status:          status,
		ExpectedVersion: expected,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !found {
		respondProblem(c, apierrors.NewNotFoundProblem("order", id))
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromProjection(updated))
}

// Delete /api/v1/beer-orders/:orderId
func (api *OrderAPI) DeleteOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	deleted, err := api.service.Delete(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !deleted {
		respondProblem(c, apierrors.NewNotFoundProblem("order", id))
		return
	}
	c.Status(http.StatusNoContent)
}
