package workflows

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/go-gin-brewery-api/internal/domains/orders/application"
	ordertypes "github.com/Apurer/go-gin-brewery-api/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-brewery-api/internal/domains/orders/ports"
	orderactivities "github.com/Apurer/go-gin-brewery-api/internal/durable/temporal/activities/orders"
)

func TestBuildWorkflowID_IdempotencyKeyIsStable(t *testing.T) {
	input := ordertypes.CreateOrderInput{CustomerID: 10, IdempotencyKey: " key-1 "}
	first := buildOrderPlacementWorkflowID(input, "trace-a")
	second := buildOrderPlacementWorkflowID(input, "trace-b")
	require.Equal(t, first, second)
	require.True(t, strings.HasPrefix(first, "order-placement-idem-"))

	withoutKey := buildOrderPlacementWorkflowID(ordertypes.CreateOrderInput{CustomerID: 10}, "")
	require.True(t, strings.HasPrefix(withoutKey, "order-placement-10-"))
	require.NotEqual(t, withoutKey, buildOrderPlacementWorkflowID(ordertypes.CreateOrderInput{CustomerID: 10}, ""))
}

func TestTranslateWorkflowError(t *testing.T) {
	ref := application.ReferenceError{Resource: application.ResourceCustomer, ID: 99, LineIndex: -1}
	err := TranslateWorkflowError(temporal.NewNonRetryableApplicationError("missing", orderactivities.ErrorTypeReferenceNotFound, nil, ref))
	require.ErrorIs(t, err, application.ErrReferenceNotFound)
	var got *application.ReferenceError
	require.True(t, errors.As(err, &got))
	require.Equal(t, int64(99), got.ID)

	err = TranslateWorkflowError(temporal.NewNonRetryableApplicationError("bad", orderactivities.ErrorTypeInvalidInput, nil))
	require.ErrorIs(t, err, application.ErrInvalidInput)

	err = TranslateWorkflowError(temporal.NewNonRetryableApplicationError("dup", orderactivities.ErrorTypeIdempotencyConflict, nil))
	require.ErrorIs(t, err, ports.ErrIdempotencyConflict)

	plain := errors.New("boom")
	require.Equal(t, plain, TranslateWorkflowError(plain))
}

type placingService struct {
	ports.Service
	calls int
}

func (s *placingService) CreateOrder(_ context.Context, input ordertypes.CreateOrderInput) (*ordertypes.OrderProjection, error) {
	s.calls++
	return &ordertypes.OrderProjection{}, nil
}

func TestInlineOrderWorkflows_DelegatesToService(t *testing.T) {
	svc := &placingService{}
	_, err := NewInlineOrderWorkflows(svc).PlaceOrder(context.Background(), ordertypes.CreateOrderInput{CustomerID: 10})
	require.NoError(t, err)
	require.Equal(t, 1, svc.calls)

	_, err = NewInlineOrderWorkflows(nil).PlaceOrder(context.Background(), ordertypes.CreateOrderInput{})
	require.Error(t, err)
}
