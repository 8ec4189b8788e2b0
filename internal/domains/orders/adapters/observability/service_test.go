package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	ordermemory "github.com/Apurer/go-gin-brewery-api/internal/domains/orders/adapters/memory"
	"github.com/Apurer/go-gin-brewery-api/internal/domains/orders/application"
	"github.com/Apurer/go-gin-brewery-api/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-brewery-api/internal/domains/orders/domain"
)

type everyone struct{}

func (everyone) FindByID(_ context.Context, id int64) (*domain.CustomerRef, error) {
	return &domain.CustomerRef{ID: id}, nil
}

func (everyone) ExistsByID(context.Context, int64) (bool, error) { return true, nil }

func (everyone) FindByIDs(_ context.Context, ids []int64) (map[int64]*domain.BeerRef, error) {
	found := make(map[int64]*domain.BeerRef, len(ids))
	for _, id := range ids {
		found[id] = &domain.BeerRef{ID: id}
	}
	return found, nil
}

func newInstrumented(t *testing.T) (*tracetest.SpanRecorder, *sdkmetric.ManualReader, *Service) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tracerProvider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	reader := sdkmetric.NewManualReader()
	meterProvider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	core := application.NewService(ordermemory.NewRepository(), everyone{}, everyone{})
	svc := New(core,
		WithTracer(tracerProvider.Tracer("test")),
		WithMeter(meterProvider.Meter("test")),
	).(*Service)
	return recorder, reader, svc
}

func counterTotal(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	var total int64
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, point := range sum.DataPoints {
				total += point.Value
			}
		}
	}
	return total
}

func TestService_RecordsSpansAndCounters(t *testing.T) {
	recorder, reader, svc := newInstrumented(t)
	ctx := context.Background()

	created, err := svc.CreateOrder(ctx, types.CreateOrderInput{
		CustomerID: 1,
		Lines:      []types.LineInput{{BeerID: 1, OrderQuantity: 2}, {BeerID: 2, OrderQuantity: 1}},
	})
	require.NoError(t, err)
	_, _, err = svc.UpdateStatus(ctx, types.UpdateStatusInput{OrderID: created.Entity.ID, Status: "ALLOCATED"})
	require.NoError(t, err)
	deleted, err := svc.Delete(ctx, created.Entity.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	names := make([]string, 0)
	for _, span := range recorder.Ended() {
		names = append(names, span.Name())
	}
	require.Equal(t, []string{"OrderService.CreateOrder", "OrderService.UpdateStatus", "OrderService.Delete"}, names)

	require.Equal(t, int64(1), counterTotal(t, reader, "orders.service.placed"))
	require.Equal(t, int64(2), counterTotal(t, reader, "orders.service.lines_placed"))
	require.Equal(t, int64(1), counterTotal(t, reader, "orders.service.status_changed"))
	require.Equal(t, int64(1), counterTotal(t, reader, "orders.service.deleted"))
}

func TestService_MarksFailedSpans(t *testing.T) {
	recorder, _, svc := newInstrumented(t)

	_, err := svc.CreateOrder(context.Background(), types.CreateOrderInput{CustomerID: 1})
	require.ErrorIs(t, err, application.ErrInvalidInput)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	require.Equal(t, codes.Error, spans[0].Status().Code)
}
