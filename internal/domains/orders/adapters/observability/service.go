package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/go-gin-brewery-api/internal/domains/orders/application"
	"github.com/Apurer/go-gin-brewery-api/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-brewery-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-brewery-api/internal/domains/orders/ports"
)

const tracerName = "github.com/Apurer/go-gin-brewery-api/internal/domains/orders/adapters/observability/service"

// Service decorates the orders application port with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wires a decorator around the core service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

// CreateOrder places an order with instrumentation.
func (s *Service) CreateOrder(ctx context.Context, input types.CreateOrderInput) (*types.OrderProjection, error) {
	ctx, span := s.startSpan(ctx, "OrderService.CreateOrder",
		attribute.Int64("order.customer_id", input.CustomerID),
		attribute.Int("order.line_count", len(input.Lines)),
	)
	defer span.End()

	s.logInfo(ctx, "placing order", slog.Int64("customer.id", input.CustomerID), slog.Int("lines", len(input.Lines)))
	result, err := s.inner.CreateOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to place order", referenceAttrs(err, slog.Int64("customer.id", input.CustomerID))...)
	}
	if result != nil && result.Entity != nil {
		span.SetAttributes(attribute.Int64("order.id", result.Entity.ID))
		s.metrics.recordPlaced(ctx, len(result.Entity.Lines))
		s.logInfo(ctx, "order placed", slog.Int64("order.id", result.Entity.ID), slog.Int64("customer.id", result.Entity.CustomerID))
	}
	return result, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*types.OrderProjection, bool, error) {
	ctx, span := s.startSpan(ctx, "OrderService.GetByID", attribute.Int64("order.id", id))
	defer span.End()

	result, found, err := s.inner.GetByID(ctx, id)
	if err != nil {
		return nil, false, s.handleError(ctx, span, err, "failed to load order", slog.Int64("order.id", id))
	}
	span.SetAttributes(attribute.Bool("order.found", found))
	return result, found, nil
}

func (s *Service) List(ctx context.Context, input types.ListOrdersInput) ([]*types.OrderProjection, error) {
	ctx, span := s.startSpan(ctx, "OrderService.List", pageAttrs(input.PageInput)...)
	defer span.End()

	result, err := s.inner.List(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int("order.result.count", len(result)))
	return result, nil
}

func (s *Service) ListByCustomer(ctx context.Context, input types.ListCustomerOrdersInput) ([]*types.OrderProjection, error) {
	attrs := append(pageAttrs(input.PageInput), attribute.Int64("order.customer_id", input.CustomerID))
	ctx, span := s.startSpan(ctx, "OrderService.ListByCustomer", attrs...)
	defer span.End()

	result, err := s.inner.ListByCustomer(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list customer orders", slog.Int64("customer.id", input.CustomerID))
	}
	span.SetAttributes(attribute.Int("order.result.count", len(result)))
	return result, nil
}

// UpdateStatus moves an order to a new status with instrumentation.
func (s *Service) UpdateStatus(ctx context.Context, input types.UpdateStatusInput) (*types.OrderProjection, bool, error) {
	ctx, span := s.startSpan(ctx, "OrderService.UpdateStatus",
		attribute.Int64("order.id", input.OrderID),
		attribute.String("order.status.requested", input.Status),
	)
	defer span.End()

	s.logInfo(ctx, "updating order status", slog.Int64("order.id", input.OrderID), slog.String("status", input.Status))
	result, found, err := s.inner.UpdateStatus(ctx, input)
	if err != nil {
		if errors.Is(err, ports.ErrConcurrentModification) {
			s.metrics.recordConflict(ctx)
		}
		return nil, found, s.handleError(ctx, span, err, "failed to update order status", slog.Int64("order.id", input.OrderID))
	}
	if !found {
		s.logInfo(ctx, "order not found for status update", slog.Int64("order.id", input.OrderID))
		return nil, false, nil
	}
	if result != nil && result.Entity != nil {
		s.metrics.recordStatusChanged(ctx, result.Entity.Status)
		s.logInfo(ctx, "order status updated",
			slog.Int64("order.id", result.Entity.ID),
			slog.String("status", string(result.Entity.Status)),
			slog.Int64("version", result.Entity.Version),
		)
	}
	return result, true, nil
}

func (s *Service) Delete(ctx context.Context, id int64) (bool, error) {
	ctx, span := s.startSpan(ctx, "OrderService.Delete", attribute.Int64("order.id", id))
	defer span.End()

	deleted, err := s.inner.Delete(ctx, id)
	if err != nil {
		return false, s.handleError(ctx, span, err, "failed to delete order", slog.Int64("order.id", id))
	}
	if deleted {
		s.metrics.recordDeleted(ctx)
		s.logInfo(ctx, "order deleted", slog.Int64("order.id", id))
	}
	return deleted, nil
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := s.tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

func pageAttrs(page types.PageInput) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 2)
	if page.PageNumber != nil {
		attrs = append(attrs, attribute.Int("page.number", int(*page.PageNumber)))
	}
	if page.PageSize != nil {
		attrs = append(attrs, attribute.Int("page.size", int(*page.PageSize)))
	}
	return attrs
}

func referenceAttrs(err error, attrs ...slog.Attr) []slog.Attr {
	var ref *application.ReferenceError
	if errors.As(err, &ref) {
		attrs = append(attrs,
			slog.String("reference.resource", string(ref.Resource)),
			slog.Int64("reference.id", ref.ID),
			slog.Int("reference.line", ref.LineIndex),
		)
	}
	return attrs
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	ordersPlaced   metric.Int64Counter
	linesPlaced    metric.Int64Counter
	statusChanges  metric.Int64Counter
	ordersDeleted  metric.Int64Counter
	writeConflicts metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersPlaced, _ := m.Int64Counter("orders.service.placed", metric.WithDescription("Number of orders placed"))
	linesPlaced, _ := m.Int64Counter("orders.service.lines_placed", metric.WithDescription("Number of order lines placed"))
	statusChanges, _ := m.Int64Counter("orders.service.status_changed", metric.WithDescription("Number of order status updates"))
	ordersDeleted, _ := m.Int64Counter("orders.service.deleted", metric.WithDescription("Number of orders deleted"))
	writeConflicts, _ := m.Int64Counter("orders.service.conflicts", metric.WithDescription("Number of status updates rejected by version checks"))
	return serviceMetrics{
		ordersPlaced:   ordersPlaced,
		linesPlaced:    linesPlaced,
		statusChanges:  statusChanges,
		ordersDeleted:  ordersDeleted,
		writeConflicts: writeConflicts,
	}
}

func (m serviceMetrics) recordPlaced(ctx context.Context, lines int) {
	addCounter(ctx, m.ordersPlaced, 1)
	addCounter(ctx, m.linesPlaced, int64(lines))
}

func (m serviceMetrics) recordStatusChanged(ctx context.Context, status domain.Status) {
	addCounter(ctx, m.statusChanges, 1, attribute.String("order.status", string(status)))
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	addCounter(ctx, m.ordersDeleted, 1)
}

func (m serviceMetrics) recordConflict(ctx context.Context) {
	addCounter(ctx, m.writeConflicts, 1)
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.Service = (*Service)(nil)
