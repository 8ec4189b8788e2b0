package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/go-gin-brewery-api/internal/domains/customers/application/types"
	"github.com/Apurer/go-gin-brewery-api/internal/domains/customers/ports"
)

const tracerName = "github.com/Apurer/go-gin-brewery-api/internal/domains/customers/adapters/observability/service"

// Service decorates the customer directory port with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	changes metric.Int64Counter
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		if m == nil {
			return
		}
		s.changes, _ = m.Int64Counter("customers.service.changes", metric.WithDescription("Number of customer writes by operation"))
	}
}

func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:  inner,
		tracer: nooptrace.NewTracerProvider().Tracer(tracerName),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Service) CreateCustomer(ctx context.Context, input types.CustomerInput) (*types.CustomerProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CustomerService.CreateCustomer")
	defer span.End()

	result, err := s.inner.CreateCustomer(ctx, input)
	if err != nil {
		return nil, s.fail(ctx, span, err, "failed to create customer")
	}
	s.changed(ctx, "create", result.Entity.ID)
	return result, nil
}

func (s *Service) GetCustomer(ctx context.Context, id int64) (*types.CustomerProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CustomerService.GetCustomer", trace.WithAttributes(attribute.Int64("customer.id", id)))
	defer span.End()

	result, err := s.inner.GetCustomer(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, span, err, "failed to load customer", slog.Int64("customer.id", id))
	}
	return result, nil
}

func (s *Service) ListCustomers(ctx context.Context) ([]*types.CustomerProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CustomerService.ListCustomers")
	defer span.End()

	result, err := s.inner.ListCustomers(ctx)
	if err != nil {
		return nil, s.fail(ctx, span, err, "failed to list customers")
	}
	span.SetAttributes(attribute.Int("customer.result.count", len(result)))
	return result, nil
}

func (s *Service) UpdateCustomer(ctx context.Context, input types.UpdateCustomerInput) (*types.CustomerProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CustomerService.UpdateCustomer", trace.WithAttributes(attribute.Int64("customer.id", input.ID)))
	defer span.End()

	result, err := s.inner.UpdateCustomer(ctx, input)
	if err != nil {
		return nil, s.fail(ctx, span, err, "failed to update customer", slog.Int64("customer.id", input.ID))
	}
	s.changed(ctx, "update", input.ID)
	return result, nil
}

func (s *Service) DeleteCustomer(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "CustomerService.DeleteCustomer", trace.WithAttributes(attribute.Int64("customer.id", id)))
	defer span.End()

	if err := s.inner.DeleteCustomer(ctx, id); err != nil {
		return s.fail(ctx, span, err, "failed to delete customer", slog.Int64("customer.id", id))
	}
	s.changed(ctx, "delete", id)
	return nil
}

func (s *Service) changed(ctx context.Context, operation string, id int64) {
	s.logger.LogAttrs(ctx, slog.LevelInfo, "customer "+operation+"d", slog.Int64("customer.id", id))
	if s.changes != nil {
		s.changes.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", operation)))
	}
}

func (s *Service) fail(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	s.logger.LogAttrs(ctx, slog.LevelError, msg, append(attrs, slog.String("error", err.Error()))...)
	return err
}

var _ ports.Service = (*Service)(nil)
