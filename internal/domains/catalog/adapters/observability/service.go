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

	"github.com/Apurer/go-gin-brewery-api/internal/domains/catalog/application/types"
	"github.com/Apurer/go-gin-brewery-api/internal/domains/catalog/ports"
)

const tracerName = "github.com/Apurer/go-gin-brewery-api/internal/domains/catalog/adapters/observability/service"

// Service decorates the catalog port with tracing, logging, and metrics.
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
		s.changes, _ = m.Int64Counter("catalog.service.changes", metric.WithDescription("Number of beer writes by operation"))
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

func (s *Service) CreateBeer(ctx context.Context, input types.BeerInput) (*types.BeerProjection, error) {
	ctx, span := s.tracer.Start(ctx, "BeerService.CreateBeer", trace.WithAttributes(attribute.String("beer.upc", input.UPC)))
	defer span.End()

	result, err := s.inner.CreateBeer(ctx, input)
	if err != nil {
		return nil, s.fail(ctx, span, err, "failed to create beer", slog.String("beer.upc", input.UPC))
	}
	s.changed(ctx, "create", result.Entity.ID)
	return result, nil
}

func (s *Service) GetBeer(ctx context.Context, id int64) (*types.BeerProjection, error) {
	ctx, span := s.tracer.Start(ctx, "BeerService.GetBeer", trace.WithAttributes(attribute.Int64("beer.id", id)))
	defer span.End()

	result, err := s.inner.GetBeer(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, span, err, "failed to load beer", slog.Int64("beer.id", id))
	}
	return result, nil
}

func (s *Service) ListBeers(ctx context.Context, input types.ListBeersInput) (types.BeerPage, error) {
	ctx, span := s.tracer.Start(ctx, "BeerService.ListBeers")
	defer span.End()

	page, err := s.inner.ListBeers(ctx, input)
	if err != nil {
		return page, s.fail(ctx, span, err, "failed to list beers")
	}
	span.SetAttributes(attribute.Int("beer.result.count", len(page.Items)), attribute.Int64("beer.total", page.TotalElements))
	return page, nil
}

func (s *Service) UpdateBeer(ctx context.Context, input types.UpdateBeerInput) (*types.BeerProjection, error) {
	ctx, span := s.tracer.Start(ctx, "BeerService.UpdateBeer", trace.WithAttributes(attribute.Int64("beer.id", input.ID)))
	defer span.End()

	result, err := s.inner.UpdateBeer(ctx, input)
	if err != nil {
		return nil, s.fail(ctx, span, err, "failed to update beer", slog.Int64("beer.id", input.ID))
	}
	s.changed(ctx, "update", input.ID)
	return result, nil
}

func (s *Service) DeleteBeer(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "BeerService.DeleteBeer", trace.WithAttributes(attribute.Int64("beer.id", id)))
	defer span.End()

	if err := s.inner.DeleteBeer(ctx, id); err != nil {
		return s.fail(ctx, span, err, "failed to delete beer", slog.Int64("beer.id", id))
	}
	s.changed(ctx, "delete", id)
	return nil
}

func (s *Service) changed(ctx context.Context, operation string, id int64) {
	s.logger.LogAttrs(ctx, slog.LevelInfo, "beer "+operation+"d", slog.Int64("beer.id", id))
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
