package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"golang.org/x/sync/errgroup"

	breweryserver "github.com/Apurer/go-gin-brewery-api/go"
	"github.com/Apurer/go-gin-brewery-api/internal/domains/orders/adapters/callback"
	orderkafka "github.com/Apurer/go-gin-brewery-api/internal/domains/orders/adapters/messaging/kafka"
	orderworkflows "github.com/Apurer/go-gin-brewery-api/internal/domains/orders/adapters/workflows"
	orderapp "github.com/Apurer/go-gin-brewery-api/internal/domains/orders/application"
	orderports "github.com/Apurer/go-gin-brewery-api/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-brewery-api/internal/platform/metrics"
	platformobservability "github.com/Apurer/go-gin-brewery-api/internal/platform/observability"
)

const serviceName = "brewery-api"

// Run boots the brewery HTTP API with observability, repositories, and workflows
// wired, and serves until ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	stores, cleanupStores, err := BuildStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanupStores()

	publisher, closePublisher := BuildEventPublisher(cfg, logger)
	defer closePublisher()
	callbacks := buildCallbackDispatcher(cfg, logger)
	defer callbacks.Close()
	orderOpts := []orderapp.Option{orderapp.WithStatusNotifier(callbacks)}
	if publisher != nil {
		orderOpts = append(orderOpts, orderapp.WithEventPublisher(publisher))
	}
	services := BuildServices(stores, cfg, instruments, orderOpts...)

	if cfg.SeedData {
		if err := seed(ctx, stores, services.Beers, services.Customers, logger); err != nil {
			return fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	placement, closePlacement := selectPlacement(stores, services.Orders, func() (client.Client, error) {
		return ConnectTemporalClient(cfg, instruments, "temporal-client")
	}, logger)
	defer closePlacement()

	handlers := breweryserver.ApiHandleFunctions{
		BeerAPI:      breweryserver.NewBeerAPI(services.Beers),
		CustomerAPI:  breweryserver.NewCustomerAPI(services.Customers),
		InventoryAPI: breweryserver.NewInventoryAPI(services.Inventory),
		OrderAPI:     breweryserver.NewOrderAPI(services.Orders, placement),
	}

	httpMetrics := metrics.NewHTTPMetrics()
	router := gin.New()
	router.Use(gin.Recovery(), otelgin.Middleware(serviceName), httpMetrics.Middleware())
	router.GET("/metrics", gin.WrapH(httpMetrics.Handler()))
	breweryserver.NewRouterWithGinEngine(router, handlers)

	return serve(ctx, &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}, cfg.ShutdownTimeout, logger)
}

// serve runs srv until ctx is cancelled, then drains in-flight requests for up to grace.
func serve(ctx context.Context, srv *http.Server, grace time.Duration, logger *slog.Logger) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Brewery API listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Brewery API server exited", slog.String("addr", srv.Addr), slog.String("error", err.Error()))
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()
		logger.Info("shutting down Brewery API", slog.Duration("grace", grace))
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func buildCallbackDispatcher(cfg Config, logger *slog.Logger) *callback.Dispatcher {
	var opts []callback.Option
	if cfg.CallbackPrivate {
		logger.Warn("status callbacks may target private and loopback addresses")
		opts = append(opts, callback.WithPrivateTargets())
	}
	return callback.NewDispatcher(callback.NewNotifier(cfg.CallbackTimeout, opts...), cfg.CallbackTimeout, logger)
}

// selectPlacement routes order placement through Temporal only when the
// repositories are shared with the worker. In-memory stores live in this
// process alone, so a worker could never resolve the customers and beers.
func selectPlacement(stores *Stores, orders orderports.Service, dial func() (client.Client, error), logger *slog.Logger) (orderports.WorkflowOrchestrator, func()) {
	inline := orderworkflows.NewInlineOrderWorkflows(orders)
	if !stores.Durable {
		logger.Info("placing orders inline: in-memory repositories are not shared with a Temporal worker")
		return inline, func() {}
	}
	temporalClient, err := dial()
	if err != nil {
		logger.Warn("Temporal workflows unavailable, placing orders inline", slog.String("error", err.Error()))
		return inline, func() {}
	}
	logger.Info("Temporal workflows enabled")
	return orderworkflows.NewTemporalOrderWorkflows(temporalClient), temporalClient.Close
}

// BuildEventPublisher returns a Kafka publisher when brokers are configured,
// or nil when order events are disabled.
func BuildEventPublisher(cfg Config, logger *slog.Logger) (orderports.EventPublisher, func()) {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Warn("KAFKA_BROKERS not set, order events disabled")
		return nil, func() {}
	}
	publisher := orderkafka.NewPublisher(cfg.KafkaBrokers, cfg.OrderEventsTopic, orderkafka.WithLogger(logger))
	logger.Info("order events enabled", slog.String("topic", cfg.OrderEventsTopic), slog.Any("brokers", cfg.KafkaBrokers))
	return publisher, func() {
		if err := publisher.Close(); err != nil {
			logger.Error("failed to flush order events", slog.String("error", err.Error()))
		}
	}
}

// ConnectTemporalClient dials Temporal with tracing and structured logging.
func ConnectTemporalClient(cfg Config, instruments *platformobservability.Instruments, tracerName string) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer(tracerName)
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
