package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	orderactivities "github.com/Apurer/go-gin-brewery-api/internal/durable/temporal/activities/orders"
	orderworkflows "github.com/Apurer/go-gin-brewery-api/internal/durable/temporal/workflows/orders"

	"github.com/Apurer/go-gin-brewery-api/internal/app/api"
	platformobservability "github.com/Apurer/go-gin-brewery-api/internal/platform/observability"
)

func main() {
	ctx := context.Background()
	const serviceName = "brewery-worker"
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	stores, cleanupStores, err := api.BuildStores(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build repositories", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanupStores()
	if !stores.Durable {
		logger.Warn("worker is using in-memory repositories; orders placed here are invisible to the API")
	}
	publisher, closePublisher := api.BuildEventPublisher(cfg, logger)
	defer closePublisher()

	// Placement runs without a publisher; NotifyOrderPlaced announces the order.
	services := api.BuildServices(stores, cfg, instruments)
	activities := orderactivities.NewActivities(services.Orders, stores.Orders, publisher)

	temporalClient, err := api.ConnectTemporalClient(cfg, instruments, "temporal-worker")
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.OrderPlacementTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.OrderPlacementWorkflow, workflow.RegisterOptions{Name: orderworkflows.OrderPlacementWorkflowName})
	w.RegisterActivityWithOptions(activities.PlaceOrder, activity.RegisterOptions{Name: orderactivities.PlaceOrderActivityName})
	w.RegisterActivityWithOptions(activities.NotifyOrderPlaced, activity.RegisterOptions{Name: orderactivities.NotifyOrderPlacedActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.OrderPlacementTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
