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

	"github.com/Apurer/store-orders-api/internal/app/api"
	platformobservability "github.com/Apurer/store-orders-api/internal/platform/observability"
	orderactivities "github.com/Apurer/store-orders-api/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/Apurer/store-orders-api/internal/platform/temporal/workflows/orders"
)

func main() {
	ctx := context.Background()
	const serviceName = "store-orders-worker"
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

	// Order events never notify clients, so the worker keeps the log publisher.
	backends, err := api.NewBackends(ctx, cfg, instruments, nil)
	if err != nil {
		logger.Error("failed to build order backends", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer backends.Close()
	if !backends.Durable {
		backends.Close()
		logger.Error("worker requires postgres; in-memory orders would not be visible to the API process")
		os.Exit(1)
	}
	activities := orderactivities.NewActivities(backends.Orders)

	temporalClient, err := api.DialTemporal(cfg, instruments)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.OrderEventTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.OrderEventWorkflow, workflow.RegisterOptions{Name: orderworkflows.OrderEventWorkflowName})
	w.RegisterActivityWithOptions(activities.CreateOrder, activity.RegisterOptions{Name: orderactivities.CreateOrderActivityName})
	w.RegisterActivityWithOptions(activities.ApplyDelivery, activity.RegisterOptions{Name: orderactivities.ApplyDeliveryActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.OrderEventTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
