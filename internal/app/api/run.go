package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	orderserver "github.com/name-hansel/kore-ai-api/go"

	ordersworkflows "github.com/name-hansel/kore-ai-api/internal/domains/orders/adapters/workflows"
	ordersports "github.com/name-hansel/kore-ai-api/internal/domains/orders/ports"
	"github.com/name-hansel/kore-ai-api/internal/jobs"
	platformobservability "github.com/name-hansel/kore-ai-api/internal/platform/observability"
	platformpostgres "github.com/name-hansel/kore-ai-api/internal/platform/postgres"
)

const serviceName = "orders-api"

// Run boots the orders HTTP API with observability, repositories, events, jobs and workflows wired.
// It returns when ctx is cancelled and the server has drained.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	instruments, shutdown, err := platformobservability.Init(ctx, ObservabilitySettings(cfg, serviceName))
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

	db, closeDB := platformpostgres.ConnectOrFallback(ctx, cfg.PostgresDSN, logger)
	defer closeDB()
	orders, err := BuildOrders(cfg, db, instruments)
	if err != nil {
		return err
	}
	defer func() {
		if err := orders.Close(); err != nil {
			logger.Warn("failed to close order events producer", slog.String("error", err.Error()))
		}
	}()

	var orderWorkflows ordersports.WorkflowOrchestrator = ordersworkflows.NewInlineOrderWorkflows(orders.Service)
	if temporalClient, err := DialTemporal(cfg, instruments, "temporal-client"); err != nil {
		logger.Warn("Temporal workflows unavailable, placing orders inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		orderWorkflows = ordersworkflows.NewTemporalOrderWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	var jobManager *jobs.JobManager
	if cfg.CapacitySnapshotSchedule != "" {
		snapshotJob, err := jobs.NewCapacitySnapshotJob(orders.Core.Capacity(), cfg.CapacitySnapshotSchedule, instruments.Meter("internal.jobs"), logger)
		if err != nil {
			return fmt.Errorf("failed to build capacity snapshot job: %w", err)
		}
		jobManager = jobs.NewJobManager(snapshotJob)
	} else {
		jobManager = jobs.NewJobManager()
	}
	if err := jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	handlers := orderserver.ApiHandleFunctions{
		OrderAPI: orderserver.NewOrderAPI(orders.Service, orderWorkflows),
		Metrics:  instruments.MetricsHandler,
	}
	router := orderserver.NewRouter(handlers, otelgin.Middleware(serviceName))

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Orders API listening", slog.String("addr", server.Addr))
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Orders API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
			return err
		}
		return nil
	case <-ctx.Done():
	}
	logger.Info("Orders API shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
