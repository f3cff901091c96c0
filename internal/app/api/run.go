package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	inventoryserver "github.com/Apurer/go-gin-inventory-server/go"
	orderworkflows "github.com/Apurer/go-gin-inventory-server/internal/domains/orders/adapters/workflows"
	ordersports "github.com/Apurer/go-gin-inventory-server/internal/domains/orders/ports"
	platformobservability "github.com/Apurer/go-gin-inventory-server/internal/platform/observability"
	platformtemporal "github.com/Apurer/go-gin-inventory-server/internal/platform/temporal"
)

const serviceName = "inventory-api"

// Run boots the inventory HTTP API with observability, repositories, and workflows wired.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
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

	services, cleanup, err := BuildServices(ctx, cfg, instruments, serviceName)
	if err != nil {
		return fmt.Errorf("failed to build services: %w", err)
	}
	defer cleanup()

	orderPlacement, closePlacement := buildOrderPlacement(cfg, services, instruments)
	defer closePlacement()

	handlers := inventoryserver.ApiHandleFunctions{
		OrderAPI:   inventoryserver.NewOrderAPI(services.Orders, orderPlacement, services.OrderIdempotency),
		ProductAPI: inventoryserver.NewProductAPI(services.Products),
	}
	router := inventoryserver.NewRouter(handlers, otelgin.Middleware(serviceName))

	addr := cfg.Addr()
	logger.Info("inventory API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("inventory API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

// buildOrderPlacement uses Temporal only when repositories are shared through PostgreSQL. The worker
// builds its own services, so with in-memory repositories it could not see the API's products.
func buildOrderPlacement(cfg Config, services *Services, instruments *platformobservability.Instruments) (ordersports.WorkflowOrchestrator, func()) {
	logger := instruments.Logger
	inline := orderworkflows.NewInlineOrderWorkflows(services.Orders)
	if !services.SharedStorage {
		logger.Info("repositories are in memory, placing orders inline")
		return inline, func() {}
	}
	temporalClient, err := platformtemporal.Dial(platformtemporal.Config{
		Address:   cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Disabled:  cfg.TemporalDisabled,
	}, instruments.Tracer("temporal-client"), logger)
	switch {
	case errors.Is(err, platformtemporal.ErrDisabled):
		logger.Info("Temporal disabled, placing orders inline")
		return inline, func() {}
	case err != nil:
		logger.Warn("Temporal workflows unavailable, placing orders inline", slog.String("error", err.Error()))
		return inline, func() {}
	}
	logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	return orderworkflows.NewTemporalOrderWorkflows(temporalClient), temporalClient.Close
}
