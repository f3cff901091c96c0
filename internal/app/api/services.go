package api

import (
	"context"
	"log/slog"

	"gorm.io/gorm"

	"github.com/Apurer/go-gin-inventory-server/internal/domains/orders/adapters/catalog"
	ordermemory "github.com/Apurer/go-gin-inventory-server/internal/domains/orders/adapters/memory"
	orderkafka "github.com/Apurer/go-gin-inventory-server/internal/domains/orders/adapters/messaging/kafka"
	ordersobs "github.com/Apurer/go-gin-inventory-server/internal/domains/orders/adapters/observability"
	orderpostgres "github.com/Apurer/go-gin-inventory-server/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/Apurer/go-gin-inventory-server/internal/domains/orders/application"
	"github.com/Apurer/go-gin-inventory-server/internal/domains/orders/lifecycle"
	ordersports "github.com/Apurer/go-gin-inventory-server/internal/domains/orders/ports"
	productmemory "github.com/Apurer/go-gin-inventory-server/internal/domains/products/adapters/memory"
	productsobs "github.com/Apurer/go-gin-inventory-server/internal/domains/products/adapters/observability"
	productpostgres "github.com/Apurer/go-gin-inventory-server/internal/domains/products/adapters/persistence/postgres"
	productsapp "github.com/Apurer/go-gin-inventory-server/internal/domains/products/application"
	productsports "github.com/Apurer/go-gin-inventory-server/internal/domains/products/ports"
	platformkafka "github.com/Apurer/go-gin-inventory-server/internal/platform/kafka"
	"github.com/Apurer/go-gin-inventory-server/internal/platform/migrations"
	platformobservability "github.com/Apurer/go-gin-inventory-server/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-gin-inventory-server/internal/platform/postgres"
)

// Services bundles the decorated use cases shared by the API and the worker.
type Services struct {
	Products         productsports.Service
	Orders           ordersports.Service
	OrderIdempotency ordersports.IdempotencyStore
	// SharedStorage is true when repositories live in PostgreSQL, so separate processes see the same data.
	SharedStorage bool
}

// BuildServices wires repositories, the lifecycle engine, and optional notifications.
// The returned cleanup releases the database and Kafka writer.
func BuildServices(ctx context.Context, cfg Config, instruments *platformobservability.Instruments, clientID string) (*Services, func(), error) {
	logger := instruments.Logger
	db, cleanupDB := platformpostgres.ConnectWithFallback(ctx, cfg.PostgresDSN, logger)
	repos := buildRepositories(db, logger)
	productRepo, orderRepo := repos.products, repos.orders

	productService := productsobs.New(
		productsapp.NewService(productRepo),
		productsobs.WithLogger(logger),
		productsobs.WithTracer(instruments.Tracer("internal.products.application")),
		productsobs.WithMeter(instruments.Meter("internal.products.application")),
	)

	registry, err := lifecycle.NewDefaultRegistry()
	if err != nil {
		cleanupDB()
		return nil, nil, err
	}
	engineOpts := []lifecycle.EngineOption{lifecycle.WithLogger(logger)}
	notifier, closeNotifier := buildStatusNotifier(cfg, instruments, clientID)
	if notifier != nil {
		engineOpts = append(engineOpts, lifecycle.WithNotifier(notifier))
	}
	engine := lifecycle.NewEngine(registry, orderRepo, engineOpts...)

	policy := ordersapp.AdvanceOnCreateAndUpdate
	if !cfg.OrderAdvanceOnUpdate {
		policy = ordersapp.AdvanceOnCreate
	}
	logger.Info("order lifecycle configured",
		slog.String("advance_policy", policy.String()),
		slog.Bool("notifications", notifier != nil),
	)
	orderService := ordersobs.New(
		ordersapp.NewService(orderRepo, engine,
			ordersapp.WithAdvancePolicy(policy),
			ordersapp.WithProductLookup(catalog.NewProductLookup(productService)),
			ordersapp.WithLogger(logger),
		),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	cleanup := func() {
		closeNotifier()
		cleanupDB()
	}
	return &Services{
		Products:         productService,
		Orders:           orderService,
		OrderIdempotency: repos.idempotency,
		SharedStorage:    repos.shared,
	}, cleanup, nil
}

type repositories struct {
	products    productsports.Repository
	orders      ordersports.Repository
	idempotency ordersports.IdempotencyStore
	shared      bool
}

func buildRepositories(db *gorm.DB, logger *slog.Logger) repositories {
	inMemory := repositories{
		products:    productmemory.NewRepository(),
		orders:      ordermemory.NewRepository(),
		idempotency: ordermemory.NewIdempotencyStore(),
	}
	if db == nil {
		return inMemory
	}
	if err := migrations.Run(db); err != nil {
		logger.Warn("schema migration failed, falling back to in-memory repositories", slog.String("error", err.Error()))
		return inMemory
	}
	logger.Info("repositories configured with postgres")
	return repositories{
		products:    productpostgres.NewRepository(db),
		orders:      orderpostgres.NewRepository(db),
		idempotency: orderpostgres.NewIdempotencyStore(db),
		shared:      true,
	}
}

func buildStatusNotifier(cfg Config, instruments *platformobservability.Instruments, clientID string) (ordersports.StatusNotifier, func()) {
	logger := instruments.Logger
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("KAFKA_BROKERS not set, order status notifications disabled")
		return nil, func() {}
	}
	producer, err := platformkafka.NewTracedWriter(platformkafka.WriterConfig{
		Brokers:  cfg.KafkaBrokers,
		Topic:    cfg.OrderStatusTopic,
		ClientID: clientID,
	}, instruments.TracerProvider)
	if err != nil {
		logger.Warn("failed to configure kafka writer, order status notifications disabled", slog.String("error", err.Error()))
		return nil, func() {}
	}
	notifier := orderkafka.NewStatusNotifier(producer)
	logger.Info("order status notifications enabled",
		slog.String("topic", cfg.OrderStatusTopic),
		slog.Any("brokers", cfg.KafkaBrokers),
	)
	return notifier, func() {
		if err := notifier.Close(); err != nil {
			logger.Warn("failed to close kafka writer", slog.String("error", err.Error()))
		}
	}
}
