package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Apurer/go-gin-inventory-server/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-inventory-server/internal/domains/orders/ports"
)

// ErrInvalidTransition is returned when a handler yields a status outside the enumeration.
var ErrInvalidTransition = errors.New("lifecycle handler produced an invalid status")

// OrderSaver is the slice of the order repository the engine writes through.
type OrderSaver interface {
	Save(ctx context.Context, order *domain.Order) (*ports.OrderProjection, error)
}

// Engine advances orders one step using a Registry.
type Engine struct {
	registry *Registry
	store    OrderSaver
	notifier ports.StatusNotifier
	logger   *slog.Logger
	now      func() time.Time
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithNotifier publishes every applied step. Publishing errors are logged, never returned.
func WithNotifier(n ports.StatusNotifier) EngineOption {
	return func(e *Engine) {
		e.notifier = n
	}
}

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithClock overrides the time source used for status change events.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine wires the registry and the order store.
func NewEngine(registry *Registry, store OrderSaver, opts ...EngineOption) *Engine {
	e := &Engine{
		registry: registry,
		store:    store,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return e
}

// Advance applies the handler registered for the order's current status and saves the order once.
// Without a handler the order is returned unchanged and nothing is written.
func (e *Engine) Advance(ctx context.Context, current *ports.OrderProjection) (*ports.OrderProjection, error) {
	if current == nil || current.Entity == nil {
		return nil, errors.New("order is nil")
	}
	from := current.Entity.Status
	handler, ok := e.registry.Lookup(from)
	if !ok {
		e.logger.LogAttrs(ctx, slog.LevelWarn, "no lifecycle handler registered for status",
			slog.Int64("order.id", current.Entity.ID),
			slog.String("order.status", string(from)),
		)
		return current, nil
	}

	order := current.Entity.Clone()
	next := handler.Process(ctx, order)
	if !next.Valid() {
		return nil, fmt.Errorf("%s -> %q: %w", from, next, ErrInvalidTransition)
	}
	order.Status = next

	saved, err := e.store.Save(ctx, order)
	if err != nil {
		return nil, err
	}
	e.logger.LogAttrs(ctx, slog.LevelInfo, "order advanced",
		slog.Int64("order.id", saved.Entity.ID),
		slog.String("order.status.from", string(from)),
		slog.String("order.status.to", string(next)),
	)
	if from != next {
		e.notify(ctx, ports.StatusChange{
			OrderID:    saved.Entity.ID,
			ProductID:  saved.Entity.ProductID,
			From:       from,
			To:         next,
			OccurredAt: e.now().UTC(),
		})
	}
	return saved, nil
}

func (e *Engine) notify(ctx context.Context, change ports.StatusChange) {
	if e.notifier == nil {
		return
	}
	if err := e.notifier.NotifyStatusChanged(ctx, change); err != nil {
		e.logger.LogAttrs(ctx, slog.LevelError, "failed to publish order status change",
			slog.Int64("order.id", change.OrderID),
			slog.String("error", err.Error()),
		)
	}
}
