package ports

import (
	"context"
	"errors"
	"time"

	"github.com/Apurer/go-gin-inventory-server/internal/domains/orders/domain"
)

// ErrProductMissing is returned by ProductLookup when the referenced product does not exist.
var ErrProductMissing = errors.New("referenced product does not exist")

// ProductLookup checks product references owned by the products context.
type ProductLookup interface {
	// EnsureProduct returns ErrProductMissing when no product has id.
	EnsureProduct(ctx context.Context, id int64) error
}

// StatusChange describes one lifecycle step applied to an order.
type StatusChange struct {
	OrderID    int64
	ProductID  int64
	From       domain.Status
	To         domain.Status
	OccurredAt time.Time
}

// StatusNotifier publishes lifecycle steps to interested parties.
type StatusNotifier interface {
	NotifyStatusChanged(ctx context.Context, change StatusChange) error
}

// WorkflowOrchestrator exposes durable workflow operations required by the orders bounded context.
type WorkflowOrchestrator interface {
	// PlaceOrder creates the order. A non-empty idempotencyKey deduplicates concurrent placements.
	PlaceOrder(ctx context.Context, order *domain.Order, idempotencyKey string) (*OrderProjection, error)
}
