package ports

import (
	"context"

	"github.com/Apurer/go-gin-inventory-server/internal/domains/orders/domain"
)

// SearchCriteria carries optional order search inputs; nil means "not filtered".
type SearchCriteria struct {
	Status    *domain.Status
	ProductID *int64
}

// IsEmpty reports whether no criterion is present.
func (c SearchCriteria) IsEmpty() bool {
	return c.Status == nil && c.ProductID == nil
}

// Service exposes order use cases to adapters.
type Service interface {
	CreateOrder(ctx context.Context, order *domain.Order) (*OrderProjection, error)
	RetrieveOrder(ctx context.Context, id int64) (*OrderProjection, error)
	UpdateOrder(ctx context.Context, order *domain.Order) (*OrderProjection, error)
	DeleteOrder(ctx context.Context, id int64) error
	ListOrders(ctx context.Context) ([]*OrderProjection, error)
	// SearchOrders lists orders in status, or every order when status is nil.
	SearchOrders(ctx context.Context, status *domain.Status) ([]*OrderProjection, error)
	AdvancedSearchOrders(ctx context.Context, criteria SearchCriteria) ([]*OrderProjection, error)
	// AdvanceOrder moves an order one lifecycle step forward when a handler exists for its status.
	AdvanceOrder(ctx context.Context, id int64) (*OrderProjection, error)
}
