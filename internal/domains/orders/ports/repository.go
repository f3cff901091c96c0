package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-inventory-server/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-inventory-server/internal/shared/filter"
	"github.com/Apurer/go-gin-inventory-server/internal/shared/projection"
)

var ErrNotFound = errors.New("order not found")

// OrderProjection is an order together with its persistence timestamps.
type OrderProjection = projection.Projection[*domain.Order]

// Repository persists orders.
type Repository interface {
	// Save inserts when order.ID is zero and updates otherwise.
	Save(ctx context.Context, order *domain.Order) (*OrderProjection, error)
	FindByID(ctx context.Context, id int64) (*OrderProjection, error)
	// DeleteByID does not report missing rows.
	DeleteByID(ctx context.Context, id int64) error
	FindAll(ctx context.Context) ([]*OrderProjection, error)
	FindAllMatching(ctx context.Context, f filter.Filter[*domain.Order]) ([]*OrderProjection, error)
	FindByStatus(ctx context.Context, status domain.Status) ([]*OrderProjection, error)
}
