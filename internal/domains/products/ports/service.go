package ports

import (
	"context"

	"github.com/Apurer/go-gin-inventory-server/internal/domains/products/domain"
)

// SearchCriteria carries optional product search inputs; nil means "not filtered".
type SearchCriteria struct {
	Name     *string
	Category *string
}

// IsEmpty reports whether no criterion is present.
func (c SearchCriteria) IsEmpty() bool {
	return c.Name == nil && c.Category == nil
}

// Service exposes product use cases to adapters.
type Service interface {
	CreateProduct(ctx context.Context, product *domain.Product) (*ProductProjection, error)
	RetrieveProduct(ctx context.Context, id int64) (*ProductProjection, error)
	UpdateProduct(ctx context.Context, product *domain.Product) (*ProductProjection, error)
	DeleteProduct(ctx context.Context, id int64) error
	ListProducts(ctx context.Context) ([]*ProductProjection, error)
	SearchProducts(ctx context.Context, criteria SearchCriteria) ([]*ProductProjection, error)
	LookupProducts(ctx context.Context, name, category string) ([]*ProductProjection, error)
	AdjustStock(ctx context.Context, id int64, delta int) (*ProductProjection, error)
}
