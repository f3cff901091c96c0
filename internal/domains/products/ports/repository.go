package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-inventory-server/internal/domains/products/domain"
	"github.com/Apurer/go-gin-inventory-server/internal/shared/filter"
	"github.com/Apurer/go-gin-inventory-server/internal/shared/projection"
)

var (
	ErrNotFound      = errors.New("product not found")
	ErrDuplicateName = errors.New("product name already exists")
)

// ProductProjection is a product together with its persistence timestamps.
type ProductProjection = projection.Projection[*domain.Product]

// Repository persists products.
type Repository interface {
	// Save inserts when product.ID is zero and updates otherwise.
	Save(ctx context.Context, product *domain.Product) (*ProductProjection, error)
	FindByID(ctx context.Context, id int64) (*ProductProjection, error)
	// DeleteByID does not report missing rows.
	DeleteByID(ctx context.Context, id int64) error
	FindAll(ctx context.Context) ([]*ProductProjection, error)
	FindAllMatching(ctx context.Context, f filter.Filter[*domain.Product]) ([]*ProductProjection, error)
	// FindByNameContainingAndCategoryContaining matches case-sensitive substrings on both fields.
	FindByNameContainingAndCategoryContaining(ctx context.Context, name, category string) ([]*ProductProjection, error)
}
