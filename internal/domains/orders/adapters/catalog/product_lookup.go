package catalog

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-inventory-server/internal/domains/orders/ports"
	productports "github.com/Apurer/go-gin-inventory-server/internal/domains/products/ports"
)

var _ ports.ProductLookup = (*ProductLookup)(nil)

// ProductRetriever is the products use case the lookup relies on.
type ProductRetriever interface {
	RetrieveProduct(ctx context.Context, id int64) (*productports.ProductProjection, error)
}

// ProductLookup resolves order product references against the products bounded context.
type ProductLookup struct {
	products ProductRetriever
}

func NewProductLookup(products ProductRetriever) *ProductLookup {
	return &ProductLookup{products: products}
}

func (l *ProductLookup) EnsureProduct(ctx context.Context, id int64) error {
	if l == nil || l.products == nil {
		return errors.New("product lookup not configured")
	}
	if _, err := l.products.RetrieveProduct(ctx, id); err != nil {
		if errors.Is(err, productports.ErrNotFound) {
			return ports.ErrProductMissing
		}
		return err
	}
	return nil
}
