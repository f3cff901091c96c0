package mapper

import (
	"time"

	"github.com/Apurer/go-gin-inventory-server/internal/domains/products/domain"
	"github.com/Apurer/go-gin-inventory-server/internal/domains/products/ports"
)

// ProductRequest captures create and update payloads.
type ProductRequest struct {
	ID            int64   `json:"id,omitempty"`
	Name          string  `json:"name"`
	Description   string  `json:"description,omitempty"`
	Price         float64 `json:"price"`
	StockQuantity int     `json:"stockQuantity"`
	Category      string  `json:"category,omitempty"`
}

// Product is the HTTP representation of a persisted product.
type Product struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	StockQuantity int       `json:"stockQuantity"`
	Category      string    `json:"category"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ToDomainProduct validates the payload and builds the aggregate.
func ToDomainProduct(req ProductRequest) (*domain.Product, error) {
	return domain.NewProduct(req.ID, req.Name, req.Description, req.Price, req.StockQuantity, req.Category)
}

// FromProjection converts a product projection to its transport shape.
func FromProjection(p *ports.ProductProjection) Product {
	if p == nil || p.Entity == nil {
		return Product{}
	}
	return Product{
		ID:            p.Entity.ID,
		Name:          p.Entity.Name,
		Description:   p.Entity.Description,
		Price:         p.Entity.Price,
		StockQuantity: p.Entity.StockQuantity,
		Category:      p.Entity.Category,
		CreatedAt:     p.Metadata.CreatedAt,
		UpdatedAt:     p.Metadata.UpdatedAt,
	}
}

func FromProjectionList(list []*ports.ProductProjection) []Product {
	out := make([]Product, 0, len(list))
	for _, p := range list {
		if p == nil {
			continue
		}
		out = append(out, FromProjection(p))
	}
	return out
}
