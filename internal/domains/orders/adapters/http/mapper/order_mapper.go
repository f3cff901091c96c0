package mapper

import (
	"time"

	"github.com/Apurer/go-gin-inventory-server/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-inventory-server/internal/domains/orders/ports"
)

// OrderRequest captures create and update payloads. An absent status keeps the stored one on update.
type OrderRequest struct {
	ID        int64   `json:"id,omitempty"`
	ProductID int64   `json:"productId"`
	Quantity  int     `json:"quantity"`
	Status    *string `json:"status,omitempty"`
}

// Order is the HTTP representation of a persisted order.
type Order struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"productId"`
	Quantity  int       `json:"quantity"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ToDomainOrder maps a request into the domain model, rejecting unknown statuses.
func ToDomainOrder(req OrderRequest) (*domain.Order, error) {
	order := &domain.Order{ID: req.ID, ProductID: req.ProductID, Quantity: req.Quantity}
	if req.Status != nil && *req.Status != "" {
		status, err := domain.ParseStatus(*req.Status)
		if err != nil {
			return nil, err
		}
		order.Status = status
	}
	return order, nil
}

// FromProjection converts an order projection to its transport shape.
func FromProjection(p *ports.OrderProjection) Order {
	if p == nil || p.Entity == nil {
		return Order{}
	}
	return Order{
		ID:        p.Entity.ID,
		ProductID: p.Entity.ProductID,
		Quantity:  p.Entity.Quantity,
		Status:    string(p.Entity.Status),
		CreatedAt: p.Metadata.CreatedAt,
		UpdatedAt: p.Metadata.UpdatedAt,
	}
}

func FromProjectionList(list []*ports.OrderProjection) []Order {
	out := make([]Order, 0, len(list))
	for _, p := range list {
		if p == nil {
			continue
		}
		out = append(out, FromProjection(p))
	}
	return out
}
