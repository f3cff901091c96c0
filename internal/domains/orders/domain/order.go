package domain

import (
	"errors"
	"strings"
)

// Status enumerates the order lifecycle.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusShipped   Status = "SHIPPED"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

var (
	ErrInvalidProductID = errors.New("product id must be greater than zero")
	ErrInvalidQuantity  = errors.New("quantity must be greater than zero")
	ErrInvalidStatus    = errors.New("order status is invalid")
)

// Statuses lists every known status in lifecycle order.
func Statuses() []Status {
	return []Status{StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled}
}

// ParseStatus accepts the enumeration names case-insensitively.
func ParseStatus(raw string) (Status, error) {
	status := Status(strings.ToUpper(strings.TrimSpace(raw)))
	if !status.Valid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// Valid reports whether s belongs to the enumeration.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

// Terminal reports whether s ends the lifecycle.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Order references exactly one product.
type Order struct {
	ID        int64
	ProductID int64
	Quantity  int
	Status    Status
}

// NewOrder validates and constructs an Order. An empty status defaults to pending.
func NewOrder(id, productID int64, quantity int, status Status) (*Order, error) {
	if status == "" {
		status = StatusPending
	}
	order := &Order{
		ID:        id,
		ProductID: productID,
		Quantity:  quantity,
		Status:    status,
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// Validate enforces invariants on the aggregate.
func (o *Order) Validate() error {
	if o.ProductID <= 0 {
		return ErrInvalidProductID
	}
	if o.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if !o.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// ApplyChanges overwrites the mutable fields: product reference, quantity and status.
// An empty status keeps the current one.
func (o *Order) ApplyChanges(src *Order) {
	o.ProductID = src.ProductID
	o.Quantity = src.Quantity
	if src.Status != "" {
		o.Status = src.Status
	}
}

// Clone returns a shallow copy.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	return &clone
}
