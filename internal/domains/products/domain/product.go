package domain

import (
	"errors"
	"strings"
)

var (
	ErrEmptyName     = errors.New("product name must not be empty")
	ErrNegativePrice = errors.New("product price must not be negative")
)

// Product models an inventory item. StockQuantity may become negative through adjustments.
type Product struct {
	ID            int64
	Name          string
	Description   string
	Price         float64
	StockQuantity int
	Category      string
}

// NewProduct validates and constructs a Product aggregate.
func NewProduct(id int64, name, description string, price float64, stock int, category string) (*Product, error) {
	p := &Product{
		ID:            id,
		Name:          strings.TrimSpace(name),
		Description:   description,
		Price:         price,
		StockQuantity: stock,
		Category:      category,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate enforces the invariants checked at the API boundary.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if p.Price < 0 {
		return ErrNegativePrice
	}
	return nil
}

// ApplyDetails overwrites the mutable descriptive fields. Stock is left untouched.
func (p *Product) ApplyDetails(src *Product) {
	p.Name = src.Name
	p.Description = src.Description
	p.Price = src.Price
	p.Category = src.Category
}

// AdjustStock adds delta to the stock quantity without any bound check.
func (p *Product) AdjustStock(delta int) {
	p.StockQuantity += delta
}
