package application

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-inventory-server/internal/domains/products/domain"
	"github.com/Apurer/go-gin-inventory-server/internal/domains/products/ports"
)

// Service orchestrates the product use cases.
type Service struct {
	repo ports.Repository
}

// NewService wires the product service with its repository.
func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

// CreateProduct persists the product as given.
func (s *Service) CreateProduct(ctx context.Context, product *domain.Product) (*ports.ProductProjection, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	saved, err := s.repo.Save(ctx, product)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// RetrieveProduct loads a product or fails with ports.ErrNotFound.
func (s *Service) RetrieveProduct(ctx context.Context, id int64) (*ports.ProductProjection, error) {
	found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return found, nil
}

// UpdateProduct overwrites name, description, price and category. Stock only moves through AdjustStock.
func (s *Service) UpdateProduct(ctx context.Context, product *domain.Product) (*ports.ProductProjection, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	existing, err := s.RetrieveProduct(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	existing.Entity.ApplyDetails(product)
	saved, err := s.repo.Save(ctx, existing.Entity)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// DeleteProduct removes an existing product.
func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	if _, err := s.RetrieveProduct(ctx, id); err != nil {
		return err
	}
	return mapError(s.repo.DeleteByID(ctx, id))
}

// ListProducts returns every product.
func (s *Service) ListProducts(ctx context.Context) ([]*ports.ProductProjection, error) {
	result, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

// SearchProducts filters by case-insensitive name and category substrings. Without criteria it
// falls back to the unfiltered listing.
func (s *Service) SearchProducts(ctx context.Context, criteria ports.SearchCriteria) ([]*ports.ProductProjection, error) {
	if criteria.IsEmpty() {
		return s.ListProducts(ctx)
	}
	result, err := s.repo.FindAllMatching(ctx, BuildProductFilter(criteria.Name, criteria.Category))
	if err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

// LookupProducts matches case-sensitive substrings of name and category through the repository's
// derived query.
func (s *Service) LookupProducts(ctx context.Context, name, category string) ([]*ports.ProductProjection, error) {
	result, err := s.repo.FindByNameContainingAndCategoryContaining(ctx, name, category)
	if err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

// AdjustStock adds delta to the product stock. Negative results are allowed.
func (s *Service) AdjustStock(ctx context.Context, id int64, delta int) (*ports.ProductProjection, error) {
	existing, err := s.RetrieveProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	existing.Entity.AdjustStock(delta)
	saved, err := s.repo.Save(ctx, existing.Entity)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

var _ ports.Service = (*Service)(nil)
