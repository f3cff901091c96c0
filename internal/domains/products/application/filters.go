package application

import (
	"github.com/Apurer/go-gin-inventory-server/internal/domains/products/domain"
	"github.com/Apurer/go-gin-inventory-server/internal/shared/filter"
)

// Filterable product fields. Persistence adapters map these names to columns.
const (
	FieldName     = "name"
	FieldCategory = "category"
)

// BuildProductFilter AND-combines case-insensitive substring matches on name and category,
// including each clause only when its input is non-nil.
func BuildProductFilter(name, category *string) filter.Filter[*domain.Product] {
	return filter.All[*domain.Product]().
		AndIf(name != nil, func() filter.Criterion[*domain.Product] {
			return filter.ContainsFold(FieldName, *name, func(p *domain.Product) string { return p.Name })
		}).
		AndIf(category != nil, func() filter.Criterion[*domain.Product] {
			return filter.ContainsFold(FieldCategory, *category, func(p *domain.Product) string { return p.Category })
		})
}
