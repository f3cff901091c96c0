package application

import (
	"github.com/Apurer/go-gin-inventory-server/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-inventory-server/internal/shared/filter"
)

// Filterable order fields. Persistence adapters map these names to columns.
const (
	FieldStatus    = "status"
	FieldProductID = "productId"
)

// BuildOrderFilter AND-combines exact matches on status and product id, including each clause only
// when its input is non-nil. With both absent the filter matches every order.
func BuildOrderFilter(status *domain.Status, productID *int64) filter.Filter[*domain.Order] {
	return filter.All[*domain.Order]().
		AndIf(status != nil, func() filter.Criterion[*domain.Order] {
			return filter.Equal(FieldStatus, string(*status), func(o *domain.Order) string { return string(o.Status) })
		}).
		AndIf(productID != nil, func() filter.Criterion[*domain.Order] {
			return filter.Equal(FieldProductID, *productID, func(o *domain.Order) int64 { return o.ProductID })
		})
}
