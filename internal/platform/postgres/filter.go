package postgres

import (
	"fmt"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/Apurer/go-gin-inventory-server/internal/shared/filter"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ApplyFilter translates each criterion into a WHERE clause on the column mapped from its field.
// Unknown fields or operators are rejected rather than silently dropped.
func ApplyFilter[T any](db *gorm.DB, f filter.Filter[T], columns map[string]string) (*gorm.DB, error) {
	for _, c := range f.Criteria() {
		column, ok := columns[c.Field]
		if !ok {
			return nil, fmt.Errorf("filter field %q has no column mapping", c.Field)
		}
		quoted := pq.QuoteIdentifier(column)
		switch c.Op {
		case filter.OpEqual:
			db = db.Where(quoted+" = ?", c.Value)
		case filter.OpContainsFold:
			needle, ok := c.Value.(string)
			if !ok {
				return nil, fmt.Errorf("filter field %q expects a string value", c.Field)
			}
			db = db.Where("LOWER("+quoted+") LIKE ?", ContainsPattern(strings.ToLower(needle)))
		default:
			return nil, fmt.Errorf("filter operator %q is not supported", c.Op)
		}
	}
	return db, nil
}

// ContainsPattern wraps value in LIKE wildcards, escaping wildcard characters inside it.
func ContainsPattern(value string) string {
	return "%" + likeEscaper.Replace(value) + "%"
}
