package persistence

import (
	"strings"

	"github.com/pantryfresh/backend/internal/domain/order"
)

// sortColumns whitelists the ORDER BY columns of one table. Keys are the
// values clients send (camelCase) as well as the column names themselves;
// anything else sorts by fallback. Request input never reaches the SQL text.
type sortColumns struct {
	columns  map[string]string
	fallback string
}

func newSortColumns(fallback string, apiToColumn map[string]string) sortColumns {
	columns := make(map[string]string, len(apiToColumn)*2)
	for key, column := range apiToColumn {
		columns[key] = column
		columns[column] = column
	}
	return sortColumns{columns: columns, fallback: fallback}
}

// column resolves key, falling back for unknown or empty keys
func (s sortColumns) column(key string) string {
	if column, ok := s.columns[strings.TrimSpace(key)]; ok {
		return column
	}
	return s.fallback
}

// orderBy renders "<column> ASC|DESC"
func (s sortColumns) orderBy(key, dir string) string {
	return s.column(key) + " " + sortDirection(dir)
}

// sortDirection is ASC only when asked for explicitly
func sortDirection(dir string) string {
	if strings.EqualFold(strings.TrimSpace(dir), "asc") {
		return "ASC"
	}
	return "DESC"
}

var (
	productSort = newSortColumns("name", map[string]string{
		"name":      "name",
		"price":     "price",
		"salePrice": "sale_price",
		"stock":     "stock",
		"createdAt": "created_at",
		"updatedAt": "updated_at",
	})

	orderSort = newSortColumns("created_at", map[string]string{
		string(order.SortByCreatedAt):   "created_at",
		string(order.SortByTotalAmount): "total_amount",
		string(order.SortByStatus):      "status",
		"orderNumber":                   "order_number",
	})

	movementSort = newSortColumns("created_at", map[string]string{
		"createdAt":  "created_at",
		"delta":      "delta",
		"stockAfter": "stock_after",
	})
)
