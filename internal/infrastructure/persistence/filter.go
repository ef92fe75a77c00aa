package persistence

import (
	"gorm.io/gorm"

	"github.com/shop/backend/internal/domain/shared"
)

// allowedOrderColumns is the whitelist of sortable columns. Anything else
// falls back to created_at to keep user input out of the ORDER BY clause.
var allowedOrderColumns = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"price":      true,
	"stock":      true,
	"status":     true,
	"total":      true,
}

// applyFilter applies pagination, ordering and search to a query.
// searchColumn is the column matched against Filter.Search.
func applyFilter(query *gorm.DB, filter shared.Filter, searchColumn string) *gorm.DB {
	if filter.Search != "" && searchColumn != "" {
		query = query.Where(searchColumn+" ILIKE ?", "%"+filter.Search+"%")
	}

	orderBy := filter.OrderBy
	if !allowedOrderColumns[orderBy] {
		orderBy = "created_at"
	}
	orderDir := "desc"
	if filter.OrderDir == "asc" {
		orderDir = "asc"
	}
	query = query.Order(orderBy + " " + orderDir)

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	return query.Offset((page - 1) * pageSize).Limit(pageSize)
}
