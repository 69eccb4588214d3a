package persistence

import (
	"slices"
	"strings"

	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// sortable lists the columns a listing may be ordered by. Anything else,
// including injected SQL, falls back to the first column.
type sortable []string

var (
	productSort = sortable{"created_at", "updated_at", "name", "slug", "price", "discount_percent", "rating", "stock_quantity", "stock_status"}
	couponSort  = sortable{"created_at", "updated_at", "code", "valid_from", "valid_to", "used_count", "usage_limit", "is_active"}
	orderSort   = sortable{"created_at", "updated_at", "full_name", "email", "status", "total_amount"}
)

func (s sortable) column(requested string) string {
	requested = strings.TrimSpace(requested)
	if slices.Contains(s, requested) {
		return requested
	}
	return s[0]
}

// orderBy resolves the filter's sort into a clause. Direction defaults to
// descending; id breaks ties so page windows stay stable.
func (s sortable) orderBy(filter shared.Filter) clause.OrderBy {
	desc := !strings.EqualFold(strings.TrimSpace(filter.OrderDir), "asc")
	return clause.OrderBy{Columns: []clause.OrderByColumn{
		{Column: clause.Column{Name: s.column(filter.OrderBy)}, Desc: desc},
		{Column: clause.Column{Name: "id"}, Desc: desc},
	}}
}

// likePattern lowercases a search term and wraps it for a LIKE match
func likePattern(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}

// paginate applies the filter's page window when one is set
func paginate(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}
