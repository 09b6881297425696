package conform

import (
	"strings"
	"time"

	"retaildwh/internal/warehouse"
)

// NormalizeCategoryID translates the source's underscore separators to
// hyphens. Both the category table's id and the category key derived from
// the composite product key go through this one function; the downstream
// product-to-category join depends on the two staying bit-identical.
func NormalizeCategoryID(raw string) string {
	return strings.ReplaceAll(raw, "_", "-")
}

// ConformCategories normalizes the category id; the category, subcategory
// and maintenance fields pass through unchanged.
func ConformCategories(rows []*warehouse.RawCategoryRow, conformedAt time.Time) []*warehouse.CategoryRow {
	out := make([]*warehouse.CategoryRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, &warehouse.CategoryRow{
			CategoryID:  NormalizeCategoryID(r.CategoryID.StringVal),
			Category:    r.Category.StringVal,
			Subcategory: r.Subcategory.StringVal,
			Maintenance: r.Maintenance.StringVal,
			ConformedAt: conformedAt,
		})
	}

	return out
}
