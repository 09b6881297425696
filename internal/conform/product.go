package conform

import (
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/bigquery"

	"retaildwh/internal/warehouse"
)

// The composite product key encodes two identifiers at fixed offsets:
// characters 1-5 are the category key and characters 7 onward are the serial
// number, with the separator at position 6 dropped.
const (
	categoryKeyLength = 5
	serialNumberStart = 6
)

// SplitProductKey splits a composite product key into its category key and
// serial number. The category key goes through the same separator
// translation as the category table's own id (NormalizeCategoryID), so the
// product-to-category join resolves; the two must never diverge. Keys
// shorter than the fixed layout degrade: the category key takes whatever is
// available and the serial number is empty.
func SplitProductKey(key string) (categoryID, serialNumber string) {
	if len(key) > categoryKeyLength {
		categoryID = NormalizeCategoryID(key[:categoryKeyLength])
	} else {
		categoryID = NormalizeCategoryID(key)
	}
	if len(key) > serialNumberStart {
		serialNumber = key[serialNumberStart:]
	}
	return categoryID, serialNumber
}

// ConformProducts cleanses raw product rows and derives the columns the raw
// feed does not carry: the category key and serial number from the
// composite key, and the end date from sibling rows.
//
// The end date is a lookahead over each product-name group: rows sharing a
// name are ordered by start date and each row ends one day before the next
// row starts. The row with the latest start date in its group gets a NULL
// end date, meaning currently active. This needs the whole group
// materialized; it cannot be computed row at a time.
//
// Output is ordered by name then start date. A NULL raw cost becomes 0; a
// negative cost is preserved as-is (the sources define no repair for it).
func ConformProducts(rows []*warehouse.RawProductRow, conformedAt time.Time) []*warehouse.ProductRow {
	out := make([]*warehouse.ProductRow, 0, len(rows))
	for _, r := range rows {
		categoryID, serialNumber := SplitProductKey(r.ProductKey.StringVal)

		cost := int64(0)
		if r.Cost.Valid {
			cost = r.Cost.Int64
		}

		out = append(out, &warehouse.ProductRow{
			ProductID:    r.ProductID.Int64,
			CategoryID:   categoryID,
			SerialNumber: serialNumber,
			Name:         strings.TrimSpace(r.Name.StringVal),
			Cost:         cost,
			Line:         ExpandProductLine(r.Line),
			StartDate:    r.StartDate,
			ConformedAt:  conformedAt,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return dateBefore(out[i].StartDate, out[j].StartDate)
	})

	deriveEndDates(out)

	return out
}

// deriveEndDates fills EndDate over rows already ordered by name then start
// date: within a name group, each row ends one day before the next row's
// start date.
func deriveEndDates(rows []*warehouse.ProductRow) {
	for i, r := range rows {
		if i+1 >= len(rows) || rows[i+1].Name != r.Name {
			continue
		}
		next := rows[i+1].StartDate
		if !next.Valid {
			continue
		}
		r.EndDate = bigquery.NullDate{Date: next.Date.AddDays(-1), Valid: true}
	}
}
