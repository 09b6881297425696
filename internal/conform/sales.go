package conform

import (
	"time"

	"cloud.google.com/go/bigquery"

	"retaildwh/internal/warehouse"
)

// ConformSales converts packed order dates to calendar dates and repairs
// the price/amount pair. Grain is preserved: one output row per input row,
// no deduplication.
//
// The two numeric repairs are order-dependent and must run amount first:
//
//  1. Amount: when the stored amount is NULL or does not equal
//     |quantity| x |price|, it is recomputed as that product. Absolute
//     values tolerate sign errors in the feeds.
//  2. Price: when the stored price is NULL or non-positive, it is
//     recomputed as amount/quantity (integer division) from the amount
//     fixed in step 1. A zero quantity makes the recompute undefined, so
//     the price becomes NULL instead.
//
// Quantity passes through unchanged; no repair rule exists for it.
func ConformSales(rows []*warehouse.RawSalesRow, conformedAt time.Time) []*warehouse.SalesRow {
	out := make([]*warehouse.SalesRow, 0, len(rows))
	for _, r := range rows {
		amount := repairAmount(r)
		price := repairPrice(r, amount)

		out = append(out, &warehouse.SalesRow{
			OrderNumber: r.OrderNumber.StringVal,
			ProductKey:  r.ProductKey.StringVal,
			CustomerID:  r.CustomerID,
			OrderDate:   DateFromPacked(r.OrderDate),
			ShipDate:    DateFromPacked(r.ShipDate),
			DueDate:     DateFromPacked(r.DueDate),
			Sales:       amount,
			Quantity:    r.Quantity,
			Price:       price,
			ConformedAt: conformedAt,
		})
	}

	return out
}

func repairAmount(r *warehouse.RawSalesRow) int64 {
	expected := abs(r.Quantity.Int64) * abs(r.Price.Int64)
	if !r.Sales.Valid || r.Sales.Int64 != expected {
		return expected
	}
	return r.Sales.Int64
}

func repairPrice(r *warehouse.RawSalesRow, amount int64) bigquery.NullInt64 {
	if r.Price.Valid && r.Price.Int64 > 0 {
		return r.Price
	}
	if r.Quantity.Int64 == 0 {
		return bigquery.NullInt64{}
	}
	return bigquery.NullInt64{Int64: amount / r.Quantity.Int64, Valid: true}
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
