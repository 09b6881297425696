package warehouse

import (
	"context"
)

// Raw table reads, consumed by the conformance stage.

func (s *Store) ReadRawCustomers(ctx context.Context) ([]*RawCustomerRow, error) {
	return readRows[RawCustomerRow](ctx, s, rawCustomersTable)
}

func (s *Store) ReadRawProducts(ctx context.Context) ([]*RawProductRow, error) {
	return readRows[RawProductRow](ctx, s, rawProductsTable)
}

func (s *Store) ReadRawSales(ctx context.Context) ([]*RawSalesRow, error) {
	return readRows[RawSalesRow](ctx, s, rawSalesTable)
}

func (s *Store) ReadRawDemographics(ctx context.Context) ([]*RawDemographicRow, error) {
	return readRows[RawDemographicRow](ctx, s, rawDemographicsTable)
}

func (s *Store) ReadRawLocations(ctx context.Context) ([]*RawLocationRow, error) {
	return readRows[RawLocationRow](ctx, s, rawLocationsTable)
}

func (s *Store) ReadRawCategories(ctx context.Context) ([]*RawCategoryRow, error) {
	return readRows[RawCategoryRow](ctx, s, rawCategoriesTable)
}

// Raw table loads, used by ingestion. Full refresh: each load replaces the
// table's entire contents.

func (s *Store) LoadRawCustomers(ctx context.Context, rows []*RawCustomerRow) error {
	return s.replaceRows(ctx, rawCustomersTable, rows, len(rows))
}

func (s *Store) LoadRawProducts(ctx context.Context, rows []*RawProductRow) error {
	return s.replaceRows(ctx, rawProductsTable, rows, len(rows))
}

func (s *Store) LoadRawSales(ctx context.Context, rows []*RawSalesRow) error {
	return s.replaceRows(ctx, rawSalesTable, rows, len(rows))
}

func (s *Store) LoadRawDemographics(ctx context.Context, rows []*RawDemographicRow) error {
	return s.replaceRows(ctx, rawDemographicsTable, rows, len(rows))
}

func (s *Store) LoadRawLocations(ctx context.Context, rows []*RawLocationRow) error {
	return s.replaceRows(ctx, rawLocationsTable, rows, len(rows))
}

func (s *Store) LoadRawCategories(ctx context.Context, rows []*RawCategoryRow) error {
	return s.replaceRows(ctx, rawCategoriesTable, rows, len(rows))
}
