package warehouse

import (
	"context"
)

// Conformed table writes. Each Replace is atomic (see replaceRows): the
// conformance stage owns these tables exclusively, downstream assembly only
// reads them.

func (s *Store) ReplaceCustomers(ctx context.Context, rows []*CustomerRow) error {
	return s.replaceRows(ctx, conformedCustomersTable, rows, len(rows))
}

func (s *Store) ReplaceDemographics(ctx context.Context, rows []*DemographicRow) error {
	return s.replaceRows(ctx, conformedDemographicsTable, rows, len(rows))
}

func (s *Store) ReplaceLocations(ctx context.Context, rows []*LocationRow) error {
	return s.replaceRows(ctx, conformedLocationsTable, rows, len(rows))
}

func (s *Store) ReplaceProducts(ctx context.Context, rows []*ProductRow) error {
	return s.replaceRows(ctx, conformedProductsTable, rows, len(rows))
}

func (s *Store) ReplaceCategories(ctx context.Context, rows []*CategoryRow) error {
	return s.replaceRows(ctx, conformedCategoriesTable, rows, len(rows))
}

func (s *Store) ReplaceSales(ctx context.Context, rows []*SalesRow) error {
	return s.replaceRows(ctx, conformedSalesTable, rows, len(rows))
}

// Conformed table reads, consumed by the dimensional assembly.

func (s *Store) ReadCustomers(ctx context.Context) ([]*CustomerRow, error) {
	return readRows[CustomerRow](ctx, s, conformedCustomersTable)
}

func (s *Store) ReadDemographics(ctx context.Context) ([]*DemographicRow, error) {
	return readRows[DemographicRow](ctx, s, conformedDemographicsTable)
}

func (s *Store) ReadLocations(ctx context.Context) ([]*LocationRow, error) {
	return readRows[LocationRow](ctx, s, conformedLocationsTable)
}

func (s *Store) ReadProducts(ctx context.Context) ([]*ProductRow, error) {
	return readRows[ProductRow](ctx, s, conformedProductsTable)
}

func (s *Store) ReadCategories(ctx context.Context) ([]*CategoryRow, error) {
	return readRows[CategoryRow](ctx, s, conformedCategoriesTable)
}

func (s *Store) ReadSales(ctx context.Context) ([]*SalesRow, error) {
	return readRows[SalesRow](ctx, s, conformedSalesTable)
}
