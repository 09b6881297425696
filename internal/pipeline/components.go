package pipeline

import (
	"context"
	"fmt"

	"retaildwh/internal/conform"
)

// CustomerComponent conforms the CRM customer table and the two ERP
// customer-side tables (demographics, location). The three outputs are not
// merged here; merging happens downstream in dimensional assembly.
type CustomerComponent struct{}

func (c *CustomerComponent) Name() string { return "customers" }

func (c *CustomerComponent) Execute(ctx context.Context, state *RunState) (int, int, error) {
	rawCustomers, err := state.Raw.ReadRawCustomers(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("reading raw customers: %w", err)
	}
	rawDemographics, err := state.Raw.ReadRawDemographics(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("reading raw demographics: %w", err)
	}
	rawLocations, err := state.Raw.ReadRawLocations(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("reading raw locations: %w", err)
	}

	customers := conform.ConformCustomers(rawCustomers, state.ConformedAt)
	demographics := conform.ConformDemographics(rawDemographics, state.ConformedAt)
	locations := conform.ConformLocations(rawLocations, state.ConformedAt)

	if err := state.Conformed.ReplaceCustomers(ctx, customers); err != nil {
		return 0, 0, fmt.Errorf("replacing conformed customers: %w", err)
	}
	if err := state.Conformed.ReplaceDemographics(ctx, demographics); err != nil {
		return 0, 0, fmt.Errorf("replacing conformed demographics: %w", err)
	}
	if err := state.Conformed.ReplaceLocations(ctx, locations); err != nil {
		return 0, 0, fmt.Errorf("replacing conformed locations: %w", err)
	}

	rowsIn := len(rawCustomers) + len(rawDemographics) + len(rawLocations)
	rowsOut := len(customers) + len(demographics) + len(locations)
	return rowsIn, rowsOut, nil
}

// ProductComponent conforms the product table, deriving the category key,
// serial number and validity windows.
type ProductComponent struct{}

func (c *ProductComponent) Name() string { return "products" }

func (c *ProductComponent) Execute(ctx context.Context, state *RunState) (int, int, error) {
	raw, err := state.Raw.ReadRawProducts(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("reading raw products: %w", err)
	}

	rows := conform.ConformProducts(raw, state.ConformedAt)

	if err := state.Conformed.ReplaceProducts(ctx, rows); err != nil {
		return 0, 0, fmt.Errorf("replacing conformed products: %w", err)
	}

	return len(raw), len(rows), nil
}

// SalesComponent conforms the sales lines: packed dates to calendar dates,
// price/amount repairs.
type SalesComponent struct{}

func (c *SalesComponent) Name() string { return "sales" }

func (c *SalesComponent) Execute(ctx context.Context, state *RunState) (int, int, error) {
	raw, err := state.Raw.ReadRawSales(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("reading raw sales: %w", err)
	}

	rows := conform.ConformSales(raw, state.ConformedAt)

	if err := state.Conformed.ReplaceSales(ctx, rows); err != nil {
		return 0, 0, fmt.Errorf("replacing conformed sales: %w", err)
	}

	return len(raw), len(rows), nil
}

// CategoryComponent normalizes the category id format.
type CategoryComponent struct{}

func (c *CategoryComponent) Name() string { return "categories" }

func (c *CategoryComponent) Execute(ctx context.Context, state *RunState) (int, int, error) {
	raw, err := state.Raw.ReadRawCategories(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("reading raw categories: %w", err)
	}

	rows := conform.ConformCategories(raw, state.ConformedAt)

	if err := state.Conformed.ReplaceCategories(ctx, rows); err != nil {
		return 0, 0, fmt.Errorf("replacing conformed categories: %w", err)
	}

	return len(raw), len(rows), nil
}
