package warehouse

import (
	"context"
	"time"
)

// RawStore provides read access to the raw tables, one per source extract.
// The conformance stage consumes these as read-only input.
type RawStore interface {
	ReadRawCustomers(ctx context.Context) ([]*RawCustomerRow, error)
	ReadRawProducts(ctx context.Context) ([]*RawProductRow, error)
	ReadRawSales(ctx context.Context) ([]*RawSalesRow, error)
	ReadRawDemographics(ctx context.Context) ([]*RawDemographicRow, error)
	ReadRawLocations(ctx context.Context) ([]*RawLocationRow, error)
	ReadRawCategories(ctx context.Context) ([]*RawCategoryRow, error)
}

// RawLoader provides full-refresh write access to the raw tables. Each Load
// replaces the table's entire contents atomically.
type RawLoader interface {
	LoadRawCustomers(ctx context.Context, rows []*RawCustomerRow) error
	LoadRawProducts(ctx context.Context, rows []*RawProductRow) error
	LoadRawSales(ctx context.Context, rows []*RawSalesRow) error
	LoadRawDemographics(ctx context.Context, rows []*RawDemographicRow) error
	LoadRawLocations(ctx context.Context, rows []*RawLocationRow) error
	LoadRawCategories(ctx context.Context, rows []*RawCategoryRow) error
}

// ConformedStore provides write access to the conformed tables. Each Replace
// is atomic: the destination ends up either fully refreshed with the given
// rows, or unchanged from its prior contents if the call fails. A reader
// never observes a partially-populated table.
type ConformedStore interface {
	ReplaceCustomers(ctx context.Context, rows []*CustomerRow) error
	ReplaceDemographics(ctx context.Context, rows []*DemographicRow) error
	ReplaceLocations(ctx context.Context, rows []*LocationRow) error
	ReplaceProducts(ctx context.Context, rows []*ProductRow) error
	ReplaceCategories(ctx context.Context, rows []*CategoryRow) error
	ReplaceSales(ctx context.Context, rows []*SalesRow) error
}

// ConformedReader provides read access to the conformed tables for the
// downstream dimensional assembly.
type ConformedReader interface {
	ReadCustomers(ctx context.Context) ([]*CustomerRow, error)
	ReadDemographics(ctx context.Context) ([]*DemographicRow, error)
	ReadLocations(ctx context.Context) ([]*LocationRow, error)
	ReadProducts(ctx context.Context) ([]*ProductRow, error)
	ReadCategories(ctx context.Context) ([]*CategoryRow, error)
	ReadSales(ctx context.Context) ([]*SalesRow, error)
}

// RunLog records the lifecycle of a conformance run for the operator.
type RunLog interface {
	// StartRun inserts a run record with status=RUNNING.
	StartRun(ctx context.Context, runID string, startedAt time.Time) error

	// MarkRunSucceeded sets status=SUCCESS and the finish timestamp.
	MarkRunSucceeded(ctx context.Context, runID string) error

	// MarkRunFailed sets status=FAILED with the fault id and message. It is
	// best-effort: called on an already-failing path, it logs rather than
	// returns its own errors.
	MarkRunFailed(ctx context.Context, runID, faultID string, runErr error)
}
