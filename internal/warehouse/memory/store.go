package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"retaildwh/internal/warehouse"
)

// Store is an in-memory implementation of the warehouse interfaces. It is
// safe for concurrent use and backs the tests and local dry runs; data is
// lost on process exit.
type Store struct {
	mu sync.RWMutex

	rawCustomers    []*warehouse.RawCustomerRow
	rawProducts     []*warehouse.RawProductRow
	rawSales        []*warehouse.RawSalesRow
	rawDemographics []*warehouse.RawDemographicRow
	rawLocations    []*warehouse.RawLocationRow
	rawCategories   []*warehouse.RawCategoryRow

	customers    []*warehouse.CustomerRow
	demographics []*warehouse.DemographicRow
	locations    []*warehouse.LocationRow
	products     []*warehouse.ProductRow
	categories   []*warehouse.CategoryRow
	sales        []*warehouse.SalesRow

	customerDim []*warehouse.CustomerDimRow
	productDim  []*warehouse.ProductDimRow
	salesFact   []*warehouse.SalesFactRow

	runs map[string]*warehouse.RunRow
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		runs: make(map[string]*warehouse.RunRow),
	}
}

// copyRows returns a shallow copy of the slice so callers cannot mutate the
// store's view of a table.
func copyRows[T any](rows []*T) []*T {
	out := make([]*T, len(rows))
	copy(out, rows)
	return out
}

// RawStore

func (s *Store) ReadRawCustomers(ctx context.Context) ([]*warehouse.RawCustomerRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyRows(s.rawCustomers), nil
}

func (s *Store) ReadRawProducts(ctx context.Context) ([]*warehouse.RawProductRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyRows(s.rawProducts), nil
}

func (s *Store) ReadRawSales(ctx context.Context) ([]*warehouse.RawSalesRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyRows(s.rawSales), nil
}

func (s *Store) ReadRawDemographics(ctx context.Context) ([]*warehouse.RawDemographicRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyRows(s.rawDemographics), nil
}

func (s *Store) ReadRawLocations(ctx context.Context) ([]*warehouse.RawLocationRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyRows(s.rawLocations), nil
}

func (s *Store) ReadRawCategories(ctx context.Context) ([]*warehouse.RawCategoryRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyRows(s.rawCategories), nil
}

// RawLoader

func (s *Store) LoadRawCustomers(ctx context.Context, rows []*warehouse.RawCustomerRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rawCustomers = copyRows(rows)
	return nil
}

func (s *Store) LoadRawProducts(ctx context.Context, rows []*warehouse.RawProductRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rawProducts = copyRows(rows)
	return nil
}

func (s *Store) LoadRawSales(ctx context.Context, rows []*warehouse.RawSalesRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rawSales = copyRows(rows)
	return nil
}

func (s *Store) LoadRawDemographics(ctx context.Context, rows []*warehouse.RawDemographicRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rawDemographics = copyRows(rows)
	return nil
}

func (s *Store) LoadRawLocations(ctx context.Context, rows []*warehouse.RawLocationRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rawLocations = copyRows(rows)
	return nil
}

func (s *Store) LoadRawCategories(ctx context.Context, rows []*warehouse.RawCategoryRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rawCategories = copyRows(rows)
	return nil
}

// ConformedStore. Each Replace assigns the new slice in one step under the
// lock, so readers see either the prior contents or the full new contents.

func (s *Store) ReplaceCustomers(ctx context.Context, rows []*warehouse.CustomerRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers = copyRows(rows)
	return nil
}

func (s *Store) ReplaceDemographics(ctx context.Context, rows []*warehouse.DemographicRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.demographics = copyRows(rows)
	return nil
}

func (s *Store) ReplaceLocations(ctx context.Context, rows []*warehouse.LocationRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations = copyRows(rows)
	return nil
}

func (s *Store) ReplaceProducts(ctx context.Context, rows []*warehouse.ProductRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = copyRows(rows)
	return nil
}

func (s *Store) ReplaceCategories(ctx context.Context, rows []*warehouse.CategoryRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = copyRows(rows)
	return nil
}

func (s *Store) ReplaceSales(ctx context.Context, rows []*warehouse.SalesRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sales = copyRows(rows)
	return nil
}

// ConformedReader

func (s *Store) ReadCustomers(ctx context.Context) ([]*warehouse.CustomerRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyRows(s.customers), nil
}

func (s *Store) ReadDemographics(ctx context.Context) ([]*warehouse.DemographicRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyRows(s.demographics), nil
}

func (s *Store) ReadLocations(ctx context.Context) ([]*warehouse.LocationRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyRows(s.locations), nil
}

func (s *Store) ReadProducts(ctx context.Context) ([]*warehouse.ProductRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyRows(s.products), nil
}

func (s *Store) ReadCategories(ctx context.Context) ([]*warehouse.CategoryRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyRows(s.categories), nil
}

func (s *Store) ReadSales(ctx context.Context) ([]*warehouse.SalesRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyRows(s.sales), nil
}

// MartStore

func (s *Store) ReplaceCustomerDim(ctx context.Context, rows []*warehouse.CustomerDimRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customerDim = copyRows(rows)
	return nil
}

func (s *Store) ReplaceProductDim(ctx context.Context, rows []*warehouse.ProductDimRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.productDim = copyRows(rows)
	return nil
}

func (s *Store) ReplaceSalesFact(ctx context.Context, rows []*warehouse.SalesFactRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.salesFact = copyRows(rows)
	return nil
}

// CustomerDim returns the current dimension contents (test helper).
func (s *Store) CustomerDim() []*warehouse.CustomerDimRow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyRows(s.customerDim)
}

// ProductDim returns the current dimension contents (test helper).
func (s *Store) ProductDim() []*warehouse.ProductDimRow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyRows(s.productDim)
}

// SalesFact returns the current fact contents (test helper).
func (s *Store) SalesFact() []*warehouse.SalesFactRow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyRows(s.salesFact)
}

// RunLog

func (s *Store) StartRun(ctx context.Context, runID string, startedAt time.Time) error {
	if runID == "" {
		return fmt.Errorf("run ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs[runID] = &warehouse.RunRow{
		RunID:     runID,
		StartedAt: startedAt,
		Status:    warehouse.RunStatusRunning,
	}
	return nil
}

func (s *Store) MarkRunSucceeded(ctx context.Context, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, exists := s.runs[runID]
	if !exists {
		return fmt.Errorf("run not found: %s", runID)
	}
	run.Status = warehouse.RunStatusSuccess
	return nil
}

func (s *Store) MarkRunFailed(ctx context.Context, runID, faultID string, runErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, exists := s.runs[runID]
	if !exists {
		return
	}
	run.Status = warehouse.RunStatusFailed
	run.FaultID.StringVal = faultID
	run.FaultID.Valid = true
	if runErr != nil {
		run.ErrorMessage = runErr.Error()
	}
}

// GetRun retrieves a run record by ID (test helper).
func (s *Store) GetRun(runID string) (*warehouse.RunRow, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, exists := s.runs[runID]
	if !exists {
		return nil, false
	}
	runCopy := *run
	return &runCopy, true
}

// Interface checks.
var (
	_ warehouse.RawStore        = (*Store)(nil)
	_ warehouse.RawLoader       = (*Store)(nil)
	_ warehouse.ConformedStore  = (*Store)(nil)
	_ warehouse.ConformedReader = (*Store)(nil)
	_ warehouse.MartStore       = (*Store)(nil)
	_ warehouse.RunLog          = (*Store)(nil)
)
