package pipeline_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"

	"retaildwh/internal/pipeline"
	"retaildwh/internal/warehouse"
	"retaildwh/internal/warehouse/memory"
)

func nullString(s string) bigquery.NullString {
	return bigquery.NullString{StringVal: s, Valid: true}
}

func nullInt(n int64) bigquery.NullInt64 {
	return bigquery.NullInt64{Int64: n, Valid: true}
}

func seedRawTables(t *testing.T, store *memory.Store) {
	t.Helper()
	ctx := context.Background()

	err := store.LoadRawCustomers(ctx, []*warehouse.RawCustomerRow{
		{CustomerID: nullInt(1), CustomerCode: nullString("AW00000001"), FirstName: nullString(" Jon "), MaritalStatus: nullString("S"), Gender: nullString("M")},
		{CustomerID: bigquery.NullInt64{}},
	})
	if err != nil {
		t.Fatalf("seeding raw customers: %v", err)
	}

	err = store.LoadRawDemographics(ctx, []*warehouse.RawDemographicRow{
		{CustomerCode: nullString("NASAW00000001"), Gender: nullString("Male")},
	})
	if err != nil {
		t.Fatalf("seeding raw demographics: %v", err)
	}

	err = store.LoadRawLocations(ctx, []*warehouse.RawLocationRow{
		{CustomerCode: nullString("AW-00000001"), Country: nullString("USA")},
	})
	if err != nil {
		t.Fatalf("seeding raw locations: %v", err)
	}

	err = store.LoadRawProducts(ctx, []*warehouse.RawProductRow{
		{ProductID: nullInt(100), ProductKey: nullString("CO_RF_FR-1001"), Name: nullString("Road Frame"), Line: nullString("R")},
	})
	if err != nil {
		t.Fatalf("seeding raw products: %v", err)
	}

	err = store.LoadRawSales(ctx, []*warehouse.RawSalesRow{
		{OrderNumber: nullString("SO1"), ProductKey: nullString("CO-RF-FR-1001"), CustomerID: nullInt(1), OrderDate: nullInt(20240315), Quantity: nullInt(2), Price: nullInt(10), Sales: nullInt(20)},
	})
	if err != nil {
		t.Fatalf("seeding raw sales: %v", err)
	}

	err = store.LoadRawCategories(ctx, []*warehouse.RawCategoryRow{
		{CategoryID: nullString("CO_RF"), Category: nullString("Components"), Subcategory: nullString("Road Frames"), Maintenance: nullString("Yes")},
	})
	if err != nil {
		t.Fatalf("seeding raw categories: %v", err)
	}
}

func TestRun_Success(t *testing.T) {
	store := memory.NewStore()
	seedRawTables(t, store)

	runner := pipeline.NewRunner(store, store, store)
	report, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(report.Components) != 4 {
		t.Fatalf("report has %d components, want 4", len(report.Components))
	}
	wantOrder := []string{"customers", "products", "sales", "categories"}
	for i, name := range wantOrder {
		if report.Components[i].Name != name {
			t.Errorf("component %d = %q, want %q", i, report.Components[i].Name, name)
		}
		if report.Components[i].Duration < 0 {
			t.Errorf("component %q has negative duration", name)
		}
	}

	ctx := context.Background()
	customers, _ := store.ReadCustomers(ctx)
	if len(customers) != 1 {
		t.Errorf("conformed customers = %d rows, want 1 (null id dropped)", len(customers))
	}
	products, _ := store.ReadProducts(ctx)
	if len(products) != 1 {
		t.Errorf("conformed products = %d rows, want 1", len(products))
	}
	sales, _ := store.ReadSales(ctx)
	if len(sales) != 1 {
		t.Errorf("conformed sales = %d rows, want 1", len(sales))
	}
	categories, _ := store.ReadCategories(ctx)
	if len(categories) != 1 {
		t.Errorf("conformed categories = %d rows, want 1", len(categories))
	}

	run, ok := store.GetRun(report.RunID)
	if !ok {
		t.Fatal("run record not found")
	}
	if run.Status != warehouse.RunStatusSuccess {
		t.Errorf("run status = %q, want %q", run.Status, warehouse.RunStatusSuccess)
	}
}

func TestRun_OneStampPerRun(t *testing.T) {
	store := memory.NewStore()
	seedRawTables(t, store)

	runner := pipeline.NewRunner(store, store, store)
	if _, err := runner.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	ctx := context.Background()
	var stamps []time.Time

	customers, _ := store.ReadCustomers(ctx)
	for _, r := range customers {
		stamps = append(stamps, r.ConformedAt)
	}
	demographics, _ := store.ReadDemographics(ctx)
	for _, r := range demographics {
		stamps = append(stamps, r.ConformedAt)
	}
	products, _ := store.ReadProducts(ctx)
	for _, r := range products {
		stamps = append(stamps, r.ConformedAt)
	}
	sales, _ := store.ReadSales(ctx)
	for _, r := range sales {
		stamps = append(stamps, r.ConformedAt)
	}
	categories, _ := store.ReadCategories(ctx)
	for _, r := range categories {
		stamps = append(stamps, r.ConformedAt)
	}

	if len(stamps) == 0 {
		t.Fatal("no conformed rows to check")
	}
	for i, s := range stamps {
		if !s.Equal(stamps[0]) {
			t.Errorf("stamp %d = %v, want %v (all rows share one stamp per run)", i, s, stamps[0])
		}
	}
}

// failingStore wraps the in-memory store and fails one Replace method,
// simulating a fault mid-run.
type failingStore struct {
	*memory.Store
	failErr error
}

func (f *failingStore) ReplaceSales(ctx context.Context, rows []*warehouse.SalesRow) error {
	return f.failErr
}

func TestRun_AtomicityUnderFailure(t *testing.T) {
	store := memory.NewStore()
	seedRawTables(t, store)

	// Pre-run state for the sales destination.
	ctx := context.Background()
	priorSales := []*warehouse.SalesRow{{
		OrderNumber: "SO-PRIOR",
		Sales:       999,
		ConformedAt: time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC),
	}}
	if err := store.ReplaceSales(ctx, priorSales); err != nil {
		t.Fatalf("seeding prior sales: %v", err)
	}

	injected := errors.New("replace blew up")
	conformed := &failingStore{Store: store, failErr: injected}

	runner := pipeline.NewRunner(store, conformed, store)
	_, err := runner.Run(ctx)
	if err == nil {
		t.Fatal("expected run to fail")
	}

	var cerr *pipeline.ComponentError
	if !errors.As(err, &cerr) {
		t.Fatalf("error is %T, want *ComponentError", err)
	}
	if cerr.Component != "sales" {
		t.Errorf("failing component = %q, want %q", cerr.Component, "sales")
	}
	if cerr.FaultID == "" {
		t.Error("fault id is empty")
	}
	if !errors.Is(err, injected) {
		t.Error("injected error not wrapped in ComponentError")
	}

	// Components before the failure keep their new data.
	customers, _ := store.ReadCustomers(ctx)
	if len(customers) != 1 {
		t.Errorf("conformed customers = %d rows, want 1 (completed before the fault)", len(customers))
	}
	products, _ := store.ReadProducts(ctx)
	if len(products) != 1 {
		t.Errorf("conformed products = %d rows, want 1 (completed before the fault)", len(products))
	}

	// The failing component's destination is unchanged from its pre-run state.
	sales, _ := store.ReadSales(ctx)
	if len(sales) != 1 || sales[0].OrderNumber != "SO-PRIOR" {
		t.Errorf("conformed sales = %+v, want the prior-run row untouched", sales)
	}

	// Categories never ran.
	categories, _ := store.ReadCategories(ctx)
	if len(categories) != 0 {
		t.Errorf("conformed categories = %d rows, want 0 (component never ran)", len(categories))
	}
}

func TestRun_Idempotent(t *testing.T) {
	store := memory.NewStore()
	seedRawTables(t, store)

	runner := pipeline.NewRunner(store, store, store)
	ctx := context.Background()

	if _, err := runner.Run(ctx); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	first, _ := store.ReadCustomers(ctx)

	if _, err := runner.Run(ctx); err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	second, _ := store.ReadCustomers(ctx)

	if len(first) != len(second) {
		t.Fatalf("row counts differ across runs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		a, b := *first[i], *second[i]
		// The stamp is the only field allowed to differ.
		a.ConformedAt, b.ConformedAt = time.Time{}, time.Time{}
		if a != b {
			t.Errorf("row %d differs across runs: %+v vs %+v", i, a, b)
		}
	}
}

func TestRun_ConformedValues(t *testing.T) {
	store := memory.NewStore()
	seedRawTables(t, store)

	runner := pipeline.NewRunner(store, store, store)
	ctx := context.Background()
	if _, err := runner.Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	customers, _ := store.ReadCustomers(ctx)
	got := customers[0]
	if got.FirstName != "Jon" || got.MaritalStatus != "Single" || got.Gender != "Male" {
		t.Errorf("conformed customer = %+v", got)
	}

	demographics, _ := store.ReadDemographics(ctx)
	if demographics[0].CustomerCode != "AW00000001" {
		t.Errorf("demographic code = %q, want prefix stripped", demographics[0].CustomerCode)
	}

	locations, _ := store.ReadLocations(ctx)
	if locations[0].CustomerCode != "AW00000001" || locations[0].Country != "United States" {
		t.Errorf("conformed location = %+v", locations[0])
	}

	products, _ := store.ReadProducts(ctx)
	if products[0].CategoryID != "CO-RF" || products[0].SerialNumber != "FR-1001" {
		t.Errorf("conformed product = %+v", products[0])
	}

	categories, _ := store.ReadCategories(ctx)
	if categories[0].CategoryID != "CO-RF" {
		t.Errorf("category id = %q, want %q", categories[0].CategoryID, "CO-RF")
	}
	// The derived product category key joins against the category id.
	if products[0].CategoryID != categories[0].CategoryID {
		t.Errorf("product category key %q does not match category id %q",
			products[0].CategoryID, categories[0].CategoryID)
	}

	sales, _ := store.ReadSales(ctx)
	wantDate := civil.Date{Year: 2024, Month: time.March, Day: 15}
	if !sales[0].OrderDate.Valid || sales[0].OrderDate.Date != wantDate {
		t.Errorf("order date = %v, want %v", sales[0].OrderDate, wantDate)
	}
}
