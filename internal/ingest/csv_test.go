package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cloud.google.com/go/civil"

	"retaildwh/internal/warehouse/memory"
)

func TestParseCustomersCSV(t *testing.T) {
	data := []byte(`customer_id,customer_code,first_name,last_name,marital_status,gender,create_date
11000,AW00011000,Jon,Yang,M,M,2025-10-06
,AW00011001, Eugene ,Huang,S,F,
notanumber,AW00011002,Ruben,Torres,,,2025-10-07
`)

	rows, err := ParseCustomersCSV(data)
	if err != nil {
		t.Fatalf("ParseCustomersCSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}

	first := rows[0]
	if !first.CustomerID.Valid || first.CustomerID.Int64 != 11000 {
		t.Errorf("CustomerID = %v, want 11000", first.CustomerID)
	}
	if first.CreateDate.Date != (civil.Date{Year: 2025, Month: time.October, Day: 6}) {
		t.Errorf("CreateDate = %v", first.CreateDate)
	}

	second := rows[1]
	if second.CustomerID.Valid {
		t.Error("empty id cell should be NULL")
	}
	if second.FirstName.StringVal != " Eugene " {
		t.Errorf("FirstName = %q, want untrimmed raw bytes", second.FirstName.StringVal)
	}
	if second.CreateDate.Valid {
		t.Error("empty date cell should be NULL")
	}

	third := rows[2]
	if third.CustomerID.Valid {
		t.Error("untypable id cell should be NULL, not an error")
	}
	if third.MaritalStatus.Valid || third.Gender.Valid {
		t.Error("empty enum cells should be NULL")
	}
}

func TestParseSalesCSV_KeepsPackedDates(t *testing.T) {
	data := []byte(`order_number,product_key,customer_id,order_date,ship_date,due_date,sales_amount,quantity,price
SO43697,CO-RF-1234,21768,20240315,20240322,20240327,3578,1,3578
SO43698,CO-RF-1234,28389,0,,20240327,,2,
`)

	rows, err := ParseSalesCSV(data)
	if err != nil {
		t.Fatalf("ParseSalesCSV: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}

	if !rows[0].OrderDate.Valid || rows[0].OrderDate.Int64 != 20240315 {
		t.Errorf("OrderDate = %v, want packed 20240315 (ingestion must not unpack)", rows[0].OrderDate)
	}
	if !rows[1].OrderDate.Valid || rows[1].OrderDate.Int64 != 0 {
		t.Errorf("OrderDate = %v, want packed 0 stored as-is", rows[1].OrderDate)
	}
	if rows[1].ShipDate.Valid || rows[1].Sales.Valid || rows[1].Price.Valid {
		t.Error("empty cells should be NULL")
	}
}

func TestParseCSV_StructuralErrors(t *testing.T) {
	if _, err := ParseLocationsCSV([]byte("")); err == nil {
		t.Error("empty file: want error")
	}

	ragged := []byte("customer_code,country\nAW-1,us,extra\n")
	if _, err := ParseLocationsCSV(ragged); err == nil {
		t.Error("ragged record: want error")
	}
}

func TestParseDemographicsAndLocationsAndCategories(t *testing.T) {
	demo, err := ParseDemographicsCSV([]byte("customer_code,birth_date,gender\nNASAW00011000,1971-10-06,Male\n"))
	if err != nil {
		t.Fatalf("ParseDemographicsCSV: %v", err)
	}
	if demo[0].CustomerCode.StringVal != "NASAW00011000" {
		t.Errorf("code = %q, want raw prefix preserved for conformance to strip", demo[0].CustomerCode.StringVal)
	}
	if demo[0].BirthDate.Date != (civil.Date{Year: 1971, Month: time.October, Day: 6}) {
		t.Errorf("BirthDate = %v", demo[0].BirthDate)
	}

	locs, err := ParseLocationsCSV([]byte("customer_code,country\nAW-00011000,us\n"))
	if err != nil {
		t.Fatalf("ParseLocationsCSV: %v", err)
	}
	if locs[0].Country.StringVal != "us" {
		t.Errorf("Country = %q, want raw value", locs[0].Country.StringVal)
	}

	cats, err := ParseCategoriesCSV([]byte("category_id,category,subcategory,maintenance\nAC_BR,Accessories,Bike Racks,Yes\n"))
	if err != nil {
		t.Fatalf("ParseCategoriesCSV: %v", err)
	}
	if cats[0].CategoryID.StringVal != "AC_BR" {
		t.Errorf("CategoryID = %q, want raw underscores preserved", cats[0].CategoryID.StringVal)
	}
}

func TestLoadAll(t *testing.T) {
	dir := t.TempDir()

	custPath := filepath.Join(dir, "customers.csv")
	custCSV := "customer_id,customer_code,first_name,last_name,marital_status,gender,create_date\n1,AW1,A,B,S,F,2025-01-01\n"
	if err := os.WriteFile(custPath, []byte(custCSV), 0o644); err != nil {
		t.Fatal(err)
	}

	locPath := filepath.Join(dir, "locations.csv")
	if err := os.WriteFile(locPath, []byte("customer_code,country\nAW-1,de\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	store := memory.NewStore()
	err := LoadAll(context.Background(), store, Sources{
		Customers: custPath,
		Locations: locPath,
		// The rest left empty on purpose: partial reload of two tables.
	})
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}

	ctx := context.Background()
	customers, _ := store.ReadRawCustomers(ctx)
	if len(customers) != 1 {
		t.Errorf("raw customers = %d rows, want 1", len(customers))
	}
	locations, _ := store.ReadRawLocations(ctx)
	if len(locations) != 1 {
		t.Errorf("raw locations = %d rows, want 1", len(locations))
	}
	sales, _ := store.ReadRawSales(ctx)
	if len(sales) != 0 {
		t.Errorf("raw sales = %d rows, want 0 (source not named)", len(sales))
	}
}

func TestLoadAll_MissingFile(t *testing.T) {
	store := memory.NewStore()
	err := LoadAll(context.Background(), store, Sources{Customers: "/does/not/exist.csv"})
	if err == nil {
		t.Error("missing source file: want error")
	}
}
