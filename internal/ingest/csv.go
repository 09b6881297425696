package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"

	"retaildwh/internal/warehouse"
)

const csvDateLayout = "2006-01-02"

// readRecords parses CSV bytes, validates the expected column count against
// the header, and returns the data records. A ragged or short file is a
// structural error, not a value defect.
func readRecords(data []byte, wantColumns int) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = wantColumns

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("parsing CSV: file has no header row")
	}

	// Drop the header.
	return records[1:], nil
}

// Cell parsers. Empty cells are NULL; a cell that does not parse as its
// expected type is also NULL, stored as-received-but-untypable. The raw
// layer never rejects a row over a bad value.

func cellString(s string) bigquery.NullString {
	if s == "" {
		return bigquery.NullString{}
	}
	return bigquery.NullString{StringVal: s, Valid: true}
}

func cellInt64(s string) bigquery.NullInt64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return bigquery.NullInt64{}
	}
	return bigquery.NullInt64{Int64: n, Valid: true}
}

func cellDate(s string) bigquery.NullDate {
	t, err := time.Parse(csvDateLayout, strings.TrimSpace(s))
	if err != nil {
		return bigquery.NullDate{}
	}
	return bigquery.NullDate{Date: civil.DateOf(t), Valid: true}
}

// ParseCustomersCSV parses the CRM customer extract:
// customer_id,customer_code,first_name,last_name,marital_status,gender,create_date
func ParseCustomersCSV(data []byte) ([]*warehouse.RawCustomerRow, error) {
	records, err := readRecords(data, 7)
	if err != nil {
		return nil, fmt.Errorf("ParseCustomersCSV: %w", err)
	}

	rows := make([]*warehouse.RawCustomerRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, &warehouse.RawCustomerRow{
			CustomerID:    cellInt64(rec[0]),
			CustomerCode:  cellString(rec[1]),
			FirstName:     cellString(rec[2]),
			LastName:      cellString(rec[3]),
			MaritalStatus: cellString(rec[4]),
			Gender:        cellString(rec[5]),
			CreateDate:    cellDate(rec[6]),
		})
	}
	return rows, nil
}

// ParseProductsCSV parses the CRM product extract:
// product_id,product_key,product_name,product_cost,product_line,start_date,end_date
func ParseProductsCSV(data []byte) ([]*warehouse.RawProductRow, error) {
	records, err := readRecords(data, 7)
	if err != nil {
		return nil, fmt.Errorf("ParseProductsCSV: %w", err)
	}

	rows := make([]*warehouse.RawProductRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, &warehouse.RawProductRow{
			ProductID:  cellInt64(rec[0]),
			ProductKey: cellString(rec[1]),
			Name:       cellString(rec[2]),
			Cost:       cellInt64(rec[3]),
			Line:       cellString(rec[4]),
			StartDate:  cellDate(rec[5]),
			EndDate:    cellDate(rec[6]),
		})
	}
	return rows, nil
}

// ParseSalesCSV parses the CRM sales extract:
// order_number,product_key,customer_id,order_date,ship_date,due_date,sales_amount,quantity,price
// The three date columns stay packed integers; unpacking them is a
// conformance rule, not an ingestion concern.
func ParseSalesCSV(data []byte) ([]*warehouse.RawSalesRow, error) {
	records, err := readRecords(data, 9)
	if err != nil {
		return nil, fmt.Errorf("ParseSalesCSV: %w", err)
	}

	rows := make([]*warehouse.RawSalesRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, &warehouse.RawSalesRow{
			OrderNumber: cellString(rec[0]),
			ProductKey:  cellString(rec[1]),
			CustomerID:  cellInt64(rec[2]),
			OrderDate:   cellInt64(rec[3]),
			ShipDate:    cellInt64(rec[4]),
			DueDate:     cellInt64(rec[5]),
			Sales:       cellInt64(rec[6]),
			Quantity:    cellInt64(rec[7]),
			Price:       cellInt64(rec[8]),
		})
	}
	return rows, nil
}

// ParseDemographicsCSV parses the ERP customer demographic extract:
// customer_code,birth_date,gender
func ParseDemographicsCSV(data []byte) ([]*warehouse.RawDemographicRow, error) {
	records, err := readRecords(data, 3)
	if err != nil {
		return nil, fmt.Errorf("ParseDemographicsCSV: %w", err)
	}

	rows := make([]*warehouse.RawDemographicRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, &warehouse.RawDemographicRow{
			CustomerCode: cellString(rec[0]),
			BirthDate:    cellDate(rec[1]),
			Gender:       cellString(rec[2]),
		})
	}
	return rows, nil
}

// ParseLocationsCSV parses the ERP customer location extract:
// customer_code,country
func ParseLocationsCSV(data []byte) ([]*warehouse.RawLocationRow, error) {
	records, err := readRecords(data, 2)
	if err != nil {
		return nil, fmt.Errorf("ParseLocationsCSV: %w", err)
	}

	rows := make([]*warehouse.RawLocationRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, &warehouse.RawLocationRow{
			CustomerCode: cellString(rec[0]),
			Country:      cellString(rec[1]),
		})
	}
	return rows, nil
}

// ParseCategoriesCSV parses the ERP category extract:
// category_id,category,subcategory,maintenance
func ParseCategoriesCSV(data []byte) ([]*warehouse.RawCategoryRow, error) {
	records, err := readRecords(data, 4)
	if err != nil {
		return nil, fmt.Errorf("ParseCategoriesCSV: %w", err)
	}

	rows := make([]*warehouse.RawCategoryRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, &warehouse.RawCategoryRow{
			CategoryID:  cellString(rec[0]),
			Category:    cellString(rec[1]),
			Subcategory: cellString(rec[2]),
			Maintenance: cellString(rec[3]),
		})
	}
	return rows, nil
}
