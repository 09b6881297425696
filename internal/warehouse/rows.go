package warehouse

import (
	"time"

	"cloud.google.com/go/bigquery"
)

// Raw rows mirror the source extracts field for field. Everything is
// nullable: the raw layer stores values exactly as received, and the
// conformance stage owns all repair and typing decisions.

type RawCustomerRow struct {
	CustomerID    bigquery.NullInt64  `bigquery:"customer_id"`
	CustomerCode  bigquery.NullString `bigquery:"customer_code"`
	FirstName     bigquery.NullString `bigquery:"first_name"`
	LastName      bigquery.NullString `bigquery:"last_name"`
	MaritalStatus bigquery.NullString `bigquery:"marital_status"`
	Gender        bigquery.NullString `bigquery:"gender"`
	CreateDate    bigquery.NullDate   `bigquery:"create_date"`
}

type RawProductRow struct {
	ProductID  bigquery.NullInt64  `bigquery:"product_id"`
	ProductKey bigquery.NullString `bigquery:"product_key"`
	Name       bigquery.NullString `bigquery:"product_name"`
	Cost       bigquery.NullInt64  `bigquery:"product_cost"`
	Line       bigquery.NullString `bigquery:"product_line"`
	StartDate  bigquery.NullDate   `bigquery:"start_date"`
	EndDate    bigquery.NullDate   `bigquery:"end_date"`
}

// RawSalesRow carries the three order dates as packed YYYYMMDD integers,
// the form they arrive in from the ERP extract.
type RawSalesRow struct {
	OrderNumber bigquery.NullString `bigquery:"order_number"`
	ProductKey  bigquery.NullString `bigquery:"product_key"`
	CustomerID  bigquery.NullInt64  `bigquery:"customer_id"`
	OrderDate   bigquery.NullInt64  `bigquery:"order_date"`
	ShipDate    bigquery.NullInt64  `bigquery:"ship_date"`
	DueDate     bigquery.NullInt64  `bigquery:"due_date"`
	Sales       bigquery.NullInt64  `bigquery:"sales_amount"`
	Quantity    bigquery.NullInt64  `bigquery:"quantity"`
	Price       bigquery.NullInt64  `bigquery:"price"`
}

type RawDemographicRow struct {
	CustomerCode bigquery.NullString `bigquery:"customer_code"`
	BirthDate    bigquery.NullDate   `bigquery:"birth_date"`
	Gender       bigquery.NullString `bigquery:"gender"`
}

type RawLocationRow struct {
	CustomerCode bigquery.NullString `bigquery:"customer_code"`
	Country      bigquery.NullString `bigquery:"country"`
}

type RawCategoryRow struct {
	CategoryID  bigquery.NullString `bigquery:"category_id"`
	Category    bigquery.NullString `bigquery:"category"`
	Subcategory bigquery.NullString `bigquery:"subcategory"`
	Maintenance bigquery.NullString `bigquery:"maintenance"`
}

// Conformed rows are the typed, validated output of the conformance stage.
// ConformedAt is assigned once per run; every row written by one run carries
// the same stamp.

type CustomerRow struct {
	CustomerID    int64             `bigquery:"customer_id"`
	CustomerCode  string            `bigquery:"customer_code"`
	FirstName     string            `bigquery:"first_name"`
	LastName      string            `bigquery:"last_name"`
	MaritalStatus string            `bigquery:"marital_status"`
	Gender        string            `bigquery:"gender"`
	CreateDate    bigquery.NullDate `bigquery:"create_date"`
	ConformedAt   time.Time         `bigquery:"conformed_at"`
}

type DemographicRow struct {
	CustomerCode string            `bigquery:"customer_code"`
	BirthDate    bigquery.NullDate `bigquery:"birth_date"`
	Gender       string            `bigquery:"gender"`
	ConformedAt  time.Time         `bigquery:"conformed_at"`
}

type LocationRow struct {
	CustomerCode string    `bigquery:"customer_code"`
	Country      string    `bigquery:"country"`
	ConformedAt  time.Time `bigquery:"conformed_at"`
}

// ProductRow's CategoryID and SerialNumber are derived from the composite
// product key; EndDate is derived from sibling rows sharing the same name.
type ProductRow struct {
	ProductID    int64             `bigquery:"product_id"`
	CategoryID   string            `bigquery:"category_id"`
	SerialNumber string            `bigquery:"serial_number"`
	Name         string            `bigquery:"product_name"`
	Cost         int64             `bigquery:"product_cost"`
	Line         string            `bigquery:"product_line"`
	StartDate    bigquery.NullDate `bigquery:"start_date"`
	EndDate      bigquery.NullDate `bigquery:"end_date"`
	ConformedAt  time.Time         `bigquery:"conformed_at"`
}

type CategoryRow struct {
	CategoryID  string    `bigquery:"category_id"`
	Category    string    `bigquery:"category"`
	Subcategory string    `bigquery:"subcategory"`
	Maintenance string    `bigquery:"maintenance"`
	ConformedAt time.Time `bigquery:"conformed_at"`
}

// SalesRow keeps the raw grain: one conformed row per raw row, no
// deduplication. Price is nullable because a zero-quantity row cannot have
// its price recomputed.
type SalesRow struct {
	OrderNumber string             `bigquery:"order_number"`
	ProductKey  string             `bigquery:"product_key"`
	CustomerID  bigquery.NullInt64 `bigquery:"customer_id"`
	OrderDate   bigquery.NullDate  `bigquery:"order_date"`
	ShipDate    bigquery.NullDate  `bigquery:"ship_date"`
	DueDate     bigquery.NullDate  `bigquery:"due_date"`
	Sales       int64              `bigquery:"sales_amount"`
	Quantity    bigquery.NullInt64 `bigquery:"quantity"`
	Price       bigquery.NullInt64 `bigquery:"price"`
	ConformedAt time.Time          `bigquery:"conformed_at"`
}

// RunRow is the audit record for one conformance run.
type RunRow struct {
	RunID        string                 `bigquery:"run_id"`
	StartedAt    time.Time              `bigquery:"started_ts"`
	FinishedAt   bigquery.NullTimestamp `bigquery:"finished_ts"`
	Status       string                 `bigquery:"status"`
	FaultID      bigquery.NullString    `bigquery:"fault_id"`
	ErrorMessage string                 `bigquery:"error_message"`
}

// Run statuses for RunRow.
const (
	RunStatusRunning = "RUNNING"
	RunStatusSuccess = "SUCCESS"
	RunStatusFailed  = "FAILED"
)
