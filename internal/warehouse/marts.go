package warehouse

import (
	"context"
	"time"

	"cloud.google.com/go/bigquery"
)

// Mart rows are the downstream dimensional model: conformed tables joined on
// natural keys, with surrogate keys assigned by stable ordinal numbering.

type CustomerDimRow struct {
	CustomerSK    int64             `bigquery:"customer_sk"`
	CustomerID    int64             `bigquery:"customer_id"`
	CustomerCode  string            `bigquery:"customer_code"`
	FirstName     string            `bigquery:"first_name"`
	LastName      string            `bigquery:"last_name"`
	Country       string            `bigquery:"country"`
	MaritalStatus string            `bigquery:"marital_status"`
	Gender        string            `bigquery:"gender"`
	BirthDate     bigquery.NullDate `bigquery:"birth_date"`
	CreateDate    bigquery.NullDate `bigquery:"create_date"`
	RefreshedAt   time.Time         `bigquery:"refreshed_at"`
}

type ProductDimRow struct {
	ProductSK    int64             `bigquery:"product_sk"`
	ProductID    int64             `bigquery:"product_id"`
	SerialNumber string            `bigquery:"serial_number"`
	Name         string            `bigquery:"product_name"`
	CategoryID   string            `bigquery:"category_id"`
	Category     string            `bigquery:"category"`
	Subcategory  string            `bigquery:"subcategory"`
	Maintenance  string            `bigquery:"maintenance"`
	Cost         int64             `bigquery:"product_cost"`
	Line         string            `bigquery:"product_line"`
	StartDate    bigquery.NullDate `bigquery:"start_date"`
	RefreshedAt  time.Time         `bigquery:"refreshed_at"`
}

// SalesFactRow references the dimensions by surrogate key. Unmatched natural
// keys resolve to NULL surrogates, never an error.
type SalesFactRow struct {
	OrderNumber string             `bigquery:"order_number"`
	ProductSK   bigquery.NullInt64 `bigquery:"product_sk"`
	CustomerSK  bigquery.NullInt64 `bigquery:"customer_sk"`
	OrderDate   bigquery.NullDate  `bigquery:"order_date"`
	ShipDate    bigquery.NullDate  `bigquery:"ship_date"`
	DueDate     bigquery.NullDate  `bigquery:"due_date"`
	Sales       int64              `bigquery:"sales_amount"`
	Quantity    bigquery.NullInt64 `bigquery:"quantity"`
	Price       bigquery.NullInt64 `bigquery:"price"`
	RefreshedAt time.Time          `bigquery:"refreshed_at"`
}

// MartStore provides full-refresh write access to the dimensional tables.
type MartStore interface {
	ReplaceCustomerDim(ctx context.Context, rows []*CustomerDimRow) error
	ReplaceProductDim(ctx context.Context, rows []*ProductDimRow) error
	ReplaceSalesFact(ctx context.Context, rows []*SalesFactRow) error
}

func (s *Store) ReplaceCustomerDim(ctx context.Context, rows []*CustomerDimRow) error {
	return s.replaceRows(ctx, customerDimTable, rows, len(rows))
}

func (s *Store) ReplaceProductDim(ctx context.Context, rows []*ProductDimRow) error {
	return s.replaceRows(ctx, productDimTable, rows, len(rows))
}

func (s *Store) ReplaceSalesFact(ctx context.Context, rows []*SalesFactRow) error {
	return s.replaceRows(ctx, salesFactTable, rows, len(rows))
}
