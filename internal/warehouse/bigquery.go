package warehouse

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"retaildwh/internal/config"
)

// Table names within the warehouse dataset.
const (
	rawCustomersTable    = "raw_crm_customers"
	rawProductsTable     = "raw_crm_products"
	rawSalesTable        = "raw_crm_sales"
	rawDemographicsTable = "raw_erp_demographics"
	rawLocationsTable    = "raw_erp_locations"
	rawCategoriesTable   = "raw_erp_categories"

	conformedCustomersTable    = "conformed_customers"
	conformedDemographicsTable = "conformed_demographics"
	conformedLocationsTable    = "conformed_locations"
	conformedProductsTable     = "conformed_products"
	conformedCategoriesTable   = "conformed_categories"
	conformedSalesTable        = "conformed_sales"

	customerDimTable = "dim_customers"
	productDimTable  = "dim_products"
	salesFactTable   = "fact_sales"

	runsTable = "conformance_runs"
)

// Store is the BigQuery-backed implementation of the warehouse interfaces.
// It holds a shared client so one run does not open a connection per
// operation.
type Store struct {
	client    *bigquery.Client
	projectID string
	dataset   string
}

// NewStore creates a Store with a shared BigQuery client.
func NewStore(ctx context.Context, cfg config.Config) (*Store, error) {
	client, err := bigquery.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("NewStore: bigquery client: %w", err)
	}
	return &Store{
		client:    client,
		projectID: cfg.ProjectID,
		dataset:   cfg.Dataset,
	}, nil
}

// Close closes the BigQuery client connection.
func (s *Store) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// readRows runs a SELECT over one table and scans every row into T.
func readRows[T any](ctx context.Context, s *Store, tableID string) ([]*T, error) {
	q := s.client.Query(fmt.Sprintf(
		"SELECT * FROM `%s.%s.%s`", s.projectID, s.dataset, tableID,
	))

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("readRows %s: query read: %w", tableID, err)
	}

	var rows []*T
	for {
		var r T
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("readRows %s: iter next: %w", tableID, err)
		}
		rows = append(rows, &r)
	}

	return rows, nil
}

// replaceRows atomically replaces the full contents of tableID with rows.
// The new rows are first streamed into a short-lived staging table, then the
// destination is swapped with a CREATE OR REPLACE TABLE query job. The swap
// must be a query job, not a copy job: freshly streamed rows sit in the
// staging table's streaming buffer, which queries read and copy jobs skip.
// The swap commits in one statement; if anything fails before it does, the
// destination keeps its prior contents.
func (s *Store) replaceRows(ctx context.Context, tableID string, rows interface{}, count int) error {
	target := s.client.DatasetInProject(s.projectID, s.dataset).Table(tableID)

	meta, err := target.Metadata(ctx)
	if err != nil {
		return fmt.Errorf("replaceRows %s: reading target schema: %w", tableID, err)
	}

	stagingID := fmt.Sprintf("%s_staging_%s", tableID, uuid.NewString()[:8])
	staging := s.client.DatasetInProject(s.projectID, s.dataset).Table(stagingID)

	err = staging.Create(ctx, &bigquery.TableMetadata{
		Schema:         meta.Schema,
		ExpirationTime: time.Now().Add(6 * time.Hour),
	})
	if err != nil {
		return fmt.Errorf("replaceRows %s: creating staging table: %w", tableID, err)
	}
	defer func() {
		// Best effort; the expiration time covers a failed delete.
		_ = staging.Delete(context.WithoutCancel(ctx))
	}()

	if count > 0 {
		if err := staging.Inserter().Put(ctx, rows); err != nil {
			return fmt.Errorf("replaceRows %s: staging rows: %w", tableID, err)
		}
	}

	q := s.client.Query(replaceTableSQL(s.projectID, s.dataset, tableID, stagingID))

	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("replaceRows %s: running swap query: %w", tableID, err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("replaceRows %s: waiting for swap query: %w", tableID, err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("replaceRows %s: swap query error: %w", tableID, err)
	}

	return nil
}

// replaceTableSQL builds the statement that swaps the staged rows into the
// destination.
func replaceTableSQL(projectID, dataset, destID, stagingID string) string {
	return fmt.Sprintf(
		"CREATE OR REPLACE TABLE `%s.%s.%s` AS SELECT * FROM `%s.%s.%s`",
		projectID, dataset, destID, projectID, dataset, stagingID,
	)
}
