// Package marts assembles the dimensional reporting model from the
// conformed tables: plain natural-key joins plus surrogate keys assigned by
// stable ordinal numbering. No referential integrity is enforced; an
// unmatched natural key resolves to a NULL surrogate, never an error.
package marts

import (
	"context"
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/bigquery"

	"retaildwh/internal/conform"
	"retaildwh/internal/logger"
	"retaildwh/internal/warehouse"
)

// BuildCustomerDim joins conformed customers against demographics and
// locations on the customer code. Surrogate keys follow the business id
// order, so the numbering is stable for a given conformed snapshot. The CRM
// gender is authoritative; the ERP value only fills in when the CRM side is
// Unknown.
func BuildCustomerDim(
	customers []*warehouse.CustomerRow,
	demographics []*warehouse.DemographicRow,
	locations []*warehouse.LocationRow,
	refreshedAt time.Time,
) []*warehouse.CustomerDimRow {
	demoByCode := make(map[string]*warehouse.DemographicRow, len(demographics))
	for _, d := range demographics {
		demoByCode[d.CustomerCode] = d
	}
	locByCode := make(map[string]*warehouse.LocationRow, len(locations))
	for _, l := range locations {
		locByCode[l.CustomerCode] = l
	}

	sorted := make([]*warehouse.CustomerRow, len(customers))
	copy(sorted, customers)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].CustomerID < sorted[j].CustomerID })

	out := make([]*warehouse.CustomerDimRow, 0, len(sorted))
	for i, c := range sorted {
		row := &warehouse.CustomerDimRow{
			CustomerSK:    int64(i + 1),
			CustomerID:    c.CustomerID,
			CustomerCode:  c.CustomerCode,
			FirstName:     c.FirstName,
			LastName:      c.LastName,
			Country:       conform.Unknown,
			MaritalStatus: c.MaritalStatus,
			Gender:        c.Gender,
			CreateDate:    c.CreateDate,
			RefreshedAt:   refreshedAt,
		}

		if d, ok := demoByCode[c.CustomerCode]; ok {
			row.BirthDate = d.BirthDate
			if row.Gender == conform.Unknown {
				row.Gender = d.Gender
			}
		}
		if l, ok := locByCode[c.CustomerCode]; ok {
			row.Country = l.Country
		}

		out = append(out, row)
	}

	return out
}

// BuildProductDim joins current products (NULL end date) against categories
// on the derived category key. Historical product rows are excluded; the
// fact table references products as they stand today.
func BuildProductDim(
	products []*warehouse.ProductRow,
	categories []*warehouse.CategoryRow,
	refreshedAt time.Time,
) []*warehouse.ProductDimRow {
	catByID := make(map[string]*warehouse.CategoryRow, len(categories))
	for _, c := range categories {
		catByID[c.CategoryID] = c
	}

	current := make([]*warehouse.ProductRow, 0, len(products))
	for _, p := range products {
		if !p.EndDate.Valid {
			current = append(current, p)
		}
	}
	sort.Slice(current, func(i, j int) bool { return current[i].ProductID < current[j].ProductID })

	out := make([]*warehouse.ProductDimRow, 0, len(current))
	for i, p := range current {
		row := &warehouse.ProductDimRow{
			ProductSK:    int64(i + 1),
			ProductID:    p.ProductID,
			SerialNumber: p.SerialNumber,
			Name:         p.Name,
			CategoryID:   p.CategoryID,
			Cost:         p.Cost,
			Line:         p.Line,
			StartDate:    p.StartDate,
			RefreshedAt:  refreshedAt,
		}

		if c, ok := catByID[p.CategoryID]; ok {
			row.Category = c.Category
			row.Subcategory = c.Subcategory
			row.Maintenance = c.Maintenance
		}

		out = append(out, row)
	}

	return out
}

// BuildSalesFact resolves each conformed sales line against the two
// dimensions: customers by business id, products by serial number (the form
// the sales feed carries). Unmatched lines keep NULL surrogates.
func BuildSalesFact(
	sales []*warehouse.SalesRow,
	customerDim []*warehouse.CustomerDimRow,
	productDim []*warehouse.ProductDimRow,
	refreshedAt time.Time,
) []*warehouse.SalesFactRow {
	customerSK := make(map[int64]int64, len(customerDim))
	for _, c := range customerDim {
		customerSK[c.CustomerID] = c.CustomerSK
	}
	productSK := make(map[string]int64, len(productDim))
	for _, p := range productDim {
		productSK[p.SerialNumber] = p.ProductSK
	}

	out := make([]*warehouse.SalesFactRow, 0, len(sales))
	for _, s := range sales {
		row := &warehouse.SalesFactRow{
			OrderNumber: s.OrderNumber,
			OrderDate:   s.OrderDate,
			ShipDate:    s.ShipDate,
			DueDate:     s.DueDate,
			Sales:       s.Sales,
			Quantity:    s.Quantity,
			Price:       s.Price,
			RefreshedAt: refreshedAt,
		}

		if s.CustomerID.Valid {
			if sk, ok := customerSK[s.CustomerID.Int64]; ok {
				row.CustomerSK = bigquery.NullInt64{Int64: sk, Valid: true}
			}
		}
		if sk, ok := productSK[s.ProductKey]; ok {
			row.ProductSK = bigquery.NullInt64{Int64: sk, Valid: true}
		}

		out = append(out, row)
	}

	return out
}

// Refresh rebuilds all three dimensional tables from the current conformed
// snapshot.
func Refresh(ctx context.Context, reader warehouse.ConformedReader, store warehouse.MartStore) error {
	log := logger.FromContext(ctx)
	refreshedAt := time.Now()

	customers, err := reader.ReadCustomers(ctx)
	if err != nil {
		return fmt.Errorf("Refresh: reading conformed customers: %w", err)
	}
	demographics, err := reader.ReadDemographics(ctx)
	if err != nil {
		return fmt.Errorf("Refresh: reading conformed demographics: %w", err)
	}
	locations, err := reader.ReadLocations(ctx)
	if err != nil {
		return fmt.Errorf("Refresh: reading conformed locations: %w", err)
	}
	products, err := reader.ReadProducts(ctx)
	if err != nil {
		return fmt.Errorf("Refresh: reading conformed products: %w", err)
	}
	categories, err := reader.ReadCategories(ctx)
	if err != nil {
		return fmt.Errorf("Refresh: reading conformed categories: %w", err)
	}
	sales, err := reader.ReadSales(ctx)
	if err != nil {
		return fmt.Errorf("Refresh: reading conformed sales: %w", err)
	}

	customerDim := BuildCustomerDim(customers, demographics, locations, refreshedAt)
	productDim := BuildProductDim(products, categories, refreshedAt)
	salesFact := BuildSalesFact(sales, customerDim, productDim, refreshedAt)

	if err := store.ReplaceCustomerDim(ctx, customerDim); err != nil {
		return fmt.Errorf("Refresh: replacing customer dimension: %w", err)
	}
	if err := store.ReplaceProductDim(ctx, productDim); err != nil {
		return fmt.Errorf("Refresh: replacing product dimension: %w", err)
	}
	if err := store.ReplaceSalesFact(ctx, salesFact); err != nil {
		return fmt.Errorf("Refresh: replacing sales fact: %w", err)
	}

	log.Info().
		Int("dim_customers", len(customerDim)).
		Int("dim_products", len(productDim)).
		Int("fact_sales", len(salesFact)).
		Msg("dimensional model refreshed")

	return nil
}
