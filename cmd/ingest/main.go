package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"retaildwh/internal/config"
	"retaildwh/internal/ingest"
	"retaildwh/internal/logger"
	"retaildwh/internal/warehouse"
)

func main() {
	// Initialize structured logger
	log := logger.New()

	// Parse CLI flags: each source may be a local path or a gs:// URI.
	// Any flag left empty skips that table.
	var src ingest.Sources
	flag.StringVar(&src.Customers, "customers", "", "CRM customers extract (local path or gs:// URI)")
	flag.StringVar(&src.Products, "products", "", "CRM products extract")
	flag.StringVar(&src.Sales, "sales", "", "CRM sales extract")
	flag.StringVar(&src.Demographics, "demographics", "", "ERP customer demographics extract")
	flag.StringVar(&src.Locations, "locations", "", "ERP customer locations extract")
	flag.StringVar(&src.Categories, "categories", "", "ERP product categories extract")
	flag.Parse()

	if src == (ingest.Sources{}) {
		log.Fatal().Msg("Error: at least one source flag is required")
	}

	// Create context with timeout so CLI doesn't hang
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	// Add logger to context
	ctx = logger.WithContext(ctx, log)

	cfg := config.Load()
	store, err := warehouse.NewStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create warehouse store")
	}
	defer store.Close()

	log.Info().Str("project", cfg.ProjectID).Str("dataset", cfg.Dataset).Msg("Starting raw load")

	if err := ingest.LoadAll(ctx, store, src); err != nil {
		log.Fatal().Err(err).Msg("Raw load failed")
	}

	fmt.Println("Raw load completed successfully.")
}
