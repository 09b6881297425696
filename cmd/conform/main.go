package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"retaildwh/internal/config"
	"retaildwh/internal/logger"
	"retaildwh/internal/pipeline"
	"retaildwh/internal/warehouse"
)

func main() {
	// Initialize structured logger
	log := logger.New()

	// Parse CLI flags
	timeout := flag.Duration("timeout", 15*time.Minute, "overall run timeout")
	flag.Parse()

	// Create context with timeout so CLI doesn't hang
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	// Add logger to context
	ctx = logger.WithContext(ctx, log)

	cfg := config.Load()
	store, err := warehouse.NewStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create warehouse store")
	}
	defer store.Close()

	log.Info().Str("project", cfg.ProjectID).Str("dataset", cfg.Dataset).Msg("Starting conformance run")

	runner := pipeline.NewRunner(store, store, store)
	report, err := runner.Run(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Conformance run failed")
	}

	fmt.Printf("Run %s completed in %s.\n", report.RunID, report.Duration.Round(time.Millisecond))
	for _, c := range report.Components {
		fmt.Printf("  %-10s %6d in  %6d out  %s\n", c.Name, c.RowsIn, c.RowsOut, c.Duration.Round(time.Millisecond))
	}
}
