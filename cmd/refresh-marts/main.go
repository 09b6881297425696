package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"retaildwh/internal/config"
	"retaildwh/internal/logger"
	"retaildwh/internal/marts"
	"retaildwh/internal/warehouse"
)

func main() {
	// Initialize structured logger
	log := logger.New()

	// Parse CLI flags
	timeout := flag.Duration("timeout", 10*time.Minute, "overall refresh timeout")
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

	log.Info().Str("project", cfg.ProjectID).Str("dataset", cfg.Dataset).Msg("Starting mart refresh")

	if err := marts.Refresh(ctx, store, store); err != nil {
		log.Fatal().Err(err).Msg("Mart refresh failed")
	}

	fmt.Println("Mart refresh completed successfully.")
}
