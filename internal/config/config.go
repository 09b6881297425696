package config

import (
	"os"
)

// Default values for the warehouse location. These match the development
// project; override via environment variables in other environments.
const (
	// DefaultProjectID is the default GCP project hosting the warehouse.
	DefaultProjectID = "retail-dwh-dev"

	// DefaultDataset is the default BigQuery dataset holding both the raw
	// and the conformed tables.
	DefaultDataset = "retail"
)

// Config holds the warehouse location settings for a run.
type Config struct {
	ProjectID string
	Dataset   string
}

// Load reads configuration from environment variables, falling back to the
// compiled-in defaults for anything unset.
func Load() Config {
	return Config{
		ProjectID: getenv("RETAILDWH_PROJECT_ID", DefaultProjectID),
		Dataset:   getenv("RETAILDWH_DATASET", DefaultDataset),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
