package config

import (
	"os"
	"strconv"

	"causalprep/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Data    DataConfig
	Output  OutputConfig
	Binning BinningConfig
}

// DataConfig holds dataset input settings
type DataConfig struct {
	// File is the xlsx or csv dataset to analyze
	File string
}

// OutputConfig holds report and plot output settings
type OutputConfig struct {
	Dir        string
	WritePlots bool
}

// BinningConfig holds discretization settings
type BinningConfig struct {
	// ConfigFile optionally points at a JSON batch-discretization config
	ConfigFile string
	// Seed controls k-means initialization (0 = deterministic midpoints)
	Seed int64
	// StrictBatch fails on missing batch columns instead of skipping them
	StrictBatch bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Data: DataConfig{
			File: os.Getenv("DATA_FILE"),
		},
		Output: OutputConfig{
			Dir:        getEnvOrDefault("OUTPUT_DIR", "output/feature_analysis"),
			WritePlots: getEnvBoolOrDefault("WRITE_PLOTS", true),
		},
		Binning: BinningConfig{
			ConfigFile:  getEnvOrDefault("BINNING_CONFIG", ""),
			Seed:        getEnvInt64OrDefault("KMEANS_SEED", 0),
			StrictBatch: getEnvBoolOrDefault("STRICT_BATCH", false),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Data.File == "" {
		return errors.ConfigInvalid("DATA_FILE is required")
	}
	if config.Output.Dir == "" {
		return errors.ConfigInvalid("output directory is required")
	}
	return nil
}

// Helper functions for environment variable parsing

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
