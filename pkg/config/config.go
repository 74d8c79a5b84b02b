// Package config holds the tunable constants of the replenishment workflow.
// Defaults match the observed retail policy; a YAML file can override them.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultLowStockThreshold is the aggregate quantity below which a
	// product is flagged low on stock.
	DefaultLowStockThreshold = 5

	// DefaultVelocityWindowDays is the fixed trailing window the daily
	// sales average is computed over.
	DefaultVelocityWindowDays = 7

	// DefaultReorderHorizonDays is the number of days of average demand a
	// reorder recommendation should cover.
	DefaultReorderHorizonDays = 1

	// DefaultExpiringHorizonDays is how far ahead the expiring-items view
	// looks for batches nearing their expiration date.
	DefaultExpiringHorizonDays = 3
)

// Config holds the workflow thresholds and horizons.
type Config struct {
	LowStockThreshold   int64 `yaml:"low_stock_threshold"`
	VelocityWindowDays  int   `yaml:"velocity_window_days"`
	ReorderHorizonDays  int   `yaml:"reorder_horizon_days"`
	ExpiringHorizonDays int   `yaml:"expiring_horizon_days"`
}

// Default returns the configuration with all values at their defaults.
func Default() Config {
	return Config{
		LowStockThreshold:   DefaultLowStockThreshold,
		VelocityWindowDays:  DefaultVelocityWindowDays,
		ReorderHorizonDays:  DefaultReorderHorizonDays,
		ExpiringHorizonDays: DefaultExpiringHorizonDays,
	}
}

// Load reads a YAML config file and overlays it on the defaults. Fields
// omitted from the file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that every threshold and horizon is positive.
func (c Config) Validate() error {
	if c.LowStockThreshold <= 0 {
		return fmt.Errorf("low_stock_threshold must be positive, got %d", c.LowStockThreshold)
	}
	if c.VelocityWindowDays <= 0 {
		return fmt.Errorf("velocity_window_days must be positive, got %d", c.VelocityWindowDays)
	}
	if c.ReorderHorizonDays <= 0 {
		return fmt.Errorf("reorder_horizon_days must be positive, got %d", c.ReorderHorizonDays)
	}
	if c.ExpiringHorizonDays <= 0 {
		return fmt.Errorf("expiring_horizon_days must be positive, got %d", c.ExpiringHorizonDays)
	}
	return nil
}
