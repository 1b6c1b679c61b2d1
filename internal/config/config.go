// Package config holds top-level gatekeeper configuration, loaded
// from GK_* environment variables with sane defaults. Component-level
// knobs live next to their components; this covers the wiring the CLI
// needs to assemble the engine.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is the top-level gatekeeper configuration
type Config struct {
	// DBPath is the sqlite database location (GK_DB_PATH)
	DBPath string

	// RedisAddr enables the shared redis embedding cache when set
	// (GK_REDIS_ADDR); empty means the in-process cache
	RedisAddr string

	// CatalogPath points at the known-dataset yaml catalog
	// (GK_CATALOG_PATH); empty means overlap checks run with an empty
	// catalog and only leak patterns fire
	CatalogPath string

	// CutoffTablePath points at the model cutoff yaml table
	// (GK_CUTOFF_TABLE_PATH); empty means every model gets CAUTION
	CutoffTablePath string

	// ModelID is the evaluation model whose cutoff temporal analysis
	// uses (GK_MODEL_ID)
	ModelID string

	// SimilarityThreshold is the floor for reporting similar tasks
	// (GK_SIMILARITY_THRESHOLD)
	SimilarityThreshold float64

	// SweepConcurrency bounds the batch re-screening worker pool
	// (GK_SWEEP_CONCURRENCY)
	SweepConcurrency int

	// EmbedTimeout is the per-call embedding timeout (GK_EMBED_TIMEOUT,
	// Go duration syntax)
	EmbedTimeout time.Duration
}

// DefaultConfig returns the default gatekeeper configuration
func DefaultConfig() Config {
	return Config{
		DBPath:              ".taskbank/gatekeeper.db",
		SimilarityThreshold: 0.5,
		SweepConcurrency:    4,
		EmbedTimeout:        30 * time.Second,
	}
}

// Validate checks if the configuration values are sane
func (c Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("db path cannot be empty")
	}
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("similarity threshold must be in [0, 1] (got %.2f)", c.SimilarityThreshold)
	}
	if c.SweepConcurrency < 1 {
		return fmt.Errorf("sweep concurrency must be positive (got %d)", c.SweepConcurrency)
	}
	if c.EmbedTimeout <= 0 {
		return fmt.Errorf("embed timeout must be positive (got %v)", c.EmbedTimeout)
	}
	return nil
}

// FromEnv builds a Config from GK_* environment variables, falling
// back to defaults for unset values
func FromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("GK_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("GK_REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("GK_CATALOG_PATH"); v != "" {
		cfg.CatalogPath = v
	}
	if v := os.Getenv("GK_CUTOFF_TABLE_PATH"); v != "" {
		cfg.CutoffTablePath = v
	}
	if v := os.Getenv("GK_MODEL_ID"); v != "" {
		cfg.ModelID = v
	}
	if v := os.Getenv("GK_SIMILARITY_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid GK_SIMILARITY_THRESHOLD: %w", err)
		}
		cfg.SimilarityThreshold = f
	}
	if v := os.Getenv("GK_SWEEP_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid GK_SWEEP_CONCURRENCY: %w", err)
		}
		cfg.SweepConcurrency = n
	}
	if v := os.Getenv("GK_EMBED_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid GK_EMBED_TIMEOUT: %w", err)
		}
		cfg.EmbedTimeout = d
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
