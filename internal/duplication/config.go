package duplication

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds duplicate detection configuration
type Config struct {
	// ClusterThreshold is the mutual similarity above which two tasks
	// are connected in the duplicate graph (default: 0.8)
	ClusterThreshold float64

	// PlagiarismTrigger is the overall similarity above which the
	// sliding-window plagiarism scan runs (default: 0.85)
	PlagiarismTrigger float64

	// WindowSize is the sliding-window width in tokens (default: 20)
	WindowSize int

	// WindowThreshold is the per-window similarity above which a
	// window counts as a matched segment (default: 0.9)
	WindowThreshold float64

	// SmallCorpusLimit is the corpus size below which a full pairwise
	// scan is cheaper than index pruning (default: 200)
	SmallCorpusLimit int

	// MaxCandidates caps how many pruned candidates get the full
	// three-signal comparison (default: 200)
	MaxCandidates int

	// Shards is the parallelism for index scans (default: 4)
	Shards int
}

// DefaultConfig returns the default duplicate detection configuration
func DefaultConfig() Config {
	return Config{
		ClusterThreshold:  0.8,
		PlagiarismTrigger: 0.85,
		WindowSize:        20,
		WindowThreshold:   0.9,
		SmallCorpusLimit:  200,
		MaxCandidates:     200,
		Shards:            4,
	}
}

// Validate checks if the configuration values are sane
func (c Config) Validate() error {
	if c.ClusterThreshold <= 0 || c.ClusterThreshold > 1 {
		return fmt.Errorf("cluster threshold must be in (0, 1] (got %.2f)", c.ClusterThreshold)
	}
	if c.PlagiarismTrigger <= 0 || c.PlagiarismTrigger > 1 {
		return fmt.Errorf("plagiarism trigger must be in (0, 1] (got %.2f)", c.PlagiarismTrigger)
	}
	if c.WindowSize < 2 {
		return fmt.Errorf("window size must be at least 2 (got %d)", c.WindowSize)
	}
	if c.WindowThreshold <= 0 || c.WindowThreshold > 1 {
		return fmt.Errorf("window threshold must be in (0, 1] (got %.2f)", c.WindowThreshold)
	}
	if c.SmallCorpusLimit < 0 {
		return fmt.Errorf("small corpus limit cannot be negative (got %d)", c.SmallCorpusLimit)
	}
	if c.MaxCandidates < 1 {
		return fmt.Errorf("max candidates must be positive (got %d)", c.MaxCandidates)
	}
	if c.Shards < 1 {
		return fmt.Errorf("shards must be positive (got %d)", c.Shards)
	}
	return nil
}

// ConfigFromEnv builds a Config from GK_DUP_* environment variables,
// falling back to defaults for unset values
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("GK_DUP_CLUSTER_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid GK_DUP_CLUSTER_THRESHOLD: %w", err)
		}
		cfg.ClusterThreshold = f
	}
	if v := os.Getenv("GK_DUP_PLAGIARISM_TRIGGER"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid GK_DUP_PLAGIARISM_TRIGGER: %w", err)
		}
		cfg.PlagiarismTrigger = f
	}
	if v := os.Getenv("GK_DUP_WINDOW_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid GK_DUP_WINDOW_SIZE: %w", err)
		}
		cfg.WindowSize = n
	}
	if v := os.Getenv("GK_DUP_MAX_CANDIDATES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid GK_DUP_MAX_CANDIDATES: %w", err)
		}
		cfg.MaxCandidates = n
	}
	if v := os.Getenv("GK_DUP_SHARDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid GK_DUP_SHARDS: %w", err)
		}
		cfg.Shards = n
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
