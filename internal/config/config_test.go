package config

import (
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("GK_DB_PATH", "/tmp/bank.db")
	t.Setenv("GK_MODEL_ID", "example-model-2")
	t.Setenv("GK_SWEEP_CONCURRENCY", "8")
	t.Setenv("GK_EMBED_TIMEOUT", "10s")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}
	if cfg.DBPath != "/tmp/bank.db" {
		t.Errorf("DBPath = %s", cfg.DBPath)
	}
	if cfg.ModelID != "example-model-2" {
		t.Errorf("ModelID = %s", cfg.ModelID)
	}
	if cfg.SweepConcurrency != 8 {
		t.Errorf("SweepConcurrency = %d", cfg.SweepConcurrency)
	}
	if cfg.EmbedTimeout != 10*time.Second {
		t.Errorf("EmbedTimeout = %v", cfg.EmbedTimeout)
	}
	if cfg.SimilarityThreshold != DefaultConfig().SimilarityThreshold {
		t.Error("unset values must keep defaults")
	}
}

func TestFromEnvRejectsGarbage(t *testing.T) {
	t.Setenv("GK_SWEEP_CONCURRENCY", "lots")
	if _, err := FromEnv(); err == nil {
		t.Error("expected error for non-numeric GK_SWEEP_CONCURRENCY")
	}
}

func TestValidateBounds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SimilarityThreshold = 1.5
	if err := cfg.Validate(); err == nil {
		t.Error("threshold above 1 must be rejected")
	}

	cfg = DefaultConfig()
	cfg.SweepConcurrency = 0
	if err := cfg.Validate(); err == nil {
		t.Error("zero concurrency must be rejected")
	}
}
