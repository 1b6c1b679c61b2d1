package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/taskbank/gatekeeper/internal/config"
	"github.com/taskbank/gatekeeper/internal/corpus"
	"github.com/taskbank/gatekeeper/internal/duplication"
	"github.com/taskbank/gatekeeper/internal/embedding"
	"github.com/taskbank/gatekeeper/internal/events"
	"github.com/taskbank/gatekeeper/internal/quality"
	"github.com/taskbank/gatekeeper/internal/screening"
	"github.com/taskbank/gatekeeper/internal/similarity"
	"github.com/taskbank/gatekeeper/internal/storage"
	"github.com/taskbank/gatekeeper/internal/temporal"
)

// Shared by every verb, set up in PersistentPreRunE
var (
	cfg    config.Config
	store  storage.Storage
	engine *screening.Engine
)

const embeddingDimensions = 256

var rootCmd = &cobra.Command{
	Use:   "gatekeeper",
	Short: "Benchmark task bank gatekeeper",
	Long: `Gatekeeper screens candidate benchmark tasks before publication:
it scores intrinsic quality, checks for contamination (duplicates,
training-corpus overlap, temporal leakage), and drives the publication
status state machine.

Configuration comes from GK_* environment variables: GK_DB_PATH,
GK_CATALOG_PATH, GK_CUTOFF_TABLE_PATH, GK_MODEL_ID, GK_REDIS_ADDR,
GK_SIMILARITY_THRESHOLD, GK_SWEEP_CONCURRENCY, GK_EMBED_TIMEOUT.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd.Context())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if store != nil {
			if err := store.Close(); err != nil {
				log.Printf("[CLI] closing store: %v", err)
			}
		}
	},
}

// logSink writes screening events to the operational log
type logSink struct{}

func (logSink) Emit(event *events.Event) {
	log.Printf("[EVENT] %s task=%s %s", event.Type, event.TaskID, event.Message)
}

func setup(ctx context.Context) error {
	var err error
	cfg, err = config.FromEnv()
	if err != nil {
		return err
	}

	store, err = storage.New(ctx, &storage.Config{Path: cfg.DBPath})
	if err != nil {
		return fmt.Errorf("opening task bank at %s: %w", cfg.DBPath, err)
	}

	// Local deterministic embedder; an external provider plugs in here
	// when one is configured.
	provider, err := embedding.NewHashingProvider(embeddingDimensions)
	if err != nil {
		return err
	}

	var cache embedding.Cache
	if cfg.RedisAddr != "" {
		redisCache, err := embedding.NewRedisCache(cfg.RedisAddr, os.Getenv("GK_REDIS_PASSWORD"), "", 0)
		if err != nil {
			return fmt.Errorf("connecting embedding cache: %w", err)
		}
		cache = redisCache
	} else {
		cache = screening.NewStoreCache(store, provider.Model())
	}

	retry := embedding.DefaultRetryConfig()
	retry.Timeout = cfg.EmbedTimeout
	client, err := embedding.NewClient(provider, cache, retry)
	if err != nil {
		return err
	}

	sim := similarity.NewEngine(client)

	uniq, err := quality.NewUniquenessCalculator(sim)
	if err != nil {
		return err
	}
	registry, err := quality.DefaultRegistry(uniq)
	if err != nil {
		return err
	}
	assessor, err := quality.NewAssessor(registry)
	if err != nil {
		return err
	}

	dupCfg, err := duplication.ConfigFromEnv()
	if err != nil {
		return err
	}
	detector, err := duplication.NewDetector(sim, client, dupCfg)
	if err != nil {
		return err
	}

	catalog := &corpus.Catalog{}
	if cfg.CatalogPath != "" {
		catalog, err = corpus.LoadCatalog(cfg.CatalogPath)
		if err != nil {
			return err
		}
	}
	checker, err := corpus.NewChecker(catalog, client)
	if err != nil {
		return err
	}

	var cutoffs *temporal.CutoffTable
	if cfg.CutoffTablePath != "" {
		cutoffs, err = temporal.LoadCutoffTable(cfg.CutoffTablePath)
		if err != nil {
			return err
		}
	}

	engine, err = screening.New(store, sim, assessor, detector, checker, cutoffs, logSink{}, screening.Options{
		SimilarityThreshold: cfg.SimilarityThreshold,
		SweepConcurrency:    cfg.SweepConcurrency,
		ModelID:             cfg.ModelID,
	})
	return err
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
