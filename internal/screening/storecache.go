package screening

import (
	"context"
	"log"

	"github.com/taskbank/gatekeeper/internal/embedding"
	"github.com/taskbank/gatekeeper/internal/storage"
)

// StoreCache persists embedding vectors in the task bank database so
// they survive restarts and are shared by every component that scans
// the corpus. It satisfies embedding.Cache; the sqlite upsert is
// idempotent per (taskId, version).
type StoreCache struct {
	store storage.Storage
	model string
}

// NewStoreCache creates a storage-backed embedding cache
func NewStoreCache(store storage.Storage, model string) *StoreCache {
	return &StoreCache{store: store, model: model}
}

func (c *StoreCache) Get(ctx context.Context, key embedding.Key) ([]float32, bool, error) {
	vector, err := c.store.GetEmbedding(ctx, key.TaskID, key.Version)
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return vector, true, nil
}

func (c *StoreCache) Put(ctx context.Context, key embedding.Key, vector []float32) error {
	if err := c.store.UpsertEmbedding(ctx, key.TaskID, key.Version, c.model, vector); err != nil {
		log.Printf("[SCREEN] persisting embedding for %s failed: %v", key, err)
		return err
	}
	return nil
}
