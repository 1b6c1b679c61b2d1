package embedding

import (
	"context"
	"sync"
)

// Cache stores embedding vectors keyed by (taskId, version). Content
// is immutable per version, so implementations may treat Put as
// last-write-wins without coordination.
type Cache interface {
	Get(ctx context.Context, key Key) (vector []float32, ok bool, err error)
	Put(ctx context.Context, key Key, vector []float32) error
}

// MemoryCache is a process-local, read-mostly cache. It is the default
// backend; RedisCache is available when multiple screening processes
// share a corpus.
type MemoryCache struct {
	mu      sync.RWMutex
	vectors map[string][]float32
}

// NewMemoryCache creates an empty in-memory cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{vectors: make(map[string][]float32)}
}

// Get returns the cached vector for the key, if present
func (c *MemoryCache) Get(_ context.Context, key Key) ([]float32, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	vector, ok := c.vectors[key.String()]
	return vector, ok, nil
}

// Put stores the vector for the key (idempotent upsert)
func (c *MemoryCache) Put(_ context.Context, key Key, vector []float32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vectors[key.String()] = vector
	return nil
}

// Len returns the number of cached vectors (for tests and stats)
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.vectors)
}
