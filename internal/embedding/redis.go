package embedding

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache is a shared embedding cache for deployments where several
// screening processes work against the same task bank. Keys are
// namespaced under a prefix; values are little-endian float32 blobs.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache connects to Redis and returns a shared cache.
// A zero ttl means vectors never expire (content is immutable per
// version, so expiry is purely a memory-pressure concern).
func NewRedisCache(addr, password, prefix string, ttl time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	if prefix == "" {
		prefix = "gatekeeper:embedding:"
	}
	return &RedisCache{client: client, prefix: prefix, ttl: ttl}, nil
}

// Get returns the cached vector for the key, if present
func (c *RedisCache) Get(ctx context.Context, key Key) ([]float32, bool, error) {
	blob, err := c.client.Get(ctx, c.prefix+key.String()).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}
	if len(blob)%4 != 0 {
		return nil, false, fmt.Errorf("malformed vector blob for %s: %d bytes", key, len(blob))
	}

	vector := make([]float32, len(blob)/4)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return vector, true, nil
}

// Put stores the vector for the key (idempotent upsert, last write wins)
func (c *RedisCache) Put(ctx context.Context, key Key, vector []float32) error {
	blob := make([]byte, 4*len(vector))
	for i, v := range vector {
		binary.LittleEndian.PutUint32(blob[i*4:], math.Float32bits(v))
	}

	if err := c.client.Set(ctx, c.prefix+key.String(), blob, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Close releases the redis connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}
