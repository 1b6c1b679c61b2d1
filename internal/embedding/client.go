package embedding

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// RetryConfig holds retry configuration for embedding calls
type RetryConfig struct {
	MaxRetries        int           // Maximum number of retries (default: 3)
	InitialBackoff    time.Duration // Initial backoff duration (default: 1s)
	MaxBackoff        time.Duration // Maximum backoff duration (default: 30s)
	BackoffMultiplier float64       // Backoff multiplier (default: 2.0)
	Timeout           time.Duration // Per-request timeout (default: 30s)

	// Circuit breaker settings
	CircuitBreakerEnabled bool          // Enable circuit breaker (default: true)
	FailureThreshold      int           // Failures before opening circuit (default: 5)
	SuccessThreshold      int           // Successes in half-open before closing (default: 2)
	OpenTimeout           time.Duration // How long to keep circuit open (default: 30s)

	// Throughput limits
	MaxConcurrentCalls int     // Maximum concurrent embedding calls (default: 4, 0 = unlimited)
	RequestsPerSecond  float64 // Rate limit on embedding calls (default: 10, 0 = unlimited)
}

// DefaultRetryConfig returns the default retry configuration
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:            3,
		InitialBackoff:        1 * time.Second,
		MaxBackoff:            30 * time.Second,
		BackoffMultiplier:     2.0,
		Timeout:               30 * time.Second,
		CircuitBreakerEnabled: true,
		FailureThreshold:      5,
		SuccessThreshold:      2,
		OpenTimeout:           30 * time.Second,
		MaxConcurrentCalls:    4,
		RequestsPerSecond:     10,
	}
}

// Client wraps a Provider with retries, a circuit breaker, a
// concurrency cap, a rate limiter, and a vector cache. All embedding
// traffic in the system goes through one Client so the limits hold
// globally.
type Client struct {
	provider Provider
	cache    Cache
	retry    RetryConfig

	breaker *CircuitBreaker
	sem     *semaphore.Weighted
	limiter *rate.Limiter
}

// NewClient creates a resilient embedding client. cache may be nil,
// in which case every call hits the provider.
func NewClient(provider Provider, cache Cache, retry RetryConfig) (*Client, error) {
	if provider == nil {
		return nil, fmt.Errorf("provider cannot be nil")
	}

	c := &Client{
		provider: provider,
		cache:    cache,
		retry:    retry,
	}
	if retry.CircuitBreakerEnabled {
		c.breaker = NewCircuitBreaker(retry.FailureThreshold, retry.SuccessThreshold, retry.OpenTimeout)
	}
	if retry.MaxConcurrentCalls > 0 {
		c.sem = semaphore.NewWeighted(int64(retry.MaxConcurrentCalls))
	}
	if retry.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(retry.RequestsPerSecond), 1)
	}
	return c, nil
}

// Model returns the underlying provider's model identifier
func (c *Client) Model() string {
	return c.provider.Model()
}

// EmbedTask returns the embedding vector for a task version,
// consulting the cache first. On a miss the provider is called and the
// vector is written back with an idempotent upsert, so two callers
// embedding the same version concurrently cannot corrupt the cache.
func (c *Client) EmbedTask(ctx context.Context, key Key, text string) ([]float32, error) {
	if c.cache != nil {
		vector, ok, err := c.cache.Get(ctx, key)
		if err != nil {
			// Cache trouble is not fatal; fall through to the provider
			log.Printf("[EMBED] cache read failed for %s: %v", key, err)
		} else if ok {
			return vector, nil
		}
	}

	vector, err := c.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Put(ctx, key, vector); err != nil {
			log.Printf("[EMBED] cache write failed for %s: %v", key, err)
		}
	}
	return vector, nil
}

// Embed calls the provider with retry, backoff, and the configured
// limits. Exhausted retries surface as ErrUnavailable so callers can
// degrade gracefully.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	if c.sem != nil {
		if err := c.sem.Acquire(ctx, 1); err != nil {
			return nil, fmt.Errorf("failed to acquire embedding slot: %w", err)
		}
		defer c.sem.Release(1)
	}

	var vector []float32
	err := c.retryWithBackoff(ctx, "embed", func(attemptCtx context.Context) error {
		if c.limiter != nil {
			if err := c.limiter.Wait(attemptCtx); err != nil {
				return err
			}
		}
		v, err := c.provider.Embed(attemptCtx, text)
		if err != nil {
			return err
		}
		if len(v) == 0 {
			return fmt.Errorf("provider returned empty vector")
		}
		vector = v
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return vector, nil
}

// retryWithBackoff executes an operation with retry and exponential backoff
func (c *Client) retryWithBackoff(ctx context.Context, operation string, fn func(context.Context) error) error {
	var lastErr error
	backoff := c.retry.InitialBackoff

	for attempt := 0; attempt <= c.retry.MaxRetries; attempt++ {
		// Check circuit breaker before attempting the request
		if c.breaker != nil {
			if err := c.breaker.Allow(); err != nil {
				fmt.Fprintf(os.Stderr, "embedding %s blocked by circuit breaker\n", operation)
				return err
			}
		}

		attemptCtx, cancel := context.WithTimeout(ctx, c.retry.Timeout)
		err := fn(attemptCtx)
		cancel()

		if err == nil {
			if c.breaker != nil {
				c.breaker.RecordSuccess()
			}
			if attempt > 0 {
				log.Printf("[EMBED] %s succeeded after %d retries", operation, attempt)
			}
			return nil
		}

		lastErr = err

		// Non-retriable errors (auth failures, bad requests) should not
		// count against the circuit breaker
		if c.breaker != nil && isRetriableError(err) {
			c.breaker.RecordFailure()
		}

		if !isRetriableError(err) {
			return err
		}
		if attempt == c.retry.MaxRetries {
			break
		}
		if ctx.Err() != nil {
			return fmt.Errorf("%s failed: context canceled: %w", operation, ctx.Err())
		}

		log.Printf("[EMBED] %s failed (attempt %d/%d), retrying in %v: %v",
			operation, attempt+1, c.retry.MaxRetries+1, backoff, err)

		select {
		case <-time.After(backoff):
			backoff = time.Duration(float64(backoff) * c.retry.BackoffMultiplier)
			if backoff > c.retry.MaxBackoff {
				backoff = c.retry.MaxBackoff
			}
		case <-ctx.Done():
			return fmt.Errorf("%s failed: context canceled during backoff: %w", operation, ctx.Err())
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operation, c.retry.MaxRetries+1, lastErr)
}
