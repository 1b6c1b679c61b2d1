// Package embedding wraps the external text-embedding service with the
// resilience the rest of the system relies on: retry with exponential
// backoff, a circuit breaker, a concurrency cap, and a rate limiter.
// The provider itself is an external collaborator; this package only
// requires embed(text) -> vector.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Provider is the minimal contract the contamination core needs from
// the AI-provider wrapper layer.
type Provider interface {
	// Embed returns a sentence-embedding vector for the given text.
	// Transient failures (timeouts, rate limits) are expected and
	// recoverable by retry.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Model identifies the embedding model, used to key cached vectors.
	Model() string
}

// ErrUnavailable is returned when the embedding service cannot be
// reached after retries. Callers degrade to lexical+structural
// similarity rather than failing the analysis.
var ErrUnavailable = errors.New("embedding service unavailable")

// Key identifies a cached embedding: one vector per (taskId, version).
type Key struct {
	TaskID  string
	Version int
}

// String renders the canonical cache key form "taskId@version"
func (k Key) String() string {
	return fmt.Sprintf("%s@%d", k.TaskID, k.Version)
}

// isRetriableError determines if an error is transient.
// Rate limits, server errors, and network failures are retriable;
// client errors are not.
func isRetriableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	errStr := err.Error()

	// Rate limits (429) are retriable
	if strings.Contains(errStr, "429") || strings.Contains(errStr, "rate limit") {
		return true
	}

	// Server errors (5xx) are retriable
	if strings.Contains(errStr, "500") || strings.Contains(errStr, "502") ||
		strings.Contains(errStr, "503") || strings.Contains(errStr, "504") ||
		strings.Contains(errStr, "internal server error") ||
		strings.Contains(errStr, "bad gateway") ||
		strings.Contains(errStr, "service unavailable") ||
		strings.Contains(errStr, "gateway timeout") {
		return true
	}

	// Network/connection errors are retriable
	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "temporary failure") ||
		strings.Contains(errStr, "network") {
		return true
	}

	// Other 4xx client errors indicate bad requests that won't succeed on retry
	if strings.Contains(errStr, "400") || strings.Contains(errStr, "401") ||
		strings.Contains(errStr, "403") || strings.Contains(errStr, "404") {
		return false
	}

	return false
}
