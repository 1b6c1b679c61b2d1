package embedding

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// HashingProvider embeds text by feature-hashing its tokens into a
// fixed-width vector, L2-normalized. It is deterministic and fully
// local, so screening keeps a working semantic signal when no external
// embedding service is configured. Vectors from different providers
// are not comparable; the model id keys the cache accordingly.
type HashingProvider struct {
	dimensions int
}

// NewHashingProvider creates a local feature-hashing embedder
func NewHashingProvider(dimensions int) (*HashingProvider, error) {
	if dimensions < 8 {
		return nil, fmt.Errorf("dimensions must be at least 8 (got %d)", dimensions)
	}
	return &HashingProvider{dimensions: dimensions}, nil
}

// Model returns the provider's model identifier
func (p *HashingProvider) Model() string {
	return fmt.Sprintf("feature-hash-%d", p.dimensions)
}

// Embed hashes each token and its bigram context into the vector.
// Sign is taken from a second hash so unrelated tokens cancel rather
// than accumulate.
func (p *HashingProvider) Embed(_ context.Context, text string) ([]float32, error) {
	tokens := hashTokenize(text)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("cannot embed empty text")
	}

	vector := make([]float32, p.dimensions)
	add := func(feature string) {
		h := fnv.New64a()
		h.Write([]byte(feature))
		sum := h.Sum64()
		idx := int(sum % uint64(p.dimensions))
		sign := float32(1)
		if (sum>>32)&1 == 1 {
			sign = -1
		}
		vector[idx] += sign
	}

	for i, token := range tokens {
		add(token)
		if i > 0 {
			add(tokens[i-1] + " " + token)
		}
	}

	var norm float64
	for _, v := range vector {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return nil, fmt.Errorf("degenerate embedding for text")
	}
	scale := float32(1 / math.Sqrt(norm))
	for i := range vector {
		vector[i] *= scale
	}
	return vector, nil
}

func hashTokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
