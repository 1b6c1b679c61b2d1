package embedding

import (
	"context"
	"math"
	"testing"
)

func TestHashingProviderDeterministic(t *testing.T) {
	provider, err := NewHashingProvider(64)
	if err != nil {
		t.Fatal(err)
	}

	a, err := provider.Embed(context.Background(), "sort an array of integers")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	b, err := provider.Embed(context.Background(), "sort an array of integers")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}

	if len(a) != 64 {
		t.Fatalf("dimensions = %d, want 64", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("embedding not deterministic at %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestHashingProviderNormalized(t *testing.T) {
	provider, err := NewHashingProvider(128)
	if err != nil {
		t.Fatal(err)
	}

	vec, err := provider.Embed(context.Background(), "implement a binary search tree with insert and lookup")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if math.Abs(norm-1.0) > 1e-5 {
		t.Errorf("norm = %v, want 1.0", norm)
	}
}

func TestHashingProviderRejectsEmpty(t *testing.T) {
	provider, err := NewHashingProvider(64)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := provider.Embed(context.Background(), "   "); err == nil {
		t.Error("empty text must not embed")
	}
}

func TestHashingProviderRejectsTinyDimensions(t *testing.T) {
	if _, err := NewHashingProvider(2); err == nil {
		t.Error("tiny dimension count must be rejected")
	}
}
