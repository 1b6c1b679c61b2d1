package similarity

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/taskbank/gatekeeper/internal/embedding"
	"github.com/taskbank/gatekeeper/internal/types"
)

// stubEmbedder returns fixed vectors per text, or a scripted error
type stubEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (s *stubEmbedder) EmbedTask(_ context.Context, _ embedding.Key, text string) ([]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	if v, ok := s.vectors[text]; ok {
		return v, nil
	}
	return []float32{1, 0, 0}, nil
}

func makeTask(id, prompt string) *types.Task {
	return &types.Task{
		ID:   id,
		Name: "task " + id,
		Content: types.TaskContent{
			Prompt: prompt,
		},
		Category:        "algorithms",
		DifficultyLevel: types.DifficultyMedium,
		TaskType:        "coding",
		Tags:            []string{"sorting", "arrays"},
		Version:         1,
		Status:          types.StatusDraft,
	}
}

func TestIdentity(t *testing.T) {
	// similarity(A, A) == 1.0 regardless of metric weights
	engine := NewEngine(&stubEmbedder{})
	a := makeTask("tb-1", "Sort an array of integers in ascending order using merge sort.")

	result, err := engine.Compare(context.Background(), a, a)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if math.Abs(result.Overall-1.0) > 1e-9 {
		t.Errorf("Overall = %v, want 1.0", result.Overall)
	}
	if result.Type != types.SimilarityExact {
		t.Errorf("Type = %s, want exact_match", result.Type)
	}
}

func TestSymmetry(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{
		"Sort an array of integers using quicksort and return it.": {0.9, 0.1, 0.2},
		"Sort a list of numbers with any comparison sort.":         {0.8, 0.3, 0.1},
	}}
	engine := NewEngine(embedder)

	a := makeTask("tb-1", "Sort an array of integers using quicksort and return it.")
	b := makeTask("tb-2", "Sort a list of numbers with any comparison sort.")
	b.Category = "data-structures"
	b.Tags = []string{"sorting"}

	ab, err := engine.Compare(context.Background(), a, b)
	if err != nil {
		t.Fatalf("Compare(a,b) failed: %v", err)
	}
	ba, err := engine.Compare(context.Background(), b, a)
	if err != nil {
		t.Fatalf("Compare(b,a) failed: %v", err)
	}

	if math.Abs(ab.Overall-ba.Overall) > 1e-9 {
		t.Errorf("asymmetric similarity: %v vs %v", ab.Overall, ba.Overall)
	}
	if ab.Type != ba.Type {
		t.Errorf("asymmetric classification: %s vs %s", ab.Type, ba.Type)
	}
}

func TestGracefulDegradation(t *testing.T) {
	engine := NewEngine(&stubEmbedder{err: errors.New("connection refused")})

	a := makeTask("tb-1", "Implement a stack with push, pop, and peek operations.")
	b := makeTask("tb-2", "Implement a stack with push, pop, and peek operations.")

	result, err := engine.Compare(context.Background(), a, b)
	if err != nil {
		t.Fatalf("degraded Compare must not fail: %v", err)
	}
	if result.SemanticAvailable {
		t.Error("SemanticAvailable should be false when embeddings fail")
	}
	if result.Confidence >= 1.0 {
		t.Errorf("Confidence = %v, want reduced on degradation", result.Confidence)
	}
	// Identical prompts and metadata still score 1.0 on the remaining signals
	if math.Abs(result.Overall-1.0) > 1e-9 {
		t.Errorf("Overall = %v, want 1.0 from lexical+structural", result.Overall)
	}
}

func TestNilEmbedderDegrades(t *testing.T) {
	engine := NewEngine(nil)
	a := makeTask("tb-1", "Implement binary search over a sorted slice.")
	result, err := engine.Compare(context.Background(), a, a)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if result.SemanticAvailable {
		t.Error("nil embedder must degrade")
	}
	if result.Confidence != degradedConfidence {
		t.Errorf("Confidence = %v, want %v", result.Confidence, degradedConfidence)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		score float64
		want  types.SimilarityType
	}{
		{1.0, types.SimilarityExact},
		{0.9, types.SimilarityExact},
		{0.89, types.SimilarityHigh},
		{0.7, types.SimilarityHigh},
		{0.69, types.SimilarityModerate},
		{0.5, types.SimilarityModerate},
		{0.49, types.SimilaritySemantic},
		{0.0, types.SimilaritySemantic},
	}
	for _, tt := range tests {
		if got := Classify(tt.score); got != tt.want {
			t.Errorf("Classify(%v) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"Hello, World!", 2},
		{"", 0},
		{"   ", 0},
		{"add(a, b) -> a + b", 4},
		{"Sort 10 items", 3},
	}
	for _, tt := range tests {
		if got := Tokenize(tt.in); len(got) != tt.want {
			t.Errorf("Tokenize(%q) = %v, want %d tokens", tt.in, got, tt.want)
		}
	}
}

func TestLexicalSimilarityEdgeCases(t *testing.T) {
	if got := lexicalSimilarity("", ""); got != 1.0 {
		t.Errorf("two empty texts should be identical, got %v", got)
	}
	if got := lexicalSimilarity("something", ""); got != 0.0 {
		t.Errorf("empty vs non-empty should be 0, got %v", got)
	}
	if got := lexicalSimilarity("one two", "one two"); got != 1.0 {
		t.Errorf("short identical texts should be 1.0, got %v", got)
	}
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1.0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0.0},
		{"opposite clamped", []float32{1, 0}, []float32{-1, 0}, 0.0},
		{"mismatched dims", []float32{1, 0}, []float32{1, 0, 0}, 0.0},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Cosine(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Cosine = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStructuralSimilarity(t *testing.T) {
	a := makeTask("tb-1", "x")
	b := makeTask("tb-2", "y")

	// Fully matching metadata
	if got := structuralSimilarity(a, b); got != 1.0 {
		t.Errorf("matching metadata = %v, want 1.0", got)
	}

	// Nothing in common
	c := makeTask("tb-3", "z")
	c.Category = "reasoning"
	c.TaskType = "essay"
	c.DifficultyLevel = types.DifficultyExpert
	c.Tags = []string{"logic"}
	if got := structuralSimilarity(a, c); got != 0.0 {
		t.Errorf("disjoint metadata = %v, want 0.0", got)
	}
}

func TestCommonSegments(t *testing.T) {
	a := Tokenize("the quick brown fox jumps over the lazy dog near the river bank")
	b := Tokenize("yesterday the quick brown fox jumps over a fence")

	segments := commonSegments(a, b, 5, 5)
	if len(segments) != 1 {
		t.Fatalf("segments = %v, want one run", segments)
	}
	if segments[0] != "the quick brown fox jumps over" {
		t.Errorf("segment = %q", segments[0])
	}

	// Runs below the minimum length are not reported
	if got := commonSegments(Tokenize("alpha beta"), Tokenize("alpha beta"), 5, 5); len(got) != 0 {
		t.Errorf("short runs should be ignored, got %v", got)
	}
}
