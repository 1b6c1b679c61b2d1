// Package similarity computes pairwise similarity between benchmark
// tasks from three independent signals: lexical (shingle Jaccard over
// tokenized prompt text), semantic (cosine over sentence embeddings),
// and structural (categorical metadata overlap).
package similarity

import (
	"context"
	"fmt"
	"log"
	"math"

	"github.com/taskbank/gatekeeper/internal/embedding"
	"github.com/taskbank/gatekeeper/internal/types"
)

// Signal weights. Lexical and semantic carry the bulk; structure is a
// tiebreaker.
const (
	weightLexical    = 0.4
	weightSemantic   = 0.4
	weightStructural = 0.2
)

// Classification thresholds over the combined score
const (
	thresholdExact    = 0.9
	thresholdHigh     = 0.7
	thresholdModerate = 0.5

	// ReportingFloor is the minimum combined score worth reporting as
	// a semantic-similarity hit at all.
	ReportingFloor = 0.3
)

// Confidence values recorded on results. Degraded results (embedding
// service unavailable) carry reduced confidence so downstream risk
// figures inherit the caveat.
const (
	fullConfidence     = 1.0
	degradedConfidence = 0.6
)

// Minimum common token run reported as an overlapping segment
const segmentMinRun = 5
const segmentMax = 5

// Embedder is the slice of the embedding client the engine needs
type Embedder interface {
	EmbedTask(ctx context.Context, key embedding.Key, text string) ([]float32, error)
}

// Result is the outcome of comparing two tasks
type Result struct {
	Overall             float64              `json:"overall"` // 0-1
	Type                types.SimilarityType `json:"type"`
	OverlappingSegments []string             `json:"overlapping_segments,omitempty"`

	// Component scores
	Lexical    float64 `json:"lexical"`
	Semantic   float64 `json:"semantic"`
	Structural float64 `json:"structural"`

	// SemanticAvailable is false when the embedding service was
	// unreachable and the combination fell back to lexical+structural.
	SemanticAvailable bool    `json:"semantic_available"`
	Confidence        float64 `json:"confidence"`
}

// Engine combines the three similarity signals. A nil embedder is
// allowed and permanently degrades to lexical+structural.
type Engine struct {
	embedder Embedder
}

// NewEngine creates a similarity engine
func NewEngine(embedder Embedder) *Engine {
	return &Engine{embedder: embedder}
}

// Compare computes the similarity between two tasks.
//
// Symmetry invariant: Compare(a, b) and Compare(b, a) agree within
// floating-point tolerance; the clusterer depends on this.
//
// Embedding-service failure is recoverable: the result degrades to
// lexical+structural with reduced confidence instead of returning an
// error.
func (e *Engine) Compare(ctx context.Context, a, b *types.Task) (*Result, error) {
	if a == nil || b == nil {
		return nil, fmt.Errorf("tasks cannot be nil")
	}

	result := &Result{
		Lexical:    lexicalSimilarity(a.Content.Prompt, b.Content.Prompt),
		Structural: structuralSimilarity(a, b),
		Confidence: fullConfidence,
	}

	semantic, ok := e.semanticSimilarity(ctx, a, b)
	if ok {
		result.Semantic = semantic
		result.SemanticAvailable = true
		result.Overall = weightLexical*result.Lexical +
			weightSemantic*result.Semantic +
			weightStructural*result.Structural
	} else {
		// Renormalize the remaining weights so the scale stays 0-1
		result.Confidence = degradedConfidence
		result.Overall = (weightLexical*result.Lexical + weightStructural*result.Structural) /
			(weightLexical + weightStructural)
	}

	result.Type = Classify(result.Overall)

	if result.Overall >= ReportingFloor {
		aTokens := Tokenize(a.Content.Prompt)
		bTokens := Tokenize(b.Content.Prompt)
		result.OverlappingSegments = commonSegments(aTokens, bTokens, segmentMinRun, segmentMax)
	}

	return result, nil
}

// Classify maps a combined similarity score to its type
func Classify(overall float64) types.SimilarityType {
	switch {
	case overall >= thresholdExact:
		return types.SimilarityExact
	case overall >= thresholdHigh:
		return types.SimilarityHigh
	case overall >= thresholdModerate:
		return types.SimilarityModerate
	default:
		return types.SimilaritySemantic
	}
}

// semanticSimilarity embeds both prompts and returns their cosine
// similarity. The second return is false when embeddings were
// unavailable for either side.
func (e *Engine) semanticSimilarity(ctx context.Context, a, b *types.Task) (float64, bool) {
	if e.embedder == nil {
		return 0, false
	}

	va, err := e.embedder.EmbedTask(ctx, embedding.Key{TaskID: a.ID, Version: a.Version}, a.Content.Prompt)
	if err != nil {
		log.Printf("[SIM] embedding unavailable for %s@%d, degrading: %v", a.ID, a.Version, err)
		return 0, false
	}
	vb, err := e.embedder.EmbedTask(ctx, embedding.Key{TaskID: b.ID, Version: b.Version}, b.Content.Prompt)
	if err != nil {
		log.Printf("[SIM] embedding unavailable for %s@%d, degrading: %v", b.ID, b.Version, err)
		return 0, false
	}

	return Cosine(va, vb), true
}

// Cosine returns the cosine similarity of two vectors, clamped to
// [0, 1]. Mismatched or zero vectors score 0.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	cos := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if cos < 0 {
		return 0
	}
	if cos > 1 {
		return 1
	}
	return cos
}

// structuralSimilarity averages the fraction of matching discrete
// attributes (category, task type, difficulty) with the Jaccard
// overlap of the tag sets.
func structuralSimilarity(a, b *types.Task) float64 {
	matches := 0
	if a.Category == b.Category {
		matches++
	}
	if a.TaskType == b.TaskType {
		matches++
	}
	if a.DifficultyLevel == b.DifficultyLevel {
		matches++
	}
	attrFraction := float64(matches) / 3.0

	return (attrFraction + jaccardSlices(a.Tags, b.Tags)) / 2.0
}
