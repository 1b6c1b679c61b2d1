package corpus

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"sync"

	"github.com/taskbank/gatekeeper/internal/similarity"
	"github.com/taskbank/gatekeeper/internal/types"
)

// Overlap classification thresholds over the excerpt overlap score
const (
	exactThreshold      = 0.95
	paraphraseThreshold = 0.8
	conceptThreshold    = 0.5

	// Concept-level hits are reported at this confidence and add risk
	// only above it; weaker ones are noise.
	conceptMinConfidence = 0.8
)

// Risk contributions per finding, capped at 100 total
const (
	riskExact      = 30
	riskParaphrase = 20
	riskConcept    = 10
	riskLeakHigh   = 25
	riskLeakMedium = 15

	leakHighConfidence = 0.7
)

// Comparisons against this many tokens or more carry full confidence
const confidenceFullTokens = 20

// Confidence multiplier when the semantic signal is unavailable and
// only lexical containment backs the score
const degradedConfidence = 0.6

// leakPattern is a regex signal that task text references known
// benchmark material or public code hosts. Pattern matches are weaker
// evidence than similarity scores, so confidence sits in a fixed band.
type leakPattern struct {
	name       string
	re         *regexp.Regexp
	confidence float64
}

var leakPatterns = []leakPattern{
	{"benchmark-name", regexp.MustCompile(`(?i)\b(humaneval|mbpp|mmlu|gsm8k|hellaswag|truthfulqa|swe-bench|bigbench|big-bench|arc-challenge)\b`), 0.7},
	{"competitive-judge", regexp.MustCompile(`(?i)\b(leetcode|codeforces|hackerrank|project\s+euler|topcoder|kattis)\b`), 0.7},
	{"code-host-url", regexp.MustCompile(`(?i)\b(github\.com|gitlab\.com|bitbucket\.org|stackoverflow\.com)/\S+`), 0.6},
}

// Embedder is the slice of the embedding client the checker needs
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Checker scores tasks against the dataset catalog from two signals:
// lexical containment (the excerpt against the best-matching token
// window of the task text) and embedding cosine. A nil embedder
// degrades to lexical containment only, with reduced confidence.
type Checker struct {
	catalog  *Catalog
	embedder Embedder
	degrade  sync.Once
}

// NewChecker creates an overlap checker. The catalog may be empty, in
// which case only leak patterns contribute. embedder may be nil.
func NewChecker(catalog *Catalog, embedder Embedder) (*Checker, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog cannot be nil")
	}
	return &Checker{catalog: catalog, embedder: embedder}, nil
}

// CheckOverlap scores the task's full text against every catalog
// excerpt and scans for leak patterns. Risk is additive per finding
// and capped at 100. An empty result with RiskScore 0 is the normal
// case for original content.
func (c *Checker) CheckOverlap(ctx context.Context, task *types.Task) (*types.TrainingDataAnalysis, error) {
	if task == nil {
		return nil, fmt.Errorf("task cannot be nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text := task.Content.FullText()
	textTokens := similarity.Tokenize(text)
	analysis := &types.TrainingDataAnalysis{}

	for _, dataset := range c.catalog.Datasets {
		best := c.bestExcerptMatch(ctx, text, textTokens, dataset.Excerpts)
		if best.score < conceptThreshold {
			continue
		}

		overlapType := classifyOverlap(best.score)
		if overlapType == types.OverlapConcept && best.confidence < conceptMinConfidence {
			continue
		}

		analysis.Overlaps = append(analysis.Overlaps, types.DatasetOverlap{
			DatasetName: dataset.Name,
			OverlapType: overlapType,
			Score:       best.score,
			Confidence:  best.confidence,
			Excerpt:     best.excerpt,
		})
	}

	analysis.PotentialLeaks = scanLeaks(text)
	analysis.RiskScore = riskScore(analysis)
	return analysis, nil
}

type excerptMatch struct {
	score      float64
	confidence float64
	excerpt    string
}

// bestExcerptMatch returns the highest-scoring excerpt comparison.
// The lexical and semantic signals fail in opposite directions: a
// contained verbatim copy keeps its shingles but drowns in a whole-
// document embedding, while a paraphrase keeps its meaning but loses
// its shingles. The stronger signal decides.
//
// Confidence grows with the amount of text compared: a near-match
// against three tokens proves little.
func (c *Checker) bestExcerptMatch(ctx context.Context, text string, textTokens []string, excerpts []string) excerptMatch {
	var best excerptMatch
	for _, excerpt := range excerpts {
		excerptTokens := similarity.Tokenize(excerpt)
		if len(excerptTokens) == 0 || len(textTokens) == 0 {
			continue
		}

		score, window := bestWindowScore(textTokens, excerptTokens)

		degraded := true
		if c.embedder != nil {
			if semantic, ok := c.semanticScore(ctx, excerpt, window, text); ok {
				degraded = false
				if semantic > score {
					score = semantic
				}
			}
		}
		if score <= best.score {
			continue
		}

		compared := len(excerptTokens)
		if len(textTokens) < compared {
			compared = len(textTokens)
		}
		confidence := float64(compared) / confidenceFullTokens
		if confidence > 1.0 {
			confidence = 1.0
		}
		if degraded {
			confidence *= degradedConfidence
		}

		best = excerptMatch{score: score, confidence: confidence, excerpt: excerpt}
	}
	return best
}

// bestWindowScore slides a window of the excerpt's token length over
// the task text (stride 1) and returns the best lexical similarity
// plus the matching window. Scoring the excerpt against the whole
// document would dilute a contained copy below every threshold.
func bestWindowScore(textTokens, excerptTokens []string) (float64, string) {
	excerptText := strings.Join(excerptTokens, " ")
	if len(textTokens) <= len(excerptTokens) {
		windowText := strings.Join(textTokens, " ")
		return similarity.TextSimilarity(windowText, excerptText), windowText
	}

	width := len(excerptTokens)
	bestScore := 0.0
	bestWindow := strings.Join(textTokens[:width], " ")
	for i := 0; i+width <= len(textTokens); i++ {
		windowText := strings.Join(textTokens[i:i+width], " ")
		score := similarity.TextSimilarity(windowText, excerptText)
		if score > bestScore {
			bestScore, bestWindow = score, windowText
			if score == 1.0 {
				break
			}
		}
	}
	return bestScore, bestWindow
}

// semanticScore compares the excerpt embedding against both the best
// lexical window and the whole text, keeping the stronger cosine. The
// window can be misaligned for a heavy paraphrase, so the whole-text
// comparison backs it up. Returns false when embeddings were
// unavailable.
func (c *Checker) semanticScore(ctx context.Context, excerpt, window, text string) (float64, bool) {
	excerptVec, err := c.embedder.Embed(ctx, excerpt)
	if err != nil {
		c.logDegrade(err)
		return 0, false
	}
	windowVec, err := c.embedder.Embed(ctx, window)
	if err != nil {
		c.logDegrade(err)
		return 0, false
	}
	score := similarity.Cosine(excerptVec, windowVec)

	if text != window {
		textVec, err := c.embedder.Embed(ctx, text)
		if err != nil {
			c.logDegrade(err)
			return 0, false
		}
		if cos := similarity.Cosine(excerptVec, textVec); cos > score {
			score = cos
		}
	}
	return score, true
}

func (c *Checker) logDegrade(err error) {
	c.degrade.Do(func() {
		log.Printf("[CORPUS] embeddings unavailable, degrading to lexical containment: %v", err)
	})
}

func classifyOverlap(score float64) types.OverlapType {
	switch {
	case score >= exactThreshold:
		return types.OverlapExact
	case score >= paraphraseThreshold:
		return types.OverlapParaphrase
	default:
		return types.OverlapConcept
	}
}

// scanLeaks matches the leak patterns against the text. Each pattern
// reports at most once, with the first match as evidence.
func scanLeaks(text string) []types.PotentialLeak {
	var leaks []types.PotentialLeak
	for _, p := range leakPatterns {
		match := p.re.FindString(text)
		if match == "" {
			continue
		}
		leaks = append(leaks, types.PotentialLeak{
			Pattern:    p.name,
			Matched:    strings.TrimSpace(match),
			Confidence: p.confidence,
		})
	}
	return leaks
}

// riskScore combines findings additively, capped at 100. Concept
// overlaps sit at the reporting boundary when confidence is exactly
// the minimum; they count toward risk only strictly above it.
func riskScore(analysis *types.TrainingDataAnalysis) float64 {
	var score float64
	for _, o := range analysis.Overlaps {
		switch o.OverlapType {
		case types.OverlapExact:
			score += riskExact
		case types.OverlapParaphrase:
			score += riskParaphrase
		case types.OverlapConcept:
			if o.Confidence > conceptMinConfidence {
				score += riskConcept
			}
		}
	}
	for _, l := range analysis.PotentialLeaks {
		if l.Confidence >= leakHighConfidence {
			score += riskLeakHigh
		} else {
			score += riskLeakMedium
		}
	}
	if score > 100 {
		score = 100
	}
	return score
}
