package duplication

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/taskbank/gatekeeper/internal/similarity"
	"github.com/taskbank/gatekeeper/internal/types"
)

// ScanPlagiarism runs the sliding-window scan against every similar
// task whose similarity exceeds the plagiarism trigger. Matches whose
// source task is missing from the lookup, and scans that fail, are
// logged and skipped.
func (d *Detector) ScanPlagiarism(ctx context.Context, candidate *types.Task, matches []types.SimilarTask, byID map[string]*types.Task) []types.PlagiarismIndicator {
	var indicators []types.PlagiarismIndicator
	for _, match := range matches {
		if match.Similarity < d.config.PlagiarismTrigger {
			continue
		}
		source, ok := byID[match.TaskID]
		if !ok {
			log.Printf("[DUP] plagiarism source %s not in lookup, skipping", match.TaskID)
			continue
		}
		indicator, err := d.DetectPlagiarism(ctx, candidate, source)
		if err != nil {
			log.Printf("[DUP] plagiarism scan failed for %s vs %s: %v", candidate.ID, source.ID, err)
			continue
		}
		if indicator != nil {
			indicators = append(indicators, *indicator)
		}
	}
	return indicators
}

// DetectPlagiarism runs the sliding-window scan of the candidate's
// prompt against a suspected source. It only makes sense once the
// overall similarity already exceeds the plagiarism trigger; callers
// are expected to gate on that. Returns nil when no window clears the
// window threshold.
//
// Windows advance one token at a time; consecutive matching windows
// merge into a single segment with token offsets into the candidate's
// prompt.
func (d *Detector) DetectPlagiarism(ctx context.Context, candidate, source *types.Task) (*types.PlagiarismIndicator, error) {
	if candidate == nil || source == nil {
		return nil, fmt.Errorf("tasks cannot be nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	candTokens := similarity.Tokenize(candidate.Content.Prompt)
	srcTokens := similarity.Tokenize(source.Content.Prompt)
	if len(candTokens) < d.config.WindowSize || len(srcTokens) < d.config.WindowSize {
		return nil, nil
	}

	srcWindows := windowSets(srcTokens, d.config.WindowSize)

	type hit struct {
		start, end int // token offsets, end exclusive
		sim        float64
	}
	var hits []hit
	var maxWindowSim float64

	for start := 0; start+d.config.WindowSize <= len(candTokens); start++ {
		window := tokenSetOf(candTokens[start : start+d.config.WindowSize])
		best := bestWindowMatch(window, srcWindows)
		if best <= d.config.WindowThreshold {
			continue
		}
		if best > maxWindowSim {
			maxWindowSim = best
		}

		end := start + d.config.WindowSize
		if n := len(hits); n > 0 && hits[n-1].end >= start {
			// Overlapping or adjacent windows extend the open segment
			if end > hits[n-1].end {
				hits[n-1].end = end
			}
			if best > hits[n-1].sim {
				hits[n-1].sim = best
			}
			continue
		}
		hits = append(hits, hit{start: start, end: end, sim: best})
	}

	if len(hits) == 0 {
		return nil, nil
	}

	indicator := &types.PlagiarismIndicator{SourceTaskID: source.ID}
	covered := 0
	for _, h := range hits {
		covered += h.end - h.start
		indicator.Segments = append(indicator.Segments, types.MatchedSegment{
			Text:       strings.Join(candTokens[h.start:h.end], " "),
			StartToken: h.start,
			EndToken:   h.end,
			Similarity: h.sim,
		})
	}

	coverage := float64(covered) / float64(len(candTokens))
	indicator.Confidence = coverage*0.5 + maxWindowSim*0.5
	return indicator, nil
}

// windowSets precomputes the token set of every source window so the
// candidate scan is not quadratic in window construction
func windowSets(tokens []string, size int) []map[string]struct{} {
	sets := make([]map[string]struct{}, 0, len(tokens)-size+1)
	for start := 0; start+size <= len(tokens); start++ {
		sets = append(sets, tokenSetOf(tokens[start:start+size]))
	}
	return sets
}

func tokenSetOf(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

// bestWindowMatch returns the highest Jaccard overlap between the
// candidate window and any source window
func bestWindowMatch(window map[string]struct{}, srcWindows []map[string]struct{}) float64 {
	var best float64
	for _, src := range srcWindows {
		inter := 0
		for t := range window {
			if _, ok := src[t]; ok {
				inter++
			}
		}
		union := len(window) + len(src) - inter
		if union == 0 {
			continue
		}
		if sim := float64(inter) / float64(union); sim > best {
			best = sim
			if best == 1.0 {
				return best
			}
		}
	}
	return best
}
