package similarity

import (
	"strings"
	"unicode"
)

// shingleSize is the token n-gram width for lexical comparison
const shingleSize = 3

// Tokenize splits text into lowercased word tokens. Punctuation is
// dropped; digits are kept (task prompts lean on numeric examples).
func Tokenize(text string) []string {
	var tokens []string
	var b strings.Builder

	flush := func() {
		if b.Len() > 0 {
			tokens = append(tokens, b.String())
			b.Reset()
		}
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		} else {
			flush()
		}
	}
	flush()
	return tokens
}

// TextSimilarity exposes the lexical signal on its own for callers
// that compare free text outside the task pair pipeline, such as the
// corpus overlap checker.
func TextSimilarity(a, b string) float64 {
	return lexicalSimilarity(a, b)
}

// lexicalSimilarity computes shingle-based Jaccard similarity over
// tokenized text. Texts too short to shingle fall back to token-set
// Jaccard. Two empty texts are identical by definition.
func lexicalSimilarity(a, b string) float64 {
	ta, tb := Tokenize(a), Tokenize(b)
	if len(ta) == 0 && len(tb) == 0 {
		return 1.0
	}
	if len(ta) == 0 || len(tb) == 0 {
		return 0.0
	}
	if len(ta) < shingleSize || len(tb) < shingleSize {
		return jaccard(tokenSet(ta), tokenSet(tb))
	}
	return jaccard(shingles(ta, shingleSize), shingles(tb, shingleSize))
}

// shingles returns the set of token n-grams of width n
func shingles(tokens []string, n int) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for i := 0; i+n <= len(tokens); i++ {
		set[strings.Join(tokens[i:i+n], " ")] = struct{}{}
	}
	return set
}

func tokenSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

// jaccard computes |A∩B| / |A∪B| for two sets
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	intersection := 0
	for k := range a {
		if _, ok := b[k]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

// jaccardSlices computes Jaccard overlap of two string slices
// (used for tag sets)
func jaccardSlices(a, b []string) float64 {
	return jaccard(tokenSet(a), tokenSet(b))
}

// commonSegments extracts maximal runs of tokens (at least minRun
// long) that appear in both token streams. Used to report overlapping
// text fragments on similar-task hits. Segments are reported in order
// of appearance in a, capped at maxSegments.
func commonSegments(a, b []string, minRun, maxSegments int) []string {
	if minRun < 1 {
		minRun = 1
	}

	// Positions of each token in b, for run extension
	positions := make(map[string][]int, len(b))
	for i, t := range b {
		positions[t] = append(positions[t], i)
	}

	var segments []string
	i := 0
	for i < len(a) && len(segments) < maxSegments {
		best := 0
		for _, j := range positions[a[i]] {
			run := 0
			for i+run < len(a) && j+run < len(b) && a[i+run] == b[j+run] {
				run++
			}
			if run > best {
				best = run
			}
		}
		if best >= minRun {
			segments = append(segments, strings.Join(a[i:i+best], " "))
			i += best
		} else {
			i++
		}
	}
	return segments
}
