package duplication

import (
	"context"
	"log"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/taskbank/gatekeeper/internal/embedding"
	"github.com/taskbank/gatekeeper/internal/similarity"
	"github.com/taskbank/gatekeeper/internal/types"
)

// rankByVector pre-scores the filtered pool against the candidate and
// keeps the top MaxCandidates. With an embedder the pre-score is
// embedding cosine (exact nearest-neighbor over the cached vectors,
// scanned across shards in parallel); without one it falls back to a
// cheap lexical score. Either way the full three-signal comparison
// only runs on the survivors.
func (d *Detector) rankByVector(ctx context.Context, candidate *types.Task, pool []*types.Task) []*types.Task {
	type scored struct {
		task  *types.Task
		score float64
	}

	var candidateVec []float32
	if d.embedder != nil {
		vec, err := d.embedder.EmbedTask(ctx,
			embedding.Key{TaskID: candidate.ID, Version: candidate.Version},
			candidate.Content.Prompt)
		if err != nil {
			log.Printf("[DUP] candidate embedding unavailable, using lexical pre-score: %v", err)
		} else {
			candidateVec = vec
		}
	}

	scores := make([]scored, len(pool))

	// Shard the pool and score shards concurrently. Slots in the
	// scores slice are disjoint per shard, so no locking is needed
	// beyond the errgroup join.
	g, gctx := errgroup.WithContext(ctx)
	shardSize := (len(pool) + d.config.Shards - 1) / d.config.Shards
	var degraded sync.Once

	for start := 0; start < len(pool); start += shardSize {
		end := start + shardSize
		if end > len(pool) {
			end = len(pool)
		}
		start, end := start, end

		g.Go(func() error {
			for i := start; i < end; i++ {
				task := pool[i]
				score := 0.0
				if candidateVec != nil {
					vec, err := d.embedder.EmbedTask(gctx,
						embedding.Key{TaskID: task.ID, Version: task.Version},
						task.Content.Prompt)
					if err == nil {
						score = similarity.Cosine(candidateVec, vec)
					} else {
						degraded.Do(func() {
							log.Printf("[DUP] embedding unavailable during index scan, mixing in lexical pre-scores: %v", err)
						})
						score = lexicalPrescore(candidate, task)
					}
				} else {
					score = lexicalPrescore(candidate, task)
				}
				scores[i] = scored{task: task, score: score}
			}
			return nil
		})
	}
	// Shard workers only return nil; the join is for completion
	_ = g.Wait()

	sort.Slice(scores, func(i, j int) bool {
		if scores[i].score != scores[j].score {
			return scores[i].score > scores[j].score
		}
		return scores[i].task.ID < scores[j].task.ID
	})

	limit := d.config.MaxCandidates
	if limit > len(scores) {
		limit = len(scores)
	}
	out := make([]*types.Task, limit)
	for i := 0; i < limit; i++ {
		out[i] = scores[i].task
	}
	return out
}

// lexicalPrescore is a cheap token-overlap estimate used when vectors
// are unavailable. It intentionally overcounts: pruning must not drop
// tasks the full comparison would have flagged.
func lexicalPrescore(a, b *types.Task) float64 {
	ta := similarity.Tokenize(a.Content.Prompt)
	tb := similarity.Tokenize(b.Content.Prompt)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	set := make(map[string]struct{}, len(ta))
	for _, t := range ta {
		set[t] = struct{}{}
	}
	shared := 0
	for _, t := range tb {
		if _, ok := set[t]; ok {
			shared++
		}
	}

	smaller := len(ta)
	if len(tb) < smaller {
		smaller = len(tb)
	}
	return float64(shared) / float64(smaller)
}
