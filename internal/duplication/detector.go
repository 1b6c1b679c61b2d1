// Package duplication finds near-duplicate tasks in the bank, groups
// them into clusters, and extracts copied-text evidence.
//
// Candidate search is not pairwise against the whole corpus: a cheap
// structural pre-filter plus a vector pre-score over cached embeddings
// prunes the corpus before the full three-signal comparison runs. Only
// small corpora get the full scan.
package duplication

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/taskbank/gatekeeper/internal/similarity"
	"github.com/taskbank/gatekeeper/internal/types"
)

// Detector finds similar tasks, clusters duplicates, and detects
// plagiarized spans
type Detector struct {
	engine   *similarity.Engine
	embedder similarity.Embedder // optional: enables vector pre-scoring on large corpora
	config   Config
}

// NewDetector creates a duplicate detector. embedder may be nil, in
// which case large-corpus pruning falls back to a lexical pre-score.
func NewDetector(engine *similarity.Engine, embedder similarity.Embedder, config Config) (*Detector, error) {
	if engine == nil {
		return nil, fmt.Errorf("similarity engine cannot be nil")
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Detector{engine: engine, embedder: embedder, config: config}, nil
}

// FindSimilarTasks compares the candidate against the existing corpus
// and returns matches with combined similarity >= threshold, sorted
// descending. Matches below the engine's reporting floor are never
// returned regardless of threshold.
//
// Individual comparison failures are logged and skipped; "no similar
// tasks found" is the expected common case, not an error.
func (d *Detector) FindSimilarTasks(ctx context.Context, candidate *types.Task, existing []*types.Task, threshold float64) ([]types.SimilarTask, error) {
	if candidate == nil {
		return nil, fmt.Errorf("candidate cannot be nil")
	}
	if threshold < similarity.ReportingFloor {
		threshold = similarity.ReportingFloor
	}

	pool := d.prune(ctx, candidate, existing)

	var matches []types.SimilarTask
	for _, other := range pool {
		if other.ID == candidate.ID {
			continue
		}

		result, err := d.engine.Compare(ctx, candidate, other)
		if err != nil {
			log.Printf("[DUP] comparison failed for %s vs %s: %v", candidate.ID, other.ID, err)
			continue
		}
		if result.Overall < threshold {
			continue
		}

		matches = append(matches, types.SimilarTask{
			TaskID:              other.ID,
			Similarity:          result.Overall,
			SimilarityType:      result.Type,
			OverlappingSegments: result.OverlappingSegments,
			Name:                other.Name,
			Category:            other.Category,
			TaskType:            other.TaskType,
			DifficultyLevel:     other.DifficultyLevel,
			CreatedAt:           other.CreatedAt,
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Similarity != matches[j].Similarity {
			return matches[i].Similarity > matches[j].Similarity
		}
		return matches[i].TaskID < matches[j].TaskID
	})
	return matches, nil
}

// BuildClusters groups the given tasks into duplicate clusters: an
// undirected graph with an edge between two tasks when their mutual
// similarity exceeds the cluster threshold, where each connected
// component with at least two members is a cluster. The oldest task is
// the representative, tie-broken by lowest id.
func (d *Detector) BuildClusters(ctx context.Context, tasks []*types.Task) ([]types.DuplicateCluster, error) {
	n := len(tasks)
	if n < 2 {
		return nil, nil
	}

	// Union-find over task indices
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		if parent[x] != x {
			parent[x] = find(parent[x])
		}
		return parent[x]
	}
	union := func(a, b int) {
		parent[find(a)] = find(b)
	}

	// Edge similarities per pair, for cluster averages
	type edge struct {
		a, b int
		sim  float64
	}
	var edges []edge

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			result, err := d.engine.Compare(ctx, tasks[i], tasks[j])
			if err != nil {
				log.Printf("[DUP] cluster comparison failed for %s vs %s: %v", tasks[i].ID, tasks[j].ID, err)
				continue
			}
			if result.Overall > d.config.ClusterThreshold {
				union(i, j)
				edges = append(edges, edge{i, j, result.Overall})
			}
		}
	}

	// Gather components
	members := make(map[int][]int)
	for i := 0; i < n; i++ {
		root := find(i)
		members[root] = append(members[root], i)
	}

	var clusters []types.DuplicateCluster
	for root, idxs := range members {
		if len(idxs) < 2 {
			continue
		}

		var sum float64
		var count int
		for _, e := range edges {
			if find(e.a) == root {
				sum += e.sim
				count++
			}
		}

		cluster := types.DuplicateCluster{}
		rep := tasks[idxs[0]]
		for _, idx := range idxs {
			task := tasks[idx]
			cluster.TaskIDs = append(cluster.TaskIDs, task.ID)
			if task.CreatedAt.Before(rep.CreatedAt) ||
				(task.CreatedAt.Equal(rep.CreatedAt) && task.ID < rep.ID) {
				rep = task
			}
		}
		sort.Strings(cluster.TaskIDs)
		cluster.Representative = rep.ID
		if count > 0 {
			cluster.AverageSimilarity = sum / float64(count)
		}
		clusters = append(clusters, cluster)
	}

	// Deterministic output order
	sort.Slice(clusters, func(i, j int) bool {
		return clusters[i].Representative < clusters[j].Representative
	})
	return clusters, nil
}

// prune reduces the comparison pool before running full similarity.
// Small corpora are scanned in full; larger corpora are filtered by
// structural affinity and pre-scored by embedding distance.
func (d *Detector) prune(ctx context.Context, candidate *types.Task, existing []*types.Task) []*types.Task {
	if len(existing) <= d.config.SmallCorpusLimit {
		return existing
	}

	filtered := prefilter(candidate, existing)
	if len(filtered) <= d.config.MaxCandidates {
		return filtered
	}
	return d.rankByVector(ctx, candidate, filtered)
}

// prefilter keeps tasks with any structural affinity to the candidate:
// same category, same type, or a shared tag. Tasks with no affinity at
// all cannot reach the moderate-similarity band through the structural
// signal, and lexical scans over them are the O(n²) cost this exists
// to avoid.
func prefilter(candidate *types.Task, existing []*types.Task) []*types.Task {
	candidateTags := make(map[string]struct{}, len(candidate.Tags))
	for _, tag := range candidate.Tags {
		candidateTags[tag] = struct{}{}
	}

	var out []*types.Task
	for _, task := range existing {
		if task.Category == candidate.Category || task.TaskType == candidate.TaskType {
			out = append(out, task)
			continue
		}
		for _, tag := range task.Tags {
			if _, ok := candidateTags[tag]; ok {
				out = append(out, task)
				break
			}
		}
	}
	return out
}
