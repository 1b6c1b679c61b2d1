// Package screening is the gatekeeper facade: it loads tasks from the
// store, runs quality assessment and contamination analysis, persists
// the verdicts, and drives the publication gate. Callers see three
// synchronous operations; the parallelism inside is an implementation
// detail.
package screening

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/taskbank/gatekeeper/internal/contamination"
	"github.com/taskbank/gatekeeper/internal/corpus"
	"github.com/taskbank/gatekeeper/internal/duplication"
	"github.com/taskbank/gatekeeper/internal/events"
	"github.com/taskbank/gatekeeper/internal/gate"
	"github.com/taskbank/gatekeeper/internal/quality"
	"github.com/taskbank/gatekeeper/internal/similarity"
	"github.com/taskbank/gatekeeper/internal/storage"
	"github.com/taskbank/gatekeeper/internal/temporal"
	"github.com/taskbank/gatekeeper/internal/types"
)

// Options configures the screening engine
type Options struct {
	// SimilarityThreshold is the floor for reporting similar tasks
	SimilarityThreshold float64

	// SweepConcurrency bounds the batch re-screening worker pool
	SweepConcurrency int

	// ModelID is the model whose training cutoff temporal analysis
	// checks against
	ModelID string
}

// DefaultOptions returns the default screening options
func DefaultOptions() Options {
	return Options{
		SimilarityThreshold: 0.5,
		SweepConcurrency:    4,
	}
}

// Engine ties the analysis components together over the task store
type Engine struct {
	store    storage.Storage
	sim      *similarity.Engine
	assessor *quality.Assessor
	detector *duplication.Detector
	checker  *corpus.Checker
	cutoffs  *temporal.CutoffTable
	sink     events.Sink
	opts     Options
}

// New creates a screening engine. cutoffs may be nil (every model
// falls back to CAUTION); sink may be nil (events are dropped).
func New(store storage.Storage, sim *similarity.Engine, assessor *quality.Assessor,
	detector *duplication.Detector, checker *corpus.Checker,
	cutoffs *temporal.CutoffTable, sink events.Sink, opts Options) (*Engine, error) {

	if store == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	if sim == nil {
		return nil, fmt.Errorf("similarity engine cannot be nil")
	}
	if assessor == nil {
		return nil, fmt.Errorf("assessor cannot be nil")
	}
	if detector == nil {
		return nil, fmt.Errorf("detector cannot be nil")
	}
	if checker == nil {
		return nil, fmt.Errorf("corpus checker cannot be nil")
	}
	if sink == nil {
		sink = events.NopSink{}
	}
	if opts.SweepConcurrency < 1 {
		return nil, fmt.Errorf("sweep concurrency must be positive (got %d)", opts.SweepConcurrency)
	}

	return &Engine{
		store:    store,
		sim:      sim,
		assessor: assessor,
		detector: detector,
		checker:  checker,
		cutoffs:  cutoffs,
		sink:     sink,
		opts:     opts,
	}, nil
}

// AssessQuality scores the task on every registered metric, saves the
// assessment, and emits an event. The returned record is append-only
// history; re-assessment produces a new record.
func (e *Engine) AssessQuality(ctx context.Context, taskID string) (*types.QualityAssessment, error) {
	task, err := e.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("loading task %s: %w", taskID, err)
	}

	existing, err := e.bank(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading task bank: %w", err)
	}

	assessment, err := e.assessor.Assess(ctx, task, quality.BankContext{Existing: existing})
	if err != nil {
		return nil, fmt.Errorf("assessing %s: %w", taskID, err)
	}

	if err := e.store.SaveAssessment(ctx, assessment); err != nil {
		return nil, fmt.Errorf("saving assessment for %s: %w", taskID, err)
	}

	e.sink.Emit(events.NewQualityAssessedEvent(assessment))
	return assessment, nil
}

// AnalyzeContamination runs the similarity, training-corpus, and
// temporal analyses concurrently, aggregates them into one risk
// verdict, saves the analysis, and emits an event.
//
// A store failure fails the whole analysis: a task that cannot be
// compared against the corpus is not eligible for any status beyond
// draft until a re-run succeeds.
func (e *Engine) AnalyzeContamination(ctx context.Context, taskID string) (*types.ContaminationAnalysis, error) {
	task, err := e.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("loading task %s: %w", taskID, err)
	}

	existing, err := e.bank(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading task bank: %w", err)
	}

	var (
		simAnalysis      types.SimilarityAnalysis
		trainingAnalysis types.TrainingDataAnalysis
		temporalAnalysis types.TemporalAnalysis
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		analysis, err := e.similarityAnalysis(gctx, task, existing)
		if err != nil {
			return err
		}
		simAnalysis = analysis
		return nil
	})
	g.Go(func() error {
		analysis, err := e.checker.CheckOverlap(gctx, task)
		if err != nil {
			return fmt.Errorf("corpus overlap check: %w", err)
		}
		trainingAnalysis = *analysis
		return nil
	})
	g.Go(func() error {
		temporalAnalysis = temporal.Analyze(task, e.opts.ModelID, e.cutoffs)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("contamination analysis for %s: %w", taskID, err)
	}

	verdict := contamination.Aggregate(simAnalysis, trainingAnalysis, temporalAnalysis)

	analysis := &types.ContaminationAnalysis{
		ID:              uuid.NewString(),
		TaskID:          task.ID,
		TaskVersion:     task.Version,
		OverallRisk:     verdict.Risk,
		Similarity:      simAnalysis,
		TrainingData:    trainingAnalysis,
		Temporal:        temporalAnalysis,
		Recommendations: verdict.Recommendations,
		AnalyzedAt:      time.Now().UTC(),
	}

	if err := e.store.SaveAnalysis(ctx, analysis); err != nil {
		return nil, fmt.Errorf("saving analysis for %s: %w", taskID, err)
	}

	e.sink.Emit(events.NewContaminationAnalyzedEvent(analysis))
	return analysis, nil
}

// DecideStatus applies the publication gate using the latest saved
// assessment and analysis. Both must cover the task's current version;
// stale verdicts force a re-run instead of a decision.
func (e *Engine) DecideStatus(ctx context.Context, taskID string) (types.Status, error) {
	task, err := e.store.GetTask(ctx, taskID)
	if err != nil {
		return "", fmt.Errorf("loading task %s: %w", taskID, err)
	}
	if task.Status == types.StatusDeprecated || task.Status == types.StatusArchived {
		return "", fmt.Errorf("task %s is %s; the gate does not move terminal tasks", taskID, task.Status)
	}

	assessment, err := e.store.GetLatestAssessment(ctx, taskID)
	if err != nil {
		return "", fmt.Errorf("loading latest assessment for %s: %w", taskID, err)
	}
	analysis, err := e.store.GetLatestAnalysis(ctx, taskID)
	if err != nil {
		return "", fmt.Errorf("loading latest analysis for %s: %w", taskID, err)
	}
	if assessment.TaskVersion != task.Version || analysis.TaskVersion != task.Version {
		return "", fmt.Errorf("task %s is at version %d but verdicts cover versions %d/%d; re-run screening",
			taskID, task.Version, assessment.TaskVersion, analysis.TaskVersion)
	}

	// Aggregate is pure, so replaying it on the stored analysis yields
	// the same numeric score the analysis was classified with.
	verdict := contamination.Aggregate(analysis.Similarity, analysis.TrainingData, analysis.Temporal)

	next := gate.Decide(assessment.OverallScore, analysis.OverallRisk, assessment.Validation)

	if err := e.store.SetScores(ctx, taskID, &assessment.OverallScore, &verdict.Score); err != nil {
		return "", fmt.Errorf("recording scores for %s: %w", taskID, err)
	}
	if next != task.Status {
		if err := e.store.SetStatus(ctx, taskID, next, "gate"); err != nil {
			return "", fmt.Errorf("transitioning %s to %s: %w", taskID, next, err)
		}
		e.sink.Emit(events.NewStatusChangedEvent(taskID, task.Status, next, "publication gate decision"))
	}
	return next, nil
}

// ScreenResult bundles the outcome of a full screening pass
type ScreenResult struct {
	Assessment *types.QualityAssessment
	Analysis   *types.ContaminationAnalysis
	Status     types.Status
}

// Screen runs quality assessment and contamination analysis
// concurrently, then applies the gate.
func (e *Engine) Screen(ctx context.Context, taskID string) (*ScreenResult, error) {
	result := &ScreenResult{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		assessment, err := e.AssessQuality(gctx, taskID)
		if err != nil {
			return err
		}
		result.Assessment = assessment
		return nil
	})
	g.Go(func() error {
		analysis, err := e.AnalyzeContamination(gctx, taskID)
		if err != nil {
			return err
		}
		result.Analysis = analysis
		return nil
	})
	if err := g.Wait(); err != nil {
		e.sink.Emit(events.NewScreeningFailedEvent(taskID, err))
		return nil, err
	}

	status, err := e.DecideStatus(ctx, taskID)
	if err != nil {
		e.sink.Emit(events.NewScreeningFailedEvent(taskID, err))
		return nil, err
	}
	result.Status = status
	return result, nil
}

// Transition applies an explicit curator status change, such as
// deprecating a published task. The gate's transition rules still
// apply.
func (e *Engine) Transition(ctx context.Context, taskID string, target types.Status, actor string) error {
	task, err := e.store.GetTask(ctx, taskID)
	if err != nil {
		return fmt.Errorf("loading task %s: %w", taskID, err)
	}
	if err := gate.Transition(task, target); err != nil {
		return err
	}
	if err := e.store.SetStatus(ctx, taskID, target, actor); err != nil {
		return fmt.Errorf("transitioning %s to %s: %w", taskID, target, err)
	}
	e.sink.Emit(events.NewStatusChangedEvent(taskID, task.Status, target, "curator action by "+actor))
	return nil
}

// similarityAnalysis compares the task against the bank: similar-task
// matches, duplicate clusters among the matched set, and plagiarism
// scans for close matches.
func (e *Engine) similarityAnalysis(ctx context.Context, task *types.Task, existing []*types.Task) (types.SimilarityAnalysis, error) {
	analysis := types.SimilarityAnalysis{Confidence: 1.0}

	// Search down to the reporting floor: the aggregator's lowest risk
	// band starts below the display threshold, so the best match must
	// be tracked independently of what is reported as a SimilarTask.
	matches, err := e.detector.FindSimilarTasks(ctx, task, existing, similarity.ReportingFloor)
	if err != nil {
		return analysis, fmt.Errorf("finding similar tasks: %w", err)
	}
	if len(matches) > 0 {
		analysis.OverallSimilarity = matches[0].Similarity
	}
	for _, match := range matches {
		if match.Similarity >= e.opts.SimilarityThreshold {
			analysis.SimilarTasks = append(analysis.SimilarTasks, match)
		}
	}

	// Identity comparison is cheap and reveals whether the semantic
	// signal was available for this pass.
	if self, err := e.sim.Compare(ctx, task, task); err == nil {
		analysis.Confidence = self.Confidence
	}

	if len(matches) > 0 {
		byID := make(map[string]*types.Task, len(existing))
		for _, t := range existing {
			byID[t.ID] = t
		}

		clusterSet := []*types.Task{task}
		for _, match := range matches {
			if source, ok := byID[match.TaskID]; ok {
				clusterSet = append(clusterSet, source)
			}
		}
		clusters, err := e.detector.BuildClusters(ctx, clusterSet)
		if err != nil {
			log.Printf("[SCREEN] clustering failed for %s: %v", task.ID, err)
		} else {
			analysis.Clusters = clusters
		}

		analysis.Plagiarism = e.detector.ScanPlagiarism(ctx, task, matches, byID)
	}

	return analysis, nil
}

// bank loads the comparison corpus: every non-archived task. Archived
// tasks are out of the bank and no longer count against uniqueness or
// duplication.
func (e *Engine) bank(ctx context.Context) ([]*types.Task, error) {
	tasks, err := e.store.ListTasks(ctx, types.TaskFilter{})
	if err != nil {
		return nil, err
	}
	out := tasks[:0]
	for _, t := range tasks {
		if t.Status != types.StatusArchived {
			out = append(out, t)
		}
	}
	return out, nil
}
