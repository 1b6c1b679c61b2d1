package screening

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/taskbank/gatekeeper/internal/events"
	"github.com/taskbank/gatekeeper/internal/types"
)

// SweepFailure records one task that could not be re-screened
type SweepFailure struct {
	TaskID string
	Err    error
}

// SweepReport summarizes a batch re-screening pass
type SweepReport struct {
	Total    int
	Screened int
	Failures []SweepFailure
	Elapsed  time.Duration
}

// Sweep re-screens every active task in the bank with a bounded worker
// pool. Individual failures are isolated and reported; they never
// abort the batch. Deprecated and archived tasks are skipped.
func (e *Engine) Sweep(ctx context.Context) (*SweepReport, error) {
	start := time.Now()

	tasks, err := e.store.ListTasks(ctx, types.TaskFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing tasks for sweep: %w", err)
	}

	var active []*types.Task
	for _, task := range tasks {
		if task.Status == types.StatusDeprecated || task.Status == types.StatusArchived {
			continue
		}
		active = append(active, task)
	}

	report := &SweepReport{Total: len(active)}
	sem := semaphore.NewWeighted(int64(e.opts.SweepConcurrency))

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, task := range active {
		if err := sem.Acquire(ctx, 1); err != nil {
			// Context canceled; record the remainder as unscreened
			mu.Lock()
			report.Failures = append(report.Failures, SweepFailure{TaskID: task.ID, Err: err})
			mu.Unlock()
			continue
		}

		wg.Add(1)
		go func(task *types.Task) {
			defer wg.Done()
			defer sem.Release(1)

			if _, err := e.Screen(ctx, task.ID); err != nil {
				log.Printf("[SWEEP] screening %s failed: %v", task.ID, err)
				mu.Lock()
				report.Failures = append(report.Failures, SweepFailure{TaskID: task.ID, Err: err})
				mu.Unlock()
				return
			}
			mu.Lock()
			report.Screened++
			mu.Unlock()
		}(task)
	}
	wg.Wait()

	sort.Slice(report.Failures, func(i, j int) bool {
		return report.Failures[i].TaskID < report.Failures[j].TaskID
	})
	report.Elapsed = time.Since(start)

	e.sink.Emit(events.NewSweepCompletedEvent(report.Total, len(report.Failures), report.Elapsed))
	return report, nil
}
