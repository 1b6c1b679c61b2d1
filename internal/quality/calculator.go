// Package quality scores tasks on five intrinsic metrics through a
// registry of pluggable calculators and merges the results into one
// assessment. Adding a metric means registering a new Calculator;
// the assessor never changes.
package quality

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/taskbank/gatekeeper/internal/types"
)

// BankContext is the slice of the surrounding task bank a calculator
// may consult. Only uniqueness needs it today; the rest score the task
// on its own content.
type BankContext struct {
	Existing []*types.Task
}

// Calculator scores one quality dimension of a task, 0-100, with
// sub-scores and findings. Calculators must be deterministic for a
// given task version so re-assessment is idempotent.
type Calculator interface {
	// Metric returns the unique metric this calculator scores.
	Metric() types.QualityMetric

	// Calculate scores the task. Errors are isolated by the assessor;
	// a failing calculator never fails the whole assessment.
	Calculate(ctx context.Context, task *types.Task, bank BankContext) (*types.QualityScore, error)
}

// Registry manages the set of metric calculators
type Registry struct {
	mu          sync.RWMutex
	calculators map[types.QualityMetric]Calculator
}

// NewRegistry creates an empty calculator registry
func NewRegistry() *Registry {
	return &Registry{calculators: make(map[types.QualityMetric]Calculator)}
}

// Register adds a calculator to the registry
func (r *Registry) Register(calc Calculator) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	metric := calc.Metric()
	if !metric.IsValid() {
		return fmt.Errorf("invalid metric: %s", metric)
	}
	if _, exists := r.calculators[metric]; exists {
		return fmt.Errorf("calculator for %s already registered", metric)
	}
	r.calculators[metric] = calc
	return nil
}

// Get returns the calculator for a metric
func (r *Registry) Get(metric types.QualityMetric) (Calculator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	calc, ok := r.calculators[metric]
	return calc, ok
}

// List returns all registered calculators in stable metric order
func (r *Registry) List() []Calculator {
	r.mu.RLock()
	defer r.mu.RUnlock()

	metrics := make([]string, 0, len(r.calculators))
	for m := range r.calculators {
		metrics = append(metrics, string(m))
	}
	sort.Strings(metrics)

	calcs := make([]Calculator, 0, len(metrics))
	for _, m := range metrics {
		calcs = append(calcs, r.calculators[types.QualityMetric(m)])
	}
	return calcs
}

// DefaultRegistry returns a registry with the five standard
// calculators installed. The uniqueness calculator needs the
// similarity engine; pass nil to score without one (uniqueness then
// reports full marks at reduced confidence).
func DefaultRegistry(uniqueness Calculator) (*Registry, error) {
	registry := NewRegistry()

	calcs := []Calculator{
		&CompletenessCalculator{},
		&ClarityCalculator{},
		&DifficultyAccuracyCalculator{},
		&FeasibilityCalculator{},
	}
	if uniqueness != nil {
		calcs = append(calcs, uniqueness)
	}

	for _, c := range calcs {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
