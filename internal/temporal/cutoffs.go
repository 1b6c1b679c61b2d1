package temporal

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// CutoffTable maps model identifiers to their training data cutoff
// dates. Loaded once from yaml; lookups are read-only.
type CutoffTable struct {
	cutoffs map[string]time.Time
}

type cutoffFile struct {
	Models []struct {
		ID     string `yaml:"id"`
		Cutoff string `yaml:"cutoff"` // YYYY-MM-DD
	} `yaml:"models"`
}

// LoadCutoffTable reads a model cutoff table from a yaml file:
//
//	models:
//	  - id: example-model-2
//	    cutoff: 2025-10-01
func LoadCutoffTable(path string) (*CutoffTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cutoff table: %w", err)
	}
	return ParseCutoffTable(data)
}

// ParseCutoffTable parses yaml cutoff table contents
func ParseCutoffTable(data []byte) (*CutoffTable, error) {
	var file cutoffFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse cutoff table: %w", err)
	}

	table := &CutoffTable{cutoffs: make(map[string]time.Time, len(file.Models))}
	for _, m := range file.Models {
		if m.ID == "" {
			return nil, fmt.Errorf("cutoff table entry missing model id")
		}
		t, err := time.Parse("2006-01-02", m.Cutoff)
		if err != nil {
			return nil, fmt.Errorf("invalid cutoff date for model %s: %w", m.ID, err)
		}
		table.cutoffs[m.ID] = t
	}
	return table, nil
}

// Lookup returns the cutoff for a model, or nil when the model is not
// in the table. Unknown models map to an unknown cutoff, which Assess
// treats as CAUTION.
func (t *CutoffTable) Lookup(modelID string) *time.Time {
	if t == nil {
		return nil
	}
	cutoff, ok := t.cutoffs[modelID]
	if !ok {
		return nil
	}
	return &cutoff
}

// Len returns the number of models in the table
func (t *CutoffTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.cutoffs)
}
