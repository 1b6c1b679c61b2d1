// Package corpus estimates overlap between a candidate task and known
// external training corpora. The catalog holds representative excerpts
// from public datasets; the checker scores the candidate's text against
// them and scans for tell-tale benchmark references.
package corpus

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Dataset is one known external corpus with representative excerpts
type Dataset struct {
	Name     string   `yaml:"name"`
	Excerpts []string `yaml:"excerpts"`
}

// Catalog is the set of known datasets, loaded from yaml
type Catalog struct {
	Datasets []Dataset `yaml:"datasets"`
}

// LoadCatalog reads a dataset catalog from a yaml file:
//
//	datasets:
//	  - name: public-coding-benchmark
//	    excerpts:
//	      - "Write a function that returns the nth Fibonacci number."
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog parses yaml catalog contents
func ParseCatalog(data []byte) (*Catalog, error) {
	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	for i, d := range catalog.Datasets {
		if d.Name == "" {
			return nil, fmt.Errorf("catalog entry %d missing dataset name", i)
		}
	}
	return &catalog, nil
}
