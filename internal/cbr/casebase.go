// Package cbr retrieves the reference cases most similar to a query
// snapshot via a weighted feature distance, and explains each match.
package cbr

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/ppiankov/triago/internal/model"
	"gopkg.in/yaml.v3"
)

//go:embed cases.yaml
var embeddedCases []byte

// CaseBase is the process-wide collection of reference cases. It is
// populated once and read-only afterward, so it is safe to share across
// concurrent triage runs without locking.
type CaseBase struct {
	cases []model.Case
}

// Load parses the embedded reference case base
func Load() (*CaseBase, error) {
	return parse(embeddedCases)
}

// LoadFile loads a custom case base from a YAML file using the same
// attribute names as the embedded one
func LoadFile(path string) (*CaseBase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read case base: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*CaseBase, error) {
	var cases []model.Case
	if err := yaml.Unmarshal(data, &cases); err != nil {
		return nil, fmt.Errorf("parse case base: %w", err)
	}
	if len(cases) == 0 {
		return nil, fmt.Errorf("case base is empty")
	}

	seen := make(map[int]bool, len(cases))
	for _, c := range cases {
		if seen[c.ID] {
			return nil, fmt.Errorf("case base: duplicate case id %d", c.ID)
		}
		seen[c.ID] = true
		if err := c.Facts.Validate(); err != nil {
			return nil, fmt.Errorf("case %d (%s): %w", c.ID, c.Label, err)
		}
	}

	return &CaseBase{cases: cases}, nil
}

// Len returns the number of cases
func (b *CaseBase) Len() int {
	return len(b.cases)
}

// Cases returns the cases in load order. The returned slice is a copy;
// the underlying records are shared and must be treated as read-only.
func (b *CaseBase) Cases() []model.Case {
	out := make([]model.Case, len(b.cases))
	copy(out, b.cases)
	return out
}

// Get returns the case with the given id
func (b *CaseBase) Get(id int) (model.Case, bool) {
	for _, c := range b.cases {
		if c.ID == id {
			return c, true
		}
	}
	return model.Case{}, false
}
