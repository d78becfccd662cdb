// Package fallback serves the simulated summary payload substituted when
// the scenario service is unreachable.
package fallback

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/kilianp07/routekpi/core/model"
)

//go:embed example_summary.json
var exampleSummary []byte

// StaticProvider hands out copies of one fixed payload.
type StaticProvider struct {
	base model.SummaryPayload
}

// NewStaticProvider returns a provider backed by the built-in example.
func NewStaticProvider() (*StaticProvider, error) {
	return parse(exampleSummary)
}

// NewFileProvider loads the example payload from path. An empty path
// selects the built-in example.
func NewFileProvider(path string) (*StaticProvider, error) {
	if path == "" {
		return NewStaticProvider()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fallback payload: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*StaticProvider, error) {
	var p model.SummaryPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode fallback payload: %w", err)
	}
	if p.Summary == nil {
		return nil, fmt.Errorf("fallback payload has no summary")
	}
	return &StaticProvider{base: p}, nil
}

// Payload returns a deep copy of the example with its request id set to
// name. Callers may mutate the result freely.
func (s *StaticProvider) Payload(name string) (model.SummaryPayload, error) {
	p := s.base.Clone()
	p.RequestID = name
	return p, nil
}
