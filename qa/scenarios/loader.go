// Package scenarios runs YAML acceptance fixtures against the tabular
// aggregation path and the resilient comparison path.
package scenarios

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ScenarioExpect is the expected aggregate of one scenario in a tabular export.
type ScenarioExpect struct {
	ID                 string `yaml:"id"`
	Hub                string `yaml:"hub"`
	Vehicles           int    `yaml:"vehicles"`
	AvgDistanceDisplay string `yaml:"avg_distance"`
	AvgStopsDisplay    string `yaml:"avg_stops"`
	Current            bool   `yaml:"current"`
}

// CompareDef drives a batch resolution against the mock upstream.
type CompareDef struct {
	Names        []string `yaml:"names"`
	FailNames    []string `yaml:"fail_names,omitempty"`
	DeclineNames []string `yaml:"decline_names,omitempty"`
	ArrayBodies  bool     `yaml:"array_bodies,omitempty"`
}

// CompareExpect lists the expected batch outcome.
type CompareExpect struct {
	Resolved     []string `yaml:"resolved"`
	Mocked       []string `yaml:"mocked,omitempty"`
	Dropped      []string `yaml:"dropped,omitempty"`
	Unresolvable bool     `yaml:"unresolvable,omitempty"`
	Extrema      bool     `yaml:"extrema"`
}

type Expected struct {
	Scenarios []ScenarioExpect `yaml:"scenarios,omitempty"`
	Compare   CompareExpect    `yaml:"compare,omitempty"`
}

type Scenario struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description,omitempty"`
	Tabular     string     `yaml:"tabular,omitempty"`
	Current     string     `yaml:"current,omitempty"`
	Compare     CompareDef `yaml:"compare,omitempty"`
	Expected    Expected   `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if sc.Name == "" {
		return nil, fmt.Errorf("%s: name is required", path)
	}
	return &sc, nil
}
