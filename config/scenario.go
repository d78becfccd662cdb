package config

// ScenarioConfig holds defaults for the tabular path.
type ScenarioConfig struct {
	// Current names the scenario flagged as the baseline when a request does
	// not choose one.
	Current string `json:"current"`
}
