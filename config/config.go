package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/routekpi/core/metrics"
	"github.com/kilianp07/routekpi/infra/mqtt"
)

type Config struct {
	Server   ServerConfig       `json:"server"`
	Upstream UpstreamConfig     `json:"upstream"`
	Mock     UpstreamMockConfig `json:"mock"`
	Scenario ScenarioConfig     `json:"scenario"`
	Metrics  metrics.Config     `json:"metrics"`
	MQTT     mqtt.Config        `json:"mqtt"`
	Sentry   SentryConfig       `json:"sentry"`
}

// Load reads path, applies K_ environment overrides and validates the
// result. An empty path loads defaults and environment only.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}
	// Environment overrides: K_UPSTREAM__TIMEOUT_SECONDS sets upstream.timeout_seconds.
	if err := k.Load(env.Provider("K_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "k_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults fills every section's optional fields.
func (c *Config) SetDefaults() {
	c.Server.SetDefaults()
	c.Upstream.SetDefaults()
	c.Mock.SetDefaults()
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Upstream.Validate(); err != nil {
		return err
	}
	return nil
}
