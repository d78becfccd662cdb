package config

import (
	"fmt"
	"net/url"
	"time"
)

// DefaultFallbackDelayMS approximates the latency of a real upstream call on
// the simulated path.
const DefaultFallbackDelayMS = 1500

// UpstreamConfig defines how scenario summaries are fetched.
type UpstreamConfig struct {
	// URL of the summary endpoint. Empty means every fetch fails over to the
	// fallback payload.
	URL            string `json:"url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	// FallbackDelayMS is waited before serving simulated data. Unset means
	// DefaultFallbackDelayMS; 0 disables the delay.
	FallbackDelayMS *int `json:"fallback_delay_ms"`
	// MaxConcurrent bounds in-flight fetches per batch; 0 is unbounded.
	MaxConcurrent int `json:"max_concurrent"`
	// FallbackFile replaces the built-in example payload.
	FallbackFile string `json:"fallback_file"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	TokenURL     string `json:"token_url"`
}

// SetDefaults applies fallback values for optional fields.
func (c *UpstreamConfig) SetDefaults() {
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	if c.FallbackDelayMS == nil {
		d := DefaultFallbackDelayMS
		c.FallbackDelayMS = &d
	}
}

// Validate checks the configuration ranges.
func (c UpstreamConfig) Validate() error {
	if c.URL != "" {
		u, err := url.Parse(c.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("upstream.url %q is not an absolute URL", c.URL)
		}
	}
	if c.FallbackDelayMS != nil && *c.FallbackDelayMS < 0 {
		return fmt.Errorf("upstream.fallback_delay_ms must be >= 0")
	}
	if c.MaxConcurrent < 0 {
		return fmt.Errorf("upstream.max_concurrent must be >= 0")
	}
	if c.ClientID != "" && c.TokenURL == "" {
		return fmt.Errorf("upstream.token_url is required with client_id")
	}
	return nil
}

func (c UpstreamConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c UpstreamConfig) FallbackDelay() time.Duration {
	if c.FallbackDelayMS == nil {
		return DefaultFallbackDelayMS * time.Millisecond
	}
	return time.Duration(*c.FallbackDelayMS) * time.Millisecond
}

// UpstreamMockConfig configures the local stand-in for the scenario service.
type UpstreamMockConfig struct {
	Address string `json:"address"`
	// FailNames answer 503 so clients exercise their fallback path.
	FailNames []string `json:"fail_names"`
	// DeclineNames answer 200 with success=false.
	DeclineNames []string `json:"decline_names"`
	// ArrayResponses wraps each payload in a one-element array.
	ArrayResponses bool `json:"array_responses"`
	LatencyMS      int  `json:"latency_ms"`
}

// SetDefaults applies sane defaults.
func (c *UpstreamMockConfig) SetDefaults() {
	if c.Address == "" {
		c.Address = ":8081"
	}
}
