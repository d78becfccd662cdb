package resilience

import (
	"context"

	"github.com/kilianp07/routekpi/core/model"
)

// Fetcher retrieves the summary payload of one scenario. Transport errors,
// non-success statuses and undecodable bodies are all returned as errors.
type Fetcher interface {
	Fetch(ctx context.Context, name string) (model.SummaryPayload, error)
}

// FallbackProvider returns the simulated payload used when Fetcher fails.
// The returned payload carries name as its request id.
type FallbackProvider interface {
	Payload(name string) (model.SummaryPayload, error)
}
