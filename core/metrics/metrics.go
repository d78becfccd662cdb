package metrics

import "time"

// ResolutionEvent describes how a single scenario was resolved.
type ResolutionEvent struct {
	BatchID  string
	Scenario string
	// Outcome is one of "resolved", "dropped", "transport_failed".
	Outcome string
	// Fallback is true when simulated data replaced the remote payload.
	Fallback bool
	Reason   string
	Latency  time.Duration
	Time     time.Time
}

// Sink records scenario resolution events.
type Sink interface {
	RecordResolution(ev ResolutionEvent) error
}

// BatchEvent summarises one batch resolution.
type BatchEvent struct {
	BatchID   string
	Requested []string
	Resolved  []string
	Dropped   []string
	Mocked    []string
	Failed    bool
	Duration  time.Duration
	Time      time.Time
}

// BatchRecorder is implemented by sinks able to record whole batches.
type BatchRecorder interface {
	RecordBatch(ev BatchEvent) error
}

// NopSink implements Sink with no-op methods.
type NopSink struct{}

func (NopSink) RecordResolution(ResolutionEvent) error { return nil }
func (NopSink) RecordBatch(BatchEvent) error           { return nil }
