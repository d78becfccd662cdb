package resilience

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kilianp07/routekpi/core/compare"
	"github.com/kilianp07/routekpi/core/logger"
	"github.com/kilianp07/routekpi/core/metrics"
	"github.com/kilianp07/routekpi/core/model"
	"github.com/kilianp07/routekpi/core/monitoring"
	"github.com/kilianp07/routekpi/core/summary"
)

// Options tunes a Resolver.
type Options struct {
	// FallbackDelay is waited before serving simulated data.
	FallbackDelay time.Duration
	// MaxConcurrent bounds in-flight fetches per batch. Zero means unbounded.
	MaxConcurrent int
}

// Result is the resolution of one scenario name.
type Result struct {
	Name    string
	Outcome Outcome
	Reason  string
	Metrics model.DetailedMetrics
	// OK is false when the scenario is excluded from the batch.
	OK bool
}

// Batch is the resolution of a list of scenario names.
type Batch struct {
	ID string
	// Results follow the request order, unresolved names included.
	Results []Result
	// Scenarios holds the resolved metrics in request order.
	Scenarios []model.DetailedMetrics
	// Extrema is nil when fewer than two scenarios resolved.
	Extrema *model.ComparisonExtrema
}

// Resolver turns scenario names into DetailedMetrics.
type Resolver struct {
	fetcher  Fetcher
	fallback FallbackProvider
	sink     metrics.Sink
	log      logger.Logger
	opts     Options
	now      func() time.Time
}

// NewResolver creates a Resolver. A nil sink records nothing.
func NewResolver(f Fetcher, fb FallbackProvider, sink metrics.Sink, log logger.Logger, opts Options) (*Resolver, error) {
	if f == nil || fb == nil || log == nil {
		return nil, fmt.Errorf("resilience: nil parameter provided to NewResolver")
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	if opts.FallbackDelay < 0 {
		opts.FallbackDelay = 0
	}
	return &Resolver{fetcher: f, fallback: fb, sink: sink, log: log, opts: opts, now: time.Now}, nil
}

// Resolve resolves a single scenario. It never returns an error: failures
// are reported through Result.OK and Result.Reason.
func (r *Resolver) Resolve(ctx context.Context, name string) Result {
	return r.resolve(ctx, "", name)
}

func (r *Resolver) resolve(ctx context.Context, batchID, name string) Result {
	start := r.now()
	p, err := r.fetcher.Fetch(ctx, name)
	att := Classify(p, err)
	res := Result{Name: name, Outcome: att.Outcome, Reason: att.Reason}

	switch att.Outcome {
	case Resolved:
		m, ok := summary.Normalize(att.Payload)
		if !ok {
			res.Outcome = Dropped
			res.Reason = "payload has no summary"
			break
		}
		if att.Payload.RequestID == "" {
			m.ID = scenarioID(name)
		}
		res.Metrics, res.OK = m, true
	case Dropped:
		r.log.Warnf("scenario %s dropped: %s", name, att.Reason)
	case TransportFailed:
		r.log.Warnf("scenario %s unreachable, serving simulated data: %s", name, att.Reason)
		monitoring.CaptureException(fmt.Errorf("fetch scenario %s: %w", name, err),
			map[string]string{"scenario": name, "component": "resolver"})
		res.Metrics, res.OK = r.simulated(ctx, name, &res)
	}

	end := r.now()
	ev := metrics.ResolutionEvent{
		BatchID:  batchID,
		Scenario: name,
		Outcome:  res.Outcome.String(),
		Fallback: res.Outcome == TransportFailed && res.OK,
		Reason:   res.Reason,
		Latency:  end.Sub(start),
		Time:     end,
	}
	if err := r.sink.RecordResolution(ev); err != nil {
		r.log.Errorf("metrics sink error: %v", err)
	}
	r.log.Debugw("scenario resolved", map[string]any{
		"scenario": name,
		"outcome":  res.Outcome.String(),
		"ok":       res.OK,
	})
	return res
}

// simulated serves the fallback payload after the configured delay.
func (r *Resolver) simulated(ctx context.Context, name string, res *Result) (model.DetailedMetrics, bool) {
	if d := r.opts.FallbackDelay; d > 0 {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-ctx.Done():
			res.Reason = ctx.Err().Error()
			return model.DetailedMetrics{}, false
		case <-t.C:
		}
	}
	p, err := r.fallback.Payload(name)
	if err != nil {
		res.Reason = fmt.Sprintf("fallback unavailable: %v", err)
		r.log.Errorf("fallback for %s: %v", name, err)
		return model.DetailedMetrics{}, false
	}
	m, ok := summary.Normalize(p)
	if !ok {
		res.Reason = "fallback payload has no summary"
		return model.DetailedMetrics{}, false
	}
	m.ID = scenarioID(name)
	m.IsMock = true
	return m, true
}

// ResolveBatch resolves names concurrently. One failing scenario never
// aborts its siblings. The batch fails with ErrUnresolvable only when no
// name resolved.
func (r *Resolver) ResolveBatch(ctx context.Context, names []string) (Batch, error) {
	start := r.now()
	b := Batch{ID: uuid.NewString(), Results: make([]Result, len(names))}

	g, gctx := errgroup.WithContext(ctx)
	if r.opts.MaxConcurrent > 0 {
		g.SetLimit(r.opts.MaxConcurrent)
	}
	for i, name := range names {
		g.Go(func() error {
			b.Results[i] = r.resolve(gctx, b.ID, name)
			return nil
		})
	}
	_ = g.Wait()

	ev := metrics.BatchEvent{BatchID: b.ID, Requested: names, Time: r.now()}
	for _, res := range b.Results {
		if !res.OK {
			ev.Dropped = append(ev.Dropped, res.Name)
			continue
		}
		b.Scenarios = append(b.Scenarios, res.Metrics)
		ev.Resolved = append(ev.Resolved, res.Name)
		if res.Metrics.IsMock {
			ev.Mocked = append(ev.Mocked, res.Name)
		}
	}
	if ext, ok := compare.Evaluate(b.Scenarios); ok {
		b.Extrema = &ext
	}
	ev.Failed = len(b.Scenarios) == 0
	ev.Duration = r.now().Sub(start)
	if br, ok := r.sink.(metrics.BatchRecorder); ok {
		if err := br.RecordBatch(ev); err != nil {
			r.log.Errorf("metrics batch error: %v", err)
		}
	}

	if len(b.Scenarios) == 0 {
		err := fmt.Errorf("%w: %s", ErrUnresolvable, strings.Join(names, ", "))
		monitoring.CaptureException(err, map[string]string{"batch_id": b.ID, "component": "resolver"})
		r.log.Errorf("batch %s: %v", b.ID, err)
		return b, err
	}
	r.log.Infof("batch %s resolved %d/%d scenarios", b.ID, len(b.Scenarios), len(names))
	return b, nil
}

// scenarioID is the id given to metrics built for name when the payload
// carries none. Blank names map to model.UnknownScenario.
func scenarioID(name string) string {
	if strings.TrimSpace(name) == "" {
		return model.UnknownScenario
	}
	return name
}

// CleanNames trims names and drops blanks and duplicates, keeping the first
// occurrence order.
func CleanNames(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, n := range in {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
