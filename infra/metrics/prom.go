package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/routekpi/core/metrics"
)

// PromSink records scenario resolutions in Prometheus metrics.
type PromSink struct {
	resolutions *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	fallbacks   prometheus.Counter
	batches     *prometheus.CounterVec
	resolved    prometheus.Gauge
}

// NewPromSink registers resolution metrics on the default Prometheus registerer.
// The Prometheus server should be started separately with StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	resolutions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scenario_resolutions_total",
		Help: "Scenario resolutions by outcome",
	}, []string{"outcome"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "scenario_fetch_latency_seconds",
		Help:    "Time to resolve one scenario, fallback delay included",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	fallbacks := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scenario_fallbacks_total",
		Help: "Scenarios served from simulated data",
	})
	batches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scenario_batches_total",
		Help: "Batch resolutions by status",
	}, []string{"status"})
	resolved := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "scenario_batch_resolved",
		Help: "Number of scenarios resolved in the last batch",
	})

	var err error
	if resolutions, err = register(reg, resolutions); err != nil {
		return nil, err
	}
	if latency, err = register(reg, latency); err != nil {
		return nil, err
	}
	if fallbacks, err = register(reg, fallbacks); err != nil {
		return nil, err
	}
	if batches, err = register(reg, batches); err != nil {
		return nil, err
	}
	if resolved, err = register(reg, resolved); err != nil {
		return nil, err
	}
	return &PromSink{
		resolutions: resolutions,
		latency:     latency,
		fallbacks:   fallbacks,
		batches:     batches,
		resolved:    resolved,
	}, nil
}

// register adds c to reg, returning the existing collector when an
// identical one was registered earlier.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordResolution counts the outcome and observes its latency.
func (s *PromSink) RecordResolution(ev coremetrics.ResolutionEvent) error {
	s.resolutions.WithLabelValues(ev.Outcome).Inc()
	s.latency.WithLabelValues(ev.Outcome).Observe(ev.Latency.Seconds())
	if ev.Fallback {
		s.fallbacks.Inc()
	}
	return nil
}

// RecordBatch counts the batch and sets the resolved gauge.
func (s *PromSink) RecordBatch(ev coremetrics.BatchEvent) error {
	status := "ok"
	if ev.Failed {
		status = "failed"
	}
	s.batches.WithLabelValues(status).Inc()
	s.resolved.Set(float64(len(ev.Resolved)))
	return nil
}
