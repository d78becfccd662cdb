// Package metrics defines the events emitted while resolving scenarios and
// the sinks that record them. Sinks like PromSink and InfluxSink live in
// infra/metrics and register themselves with the factory here; NewSink
// returns a MultiSink automatically when several sinks are configured.
package metrics
