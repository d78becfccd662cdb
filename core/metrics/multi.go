package metrics

import "errors"

// MultiSink fans events out to multiple sinks.
type MultiSink struct {
	Sinks []Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordResolution forwards the event to every sink. A failing sink does not
// stop the others; all errors are joined.
func (m *MultiSink) RecordResolution(ev ResolutionEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if err := s.RecordResolution(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RecordBatch forwards batch events to every sink that supports them.
func (m *MultiSink) RecordBatch(ev BatchEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if br, ok := s.(BatchRecorder); ok {
			if err := br.RecordBatch(ev); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
