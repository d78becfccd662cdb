package metrics

import (
	"github.com/kilianp07/routekpi/core/factory"
	coremetrics "github.com/kilianp07/routekpi/core/metrics"
	"github.com/kilianp07/routekpi/infra/mqtt"
)

// init registers built-in metrics sinks.
func init() {
	_ = coremetrics.RegisterSink("nop", func(map[string]any) (coremetrics.Sink, error) {
		return coremetrics.NopSink{}, nil
	})

	_ = coremetrics.RegisterSink("prometheus", func(map[string]any) (coremetrics.Sink, error) {
		// The exposition port lives in metrics.prometheus_port; the sink only registers collectors.
		return NewPromSink()
	})

	_ = coremetrics.RegisterSink("influx", func(conf map[string]any) (coremetrics.Sink, error) {
		var c InfluxConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewInfluxSinkWithFallback(c), nil
	})

	_ = coremetrics.RegisterSink("journal", func(conf map[string]any) (coremetrics.Sink, error) {
		var c JournalConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewJournalSink(c)
	})

	_ = coremetrics.RegisterSink("mqtt", func(conf map[string]any) (coremetrics.Sink, error) {
		var c mqtt.Config
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return mqtt.NewPublisher(c)
	})
}
