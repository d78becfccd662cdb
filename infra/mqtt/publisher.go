// Package mqtt publishes scenario resolution events to an MQTT broker so
// dashboards can follow batches live.
package mqtt

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/kilianp07/routekpi/core/metrics"
	"github.com/kilianp07/routekpi/core/monitoring"
	"github.com/kilianp07/routekpi/infra/logger"
)

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// Publisher implements metrics.Sink and metrics.BatchRecorder on MQTT.
type Publisher struct {
	cli        pahoClient
	prefix     string
	qos        byte
	retain     bool
	maxRetries int
	backoff    time.Duration
	log        logger.Logger
}

// NewPublisher connects to the broker described by cfg.
func NewPublisher(cfg Config) (*Publisher, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	log := logger.New("mqtt_publisher")
	opts.OnConnect = func(paho.Client) { log.Infof("MQTT connected to %s", cfg.Broker) }
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}
	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}
	return &Publisher{
		cli:        c,
		prefix:     strings.TrimSuffix(cfg.TopicPrefix, "/"),
		qos:        cfg.QoS,
		retain:     cfg.Retain,
		maxRetries: cfg.MaxRetries,
		backoff:    time.Duration(cfg.BackoffMS) * time.Millisecond,
		log:        log,
	}, nil
}

type resolutionMessage struct {
	BatchID   string  `json:"batch_id,omitempty"`
	Scenario  string  `json:"scenario"`
	Outcome   string  `json:"outcome"`
	Fallback  bool    `json:"fallback"`
	Reason    string  `json:"reason,omitempty"`
	LatencyMS float64 `json:"latency_ms"`
	Timestamp int64   `json:"timestamp"`
}

type batchMessage struct {
	BatchID    string   `json:"batch_id"`
	Requested  []string `json:"requested"`
	Resolved   []string `json:"resolved"`
	Dropped    []string `json:"dropped"`
	Mocked     []string `json:"mocked"`
	Failed     bool     `json:"failed"`
	DurationMS float64  `json:"duration_ms"`
	Timestamp  int64    `json:"timestamp"`
}

// RecordResolution publishes ev on <prefix>/scenario/<name>/resolution.
func (p *Publisher) RecordResolution(ev metrics.ResolutionEvent) error {
	msg := resolutionMessage{
		BatchID:   ev.BatchID,
		Scenario:  ev.Scenario,
		Outcome:   ev.Outcome,
		Fallback:  ev.Fallback,
		Reason:    ev.Reason,
		LatencyMS: float64(ev.Latency.Microseconds()) / 1000,
		Timestamp: ev.Time.UnixMilli(),
	}
	return p.publish(fmt.Sprintf("%s/scenario/%s/resolution", p.prefix, topicSegment(ev.Scenario)), msg)
}

// RecordBatch publishes ev on <prefix>/batch.
func (p *Publisher) RecordBatch(ev metrics.BatchEvent) error {
	msg := batchMessage{
		BatchID:    ev.BatchID,
		Requested:  ev.Requested,
		Resolved:   ev.Resolved,
		Dropped:    ev.Dropped,
		Mocked:     ev.Mocked,
		Failed:     ev.Failed,
		DurationMS: float64(ev.Duration.Microseconds()) / 1000,
		Timestamp:  ev.Time.UnixMilli(),
	}
	return p.publish(p.prefix+"/batch", msg)
}

func (p *Publisher) publish(topic string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var publishErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		token := p.cli.Publish(topic, p.qos, p.retain, payload)
		token.Wait()
		publishErr = token.Error()
		if publishErr == nil {
			p.log.Debugf("published to %s", topic)
			return nil
		}
		p.log.Errorf("publish attempt %d failed: %v", attempt+1, publishErr)
		if attempt < p.maxRetries {
			time.Sleep(p.backoff * time.Duration(1<<attempt))
		}
	}
	monitoring.CaptureException(publishErr, map[string]string{"module": "mqtt", "topic": topic})
	return publishErr
}

// Close gracefully closes the MQTT connection.
func (p *Publisher) Close() {
	if p.cli != nil && p.cli.IsConnected() {
		p.cli.Disconnect(250)
	}
}

// topicSegment keeps a scenario name from injecting MQTT wildcards or levels.
func topicSegment(s string) string {
	return strings.NewReplacer("/", "_", "+", "_", "#", "_").Replace(s)
}
