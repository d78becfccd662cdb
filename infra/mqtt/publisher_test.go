package mqtt

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/kilianp07/routekpi/core/metrics"
	coremon "github.com/kilianp07/routekpi/core/monitoring"
)

type published struct {
	topic   string
	qos     byte
	retain  bool
	payload []byte
}

// mockClient implements pahoClient for tests
type mockClient struct {
	mu          sync.Mutex
	opts        *paho.ClientOptions
	published   []published
	publishErrs []error
	connectErr  error
	disconnects int
}

func (m *mockClient) IsConnected() bool { return true }
func (m *mockClient) Connect() paho.Token {
	if m.connectErr != nil {
		return &dummyToken{err: m.connectErr}
	}
	if m.opts != nil && m.opts.OnConnect != nil {
		m.opts.OnConnect(nil)
	}
	return &dummyToken{}
}
func (m *mockClient) Disconnect(uint) { m.disconnects++ }
func (m *mockClient) Publish(topic string, qos byte, retain bool, payload interface{}) paho.Token {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, published{topic, qos, retain, payload.([]byte)})
	if len(m.publishErrs) > 0 {
		err := m.publishErrs[0]
		m.publishErrs = m.publishErrs[1:]
		return &dummyToken{err: err}
	}
	return &dummyToken{}
}

type dummyToken struct{ err error }

func (d dummyToken) Wait() bool                     { return true }
func (d dummyToken) WaitTimeout(time.Duration) bool { return true }
func (d dummyToken) Done() <-chan struct{}          { ch := make(chan struct{}); close(ch); return ch }
func (d dummyToken) Error() error                   { return d.err }

func withMockClient(t *testing.T, mc *mockClient) {
	t.Helper()
	newMQTTClient = func(o *paho.ClientOptions) pahoClient { mc.opts = o; return mc }
	t.Cleanup(func() { newMQTTClient = func(opts *paho.ClientOptions) pahoClient { return paho.NewClient(opts) } })
}

func TestPublisher_RecordResolution(t *testing.T) {
	mc := &mockClient{}
	withMockClient(t, mc)
	p, err := NewPublisher(Config{Broker: "tcp://localhost:1883", TopicPrefix: "kpi/", QoS: 1, Retain: true})
	if err != nil {
		t.Fatalf("publisher: %v", err)
	}
	now := time.UnixMilli(1700000000000)
	err = p.RecordResolution(metrics.ResolutionEvent{
		BatchID:  "b1",
		Scenario: "north/+",
		Outcome:  "transport_failed",
		Fallback: true,
		Latency:  1500 * time.Microsecond,
		Time:     now,
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if len(mc.published) != 1 {
		t.Fatalf("expected one publish, got %d", len(mc.published))
	}
	got := mc.published[0]
	if got.topic != "kpi/scenario/north__/resolution" {
		t.Fatalf("topic: %s", got.topic)
	}
	if got.qos != 1 || !got.retain {
		t.Fatalf("qos/retain not applied")
	}
	var msg resolutionMessage
	if err := json.Unmarshal(got.payload, &msg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.Scenario != "north/+" || !msg.Fallback || msg.LatencyMS != 1.5 || msg.Timestamp != now.UnixMilli() {
		t.Fatalf("payload: %+v", msg)
	}
}

func TestPublisher_RecordBatch(t *testing.T) {
	mc := &mockClient{}
	withMockClient(t, mc)
	p, err := NewPublisher(Config{Broker: "tcp://localhost:1883"})
	if err != nil {
		t.Fatalf("publisher: %v", err)
	}
	if err := p.RecordBatch(metrics.BatchEvent{BatchID: "b2", Requested: []string{"A", "B"}, Resolved: []string{"A"}, Dropped: []string{"B"}}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if mc.published[0].topic != "routekpi/batch" {
		t.Fatalf("topic: %s", mc.published[0].topic)
	}
	var msg batchMessage
	if err := json.Unmarshal(mc.published[0].payload, &msg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.BatchID != "b2" || len(msg.Dropped) != 1 {
		t.Fatalf("payload: %+v", msg)
	}
	p.Close()
	if mc.disconnects != 1 {
		t.Fatalf("expected disconnect")
	}
}

func TestPublisher_RetryLogic(t *testing.T) {
	mc := &mockClient{publishErrs: []error{fmt.Errorf("net fail"), nil}}
	withMockClient(t, mc)
	p, err := NewPublisher(Config{Broker: "tcp://localhost:1883", MaxRetries: 1, BackoffMS: 1})
	if err != nil {
		t.Fatalf("publisher: %v", err)
	}
	if err := p.RecordResolution(metrics.ResolutionEvent{Scenario: "A"}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if len(mc.published) != 2 {
		t.Fatalf("expected retries")
	}
}

type recordMonitor struct {
	err  error
	tags map[string]string
}

func (r *recordMonitor) CaptureException(err error, tags map[string]string) {
	r.err = err
	r.tags = tags
}
func (r *recordMonitor) Flush(time.Duration) {}

func TestPublisher_ErrorCaptured(t *testing.T) {
	fail := fmt.Errorf("net fail")
	mc := &mockClient{publishErrs: []error{fail, fail}}
	withMockClient(t, mc)
	mon := &recordMonitor{}
	coremon.Init(mon)
	defer coremon.Init(coremon.NopMonitor{})

	p, err := NewPublisher(Config{Broker: "tcp://localhost:1883", MaxRetries: 1, BackoffMS: 1})
	if err != nil {
		t.Fatalf("publisher: %v", err)
	}
	if err := p.RecordBatch(metrics.BatchEvent{BatchID: "x"}); err == nil {
		t.Fatalf("expected error")
	}
	if mon.err == nil {
		t.Fatalf("error not captured")
	}
	if mon.tags["module"] != "mqtt" || mon.tags["topic"] != "routekpi/batch" {
		t.Fatalf("tags not set: %v", mon.tags)
	}
}

func TestNewPublisher_ConnectError(t *testing.T) {
	mc := &mockClient{connectErr: fmt.Errorf("refused")}
	withMockClient(t, mc)
	if _, err := NewPublisher(Config{Broker: "tcp://localhost:1883"}); err == nil {
		t.Fatalf("expected connect error")
	}
}

func TestNewPublisher_RequiresBroker(t *testing.T) {
	if _, err := NewPublisher(Config{}); err == nil {
		t.Fatalf("expected validation error")
	}
}
