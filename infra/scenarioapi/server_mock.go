package scenarioapi

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/routekpi/config"
	"github.com/kilianp07/routekpi/infra/logger"
)

// ServerMock serves synthetic summaries on POST /summary.
type ServerMock struct {
	mu       sync.RWMutex
	addr     string
	fail     map[string]bool
	decline  map[string]bool
	asArray  bool
	latency  time.Duration
	log      logger.Logger
	srv      *http.Server
	requests *prometheus.CounterVec
}

// NewServerMock creates a new mock server using the default Prometheus
// registerer.
func NewServerMock(cfg config.UpstreamMockConfig) *ServerMock {
	return NewServerMockWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewServerMockWithRegistry creates a new mock server and registers metrics on
// the provided registerer. If reg is nil the default registerer is used.
func NewServerMockWithRegistry(cfg config.UpstreamMockConfig, reg prometheus.Registerer) *ServerMock {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	log := logger.New("scenario-server-mock")

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scenario_upstream_requests_total",
		Help: "Summary requests served by the mock upstream",
	}, []string{"outcome"})
	if err := reg.Register(requests); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if exist, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				requests = exist
			} else {
				log.Errorf("existing collector for scenario_upstream_requests_total has wrong type %T", are.ExistingCollector)
			}
		}
	}

	return &ServerMock{
		addr:     cfg.Address,
		fail:     toSet(cfg.FailNames),
		decline:  toSet(cfg.DeclineNames),
		asArray:  cfg.ArrayResponses,
		latency:  time.Duration(cfg.LatencyMS) * time.Millisecond,
		log:      log,
		requests: requests,
	}
}

func toSet(names []string) map[string]bool {
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[strings.TrimSpace(n)] = true
	}
	return out
}

// Handler returns the mock's routes.
func (s *ServerMock) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("pong")); err != nil {
			s.log.Errorf("write pong: %v", err)
		}
	})
	mux.HandleFunc("/summary", s.handleSummary)
	return mux
}

func (s *ServerMock) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req summaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RequestID == "" {
		s.requests.WithLabelValues("bad_request").Inc()
		http.Error(w, "request_id is required", http.StatusBadRequest)
		return
	}
	if s.latency > 0 {
		select {
		case <-r.Context().Done():
			return
		case <-time.After(s.latency):
		}
	}
	if s.fail[req.RequestID] {
		s.requests.WithLabelValues("unavailable").Inc()
		http.Error(w, "scenario temporarily unavailable", http.StatusServiceUnavailable)
		return
	}

	p := Synthesize(req.RequestID)
	outcome := "ok"
	if s.decline[req.RequestID] {
		declined := false
		p.Success = &declined
		p.Summary = nil
		p.DropBreakup = nil
		outcome = "declined"
	}
	s.requests.WithLabelValues(outcome).Inc()
	s.log.Infof("serving %s summary for %s", outcome, req.RequestID)

	var body any = p
	if s.asArray {
		body = []any{p}
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Errorf("encode summary: %v", err)
	}
}

// Addr returns the listening address once Start has been called.
func (s *ServerMock) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.addr
}

// Start runs the HTTP server until the context is canceled.
func (s *ServerMock) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return err
	}
	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	s.mu.Lock()
	s.addr = ln.Addr().String()
	s.srv = srv
	s.mu.Unlock()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("shutdown server: %v", err)
		}
		cancel()
	}()
	s.log.Infof("scenario mock server listening on %s", ln.Addr())
	err = srv.Serve(ln)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
