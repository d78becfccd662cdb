package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kilianp07/routekpi/api/scenarios"
	"github.com/kilianp07/routekpi/config"
	coremetrics "github.com/kilianp07/routekpi/core/metrics"
	"github.com/kilianp07/routekpi/core/monitoring"
	"github.com/kilianp07/routekpi/core/resilience"
	"github.com/kilianp07/routekpi/infra/fallback"
	"github.com/kilianp07/routekpi/infra/logger"
	"github.com/kilianp07/routekpi/infra/metrics"
	infamon "github.com/kilianp07/routekpi/infra/monitoring"
	"github.com/kilianp07/routekpi/infra/mqtt"
	"github.com/kilianp07/routekpi/infra/scenarioapi"
)

// Service wires the resolver, its sinks and the HTTP API.
type Service struct {
	Resolver *resilience.Resolver
	Handler  http.Handler

	cfg     *config.Config
	sink    coremetrics.Sink
	closers []func() error
	log     logger.Logger
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	mon, err := infamon.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	monitoring.Init(mon)

	svc := &Service{cfg: cfg, log: logg}
	sink, err := svc.buildSink()
	if err != nil {
		return nil, err
	}
	svc.sink = sink

	fb, err := fallback.NewFileProvider(cfg.Upstream.FallbackFile)
	if err != nil {
		return nil, fmt.Errorf("fallback payload: %w", err)
	}
	res, err := resilience.NewResolver(
		scenarioapi.NewClient(cfg.Upstream),
		fb,
		sink,
		logger.New("resolver"),
		resilience.Options{
			FallbackDelay: cfg.Upstream.FallbackDelay(),
			MaxConcurrent: cfg.Upstream.MaxConcurrent,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("resolver: %w", err)
	}
	svc.Resolver = res
	svc.Handler = scenarios.NewRouter(res, cfg.Scenario.Current, cfg.Server.MaxBodyBytes)
	if cfg.Upstream.URL == "" {
		logg.Warnf("no upstream url configured, every scenario resolves through the fallback payload")
	}
	return svc, nil
}

// buildSink assembles the configured sinks plus the MQTT publisher when a
// broker is set at the top level.
func (s *Service) buildSink() (coremetrics.Sink, error) {
	sink, err := coremetrics.NewSink(s.cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sinks: %w", err)
	}
	s.trackCloser(sink)
	if s.cfg.MQTT.Broker == "" {
		return sink, nil
	}
	pub, err := mqtt.NewPublisher(s.cfg.MQTT)
	if err != nil {
		return nil, fmt.Errorf("mqtt publisher: %w", err)
	}
	s.trackCloser(pub)
	return coremetrics.NewMultiSink(sink, pub), nil
}

func (s *Service) trackCloser(sink coremetrics.Sink) {
	switch c := sink.(type) {
	case *coremetrics.MultiSink:
		for _, inner := range c.Sinks {
			s.trackCloser(inner)
		}
	case io.Closer:
		s.closers = append(s.closers, c.Close)
	case interface{ Close() }:
		s.closers = append(s.closers, func() error { c.Close(); return nil })
	}
}

// Run serves the API, and the metrics endpoint when a port is configured,
// until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if port := s.cfg.Metrics.PrometheusPort; port != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, ":"+port, nil); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:         s.cfg.Server.Address,
		Handler:      s.Handler,
		ReadTimeout:  time.Duration(s.cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(s.cfg.Server.WriteTimeoutSeconds) * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("api listening on %s", s.cfg.Server.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	var errs []error
	for _, c := range s.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	monitoring.Flush(2 * time.Second)
	return errors.Join(errs...)
}
