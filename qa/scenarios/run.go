package scenarios

import (
	"context"
	"errors"
	"net/http/httptest"
	"slices"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/routekpi/config"
	"github.com/kilianp07/routekpi/core/aggregate"
	"github.com/kilianp07/routekpi/core/resilience"
	"github.com/kilianp07/routekpi/core/tabular"
	"github.com/kilianp07/routekpi/infra/fallback"
	"github.com/kilianp07/routekpi/infra/logger"
	"github.com/kilianp07/routekpi/infra/metrics"
	"github.com/kilianp07/routekpi/infra/scenarioapi"
)

// Run checks every expectation carried by sc.
func Run(t *testing.T, sc *Scenario) {
	t.Helper()
	if sc.Tabular != "" {
		runTabular(t, sc)
	}
	if len(sc.Compare.Names) > 0 {
		runCompare(t, sc)
	}
}

func runTabular(t *testing.T, sc *Scenario) {
	out := aggregate.Aggregate(tabular.Parse(sc.Tabular).Records, sc.Current)
	if len(out) != len(sc.Expected.Scenarios) {
		t.Fatalf("scenario %s expected %d aggregates, got %d", sc.Name, len(sc.Expected.Scenarios), len(out))
	}
	for i, want := range sc.Expected.Scenarios {
		got := out[i]
		if got.ID != want.ID {
			t.Errorf("aggregate %d: expected id %s, got %s", i, want.ID, got.ID)
		}
		if want.Hub != "" && got.HubCode != want.Hub {
			t.Errorf("%s: expected hub %s, got %s", want.ID, want.Hub, got.HubCode)
		}
		if got.TotalVehicles != want.Vehicles {
			t.Errorf("%s: expected %d vehicles, got %d", want.ID, want.Vehicles, got.TotalVehicles)
		}
		if got.AvgDistanceDisplay != want.AvgDistanceDisplay {
			t.Errorf("%s: expected avg distance %s, got %s", want.ID, want.AvgDistanceDisplay, got.AvgDistanceDisplay)
		}
		if got.AvgStopsDisplay != want.AvgStopsDisplay {
			t.Errorf("%s: expected avg stops %s, got %s", want.ID, want.AvgStopsDisplay, got.AvgStopsDisplay)
		}
		if got.IsCurrent != want.Current {
			t.Errorf("%s: expected current=%v", want.ID, want.Current)
		}
	}
}

func runCompare(t *testing.T, sc *Scenario) {
	reg := prometheus.NewRegistry()
	mock := scenarioapi.NewServerMockWithRegistry(config.UpstreamMockConfig{
		FailNames:      sc.Compare.FailNames,
		DeclineNames:   sc.Compare.DeclineNames,
		ArrayResponses: sc.Compare.ArrayBodies,
	}, reg)
	srv := httptest.NewServer(mock.Handler())
	defer srv.Close()

	sink, err := metrics.NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("prom sink: %v", err)
	}
	fb, err := fallback.NewStaticProvider()
	if err != nil {
		t.Fatalf("fallback: %v", err)
	}
	client := scenarioapi.NewClient(config.UpstreamConfig{URL: srv.URL + "/summary", TimeoutSeconds: 5})
	res, err := resilience.NewResolver(client, fb, sink, logger.NopLogger{}, resilience.Options{})
	if err != nil {
		t.Fatalf("resolver: %v", err)
	}

	exp := sc.Expected.Compare
	batch, err := res.ResolveBatch(context.Background(), sc.Compare.Names)
	if exp.Unresolvable {
		if !errors.Is(err, resilience.ErrUnresolvable) {
			t.Fatalf("scenario %s expected ErrUnresolvable, got %v", sc.Name, err)
		}
		return
	}
	if err != nil {
		t.Fatalf("scenario %s: %v", sc.Name, err)
	}

	var resolved, mocked, dropped []string
	for _, r := range batch.Results {
		switch {
		case !r.OK:
			dropped = append(dropped, r.Name)
		case r.Metrics.IsMock:
			resolved = append(resolved, r.Name)
			mocked = append(mocked, r.Name)
		default:
			resolved = append(resolved, r.Name)
		}
	}
	checkNames(t, "resolved", exp.Resolved, resolved)
	checkNames(t, "mocked", exp.Mocked, mocked)
	checkNames(t, "dropped", exp.Dropped, dropped)
	if (batch.Extrema != nil) != exp.Extrema {
		t.Errorf("scenario %s expected extrema=%v", sc.Name, exp.Extrema)
	}
	if got := counterValue(t, reg, "scenario_fallbacks_total"); got != float64(len(exp.Mocked)) {
		t.Errorf("scenario %s expected %d fallbacks recorded, got %v", sc.Name, len(exp.Mocked), got)
	}
}

func checkNames(t *testing.T, what string, want, got []string) {
	t.Helper()
	if len(want) == 0 && len(got) == 0 {
		return
	}
	if !slices.Equal(want, got) {
		t.Errorf("expected %s %v, got %v", what, want, got)
	}
}

func counterValue(t *testing.T, g prometheus.Gatherer, name string) float64 {
	t.Helper()
	families, err := g.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	var total float64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			total += m.GetCounter().GetValue()
		}
	}
	return total
}
