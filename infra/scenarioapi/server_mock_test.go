package scenarioapi

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/routekpi/config"
	"github.com/kilianp07/routekpi/core/summary"
)

func newMock(t *testing.T, cfg config.UpstreamMockConfig) (*ServerMock, *httptest.Server) {
	t.Helper()
	m := NewServerMockWithRegistry(cfg, prometheus.NewRegistry())
	ts := httptest.NewServer(m.Handler())
	t.Cleanup(ts.Close)
	return m, ts
}

func TestServerMock_ServesSummary(t *testing.T) {
	m, ts := newMock(t, config.UpstreamMockConfig{})

	p, err := newTestClient(ts.URL+"/summary").Fetch(context.Background(), "north")
	require.NoError(t, err)
	assert.Equal(t, "north", p.RequestID)
	assert.False(t, p.Declined())

	dm, ok := summary.Normalize(p)
	require.True(t, ok)
	assert.Equal(t, "north", dm.ID)
	assert.Greater(t, dm.TotalTrips, 0)
	assert.LessOrEqual(t, dm.DropSplit, 100.0)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("ok")))
}

func TestServerMock_FailingAndDeclined(t *testing.T) {
	m, ts := newMock(t, config.UpstreamMockConfig{FailNames: []string{"down"}, DeclineNames: []string{"nope"}})
	c := newTestClient(ts.URL + "/summary")

	_, err := c.Fetch(context.Background(), "down")
	assert.Error(t, err)

	p, err := c.Fetch(context.Background(), "nope")
	require.NoError(t, err)
	assert.True(t, p.Declined())
	assert.Nil(t, p.Summary)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("unavailable")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("declined")))
}

func TestServerMock_ArrayResponses(t *testing.T) {
	_, ts := newMock(t, config.UpstreamMockConfig{ArrayResponses: true})
	p, err := newTestClient(ts.URL+"/summary").Fetch(context.Background(), "arr")
	require.NoError(t, err)
	assert.Equal(t, "arr", p.RequestID)
}

func TestServerMock_BadRequests(t *testing.T) {
	_, ts := newMock(t, config.UpstreamMockConfig{})

	resp, err := http.Get(ts.URL + "/summary")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, err = http.Post(ts.URL+"/summary", "application/json", bytes.NewReader([]byte(`{}`)))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/ping")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSynthesize_Deterministic(t *testing.T) {
	a1 := Synthesize("alpha")
	a2 := Synthesize("alpha")
	assert.Equal(t, a1, a2)

	dm, ok := summary.Normalize(a1)
	require.True(t, ok)
	assert.Equal(t, dm.PlannedStops, dm.ServedStops+dm.TotalDropped)
	total := 0
	for _, r := range dm.DropReasons {
		total += r.Count
	}
	assert.Equal(t, dm.TotalDropped, total)
}
