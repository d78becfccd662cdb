package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/routekpi/core/model"
)

func TestWriteScenarioCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteScenarioCSV(&buf, []model.ScenarioMetrics{
		{ID: "R1", HubCode: "H1", TotalVehicles: 2, TotalTrips: 2, AvgStopsDisplay: "1.0", AvgDistanceDisplay: "15.00", IsCurrent: true},
	})
	require.NoError(t, err)

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "avg_distance_km", rows[0][5])
	assert.Equal(t, []string{"R1", "H1", "2", "2", "1.0", "15.00", "true"}, rows[1])
}

func TestWriteDetailedCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteDetailedCSV(&buf, []model.DetailedMetrics{{
		ID:                 "X",
		HubCode:            "H",
		TotalTrips:         4,
		AvgDistanceDisplay: "12.50",
		ServedStops:        10,
		PlannedStops:       13,
		AvgStopsDisplay:    "2.5",
		AvgTripDuration:    "2h 7m",
		TotalDropped:       3,
		DropSplitDisplay:   "23.1",
		DropReasons:        []model.DropReason{{Label: "Capacity", Count: 2}, {Label: "Time, window", Count: 1}},
		IsMock:             true,
	}})
	require.NoError(t, err)

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Capacity:2; Time, window:1", rows[1][10])
	assert.Equal(t, "23.1", rows[1][9])
	assert.Equal(t, "true", rows[1][11])
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, map[string]int{"a": 1}))
	var out map[string]int
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, 1, out["a"])
}
