// Package export writes scenario metrics in formats suited to spreadsheets
// and downstream tooling.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/kilianp07/routekpi/core/model"
)

// WriteJSON writes v to w as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteScenarioCSV writes one row per tabular scenario.
func WriteScenarioCSV(w io.Writer, ms []model.ScenarioMetrics) error {
	cw := csv.NewWriter(w)
	header := []string{"scenario", "hub", "vehicles", "trips", "avg_stops_per_vehicle", "avg_distance_km", "current"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, m := range ms {
		rec := []string{
			m.ID,
			m.HubCode,
			strconv.Itoa(m.TotalVehicles),
			strconv.Itoa(m.TotalTrips),
			m.AvgStopsDisplay,
			m.AvgDistanceDisplay,
			strconv.FormatBool(m.IsCurrent),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteDetailedCSV writes one row per summary scenario. Drop reasons are
// flattened as "label:count" joined by "; ".
func WriteDetailedCSV(w io.Writer, ms []model.DetailedMetrics) error {
	cw := csv.NewWriter(w)
	header := []string{
		"scenario", "hub", "trips", "avg_distance_km", "served_stops", "planned_stops",
		"avg_stops_per_trip", "avg_trip_duration", "dropped", "drop_split_pct", "drop_reasons", "simulated",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, m := range ms {
		reasons := make([]string, len(m.DropReasons))
		for i, r := range m.DropReasons {
			reasons[i] = r.Label + ":" + strconv.Itoa(r.Count)
		}
		rec := []string{
			m.ID,
			m.HubCode,
			strconv.Itoa(m.TotalTrips),
			m.AvgDistanceDisplay,
			strconv.Itoa(m.ServedStops),
			strconv.Itoa(m.PlannedStops),
			m.AvgStopsDisplay,
			m.AvgTripDuration,
			strconv.Itoa(m.TotalDropped),
			m.DropSplitDisplay,
			strings.Join(reasons, "; "),
			strconv.FormatBool(m.IsMock),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
