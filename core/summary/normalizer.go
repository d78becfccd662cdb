// Package summary maps upstream per-scenario summary payloads onto
// model.DetailedMetrics.
//
// Upstream versions disagree on key names in the summary block, so every
// metric is read through an ordered list of aliases and, where possible,
// derived from totals when the average itself is missing.
package summary

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/kilianp07/routekpi/core/model"
)

var (
	tripsKeys      = []string{"total_trips", "trips", "trip_count"}
	totalDistKeys  = []string{"total_distance_km", "distance_km"}
	avgDistKeys    = []string{"avg_trip_distance_km", "avg_distance_km", "average_trip_distance_km"}
	totalHoursKeys = []string{"total_trip_hours", "trip_hours"}
	avgHoursKeys   = []string{"avg_trip_hours", "average_trip_hours"}
	plannedKeys    = []string{"total_consignments_planned", "consignments_planned", "planned"}
	servedKeys     = []string{"total_consignments_served", "consignments_served", "served"}
	droppedKeys    = []string{"total_consignments_dropped", "consignments_dropped", "dropped"}
	avgStopsKeys   = []string{"avg_stops_per_trip", "average_stops_per_trip"}
)

// Normalize builds DetailedMetrics from p. It reports false when p carries
// no summary block.
func Normalize(p model.SummaryPayload) (model.DetailedMetrics, bool) {
	if p.Summary == nil {
		return model.DetailedMetrics{}, false
	}
	s := p.Summary
	reasons := DropReasons(p.DropBreakup)

	trips := intOr(s, 0, tripsKeys...)
	served := intOr(s, 0, servedKeys...)
	dropped, ok := number(s, droppedKeys...)
	if !ok {
		dropped = float64(sumCounts(reasons))
	}
	planned, ok := number(s, plannedKeys...)
	if !ok {
		planned = float64(served) + dropped
	}

	m := model.DetailedMetrics{
		ID:           orDefault(p.RequestID, model.UnknownScenario),
		HubCode:      orDefault(p.HubCode, model.UnknownScenario),
		TotalTrips:   trips,
		ServedStops:  served,
		PlannedStops: int(planned),
		TotalDropped: int(dropped),
		DropReasons:  reasons,
	}

	// Upstream averages win. Totals are divided only when trips > 0.
	m.AvgDistanceKm = perTrip(s, avgDistKeys, totalDistKeys, trips, 0)
	if v, ok := number(s, avgStopsKeys...); ok {
		m.AvgStopsPerTrip = v
	} else if trips > 0 {
		m.AvgStopsPerTrip = float64(served) / float64(trips)
	}
	avgHours := perTrip(s, avgHoursKeys, totalHoursKeys, trips, math.NaN())

	m.AvgDistanceDisplay = decimal.NewFromFloat(m.AvgDistanceKm).StringFixed(2)
	m.AvgStopsDisplay = decimal.NewFromFloat(m.AvgStopsPerTrip).StringFixed(1)
	m.AvgTripDuration = FormatTripDuration(avgHours)
	m.DropSplit = DropSplit(dropped, planned)
	m.DropSplitDisplay = decimal.NewFromFloat(m.DropSplit).StringFixed(1)
	return m, true
}

// DropSplit returns dropped as a percentage of planned, with planned floored
// to 1. The result is clamped to [0, 100].
func DropSplit(dropped, planned float64) float64 {
	pct := dropped / math.Max(planned, 1) * 100
	if math.IsNaN(pct) || pct < 0 {
		return 0
	}
	return math.Min(pct, 100)
}

// DropReasons projects the breakdown to labelled counts sorted by count,
// highest first. Equal counts keep their input order.
func DropReasons(in []model.DropBreakdown) []model.DropReason {
	out := make([]model.DropReason, 0, len(in))
	for _, b := range in {
		label := b.ReasonLabel
		if label == "" {
			label = b.ReasonCode
		}
		out = append(out, model.DropReason{Code: b.ReasonCode, Label: label, Count: int(b.DroppedCount)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// perTrip reads the first average alias, else divides the first total alias
// by trips. def is returned when neither applies.
func perTrip(s model.Summary, avgKeys, totalKeys []string, trips int, def float64) float64 {
	if v, ok := number(s, avgKeys...); ok {
		return v
	}
	if trips <= 0 {
		return def
	}
	if total, ok := number(s, totalKeys...); ok {
		return total / float64(trips)
	}
	return def
}

func sumCounts(rs []model.DropReason) int {
	n := 0
	for _, r := range rs {
		n += r.Count
	}
	return n
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
