package scenarioapi

import (
	"hash/fnv"
	"math"

	"github.com/kilianp07/routekpi/core/model"
)

// Synthesize builds a deterministic summary payload for name. Equal names
// always produce equal payloads; different names usually differ.
func Synthesize(name string) model.SummaryPayload {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	seed := h.Sum64()
	pick := func(shift uint, lo, span uint64) uint64 {
		return lo + (seed>>shift)%span
	}

	trips := pick(0, 5, 16)
	avgDist := float64(pick(8, 200, 400)) / 10
	avgHours := float64(pick(16, 100, 250)) / 100
	planned := pick(24, 80, 80)
	dropped := pick(32, 0, 16)
	served := planned - dropped
	timeWindow := dropped / 2
	capacity := dropped - timeWindow
	ok := true

	return model.SummaryPayload{
		Success:   &ok,
		RequestID: name,
		HubCode:   "HUB-MOCK",
		Summary: model.Summary{
			"total_trips":                float64(trips),
			"total_distance_km":          round2(avgDist * float64(trips)),
			"avg_trip_distance_km":       avgDist,
			"total_trip_hours":           round2(avgHours * float64(trips)),
			"avg_trip_hours":             avgHours,
			"total_consignments_planned": float64(planned),
			"total_consignments_served":  float64(served),
			"total_consignments_dropped": float64(dropped),
			"avg_stops_per_trip":         round2(float64(served) / float64(trips)),
		},
		DropBreakup: []model.DropBreakdown{
			breakdown("TIME_WINDOW", "Time window infeasible", timeWindow, dropped, planned),
			breakdown("CAPACITY", "Vehicle capacity exceeded", capacity, dropped, planned),
		},
	}
}

func breakdown(code, label string, n, dropped, planned uint64) model.DropBreakdown {
	b := model.DropBreakdown{ReasonCode: code, ReasonLabel: label, DroppedCount: float64(n)}
	if dropped > 0 {
		b.PctOfDropped = round2(float64(n) / float64(dropped) * 100)
	}
	if planned > 0 {
		b.PctOfPlanned = round2(float64(n) / float64(planned) * 100)
	}
	return b
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
