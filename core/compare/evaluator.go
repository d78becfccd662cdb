// Package compare computes cross-scenario extrema for a batch of
// DetailedMetrics and assigns "best" badges.
package compare

import (
	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/routekpi/core/model"
)

// Badge names one metric a scenario is best at.
type Badge string

const (
	BadgeLowestDistance Badge = "lowest_avg_distance"
	BadgeFewestDrops    Badge = "fewest_drops"
	BadgeFewestTrips    Badge = "fewest_trips"
	BadgeMostStops      Badge = "most_stops_per_trip"
)

// Evaluate returns the extrema over metrics. It reports false when fewer
// than two scenarios are given.
func Evaluate(metrics []model.DetailedMetrics) (model.ComparisonExtrema, bool) {
	if len(metrics) < 2 {
		return model.ComparisonExtrema{}, false
	}
	dist := make([]float64, len(metrics))
	drops := make([]float64, len(metrics))
	trips := make([]float64, len(metrics))
	stops := make([]float64, len(metrics))
	for i, m := range metrics {
		dist[i] = m.AvgDistanceKm
		drops[i] = float64(m.TotalDropped)
		trips[i] = float64(m.TotalTrips)
		stops[i] = m.AvgStopsPerTrip
	}
	return model.ComparisonExtrema{
		MinAvgDistanceKm:   floats.Min(dist),
		MinTotalDropped:    int(floats.Min(drops)),
		MinTotalTrips:      int(floats.Min(trips)),
		MaxAvgStopsPerTrip: floats.Max(stops),
	}, true
}

// Badges returns, for each entry of metrics, the metrics on which it
// matches the extrema exactly. The result is indexed like metrics, since
// scenario ids need not be unique. Raw values are compared, never the
// display strings.
func Badges(metrics []model.DetailedMetrics, ext model.ComparisonExtrema) [][]Badge {
	out := make([][]Badge, len(metrics))
	for i, m := range metrics {
		if m.AvgDistanceKm == ext.MinAvgDistanceKm {
			out[i] = append(out[i], BadgeLowestDistance)
		}
		if m.TotalDropped == ext.MinTotalDropped {
			out[i] = append(out[i], BadgeFewestDrops)
		}
		if m.TotalTrips == ext.MinTotalTrips {
			out[i] = append(out[i], BadgeFewestTrips)
		}
		if m.AvgStopsPerTrip == ext.MaxAvgStopsPerTrip {
			out[i] = append(out[i], BadgeMostStops)
		}
	}
	return out
}
