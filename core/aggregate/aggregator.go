// Package aggregate reduces route plan records into per-scenario metrics.
package aggregate

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/routekpi/core/model"
	"github.com/kilianp07/routekpi/core/tabular"
)

// Aggregate groups records by scenario and vehicle and returns one
// ScenarioMetrics per scenario in first-seen order, except that the scenario
// whose id matches current (case-insensitively) is moved to the front.
func Aggregate(records []model.Record, current string) []model.ScenarioMetrics {
	var order []string
	groups := make(map[string][]model.Record)
	for _, rec := range records {
		id := tabular.Lookup(rec, model.UnknownScenario, tabular.ScenarioKeys...)
		if _, ok := groups[id]; !ok {
			order = append(order, id)
		}
		groups[id] = append(groups[id], rec)
	}

	out := make([]model.ScenarioMetrics, 0, len(order))
	for _, id := range order {
		m := summarize(id, groups[id])
		m.IsCurrent = current != "" && strings.EqualFold(id, current)
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].IsCurrent && !out[j].IsCurrent
	})
	return out
}

func summarize(id string, recs []model.Record) model.ScenarioMetrics {
	vehicles := collectVehicles(recs)

	distances := make([]float64, len(vehicles))
	stops := make([]float64, len(vehicles))
	for i, v := range vehicles {
		distances[i] = v.DistanceKm
		stops[i] = float64(v.Stops)
	}

	m := model.ScenarioMetrics{
		ID:            id,
		HubCode:       tabular.Lookup(recs[0], model.UnknownScenario, tabular.HubKeys...),
		TotalVehicles: len(vehicles),
		TotalTrips:    len(vehicles),
	}
	if len(vehicles) == 0 {
		m.AvgStopsDisplay = "0"
		m.AvgDistanceDisplay = "0"
		return m
	}
	m.AvgStopsPerVehicle = stat.Mean(stops, nil)
	m.AvgDistancePerVehicle = stat.Mean(distances, nil)
	m.AvgStopsDisplay = decimal.NewFromFloat(m.AvgStopsPerVehicle).StringFixed(1)
	m.AvgDistanceDisplay = decimal.NewFromFloat(m.AvgDistancePerVehicle).StringFixed(2)
	return m
}

// collectVehicles folds records into per-vehicle stats in first-seen order.
// Records without a vehicle code are ignored.
func collectVehicles(recs []model.Record) []*model.VehicleStat {
	var ordered []*model.VehicleStat
	byCode := make(map[string]*model.VehicleStat)
	for _, rec := range recs {
		code := tabular.Lookup(rec, "", tabular.VehicleKeys...)
		if code == "" {
			continue
		}
		v, ok := byCode[code]
		if !ok {
			v = &model.VehicleStat{Code: code}
			byCode[code] = v
			ordered = append(ordered, v)
		}
		v.DistanceKm += ParseDistance(tabular.Lookup(rec, "", tabular.DistanceKeys...))
		if IsStop(tabular.Lookup(rec, "", tabular.TypeKeys...)) {
			v.Stops++
		}
	}
	return ordered
}
