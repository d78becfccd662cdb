package model

// UnknownScenario is used when a record carries no scenario or hub identifier.
const UnknownScenario = "Unknown"

// VehicleStat accumulates the legs of one vehicle inside one scenario. It
// only lives while its scenario is being aggregated.
type VehicleStat struct {
	Code       string  `json:"code"`
	DistanceKm float64 `json:"distance_km"`
	Stops      int     `json:"stops"`
}

// ScenarioMetrics summarises one scenario of a tabular export.
//
// The *Display fields are rounded for presentation; comparisons must use the
// raw float fields.
type ScenarioMetrics struct {
	ID            string `json:"id"`
	HubCode       string `json:"hub_code"`
	TotalVehicles int    `json:"total_vehicles"`
	// TotalTrips always equals TotalVehicles: the export carries a single trip
	// per vehicle. A vehicle running several trips is counted once.
	TotalTrips            int     `json:"total_trips"`
	AvgStopsPerVehicle    float64 `json:"avg_stops_per_vehicle"`
	AvgDistancePerVehicle float64 `json:"avg_distance_per_vehicle_km"`
	AvgStopsDisplay       string  `json:"avg_stops_display"`
	AvgDistanceDisplay    string  `json:"avg_distance_display"`
	IsCurrent             bool    `json:"is_current"`
}
