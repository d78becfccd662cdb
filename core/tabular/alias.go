package tabular

import "github.com/kilianp07/routekpi/core/model"

// Alias key sets for the logical columns of a route plan export, primary
// spelling first.
var (
	ScenarioKeys = []string{"request_id", "Request_Id"}
	HubKeys      = []string{"hub_code", "Hub_Code"}
	VehicleKeys  = []string{"vehicle_code", "Vehicle_Code"}
	DistanceKeys = []string{"travel_distance_km", "Travel_Distance_Km"}
	TypeKeys     = []string{"type", "Type"}
)

// Lookup returns the first non-empty value of rec among keys, or def.
func Lookup(rec model.Record, def string, keys ...string) string {
	for _, k := range keys {
		if v := rec[k]; v != "" {
			return v
		}
	}
	return def
}
