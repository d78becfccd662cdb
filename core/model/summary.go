package model

// SummaryPayload is the per-scenario document returned by the remote
// optimisation service.
type SummaryPayload struct {
	// Success is nil when the upstream omits the flag.
	Success     *bool           `json:"success,omitempty"`
	RequestID   string          `json:"request_id"`
	HubCode     string          `json:"hub_code"`
	Summary     Summary         `json:"summary"`
	DropBreakup []DropBreakdown `json:"drop_breakup"`
}

// Declined reports whether the payload explicitly signals failure.
func (p SummaryPayload) Declined() bool {
	return p.Success != nil && !*p.Success
}

// Clone returns a deep copy of p.
func (p SummaryPayload) Clone() SummaryPayload {
	out := p
	if p.Success != nil {
		v := *p.Success
		out.Success = &v
	}
	if p.Summary != nil {
		out.Summary = make(Summary, len(p.Summary))
		for k, v := range p.Summary {
			out.Summary[k] = v
		}
	}
	if p.DropBreakup != nil {
		out.DropBreakup = append([]DropBreakdown(nil), p.DropBreakup...)
	}
	return out
}

// Summary is the aggregate block of a payload. Key names differ between
// upstream versions, so it stays a raw map until normalisation.
type Summary map[string]any

// DropBreakdown is one entry of the upstream drop breakdown.
type DropBreakdown struct {
	ReasonCode   string  `json:"reason_code"`
	ReasonLabel  string  `json:"reason_label"`
	DroppedCount float64 `json:"dropped_count"`
	PctOfDropped float64 `json:"pct_of_dropped"`
	PctOfPlanned float64 `json:"pct_of_planned"`
}

// DropReason is a labelled count of dropped stops.
type DropReason struct {
	Code  string `json:"code"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// DetailedMetrics is the canonical per-scenario view built from a summary
// payload. Raw numeric fields keep full precision for comparison.
type DetailedMetrics struct {
	ID                 string       `json:"id"`
	HubCode            string       `json:"hub_code"`
	TotalTrips         int          `json:"total_trips"`
	AvgDistanceKm      float64      `json:"avg_distance_km"`
	AvgDistanceDisplay string       `json:"avg_distance_display"`
	ServedStops        int          `json:"served_stops"`
	PlannedStops       int          `json:"planned_stops"`
	AvgStopsPerTrip    float64      `json:"avg_stops_per_trip"`
	AvgStopsDisplay    string       `json:"avg_stops_display"`
	AvgTripDuration    string       `json:"avg_trip_duration"`
	TotalDropped       int          `json:"total_dropped"`
	DropSplit          float64      `json:"drop_split_pct"`
	DropSplitDisplay   string       `json:"drop_split_display"`
	DropReasons        []DropReason `json:"drop_reasons"`
	IsMock             bool         `json:"is_mock"`
}

// ComparisonExtrema holds the best value of each compared metric across a
// batch of DetailedMetrics.
type ComparisonExtrema struct {
	MinAvgDistanceKm   float64 `json:"min_avg_distance_km"`
	MinTotalDropped    int     `json:"min_total_dropped"`
	MinTotalTrips      int     `json:"min_total_trips"`
	MaxAvgStopsPerTrip float64 `json:"max_avg_stops_per_trip"`
}
