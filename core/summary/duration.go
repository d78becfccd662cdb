package summary

import (
	"fmt"
	"math"
)

// FormatTripDuration renders decimal hours as "<h>h <m>m" where h is the
// floor of hours and m the rounded remainder in minutes. NaN and infinite
// inputs render as "0h 0m".
func FormatTripDuration(hours float64) string {
	if math.IsNaN(hours) || math.IsInf(hours, 0) {
		return "0h 0m"
	}
	h := math.Floor(hours)
	m := math.Round((hours - h) * 60)
	return fmt.Sprintf("%dh %dm", int(h), int(m))
}
