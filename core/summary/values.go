package summary

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/kilianp07/routekpi/core/model"
)

// number returns the first numeric value found under keys. Numeric strings
// are accepted; NaN and infinities are not.
func number(s model.Summary, keys ...string) (float64, bool) {
	for _, k := range keys {
		raw, ok := s[k]
		if !ok || raw == nil {
			continue
		}
		var v float64
		switch t := raw.(type) {
		case float64:
			v = t
		case int:
			v = float64(t)
		case int64:
			v = float64(t)
		case json.Number:
			f, err := t.Float64()
			if err != nil {
				continue
			}
			v = f
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
			if err != nil {
				continue
			}
			v = f
		default:
			continue
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		return v, true
	}
	return 0, false
}

func intOr(s model.Summary, def int, keys ...string) int {
	if v, ok := number(s, keys...); ok {
		return int(v)
	}
	return def
}
