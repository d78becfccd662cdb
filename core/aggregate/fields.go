package aggregate

import (
	"strconv"
	"strings"
)

var stopKinds = []string{"delivery", "pickup", "visit"}

// IsStop reports whether a record type counts as a visit. Matching is a
// case-insensitive substring test, so "Delivery_Start" counts.
func IsStop(kind string) bool {
	kind = strings.ToLower(kind)
	for _, k := range stopKinds {
		if strings.Contains(kind, k) {
			return true
		}
	}
	return false
}

// ParseDistance keeps digits, dots and minus signs, then reads the longest
// numeric prefix. Anything unreadable is 0.
func ParseDistance(raw string) float64 {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, raw)
	v, err := strconv.ParseFloat(numericPrefix(cleaned), 64)
	if err != nil {
		return 0
	}
	return v
}

// numericPrefix returns the leading "-?digits[.digits]" part of s.
func numericPrefix(s string) string {
	i := 0
	if i < len(s) && s[i] == '-' {
		i++
	}
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
	}
	return s[:i]
}
