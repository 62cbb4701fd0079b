package weather

import (
	"math"
	"strconv"
	"strings"
)

// missingValue is rendered in place of a value absent upstream
const missingValue = "-"

// formatFloat renders the shortest representation of v that round-trips,
// always with a fraction or an exponent, so 10 renders as "10.0"
// and 0.00001 as "1e-05".
func formatFloat(v float64) string {
	if abs := math.Abs(v); abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

func formatOptional(v *float64) string {
	if v == nil {
		return missingValue
	}
	return formatFloat(*v)
}

func stringOr(v *string, def string) string {
	if v == nil || *v == "" {
		return def
	}
	return *v
}
