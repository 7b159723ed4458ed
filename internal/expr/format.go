package expr

import (
	"math"
	"strconv"
)

// FormatNumber renders a computed value the way it is substituted into the
// document: integral values lose their fractional part entirely, everything
// else uses the shortest decimal form that round-trips.
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	if _, frac := math.Modf(v); frac == 0 {
		if v == 0 {
			// Drops the sign of negative zero.
			return "0"
		}
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParseNumber parses a plain decimal literal such as `10`, `-0.5` or `+3.`.
// Exponents, hex and special values are rejected.
func ParseNumber(s string) (float64, bool) {
	i := 0
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		i++
	}
	digits, dots := 0, 0
	for ; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9':
			digits++
		case c == '.':
			dots++
		default:
			return 0, false
		}
	}
	if digits == 0 || dots > 1 {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
