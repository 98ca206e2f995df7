package analytics

import (
	"math"
	"strconv"
)

// RoundHalfUp rounds to the nearest integer, with .5 going toward +Inf.
func RoundHalfUp(x float64) int {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return int(math.Floor(x + 0.5))
}

// FormatOneDecimal renders x with one decimal place using round-half-up.
// fmt's %.1f rounds half to even on the binary value, which shows 0.25 as 0.2.
func FormatOneDecimal(x float64) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return "0.0"
	}
	tenths := math.Floor(x*10 + 0.5)
	return strconv.FormatFloat(tenths/10, 'f', 1, 64)
}

// mean returns sum/count, or 0 for an empty set.
func mean(sum float64, count int) float64 {
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
