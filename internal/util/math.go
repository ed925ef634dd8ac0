package util

import "math"

// NanSum adds the finite values and ignores NaN and infinities.
func NanSum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		total += v
	}
	return total
}

func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
