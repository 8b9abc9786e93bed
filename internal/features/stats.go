package features

import "math"

// computeMean calculates the arithmetic mean of values.
func computeMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// computeStd calculates the population standard deviation (n denominator).
// The model's training pipeline used the population form; the sample
// (n-1) form would shift every rolling-std feature.
func computeStd(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	mean := computeMean(values)
	sumSq := 0.0
	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(n))
}
