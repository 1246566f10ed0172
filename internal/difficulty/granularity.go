package difficulty

import "math"

// candidateSteps are tried coarsest first.
var candidateSteps = []float64{1, 0.5, 0.25, 0.1}

// InferGranularity returns the coarsest step that divides every difficulty in
// the pool. An empty pool, or one no step fits, yields fallback.
func InferGranularity(difficulties []float64, fallback float64) float64 {
	if len(difficulties) == 0 {
		return fallback
	}
	for _, step := range candidateSteps {
		if fitsAll(difficulties, step) {
			return step
		}
	}
	return fallback
}

func fitsAll(difficulties []float64, step float64) bool {
	for _, d := range difficulties {
		if math.IsNaN(d) || math.IsInf(d, 0) {
			continue
		}
		n := d / step
		if math.Abs(n-math.Round(n)) > 1e-9 {
			return false
		}
	}
	return true
}

// Round rounds v to the nearest multiple of step, halves away from zero.
func Round(v, step float64) float64 {
	if step <= 0 {
		return v
	}
	return math.Round(v/step) * step
}
