package mastery

import "math"

const (
	// MinDifficulty is the easiest author-assigned difficulty.
	MinDifficulty = 1.0

	// MaxDifficulty is the hardest author-assigned difficulty.
	MaxDifficulty = 10.0

	// DefaultDifficulty is the domain midpoint used when nothing is known.
	DefaultDifficulty = 5.0
)

// ToDifficulty maps a mastery value onto the question-difficulty scale.
func ToDifficulty(mastery float64) float64 {
	return Clamp(Clamp(mastery, 0, 1)*MaxDifficulty, MinDifficulty, MaxDifficulty)
}

// ClampDifficulty bounds a difficulty to the valid domain.
func ClampDifficulty(d float64) float64 {
	if math.IsNaN(d) {
		return DefaultDifficulty
	}
	return Clamp(d, MinDifficulty, MaxDifficulty)
}

// DisplayPercent converts a mastery value to the 0-100 integer shown in the UI.
func DisplayPercent(mastery float64) int {
	return int(math.Round(Clamp(mastery, 0, 1) * 100))
}

// Clamp bounds v to [lo, hi]. NaN maps to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
