package mastery

import (
	"fmt"
	"time"
)

// Config tunes the per-skill update rule and staleness decay.
type Config struct {
	// BaseRate is the learning rate before stability and information weighting.
	BaseRate float64 `yaml:"base_rate"`

	// ConfidenceGrowth is the fraction of the remaining gap to 1 closed on
	// each same-direction outcome.
	ConfidenceGrowth float64 `yaml:"confidence_growth"`

	// ConfidenceReversal multiplies confidence when an outcome reverses the
	// previous one for the same skill.
	ConfidenceReversal float64 `yaml:"confidence_reversal"`

	// ConfidenceFloor is the lowest value decay or reversal can push confidence to.
	ConfidenceFloor float64 `yaml:"confidence_floor"`

	// StalenessWindow is how long a skill can go untested before its
	// confidence starts to decay.
	StalenessWindow time.Duration `yaml:"staleness_window"`

	// InfoWeightMin and InfoWeightMax bound DifficultyWeight.
	InfoWeightMin float64 `yaml:"info_weight_min"`
	InfoWeightMax float64 `yaml:"info_weight_max"`

	// InfoSpread is the width, in difficulty points, of the band around the
	// learner's level where questions carry the most information.
	InfoSpread float64 `yaml:"info_spread"`
}

// DefaultConfig returns the default knowledge-model configuration.
func DefaultConfig() Config {
	return Config{
		BaseRate:           0.2,
		ConfidenceGrowth:   0.25,
		ConfidenceReversal: 0.5,
		ConfidenceFloor:    0.1,
		StalenessWindow:    7 * 24 * time.Hour,
		InfoWeightMin:      0.5,
		InfoWeightMax:      1.5,
		InfoSpread:         2.0,
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case c.BaseRate <= 0 || c.BaseRate > 1:
		return fmt.Errorf("base rate %v out of range (0, 1]", c.BaseRate)
	case !inUnit(c.ConfidenceGrowth):
		return fmt.Errorf("confidence growth %v out of range [0, 1]", c.ConfidenceGrowth)
	case !inUnit(c.ConfidenceReversal):
		return fmt.Errorf("confidence reversal %v out of range [0, 1]", c.ConfidenceReversal)
	case !inUnit(c.ConfidenceFloor):
		return fmt.Errorf("confidence floor %v out of range [0, 1]", c.ConfidenceFloor)
	case c.StalenessWindow <= 0:
		return fmt.Errorf("staleness window must be positive, got %s", c.StalenessWindow)
	case c.InfoWeightMin < 0 || c.InfoWeightMin > c.InfoWeightMax:
		return fmt.Errorf("info weight bounds [%v, %v] are invalid", c.InfoWeightMin, c.InfoWeightMax)
	case c.InfoSpread <= 0:
		return fmt.Errorf("info spread must be positive, got %v", c.InfoSpread)
	}
	return nil
}

func inUnit(v float64) bool {
	return v >= 0 && v <= 1
}
