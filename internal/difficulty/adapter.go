// Package difficulty turns a learner's modeled competence and recent run of
// answers into a single target difficulty for the next question.
package difficulty

import (
	"fmt"
	"math"
	"time"

	"github.com/abhisek/nable/internal/mastery"
)

// Config tunes the streak and error nudges applied to the mastery target.
type Config struct {
	// StreakThreshold is the streak length above which the target rises.
	StreakThreshold int `yaml:"streak_threshold"`
	// StreakStep is the upward nudge per streak point above the threshold.
	StreakStep float64 `yaml:"streak_step"`
	// StreakCap bounds the total upward nudge.
	StreakCap float64 `yaml:"streak_cap"`

	// ErrorStep is the downward nudge per consecutive error.
	ErrorStep float64 `yaml:"error_step"`
	// ErrorCap bounds the total downward nudge.
	ErrorCap float64 `yaml:"error_cap"`
	// ErrorCeiling is the error count above which the target drops to the
	// easiest available band.
	ErrorCeiling int `yaml:"error_ceiling"`

	// Granularity is the rounding step used when the pool gives no hint.
	Granularity float64 `yaml:"granularity"`
}

// DefaultConfig returns the default adapter configuration.
func DefaultConfig() Config {
	return Config{
		StreakThreshold: 3,
		StreakStep:      0.5,
		StreakCap:       2.0,
		ErrorStep:       1.0,
		ErrorCap:        4.0,
		ErrorCeiling:    4,
		Granularity:     1.0,
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case c.StreakThreshold < 0:
		return fmt.Errorf("streak threshold must be >= 0, got %d", c.StreakThreshold)
	case c.StreakStep < 0 || c.StreakCap < 0:
		return fmt.Errorf("streak step and cap must be >= 0")
	case c.ErrorStep < 0 || c.ErrorCap < 0:
		return fmt.Errorf("error step and cap must be >= 0")
	case c.ErrorCap < c.StreakCap:
		return fmt.Errorf("error cap %v must be at least the streak cap %v", c.ErrorCap, c.StreakCap)
	case c.ErrorCeiling < 0:
		return fmt.Errorf("error ceiling must be >= 0, got %d", c.ErrorCeiling)
	case c.Granularity <= 0:
		return fmt.Errorf("granularity must be positive, got %v", c.Granularity)
	}
	return nil
}

// Input is everything the adapter reads.
type Input struct {
	// Skills holds the records of the objective's skills that have history.
	Skills []mastery.SkillRecord

	CurrentStreak     int
	ConsecutiveErrors int

	// Difficulties of the candidate pool, used for the easiest band and
	// rounding granularity. May be empty.
	Difficulties []float64

	Now time.Time
}

// Target explains how the target difficulty was reached.
type Target struct {
	Base        float64 `json:"base"`
	Streak      float64 `json:"streak"`
	Errors      float64 `json:"errors"`
	Forced      bool    `json:"forced"`
	Granularity float64 `json:"granularity"`
	Value       float64 `json:"value"`
}

// Adapter computes target difficulties.
type Adapter struct {
	cfg     Config
	mastery mastery.Config
}

// NewAdapter creates an adapter. Configurations are assumed validated.
func NewAdapter(cfg Config, masteryCfg mastery.Config) *Adapter {
	return &Adapter{cfg: cfg, mastery: masteryCfg}
}

// Target computes the target difficulty for in.
func (a *Adapter) Target(in Input) Target {
	t := Target{Base: a.base(in)}

	if streak := in.CurrentStreak - a.cfg.StreakThreshold; streak > 0 {
		t.Streak = math.Min(a.cfg.StreakStep*float64(streak), a.cfg.StreakCap)
	}
	if in.ConsecutiveErrors > 0 {
		t.Errors = -math.Min(a.cfg.ErrorStep*float64(in.ConsecutiveErrors), a.cfg.ErrorCap)
	}

	value := mastery.ClampDifficulty(t.Base + t.Streak + t.Errors)
	if in.ConsecutiveErrors > a.cfg.ErrorCeiling {
		t.Forced = true
		value = math.Min(value, easiest(in.Difficulties))
	}

	t.Granularity = InferGranularity(in.Difficulties, a.cfg.Granularity)
	t.Value = mastery.ClampDifficulty(Round(value, t.Granularity))
	return t
}

// base is the confidence-weighted mean mastery mapped onto the difficulty scale.
func (a *Adapter) base(in Input) float64 {
	if len(in.Skills) == 0 {
		return mastery.DefaultDifficulty
	}

	var sum, weights, plain float64
	for _, rec := range in.Skills {
		rec = mastery.Decay(mastery.Sanitize(rec), in.Now, a.mastery)
		sum += rec.Mastery * rec.Confidence
		weights += rec.Confidence
		plain += rec.Mastery
	}

	mean := plain / float64(len(in.Skills))
	if weights > 0 {
		mean = sum / weights
	}
	return mastery.ToDifficulty(mean)
}

func easiest(difficulties []float64) float64 {
	low := mastery.MaxDifficulty
	found := false
	for _, d := range difficulties {
		if math.IsNaN(d) {
			continue
		}
		low = math.Min(low, mastery.ClampDifficulty(d))
		found = true
	}
	if !found {
		return mastery.MinDifficulty
	}
	return low
}
