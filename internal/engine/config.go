package engine

import (
	"errors"
	"fmt"

	"github.com/abhisek/nable/internal/difficulty"
	"github.com/abhisek/nable/internal/mastery"
	"github.com/abhisek/nable/internal/scoring"
	"github.com/abhisek/nable/internal/session"
)

// ErrInvalidConfig wraps every configuration error reported by New.
var ErrInvalidConfig = errors.New("invalid engine configuration")

// DefaultRecentTopicLimit bounds LearnerState.RecentTopicIDs.
const DefaultRecentTopicLimit = 5

// StabilityConfig tunes the personal stability factor, which scales every
// mastery update for a learner.
type StabilityConfig struct {
	// Decay multiplies the factor when an answer reverses the learner's run.
	Decay float64 `yaml:"decay"`
	// Recovery is the fraction of the gap to 1 closed on any other answer.
	Recovery float64 `yaml:"recovery"`
	Min      float64 `yaml:"min"`
	Max      float64 `yaml:"max"`
}

// DefaultStabilityConfig returns the default stability tuning.
func DefaultStabilityConfig() StabilityConfig {
	return StabilityConfig{
		Decay:    0.9,
		Recovery: 0.1,
		Min:      0.25,
		Max:      2.0,
	}
}

func (c StabilityConfig) validate() error {
	switch {
	case c.Decay <= 0 || c.Decay > 1:
		return fmt.Errorf("decay %v out of range (0, 1]", c.Decay)
	case c.Recovery < 0 || c.Recovery > 1:
		return fmt.Errorf("recovery %v out of range [0, 1]", c.Recovery)
	case c.Min <= 0 || c.Max < c.Min:
		return fmt.Errorf("bounds [%v, %v] invalid", c.Min, c.Max)
	case 1 < c.Min || 1 > c.Max:
		return fmt.Errorf("bounds [%v, %v] must contain 1", c.Min, c.Max)
	}
	return nil
}

// Config aggregates the tuning of every engine component.
type Config struct {
	Mastery          mastery.Config    `yaml:"mastery"`
	Difficulty       difficulty.Config `yaml:"difficulty"`
	Scoring          scoring.Config    `yaml:"scoring"`
	Session          session.Config    `yaml:"session"`
	Stability        StabilityConfig   `yaml:"stability"`
	RecentTopicLimit int               `yaml:"recent_topic_limit"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		Mastery:          mastery.DefaultConfig(),
		Difficulty:       difficulty.DefaultConfig(),
		Scoring:          scoring.DefaultConfig(),
		Session:          session.DefaultConfig(),
		Stability:        DefaultStabilityConfig(),
		RecentTopicLimit: DefaultRecentTopicLimit,
	}
}

// Validate returns an error wrapping ErrInvalidConfig for the first invalid
// section.
func (c Config) Validate() error {
	sections := []struct {
		name     string
		validate func() error
	}{
		{"mastery", c.Mastery.Validate},
		{"difficulty", c.Difficulty.Validate},
		{"scoring", c.Scoring.Validate},
		{"session", c.Session.Validate},
		{"stability", c.Stability.validate},
	}
	for _, s := range sections {
		if err := s.validate(); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, s.name, err)
		}
	}
	if c.RecentTopicLimit < 1 {
		return fmt.Errorf("%w: recent topic limit must be >= 1, got %d", ErrInvalidConfig, c.RecentTopicLimit)
	}
	return nil
}
