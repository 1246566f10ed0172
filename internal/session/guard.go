// Package session guards a learning session: hearts, streaks and the
// Active/Locked lifecycle.
package session

import (
	"errors"
	"fmt"
)

// ErrSessionLocked is returned when an answer arrives after the learner ran
// out of hearts.
var ErrSessionLocked = errors.New("session locked: no hearts left")

// DefaultMaxHearts is the heart budget of a fresh session.
const DefaultMaxHearts = 5

// Status is the session lifecycle state.
type Status string

const (
	StatusActive Status = "active"
	StatusLocked Status = "locked"
)

// Config tunes the guard.
type Config struct {
	MaxHearts int `yaml:"max_hearts"`
}

// DefaultConfig returns the default guard configuration.
func DefaultConfig() Config {
	return Config{MaxHearts: DefaultMaxHearts}
}

// Validate reports an invalid heart budget.
func (c Config) Validate() error {
	if c.MaxHearts < 1 {
		return fmt.Errorf("max hearts must be >= 1, got %d", c.MaxHearts)
	}
	return nil
}

// Counters is the session slice of a learner's state.
type Counters struct {
	Hearts            int
	CurrentStreak     int
	ConsecutiveErrors int
}

// Transition describes what a single answer did to the session.
type Transition struct {
	From      Status   `json:"from"`
	To        Status   `json:"to"`
	Before    Counters `json:"-"`
	After     Counters `json:"-"`
	Milestone int      `json:"milestone,omitempty"`
}

// Locked reports whether this transition ended the session.
func (t Transition) Locked() bool {
	return t.From == StatusActive && t.To == StatusLocked
}

// Guard applies answers to session counters.
type Guard struct {
	cfg Config
}

// NewGuard creates a guard. The configuration is assumed validated.
func NewGuard(cfg Config) *Guard {
	return &Guard{cfg: cfg}
}

// MaxHearts returns the configured heart budget.
func (g *Guard) MaxHearts() int {
	return g.cfg.MaxHearts
}

// Fresh returns the counters of a new session.
func (g *Guard) Fresh(streak int) Counters {
	return Counters{Hearts: g.cfg.MaxHearts, CurrentStreak: max(streak, 0)}
}

// StatusOf derives the session status from the heart count.
func StatusOf(c Counters) Status {
	if c.Hearts <= 0 {
		return StatusLocked
	}
	return StatusActive
}

// Normalize clamps counters into their valid ranges.
func (g *Guard) Normalize(c Counters) Counters {
	return Counters{
		Hearts:            min(max(c.Hearts, 0), g.cfg.MaxHearts),
		CurrentStreak:     max(c.CurrentStreak, 0),
		ConsecutiveErrors: max(c.ConsecutiveErrors, 0),
	}
}

// Apply records one answer. Answers on a locked session are rejected.
func (g *Guard) Apply(c Counters, correct bool) (Counters, Transition, error) {
	before := g.Normalize(c)
	from := StatusOf(before)
	if from == StatusLocked {
		return before, Transition{From: from, To: from, Before: before, After: before}, ErrSessionLocked
	}

	after := before
	if correct {
		after.CurrentStreak++
		after.ConsecutiveErrors = 0
	} else {
		after.Hearts = max(after.Hearts-1, 0)
		after.CurrentStreak = 0
		after.ConsecutiveErrors++
	}

	t := Transition{
		From:   from,
		To:     StatusOf(after),
		Before: before,
		After:  after,
	}
	if correct && IsStreakMilestone(after.CurrentStreak) {
		t.Milestone = after.CurrentStreak
	}
	return after, t, nil
}
