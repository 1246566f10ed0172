package mastery

import (
	"math"
	"time"
)

// IsStale reports whether the skill has gone untested longer than the
// staleness window.
func IsStale(rec SkillRecord, now time.Time, cfg Config) bool {
	if rec.LastTestedAt == nil {
		return false
	}
	return now.Sub(*rec.LastTestedAt) > cfg.StalenessWindow
}

// Decay lowers confidence toward the floor for skills left untested past the
// staleness window. Each additional window halves the distance to the floor.
// Mastery is left untouched.
func Decay(rec SkillRecord, now time.Time, cfg Config) SkillRecord {
	rec = rec.Clone()
	if !IsStale(rec, now, cfg) {
		return rec
	}
	if rec.Confidence <= cfg.ConfidenceFloor {
		return rec
	}

	overdue := now.Sub(*rec.LastTestedAt) - cfg.StalenessWindow
	halfLives := float64(overdue) / float64(cfg.StalenessWindow)
	gap := rec.Confidence - cfg.ConfidenceFloor
	rec.Confidence = Clamp(cfg.ConfidenceFloor+gap*math.Pow(0.5, halfLives), 0, 1)
	return rec
}
