package mastery

import (
	"math"
	"time"
)

// DifficultyWeight scales the learning rate by how informative a question of
// the given difficulty is for a learner at the given mastery. Questions near
// the learner's level weigh close to InfoWeightMax; questions far too easy or
// far too hard fall toward InfoWeightMin.
func DifficultyWeight(questionDifficulty, mastery float64, cfg Config) float64 {
	d := ClampDifficulty(questionDifficulty) - ToDifficulty(mastery)
	closeness := math.Exp(-(d * d) / (2 * cfg.InfoSpread * cfg.InfoSpread))
	return cfg.InfoWeightMin + (cfg.InfoWeightMax-cfg.InfoWeightMin)*closeness
}

// UpdateSkill applies one observed answer to a skill record and returns the
// new record. The input is first repaired and decayed to now; the result
// always has mastery and confidence in [0, 1].
func UpdateSkill(rec SkillRecord, correct bool, questionDifficulty, stability float64, now time.Time, cfg Config) SkillRecord {
	rec = Decay(Sanitize(rec), now, cfg)

	target := 0.0
	if correct {
		target = 1.0
	}
	if math.IsNaN(stability) || stability < 0 {
		stability = 0
	}

	rate := Clamp(cfg.BaseRate*stability*DifficultyWeight(questionDifficulty, rec.Mastery, cfg), 0, 1)
	rec.Mastery = Clamp(rec.Mastery+rate*(target-rec.Mastery), 0, 1)

	outcome := OutcomeOf(correct)
	if rec.LastOutcome == OutcomeNone || rec.LastOutcome == outcome {
		rec.Confidence += (1 - rec.Confidence) * cfg.ConfidenceGrowth
	} else {
		rec.Confidence = math.Max(cfg.ConfidenceFloor, rec.Confidence*cfg.ConfidenceReversal)
	}
	rec.Confidence = Clamp(rec.Confidence, 0, 1)

	if correct {
		rec.StreakCount++
	} else {
		rec.StreakCount = 0
	}

	tested := now
	rec.LastTestedAt = &tested
	rec.LastOutcome = outcome
	return rec
}
