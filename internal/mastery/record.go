package mastery

import "time"

const (
	// PriorMastery is the neutral mastery assumed for a skill never seen before.
	PriorMastery = 0.5

	// PriorConfidence is the confidence attached to PriorMastery.
	PriorConfidence = 0.1
)

// Outcome is the direction of the most recent answer on a skill.
type Outcome string

const (
	OutcomeNone      Outcome = ""
	OutcomeCorrect   Outcome = "correct"
	OutcomeIncorrect Outcome = "incorrect"
)

// OutcomeOf converts an answer result to an Outcome.
func OutcomeOf(correct bool) Outcome {
	if correct {
		return OutcomeCorrect
	}
	return OutcomeIncorrect
}

// SkillRecord holds the modeled competence for a single skill.
type SkillRecord struct {
	Mastery      float64    `json:"mastery"`
	Confidence   float64    `json:"confidence"`
	StreakCount  int        `json:"streakCount"`
	LastTestedAt *time.Time `json:"lastTestedAt"`
	LastOutcome  Outcome    `json:"lastOutcome,omitempty"`
}

// NewSkillRecord returns a record carrying the neutral prior.
func NewSkillRecord() SkillRecord {
	return SkillRecord{
		Mastery:    PriorMastery,
		Confidence: PriorConfidence,
	}
}

// Sanitize repairs out-of-range values. It never fails.
func Sanitize(rec SkillRecord) SkillRecord {
	rec.Mastery = Clamp(rec.Mastery, 0, 1)
	rec.Confidence = Clamp(rec.Confidence, 0, 1)
	if rec.StreakCount < 0 {
		rec.StreakCount = 0
	}
	switch rec.LastOutcome {
	case OutcomeNone, OutcomeCorrect, OutcomeIncorrect:
	default:
		rec.LastOutcome = OutcomeNone
	}
	if rec.LastTestedAt != nil {
		if rec.LastTestedAt.IsZero() {
			rec.LastTestedAt = nil
		} else {
			t := *rec.LastTestedAt
			rec.LastTestedAt = &t
		}
	}
	return rec
}

// Clone returns a copy that shares no pointers with rec.
func (rec SkillRecord) Clone() SkillRecord {
	if rec.LastTestedAt != nil {
		t := *rec.LastTestedAt
		rec.LastTestedAt = &t
	}
	return rec
}

// Tested reports whether the skill has ever been answered.
func (rec SkillRecord) Tested() bool {
	return rec.LastTestedAt != nil
}
