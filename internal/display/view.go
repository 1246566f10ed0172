// Package display projects learner state into what a UI shows: hearts,
// streak, session status and per-skill mastery as whole percentages.
package display

import (
	"sort"
	"time"

	"github.com/abhisek/nable/internal/engine"
	"github.com/abhisek/nable/internal/mastery"
	"github.com/abhisek/nable/internal/session"
)

// Label is a skill's position in the mastery lifecycle.
type Label string

const (
	LabelNew      Label = "new"
	LabelLearning Label = "learning"
	LabelMastered Label = "mastered"
	LabelRusty    Label = "rusty"
)

// Options tunes labeling.
type Options struct {
	// MasteredAt is the mastery a confident skill needs to count as mastered.
	MasteredAt float64
	// MasteredConfidence is the confidence a skill needs to count as mastered.
	MasteredConfidence float64
	Mastery            mastery.Config
}

// DefaultOptions returns the default labeling thresholds.
func DefaultOptions() Options {
	return Options{
		MasteredAt:         0.8,
		MasteredConfidence: 0.5,
		Mastery:            mastery.DefaultConfig(),
	}
}

// SkillView is one row of the skill list.
type SkillView struct {
	SkillID      string     `json:"skillId"`
	Percent      int        `json:"percent"`
	Confidence   int        `json:"confidence"`
	Label        Label      `json:"label"`
	LastTestedAt *time.Time `json:"lastTestedAt,omitempty"`
}

// View is the caller-visible projection of a learner's state.
type View struct {
	LearnerID  string         `json:"learnerId"`
	Status     session.Status `json:"status"`
	Hearts     int            `json:"hearts"`
	MaxHearts  int            `json:"maxHearts"`
	Streak     int            `json:"streak"`
	Answered   int            `json:"answered"`
	Difficulty float64        `json:"difficulty"`
	SessionAge time.Duration  `json:"sessionAge"`
	Skills     []SkillView    `json:"skills"`
}

// Project builds a View with the default options.
func Project(state engine.LearnerState, maxHearts int, now time.Time) View {
	return ProjectWith(state, maxHearts, now, DefaultOptions())
}

// ProjectWith builds a View. Skills are sorted by ID.
func ProjectWith(state engine.LearnerState, maxHearts int, now time.Time, opts Options) View {
	v := View{
		LearnerID:  state.LearnerID,
		Status:     state.Status(),
		Hearts:     min(max(state.Hearts, 0), maxHearts),
		MaxHearts:  maxHearts,
		Streak:     state.CurrentStreak,
		Answered:   len(state.SessionQuestions),
		Difficulty: state.LastDifficulty,
		Skills:     make([]SkillView, 0, len(state.KnowledgeGraph)),
	}
	if !state.SessionStartedAt.IsZero() && now.After(state.SessionStartedAt) {
		v.SessionAge = now.Sub(state.SessionStartedAt)
	}

	for id, rec := range state.KnowledgeGraph {
		rec = mastery.Sanitize(rec)
		decayed := mastery.Decay(rec, now, opts.Mastery)
		v.Skills = append(v.Skills, SkillView{
			SkillID:      id,
			Percent:      mastery.DisplayPercent(rec.Mastery),
			Confidence:   mastery.DisplayPercent(decayed.Confidence),
			Label:        labelFor(rec, now, opts),
			LastTestedAt: rec.LastTestedAt,
		})
	}
	sort.Slice(v.Skills, func(i, j int) bool {
		return v.Skills[i].SkillID < v.Skills[j].SkillID
	})
	return v
}

func labelFor(rec mastery.SkillRecord, now time.Time, opts Options) Label {
	switch {
	case !rec.Tested():
		return LabelNew
	case mastery.IsStale(rec, now, opts.Mastery):
		return LabelRusty
	case rec.Mastery >= opts.MasteredAt && rec.Confidence >= opts.MasteredConfidence:
		return LabelMastered
	default:
		return LabelLearning
	}
}
