package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/nable/internal/content"
	"github.com/abhisek/nable/internal/mastery"
	"github.com/abhisek/nable/internal/session"
)

var (
	// ErrInvalidAnswerReference matches every *InvalidAnswerReferenceError.
	ErrInvalidAnswerReference = errors.New("invalid answer reference")

	// ErrSessionLocked is returned by UpdateState once the learner is out of hearts.
	ErrSessionLocked = session.ErrSessionLocked
)

// InvalidAnswerReferenceError reports an answer to a question the engine
// cannot attribute to any skill.
type InvalidAnswerReferenceError struct {
	QuestionID string
	Reason     string
}

func (e *InvalidAnswerReferenceError) Error() string {
	return fmt.Sprintf("invalid answer reference %q: %s", e.QuestionID, e.Reason)
}

func (e *InvalidAnswerReferenceError) Is(target error) bool {
	return target == ErrInvalidAnswerReference
}

// Answer is a scored response to a question from Pool.
type Answer struct {
	QuestionID string
	Correct    bool
	Pool       []content.Item

	// At is when the answer was given. Zero means the engine clock.
	At time.Time
}

// SkillChange is the before and after of one skill touched by an answer.
type SkillChange struct {
	SkillID string              `json:"skillId"`
	Before  mastery.SkillRecord `json:"before"`
	After   mastery.SkillRecord `json:"after"`
}

// Update is the result of UpdateState.
type Update struct {
	State      LearnerState       `json:"state"`
	Transition session.Transition `json:"transition"`
	Skills     []SkillChange      `json:"skills"`
}

// UpdateState folds one answer into state and returns the new state. The
// input is never modified.
func (e *Engine) UpdateState(state LearnerState, ans Answer) (Update, error) {
	item, ok := content.Find(ans.Pool, ans.QuestionID)
	if !ok {
		return Update{}, &InvalidAnswerReferenceError{QuestionID: ans.QuestionID, Reason: "not in candidate pool"}
	}
	skills := distinctSkills(item.SubSkills)
	if len(skills) == 0 {
		return Update{}, &InvalidAnswerReferenceError{QuestionID: ans.QuestionID, Reason: "question has no sub-skills"}
	}

	next := state.Clone()
	counters, tr, err := e.guard.Apply(state.counters(), ans.Correct)
	if err != nil {
		return Update{State: next, Transition: tr}, err
	}

	now := ans.At
	if now.IsZero() {
		now = e.now()
	}
	qd := mastery.ClampDifficulty(item.Difficulty)
	changes := make([]SkillChange, 0, len(skills))
	for _, id := range skills {
		before, ok := next.KnowledgeGraph[id]
		if !ok {
			before = mastery.NewSkillRecord()
		}
		after := mastery.UpdateSkill(before, ans.Correct, qd, state.PersonalStabilityFactor, now, e.cfg.Mastery)
		next.KnowledgeGraph[id] = after
		changes = append(changes, SkillChange{SkillID: id, Before: before.Clone(), After: after.Clone()})
	}

	next.Hearts = counters.Hearts
	next.CurrentStreak = counters.CurrentStreak
	next.ConsecutiveErrors = counters.ConsecutiveErrors
	next.PersonalStabilityFactor = e.nextStability(state, ans.Correct)
	next.SessionQuestions = append(next.SessionQuestions, item.QuestionID)
	if item.TopicID != "" {
		next.RecentTopicIDs = pushBounded(next.RecentTopicIDs, item.TopicID, e.cfg.RecentTopicLimit)
	}
	next.LastDifficulty = qd
	next.LastDistractorSimilarity = item.Distractor()

	fields := []any{
		"learner_id", state.LearnerID,
		"session_id", state.SessionID,
		"question_id", item.QuestionID,
		"correct", ans.Correct,
		"hearts", next.Hearts,
		"streak", next.CurrentStreak,
	}
	switch {
	case tr.Locked():
		e.log.Info("session locked", fields...)
	case tr.Milestone > 0:
		e.log.Info("streak milestone", append(fields, "milestone", tr.Milestone)...)
	default:
		e.log.Debug("answer applied", fields...)
	}

	return Update{State: next, Transition: tr, Skills: changes}, nil
}

// ResetSession starts a new session: hearts are refilled and the session's
// question history is cleared. Mastery, streak and topic history carry over.
func (e *Engine) ResetSession(state LearnerState) LearnerState {
	next := state.Clone()
	next.SessionID = e.newSessionID()
	next.SessionStartedAt = e.now()
	next.SessionQuestions = []string{}
	next.Hearts = e.guard.MaxHearts()
	next.ConsecutiveErrors = 0
	return next
}

// nextStability damps the learner's update rate after an answer that breaks
// a run and lets it recover toward 1 otherwise.
func (e *Engine) nextStability(state LearnerState, correct bool) float64 {
	sc := e.cfg.Stability
	s := state.PersonalStabilityFactor
	reversal := (correct && state.ConsecutiveErrors > 0) || (!correct && state.CurrentStreak > 0)
	if reversal {
		s *= sc.Decay
	} else {
		s += (1 - s) * sc.Recovery
	}
	return mastery.Clamp(s, sc.Min, sc.Max)
}

func distinctSkills(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if strings.TrimSpace(id) == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func pushBounded(ids []string, id string, limit int) []string {
	ids = append(ids, id)
	if n := len(ids) - limit; n > 0 {
		ids = append([]string{}, ids[n:]...)
	}
	return ids
}
