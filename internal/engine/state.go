package engine

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/abhisek/nable/internal/mastery"
	"github.com/abhisek/nable/internal/session"
)

// LearnerState is the per-learner envelope the engine reads and produces.
// Callers persist it between requests and must treat it as immutable.
type LearnerState struct {
	LearnerID                string                         `json:"learnerId"`
	SessionID                string                         `json:"sessionId"`
	KnowledgeGraph           map[string]mastery.SkillRecord `json:"knowledgeGraph"`
	SessionQuestions         []string                       `json:"sessionQuestions"`
	CurrentStreak            int                            `json:"currentStreak"`
	ConsecutiveErrors        int                            `json:"consecutiveErrors"`
	LastDifficulty           float64                        `json:"lastDifficulty"`
	LastDistractorSimilarity float64                        `json:"lastDistractorSimilarity"`
	RecentTopicIDs           []string                       `json:"recentTopicIds"`
	PersonalStabilityFactor  float64                        `json:"personalStabilityFactor"`
	Hearts                   int                            `json:"hearts"`
	SessionStartedAt         time.Time                      `json:"sessionStartedAt"`
}

// Status derives the session status from the heart count.
func (s LearnerState) Status() session.Status {
	return session.StatusOf(s.counters())
}

func (s LearnerState) counters() session.Counters {
	return session.Counters{
		Hearts:            s.Hearts,
		CurrentStreak:     s.CurrentStreak,
		ConsecutiveErrors: s.ConsecutiveErrors,
	}
}

// Clone returns a deep copy of s.
func (s LearnerState) Clone() LearnerState {
	out := s
	out.KnowledgeGraph = make(map[string]mastery.SkillRecord, len(s.KnowledgeGraph))
	for id, rec := range s.KnowledgeGraph {
		out.KnowledgeGraph[id] = rec.Clone()
	}
	out.SessionQuestions = append([]string{}, s.SessionQuestions...)
	out.RecentTopicIDs = append([]string{}, s.RecentTopicIDs...)
	return out
}

// StoredSkill is a possibly partial persisted SkillRecord.
type StoredSkill struct {
	Mastery      *float64         `json:"mastery,omitempty"`
	Confidence   *float64         `json:"confidence,omitempty"`
	StreakCount  *int             `json:"streakCount,omitempty"`
	LastTestedAt *time.Time       `json:"lastTestedAt,omitempty"`
	LastOutcome  *mastery.Outcome `json:"lastOutcome,omitempty"`
}

// StoredState is a possibly partial persisted LearnerState. Every field is
// optional; LoadState fills the gaps.
type StoredState struct {
	LearnerID                *string                 `json:"learnerId,omitempty"`
	SessionID                *string                 `json:"sessionId,omitempty"`
	KnowledgeGraph           map[string]*StoredSkill `json:"knowledgeGraph,omitempty"`
	SessionQuestions         []string                `json:"sessionQuestions,omitempty"`
	CurrentStreak            *int                    `json:"currentStreak,omitempty"`
	ConsecutiveErrors        *int                    `json:"consecutiveErrors,omitempty"`
	LastDifficulty           *float64                `json:"lastDifficulty,omitempty"`
	LastDistractorSimilarity *float64                `json:"lastDistractorSimilarity,omitempty"`
	RecentTopicIDs           []string                `json:"recentTopicIds,omitempty"`
	PersonalStabilityFactor  *float64                `json:"personalStabilityFactor,omitempty"`
	Hearts                   *int                    `json:"hearts,omitempty"`
	SessionStartedAt         *time.Time              `json:"sessionStartedAt,omitempty"`
}

// CreateInitialState returns the state of a learner the engine has never seen.
func (e *Engine) CreateInitialState(learnerID string) LearnerState {
	return LearnerState{
		LearnerID:                learnerID,
		SessionID:                e.newSessionID(),
		KnowledgeGraph:           map[string]mastery.SkillRecord{},
		SessionQuestions:         []string{},
		LastDifficulty:           mastery.DefaultDifficulty,
		LastDistractorSimilarity: 0.5,
		RecentTopicIDs:           []string{},
		PersonalStabilityFactor:  1.0,
		Hearts:                   e.guard.MaxHearts(),
		SessionStartedAt:         e.now(),
	}
}

// LoadState merges stored over the initial state field by field. Missing
// values take their defaults and out-of-range values are clamped. It never
// fails; stored may be nil.
func (e *Engine) LoadState(learnerID string, stored *StoredState) LearnerState {
	st := e.CreateInitialState(learnerID)
	if stored == nil {
		return st
	}

	if stored.SessionID != nil && strings.TrimSpace(*stored.SessionID) != "" {
		st.SessionID = *stored.SessionID
	}
	if stored.SessionStartedAt != nil && !stored.SessionStartedAt.IsZero() {
		st.SessionStartedAt = *stored.SessionStartedAt
	}

	for id, sk := range stored.KnowledgeGraph {
		if strings.TrimSpace(id) == "" || sk == nil {
			continue
		}
		st.KnowledgeGraph[id] = sk.record()
	}

	st.SessionQuestions = nonBlank(stored.SessionQuestions)
	topics := nonBlank(stored.RecentTopicIDs)
	if n := len(topics) - e.cfg.RecentTopicLimit; n > 0 {
		topics = topics[n:]
	}
	st.RecentTopicIDs = topics

	counters := st.counters()
	if stored.CurrentStreak != nil {
		counters.CurrentStreak = *stored.CurrentStreak
	}
	if stored.ConsecutiveErrors != nil {
		counters.ConsecutiveErrors = *stored.ConsecutiveErrors
	}
	if stored.Hearts != nil {
		counters.Hearts = *stored.Hearts
	}
	counters = e.guard.Normalize(counters)
	st.Hearts = counters.Hearts
	st.CurrentStreak = counters.CurrentStreak
	st.ConsecutiveErrors = counters.ConsecutiveErrors

	if stored.LastDifficulty != nil {
		st.LastDifficulty = mastery.ClampDifficulty(*stored.LastDifficulty)
	}
	if v := stored.LastDistractorSimilarity; v != nil && !math.IsNaN(*v) {
		st.LastDistractorSimilarity = mastery.Clamp(*v, 0, 1)
	}
	if v := stored.PersonalStabilityFactor; v != nil && !math.IsNaN(*v) {
		st.PersonalStabilityFactor = mastery.Clamp(*v, e.cfg.Stability.Min, e.cfg.Stability.Max)
	}
	return st
}

// LoadStateJSON decodes a persisted document and loads it. Members of the
// wrong type are dropped one by one and take their defaults; a document that
// is not a JSON object is treated as empty.
func (e *Engine) LoadStateJSON(learnerID string, data []byte) LearnerState {
	if len(bytes.TrimSpace(data)) == 0 {
		return e.LoadState(learnerID, nil)
	}
	var stored StoredState
	err := stored.UnmarshalJSON(data)
	var fe *FieldError
	switch {
	case errors.As(err, &fe):
		e.log.Warn("repairing learner state",
			"learner_id", learnerID,
			"fields", fe.Fields,
		)
	case err != nil:
		e.log.Warn("discarding unreadable learner state",
			"learner_id", learnerID,
			"error", err,
		)
		return e.LoadState(learnerID, nil)
	}
	return e.LoadState(learnerID, &stored)
}

// Stored converts s into its persisted form.
func (e *Engine) Stored(s LearnerState) *StoredState {
	c := s.Clone()
	out := &StoredState{
		LearnerID:                &c.LearnerID,
		SessionID:                &c.SessionID,
		KnowledgeGraph:           make(map[string]*StoredSkill, len(c.KnowledgeGraph)),
		SessionQuestions:         c.SessionQuestions,
		CurrentStreak:            &c.CurrentStreak,
		ConsecutiveErrors:        &c.ConsecutiveErrors,
		LastDifficulty:           &c.LastDifficulty,
		LastDistractorSimilarity: &c.LastDistractorSimilarity,
		RecentTopicIDs:           c.RecentTopicIDs,
		PersonalStabilityFactor:  &c.PersonalStabilityFactor,
		Hearts:                   &c.Hearts,
		SessionStartedAt:         &c.SessionStartedAt,
	}
	for id, rec := range c.KnowledgeGraph {
		out.KnowledgeGraph[id] = storedSkill(rec)
	}
	return out
}

func (sk *StoredSkill) record() mastery.SkillRecord {
	rec := mastery.NewSkillRecord()
	if sk.Mastery != nil && !math.IsNaN(*sk.Mastery) {
		rec.Mastery = *sk.Mastery
	}
	if sk.Confidence != nil && !math.IsNaN(*sk.Confidence) {
		rec.Confidence = *sk.Confidence
	}
	if sk.StreakCount != nil {
		rec.StreakCount = *sk.StreakCount
	}
	if sk.LastOutcome != nil {
		rec.LastOutcome = *sk.LastOutcome
	}
	rec.LastTestedAt = sk.LastTestedAt
	return mastery.Sanitize(rec)
}

func storedSkill(rec mastery.SkillRecord) *StoredSkill {
	rec = rec.Clone()
	out := &StoredSkill{
		Mastery:      &rec.Mastery,
		Confidence:   &rec.Confidence,
		StreakCount:  &rec.StreakCount,
		LastTestedAt: rec.LastTestedAt,
	}
	if rec.LastOutcome != mastery.OutcomeNone {
		out.LastOutcome = &rec.LastOutcome
	}
	return out
}

func nonBlank(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if strings.TrimSpace(id) != "" {
			out = append(out, id)
		}
	}
	return out
}
