// Package engine is the adaptive mastery-tracking and recommendation core.
// It recommends the next question for a learner from a candidate pool and
// folds answers back into the learner's state. Every operation is pure and
// synchronous: inputs are never mutated and no I/O happens here.
package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/nable/internal/content"
	"github.com/abhisek/nable/internal/difficulty"
	"github.com/abhisek/nable/internal/logger"
	"github.com/abhisek/nable/internal/mastery"
	"github.com/abhisek/nable/internal/scoring"
	"github.com/abhisek/nable/internal/selection"
	"github.com/abhisek/nable/internal/session"
)

// Engine is immutable after New and safe for concurrent use.
type Engine struct {
	cfg      Config
	adapter  *difficulty.Adapter
	selector *selection.Selector
	guard    *session.Guard

	now          func() time.Time
	newSessionID func() string
	log          *logger.Logger
}

// Option customizes an Engine.
type Option func(*Engine)

// WithClock sets the time source. Defaults to time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithSessionIDs sets the session ID generator. Defaults to random UUIDs.
func WithSessionIDs(gen func() string) Option {
	return func(e *Engine) { e.newSessionID = gen }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *logger.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// New validates cfg and builds an engine.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:          cfg,
		adapter:      difficulty.NewAdapter(cfg.Difficulty, cfg.Mastery),
		selector:     selection.NewSelector(scoring.NewScorer(cfg.Scoring)),
		guard:        session.NewGuard(cfg.Session),
		now:          time.Now,
		newSessionID: func() string { return uuid.NewString() },
		log:          logger.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// MaxHearts returns the configured heart budget of a session.
func (e *Engine) MaxHearts() int {
	return e.guard.MaxHearts()
}

// Now returns the engine clock's current time.
func (e *Engine) Now() time.Time {
	return e.now()
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// RecommendContext narrows a recommendation.
type RecommendContext struct {
	// ObjectiveSkills drive the difficulty target. Empty means every skill
	// the pool references.
	ObjectiveSkills []string
	// SubjectID restricts candidates to one subject when set.
	SubjectID string

	AlreadyCorrect    []string
	RecentlyAttempted []string

	// Now is the reference time for confidence decay. Zero means the
	// engine clock; pass a fixed time for repeatable results.
	Now time.Time
}

// Recommendation is the outcome of Recommend. Question is nil when the
// session is locked or no candidate is eligible.
type Recommendation struct {
	Question   *content.Item        `json:"question"`
	Rationale  scoring.Breakdown    `json:"rationale"`
	Target     difficulty.Target    `json:"target"`
	Relaxation selection.Relaxation `json:"relaxation"`
	Eligible   int                  `json:"eligible"`
	Status     session.Status       `json:"status"`
}

// Recommend picks the next question for state from pool. It does not modify
// state or pool.
func (e *Engine) Recommend(state LearnerState, rc RecommendContext, pool []content.Item) Recommendation {
	status := state.Status()
	if status == session.StatusLocked {
		e.log.Debug("recommendation suspended",
			"learner_id", state.LearnerID,
			"session_id", state.SessionID,
		)
		return Recommendation{Status: status, Relaxation: selection.RelaxNone}
	}

	now := rc.Now
	if now.IsZero() {
		now = e.now()
	}

	scope := pool
	if rc.SubjectID != "" {
		scope = inSubject(pool, rc.SubjectID)
	}

	objective := rc.ObjectiveSkills
	if len(objective) == 0 {
		objective = content.SkillIDs(scope)
	}
	var history []mastery.SkillRecord
	for _, id := range objective {
		if rec, ok := state.KnowledgeGraph[id]; ok {
			history = append(history, rec)
		}
	}

	target := e.adapter.Target(difficulty.Input{
		Skills:            history,
		CurrentStreak:     state.CurrentStreak,
		ConsecutiveErrors: state.ConsecutiveErrors,
		Difficulties:      content.Difficulties(scope),
		Now:               now,
	})

	sel := e.selector.Select(selection.Request{
		Candidates: pool,
		Exclusions: selection.Exclusions{
			SessionQuestions:  state.SessionQuestions,
			AlreadyCorrect:    rc.AlreadyCorrect,
			RecentlyAttempted: rc.RecentlyAttempted,
			SubjectID:         rc.SubjectID,
		},
		Profile: scoring.Profile{
			KnowledgeGraph:           state.KnowledgeGraph,
			RecentTopicIDs:           state.RecentTopicIDs,
			LastDistractorSimilarity: state.LastDistractorSimilarity,
		},
		Target: target.Value,
	})

	rec := Recommendation{
		Rationale:  sel.Breakdown,
		Target:     target,
		Relaxation: sel.Relaxation,
		Eligible:   sel.Eligible,
		Status:     status,
	}
	if sel.Item != nil {
		q := sel.Item.Clone()
		rec.Question = &q
	}

	e.log.Debug("recommendation computed",
		"learner_id", state.LearnerID,
		"session_id", state.SessionID,
		"target", target.Value,
		"eligible", sel.Eligible,
		"relaxation", sel.Relaxation,
		"question_id", rec.Rationale.QuestionID,
	)
	return rec
}

func inSubject(pool []content.Item, subjectID string) []content.Item {
	var out []content.Item
	for _, it := range pool {
		if it.SubjectID == subjectID {
			out = append(out, it)
		}
	}
	return out
}
