package store

import (
	"context"
	"time"
)

// StateRepo persists one JSON learner state document per learner. Documents
// are opaque here; the engine repairs whatever it reads back.
type StateRepo interface {
	// Load returns the stored document, or nil if the learner is unknown.
	Load(ctx context.Context, learnerID string) ([]byte, error)

	// Save replaces the learner's stored document.
	Save(ctx context.Context, learnerID string, doc []byte) error

	// Delete removes the learner's state. Deleting an unknown learner is not an error.
	Delete(ctx context.Context, learnerID string) error
}

// AnswerEventData captures one scored answer.
type AnswerEventData struct {
	LearnerID  string
	SessionID  string
	QuestionID string
	Correct    bool
	Difficulty float64
}

// AnswerEvent is a recorded answer.
type AnswerEvent struct {
	AnswerEventData
	Sequence  int64
	CreatedAt time.Time
}

// EventRepo provides append and query access to answer events.
type EventRepo interface {
	// AppendAnswer records an answer and returns its sequence number.
	AppendAnswer(ctx context.Context, data AnswerEventData) (int64, error)

	// CorrectQuestions returns every question the learner has answered
	// correctly at least once, sorted by ID.
	CorrectQuestions(ctx context.Context, learnerID string) ([]string, error)

	// RecentAttempts returns the learner's latest answers, newest first.
	// limit <= 0 returns all of them.
	RecentAttempts(ctx context.Context, learnerID string, limit int) ([]AnswerEvent, error)

	// DeleteLearner removes every answer the learner recorded.
	DeleteLearner(ctx context.Context, learnerID string) error
}

// QuestionIDs returns the distinct question IDs of events, in order.
func QuestionIDs(events []AnswerEvent) []string {
	seen := make(map[string]bool, len(events))
	var ids []string
	for _, ev := range events {
		if seen[ev.QuestionID] {
			continue
		}
		seen[ev.QuestionID] = true
		ids = append(ids, ev.QuestionID)
	}
	return ids
}
