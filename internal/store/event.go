package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// sequenceCounter manages the global monotonic sequence number assigned to
// answer events. Recent-attempt queries order by it, so two answers recorded
// within the same clock tick still come back in the order they happened.
//
// The mutex serializes within the process; the RETURNING clause makes the
// increment atomic at the database level. Next runs on whatever connection
// or transaction it is handed, so the increment commits or rolls back with
// the event it numbers.
type sequenceCounter struct {
	mu sync.Mutex
}

// newSequenceCounter creates a counter and ensures the tracking table exists.
func newSequenceCounter(ctx context.Context, drv dialect.ExecQuerier) (*sequenceCounter, error) {
	err := drv.Exec(ctx, `CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`, []any{}, nil)
	if err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}

	err = drv.Exec(ctx, `INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`, []any{}, nil)
	if err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}

	return &sequenceCounter{}, nil
}

// Next atomically returns the next sequence number and increments the counter.
func (sc *sequenceCounter) Next(ctx context.Context, drv dialect.ExecQuerier) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	rows := &entsql.Rows{}
	err := drv.Query(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
		[]any{}, rows,
	)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return 0, fmt.Errorf("next sequence: %w", err)
		}
		return 0, fmt.Errorf("next sequence: counter row missing")
	}
	var seq int64
	if err := rows.Scan(&seq); err != nil {
		return 0, fmt.Errorf("scan sequence: %w", err)
	}
	return seq, nil
}

const answerEventsTable = "answer_events"

// eventRepo implements EventRepo over the answer_events table.
type eventRepo struct {
	drv dialect.ExecQuerier
	seq *sequenceCounter
	now func() time.Time
}

func (r *eventRepo) AppendAnswer(ctx context.Context, data AnswerEventData) (int64, error) {
	seqNum, err := r.seq.Next(ctx, r.drv)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(answerEventsTable).
		Columns("sequence", "learner_id", "session_id", "question_id", "correct", "difficulty", "created_at").
		Values(seqNum, data.LearnerID, data.SessionID, data.QuestionID, data.Correct, data.Difficulty, r.now().UnixMilli()).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return 0, fmt.Errorf("save answer event: %w", err)
	}
	return seqNum, nil
}

func (r *eventRepo) CorrectQuestions(ctx context.Context, learnerID string) ([]string, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("question_id").
		Distinct().
		From(entsql.Table(answerEventsTable)).
		Where(entsql.And(
			entsql.EQ("learner_id", learnerID),
			entsql.EQ("correct", true),
		)).
		OrderBy("question_id").
		Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query correct questions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan question id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *eventRepo) RecentAttempts(ctx context.Context, learnerID string, limit int) ([]AnswerEvent, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select("sequence", "learner_id", "session_id", "question_id", "correct", "difficulty", "created_at").
		From(entsql.Table(answerEventsTable)).
		Where(entsql.EQ("learner_id", learnerID)).
		OrderBy(entsql.Desc("sequence"))
	if limit > 0 {
		sel = sel.Limit(limit)
	}
	query, args := sel.Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query recent attempts: %w", err)
	}
	defer rows.Close()

	var events []AnswerEvent
	for rows.Next() {
		var (
			ev        AnswerEvent
			createdAt int64
		)
		if err := rows.Scan(&ev.Sequence, &ev.LearnerID, &ev.SessionID, &ev.QuestionID, &ev.Correct, &ev.Difficulty, &createdAt); err != nil {
			return nil, fmt.Errorf("scan answer event: %w", err)
		}
		ev.CreatedAt = time.UnixMilli(createdAt).UTC()
		events = append(events, ev)
	}
	return events, rows.Err()
}

func (r *eventRepo) DeleteLearner(ctx context.Context, learnerID string) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Delete(answerEventsTable).
		Where(entsql.EQ("learner_id", learnerID)).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("delete answer events: %w", err)
	}
	return nil
}
