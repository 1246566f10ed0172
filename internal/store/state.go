package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

const learnerStatesTable = "learner_states"

// stateRepo implements StateRepo over the learner_states table.
type stateRepo struct {
	drv dialect.ExecQuerier
	now func() time.Time
}

func (r *stateRepo) Load(ctx context.Context, learnerID string) ([]byte, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("data").
		From(entsql.Table(learnerStatesTable)).
		Where(entsql.EQ("learner_id", learnerID)).
		Limit(1).
		Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query learner state: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("query learner state: %w", err)
		}
		return nil, nil
	}
	var data string
	if err := rows.Scan(&data); err != nil {
		return nil, fmt.Errorf("scan learner state: %w", err)
	}
	return []byte(data), nil
}

func (r *stateRepo) Save(ctx context.Context, learnerID string, doc []byte) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(learnerStatesTable).
		Columns("learner_id", "data", "updated_at").
		Values(learnerID, string(doc), r.now().UnixMilli()).
		OnConflict(
			entsql.ConflictColumns("learner_id"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save learner state: %w", err)
	}
	return nil
}

func (r *stateRepo) Delete(ctx context.Context, learnerID string) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Delete(learnerStatesTable).
		Where(entsql.EQ("learner_id", learnerID)).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("delete learner state: %w", err)
	}
	return nil
}
