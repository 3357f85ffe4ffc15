package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/turfbook/live-scoring/internal/domain/clock"
	qb "github.com/turfbook/live-scoring/internal/platform/querybuilder"
)

type TimerRepository struct {
	db *sqlx.DB
}

func NewTimerRepository(db *sqlx.DB) *TimerRepository {
	return &TimerRepository{db: db}
}

type timerTableModel struct {
	ID            int64        `db:"id"`
	MatchPublicID string       `db:"match_public_id"`
	Label         string       `db:"label"`
	Running       bool         `db:"running"`
	BaseElapsedMS int64        `db:"base_elapsed_ms"`
	StartedAt     sql.NullTime `db:"started_at"`
	UpdatedAt     time.Time    `db:"updated_at"`
}

func (r *TimerRepository) Get(ctx context.Context, matchID string) (clock.TimerState, bool, error) {
	query, args, err := qb.Select("*").
		From("match_timers").
		Where(qb.Eq("match_public_id", matchID)).
		ToSQL()
	if err != nil {
		return clock.TimerState{}, false, fmt.Errorf("build get timer query: %w", err)
	}

	var row timerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return clock.TimerState{}, false, nil
		}
		return clock.TimerState{}, false, fmt.Errorf("get timer: %w", err)
	}

	state := clock.TimerState{
		MatchID:     row.MatchPublicID,
		Label:       row.Label,
		Running:     row.Running,
		BaseElapsed: time.Duration(row.BaseElapsedMS) * time.Millisecond,
		UpdatedAt:   row.UpdatedAt,
	}
	if row.StartedAt.Valid {
		state.StartedAt = row.StartedAt.Time
	}
	return state, true, nil
}

func (r *TimerRepository) Put(ctx context.Context, state clock.TimerState) error {
	startedAt := sql.NullTime{}
	if !state.StartedAt.IsZero() {
		startedAt = sql.NullTime{Time: state.StartedAt, Valid: true}
	}

	const query = `INSERT INTO match_timers
    (match_public_id, label, running, base_elapsed_ms, started_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (match_public_id)
DO UPDATE SET
    label = EXCLUDED.label,
    running = EXCLUDED.running,
    base_elapsed_ms = EXCLUDED.base_elapsed_ms,
    started_at = EXCLUDED.started_at,
    updated_at = EXCLUDED.updated_at`

	if _, err := r.db.ExecContext(ctx, query,
		state.MatchID,
		state.Label,
		state.Running,
		state.BaseElapsed.Milliseconds(),
		startedAt,
		state.UpdatedAt,
	); err != nil {
		return fmt.Errorf("upsert timer: %w", err)
	}
	return nil
}
