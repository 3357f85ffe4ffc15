package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/turfbook/live-scoring/internal/domain/matchevent"
	qb "github.com/turfbook/live-scoring/internal/platform/querybuilder"
)

// EventRepository reads the per-match ledger. Rows are insert-only and arrive
// through the match document save transaction; there is no update or delete
// path, corrections arrive as later events.
type EventRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

const appendEventQuery = `INSERT INTO match_events
    (match_public_id, seq, event_type, team_id, player_id, player_name,
     second_player_id, second_player_name, runs, detail, event_time, created_at)
VALUES
    ($1,
     (SELECT COALESCE(MAX(seq), 0) + 1 FROM match_events WHERE match_public_id = $1),
     $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

func insertEvents(ctx context.Context, tx *sqlx.Tx, events []matchevent.Event) error {
	for _, event := range events {
		if _, err := tx.ExecContext(ctx, appendEventQuery,
			event.MatchID,
			event.Type,
			event.TeamID,
			event.PlayerID,
			event.PlayerName,
			event.SecondPlayerID,
			event.SecondPlayer,
			event.Runs,
			event.Detail,
			event.Time,
			event.Timestamp,
		); err != nil {
			return fmt.Errorf("insert match event: %w", err)
		}
	}
	return nil
}

func (r *EventRepository) ListByMatch(ctx context.Context, matchID string) ([]matchevent.Event, error) {
	query, args, err := qb.Select("*").
		From("match_events").
		Where(qb.Eq("match_public_id", matchID)).
		OrderBy("seq").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list events query: %w", err)
	}

	var rows []eventTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list match events: %w", err)
	}

	out := make([]matchevent.Event, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchevent.Event{
			ID:             fmt.Sprintf("%d", row.ID),
			MatchID:        row.MatchPublicID,
			Seq:            row.Seq,
			Time:           row.EventTime,
			Type:           row.EventType,
			TeamID:         row.TeamID,
			PlayerID:       row.PlayerID,
			PlayerName:     row.PlayerName,
			SecondPlayerID: row.SecondPlayerID,
			SecondPlayer:   row.SecondPlayerName,
			Runs:           row.Runs,
			Detail:         row.Detail,
			Timestamp:      row.CreatedAt,
		})
	}
	return out, nil
}
