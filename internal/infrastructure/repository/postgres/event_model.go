package postgres

import "time"

type eventTableModel struct {
	ID               int64     `db:"id"`
	MatchPublicID    string    `db:"match_public_id"`
	Seq              int64     `db:"seq"`
	EventType        string    `db:"event_type"`
	TeamID           string    `db:"team_id"`
	PlayerID         string    `db:"player_id"`
	PlayerName       string    `db:"player_name"`
	SecondPlayerID   string    `db:"second_player_id"`
	SecondPlayerName string    `db:"second_player_name"`
	Runs             int       `db:"runs"`
	Detail           string    `db:"detail"`
	EventTime        float64   `db:"event_time"`
	CreatedAt        time.Time `db:"created_at"`
}
