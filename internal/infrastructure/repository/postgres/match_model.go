package postgres

import (
	"encoding/json"
	"time"
)

type matchTableModel struct {
	ID        int64           `db:"id"`
	PublicID  string          `db:"public_id"`
	Sport     string          `db:"sport"`
	Status    string          `db:"status"`
	Document  json.RawMessage `db:"document"`
	Version   int64           `db:"version"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}

type matchInsertModel struct {
	PublicID  string          `db:"public_id"`
	Sport     string          `db:"sport"`
	Status    string          `db:"status"`
	Document  json.RawMessage `db:"document"`
	Version   int64           `db:"version"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}
