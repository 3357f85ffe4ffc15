package postgres

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/turfbook/live-scoring/internal/domain/match"
	"github.com/turfbook/live-scoring/internal/domain/matchevent"
	qb "github.com/turfbook/live-scoring/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) Create(ctx context.Context, m *match.Match) error {
	document, err := sonic.Marshal(documentFromMatch(m))
	if err != nil {
		return fmt.Errorf("marshal match document: %w", err)
	}

	insertModel := matchInsertModel{
		PublicID:  m.ID,
		Sport:     m.Sport,
		Status:    m.Status,
		Document:  document,
		Version:   m.Version,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	query, args, err := qb.InsertModel("matches", insertModel, "")
	if err != nil {
		return fmt.Errorf("build match insert query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert match: %w", err)
	}
	return nil
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (*match.Match, bool, error) {
	query, args, err := qb.Select("*").
		From("matches").
		Where(qb.Eq("public_id", matchID)).
		ToSQL()
	if err != nil {
		return nil, false, fmt.Errorf("build get match query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get match: %w", err)
	}

	return matchFromRow(row)
}

// Save writes the document guarded by the version column: the update only
// lands when the stored version is still the one the caller read, otherwise
// the caller gets a version conflict and must re-apply on fresh state. The
// events insert in the same transaction, so the ledger never runs behind a
// committed document.
func (r *MatchRepository) Save(ctx context.Context, m *match.Match, expectedVersion int64, events ...matchevent.Event) error {
	document, err := sonic.Marshal(documentFromMatch(m))
	if err != nil {
		return fmt.Errorf("marshal match document: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save match: %w", err)
	}
	defer tx.Rollback()

	const query = `UPDATE matches
SET document = $1, sport = $2, status = $3, version = version + 1, updated_at = $4
WHERE public_id = $5 AND version = $6
RETURNING version`

	var newVersion int64
	err = tx.QueryRowxContext(ctx, query, document, m.Sport, m.Status, m.UpdatedAt, m.ID, expectedVersion).Scan(&newVersion)
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("save match %s: %w", m.ID, match.ErrVersionConflict)
		}
		return fmt.Errorf("save match: %w", err)
	}

	// The version-checked update holds the match row lock, so concurrent
	// commands serialize before the seq subselect in the event insert.
	if err := insertEvents(ctx, tx, events); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save match: %w", err)
	}

	m.Version = newVersion
	return nil
}

func matchFromRow(row matchTableModel) (*match.Match, bool, error) {
	var doc matchDocument
	if err := sonic.Unmarshal(row.Document, &doc); err != nil {
		return nil, false, fmt.Errorf("unmarshal match document: %w", err)
	}

	m := doc.toMatch()
	m.ID = row.PublicID
	m.Version = row.Version
	m.CreatedAt = row.CreatedAt
	m.UpdatedAt = row.UpdatedAt
	return m, true, nil
}
