package match

import (
	"context"

	"github.com/turfbook/live-scoring/internal/domain/matchevent"
)

// Repository persists the authoritative match document. Save is a
// compare-and-swap on Version: implementations must return ErrVersionConflict
// when the stored version differs from expectedVersion. The command's ledger
// events ride on the same write: either the document update and its events
// both land or neither does.
type Repository interface {
	Create(ctx context.Context, m *Match) error
	GetByID(ctx context.Context, matchID string) (*Match, bool, error)
	Save(ctx context.Context, m *Match, expectedVersion int64, events ...matchevent.Event) error
}
