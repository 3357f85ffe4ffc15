package matchevent

import "context"

// Repository is the read side of the persisted ledger, ordered by Seq.
// Appends go through the document save (match.Repository.Save) so the ledger
// never drifts from the document it was derived with.
type Repository interface {
	ListByMatch(ctx context.Context, matchID string) ([]Event, error)
}
