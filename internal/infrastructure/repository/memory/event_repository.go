package memory

import (
	"context"
	"sync"

	"github.com/turfbook/live-scoring/internal/domain/matchevent"
)

// EventRepository stores each match's ledger append-only. Events keep the
// order they arrived in and are never rewritten. Writes arrive through the
// match document save.
type EventRepository struct {
	mu      sync.RWMutex
	ledgers map[string]*matchevent.Ledger
}

func NewEventRepository() *EventRepository {
	return &EventRepository{ledgers: make(map[string]*matchevent.Ledger)}
}

func (r *EventRepository) appendAll(events []matchevent.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, event := range events {
		ledger, ok := r.ledgers[event.MatchID]
		if !ok {
			ledger = matchevent.NewLedger(nil)
			r.ledgers[event.MatchID] = ledger
		}
		ledger.Append(event)
	}
}

func (r *EventRepository) ListByMatch(_ context.Context, matchID string) ([]matchevent.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ledger, ok := r.ledgers[matchID]
	if !ok {
		return nil, nil
	}
	return ledger.Snapshot(), nil
}
