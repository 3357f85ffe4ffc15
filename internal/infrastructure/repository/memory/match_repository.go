package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/turfbook/live-scoring/internal/domain/match"
	"github.com/turfbook/live-scoring/internal/domain/matchevent"
)

type MatchRepository struct {
	mu     sync.RWMutex
	items  map[string]*match.Match
	events *EventRepository
}

func NewMatchRepository(events *EventRepository) *MatchRepository {
	return &MatchRepository{items: make(map[string]*match.Match), events: events}
}

func (r *MatchRepository) Create(_ context.Context, m *match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[m.ID]; exists {
		return fmt.Errorf("match %s already exists", m.ID)
	}
	r.items[m.ID] = m.Clone()
	return nil
}

func (r *MatchRepository) GetByID(_ context.Context, matchID string) (*match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[matchID]
	if !ok {
		return nil, false, nil
	}
	return item.Clone(), true, nil
}

// Save is the compare-and-swap write: it only lands when the stored version
// still matches what the caller read. The events append only after the swap
// succeeds, so a losing command leaves the ledger untouched.
func (r *MatchRepository) Save(_ context.Context, m *match.Match, expectedVersion int64, events ...matchevent.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.items[m.ID]
	if !ok {
		return fmt.Errorf("match %s does not exist", m.ID)
	}
	if stored.Version != expectedVersion {
		return fmt.Errorf("save match %s: %w", m.ID, match.ErrVersionConflict)
	}

	saved := m.Clone()
	saved.Version = expectedVersion + 1
	r.items[m.ID] = saved
	m.Version = saved.Version

	r.events.appendAll(events)
	return nil
}
