package memory

import (
	"context"
	"sync"

	"github.com/turfbook/live-scoring/internal/domain/clock"
)

type TimerRepository struct {
	mu    sync.RWMutex
	items map[string]clock.TimerState
}

func NewTimerRepository() *TimerRepository {
	return &TimerRepository{items: make(map[string]clock.TimerState)}
}

func (r *TimerRepository) Get(_ context.Context, matchID string) (clock.TimerState, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.items[matchID]
	return state, ok, nil
}

func (r *TimerRepository) Put(_ context.Context, state clock.TimerState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[state.MatchID] = state
	return nil
}
