package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/turfbook/live-scoring/internal/domain/match"
	"github.com/turfbook/live-scoring/internal/domain/matchevent"
	"github.com/turfbook/live-scoring/internal/infrastructure/repository/memory"
)

func storedMatch(t *testing.T, matches *memory.MatchRepository) *match.Match {
	t.Helper()
	now := time.Date(2026, 8, 29, 18, 0, 0, 0, time.UTC)
	m := &match.Match{
		ID:        "m1",
		Sport:     match.SportFootball,
		Status:    match.StatusInProgress,
		Team1:     match.Team{ID: "home", Name: "Home"},
		Team2:     match.Team{ID: "away", Name: "Away"},
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := matches.Create(context.Background(), m); err != nil {
		t.Fatalf("create match: %v", err)
	}
	return m
}

func TestSaveStoresEventsWithDocument(t *testing.T) {
	t.Parallel()

	events := memory.NewEventRepository()
	matches := memory.NewMatchRepository(events)
	ctx := context.Background()
	m := storedMatch(t, matches)

	err := matches.Save(ctx, m, 1, matchevent.Event{
		MatchID: m.ID, Type: matchevent.TypeGoal, TeamID: "home",
	})
	if err != nil {
		t.Fatalf("save match: %v", err)
	}
	if m.Version != 2 {
		t.Fatalf("version = %d, want 2", m.Version)
	}

	got, err := events.ListByMatch(ctx, m.ID)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(got) != 1 || got[0].Type != matchevent.TypeGoal || got[0].Seq != 1 {
		t.Fatalf("events = %+v, want one goal at seq 1", got)
	}
}

func TestSaveConflictLeavesLedgerUntouched(t *testing.T) {
	t.Parallel()

	events := memory.NewEventRepository()
	matches := memory.NewMatchRepository(events)
	ctx := context.Background()
	m := storedMatch(t, matches)

	err := matches.Save(ctx, m, 7, matchevent.Event{
		MatchID: m.ID, Type: matchevent.TypeGoal, TeamID: "home",
	})
	if !errors.Is(err, match.ErrVersionConflict) {
		t.Fatalf("save error = %v, want ErrVersionConflict", err)
	}

	got, err := events.ListByMatch(ctx, m.ID)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("ledger has %d events after a losing save, want none", len(got))
	}
}
