package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/turfbook/live-scoring/internal/domain/clock"
	"github.com/turfbook/live-scoring/internal/domain/football"
	"github.com/turfbook/live-scoring/internal/platform/logging"
)

// TimerService owns the shared match clock. Timer writes go to their own
// store so a clock tick never contends with a scoring write on the match
// document.
type TimerService struct {
	timers clock.Repository
	clk    *clock.Clock
	logger *logging.Logger
}

func NewTimerService(timers clock.Repository, clk *clock.Clock, logger *logging.Logger) *TimerService {
	if logger == nil {
		logger = logging.Default()
	}
	return &TimerService{
		timers: timers,
		clk:    clk,
		logger: logger,
	}
}

type TimerReading struct {
	State   clock.TimerState
	Elapsed time.Duration
	// Now is the server-corrected wall clock the reading was taken against,
	// so clients can extrapolate between polls.
	Now time.Time
}

func (s *TimerService) Start(ctx context.Context, matchID, label string) (TimerReading, error) {
	ctx, span := startUsecaseSpan(ctx, "TimerService.Start")
	defer span.End()

	return s.mutate(ctx, matchID, func(state clock.TimerState) clock.TimerState {
		return s.clk.Start(state, label)
	})
}

func (s *TimerService) Stop(ctx context.Context, matchID string) (TimerReading, error) {
	ctx, span := startUsecaseSpan(ctx, "TimerService.Stop")
	defer span.End()

	return s.mutate(ctx, matchID, s.clk.Stop)
}

// Rebase jumps the accumulated time to a fixed base, for period transitions
// with a conventional restart point (45:00, 90:00, 105:00).
func (s *TimerService) Rebase(ctx context.Context, matchID string, base time.Duration, label string) (TimerReading, error) {
	ctx, span := startUsecaseSpan(ctx, "TimerService.Rebase")
	defer span.End()

	if base < 0 {
		return TimerReading{}, fmt.Errorf("%w: base elapsed cannot be negative", ErrInvalidInput)
	}
	return s.mutate(ctx, matchID, func(state clock.TimerState) clock.TimerState {
		return s.clk.Rebase(state, base, label)
	})
}

// Read never mutates: polling it from every viewer is free of side effects
// and successive readings never go backwards.
func (s *TimerService) Read(ctx context.Context, matchID string) (TimerReading, error) {
	ctx, span := startUsecaseSpan(ctx, "TimerService.Read")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return TimerReading{}, fmt.Errorf("%w: match_id is required", ErrInvalidInput)
	}
	state, exists, err := s.timers.Get(ctx, matchID)
	if err != nil {
		return TimerReading{}, fmt.Errorf("get timer: %w", err)
	}
	if !exists {
		return TimerReading{}, fmt.Errorf("%w: timer for match=%s", ErrNotFound, matchID)
	}
	return TimerReading{State: state, Elapsed: s.clk.Read(state), Now: s.clk.Now()}, nil
}

// Now exposes the server-corrected wall clock so clients can measure their
// own offset against it.
func (s *TimerService) Now() time.Time {
	return s.clk.Now()
}

// ApplyPlan executes the clock side of a period transition.
func (s *TimerService) ApplyPlan(ctx context.Context, matchID string, plan football.ClockPlan) (TimerReading, error) {
	ctx, span := startUsecaseSpan(ctx, "TimerService.ApplyPlan")
	defer span.End()

	return s.mutate(ctx, matchID, func(state clock.TimerState) clock.TimerState {
		if plan.Stop {
			state = s.clk.Stop(state)
		}
		if plan.Rebase {
			state = s.clk.Rebase(state, plan.BaseAt, plan.Label)
		}
		if plan.Start {
			state = s.clk.Start(state, plan.Label)
		} else if plan.Label != "" {
			state.Label = plan.Label
		}
		return state
	})
}

func (s *TimerService) mutate(ctx context.Context, matchID string, fn func(clock.TimerState) clock.TimerState) (TimerReading, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return TimerReading{}, fmt.Errorf("%w: match_id is required", ErrInvalidInput)
	}

	state, exists, err := s.timers.Get(ctx, matchID)
	if err != nil {
		return TimerReading{}, fmt.Errorf("get timer: %w", err)
	}
	if !exists {
		state = clock.TimerState{MatchID: matchID}
	}

	state = fn(state)
	if err := s.timers.Put(ctx, state); err != nil {
		return TimerReading{}, fmt.Errorf("put timer: %w", err)
	}
	return TimerReading{State: state, Elapsed: s.clk.Read(state), Now: s.clk.Now()}, nil
}
