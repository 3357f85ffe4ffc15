package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/turfbook/live-scoring/internal/domain/football"
	"github.com/turfbook/live-scoring/internal/domain/match"
	"github.com/turfbook/live-scoring/internal/domain/matchevent"
	"github.com/turfbook/live-scoring/internal/platform/logging"
)

// FootballService drives the period engine and keeps the shared clock in step
// with period transitions.
type FootballService struct {
	matchSvc *MatchService
	timerSvc *TimerService
	logger   *logging.Logger
	now      func() time.Time
}

func NewFootballService(matchSvc *MatchService, timerSvc *TimerService, logger *logging.Logger) *FootballService {
	if logger == nil {
		logger = logging.Default()
	}
	return &FootballService{
		matchSvc: matchSvc,
		timerSvc: timerSvc,
		logger:   logger,
		now:      time.Now,
	}
}

type AdvancePeriodInput struct {
	MatchID       string
	Target        string
	ContinueClock bool
}

func (s *FootballService) AdvancePeriod(ctx context.Context, input AdvancePeriodInput) (*match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "FootballService.AdvancePeriod")
	defer span.End()

	if strings.TrimSpace(input.Target) == "" {
		return nil, fmt.Errorf("%w: target period is required", ErrInvalidInput)
	}

	at := s.now().UTC()
	var plan football.ClockPlan
	m, _, err := s.matchSvc.runCommand(ctx, input.MatchID, func(m *match.Match) ([]matchevent.Event, error) {
		if err := requireFootball(m); err != nil {
			return nil, err
		}
		minute, merr := s.currentMinute(ctx, m.ID)
		if merr != nil {
			return nil, merr
		}
		events, p, aerr := football.AdvancePeriod(m, football.AdvanceInput{
			Target:        input.Target,
			ContinueClock: input.ContinueClock,
		}, minute, at)
		plan = p
		return events, aerr
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.timerSvc.ApplyPlan(ctx, m.ID, plan); err != nil {
		return nil, fmt.Errorf("apply clock plan: %w", err)
	}
	s.logger.InfoContext(ctx, "period advanced", "match_id", m.ID, "period", m.Football.Period)
	return m, nil
}

func (s *FootballService) ResolveTieBreak(ctx context.Context, matchID, choice string) (*match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "FootballService.ResolveTieBreak")
	defer span.End()

	if strings.TrimSpace(choice) == "" {
		return nil, fmt.Errorf("%w: tie-break choice is required", ErrInvalidInput)
	}

	at := s.now().UTC()
	var plan football.ClockPlan
	m, _, err := s.matchSvc.runCommand(ctx, matchID, func(m *match.Match) ([]matchevent.Event, error) {
		if err := requireFootball(m); err != nil {
			return nil, err
		}
		minute, merr := s.currentMinute(ctx, m.ID)
		if merr != nil {
			return nil, merr
		}
		events, p, rerr := football.ResolveTieBreak(m, choice, minute, at)
		plan = p
		return events, rerr
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.timerSvc.ApplyPlan(ctx, m.ID, plan); err != nil {
		return nil, fmt.Errorf("apply clock plan: %w", err)
	}
	s.logger.InfoContext(ctx, "tie break resolved", "match_id", m.ID, "choice", choice, "period", m.Football.Period)
	return m, nil
}

type GoalInput struct {
	MatchID    string
	TeamID     string
	ScorerID   string
	AssisterID string
}

func (s *FootballService) RecordGoal(ctx context.Context, input GoalInput) (*match.Match, []matchevent.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "FootballService.RecordGoal")
	defer span.End()

	if strings.TrimSpace(input.TeamID) == "" || strings.TrimSpace(input.ScorerID) == "" {
		return nil, nil, fmt.Errorf("%w: team_id and scorer_id are required", ErrInvalidInput)
	}
	at := s.now().UTC()
	return s.matchSvc.runCommand(ctx, input.MatchID, func(m *match.Match) ([]matchevent.Event, error) {
		if err := requireFootball(m); err != nil {
			return nil, err
		}
		minute, merr := s.currentMinute(ctx, m.ID)
		if merr != nil {
			return nil, merr
		}
		return football.RecordGoal(m, input.TeamID, input.ScorerID, strings.TrimSpace(input.AssisterID), minute, at)
	})
}

func (s *FootballService) RecordCard(ctx context.Context, matchID, teamID, playerID, card string) (*match.Match, []matchevent.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "FootballService.RecordCard")
	defer span.End()

	if strings.TrimSpace(teamID) == "" || strings.TrimSpace(playerID) == "" {
		return nil, nil, fmt.Errorf("%w: team_id and player_id are required", ErrInvalidInput)
	}
	at := s.now().UTC()
	return s.matchSvc.runCommand(ctx, matchID, func(m *match.Match) ([]matchevent.Event, error) {
		if err := requireFootball(m); err != nil {
			return nil, err
		}
		minute, merr := s.currentMinute(ctx, m.ID)
		if merr != nil {
			return nil, merr
		}
		return football.RecordCard(m, teamID, playerID, card, minute, at)
	})
}

func (s *FootballService) RecordSubstitution(ctx context.Context, matchID, teamID, playerOutID, playerInID string) (*match.Match, []matchevent.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "FootballService.RecordSubstitution")
	defer span.End()

	if strings.TrimSpace(teamID) == "" || strings.TrimSpace(playerOutID) == "" || strings.TrimSpace(playerInID) == "" {
		return nil, nil, fmt.Errorf("%w: team_id, player_out_id and player_in_id are required", ErrInvalidInput)
	}
	at := s.now().UTC()
	return s.matchSvc.runCommand(ctx, matchID, func(m *match.Match) ([]matchevent.Event, error) {
		if err := requireFootball(m); err != nil {
			return nil, err
		}
		minute, merr := s.currentMinute(ctx, m.ID)
		if merr != nil {
			return nil, merr
		}
		return football.RecordSubstitution(m, teamID, playerOutID, playerInID, minute, at)
	})
}

type MatchStatInput struct {
	MatchID    string
	TeamID     string
	Kind       string
	Possession int
}

func (s *FootballService) RecordMatchStat(ctx context.Context, input MatchStatInput) (*match.Match, []matchevent.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "FootballService.RecordMatchStat")
	defer span.End()

	if strings.TrimSpace(input.TeamID) == "" || strings.TrimSpace(input.Kind) == "" {
		return nil, nil, fmt.Errorf("%w: team_id and kind are required", ErrInvalidInput)
	}
	at := s.now().UTC()
	return s.matchSvc.runCommand(ctx, input.MatchID, func(m *match.Match) ([]matchevent.Event, error) {
		if err := requireFootball(m); err != nil {
			return nil, err
		}
		minute, merr := s.currentMinute(ctx, m.ID)
		if merr != nil {
			return nil, merr
		}
		return football.RecordMatchStat(m, input.TeamID, football.StatInput{
			Kind:       input.Kind,
			Possession: input.Possession,
		}, minute, at)
	})
}

func (s *FootballService) AdjustPenalty(ctx context.Context, matchID, teamID string, delta int) (*match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "FootballService.AdjustPenalty")
	defer span.End()

	if strings.TrimSpace(teamID) == "" {
		return nil, fmt.Errorf("%w: team_id is required", ErrInvalidInput)
	}
	if delta == 0 {
		return nil, fmt.Errorf("%w: delta cannot be zero", ErrInvalidInput)
	}
	at := s.now().UTC()
	m, _, err := s.matchSvc.runCommand(ctx, matchID, func(m *match.Match) ([]matchevent.Event, error) {
		if err := requireFootball(m); err != nil {
			return nil, err
		}
		return football.AdjustPenalty(m, teamID, delta, at)
	})
	return m, err
}

func (s *FootballService) CompleteMatch(ctx context.Context, matchID string) (*match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "FootballService.CompleteMatch")
	defer span.End()

	at := s.now().UTC()
	m, _, err := s.matchSvc.runCommand(ctx, matchID, func(m *match.Match) ([]matchevent.Event, error) {
		if err := requireFootball(m); err != nil {
			return nil, err
		}
		minute, merr := s.currentMinute(ctx, m.ID)
		if merr != nil {
			return nil, merr
		}
		return football.CompleteMatch(m, minute, at)
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.timerSvc.Stop(ctx, m.ID); err != nil {
		s.logger.WarnContext(ctx, "stop clock after completion", "match_id", m.ID, "error", err)
	}
	return m, nil
}

// currentMinute stamps events with the display clock at the moment of entry.
func (s *FootballService) currentMinute(ctx context.Context, matchID string) (float64, error) {
	reading, err := s.timerSvc.Read(ctx, matchID)
	if err != nil {
		return 0, fmt.Errorf("read match clock: %w", err)
	}
	return reading.Elapsed.Minutes(), nil
}

func requireFootball(m *match.Match) error {
	if m.Sport != match.SportFootball || m.Football == nil {
		return fmt.Errorf("%w: match %s is not a football match", ErrInvalidInput, m.ID)
	}
	return nil
}
