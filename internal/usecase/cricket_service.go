package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/turfbook/live-scoring/internal/domain/cricket"
	"github.com/turfbook/live-scoring/internal/domain/match"
	"github.com/turfbook/live-scoring/internal/domain/matchevent"
	"github.com/turfbook/live-scoring/internal/platform/logging"
)

// CricketService exposes the innings engine as transactional commands. Every
// command re-applies the engine against the freshest document, so two scorers
// racing on the same match converge instead of clobbering each other.
type CricketService struct {
	matchSvc *MatchService
	logger   *logging.Logger
	now      func() time.Time
}

func NewCricketService(matchSvc *MatchService, logger *logging.Logger) *CricketService {
	if logger == nil {
		logger = logging.Default()
	}
	return &CricketService{
		matchSvc: matchSvc,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *CricketService) SelectBattingTeam(ctx context.Context, matchID, teamID string) (*match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "CricketService.SelectBattingTeam")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return nil, fmt.Errorf("%w: team_id is required", ErrInvalidInput)
	}
	at := s.now().UTC()
	m, _, err := s.matchSvc.runCommand(ctx, matchID, func(m *match.Match) ([]matchevent.Event, error) {
		if err := requireCricket(m); err != nil {
			return nil, err
		}
		return cricket.SelectBattingTeam(m, teamID, at)
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "batting team selected", "match_id", m.ID, "team_id", teamID)
	return m, nil
}

func (s *CricketService) SelectStriker(ctx context.Context, matchID, playerID string) (*match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "CricketService.SelectStriker")
	defer span.End()
	return s.selectRole(ctx, matchID, playerID, cricket.SelectStriker)
}

func (s *CricketService) SelectNonStriker(ctx context.Context, matchID, playerID string) (*match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "CricketService.SelectNonStriker")
	defer span.End()
	return s.selectRole(ctx, matchID, playerID, cricket.SelectNonStriker)
}

func (s *CricketService) SelectBowler(ctx context.Context, matchID, playerID string) (*match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "CricketService.SelectBowler")
	defer span.End()
	return s.selectRole(ctx, matchID, playerID, cricket.SelectBowler)
}

func (s *CricketService) selectRole(ctx context.Context, matchID, playerID string, selectFn func(*match.Match, string) error) (*match.Match, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return nil, fmt.Errorf("%w: player_id is required", ErrInvalidInput)
	}
	m, _, err := s.matchSvc.runCommand(ctx, matchID, func(m *match.Match) ([]matchevent.Event, error) {
		if err := requireCricket(m); err != nil {
			return nil, err
		}
		return nil, selectFn(m, playerID)
	})
	return m, err
}

func (s *CricketService) RecordDelivery(ctx context.Context, matchID string, runs int) (*match.Match, []matchevent.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "CricketService.RecordDelivery")
	defer span.End()

	at := s.now().UTC()
	return s.matchSvc.runCommand(ctx, matchID, func(m *match.Match) ([]matchevent.Event, error) {
		if err := requireCricket(m); err != nil {
			return nil, err
		}
		return cricket.RecordDelivery(m, runs, at)
	})
}

func (s *CricketService) RecordWicket(ctx context.Context, matchID string, input cricket.WicketInput) (*match.Match, []matchevent.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "CricketService.RecordWicket")
	defer span.End()

	at := s.now().UTC()
	return s.matchSvc.runCommand(ctx, matchID, func(m *match.Match) ([]matchevent.Event, error) {
		if err := requireCricket(m); err != nil {
			return nil, err
		}
		return cricket.RecordWicket(m, input, at)
	})
}

func (s *CricketService) RecordExtra(ctx context.Context, matchID, kind string, runs int) (*match.Match, []matchevent.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "CricketService.RecordExtra")
	defer span.End()

	kind = strings.ToUpper(strings.TrimSpace(kind))
	at := s.now().UTC()
	return s.matchSvc.runCommand(ctx, matchID, func(m *match.Match) ([]matchevent.Event, error) {
		if err := requireCricket(m); err != nil {
			return nil, err
		}
		return cricket.RecordExtra(m, kind, runs, at)
	})
}

func requireCricket(m *match.Match) error {
	if m.Sport != match.SportCricket || m.Cricket == nil {
		return fmt.Errorf("%w: match %s is not a cricket match", ErrInvalidInput, m.ID)
	}
	return nil
}
