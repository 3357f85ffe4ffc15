package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/turfbook/live-scoring/internal/domain/clock"
	"github.com/turfbook/live-scoring/internal/domain/match"
	"github.com/turfbook/live-scoring/internal/domain/matchevent"
	"github.com/turfbook/live-scoring/internal/domain/stats"
	"github.com/turfbook/live-scoring/internal/platform/cache"
	"github.com/turfbook/live-scoring/internal/platform/id"
	"github.com/turfbook/live-scoring/internal/platform/logging"
)

// Broadcaster pushes a fresh view to every live viewer of a match.
type Broadcaster interface {
	BroadcastMatch(matchID string, payload any)
}

// CompletionNotifier propagates a completed match to downstream consumers
// (tournament standings, brackets). Failures are logged, never surfaced to
// the scorer.
type CompletionNotifier interface {
	MatchCompleted(ctx context.Context, m *match.Match) error
}

// TaskPool runs fire-and-forget work off the request path.
type TaskPool interface {
	Submit(task func()) error
}

const viewCachePrefix = "match:view:"

type RosterInput struct {
	TeamID      string
	TeamName    string
	Players     []match.Player
	Substitutes []match.Player
}

type CreateMatchInput struct {
	Sport     string
	MatchType string
	MaxOvers  int
	Team1     RosterInput
	Team2     RosterInput
}

// MatchView is the read model served to viewers: the document, the ledger,
// aggregates folded from it, and the display clock.
type MatchView struct {
	Match       *match.Match
	Events      []matchevent.Event
	PlayerStats map[string]*stats.PlayerStats
	TeamStats   map[string]*stats.TeamStats
	Timer       clock.TimerState
	Elapsed     time.Duration
}

type MatchService struct {
	matches  match.Repository
	events   matchevent.Repository
	timers   clock.Repository
	clk      *clock.Clock
	ids      id.Generator
	views    *cache.Store
	logger   *logging.Logger
	notifier CompletionNotifier
	caster   Broadcaster
	pool     TaskPool
	now      func() time.Time
}

func NewMatchService(
	matches match.Repository,
	events matchevent.Repository,
	timers clock.Repository,
	clk *clock.Clock,
	ids id.Generator,
	views *cache.Store,
	logger *logging.Logger,
) *MatchService {
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchService{
		matches: matches,
		events:  events,
		timers:  timers,
		clk:     clk,
		ids:     ids,
		views:   views,
		logger:  logger,
		now:     time.Now,
	}
}

// SetCompletionNotifier wires the downstream propagation target. Optional;
// a match engine without one simply keeps results local.
func (s *MatchService) SetCompletionNotifier(notifier CompletionNotifier, pool TaskPool) {
	s.notifier = notifier
	s.pool = pool
}

// SetBroadcaster wires the live fan-out target (the websocket hub).
func (s *MatchService) SetBroadcaster(caster Broadcaster) {
	s.caster = caster
}

func (s *MatchService) Create(ctx context.Context, input CreateMatchInput) (*match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "MatchService.Create")
	defer span.End()

	sport := match.NormalizeSport(input.Sport)
	if !match.IsValidSport(sport) {
		return nil, fmt.Errorf("%w: sport must be CRICKET or FOOTBALL", ErrInvalidInput)
	}
	team1, err := buildTeam(input.Team1)
	if err != nil {
		return nil, err
	}
	team2, err := buildTeam(input.Team2)
	if err != nil {
		return nil, err
	}
	if team1.ID == team2.ID {
		return nil, fmt.Errorf("%w: teams must be distinct", ErrInvalidInput)
	}

	matchID, err := s.ids.NewID()
	if err != nil {
		return nil, fmt.Errorf("generate match id: %w", err)
	}
	timerID, err := s.ids.NewID()
	if err != nil {
		return nil, fmt.Errorf("generate timer id: %w", err)
	}

	now := s.now().UTC()
	m := &match.Match{
		ID:        matchID,
		Sport:     sport,
		Status:    match.StatusNotStarted,
		Team1:     team1,
		Team2:     team2,
		TimerID:   timerID,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	switch sport {
	case match.SportCricket:
		if input.MaxOvers < 1 {
			return nil, fmt.Errorf("%w: max_overs must be at least 1", ErrInvalidInput)
		}
		matchType := strings.TrimSpace(input.MatchType)
		if matchType == "" {
			matchType = "CUSTOM"
		}
		m.Cricket = &match.CricketState{
			MatchType: matchType,
			MaxOvers:  input.MaxOvers,
		}
	case match.SportFootball:
		m.Football = match.NewFootballState(team1.ID, team2.ID)
	}

	if err := s.matches.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("create match: %w", err)
	}
	if err := s.timers.Put(ctx, clock.TimerState{MatchID: matchID, UpdatedAt: now}); err != nil {
		return nil, fmt.Errorf("create match timer: %w", err)
	}

	s.logger.InfoContext(ctx, "match created", "match_id", matchID, "sport", sport)
	return m, nil
}

func (s *MatchService) Get(ctx context.Context, matchID string) (*match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "MatchService.Get")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return nil, fmt.Errorf("%w: match_id is required", ErrInvalidInput)
	}
	m, exists, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("get match by id: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}
	return m, nil
}

// ListEvents returns the match ledger in append order.
func (s *MatchService) ListEvents(ctx context.Context, matchID string) ([]matchevent.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "MatchService.ListEvents")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return nil, fmt.Errorf("%w: match_id is required", ErrInvalidInput)
	}
	if _, err := s.Get(ctx, matchID); err != nil {
		return nil, err
	}
	events, err := s.events.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list match events: %w", err)
	}
	return events, nil
}

// View composes the read model. Views are cached briefly and invalidated on
// every scoring write, so viewer polling does not hammer the store.
func (s *MatchService) View(ctx context.Context, matchID string) (*MatchView, error) {
	ctx, span := startUsecaseSpan(ctx, "MatchService.View")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return nil, fmt.Errorf("%w: match_id is required", ErrInvalidInput)
	}

	load := func(ctx context.Context) (any, error) {
		return s.composeView(ctx, matchID)
	}
	if s.views == nil {
		view, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return view.(*MatchView), nil
	}

	cached, err := s.views.GetOrLoad(ctx, viewCachePrefix+matchID, load)
	if err != nil {
		return nil, err
	}
	view := cached.(*MatchView)
	if view.Timer.Running {
		// Elapsed moves while cached; recompute it on a copy, since the
		// cached view is shared across concurrent readers.
		fresh := *view
		fresh.Elapsed = s.clk.Read(fresh.Timer)
		return &fresh, nil
	}
	return view, nil
}

func (s *MatchService) composeView(ctx context.Context, matchID string) (*MatchView, error) {
	m, exists, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("get match by id: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	events, err := s.events.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list match events: %w", err)
	}
	players, teams := stats.Aggregate([]match.Team{m.Team1, m.Team2}, slices.Values(events))

	timer, _, err := s.timers.Get(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("get match timer: %w", err)
	}

	return &MatchView{
		Match:       m,
		Events:      events,
		PlayerStats: players,
		TeamStats:   teams,
		Timer:       timer,
		Elapsed:     s.clk.Read(timer),
	}, nil
}

func (s *MatchService) invalidateView(ctx context.Context, matchID string) {
	if s.views != nil {
		s.views.Delete(ctx, viewCachePrefix+matchID)
	}
}

func (s *MatchService) broadcastView(ctx context.Context, matchID string) {
	if s.caster == nil {
		return
	}
	view, err := s.composeView(ctx, matchID)
	if err != nil {
		s.logger.WarnContext(ctx, "compose view for broadcast", "match_id", matchID, "error", err)
		return
	}
	task := func() { s.caster.BroadcastMatch(matchID, view) }
	if s.pool == nil {
		task()
		return
	}
	if err := s.pool.Submit(task); err != nil {
		s.logger.Error("submit broadcast", "match_id", matchID, "error", err)
	}
}

func (s *MatchService) notifyCompleted(ctx context.Context, m *match.Match) {
	if s.notifier == nil || m.Status != match.StatusCompleted {
		return
	}
	snapshot := m.Clone()
	task := func() {
		if err := s.notifier.MatchCompleted(context.WithoutCancel(ctx), snapshot); err != nil {
			s.logger.Error("propagate completed match", "match_id", snapshot.ID, "error", err)
		}
	}
	if s.pool == nil {
		go task()
		return
	}
	if err := s.pool.Submit(task); err != nil {
		s.logger.Error("submit completion propagation", "match_id", m.ID, "error", err)
	}
}

func buildTeam(input RosterInput) (match.Team, error) {
	teamID := strings.TrimSpace(input.TeamID)
	name := strings.TrimSpace(input.TeamName)
	if teamID == "" || name == "" {
		return match.Team{}, fmt.Errorf("%w: team id and name are required", ErrInvalidInput)
	}
	if len(input.Players) == 0 {
		return match.Team{}, fmt.Errorf("%w: team %s needs a starting lineup", ErrInvalidInput, teamID)
	}

	seen := make(map[string]struct{}, len(input.Players)+len(input.Substitutes))
	clean := func(players []match.Player) ([]match.Player, error) {
		out := make([]match.Player, 0, len(players))
		for _, p := range players {
			p.ID = strings.TrimSpace(p.ID)
			p.Name = strings.TrimSpace(p.Name)
			if p.ID == "" || p.Name == "" {
				return nil, fmt.Errorf("%w: player id and name are required", ErrInvalidInput)
			}
			if _, dup := seen[p.ID]; dup {
				return nil, fmt.Errorf("%w: duplicate player id %s", ErrInvalidInput, p.ID)
			}
			seen[p.ID] = struct{}{}
			out = append(out, p)
		}
		return out, nil
	}

	players, err := clean(input.Players)
	if err != nil {
		return match.Team{}, err
	}
	substitutes, err := clean(input.Substitutes)
	if err != nil {
		return match.Team{}, err
	}

	return match.Team{ID: teamID, Name: name, Players: players, Substitutes: substitutes}, nil
}

const commandRetries = 3

// runCommand is the write path every scoring operation goes through: load the
// document, apply the engine to a working copy, then save the document and
// the emitted events in one version-checked write. A concurrent writer
// surfaces as a version conflict and the command is re-applied against the
// fresh document.
func (s *MatchService) runCommand(
	ctx context.Context,
	matchID string,
	apply func(m *match.Match) ([]matchevent.Event, error),
) (*match.Match, []matchevent.Event, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return nil, nil, fmt.Errorf("%w: match_id is required", ErrInvalidInput)
	}

	var lastErr error
	for attempt := 0; attempt < commandRetries; attempt++ {
		stored, exists, err := s.matches.GetByID(ctx, matchID)
		if err != nil {
			return nil, nil, fmt.Errorf("get match by id: %w", err)
		}
		if !exists {
			return nil, nil, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
		}

		working := stored.Clone()
		events, err := apply(working)
		if err != nil {
			return nil, nil, err
		}

		working.UpdatedAt = s.now().UTC()
		if err := s.matches.Save(ctx, working, stored.Version, events...); err != nil {
			if errors.Is(err, match.ErrVersionConflict) {
				lastErr = err
				continue
			}
			return nil, nil, fmt.Errorf("save match: %w", err)
		}

		s.invalidateView(ctx, matchID)
		s.broadcastView(ctx, matchID)
		s.notifyCompleted(ctx, working)
		return working, events, nil
	}

	return nil, nil, fmt.Errorf("%w: %v", ErrConflict, lastErr)
}
