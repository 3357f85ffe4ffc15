package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/turfbook/live-scoring/internal/domain/clock"
	"github.com/turfbook/live-scoring/internal/domain/match"
	"github.com/turfbook/live-scoring/internal/domain/matchevent"
	"github.com/turfbook/live-scoring/internal/infrastructure/repository/memory"
	"github.com/turfbook/live-scoring/internal/platform/cache"
	"github.com/turfbook/live-scoring/internal/platform/logging"
	"github.com/turfbook/live-scoring/internal/usecase"
)

type seqIDGenerator struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDGenerator) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("id-%04d", g.n), nil
}

type inlinePool struct{}

func (inlinePool) Submit(task func()) error {
	task()
	return nil
}

type recordingNotifier struct {
	mu        sync.Mutex
	completed []string
	err       error
}

func (n *recordingNotifier) MatchCompleted(_ context.Context, m *match.Match) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.completed = append(n.completed, m.ID)
	return n.err
}

type recordingBroadcaster struct {
	mu       sync.Mutex
	payloads []any
}

func (b *recordingBroadcaster) BroadcastMatch(_ string, payload any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.payloads = append(b.payloads, payload)
}

func (b *recordingBroadcaster) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.payloads)
}

type testEnv struct {
	matches  *memory.MatchRepository
	events   *memory.EventRepository
	timers   *memory.TimerRepository
	matchSvc *usecase.MatchService
	cricket  *usecase.CricketService
	football *usecase.FootballService
	timerSvc *usecase.TimerService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	events := memory.NewEventRepository()
	matches := memory.NewMatchRepository(events)
	timers := memory.NewTimerRepository()
	clk := clock.New(nil)
	logger := logging.NewNop()

	matchSvc := usecase.NewMatchService(
		matches, events, timers, clk,
		&seqIDGenerator{},
		cache.NewStore(time.Minute),
		logger,
	)
	timerSvc := usecase.NewTimerService(timers, clk, logger)
	return &testEnv{
		matches:  matches,
		events:   events,
		timers:   timers,
		matchSvc: matchSvc,
		cricket:  usecase.NewCricketService(matchSvc, logger),
		football: usecase.NewFootballService(matchSvc, timerSvc, logger),
		timerSvc: timerSvc,
	}
}

func roster(teamID, name, prefix string, size, benchSize int) usecase.RosterInput {
	players := make([]match.Player, 0, size)
	for i := 1; i <= size; i++ {
		players = append(players, match.Player{
			ID:   fmt.Sprintf("%s-%02d", prefix, i),
			Name: fmt.Sprintf("%s %d", name, i),
		})
	}
	bench := make([]match.Player, 0, benchSize)
	for i := 1; i <= benchSize; i++ {
		bench = append(bench, match.Player{
			ID:   fmt.Sprintf("%s-sub-%02d", prefix, i),
			Name: fmt.Sprintf("%s sub %d", name, i),
		})
	}
	return usecase.RosterInput{TeamID: teamID, TeamName: name, Players: players, Substitutes: bench}
}

func createCricketMatch(t *testing.T, env *testEnv) *match.Match {
	t.Helper()
	m, err := env.matchSvc.Create(context.Background(), usecase.CreateMatchInput{
		Sport:     "cricket",
		MatchType: "T20",
		MaxOvers:  20,
		Team1:     roster("team-1", "Alpha", "a", 11, 0),
		Team2:     roster("team-2", "Beta", "b", 11, 0),
	})
	if err != nil {
		t.Fatalf("create cricket match: %v", err)
	}
	return m
}

func createFootballMatch(t *testing.T, env *testEnv) *match.Match {
	t.Helper()
	m, err := env.matchSvc.Create(context.Background(), usecase.CreateMatchInput{
		Sport: "FOOTBALL",
		Team1: roster("home", "Lions", "h", 11, 3),
		Team2: roster("away", "Tigers", "t", 11, 3),
	})
	if err != nil {
		t.Fatalf("create football match: %v", err)
	}
	return m
}

func TestCreateValidatesInput(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.matchSvc.Create(ctx, usecase.CreateMatchInput{Sport: "CHESS"}); !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("unknown sport error = %v, want ErrInvalidInput", err)
	}
	if _, err := env.matchSvc.Create(ctx, usecase.CreateMatchInput{
		Sport:    "CRICKET",
		MaxOvers: 20,
		Team1:    roster("same", "Alpha", "a", 11, 0),
		Team2:    roster("same", "Beta", "b", 11, 0),
	}); !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("duplicate team id error = %v, want ErrInvalidInput", err)
	}
	if _, err := env.matchSvc.Create(ctx, usecase.CreateMatchInput{
		Sport: "CRICKET",
		Team1: roster("team-1", "Alpha", "a", 11, 0),
		Team2: roster("team-2", "Beta", "b", 11, 0),
	}); !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("missing overs error = %v, want ErrInvalidInput", err)
	}
}

func TestCreateSetsUpSportState(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	cricketMatch := createCricketMatch(t, env)
	if cricketMatch.Cricket == nil || cricketMatch.Football != nil {
		t.Fatalf("cricket match state = %+v", cricketMatch)
	}
	if cricketMatch.Cricket.MaxOvers != 20 {
		t.Fatalf("max overs = %d, want 20", cricketMatch.Cricket.MaxOvers)
	}
	if cricketMatch.Version != 1 {
		t.Fatalf("version = %d, want 1", cricketMatch.Version)
	}

	footballMatch := createFootballMatch(t, env)
	if footballMatch.Football == nil || footballMatch.Cricket != nil {
		t.Fatalf("football match state = %+v", footballMatch)
	}
	if footballMatch.Football.Period != match.PeriodNotStarted {
		t.Fatalf("period = %s, want not started", footballMatch.Football.Period)
	}

	if _, _, err := env.timers.Get(context.Background(), footballMatch.ID); err != nil {
		t.Fatalf("timer lookup: %v", err)
	}
}

func TestGetUnknownMatch(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	if _, err := env.matchSvc.Get(context.Background(), "missing"); !errors.Is(err, usecase.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestViewComposesLedgerAndStats(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	m := createCricketMatch(t, env)

	if _, err := env.cricket.SelectBattingTeam(ctx, m.ID, "team-1"); err != nil {
		t.Fatalf("select batting team: %v", err)
	}
	if _, err := env.cricket.SelectStriker(ctx, m.ID, "a-01"); err != nil {
		t.Fatalf("select striker: %v", err)
	}
	if _, err := env.cricket.SelectNonStriker(ctx, m.ID, "a-02"); err != nil {
		t.Fatalf("select non-striker: %v", err)
	}
	if _, err := env.cricket.SelectBowler(ctx, m.ID, "b-01"); err != nil {
		t.Fatalf("select bowler: %v", err)
	}
	if _, _, err := env.cricket.RecordDelivery(ctx, m.ID, 4); err != nil {
		t.Fatalf("record delivery: %v", err)
	}

	view, err := env.matchSvc.View(ctx, m.ID)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if view.Match.Cricket.First.Runs != 4 {
		t.Fatalf("view runs = %d, want 4", view.Match.Cricket.First.Runs)
	}
	if len(view.Events) != 2 {
		t.Fatalf("view events = %d, want innings change + delivery", len(view.Events))
	}
	if view.PlayerStats["a-01"].Batting.Runs != 4 {
		t.Fatalf("striker runs = %d, want 4", view.PlayerStats["a-01"].Batting.Runs)
	}
	if view.TeamStats["team-1"].Score != 4 {
		t.Fatalf("team score = %d, want 4", view.TeamStats["team-1"].Score)
	}
}

func TestCommandBumpsVersionAndBroadcasts(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	caster := &recordingBroadcaster{}
	env.matchSvc.SetBroadcaster(caster)
	m := createCricketMatch(t, env)

	updated, err := env.cricket.SelectBattingTeam(ctx, m.ID, "team-1")
	if err != nil {
		t.Fatalf("select batting team: %v", err)
	}
	if updated.Version != 2 {
		t.Fatalf("version = %d, want 2", updated.Version)
	}
	if caster.count() == 0 {
		t.Fatalf("no broadcast after a command")
	}
}

func TestCommandRetriesOnVersionConflict(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	m := createCricketMatch(t, env)

	conflicting := &conflictOnceRepository{MatchRepository: env.matches}
	matchSvc := usecase.NewMatchService(
		conflicting, env.events, env.timers, clock.New(nil),
		&seqIDGenerator{}, nil, logging.NewNop(),
	)
	cricketSvc := usecase.NewCricketService(matchSvc, logging.NewNop())

	updated, err := cricketSvc.SelectBattingTeam(ctx, m.ID, "team-1")
	if err != nil {
		t.Fatalf("command did not survive one conflict: %v", err)
	}
	if updated.Cricket.First.BattingTeamID != "team-1" {
		t.Fatalf("command lost after retry")
	}
	if conflicting.saves < 2 {
		t.Fatalf("saves = %d, want a retry", conflicting.saves)
	}
}

// conflictOnceRepository fails the first save with a version conflict to force
// the retry path.
type conflictOnceRepository struct {
	*memory.MatchRepository
	saves int
}

func (r *conflictOnceRepository) Save(ctx context.Context, m *match.Match, expectedVersion int64, events ...matchevent.Event) error {
	r.saves++
	if r.saves == 1 {
		return match.ErrVersionConflict
	}
	return r.MatchRepository.Save(ctx, m, expectedVersion, events...)
}

func TestCompletionNotifierFires(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	notifier := &recordingNotifier{}
	env.matchSvc.SetCompletionNotifier(notifier, inlinePool{})
	m := createFootballMatch(t, env)

	advanceFootball(t, env, m.ID, match.PeriodFirstHalf)
	if _, _, err := env.football.RecordGoal(ctx, usecase.GoalInput{
		MatchID: m.ID, TeamID: "home", ScorerID: "h-09",
	}); err != nil {
		t.Fatalf("goal: %v", err)
	}
	advanceFootball(t, env, m.ID, match.PeriodHalfTime)
	advanceFootball(t, env, m.ID, match.PeriodSecondHalf)
	advanceFootball(t, env, m.ID, match.PeriodFullTime)

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if len(notifier.completed) != 1 || notifier.completed[0] != m.ID {
		t.Fatalf("notified = %v, want exactly the completed match", notifier.completed)
	}
}

func advanceFootball(t *testing.T, env *testEnv, matchID, target string) {
	t.Helper()
	if _, err := env.football.AdvancePeriod(context.Background(), usecase.AdvancePeriodInput{
		MatchID: matchID,
		Target:  target,
	}); err != nil {
		t.Fatalf("advance to %s: %v", target, err)
	}
}

// driftOffset lets a test move the server-corrected clock forward.
type driftOffset struct {
	mu    sync.Mutex
	delta time.Duration
}

func (o *driftOffset) Offset() time.Duration {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.delta
}

func (o *driftOffset) advance(d time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.delta += d
}

func TestViewLeavesCachedTimerReadingIntact(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	m := createCricketMatch(t, env)

	offset := &driftOffset{}
	clk := clock.New(offset)
	matchSvc := usecase.NewMatchService(
		env.matches, env.events, env.timers, clk,
		&seqIDGenerator{}, cache.NewStore(time.Minute), logging.NewNop(),
	)

	if err := env.timers.Put(ctx, clock.TimerState{
		MatchID:   m.ID,
		Running:   true,
		StartedAt: clk.Now(),
		UpdatedAt: clk.Now(),
	}); err != nil {
		t.Fatalf("seed timer: %v", err)
	}

	first, err := matchSvc.View(ctx, m.ID)
	if err != nil {
		t.Fatalf("first view: %v", err)
	}
	firstElapsed := first.Elapsed

	offset.advance(time.Hour)
	second, err := matchSvc.View(ctx, m.ID)
	if err != nil {
		t.Fatalf("second view: %v", err)
	}
	if second.Elapsed < firstElapsed+time.Hour {
		t.Fatalf("second elapsed = %s, want at least an hour past %s", second.Elapsed, firstElapsed)
	}
	if first.Elapsed != firstElapsed {
		t.Fatalf("earlier view changed by a later read: %s -> %s", firstElapsed, first.Elapsed)
	}
}
