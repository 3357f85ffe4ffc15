package football_test

import (
	"errors"
	"testing"
	"time"

	"github.com/turfbook/live-scoring/internal/domain/football"
	"github.com/turfbook/live-scoring/internal/domain/match"
	"github.com/turfbook/live-scoring/internal/domain/matchevent"
)

var testNow = time.Date(2026, 8, 29, 20, 0, 0, 0, time.UTC)

func newFootballMatch(t *testing.T) *match.Match {
	t.Helper()
	team := func(id, prefix string) match.Team {
		players := make([]match.Player, 0, 11)
		for i := 1; i <= 11; i++ {
			players = append(players, match.Player{ID: prefix + string(rune('a'+i-1)), Name: prefix})
		}
		subs := []match.Player{
			{ID: prefix + "-sub1", Name: prefix},
			{ID: prefix + "-sub2", Name: prefix},
		}
		return match.Team{ID: id, Name: prefix, Players: players, Substitutes: subs}
	}
	m := &match.Match{
		ID:     "match-2",
		Sport:  match.SportFootball,
		Status: match.StatusNotStarted,
		Team1:  team("home", "lions"),
		Team2:  team("away", "tigers"),
	}
	m.Football = match.NewFootballState(m.Team1.ID, m.Team2.ID)
	return m
}

func advance(t *testing.T, m *match.Match, target string) football.ClockPlan {
	t.Helper()
	_, plan, err := football.AdvancePeriod(m, football.AdvanceInput{Target: target}, 0, testNow)
	if err != nil {
		t.Fatalf("advance to %s: %v", target, err)
	}
	return plan
}

func TestPeriodTransitionsAndClockPlan(t *testing.T) {
	t.Parallel()

	m := newFootballMatch(t)
	if _, _, err := football.AdvancePeriod(m, football.AdvanceInput{Target: match.PeriodSecondHalf}, 0, testNow); !errors.Is(err, football.ErrIllegalTransition) {
		t.Fatalf("skip to second half error = %v, want ErrIllegalTransition", err)
	}

	plan := advance(t, m, match.PeriodFirstHalf)
	if !plan.Rebase || plan.BaseAt != 0 || !plan.Start {
		t.Fatalf("first half plan = %+v, want rebase to 0 and start", plan)
	}
	if m.Status != match.StatusInProgress {
		t.Fatalf("status = %s, want in progress", m.Status)
	}

	plan = advance(t, m, match.PeriodHalfTime)
	if !plan.Stop {
		t.Fatalf("half time plan = %+v, want stop", plan)
	}

	plan = advance(t, m, match.PeriodSecondHalf)
	if !plan.Rebase || plan.BaseAt != 45*time.Minute {
		t.Fatalf("second half plan = %+v, want rebase to 45:00", plan)
	}
	if m.Football.SecondHalfContinued {
		t.Fatalf("second half marked as continued")
	}
}

func TestSecondHalfCanContinueClock(t *testing.T) {
	t.Parallel()

	m := newFootballMatch(t)
	advance(t, m, match.PeriodFirstHalf)
	advance(t, m, match.PeriodHalfTime)

	_, plan, err := football.AdvancePeriod(m, football.AdvanceInput{
		Target:        match.PeriodSecondHalf,
		ContinueClock: true,
	}, 45, testNow)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if plan.Rebase {
		t.Fatalf("continued clock still rebased: %+v", plan)
	}
	if !plan.Start {
		t.Fatalf("continued clock not started: %+v", plan)
	}
	if !m.Football.SecondHalfContinued {
		t.Fatalf("continuation not persisted")
	}
}

func TestLevelFullTimeArmsTieBreak(t *testing.T) {
	t.Parallel()

	m := newFootballMatch(t)
	advance(t, m, match.PeriodFirstHalf)
	advance(t, m, match.PeriodHalfTime)
	advance(t, m, match.PeriodSecondHalf)

	if _, err := football.RecordGoal(m, "home", "lionsa", "", 30, testNow); err != nil {
		t.Fatalf("home goal: %v", err)
	}
	if _, err := football.RecordGoal(m, "away", "tigersa", "", 60, testNow); err != nil {
		t.Fatalf("away goal: %v", err)
	}

	advance(t, m, match.PeriodFullTime)
	if m.IsTerminal() {
		t.Fatalf("level match completed without a tie-break choice")
	}
	if !m.Football.PendingTieBreak {
		t.Fatalf("tie-break not pending")
	}
	if _, err := football.CompleteMatch(m, 90, testNow); !errors.Is(err, football.ErrTieBreakRequired) {
		t.Fatalf("complete while pending error = %v, want ErrTieBreakRequired", err)
	}
	if _, _, err := football.AdvancePeriod(m, football.AdvanceInput{Target: match.PeriodExtraTimeFirst}, 90, testNow); !errors.Is(err, football.ErrTieBreakRequired) {
		t.Fatalf("advance while pending error = %v, want ErrTieBreakRequired", err)
	}
}

func TestLeadAtFullTimeCompletesMatch(t *testing.T) {
	t.Parallel()

	m := newFootballMatch(t)
	advance(t, m, match.PeriodFirstHalf)
	if _, err := football.RecordGoal(m, "home", "lionsa", "lionsb", 12, testNow); err != nil {
		t.Fatalf("goal: %v", err)
	}
	advance(t, m, match.PeriodHalfTime)
	advance(t, m, match.PeriodSecondHalf)
	advance(t, m, match.PeriodFullTime)

	if m.Status != match.StatusCompleted {
		t.Fatalf("status = %s, want completed", m.Status)
	}
	result := m.Result
	if result == nil || result.WinnerTeamID != "home" || result.Method != match.MethodGoals {
		t.Fatalf("result = %+v, want home by goals", result)
	}
	if result.Margin != "1-0" {
		t.Fatalf("margin = %q, want 1-0", result.Margin)
	}
}

func TestPenaltyShootoutResolution(t *testing.T) {
	t.Parallel()

	m := newFootballMatch(t)
	advance(t, m, match.PeriodFirstHalf)
	advance(t, m, match.PeriodHalfTime)
	advance(t, m, match.PeriodSecondHalf)
	if _, err := football.RecordGoal(m, "home", "lionsa", "", 50, testNow); err != nil {
		t.Fatalf("home goal: %v", err)
	}
	if _, err := football.RecordGoal(m, "away", "tigersa", "", 70, testNow); err != nil {
		t.Fatalf("away goal: %v", err)
	}
	advance(t, m, match.PeriodFullTime)

	if _, _, err := football.ResolveTieBreak(m, "COIN_TOSS", 90, testNow); !errors.Is(err, football.ErrUnknownTieBreak) {
		t.Fatalf("unknown choice error = %v, want ErrUnknownTieBreak", err)
	}
	events, plan, err := football.ResolveTieBreak(m, match.TieBreakPenalties, 90, testNow)
	if err != nil {
		t.Fatalf("resolve to penalties: %v", err)
	}
	if !plan.Stop {
		t.Fatalf("shootout plan = %+v, want clock stopped", plan)
	}
	if len(events) != 1 || events[0].Type != matchevent.TypePeriodChange {
		t.Fatalf("events = %+v, want one period change", events)
	}

	for i := 0; i < 4; i++ {
		if _, err := football.AdjustPenalty(m, "home", 1, testNow); err != nil {
			t.Fatalf("home penalty: %v", err)
		}
	}
	for i := 0; i < 3; i++ {
		if _, err := football.AdjustPenalty(m, "away", 1, testNow); err != nil {
			t.Fatalf("away penalty: %v", err)
		}
	}
	if _, err := football.AdjustPenalty(m, "away", -5, testNow); err != nil {
		t.Fatalf("correction: %v", err)
	}
	if got := m.Football.Penalties["away"]; got != 0 {
		t.Fatalf("penalties floored at %d, want 0", got)
	}
	for i := 0; i < 3; i++ {
		if _, err := football.AdjustPenalty(m, "away", 1, testNow); err != nil {
			t.Fatalf("away penalty: %v", err)
		}
	}

	if _, err := football.CompleteMatch(m, 90, testNow); err != nil {
		t.Fatalf("complete: %v", err)
	}
	result := m.Result
	if result == nil || result.WinnerTeamID != "home" || result.Method != match.MethodPenalties {
		t.Fatalf("result = %+v, want home on penalties", result)
	}
	if result.Summary != "lions wins 4-3 on penalties" {
		t.Fatalf("summary = %q", result.Summary)
	}
	if m.Football.Period != match.PeriodCompleted {
		t.Fatalf("period = %s, want completed", m.Football.Period)
	}
}

func TestExtraTimeStillLevelReoffersTieBreak(t *testing.T) {
	t.Parallel()

	m := newFootballMatch(t)
	advance(t, m, match.PeriodFirstHalf)
	advance(t, m, match.PeriodHalfTime)
	advance(t, m, match.PeriodSecondHalf)
	advance(t, m, match.PeriodFullTime)

	_, plan, err := football.ResolveTieBreak(m, match.TieBreakExtraTime, 90, testNow)
	if err != nil {
		t.Fatalf("resolve to extra time: %v", err)
	}
	if !plan.Rebase || plan.BaseAt != 90*time.Minute {
		t.Fatalf("extra time plan = %+v, want rebase to 90:00", plan)
	}

	advance(t, m, match.PeriodExtraTimeBreak)
	plan = advance(t, m, match.PeriodExtraTimeSecond)
	if !plan.Rebase || plan.BaseAt != 105*time.Minute {
		t.Fatalf("second extra time plan = %+v, want rebase to 105:00", plan)
	}

	advance(t, m, match.PeriodFullTime)
	if !m.Football.PendingTieBreak {
		t.Fatalf("tie-break not re-armed after level extra time")
	}
	if _, _, err := football.ResolveTieBreak(m, match.TieBreakExtraTime, 120, testNow); !errors.Is(err, football.ErrUnknownTieBreak) {
		t.Fatalf("second extra time error = %v, want rejection", err)
	}
	if !m.Football.PendingTieBreak {
		t.Fatalf("rejected choice consumed the pending tie-break")
	}

	events, _, err := football.ResolveTieBreak(m, match.TieBreakDraw, 120, testNow)
	if err != nil {
		t.Fatalf("end as draw: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	result := m.Result
	if result == nil || result.Method != match.MethodDraw {
		t.Fatalf("result = %+v, want draw", result)
	}
}

func TestSubstitutionKeepsListsDisjoint(t *testing.T) {
	t.Parallel()

	m := newFootballMatch(t)
	advance(t, m, match.PeriodFirstHalf)

	if _, err := football.RecordSubstitution(m, "home", "lions-sub1", "lionsa", 60, testNow); !errors.Is(err, football.ErrPlayerNotInLineup) {
		t.Fatalf("reversed substitution error = %v, want ErrPlayerNotInLineup", err)
	}
	events, err := football.RecordSubstitution(m, "home", "lionsa", "lions-sub1", 60, testNow)
	if err != nil {
		t.Fatalf("substitution: %v", err)
	}
	team := &m.Team1
	if team.InStartingLineup("lionsa") || !team.OnBench("lionsa") {
		t.Fatalf("outgoing player not moved to bench")
	}
	if !team.InStartingLineup("lions-sub1") || team.OnBench("lions-sub1") {
		t.Fatalf("incoming player not moved to lineup")
	}
	if len(team.Players) != 11 || len(team.Substitutes) != 2 {
		t.Fatalf("roster sizes changed: %d/%d", len(team.Players), len(team.Substitutes))
	}
	if events[0].PlayerID != "lionsa" || events[0].SecondPlayerID != "lions-sub1" {
		t.Fatalf("substitution event = %+v", events[0])
	}
	if _, err := football.RecordGoal(m, "home", "lions-sub1", "", 70, testNow); err != nil {
		t.Fatalf("goal by substitute: %v", err)
	}
}

func TestPossessionStaysComplementary(t *testing.T) {
	t.Parallel()

	m := newFootballMatch(t)
	advance(t, m, match.PeriodFirstHalf)

	if m.Football.Possession["home"]+m.Football.Possession["away"] != 100 {
		t.Fatalf("initial possession does not sum to 100")
	}
	if _, err := football.RecordMatchStat(m, "home", football.StatInput{Kind: "POSSESSION", Possession: 62}, 30, testNow); err != nil {
		t.Fatalf("set possession: %v", err)
	}
	if m.Football.Possession["home"] != 62 || m.Football.Possession["away"] != 38 {
		t.Fatalf("possession = %d/%d, want 62/38", m.Football.Possession["home"], m.Football.Possession["away"])
	}
	if _, err := football.RecordMatchStat(m, "home", football.StatInput{Kind: "POSSESSION", Possession: 101}, 30, testNow); !errors.Is(err, football.ErrInvalidPossession) {
		t.Fatalf("out-of-range possession error = %v, want ErrInvalidPossession", err)
	}
}

func TestCardsAndStatsAccumulate(t *testing.T) {
	t.Parallel()

	m := newFootballMatch(t)
	advance(t, m, match.PeriodFirstHalf)

	if _, err := football.RecordCard(m, "away", "tigersb", "yellow", 20, testNow); err != nil {
		t.Fatalf("yellow card: %v", err)
	}
	if _, err := football.RecordCard(m, "away", "tigersb", football.CardRed, 55, testNow); err != nil {
		t.Fatalf("red card: %v", err)
	}
	if _, err := football.RecordCard(m, "away", "tigersb", "BLUE", 55, testNow); !errors.Is(err, football.ErrUnknownCard) {
		t.Fatalf("unknown card error = %v, want ErrUnknownCard", err)
	}

	events, err := football.RecordMatchStat(m, "home", football.StatInput{Kind: match.StatCorners}, 33, testNow)
	if err != nil {
		t.Fatalf("corner: %v", err)
	}
	if len(events) != 1 || events[0].Type != matchevent.TypeCorner {
		t.Fatalf("corner events = %+v", events)
	}
	if _, err := football.RecordMatchStat(m, "home", football.StatInput{Kind: match.StatShots}, 34, testNow); err != nil {
		t.Fatalf("shot: %v", err)
	}

	away := m.Football.Stats["away"]
	if away.YellowCards != 1 || away.RedCards != 1 {
		t.Fatalf("away cards = %d/%d, want 1/1", away.YellowCards, away.RedCards)
	}
	home := m.Football.Stats["home"]
	if home.Corners != 1 || home.Shots != 1 {
		t.Fatalf("home stats = %+v", home)
	}
}
