package cricket

import (
	"time"

	"github.com/turfbook/live-scoring/internal/domain/match"
	"github.com/turfbook/live-scoring/internal/domain/matchevent"
	"github.com/turfbook/live-scoring/internal/domain/outcome"
	"github.com/turfbook/live-scoring/internal/domain/stats"
)

// finishScoringOp runs the innings completion rules after every scoring
// operation and drives the innings swap or the final result.
func finishScoringOp(m *match.Match, at time.Time) []matchevent.Event {
	state := m.Cricket
	reason, done := completionReason(m)
	if !done {
		return nil
	}

	innings := state.CurrentInningsState()
	innings.Completed = true
	innings.EndReason = reason

	if state.CurrentInnings == 1 {
		return startSecondInnings(m, at)
	}
	return completeMatch(m, at)
}

// completionReason evaluates the terminal rules in priority order: all out,
// overs exhausted, then for the chase the target rules. An exhausted second
// innings that ends one short of the target is a tie, not a plain
// overs-complete.
func completionReason(m *match.Match) (string, bool) {
	state := m.Cricket
	innings := state.CurrentInningsState()
	batting, ok := m.TeamByID(innings.BattingTeamID)
	if !ok {
		return "", false
	}

	allOut := innings.Wickets >= len(batting.Players)-1
	oversDone := innings.Balls >= state.MaxOvers*6

	if state.CurrentInnings == 1 {
		switch {
		case allOut:
			return match.InningsEndAllOut, true
		case oversDone:
			return match.InningsEndOversComplete, true
		default:
			return "", false
		}
	}

	target := state.Target
	switch {
	case innings.Runs >= target:
		return match.InningsEndTargetAchieved, true
	case allOut:
		return match.InningsEndAllOut, true
	case oversDone && innings.Runs == target-1:
		return match.InningsEndMatchTied, true
	case oversDone:
		return match.InningsEndOversComplete, true
	case innings.Runs+state.BallsRemaining()*6 < target:
		return match.InningsEndTargetImpossible, true
	default:
		return "", false
	}
}

func startSecondInnings(m *match.Match, at time.Time) []matchevent.Event {
	state := m.Cricket

	state.Target = state.First.Runs + 1
	state.RequiredRunRate = stats.Round2(float64(state.Target) / float64(state.MaxOvers))

	state.CurrentInnings = 2
	state.StrikerID = ""
	state.NonStrikerID = ""
	state.BowlerID = ""
	state.LastBowlerID = ""
	state.BallsInOver = 0

	event := matchevent.Event{
		MatchID:   m.ID,
		Time:      stats.OversNotation(state.First.Balls),
		Type:      matchevent.TypeInningsChange,
		TeamID:    state.Second.BattingTeamID,
		Detail:    "INNINGS_2_STARTED",
		Timestamp: at,
	}
	return []matchevent.Event{event}
}

func completeMatch(m *match.Match, at time.Time) []matchevent.Event {
	state := m.Cricket
	result := outcome.ResolveCricket(m)
	m.Result = &result
	m.Status = match.StatusCompleted

	event := matchevent.Event{
		MatchID:   m.ID,
		Time:      stats.OversNotation(state.Second.Balls),
		Type:      matchevent.TypePeriodChange,
		TeamID:    state.Second.BattingTeamID,
		Detail:    state.Second.EndReason,
		Timestamp: at,
	}
	return []matchevent.Event{event}
}
