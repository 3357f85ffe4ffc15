package cricket

import (
	"errors"
	"fmt"
	"time"

	"github.com/turfbook/live-scoring/internal/domain/match"
	"github.com/turfbook/live-scoring/internal/domain/matchevent"
	"github.com/turfbook/live-scoring/internal/domain/stats"
)

var (
	ErrMatchCompleted        = errors.New("match is already completed")
	ErrTeamSelectionClosed   = errors.New("batting team is already selected")
	ErrSelectionNotAllowed   = errors.New("selection is not allowed in the current phase")
	ErrBatsmanUnavailable    = errors.New("batsman is dismissed or already at the crease")
	ErrConsecutiveOverBowler = errors.New("bowler cannot bowl two consecutive overs")
	ErrBallNotInPlay         = errors.New("striker, non-striker and bowler must be selected before scoring")
	ErrInvalidRuns           = errors.New("runs must be between 0 and 6")
	ErrInvalidDismissal      = errors.New("unknown dismissal type")
	ErrRunOutChoiceRequired  = errors.New("run out requires choosing the dismissed batsman")
	ErrInvalidExtra          = errors.New("unknown extra kind")
	ErrInvalidExtraRuns      = errors.New("extra runs must be at least 1")
)

// Batsman-slot choices for a run out. Any other dismissal always removes the
// striker.
const (
	OutStriker    = "STRIKER"
	OutNonStriker = "NON_STRIKER"
	OutBoth       = "BOTH"
)

// SelectBattingTeam resolves the toss: teamID bats first, the opponent bowls.
// Roles are keyed by team ID from here on; innings two simply flips the IDs.
func SelectBattingTeam(m *match.Match, teamID string, at time.Time) ([]matchevent.Event, error) {
	state := m.Cricket
	if m.IsTerminal() {
		return nil, ErrMatchCompleted
	}
	if state.Phase() != match.PhaseAwaitingTeamSelection {
		return nil, ErrTeamSelectionClosed
	}
	batting, ok := m.TeamByID(teamID)
	if !ok {
		return nil, match.ErrUnknownTeam
	}
	bowling, _ := m.OpponentOf(teamID)

	state.CurrentInnings = 1
	state.First.BattingTeamID = batting.ID
	state.Second.BattingTeamID = bowling.ID
	m.Status = match.StatusInProgress

	event := newEvent(m, matchevent.TypeInningsChange, at)
	event.TeamID = batting.ID
	event.Detail = "INNINGS_1_STARTED"
	return []matchevent.Event{event}, nil
}

func SelectStriker(m *match.Match, playerID string) error {
	return selectBatsman(m, playerID, match.PhaseAwaitingStriker)
}

func SelectNonStriker(m *match.Match, playerID string) error {
	return selectBatsman(m, playerID, match.PhaseAwaitingNonStriker)
}

func selectBatsman(m *match.Match, playerID, wantPhase string) error {
	state := m.Cricket
	if m.IsTerminal() {
		return ErrMatchCompleted
	}
	if state.Phase() != wantPhase {
		return fmt.Errorf("%w: phase is %s", ErrSelectionNotAllowed, state.Phase())
	}
	innings := state.CurrentInningsState()
	batting, ok := m.TeamByID(innings.BattingTeamID)
	if !ok {
		return match.ErrUnknownTeam
	}
	if _, ok := batting.PlayerByID(playerID); !ok {
		return match.ErrUnknownPlayer
	}
	if innings.IsDismissed(playerID) || playerID == state.StrikerID || playerID == state.NonStrikerID {
		return ErrBatsmanUnavailable
	}

	if wantPhase == match.PhaseAwaitingStriker {
		state.StrikerID = playerID
	} else {
		state.NonStrikerID = playerID
	}
	return nil
}

// SelectBowler picks the bowler for the coming over. At an over boundary the
// previous over's bowler is rejected.
func SelectBowler(m *match.Match, playerID string) error {
	state := m.Cricket
	if m.IsTerminal() {
		return ErrMatchCompleted
	}
	if state.Phase() != match.PhaseAwaitingBowler {
		return fmt.Errorf("%w: phase is %s", ErrSelectionNotAllowed, state.Phase())
	}
	innings := state.CurrentInningsState()
	bowling, ok := m.OpponentOf(innings.BattingTeamID)
	if !ok {
		return match.ErrUnknownTeam
	}
	if _, ok := bowling.PlayerByID(playerID); !ok {
		return match.ErrUnknownPlayer
	}
	if state.BallsInOver == 0 && playerID == state.LastBowlerID {
		return ErrConsecutiveOverBowler
	}

	state.BowlerID = playerID
	return nil
}

// RecordDelivery applies one legal delivery for the given runs off the bat.
// Odd runs and over completion rotate the strike; over completion also clears
// the bowler selection. The innings completion rules run afterwards.
func RecordDelivery(m *match.Match, runs int, at time.Time) ([]matchevent.Event, error) {
	state := m.Cricket
	if err := requireBallInPlay(m); err != nil {
		return nil, err
	}
	if runs < 0 || runs > 6 {
		return nil, ErrInvalidRuns
	}

	innings := state.CurrentInningsState()
	striker, bowler := state.StrikerID, state.BowlerID

	innings.Runs += runs
	innings.Balls++
	state.BallsInOver++

	event := newEvent(m, matchevent.TypeDelivery, at)
	event.TeamID = innings.BattingTeamID
	event.PlayerID = striker
	event.PlayerName = playerName(m, innings.BattingTeamID, striker)
	event.SecondPlayerID = bowler
	event.SecondPlayer = playerName(m, bowlingTeamID(m), bowler)
	event.Runs = runs
	events := []matchevent.Event{event}

	if runs%2 == 1 {
		state.StrikerID, state.NonStrikerID = state.NonStrikerID, state.StrikerID
	}
	completeOverIfNeeded(state)

	events = append(events, finishScoringOp(m, at)...)
	return events, nil
}

type WicketInput struct {
	Dismissal string
	// Out selects the dismissed batsman for run outs; ignored otherwise.
	Out string
}

// RecordWicket consumes a legal delivery and removes the dismissed batsman
// (or batsmen, for a double run out). The bowler is credited for every
// dismissal type except a run out.
func RecordWicket(m *match.Match, input WicketInput, at time.Time) ([]matchevent.Event, error) {
	state := m.Cricket
	if err := requireBallInPlay(m); err != nil {
		return nil, err
	}
	dismissal := matchevent.NormalizeDismissal(input.Dismissal)
	if !matchevent.IsValidDismissal(dismissal) {
		return nil, ErrInvalidDismissal
	}

	out := input.Out
	if dismissal == matchevent.DismissalRunOut {
		switch out {
		case OutStriker, OutNonStriker, OutBoth:
		default:
			return nil, ErrRunOutChoiceRequired
		}
	} else {
		out = OutStriker
	}

	innings := state.CurrentInningsState()
	bowler := state.BowlerID

	innings.Balls++
	state.BallsInOver++

	var dismissed []string
	switch out {
	case OutStriker:
		dismissed = []string{state.StrikerID}
		state.StrikerID = ""
	case OutNonStriker:
		dismissed = []string{state.NonStrikerID}
		state.NonStrikerID = ""
	case OutBoth:
		dismissed = []string{state.StrikerID, state.NonStrikerID}
		state.StrikerID = ""
		state.NonStrikerID = ""
	}

	events := make([]matchevent.Event, 0, len(dismissed)+1)
	for i, batsmanID := range dismissed {
		innings.Wickets++
		innings.DismissedIDs = append(innings.DismissedIDs, batsmanID)

		event := newEvent(m, matchevent.TypeWicket, at)
		event.TeamID = innings.BattingTeamID
		event.PlayerID = batsmanID
		event.PlayerName = playerName(m, innings.BattingTeamID, batsmanID)
		event.Detail = dismissal
		// The delivery is attributed once; a second run-out victim on the
		// same ball carries no bowler reference.
		if i == 0 {
			event.SecondPlayerID = bowler
			event.SecondPlayer = playerName(m, bowlingTeamID(m), bowler)
		}
		events = append(events, event)
	}

	completeOverIfNeeded(state)
	events = append(events, finishScoringOp(m, at)...)
	return events, nil
}

// RecordExtra credits extras to the batting side. Wides and no-balls are
// charged to the bowler and do not consume a ball; byes and leg byes are
// legal deliveries and rotate the strike on odd runs.
func RecordExtra(m *match.Match, kind string, runs int, at time.Time) ([]matchevent.Event, error) {
	state := m.Cricket
	if err := requireBallInPlay(m); err != nil {
		return nil, err
	}
	if !matchevent.IsValidExtra(kind) {
		return nil, ErrInvalidExtra
	}
	if runs < 1 {
		return nil, ErrInvalidExtraRuns
	}

	innings := state.CurrentInningsState()
	innings.Runs += runs
	switch kind {
	case matchevent.ExtraWide:
		innings.Extras.Wides += runs
	case matchevent.ExtraNoBall:
		innings.Extras.NoBalls += runs
	case matchevent.ExtraBye:
		innings.Extras.Byes += runs
	case matchevent.ExtraLegBye:
		innings.Extras.LegByes += runs
	}

	countsBall := matchevent.CountsBall(kind)
	if countsBall {
		innings.Balls++
		state.BallsInOver++
		if runs%2 == 1 {
			state.StrikerID, state.NonStrikerID = state.NonStrikerID, state.StrikerID
		}
	}

	event := newEvent(m, matchevent.TypeExtra, at)
	event.TeamID = innings.BattingTeamID
	event.SecondPlayerID = state.BowlerID
	event.SecondPlayer = playerName(m, bowlingTeamID(m), state.BowlerID)
	event.Runs = runs
	event.Detail = kind
	events := []matchevent.Event{event}

	if countsBall {
		completeOverIfNeeded(state)
	}
	events = append(events, finishScoringOp(m, at)...)
	return events, nil
}

func requireBallInPlay(m *match.Match) error {
	if m.IsTerminal() {
		return ErrMatchCompleted
	}
	if m.Cricket.Phase() != match.PhaseBallInPlay {
		return fmt.Errorf("%w: phase is %s", ErrBallNotInPlay, m.Cricket.Phase())
	}
	return nil
}

func completeOverIfNeeded(state *match.CricketState) {
	if state.BallsInOver < 6 {
		return
	}
	state.BallsInOver = 0
	state.LastBowlerID = state.BowlerID
	state.BowlerID = ""
	state.StrikerID, state.NonStrikerID = state.NonStrikerID, state.StrikerID
}

func bowlingTeamID(m *match.Match) string {
	bowling, _ := m.OpponentOf(m.Cricket.CurrentInningsState().BattingTeamID)
	if bowling == nil {
		return ""
	}
	return bowling.ID
}

func playerName(m *match.Match, teamID, playerID string) string {
	team, ok := m.TeamByID(teamID)
	if !ok {
		return ""
	}
	player, ok := team.PlayerByID(playerID)
	if !ok {
		return ""
	}
	return player.Name
}

func newEvent(m *match.Match, eventType string, at time.Time) matchevent.Event {
	over := 0.0
	if m.Cricket != nil && m.Cricket.CurrentInnings > 0 {
		over = stats.OversNotation(m.Cricket.CurrentInningsState().Balls)
	}
	return matchevent.Event{
		MatchID:   m.ID,
		Time:      over,
		Type:      eventType,
		Timestamp: at,
	}
}
