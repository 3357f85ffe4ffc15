package football

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/turfbook/live-scoring/internal/domain/match"
	"github.com/turfbook/live-scoring/internal/domain/matchevent"
	"github.com/turfbook/live-scoring/internal/domain/outcome"
)

var (
	ErrMatchCompleted       = errors.New("match is already completed")
	ErrNotPlayingPeriod     = errors.New("operation requires play to be in progress")
	ErrIllegalTransition    = errors.New("illegal period transition")
	ErrTieBreakRequired     = errors.New("scores are level: an explicit tie-break choice is required")
	ErrNoTieBreakPending    = errors.New("no tie-break decision is pending")
	ErrUnknownTieBreak      = errors.New("unknown tie-break choice")
	ErrUnknownCard          = errors.New("card must be yellow or red")
	ErrUnknownStatKind      = errors.New("unknown match stat kind")
	ErrInvalidPossession    = errors.New("possession must be between 0 and 100")
	ErrNotInPenalties       = errors.New("operation requires the penalty shootout")
	ErrPlayerNotInLineup    = errors.New("outgoing player is not in the starting lineup")
	ErrPlayerNotOnBench     = errors.New("incoming player is not on the bench")
	ErrSamePlayerBothWays   = errors.New("a substitution needs two different players")
	ErrPeriodNotCompletable = errors.New("match can only be completed from full time, extra time or penalties")
)

const (
	CardYellow = "YELLOW"
	CardRed    = "RED"
)

// legalTransitions is the period state machine. Entry into Completed goes
// through CompleteMatch or ResolveTieBreak, never through AdvancePeriod.
var legalTransitions = map[string][]string{
	match.PeriodNotStarted:      {match.PeriodFirstHalf},
	match.PeriodFirstHalf:       {match.PeriodHalfTime},
	match.PeriodHalfTime:        {match.PeriodSecondHalf},
	match.PeriodSecondHalf:      {match.PeriodFullTime},
	match.PeriodFullTime:        {match.PeriodExtraTimeFirst, match.PeriodPenalties},
	match.PeriodExtraTimeFirst:  {match.PeriodExtraTimeBreak},
	match.PeriodExtraTimeBreak:  {match.PeriodExtraTimeSecond},
	match.PeriodExtraTimeSecond: {match.PeriodFullTime},
	match.PeriodPenalties:       {},
}

// ClockPlan tells the caller what to do with the shared timer when a period
// transition is applied.
type ClockPlan struct {
	Stop   bool
	Rebase bool
	BaseAt time.Duration
	Start  bool
	Label  string
}

type AdvanceInput struct {
	Target string
	// ContinueClock applies only when entering the second half: continue from
	// the first-half elapsed time instead of restarting at 45:00. The choice
	// is persisted so minute labels stay consistent for the rest of the match.
	ContinueClock bool
}

// AdvancePeriod moves the match into the target period and reports how the
// timer must be stopped/rebased for it. Reaching FullTime with level scores
// never completes the match: it arms the operator's three-way tie-break
// choice instead. With a lead, the match completes immediately.
func AdvancePeriod(m *match.Match, input AdvanceInput, minute float64, at time.Time) ([]matchevent.Event, ClockPlan, error) {
	state := m.Football
	if m.IsTerminal() {
		return nil, ClockPlan{}, ErrMatchCompleted
	}
	if state.PendingTieBreak {
		return nil, ClockPlan{}, ErrTieBreakRequired
	}
	target := strings.ToUpper(strings.TrimSpace(input.Target))
	if !transitionAllowed(state.Period, target) {
		return nil, ClockPlan{}, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, state.Period, target)
	}

	from := state.Period
	state.Period = target
	if m.Status == match.StatusNotStarted {
		m.Status = match.StatusInProgress
	}

	plan := clockPlanFor(state, target, input.ContinueClock)

	events := []matchevent.Event{periodEvent(m, from, target, minute, at)}

	if target == match.PeriodFullTime {
		if state.IsLevel() {
			state.PendingTieBreak = true
		} else {
			events = append(events, completeWithResult(m, false, minute, at))
		}
	}
	return events, plan, nil
}

func transitionAllowed(from, to string) bool {
	for _, allowed := range legalTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func clockPlanFor(state *match.FootballState, target string, continueClock bool) ClockPlan {
	switch target {
	case match.PeriodFirstHalf:
		return ClockPlan{Rebase: true, BaseAt: 0, Start: true, Label: target}
	case match.PeriodSecondHalf:
		if continueClock {
			state.SecondHalfContinued = true
			return ClockPlan{Start: true, Label: target}
		}
		state.SecondHalfContinued = false
		return ClockPlan{Rebase: true, BaseAt: 45 * time.Minute, Start: true, Label: target}
	case match.PeriodExtraTimeFirst:
		state.ExtraTimePlayed = true
		return ClockPlan{Rebase: true, BaseAt: 90 * time.Minute, Start: true, Label: target}
	case match.PeriodExtraTimeSecond:
		return ClockPlan{Rebase: true, BaseAt: 105 * time.Minute, Start: true, Label: target}
	default:
		return ClockPlan{Stop: true, Label: target}
	}
}

// ResolveTieBreak applies the operator's choice after a level full time
// (including the one re-offered after extra time).
func ResolveTieBreak(m *match.Match, choice string, minute float64, at time.Time) ([]matchevent.Event, ClockPlan, error) {
	state := m.Football
	if m.IsTerminal() {
		return nil, ClockPlan{}, ErrMatchCompleted
	}
	if !state.PendingTieBreak {
		return nil, ClockPlan{}, ErrNoTieBreakPending
	}

	state.PendingTieBreak = false
	switch strings.ToUpper(strings.TrimSpace(choice)) {
	case match.TieBreakExtraTime:
		if state.ExtraTimePlayed {
			state.PendingTieBreak = true
			return nil, ClockPlan{}, fmt.Errorf("%w: extra time has already been played", ErrUnknownTieBreak)
		}
		from := state.Period
		state.Period = match.PeriodExtraTimeFirst
		plan := clockPlanFor(state, match.PeriodExtraTimeFirst, false)
		return []matchevent.Event{periodEvent(m, from, state.Period, minute, at)}, plan, nil
	case match.TieBreakPenalties:
		from := state.Period
		state.Period = match.PeriodPenalties
		return []matchevent.Event{periodEvent(m, from, state.Period, minute, at)}, ClockPlan{Stop: true, Label: state.Period}, nil
	case match.TieBreakDraw:
		return []matchevent.Event{completeWithResult(m, false, minute, at)}, ClockPlan{Stop: true, Label: match.PeriodCompleted}, nil
	default:
		state.PendingTieBreak = true
		return nil, ClockPlan{}, ErrUnknownTieBreak
	}
}

func RecordGoal(m *match.Match, teamID, scorerID, assisterID string, minute float64, at time.Time) ([]matchevent.Event, error) {
	state := m.Football
	if err := requirePlay(m); err != nil {
		return nil, err
	}
	team, ok := m.TeamByID(teamID)
	if !ok {
		return nil, match.ErrUnknownTeam
	}
	if _, ok := team.PlayerByID(scorerID); !ok {
		return nil, match.ErrUnknownPlayer
	}
	if assisterID != "" {
		if _, ok := team.PlayerByID(assisterID); !ok {
			return nil, match.ErrUnknownPlayer
		}
	}

	state.Scores[teamID]++

	event := newEvent(m, matchevent.TypeGoal, minute, at)
	event.TeamID = teamID
	event.PlayerID = scorerID
	event.PlayerName = teamPlayerName(team, scorerID)
	event.SecondPlayerID = assisterID
	event.SecondPlayer = teamPlayerName(team, assisterID)
	return []matchevent.Event{event}, nil
}

func RecordCard(m *match.Match, teamID, playerID, card string, minute float64, at time.Time) ([]matchevent.Event, error) {
	state := m.Football
	if err := requirePlay(m); err != nil {
		return nil, err
	}
	team, ok := m.TeamByID(teamID)
	if !ok {
		return nil, match.ErrUnknownTeam
	}
	if _, ok := team.PlayerByID(playerID); !ok {
		return nil, match.ErrUnknownPlayer
	}

	eventType := ""
	teamStats := state.Stats[teamID]
	switch strings.ToUpper(strings.TrimSpace(card)) {
	case CardYellow:
		eventType = matchevent.TypeYellowCard
		teamStats.YellowCards++
	case CardRed:
		eventType = matchevent.TypeRedCard
		teamStats.RedCards++
	default:
		return nil, ErrUnknownCard
	}
	state.Stats[teamID] = teamStats

	event := newEvent(m, eventType, minute, at)
	event.TeamID = teamID
	event.PlayerID = playerID
	event.PlayerName = teamPlayerName(team, playerID)
	return []matchevent.Event{event}, nil
}

// RecordSubstitution swaps playerOut from the starting lineup with playerIn
// from the bench. After the call neither player appears in both lists.
func RecordSubstitution(m *match.Match, teamID, playerOutID, playerInID string, minute float64, at time.Time) ([]matchevent.Event, error) {
	if err := requirePlay(m); err != nil {
		return nil, err
	}
	team, ok := m.TeamByID(teamID)
	if !ok {
		return nil, match.ErrUnknownTeam
	}
	if playerOutID == playerInID {
		return nil, ErrSamePlayerBothWays
	}
	if !team.InStartingLineup(playerOutID) {
		return nil, ErrPlayerNotInLineup
	}
	if !team.OnBench(playerInID) {
		return nil, ErrPlayerNotOnBench
	}

	var outgoing, incoming match.Player
	kept := team.Players[:0]
	for _, p := range team.Players {
		if p.ID == playerOutID {
			outgoing = p
			continue
		}
		kept = append(kept, p)
	}
	team.Players = kept

	bench := team.Substitutes[:0]
	for _, p := range team.Substitutes {
		if p.ID == playerInID {
			incoming = p
			continue
		}
		bench = append(bench, p)
	}
	team.Substitutes = append(bench, outgoing)
	team.Players = append(team.Players, incoming)

	event := newEvent(m, matchevent.TypeSubstitution, minute, at)
	event.TeamID = teamID
	event.PlayerID = outgoing.ID
	event.PlayerName = outgoing.Name
	event.SecondPlayerID = incoming.ID
	event.SecondPlayer = incoming.Name
	return []matchevent.Event{event}, nil
}

type StatInput struct {
	Kind string
	// Possession replaces the team's share; all other kinds increment.
	Possession int
}

// RecordMatchStat updates the simple counters. Possession is kept
// complementary: the two teams always sum to 100.
func RecordMatchStat(m *match.Match, teamID string, input StatInput, minute float64, at time.Time) ([]matchevent.Event, error) {
	state := m.Football
	if err := requirePlay(m); err != nil {
		return nil, err
	}
	if _, ok := m.TeamByID(teamID); !ok {
		return nil, match.ErrUnknownTeam
	}
	opponent, _ := m.OpponentOf(teamID)

	kind := strings.ToUpper(strings.TrimSpace(input.Kind))
	eventType := ""
	teamStats := state.Stats[teamID]
	switch kind {
	case "POSSESSION":
		if input.Possession < 0 || input.Possession > 100 {
			return nil, ErrInvalidPossession
		}
		state.Possession[teamID] = input.Possession
		state.Possession[opponent.ID] = 100 - input.Possession
		return nil, nil
	case match.StatShots:
		teamStats.Shots++
	case match.StatCorners:
		teamStats.Corners++
		eventType = matchevent.TypeCorner
	case match.StatFouls:
		teamStats.Fouls++
		eventType = matchevent.TypeFoul
	case match.StatOffside:
		teamStats.Offsides++
		eventType = matchevent.TypeOffside
	default:
		return nil, ErrUnknownStatKind
	}
	state.Stats[teamID] = teamStats

	if eventType == "" {
		return nil, nil
	}
	event := newEvent(m, eventType, minute, at)
	event.TeamID = teamID
	return []matchevent.Event{event}, nil
}

// AdjustPenalty moves a team's shootout score by delta, floored at zero.
func AdjustPenalty(m *match.Match, teamID string, delta int, at time.Time) ([]matchevent.Event, error) {
	state := m.Football
	if m.IsTerminal() {
		return nil, ErrMatchCompleted
	}
	if state.Period != match.PeriodPenalties {
		return nil, ErrNotInPenalties
	}
	if _, ok := m.TeamByID(teamID); !ok {
		return nil, match.ErrUnknownTeam
	}

	next := state.Penalties[teamID] + delta
	if next < 0 {
		next = 0
	}
	state.Penalties[teamID] = next

	if delta <= 0 {
		return nil, nil
	}
	event := newEvent(m, matchevent.TypePenalty, 0, at)
	event.TeamID = teamID
	return []matchevent.Event{event}, nil
}

// CompleteMatch closes the match from full time, after extra time, or at the
// end of the shootout, attaching the resolved result.
func CompleteMatch(m *match.Match, minute float64, at time.Time) ([]matchevent.Event, error) {
	state := m.Football
	if m.IsTerminal() {
		return nil, ErrMatchCompleted
	}
	switch state.Period {
	case match.PeriodFullTime, match.PeriodPenalties:
	default:
		return nil, ErrPeriodNotCompletable
	}
	if state.Period == match.PeriodFullTime && state.IsLevel() && !state.PendingTieBreak {
		// Nothing to decide; level full time always goes through the
		// tie-break choice first.
		return nil, ErrTieBreakRequired
	}
	if state.PendingTieBreak {
		return nil, ErrTieBreakRequired
	}

	return []matchevent.Event{completeWithResult(m, state.Period == match.PeriodPenalties, minute, at)}, nil
}

func requirePlay(m *match.Match) error {
	if m.IsTerminal() {
		return ErrMatchCompleted
	}
	if !m.Football.IsPlayingPeriod() {
		return fmt.Errorf("%w: period is %s", ErrNotPlayingPeriod, m.Football.Period)
	}
	return nil
}

func completeWithResult(m *match.Match, onPenalties bool, minute float64, at time.Time) matchevent.Event {
	state := m.Football
	result := outcome.ResolveFootball(m, onPenalties)
	m.Result = &result
	m.Status = match.StatusCompleted
	state.Period = match.PeriodCompleted
	state.PendingTieBreak = false

	event := newEvent(m, matchevent.TypePeriodChange, minute, at)
	event.Detail = "MATCH_COMPLETED"
	return event
}

func periodEvent(m *match.Match, from, to string, minute float64, at time.Time) matchevent.Event {
	event := newEvent(m, matchevent.TypePeriodChange, minute, at)
	event.Detail = from + "->" + to
	return event
}

func newEvent(m *match.Match, eventType string, minute float64, at time.Time) matchevent.Event {
	return matchevent.Event{
		MatchID:   m.ID,
		Time:      minute,
		Type:      eventType,
		Timestamp: at,
	}
}

func teamPlayerName(team *match.Team, playerID string) string {
	if playerID == "" {
		return ""
	}
	player, ok := team.PlayerByID(playerID)
	if !ok {
		return ""
	}
	return player.Name
}
