package match

import "slices"

// Cricket innings phases, derived from the current selections rather than
// stored, so the state machine cannot disagree with the data it guards.
const (
	PhaseAwaitingTeamSelection = "AWAITING_TEAM_SELECTION"
	PhaseAwaitingStriker       = "AWAITING_STRIKER"
	PhaseAwaitingNonStriker    = "AWAITING_NON_STRIKER"
	PhaseAwaitingBowler        = "AWAITING_BOWLER"
	PhaseBallInPlay            = "BALL_IN_PLAY"
	PhaseInningsComplete       = "INNINGS_COMPLETE"
)

const (
	InningsEndAllOut           = "ALL_OUT"
	InningsEndOversComplete    = "OVERS_COMPLETE"
	InningsEndTargetAchieved   = "TARGET_ACHIEVED"
	InningsEndTargetImpossible = "TARGET_IMPOSSIBLE"
	InningsEndMatchTied        = "MATCH_TIED"
)

type CricketState struct {
	MatchType      string
	MaxOvers       int
	CurrentInnings int
	First          InningsState
	Second         InningsState

	StrikerID    string
	NonStrikerID string
	BowlerID     string
	// LastBowlerID enforces the no-consecutive-overs rule at over boundaries.
	LastBowlerID string
	BallsInOver  int

	Target          int
	RequiredRunRate float64
}

// InningsState keys batting by team ID only. Which positional slot the team
// occupies in the envelope is irrelevant to the engine.
type InningsState struct {
	BattingTeamID string
	Runs          int
	Wickets       int
	Balls         int
	Extras        ExtrasTally
	Completed     bool
	EndReason     string
	DismissedIDs  []string
}

type ExtrasTally struct {
	Wides   int
	NoBalls int
	Byes    int
	LegByes int
}

func (e ExtrasTally) Total() int {
	return e.Wides + e.NoBalls + e.Byes + e.LegByes
}

func (s *CricketState) CurrentInningsState() *InningsState {
	if s.CurrentInnings == 2 {
		return &s.Second
	}
	return &s.First
}

func (s *CricketState) BattingTeamID() string {
	return s.CurrentInningsState().BattingTeamID
}

// Phase reports the sub-state of the innings state machine.
func (s *CricketState) Phase() string {
	if s.CurrentInnings == 0 {
		return PhaseAwaitingTeamSelection
	}
	innings := s.CurrentInningsState()
	if innings.Completed {
		return PhaseInningsComplete
	}
	switch {
	case s.StrikerID == "":
		return PhaseAwaitingStriker
	case s.NonStrikerID == "":
		return PhaseAwaitingNonStriker
	case s.BowlerID == "":
		return PhaseAwaitingBowler
	default:
		return PhaseBallInPlay
	}
}

func (s *InningsState) IsDismissed(playerID string) bool {
	return slices.Contains(s.DismissedIDs, playerID)
}

// BallsRemaining against the configured overs limit.
func (s *CricketState) BallsRemaining() int {
	remaining := s.MaxOvers*6 - s.CurrentInningsState().Balls
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (s *CricketState) clone() CricketState {
	out := *s
	out.First.DismissedIDs = append([]string(nil), s.First.DismissedIDs...)
	out.Second.DismissedIDs = append([]string(nil), s.Second.DismissedIDs...)
	return out
}
