package match

const (
	PeriodNotStarted      = "NOT_STARTED"
	PeriodFirstHalf       = "FIRST_HALF"
	PeriodHalfTime        = "HALF_TIME"
	PeriodSecondHalf      = "SECOND_HALF"
	PeriodFullTime        = "FULL_TIME"
	PeriodExtraTimeFirst  = "EXTRA_TIME_FIRST"
	PeriodExtraTimeBreak  = "EXTRA_TIME_BREAK"
	PeriodExtraTimeSecond = "EXTRA_TIME_SECOND"
	PeriodPenalties       = "PENALTIES"
	PeriodCompleted       = "COMPLETED"
)

// Tie-break choices offered to the operator when regulation (or extra time)
// ends level. A tied full-time never auto-completes the match.
const (
	TieBreakExtraTime = "EXTRA_TIME"
	TieBreakPenalties = "PENALTIES"
	TieBreakDraw      = "END_AS_DRAW"
)

type FootballState struct {
	Period string
	// SecondHalfContinued records the operator's clock convention for the
	// second half: restart at 45:00 or continue from first-half elapsed.
	SecondHalfContinued bool
	ExtraTimePlayed     bool
	// PendingTieBreak is set when a level score requires an explicit operator
	// choice before the match can progress.
	PendingTieBreak bool

	Scores     map[string]int
	Penalties  map[string]int
	Possession map[string]int
	Stats      map[string]TeamMatchStats
}

type TeamMatchStats struct {
	Shots       int
	Corners     int
	Fouls       int
	Offsides    int
	YellowCards int
	RedCards    int
}

const (
	StatShots   = "SHOTS"
	StatCorners = "CORNERS"
	StatFouls   = "FOULS"
	StatOffside = "OFFSIDES"
)

func NewFootballState(team1ID, team2ID string) *FootballState {
	return &FootballState{
		Period:     PeriodNotStarted,
		Scores:     map[string]int{team1ID: 0, team2ID: 0},
		Penalties:  map[string]int{},
		Possession: map[string]int{team1ID: 50, team2ID: 50},
		Stats:      map[string]TeamMatchStats{team1ID: {}, team2ID: {}},
	}
}

func (s *FootballState) IsPlayingPeriod() bool {
	switch s.Period {
	case PeriodFirstHalf, PeriodSecondHalf, PeriodExtraTimeFirst, PeriodExtraTimeSecond:
		return true
	default:
		return false
	}
}

func (s *FootballState) IsLevel() bool {
	var scores []int
	for _, v := range s.Scores {
		scores = append(scores, v)
	}
	return len(scores) == 2 && scores[0] == scores[1]
}

func (s *FootballState) clone() FootballState {
	out := *s
	out.Scores = cloneIntMap(s.Scores)
	out.Penalties = cloneIntMap(s.Penalties)
	out.Possession = cloneIntMap(s.Possession)
	out.Stats = make(map[string]TeamMatchStats, len(s.Stats))
	for k, v := range s.Stats {
		out.Stats[k] = v
	}
	return out
}

func cloneIntMap(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
