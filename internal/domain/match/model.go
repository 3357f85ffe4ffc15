package match

import (
	"errors"
	"strings"
	"time"
)

const (
	SportCricket  = "CRICKET"
	SportFootball = "FOOTBALL"
)

const (
	StatusNotStarted = "NOT_STARTED"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
	StatusCancelled  = "CANCELLED"
)

var (
	ErrVersionConflict = errors.New("match version conflict")
	ErrUnknownTeam     = errors.New("team does not belong to match")
	ErrUnknownPlayer   = errors.New("player does not belong to team")
)

// Match is the authoritative aggregate for one live match. Exactly one of
// Cricket/Football is set, according to Sport. Version increments on every
// persisted write and is checked on save, so concurrent scorekeepers cannot
// silently clobber each other.
type Match struct {
	ID        string
	Sport     string
	Status    string
	Team1     Team
	Team2     Team
	TimerID   string
	Version   int64
	Cricket   *CricketState
	Football  *FootballState
	Result    *Result
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Team is a roster snapshot taken at match setup. Roster CRUD is owned by an
// external collaborator; the engine only moves players between the starting
// lineup and the bench (football substitutions).
type Team struct {
	ID          string
	Name        string
	Players     []Player
	Substitutes []Player
}

type Player struct {
	ID       string
	Name     string
	Position string
}

// Result is attached once a terminal state is reached.
type Result struct {
	WinnerTeamID string
	Method       string
	Margin       string
	Summary      string
}

const (
	MethodRuns      = "RUNS"
	MethodWickets   = "WICKETS"
	MethodGoals     = "GOALS"
	MethodPenalties = "PENALTIES"
	MethodDraw      = "DRAW"
	MethodTie       = "TIE"
)

func NormalizeSport(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}

func IsValidSport(value string) bool {
	switch NormalizeSport(value) {
	case SportCricket, SportFootball:
		return true
	default:
		return false
	}
}

func (m *Match) TeamByID(teamID string) (*Team, bool) {
	switch teamID {
	case m.Team1.ID:
		return &m.Team1, true
	case m.Team2.ID:
		return &m.Team2, true
	default:
		return nil, false
	}
}

// OpponentOf returns the other team of the match.
func (m *Match) OpponentOf(teamID string) (*Team, bool) {
	switch teamID {
	case m.Team1.ID:
		return &m.Team2, true
	case m.Team2.ID:
		return &m.Team1, true
	default:
		return nil, false
	}
}

func (m *Match) IsTerminal() bool {
	return m.Status == StatusCompleted || m.Status == StatusCancelled
}

func (t *Team) PlayerByID(playerID string) (Player, bool) {
	for _, p := range t.Players {
		if p.ID == playerID {
			return p, true
		}
	}
	for _, p := range t.Substitutes {
		if p.ID == playerID {
			return p, true
		}
	}
	return Player{}, false
}

func (t *Team) InStartingLineup(playerID string) bool {
	for _, p := range t.Players {
		if p.ID == playerID {
			return true
		}
	}
	return false
}

func (t *Team) OnBench(playerID string) bool {
	for _, p := range t.Substitutes {
		if p.ID == playerID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so engines can mutate a working copy and discard
// it when validation fails.
func (m *Match) Clone() *Match {
	out := *m
	out.Team1 = m.Team1.clone()
	out.Team2 = m.Team2.clone()
	if m.Cricket != nil {
		cricket := m.Cricket.clone()
		out.Cricket = &cricket
	}
	if m.Football != nil {
		football := m.Football.clone()
		out.Football = &football
	}
	if m.Result != nil {
		result := *m.Result
		out.Result = &result
	}
	return &out
}

func (t Team) clone() Team {
	out := t
	out.Players = append([]Player(nil), t.Players...)
	out.Substitutes = append([]Player(nil), t.Substitutes...)
	return out
}
