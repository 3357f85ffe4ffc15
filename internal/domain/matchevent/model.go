package matchevent

import (
	"strings"
	"time"
)

const (
	TypeGoal          = "GOAL"
	TypeOwnGoal       = "OWN_GOAL"
	TypeYellowCard    = "YELLOW_CARD"
	TypeRedCard       = "RED_CARD"
	TypeSubstitution  = "SUBSTITUTION"
	TypePeriodChange  = "PERIOD_CHANGE"
	TypeAssist        = "ASSIST"
	TypeSave          = "SAVE"
	TypeFoul          = "FOUL"
	TypeOffside       = "OFFSIDE"
	TypeCorner        = "CORNER"
	TypePenalty       = "PENALTY"
	TypeDelivery      = "DELIVERY"
	TypeWicket        = "WICKET"
	TypeExtra         = "EXTRA"
	TypeInningsChange = "INNINGS_CHANGE"
)

const (
	DismissalBowled  = "BOWLED"
	DismissalCaught  = "CAUGHT"
	DismissalRunOut  = "RUN_OUT"
	DismissalLBW     = "LBW"
	DismissalStumped = "STUMPED"
)

const (
	ExtraWide   = "WIDE"
	ExtraNoBall = "NO_BALL"
	ExtraBye    = "BYE"
	ExtraLegBye = "LEG_BYE"
)

// Event is an immutable ledger record. Time is match time in minutes for
// football and overs notation for cricket; Timestamp is the wall clock at
// append. Seq is assigned by the ledger and is the fold order: consumers must
// not assume Time itself is monotonic, corrections may arrive out of order.
type Event struct {
	ID             string
	MatchID        string
	Seq            int64
	Time           float64
	Type           string
	TeamID         string
	PlayerID       string
	PlayerName     string
	SecondPlayerID string
	SecondPlayer   string
	Runs           int
	Detail         string
	Timestamp      time.Time
}

func NormalizeDismissal(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}

func IsValidDismissal(value string) bool {
	switch NormalizeDismissal(value) {
	case DismissalBowled, DismissalCaught, DismissalRunOut, DismissalLBW, DismissalStumped:
		return true
	default:
		return false
	}
}

func IsValidExtra(value string) bool {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case ExtraWide, ExtraNoBall, ExtraBye, ExtraLegBye:
		return true
	default:
		return false
	}
}

// CountsBall reports whether an extra of the given kind consumes a legal
// delivery. Wides and no-balls must be re-bowled; byes and leg byes are legal
// deliveries that the batsmen simply did not score off the bat.
func CountsBall(extraKind string) bool {
	switch strings.ToUpper(strings.TrimSpace(extraKind)) {
	case ExtraBye, ExtraLegBye:
		return true
	default:
		return false
	}
}

// ConcedesRuns reports whether an extra of the given kind is charged to the
// bowler's figures.
func ConcedesRuns(extraKind string) bool {
	switch strings.ToUpper(strings.TrimSpace(extraKind)) {
	case ExtraWide, ExtraNoBall:
		return true
	default:
		return false
	}
}
