package stats

import (
	"iter"
	"math"

	"github.com/turfbook/live-scoring/internal/domain/match"
	"github.com/turfbook/live-scoring/internal/domain/matchevent"
)

// PlayerStats is the per-player cumulative block derived from the ledger.
// Rates (strike rate, economy, overs notation) are recomputed on every fold
// and never stored, so they cannot drift from the events.
type PlayerStats struct {
	PlayerID string
	Name     string
	TeamID   string
	Batting  BattingStats
	Bowling  BowlingStats
	Football FootballStats
}

type BattingStats struct {
	Runs       int
	Balls      int
	Fours      int
	Sixes      int
	StrikeRate float64
	Dismissal  string
}

type BowlingStats struct {
	Deliveries   int
	Overs        float64
	Maidens      int
	RunsConceded int
	Wickets      int
	Economy      float64
}

type FootballStats struct {
	Goals       int
	Assists     int
	YellowCards int
	RedCards    int
	Saves       int
}

type TeamStats struct {
	TeamID      string
	Score       int
	Wickets     int
	Extras      match.ExtrasTally
	Goals       int
	YellowCards int
	RedCards    int
}

type maidenTracker struct {
	ballsInOver int
	runsInOver  int
}

// Aggregate folds the event ledger into per-player and per-team totals. It
// tolerates out-of-order corrections: every rule is a plain accumulation in
// fold order, and the fold can be restarted from scratch at any time.
func Aggregate(teams []match.Team, events iter.Seq[matchevent.Event]) (map[string]*PlayerStats, map[string]*TeamStats) {
	players := make(map[string]*PlayerStats)
	byTeam := make(map[string]*TeamStats, len(teams))
	for _, team := range teams {
		byTeam[team.ID] = &TeamStats{TeamID: team.ID}
		for _, p := range team.Players {
			players[p.ID] = &PlayerStats{PlayerID: p.ID, Name: p.Name, TeamID: team.ID}
		}
		for _, p := range team.Substitutes {
			players[p.ID] = &PlayerStats{PlayerID: p.ID, Name: p.Name, TeamID: team.ID}
		}
	}

	maidens := make(map[string]*maidenTracker)

	for event := range events {
		team := byTeam[event.TeamID]
		switch event.Type {
		case matchevent.TypeGoal:
			if scorer := players[event.PlayerID]; scorer != nil {
				scorer.Football.Goals++
			}
			if assister := players[event.SecondPlayerID]; assister != nil {
				assister.Football.Assists++
			}
			if team != nil {
				team.Score++
				team.Goals++
			}
		case matchevent.TypeOwnGoal:
			// Credited to the benefiting team; no scorer tally.
			if team != nil {
				team.Score++
				team.Goals++
			}
		case matchevent.TypeAssist:
			if assister := players[event.PlayerID]; assister != nil {
				assister.Football.Assists++
			}
		case matchevent.TypeYellowCard:
			if p := players[event.PlayerID]; p != nil {
				p.Football.YellowCards++
			}
			if team != nil {
				team.YellowCards++
			}
		case matchevent.TypeRedCard:
			if p := players[event.PlayerID]; p != nil {
				p.Football.RedCards++
			}
			if team != nil {
				team.RedCards++
			}
		case matchevent.TypeSave:
			if p := players[event.PlayerID]; p != nil {
				p.Football.Saves++
			}
		case matchevent.TypeDelivery:
			applyDelivery(players, byTeam, maidens, event)
		case matchevent.TypeWicket:
			applyWicket(players, byTeam, maidens, event)
		case matchevent.TypeExtra:
			applyExtra(players, byTeam, maidens, event)
		}
	}

	for _, p := range players {
		p.Batting.StrikeRate = StrikeRate(p.Batting.Runs, p.Batting.Balls)
		p.Bowling.Overs = OversNotation(p.Bowling.Deliveries)
		p.Bowling.Economy = Economy(p.Bowling.RunsConceded, p.Bowling.Deliveries)
	}

	return players, byTeam
}

// Delivery events carry the striker in PlayerID and the bowler in
// SecondPlayerID.
func applyDelivery(players map[string]*PlayerStats, teams map[string]*TeamStats, maidens map[string]*maidenTracker, event matchevent.Event) {
	if striker := players[event.PlayerID]; striker != nil {
		striker.Batting.Runs += event.Runs
		striker.Batting.Balls++
		switch event.Runs {
		case 4:
			striker.Batting.Fours++
		case 6:
			striker.Batting.Sixes++
		}
	}
	if team := teams[event.TeamID]; team != nil {
		team.Score += event.Runs
	}
	if bowler := players[event.SecondPlayerID]; bowler != nil {
		bowler.Bowling.Deliveries++
		bowler.Bowling.RunsConceded += event.Runs
		trackMaiden(maidens, bowler, event.Runs, true)
	}
}

// Wicket events carry the dismissed batsman in PlayerID and the bowler in
// SecondPlayerID; run-outs leave the bowler uncredited.
func applyWicket(players map[string]*PlayerStats, teams map[string]*TeamStats, maidens map[string]*maidenTracker, event matchevent.Event) {
	if batsman := players[event.PlayerID]; batsman != nil {
		batsman.Batting.Dismissal = event.Detail
	}
	if team := teams[event.TeamID]; team != nil {
		team.Wickets++
	}
	bowler := players[event.SecondPlayerID]
	if bowler == nil {
		return
	}
	bowler.Bowling.Deliveries++
	if event.Detail != matchevent.DismissalRunOut {
		bowler.Bowling.Wickets++
	}
	trackMaiden(maidens, bowler, 0, true)
}

func applyExtra(players map[string]*PlayerStats, teams map[string]*TeamStats, maidens map[string]*maidenTracker, event matchevent.Event) {
	if team := teams[event.TeamID]; team != nil {
		team.Score += event.Runs
		switch event.Detail {
		case matchevent.ExtraWide:
			team.Extras.Wides += event.Runs
		case matchevent.ExtraNoBall:
			team.Extras.NoBalls += event.Runs
		case matchevent.ExtraBye:
			team.Extras.Byes += event.Runs
		case matchevent.ExtraLegBye:
			team.Extras.LegByes += event.Runs
		}
	}
	bowler := players[event.SecondPlayerID]
	if bowler == nil {
		return
	}
	countsBall := matchevent.CountsBall(event.Detail)
	if countsBall {
		bowler.Bowling.Deliveries++
	}
	charged := 0
	if matchevent.ConcedesRuns(event.Detail) {
		bowler.Bowling.RunsConceded += event.Runs
		charged = event.Runs
	}
	trackMaiden(maidens, bowler, charged, countsBall)
}

func trackMaiden(maidens map[string]*maidenTracker, bowler *PlayerStats, runsCharged int, legalBall bool) {
	tracker := maidens[bowler.PlayerID]
	if tracker == nil {
		tracker = &maidenTracker{}
		maidens[bowler.PlayerID] = tracker
	}
	tracker.runsInOver += runsCharged
	if !legalBall {
		return
	}
	tracker.ballsInOver++
	if tracker.ballsInOver < 6 {
		return
	}
	if tracker.runsInOver == 0 {
		bowler.Bowling.Maidens++
	}
	tracker.ballsInOver = 0
	tracker.runsInOver = 0
}

// OversNotation renders a delivery count in cricket's N.B notation: whole
// overs plus balls in the tenths digit. 10 deliveries is 1.4, never 1.666.
func OversNotation(deliveries int) float64 {
	if deliveries <= 0 {
		return 0
	}
	return float64(deliveries/6) + float64(deliveries%6)/10
}

func StrikeRate(runs, balls int) float64 {
	if balls == 0 {
		return 0
	}
	return Round2(float64(runs) / float64(balls) * 100)
}

func Economy(runsConceded, deliveries int) float64 {
	if deliveries == 0 {
		return 0
	}
	return Round2(float64(runsConceded) / (float64(deliveries) / 6))
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
