package outcome

import (
	"fmt"

	"github.com/turfbook/live-scoring/internal/domain/match"
)

// Resolvers compute the canonical outcome from a terminal state. They are
// pure over the final scores: the same terminal state always yields the same
// result, regardless of the order the last writes landed in.

// ResolveCricket produces the result once the second innings has ended.
// A successful chase is reported in wickets and balls remaining; a defended
// total in runs; equal scores are a tie.
func ResolveCricket(m *match.Match) match.Result {
	state := m.Cricket
	first := state.First
	second := state.Second

	battingTeam, _ := m.TeamByID(second.BattingTeamID)
	bowlingTeam, _ := m.TeamByID(first.BattingTeamID)

	switch {
	case second.Runs > first.Runs:
		wicketsInHand := len(battingTeam.Players) - 1 - second.Wickets
		ballsRemaining := state.MaxOvers*6 - second.Balls
		ballWord := "balls"
		if ballsRemaining == 1 {
			ballWord = "ball"
		}
		margin := fmt.Sprintf("%d wickets with %d %s remaining", wicketsInHand, ballsRemaining, ballWord)
		return match.Result{
			WinnerTeamID: battingTeam.ID,
			Method:       match.MethodWickets,
			Margin:       margin,
			Summary:      fmt.Sprintf("%s won by %s", battingTeam.Name, margin),
		}
	case second.Runs < first.Runs:
		margin := fmt.Sprintf("%d runs", first.Runs-second.Runs)
		return match.Result{
			WinnerTeamID: bowlingTeam.ID,
			Method:       match.MethodRuns,
			Margin:       margin,
			Summary:      fmt.Sprintf("%s won by %s", bowlingTeam.Name, margin),
		}
	default:
		return match.Result{
			Method:  match.MethodTie,
			Summary: "Match tied",
		}
	}
}

// ResolveFootball produces the result from final scores, or from the shootout
// score when the match was decided on penalties.
func ResolveFootball(m *match.Match, onPenalties bool) match.Result {
	state := m.Football
	team1, team2 := m.Team1, m.Team2
	score1, score2 := state.Scores[team1.ID], state.Scores[team2.ID]

	if onPenalties {
		pens1, pens2 := state.Penalties[team1.ID], state.Penalties[team2.ID]
		winner := team1
		winScore, loseScore := pens1, pens2
		if pens2 > pens1 {
			winner = team2
			winScore, loseScore = pens2, pens1
		}
		if winScore == loseScore {
			return match.Result{
				Method:  match.MethodDraw,
				Margin:  fmt.Sprintf("%d-%d", pens1, pens2),
				Summary: fmt.Sprintf("Level %d-%d on penalties", pens1, pens2),
			}
		}
		return match.Result{
			WinnerTeamID: winner.ID,
			Method:       match.MethodPenalties,
			Margin:       fmt.Sprintf("%d-%d", winScore, loseScore),
			Summary:      fmt.Sprintf("%s wins %d-%d on penalties", winner.Name, winScore, loseScore),
		}
	}

	switch {
	case score1 > score2:
		return match.Result{
			WinnerTeamID: team1.ID,
			Method:       match.MethodGoals,
			Margin:       fmt.Sprintf("%d-%d", score1, score2),
			Summary:      fmt.Sprintf("%s won %d-%d", team1.Name, score1, score2),
		}
	case score2 > score1:
		return match.Result{
			WinnerTeamID: team2.ID,
			Method:       match.MethodGoals,
			Margin:       fmt.Sprintf("%d-%d", score2, score1),
			Summary:      fmt.Sprintf("%s won %d-%d", team2.Name, score2, score1),
		}
	default:
		return match.Result{
			Method:  match.MethodDraw,
			Margin:  fmt.Sprintf("%d-%d", score1, score2),
			Summary: fmt.Sprintf("Draw %d-%d", score1, score2),
		}
	}
}
