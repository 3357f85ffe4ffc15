package outcome

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/turfbook/live-scoring/internal/domain/match"
)

func elevenPlayers(prefix string) []match.Player {
	players := make([]match.Player, 0, 11)
	for i := 0; i < 11; i++ {
		players = append(players, match.Player{ID: prefix + string(rune('a'+i))})
	}
	return players
}

func cricketMatch(first, second match.InningsState, maxOvers int) *match.Match {
	return &match.Match{
		Sport: match.SportCricket,
		Team1: match.Team{ID: "t1", Name: "Alphas", Players: elevenPlayers("a")},
		Team2: match.Team{ID: "t2", Name: "Bravos", Players: elevenPlayers("b")},
		Cricket: &match.CricketState{
			MaxOvers: maxOvers,
			First:    first,
			Second:   second,
		},
	}
}

func TestResolveCricket_ChaseWonByWickets(t *testing.T) {
	t.Parallel()

	m := cricketMatch(
		match.InningsState{BattingTeamID: "t1", Runs: 120, Wickets: 6, Balls: 120},
		match.InningsState{BattingTeamID: "t2", Runs: 121, Wickets: 4, Balls: 110},
		20,
	)

	result := ResolveCricket(m)

	require.Equal(t, "t2", result.WinnerTeamID)
	require.Equal(t, match.MethodWickets, result.Method)
	require.Equal(t, "6 wickets with 10 balls remaining", result.Margin)
	require.Equal(t, "Bravos won by 6 wickets with 10 balls remaining", result.Summary)
}

func TestResolveCricket_ChaseWonOnLastBall(t *testing.T) {
	t.Parallel()

	m := cricketMatch(
		match.InningsState{BattingTeamID: "t1", Runs: 99, Balls: 120},
		match.InningsState{BattingTeamID: "t2", Runs: 100, Wickets: 9, Balls: 119},
		20,
	)

	result := ResolveCricket(m)

	require.Equal(t, "t2", result.WinnerTeamID)
	require.Equal(t, "1 wickets with 1 ball remaining", result.Margin)
}

func TestResolveCricket_DefendedByRuns(t *testing.T) {
	t.Parallel()

	m := cricketMatch(
		match.InningsState{BattingTeamID: "t1", Runs: 150, Balls: 120},
		match.InningsState{BattingTeamID: "t2", Runs: 132, Wickets: 10, Balls: 104},
		20,
	)

	result := ResolveCricket(m)

	require.Equal(t, "t1", result.WinnerTeamID)
	require.Equal(t, match.MethodRuns, result.Method)
	require.Equal(t, "18 runs", result.Margin)
	require.Equal(t, "Alphas won by 18 runs", result.Summary)
}

func TestResolveCricket_Tie(t *testing.T) {
	t.Parallel()

	m := cricketMatch(
		match.InningsState{BattingTeamID: "t1", Runs: 140, Balls: 120},
		match.InningsState{BattingTeamID: "t2", Runs: 140, Wickets: 10, Balls: 118},
		20,
	)

	result := ResolveCricket(m)

	require.Empty(t, result.WinnerTeamID)
	require.Equal(t, match.MethodTie, result.Method)
	require.Equal(t, "Match tied", result.Summary)
}

func footballMatch(scores, penalties map[string]int) *match.Match {
	return &match.Match{
		Sport: match.SportFootball,
		Team1: match.Team{ID: "home", Name: "Lions"},
		Team2: match.Team{ID: "away", Name: "Tigers"},
		Football: &match.FootballState{
			Scores:    scores,
			Penalties: penalties,
		},
	}
}

func TestResolveFootball_WinByGoals(t *testing.T) {
	t.Parallel()

	m := footballMatch(map[string]int{"home": 1, "away": 3}, nil)

	result := ResolveFootball(m, false)

	require.Equal(t, "away", result.WinnerTeamID)
	require.Equal(t, match.MethodGoals, result.Method)
	require.Equal(t, "3-1", result.Margin)
	require.Equal(t, "Tigers won 3-1", result.Summary)
}

func TestResolveFootball_Draw(t *testing.T) {
	t.Parallel()

	m := footballMatch(map[string]int{"home": 2, "away": 2}, nil)

	result := ResolveFootball(m, false)

	require.Empty(t, result.WinnerTeamID)
	require.Equal(t, match.MethodDraw, result.Method)
	require.Equal(t, "Draw 2-2", result.Summary)
}

func TestResolveFootball_PenaltiesDecide(t *testing.T) {
	t.Parallel()

	m := footballMatch(
		map[string]int{"home": 1, "away": 1},
		map[string]int{"home": 4, "away": 5},
	)

	result := ResolveFootball(m, true)

	require.Equal(t, "away", result.WinnerTeamID)
	require.Equal(t, match.MethodPenalties, result.Method)
	require.Equal(t, "5-4", result.Margin)
	require.Equal(t, "Tigers wins 5-4 on penalties", result.Summary)
}

func TestResolveFootball_PenaltiesLevel(t *testing.T) {
	t.Parallel()

	m := footballMatch(
		map[string]int{"home": 0, "away": 0},
		map[string]int{"home": 3, "away": 3},
	)

	result := ResolveFootball(m, true)

	require.Empty(t, result.WinnerTeamID)
	require.Equal(t, match.MethodDraw, result.Method)
	require.Equal(t, "Level 3-3 on penalties", result.Summary)
}
