package postgres

import (
	"github.com/turfbook/live-scoring/internal/domain/match"
)

// The match aggregate is stored as one JSONB document next to the version
// column. The document types below pin the wire shape so renaming a domain
// field never silently changes what is on disk.

type matchDocument struct {
	Sport    string            `json:"sport"`
	Status   string            `json:"status"`
	Team1    teamDocument      `json:"team1"`
	Team2    teamDocument      `json:"team2"`
	TimerID  string            `json:"timer_id"`
	Cricket  *cricketDocument  `json:"cricket,omitempty"`
	Football *footballDocument `json:"football,omitempty"`
	Result   *resultDocument   `json:"result,omitempty"`
}

type teamDocument struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Players     []playerDocument `json:"players"`
	Substitutes []playerDocument `json:"substitutes,omitempty"`
}

type playerDocument struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position,omitempty"`
}

type cricketDocument struct {
	MatchType       string          `json:"match_type"`
	MaxOvers        int             `json:"max_overs"`
	CurrentInnings  int             `json:"current_innings"`
	First           inningsDocument `json:"first"`
	Second          inningsDocument `json:"second"`
	StrikerID       string          `json:"striker_id,omitempty"`
	NonStrikerID    string          `json:"non_striker_id,omitempty"`
	BowlerID        string          `json:"bowler_id,omitempty"`
	LastBowlerID    string          `json:"last_bowler_id,omitempty"`
	BallsInOver     int             `json:"balls_in_over"`
	Target          int             `json:"target,omitempty"`
	RequiredRunRate float64         `json:"required_run_rate,omitempty"`
}

type inningsDocument struct {
	BattingTeamID string   `json:"batting_team_id,omitempty"`
	Runs          int      `json:"runs"`
	Wickets       int      `json:"wickets"`
	Balls         int      `json:"balls"`
	Wides         int      `json:"wides"`
	NoBalls       int      `json:"no_balls"`
	Byes          int      `json:"byes"`
	LegByes       int      `json:"leg_byes"`
	Completed     bool     `json:"completed"`
	EndReason     string   `json:"end_reason,omitempty"`
	DismissedIDs  []string `json:"dismissed_ids,omitempty"`
}

type footballDocument struct {
	Period              string                    `json:"period"`
	SecondHalfContinued bool                      `json:"second_half_continued"`
	ExtraTimePlayed     bool                      `json:"extra_time_played"`
	PendingTieBreak     bool                      `json:"pending_tie_break"`
	Scores              map[string]int            `json:"scores"`
	Penalties           map[string]int            `json:"penalties"`
	Possession          map[string]int            `json:"possession"`
	Stats               map[string]teamStatsBlock `json:"stats"`
}

type teamStatsBlock struct {
	Shots       int `json:"shots"`
	Corners     int `json:"corners"`
	Fouls       int `json:"fouls"`
	Offsides    int `json:"offsides"`
	YellowCards int `json:"yellow_cards"`
	RedCards    int `json:"red_cards"`
}

type resultDocument struct {
	WinnerTeamID string `json:"winner_team_id,omitempty"`
	Method       string `json:"method"`
	Margin       string `json:"margin,omitempty"`
	Summary      string `json:"summary"`
}

func documentFromMatch(m *match.Match) matchDocument {
	doc := matchDocument{
		Sport:   m.Sport,
		Status:  m.Status,
		Team1:   teamToDocument(m.Team1),
		Team2:   teamToDocument(m.Team2),
		TimerID: m.TimerID,
	}
	if m.Cricket != nil {
		doc.Cricket = &cricketDocument{
			MatchType:       m.Cricket.MatchType,
			MaxOvers:        m.Cricket.MaxOvers,
			CurrentInnings:  m.Cricket.CurrentInnings,
			First:           inningsToDocument(m.Cricket.First),
			Second:          inningsToDocument(m.Cricket.Second),
			StrikerID:       m.Cricket.StrikerID,
			NonStrikerID:    m.Cricket.NonStrikerID,
			BowlerID:        m.Cricket.BowlerID,
			LastBowlerID:    m.Cricket.LastBowlerID,
			BallsInOver:     m.Cricket.BallsInOver,
			Target:          m.Cricket.Target,
			RequiredRunRate: m.Cricket.RequiredRunRate,
		}
	}
	if m.Football != nil {
		stats := make(map[string]teamStatsBlock, len(m.Football.Stats))
		for teamID, s := range m.Football.Stats {
			stats[teamID] = teamStatsBlock(s)
		}
		doc.Football = &footballDocument{
			Period:              m.Football.Period,
			SecondHalfContinued: m.Football.SecondHalfContinued,
			ExtraTimePlayed:     m.Football.ExtraTimePlayed,
			PendingTieBreak:     m.Football.PendingTieBreak,
			Scores:              m.Football.Scores,
			Penalties:           m.Football.Penalties,
			Possession:          m.Football.Possession,
			Stats:               stats,
		}
	}
	if m.Result != nil {
		doc.Result = &resultDocument{
			WinnerTeamID: m.Result.WinnerTeamID,
			Method:       m.Result.Method,
			Margin:       m.Result.Margin,
			Summary:      m.Result.Summary,
		}
	}
	return doc
}

func (doc matchDocument) toMatch() *match.Match {
	m := &match.Match{
		Sport:   doc.Sport,
		Status:  doc.Status,
		Team1:   doc.Team1.toTeam(),
		Team2:   doc.Team2.toTeam(),
		TimerID: doc.TimerID,
	}
	if doc.Cricket != nil {
		m.Cricket = &match.CricketState{
			MatchType:       doc.Cricket.MatchType,
			MaxOvers:        doc.Cricket.MaxOvers,
			CurrentInnings:  doc.Cricket.CurrentInnings,
			First:           doc.Cricket.First.toInnings(),
			Second:          doc.Cricket.Second.toInnings(),
			StrikerID:       doc.Cricket.StrikerID,
			NonStrikerID:    doc.Cricket.NonStrikerID,
			BowlerID:        doc.Cricket.BowlerID,
			LastBowlerID:    doc.Cricket.LastBowlerID,
			BallsInOver:     doc.Cricket.BallsInOver,
			Target:          doc.Cricket.Target,
			RequiredRunRate: doc.Cricket.RequiredRunRate,
		}
	}
	if doc.Football != nil {
		stats := make(map[string]match.TeamMatchStats, len(doc.Football.Stats))
		for teamID, s := range doc.Football.Stats {
			stats[teamID] = match.TeamMatchStats(s)
		}
		m.Football = &match.FootballState{
			Period:              doc.Football.Period,
			SecondHalfContinued: doc.Football.SecondHalfContinued,
			ExtraTimePlayed:     doc.Football.ExtraTimePlayed,
			PendingTieBreak:     doc.Football.PendingTieBreak,
			Scores:              doc.Football.Scores,
			Penalties:           doc.Football.Penalties,
			Possession:          doc.Football.Possession,
			Stats:               stats,
		}
	}
	if doc.Result != nil {
		m.Result = &match.Result{
			WinnerTeamID: doc.Result.WinnerTeamID,
			Method:       doc.Result.Method,
			Margin:       doc.Result.Margin,
			Summary:      doc.Result.Summary,
		}
	}
	return m
}

func teamToDocument(t match.Team) teamDocument {
	return teamDocument{
		ID:          t.ID,
		Name:        t.Name,
		Players:     playersToDocuments(t.Players),
		Substitutes: playersToDocuments(t.Substitutes),
	}
}

func (d teamDocument) toTeam() match.Team {
	return match.Team{
		ID:          d.ID,
		Name:        d.Name,
		Players:     documentsToPlayers(d.Players),
		Substitutes: documentsToPlayers(d.Substitutes),
	}
}

func playersToDocuments(players []match.Player) []playerDocument {
	out := make([]playerDocument, 0, len(players))
	for _, p := range players {
		out = append(out, playerDocument(p))
	}
	return out
}

func documentsToPlayers(docs []playerDocument) []match.Player {
	out := make([]match.Player, 0, len(docs))
	for _, d := range docs {
		out = append(out, match.Player(d))
	}
	return out
}

func inningsToDocument(s match.InningsState) inningsDocument {
	return inningsDocument{
		BattingTeamID: s.BattingTeamID,
		Runs:          s.Runs,
		Wickets:       s.Wickets,
		Balls:         s.Balls,
		Wides:         s.Extras.Wides,
		NoBalls:       s.Extras.NoBalls,
		Byes:          s.Extras.Byes,
		LegByes:       s.Extras.LegByes,
		Completed:     s.Completed,
		EndReason:     s.EndReason,
		DismissedIDs:  append([]string(nil), s.DismissedIDs...),
	}
}

func (d inningsDocument) toInnings() match.InningsState {
	return match.InningsState{
		BattingTeamID: d.BattingTeamID,
		Runs:          d.Runs,
		Wickets:       d.Wickets,
		Balls:         d.Balls,
		Extras: match.ExtrasTally{
			Wides:   d.Wides,
			NoBalls: d.NoBalls,
			Byes:    d.Byes,
			LegByes: d.LegByes,
		},
		Completed:    d.Completed,
		EndReason:    d.EndReason,
		DismissedIDs: append([]string(nil), d.DismissedIDs...),
	}
}
