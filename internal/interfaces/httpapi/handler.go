package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/turfbook/live-scoring/internal/domain/clock"
	"github.com/turfbook/live-scoring/internal/domain/match"
	"github.com/turfbook/live-scoring/internal/domain/matchevent"
	"github.com/turfbook/live-scoring/internal/domain/stats"
	"github.com/turfbook/live-scoring/internal/platform/logging"
	"github.com/turfbook/live-scoring/internal/usecase"
)

type Handler struct {
	matchService    *usecase.MatchService
	cricketService  *usecase.CricketService
	footballService *usecase.FootballService
	timerService    *usecase.TimerService
	logger          *logging.Logger
	validator       *validator.Validate
}

func NewHandler(
	matchService *usecase.MatchService,
	cricketService *usecase.CricketService,
	footballService *usecase.FootballService,
	timerService *usecase.TimerService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		matchService:    matchService,
		cricketService:  cricketService,
		footballService: footballService,
		timerService:    timerService,
		logger:          logger,
		validator:       validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func (h *Handler) decodeRequest(r *http.Request, payload any) error {
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(payload); err != nil {
		return fmt.Errorf("%w: malformed JSON body: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

type playerDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position,omitempty"`
}

type teamDTO struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Players     []playerDTO `json:"players"`
	Substitutes []playerDTO `json:"substitutes,omitempty"`
}

type inningsDTO struct {
	BattingTeamID string   `json:"battingTeamId,omitempty"`
	Runs          int      `json:"runs"`
	Wickets       int      `json:"wickets"`
	Balls         int      `json:"balls"`
	Overs         float64  `json:"overs"`
	Wides         int      `json:"wides"`
	NoBalls       int      `json:"noBalls"`
	Byes          int      `json:"byes"`
	LegByes       int      `json:"legByes"`
	Completed     bool     `json:"completed"`
	EndReason     string   `json:"endReason,omitempty"`
	DismissedIDs  []string `json:"dismissedIds,omitempty"`
}

type cricketStateDTO struct {
	MatchType       string     `json:"matchType"`
	MaxOvers        int        `json:"maxOvers"`
	CurrentInnings  int        `json:"currentInnings"`
	Phase           string     `json:"phase"`
	First           inningsDTO `json:"firstInnings"`
	Second          inningsDTO `json:"secondInnings"`
	StrikerID       string     `json:"strikerId,omitempty"`
	NonStrikerID    string     `json:"nonStrikerId,omitempty"`
	BowlerID        string     `json:"bowlerId,omitempty"`
	BallsInOver     int        `json:"ballsInOver"`
	Target          int        `json:"target,omitempty"`
	RequiredRunRate float64    `json:"requiredRunRate,omitempty"`
}

type teamMatchStatsDTO struct {
	Shots       int `json:"shots"`
	Corners     int `json:"corners"`
	Fouls       int `json:"fouls"`
	Offsides    int `json:"offsides"`
	YellowCards int `json:"yellowCards"`
	RedCards    int `json:"redCards"`
}

type footballStateDTO struct {
	Period          string                       `json:"period"`
	PendingTieBreak bool                         `json:"pendingTieBreak"`
	ExtraTimePlayed bool                         `json:"extraTimePlayed"`
	Scores          map[string]int               `json:"scores"`
	Penalties       map[string]int               `json:"penalties,omitempty"`
	Possession      map[string]int               `json:"possession"`
	Stats           map[string]teamMatchStatsDTO `json:"stats"`
}

type resultDTO struct {
	WinnerTeamID string `json:"winnerTeamId,omitempty"`
	Method       string `json:"method"`
	Margin       string `json:"margin,omitempty"`
	Summary      string `json:"summary"`
}

type matchDTO struct {
	ID        string            `json:"id"`
	Sport     string            `json:"sport"`
	Status    string            `json:"status"`
	Team1     teamDTO           `json:"team1"`
	Team2     teamDTO           `json:"team2"`
	Version   int64             `json:"version"`
	Cricket   *cricketStateDTO  `json:"cricket,omitempty"`
	Football  *footballStateDTO `json:"football,omitempty"`
	Result    *resultDTO        `json:"result,omitempty"`
	CreatedAt string            `json:"createdAt"`
	UpdatedAt string            `json:"updatedAt"`
}

type eventDTO struct {
	Seq            int64   `json:"seq"`
	Time           float64 `json:"time"`
	Type           string  `json:"type"`
	TeamID         string  `json:"teamId,omitempty"`
	PlayerID       string  `json:"playerId,omitempty"`
	PlayerName     string  `json:"playerName,omitempty"`
	SecondPlayerID string  `json:"secondPlayerId,omitempty"`
	SecondPlayer   string  `json:"secondPlayerName,omitempty"`
	Runs           int     `json:"runs,omitempty"`
	Detail         string  `json:"detail,omitempty"`
	Timestamp      string  `json:"timestamp"`
}

type battingDTO struct {
	Runs       int     `json:"runs"`
	Balls      int     `json:"balls"`
	Fours      int     `json:"fours"`
	Sixes      int     `json:"sixes"`
	StrikeRate float64 `json:"strikeRate"`
	Dismissal  string  `json:"dismissal,omitempty"`
}

type bowlingDTO struct {
	Overs        float64 `json:"overs"`
	Maidens      int     `json:"maidens"`
	RunsConceded int     `json:"runsConceded"`
	Wickets      int     `json:"wickets"`
	Economy      float64 `json:"economy"`
}

type playerFootballDTO struct {
	Goals       int `json:"goals"`
	Assists     int `json:"assists"`
	YellowCards int `json:"yellowCards"`
	RedCards    int `json:"redCards"`
	Saves       int `json:"saves"`
}

type playerStatsDTO struct {
	PlayerID string             `json:"playerId"`
	Name     string             `json:"name"`
	TeamID   string             `json:"teamId"`
	Batting  *battingDTO        `json:"batting,omitempty"`
	Bowling  *bowlingDTO        `json:"bowling,omitempty"`
	Football *playerFootballDTO `json:"football,omitempty"`
}

type teamTotalsDTO struct {
	TeamID      string `json:"teamId"`
	Score       int    `json:"score"`
	Wickets     int    `json:"wickets"`
	Extras      int    `json:"extras"`
	Goals       int    `json:"goals"`
	YellowCards int    `json:"yellowCards"`
	RedCards    int    `json:"redCards"`
}

type timerDTO struct {
	MatchID        string `json:"matchId"`
	Label          string `json:"label,omitempty"`
	Running        bool   `json:"running"`
	ElapsedSeconds int64  `json:"elapsedSeconds"`
	ServerTime     string `json:"serverTime,omitempty"`
}

type matchViewDTO struct {
	Match       matchDTO                  `json:"match"`
	Events      []eventDTO                `json:"events"`
	PlayerStats map[string]playerStatsDTO `json:"playerStats"`
	TeamStats   map[string]teamTotalsDTO  `json:"teamStats"`
	Timer       timerDTO                  `json:"timer"`
}

func playersToDTO(players []match.Player) []playerDTO {
	out := make([]playerDTO, 0, len(players))
	for _, p := range players {
		out = append(out, playerDTO{ID: p.ID, Name: p.Name, Position: p.Position})
	}
	return out
}

func teamToDTO(team match.Team) teamDTO {
	return teamDTO{
		ID:          team.ID,
		Name:        team.Name,
		Players:     playersToDTO(team.Players),
		Substitutes: playersToDTO(team.Substitutes),
	}
}

func inningsToDTO(innings match.InningsState) inningsDTO {
	return inningsDTO{
		BattingTeamID: innings.BattingTeamID,
		Runs:          innings.Runs,
		Wickets:       innings.Wickets,
		Balls:         innings.Balls,
		Overs:         stats.OversNotation(innings.Balls),
		Wides:         innings.Extras.Wides,
		NoBalls:       innings.Extras.NoBalls,
		Byes:          innings.Extras.Byes,
		LegByes:       innings.Extras.LegByes,
		Completed:     innings.Completed,
		EndReason:     innings.EndReason,
		DismissedIDs:  append([]string(nil), innings.DismissedIDs...),
	}
}

func matchToDTO(m *match.Match) matchDTO {
	dto := matchDTO{
		ID:        m.ID,
		Sport:     m.Sport,
		Status:    m.Status,
		Team1:     teamToDTO(m.Team1),
		Team2:     teamToDTO(m.Team2),
		Version:   m.Version,
		CreatedAt: m.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: m.UpdatedAt.UTC().Format(time.RFC3339),
	}

	if m.Cricket != nil {
		dto.Cricket = &cricketStateDTO{
			MatchType:       m.Cricket.MatchType,
			MaxOvers:        m.Cricket.MaxOvers,
			CurrentInnings:  m.Cricket.CurrentInnings,
			Phase:           m.Cricket.Phase(),
			First:           inningsToDTO(m.Cricket.First),
			Second:          inningsToDTO(m.Cricket.Second),
			StrikerID:       m.Cricket.StrikerID,
			NonStrikerID:    m.Cricket.NonStrikerID,
			BowlerID:        m.Cricket.BowlerID,
			BallsInOver:     m.Cricket.BallsInOver,
			Target:          m.Cricket.Target,
			RequiredRunRate: m.Cricket.RequiredRunRate,
		}
	}
	if m.Football != nil {
		statsByTeam := make(map[string]teamMatchStatsDTO, len(m.Football.Stats))
		for teamID, s := range m.Football.Stats {
			statsByTeam[teamID] = teamMatchStatsDTO{
				Shots:       s.Shots,
				Corners:     s.Corners,
				Fouls:       s.Fouls,
				Offsides:    s.Offsides,
				YellowCards: s.YellowCards,
				RedCards:    s.RedCards,
			}
		}
		dto.Football = &footballStateDTO{
			Period:          m.Football.Period,
			PendingTieBreak: m.Football.PendingTieBreak,
			ExtraTimePlayed: m.Football.ExtraTimePlayed,
			Scores:          m.Football.Scores,
			Penalties:       m.Football.Penalties,
			Possession:      m.Football.Possession,
			Stats:           statsByTeam,
		}
	}
	if m.Result != nil {
		dto.Result = &resultDTO{
			WinnerTeamID: m.Result.WinnerTeamID,
			Method:       m.Result.Method,
			Margin:       m.Result.Margin,
			Summary:      m.Result.Summary,
		}
	}
	return dto
}

func eventToDTO(event matchevent.Event) eventDTO {
	return eventDTO{
		Seq:            event.Seq,
		Time:           event.Time,
		Type:           event.Type,
		TeamID:         event.TeamID,
		PlayerID:       event.PlayerID,
		PlayerName:     event.PlayerName,
		SecondPlayerID: event.SecondPlayerID,
		SecondPlayer:   event.SecondPlayer,
		Runs:           event.Runs,
		Detail:         event.Detail,
		Timestamp:      event.Timestamp.UTC().Format(time.RFC3339),
	}
}

func timerToDTO(state clock.TimerState, elapsed time.Duration, now time.Time) timerDTO {
	dto := timerDTO{
		MatchID:        state.MatchID,
		Label:          state.Label,
		Running:        state.Running,
		ElapsedSeconds: int64(elapsed.Seconds()),
	}
	if !now.IsZero() {
		dto.ServerTime = now.UTC().Format(time.RFC3339)
	}
	return dto
}

func viewToDTO(sport string, view *usecase.MatchView) matchViewDTO {
	events := make([]eventDTO, 0, len(view.Events))
	for _, event := range view.Events {
		events = append(events, eventToDTO(event))
	}

	isCricket := sport == match.SportCricket
	players := make(map[string]playerStatsDTO, len(view.PlayerStats))
	for id, p := range view.PlayerStats {
		dto := playerStatsDTO{PlayerID: p.PlayerID, Name: p.Name, TeamID: p.TeamID}
		if isCricket {
			dto.Batting = &battingDTO{
				Runs:       p.Batting.Runs,
				Balls:      p.Batting.Balls,
				Fours:      p.Batting.Fours,
				Sixes:      p.Batting.Sixes,
				StrikeRate: p.Batting.StrikeRate,
				Dismissal:  p.Batting.Dismissal,
			}
			dto.Bowling = &bowlingDTO{
				Overs:        p.Bowling.Overs,
				Maidens:      p.Bowling.Maidens,
				RunsConceded: p.Bowling.RunsConceded,
				Wickets:      p.Bowling.Wickets,
				Economy:      p.Bowling.Economy,
			}
		} else {
			dto.Football = &playerFootballDTO{
				Goals:       p.Football.Goals,
				Assists:     p.Football.Assists,
				YellowCards: p.Football.YellowCards,
				RedCards:    p.Football.RedCards,
				Saves:       p.Football.Saves,
			}
		}
		players[id] = dto
	}

	teams := make(map[string]teamTotalsDTO, len(view.TeamStats))
	for id, t := range view.TeamStats {
		teams[id] = teamTotalsDTO{
			TeamID:      t.TeamID,
			Score:       t.Score,
			Wickets:     t.Wickets,
			Extras:      t.Extras.Total(),
			Goals:       t.Goals,
			YellowCards: t.YellowCards,
			RedCards:    t.RedCards,
		}
	}

	return matchViewDTO{
		Match:       matchToDTO(view.Match),
		Events:      events,
		PlayerStats: players,
		TeamStats:   teams,
		Timer:       timerToDTO(view.Timer, view.Elapsed, time.Time{}),
	}
}

func pathMatchID(r *http.Request) string {
	return strings.TrimSpace(r.PathValue("matchID"))
}
