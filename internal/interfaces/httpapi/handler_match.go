package httpapi

import (
	"net/http"

	"github.com/turfbook/live-scoring/internal/domain/match"
	"github.com/turfbook/live-scoring/internal/usecase"
)

type rosterPlayerRequest struct {
	ID       string `json:"id" validate:"required,max=80"`
	Name     string `json:"name" validate:"required,max=120"`
	Position string `json:"position" validate:"omitempty,max=40"`
}

type rosterRequest struct {
	TeamID      string                `json:"team_id" validate:"required,max=80"`
	TeamName    string                `json:"team_name" validate:"required,max=120"`
	Players     []rosterPlayerRequest `json:"players" validate:"required,min=1,max=18,dive"`
	Substitutes []rosterPlayerRequest `json:"substitutes" validate:"omitempty,max=12,dive"`
}

type createMatchRequest struct {
	Sport     string        `json:"sport" validate:"required,oneof=CRICKET FOOTBALL cricket football"`
	MatchType string        `json:"match_type" validate:"omitempty,max=40"`
	MaxOvers  int           `json:"max_overs" validate:"omitempty,gte=1,lte=50"`
	Team1     rosterRequest `json:"team1" validate:"required"`
	Team2     rosterRequest `json:"team2" validate:"required"`
}

func rosterToInput(req rosterRequest) usecase.RosterInput {
	players := make([]match.Player, 0, len(req.Players))
	for _, p := range req.Players {
		players = append(players, match.Player{ID: p.ID, Name: p.Name, Position: p.Position})
	}
	substitutes := make([]match.Player, 0, len(req.Substitutes))
	for _, p := range req.Substitutes {
		substitutes = append(substitutes, match.Player{ID: p.ID, Name: p.Name, Position: p.Position})
	}
	return usecase.RosterInput{
		TeamID:      req.TeamID,
		TeamName:    req.TeamName,
		Players:     players,
		Substitutes: substitutes,
	}
}

func (h *Handler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateMatch")
	defer span.End()

	var req createMatchRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.matchService.Create(ctx, usecase.CreateMatchInput{
		Sport:     req.Sport,
		MatchType: req.MatchType,
		MaxOvers:  req.MaxOvers,
		Team1:     rosterToInput(req.Team1),
		Team2:     rosterToInput(req.Team2),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create match failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, matchToDTO(created))
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	m, err := h.matchService.Get(ctx, pathMatchID(r))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(m))
}

func (h *Handler) ListMatchEvents(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatchEvents")
	defer span.End()

	events, err := h.matchService.ListEvents(ctx, pathMatchID(r))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]eventDTO, 0, len(events))
	for _, event := range events {
		out = append(out, eventToDTO(event))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

type statisticsDTO struct {
	PlayerStats map[string]playerStatsDTO `json:"playerStats"`
	TeamStats   map[string]teamTotalsDTO  `json:"teamStats"`
}

// GetMatchStatistics recomputes aggregates from the ledger on demand. It
// serves the same numbers as the composite view without the match document.
func (h *Handler) GetMatchStatistics(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchStatistics")
	defer span.End()

	view, err := h.matchService.View(ctx, pathMatchID(r))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	full := viewToDTO(view.Match.Sport, view)
	writeSuccess(ctx, w, http.StatusOK, statisticsDTO{
		PlayerStats: full.PlayerStats,
		TeamStats:   full.TeamStats,
	})
}

func (h *Handler) GetMatchView(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchView")
	defer span.End()

	view, err := h.matchService.View(ctx, pathMatchID(r))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, viewToDTO(view.Match.Sport, view))
}
