package httpapi

import (
	"net/http"

	"github.com/turfbook/live-scoring/internal/usecase"
)

type advancePeriodRequest struct {
	Target        string `json:"target" validate:"required,max=40"`
	ContinueClock bool   `json:"continue_clock"`
}

type tieBreakRequest struct {
	Choice string `json:"choice" validate:"required,oneof=EXTRA_TIME PENALTIES END_AS_DRAW"`
}

type recordGoalRequest struct {
	TeamID     string `json:"team_id" validate:"required,max=80"`
	ScorerID   string `json:"scorer_id" validate:"required,max=80"`
	AssisterID string `json:"assister_id" validate:"omitempty,max=80"`
}

type recordCardRequest struct {
	TeamID   string `json:"team_id" validate:"required,max=80"`
	PlayerID string `json:"player_id" validate:"required,max=80"`
	Card     string `json:"card" validate:"required,oneof=YELLOW RED yellow red"`
}

type recordSubstitutionRequest struct {
	TeamID      string `json:"team_id" validate:"required,max=80"`
	PlayerOutID string `json:"player_out_id" validate:"required,max=80"`
	PlayerInID  string `json:"player_in_id" validate:"required,max=80"`
}

type recordMatchStatRequest struct {
	TeamID     string `json:"team_id" validate:"required,max=80"`
	Kind       string `json:"kind" validate:"required,max=20"`
	Possession int    `json:"possession" validate:"gte=0,lte=100"`
}

type adjustPenaltyRequest struct {
	TeamID string `json:"team_id" validate:"required,max=80"`
	Delta  int    `json:"delta" validate:"required,gte=-10,lte=10"`
}

func (h *Handler) AdvancePeriod(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AdvancePeriod")
	defer span.End()

	var req advancePeriodRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	m, err := h.footballService.AdvancePeriod(ctx, usecase.AdvancePeriodInput{
		MatchID:       pathMatchID(r),
		Target:        req.Target,
		ContinueClock: req.ContinueClock,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, matchToDTO(m))
}

func (h *Handler) ResolveTieBreak(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResolveTieBreak")
	defer span.End()

	var req tieBreakRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	m, err := h.footballService.ResolveTieBreak(ctx, pathMatchID(r), req.Choice)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, matchToDTO(m))
}

func (h *Handler) RecordGoal(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordGoal")
	defer span.End()

	var req recordGoalRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	m, events, err := h.footballService.RecordGoal(ctx, usecase.GoalInput{
		MatchID:    pathMatchID(r),
		TeamID:     req.TeamID,
		ScorerID:   req.ScorerID,
		AssisterID: req.AssisterID,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, commandToDTO(m, events))
}

func (h *Handler) RecordCard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordCard")
	defer span.End()

	var req recordCardRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	m, events, err := h.footballService.RecordCard(ctx, pathMatchID(r), req.TeamID, req.PlayerID, req.Card)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, commandToDTO(m, events))
}

func (h *Handler) RecordSubstitution(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordSubstitution")
	defer span.End()

	var req recordSubstitutionRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	m, events, err := h.footballService.RecordSubstitution(ctx, pathMatchID(r), req.TeamID, req.PlayerOutID, req.PlayerInID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, commandToDTO(m, events))
}

func (h *Handler) RecordMatchStat(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordMatchStat")
	defer span.End()

	var req recordMatchStatRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	m, events, err := h.footballService.RecordMatchStat(ctx, usecase.MatchStatInput{
		MatchID:    pathMatchID(r),
		TeamID:     req.TeamID,
		Kind:       req.Kind,
		Possession: req.Possession,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, commandToDTO(m, events))
}

func (h *Handler) AdjustPenalty(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AdjustPenalty")
	defer span.End()

	var req adjustPenaltyRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	m, err := h.footballService.AdjustPenalty(ctx, pathMatchID(r), req.TeamID, req.Delta)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, matchToDTO(m))
}

func (h *Handler) CompleteMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CompleteMatch")
	defer span.End()

	m, err := h.footballService.CompleteMatch(ctx, pathMatchID(r))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, matchToDTO(m))
}
