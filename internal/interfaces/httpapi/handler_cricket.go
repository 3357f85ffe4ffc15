package httpapi

import (
	"context"
	"net/http"

	"github.com/turfbook/live-scoring/internal/domain/cricket"
	"github.com/turfbook/live-scoring/internal/domain/match"
	"github.com/turfbook/live-scoring/internal/domain/matchevent"
)

type selectTeamRequest struct {
	TeamID string `json:"team_id" validate:"required,max=80"`
}

type selectPlayerRequest struct {
	PlayerID string `json:"player_id" validate:"required,max=80"`
}

type recordDeliveryRequest struct {
	Runs int `json:"runs" validate:"gte=0,lte=6"`
}

type recordWicketRequest struct {
	Dismissal string `json:"dismissal" validate:"required,max=20"`
	Out       string `json:"out" validate:"omitempty,oneof=STRIKER NON_STRIKER BOTH"`
}

type recordExtraRequest struct {
	Kind string `json:"kind" validate:"required,max=20"`
	Runs int    `json:"runs" validate:"gte=1,lte=7"`
}

type commandResponse struct {
	Match  matchDTO   `json:"match"`
	Events []eventDTO `json:"events,omitempty"`
}

func commandToDTO(m *match.Match, events []matchevent.Event) commandResponse {
	out := commandResponse{Match: matchToDTO(m)}
	if len(events) > 0 {
		out.Events = make([]eventDTO, 0, len(events))
		for _, event := range events {
			out.Events = append(out.Events, eventToDTO(event))
		}
	}
	return out
}

func (h *Handler) SelectBattingTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SelectBattingTeam")
	defer span.End()

	var req selectTeamRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	m, err := h.cricketService.SelectBattingTeam(ctx, pathMatchID(r), req.TeamID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, matchToDTO(m))
}

func (h *Handler) SelectStriker(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SelectStriker")
	defer span.End()
	h.selectCricketRole(ctx, w, r, h.cricketService.SelectStriker)
}

func (h *Handler) SelectNonStriker(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SelectNonStriker")
	defer span.End()
	h.selectCricketRole(ctx, w, r, h.cricketService.SelectNonStriker)
}

func (h *Handler) SelectBowler(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SelectBowler")
	defer span.End()
	h.selectCricketRole(ctx, w, r, h.cricketService.SelectBowler)
}

func (h *Handler) selectCricketRole(
	ctx context.Context,
	w http.ResponseWriter,
	r *http.Request,
	selectFn func(ctx context.Context, matchID, playerID string) (*match.Match, error),
) {
	var req selectPlayerRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	m, err := selectFn(ctx, pathMatchID(r), req.PlayerID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, matchToDTO(m))
}

func (h *Handler) RecordDelivery(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordDelivery")
	defer span.End()

	var req recordDeliveryRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	m, events, err := h.cricketService.RecordDelivery(ctx, pathMatchID(r), req.Runs)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, commandToDTO(m, events))
}

func (h *Handler) RecordWicket(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordWicket")
	defer span.End()

	var req recordWicketRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	m, events, err := h.cricketService.RecordWicket(ctx, pathMatchID(r), cricket.WicketInput{
		Dismissal: req.Dismissal,
		Out:       req.Out,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, commandToDTO(m, events))
}

func (h *Handler) RecordExtra(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordExtra")
	defer span.End()

	var req recordExtraRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	m, events, err := h.cricketService.RecordExtra(ctx, pathMatchID(r), req.Kind, req.Runs)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, commandToDTO(m, events))
}
