package httpapi

import (
	"net/http"
	"time"

	"github.com/turfbook/live-scoring/internal/usecase"
)

type startTimerRequest struct {
	Label string `json:"label" validate:"omitempty,max=40"`
}

type rebaseTimerRequest struct {
	BaseSeconds int64  `json:"base_seconds" validate:"gte=0"`
	Label       string `json:"label" validate:"omitempty,max=40"`
}

func readingToDTO(reading usecase.TimerReading) timerDTO {
	return timerToDTO(reading.State, reading.Elapsed, reading.Now)
}

func (h *Handler) StartTimer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StartTimer")
	defer span.End()

	var req startTimerRequest
	if r.ContentLength > 0 {
		if err := h.decodeRequest(r, &req); err != nil {
			writeError(ctx, w, err)
			return
		}
		if err := h.validateRequest(ctx, req); err != nil {
			writeError(ctx, w, err)
			return
		}
	}

	reading, err := h.timerService.Start(ctx, pathMatchID(r), req.Label)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, readingToDTO(reading))
}

func (h *Handler) StopTimer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StopTimer")
	defer span.End()

	reading, err := h.timerService.Stop(ctx, pathMatchID(r))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, readingToDTO(reading))
}

func (h *Handler) RebaseTimer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RebaseTimer")
	defer span.End()

	var req rebaseTimerRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	reading, err := h.timerService.Rebase(ctx, pathMatchID(r), time.Duration(req.BaseSeconds)*time.Second, req.Label)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, readingToDTO(reading))
}

type serverTimeDTO struct {
	ServerTime string `json:"serverTime"`
	UnixMillis int64  `json:"unixMillis"`
}

// ServerTime lets clients measure their clock offset against the scoring
// authority with two reads and a midpoint estimate.
func (h *Handler) ServerTime(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ServerTime")
	defer span.End()

	now := h.timerService.Now().UTC()
	writeSuccess(ctx, w, http.StatusOK, serverTimeDTO{
		ServerTime: now.Format(time.RFC3339Nano),
		UnixMillis: now.UnixMilli(),
	})
}

func (h *Handler) ReadTimer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReadTimer")
	defer span.End()

	reading, err := h.timerService.Read(ctx, pathMatchID(r))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, readingToDTO(reading))
}
