package ws

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/turfbook/live-scoring/internal/usecase"
)

type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	matches  matchExists
}

type matchExists func(ctx context.Context, matchID string) error

// NewHandler builds the live-feed upgrade handler. checkMatch rejects joins
// for unknown matches; pass nil to accept any room name.
func NewHandler(hub *Hub, checkMatch func(ctx context.Context, matchID string) error, allowedOrigins []string) *Handler {
	originAllowed := originChecker(allowedOrigins)
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return originAllowed(r.Header.Get("Origin"))
			},
		},
		matches: checkMatch,
	}
}

// ServeHTTP upgrades GET /v1/matches/{matchID}/live into a room subscription.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	matchID := r.PathValue("matchID")
	if matchID == "" {
		http.Error(w, "match id is required", http.StatusBadRequest)
		return
	}

	if h.matches != nil {
		if err := h.matches(r.Context(), matchID); err != nil {
			if errors.Is(err, usecase.ErrNotFound) {
				http.Error(w, "match not found", http.StatusNotFound)
				return
			}
			http.Error(w, "match lookup failed", http.StatusInternalServerError)
			return
		}
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.hub.logger.Warn("websocket upgrade failed", "match_id", matchID, "error", err)
		return
	}

	client := newClient(h.hub, conn, matchID)
	h.hub.register <- client
	h.hub.pumps.Go(client.writePump)
	h.hub.pumps.Go(client.readPump)
}

func originChecker(allowed []string) func(origin string) bool {
	if len(allowed) == 0 {
		return func(string) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	wildcard := false
	for _, origin := range allowed {
		if origin == "*" {
			wildcard = true
		}
		set[origin] = struct{}{}
	}
	return func(origin string) bool {
		if wildcard || origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}
