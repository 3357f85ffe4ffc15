package ws

import (
	"context"

	sonic "github.com/bytedance/sonic"
	"github.com/sourcegraph/conc"

	"github.com/turfbook/live-scoring/internal/platform/logging"
)

// Message is the envelope pushed to live viewers.
type Message struct {
	Type    string `json:"type"`
	MatchID string `json:"match_id"`
	Payload any    `json:"payload"`
}

const MessageTypeMatchUpdate = "MATCH_UPDATED"

// TaskPool runs room fan-out off the hub loop.
type TaskPool interface {
	Submit(task func()) error
}

type roomMessage struct {
	matchID string
	data    []byte
}

// Hub keeps one room per match and fans scoring updates out to every
// connected viewer of that match. All room bookkeeping happens on the Run
// loop; the exported methods only move work onto channels.
type Hub struct {
	rooms      map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan roomMessage
	pool       TaskPool
	logger     *logging.Logger
	pumps      conc.WaitGroup
}

func NewHub(pool TaskPool, logger *logging.Logger) *Hub {
	if logger == nil {
		logger = logging.Default()
	}
	return &Hub{
		rooms:      make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan roomMessage, 64),
		pool:       pool,
		logger:     logger,
	}
}

// Run owns the room map until ctx is cancelled, then closes every client and
// waits for their pumps to drain.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for _, room := range h.rooms {
				for client := range room {
					client.closeSend()
				}
			}
			h.rooms = make(map[string]map[*Client]struct{})
			h.pumps.Wait()
			return

		case client := <-h.register:
			room, ok := h.rooms[client.matchID]
			if !ok {
				room = make(map[*Client]struct{})
				h.rooms[client.matchID] = room
			}
			room[client] = struct{}{}
			h.logger.Debug("viewer joined", "match_id", client.matchID, "viewers", len(room))

		case client := <-h.unregister:
			room, ok := h.rooms[client.matchID]
			if !ok {
				continue
			}
			if _, member := room[client]; !member {
				continue
			}
			delete(room, client)
			client.closeSend()
			if len(room) == 0 {
				delete(h.rooms, client.matchID)
			}
			h.logger.Debug("viewer left", "match_id", client.matchID, "viewers", len(room))

		case message := <-h.broadcast:
			room, ok := h.rooms[message.matchID]
			if !ok {
				continue
			}
			for client := range room {
				if !client.trySend(message.data) {
					// A viewer that cannot keep up is dropped rather than
					// allowed to stall the room.
					delete(room, client)
					client.closeSend()
				}
			}
			if len(room) == 0 {
				delete(h.rooms, message.matchID)
			}
		}
	}
}

// BroadcastMatch satisfies the scoring service's broadcaster port.
func (h *Hub) BroadcastMatch(matchID string, payload any) {
	data, err := sonic.Marshal(Message{
		Type:    MessageTypeMatchUpdate,
		MatchID: matchID,
		Payload: payload,
	})
	if err != nil {
		h.logger.Error("marshal live update", "match_id", matchID, "error", err)
		return
	}

	send := func() { h.broadcast <- roomMessage{matchID: matchID, data: data} }
	if h.pool == nil {
		send()
		return
	}
	if err := h.pool.Submit(send); err != nil {
		h.logger.Error("submit live update", "match_id", matchID, "error", err)
	}
}
