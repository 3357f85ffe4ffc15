package httpapi

import (
	"github.com/turfbook/live-scoring/internal/usecase"
)

// ViewBroadcaster converts read models into the same wire shape the REST view
// endpoint serves, so websocket viewers and polling viewers see one format.
type ViewBroadcaster struct {
	next usecase.Broadcaster
}

func NewViewBroadcaster(next usecase.Broadcaster) *ViewBroadcaster {
	return &ViewBroadcaster{next: next}
}

func (b *ViewBroadcaster) BroadcastMatch(matchID string, payload any) {
	if view, ok := payload.(*usecase.MatchView); ok && view.Match != nil {
		b.next.BroadcastMatch(matchID, viewToDTO(view.Match.Sport, view))
		return
	}
	b.next.BroadcastMatch(matchID, payload)
}
