package ws

import (
	"context"
	"testing"
	"time"

	"github.com/bytedance/sonic"

	"github.com/turfbook/live-scoring/internal/platform/logging"
)

func runTestHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	hub := NewHub(nil, logging.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		hub.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Errorf("hub did not stop")
		}
	})
	return hub, cancel
}

func receive(t *testing.T, client *Client) []byte {
	t.Helper()
	select {
	case data, ok := <-client.send:
		if !ok {
			t.Fatalf("send channel closed")
		}
		return data
	case <-time.After(time.Second):
		t.Fatalf("no message delivered")
		return nil
	}
}

func TestBroadcastReachesOnlyTheMatchRoom(t *testing.T) {
	t.Parallel()

	hub, _ := runTestHub(t)

	watching := newClient(hub, nil, "match-1")
	other := newClient(hub, nil, "match-2")
	hub.register <- watching
	hub.register <- other

	hub.BroadcastMatch("match-1", map[string]any{"score": 42})

	var msg Message
	if err := sonic.Unmarshal(receive(t, watching), &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if msg.Type != MessageTypeMatchUpdate || msg.MatchID != "match-1" {
		t.Fatalf("message = %+v", msg)
	}

	select {
	case data := <-other.send:
		t.Fatalf("unrelated room received %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnregisterClosesClient(t *testing.T) {
	t.Parallel()

	hub, _ := runTestHub(t)

	client := newClient(hub, nil, "match-1")
	hub.register <- client
	hub.unregister <- client

	select {
	case _, ok := <-client.send:
		if ok {
			t.Fatalf("expected closed send channel")
		}
	case <-time.After(time.Second):
		t.Fatalf("send channel not closed")
	}

	if client.trySend([]byte("late")) {
		t.Fatalf("trySend succeeded after close")
	}
}

func TestSlowViewerIsDropped(t *testing.T) {
	t.Parallel()

	hub, _ := runTestHub(t)

	client := newClient(hub, nil, "match-1")
	hub.register <- client

	for i := 0; i < sendBufferSize+4; i++ {
		hub.BroadcastMatch("match-1", map[string]int{"n": i})
	}

	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-client.send:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatalf("slow viewer was never dropped")
		}
	}
}

func TestShutdownClosesAllRooms(t *testing.T) {
	t.Parallel()

	hub, cancel := runTestHub(t)

	first := newClient(hub, nil, "match-1")
	second := newClient(hub, nil, "match-2")
	hub.register <- first
	hub.register <- second

	cancel()

	for _, client := range []*Client{first, second} {
		select {
		case _, ok := <-client.send:
			if ok {
				t.Fatalf("expected closed send channel")
			}
		case <-time.After(time.Second):
			t.Fatalf("send channel not closed on shutdown")
		}
	}
}
