package hub

import (
	"context"
	"testing"
	"time"
)

func newTestClient(id string, buffer int) *Client {
	return &Client{ID: id, Send: make(chan ServerMessage, buffer)}
}

func TestTrySendReportsFullBuffer(t *testing.T) {
	c := newTestClient("c1", 1)

	if !c.TrySend(ServerMessage{Type: MessageTypeSnapshot}) {
		t.Fatal("first send should fit the buffer")
	}
	if c.TrySend(ServerMessage{Type: MessageTypeSnapshot}) {
		t.Error("second send should report a full buffer, not block")
	}
}

func TestRegisterUnregisterTracksClientCount(t *testing.T) {
	h := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	c := newTestClient("c1", 1)
	h.Register(c)

	waitFor(t, func() bool { return h.ClientCount() == 1 })

	h.Unregister(c)
	waitFor(t, func() bool { return h.ClientCount() == 0 })

	// Unregistering closes the send channel
	select {
	case _, open := <-c.Send:
		if open {
			t.Error("expected a closed send channel")
		}
	case <-time.After(time.Second):
		t.Error("send channel should be closed after unregister")
	}
}

func TestBroadcastReachesEveryClient(t *testing.T) {
	h := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	c1 := newTestClient("c1", 4)
	c2 := newTestClient("c2", 4)
	h.Register(c1)
	h.Register(c2)
	waitFor(t, func() bool { return h.ClientCount() == 2 })

	h.Broadcast(MessageTypeTransitions, map[string]string{"sig-1": "hit"})

	for _, c := range []*Client{c1, c2} {
		select {
		case msg := <-c.Send:
			if msg.Type != MessageTypeTransitions {
				t.Errorf("client %s got type %q", c.ID, msg.Type)
			}
		case <-time.After(time.Second):
			t.Errorf("client %s never received the broadcast", c.ID)
		}
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition never became true")
}
