package api

import (
	"encoding/json"
	"testing"
	"time"
)

// newTestWSClient wires a client to test handlers without a network
// connection; the message handlers only touch the send channel.
func newTestWSClient(h *Handlers) *WSClient {
	return &WSClient{
		handlers: h,
		sendChan: make(chan WSResponse, 16),
		done:     make(chan struct{}),
	}
}

func wsRequest(t *testing.T, msgType, id string, payload interface{}) WSMessage {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	return WSMessage{Type: msgType, ID: id, Payload: raw}
}

func TestWSPingPong(t *testing.T) {
	c := newTestWSClient(newTestHandlers())
	c.handleMessage(WSMessage{Type: "ping", ID: "1"})

	resp := <-c.sendChan
	if resp.Type != "pong" || resp.ID != "1" {
		t.Errorf("response = %+v", resp)
	}
}

func TestWSUnknownType(t *testing.T) {
	c := newTestWSClient(newTestHandlers())
	c.handleMessage(WSMessage{Type: "bogus", ID: "2"})

	resp := <-c.sendChan
	if resp.Type != "error" || resp.Error == "" {
		t.Errorf("response = %+v", resp)
	}
}

func TestWSLegal(t *testing.T) {
	c := newTestWSClient(newTestHandlers())
	c.handleMessage(wsRequest(t, "legal", "3", PositionRequest{Position: startPositionID()}))

	resp := <-c.sendChan
	if resp.Type != "result" || resp.ID != "3" {
		t.Fatalf("response = %+v", resp)
	}
	payload, ok := resp.Payload.(LegalResponse)
	if !ok {
		t.Fatalf("payload type %T", resp.Payload)
	}
	if len(payload.Moves) != 4 {
		t.Errorf("moves = %d, want 4", len(payload.Moves))
	}
}

func TestWSMoveBusyWhenPoolExhausted(t *testing.T) {
	h := newTestHandlers()
	c := newTestWSClient(h)
	taken := 0
	for h.pool.TryAcquireSlow() {
		taken++
	}
	defer func() {
		for ; taken > 0; taken-- {
			h.pool.ReleaseSlow()
		}
	}()

	c.handleMessage(wsRequest(t, "move", "4", MoveRequest{
		Position:   startPositionID(),
		Difficulty: "easy",
	}))

	resp := <-c.sendChan
	if resp.Type != "error" || resp.Error != "server busy" {
		t.Errorf("response = %+v", resp)
	}
}

func TestWSSendDropsAfterWriterExit(t *testing.T) {
	c := newTestWSClient(newTestHandlers())
	c.sendChan = make(chan WSResponse) // unbuffered, nobody reading
	close(c.done)                      // writer gone

	returned := make(chan struct{})
	go func() {
		c.send(WSResponse{Type: "pong"})
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("send blocked after writer exit")
	}
}
