package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/yourusername/othello/internal/positionid"
	"github.com/yourusername/othello/pkg/engine"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins - configure properly in production
	},
}

// WSMessage is a generic WebSocket message.
type WSMessage struct {
	Type    string          `json:"type"`    // Message type: "legal", "apply", "move", "analyze", "ping"
	ID      string          `json:"id"`      // Request ID for correlating responses
	Payload json.RawMessage `json:"payload"` // Type-specific payload
}

// WSResponse is a generic WebSocket response.
type WSResponse struct {
	Type    string      `json:"type"`              // Response type: "result", "error", "pong"
	ID      string      `json:"id,omitempty"`      // Request ID
	Payload interface{} `json:"payload,omitempty"` // Response data
	Error   string      `json:"error,omitempty"`   // Error message if any
}

// WSClient represents a connected WebSocket client.
type WSClient struct {
	conn     *websocket.Conn
	handlers *Handlers
	sendChan chan WSResponse
	done     chan struct{} // closed when the writer exits
}

// WebSocket handles WebSocket connections for interactive play and
// analysis.
func (h *Handlers) WebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}
	client := &WSClient{
		conn:     conn,
		handlers: h,
		sendChan: make(chan WSResponse, 256),
		done:     make(chan struct{}),
	}
	go client.writePump()
	client.readPump()
}

func (c *WSClient) writePump() {
	defer close(c.done)
	defer c.conn.Close()
	for msg := range c.sendChan {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

func (c *WSClient) readPump() {
	defer func() { close(c.sendChan); c.conn.Close() }()
	for {
		var msg WSMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}
		c.handleMessage(msg)
	}
}

// send queues a response for the writer. A writer that hit a write
// error no longer drains the channel, so once it has exited the
// response is dropped instead of blocking the reader forever.
func (c *WSClient) send(resp WSResponse) {
	select {
	case c.sendChan <- resp:
	case <-c.done:
	}
}

func (c *WSClient) handleMessage(msg WSMessage) {
	switch msg.Type {
	case "legal":
		c.handleLegal(msg)
	case "apply":
		c.handleApply(msg)
	case "move":
		c.handleMove(msg)
	case "analyze":
		c.handleAnalyze(msg)
	case "ping":
		c.send(WSResponse{Type: "pong", ID: msg.ID})
	default:
		c.send(WSResponse{Type: "error", ID: msg.ID, Error: "unknown message type"})
	}
}

func (c *WSClient) handleLegal(msg WSMessage) {
	var req PositionRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		c.send(WSResponse{Type: "error", ID: msg.ID, Error: "invalid payload"})
		return
	}
	g, err := parsePosition(req.Position)
	if err != nil {
		c.send(WSResponse{Type: "error", ID: msg.ID, Error: "invalid position: " + err.Error()})
		return
	}

	moves := g.LegalMoves()
	resp := LegalResponse{
		Position: req.Position,
		Player:   g.Turn().String(),
		Moves:    make([]MoveInfo, 0, len(moves)),
		MustPass: g.MustPass() && !g.Over(),
		GameOver: g.Over(),
	}
	for _, m := range moves {
		resp.Moves = append(resp.Moves, MoveInfo{
			Square: m.Square.String(),
			Flips:  m.FlipCount(),
			Mask:   fmt.Sprintf("%016x", m.Flipped),
		})
	}
	c.send(WSResponse{Type: "result", ID: msg.ID, Payload: resp})
}

func (c *WSClient) handleApply(msg WSMessage) {
	var req ApplyRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		c.send(WSResponse{Type: "error", ID: msg.ID, Error: "invalid payload"})
		return
	}
	g, err := parsePosition(req.Position)
	if err != nil {
		c.send(WSResponse{Type: "error", ID: msg.ID, Error: "invalid position: " + err.Error()})
		return
	}

	if req.Move == "" || req.Move == "--" {
		err = g.Pass()
	} else {
		var sq engine.Square
		sq, err = engine.ParseSquare(req.Move)
		if err == nil {
			err = g.ApplyMove(sq)
		}
	}
	if err != nil {
		c.send(WSResponse{Type: "error", ID: msg.ID, Error: err.Error()})
		return
	}

	board := g.Board()
	black, white := g.Counts()
	c.send(WSResponse{Type: "result", ID: msg.ID, Payload: ApplyResponse{
		Position: positionid.ToID(board.Black, board.White, int(g.Turn())),
		Player:   g.Turn().String(),
		GameOver: g.Over(),
		Black:    black,
		White:    white,
	}})
}

func (c *WSClient) handleMove(msg WSMessage) {
	var req MoveRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		c.send(WSResponse{Type: "error", ID: msg.ID, Error: "invalid payload"})
		return
	}
	g, err := parsePosition(req.Position)
	if err != nil {
		c.send(WSResponse{Type: "error", ID: msg.ID, Error: "invalid position: " + err.Error()})
		return
	}
	d, err := parseDifficulty(req.Difficulty)
	if err != nil {
		c.send(WSResponse{Type: "error", ID: msg.ID, Error: err.Error()})
		return
	}

	// The reader goroutine runs searches inline, so never queue for a
	// slot here; report busy and let the client retry.
	if !c.handlers.pool.TryAcquireSlow() {
		c.send(WSResponse{Type: "error", ID: msg.ID, Error: "server busy"})
		return
	}
	defer c.handlers.pool.ReleaseSlow()

	res, err := c.handlers.engine.ChooseMove(g, d)
	if err != nil {
		c.send(WSResponse{Type: "error", ID: msg.ID, Error: err.Error()})
		return
	}
	c.send(WSResponse{Type: "result", ID: msg.ID, Payload: moveResponse(res)})
}

func (c *WSClient) handleAnalyze(msg WSMessage) {
	var req AnalyzeRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		c.send(WSResponse{Type: "error", ID: msg.ID, Error: "invalid payload"})
		return
	}
	g, err := parsePosition(req.Position)
	if err != nil {
		c.send(WSResponse{Type: "error", ID: msg.ID, Error: "invalid position: " + err.Error()})
		return
	}
	d, err := parseDifficulty(req.Difficulty)
	if err != nil {
		c.send(WSResponse{Type: "error", ID: msg.ID, Error: err.Error()})
		return
	}

	if !c.handlers.pool.TryAcquireSlow() {
		c.send(WSResponse{Type: "error", ID: msg.ID, Error: "server busy"})
		return
	}
	defer c.handlers.pool.ReleaseSlow()

	analysis, err := c.handlers.engine.AnalyzePosition(g, d)
	if err != nil {
		c.send(WSResponse{Type: "error", ID: msg.ID, Error: err.Error()})
		return
	}
	resp := AnalyzeResponse{
		Moves: make([]RankedMove, 0, analysis.NumMoves),
		Exact: analysis.Exact,
	}
	for _, m := range analysis.Moves {
		resp.Moves = append(resp.Moves, RankedMove{
			Square: m.Move.Square.String(),
			Score:  m.Score,
		})
	}
	c.send(WSResponse{Type: "result", ID: msg.ID, Payload: resp})
}
