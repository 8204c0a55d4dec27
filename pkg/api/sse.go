package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/yourusername/othello/internal/positionid"
	"github.com/yourusername/othello/pkg/engine"
)

// SSEMove is one streamed self-play half-move.
type SSEMove struct {
	MoveNumber int    `json:"move_number"`
	Player     string `json:"player"`
	Square     string `json:"square,omitempty"`
	Pass       bool   `json:"pass,omitempty"`
	Score      int    `json:"score"`
	Book       bool   `json:"book,omitempty"`
	Exact      bool   `json:"exact,omitempty"`
	Position   string `json:"position"` // position after the move
}

// SSEResult is the final outcome of a streamed self-play game.
type SSEResult struct {
	Winner string `json:"winner"` // "black", "white" or "draw"
	Black  int    `json:"black"`
	White  int    `json:"white"`
	Moves  int    `json:"moves"`
}

// SelfPlaySSE handles Server-Sent Events for streaming a self-play
// game move by move.
// GET /api/selfplay/stream?black=hard&white=hard
func (h *Handlers) SelfPlaySSE(w http.ResponseWriter, r *http.Request) {
	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	query := r.URL.Query()
	blackD, err := parseDifficulty(query.Get("black"))
	if err != nil {
		writeSSEError(w, "invalid black difficulty: "+err.Error())
		return
	}
	whiteD, err := parseDifficulty(query.Get("white"))
	if err != nil {
		writeSSEError(w, "invalid white difficulty: "+err.Error())
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeSSEError(w, "streaming not supported")
		return
	}

	if err := h.pool.AcquireSlow(r.Context()); err != nil {
		writeSSEError(w, "server busy")
		return
	}
	defer h.pool.ReleaseSlow()

	// Progress callback sends one event per half-move
	callback := func(p engine.SelfPlayProgress) {
		ev := SSEMove{
			MoveNumber: p.MoveNumber,
			Player:     p.Player.String(),
			Pass:       p.Pass,
			Score:      p.Score,
			Book:       p.Book,
			Exact:      p.Exact,
			Position:   positionid.ToID(p.Board.Black, p.Board.White, int(p.Player.Opponent())),
		}
		if !p.Pass {
			ev.Square = p.Square.String()
		}
		writeSSEEvent(w, "move", ev)
		flusher.Flush()
	}

	g, err := engine.SelfPlayWithProgress(h.engine, h.engine, blackD, whiteD, callback)
	if err != nil {
		writeSSEError(w, "self-play failed: "+err.Error())
		return
	}

	result, _ := g.Result()
	winner := "draw"
	if !result.Draw {
		winner = result.Winner.String()
	}
	writeSSEEvent(w, "result", SSEResult{
		Winner: winner,
		Black:  result.Black,
		White:  result.White,
		Moves:  g.MoveCount(),
	})
	flusher.Flush()

	// Send done event to signal completion
	writeSSEEvent(w, "done", nil)
	flusher.Flush()
}

// writeSSEEvent writes a Server-Sent Event to the response.
func writeSSEEvent(w http.ResponseWriter, event string, data interface{}) {
	fmt.Fprintf(w, "event: %s\n", event)
	if data != nil {
		jsonData, _ := json.Marshal(data)
		fmt.Fprintf(w, "data: %s\n", jsonData)
	}
	fmt.Fprintf(w, "\n")
}

// writeSSEError writes an error event and closes the stream.
func writeSSEError(w http.ResponseWriter, message string) {
	writeSSEEvent(w, "error", map[string]string{"error": message})
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
}
