package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/yourusername/othello/internal/positionid"
	"github.com/yourusername/othello/pkg/engine"
)

// defaultSlowWait bounds how long a search request queues for a slow
// worker slot before the server reports busy.
const defaultSlowWait = 5 * time.Second

// Handlers holds the HTTP handlers and engine reference.
type Handlers struct {
	engine   *engine.Engine
	version  string
	pool     *WorkerPool
	slowWait time.Duration
}

// NewHandlers creates a Handlers instance.
func NewHandlers(e *engine.Engine, version string, pool *WorkerPool) *Handlers {
	return &Handlers{
		engine:   e,
		version:  version,
		pool:     pool,
		slowWait: defaultSlowWait,
	}
}

// acquireSlow takes a slow-pool slot, queueing up to slowWait. On
// timeout it writes the busy error and returns false.
func (h *Handlers) acquireSlow(w http.ResponseWriter) bool {
	if err := h.pool.AcquireSlowWithTimeout(h.slowWait); err != nil {
		writeError(w, http.StatusServiceUnavailable, "server busy", "busy")
		return false
	}
	return true
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, msg string, code string) {
	writeJSON(w, status, ErrorResponse{Error: msg, Code: code})
}

// writeEngineError maps engine sentinel errors to API error codes.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrIllegalMove):
		writeError(w, http.StatusBadRequest, err.Error(), "illegal_move")
	case errors.Is(err, engine.ErrInvalidPass):
		writeError(w, http.StatusBadRequest, err.Error(), "invalid_pass")
	case errors.Is(err, engine.ErrInvalidQuery):
		writeError(w, http.StatusBadRequest, err.Error(), "invalid_query")
	default:
		writeError(w, http.StatusInternalServerError, err.Error(), "internal")
	}
}

// parsePosition decodes a position ID into a game snapshot with no
// history.
func parsePosition(id string) (*engine.Game, error) {
	black, white, player, err := positionid.FromID(id)
	if err != nil {
		return nil, err
	}
	board := engine.Board{Black: black, White: white}
	return engine.GameFromBoard(board, engine.Player(player)), nil
}

// parseDifficulty parses an optional difficulty, defaulting to expert.
func parseDifficulty(s string) (engine.Difficulty, error) {
	if s == "" {
		return engine.Expert, nil
	}
	return engine.ParseDifficulty(s)
}

// decodeRequest decodes a JSON request body.
func decodeRequest(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error(), "bad_request")
		return false
	}
	return true
}

// Health handles GET /api/health.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: h.version,
		Book:    engine.BookSize(),
	})
}

// Legal handles POST /api/legal: the legal move set and flip masks for
// a position.
func (h *Handlers) Legal(w http.ResponseWriter, r *http.Request) {
	var req PositionRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	if err := h.pool.AcquireFast(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "server busy", "busy")
		return
	}
	defer h.pool.ReleaseFast()

	g, err := parsePosition(req.Position)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "bad_position")
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
	writeJSON(w, http.StatusOK, resp)
}

// Apply handles POST /api/apply: apply a move or a forced pass and
// return the resulting position.
func (h *Handlers) Apply(w http.ResponseWriter, r *http.Request) {
	var req ApplyRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	if err := h.pool.AcquireFast(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "server busy", "busy")
		return
	}
	defer h.pool.ReleaseFast()

	g, err := parsePosition(req.Position)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "bad_position")
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
		writeEngineError(w, err)
		return
	}

	board := g.Board()
	black, white := g.Counts()
	writeJSON(w, http.StatusOK, ApplyResponse{
		Position: positionid.ToID(board.Black, board.White, int(g.Turn())),
		Player:   g.Turn().String(),
		GameOver: g.Over(),
		Black:    black,
		White:    white,
	})
}

// Move handles POST /api/move: ask the AI for a move.
func (h *Handlers) Move(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	if !h.acquireSlow(w) {
		return
	}
	defer h.pool.ReleaseSlow()

	g, err := parsePosition(req.Position)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "bad_position")
		return
	}
	d, err := parseDifficulty(req.Difficulty)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "bad_difficulty")
		return
	}

	res, err := h.engine.ChooseMove(g, d)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, moveResponse(res))
}

// Solve handles POST /api/solve: exact endgame solve regardless of
// difficulty tier, within the Expert solver range.
func (h *Handlers) Solve(w http.ResponseWriter, r *http.Request) {
	var req SolveRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	if !h.acquireSlow(w) {
		return
	}
	defer h.pool.ReleaseSlow()

	g, err := parsePosition(req.Position)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "bad_position")
		return
	}
	if g.Board().EmptyCount() > engine.Expert.EndgameThreshold() {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("position has %d empties, solver limit is %d",
				g.Board().EmptyCount(), engine.Expert.EndgameThreshold()),
			"too_many_empties")
		return
	}

	res, err := h.engine.ChooseMove(g, engine.Expert)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, moveResponse(res))
}

// Analyze handles POST /api/analyze: rank every legal move.
func (h *Handlers) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	if !h.acquireSlow(w) {
		return
	}
	defer h.pool.ReleaseSlow()

	g, err := parsePosition(req.Position)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "bad_position")
		return
	}
	d, err := parseDifficulty(req.Difficulty)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "bad_difficulty")
		return
	}

	analysis, err := h.engine.AnalyzePosition(g, d)
	if err != nil {
		writeEngineError(w, err)
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
	writeJSON(w, http.StatusOK, resp)
}

// moveResponse converts a search result to the wire shape.
func moveResponse(res engine.SearchResult) MoveResponse {
	resp := MoveResponse{
		Pass:  res.Pass,
		Score: res.Score,
		Exact: res.Exact,
		Book:  res.Book,
		Depth: res.Depth,
		Nodes: res.Nodes,
	}
	if !res.Pass {
		resp.Square = res.Square.String()
	}
	return resp
}
