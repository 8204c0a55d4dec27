package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/yourusername/othello/internal/positionid"
	"github.com/yourusername/othello/pkg/engine"
)

func newTestHandlers() *Handlers {
	e := engine.NewEngine(engine.Options{})
	pool := NewWorkerPool(DefaultPoolConfig())
	return NewHandlers(e, "test", pool)
}

func startPositionID() string {
	b := engine.NewBoard()
	return positionid.ToID(b.Black, b.White, positionid.BlackToMove)
}

// doJSON posts a JSON body to a handler and decodes the response.
func doJSON(t *testing.T, handler http.HandlerFunc, body, out interface{}) int {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(payload))
	w := httptest.NewRecorder()
	handler(w, req)

	if out != nil {
		if err := json.NewDecoder(w.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return w.Code
}

func TestHealth(t *testing.T) {
	h := newTestHandlers()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	h.Health(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp HealthResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "ok" || resp.Version != "test" {
		t.Errorf("health = %+v", resp)
	}
	if resp.Book == 0 {
		t.Error("book position count is zero")
	}
}

func TestLegalStartPosition(t *testing.T) {
	h := newTestHandlers()

	var resp LegalResponse
	code := doJSON(t, h.Legal, PositionRequest{Position: startPositionID()}, &resp)
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if len(resp.Moves) != 4 {
		t.Fatalf("got %d moves, want 4", len(resp.Moves))
	}
	if resp.Moves[0].Square != "D3" {
		t.Errorf("first move = %q, want D3", resp.Moves[0].Square)
	}
	if resp.Player != "black" || resp.GameOver || resp.MustPass {
		t.Errorf("response = %+v", resp)
	}
}

func TestLegalBadPosition(t *testing.T) {
	h := newTestHandlers()

	var resp ErrorResponse
	code := doJSON(t, h.Legal, PositionRequest{Position: "nonsense"}, &resp)
	if code != http.StatusBadRequest {
		t.Fatalf("status = %d", code)
	}
	if resp.Code != "bad_position" {
		t.Errorf("error code = %q", resp.Code)
	}
}

func TestLegalBadBody(t *testing.T) {
	h := newTestHandlers()
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("{")))
	w := httptest.NewRecorder()
	h.Legal(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d", w.Code)
	}
}

func TestApplyMove(t *testing.T) {
	h := newTestHandlers()

	var resp ApplyResponse
	code := doJSON(t, h.Apply, ApplyRequest{Position: startPositionID(), Move: "D3"}, &resp)
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if resp.Player != "white" {
		t.Errorf("player = %q, want white", resp.Player)
	}
	if resp.Black != 4 || resp.White != 1 {
		t.Errorf("counts = %d-%d, want 4-1", resp.Black, resp.White)
	}

	black, white, player, err := positionid.FromID(resp.Position)
	if err != nil {
		t.Fatalf("returned position invalid: %v", err)
	}
	if player != positionid.WhiteToMove {
		t.Error("returned position not white to move")
	}
	if black == 0 || black&white != 0 {
		t.Errorf("bad returned boards: %016x / %016x", black, white)
	}
}

func TestApplyIllegal(t *testing.T) {
	h := newTestHandlers()

	var resp ErrorResponse
	code := doJSON(t, h.Apply, ApplyRequest{Position: startPositionID(), Move: "A1"}, &resp)
	if code != http.StatusBadRequest {
		t.Fatalf("status = %d", code)
	}
	if resp.Code != "illegal_move" {
		t.Errorf("error code = %q", resp.Code)
	}
}

func TestApplyInvalidPass(t *testing.T) {
	h := newTestHandlers()

	var resp ErrorResponse
	code := doJSON(t, h.Apply, ApplyRequest{Position: startPositionID(), Move: "--"}, &resp)
	if code != http.StatusBadRequest {
		t.Fatalf("status = %d", code)
	}
	if resp.Code != "invalid_pass" {
		t.Errorf("error code = %q", resp.Code)
	}
}

func TestMoveEndpoint(t *testing.T) {
	h := newTestHandlers()

	var resp MoveResponse
	code := doJSON(t, h.Move, MoveRequest{Position: startPositionID(), Difficulty: "easy"}, &resp)
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if resp.Pass || resp.Square == "" {
		t.Errorf("response = %+v", resp)
	}
	if _, err := engine.ParseSquare(resp.Square); err != nil {
		t.Errorf("square %q unparsable", resp.Square)
	}
}

func TestMoveBusyWhenPoolExhausted(t *testing.T) {
	h := newTestHandlers()
	h.slowWait = 10 * time.Millisecond
	taken := 0
	for h.pool.TryAcquireSlow() {
		taken++
	}
	defer func() {
		for ; taken > 0; taken-- {
			h.pool.ReleaseSlow()
		}
	}()

	var resp ErrorResponse
	code := doJSON(t, h.Move, MoveRequest{Position: startPositionID(), Difficulty: "easy"}, &resp)
	if code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", code)
	}
	if resp.Code != "busy" {
		t.Errorf("error code = %q, want busy", resp.Code)
	}
}

func TestMoveBadDifficulty(t *testing.T) {
	h := newTestHandlers()

	var resp ErrorResponse
	code := doJSON(t, h.Move, MoveRequest{Position: startPositionID(), Difficulty: "impossible"}, &resp)
	if code != http.StatusBadRequest {
		t.Fatalf("status = %d", code)
	}
	if resp.Code != "bad_difficulty" {
		t.Errorf("error code = %q", resp.Code)
	}
}

func TestSolveTooManyEmpties(t *testing.T) {
	h := newTestHandlers()

	var resp ErrorResponse
	code := doJSON(t, h.Solve, SolveRequest{Position: startPositionID()}, &resp)
	if code != http.StatusBadRequest {
		t.Fatalf("status = %d", code)
	}
	if resp.Code != "too_many_empties" {
		t.Errorf("error code = %q", resp.Code)
	}
}

func TestSolveEndgame(t *testing.T) {
	h := newTestHandlers()

	// Full board except A1/H1, White on B1/G1: Black wins 64-0.
	empties := uint64(1<<0) | uint64(1<<7)
	white := uint64(1<<1) | uint64(1<<6)
	id := positionid.ToID(^(empties | white), white, positionid.BlackToMove)

	var resp MoveResponse
	code := doJSON(t, h.Solve, SolveRequest{Position: id}, &resp)
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if !resp.Exact || resp.Score != 64 || resp.Square != "A1" {
		t.Errorf("solve = %+v, want exact A1 +64", resp)
	}
}

func TestAnalyzeEndpoint(t *testing.T) {
	h := newTestHandlers()

	var resp AnalyzeResponse
	code := doJSON(t, h.Analyze, AnalyzeRequest{Position: startPositionID(), Difficulty: "medium"}, &resp)
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if len(resp.Moves) != 4 {
		t.Fatalf("ranked %d moves, want 4", len(resp.Moves))
	}
	for i := 1; i < len(resp.Moves); i++ {
		if resp.Moves[i].Score > resp.Moves[i-1].Score {
			t.Fatal("analysis not sorted best first")
		}
	}
}
