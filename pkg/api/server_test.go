package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/yourusername/othello/pkg/engine"
)

func newTestServer() *Server {
	return NewServer(engine.NewEngine(engine.Options{}), DefaultConfig(), "test")
}

func TestRouterHealth(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	s.router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("CORS header = %q", got)
	}
}

func TestRouterStats(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	w := httptest.NewRecorder()
	s.router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var stats PoolStats
	if err := json.NewDecoder(w.Body).Decode(&stats); err != nil {
		t.Fatal(err)
	}
	if stats.MaxSlow != DefaultConfig().MaxSlowWorkers {
		t.Errorf("max slow = %d", stats.MaxSlow)
	}
}

func TestRouterPreflight(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodOptions, "/api/move", nil)
	w := httptest.NewRecorder()
	s.router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("preflight status = %d", w.Code)
	}
}

func TestRouterMethodEnforced(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/move", nil)
	w := httptest.NewRecorder()
	s.router().ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}

func TestRouterUnknownPath(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/nonsense", nil)
	w := httptest.NewRecorder()
	s.router().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestSelfPlayStreamBadDifficulty(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/selfplay/stream?black=bogus", nil)
	w := httptest.NewRecorder()
	s.router().ServeHTTP(w, req)

	if ct := w.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("content type = %q", ct)
	}
	if !strings.Contains(w.Body.String(), "event: error") {
		t.Errorf("missing error event:\n%s", w.Body.String())
	}
}

func TestSelfPlayStream(t *testing.T) {
	if testing.Short() {
		t.Skip("plays a full game")
	}
	s := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/selfplay/stream?black=easy&white=easy", nil)
	w := httptest.NewRecorder()
	s.router().ServeHTTP(w, req)

	body := w.Body.String()
	if !strings.Contains(body, "event: move") {
		t.Fatalf("no move events:\n%.400s", body)
	}
	if !strings.Contains(body, "event: result") || !strings.Contains(body, "event: done") {
		t.Error("stream did not finish with result and done events")
	}
}
