// Package api provides the HTTP/JSON API for the Othello engine.
package api

// ============================================================================
// Request Types
// ============================================================================

// PositionRequest identifies a position for fast queries (legal moves,
// apply).
type PositionRequest struct {
	Position string `json:"position"` // position ID
}

// ApplyRequest asks to apply a move (or a forced pass) to a position.
type ApplyRequest struct {
	Position string `json:"position"`       // position ID
	Move     string `json:"move,omitempty"` // algebraic square; empty or "--" = pass
}

// MoveRequest asks the AI for a move.
type MoveRequest struct {
	Position   string `json:"position"`             // position ID
	Difficulty string `json:"difficulty,omitempty"` // easy/medium/hard/expert (default expert)
}

// SolveRequest asks for an exact endgame solve.
type SolveRequest struct {
	Position string `json:"position"` // position ID; empties must be within solver range
}

// AnalyzeRequest asks for a ranked list of all legal moves.
type AnalyzeRequest struct {
	Position   string `json:"position"`
	Difficulty string `json:"difficulty,omitempty"`
}

// ============================================================================
// Response Types
// ============================================================================

// ErrorResponse is the uniform error shape.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// HealthResponse reports server liveness.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Book    int    `json:"book_positions"`
}

// MoveInfo is one legal move on the wire.
type MoveInfo struct {
	Square string `json:"square"`
	Flips  int    `json:"flips"`
	Mask   string `json:"mask"` // flip mask as hex
}

// LegalResponse lists the legal moves for a position.
type LegalResponse struct {
	Position string     `json:"position"`
	Player   string     `json:"player"`
	Moves    []MoveInfo `json:"moves"`
	MustPass bool       `json:"must_pass"`
	GameOver bool       `json:"game_over"`
}

// ApplyResponse returns the position after a move.
type ApplyResponse struct {
	Position string `json:"position"` // resulting position ID
	Player   string `json:"player"`   // player to move in the result
	GameOver bool   `json:"game_over"`
	Black    int    `json:"black"` // disc counts
	White    int    `json:"white"`
}

// MoveResponse is the AI's chosen move.
type MoveResponse struct {
	Square string `json:"square,omitempty"` // empty when Pass
	Pass   bool   `json:"pass,omitempty"`
	Score  int    `json:"score"`
	Exact  bool   `json:"exact"`
	Book   bool   `json:"book,omitempty"`
	Depth  int    `json:"depth"`
	Nodes  int    `json:"nodes"`
}

// RankedMove is one analyzed move.
type RankedMove struct {
	Square string `json:"square"`
	Score  int    `json:"score"`
}

// AnalyzeResponse ranks every legal move, best first.
type AnalyzeResponse struct {
	Moves []RankedMove `json:"moves"`
	Exact bool         `json:"exact"`
}
