package engine

import (
	"errors"
	"fmt"
)

// ErrInvalidPass is returned when a player tries to pass while still
// holding a legal move. Passing is never optional.
var ErrInvalidPass = errors.New("invalid pass: legal move available")

// HistoryEntry records one applied move or pass.
type HistoryEntry struct {
	Square  Square // PassSquare for a pass
	Flipped uint64 // discs flipped by the move (0 for a pass)
	Player  Player // who moved
}

// IsPass reports whether the entry records a pass.
func (h HistoryEntry) IsPass() bool {
	return h.Square == PassSquare
}

// Result is the outcome of a finished game.
type Result struct {
	Winner Player // meaningful only when !Draw
	Draw   bool
	Black  int // final black disc count
	White  int // final white disc count
}

// Game is a full game state: the current board, the player to move and
// the ordered move history. All transitions go through the move
// generator; a failed transition leaves the state untouched. Replaying
// the history from the starting board reconstructs the current board
// bit-for-bit.
//
// A Game is not safe for concurrent mutation; callers serialize access.
type Game struct {
	board   Board
	turn    Player
	history []HistoryEntry
	passes  int // consecutive passes; 2 ends the game
}

// NewGame starts a fresh game from the standard position, Black to move.
func NewGame() *Game {
	return &Game{board: NewBoard(), turn: Black}
}

// GameFromBoard starts a game from an arbitrary position with no
// history. Used for analysis of externally supplied positions.
func GameFromBoard(b Board, turn Player) *Game {
	return &Game{board: b, turn: turn}
}

// Replay rebuilds a game by applying a recorded history to the standard
// starting position. Fails if any entry is illegal at its point in the
// sequence, so a successful replay is exact by construction.
func Replay(history []HistoryEntry) (*Game, error) {
	return ReplayFrom(NewBoard(), Black, history)
}

// ReplayFrom rebuilds a game by applying a recorded history, passes
// included, to an arbitrary starting position. Every entry is
// validated at its point in the sequence, attribution checked against
// the side actually on turn.
func ReplayFrom(b Board, turn Player, history []HistoryEntry) (*Game, error) {
	g := GameFromBoard(b, turn)
	for i, h := range history {
		if h.Player != g.turn {
			return nil, fmt.Errorf("replay move %d: out-of-turn %v", i, h.Player)
		}
		if h.IsPass() {
			if err := g.Pass(); err != nil {
				return nil, fmt.Errorf("replay move %d: %w", i, err)
			}
			continue
		}
		if err := g.ApplyMove(h.Square); err != nil {
			return nil, fmt.Errorf("replay move %d (%v): %w", i, h.Square, err)
		}
	}
	return g, nil
}

// Board returns the current board.
func (g *Game) Board() Board {
	return g.board
}

// Turn returns the player to move.
func (g *Game) Turn() Player {
	return g.turn
}

// History returns the applied moves in order. The slice is shared;
// callers must not modify it.
func (g *Game) History() []HistoryEntry {
	return g.history
}

// MoveCount returns the number of history entries, passes included.
func (g *Game) MoveCount() int {
	return len(g.history)
}

// LastMove returns the most recent history entry.
func (g *Game) LastMove() (HistoryEntry, bool) {
	if len(g.history) == 0 {
		return HistoryEntry{}, false
	}
	return g.history[len(g.history)-1], true
}

// LegalMoves returns the legal moves for the player on turn.
func (g *Game) LegalMoves() MoveList {
	return GenerateMoves(g.board, g.turn)
}

// MustPass reports whether the player on turn has no legal move.
func (g *Game) MustPass() bool {
	return CountMoves(g.board, g.turn) == 0
}

// Over reports whether the game has ended: neither player can move, or
// the board is full.
func (g *Game) Over() bool {
	if g.passes >= 2 || g.board.Full() {
		return true
	}
	return CountMoves(g.board, Black) == 0 && CountMoves(g.board, White) == 0
}

// Result returns the outcome of a finished game, or ok=false while the
// game is still in progress. The higher disc count wins; equal counts
// draw.
func (g *Game) Result() (Result, bool) {
	if !g.Over() {
		return Result{}, false
	}
	black := g.board.Count(Black)
	white := g.board.Count(White)
	r := Result{Black: black, White: white}
	switch {
	case black > white:
		r.Winner = Black
	case white > black:
		r.Winner = White
	default:
		r.Draw = true
	}
	return r, true
}

// Counts returns the current disc counts (black, white).
func (g *Game) Counts() (int, int) {
	return g.board.Count(Black), g.board.Count(White)
}

// ApplyMove plays sq for the player on turn. Returns ErrIllegalMove and
// leaves the game unchanged if sq is not legal. On success the board
// transitions, the move is appended to history and the turn flips.
func (g *Game) ApplyMove(sq Square) error {
	if !sq.Valid() {
		return ErrIllegalMove
	}
	flipped := Flips(g.board, g.turn, sq)
	if flipped == 0 {
		return ErrIllegalMove
	}

	g.board = applyUnchecked(g.board, g.turn, sq, flipped)
	g.history = append(g.history, HistoryEntry{Square: sq, Flipped: flipped, Player: g.turn})
	g.passes = 0
	g.turn = g.turn.Opponent()
	return nil
}

// Pass skips the turn. Returns ErrInvalidPass if the player on turn
// actually has a legal move.
func (g *Game) Pass() error {
	if !g.MustPass() {
		return ErrInvalidPass
	}
	g.history = append(g.history, HistoryEntry{Square: PassSquare, Player: g.turn})
	g.passes++
	g.turn = g.turn.Opponent()
	return nil
}

// PlayMove applies sq and then passes on behalf of the opponent while
// the opponent is blocked, so the turn always lands on a player with a
// legal move (or the game ends). Returns the number of forced passes
// taken, letting callers surface them if they want.
func (g *Game) PlayMove(sq Square) (int, error) {
	if err := g.ApplyMove(sq); err != nil {
		return 0, err
	}
	forced := 0
	for !g.Over() && g.MustPass() {
		if err := g.Pass(); err != nil {
			return forced, err
		}
		forced++
	}
	return forced, nil
}

// Undo reverts the last history entry and returns it.
func (g *Game) Undo() (HistoryEntry, bool) {
	if len(g.history) == 0 {
		return HistoryEntry{}, false
	}
	last := g.history[len(g.history)-1]
	g.history = g.history[:len(g.history)-1]

	if last.IsPass() {
		if g.passes > 0 {
			g.passes--
		}
	} else {
		// Remove the placed disc and give the flipped run back.
		mask := uint64(1) << uint(last.Square)
		if last.Player == Black {
			g.board.Black &^= mask
		} else {
			g.board.White &^= mask
		}
		g.board = g.board.flipTo(last.Player.Opponent(), last.Flipped)
		g.passes = 0
		// Recount trailing passes so a later Pass/Over stays consistent.
		for i := len(g.history) - 1; i >= 0 && g.history[i].IsPass(); i-- {
			g.passes++
		}
	}
	g.turn = last.Player
	return last, true
}

// CloneAt returns an independent game rebuilt from the first n history
// entries. The receiver is not modified, so exploring an alternate line
// never disturbs the original game. n is clamped to the history length.
func (g *Game) CloneAt(n int) *Game {
	if n > len(g.history) {
		n = len(g.history)
	}
	clone := NewGame()
	for _, h := range g.history[:n] {
		if h.IsPass() {
			// History is replay-consistent, so this cannot fail.
			_ = clone.Pass()
		} else {
			_ = clone.ApplyMove(h.Square)
		}
	}
	return clone
}

// Clone returns an independent copy of the full game.
func (g *Game) Clone() *Game {
	clone := *g
	clone.history = append([]HistoryEntry(nil), g.history...)
	return &clone
}

// BoardAt returns the board after the first n history entries.
func (g *Game) BoardAt(n int) Board {
	return g.CloneAt(n).board
}
