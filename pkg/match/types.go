// Package match provides game record import/export for Othello games.
// Two interchangeable representations are supported: a fixed-layout
// binary blob for save games and a human-readable text transcript.
// The package performs no I/O of its own; it encodes to and decodes
// from readers, writers and byte slices supplied by the caller.
package match

import (
	"fmt"

	"github.com/yourusername/othello/pkg/engine"
)

// Record is a complete recorded game: metadata plus the ordered move
// history. The history replayed from the standard starting position
// reconstructs the final board exactly; both codecs verify this on
// import.
type Record struct {
	// Metadata
	Black string // name of the black player
	White string // name of the white player
	Date  string // YYYY-MM-DD
	Event string
	Place string

	// Game content
	History []engine.HistoryEntry
	Result  *engine.Result // nil if the game was unfinished
}

// NewRecord builds a record from a played game.
func NewRecord(g *engine.Game, black, white string) *Record {
	rec := &Record{
		Black:   black,
		White:   white,
		History: append([]engine.HistoryEntry(nil), g.History()...),
	}
	if res, ok := g.Result(); ok {
		rec.Result = &res
	}
	return rec
}

// Game replays the record into a fresh game state.
func (r *Record) Game() (*engine.Game, error) {
	g, err := engine.Replay(r.History)
	if err != nil {
		return nil, fmt.Errorf("record replay: %w", err)
	}
	return g, nil
}

// Moves returns the history without pass entries, for move-list
// displays and exports that show only placed discs.
func (r *Record) Moves() []engine.HistoryEntry {
	moves := make([]engine.HistoryEntry, 0, len(r.History))
	for _, h := range r.History {
		if !h.IsPass() {
			moves = append(moves, h)
		}
	}
	return moves
}
