package engine

import (
	"fmt"

	"github.com/yourusername/othello/internal/opening"
)

// The opening book maps canonical positions to a recommended reply.
// Positions are keyed from the mover's perspective (own discs, opponent
// discs) and normalized over the 8 board symmetries, so the same
// physical position hits the same entry no matter how it was reached
// or which color is on move. The table is built once at init from
// internal/opening and never mutated, which makes unsynchronized
// concurrent reads safe.

// bookKey is a canonical position from the mover's perspective.
type bookKey struct {
	own uint64
	opp uint64
}

var openingBook = buildOpeningBook()

// The 8 symmetries: rotation count 0-3 composed with an optional
// horizontal mirror. Transform index i = rot*2 + mirror.
const numSymmetries = 8

// transformSquare maps a square through symmetry t.
func transformSquare(sq Square, t int) Square {
	row, col := sq.RowCol()
	for r := 0; r < t/2; r++ {
		row, col = col, 7-row
	}
	if t%2 == 1 {
		col = 7 - col
	}
	return Sq(row, col)
}

// inverseTransformSquare maps a square back from symmetry t to the
// original orientation.
func inverseTransformSquare(sq Square, t int) Square {
	row, col := sq.RowCol()
	if t%2 == 1 {
		col = 7 - col
	}
	for r := 0; r < t/2; r++ {
		row, col = 7-col, row
	}
	return Sq(row, col)
}

// transformMask maps every set bit of a bitboard through symmetry t.
func transformMask(mask uint64, t int) uint64 {
	var out uint64
	eachBit(mask, func(sq Square) {
		out |= uint64(1) << uint(transformSquare(sq, t))
	})
	return out
}

// canonicalize returns the minimal (own, opp) pair over all symmetries
// and the symmetry index that produced it. Ties resolve to the lowest
// index, so the choice is deterministic.
func canonicalize(own, opp uint64) (bookKey, int) {
	best := bookKey{own: own, opp: opp}
	bestT := 0
	for t := 1; t < numSymmetries; t++ {
		k := bookKey{own: transformMask(own, t), opp: transformMask(opp, t)}
		if k.own < best.own || (k.own == best.own && k.opp < best.opp) {
			best = k
			bestT = t
		}
	}
	return best, bestT
}

// buildOpeningBook replays every book line and records, for each
// prefix position, the canonical key and the canonicalized next move.
// An illegal line is a data bug and panics at init.
func buildOpeningBook() map[bookKey]Square {
	book := make(map[bookKey]Square)

	for _, line := range opening.Lines {
		g := NewGame()
		for _, name := range line.Moves {
			sq, err := ParseSquare(name)
			if err != nil {
				panic(fmt.Sprintf("opening line %q: %v", line.Name, err))
			}

			own := g.Board().Discs(g.Turn())
			opp := g.Board().Discs(g.Turn().Opponent())
			key, t := canonicalize(own, opp)
			if _, exists := book[key]; !exists {
				book[key] = transformSquare(sq, t)
			}

			if err := g.ApplyMove(sq); err != nil {
				panic(fmt.Sprintf("opening line %q: move %s: %v", line.Name, name, err))
			}
		}
	}

	return book
}

// LookupBook returns the book reply for the given position and mover,
// mapped back to the board's actual orientation. The only failure mode
// is "not found".
func LookupBook(b Board, p Player) (Square, bool) {
	own := b.Discs(p)
	opp := b.Discs(p.Opponent())
	key, t := canonicalize(own, opp)
	sq, ok := openingBook[key]
	if !ok {
		return 0, false
	}
	return inverseTransformSquare(sq, t), true
}

// BookSize returns the number of positions in the opening book.
func BookSize() int {
	return len(openingBook)
}
