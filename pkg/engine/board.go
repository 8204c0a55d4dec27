// Package engine provides the public API for the Othello engine.
package engine

import (
	"fmt"
	"math/bits"
)

// Player identifies a side. Black always moves first.
type Player int

const (
	Black Player = 0
	White Player = 1
)

// Opponent returns the other player.
func (p Player) Opponent() Player {
	return 1 - p
}

func (p Player) String() string {
	if p == Black {
		return "black"
	}
	return "white"
}

// Square is a board square index 0-63, row-major with A1 = 0 and H8 = 63.
type Square int

// PassSquare marks a pass in move history (no disc placed).
const PassSquare Square = -1

// Sq builds a square from a row and column (both 0-7).
func Sq(row, col int) Square {
	return Square(row*8 + col)
}

// RowCol returns the row and column of a square.
func (s Square) RowCol() (int, int) {
	return int(s) / 8, int(s) % 8
}

// Valid reports whether the square is on the board.
func (s Square) Valid() bool {
	return s >= 0 && s < 64
}

// String returns the algebraic name of the square (e.g. "D3").
// Pass is rendered as "--".
func (s Square) String() string {
	if s == PassSquare {
		return "--"
	}
	row, col := s.RowCol()
	return fmt.Sprintf("%c%d", 'A'+col, row+1)
}

// ParseSquare parses an algebraic square name like "D3" or "d3".
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return 0, fmt.Errorf("invalid square %q", s)
	}
	col := s[0]
	if col >= 'a' && col <= 'h' {
		col -= 'a' - 'A'
	}
	row := s[1]
	if col < 'A' || col > 'H' || row < '1' || row > '8' {
		return 0, fmt.Errorf("invalid square %q", s)
	}
	return Sq(int(row-'1'), int(col-'A')), nil
}

// Board is an Othello position as two disjoint bitboards, one bit per
// square, bit i = square i. The invariant Black & White == 0 holds for
// every board produced by this package.
type Board struct {
	Black uint64
	White uint64
}

// Standard starting discs: D4/E5 white, E4/D5 black.
const (
	startBlack = (uint64(1) << 28) | (uint64(1) << 35) // E4, D5
	startWhite = (uint64(1) << 27) | (uint64(1) << 36) // D4, E5
)

// NewBoard returns the standard starting position.
func NewBoard() Board {
	return Board{Black: startBlack, White: startWhite}
}

// Discs returns the bitboard for a player.
func (b Board) Discs(p Player) uint64 {
	if p == Black {
		return b.Black
	}
	return b.White
}

// Occupied returns the union of both players' discs.
func (b Board) Occupied() uint64 {
	return b.Black | b.White
}

// Empties returns the bitboard of empty squares.
func (b Board) Empties() uint64 {
	return ^(b.Black | b.White)
}

// Count returns the number of discs a player has on the board.
func (b Board) Count(p Player) int {
	return bits.OnesCount64(b.Discs(p))
}

// EmptyCount returns the number of empty squares.
func (b Board) EmptyCount() int {
	return bits.OnesCount64(b.Empties())
}

// At returns the player occupying a square, or ok=false if it is empty.
func (b Board) At(sq Square) (Player, bool) {
	mask := uint64(1) << uint(sq)
	if b.Black&mask != 0 {
		return Black, true
	}
	if b.White&mask != 0 {
		return White, true
	}
	return 0, false
}

// Full reports whether every square is occupied.
func (b Board) Full() bool {
	return b.Black|b.White == ^uint64(0)
}

// place returns a board with the player's bit set at sq. It does not
// validate legality; callers go through Apply.
func (b Board) place(p Player, sq Square) Board {
	mask := uint64(1) << uint(sq)
	if p == Black {
		b.Black |= mask
	} else {
		b.White |= mask
	}
	return b
}

// flipTo transfers every disc in the flipped mask to the given player.
func (b Board) flipTo(p Player, flipped uint64) Board {
	if p == Black {
		b.Black |= flipped
		b.White &^= flipped
	} else {
		b.White |= flipped
		b.Black &^= flipped
	}
	return b
}

// Hash returns a mixing hash of the position, used for cache indexing.
func (b Board) Hash() uint64 {
	return b.Black*0x9e3779b97f4a7c15 ^ b.White
}

// String renders the board as an 8x8 diagram with rank and file labels.
// Black discs are 'X', white discs 'O', empty squares '.'.
func (b Board) String() string {
	out := make([]byte, 0, 200)
	out = append(out, "  A B C D E F G H\n"...)
	for row := 0; row < 8; row++ {
		out = append(out, byte('1'+row), ' ')
		for col := 0; col < 8; col++ {
			switch p, ok := b.At(Sq(row, col)); {
			case !ok:
				out = append(out, '.')
			case p == Black:
				out = append(out, 'X')
			default:
				out = append(out, 'O')
			}
			if col < 7 {
				out = append(out, ' ')
			}
		}
		out = append(out, '\n')
	}
	return string(out)
}

// eachBit calls fn for every set bit in mask, in ascending square order.
func eachBit(mask uint64, fn func(Square)) {
	for mask != 0 {
		fn(Square(bits.TrailingZeros64(mask)))
		mask &= mask - 1
	}
}
