package engine

import (
	"errors"
	"math/bits"
)

// ErrIllegalMove is returned when a square is not in the legal move set
// for the player on turn. The move is never silently corrected.
var ErrIllegalMove = errors.New("illegal move")

// File masks used to stop directional shifts from wrapping across the
// board edge. A shift toward higher columns must first clear file H,
// a shift toward lower columns must first clear file A.
const (
	notFileA = 0xfefefefefefefefe
	notFileH = 0x7f7f7f7f7f7f7f7f
)

// direction is a ray shift: offset in bit positions plus the source mask
// that prevents edge wraparound for that offset.
type direction struct {
	shift int
	mask  uint64
}

// The 8 ray directions. Vertical shifts cannot wrap (bits fall off the
// ends of the word), so they keep the full mask.
var directions = [8]direction{
	{1, notFileH},          // east
	{-1, notFileA},         // west
	{8, ^uint64(0)},        // south
	{-8, ^uint64(0)},       // north
	{9, notFileH},          // south-east
	{7, notFileA},          // south-west
	{-7, notFileH},         // north-east
	{-9, notFileA},         // north-west
}

// shiftRay advances a bitboard one step along a direction, masking out
// edge squares first so no bit wraps to the opposite file.
func shiftRay(b uint64, d direction) uint64 {
	b &= d.mask
	if d.shift > 0 {
		return b << uint(d.shift)
	}
	return b >> uint(-d.shift)
}

// Move is a square together with the discs it flips on the current
// board. The flip mask is derived from (board, player, square) and
// recomputing it always yields the same mask.
type Move struct {
	Square  Square
	Flipped uint64
}

// FlipCount returns how many discs the move flips.
func (m Move) FlipCount() int {
	return bits.OnesCount64(m.Flipped)
}

// MoveList holds the legal moves for one position, in ascending square
// order.
type MoveList []Move

// Mask returns the legal squares as a bitboard.
func (ml MoveList) Mask() uint64 {
	var mask uint64
	for _, m := range ml {
		mask |= uint64(1) << uint(m.Square)
	}
	return mask
}

// Contains reports whether sq is in the list.
func (ml MoveList) Contains(sq Square) bool {
	for _, m := range ml {
		if m.Square == sq {
			return true
		}
	}
	return false
}

// Flips computes the mask of opponent discs flipped by placing a disc
// at sq. Each of the 8 rays is walked independently: a run of opponent
// discs bounded by one of the player's own discs flips, a run that hits
// an empty square or the board edge contributes nothing. Returns 0 for
// occupied squares and for squares that flip nothing.
func Flips(b Board, p Player, sq Square) uint64 {
	posBit := uint64(1) << uint(sq)
	if b.Occupied()&posBit != 0 {
		return 0
	}

	own := b.Discs(p)
	opp := b.Discs(p.Opponent())
	var flipped uint64

	for _, d := range directions {
		var run uint64
		cur := shiftRay(posBit, d)
		for cur&opp != 0 {
			run |= cur
			cur = shiftRay(cur, d)
		}
		if cur&own != 0 {
			flipped |= run
		}
	}

	return flipped
}

// IsLegal reports whether placing at sq is a legal move for p.
func IsLegal(b Board, p Player, sq Square) bool {
	return Flips(b, p, sq) != 0
}

// GenerateMoves returns every legal move for p, in ascending square
// order.
func GenerateMoves(b Board, p Player) MoveList {
	ml := make(MoveList, 0, 16)
	eachBit(b.Empties(), func(sq Square) {
		if flipped := Flips(b, p, sq); flipped != 0 {
			ml = append(ml, Move{Square: sq, Flipped: flipped})
		}
	})
	return ml
}

// LegalMoves returns the legal squares for p as a bitboard.
func LegalMoves(b Board, p Player) uint64 {
	var mask uint64
	eachBit(b.Empties(), func(sq Square) {
		if Flips(b, p, sq) != 0 {
			mask |= uint64(1) << uint(sq)
		}
	})
	return mask
}

// CountMoves returns p's mobility: the number of legal moves.
func CountMoves(b Board, p Player) int {
	return bits.OnesCount64(LegalMoves(b, p))
}

// Apply places a disc for p at sq and flips the outflanked discs,
// returning the new board. The input board is unchanged. Returns
// ErrIllegalMove if sq is not a legal move for p.
func Apply(b Board, p Player, sq Square) (Board, error) {
	if !sq.Valid() {
		return b, ErrIllegalMove
	}
	flipped := Flips(b, p, sq)
	if flipped == 0 {
		return b, ErrIllegalMove
	}
	return applyUnchecked(b, p, sq, flipped), nil
}

// applyUnchecked applies a move whose flip mask has already been
// computed. Used by the search, which only visits generated moves.
func applyUnchecked(b Board, p Player, sq Square, flipped uint64) Board {
	return b.place(p, sq).flipTo(p, flipped)
}
