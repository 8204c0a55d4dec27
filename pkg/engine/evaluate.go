package engine

import "math/bits"

// Evaluation score bounds. Scores are integer evaluator units; the
// engine never uses floating point in the search path.
const (
	ScoreWin  = 100_000
	ScoreLoss = -100_000
)

// Corner squares A1, H1, A8, H8. A corner disc can never be outflanked:
// no ray through a corner has board on both sides.
var cornerSquares = [4]Square{0, 7, 56, 63}

// X-squares paired with their adjacent corner. Occupying one while the
// corner is still empty usually hands the corner to the opponent.
var xSquares = [4][2]Square{
	{9, 0},   // B2 -> A1
	{14, 7},  // G2 -> H1
	{49, 56}, // B7 -> A8
	{54, 63}, // G7 -> H8
}

// C-squares paired with their adjacent corner.
var cSquares = [8][2]Square{
	{1, 0}, {8, 0}, // B1, A2 -> A1
	{6, 7}, {15, 7}, // G1, H2 -> H1
	{48, 56}, {57, 56}, // A7, B8 -> A8
	{55, 63}, {62, 63}, // H7, G8 -> H8
}

// Edge masks, used by the stability approximation.
var edgeMasks = [4]uint64{
	0x00000000000000ff, // row 1
	0xff00000000000000, // row 8
	0x0101010101010101, // file A
	0x8080808080808080, // file H
}

// Corners anchoring each edge, same order as edgeMasks.
var edgeCorners = [4][2]Square{
	{0, 7},
	{56, 63},
	{0, 56},
	{7, 63},
}

// Component weights, tuned once and fixed.
const (
	cornerWeight    = 100
	xSquarePenalty  = 25
	cSquarePenalty  = 10
	mobilityWeight  = 3
	stabilityWeight = 10
	parityWeight    = 2
	parityThreshold = 12 // empties at or below which parity counts
)

// neighborMasks[sq] is the bitboard of the up to 8 squares adjacent to
// sq, used for frontier detection.
var neighborMasks = buildNeighborMasks()

func buildNeighborMasks() [64]uint64 {
	var masks [64]uint64
	for sq := 0; sq < 64; sq++ {
		row, col := sq/8, sq%8
		for dr := -1; dr <= 1; dr++ {
			for dc := -1; dc <= 1; dc++ {
				if dr == 0 && dc == 0 {
					continue
				}
				nr, nc := row+dr, col+dc
				if nr >= 0 && nr < 8 && nc >= 0 && nc < 8 {
					masks[sq] |= uint64(1) << uint(nr*8+nc)
				}
			}
		}
	}
	return masks
}

// countFrontier counts p's discs adjacent to at least one empty square.
func countFrontier(b Board, p Player) int {
	empty := b.Empties()
	count := 0
	eachBit(b.Discs(p), func(sq Square) {
		if neighborMasks[sq]&empty != 0 {
			count++
		}
	})
	return count
}

// evalCorners scores corner ownership and X/C-square exposure. X- and
// C-squares are only penalized while the adjacent corner is undecided.
func evalCorners(b Board, p Player) int {
	own := b.Discs(p)
	opp := b.Discs(p.Opponent())
	occupied := own | opp
	score := 0

	for _, c := range cornerSquares {
		mask := uint64(1) << uint(c)
		if own&mask != 0 {
			score += cornerWeight
		} else if opp&mask != 0 {
			score -= cornerWeight
		}
	}

	for _, pair := range xSquares {
		xMask := uint64(1) << uint(pair[0])
		cornerMask := uint64(1) << uint(pair[1])
		if occupied&cornerMask != 0 {
			continue
		}
		if own&xMask != 0 {
			score -= xSquarePenalty
		} else if opp&xMask != 0 {
			score += xSquarePenalty
		}
	}

	for _, pair := range cSquares {
		cMask := uint64(1) << uint(pair[0])
		cornerMask := uint64(1) << uint(pair[1])
		if occupied&cornerMask != 0 {
			continue
		}
		if own&cMask != 0 {
			score -= cSquarePenalty
		} else if opp&cMask != 0 {
			score += cSquarePenalty
		}
	}

	return score
}

// evalMobility scores the legal-move difference.
func evalMobility(b Board, p Player) int {
	return (CountMoves(b, p) - CountMoves(b, p.Opponent())) * mobilityWeight
}

// evalFrontier scores frontier discs; fewer of our own is better.
func evalFrontier(b Board, p Player) int {
	return countFrontier(b, p.Opponent()) - countFrontier(b, p)
}

// evalDiscCount scores the raw disc differential, phase weighted: the
// count is nearly irrelevant early and dominant once the board fills.
func evalDiscCount(b Board, p Player) int {
	diff := b.Count(p) - b.Count(p.Opponent())
	empty := b.EmptyCount()

	var weight int
	switch {
	case empty > 44:
		weight = 0
	case empty > 20:
		weight = 1
	case empty > 10:
		weight = 2
	default:
		weight = 5
	}
	return diff * weight
}

// stableDiscs approximates p's unflippable discs: corners, plus every
// own disc on a completely filled edge anchored by an own corner. Full
// stability needs interior propagation; the edge approximation is cheap
// and captures the discs that decide most games.
func stableDiscs(b Board, p Player) int {
	own := b.Discs(p)
	occupied := b.Occupied()
	var stable uint64

	for _, c := range cornerSquares {
		stable |= own & (uint64(1) << uint(c))
	}

	for i, edge := range edgeMasks {
		if occupied&edge != edge {
			continue
		}
		for _, c := range edgeCorners[i] {
			if own&(uint64(1)<<uint(c)) != 0 {
				stable |= own & edge
				break
			}
		}
	}

	return bits.OnesCount64(stable)
}

// evalStability scores the stable-disc difference.
func evalStability(b Board, p Player) int {
	return (stableDiscs(b, p) - stableDiscs(b, p.Opponent())) * stabilityWeight
}

// evalParity gives the mover a small bonus deep in the endgame when the
// empty-square count is odd: with an odd region the side to move plays
// the last disc.
func evalParity(b Board) int {
	empty := b.EmptyCount()
	if empty > parityThreshold {
		return 0
	}
	if empty%2 == 1 {
		return parityWeight
	}
	return -parityWeight
}

// Evaluate scores a position from p's perspective, p to move. It is a
// total function: any board/player pair is scorable. Terminal positions
// collapse to a win/loss/draw score scaled by the final counts so that
// bigger wins score higher.
func Evaluate(b Board, p Player) int {
	ownMoves := CountMoves(b, p)
	oppMoves := CountMoves(b, p.Opponent())

	if ownMoves == 0 && oppMoves == 0 {
		own := b.Count(p)
		opp := b.Count(p.Opponent())
		switch {
		case own > opp:
			return ScoreWin - opp*100
		case opp > own:
			return ScoreLoss + own*100
		default:
			return 0
		}
	}

	score := evalCorners(b, p)
	score += (ownMoves - oppMoves) * mobilityWeight
	score += evalFrontier(b, p)
	score += evalDiscCount(b, p)
	score += evalStability(b, p)
	score += evalParity(b)
	return score
}

// QuickEvaluate is a cheap corner+mobility score used for move
// ordering.
func QuickEvaluate(b Board, p Player) int {
	score := 0
	own := b.Discs(p)
	opp := b.Discs(p.Opponent())
	for _, c := range cornerSquares {
		mask := uint64(1) << uint(c)
		if own&mask != 0 {
			score += cornerWeight
		} else if opp&mask != 0 {
			score -= cornerWeight
		}
	}
	return score + evalMobility(b, p)
}
