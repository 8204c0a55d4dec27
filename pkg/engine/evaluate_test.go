package engine

import "testing"

func TestEvaluateStartPosition(t *testing.T) {
	b := NewBoard()

	// The starting position is symmetric: no component should favor
	// either side.
	if got := Evaluate(b, Black); got != 0 {
		t.Errorf("Evaluate(start, black) = %d, want 0", got)
	}
	if got := Evaluate(b, White); got != 0 {
		t.Errorf("Evaluate(start, white) = %d, want 0", got)
	}
}

func TestEvaluateTerminal(t *testing.T) {
	// Black A1+B1, no white discs, neither side can move.
	win := Board{Black: (1 << 0) | (1 << 1)}
	if got := Evaluate(win, Black); got != ScoreWin {
		t.Errorf("wipeout win = %d, want %d", got, ScoreWin)
	}
	if got := Evaluate(win, White); got != ScoreLoss {
		t.Errorf("wipeout loss = %d, want %d", got, ScoreLoss)
	}

	// Blocked 1-1 position is a terminal draw.
	draw := Board{Black: 1 << 0, White: 1 << 2}
	if got := Evaluate(draw, Black); got != 0 {
		t.Errorf("terminal draw = %d, want 0", got)
	}
}

func TestEvaluateCornerValue(t *testing.T) {
	// Identical positions except one has a black corner. Both sides
	// keep mobility so neither is terminal.
	base := Board{
		Black: (1 << 20) | (1 << 21), // E3, F3
		White: (1 << 28) | (1 << 29), // E4, F4
	}
	withCorner := base
	withCorner.Black |= 1 << 0 // A1

	if Evaluate(withCorner, Black) <= Evaluate(base, Black) {
		t.Error("black corner did not improve black's score")
	}
	if Evaluate(withCorner, White) >= Evaluate(base, White) {
		t.Error("opponent corner did not hurt white's score")
	}
}

func TestEvalCornersXSquareGate(t *testing.T) {
	// X-square B2 is penalized while A1 is empty...
	b := Board{Black: 1 << 9}
	if got := evalCorners(b, Black); got != -xSquarePenalty {
		t.Errorf("exposed X-square score = %d, want %d", got, -xSquarePenalty)
	}

	// ...but not once the adjacent corner is occupied.
	b.Black |= 1 << 0
	if got := evalCorners(b, Black); got != cornerWeight {
		t.Errorf("settled corner score = %d, want %d", got, cornerWeight)
	}
}

func TestStableDiscsEdge(t *testing.T) {
	// A full top edge anchored by a black corner is entirely stable
	// for the black discs on it.
	b := Board{
		Black: 0x7f,    // A1..G1
		White: 1 << 7,  // H1
	}
	if got := stableDiscs(b, Black); got != 7 {
		t.Errorf("stable black discs = %d, want 7", got)
	}
	// White's H1 is a corner and stable on its own.
	if got := stableDiscs(b, White); got != 1 {
		t.Errorf("stable white discs = %d, want 1", got)
	}

	// Break the edge: only the corner remains stable.
	b.Black &^= 1 << 3 // D1 now empty
	if got := stableDiscs(b, Black); got != 1 {
		t.Errorf("stable discs with broken edge = %d, want 1", got)
	}
}

func TestEvalParity(t *testing.T) {
	// 63 discs placed, one empty: odd parity favors the mover.
	nearFull := Board{Black: ^uint64(1 << 0)}
	if got := evalParity(nearFull); got != parityWeight {
		t.Errorf("odd-parity score = %d, want %d", got, parityWeight)
	}

	twoEmpty := Board{Black: ^uint64((1 << 0) | (1 << 7))}
	if got := evalParity(twoEmpty); got != -parityWeight {
		t.Errorf("even-parity score = %d, want %d", got, -parityWeight)
	}

	// Parity is ignored in the midgame.
	if got := evalParity(NewBoard()); got != 0 {
		t.Errorf("midgame parity score = %d, want 0", got)
	}
}

func TestCountFrontier(t *testing.T) {
	// Both starting discs of each color touch empty squares.
	b := NewBoard()
	if got := countFrontier(b, Black); got != 2 {
		t.Errorf("black frontier = %d, want 2", got)
	}

	// A disc with no empty neighbor is interior.
	interior := Board{
		Black: 1 << 9, // B2
		White: neighborMasks[9],
	}
	if got := countFrontier(interior, Black); got != 0 {
		t.Errorf("enclosed disc frontier = %d, want 0", got)
	}
}

func TestQuickEvaluateCorners(t *testing.T) {
	b := Board{
		Black: (1 << 0) | (1 << 20), // A1, E3
		White: (1 << 28),            // E4
	}
	if got := QuickEvaluate(b, Black); got <= 0 {
		t.Errorf("corner holder QuickEvaluate = %d, want > 0", got)
	}
}
