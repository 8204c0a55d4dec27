package engine

import (
	"errors"
	"testing"
)

func TestDifficultyTiers(t *testing.T) {
	cases := []struct {
		d         Difficulty
		name      string
		depth     int
		threshold int
		book      bool
	}{
		{Easy, "easy", 2, 0, false},
		{Medium, "medium", 4, 0, false},
		{Hard, "hard", 6, 12, false},
		{Expert, "expert", 8, 14, true},
	}
	for _, c := range cases {
		if c.d.String() != c.name {
			t.Errorf("%v.String() = %q, want %q", c.d, c.d.String(), c.name)
		}
		if c.d.Depth() != c.depth {
			t.Errorf("%s depth = %d, want %d", c.name, c.d.Depth(), c.depth)
		}
		if c.d.EndgameThreshold() != c.threshold {
			t.Errorf("%s threshold = %d, want %d", c.name, c.d.EndgameThreshold(), c.threshold)
		}
		if c.d.UseBook() != c.book {
			t.Errorf("%s UseBook = %v, want %v", c.name, c.d.UseBook(), c.book)
		}
		parsed, err := ParseDifficulty(c.name)
		if err != nil || parsed != c.d {
			t.Errorf("ParseDifficulty(%q) = %v, %v", c.name, parsed, err)
		}
	}

	if _, err := ParseDifficulty("grandmaster"); err == nil {
		t.Error("ParseDifficulty accepted an unknown tier")
	}
}

func TestChooseMoveFinishedGame(t *testing.T) {
	// Blocked 1-1 position: the game is over, asking for a move is an
	// error.
	g := GameFromBoard(Board{Black: 1 << 0, White: 1 << 2}, Black)
	e := NewEngine(Options{})

	if _, err := e.ChooseMove(g, Medium); !errors.Is(err, ErrInvalidQuery) {
		t.Errorf("error = %v, want ErrInvalidQuery", err)
	}
}

func TestChooseMovePass(t *testing.T) {
	// White's discs are enclosed with no legal square, but Black can
	// still play: the game is live and White must pass.
	g := GameFromBoard(solvableBoard(), White)

	if !g.MustPass() {
		t.Fatal("expected a forced pass position")
	}

	e := NewEngine(Options{})
	res, err := e.ChooseMove(g, Expert)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Pass {
		t.Errorf("result = %+v, want pass", res)
	}
}

func TestChooseMoveLegal(t *testing.T) {
	e := NewEngine(Options{DisableBook: true})
	for _, d := range []Difficulty{Easy, Medium, Hard, Expert} {
		g := NewGame()
		res, err := e.ChooseMove(g, d)
		if err != nil {
			t.Fatalf("%v: %v", d, err)
		}
		if res.Pass {
			t.Fatalf("%v: pass at the start position", d)
		}
		if !g.LegalMoves().Contains(res.Square) {
			t.Errorf("%v: chose illegal square %v", d, res.Square)
		}
		if res.Nodes <= 0 {
			t.Errorf("%v: node count = %d", d, res.Nodes)
		}
	}
}

func TestChooseMoveDeterministic(t *testing.T) {
	e := NewEngine(Options{DisableBook: true})
	g := NewGame()

	first, err := e.ChooseMove(g, Medium)
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.ChooseMove(g, Medium)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("repeated query differs: %+v vs %+v", first, second)
	}
}

func TestSearchTieBreakLowestSquare(t *testing.T) {
	// The four opening moves are symmetric images of each other, so
	// their scores are equal and the tie must resolve to D3, the
	// lowest square index.
	e := NewEngine(Options{DisableBook: true})
	res, err := e.ChooseMove(NewGame(), Medium)
	if err != nil {
		t.Fatal(err)
	}
	if res.Square != 19 {
		t.Errorf("chose %v, want D3", res.Square)
	}
}

// solvableBoard is full except A1 and H1, with White on B1 and G1.
// Black wins 64-0 with either empty square; both lines are mirror
// images and score identically.
func solvableBoard() Board {
	empties := uint64(1<<0) | uint64(1<<7)
	white := uint64(1<<1) | uint64(1<<6)
	return Board{Black: ^(empties | white), White: white}
}

func TestSolverExactResult(t *testing.T) {
	g := GameFromBoard(solvableBoard(), Black)
	e := NewEngine(Options{})

	res, err := e.ChooseMove(g, Expert)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Exact {
		t.Fatalf("result not exact: %+v", res)
	}
	if res.Score != 64 {
		t.Errorf("solved score = %d, want 64", res.Score)
	}
	// Equal scores: the lower square wins.
	if res.Square != 0 {
		t.Errorf("chose %v, want A1", res.Square)
	}
}

func TestSolverDeterministic(t *testing.T) {
	g := GameFromBoard(solvableBoard(), Black)
	e := NewEngine(Options{})

	first, err := e.ChooseMove(g, Expert)
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.ChooseMove(g, Expert)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("repeated solve differs: %+v vs %+v", first, second)
	}
}

func TestSolverTriggersByTier(t *testing.T) {
	g := GameFromBoard(solvableBoard(), Black)
	e := NewEngine(Options{})

	// Easy never solves: the score stays in evaluator units.
	res, err := e.ChooseMove(g, Easy)
	if err != nil {
		t.Fatal(err)
	}
	if res.Exact {
		t.Errorf("easy produced an exact result: %+v", res)
	}

	res, err = e.ChooseMove(g, Hard)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Exact {
		t.Errorf("hard skipped the solver at 2 empties: %+v", res)
	}
}

func TestBookMoveAtStart(t *testing.T) {
	e := NewEngine(Options{})
	res, err := e.ChooseMove(NewGame(), Expert)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Book {
		t.Fatalf("expert start move not from book: %+v", res)
	}
	if res.Square != 26 {
		t.Errorf("book move = %v, want C4", res.Square)
	}

	// Easy ignores the book entirely.
	res, err = e.ChooseMove(NewGame(), Easy)
	if err != nil {
		t.Fatal(err)
	}
	if res.Book {
		t.Error("easy consulted the book")
	}
}

func TestDisableBook(t *testing.T) {
	e := NewEngine(Options{DisableBook: true})
	res, err := e.ChooseMove(NewGame(), Expert)
	if err != nil {
		t.Fatal(err)
	}
	if res.Book {
		t.Errorf("book used despite DisableBook: %+v", res)
	}
}

func TestOrderMovesDeterministic(t *testing.T) {
	b := NewBoard()
	a := GenerateMoves(b, Black)
	c := GenerateMoves(b, Black)
	orderMoves(b, Black, a)
	orderMoves(b, Black, c)
	for i := range a {
		if a[i] != c[i] {
			t.Fatalf("ordering differs at %d: %v vs %v", i, a[i].Square, c[i].Square)
		}
	}
}

func TestSquareQuality(t *testing.T) {
	if squareQuality(0) <= squareQuality(19) {
		t.Error("corner not preferred over interior")
	}
	if squareQuality(9) >= squareQuality(19) {
		t.Error("X-square not penalized against interior")
	}
	if squareQuality(1) >= squareQuality(3) {
		t.Error("C-square not penalized against plain edge")
	}
}

func TestDeepeningMatchesFlatSearch(t *testing.T) {
	g := playLine(t, "C4", "C3", "D3", "C5")
	b := g.Board()
	p := g.Turn()
	moves := GenerateMoves(b, p)
	if len(moves) == 0 {
		t.Fatal("no legal moves")
	}

	e := NewEngine(Options{DisableBook: true})
	e.cache.Flush()
	st := &searchState{}
	sq, score, depth := e.searchRoot(b, p, moves, 6, st)
	if depth != 6 || st.nodes == 0 {
		t.Fatalf("depth = %d, nodes = %d", depth, st.nodes)
	}

	// One flat pass at the target depth on a fresh engine: the
	// deepening iterations must not change the chosen move or score.
	flat := NewEngine(Options{DisableBook: true})
	fst := &searchState{}
	flatSq := moves[0].Square
	flatScore := ScoreLoss
	for _, m := range moves {
		child := applyUnchecked(b, p, m.Square, m.Flipped)
		s := flat.alphabeta(child, p, 5, ScoreLoss, ScoreWin, false, fst)
		if s > flatScore {
			flatScore = s
			flatSq = m.Square
		}
	}
	if sq != flatSq || score != flatScore {
		t.Errorf("deepening chose %v score %d, flat search chose %v score %d",
			sq, score, flatSq, flatScore)
	}
}

func TestHeuristicSearchUsesCache(t *testing.T) {
	e := NewEngine(Options{DisableBook: true})
	if _, err := e.ChooseMove(NewGame(), Medium); err != nil {
		t.Fatal(err)
	}
	lookups, _, stores := e.cache.Stats()
	if lookups == 0 || stores == 0 {
		t.Errorf("cache unused by heuristic search: lookups=%d stores=%d", lookups, stores)
	}
}
