package engine

import "fmt"

// SelfPlayProgress reports one half-move of a self-play game.
type SelfPlayProgress struct {
	MoveNumber int    // half-moves played so far, this one included
	Player     Player // side that just moved
	Square     Square // played square; meaningless when Pass is set
	Pass       bool
	Score      int // engine score for the chosen move
	Book       bool
	Exact      bool
	Board      Board // position after the move
}

// SelfPlay plays a complete game between two engines from the standard
// start and returns the finished game. Play is fully deterministic:
// both engines break ties by lowest square index, so the same pairing
// always produces the same game. Callers wanting varied games perturb
// the opening themselves (the engine owns no randomness).
func SelfPlay(black, white *Engine, blackD, whiteD Difficulty) (*Game, error) {
	return SelfPlayWithProgress(black, white, blackD, whiteD, nil)
}

// SelfPlayWithProgress plays a self-play game and reports each
// half-move through the callback, which may be nil.
func SelfPlayWithProgress(black, white *Engine, blackD, whiteD Difficulty, callback func(SelfPlayProgress)) (*Game, error) {
	g := NewGame()

	report := func(p SelfPlayProgress) {
		if callback != nil {
			callback(p)
		}
	}

	for !g.Over() {
		mover := g.Turn()

		if g.MustPass() {
			if err := g.Pass(); err != nil {
				return nil, err
			}
			report(SelfPlayProgress{
				MoveNumber: g.MoveCount(),
				Player:     mover,
				Pass:       true,
				Board:      g.Board(),
			})
			continue
		}

		eng, d := black, blackD
		if mover == White {
			eng, d = white, whiteD
		}

		res, err := eng.ChooseMove(g, d)
		if err != nil {
			return nil, fmt.Errorf("self-play move %d: %w", g.MoveCount(), err)
		}
		if res.Pass {
			if err := g.Pass(); err != nil {
				return nil, err
			}
			report(SelfPlayProgress{
				MoveNumber: g.MoveCount(),
				Player:     mover,
				Pass:       true,
				Board:      g.Board(),
			})
			continue
		}
		if err := g.ApplyMove(res.Square); err != nil {
			return nil, fmt.Errorf("self-play move %d (%v): %w", g.MoveCount(), res.Square, err)
		}
		report(SelfPlayProgress{
			MoveNumber: g.MoveCount(),
			Player:     mover,
			Square:     res.Square,
			Score:      res.Score,
			Book:       res.Book,
			Exact:      res.Exact,
			Board:      g.Board(),
		})
	}

	return g, nil
}

// Perft counts move paths of the given depth from a position, passes
// included as single plies when one side is blocked. Used to validate
// the move generator against known node counts.
func Perft(b Board, p Player, depth int) int {
	if depth == 0 {
		return 1
	}

	moves := GenerateMoves(b, p)
	if len(moves) == 0 {
		if CountMoves(b, p.Opponent()) == 0 {
			return 1 // terminal
		}
		return Perft(b, p.Opponent(), depth-1)
	}

	total := 0
	for _, m := range moves {
		child := applyUnchecked(b, p, m.Square, m.Flipped)
		total += Perft(child, p.Opponent(), depth-1)
	}
	return total
}
