package engine

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInvalidQuery is returned when the search is asked for a move in a
// finished game.
var ErrInvalidQuery = errors.New("invalid query: game is over")

// Difficulty selects the strength tier of the AI.
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
	Expert
)

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	case Expert:
		return "expert"
	default:
		return fmt.Sprintf("difficulty(%d)", int(d))
	}
}

// ParseDifficulty parses a difficulty name.
func ParseDifficulty(s string) (Difficulty, error) {
	switch s {
	case "easy":
		return Easy, nil
	case "medium":
		return Medium, nil
	case "hard":
		return Hard, nil
	case "expert":
		return Expert, nil
	}
	return 0, fmt.Errorf("unknown difficulty %q", s)
}

// Depth returns the heuristic search depth in plies.
func (d Difficulty) Depth() int {
	switch d {
	case Easy:
		return 2
	case Medium:
		return 4
	case Hard:
		return 6
	default:
		return 8
	}
}

// EndgameThreshold returns the empty-square count at or below which
// the exact solver takes over. Zero disables the solver. Hard and
// Expert run the same solver; only the trigger differs.
func (d Difficulty) EndgameThreshold() int {
	switch d {
	case Hard:
		return 12
	case Expert:
		return 14
	default:
		return 0
	}
}

// UseBook reports whether this tier consults the opening book.
func (d Difficulty) UseBook() bool {
	return d == Expert
}

// SearchResult is the outcome of one search query. Score is in
// evaluator units for heuristic results and in final disc differential
// for exact results; Exact tells the two apart.
type SearchResult struct {
	Square Square // chosen move; meaningless when Pass is set
	Pass   bool   // mover has no legal move
	Score  int
	Exact  bool // score is a full solve, not a depth-limited estimate
	Book   bool // move came from the opening book
	Depth  int  // plies searched (0 for book moves)
	Nodes  int  // nodes visited
}

// Options configures an Engine.
type Options struct {
	CacheSize   uint32 // transposition cache entries (0 = default)
	DisableBook bool   // skip the opening book even at Expert
	BookPlies   int    // consult the book only below this many plies (0 = default 12)
}

// Engine runs move searches. One Engine serves one caller at a time;
// the cache is flushed per root query so identical queries return
// identical results.
type Engine struct {
	opts  Options
	cache *SearchCache
}

// NewEngine creates a search engine.
func NewEngine(opts Options) *Engine {
	if opts.BookPlies == 0 {
		opts.BookPlies = 12
	}
	return &Engine{
		opts:  opts,
		cache: NewSearchCache(opts.CacheSize),
	}
}

// Cache exposes the transposition cache for statistics.
func (e *Engine) Cache() *SearchCache {
	return e.cache
}

// searchState carries per-query bookkeeping.
type searchState struct {
	nodes int
}

// ChooseMove picks a move for the player on turn. The game is read as
// a snapshot and never mutated; callers apply the returned move through
// the normal Game transition path. Ties between equally scored moves
// always resolve to the lowest square index.
func (e *Engine) ChooseMove(g *Game, d Difficulty) (SearchResult, error) {
	if g.Over() {
		return SearchResult{}, ErrInvalidQuery
	}

	board := g.Board()
	player := g.Turn()

	moves := GenerateMoves(board, player)
	if len(moves) == 0 {
		return SearchResult{Pass: true}, nil
	}

	if d.UseBook() && !e.opts.DisableBook && g.MoveCount() < e.opts.BookPlies {
		if sq, ok := LookupBook(board, player); ok {
			return SearchResult{Square: sq, Score: 0, Book: true}, nil
		}
	}

	e.cache.Flush()
	st := &searchState{}

	if t := d.EndgameThreshold(); t > 0 && board.EmptyCount() <= t {
		sq, score := e.solveRoot(board, player, moves, st)
		return SearchResult{
			Square: sq,
			Score:  score,
			Exact:  true,
			Depth:  board.EmptyCount(),
			Nodes:  st.nodes,
		}, nil
	}

	sq, score, depth := e.searchRoot(board, player, moves, d.Depth(), st)
	return SearchResult{
		Square: sq,
		Score:  score,
		Depth:  depth,
		Nodes:  st.nodes,
	}, nil
}

// searchRoot runs iterative deepening up to maxDepth and returns the
// best move from the deepest iteration. Every root move is scored with
// a full window so equal scores are comparable; among equal scores the
// lowest square index wins regardless of search order. Each iteration
// searches the previous iteration's best move first so its subtree
// primes the transposition cache for the siblings, and the cache
// carries the shallower iterations' results into the deeper ones.
func (e *Engine) searchRoot(b Board, p Player, moves MoveList, maxDepth int, st *searchState) (Square, int, int) {
	bestSq := moves[0].Square
	bestScore := ScoreLoss
	depth := 0

	for depth = 2; ; depth += 2 {
		if depth > maxDepth {
			depth = maxDepth
		}

		iterSq := bestSq
		iterScore := ScoreLoss
		for _, m := range moves {
			if m.Square != bestSq {
				continue
			}
			child := applyUnchecked(b, p, m.Square, m.Flipped)
			iterScore = e.alphabeta(child, p, depth-1, ScoreLoss, ScoreWin, false, st)
			break
		}
		for _, m := range moves {
			if m.Square == bestSq {
				continue
			}
			child := applyUnchecked(b, p, m.Square, m.Flipped)
			score := e.alphabeta(child, p, depth-1, ScoreLoss, ScoreWin, false, st)
			if score > iterScore || (score == iterScore && m.Square < iterSq) {
				iterScore = score
				iterSq = m.Square
			}
		}
		bestSq, bestScore = iterSq, iterScore

		if depth >= maxDepth {
			break
		}
	}

	return bestSq, bestScore, depth
}

// alphabeta is depth-limited minimax with alpha-beta pruning, scored
// from p's perspective throughout. A blocked side passes: the search
// continues at the same depth with the roles swapped. Searched
// subtrees go into the transposition cache with the same bound
// bookkeeping as the solver, keyed by remaining depth.
func (e *Engine) alphabeta(b Board, p Player, depth, alpha, beta int, maximizing bool, st *searchState) int {
	st.nodes++

	if depth == 0 {
		return Evaluate(b, p)
	}

	mover := p
	if !maximizing {
		mover = p.Opponent()
	}

	ctx := makeSearchContext(p, mover, depth)
	if score, bound, ok := e.cache.Probe(b, ctx); ok {
		switch bound {
		case boundExact:
			return score
		case boundLower:
			if score >= beta {
				return score
			}
			if score > alpha {
				alpha = score
			}
		case boundUpper:
			if score <= alpha {
				return score
			}
			if score < beta {
				beta = score
			}
		}
	}

	moves := GenerateMoves(b, mover)
	if len(moves) == 0 {
		if CountMoves(b, mover.Opponent()) == 0 {
			return Evaluate(b, p)
		}
		return e.alphabeta(b, p, depth, alpha, beta, !maximizing, st)
	}

	orderMoves(b, mover, moves)

	alphaOrig, betaOrig := alpha, beta

	if maximizing {
		best := ScoreLoss
		for _, m := range moves {
			child := applyUnchecked(b, mover, m.Square, m.Flipped)
			score := e.alphabeta(child, p, depth-1, alpha, beta, false, st)
			if score > best {
				best = score
			}
			if score > alpha {
				alpha = score
			}
			if beta <= alpha {
				break
			}
		}
		e.cacheStore(b, ctx, best, alphaOrig, betaOrig)
		return best
	}

	best := ScoreWin
	for _, m := range moves {
		child := applyUnchecked(b, mover, m.Square, m.Flipped)
		score := e.alphabeta(child, p, depth-1, alpha, beta, true, st)
		if score < best {
			best = score
		}
		if score < beta {
			beta = score
		}
		if beta <= alpha {
			break
		}
	}
	e.cacheStore(b, ctx, best, alphaOrig, betaOrig)
	return best
}

// cacheStore classifies a search result against the original window
// and records it: inside the window the score is exact, at or beyond
// an edge it is only a bound.
func (e *Engine) cacheStore(b Board, ctx int32, best, alphaOrig, betaOrig int) {
	bound := boundExact
	if best <= alphaOrig {
		bound = boundUpper
	} else if best >= betaOrig {
		bound = boundLower
	}
	e.cache.Store(b, ctx, best, bound)
}

// solveRoot picks the move with the best exact final disc differential.
// Root children get the full window so ties are exact and resolve to
// the lowest square index.
func (e *Engine) solveRoot(b Board, p Player, moves MoveList, st *searchState) (Square, int) {
	bestSq := moves[0].Square
	bestScore := ScoreLoss

	for _, m := range moves {
		child := applyUnchecked(b, p, m.Square, m.Flipped)
		score := e.solve(child, p, p.Opponent(), -64, 64, st)
		if score > bestScore {
			bestScore = score
			bestSq = m.Square
		}
	}

	return bestSq, bestScore
}

// solve is the exact endgame search: alpha-beta to the end of the game
// with no heuristic cutoff, scored as p's final disc differential.
// mover is the side to move at this node. Solved subtrees are kept in
// the transposition cache with the usual exact/lower/upper bound
// bookkeeping.
func (e *Engine) solve(b Board, p, mover Player, alpha, beta int, st *searchState) int {
	st.nodes++

	ctx := makeSolveContext(p, mover)
	if score, bound, ok := e.cache.Probe(b, ctx); ok {
		switch bound {
		case boundExact:
			return score
		case boundLower:
			if score >= beta {
				return score
			}
			if score > alpha {
				alpha = score
			}
		case boundUpper:
			if score <= alpha {
				return score
			}
			if score < beta {
				beta = score
			}
		}
	}

	moves := GenerateMoves(b, mover)
	if len(moves) == 0 {
		if CountMoves(b, mover.Opponent()) == 0 {
			return b.Count(p) - b.Count(p.Opponent())
		}
		return e.solve(b, p, mover.Opponent(), alpha, beta, st)
	}

	orderMoves(b, mover, moves)

	alphaOrig, betaOrig := alpha, beta
	var best int

	if mover == p {
		best = ScoreLoss
		for _, m := range moves {
			child := applyUnchecked(b, mover, m.Square, m.Flipped)
			score := e.solve(child, p, mover.Opponent(), alpha, beta, st)
			if score > best {
				best = score
			}
			if score > alpha {
				alpha = score
			}
			if beta <= alpha {
				break
			}
		}
	} else {
		best = ScoreWin
		for _, m := range moves {
			child := applyUnchecked(b, mover, m.Square, m.Flipped)
			score := e.solve(child, p, mover.Opponent(), alpha, beta, st)
			if score < best {
				best = score
			}
			if score < beta {
				beta = score
			}
			if beta <= alpha {
				break
			}
		}
	}

	e.cacheStore(b, ctx, best, alphaOrig, betaOrig)

	return best
}

// Static square-quality scores for move ordering: corners first,
// X- and C-squares last, edges ahead of interior squares.
func squareQuality(sq Square) int {
	switch {
	case sq == 0 || sq == 7 || sq == 56 || sq == 63:
		return 1000
	case sq == 9 || sq == 14 || sq == 49 || sq == 54:
		return -500
	case sq == 1 || sq == 6 || sq == 8 || sq == 15 ||
		sq == 48 || sq == 55 || sq == 57 || sq == 62:
		return -200
	}
	row, col := sq.RowCol()
	if row == 0 || row == 7 || col == 0 || col == 7 {
		return 100
	}
	return 0
}

// orderMoves sorts moves in place, best first, to improve alpha-beta
// cutoffs. Square quality dominates; flip count and the opponent's
// resulting mobility refine it. Equal scores keep ascending square
// order so the ordering is deterministic.
func orderMoves(b Board, p Player, moves MoveList) {
	if len(moves) < 2 {
		return
	}

	type scored struct {
		move  Move
		score int
	}
	ranked := make([]scored, len(moves))
	for i, m := range moves {
		score := squareQuality(m.Square)
		score += m.FlipCount() * 5
		child := applyUnchecked(b, p, m.Square, m.Flipped)
		score -= CountMoves(child, p.Opponent()) * 3
		ranked[i] = scored{move: m, score: score}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	for i, r := range ranked {
		moves[i] = r.move
	}
}
