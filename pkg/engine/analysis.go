package engine

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// MoveWithScore is a legal move together with its searched score.
type MoveWithScore struct {
	Move  Move
	Score int
	Exact bool
}

// PositionAnalysis ranks every legal move in a position.
type PositionAnalysis struct {
	Moves    []MoveWithScore // all moves, best first
	NumMoves int
	Exact    bool // scores come from the endgame solver
}

// AnalyzePosition searches every legal move for the player on turn
// and returns them ranked best first. Equal scores keep ascending
// square order.
func (e *Engine) AnalyzePosition(g *Game, d Difficulty) (*PositionAnalysis, error) {
	if g.Over() {
		return nil, ErrInvalidQuery
	}

	board := g.Board()
	player := g.Turn()
	moves := GenerateMoves(board, player)
	if len(moves) == 0 {
		return &PositionAnalysis{}, nil
	}

	e.cache.Flush()
	st := &searchState{}

	exact := false
	if t := d.EndgameThreshold(); t > 0 && board.EmptyCount() <= t {
		exact = true
	}

	ranked := make([]MoveWithScore, len(moves))
	for i, m := range moves {
		child := applyUnchecked(board, player, m.Square, m.Flipped)
		var score int
		if exact {
			score = e.solve(child, player, player.Opponent(), -64, 64, st)
		} else {
			score = e.alphabeta(child, player, d.Depth()-1, ScoreLoss, ScoreWin, false, st)
		}
		ranked[i] = MoveWithScore{Move: m, Score: score, Exact: exact}
	}

	// Stable sort by score; the input is in ascending square order so
	// ties stay lowest-square first.
	for i := 1; i < len(ranked); i++ {
		for j := i; j > 0 && ranked[j].Score > ranked[j-1].Score; j-- {
			ranked[j], ranked[j-1] = ranked[j-1], ranked[j]
		}
	}

	return &PositionAnalysis{
		Moves:    ranked,
		NumMoves: len(ranked),
		Exact:    exact,
	}, nil
}

// MoveRating classifies a played move against the best available one.
type MoveRating int

const (
	RatingBest MoveRating = iota
	RatingGood
	RatingDoubtful
	RatingBad
)

func (r MoveRating) String() string {
	return [...]string{"best", "good", "doubtful", "bad"}[r]
}

// Abbr returns annotation-style notation for the rating.
func (r MoveRating) Abbr() string {
	return [...]string{"!", "", "?!", "?"}[r]
}

// Score-loss thresholds for move ratings, in evaluator units.
var ratingThresholds = [3]int{0, 30, 100} // best, good, doubtful; above = bad

// ClassifyLoss maps a score loss against the best move to a rating.
func ClassifyLoss(loss int) MoveRating {
	switch {
	case loss <= ratingThresholds[0]:
		return RatingBest
	case loss <= ratingThresholds[1]:
		return RatingGood
	case loss <= ratingThresholds[2]:
		return RatingDoubtful
	}
	return RatingBad
}

// RatedMove is the verdict on one played move.
type RatedMove struct {
	Played Square
	Best   Square
	Loss   int // score difference to the best move
	Rating MoveRating
}

// RateMove searches the position and classifies the played move by how
// much score it gives up against the best move.
func (e *Engine) RateMove(g *Game, played Square, d Difficulty) (*RatedMove, error) {
	analysis, err := e.AnalyzePosition(g, d)
	if err != nil {
		return nil, err
	}
	if analysis.NumMoves == 0 {
		return nil, fmt.Errorf("rate move %v: %w", played, ErrIllegalMove)
	}

	var playedScore int
	found := false
	for _, m := range analysis.Moves {
		if m.Move.Square == played {
			playedScore = m.Score
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("rate move %v: %w", played, ErrIllegalMove)
	}

	best := analysis.Moves[0]
	loss := best.Score - playedScore
	rating := ClassifyLoss(loss)

	return &RatedMove{
		Played: played,
		Best:   best.Move.Square,
		Loss:   loss,
		Rating: rating,
	}, nil
}

// PlayerAccuracy summarizes one player's moves over a game.
type PlayerAccuracy struct {
	Moves    int
	Best     int
	Good     int
	Doubtful int
	Bad      int
	MeanLoss float64 // average score loss per move
	StdLoss  float64 // standard deviation of the loss
}

// GameAnalysis is the full verdict on a recorded game.
type GameAnalysis struct {
	Black PlayerAccuracy
	White PlayerAccuracy
	Rated []RatedMove // one entry per non-pass move, in game order
}

// AnalyzeGame replays a recorded history from the standard start and
// rates every non-pass move. The per-player aggregates use float64
// only in this reporting layer; the search itself stays integer.
func (e *Engine) AnalyzeGame(history []HistoryEntry, d Difficulty) (*GameAnalysis, error) {
	g := NewGame()
	result := &GameAnalysis{}
	losses := [2][]float64{}

	for i, h := range history {
		if h.Player != g.Turn() {
			return nil, fmt.Errorf("analyze move %d: out-of-turn %v", i, h.Player)
		}
		if h.IsPass() {
			if err := g.Pass(); err != nil {
				return nil, fmt.Errorf("analyze move %d: %w", i, err)
			}
			continue
		}

		rated, err := e.RateMove(g, h.Square, d)
		if err != nil {
			return nil, fmt.Errorf("analyze move %d (%v): %w", i, h.Square, err)
		}
		result.Rated = append(result.Rated, *rated)

		acc := &result.Black
		if h.Player == White {
			acc = &result.White
		}
		acc.Moves++
		switch rated.Rating {
		case RatingBest:
			acc.Best++
		case RatingGood:
			acc.Good++
		case RatingDoubtful:
			acc.Doubtful++
		case RatingBad:
			acc.Bad++
		}
		losses[h.Player] = append(losses[h.Player], float64(rated.Loss))

		if err := g.ApplyMove(h.Square); err != nil {
			return nil, fmt.Errorf("analyze move %d (%v): %w", i, h.Square, err)
		}
	}

	for p, ls := range losses {
		if len(ls) == 0 {
			continue
		}
		acc := &result.Black
		if Player(p) == White {
			acc = &result.White
		}
		acc.MeanLoss = floats.Sum(ls) / float64(len(ls))
		if len(ls) > 1 {
			acc.StdLoss = stat.StdDev(ls, nil)
		}
	}

	return result, nil
}
