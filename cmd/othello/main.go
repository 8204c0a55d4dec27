// othello - An Othello rules engine and analysis tool
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/yourusername/othello/internal/positionid"
	"github.com/yourusername/othello/pkg/engine"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "legal":
		cmdLegal(args)
	case "move":
		cmdMove(args)
	case "solve":
		cmdSolve(args)
	case "analyze":
		cmdAnalyze(args)
	case "selfplay":
		cmdSelfPlay(args)
	case "perft":
		cmdPerft(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`othello - Othello Analysis Engine

Usage: othello <command> [options]

Commands:
  legal     List the legal moves for a position
  move      Ask the AI for a move
  solve     Solve an endgame position exactly
  analyze   Rank every legal move
  selfplay  Play a complete game engine vs engine
  perft     Count move paths from the start position

Use "othello <command> -h" for command-specific help.

Position Format:
  Positions are 23-character IDs encoding both bitboards and the
  player to move. The word "start" names the standard start position.
  Example: othello legal -p start`)
}

func parsePositionArg(posStr string) (*engine.Game, error) {
	if posStr == "start" {
		return engine.NewGame(), nil
	}
	black, white, player, err := positionid.FromID(posStr)
	if err != nil {
		return nil, fmt.Errorf("invalid position ID: %w", err)
	}
	board := engine.Board{Black: black, White: white}
	return engine.GameFromBoard(board, engine.Player(player)), nil
}

func positionFlags(fs *flag.FlagSet) (*string, *string) {
	posFlag := fs.String("position", "", "Position ID (or \"start\")")
	posShort := fs.String("p", "", "Position ID (short form)")
	return posFlag, posShort
}

func requirePosition(posFlag, posShort *string, usage string) *engine.Game {
	pos := *posFlag
	if pos == "" {
		pos = *posShort
	}
	if pos == "" {
		fmt.Fprintln(os.Stderr, "Error: position required")
		fmt.Fprintln(os.Stderr, "Usage: "+usage)
		os.Exit(1)
	}

	g, err := parsePositionArg(pos)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return g
}

func parseDifficultyArg(s string) engine.Difficulty {
	if s == "" {
		return engine.Expert
	}
	d, err := engine.ParseDifficulty(s)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return d
}

func cmdLegal(args []string) {
	fs := flag.NewFlagSet("legal", flag.ExitOnError)
	posFlag, posShort := positionFlags(fs)
	showBoard := fs.Bool("board", false, "Print the board diagram")
	fs.Parse(args)

	g := requirePosition(posFlag, posShort, "othello legal -position <positionID>")

	if *showBoard {
		fmt.Print(g.Board().String())
	}

	if g.Over() {
		printResult(g)
		return
	}

	moves := g.LegalMoves()
	if len(moves) == 0 {
		fmt.Printf("%s must pass\n", g.Turn())
		return
	}

	fmt.Printf("Legal moves for %s:\n", g.Turn())
	for _, m := range moves {
		fmt.Printf("  %s  flips %d\n", m.Square, m.FlipCount())
	}
}

func cmdMove(args []string) {
	fs := flag.NewFlagSet("move", flag.ExitOnError)
	posFlag, posShort := positionFlags(fs)
	diff := fs.String("difficulty", "", "Difficulty: easy, medium, hard, expert (default expert)")
	fs.Parse(args)

	g := requirePosition(posFlag, posShort, "othello move -position <positionID> [-difficulty <tier>]")
	d := parseDifficultyArg(*diff)

	e := engine.NewEngine(engine.Options{})

	start := time.Now()
	res, err := e.ChooseMove(g, d)
	elapsed := time.Since(start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	printSearchResult(res, elapsed)
}

func cmdSolve(args []string) {
	fs := flag.NewFlagSet("solve", flag.ExitOnError)
	posFlag, posShort := positionFlags(fs)
	fs.Parse(args)

	g := requirePosition(posFlag, posShort, "othello solve -position <positionID>")

	limit := engine.Expert.EndgameThreshold()
	if empties := g.Board().EmptyCount(); empties > limit {
		fmt.Fprintf(os.Stderr, "Error: position has %d empties, solver limit is %d\n", empties, limit)
		os.Exit(1)
	}

	e := engine.NewEngine(engine.Options{DisableBook: true})

	start := time.Now()
	res, err := e.ChooseMove(g, engine.Expert)
	elapsed := time.Since(start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	printSearchResult(res, elapsed)
}

func cmdAnalyze(args []string) {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	posFlag, posShort := positionFlags(fs)
	diff := fs.String("difficulty", "", "Difficulty: easy, medium, hard, expert (default expert)")
	fs.Parse(args)

	g := requirePosition(posFlag, posShort, "othello analyze -position <positionID> [-difficulty <tier>]")
	d := parseDifficultyArg(*diff)

	e := engine.NewEngine(engine.Options{})

	analysis, err := e.AnalyzePosition(g, d)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	kind := "heuristic"
	if analysis.Exact {
		kind = "exact"
	}
	fmt.Printf("Moves for %s (%s scores):\n", g.Turn(), kind)
	for i, m := range analysis.Moves {
		rating := engine.ClassifyLoss(analysis.Moves[0].Score - m.Score)
		fmt.Printf("  %d. %-3s  %+5d  %s\n", i+1, m.Move.Square, m.Score, rating.Abbr())
	}
}

func cmdSelfPlay(args []string) {
	fs := flag.NewFlagSet("selfplay", flag.ExitOnError)
	blackDiff := fs.String("black", "", "Black difficulty (default expert)")
	whiteDiff := fs.String("white", "", "White difficulty (default expert)")
	verbose := fs.Bool("v", false, "Print every move as it is played")
	fs.Parse(args)

	blackD := parseDifficultyArg(*blackDiff)
	whiteD := parseDifficultyArg(*whiteDiff)

	black := engine.NewEngine(engine.Options{})
	white := engine.NewEngine(engine.Options{})

	var callback func(engine.SelfPlayProgress)
	if *verbose {
		callback = func(p engine.SelfPlayProgress) {
			if p.Pass {
				fmt.Printf("%3d. %s --\n", p.MoveNumber, p.Player)
				return
			}
			fmt.Printf("%3d. %s %s\n", p.MoveNumber, p.Player, p.Square)
		}
	}

	start := time.Now()
	g, err := engine.SelfPlayWithProgress(black, white, blackD, whiteD, callback)
	elapsed := time.Since(start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Game over after %d half-moves (%.1fs)\n", g.MoveCount(), elapsed.Seconds())
	printResult(g)
}

func cmdPerft(args []string) {
	fs := flag.NewFlagSet("perft", flag.ExitOnError)
	depth := fs.Int("depth", 6, "Search depth in plies")
	fs.Parse(args)

	b := engine.NewBoard()
	for d := 1; d <= *depth; d++ {
		start := time.Now()
		nodes := engine.Perft(b, engine.Black, d)
		elapsed := time.Since(start)
		fmt.Printf("depth %2d: %10d paths (%.2fs)\n", d, nodes, elapsed.Seconds())
	}
}

func printSearchResult(res engine.SearchResult, elapsed time.Duration) {
	if res.Pass {
		fmt.Println("No legal moves (forced to pass)")
		return
	}

	fmt.Printf("Best move: %s\n", res.Square)
	switch {
	case res.Book:
		fmt.Println("  Source: opening book")
	case res.Exact:
		fmt.Printf("  Final margin: %+d discs (solved, %d nodes, %.2fs)\n",
			res.Score, res.Nodes, elapsed.Seconds())
	default:
		fmt.Printf("  Score: %+d at depth %d (%d nodes, %.2fs)\n",
			res.Score, res.Depth, res.Nodes, elapsed.Seconds())
	}
}

func printResult(g *engine.Game) {
	res, ok := g.Result()
	if !ok {
		return
	}
	if res.Draw {
		fmt.Printf("Result: draw %d-%d\n", res.Black, res.White)
		return
	}
	fmt.Printf("Result: %s wins %d-%d\n", res.Winner, res.Black, res.White)
}
