package match

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/yourusername/othello/pkg/engine"
)

// Transcript format, modeled on classic game transcript files:
//
//	[Black "Alice"]
//	[White "Bob"]
//	[Date "2026-01-15"]
//	[Result "34-30"]
//
//	1) D3 C5
//	2) F6 F5
//	...
//
// Tokens are algebraic squares in history order, two per numbered line;
// a pass is written as "--". The move list alone determines the game:
// importing replays it from the standard start, so player attribution
// and flip masks are rederived rather than trusted.

var (
	tagRE      = regexp.MustCompile(`\[(\w+)\s+"([^"]*)"\]`)
	moveLineRE = regexp.MustCompile(`^\s*\d+\)\s*(.*)$`)
	tokenRE    = regexp.MustCompile(`^(--|[A-Ha-h][1-8])$`)
)

// ExportTranscript writes a record as a text transcript.
func ExportTranscript(w io.Writer, rec *Record) error {
	bw := bufio.NewWriter(w)

	writeTag := func(name, value string) {
		if value != "" {
			fmt.Fprintf(bw, "[%s %q]\n", name, value)
		}
	}
	writeTag("Black", rec.Black)
	writeTag("White", rec.White)
	writeTag("Date", rec.Date)
	writeTag("Event", rec.Event)
	writeTag("Place", rec.Place)
	if rec.Result != nil {
		writeTag("Result", formatResult(*rec.Result))
	}
	fmt.Fprintln(bw)

	for i := 0; i < len(rec.History); i += 2 {
		fmt.Fprintf(bw, "%d) %s", i/2+1, rec.History[i].Square)
		if i+1 < len(rec.History) {
			fmt.Fprintf(bw, " %s", rec.History[i+1].Square)
		}
		fmt.Fprintln(bw)
	}

	return bw.Flush()
}

// ImportTranscript parses a text transcript, replaying the move list
// to validate it and recover the full history with flip masks.
func ImportTranscript(r io.Reader) (*Record, error) {
	rec := &Record{}
	g := engine.NewGame()

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if m := tagRE.FindStringSubmatch(line); m != nil {
			switch strings.ToLower(m[1]) {
			case "black":
				rec.Black = m[2]
			case "white":
				rec.White = m[2]
			case "date":
				rec.Date = m[2]
			case "event":
				rec.Event = m[2]
			case "place", "site":
				rec.Place = m[2]
			}
			continue
		}

		m := moveLineRE.FindStringSubmatch(line)
		if m == nil {
			return nil, fmt.Errorf("transcript line %d: unrecognized line %q", lineNo, line)
		}

		for _, tok := range strings.Fields(m[1]) {
			if !tokenRE.MatchString(tok) {
				return nil, fmt.Errorf("transcript line %d: bad move token %q", lineNo, tok)
			}
			if tok == "--" {
				if err := g.Pass(); err != nil {
					return nil, fmt.Errorf("transcript line %d: %w", lineNo, err)
				}
				continue
			}
			sq, err := engine.ParseSquare(tok)
			if err != nil {
				return nil, fmt.Errorf("transcript line %d: %w", lineNo, err)
			}
			if err := g.ApplyMove(sq); err != nil {
				return nil, fmt.Errorf("transcript line %d: move %s: %w", lineNo, tok, err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("transcript read: %w", err)
	}

	rec.History = append([]engine.HistoryEntry(nil), g.History()...)
	if res, ok := g.Result(); ok {
		rec.Result = &res
	}
	return rec, nil
}

// formatResult renders a result as "B-W" disc counts with the winner
// named, e.g. "black 34-30" or "draw 32-32".
func formatResult(res engine.Result) string {
	if res.Draw {
		return fmt.Sprintf("draw %d-%d", res.Black, res.White)
	}
	return fmt.Sprintf("%s %d-%d", res.Winner, res.Black, res.White)
}
