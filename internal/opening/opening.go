// Package opening holds the opening line database for the Othello
// engine. The data is plain algebraic move sequences from the standard
// starting position; the engine builds its canonicalized lookup table
// from these lines at startup.
package opening

// Line is a named opening variation as played moves from the start,
// Black first, in algebraic square notation.
type Line struct {
	Name  string
	Moves []string
}

// Lines are the book variations. Every sequence is a legal line of
// play; the engine applies them move by move when building the book,
// so a bad entry fails loudly at startup rather than mid-game.
//
// Thanks to symmetry canonicalization one line per variation family is
// enough: the mirrored and rotated images of these positions hit the
// same entries.
var Lines = []Line{
	{Name: "First move", Moves: []string{"C4"}},
	{Name: "Diagonal", Moves: []string{"C4", "C3", "D3", "C5", "B3"}},
	{Name: "Perpendicular", Moves: []string{"C4", "E3", "F4", "C5", "D6"}},
	{Name: "Italian", Moves: []string{"C4", "E3", "F6", "E6", "F5"}},
	{Name: "Parallel", Moves: []string{"C4", "C5", "D6", "E3"}},
}
