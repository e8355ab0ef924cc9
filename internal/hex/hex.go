// Package hex implements the Hex board domain: positions, moves, legal move
// generation, side-to-side connection detection and Zobrist hashing.
//
// Cells are indexed row-major. Black connects the top and bottom edges,
// White connects the left and right edges. There are no draws in Hex.
package hex

import (
	"strings"

	"github.com/pkg/errors"
)

// Color of a cell or player.
type Color uint8

const (
	Empty Color = iota
	Black
	White
)

// Other returns the opponent color. Empty maps to Empty.
func (c Color) Other() Color {
	switch c {
	case Black:
		return White
	case White:
		return Black
	}
	return Empty
}

func (c Color) String() string {
	switch c {
	case Black:
		return "black"
	case White:
		return "white"
	}
	return "empty"
}

// ParseColor accepts the usual HTP spellings of a player color.
func ParseColor(s string) (Color, error) {
	switch strings.ToLower(s) {
	case "b", "black":
		return Black, nil
	case "w", "white":
		return White, nil
	}
	return Empty, errors.Errorf("invalid color %q", s)
}

// Move identifies a single board cell by row-major index, or one of the
// sentinel moves below. Moves compare by cell identity only.
type Move int16

const (
	// NoMove is the zero-ish "absent" move.
	NoMove Move = -1
	// Swap is the pie-rule move: the second player takes over the opening.
	Swap Move = -2
	// Resign concedes the game.
	Resign Move = -3
)

// MinBoardSize and MaxBoardSize bound the playable board sizes.
const (
	MinBoardSize = 2
	MaxBoardSize = 19
)

// DefaultBoardSize is the size competitive Hex is usually played at.
const DefaultBoardSize = 11

// MoveString renders a move in HTP coordinates ("a1"), or the sentinel
// spellings "swap-pieces" and "resign".
func MoveString(m Move, size int) string {
	switch {
	case m == Swap:
		return "swap-pieces"
	case m == Resign:
		return "resign"
	case m < 0 || int(m) >= size*size:
		return "invalid"
	}
	row := int(m) / size
	col := int(m) % size
	return string(rune('a'+col)) + itoa(row+1)
}

// ParseMove parses HTP coordinates ("a1") and the sentinels.
func ParseMove(s string, size int) (Move, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "swap-pieces", "swap":
		return Swap, nil
	case "resign":
		return Resign, nil
	}
	if len(s) < 2 {
		return NoMove, errors.Errorf("invalid move %q", s)
	}
	col := int(s[0] - 'a')
	row := 0
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return NoMove, errors.Errorf("invalid move %q", s)
		}
		row = row*10 + int(r-'0')
	}
	row-- // coordinates are 1-based
	if col < 0 || col >= size || row < 0 || row >= size {
		return NoMove, errors.Errorf("move %q outside %dx%d board", s, size, size)
	}
	return Move(row*size + col), nil
}

func itoa(v int) string {
	if v >= 10 {
		return string(rune('0'+v/10)) + string(rune('0'+v%10))
	}
	return string(rune('0' + v))
}
