// Package game keeps the state of one match: the current position, the
// move history for undo, and the per-side clocks.
package game

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"hexwolf/internal/hex"
)

// DefaultClock is each side's initial thinking time.
const DefaultClock = 10 * time.Minute

// Game is a single match in progress. Not safe for concurrent use; the
// protocol layer serializes access.
type Game struct {
	id      uuid.UUID
	pos     *hex.Position
	history []*hex.Position
	moves   []hex.Move
	clocks  [2]time.Duration // indexed by Color-1
}

// New starts a fresh game on an empty board of the given size.
func New(size int) *Game {
	g := &Game{}
	g.Reset(size)
	return g
}

// Reset discards all state and starts over on a new board.
func (g *Game) Reset(size int) {
	g.id = uuid.New()
	g.pos = hex.NewPosition(size)
	g.history = nil
	g.moves = nil
	g.clocks = [2]time.Duration{DefaultClock, DefaultClock}
	klog.V(1).Infof("new game %s on %dx%d board", g.id, size, size)
}

// ID identifies the match in logs.
func (g *Game) ID() uuid.UUID { return g.id }

// Position returns the current position. Callers clone before mutating or
// sharing across goroutines.
func (g *Game) Position() *hex.Position { return g.pos }

// Moves returns the played move sequence.
func (g *Game) Moves() []hex.Move { return g.moves }

// Play records and applies a move for the side to move.
func (g *Game) Play(m hex.Move) error {
	next := g.pos.Clone()
	if err := next.Play(m); err != nil {
		return err
	}
	g.history = append(g.history, g.pos)
	g.moves = append(g.moves, m)
	g.pos = next
	return nil
}

// Undo reverts the last move.
func (g *Game) Undo() error {
	if len(g.history) == 0 {
		return errors.New("no move to undo")
	}
	g.pos = g.history[len(g.history)-1]
	g.history = g.history[:len(g.history)-1]
	g.moves = g.moves[:len(g.moves)-1]
	return nil
}

// TimeRemaining returns c's clock.
func (g *Game) TimeRemaining(c hex.Color) time.Duration {
	return g.clocks[clockIndex(c)]
}

// SetTimeLeft overrides c's clock, e.g. from the controller's time_left.
func (g *Game) SetTimeLeft(c hex.Color, remaining time.Duration) {
	g.clocks[clockIndex(c)] = remaining
}

// Debit subtracts thinking time from c's clock, flooring at zero.
func (g *Game) Debit(c hex.Color, elapsed time.Duration) {
	i := clockIndex(c)
	g.clocks[i] -= elapsed
	if g.clocks[i] < 0 {
		g.clocks[i] = 0
	}
}

func clockIndex(c hex.Color) int {
	if c == hex.White {
		return 1
	}
	return 0
}
