// Package timectl computes the wall-clock budget for a single move
// decision from the configured policy and the remaining game clock.
package timectl

import (
	"time"

	"k8s.io/klog/v2"

	"hexwolf/internal/hex"
)

// MinBudget is the fail-open budget handed out when the clock is already
// exhausted: a move must still be produced.
const MinBudget = 100 * time.Millisecond

// DefaultMaxTime is the fixed per-move ceiling before the operator tunes it.
const DefaultMaxTime = 10 * time.Second

// Controller derives per-move time budgets. Zero value is not usable; use
// New.
type Controller struct {
	// MaxTime is the per-move ceiling used in fixed mode and as an upper
	// clamp in adaptive mode.
	MaxTime time.Duration

	// UseTimeManagement switches from the fixed ceiling to an adaptive
	// split of the remaining clock.
	UseTimeManagement bool

	// SafetyMargin is clock time the adaptive mode refuses to schedule,
	// kept as a buffer against overshoot near exhaustion.
	SafetyMargin time.Duration
}

func New() *Controller {
	return &Controller{
		MaxTime:      DefaultMaxTime,
		SafetyMargin: 5 * time.Second,
	}
}

// TimeForMove returns the budget for deciding the next move of pos given
// the mover's remaining clock. The result is positive, never larger than
// the remaining clock, and degrades to MinBudget when the clock has run
// out rather than failing.
func (c *Controller) TimeForMove(pos *hex.Position, remaining time.Duration) time.Duration {
	if remaining <= MinBudget {
		klog.V(1).Infof("clock nearly exhausted (%s remaining), using minimal budget", remaining)
		return MinBudget
	}
	budget := c.MaxTime
	if c.UseTimeManagement {
		budget = c.adaptiveBudget(pos, remaining)
	}
	if budget > remaining {
		budget = remaining
	}
	if budget < MinBudget {
		budget = MinBudget
	}
	return budget
}

// adaptiveBudget splits the schedulable clock over an estimate of this
// player's remaining moves. The estimate floors early so opening and
// mid-game moves get the larger share.
func (c *Controller) adaptiveBudget(pos *hex.Position, remaining time.Duration) time.Duration {
	schedulable := remaining - c.SafetyMargin
	if schedulable <= 0 {
		return MinBudget
	}
	// Each player plays roughly half of the empty cells; a finished game
	// rarely fills the board, so halve again and keep a floor.
	empty := pos.NumCells() - pos.StoneCount()
	movesLeft := empty / 4
	if movesLeft < 4 {
		movesLeft = 4
	}
	budget := schedulable / time.Duration(movesLeft)
	if c.MaxTime > 0 && budget > c.MaxTime {
		budget = c.MaxTime
	}
	return budget
}
