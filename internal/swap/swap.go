// Package swap decides, once per game, whether to take the pie-rule swap
// instead of answering the opening move.
package swap

import (
	"k8s.io/klog/v2"

	"hexwolf/internal/eval"
	"hexwolf/internal/hex"
)

// Checker evaluates the opening stone with the static evaluator. It holds
// no per-game state; callers invoke it only on the second player's first
// move.
type Checker struct {
	Evaluator eval.Evaluator

	// Threshold is the minimum static score, from the swapping player's
	// view of the post-swap position, required to take the swap. Zero
	// means swap whenever the opening is any good at all.
	Threshold float32
}

func New(evaluator eval.Evaluator) *Checker {
	return &Checker{Evaluator: evaluator}
}

// ShouldSwap reports whether taking over the opening stone beats replying
// to it. Positions other than "exactly one stone played" never swap.
func (c *Checker) ShouldSwap(pos *hex.Position) bool {
	if pos.StoneCount() != 1 {
		return false
	}
	after := pos.Clone()
	if err := after.Play(hex.Swap); err != nil {
		return false
	}
	// After the swap the opponent is to move; negate to get our view.
	score := -c.Evaluator.Evaluate(after)
	klog.V(1).Infof("swap check: post-swap score %.2f (threshold %.2f)", score, c.Threshold)
	return score > c.Threshold
}
