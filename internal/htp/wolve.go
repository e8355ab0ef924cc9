package htp

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"hexwolf/internal/hex"
	"hexwolf/internal/params"
	"hexwolf/internal/tt"
)

func (e *Engine) registerWolveCommands() {
	e.Register("param_wolve", e.cmdParam)
	e.Register("wolve-get-pv", e.cmdGetPV)
	e.Register("wolve-scores", e.cmdScores)
	e.Register("wolve-data", e.cmdData)
	e.Register("wolve-clear-hash", e.cmdClearHash)
}

// buildRegistry exposes every tunable through typed accessor closures, so
// components stay unaware of the protocol layer.
func (e *Engine) buildRegistry() *params.Registry {
	r := params.NewRegistry()
	r.BoolVar("search_singleton",
		func() bool { return e.player.SearchSingleton },
		func(v bool) error { e.player.SearchSingleton = v; return nil })
	r.BoolVar("use_parallel_solver",
		func() bool { return e.coord.UseParallelSolver },
		func(v bool) error { e.coord.UseParallelSolver = v; return nil })
	r.BoolVar("use_swap_check",
		func() bool { return e.useSwapCheck },
		func(v bool) error { e.useSwapCheck = v; return nil })
	r.BoolVar("use_time_management",
		func() bool { return e.clock.UseTimeManagement },
		func(v bool) error { e.clock.UseTimeManagement = v; return nil })
	r.FloatVar("max_time",
		func() float64 { return e.clock.MaxTime.Seconds() },
		params.AtLeast("max_time", 0.0, func(v float64) error {
			e.clock.MaxTime = time.Duration(v * float64(time.Second))
			return nil
		}))
	r.IntVar("max_depth",
		func() int { return e.player.MaxDepth },
		params.AtLeast("max_depth", 1, func(v int) error {
			e.player.MaxDepth = v
			return nil
		}))
	r.IntVar("min_depth",
		func() int { return e.player.MinDepth },
		params.AtLeast("min_depth", 1, func(v int) error {
			e.player.MinDepth = v
			return nil
		}))
	r.IntVar("solver_max_nodes",
		func() int { return e.solver.MaxNodes },
		params.AtLeast("solver_max_nodes", 0, func(v int) error {
			e.solver.MaxNodes = v
			return nil
		}))
	r.FloatVar("swap_threshold",
		func() float64 { return float64(e.swapCheck.Threshold) },
		func(v float64) error { e.swapCheck.Threshold = float32(v); return nil })
	r.IntVar("tt_bits",
		func() int {
			if table := e.player.Table(); table != nil {
				return table.Bits()
			}
			return 0
		},
		params.InRange("tt_bits", 0, 30, func(v int) error {
			// Resizing replaces the table wholesale; prior contents are
			// discarded, which is the documented, user-visible behavior.
			if v == 0 {
				e.player.SetTable(nil)
			} else {
				e.player.SetTable(tt.New(v))
			}
			return nil
		}))
	return r
}

// cmdParam lists every tunable with no arguments, or sets one with two.
func (e *Engine) cmdParam(args []string) (string, error) {
	switch len(args) {
	case 0:
		return "\n" + e.registry.List(), nil
	case 2:
		return "", e.registry.Set(args[0], args[1])
	}
	return "", errors.New("expected 0 or 2 arguments")
}

// cmdGetPV follows best-move links through the table from the current
// position. The walk stops at a missing entry, an illegal stored move, a
// terminal position, or a revisited hash (a stored cycle must yield the
// accumulated prefix, not an infinite loop).
func (e *Engine) cmdGetPV([]string) (string, error) {
	table := e.player.Table()
	if table == nil {
		return "", nil
	}
	pos := e.game.Position().Clone()
	seen := map[uint64]bool{}
	var moves []string
	for !pos.IsTerminal() {
		h := pos.Hash()
		if seen[h] {
			break
		}
		seen[h] = true
		entry, ok := table.Lookup(h)
		if !ok {
			return strings.Join(moves, " "), nil
		}
		m := entry.Move
		if m != hex.Swap && (m < 0 || pos.At(m) != hex.Empty) {
			break // stale or colliding entry, stop the line here
		}
		if err := pos.Play(m); err != nil {
			break
		}
		moves = append(moves, hex.MoveString(m, pos.Size()))
	}
	return strings.Join(moves, " "), nil
}

// cmdScores reports the stored value or bound for every legal move,
// derived from table entries of the immediate children.
func (e *Engine) cmdScores([]string) (string, error) {
	table := e.player.Table()
	if table == nil {
		return "", errors.New("no hashtable configured")
	}
	pos := e.game.Position()
	var pairs []string
	for _, m := range pos.LegalMoves() {
		child := pos.Clone()
		if err := child.Play(m); err != nil {
			continue
		}
		entry, ok := table.Lookup(child.Hash())
		if !ok {
			continue
		}
		// Entry values are from the child mover's view; negate for ours.
		value := -entry.Value
		var rendered string
		switch entry.Bound {
		case tt.BoundExact:
			rendered = fmt.Sprintf("%.1f", value)
		case tt.BoundLower: // child lower bound is our upper bound
			rendered = fmt.Sprintf("<=%.1f", value)
		case tt.BoundUpper:
			rendered = fmt.Sprintf(">=%.1f", value)
		}
		pairs = append(pairs, hex.MoveString(m, pos.Size())+" "+rendered)
	}
	return strings.Join(pairs, " "), nil
}

// cmdData dumps the raw stored entry for the current position, or nothing
// when absent.
func (e *Engine) cmdData([]string) (string, error) {
	table := e.player.Table()
	if table == nil {
		return "", errors.New("no hashtable configured")
	}
	pos := e.game.Position()
	entry, ok := table.Lookup(pos.Hash())
	if !ok {
		return "", nil
	}
	return fmt.Sprintf("[score=%.1f bestMove=%s bound=%s depth=%d]",
		entry.Value, hex.MoveString(entry.Move, pos.Size()), entry.Bound, entry.Depth), nil
}

func (e *Engine) cmdClearHash([]string) (string, error) {
	table := e.player.Table()
	if table == nil {
		return "", errors.New("no hashtable configured")
	}
	table.Clear()
	return "", nil
}
