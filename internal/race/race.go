// Package race coordinates the parallel play-and-solve move generation:
// the heuristic player and the exact solver run concurrently on
// independent board copies, sharing only the transposition table, and the
// first usable answer wins. A proven result always beats a heuristic one.
package race

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"

	"hexwolf/internal/hex"
	"hexwolf/internal/search"
)

// Kind tags a race outcome.
type Kind uint8

const (
	// Heuristic means the time-bounded search produced the move.
	Heuristic Kind = iota
	// Proven means the exact solver concluded before the deadline.
	Proven
	// Swapped means the pie-rule swap short-circuited the race upstream.
	Swapped
)

func (k Kind) String() string {
	switch k {
	case Heuristic:
		return "heuristic"
	case Proven:
		return "proven"
	case Swapped:
		return "swapped"
	}
	return "invalid"
}

// Outcome is the arbitrated result of one move request. It is constructed
// fresh per request and consumed immediately.
type Outcome struct {
	Kind   Kind
	Result search.Result
}

// HeuristicPlayer is the time-bounded competitor. GenMove must honor ctx
// cancellation and return its best completed result.
type HeuristicPlayer interface {
	GenMove(ctx context.Context, pos *hex.Position, budget time.Duration) search.Result
}

// ExactSolver is the proving competitor. A false ok means no answer was
// obtained (cancelled or given up), never a partial result.
type ExactSolver interface {
	Solve(ctx context.Context, pos *hex.Position) (search.Result, bool)
}

// Coordinator owns the race configuration. One GenMove call is one race;
// the coordinator performs no search work itself, it only launches, waits
// and cancels.
type Coordinator struct {
	Player HeuristicPlayer
	Solver ExactSolver

	// UseParallelSolver gates the solver: disabled, only the heuristic
	// player runs and the solver is never started.
	UseParallelSolver bool
}

func New(player HeuristicPlayer, solver ExactSolver) *Coordinator {
	return &Coordinator{Player: player, Solver: solver, UseParallelSolver: true}
}

// GenMove races the two competitors on clones of pos and returns the first
// conclusive outcome. The solver result wins whenever it concluded within
// the deadline; a solver finishing later is abandoned, not consulted.
func (c *Coordinator) GenMove(ctx context.Context, pos *hex.Position, budget time.Duration) Outcome {
	if !c.UseParallelSolver || c.Solver == nil {
		return Outcome{Kind: Heuristic, Result: c.Player.GenMove(ctx, pos.Clone(), budget)}
	}

	playerCtx, cancelPlayer := context.WithCancel(ctx)
	defer cancelPlayer()
	solverCtx, cancelSolver := context.WithCancel(ctx)
	defer cancelSolver()

	solverCh := make(chan search.Result, 1)
	playerCh := make(chan search.Result, 1)
	var g errgroup.Group
	g.Go(func() error {
		if r, ok := c.Solver.Solve(solverCtx, pos.Clone()); ok {
			solverCh <- r
		}
		return nil
	})
	g.Go(func() error {
		playerCh <- c.Player.GenMove(playerCtx, pos.Clone(), budget)
		return nil
	})
	defer func() {
		// Join both competitors; cancellation is cooperative, so this
		// only blocks until the loser's next checkpoint.
		cancelPlayer()
		cancelSolver()
		_ = g.Wait()
	}()

	timer := time.NewTimer(budget)
	defer timer.Stop()
	select {
	case r := <-solverCh:
		cancelPlayer()
		klog.V(1).Infof("race: solver proved the position, score=%.0f", r.Score)
		return Outcome{Kind: Proven, Result: r}
	case r := <-playerCh:
		// The player finished on its own; take a solver answer that
		// arrived in the same instant in preference to it.
		cancelSolver()
		if sr, ok := tryRecv(solverCh); ok {
			klog.V(1).Infof("race: solver concluded alongside the player, preferring proof")
			return Outcome{Kind: Proven, Result: sr}
		}
		return Outcome{Kind: Heuristic, Result: r}
	case <-timer.C:
		// Deadline. A proof that landed before it still wins; after this
		// point the solver is abandoned unread.
		if sr, ok := tryRecv(solverCh); ok {
			cancelPlayer()
			return Outcome{Kind: Proven, Result: sr}
		}
		cancelSolver()
		r := <-playerCh
		klog.V(1).Infof("race: deadline reached, using heuristic result depth=%d", r.Depth)
		return Outcome{Kind: Heuristic, Result: r}
	}
}

func tryRecv(ch chan search.Result) (search.Result, bool) {
	select {
	case r := <-ch:
		return r, true
	default:
		return search.Result{}, false
	}
}
