package race_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/klog/v2"

	"hexwolf/internal/eval"
	"hexwolf/internal/hex"
	"hexwolf/internal/race"
	"hexwolf/internal/search"
	"hexwolf/internal/solver"
	"hexwolf/internal/tt"
)

func init() {
	klog.InitFlags(nil)
}

// stubPlayer honors the budget and cancellation like the real player.
type stubPlayer struct {
	calls  atomic.Int32
	result search.Result
	delay  time.Duration
}

func (p *stubPlayer) GenMove(ctx context.Context, pos *hex.Position, budget time.Duration) search.Result {
	p.calls.Add(1)
	wait := p.delay
	if budget < wait {
		wait = budget
	}
	select {
	case <-time.After(wait):
	case <-ctx.Done():
	}
	return p.result
}

// stubSolver counts invocations and reports whether it was cancelled.
type stubSolver struct {
	calls     atomic.Int32
	cancelled atomic.Bool
	result    search.Result
	delay     time.Duration
}

func (s *stubSolver) Solve(ctx context.Context, pos *hex.Position) (search.Result, bool) {
	s.calls.Add(1)
	select {
	case <-time.After(s.delay):
		return s.result, true
	case <-ctx.Done():
		s.cancelled.Store(true)
		return search.Result{}, false
	}
}

func proven(score float32) search.Result {
	return search.Result{Move: hex.Move(0), Score: score, Bound: tt.BoundExact}
}

func heuristic(m hex.Move) search.Result {
	return search.Result{Move: m, Score: 12, Bound: tt.BoundExact, Depth: 4}
}

func TestProvenResultWinsAndCancelsPlayer(t *testing.T) {
	player := &stubPlayer{result: heuristic(5), delay: 10 * time.Second}
	solver := &stubSolver{result: proven(eval.WinScore), delay: 10 * time.Millisecond}
	c := race.New(player, solver)

	start := time.Now()
	out := c.GenMove(context.Background(), hex.NewPosition(5), time.Minute)
	assert.Equal(t, race.Proven, out.Kind)
	assert.Equal(t, eval.WinScore, out.Result.Score)
	assert.Less(t, time.Since(start), 5*time.Second, "player must be cancelled, not awaited")
}

func TestHeuristicResultWhenSolverIsSlow(t *testing.T) {
	player := &stubPlayer{result: heuristic(7), delay: 10 * time.Millisecond}
	solver := &stubSolver{result: proven(eval.WinScore), delay: time.Hour}
	c := race.New(player, solver)

	out := c.GenMove(context.Background(), hex.NewPosition(5), time.Minute)
	assert.Equal(t, race.Heuristic, out.Kind)
	assert.Equal(t, hex.Move(7), out.Result.Move)
	assert.True(t, solver.cancelled.Load(), "losing solver must be cancelled")
}

func TestDeadlineCancelsSolver(t *testing.T) {
	player := &stubPlayer{result: heuristic(3), delay: time.Hour}
	solver := &stubSolver{result: proven(eval.WinScore), delay: time.Hour}
	c := race.New(player, solver)

	start := time.Now()
	out := c.GenMove(context.Background(), hex.NewPosition(5), 50*time.Millisecond)
	assert.Equal(t, race.Heuristic, out.Kind)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.True(t, solver.cancelled.Load())
}

func TestDisabledParallelNeverStartsSolver(t *testing.T) {
	player := &stubPlayer{result: heuristic(2)}
	solver := &stubSolver{result: proven(eval.WinScore)}
	c := race.New(player, solver)
	c.UseParallelSolver = false

	out := c.GenMove(context.Background(), hex.NewPosition(5), 50*time.Millisecond)
	assert.Equal(t, race.Heuristic, out.Kind)
	assert.Equal(t, int32(1), player.calls.Load())
	assert.Zero(t, solver.calls.Load(), "solver must never be invoked")
}

func TestSolverGivingUpFallsBackToHeuristic(t *testing.T) {
	// A solver that aborts (internal failure, node bound) is "no proof
	// obtained": the player's result is used silently.
	player := &stubPlayer{result: heuristic(9), delay: 20 * time.Millisecond}
	solver := &stubSolver{delay: time.Hour} // cancelled before finishing
	c := race.New(player, solver)

	out := c.GenMove(context.Background(), hex.NewPosition(5), 100*time.Millisecond)
	assert.Equal(t, race.Heuristic, out.Kind)
	assert.Equal(t, hex.Move(9), out.Result.Move)
}

func TestRealCompetitorsOnTinyBoard(t *testing.T) {
	// On 2x2 the real solver proves the first-player win almost
	// instantly, beating a deliberately slow player.
	player := &stubPlayer{result: heuristic(1), delay: time.Hour}
	c := race.New(player, solver.New())

	out := c.GenMove(context.Background(), hex.NewPosition(2), 10*time.Second)
	require.Equal(t, race.Proven, out.Kind)
	assert.Equal(t, eval.WinScore, out.Result.Score)
}
