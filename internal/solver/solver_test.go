package solver_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/klog/v2"

	"hexwolf/internal/eval"
	"hexwolf/internal/hex"
	"hexwolf/internal/solver"
)

func init() {
	klog.InitFlags(nil)
}

func build(t *testing.T, size int, moves ...string) *hex.Position {
	pos := hex.NewPosition(size)
	for _, s := range moves {
		m, err := hex.ParseMove(s, size)
		require.NoError(t, err)
		require.NoError(t, pos.Play(m))
	}
	return pos
}

func TestProvesWonPosition(t *testing.T) {
	// Black to move with c1-c2 standing: c3 and b3 both win, so the
	// position is proven regardless of White's replies.
	pos := build(t, 3, "c1", "a1", "c2", "a2")
	result, ok := solver.New().Solve(context.Background(), pos)
	require.True(t, ok)
	assert.Equal(t, eval.WinScore, result.Score)
	assert.True(t, result.Proven())
	assert.Contains(t, pos.LegalMoves(), result.Move)
}

func TestProvesLostPosition(t *testing.T) {
	// White to move against Black's double threat at b3/c3: blocking one
	// loses to the other.
	pos := build(t, 3, "c1", "a1", "c2")
	require.Equal(t, hex.White, pos.ToPlay())
	result, ok := solver.New().Solve(context.Background(), pos)
	require.True(t, ok)
	assert.Equal(t, -eval.WinScore, result.Score)
	assert.Contains(t, pos.LegalMoves(), result.Move)
}

func TestSolvesFirstPlayerWinOnTinyBoard(t *testing.T) {
	// Hex never ends drawn and the first player wins 2x2 outright.
	pos := hex.NewPosition(2)
	result, ok := solver.New().Solve(context.Background(), pos)
	require.True(t, ok)
	assert.Equal(t, eval.WinScore, result.Score)
}

func TestTerminalPositionIsLost(t *testing.T) {
	pos := build(t, 3, "c1", "a1", "c2", "a2", "c3")
	require.Equal(t, hex.Black, pos.Winner())
	result, ok := solver.New().Solve(context.Background(), pos)
	require.True(t, ok)
	assert.Equal(t, -eval.WinScore, result.Score)
	assert.Equal(t, hex.Resign, result.Move)
}

func TestCancellationReportsNoAnswer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, ok := solver.New().Solve(ctx, hex.NewPosition(11))
	assert.False(t, ok, "cancellation means no answer, not a partial one")
}

func TestNodeBoundGivesUp(t *testing.T) {
	s := solver.New()
	s.MaxNodes = 10
	_, ok := s.Solve(context.Background(), hex.NewPosition(11))
	assert.False(t, ok)
}
