package hex_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/klog/v2"

	"hexwolf/internal/hex"
)

func init() {
	klog.InitFlags(nil)
}

// build plays the given coordinate moves in order, starting from an empty
// board with Black to move.
func build(t *testing.T, size int, moves ...string) *hex.Position {
	pos := hex.NewPosition(size)
	for _, s := range moves {
		m, err := hex.ParseMove(s, size)
		require.NoError(t, err)
		require.NoError(t, pos.Play(m))
	}
	return pos
}

func TestParseAndString(t *testing.T) {
	for _, s := range []string{"a1", "c2", "k11", "swap-pieces", "resign"} {
		m, err := hex.ParseMove(s, 11)
		require.NoError(t, err)
		assert.Equal(t, s, hex.MoveString(m, 11))
	}
	_, err := hex.ParseMove("z9", 11)
	assert.Error(t, err)
	_, err = hex.ParseMove("a12", 11)
	assert.Error(t, err)
	_, err = hex.ParseMove("", 11)
	assert.Error(t, err)
}

func TestPlayRejectsOccupiedCell(t *testing.T) {
	pos := build(t, 5, "c3")
	m, _ := hex.ParseMove("c3", 5)
	assert.Error(t, pos.Play(m))
	assert.Equal(t, hex.White, pos.ToPlay())
}

func TestSwapReflectsAndRecolors(t *testing.T) {
	pos := build(t, 5, "b1") // Black opens at row 1, col b
	require.NoError(t, pos.Play(hex.Swap))
	b1, _ := hex.ParseMove("b1", 5)
	a2, _ := hex.ParseMove("a2", 5)
	assert.Equal(t, hex.Empty, pos.At(b1))
	assert.Equal(t, hex.White, pos.At(a2))
	assert.Equal(t, hex.Black, pos.ToPlay())
	assert.Equal(t, 1, pos.StoneCount())
}

func TestSwapOnlyLegalAsSecondMove(t *testing.T) {
	pos := hex.NewPosition(5)
	assert.Error(t, pos.Play(hex.Swap))
	pos = build(t, 5, "a1", "b2")
	assert.Error(t, pos.Play(hex.Swap))
}

func TestWinnerBlackColumn(t *testing.T) {
	// Black fills column c, White plays elsewhere.
	pos := build(t, 3,
		"c1", "a1",
		"c2", "a2",
		"c3")
	assert.Equal(t, hex.Black, pos.Winner())
	assert.True(t, pos.IsTerminal())
	assert.Empty(t, pos.LegalMoves())
}

func TestWinnerWhiteRow(t *testing.T) {
	pos := build(t, 3,
		"a1", "a3",
		"b1", "b3",
		"a2", "c3")
	assert.Equal(t, hex.White, pos.Winner())
}

func TestWinnerOpenGame(t *testing.T) {
	pos := build(t, 3, "a1", "c3")
	assert.Equal(t, hex.Empty, pos.Winner())
	assert.Len(t, pos.LegalMoves(), 7)
}

func TestHashDependsOnSideToMove(t *testing.T) {
	a := build(t, 5, "c3")
	b := build(t, 5, "c3", "d4")
	assert.NotEqual(t, a.Hash(), b.Hash())

	// Same occupancy reached by different orders hashes equal.
	x := build(t, 5, "a1", "b2", "c3", "d4")
	y := build(t, 5, "c3", "d4", "a1", "b2")
	assert.Equal(t, x.Hash(), y.Hash())
}

func TestCloneIsIndependent(t *testing.T) {
	pos := build(t, 5, "c3")
	clone := pos.Clone()
	m, _ := hex.ParseMove("d4", 5)
	require.NoError(t, clone.Play(m))
	assert.Equal(t, hex.Empty, pos.At(m))
	assert.NotEqual(t, pos.Hash(), clone.Hash())
}
