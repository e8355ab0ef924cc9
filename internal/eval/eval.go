// Package eval provides the static position evaluator used by the search
// and the opening-swap check. The search layers only depend on the
// Evaluator contract; the bundled heuristic is a plain connection-distance
// estimate.
package eval

import (
	"math"

	"github.com/chewxy/math32"

	"hexwolf/internal/hex"
)

// WinScore is the score magnitude of a decided game. Heuristic scores are
// squashed well inside (-WinScore, WinScore).
const WinScore float32 = 1000

// Evaluator scores a position from the side-to-move perspective: positive
// favors the player to move.
type Evaluator interface {
	Evaluate(pos *hex.Position) float32
}

// Connectivity is the default evaluator: it compares the two players'
// cheapest remaining connection distances (own stones are free, empty cells
// cost one, opponent stones are impassable).
type Connectivity struct{}

var _ Evaluator = Connectivity{}

func (Connectivity) Evaluate(pos *hex.Position) float32 {
	if w := pos.Winner(); w != hex.Empty {
		if w == pos.ToPlay() {
			return WinScore
		}
		return -WinScore
	}
	me := pos.ToPlay()
	myDist := connectionDistance(pos, me)
	oppDist := connectionDistance(pos, me.Other())
	if myDist == unreachable && oppDist == unreachable {
		return 0
	}
	if myDist == unreachable {
		return -WinScore
	}
	if oppDist == unreachable {
		return WinScore
	}
	// Squash into roughly (-100, 100) so heuristic scores can never be
	// confused with a proven result.
	return 100 * math32.Tanh(float32(oppDist-myDist)/3)
}

const unreachable = math.MaxInt32

// connectionDistance is the cheapest edge-to-edge path cost for c: a 0-1
// Dijkstra where c's stones cost nothing and empty cells cost one.
func connectionDistance(pos *hex.Position, c hex.Color) int {
	n := pos.NumCells()
	size := pos.Size()
	dist := make([]int, n)
	for i := range dist {
		dist[i] = unreachable
	}
	// Deque-based 0-1 BFS seeded from one edge.
	deque := make([]hex.Move, 0, n)
	push := func(m hex.Move, d int, front bool) {
		if d >= dist[m] {
			return
		}
		dist[m] = d
		if front {
			deque = append([]hex.Move{m}, deque...)
		} else {
			deque = append(deque, m)
		}
	}
	for i := 0; i < size; i++ {
		var m hex.Move
		if c == hex.Black {
			m = hex.Move(i) // top row
		} else {
			m = hex.Move(i * size) // left column
		}
		switch pos.At(m) {
		case c:
			push(m, 0, true)
		case hex.Empty:
			push(m, 1, false)
		}
	}
	best := unreachable
	for len(deque) > 0 {
		m := deque[0]
		deque = deque[1:]
		d := dist[m]
		row, col := int(m)/size, int(m)%size
		atGoal := (c == hex.Black && row == size-1) || (c == hex.White && col == size-1)
		if atGoal && d < best {
			best = d
		}
		for _, nb := range pos.Neighbors(m) {
			switch pos.At(nb) {
			case c:
				push(nb, d, true)
			case hex.Empty:
				push(nb, d+1, false)
			}
		}
	}
	return best
}
