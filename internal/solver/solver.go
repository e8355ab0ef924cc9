// Package solver determines the game-theoretic value of a position
// exactly, using best-first proof-number search. It either proves the side
// to move wins, proves it loses (Hex has no draws), or reports nothing when
// cancelled.
package solver

import (
	"context"
	"math"
	"time"

	"k8s.io/klog/v2"

	"hexwolf/internal/eval"
	"hexwolf/internal/hex"
	"hexwolf/internal/search"
	"hexwolf/internal/tt"
)

const inf = math.MaxUint32

// Solver runs proof-number search. Running time is unbounded in principle;
// callers cancel through the context. A cancelled solve reports no answer,
// never a partial one.
type Solver struct {
	// MaxNodes bounds tree growth; 0 means unlimited, relying on the
	// caller's cancellation. When the bound trips the solve gives up,
	// which callers treat the same as cancellation.
	MaxNodes int
}

func New() *Solver {
	return &Solver{}
}

type node struct {
	move      hex.Move
	proof     uint32
	disproof  uint32
	children  []*node
	expanded  bool
	orNode    bool // true when the root player is to move
}

// Solve attempts to prove the value of pos for its side to move. ok is
// false when cancelled or the node bound tripped; otherwise the result is
// exact: score +-WinScore and, for a win, a move that preserves it.
func (s *Solver) Solve(ctx context.Context, pos *hex.Position) (result search.Result, ok bool) {
	start := time.Now()
	root := &node{move: hex.NoMove, proof: 1, disproof: 1, orNode: true}
	nodes := 0

	for root.proof != 0 && root.disproof != 0 {
		if ctx.Err() != nil {
			klog.V(1).Infof("solver cancelled after %d nodes (%s)", nodes, time.Since(start))
			return search.Result{}, false
		}
		if s.MaxNodes > 0 && nodes >= s.MaxNodes {
			klog.V(1).Infof("solver node bound %d reached, giving up", s.MaxNodes)
			return search.Result{}, false
		}
		// Walk to the most-proving leaf, replaying moves on a scratch
		// board along the way.
		scratch := pos.Clone()
		leaf := root
		path := []*node{root}
		for leaf.expanded {
			leaf = selectChild(leaf)
			if err := scratch.Play(leaf.move); err != nil {
				return search.Result{}, false
			}
			path = append(path, leaf)
		}
		nodes += expand(leaf, scratch)
		for i := len(path) - 1; i >= 0; i-- {
			update(path[i])
		}
	}

	result = search.Result{Bound: tt.BoundExact}
	if root.proof == 0 {
		result.Score = eval.WinScore
		result.Move = provenMove(root)
	} else {
		result.Score = -eval.WinScore
		result.Move = resistingMove(root)
	}
	klog.V(1).Infof("solver done: %s score=%.0f nodes=%d elapsed=%s",
		hex.MoveString(result.Move, pos.Size()), result.Score, nodes, time.Since(start))
	return result, true
}

// selectChild descends toward the most-proving node.
func selectChild(n *node) *node {
	best := n.children[0]
	for _, c := range n.children[1:] {
		if n.orNode {
			if c.proof < best.proof {
				best = c
			}
		} else {
			if c.disproof < best.disproof {
				best = c
			}
		}
	}
	return best
}

// expand generates leaf's children and initializes their numbers from the
// board. Returns the number of nodes created.
func expand(leaf *node, scratch *hex.Position) int {
	leaf.expanded = true
	if winner := scratch.Winner(); winner != hex.Empty {
		// The mover into this node ended the game; whether that favors
		// the root player depends on whose turn it would be.
		rootWins := (winner == scratch.ToPlay()) == leaf.orNode
		if rootWins {
			leaf.proof, leaf.disproof = 0, inf
		} else {
			leaf.proof, leaf.disproof = inf, 0
		}
		return 0
	}
	moves := scratch.LegalMoves()
	leaf.children = make([]*node, len(moves))
	for i, m := range moves {
		leaf.children[i] = &node{move: m, proof: 1, disproof: 1, orNode: !leaf.orNode}
	}
	return len(moves)
}

// update recomputes a node's numbers from its children: an OR node needs
// one provable child, an AND node needs all of them.
func update(n *node) {
	if !n.expanded || len(n.children) == 0 {
		return
	}
	if n.orNode {
		n.proof, n.disproof = minAndSum(n.children, true)
	} else {
		n.disproof, n.proof = minAndSum(n.children, false)
	}
}

// minAndSum returns (min proof, sum disproof) over children when byProof,
// otherwise (min disproof, sum proof). Sums saturate at inf.
func minAndSum(children []*node, byProof bool) (minV, sumV uint32) {
	minV = inf
	for _, c := range children {
		p, d := c.proof, c.disproof
		if !byProof {
			p, d = d, p
		}
		if p < minV {
			minV = p
		}
		if d >= inf-sumV {
			sumV = inf
		} else {
			sumV += d
		}
	}
	return minV, sumV
}

// provenMove returns the lowest-indexed child move that carries the proof.
func provenMove(root *node) hex.Move {
	for _, c := range root.children {
		if c.proof == 0 {
			return c.move
		}
	}
	return hex.NoMove
}

// resistingMove returns a move from a lost root: the child that was
// hardest to disprove, ties toward the lowest cell index.
func resistingMove(root *node) hex.Move {
	if len(root.children) == 0 {
		return hex.Resign
	}
	best := root.children[0]
	for _, c := range root.children[1:] {
		if c.proof > best.proof {
			best = c
		}
	}
	return best.move
}
