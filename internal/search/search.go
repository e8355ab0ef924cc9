// Package search implements the heuristic move generator: an
// iterative-deepening alpha-beta search bounded by a wall-clock budget,
// reading and writing the shared transposition table.
package search

import (
	"context"
	"time"

	"k8s.io/klog/v2"

	"hexwolf/internal/eval"
	"hexwolf/internal/hex"
	"hexwolf/internal/tt"
)

// Result is the outcome of one search: the chosen move, its score from the
// mover's perspective, how exact that score is, and the completed depth.
type Result struct {
	Move  hex.Move
	Score float32
	Bound tt.Bound
	Depth int
}

// Proven reports whether the result carries a game-theoretic value rather
// than a heuristic estimate.
func (r Result) Proven() bool {
	return r.Bound == tt.BoundExact && (r.Score >= eval.WinScore || r.Score <= -eval.WinScore)
}

const (
	DefaultMaxDepth = 4
	DefaultMinDepth = 1

	// checkpointMask throttles context polls to once per 64 visited nodes.
	checkpointMask = 63
)

// Player is the heuristic competitor of the move-generation race.
// It is not safe for concurrent GenMove calls; the race coordinator owns
// one at a time.
type Player struct {
	Evaluator eval.Evaluator

	// MaxDepth caps iterative deepening. MinDepth is always completed,
	// even past the budget; only cancellation can cut it short.
	MaxDepth int
	MinDepth int

	// SearchSingleton forces a full search even when only one legal move
	// exists; off, singletons are played immediately.
	SearchSingleton bool

	table *tt.Table
	stats stats
}

type stats struct {
	nodes    int
	evals    int
	ttHits   int
	ttCutoff int
}

func New(evaluator eval.Evaluator) *Player {
	return &Player{
		Evaluator: evaluator,
		MaxDepth:  DefaultMaxDepth,
		MinDepth:  DefaultMinDepth,
	}
}

// SetTable replaces the transposition table. A nil table disables caching.
func (p *Player) SetTable(table *tt.Table) { p.table = table }

// Table returns the current transposition table, possibly nil.
func (p *Player) Table() *tt.Table { return p.table }

// GenMove searches pos within budget and returns the best result of the
// last fully completed depth. Cancelling ctx stops the search at the next
// checkpoint; the unfinished depth's partial result is discarded.
//
// Equally scored root moves resolve to the lowest cell index, so results
// are deterministic for a fixed table state and depth.
func (p *Player) GenMove(ctx context.Context, pos *hex.Position, budget time.Duration) Result {
	moves := pos.LegalMoves()
	if len(moves) == 0 {
		return Result{Move: hex.Resign, Score: -eval.WinScore, Bound: tt.BoundExact}
	}
	if len(moves) == 1 && !p.SearchSingleton {
		return Result{Move: moves[0], Score: p.Evaluator.Evaluate(pos), Bound: tt.BoundExact}
	}

	start := time.Now()
	deadline := start.Add(budget)
	p.stats = stats{}

	best := Result{Move: moves[0], Score: -eval.WinScore, Bound: tt.BoundLower}
	maxDepth := p.MaxDepth
	if maxDepth < 1 {
		maxDepth = 1
	}
	for depth := 1; depth <= maxDepth; depth++ {
		run := &run{player: p, ctx: ctx}
		result, completed := run.searchRoot(pos, moves, depth)
		if !completed {
			break
		}
		best = result
		klog.V(2).Infof("depth %d: %s score=%.1f elapsed=%s",
			depth, hex.MoveString(best.Move, pos.Size()), best.Score, time.Since(start))
		if best.Proven() {
			break
		}
		if depth >= p.MinDepth {
			if ctx.Err() != nil || time.Now().After(deadline) {
				break
			}
		}
	}
	if klog.V(1).Enabled() {
		elapsed := time.Since(start).Seconds()
		klog.Infof("search done: move=%s depth=%d score=%.1f nodes=%d (%.0f/s) ttHits=%d cutoffs=%d",
			hex.MoveString(best.Move, pos.Size()), best.Depth, best.Score,
			p.stats.nodes, float64(p.stats.nodes)/elapsed, p.stats.ttHits, p.stats.ttCutoff)
	}
	return best
}

// run is the state of a single depth iteration.
type run struct {
	player  *Player
	ctx     context.Context
	aborted bool
}

// checkpoint polls for cancellation every checkpointMask+1 nodes. The
// budget deadline is deliberately not checked here: depths run to
// completion and the deepening loop stops between them.
func (r *run) checkpoint() bool {
	if r.aborted {
		return true
	}
	if r.player.stats.nodes&checkpointMask == 0 && r.ctx.Err() != nil {
		r.aborted = true
	}
	return r.aborted
}

// searchRoot runs one full-window alpha-beta iteration to the given depth.
// completed is false when cancellation aborted the iteration.
func (r *run) searchRoot(pos *hex.Position, moves []hex.Move, depth int) (result Result, completed bool) {
	alpha := -eval.WinScore
	beta := eval.WinScore
	bestMove := moves[0]
	for _, m := range moves {
		child := pos.Clone()
		if err := child.Play(m); err != nil {
			continue
		}
		score := -r.negamax(child, depth-1, -beta, -alpha)
		if r.aborted {
			return Result{}, false
		}
		// Strictly-greater keeps the first maximum: moves arrive in
		// increasing cell index, so ties break toward the lowest cell.
		if score > alpha {
			alpha = score
			bestMove = m
		}
	}
	result = Result{Move: bestMove, Score: alpha, Bound: tt.BoundExact, Depth: depth}
	if table := r.player.table; table != nil {
		table.Store(tt.Entry{
			Key:   pos.Hash(),
			Move:  bestMove,
			Value: alpha,
			Bound: tt.BoundExact,
			Depth: uint8(min(depth, 255)),
		})
	}
	return result, true
}

// negamax searches pos to depth plies with an alpha-beta window, consulting
// the transposition table at every node.
func (r *run) negamax(pos *hex.Position, depth int, alpha, beta float32) float32 {
	p := r.player
	p.stats.nodes++
	if r.checkpoint() {
		return 0
	}
	if pos.IsTerminal() {
		// The previous mover completed a connection.
		return -eval.WinScore
	}
	if depth <= 0 {
		p.stats.evals++
		return p.Evaluator.Evaluate(pos)
	}

	key := pos.Hash()
	origAlpha := alpha
	var ttMove hex.Move = hex.NoMove
	if p.table != nil {
		if e, ok := p.table.Lookup(key); ok {
			p.stats.ttHits++
			ttMove = e.Move
			if int(e.Depth) >= depth {
				switch e.Bound {
				case tt.BoundExact:
					p.stats.ttCutoff++
					return e.Value
				case tt.BoundLower:
					if e.Value > alpha {
						alpha = e.Value
					}
				case tt.BoundUpper:
					if e.Value < beta {
						beta = e.Value
					}
				}
				if alpha >= beta {
					p.stats.ttCutoff++
					return e.Value
				}
			}
		}
	}

	moves := orderMoves(pos.LegalMoves(), ttMove)
	best := -eval.WinScore
	bestMove := hex.NoMove
	for _, m := range moves {
		child := pos.Clone()
		if err := child.Play(m); err != nil {
			continue
		}
		score := -r.negamax(child, depth-1, -beta, -alpha)
		if r.aborted {
			return 0
		}
		if score > best {
			best = score
			bestMove = m
		}
		if best > alpha {
			alpha = best
		}
		if alpha >= beta {
			break
		}
	}

	if p.table != nil && bestMove != hex.NoMove {
		bound := tt.BoundExact
		if best <= origAlpha {
			bound = tt.BoundUpper
		} else if best >= beta {
			bound = tt.BoundLower
		}
		p.table.Store(tt.Entry{
			Key:   key,
			Move:  bestMove,
			Value: best,
			Bound: bound,
			Depth: uint8(min(depth, 255)),
		})
	}
	return best
}

// orderMoves puts the table's best move first, leaving the rest in cell
// index order.
func orderMoves(moves []hex.Move, ttMove hex.Move) []hex.Move {
	if ttMove == hex.NoMove {
		return moves
	}
	for i, m := range moves {
		if m == ttMove {
			moves[0], moves[i] = moves[i], moves[0]
			break
		}
	}
	return moves
}
