package hex

import (
	"github.com/pkg/errors"
)

// Position is a board snapshot: cell occupancy plus the side to move.
// Positions are value types; Clone before handing one to a concurrent
// consumer. Two positions are equal iff occupancy and side to move match.
type Position struct {
	size   int
	cells  []Color
	toPlay Color
	stones int
	hash   uint64 // stones only; side-to-move key folded in by Hash()
}

// NewPosition returns an empty board of the given size with Black to move.
func NewPosition(size int) *Position {
	if size < MinBoardSize || size > MaxBoardSize {
		size = DefaultBoardSize
	}
	return &Position{
		size:   size,
		cells:  make([]Color, size*size),
		toPlay: Black,
	}
}

// Size returns the board side length.
func (p *Position) Size() int { return p.size }

// NumCells returns the number of board cells.
func (p *Position) NumCells() int { return p.size * p.size }

// ToPlay returns the side to move.
func (p *Position) ToPlay() Color { return p.toPlay }

// StoneCount returns the number of occupied cells.
func (p *Position) StoneCount() int { return p.stones }

// At returns the color occupying the given cell.
func (p *Position) At(m Move) Color {
	if m < 0 || int(m) >= len(p.cells) {
		return Empty
	}
	return p.cells[m]
}

// Clone returns an independent deep copy.
func (p *Position) Clone() *Position {
	c := *p
	c.cells = make([]Color, len(p.cells))
	copy(c.cells, p.cells)
	return &c
}

// Hash returns the 64-bit Zobrist hash of occupancy plus side to move.
// Collisions are possible; consumers treat table hits as hints.
func (p *Position) Hash() uint64 {
	h := p.hash
	if p.toPlay == White {
		h ^= zobristFor(p.size).side
	}
	return h
}

// Play places a stone for the side to move and flips the turn.
// Swap applies the pie rule: the lone opening stone is reflected across the
// long diagonal and recolored for the mover. Resign is not playable here.
func (p *Position) Play(m Move) error {
	if m == Swap {
		return p.playSwap()
	}
	if m < 0 || int(m) >= len(p.cells) {
		return errors.Errorf("cell %d out of range", m)
	}
	if p.cells[m] != Empty {
		return errors.Errorf("cell %s is occupied", MoveString(m, p.size))
	}
	z := zobristFor(p.size)
	p.cells[m] = p.toPlay
	p.hash ^= z.stone(m, p.toPlay)
	p.stones++
	p.toPlay = p.toPlay.Other()
	return nil
}

func (p *Position) playSwap() error {
	if p.stones != 1 {
		return errors.New("swap is only legal as the second move")
	}
	z := zobristFor(p.size)
	for m, c := range p.cells {
		if c == Empty {
			continue
		}
		row, col := m/p.size, m%p.size
		mirror := Move(col*p.size + row)
		p.cells[m] = Empty
		p.hash ^= z.stone(Move(m), c)
		p.cells[mirror] = p.toPlay
		p.hash ^= z.stone(mirror, p.toPlay)
		break
	}
	p.toPlay = p.toPlay.Other()
	return nil
}

// LegalMoves returns every empty cell, in increasing cell index order.
// The swap sentinel is a game-level affordance, not listed here.
// A decided position has no legal moves.
func (p *Position) LegalMoves() []Move {
	if p.Winner() != Empty {
		return nil
	}
	moves := make([]Move, 0, len(p.cells)-p.stones)
	for m, c := range p.cells {
		if c == Empty {
			moves = append(moves, Move(m))
		}
	}
	return moves
}

// Winner returns the connected player, or Empty while the game is open.
func (p *Position) Winner() Color {
	if p.stones < p.size {
		return Empty
	}
	if p.connected(Black) {
		return Black
	}
	if p.connected(White) {
		return White
	}
	return Empty
}

// IsTerminal reports whether either side has completed its connection.
func (p *Position) IsTerminal() bool { return p.Winner() != Empty }

// connected runs union-find over c's stones with two virtual edge nodes.
func (p *Position) connected(c Color) bool {
	n := p.size * p.size
	edgeA, edgeB := n, n+1 // top/bottom for Black, left/right for White
	uf := newUnionFind(n + 2)
	for m, cell := range p.cells {
		if cell != c {
			continue
		}
		row, col := m/p.size, m%p.size
		if c == Black {
			if row == 0 {
				uf.union(m, edgeA)
			}
			if row == p.size-1 {
				uf.union(m, edgeB)
			}
		} else {
			if col == 0 {
				uf.union(m, edgeA)
			}
			if col == p.size-1 {
				uf.union(m, edgeB)
			}
		}
		for _, nb := range p.Neighbors(Move(m)) {
			if p.cells[nb] == c {
				uf.union(m, int(nb))
			}
		}
	}
	return uf.find(edgeA) == uf.find(edgeB)
}

// neighborOffsets in (dRow, dCol) for the hexagonal adjacency of the
// rhombic board.
var neighborOffsets = [6][2]int{
	{-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0},
}

// Neighbors returns the adjacent cells of m.
func (p *Position) Neighbors(m Move) []Move {
	row, col := int(m)/p.size, int(m)%p.size
	out := make([]Move, 0, 6)
	for _, d := range neighborOffsets {
		r, c := row+d[0], col+d[1]
		if r >= 0 && r < p.size && c >= 0 && c < p.size {
			out = append(out, Move(r*p.size+c))
		}
	}
	return out
}

type unionFind struct {
	parent []int32
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int32, n)}
	for i := range uf.parent {
		uf.parent[i] = int32(i)
	}
	return uf
}

func (uf *unionFind) find(i int) int {
	for int(uf.parent[i]) != i {
		uf.parent[i] = uf.parent[uf.parent[i]] // path halving
		i = int(uf.parent[i])
	}
	return i
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra != rb {
		uf.parent[ra] = int32(rb)
	}
}
