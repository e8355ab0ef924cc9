package hex

import "sync"

// zobrist holds the random keys for one board size: two per cell plus a
// side-to-move key. Tables are seeded deterministically from the board size
// so hashes are stable across runs.
type zobrist struct {
	size  int
	cells []uint64
	side  uint64
}

var (
	zobristMu     sync.Mutex
	zobristTables = map[int]*zobrist{}
)

func zobristFor(size int) *zobrist {
	zobristMu.Lock()
	defer zobristMu.Unlock()
	if z, ok := zobristTables[size]; ok {
		return z
	}
	rng := splitmix64{state: 0x9e3779b97f4a7c15 ^ uint64(size)}
	z := &zobrist{size: size, cells: make([]uint64, size*size*2)}
	for i := range z.cells {
		z.cells[i] = rng.next()
	}
	z.side = rng.next()
	zobristTables[size] = z
	return z
}

func (z *zobrist) stone(m Move, c Color) uint64 {
	idx := int(m) * 2
	if c == White {
		idx++
	}
	return z.cells[idx]
}

type splitmix64 struct {
	state uint64
}

func (s *splitmix64) next() uint64 {
	s.state += 0x9e3779b97f4a7c15
	z := s.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
