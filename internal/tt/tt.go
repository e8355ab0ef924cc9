// Package tt implements the shared transposition table: a fixed,
// power-of-two sized array of per-slot gated entries keyed by the 64-bit
// position hash.
//
// The table is the only structure shared between concurrent searches.
// Consistency is per-entry only: each slot is guarded by a compare-and-swap
// gate so readers never observe a torn entry, but no ordering is promised
// across slots. Stale or replaced entries only cost search efficiency,
// never correctness.
package tt

import (
	"sync/atomic"

	"hexwolf/internal/hex"
)

// Bound classifies a stored value.
type Bound uint8

const (
	BoundExact Bound = iota
	BoundLower
	BoundUpper
)

func (b Bound) String() string {
	switch b {
	case BoundExact:
		return "exact"
	case BoundLower:
		return "lower"
	case BoundUpper:
		return "upper"
	}
	return "invalid"
}

// Entry is one stored search result. Entries are overwritten whole, never
// merged.
type Entry struct {
	Key   uint64
	Move  hex.Move
	Value float32
	Bound Bound
	Depth uint8
}

type slot struct {
	gate  int32
	valid bool
	entry Entry
}

// Table is a fixed-capacity hash-indexed store. The capacity is set at
// construction and never grows; resizing means building a new Table and
// discarding this one.
type Table struct {
	bits  int
	mask  uint64
	slots []slot
}

// New returns a table with 1<<bits slots.
func New(bits int) *Table {
	if bits < 1 {
		bits = 1
	}
	size := 1 << bits
	return &Table{
		bits:  bits,
		mask:  uint64(size - 1),
		slots: make([]slot, size),
	}
}

// Bits returns the configured size exponent.
func (t *Table) Bits() int { return t.bits }

// Capacity returns the slot count.
func (t *Table) Capacity() int { return len(t.slots) }

// Lookup returns the entry stored for key, if any. A slot occupied by a
// different key is a miss. If the slot is momentarily gated by a writer the
// lookup misses rather than blocks.
func (t *Table) Lookup(key uint64) (Entry, bool) {
	s := &t.slots[key&t.mask]
	if !atomic.CompareAndSwapInt32(&s.gate, 0, 1) {
		return Entry{}, false
	}
	defer atomic.StoreInt32(&s.gate, 0)
	if !s.valid || s.entry.Key != key {
		return Entry{}, false
	}
	return s.entry, true
}

// Store writes e subject to the depth-preserving replacement rule: e
// replaces the occupant only if the slot is empty or e.Depth is at least
// the stored depth. Returns whether the entry was written.
func (t *Table) Store(e Entry) bool {
	s := &t.slots[e.Key&t.mask]
	if !atomic.CompareAndSwapInt32(&s.gate, 0, 1) {
		return false
	}
	defer atomic.StoreInt32(&s.gate, 0)
	if s.valid && e.Depth < s.entry.Depth {
		return false
	}
	s.entry = e
	s.valid = true
	return true
}

// Clear discards every entry. Concurrent searches see each slot empty out
// one at a time.
func (t *Table) Clear() {
	for i := range t.slots {
		s := &t.slots[i]
		for !atomic.CompareAndSwapInt32(&s.gate, 0, 1) {
		}
		s.valid = false
		s.entry = Entry{}
		atomic.StoreInt32(&s.gate, 0)
	}
}
