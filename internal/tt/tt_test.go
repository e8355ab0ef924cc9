package tt_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hexwolf/internal/hex"
	"hexwolf/internal/tt"
)

func TestStoreAndLookup(t *testing.T) {
	table := tt.New(10)
	assert.Equal(t, 1<<10, table.Capacity())

	e := tt.Entry{Key: 0xdeadbeef, Move: hex.Move(7), Value: 42, Bound: tt.BoundLower, Depth: 3}
	require.True(t, table.Store(e))

	got, ok := table.Lookup(0xdeadbeef)
	require.True(t, ok)
	assert.Equal(t, e, got)

	_, ok = table.Lookup(0xcafe)
	assert.False(t, ok)
}

func TestDeeperEntryIsPreserved(t *testing.T) {
	table := tt.New(4)
	deep := tt.Entry{Key: 1, Move: hex.Move(3), Depth: 9}
	require.True(t, table.Store(deep))

	shallow := tt.Entry{Key: 1, Move: hex.Move(5), Depth: 2}
	assert.False(t, table.Store(shallow))

	got, ok := table.Lookup(1)
	require.True(t, ok)
	assert.Equal(t, deep, got)

	// Equal depth replaces.
	replacement := tt.Entry{Key: 1, Move: hex.Move(5), Depth: 9}
	assert.True(t, table.Store(replacement))
	got, _ = table.Lookup(1)
	assert.Equal(t, hex.Move(5), got.Move)
}

func TestColludingKeysShareASlot(t *testing.T) {
	table := tt.New(2) // 4 slots: keys 1 and 5 collide
	require.True(t, table.Store(tt.Entry{Key: 1, Depth: 5}))
	require.True(t, table.Store(tt.Entry{Key: 5, Depth: 7}))

	_, ok := table.Lookup(1)
	assert.False(t, ok, "replaced by the deeper colliding entry")
	got, ok := table.Lookup(5)
	require.True(t, ok)
	assert.Equal(t, uint8(7), got.Depth)
}

func TestClear(t *testing.T) {
	table := tt.New(6)
	for key := uint64(0); key < 100; key++ {
		table.Store(tt.Entry{Key: key, Depth: 1})
	}
	table.Clear()
	for key := uint64(0); key < 100; key++ {
		_, ok := table.Lookup(key)
		assert.False(t, ok)
	}
}

func TestConcurrentAccessKeepsEntriesWhole(t *testing.T) {
	table := tt.New(8)
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 2000; i++ {
				key := uint64(i % 97)
				// Entries are self-describing: value mirrors the key.
				table.Store(tt.Entry{Key: key, Value: float32(key), Depth: uint8(w)})
				if e, ok := table.Lookup(key); ok {
					if e.Value != float32(e.Key) {
						t.Errorf("torn entry: key=%d value=%v", e.Key, e.Value)
						return
					}
				}
			}
		}(w)
	}
	wg.Wait()
}
