package memalloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsurePoolIdempotent(t *testing.T) {
	var pool Pool

	require.NoError(t, pool.ensurePool())
	base := pool.base
	length := pool.length

	require.NoError(t, pool.ensurePool())
	assert.Equal(t, base, pool.base, "second ensurePool moved the base address")
	assert.Equal(t, length, pool.length)

	require.NoError(t, pool.Teardown())
}

func TestEnsurePoolLazy(t *testing.T) {
	var pool Pool
	assert.Zero(t, pool.base, "pool should not acquire a region until first use")

	ptr, err := pool.Allocate(4)
	require.NoError(t, err)
	require.NotNil(t, ptr)
	assert.NotZero(t, pool.base)

	require.NoError(t, pool.Teardown())
}

func TestTeardownResetsState(t *testing.T) {
	var pool Pool
	_, err := pool.Allocate(8)
	require.NoError(t, err)

	require.NoError(t, pool.Teardown())
	assert.Zero(t, pool.base)
	assert.Zero(t, pool.offset)
	assert.Nil(t, pool.head)

	// Teardown on an unused pool is a no-op, not an error.
	var fresh Pool
	assert.NoError(t, fresh.Teardown())
}

// checkPoolFull asserts that every block in pool's snapshot is
// currently reserved, i.e. nothing is left to coalesce or reuse.
func checkPoolFull(t *testing.T, pool *Pool) {
	t.Helper()
	snap := pool.Snapshot()
	require.NotEmpty(t, snap, "a full pool must contain at least one block")
	for _, b := range snap {
		assert.False(t, b.Free, "block at offset %d should be reserved in a full pool", b.Offset)
	}
}

// checkPoolEmpty asserts that every block in pool's snapshot is free,
// i.e. nothing returned by Snapshot is still held by a caller.
func checkPoolEmpty(t *testing.T, pool *Pool) {
	t.Helper()
	for _, b := range pool.Snapshot() {
		assert.True(t, b.Free, "block at offset %d should be free in an empty pool", b.Offset)
	}
}

func TestCheckPoolFullThenEmpty(t *testing.T) {
	pool := &Pool{}
	defer pool.Teardown()

	p1, err := pool.Allocate(16)
	require.NoError(t, err)
	p2, err := pool.Allocate(32)
	require.NoError(t, err)
	checkPoolFull(t, pool)

	pool.Free(p1)
	pool.Free(p2)
	checkPoolEmpty(t, pool)
}

func TestSnapshotOrdersByAddress(t *testing.T) {
	var pool Pool
	defer pool.Teardown()

	p1, err := pool.Allocate(16)
	require.NoError(t, err)
	p2, err := pool.Allocate(32)
	require.NoError(t, err)
	_ = p1
	_ = p2

	snap := pool.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, uintptr(16), snap[0].Size)
	assert.Equal(t, uintptr(32), snap[1].Size)
	assert.False(t, snap[0].Free)
	assert.False(t, snap[1].Free)
	assert.Less(t, snap[0].Offset, snap[1].Offset)
}
