package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUnitCache(t *testing.T, capacity int) *Cache {
	t.Helper()
	c, err := NewCache(UnitGeometry(capacity), PolicyLRU)
	require.NoError(t, err)
	return c
}

func TestCache_LRU_EvictsLeastRecentlyUsed(t *testing.T) {
	// GIVEN a 2-entry cache with direct address-as-tag mapping
	c := newUnitCache(t, 2)

	// WHEN accessing A, B, C, A
	outA := c.Access(0xa)
	outB := c.Access(0xb)
	outC := c.Access(0xc)
	outA2 := c.Access(0xa)

	// THEN the outcomes are Miss, Miss, Miss (evicting A), Miss
	assert.False(t, outA.Hit)
	assert.False(t, outB.Hit)
	assert.False(t, outC.Hit)
	require.True(t, outC.Evicted)
	assert.Equal(t, uint64(0xa), outC.EvictedTag)
	assert.False(t, outA2.Hit, "A was evicted when C was inserted, so it must miss")
}

func TestCache_LRU_HitRefreshesRecency(t *testing.T) {
	// GIVEN a 2-entry cache holding A and B, with A touched most recently
	c := newUnitCache(t, 2)
	c.Access(0xa)
	c.Access(0xb)
	c.Access(0xa)

	// WHEN C is inserted
	out := c.Access(0xc)

	// THEN B (not A) is the victim
	require.True(t, out.Evicted)
	assert.Equal(t, uint64(0xb), out.EvictedTag)
	assert.True(t, c.Access(0xa).Hit)
}

func TestCache_RepeatedAddress_OneMissThenHits(t *testing.T) {
	// GIVEN a single-entry cache
	c := newUnitCache(t, 1)

	// WHEN the same address is accessed N times
	const n = 10
	misses := 0
	for i := 0; i < n; i++ {
		if !c.Access(0x40).Hit {
			misses++
		}
	}

	// THEN exactly the first access misses and residency stays at one line
	assert.Equal(t, 1, misses)
	assert.Equal(t, 1, c.ResidentLines())
}

func TestCache_ZeroCapacity_AlwaysMissesNeverInserts(t *testing.T) {
	// GIVEN a cache with zero ways
	c := newUnitCache(t, 0)

	// WHEN any addresses are accessed repeatedly
	for i := 0; i < 20; i++ {
		out := c.Access(uint64(i % 3))
		// THEN every access misses without evicting anything
		assert.False(t, out.Hit)
		assert.False(t, out.Evicted)
	}
	assert.Equal(t, 0, c.ResidentLines())
}

func TestCache_CapacityInvariant_HeldThroughoutSimulation(t *testing.T) {
	// GIVEN a small set-associative cache
	geom := Geometry{Sets: 4, Ways: 2, LineSize: 8}
	c, err := NewCache(geom, PolicyLRU)
	require.NoError(t, err)

	// WHEN folding an adversarial address stream through it
	for i := 0; i < 500; i++ {
		c.Access(uint64(i*13) % 1024)
		// THEN resident lines never exceed Sets*Ways
		if got := c.ResidentLines(); got > geom.Sets*geom.Ways {
			t.Fatalf("capacity invariant violated: %d resident lines, capacity %d",
				got, geom.Sets*geom.Ways)
		}
	}
}

func TestCache_SetMapping_DisjointSetsDoNotEvictEachOther(t *testing.T) {
	// GIVEN a 2-set direct-mapped cache with 8-byte lines
	c, err := NewCache(Geometry{Sets: 2, Ways: 1, LineSize: 8}, PolicyLRU)
	require.NoError(t, err)

	// WHEN filling one line in each set
	c.Access(0x00) // set 0
	c.Access(0x08) // set 1

	// THEN both stay resident: same-line accesses hit
	assert.True(t, c.Access(0x04).Hit, "offset within the set-0 line must hit")
	assert.True(t, c.Access(0x0c).Hit, "offset within the set-1 line must hit")

	// AND a conflicting set-0 address evicts only the set-0 line
	out := c.Access(0x10)
	assert.False(t, out.Hit)
	assert.True(t, c.Access(0x08).Hit)
}

func TestCache_Reset_ClearsResidentState(t *testing.T) {
	c := newUnitCache(t, 4)
	c.Access(0x1)
	c.Access(0x2)
	require.Equal(t, 2, c.ResidentLines())

	c.Reset()

	assert.Equal(t, 0, c.ResidentLines())
	assert.False(t, c.Access(0x1).Hit)
}

func TestNewCache_InvalidGeometryOrPolicy_Rejected(t *testing.T) {
	tests := []struct {
		name   string
		geom   Geometry
		policy string
	}{
		{"sets not power of two", Geometry{Sets: 3, Ways: 1, LineSize: 1}, PolicyLRU},
		{"zero line size", Geometry{Sets: 1, Ways: 1, LineSize: 0}, PolicyLRU},
		{"negative ways", Geometry{Sets: 1, Ways: -1, LineSize: 1}, PolicyLRU},
		{"unknown policy", UnitGeometry(2), "random"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCache(tt.geom, tt.policy)
			assert.Error(t, err)
		})
	}
}
