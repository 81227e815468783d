package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRUPolicy_VictimIsLeastRecentlyUsed(t *testing.T) {
	p, err := NewReplacementPolicy(PolicyLRU, 3)
	require.NoError(t, err)

	p.OnInsert(0)
	p.OnInsert(1)
	p.OnInsert(2)
	assert.Equal(t, 0, p.SelectVictim())

	// touching way 0 moves way 1 to the back of the order
	p.OnAccess(0)
	assert.Equal(t, 1, p.SelectVictim())
}

func TestLRUPolicy_SelectVictimIsPure(t *testing.T) {
	p, err := NewReplacementPolicy(PolicyLRU, 2)
	require.NoError(t, err)
	p.OnInsert(0)
	p.OnInsert(1)

	assert.Equal(t, p.SelectVictim(), p.SelectVictim())
}

func TestFIFOPolicy_HitsDoNotRefresh(t *testing.T) {
	p, err := NewReplacementPolicy(PolicyFIFO, 2)
	require.NoError(t, err)

	p.OnInsert(0)
	p.OnInsert(1)
	p.OnAccess(0) // hit on the oldest line

	// FIFO still evicts in insertion order
	assert.Equal(t, 0, p.SelectVictim())
}

func TestFIFOPolicy_ReinsertMovesToBack(t *testing.T) {
	p, err := NewReplacementPolicy(PolicyFIFO, 2)
	require.NoError(t, err)

	p.OnInsert(0)
	p.OnInsert(1)
	p.OnInsert(0) // way 0 refilled after eviction

	assert.Equal(t, 1, p.SelectVictim())
}

func TestNewReplacementPolicy_UnknownName_ConfigError(t *testing.T) {
	_, err := NewReplacementPolicy("plru", 4)
	require.Error(t, err)
	assert.IsType(t, &ConfigError{}, err)
}

func TestValidPolicies_CoversConstructableNames(t *testing.T) {
	for name := range ValidPolicies {
		_, err := NewReplacementPolicy(name, 2)
		assert.NoError(t, err, "registry lists %q but construction failed", name)
	}
}
