package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccumulator_Conservation(t *testing.T) {
	// GIVEN an accumulator fed a mixed outcome stream
	acc := NewAccumulator(false)
	outcomes := []bool{false, true, true, false, true}
	for i, hit := range outcomes {
		acc.Record(AccessEntry{Index: i, Hit: hit})
	}

	// THEN hits + misses equals the number of records
	r := acc.Finalize("t")
	assert.Equal(t, int64(3), r.Hits)
	assert.Equal(t, int64(2), r.Misses)
	assert.Equal(t, int64(len(outcomes)), r.Accesses())
}

func TestAccumulator_LogPreservesTraceOrder(t *testing.T) {
	// GIVEN logging enabled
	acc := NewAccumulator(true)
	addrs := []uint64{0x30, 0x10, 0x20}
	for i, a := range addrs {
		acc.Record(AccessEntry{Index: i, Address: a, Hit: i%2 == 0})
	}

	// THEN log entries appear exactly in record order
	r := acc.Finalize("t")
	require.Len(t, r.Log, len(addrs))
	for i, e := range r.Log {
		assert.Equal(t, i, e.Index)
		assert.Equal(t, addrs[i], e.Address)
	}
}

func TestAccumulator_LogDisabled_NoEntries(t *testing.T) {
	acc := NewAccumulator(false)
	acc.Record(AccessEntry{Index: 0, Address: 0x1})
	r := acc.Finalize("t")
	assert.Nil(t, r.Log)
}

func TestAccessEntry_String(t *testing.T) {
	tests := []struct {
		name  string
		entry AccessEntry
		want  string
	}{
		{"hit", AccessEntry{Address: 0x40, Hit: true}, "0x40 (Hit)"},
		{"miss", AccessEntry{Address: 0x40}, "0x40 (Miss)"},
		{"miss with eviction", AccessEntry{Address: 0x40, Evicted: true, EvictedTag: 0x7}, "0x40 (Miss evicted=0x7)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.entry.String())
		})
	}
}
