package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, text string) *File {
	t.Helper()
	f, err := Parse(text)
	require.NoError(t, err)
	return f
}

func addresses(recs []Record) []uint64 {
	out := make([]uint64, len(recs))
	for i, r := range recs {
		out[i] = r.Address
	}
	return out
}

func TestExpand_Range_UnrollsExclusiveUpperBound(t *testing.T) {
	f := mustParse(t, "main { 0x10..0x14 }\n")
	traces := f.Expand(0)
	require.Len(t, traces, 1)
	assert.Equal(t, []uint64{0x10, 0x11, 0x12, 0x13}, addresses(traces[0].Records))
}

func TestExpand_Loop_RepeatsBody(t *testing.T) {
	f := mustParse(t, "main { loop(3) { 0x1\n0x2 } }\n")
	traces := f.Expand(0)
	assert.Equal(t, []uint64{1, 2, 1, 2, 1, 2}, addresses(traces[0].Records))
}

func TestExpand_Call_SplicesFunctionBody(t *testing.T) {
	f := mustParse(t, "fn pair() { 0x8\n0x9 }\nmain { 0x0\npair()\n0xf }\n")
	traces := f.Expand(0)
	assert.Equal(t, []uint64{0x0, 0x8, 0x9, 0xf}, addresses(traces[0].Records))
}

func TestExpand_Switch_PicksExactlyOneCase(t *testing.T) {
	f := mustParse(t, `
main {
	switch:
		(1): { 0x1 }
		(1): { 0x2 }
	endswitch
}
`)
	traces := f.Expand(0)
	require.Len(t, traces[0].Records, 1)
	addr := traces[0].Records[0].Address
	assert.True(t, addr == 1 || addr == 2, "switch expanded to unexpected address %#x", addr)
}

func TestExpand_SameSeed_IsDeterministic(t *testing.T) {
	// GIVEN a trace whose expansion depends on the RNG
	text := `
main {
	loop(10) {
		switch:
			(3): { 0x1 }
			(2): { 0x2 }
			(1): { 0x3 }
		endswitch
	}
}
`
	f := mustParse(t, text)

	// WHEN expanded twice with the same seed
	a := f.Expand(42)
	b := f.Expand(42)

	// THEN the sequences match exactly
	assert.Equal(t, a, b)
}

func TestExpand_ZeroIterationLoop_ProducesNothing(t *testing.T) {
	f := mustParse(t, "main { 0x1\nloop(0) { 0x2 } }\n")
	traces := f.Expand(0)
	assert.Equal(t, []uint64{1}, addresses(traces[0].Records))
}
