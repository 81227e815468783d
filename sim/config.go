package sim

// Geometry describes the simulated cache shape. Sets and LineSize must be
// powers of two (>= 1) so addresses split cleanly into offset, set index
// and tag bits. Ways may be zero, which models a cache that can hold
// nothing: every access misses and nothing is ever inserted.
type Geometry struct {
	Sets     int
	Ways     int
	LineSize int // bytes per cache line
}

// UnitGeometry is the degenerate single-set, byte-granularity shape where
// the tag equals the address. Capacity is then simply the number of ways.
func UnitGeometry(capacity int) Geometry {
	return Geometry{Sets: 1, Ways: capacity, LineSize: 1}
}

// DefaultGeometry mirrors an ARM Cortex L1 instruction cache:
// 128 sets x 4 ways x 64-byte lines (32 KiB).
// https://developer.arm.com/documentation/102199/0001/Memory-System/Level-1-caches
var DefaultGeometry = Geometry{Sets: 128, Ways: 4, LineSize: 64}

// TotalBytes returns the cache capacity in bytes.
func (g Geometry) TotalBytes() int {
	return g.Sets * g.Ways * g.LineSize
}

// Validate checks the geometry invariants.
func (g Geometry) Validate() error {
	if g.Sets < 1 || !isPowerOfTwo(g.Sets) {
		return &ConfigError{Field: "sets", Reason: "must be a power of two >= 1"}
	}
	if g.LineSize < 1 || !isPowerOfTwo(g.LineSize) {
		return &ConfigError{Field: "line-size", Reason: "must be a power of two >= 1"}
	}
	if g.Ways < 0 {
		return &ConfigError{Field: "ways", Reason: "must be non-negative"}
	}
	return nil
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// log2 returns the bit width of a power-of-two value. Callers validate
// first; this never sees anything else.
func log2(n int) uint {
	w := uint(0)
	for n > 1 {
		n >>= 1
		w++
	}
	return w
}

// SimConfig holds the externally supplied parameters of the timed
// instruction-cache variant. The counts-only LRU variant takes none of
// these; its only knob is the cache geometry.
type SimConfig struct {
	HitCycles   int64 // cycles charged per hit
	MissCycles  int64 // cycles charged per miss
	LogAccesses bool  // record a per-access log entry for the report
	ClockMHz    int64 // clock speed for the time estimate; 0 disables it
}

// Validate rejects nonsensical cost parameters before any trace is parsed.
func (c SimConfig) Validate() error {
	if c.HitCycles < 0 {
		return &ConfigError{Field: "hit-cycles", Reason: "must be non-negative"}
	}
	if c.MissCycles < 0 {
		return &ConfigError{Field: "miss-cycles", Reason: "must be non-negative"}
	}
	if c.ClockMHz < 0 {
		return &ConfigError{Field: "clock-mhz", Reason: "must be non-negative"}
	}
	return nil
}
