package sim

// Result carries the accumulated statistics of one simulated trace.
// Derived figures (percentages, cycle totals, time) are computed on demand
// rather than stored.
type Result struct {
	Name   string
	Hits   int64
	Misses int64
	Log    []AccessEntry // nil unless per-access logging was enabled
}

// Accesses returns the total number of simulated records.
func (r Result) Accesses() int64 {
	return r.Hits + r.Misses
}

// HitPercent returns the hit rate in percent; 0 for an empty trace.
func (r Result) HitPercent() float64 {
	if r.Accesses() == 0 {
		return 0
	}
	return 100 * float64(r.Hits) / float64(r.Accesses())
}

// MissPercent returns the miss rate in percent; 0 for an empty trace.
func (r Result) MissPercent() float64 {
	if r.Accesses() == 0 {
		return 0
	}
	return 100 * float64(r.Misses) / float64(r.Accesses())
}

// TotalCycles is the linear cost model of the timed variant.
func (r Result) TotalCycles(cfg SimConfig) int64 {
	return r.Hits*cfg.HitCycles + r.Misses*cfg.MissCycles
}

// TimeMicros converts the cycle total into microseconds at the configured
// clock speed. Returns 0 when no clock is configured.
func (r Result) TimeMicros(cfg SimConfig) float64 {
	if cfg.ClockMHz == 0 {
		return 0
	}
	return float64(r.TotalCycles(cfg)) / float64(cfg.ClockMHz)
}
