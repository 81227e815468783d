package sim

import "fmt"

// AccessEntry is one per-access log line: which record, what it resolved
// to, and what (if anything) it displaced.
type AccessEntry struct {
	Index      int // position of the record in the trace, from 0
	Address    uint64
	Tag        uint64
	Size       int
	Hit        bool
	Evicted    bool
	EvictedTag uint64
}

// String renders the entry the way the per-access log prints it.
func (e AccessEntry) String() string {
	switch {
	case e.Hit:
		return fmt.Sprintf("%#x (Hit)", e.Address)
	case e.Evicted:
		return fmt.Sprintf("%#x (Miss evicted=%#x)", e.Address, e.EvictedTag)
	default:
		return fmt.Sprintf("%#x (Miss)", e.Address)
	}
}

// Accumulator folds the hit/miss stream of one trace into running counts
// and, when enabled, an ordered per-access log.
type Accumulator struct {
	hits       int64
	misses     int64
	logEnabled bool
	log        []AccessEntry
}

// NewAccumulator creates an empty accumulator.
func NewAccumulator(logEnabled bool) *Accumulator {
	return &Accumulator{logEnabled: logEnabled}
}

// Record counts one access outcome. Entries arrive in trace order and the
// log preserves that order.
func (a *Accumulator) Record(entry AccessEntry) {
	if entry.Hit {
		a.hits++
	} else {
		a.misses++
	}
	if a.logEnabled {
		a.log = append(a.log, entry)
	}
}

// Finalize produces the immutable result for a completed trace.
func (a *Accumulator) Finalize(name string) Result {
	return Result{Name: name, Hits: a.hits, Misses: a.misses, Log: a.log}
}
