package sim

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/cache-sim/cache-sim/sim/trace"
)

// Simulator bundles the configuration of one simulation variant. It holds
// no mutable state: every Run builds a fresh cache and accumulator, so a
// single Simulator value may serve concurrent runs.
type Simulator struct {
	Geometry Geometry
	Policy   string
	Config   SimConfig
	Seed     int64 // seed for weighted-switch expansion in program traces
}

// NewSimulator creates a timed instruction-cache simulator.
func NewSimulator(geom Geometry, policy string, cfg SimConfig) *Simulator {
	return &Simulator{Geometry: geom, Policy: policy, Config: cfg}
}

// Run executes the timed variant: validate configuration, parse and expand
// the trace, fold every record through the cache, and render the report.
// All failures come back through the error return; a failed run produces
// no report text.
func (s *Simulator) Run(traceText string) (string, error) {
	if err := s.Config.Validate(); err != nil {
		return "", err
	}
	results, err := s.Simulate(traceText)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(FormatCacheInfo(s.Geometry, s.Policy))
	if s.Config.LogAccesses {
		for _, r := range results {
			b.WriteByte('\n')
			fmt.Fprintf(&b, "Memory Accesses (%s):\n", r.Name)
			b.WriteString(FormatLog(r))
		}
	}
	b.WriteByte('\n')
	if len(results) > 1 {
		b.WriteString(Compare(results, s.Config))
	} else {
		b.WriteString(FormatSummary(results[0], s.Config))
	}
	return b.String(), nil
}

// RunCounts executes the counts-only variant: hit/miss statistics per
// trace, no cost parameters. The simulator's Config is ignored.
func (s *Simulator) RunCounts(traceText string) (string, error) {
	results, err := s.Simulate(traceText)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(FormatCacheInfo(s.Geometry, s.Policy))
	for _, r := range results {
		b.WriteByte('\n')
		b.WriteString(FormatCounts(r))
	}
	return b.String(), nil
}

// RunLRU is the counts-only LRU simulation over a single trace text.
func RunLRU(geom Geometry, traceText string) (string, error) {
	s := &Simulator{Geometry: geom, Policy: PolicyLRU}
	return s.RunCounts(traceText)
}

// Simulate parses the trace text and folds each named trace through a
// fresh cache, strictly in record order. It returns one Result per trace.
func (s *Simulator) Simulate(traceText string) ([]Result, error) {
	if err := s.Geometry.Validate(); err != nil {
		return nil, err
	}
	f, err := trace.Parse(traceText)
	if err != nil {
		return nil, err
	}
	cache, err := NewCache(s.Geometry, s.Policy)
	if err != nil {
		return nil, err
	}

	traces := f.Expand(s.Seed)
	results := make([]Result, 0, len(traces))
	for _, tr := range traces {
		cache.Reset()
		acc := NewAccumulator(s.Config.LogAccesses)
		for i, rec := range tr.Records {
			acc.Record(s.step(cache, i, rec))
		}
		results = append(results, acc.Finalize(tr.Name))
		logrus.Debugf("simulated trace %q: %d records", tr.Name, len(tr.Records))
	}
	return results, nil
}

// step probes every byte of one record. An access spanning multiple cache
// lines counts as a hit only if all of its bytes hit, which matters for
// variable-size instruction fetches.
func (s *Simulator) step(c *Cache, index int, rec trace.Record) AccessEntry {
	size := rec.Size
	if size < 1 {
		size = 1
	}
	entry := AccessEntry{Index: index, Address: rec.Address, Tag: c.Tag(rec.Address), Size: size}
	hit := true
	for b := 0; b < size; b++ {
		out := c.Access(rec.Address + uint64(b))
		hit = hit && out.Hit
		if out.Evicted {
			entry.Evicted = true
			entry.EvictedTag = out.EvictedTag
		}
	}
	entry.Hit = hit
	return entry
}
