package sim

import (
	"fmt"
	"sort"
	"strings"
)

// Report formatting. All output is assembled with explicit formats so a
// given (trace, config) pair renders byte-identically on every platform.

// FormatCacheInfo renders the geometry banner shown at the top of a report.
func FormatCacheInfo(geom Geometry, policy string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Cache (%s):\n", strings.ToUpper(policy))
	fmt.Fprintf(&b, "\tTotal Size: %dB\n", geom.TotalBytes())
	fmt.Fprintf(&b, "\tSets: %d\n", geom.Sets)
	fmt.Fprintf(&b, "\tWays: %d\n", geom.Ways)
	fmt.Fprintf(&b, "\tLine-Size: %dB\n", geom.LineSize)
	offset := log2(geom.LineSize)
	index := log2(geom.Sets)
	fmt.Fprintf(&b, "\t| %d tag bits | %d set bits | %d offset bits |\n",
		64-int(index)-int(offset), index, offset)
	return b.String()
}

// FormatCounts renders the counts-only summary used by the LRU variant.
func FormatCounts(r Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Trace: %s\n", r.Name)
	fmt.Fprintf(&b, "Number of Accesses: %d\n", r.Accesses())
	fmt.Fprintf(&b, "Hits: %d, Misses: %d\n", r.Hits, r.Misses)
	fmt.Fprintf(&b, "Percent Hits: %.3f%%\n", r.HitPercent())
	fmt.Fprintf(&b, "Percent Misses: %.3f%%\n", r.MissPercent())
	return b.String()
}

// FormatSummary renders the timed-variant summary: counts plus the cycle
// total and, when a clock speed is configured, the derived wall time.
func FormatSummary(r Result, cfg SimConfig) string {
	var b strings.Builder
	b.WriteString(FormatCounts(r))
	fmt.Fprintf(&b, "Total Cycles: %d\n", r.TotalCycles(cfg))
	if cfg.ClockMHz > 0 {
		fmt.Fprintf(&b, "Assuming Clock-Speed: %d MHz, Cache-Hit: %d cycles, Cache-Miss: %d cycles\n",
			cfg.ClockMHz, cfg.HitCycles, cfg.MissCycles)
		fmt.Fprintf(&b, "Total Time: %s\n", formatMicros(r.TimeMicros(cfg)))
	}
	return b.String()
}

// FormatLog renders the per-access log, one line per record in trace order.
func FormatLog(r Result) string {
	var b strings.Builder
	for _, e := range r.Log {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// Compare renders the summaries of several named traces ordered fastest
// first, each followed by its slowdown relative to the fastest. Ties keep
// input order.
func Compare(results []Result, cfg SimConfig) string {
	sorted := make([]Result, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalCycles(cfg) < sorted[j].TotalCycles(cfg)
	})

	baseline := sorted[0].TotalCycles(cfg)
	var b strings.Builder
	for i, r := range sorted {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(FormatSummary(r, cfg))
		relative := 0.0
		if baseline > 0 {
			relative = 100 * float64(r.TotalCycles(cfg)-baseline) / float64(baseline)
		}
		fmt.Fprintf(&b, "Relative Time: +%.3f%%\n", relative)
	}
	return b.String()
}

// formatMicros scales a microsecond figure into us/ms/s.
func formatMicros(us float64) string {
	switch {
	case us >= 1e6:
		return fmt.Sprintf("%.3fs", us/1e6)
	case us >= 1e3:
		return fmt.Sprintf("%.3fms", us/1e3)
	default:
		return fmt.Sprintf("%.3fus", us)
	}
}
