// Package sim provides the trace-driven cache simulation engine.
//
// # Reading Guide
//
// Start with these three files to understand the engine:
//   - cache.go: set-associative cache state and the Access operation
//   - policy.go: replacement policy interface and the LRU/FIFO implementations
//   - simulator.go: the sequential fold over parsed records and the two
//     public entry points (timed instruction-cache run, counts-only LRU run)
//
// # Architecture
//
// Trace text is parsed by sim/trace into ordered access records; the
// simulator folds each record through a Cache, feeding every outcome into
// an Accumulator; report.go renders the accumulated Result (and the
// optional per-access log) into deterministic text.
//
// A Simulator holds no state between invocations: every Run constructs a
// fresh Cache and Accumulator, so concurrent runs need no synchronization.
// Input-shape failures (malformed trace, invalid configuration) are
// returned as errors before any cache state is built; invariant violations
// inside the engine panic, because they indicate a bug rather than bad
// input.
package sim
