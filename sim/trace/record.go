// Package trace parses memory-access trace text into ordered access records.
// It has no dependencies on sim/ — the parser produces pure data that the
// simulation engine folds over.
//
// Two input grammars are accepted and auto-detected:
//
//   - Flat format: one record per non-blank line, fields separated by
//     whitespace or commas. The first field is the address (decimal, or
//     0b/0o/0x prefixed), the optional second field is the access size in
//     bytes. '#' starts a comment that runs to end of line.
//
//   - Program format: selected when the first token is "fn", "main" or
//     "trace". A file holds zero or more function definitions followed by
//     one "main" block and/or named "trace" blocks:
//
//     fn fill() {
//     0x00..0x40
//     }
//
//     main {
//     fill()
//     loop(10) { 0x80 }
//     switch:
//     (3): { 0x100 }
//     (1): { 0x200 }
//     endswitch
//     }
//
// Program traces are expanded into a flat record sequence by Expand; the
// weighted switch cases are resolved with a seeded RNG so expansion is
// deterministic for a fixed seed.
package trace

import "fmt"

// Record is a single memory access: one address probed for Size bytes.
// Order of records defines simulated time.
type Record struct {
	Address uint64
	Size    int // bytes touched starting at Address; minimum 1
}

// ParseError reports a malformed trace with the offending line and reason.
type ParseError struct {
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("trace parse error at line %d: %s", e.Line, e.Reason)
}
