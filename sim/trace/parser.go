package trace

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

type opKind int

const (
	opAddress opKind = iota
	opRange
	opCall
	opLoop
	opSwitch
)

// op is one statement of a trace body. Which fields are meaningful depends
// on kind; line is kept for semantic error reporting.
type op struct {
	kind  opKind
	line  int
	addr  uint64
	end   uint64 // opRange: exclusive upper bound
	size  int    // opAddress: bytes touched
	name  string // opCall
	count int    // opLoop
	body  []op   // opLoop
	cases []switchCase
}

type switchCase struct {
	weight int
	body   []op
}

type namedTrace struct {
	name string
	body []op
}

// File is a parsed trace file. It holds only data; parsing the same text
// twice yields equal Files, and expansion never mutates the File.
type File struct {
	funcs  map[string][]op
	traces []namedTrace
}

// TraceNames returns the names of the contained traces in file order.
// A flat-format file contains a single trace named "trace".
func (f *File) TraceNames() []string {
	names := make([]string, len(f.traces))
	for i, t := range f.traces {
		names[i] = t.name
	}
	return names
}

// Parse turns raw trace text into a File, or fails with a *ParseError
// naming the offending line. The grammar is auto-detected: text whose first
// token is "fn", "main" or "trace" is parsed as a program, anything else as
// the flat one-record-per-line format.
func Parse(text string) (*File, error) {
	if isProgram(text) {
		return parseProgram(text)
	}
	return parseFlat(text)
}

// isProgram reports whether the first word of the text (ignoring blank
// lines and comments) is a program-grammar keyword. Flat records start with
// an address, so the two grammars cannot collide.
func isProgram(text string) bool {
	for _, raw := range strings.Split(text, "\n") {
		if i := strings.IndexByte(raw, '#'); i >= 0 {
			raw = raw[:i]
		}
		fields := strings.Fields(raw)
		if len(fields) == 0 {
			continue
		}
		word := fields[0]
		if i := strings.IndexFunc(word, func(r rune) bool { return !unicode.IsLetter(r) }); i >= 0 {
			word = word[:i]
		}
		switch word {
		case "fn", "main", "trace":
			return true
		}
		return false
	}
	return false
}

// parseFlat handles the line-oriented record format.
func parseFlat(text string) (*File, error) {
	var body []op
	for lineNo, raw := range strings.Split(text, "\n") {
		line := lineNo + 1
		if i := strings.IndexByte(raw, '#'); i >= 0 {
			raw = raw[:i]
		}
		fields := strings.FieldsFunc(raw, func(r rune) bool {
			return r == ',' || unicode.IsSpace(r)
		})
		if len(fields) == 0 {
			continue
		}
		addr, err := parseInt(fields[0])
		if err != nil {
			return nil, &ParseError{Line: line, Reason: fmt.Sprintf("invalid address %q", fields[0])}
		}
		size := 1
		if len(fields) >= 2 {
			s, err := parseInt(fields[1])
			if err != nil || s < 1 {
				return nil, &ParseError{Line: line, Reason: fmt.Sprintf("invalid access size %q", fields[1])}
			}
			size = int(s)
		}
		if len(fields) > 2 {
			return nil, &ParseError{Line: line, Reason: fmt.Sprintf("unexpected field %q", fields[2])}
		}
		body = append(body, op{kind: opAddress, line: line, addr: addr, size: size})
	}
	return &File{traces: []namedTrace{{name: "trace", body: body}}}, nil
}

// parseInt accepts decimal integers and the 0b/0o/0x radix prefixes.
func parseInt(s string) (uint64, error) {
	base, digits := 10, s
	if len(s) > 2 && s[0] == '0' {
		switch s[1] {
		case 'b', 'B':
			base, digits = 2, s[2:]
		case 'o', 'O':
			base, digits = 8, s[2:]
		case 'x', 'X':
			base, digits = 16, s[2:]
		}
	}
	return strconv.ParseUint(digits, base, 64)
}

// === program grammar ===

type tokKind int

const (
	tokIdent tokKind = iota
	tokInt
	tokLBrace
	tokRBrace
	tokLParen
	tokRParen
	tokColon
	tokDotDot
	tokEOF
)

var tokNames = map[tokKind]string{
	tokIdent:  "identifier",
	tokInt:    "integer",
	tokLBrace: "'{'",
	tokRBrace: "'}'",
	tokLParen: "'('",
	tokRParen: "')'",
	tokColon:  "':'",
	tokDotDot: "'..'",
	tokEOF:    "end of input",
}

type token struct {
	kind tokKind
	text string
	val  uint64
	line int
}

func lex(text string) ([]token, *ParseError) {
	var toks []token
	line := 1
	i := 0
	for i < len(text) {
		c := text[i]
		switch {
		case c == '\n':
			line++
			i++
		case c == ' ' || c == '\t' || c == '\r':
			i++
		case c == '#':
			for i < len(text) && text[i] != '\n' {
				i++
			}
		case c == '{':
			toks = append(toks, token{kind: tokLBrace, text: "{", line: line})
			i++
		case c == '}':
			toks = append(toks, token{kind: tokRBrace, text: "}", line: line})
			i++
		case c == '(':
			toks = append(toks, token{kind: tokLParen, text: "(", line: line})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen, text: ")", line: line})
			i++
		case c == ':':
			toks = append(toks, token{kind: tokColon, text: ":", line: line})
			i++
		case c == '.':
			if i+1 < len(text) && text[i+1] == '.' {
				toks = append(toks, token{kind: tokDotDot, text: "..", line: line})
				i += 2
			} else {
				return nil, &ParseError{Line: line, Reason: "unexpected character '.'"}
			}
		case c >= '0' && c <= '9':
			j := i
			for j < len(text) && isAlnum(text[j]) {
				j++
			}
			lit := text[i:j]
			val, err := parseInt(lit)
			if err != nil {
				return nil, &ParseError{Line: line, Reason: fmt.Sprintf("invalid integer literal %q", lit)}
			}
			toks = append(toks, token{kind: tokInt, text: lit, val: val, line: line})
			i = j
		case isLetter(c):
			j := i
			for j < len(text) && isAlnum(text[j]) {
				j++
			}
			toks = append(toks, token{kind: tokIdent, text: text[i:j], line: line})
			i = j
		default:
			return nil, &ParseError{Line: line, Reason: fmt.Sprintf("unexpected character %q", string(c))}
		}
	}
	toks = append(toks, token{kind: tokEOF, text: "", line: line})
	return toks, nil
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAlnum(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9')
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) expect(kind tokKind) (token, *ParseError) {
	t := p.next()
	if t.kind != kind {
		return t, &ParseError{
			Line:   t.line,
			Reason: fmt.Sprintf("expected %s, got %q", tokNames[kind], t.text),
		}
	}
	return t, nil
}

func parseProgram(text string) (*File, error) {
	toks, perr := lex(text)
	if perr != nil {
		return nil, perr
	}
	p := &parser{toks: toks}

	f := &File{funcs: map[string][]op{}}
	seenTraces := map[string]bool{}
	for p.peek().kind != tokEOF {
		t, err := p.expect(tokIdent)
		if err != nil {
			return nil, err
		}
		switch t.text {
		case "fn":
			name, err := p.expect(tokIdent)
			if err != nil {
				return nil, err
			}
			if isKeyword(name.text) {
				return nil, &ParseError{Line: name.line, Reason: fmt.Sprintf("%q cannot be used as a function name", name.text)}
			}
			if _, err := p.expect(tokLParen); err != nil {
				return nil, err
			}
			if _, err := p.expect(tokRParen); err != nil {
				return nil, err
			}
			body, perr := p.parseBlock()
			if perr != nil {
				return nil, perr
			}
			if _, dup := f.funcs[name.text]; dup {
				return nil, &ParseError{Line: name.line, Reason: fmt.Sprintf("function '%s()' defined multiple times", name.text)}
			}
			f.funcs[name.text] = body
		case "main", "trace":
			name := "main"
			if t.text == "trace" {
				nt, err := p.expect(tokIdent)
				if err != nil {
					return nil, err
				}
				name = nt.text
			}
			if seenTraces[name] {
				return nil, &ParseError{Line: t.line, Reason: fmt.Sprintf("trace %q defined multiple times", name)}
			}
			seenTraces[name] = true
			body, perr := p.parseBlock()
			if perr != nil {
				return nil, perr
			}
			f.traces = append(f.traces, namedTrace{name: name, body: body})
		default:
			return nil, &ParseError{Line: t.line, Reason: fmt.Sprintf("expected 'fn', 'main' or 'trace', got %q", t.text)}
		}
	}
	if len(f.traces) == 0 {
		return nil, &ParseError{Line: p.peek().line, Reason: "missing 'main' or 'trace' block"}
	}
	if perr := f.resolveCalls(); perr != nil {
		return nil, perr
	}
	return f, nil
}

func isKeyword(s string) bool {
	switch s {
	case "fn", "main", "trace", "loop", "switch", "endswitch":
		return true
	}
	return false
}

func (p *parser) parseBlock() ([]op, *ParseError) {
	if _, err := p.expect(tokLBrace); err != nil {
		return nil, err
	}
	var ops []op
	for p.peek().kind != tokRBrace {
		o, err := p.parseOp()
		if err != nil {
			return nil, err
		}
		ops = append(ops, *o)
	}
	if len(ops) == 0 {
		return nil, &ParseError{Line: p.peek().line, Reason: "empty block"}
	}
	if _, err := p.expect(tokRBrace); err != nil {
		return nil, err
	}
	return ops, nil
}

func (p *parser) parseOp() (*op, *ParseError) {
	t := p.peek()
	switch t.kind {
	case tokInt:
		p.next()
		if p.peek().kind == tokDotDot {
			p.next()
			end, err := p.expect(tokInt)
			if err != nil {
				return nil, err
			}
			if end.val < t.val {
				return nil, &ParseError{Line: t.line, Reason: fmt.Sprintf("range upper bound %s below lower bound %s", end.text, t.text)}
			}
			return &op{kind: opRange, line: t.line, addr: t.val, end: end.val}, nil
		}
		return &op{kind: opAddress, line: t.line, addr: t.val, size: 1}, nil
	case tokIdent:
		switch t.text {
		case "loop":
			return p.parseLoop()
		case "switch":
			return p.parseSwitch()
		case "endswitch":
			return nil, &ParseError{Line: t.line, Reason: "'endswitch' without matching 'switch:'"}
		default:
			p.next()
			if _, err := p.expect(tokLParen); err != nil {
				return nil, err
			}
			if _, err := p.expect(tokRParen); err != nil {
				return nil, err
			}
			return &op{kind: opCall, line: t.line, name: t.text}, nil
		}
	default:
		return nil, &ParseError{
			Line:   t.line,
			Reason: fmt.Sprintf("expected address, range, function call, loop or switch, got %q", t.text),
		}
	}
}

func (p *parser) parseLoop() (*op, *ParseError) {
	t := p.next() // "loop"
	if _, err := p.expect(tokLParen); err != nil {
		return nil, err
	}
	count, err := p.expect(tokInt)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokRParen); err != nil {
		return nil, err
	}
	body, err2 := p.parseBlock()
	if err2 != nil {
		return nil, err2
	}
	return &op{kind: opLoop, line: t.line, count: int(count.val), body: body}, nil
}

func (p *parser) parseSwitch() (*op, *ParseError) {
	t := p.next() // "switch"
	if _, err := p.expect(tokColon); err != nil {
		return nil, err
	}
	var cases []switchCase
	total := 0
	for {
		if nt := p.peek(); nt.kind == tokIdent && nt.text == "endswitch" {
			p.next()
			break
		}
		if _, err := p.expect(tokLParen); err != nil {
			return nil, err
		}
		weight, err := p.expect(tokInt)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		if _, err := p.expect(tokColon); err != nil {
			return nil, err
		}
		body, perr := p.parseBlock()
		if perr != nil {
			return nil, perr
		}
		cases = append(cases, switchCase{weight: int(weight.val), body: body})
		total += int(weight.val)
	}
	if len(cases) == 0 {
		return nil, &ParseError{Line: t.line, Reason: "switch with no cases"}
	}
	if total == 0 {
		return nil, &ParseError{Line: t.line, Reason: "switch case weights sum to zero"}
	}
	return &op{kind: opSwitch, line: t.line, cases: cases}, nil
}

// resolveCalls verifies that every function call names a defined function
// and that no call chain is recursive, so expansion always terminates.
func (f *File) resolveCalls() *ParseError {
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := map[string]int{}

	var walk func(ops []op) *ParseError
	walk = func(ops []op) *ParseError {
		for _, o := range ops {
			switch o.kind {
			case opCall:
				body, ok := f.funcs[o.name]
				if !ok {
					return &ParseError{Line: o.line, Reason: fmt.Sprintf("unknown function '%s()'", o.name)}
				}
				switch state[o.name] {
				case visiting:
					return &ParseError{Line: o.line, Reason: fmt.Sprintf("recursive call of '%s()'", o.name)}
				case unvisited:
					state[o.name] = visiting
					if err := walk(body); err != nil {
						return err
					}
					state[o.name] = done
				}
			case opLoop:
				if err := walk(o.body); err != nil {
					return err
				}
			case opSwitch:
				for _, c := range o.cases {
					if err := walk(c.body); err != nil {
						return err
					}
				}
			}
		}
		return nil
	}

	for _, t := range f.traces {
		if err := walk(t.body); err != nil {
			return err
		}
	}
	// functions never referenced from a trace are still checked
	for name, body := range f.funcs {
		if state[name] == unvisited {
			state[name] = visiting
			if err := walk(body); err != nil {
				return err
			}
			state[name] = done
		}
	}
	return nil
}
