package trace

import "math/rand"

// Trace is one named, fully expanded record sequence.
type Trace struct {
	Name    string
	Records []Record
}

// Expand unrolls a parsed File into flat record sequences, one per named
// trace. Ranges unroll low..high (exclusive), loops repeat their body,
// calls splice the function body in place, and a switch picks one of its
// weighted cases via the seeded RNG. A fixed seed yields identical output
// on every call; the File itself is never mutated.
func (f *File) Expand(seed int64) []Trace {
	rng := rand.New(rand.NewSource(seed))
	out := make([]Trace, 0, len(f.traces))
	for _, nt := range f.traces {
		var recs []Record
		f.expandOps(nt.body, rng, &recs)
		out = append(out, Trace{Name: nt.name, Records: recs})
	}
	return out
}

func (f *File) expandOps(ops []op, rng *rand.Rand, out *[]Record) {
	for _, o := range ops {
		switch o.kind {
		case opAddress:
			*out = append(*out, Record{Address: o.addr, Size: o.size})
		case opRange:
			for a := o.addr; a < o.end; a++ {
				*out = append(*out, Record{Address: a, Size: 1})
			}
		case opCall:
			// resolveCalls guarantees the function exists and is acyclic
			f.expandOps(f.funcs[o.name], rng, out)
		case opLoop:
			for i := 0; i < o.count; i++ {
				f.expandOps(o.body, rng, out)
			}
		case opSwitch:
			total := 0
			for _, c := range o.cases {
				total += c.weight
			}
			pick := rng.Intn(total)
			for _, c := range o.cases {
				if pick < c.weight {
					f.expandOps(c.body, rng, out)
					break
				}
				pick -= c.weight
			}
		}
	}
}
