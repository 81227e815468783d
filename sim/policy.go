package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// ReplacementPolicy tracks the ways of one cache set and picks a victim on
// a miss at capacity. The cache drives it with two hooks: OnInsert when a
// line is (re)filled into a way, OnAccess when a resident way hits.
// SelectVictim is pure; the cache performs the actual eviction and then
// reports the refill via OnInsert.
type ReplacementPolicy interface {
	OnAccess(way int)
	OnInsert(way int)
	SelectVictim() int
}

// Recognized replacement policy names.
const (
	PolicyLRU  = "lru"
	PolicyFIFO = "fifo"
)

// ValidPolicies is the set of recognized replacement policy names.
var ValidPolicies = map[string]bool{PolicyLRU: true, PolicyFIFO: true}

// NewReplacementPolicy builds a policy instance for one set of the given
// associativity. Unknown names are a configuration error.
func NewReplacementPolicy(name string, ways int) (ReplacementPolicy, error) {
	switch name {
	case PolicyLRU:
		return &lruPolicy{order: make([]int, 0, ways)}, nil
	case PolicyFIFO:
		return &fifoPolicy{order: make([]int, 0, ways)}, nil
	default:
		return nil, &ConfigError{Field: "policy", Reason: fmt.Sprintf("unknown replacement policy %q", name)}
	}
}

// lruPolicy keeps tracked ways ordered most-recently-used first. Access
// times are injective (one access per discrete step), so the order is
// total and victim selection never ties.
type lruPolicy struct {
	order []int
}

func (p *lruPolicy) OnAccess(way int) {
	p.touch(way)
}

func (p *lruPolicy) OnInsert(way int) {
	p.touch(way)
}

func (p *lruPolicy) touch(way int) {
	for i, w := range p.order {
		if w == way {
			copy(p.order[1:i+1], p.order[:i])
			p.order[0] = way
			return
		}
	}
	p.order = append([]int{way}, p.order...)
}

func (p *lruPolicy) SelectVictim() int {
	if len(p.order) == 0 {
		logrus.Panicf("lru: SelectVictim on empty set")
	}
	return p.order[len(p.order)-1]
}

// fifoPolicy evicts in insertion order; hits do not refresh a line.
type fifoPolicy struct {
	order []int
}

func (p *fifoPolicy) OnAccess(int) {}

func (p *fifoPolicy) OnInsert(way int) {
	for i, w := range p.order {
		if w == way {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
	p.order = append(p.order, way)
}

func (p *fifoPolicy) SelectVictim() int {
	if len(p.order) == 0 {
		logrus.Panicf("fifo: SelectVictim on empty set")
	}
	return p.order[0]
}
