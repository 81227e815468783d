package sim

import "github.com/sirupsen/logrus"

// Outcome is the result of a single address probe.
type Outcome struct {
	Hit        bool
	Evicted    bool   // a resident line was displaced by this probe
	EvictedTag uint64 // meaningful only when Evicted
}

type cacheLine struct {
	valid bool
	tag   uint64
}

type cacheSet struct {
	lines  []cacheLine
	policy ReplacementPolicy
}

// Cache models set-associative cache state. Addresses split into
// | tag | set index | line offset | according to the geometry; a line is
// resident when a way of its set holds a valid matching tag.
//
// Cache is not safe for concurrent use; each simulation run builds its own.
type Cache struct {
	geom       Geometry
	policyName string

	offsetBits uint
	indexBits  uint
	indexMask  uint64

	sets []*cacheSet
}

// NewCache builds an empty cache for the given geometry and replacement
// policy name.
func NewCache(geom Geometry, policy string) (*Cache, error) {
	if err := geom.Validate(); err != nil {
		return nil, err
	}
	if !ValidPolicies[policy] {
		return nil, &ConfigError{Field: "policy", Reason: "unknown replacement policy " + policy}
	}
	c := &Cache{
		geom:       geom,
		policyName: policy,
		offsetBits: log2(geom.LineSize),
		indexBits:  log2(geom.Sets),
		indexMask:  uint64(geom.Sets - 1),
		sets:       make([]*cacheSet, geom.Sets),
	}
	for i := range c.sets {
		p, err := NewReplacementPolicy(policy, geom.Ways)
		if err != nil {
			return nil, err
		}
		c.sets[i] = &cacheSet{lines: make([]cacheLine, geom.Ways), policy: p}
	}
	return c, nil
}

// Geometry returns the cache shape.
func (c *Cache) Geometry() Geometry {
	return c.geom
}

// Tag returns the tag the cache derives from an address.
func (c *Cache) Tag(addr uint64) uint64 {
	return addr >> (c.offsetBits + c.indexBits)
}

// Reset discards all resident lines, returning the cache to its initial
// state. Used between named traces so runs do not contaminate each other.
func (c *Cache) Reset() {
	for i := range c.sets {
		p, err := NewReplacementPolicy(c.policyName, c.geom.Ways)
		if err != nil {
			logrus.Panicf("cache: reset with invalid policy %q", c.policyName)
		}
		c.sets[i] = &cacheSet{lines: make([]cacheLine, c.geom.Ways), policy: p}
	}
}

// ResidentLines counts the currently valid lines across all sets. The
// count never exceeds Sets*Ways.
func (c *Cache) ResidentLines() int {
	n := 0
	for _, s := range c.sets {
		for _, ln := range s.lines {
			if ln.valid {
				n++
			}
		}
	}
	return n
}

// Access probes one byte address. On a hit the matching line's recency is
// refreshed. On a miss the line is inserted, evicting the policy's victim
// if the set is full. Zero ways means every access misses and the cache
// stays empty.
func (c *Cache) Access(addr uint64) Outcome {
	if c.geom.Ways == 0 {
		return Outcome{}
	}

	set := c.sets[(addr>>c.offsetBits)&c.indexMask]
	tag := c.Tag(addr)

	for way, ln := range set.lines {
		if ln.valid && ln.tag == tag {
			set.policy.OnAccess(way)
			return Outcome{Hit: true}
		}
	}

	// miss: fill a free way if one exists
	for way, ln := range set.lines {
		if !ln.valid {
			set.lines[way] = cacheLine{valid: true, tag: tag}
			set.policy.OnInsert(way)
			return Outcome{}
		}
	}

	// set is full: evict the policy's victim, then insert
	victim := set.policy.SelectVictim()
	if victim < 0 || victim >= len(set.lines) || !set.lines[victim].valid {
		logrus.Panicf("cache: policy %s selected invalid victim way %d", c.policyName, victim)
	}
	evicted := set.lines[victim].tag
	set.lines[victim] = cacheLine{valid: true, tag: tag}
	set.policy.OnInsert(victim)
	return Outcome{Evicted: true, EvictedTag: evicted}
}
