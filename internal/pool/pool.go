// Package pool turns a layer's trait inventory into a weighted sampling pool.
package pool

import (
	"math"

	"github.com/f3rmion/traitforge/internal/config"
	"github.com/f3rmion/traitforge/internal/random"
)

// EmptyID is the combination entry for a layer left without a trait.
const EmptyID = "empty"

// Trait is a selectable option of a layer, or Empty when Name is "".
type Trait struct {
	Name  string
	Layer string
}

// Empty is the absence of a trait.
var Empty = Trait{}

// IsEmpty reports whether the trait is the Empty variant.
func (t Trait) IsEmpty() bool {
	return t.Name == ""
}

// ID returns "layer/name", or EmptyID.
func (t Trait) ID() string {
	if t.IsEmpty() {
		return EmptyID
	}
	return t.Layer + "/" + t.Name
}

// Pool is an ordered multiset of traits; each trait is repeated in
// proportion to its weight. A pool is never empty.
type Pool struct {
	entries []Trait
	traits  []Trait
	counts  map[Trait]int
}

// Build creates the pool for layer from the available trait names. It
// returns the pool and the raw number of traits.
func Build(layer config.Layer, names []string) (*Pool, int) {
	p := &Pool{counts: make(map[Trait]int)}

	for _, name := range names {
		trait := Trait{Name: name, Layer: layer.Path}
		p.traits = append(p.traits, trait)

		weight := layer.Rarity * layer.Overrides.Multiplier(name)
		copies := int(math.Round(weight * 100))
		for i := 0; i < copies; i++ {
			p.entries = append(p.entries, trait)
		}
	}

	if layer.Rarity < 1 {
		empties := int(math.Round((1 - layer.Rarity) / layer.Rarity * float64(len(p.entries))))
		for i := 0; i < empties; i++ {
			p.entries = append(p.entries, Empty)
		}
	}

	if len(p.entries) == 0 {
		p.entries = append(p.entries, Empty)
	}

	for _, e := range p.entries {
		p.counts[e]++
	}

	return p, len(names)
}

// Draw returns a uniformly chosen entry.
func (p *Pool) Draw(rnd *random.Stream) Trait {
	return random.Pick(rnd, p.entries)
}

// Len returns the number of entries, repetitions included.
func (p *Pool) Len() int {
	return len(p.entries)
}

// Lookup returns the trait with the given name.
func (p *Pool) Lookup(name string) (Trait, bool) {
	for _, t := range p.traits {
		if t.Name == name {
			return t, true
		}
	}
	return Empty, false
}

// Count returns how many entries hold the given trait.
func (p *Pool) Count(t Trait) int {
	return p.counts[t]
}

// Admissible reports whether at least one entry passes the filter.
func (p *Pool) Admissible(ok func(Trait) bool) bool {
	for t := range p.counts {
		if ok(t) {
			return true
		}
	}
	return false
}
