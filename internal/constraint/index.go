// Package constraint builds the symmetric exclusion graph between traits.
//
// Identifiers are either a whole layer ("4-hat") or a single trait of a
// layer ("4-hat/crown").
package constraint

import (
	"sort"

	"github.com/f3rmion/traitforge/internal/config"
)

// Index maps an identifier to the set of identifiers it cannot appear with.
// It is read-only once built.
type Index struct {
	excludes map[string]map[string]struct{}
}

// Build collects every cannot_be_with declaration of the layers, inserting
// each pair in both directions.
func Build(layers []config.Layer) Index {
	idx := Index{excludes: make(map[string]map[string]struct{})}

	for _, layer := range layers {
		for _, other := range layer.CannotBeWith {
			idx.add(layer.Path, other)
		}
		for trait, ov := range layer.Overrides {
			id := layer.Path + "/" + trait
			for _, other := range ov.CannotBeWith {
				idx.add(id, other)
			}
		}
	}

	return idx
}

func (idx Index) add(a, b string) {
	idx.link(a, b)
	idx.link(b, a)
}

func (idx Index) link(from, to string) {
	set, ok := idx.excludes[from]
	if !ok {
		set = make(map[string]struct{})
		idx.excludes[from] = set
	}
	set[to] = struct{}{}
}

// Excludes returns the identifiers excluded by id, sorted.
func (idx Index) Excludes(id string) []string {
	set := idx.excludes[id]
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for other := range set {
		out = append(out, other)
	}
	sort.Strings(out)
	return out
}

// Conflicts reports whether a and b may not co-occur.
func (idx Index) Conflicts(a, b string) bool {
	_, ok := idx.excludes[a][b]
	return ok
}

// IDs returns every identifier with at least one exclusion, sorted.
func (idx Index) IDs() []string {
	out := make([]string, 0, len(idx.excludes))
	for id := range idx.excludes {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of identifiers with at least one exclusion.
func (idx Index) Len() int {
	return len(idx.excludes)
}

// Active is the per-attempt set of identifiers excluded by the traits
// chosen so far.
type Active map[string]struct{}

// Has reports whether id is excluded.
func (a Active) Has(id string) bool {
	_, ok := a[id]
	return ok
}

// Absorb adds everything excluded by the given identifiers.
func (a Active) Absorb(idx Index, ids ...string) {
	for _, id := range ids {
		for other := range idx.excludes[id] {
			a[other] = struct{}{}
		}
	}
}
