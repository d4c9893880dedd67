// Package sampler draws one unique, constraint-valid trait combination per
// planned collection slot.
//
// Each slot goes through Drafting (one trait per layer), Validating (the
// combination key must be new) and Accepted. A slot that cannot reach
// Accepted within MaxAttempts drafts leaves the sampler Exhausted.
package sampler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/f3rmion/traitforge/internal/alias"
	"github.com/f3rmion/traitforge/internal/constraint"
	"github.com/f3rmion/traitforge/internal/perk"
	"github.com/f3rmion/traitforge/internal/pool"
	"github.com/f3rmion/traitforge/internal/random"
	"github.com/f3rmion/traitforge/internal/tier"
)

// MaxAttempts bounds the drafts made for a single slot.
const MaxAttempts = 100

// maxDraws bounds the rejection loop of a single layer draw.
const maxDraws = 1000

// ErrCombinationExhausted is returned when a slot cannot produce a new
// combination. The configured pools are too small for the collection.
var ErrCombinationExhausted = errors.New("cannot build unique combination")

var errPoolExhausted = errors.New("no admissible trait")

// Assignment is the accepted outcome of one slot.
type Assignment struct {
	Tier       string
	Entries    []string // One per layer: trait ID, perk art path or "empty"
	Attributes Attributes
}

// Key identifies the combination; keys are unique across a collection.
// Each entry is prefixed with its length, so entries containing "/" cannot
// run into each other.
func (a Assignment) Key() string {
	var b strings.Builder
	for _, e := range a.Entries {
		b.WriteString(strconv.Itoa(len(e)))
		b.WriteByte(':')
		b.WriteString(e)
	}
	return b.String()
}

// Sampler holds the run-wide accepted keys. It is not safe for concurrent use.
type Sampler struct {
	rnd     *random.Stream
	index   constraint.Index
	aliases alias.Table
	rules   []Rule
	used    map[string]struct{}
}

// New creates a sampler drawing from rnd.
func New(rnd *random.Stream, index constraint.Index, aliases alias.Table, rules []Rule) *Sampler {
	return &Sampler{
		rnd:     rnd,
		index:   index,
		aliases: aliases,
		rules:   rules,
		used:    make(map[string]struct{}),
	}
}

// Accepted returns the number of accepted combinations.
func (s *Sampler) Accepted() int {
	return len(s.used)
}

// Sample drafts combinations for slot until one is new.
func (s *Sampler) Sample(slot tier.Slot) (Assignment, error) {
	var lastErr error
	for attempt := 0; attempt < MaxAttempts; attempt++ {
		a, err := s.draft(slot)
		if err != nil {
			lastErr = err
			continue
		}

		key := a.Key()
		if _, dup := s.used[key]; dup {
			continue
		}
		s.used[key] = struct{}{}
		return a, nil
	}

	if lastErr != nil {
		return Assignment{}, fmt.Errorf("%w: tier %s after %d attempts (last: %v)",
			ErrCombinationExhausted, slot.Tier.Name, MaxAttempts, lastErr)
	}
	return Assignment{}, fmt.Errorf("%w: tier %s after %d attempts", ErrCombinationExhausted, slot.Tier.Name, MaxAttempts)
}

func (s *Sampler) draft(slot tier.Slot) (Assignment, error) {
	layers := slot.Tier.Layers
	a := Assignment{
		Tier:       slot.Tier.Name,
		Entries:    make([]string, 0, len(layers)),
		Attributes: Attributes{{Name: TierAttribute, Value: slot.Tier.Name}},
	}
	active := constraint.Active{}

	for _, layer := range layers {
		if tok, ok := perkFor(slot.Perks, layer.Path); ok {
			a.Attributes.Set(tok.Perk, tok.Level)
			a.Attributes.Set(layer.Name, strings.ToLower(tok.Perk))
			a.Entries = append(a.Entries, tok.Path)
			continue
		}

		if active.Has(layer.Path) {
			a.Entries = append(a.Entries, pool.EmptyID)
			a.Attributes.SetDefault(layer.Name, None)
			continue
		}

		var selected pool.Trait
		if rule, ok := s.ruleFor(slot.Tier.Name, layer.Path); ok {
			selected = s.derive(rule, layers, a.Entries, layer, active)
		} else {
			var err error
			selected, err = s.draw(layer, active)
			if err != nil {
				return Assignment{}, fmt.Errorf("layer %s: %w", layer.Path, err)
			}
		}

		a.Entries = append(a.Entries, selected.ID())
		if selected.IsEmpty() {
			a.Attributes.SetDefault(layer.Name, None)
			continue
		}
		a.Attributes.SetDefault(layer.Name, s.aliases.Name(layer.Path, selected.Name))
		active.Absorb(s.index, layer.Path, selected.ID())
	}

	return a, nil
}

// draw samples the layer pool, rejecting traits excluded by active.
func (s *Sampler) draw(layer tier.Layer, active constraint.Active) (pool.Trait, error) {
	admissible := func(t pool.Trait) bool {
		return t.IsEmpty() || !active.Has(t.ID())
	}
	if !layer.Pool.Admissible(admissible) {
		return pool.Empty, errPoolExhausted
	}

	for i := 0; i < maxDraws; i++ {
		if t := layer.Pool.Draw(s.rnd); admissible(t) {
			return t, nil
		}
	}
	return pool.Empty, errPoolExhausted
}

// derive applies rule; the layer stays empty when the source is missing or
// the derived trait does not exist or is excluded.
func (s *Sampler) derive(rule Rule, layers []tier.Layer, chosen []string, layer tier.Layer, active constraint.Active) pool.Trait {
	for i, entry := range chosen {
		if !strings.HasSuffix(layers[i].Path, rule.Source) {
			continue
		}
		name, ok := rule.Derive(entry)
		if !ok {
			return pool.Empty
		}
		t, ok := layer.Pool.Lookup(name)
		if !ok || active.Has(t.ID()) {
			return pool.Empty
		}
		return t
	}
	return pool.Empty
}

func (s *Sampler) ruleFor(tierName, layerPath string) (Rule, bool) {
	for _, r := range s.rules {
		if r.matches(tierName, layerPath) {
			return r, true
		}
	}
	return Rule{}, false
}

func perkFor(tokens []perk.Token, layerPath string) (perk.Token, bool) {
	for _, tok := range tokens {
		if strings.HasSuffix(layerPath, tok.Layer) {
			return tok, true
		}
	}
	return perk.Token{}, false
}
