// Package tier expands custom and special tier declarations into concrete
// layer sets and reconciles their counts with the collection size.
package tier

import (
	"fmt"
	"math"
	"path"

	"github.com/f3rmion/traitforge/internal/config"
	"github.com/f3rmion/traitforge/internal/perk"
	"github.com/f3rmion/traitforge/internal/pool"
	"github.com/f3rmion/traitforge/internal/random"
	"github.com/f3rmion/traitforge/internal/traits"
	"go.uber.org/zap"
)

// CommonName is the implicit tier filling the rest of the collection.
const CommonName = "Common"

// TopUpFloor is the count a special variant needs before it may receive
// shortfall units.
const TopUpFloor = 55

// ErrInfeasible is returned when declared counts cannot fit the collection
// or a perk distribution cannot be honoured.
var ErrInfeasible = perk.ErrInfeasible

// Layer is a resolved layer with its sampling pool.
type Layer struct {
	Path   string
	Name   string
	Pool   *pool.Pool
	Traits int // Raw number of trait files
}

// Tier is a named bucket of compositions sharing a layer set.
type Tier struct {
	Name     string
	Layers   []Layer
	Count    int
	Special  bool
	Capacity int // Product of max(traits, 1) over the layers
}

// BuildLayers loads the pools of the given layers.
func BuildLayers(provider traits.Provider, layers []config.Layer, log *zap.Logger) ([]Layer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	out := make([]Layer, 0, len(layers))
	for _, l := range layers {
		resolved, err := buildLayer(provider, l, log)
		if err != nil {
			return nil, err
		}
		out = append(out, resolved)
	}
	return out, nil
}

func buildLayer(provider traits.Provider, l config.Layer, log *zap.Logger) (Layer, error) {
	names, err := provider.List(l.Path)
	if err != nil {
		return Layer{}, err
	}
	if len(names) == 0 {
		log.Warn("No traits found for layer", zap.String("path", l.Path))
	}
	p, n := pool.Build(l, names)
	return Layer{Path: l.Path, Name: l.Name, Pool: p, Traits: n}, nil
}

// Common returns the implicit tier built from the shared layers.
func Common(layers []Layer, count int) *Tier {
	return &Tier{Name: CommonName, Layers: layers, Count: count, Capacity: capacity(layers)}
}

// capacity saturates at math.MaxInt.
func capacity(layers []Layer) int {
	c := 1
	for _, l := range layers {
		n := max(l.Traits, 1)
		if c > math.MaxInt/n {
			return math.MaxInt
		}
		c *= n
	}
	return c
}

// Resolver expands the custom tier declarations of a configuration.
//
// Layers a tier does not share with Common are moved under the tier path
// and carry no exclusions. Exclusions are keyed on the configured layer
// paths, so a rule such as "3-hat cannot be with 1-bg" holds on Common and
// on tiers that share both layers, but not against a rewritten "gold/3-hat".
type Resolver struct {
	provider traits.Provider
	common   []Layer
	log      *zap.Logger
}

// NewResolver creates a resolver. common holds the shared layers, in the
// order of the configuration.
func NewResolver(provider traits.Provider, common []Layer, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{provider: provider, common: common, log: log}
}

// Resolve returns one Tier per custom tier and special variant, in
// declaration order.
func (r *Resolver) Resolve(rnd *random.Stream, cfg *config.Config) ([]*Tier, error) {
	var tiers []*Tier
	for _, decl := range cfg.Custom {
		if decl.Special {
			variants, err := r.resolveSpecial(rnd, cfg.Layers, decl)
			if err != nil {
				return nil, fmt.Errorf("resolving tier %s: %w", decl.Name, err)
			}
			tiers = append(tiers, variants...)
			continue
		}

		t, err := r.resolveCustom(cfg.Layers, decl)
		if err != nil {
			return nil, fmt.Errorf("resolving tier %s: %w", decl.Name, err)
		}
		tiers = append(tiers, t)
	}
	return tiers, nil
}

func (r *Resolver) resolveCustom(base []config.Layer, decl config.Tier) (*Tier, error) {
	uses := make(map[string]bool, len(decl.Uses))
	for _, u := range decl.Uses {
		uses[u] = true
	}

	var layers []Layer
	for i, l := range base {
		if uses[l.Path] {
			layers = append(layers, r.common[i])
			continue
		}
		resolved, err := buildLayer(r.provider, rewrite(l, decl.Path, l.Rarity), r.log)
		if err != nil {
			return nil, err
		}
		layers = append(layers, resolved)
	}

	for _, l := range decl.Layers {
		resolved, err := buildLayer(r.provider, rewrite(l, decl.Path, l.Rarity), r.log)
		if err != nil {
			return nil, err
		}
		layers = append(layers, resolved)
	}

	return &Tier{
		Name:     decl.Name,
		Layers:   layers,
		Count:    decl.Count,
		Capacity: capacity(layers),
	}, nil
}

func (r *Resolver) resolveSpecial(rnd *random.Stream, base []config.Layer, decl config.Tier) ([]*Tier, error) {
	names, err := r.provider.Variants(decl.Path)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		r.log.Warn("Special tier has no variants", zap.String("tier", decl.Name), zap.String("path", decl.Path))
		return nil, nil
	}

	share := decl.Count / len(names)
	variants := make([]*Tier, 0, len(names))
	total := 0
	for _, name := range names {
		overrides := decl.Overrides[name]
		layers := make([]Layer, 0, len(base))
		for _, l := range base {
			rarity := l.Rarity
			if v, ok := overrides[l.Path]; ok && v > 0 {
				rarity = v
			}
			resolved, err := buildLayer(r.provider, rewrite(l, path.Join(decl.Path, name), rarity), r.log)
			if err != nil {
				return nil, err
			}
			layers = append(layers, resolved)
		}

		t := &Tier{Name: name, Layers: layers, Special: true, Capacity: capacity(layers)}
		t.Count = min(share, t.Capacity)
		total += t.Count
		variants = append(variants, t)
	}

	if short := decl.Count - total; short > 0 {
		if left := topUp(rnd, variants, short); left > 0 {
			r.log.Warn("Special tier could not reach its count; remainder goes to Common",
				zap.String("tier", decl.Name),
				zap.Int("requested", decl.Count),
				zap.Int("shortfall", left))
		}
	}

	return variants, nil
}

// topUp hands out the shortfall one unit at a time to a random variant
// with at least TopUpFloor compositions and spare capacity. When no variant
// reaches the floor, any variant with spare capacity is used; when none has
// capacity left, the remaining shortfall is returned.
func topUp(rnd *random.Stream, variants []*Tier, short int) int {
	for short > 0 {
		var eligible, spare []*Tier
		for _, v := range variants {
			if v.Count >= v.Capacity {
				continue
			}
			spare = append(spare, v)
			if v.Count >= TopUpFloor {
				eligible = append(eligible, v)
			}
		}
		if len(eligible) == 0 {
			eligible = spare
		}
		if len(eligible) == 0 {
			return short
		}

		random.Pick(rnd, eligible).Count++
		short--
	}
	return 0
}

// rewrite moves a layer under root, dropping overrides and exclusions.
func rewrite(l config.Layer, root string, rarity float64) config.Layer {
	return config.Layer{
		Path:   path.Join(root, l.Path),
		Name:   l.Name,
		Rarity: rarity,
	}
}
