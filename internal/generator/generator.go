// Package generator runs the whole composition pipeline for a configuration:
// constraint index, layer pools, tiers, slot plan and sampling.
package generator

import (
	"fmt"

	"github.com/f3rmion/traitforge/internal/alias"
	"github.com/f3rmion/traitforge/internal/config"
	"github.com/f3rmion/traitforge/internal/constraint"
	"github.com/f3rmion/traitforge/internal/random"
	"github.com/f3rmion/traitforge/internal/sampler"
	"github.com/f3rmion/traitforge/internal/tier"
	"github.com/f3rmion/traitforge/internal/traits"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// namespace scopes composition IDs.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/f3rmion/traitforge"))

// Phase is a stage of a run.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseSampling
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "Loading traits"
	case PhaseSampling:
		return "Building compositions"
	case PhaseDone:
		return "Done"
	default:
		return "Unknown"
	}
}

// Event reports progress of a run.
type Event struct {
	Phase Phase
	Done  int
	Total int
}

// Composition is one finished collection item.
type Composition struct {
	Index      int
	ID         uuid.UUID
	Tier       string
	Entries    []string
	Attributes sampler.Attributes
}

// Key returns the combination key of the composition.
func (c Composition) Key() string {
	return sampler.Assignment{Entries: c.Entries}.Key()
}

// Collection is the ordered output of a run.
type Collection struct {
	Seed  string
	Items []Composition
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(g *Generator) { g.log = log }
}

// WithAliases sets the display name table.
func WithAliases(aliases alias.Table) Option {
	return func(g *Generator) { g.aliases = aliases }
}

// WithRules adds derived-selection rules to those of the configuration.
func WithRules(rules ...sampler.Rule) Option {
	return func(g *Generator) { g.rules = append(g.rules, rules...) }
}

// WithProgress sets a callback receiving progress events.
func WithProgress(fn func(Event)) Option {
	return func(g *Generator) { g.progress = fn }
}

// Generator builds collections from a configuration.
type Generator struct {
	cfg      *config.Config
	provider traits.Provider
	aliases  alias.Table
	rules    []sampler.Rule
	log      *zap.Logger
	progress func(Event)
}

// New creates a generator.
func New(cfg *config.Config, provider traits.Provider, opts ...Option) *Generator {
	g := &Generator{
		cfg:      cfg,
		provider: provider,
		rules:    sampler.RulesFromConfig(cfg.Rules),
		log:      zap.NewNop(),
		progress: func(Event) {},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Prepared is a run whose tiers and slot plan are resolved but whose
// compositions are not drawn yet.
type Prepared struct {
	Index  constraint.Index
	Common *tier.Tier
	Tiers  []*tier.Tier
	Slots  []tier.Slot

	rnd *random.Stream
}

// Prepare builds the constraint index and pools, resolves the tiers and
// lays out the slot plan.
func (g *Generator) Prepare() (*Prepared, error) {
	g.progress(Event{Phase: PhaseLoading})
	rnd := random.New(g.cfg.Seed)

	index := constraint.Build(g.cfg.Layers)

	layers, err := tier.BuildLayers(g.provider, g.cfg.Layers, g.log)
	if err != nil {
		return nil, fmt.Errorf("loading layers: %w", err)
	}

	tiers, err := tier.NewResolver(g.provider, layers, g.log).Resolve(rnd, g.cfg)
	if err != nil {
		return nil, err
	}

	common := tier.Common(layers, 0)
	slots, err := tier.Plan(rnd, tiers, common, g.cfg.Count, g.cfg.Perks)
	if err != nil {
		return nil, fmt.Errorf("planning collection: %w", err)
	}

	g.log.Debug("Collection planned",
		zap.Int("slots", len(slots)),
		zap.Int("tiers", len(tiers)),
		zap.Int("common", common.Count),
		zap.Int("constraints", index.Len()))

	return &Prepared{Index: index, Common: common, Tiers: tiers, Slots: slots, rnd: rnd}, nil
}

// Generate runs the full pipeline. Any error aborts the run; no partial
// collection is returned.
func (g *Generator) Generate() (*Collection, error) {
	p, err := g.Prepare()
	if err != nil {
		return nil, err
	}

	s := sampler.New(p.rnd, p.Index, g.aliases, g.rules)
	col := &Collection{Seed: g.cfg.Seed, Items: make([]Composition, 0, len(p.Slots))}

	total := len(p.Slots)
	for i, slot := range p.Slots {
		g.progress(Event{Phase: PhaseSampling, Done: i, Total: total})

		a, err := s.Sample(slot)
		if err != nil {
			return nil, fmt.Errorf("composition %d: %w", i, err)
		}

		col.Items = append(col.Items, Composition{
			Index:      i,
			ID:         uuid.NewSHA1(namespace, []byte(g.cfg.Seed+"\x00"+a.Key())),
			Tier:       a.Tier,
			Entries:    a.Entries,
			Attributes: a.Attributes,
		})
	}

	g.progress(Event{Phase: PhaseDone, Done: s.Accepted(), Total: total})
	g.log.Info("Collection built", zap.Int("count", s.Accepted()), zap.String("seed", g.cfg.Seed))
	return col, nil
}
