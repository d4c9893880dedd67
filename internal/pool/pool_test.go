package pool

import (
	"math"
	"testing"

	"github.com/f3rmion/traitforge/internal/config"
	"github.com/f3rmion/traitforge/internal/random"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHalfRarityOneTrait(t *testing.T) {
	p, n := Build(config.Layer{Path: "4-hat", Rarity: 0.5}, []string{"cap"})

	assert.Equal(t, 1, n)
	assert.Equal(t, 100, p.Len())
	assert.Equal(t, 50, p.Count(Trait{Name: "cap", Layer: "4-hat"}))
	assert.Equal(t, 50, p.Count(Empty))

	rnd := random.New("half")
	empties := 0
	for i := 0; i < 10000; i++ {
		if p.Draw(rnd).IsEmpty() {
			empties++
		}
	}
	assert.InDelta(t, 5000, empties, 300)
}

func TestOverrides(t *testing.T) {
	layer := config.Layer{
		Path:   "4-hat",
		Rarity: 1,
		Overrides: config.Overrides{
			"crown": {Rarity: 0.2},
			"cap":   {Rarity: 2, CannotBeWith: []string{"5-hair"}},
			"wig":   {CannotBeWith: []string{"5-hair"}},
		},
	}
	p, _ := Build(layer, []string{"beanie", "cap", "crown", "wig"})

	assert.Equal(t, 100, p.Count(Trait{Name: "beanie", Layer: "4-hat"}))
	assert.Equal(t, 200, p.Count(Trait{Name: "cap", Layer: "4-hat"}))
	assert.Equal(t, 20, p.Count(Trait{Name: "crown", Layer: "4-hat"}))
	assert.Equal(t, 100, p.Count(Trait{Name: "wig", Layer: "4-hat"}))
	assert.Zero(t, p.Count(Empty))
}

func TestNoTraitsYieldsSingleEmpty(t *testing.T) {
	p, n := Build(config.Layer{Path: "9-aura", Rarity: 0.3}, nil)

	assert.Zero(t, n)
	require.Equal(t, 1, p.Len())
	assert.True(t, p.Draw(random.New("x")).IsEmpty())
}

func TestLookup(t *testing.T) {
	p, _ := Build(config.Layer{Path: "9-hand", Rarity: 1}, []string{"hand_gold", "hand_iron"})

	tr, ok := p.Lookup("hand_iron")
	require.True(t, ok)
	assert.Equal(t, "9-hand/hand_iron", tr.ID())

	_, ok = p.Lookup("hand_wood")
	assert.False(t, ok)
	assert.Equal(t, EmptyID, Empty.ID())
}

func TestAdmissible(t *testing.T) {
	p, _ := Build(config.Layer{Path: "a", Rarity: 1}, []string{"x", "y"})

	assert.True(t, p.Admissible(func(t Trait) bool { return t.Name == "y" }))
	assert.False(t, p.Admissible(func(t Trait) bool { return t.IsEmpty() }))
}

func TestRarityApproximation(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("trait share of image entries follows its multiplier", prop.ForAll(
		func(rarity, m1, m2 float64) bool {
			layer := config.Layer{
				Path:   "l",
				Rarity: rarity,
				Overrides: config.Overrides{
					"a": {Rarity: m1},
					"b": {Rarity: m2},
				},
			}
			p, _ := Build(layer, []string{"a", "b", "c"})

			ca := float64(p.Count(Trait{Name: "a", Layer: "l"}))
			cb := float64(p.Count(Trait{Name: "b", Layer: "l"}))
			cc := float64(p.Count(Trait{Name: "c", Layer: "l"}))
			images := ca + cb + cc
			if images == 0 {
				return p.Len() >= 1
			}

			// Each count is off by at most half an entry after rounding.
			want := m1 / (m1 + m2 + 1)
			return math.Abs(ca/images-want) <= 2/images+1e-9
		},
		gen.Float64Range(0.1, 1),
		gen.Float64Range(0.1, 3),
		gen.Float64Range(0.1, 3),
	))

	properties.Property("empty share approximates one minus rarity", prop.ForAll(
		func(rarity float64, traits int) bool {
			names := make([]string, traits)
			for i := range names {
				names[i] = string(rune('a' + i))
			}
			p, _ := Build(config.Layer{Path: "l", Rarity: rarity}, names)

			share := float64(p.Count(Empty)) / float64(p.Len())
			return math.Abs(share-(1-rarity)) < 0.02
		},
		gen.Float64Range(0.2, 1),
		gen.IntRange(1, 10),
	))

	properties.TestingRun(t)
}
