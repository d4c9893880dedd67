package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
root: ./layers
seed: whales
count: 100
layers:
  - path: 1-background
    name: Background
    rarity: 1
  - path: 4-hat
    name: Hat
    rarity: 0.5
    cannot_be_with: [5-hair]
    overrides:
      crown: 0.2
      cap:
        rarity: 2
        cannot_be_with: [6-glasses]
custom:
  - name: Legends
    path: special
    count: 10
    special: true
    overrides:
      miner:
        4-hat: 0.8
perks:
  Zeta:
    path: perks/zeta
    layer: 4-hat
    levels: [{ name: I, count: 3 }]
    distribution: { special: 1, others: 2 }
  Alpha:
    path: perks/alpha
    layer: 1-background
    levels: [{ name: I, count: 1 }, { name: II, count: 1, path: perks/alpha2 }]
    distribution: { special: 0, others: 2 }
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "output", cfg.Output)
	require.Len(t, cfg.Layers, 2)

	hat := cfg.Layers[1]
	assert.Equal(t, 0.2, hat.Overrides["crown"].Rarity)
	assert.Empty(t, hat.Overrides["crown"].CannotBeWith)
	assert.Equal(t, 2.0, hat.Overrides.Multiplier("cap"))
	assert.Equal(t, []string{"6-glasses"}, hat.Overrides["cap"].CannotBeWith)
	assert.Equal(t, 1.0, hat.Overrides.Multiplier("beanie"))

	require.Len(t, cfg.Custom, 1)
	assert.Equal(t, 0.8, cfg.Custom[0].Overrides["miner"]["4-hat"])
}

func TestParsePerksKeepOrder(t *testing.T) {
	cfg, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	require.Len(t, cfg.Perks, 2)
	assert.Equal(t, "Zeta", cfg.Perks[0].Name)
	assert.Equal(t, "Alpha", cfg.Perks[1].Name)
	assert.Equal(t, 3, cfg.Perks[0].Total())
	assert.Equal(t, 3, cfg.Perks[0].Distribution.Total())
	assert.Equal(t, "perks/alpha2", cfg.Perks[1].Levels[1].Path)
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing seed", "count: 1\nlayers: [{path: a, name: A, rarity: 1}]"},
		{"zero count", "seed: s\ncount: 0\nlayers: [{path: a, name: A, rarity: 1}]"},
		{"no layers", "seed: s\ncount: 1"},
		{"rarity above one", "seed: s\ncount: 1\nlayers: [{path: a, name: A, rarity: 1.5}]"},
		{"duplicate layer", "seed: s\ncount: 1\nlayers: [{path: a, name: A, rarity: 1}, {path: a, name: B, rarity: 1}]"},
		{"reserved tier", "seed: s\ncount: 1\nlayers: [{path: a, name: A, rarity: 1}]\ncustom: [{name: Common, path: c, count: 1}]"},
		{"perk without layer", "seed: s\ncount: 1\nlayers: [{path: a, name: A, rarity: 1}]\nperks: {Laser: {path: p, layer: 9-hand, levels: [{name: I, count: 1}]}}"},
		{"bad override", "seed: s\ncount: 1\nlayers: [{path: a, name: A, rarity: 1, overrides: {x: [1]}}]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestParsePerkOnCustomLayer(t *testing.T) {
	cfg, err := Parse([]byte(`
seed: s
count: 4
layers: [{path: 1-bg, name: Background, rarity: 1}]
custom: [{name: Miner, path: miner, count: 2, layers: [{path: 9-hand, name: Hand, rarity: 1}]}]
perks:
  Drill: {path: perks/drill, layer: 9-hand, levels: [{name: I, count: 1}]}
`))
	require.NoError(t, err)
	assert.Equal(t, "9-hand", cfg.Perks[0].Layer)
}

func TestSaveRoundTrip(t *testing.T) {
	cfg, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	path := t.TempDir() + "/config.yaml"
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
