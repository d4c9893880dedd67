package constraint

import (
	"testing"

	"github.com/f3rmion/traitforge/internal/config"
	"github.com/stretchr/testify/assert"
)

func testLayers() []config.Layer {
	return []config.Layer{
		{Path: "4-hat", Name: "Hat", Rarity: 1, CannotBeWith: []string{"5-hair", "5-hair"}},
		{Path: "5-hair", Name: "Hair", Rarity: 1},
		{
			Path:   "6-glasses",
			Name:   "Glasses",
			Rarity: 1,
			Overrides: config.Overrides{
				"monocle": {CannotBeWith: []string{"7-mouth/pipe"}},
				"shades":  {Rarity: 0.5},
			},
		},
	}
}

func TestBuildIsSymmetric(t *testing.T) {
	idx := Build(testLayers())

	assert.True(t, idx.Conflicts("4-hat", "5-hair"))
	assert.True(t, idx.Conflicts("5-hair", "4-hat"))
	assert.True(t, idx.Conflicts("6-glasses/monocle", "7-mouth/pipe"))
	assert.True(t, idx.Conflicts("7-mouth/pipe", "6-glasses/monocle"))
	assert.False(t, idx.Conflicts("6-glasses/shades", "7-mouth/pipe"))
}

func TestDuplicatesCollapse(t *testing.T) {
	idx := Build(testLayers())
	assert.Equal(t, []string{"5-hair"}, idx.Excludes("4-hat"))
	assert.Nil(t, idx.Excludes("1-background"))
	assert.Equal(t, 4, idx.Len())
	assert.Equal(t, []string{"4-hat", "5-hair", "6-glasses/monocle", "7-mouth/pipe"}, idx.IDs())
}

func TestSelfReferenceHarmless(t *testing.T) {
	idx := Build([]config.Layer{{Path: "a", Name: "A", Rarity: 1, CannotBeWith: []string{"a"}}})
	assert.Equal(t, []string{"a"}, idx.Excludes("a"))
}

func TestActiveAbsorb(t *testing.T) {
	idx := Build(testLayers())
	active := Active{}
	active.Absorb(idx, "6-glasses", "6-glasses/monocle")

	assert.True(t, active.Has("7-mouth/pipe"))
	assert.False(t, active.Has("5-hair"))

	active.Absorb(idx, "4-hat")
	assert.True(t, active.Has("5-hair"))
}
