package perk

import (
	"errors"
	"testing"

	"github.com/f3rmion/traitforge/internal/config"
	"github.com/f3rmion/traitforge/internal/random"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func laser() config.Perk {
	return config.Perk{
		Name:  "Laser",
		Path:  "perks/laser",
		Layer: "6-eyes",
		Levels: []config.Level{
			{Name: "I", Count: 5},
			{Name: "II", Count: 2, Path: "perks/laser2"},
		},
		Distribution: config.Distribution{Special: 2, Others: 5},
	}
}

func countLevels(bucket [][]Token) map[string]int {
	counts := make(map[string]int)
	for _, slot := range bucket {
		for _, tok := range slot {
			counts[tok.Perk+"/"+tok.Level]++
		}
	}
	return counts
}

func TestTokens(t *testing.T) {
	tokens := Tokens(laser())
	require.Len(t, tokens, 7)
	assert.Equal(t, Token{Perk: "Laser", Level: "I", Layer: "6-eyes", Path: "perks/laser"}, tokens[0])
	assert.Equal(t, "perks/laser2", tokens[6].Path)
}

func TestAllocateConservesTokens(t *testing.T) {
	special, others, err := Allocate(random.New("perks"), []config.Perk{laser()}, 4, 20)
	require.NoError(t, err)

	s, o := countLevels(special), countLevels(others)
	assert.Equal(t, 2, s["Laser/I"]+s["Laser/II"])
	assert.Equal(t, 5, o["Laser/I"]+o["Laser/II"])
	assert.Equal(t, 5, s["Laser/I"]+o["Laser/I"])
	assert.Equal(t, 2, s["Laser/II"]+o["Laser/II"])

	// Tokens land on the leading slots of each bucket.
	for i := 0; i < 2; i++ {
		assert.Len(t, special[i], 1)
	}
	for i := 0; i < 5; i++ {
		assert.Len(t, others[i], 1)
	}
	assert.Empty(t, others[5])
}

func TestAllocateSameLayerNeverShared(t *testing.T) {
	beam := laser()
	beam.Name = "Beam"
	beam.Levels = []config.Level{{Name: "I", Count: 3}}
	beam.Distribution = config.Distribution{Others: 3}

	_, others, err := Allocate(random.New("perks"), []config.Perk{laser(), beam}, 2, 10)
	require.NoError(t, err)

	for i, slot := range others {
		assert.LessOrEqual(t, len(slot), 1, "slot %d", i)
	}
	assert.Equal(t, 8, len(others[0])+len(others[1])+len(others[2])+len(others[3])+
		len(others[4])+len(others[5])+len(others[6])+len(others[7]))
}

func TestAllocateDifferentLayersStack(t *testing.T) {
	halo := config.Perk{
		Name:         "Halo",
		Path:         "perks/halo",
		Layer:        "4-hat",
		Levels:       []config.Level{{Name: "I", Count: 1}},
		Distribution: config.Distribution{Others: 1},
	}

	_, others, err := Allocate(random.New("perks"), []config.Perk{laser(), halo}, 2, 10)
	require.NoError(t, err)
	assert.Len(t, others[0], 2)
}

func TestAllocateInfeasible(t *testing.T) {
	tests := []struct {
		name    string
		perk    func() config.Perk
		special int
		others  int
	}{
		{"distribution above produced", func() config.Perk {
			p := laser()
			p.Distribution.Others = 6
			return p
		}, 4, 20},
		{"too few special slots", laser, 1, 20},
		{"too few other slots", laser, 4, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Allocate(random.New("perks"), []config.Perk{tt.perk()}, tt.special, tt.others)
			assert.True(t, errors.Is(err, ErrInfeasible), "got %v", err)
		})
	}
}

func TestAllocateLeftoverTokensUnused(t *testing.T) {
	p := laser()
	p.Distribution = config.Distribution{Special: 1, Others: 1}

	special, others, err := Allocate(random.New("perks"), []config.Perk{p}, 3, 3)
	require.NoError(t, err)
	assert.Len(t, special[0], 1)
	assert.Len(t, others[0], 1)
	assert.Empty(t, special[1])
	assert.Empty(t, others[1])
}
