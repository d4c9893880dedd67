// Package perk turns perk level quotas into slot tokens and spreads them
// over the special and other tier buckets.
package perk

import (
	"errors"
	"fmt"

	"github.com/f3rmion/traitforge/internal/config"
	"github.com/f3rmion/traitforge/internal/random"
)

// ErrInfeasible is returned when a perk's distribution cannot be honoured.
var ErrInfeasible = errors.New("configuration infeasible")

// Token is one perk instance attached to a slot.
type Token struct {
	Perk  string // Perk name, also the attribute name
	Level string
	Layer string // Suffix of the layer path the perk replaces
	Path  string // Art path, relative to the config root
}

// Tokens builds the level-tagged tokens of a perk in declaration order.
func Tokens(p config.Perk) []Token {
	tokens := make([]Token, 0, p.Total())
	for _, level := range p.Levels {
		path := p.Path
		if level.Path != "" {
			path = level.Path
		}
		for i := 0; i < level.Count; i++ {
			tokens = append(tokens, Token{Perk: p.Name, Level: level.Name, Layer: p.Layer, Path: path})
		}
	}
	return tokens
}

// Allocate hands out the perks over specialSlots and otherSlots. The
// returned slices are indexed by slot position within each bucket.
//
// For each perk the tokens are shuffled; the first distribution.special go
// to special slots and the next distribution.others to other slots. A slot
// never holds two tokens for the same layer: a token skips ahead to the
// next slot without one.
func Allocate(rnd *random.Stream, perks []config.Perk, specialSlots, otherSlots int) (special, others [][]Token, err error) {
	special = make([][]Token, specialSlots)
	others = make([][]Token, otherSlots)

	for _, p := range perks {
		tokens := Tokens(p)
		if p.Distribution.Total() > len(tokens) {
			return nil, nil, fmt.Errorf("%w: %s hands out %d instances but its levels produce %d",
				ErrInfeasible, p.Name, p.Distribution.Total(), len(tokens))
		}

		random.Shuffle(rnd, tokens)

		if err := place(special, tokens[:p.Distribution.Special]); err != nil {
			return nil, nil, fmt.Errorf("%w: %s: special %v", ErrInfeasible, p.Name, err)
		}
		if err := place(others, tokens[p.Distribution.Special:p.Distribution.Total()]); err != nil {
			return nil, nil, fmt.Errorf("%w: %s: others %v", ErrInfeasible, p.Name, err)
		}
	}

	return special, others, nil
}

func place(bucket [][]Token, tokens []Token) error {
	cursor := 0
	for _, tok := range tokens {
		for cursor < len(bucket) && holdsLayer(bucket[cursor], tok.Layer) {
			cursor++
		}
		if cursor >= len(bucket) {
			return fmt.Errorf("only %d slots for %d instances", len(bucket), len(tokens))
		}
		bucket[cursor] = append(bucket[cursor], tok)
		cursor++
	}
	return nil
}

func holdsLayer(tokens []Token, layer string) bool {
	for _, t := range tokens {
		if t.Layer == layer {
			return true
		}
	}
	return false
}
