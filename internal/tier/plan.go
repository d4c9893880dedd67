package tier

import (
	"fmt"
	"strings"

	"github.com/f3rmion/traitforge/internal/config"
	"github.com/f3rmion/traitforge/internal/perk"
	"github.com/f3rmion/traitforge/internal/random"
)

// Slot is one planned composition: its tier and the perks it carries.
type Slot struct {
	Tier  *Tier
	Perks []perk.Token
}

// Plan lays out count slots over the tiers and the implicit Common tier,
// attaches the perks and shuffles the result. common.Count is set to the
// number of slots left over by the declared tiers.
//
// Random draws happen in a fixed order: other slots, special slots, perk
// tokens (per perk), final order.
func Plan(rnd *random.Stream, tiers []*Tier, common *Tier, count int, perks []config.Perk) ([]Slot, error) {
	declared := 0
	for _, t := range tiers {
		declared += t.Count
	}
	if declared > count {
		return nil, fmt.Errorf("%w: tiers need %d compositions but the collection has %d", ErrInfeasible, declared, count)
	}
	common.Count = count - declared

	var others, specials []Slot
	for _, t := range tiers {
		for i := 0; i < t.Count; i++ {
			if t.Special {
				specials = append(specials, Slot{Tier: t})
			} else {
				others = append(others, Slot{Tier: t})
			}
		}
	}
	for i := 0; i < common.Count; i++ {
		others = append(others, Slot{Tier: common})
	}

	random.Shuffle(rnd, others)
	random.Shuffle(rnd, specials)

	specialPerks, otherPerks, err := perk.Allocate(rnd, perks, len(specials), len(others))
	if err != nil {
		return nil, err
	}
	for i := range specials {
		specials[i].Perks = specialPerks[i]
	}
	for i := range others {
		others[i].Perks = otherPerks[i]
	}
	for _, bucket := range [][]Slot{others, specials} {
		for _, s := range bucket {
			for _, tok := range s.Perks {
				if !s.Tier.HasLayer(tok.Layer) {
					return nil, fmt.Errorf("%w: perk %s targets layer %s, which tier %s does not have",
						ErrInfeasible, tok.Perk, tok.Layer, s.Tier.Name)
				}
			}
		}
	}

	slots := append(others, specials...)
	random.Shuffle(rnd, slots)
	return slots, nil
}

// HasLayer reports whether a layer path of t ends in suffix, the way perk
// overlays are matched to layers.
func (t *Tier) HasLayer(suffix string) bool {
	for _, l := range t.Layers {
		if strings.HasSuffix(l.Path, suffix) {
			return true
		}
	}
	return false
}

// Counts returns the number of slots per tier name.
func Counts(slots []Slot) map[string]int {
	counts := make(map[string]int)
	for _, s := range slots {
		counts[s.Tier.Name]++
	}
	return counts
}
