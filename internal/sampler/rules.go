package sampler

import (
	"path"
	"strings"

	"github.com/f3rmion/traitforge/internal/config"
	"github.com/f3rmion/traitforge/internal/pool"
)

// Rule forces the selection of one layer from a value already chosen on
// another layer of the same composition. Layer and Source match by suffix,
// so a rule also reaches layers a tier moved under its own path; exclusions
// do not (see tier.Resolver).
type Rule struct {
	Tier   string // Tier name the rule applies to
	Layer  string // Suffix of the dependent layer path
	Source string // Suffix of the source layer path
	// Derive maps the source combination entry to the dependent trait name.
	Derive func(source string) (string, bool)
}

// PrefixRule derives the trait named prefix + the last path segment of the
// source entry, e.g. "3-body_back/gold" -> "hand_gold".
func PrefixRule(r config.Rule) Rule {
	prefix := r.Prefix
	return Rule{
		Tier:   r.Tier,
		Layer:  r.Layer,
		Source: r.Source,
		Derive: func(source string) (string, bool) {
			if source == pool.EmptyID {
				return "", false
			}
			return prefix + path.Base(source), true
		},
	}
}

// RulesFromConfig builds prefix rules for every configured rule.
func RulesFromConfig(rules []config.Rule) []Rule {
	out := make([]Rule, 0, len(rules))
	for _, r := range rules {
		out = append(out, PrefixRule(r))
	}
	return out
}

func (r Rule) matches(tier, layer string) bool {
	return r.Tier == tier && strings.HasSuffix(layer, r.Layer)
}
