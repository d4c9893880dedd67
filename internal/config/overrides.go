package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Override adjusts a single trait of a layer. In YAML it is either a bare
// rarity multiplier or a mapping with rarity and cannot_be_with.
type Override struct {
	Rarity       float64  `yaml:"rarity,omitempty"`
	CannotBeWith []string `yaml:"cannot_be_with,omitempty"`
}

// Overrides maps a trait name to its override.
type Overrides map[string]Override

// Multiplier returns the rarity multiplier for a trait, 1 when unset.
func (o Overrides) Multiplier(trait string) float64 {
	if ov, ok := o[trait]; ok && ov.Rarity > 0 {
		return ov.Rarity
	}
	return 1
}

// UnmarshalYAML accepts both "name: 0.5" and "name: {rarity: 0.5}".
func (o *Override) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var rarity float64
		if err := value.Decode(&rarity); err != nil {
			return fmt.Errorf("override at line %d: %w", value.Line, err)
		}
		*o = Override{Rarity: rarity}
		return nil
	case yaml.MappingNode:
		type plain Override
		var p plain
		if err := value.Decode(&p); err != nil {
			return err
		}
		*o = Override(p)
		return nil
	default:
		return fmt.Errorf("override at line %d: expected number or mapping", value.Line)
	}
}

// MarshalYAML writes rarity-only overrides back as bare numbers.
func (o Override) MarshalYAML() (interface{}, error) {
	if len(o.CannotBeWith) == 0 {
		return o.Rarity, nil
	}
	type plain Override
	return plain(o), nil
}

// PerkSet is the perks mapping with its declaration order preserved.
type PerkSet []Perk

// UnmarshalYAML decodes the perks mapping, keeping key order.
func (ps *PerkSet) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("perks at line %d: expected mapping", value.Line)
	}

	perks := make(PerkSet, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		var perk Perk
		if err := value.Content[i+1].Decode(&perk); err != nil {
			return fmt.Errorf("perk %q: %w", value.Content[i].Value, err)
		}
		perk.Name = value.Content[i].Value
		perks = append(perks, perk)
	}

	*ps = perks
	return nil
}

// MarshalYAML writes the perks back as an ordered mapping.
func (ps PerkSet) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, perk := range ps {
		var body yaml.Node
		if err := body.Encode(perk); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: perk.Name},
			&body,
		)
	}
	return node, nil
}
