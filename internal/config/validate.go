package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks the structural sanity of a configuration. Feasibility of
// tier and perk counts is checked by the generator.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config cannot be nil")
	}

	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}

	seen := make(map[string]bool)
	for _, layer := range cfg.Layers {
		if seen[layer.Path] {
			return fmt.Errorf("layers: duplicate path %q", layer.Path)
		}
		seen[layer.Path] = true

		for trait, ov := range layer.Overrides {
			if ov.Rarity < 0 {
				return fmt.Errorf("layers: %s/%s: negative rarity multiplier", layer.Path, trait)
			}
		}
	}

	tiers := make(map[string]bool)
	for _, tier := range cfg.Custom {
		if tier.Name == "Common" {
			return errors.New("custom: tier name Common is reserved")
		}
		if tiers[tier.Name] {
			return fmt.Errorf("custom: duplicate tier %q", tier.Name)
		}
		tiers[tier.Name] = true
	}

	paths := make([]string, 0, len(cfg.Layers))
	for _, layer := range cfg.Layers {
		paths = append(paths, layer.Path)
	}
	for _, tier := range cfg.Custom {
		for _, layer := range tier.Layers {
			paths = append(paths, layer.Path)
		}
	}

	perks := make(map[string]bool)
	for _, perk := range cfg.Perks {
		if perks[perk.Name] {
			return fmt.Errorf("perks: duplicate perk %q", perk.Name)
		}
		perks[perk.Name] = true

		if !hasSuffix(paths, perk.Layer) {
			return fmt.Errorf("perks: %s: no layer matches %q", perk.Name, perk.Layer)
		}
	}

	return nil
}

func hasSuffix(paths []string, suffix string) bool {
	for _, p := range paths {
		if strings.HasSuffix(p, suffix) {
			return true
		}
	}
	return false
}

// formatValidationError flattens validator errors into one readable error.
func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "Config.")
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s needs at least %s entries", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s (got %v)", field, fe.Tag(), fe.Param(), fe.Value()))
		}
	}

	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}
