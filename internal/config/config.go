// Package config handles loading and saving the traitforge collection configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds everything needed to build a collection.
type Config struct {
	Root        string  `yaml:"root"`
	Output      string  `yaml:"output"`
	Seed        string  `yaml:"seed" validate:"required"`
	Count       int     `yaml:"count" validate:"gt=0"`
	Layers      []Layer `yaml:"layers" validate:"required,min=1,dive"`
	Logo        string  `yaml:"logo,omitempty"`
	NameAliases string  `yaml:"name_aliases,omitempty"`
	Custom      []Tier  `yaml:"custom,omitempty" validate:"dive"`
	Perks       PerkSet `yaml:"perks,omitempty" validate:"dive"`
	Rules       []Rule  `yaml:"rules,omitempty" validate:"dive"`
	Meta        *Meta   `yaml:"meta,omitempty"`
}

// Layer is a visual slot of the composition.
type Layer struct {
	Path         string    `yaml:"path" validate:"required"`
	Name         string    `yaml:"name" validate:"required"`
	Rarity       float64   `yaml:"rarity" validate:"gt=0,lte=1"`
	CannotBeWith []string  `yaml:"cannot_be_with,omitempty"`
	Overrides    Overrides `yaml:"overrides,omitempty"`
}

// Tier declares a custom or special tier.
type Tier struct {
	Name    string   `yaml:"name" validate:"required"`
	Count   int      `yaml:"count" validate:"gte=0"`
	Path    string   `yaml:"path" validate:"required"`
	Special bool     `yaml:"special,omitempty"`
	Uses    []string `yaml:"uses,omitempty"`
	Layers  []Layer  `yaml:"layers,omitempty" validate:"dive"`

	// Overrides maps a special variant name to per-layer rarities.
	Overrides map[string]map[string]float64 `yaml:"overrides,omitempty"`
}

// Perk is a scarce overlay attribute.
type Perk struct {
	Name         string       `yaml:"-"`
	Path         string       `yaml:"path" validate:"required"`
	Layer        string       `yaml:"layer" validate:"required"`
	Levels       []Level      `yaml:"levels" validate:"required,min=1,dive"`
	Distribution Distribution `yaml:"distribution"`
}

// Level is one grade of a perk.
type Level struct {
	Name  string `yaml:"name" validate:"required"`
	Count int    `yaml:"count" validate:"gte=0"`
	Path  string `yaml:"path,omitempty"` // Art override for this level
}

// Distribution splits perk instances between special and other tiers.
type Distribution struct {
	Special int `yaml:"special" validate:"gte=0"`
	Others  int `yaml:"others" validate:"gte=0"`
}

// Total returns the number of perk instances handed out.
func (d Distribution) Total() int {
	return d.Special + d.Others
}

// Total returns the number of perk slots the levels produce.
func (p Perk) Total() int {
	n := 0
	for _, l := range p.Levels {
		n += l.Count
	}
	return n
}

// Rule forces a tier's layer to the trait named Prefix + the last path
// segment of the trait already chosen on the Source layer.
type Rule struct {
	Tier   string `yaml:"tier" validate:"required"`
	Layer  string `yaml:"layer" validate:"required"`
	Source string `yaml:"source" validate:"required"`
	Prefix string `yaml:"prefix,omitempty"`
}

// Meta describes marketplace metadata written next to the images.
type Meta struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	ItemPattern string   `yaml:"item_pattern"`
	ImageBase   string   `yaml:"image_base"`
	ExternalURL string   `yaml:"external_url,omitempty"`
	SocialLinks []string `yaml:"social_links,omitempty"`
}

// Load reads and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	return cfg, nil
}

// Parse decodes and validates configuration bytes.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if cfg.Root == "" {
		cfg.Root = "."
	}
	if cfg.Output == "" {
		cfg.Output = "output"
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the configuration to a YAML file.
func Save(path string, cfg *Config) error {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
