package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/f3rmion/traitforge/internal/constraint"
	"github.com/f3rmion/traitforge/internal/generator"
	"github.com/f3rmion/traitforge/internal/pool"
	"github.com/f3rmion/traitforge/internal/tier"
	"github.com/f3rmion/traitforge/internal/tui"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [tier]",
	Short: "Show layer pools, capacities and constraints",
	Long: `Show how the trait art was loaded.

Without arguments the shared layers are listed: the number of trait files,
pool entries and the share of empty draws per layer. With a tier name the
layers of that tier are listed instead.

Examples:
  traitforge inspect
  traitforge inspect Gold
  traitforge inspect --constraints`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInspect,
}

var inspectConstraints bool

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().BoolVarP(&inspectConstraints, "constraints", "c", false, "list every exclusion")
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ws, err := openWorkspace(cfg)
	if err != nil {
		return err
	}

	p, err := generator.New(cfg, ws.provider, generator.WithLogger(logger)).Prepare()
	if err != nil {
		return err
	}

	target := p.Common
	if len(args) == 1 {
		target = findTier(p, args[0])
		if target == nil {
			return fmt.Errorf("unknown tier: %s", args[0])
		}
	}

	fmt.Println(tui.TitleStyle.Render("Tier " + target.Name))
	fmt.Printf("  %s %d  %s %d\n\n",
		tui.SubtitleStyle.Render("Capacity:"), target.Capacity,
		tui.SubtitleStyle.Render("Items:"), target.Count)

	t := newTable("Layer", "Name", "Traits", "Entries", "Empty")
	for _, l := range target.Layers {
		empty := float64(l.Pool.Count(pool.Empty)) / float64(l.Pool.Len())
		t.add(l.Path, l.Name, l.Traits, l.Pool.Len(), percent(empty))
	}
	t.render(os.Stdout)

	fmt.Printf("\n  %s %d identifiers with exclusions\n",
		tui.SubtitleStyle.Render("Constraints:"), p.Index.Len())
	for _, pair := range layerConflicts(p.Index, target.Layers) {
		fmt.Printf("  %s %s\n", tui.HelpStyle.Render("never together:"), pair)
	}

	if inspectConstraints {
		fmt.Println()
		ct := newTable("Identifier", "Cannot be with")
		for _, id := range p.Index.IDs() {
			ct.add(id, strings.Join(p.Index.Excludes(id), ", "))
		}
		ct.render(os.Stdout)
	}
	return nil
}

// layerConflicts lists the layer pairs of a tier excluded as whole layers.
func layerConflicts(idx constraint.Index, layers []tier.Layer) []string {
	var pairs []string
	for i, a := range layers {
		for _, b := range layers[i+1:] {
			if idx.Conflicts(a.Path, b.Path) {
				pairs = append(pairs, a.Path+" + "+b.Path)
			}
		}
	}
	return pairs
}

func findTier(p *generator.Prepared, name string) *tier.Tier {
	if name == p.Common.Name {
		return p.Common
	}
	for _, t := range p.Tiers {
		if t.Name == name {
			return t
		}
	}
	return nil
}
