package cmd

import (
	"fmt"
	"os"

	"github.com/f3rmion/traitforge/internal/generator"
	"github.com/f3rmion/traitforge/internal/tier"
	"github.com/f3rmion/traitforge/internal/tui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show how the collection splits into tiers and perks",
	Long: `Resolve the tiers and lay out the collection without drawing any traits.

Prints the number of items per tier, each tier's combination capacity and
how every perk level is spread over special and other tiers. Use it to
check a configuration before running 'generate'.`,
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.Flags().String("seed", "", "override the config seed")
	planCmd.Flags().Int("count", 0, "override the collection size")
}

func runPlan(cmd *cobra.Command, args []string) error {
	bindOverrides(cmd)
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

	fmt.Println(tui.TitleStyle.Render("Collection plan"))
	fmt.Printf("  %s %d items, seed %q\n\n", tui.SubtitleStyle.Render("Size:"), cfg.Count, cfg.Seed)

	counts := tier.Counts(p.Slots)
	perks := make(map[string]int)
	for _, s := range p.Slots {
		perks[s.Tier.Name] += len(s.Perks)
	}

	t := newTable("Tier", "Kind", "Items", "Capacity", "Perks")
	all := append([]*tier.Tier{}, p.Tiers...)
	for _, tr := range append(all, p.Common) {
		kind := "custom"
		switch {
		case tr.Special:
			kind = "special"
		case tr == p.Common:
			kind = "common"
		}
		t.add(tr.Name, kind, counts[tr.Name], tr.Capacity, perks[tr.Name])
		if counts[tr.Name] > tr.Capacity {
			logger.Warn("Tier holds more items than combinations",
				zap.String("tier", tr.Name),
				zap.Int("items", counts[tr.Name]),
				zap.Int("capacity", tr.Capacity))
		}
	}
	t.render(os.Stdout)

	if len(cfg.Perks) == 0 {
		return nil
	}

	fmt.Println()
	pt := newTable("Perk", "Level", "Special", "Others")
	type key struct{ perk, level string }
	special := make(map[key]int)
	others := make(map[key]int)
	for _, s := range p.Slots {
		for _, tok := range s.Perks {
			k := key{tok.Perk, tok.Level}
			if s.Tier.Special {
				special[k]++
			} else {
				others[k]++
			}
		}
	}
	for _, perk := range cfg.Perks {
		for _, level := range perk.Levels {
			k := key{perk.Name, level.Name}
			pt.add(perk.Name, level.Name, special[k], others[k])
		}
	}
	pt.render(os.Stdout)
	return nil
}
