package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/f3rmion/traitforge/internal/manifest"
	"github.com/f3rmion/traitforge/internal/tui"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report [manifest.db]",
	Short: "Show attribute rarities of a generated collection",
	Long: `Show how often every attribute value occurs in a generated collection.

Reads the manifest written by 'generate'. Without an argument the manifest
in the configured output directory is used.

Examples:
  traitforge report
  traitforge report output/manifest.db
  traitforge report --attribute Hat`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReport,
}

var reportAttribute string

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVarP(&reportAttribute, "attribute", "a", "", "only show this attribute")
}

func manifestPath(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	cfg, err := loadConfig()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg.Output, ManifestFile), nil
}

func runReport(cmd *cobra.Command, args []string) error {
	path, err := manifestPath(args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	m, err := manifest.Open(ctx, path)
	if err != nil {
		return err
	}
	defer m.Close()

	fmt.Println(tui.TitleStyle.Render("Collection report"))
	fmt.Printf("  %s %d items, seed %q\n\n", tui.SubtitleStyle.Render("Size:"), m.Size, m.Seed)

	tiers, err := m.TierCounts(ctx)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(tiers))
	for name := range tiers {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if tiers[names[i]] != tiers[names[j]] {
			return tiers[names[i]] > tiers[names[j]]
		}
		return names[i] < names[j]
	})

	tt := newTable("Tier", "Items", "Share")
	for _, name := range names {
		tt.add(name, tiers[name], percent(float64(tiers[name])/float64(max(m.Size, 1))))
	}
	tt.render(os.Stdout)
	fmt.Println()

	stats, err := m.Stats(ctx)
	if err != nil {
		return err
	}

	t := newTable("Attribute", "Value", "Items", "Share")
	last := ""
	for _, vc := range stats {
		if reportAttribute != "" && vc.Attribute != reportAttribute {
			continue
		}
		attr := vc.Attribute
		if attr == last {
			attr = ""
		}
		last = vc.Attribute
		t.add(attr, vc.Value, vc.Count, percent(vc.Share))
	}
	t.render(os.Stdout)
	return nil
}
