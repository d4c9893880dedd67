package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter collection config",
	Long: `Create a starter config file and one art directory per layer.

This creates:
  - config.yaml      (layers, rarities, tiers and perks to edit)
  - layers/<layer>/  (one directory per layer; drop trait .png files here)

You should then edit config.yaml and add your trait art.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "overwrite an existing config file")
}

var starterLayers = []string{"1-background", "2-body", "3-eyes", "4-hat"}

func runInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	path := viper.GetString("config_file")

	// Check if config already exists
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file already exists: %s\nUse --force to overwrite", path)
	}

	dir := filepath.Dir(path)
	fmt.Printf("Initializing traitforge collection in %s\n\n", dir)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	fmt.Printf("  Created %s\n", filepath.Base(path))

	for _, layer := range starterLayers {
		if err := os.MkdirAll(filepath.Join(dir, "layers", layer), 0755); err != nil {
			return fmt.Errorf("creating layer directory: %w", err)
		}
		fmt.Printf("  Created layers/%s/\n", layer)
	}

	fmt.Println()
	fmt.Println("Collection initialized!")
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Add trait art (.png, same size) to the layer directories")
	fmt.Println("  2. Run 'traitforge inspect' to check the pools")
	fmt.Println("  3. Run 'traitforge plan' and then 'traitforge generate'")

	return nil
}

const configTemplate = `# traitforge collection config
#
# Paths are relative to this file. Every layer directory holds one .png
# per trait; all art should share the same size.

root: layers
output: output
seed: "change-me"
count: 100

# logo: logo.png            # copied to output/logo.png
# name_aliases: names.csv   # rows of "<layer>/<trait>.png,Display Name"

layers:
  - path: 1-background
    name: Background
    rarity: 1
  - path: 2-body
    name: Body
    rarity: 1
  - path: 3-eyes
    name: Eyes
    rarity: 1
    # overrides:
    #   laser: 0.2                                    # 5x rarer
    #   monocle: { rarity: 1, cannot_be_with: [4-hat] }
  - path: 4-hat
    name: Hat
    rarity: 0.5               # half of the items get no hat

# Custom tiers swap in their own art below <root>/<path>.
# custom:
#   - name: Gold
#     path: gold
#     count: 10
#     uses: [1-background]    # layers shared with the common tier
#
# Special tiers split into one variant per sub-directory of <root>/<path>.
#   - name: Legends
#     path: special
#     count: 5
#     special: true

# perks:
#   Laser:
#     path: perks/laser
#     layer: 3-eyes
#     levels: [{ name: I, count: 5 }, { name: II, count: 2 }]
#     distribution: { special: 2, others: 5 }

# meta:
#   name: My Collection
#   item_pattern: "Item #{{idx}}"
#   image_base: https://example.com/images
`
