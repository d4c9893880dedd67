package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/f3rmion/traitforge/internal/compose"
	"github.com/f3rmion/traitforge/internal/config"
	"github.com/f3rmion/traitforge/internal/generator"
	"github.com/f3rmion/traitforge/internal/manifest"
	"github.com/f3rmion/traitforge/internal/output"
	"github.com/f3rmion/traitforge/internal/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Files written next to the images.
const (
	ManifestFile = "manifest.db"
	ConfigFile   = "config.yaml"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the collection",
	Long: `Generate the collection described by the config file.

Writes into the output directory:
  - <idx>.png and <idx>.json   (image and attributes of every item)
  - attributes.jsonl           (all attribute records, one per line)
  - preview.html               (grid of all rendered images)
  - logo.png                   (when a logo is configured)
  - meta/                      (marketplace metadata, when meta is configured)
  - manifest.db                (SQLite manifest used by 'report' and 'show')

Examples:
  traitforge generate
  traitforge generate --seed whales --count 500
  traitforge generate --limit 20       # render only the first 20 images
  traitforge generate --dry-run        # records and manifest, no images`,
	RunE: runGenerate,
}

var (
	generateLimit      int
	generateWorkers    int
	generateDryRun     bool
	generateNoManifest bool
)

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().String("seed", "", "override the config seed")
	generateCmd.Flags().Int("count", 0, "override the collection size")
	generateCmd.Flags().StringP("output", "o", "", "override the output directory")
	generateCmd.Flags().IntVarP(&generateLimit, "limit", "l", 0, "render only the first N images (0 = all)")
	generateCmd.Flags().IntVarP(&generateWorkers, "workers", "w", 0, "concurrent image renders (0 = number of CPUs)")
	generateCmd.Flags().BoolVar(&generateDryRun, "dry-run", false, "skip image rendering")
	generateCmd.Flags().BoolVar(&generateNoManifest, "no-manifest", false, "do not write the manifest database")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	bindOverrides(cmd)
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ws, err := openWorkspace(cfg)
	if err != nil {
		return err
	}

	var col *generator.Collection
	job := func(ctx context.Context, send func(tea.Msg)) error {
		opts := []generator.Option{generator.WithLogger(jobLogger(send)), generator.WithAliases(ws.aliases)}
		if send != nil {
			opts = append(opts, generator.WithProgress(tui.Events(send)))
		}

		c, err := generator.New(cfg, ws.provider, opts...).Generate()
		if err != nil {
			return err
		}
		col = c
		return writeCollection(ctx, cfg, ws, c, send)
	}

	if interactive() {
		err = tui.Run(cmd.Context(), "traitforge", job)
	} else {
		err = job(cmd.Context(), nil)
	}
	if err != nil {
		return err
	}

	fmt.Printf("%s %d items (seed %q) in %s\n",
		tui.SuccessStyle.Render("Generated"), len(col.Items), col.Seed, cfg.Output)
	return nil
}

func writeCollection(ctx context.Context, cfg *config.Config, ws *workspace, col *generator.Collection, send func(tea.Msg)) error {
	opts := []output.Option{
		output.WithLogger(jobLogger(send)),
		output.WithWorkers(generateWorkers),
		output.WithLimit(generateLimit),
	}
	if generateDryRun {
		opts = append(opts, output.WithoutImages())
	}
	if cfg.Logo != "" {
		opts = append(opts, output.WithLogo(ws.fs, filepath.Join(cfg.Root, cfg.Logo)))
	}
	if cfg.Meta != nil {
		opts = append(opts, output.WithMeta(cfg.Meta))
	}
	if send != nil {
		opts = append(opts, output.WithProgress(tui.Renders(send)))
	} else {
		opts = append(opts, output.WithProgress(logProgress))
	}

	w := output.New(ws.fs, cfg.Output, compose.New(ws.fs, cfg.Root), opts...)
	if err := w.Write(ctx, col); err != nil {
		return err
	}

	if err := config.Save(filepath.Join(cfg.Output, ConfigFile), cfg); err != nil {
		return err
	}

	if generateNoManifest {
		return nil
	}
	path := filepath.Join(cfg.Output, ManifestFile)
	if err := manifest.Save(ctx, path, col); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	jobLogger(send).Info("Manifest written", zap.String("path", path))
	return nil
}

// jobLogger keeps info logs from drawing over the progress display.
func jobLogger(send func(tea.Msg)) *zap.Logger {
	if send == nil || viper.GetBool("verbose") {
		return logger
	}
	return logger.WithOptions(zap.IncreaseLevel(zapcore.WarnLevel))
}

// logProgress logs every tenth of the rendered images.
func logProgress(done, total int) {
	step := max(total/10, 1)
	if done%step == 0 || done == total {
		logger.Info("Rendering images", zap.Int("done", done), zap.Int("total", total))
	}
}
