// Package cmd contains all CLI commands for traitforge.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/f3rmion/traitforge/internal/alias"
	"github.com/f3rmion/traitforge/internal/config"
	"github.com/f3rmion/traitforge/internal/traits"
	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	cfgFile string
	logger  = zap.NewNop()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "traitforge",
	Short: "Build generative trait collections from layered art",
	Long: `traitforge composes collections of unique images from layered trait art.

Each collection item stacks one trait per layer. Traits are drawn by rarity,
never combine with traits they exclude, and every combination is unique.
Custom tiers swap in their own art, special tiers split into variants, and
perks overlay scarce attributes on a fixed number of items.

Runs are deterministic: the same configuration and seed always produce the
same collection.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if viper.GetBool("verbose") {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		l, err := cfg.Build()
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "collection config file")
	rootCmd.PersistentFlags().Bool("verbose", false, "verbose output")
	rootCmd.PersistentFlags().Bool("plain", false, "log progress instead of showing the progress display")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("plain", rootCmd.PersistentFlags().Lookup("plain"))
}

// initConfig reads ENV variables if set.
func initConfig() {
	viper.Set("config_file", cfgFile)
	viper.SetEnvPrefix("TRAITFORGE")
	viper.AutomaticEnv()
}

// bindOverrides binds the config override flags the command defines.
func bindOverrides(cmd *cobra.Command) {
	for _, name := range []string{"seed", "count", "output"} {
		if f := cmd.Flags().Lookup(name); f != nil {
			viper.BindPFlag(name, f)
		}
	}
}

// loadConfig loads the collection config. Seed, count and output may be
// overridden by flags or TRAITFORGE_* variables.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(viper.GetString("config_file"))
	if err != nil {
		return nil, err
	}

	if seed := viper.GetString("seed"); seed != "" {
		cfg.Seed = seed
	}
	if count := viper.GetInt("count"); count > 0 {
		cfg.Count = count
	}
	if out := viper.GetString("output"); out != "" {
		cfg.Output = out
	}

	// Paths in the config file are relative to it.
	dir := filepath.Dir(viper.GetString("config_file"))
	if !filepath.IsAbs(cfg.Root) {
		cfg.Root = filepath.Join(dir, cfg.Root)
	}
	if !filepath.IsAbs(cfg.Output) {
		cfg.Output = filepath.Join(dir, cfg.Output)
	}

	logger.Debug("Config loaded",
		zap.String("file", viper.GetString("config_file")),
		zap.String("seed", cfg.Seed),
		zap.Int("count", cfg.Count))
	return cfg, nil
}

// workspace bundles what the commands need to read trait art.
type workspace struct {
	fs       afero.Fs
	provider *traits.FSProvider
	aliases  alias.Table
}

func openWorkspace(cfg *config.Config) (*workspace, error) {
	fs := afero.NewOsFs()
	ws := &workspace{fs: fs, provider: traits.NewFSProvider(fs, cfg.Root)}

	if cfg.NameAliases != "" {
		aliases, err := alias.Load(fs, filepath.Join(cfg.Root, cfg.NameAliases))
		if err != nil {
			return nil, err
		}
		ws.aliases = aliases
	}
	return ws, nil
}

// interactive reports whether the progress display should be shown.
func interactive() bool {
	if viper.GetBool("plain") {
		return false
	}
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
