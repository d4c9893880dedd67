package cmd

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/traitforge/internal/clipboard"
	"github.com/f3rmion/traitforge/internal/compose"
	"github.com/f3rmion/traitforge/internal/manifest"
	"github.com/f3rmion/traitforge/internal/tui"
	"github.com/f3rmion/traitforge/internal/tui/halfblock"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <index>",
	Short: "Draw a generated item in the terminal",
	Long: `Compose a generated item from its trait art and draw it in the terminal
next to its attributes.

Reads the manifest written by 'generate', so the item is shown even when its
image was not rendered (--limit or --dry-run).

Examples:
  traitforge show 0
  traitforge show 42 --width 60
  traitforge show 7 --copy`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

var (
	showWidth int
	showCopy  bool
)

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().IntVar(&showWidth, "width", 32, "art width in terminal cells")
	showCmd.Flags().BoolVar(&showCopy, "copy", false, "copy the item's attributes to the clipboard")
}

func runShow(cmd *cobra.Command, args []string) error {
	idx, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid index %q: %w", args[0], err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ws, err := openWorkspace(cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	m, err := manifest.Open(ctx, filepath.Join(cfg.Output, ManifestFile))
	if err != nil {
		return err
	}
	defer m.Close()

	col, err := m.Collection(ctx)
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(col.Items) {
		return fmt.Errorf("index %d out of range (collection has %d items)", idx, len(col.Items))
	}
	item := col.Items[idx]

	img, err := compose.New(ws.fs, cfg.Root).Compose(item.Entries)
	if err != nil {
		return err
	}
	cols, rows := halfblock.Fit(img, showWidth, showWidth)
	art := tui.BoxStyle.Render(halfblock.Render(img, cols, rows))

	var lines, plain []string
	lines = append(lines, tui.TitleStyle.Render(fmt.Sprintf("#%d", item.Index))+" "+tui.TierBadge(item.Tier), "")
	for _, attr := range item.Attributes {
		lines = append(lines, tui.LabelStyle.Render(attr.Name+":")+" "+tui.ValueStyle.Render(attr.Value))
		plain = append(plain, attr.Name+": "+attr.Value)
	}
	lines = append(lines, "", tui.HelpStyle.Render(item.ID.String()))

	fmt.Println(lipgloss.JoinHorizontal(lipgloss.Top, art, "  ", strings.Join(lines, "\n")))

	if showCopy {
		if err := clipboard.Write(strings.Join(plain, "\n")); err != nil {
			fmt.Println(tui.ErrorStyle.Render("Copy failed: " + err.Error()))
		} else {
			fmt.Println(tui.SuccessStyle.Render("Attributes copied to clipboard"))
		}
	}
	return nil
}
