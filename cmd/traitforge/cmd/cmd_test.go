package cmd

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/f3rmion/traitforge/internal/config"
	"github.com/f3rmion/traitforge/internal/constraint"
	"github.com/f3rmion/traitforge/internal/tier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigTemplateParses(t *testing.T) {
	cfg, err := config.Parse([]byte(configTemplate))
	require.NoError(t, err)
	assert.Equal(t, "layers", cfg.Root)
	assert.Len(t, cfg.Layers, len(starterLayers))
	for i, l := range cfg.Layers {
		assert.Equal(t, starterLayers[i], l.Path)
	}
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	run(t, "init", "--config", path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "change-me", cfg.Seed)
	for _, layer := range starterLayers {
		assert.DirExists(t, filepath.Join(filepath.Dir(path), "layers", layer))
	}

	rootCmd.SetArgs([]string{"init", "--config", path})
	assert.Error(t, rootCmd.Execute())
}

func TestTable(t *testing.T) {
	tb := newTable("Layer", "Traits")
	tb.add("1-background", 12)
	tb.add("帽子", 3)

	var buf bytes.Buffer
	tb.render(&buf)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "Layer")
	assert.Contains(t, lines[2], "1-background  12")
	// Wide runes take two cells each.
	assert.Contains(t, lines[3], "帽子"+strings.Repeat(" ", 8)+"  3")
}

func TestLayerConflicts(t *testing.T) {
	idx := constraint.Build([]config.Layer{
		{Path: "1-bg", Name: "Background", Rarity: 1},
		{Path: "2-body", Name: "Body", Rarity: 1, CannotBeWith: []string{"3-hat", "2-body/slim"}},
		{Path: "3-hat", Name: "Hat", Rarity: 1},
	})
	layers := []tier.Layer{{Path: "1-bg"}, {Path: "2-body"}, {Path: "3-hat"}}

	assert.Equal(t, []string{"2-body + 3-hat"}, layerConflicts(idx, layers))
	assert.Empty(t, layerConflicts(idx, layers[:2]))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "12.50%", percent(0.125))
}

func writeArt(t *testing.T, path string, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

func run(t *testing.T, args ...string) {
	t.Helper()
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
}

func TestCommands(t *testing.T) {
	dir := t.TempDir()
	for i, name := range []string{"red", "green", "blue"} {
		writeArt(t, filepath.Join(dir, "layers", "1-bg", name+".png"), color.NRGBA{R: uint8(80 * i), A: 255})
	}
	for _, name := range []string{"cap", "crown"} {
		writeArt(t, filepath.Join(dir, "layers", "2-hat", name+".png"), color.NRGBA{B: 200, A: 128})
	}

	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
root: layers
output: out
seed: commands
count: 5
layers:
  - { path: 1-bg, name: Background, rarity: 1 }
  - { path: 2-hat, name: Hat, rarity: 0.5, cannot_be_with: [1-bg/red] }
`), 0644))

	run(t, "generate", "--config", cfgPath, "--plain")

	for _, name := range []string{"0.png", "4.png", "4.json", "attributes.jsonl", "preview.html", ManifestFile, ConfigFile} {
		_, err := os.Stat(filepath.Join(dir, "out", name))
		assert.NoError(t, err, name)
	}

	run(t, "plan", "--config", cfgPath)
	run(t, "inspect", "--config", cfgPath, "--constraints")
	run(t, "report", "--config", cfgPath)
	run(t, "show", "0", "--config", cfgPath, "--width", "8")
}
