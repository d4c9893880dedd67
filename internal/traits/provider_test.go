package traits

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for _, f := range []string{
		"layers/4-hat/crown.png",
		"layers/4-hat/cap.png",
		"layers/4-hat/.DS_Store",
		"layers/special/miner/4-hat/helmet.png",
		"layers/special/pirate/4-hat/tricorn.png",
		"layers/special/readme.txt",
	} {
		require.NoError(t, afero.WriteFile(fs, f, []byte("x"), 0644))
	}
	return fs
}

func TestList(t *testing.T) {
	p := NewFSProvider(testFS(t), "layers")

	names, err := p.List("4-hat")
	require.NoError(t, err)
	assert.Equal(t, []string{"cap", "crown"}, names)
}

func TestListMissingDirectory(t *testing.T) {
	p := NewFSProvider(testFS(t), "layers")

	names, err := p.List("9-aura")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestVariants(t *testing.T) {
	p := NewFSProvider(testFS(t), "layers")

	names, err := p.Variants("special")
	require.NoError(t, err)
	assert.Equal(t, []string{"miner", "pirate"}, names)

	_, err = p.Variants("missing")
	assert.Error(t, err)
}

func TestImagePath(t *testing.T) {
	assert.Equal(t, "layers/4-hat/cap.png", ImagePath("layers", "4-hat/cap"))
}
