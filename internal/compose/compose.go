// Package compose stacks trait art into finished collection images.
package compose

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/f3rmion/traitforge/internal/pool"
	"github.com/f3rmion/traitforge/internal/traits"
	"github.com/spf13/afero"
	"golang.org/x/image/draw"
)

// ErrNoArt is returned when a composition has nothing to draw and no art
// exists below the root to size a blank canvas from.
var ErrNoArt = errors.New("no art found")

// errFound stops the art walk at the first image.
var errFound = errors.New("found")

// Compositor draws combination entries bottom layer first. Decoded layer
// art is cached; a Compositor is safe for concurrent use.
type Compositor struct {
	fs     afero.Fs
	root   string
	scaler draw.Scaler

	mu    sync.Mutex
	cache map[string]image.Image
	blank image.Rectangle // Canvas for all-empty entries, once known
}

// New creates a compositor reading art below root on fs.
func New(fs afero.Fs, root string) *Compositor {
	return &Compositor{
		fs:     fs,
		root:   root,
		scaler: draw.CatmullRom,
		cache:  make(map[string]image.Image),
	}
}

// Compose draws the entries in order. Empty entries are skipped. The first
// drawn layer sets the canvas size; later layers of another size are scaled
// to fit it. When every entry is empty the result is a transparent canvas
// the size of the first art file below the root.
func (c *Compositor) Compose(entries []string) (*image.NRGBA, error) {
	var canvas *image.NRGBA
	for _, entry := range entries {
		if entry == pool.EmptyID {
			continue
		}

		src, err := c.load(entry)
		if err != nil {
			return nil, err
		}

		if canvas == nil {
			b := src.Bounds()
			canvas = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		}

		if src.Bounds().Size() == canvas.Bounds().Size() {
			draw.Draw(canvas, canvas.Bounds(), src, src.Bounds().Min, draw.Over)
		} else {
			c.scaler.Scale(canvas, canvas.Bounds(), src, src.Bounds(), draw.Over, nil)
		}
	}

	if canvas == nil {
		bounds, err := c.blankBounds()
		if err != nil {
			return nil, err
		}
		canvas = image.NewNRGBA(bounds)
	}
	return canvas, nil
}

// blankBounds sizes the canvas of an all-empty composition from the first
// PNG below the root, in lexical order.
func (c *Compositor) blankBounds() (image.Rectangle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.blank.Empty() {
		return c.blank, nil
	}

	var first string
	err := afero.Walk(c.fs, c.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.EqualFold(filepath.Ext(path), ".png") {
			first = path
			return errFound
		}
		return nil
	})
	if err != nil && !errors.Is(err, errFound) {
		return image.Rectangle{}, fmt.Errorf("looking for art below %s: %w", c.root, err)
	}
	if first == "" {
		return image.Rectangle{}, fmt.Errorf("%w below %s", ErrNoArt, c.root)
	}

	img, err := Decode(c.fs, first)
	if err != nil {
		return image.Rectangle{}, err
	}
	b := img.Bounds()
	c.blank = image.Rect(0, 0, b.Dx(), b.Dy())
	return c.blank, nil
}

// Encode composes the entries and writes them as PNG.
func (c *Compositor) Encode(w io.Writer, entries []string) error {
	img, err := c.Compose(entries)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

func (c *Compositor) load(entry string) (image.Image, error) {
	c.mu.Lock()
	img, ok := c.cache[entry]
	c.mu.Unlock()
	if ok {
		return img, nil
	}

	img, err := Decode(c.fs, traits.ImagePath(c.root, entry))
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cache[entry] = img
	c.mu.Unlock()
	return img, nil
}

// Decode reads a PNG file.
func Decode(fs afero.Fs, path string) (image.Image, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", filepath.ToSlash(path), err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filepath.ToSlash(path), err)
	}
	return img, nil
}
