// Package output writes a finished collection to disk: images, attribute
// records, an HTML preview and optional marketplace metadata.
package output

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/f3rmion/traitforge/internal/compose"
	"github.com/f3rmion/traitforge/internal/config"
	"github.com/f3rmion/traitforge/internal/generator"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	AttributesFile = "attributes.jsonl"
	PreviewFile    = "preview.html"
	LogoFile       = "logo.png"
	MetaDir        = "meta"
	CollectionFile = "collection.json"
)

var previewTemplate = template.Must(template.New("preview").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>img { width: 80px; height: 80px; margin: 8px }</style>
</head>
<body>
{{range .Items}}<img alt="{{.Alt}}" src="{{.Src}}">
{{end}}</body>
</html>
`))

type previewItem struct {
	Alt string
	Src string
}

// Option configures a Writer.
type Option func(*Writer)

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(w *Writer) { w.log = log }
}

// WithLogo copies the logo file at path on the source filesystem.
func WithLogo(src afero.Fs, path string) Option {
	return func(w *Writer) {
		w.logoFs = src
		w.logo = path
	}
}

// WithMeta enables marketplace metadata.
func WithMeta(meta *config.Meta) Option {
	return func(w *Writer) { w.meta = meta }
}

// WithLimit renders only the first n images. Zero renders all.
func WithLimit(n int) Option {
	return func(w *Writer) { w.limit = n }
}

// WithoutImages writes the records only.
func WithoutImages() Option {
	return func(w *Writer) { w.skipImages = true }
}

// WithWorkers bounds concurrent rendering.
func WithWorkers(n int) Option {
	return func(w *Writer) {
		if n > 0 {
			w.workers = n
		}
	}
}

// WithProgress sets a callback called after each rendered image.
func WithProgress(fn func(done, total int)) Option {
	return func(w *Writer) { w.progress = fn }
}

// Writer writes collections below a directory.
type Writer struct {
	fs         afero.Fs
	dir        string
	compositor *compose.Compositor

	logoFs     afero.Fs
	logo       string
	meta       *config.Meta
	limit      int
	skipImages bool
	workers    int
	log        *zap.Logger
	progress   func(done, total int)
}

// New creates a writer rendering with c into dir on fs.
func New(fs afero.Fs, dir string, c *compose.Compositor, opts ...Option) *Writer {
	w := &Writer{
		fs:         fs,
		dir:        dir,
		compositor: c,
		workers:    runtime.NumCPU(),
		log:        zap.NewNop(),
		progress:   func(int, int) {},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Rendered returns how many images a collection of n items yields.
func (w *Writer) Rendered(n int) int {
	if w.skipImages {
		return 0
	}
	if w.limit > 0 && w.limit < n {
		return w.limit
	}
	return n
}

// Write writes the collection. Records are written in index order before
// the images are rendered concurrently.
func (w *Writer) Write(ctx context.Context, col *generator.Collection) error {
	if err := w.fs.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	if err := w.writeRecords(col); err != nil {
		return err
	}
	if err := w.writePreview(col); err != nil {
		return err
	}
	if w.logo != "" {
		if err := w.copyLogo(); err != nil {
			return err
		}
	}
	if w.meta != nil {
		if err := w.writeMeta(col); err != nil {
			return err
		}
	}

	return w.render(ctx, col)
}

func (w *Writer) writeRecords(col *generator.Collection) error {
	var lines bytes.Buffer
	for _, item := range col.Items {
		data, err := json.Marshal(item.Attributes)
		if err != nil {
			return fmt.Errorf("encoding attributes of %d: %w", item.Index, err)
		}
		if err := afero.WriteFile(w.fs, w.path(strconv.Itoa(item.Index)+".json"), data, 0644); err != nil {
			return fmt.Errorf("writing attributes of %d: %w", item.Index, err)
		}
		lines.Write(data)
		lines.WriteByte('\n')
	}

	if err := afero.WriteFile(w.fs, w.path(AttributesFile), lines.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", AttributesFile, err)
	}
	return nil
}

func (w *Writer) writePreview(col *generator.Collection) error {
	items := make([]previewItem, 0, w.Rendered(len(col.Items)))
	for _, item := range col.Items[:w.Rendered(len(col.Items))] {
		items = append(items, previewItem{
			Alt: strings.Join(item.Entries, " "),
			Src: strconv.Itoa(item.Index) + ".png",
		})
	}

	var buf bytes.Buffer
	data := struct {
		Title string
		Items []previewItem
	}{Title: "Collection " + col.Seed, Items: items}
	if err := previewTemplate.Execute(&buf, data); err != nil {
		return fmt.Errorf("rendering preview: %w", err)
	}

	if err := afero.WriteFile(w.fs, w.path(PreviewFile), buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", PreviewFile, err)
	}
	return nil
}

func (w *Writer) copyLogo() error {
	src, err := w.logoFs.Open(w.logo)
	if err != nil {
		return fmt.Errorf("opening logo: %w", err)
	}
	defer src.Close()

	dst, err := w.fs.Create(w.path(LogoFile))
	if err != nil {
		return fmt.Errorf("creating logo: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("copying logo: %w", err)
	}
	return nil
}

func (w *Writer) render(ctx context.Context, col *generator.Collection) error {
	total := w.Rendered(len(col.Items))
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.workers)

	for _, item := range col.Items[:total] {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := w.renderOne(item); err != nil {
				return err
			}
			w.progress(int(done.Add(1)), total)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	w.log.Info("Images rendered", zap.Int("count", total), zap.String("dir", w.dir))
	return nil
}

func (w *Writer) renderOne(item generator.Composition) error {
	name := w.path(strconv.Itoa(item.Index) + ".png")
	f, err := w.fs.Create(name)
	if err != nil {
		return fmt.Errorf("creating image %d: %w", item.Index, err)
	}

	if err := w.compositor.Encode(f, item.Entries); err != nil {
		f.Close()
		return fmt.Errorf("rendering image %d: %w", item.Index, err)
	}
	return f.Close()
}

func (w *Writer) path(name string) string {
	return filepath.Join(w.dir, name)
}
