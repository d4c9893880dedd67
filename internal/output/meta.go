package output

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/f3rmion/traitforge/internal/config"
	"github.com/f3rmion/traitforge/internal/generator"
	"github.com/spf13/afero"
)

// IndexPlaceholder is replaced by the item index in Meta.ItemPattern.
const IndexPlaceholder = "{{idx}}"

// TraitAttribute is one marketplace attribute entry.
type TraitAttribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

// ItemMeta is the marketplace record of one item.
type ItemMeta struct {
	Name       string           `json:"name"`
	Image      string           `json:"image"`
	Attributes []TraitAttribute `json:"attributes"`
}

// CollectionMeta is the marketplace record of the collection.
type CollectionMeta struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	ExternalLink string   `json:"external_link,omitempty"`
	Image        string   `json:"image"`
	SocialLinks  []string `json:"social_links,omitempty"`
}

// Item builds the marketplace record of a composition.
func Item(meta *config.Meta, c generator.Composition) ItemMeta {
	idx := strconv.Itoa(c.Index)
	attrs := make([]TraitAttribute, 0, len(c.Attributes))
	for _, a := range c.Attributes {
		attrs = append(attrs, TraitAttribute{TraitType: a.Name, Value: a.Value})
	}
	return ItemMeta{
		Name:       strings.ReplaceAll(meta.ItemPattern, IndexPlaceholder, idx),
		Image:      imageURL(meta.ImageBase, idx+".png"),
		Attributes: attrs,
	}
}

// Collection builds the marketplace record of the collection.
func Collection(meta *config.Meta) CollectionMeta {
	return CollectionMeta{
		Name:         meta.Name,
		Description:  meta.Description,
		ExternalLink: meta.ExternalURL,
		Image:        imageURL(meta.ImageBase, LogoFile),
		SocialLinks:  meta.SocialLinks,
	}
}

func imageURL(base, name string) string {
	return strings.TrimSuffix(base, "/") + "/" + name
}

func (w *Writer) writeMeta(col *generator.Collection) error {
	dir := w.path(MetaDir)
	if err := w.fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating meta directory: %w", err)
	}

	for _, item := range col.Items {
		if err := writeJSON(w.fs, filepath.Join(dir, strconv.Itoa(item.Index)+".json"), Item(w.meta, item)); err != nil {
			return err
		}
	}
	return writeJSON(w.fs, filepath.Join(dir, CollectionFile), Collection(w.meta))
}

func writeJSON(fs afero.Fs, path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	if err := afero.WriteFile(fs, path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
