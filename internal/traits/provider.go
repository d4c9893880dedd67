// Package traits lists the trait art available for each layer.
package traits

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// ImageExt is the extension of trait art files.
const ImageExt = ".png"

// Provider lists available traits.
type Provider interface {
	// List returns the trait base-names of a layer path, sorted. A missing
	// directory yields an empty list and no error.
	List(path string) ([]string, error)
	// Variants returns the sub-directory names of a special tier path.
	Variants(path string) ([]string, error)
}

// FSProvider reads traits from a directory tree.
type FSProvider struct {
	fs   afero.Fs
	root string
}

// NewFSProvider creates a provider rooted at root on fs.
func NewFSProvider(fs afero.Fs, root string) *FSProvider {
	return &FSProvider{fs: fs, root: root}
}

// List implements Provider.
func (p *FSProvider) List(path string) ([]string, error) {
	entries, err := afero.ReadDir(p.fs, filepath.Join(p.root, path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing traits in %s: %w", path, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ImageExt))
	}
	sort.Strings(names)
	return names, nil
}

// Variants implements Provider.
func (p *FSProvider) Variants(path string) ([]string, error) {
	entries, err := afero.ReadDir(p.fs, filepath.Join(p.root, path))
	if err != nil {
		return nil, fmt.Errorf("listing variants in %s: %w", path, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() && !strings.HasPrefix(entry.Name(), ".") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// ImagePath returns the art file of a combination entry.
func ImagePath(root, entry string) string {
	return filepath.Join(root, entry+ImageExt)
}
