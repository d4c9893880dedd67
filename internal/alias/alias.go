// Package alias loads display names for trait image files.
package alias

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
)

// Table maps an image file ("4-hat/crown.png") to its display name.
type Table map[string]string

// Load reads a CSV of (imageFileName, displayName) rows. An empty path
// yields an empty table.
func Load(fs afero.Fs, path string) (Table, error) {
	table := make(Table)
	if path == "" {
		return table, nil
	}

	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening name aliases: %w", err)
	}
	defer f.Close()

	if err := table.read(f); err != nil {
		return nil, fmt.Errorf("reading name aliases %s: %w", path, err)
	}
	return table, nil
}

func (t Table) read(r io.Reader) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	for {
		record, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if len(record) < 2 || strings.TrimSpace(record[0]) == "" {
			continue
		}
		t[strings.TrimSpace(record[0])] = strings.TrimSpace(record[1])
	}
}

// Name returns the display name of a trait, falling back to the raw name.
func (t Table) Name(layer, trait string) string {
	if name, ok := t[layer+"/"+trait+".png"]; ok && name != "" {
		return name
	}
	return trait
}
