// Package manifest stores a finished collection in a SQLite database for
// later reporting.
package manifest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/f3rmion/traitforge/internal/generator"
	"github.com/f3rmion/traitforge/internal/sampler"
	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE collection (
	seed       TEXT NOT NULL,
	size       INTEGER NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE TABLE compositions (
	idx  INTEGER PRIMARY KEY,
	id   TEXT NOT NULL UNIQUE,
	tier TEXT NOT NULL,
	key  TEXT NOT NULL UNIQUE
);
CREATE TABLE entries (
	idx      INTEGER NOT NULL REFERENCES compositions(idx),
	position INTEGER NOT NULL,
	entry    TEXT NOT NULL,
	PRIMARY KEY (idx, position)
);
CREATE TABLE attributes (
	idx      INTEGER NOT NULL REFERENCES compositions(idx),
	position INTEGER NOT NULL,
	name     TEXT NOT NULL,
	value    TEXT NOT NULL,
	PRIMARY KEY (idx, name)
);
CREATE INDEX attributes_name_value ON attributes(name, value);
`

// Save writes col to a new database at path, replacing any existing file.
func Save(ctx context.Context, path string, col *generator.Collection) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing old manifest: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insert(ctx, tx, col); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing manifest: %w", err)
	}
	return nil
}

func insert(ctx context.Context, tx *sql.Tx, col *generator.Collection) error {
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO collection (seed, size, created_at) VALUES (?, ?, ?)`,
		col.Seed, len(col.Items), time.Now().Unix(),
	); err != nil {
		return fmt.Errorf("inserting collection: %w", err)
	}

	compStmt, err := tx.PrepareContext(ctx, `INSERT INTO compositions (idx, id, tier, key) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing compositions: %w", err)
	}
	defer compStmt.Close()

	entryStmt, err := tx.PrepareContext(ctx, `INSERT INTO entries (idx, position, entry) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing entries: %w", err)
	}
	defer entryStmt.Close()

	attrStmt, err := tx.PrepareContext(ctx, `INSERT INTO attributes (idx, position, name, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing attributes: %w", err)
	}
	defer attrStmt.Close()

	for _, item := range col.Items {
		if _, err := compStmt.ExecContext(ctx, item.Index, item.ID.String(), item.Tier, item.Key()); err != nil {
			return fmt.Errorf("inserting composition %d: %w", item.Index, err)
		}
		for pos, entry := range item.Entries {
			if _, err := entryStmt.ExecContext(ctx, item.Index, pos, entry); err != nil {
				return fmt.Errorf("inserting entry %d/%d: %w", item.Index, pos, err)
			}
		}
		for pos, attr := range item.Attributes {
			if _, err := attrStmt.ExecContext(ctx, item.Index, pos, attr.Name, attr.Value); err != nil {
				return fmt.Errorf("inserting attribute %d/%s: %w", item.Index, attr.Name, err)
			}
		}
	}
	return nil
}

// Manifest is an opened manifest database.
type Manifest struct {
	db   *sql.DB
	Seed string
	Size int
}

// Open opens an existing manifest for reading.
func Open(ctx context.Context, path string) (*Manifest, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("opening manifest: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	m := &Manifest{db: db}
	row := db.QueryRowContext(ctx, `SELECT seed, size FROM collection LIMIT 1`)
	if err := row.Scan(&m.Seed, &m.Size); err != nil {
		db.Close()
		return nil, fmt.Errorf("reading collection: %w", err)
	}
	return m, nil
}

// Close releases the database.
func (m *Manifest) Close() error {
	return m.db.Close()
}

// ValueCount is how often an attribute takes a value.
type ValueCount struct {
	Attribute string
	Value     string
	Count     int
	Share     float64 // Count over the collection size
}

// Stats returns the frequency of every attribute value, grouped by
// attribute (ordered by earliest record position) and by descending count
// within a group.
func (m *Manifest) Stats(ctx context.Context) ([]ValueCount, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT a.name, a.value, COUNT(*) AS n
		FROM attributes a
		JOIN (SELECT name, MIN(position) AS first FROM attributes GROUP BY name) o ON o.name = a.name
		GROUP BY a.name, a.value
		ORDER BY MIN(o.first), a.name, n DESC, a.value
	`)
	if err != nil {
		return nil, fmt.Errorf("querying stats: %w", err)
	}
	defer rows.Close()

	var stats []ValueCount
	for rows.Next() {
		var vc ValueCount
		if err := rows.Scan(&vc.Attribute, &vc.Value, &vc.Count); err != nil {
			return nil, fmt.Errorf("scanning stats: %w", err)
		}
		if m.Size > 0 {
			vc.Share = float64(vc.Count) / float64(m.Size)
		}
		stats = append(stats, vc)
	}
	return stats, rows.Err()
}

// Collection reads the stored collection back.
func (m *Manifest) Collection(ctx context.Context) (*generator.Collection, error) {
	col := &generator.Collection{Seed: m.Seed, Items: make([]generator.Composition, 0, m.Size)}

	rows, err := m.db.QueryContext(ctx, `SELECT idx, id, tier FROM compositions ORDER BY idx`)
	if err != nil {
		return nil, fmt.Errorf("querying compositions: %w", err)
	}
	defer rows.Close()

	byIndex := make(map[int]int)
	for rows.Next() {
		var c generator.Composition
		var id string
		if err := rows.Scan(&c.Index, &id, &c.Tier); err != nil {
			return nil, fmt.Errorf("scanning composition: %w", err)
		}
		if c.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("composition %d: %w", c.Index, err)
		}
		byIndex[c.Index] = len(col.Items)
		col.Items = append(col.Items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := m.scanEach(ctx, `SELECT idx, entry FROM entries ORDER BY idx, position`, func(idx int, v ...string) {
		item := &col.Items[byIndex[idx]]
		item.Entries = append(item.Entries, v[0])
	}); err != nil {
		return nil, fmt.Errorf("reading entries: %w", err)
	}

	if err := m.scanEach(ctx, `SELECT idx, name, value FROM attributes ORDER BY idx, position`, func(idx int, v ...string) {
		item := &col.Items[byIndex[idx]]
		item.Attributes = append(item.Attributes, sampler.Attribute{Name: v[0], Value: v[1]})
	}); err != nil {
		return nil, fmt.Errorf("reading attributes: %w", err)
	}

	return col, nil
}

// TierCounts returns the number of compositions per tier.
func (m *Manifest) TierCounts(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int)
	err := m.scanEach(ctx, `SELECT COUNT(*), tier FROM compositions GROUP BY tier`, func(n int, v ...string) {
		counts[v[0]] = n
	})
	if err != nil {
		return nil, fmt.Errorf("counting tiers: %w", err)
	}
	return counts, nil
}

// scanEach runs a query whose first column is an integer and the rest text.
func (m *Manifest) scanEach(ctx context.Context, query string, fn func(n int, v ...string)) error {
	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return err
	}

	var n int
	values := make([]string, len(cols)-1)
	dest := make([]any, len(cols))
	dest[0] = &n
	for i := range values {
		dest[i+1] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return err
		}
		fn(n, values...)
	}
	return rows.Err()
}
