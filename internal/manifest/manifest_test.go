package manifest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/f3rmion/traitforge/internal/generator"
	"github.com/f3rmion/traitforge/internal/sampler"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCollection() *generator.Collection {
	col := &generator.Collection{Seed: "manifest"}
	rows := []struct {
		tier, bg, hat string
	}{
		{"Common", "red", "cap"},
		{"Common", "blue", "none"},
		{"Gold", "red", "crown"},
		{"Common", "red", "none"},
	}
	for i, r := range rows {
		entries := []string{"1-bg/" + r.bg, "2-hat/" + r.hat}
		col.Items = append(col.Items, generator.Composition{
			Index:   i,
			ID:      uuid.NewSHA1(uuid.NameSpaceOID, []byte(r.tier+r.bg+r.hat)),
			Tier:    r.tier,
			Entries: entries,
			Attributes: sampler.Attributes{
				{Name: sampler.TierAttribute, Value: r.tier},
				{Name: "Background", Value: r.bg},
				{Name: "Hat", Value: r.hat},
			},
		})
	}
	return col
}

func save(t *testing.T) *Manifest {
	t.Helper()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "manifest.db")

	require.NoError(t, Save(ctx, path, testCollection()))
	// Saving twice replaces the file instead of failing on unique keys.
	require.NoError(t, Save(ctx, path, testCollection()))

	m, err := Open(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	return m
}

func TestOpen(t *testing.T) {
	m := save(t)
	assert.Equal(t, "manifest", m.Seed)
	assert.Equal(t, 4, m.Size)

	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "missing.db"))
	assert.Error(t, err)
}

func TestCollectionRoundTrip(t *testing.T) {
	m := save(t)

	col, err := m.Collection(context.Background())
	require.NoError(t, err)
	if diff := cmp.Diff(testCollection(), col); diff != "" {
		t.Errorf("collection mismatch (-want +got):\n%s", diff)
	}
}

func TestStats(t *testing.T) {
	m := save(t)

	stats, err := m.Stats(context.Background())
	require.NoError(t, err)

	want := []ValueCount{
		{Attribute: "Tier", Value: "Common", Count: 3, Share: 0.75},
		{Attribute: "Tier", Value: "Gold", Count: 1, Share: 0.25},
		{Attribute: "Background", Value: "red", Count: 3, Share: 0.75},
		{Attribute: "Background", Value: "blue", Count: 1, Share: 0.25},
		{Attribute: "Hat", Value: "none", Count: 2, Share: 0.5},
		{Attribute: "Hat", Value: "cap", Count: 1, Share: 0.25},
		{Attribute: "Hat", Value: "crown", Count: 1, Share: 0.25},
	}
	assert.Equal(t, want, stats)
}

func TestTierCounts(t *testing.T) {
	m := save(t)

	counts, err := m.TierCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Common": 3, "Gold": 1}, counts)
}
