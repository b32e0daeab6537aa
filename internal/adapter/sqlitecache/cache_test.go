package sqlitecache

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/couchcryptid/hazard-intake-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func sampleRecords() []domain.HazardRecord {
	return []domain.HazardRecord{
		{
			ID:        "doc-1",
			Text:      "дтп на перекрестке",
			Coords:    &domain.Coords{Lat: 43.23, Lon: 76.88},
			Danger:    domain.DangerHigh,
			Address:   "проспект Абая, Алматы",
			Reason:    "дтп",
			CreatedAt: 1700000000002,
		},
		{
			ID:        "local-abc",
			Text:      "яма",
			Danger:    domain.DangerLow,
			Address:   "43.23895, 76.88971",
			CreatedAt: 1700000000001,
		},
	}
}

func TestCache_LoadEmpty(t *testing.T) {
	c := openTestCache(t)

	recs, err := c.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestCache_SaveLoadRoundTrip(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Save(ctx, sampleRecords()))

	got, err := c.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleRecords(), got)
}

func TestCache_SaveReplacesWholesale(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Save(ctx, sampleRecords()))
	require.NoError(t, c.Save(ctx, sampleRecords()[:1]))

	got, err := c.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "doc-1", got[0].ID)
}

func TestCache_SaveNilWritesEmptyList(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Save(ctx, sampleRecords()))
	require.NoError(t, c.Save(ctx, nil))

	got, err := c.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCache_Clear(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Save(ctx, sampleRecords()))
	require.NoError(t, c.Clear(ctx))

	got, err := c.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCache_Ping(t *testing.T) {
	c := openTestCache(t)
	assert.NoError(t, c.Ping(context.Background()))
}

func TestCache_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "hazards.db")
	ctx := context.Background()

	c1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, c1.Save(ctx, sampleRecords()))
	require.NoError(t, c1.Close())

	c2, err := Open(path)
	require.NoError(t, err)
	defer c2.Close()

	got, err := c2.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleRecords(), got)
}
