package nominatim

import (
	"context"
	"errors"
	"testing"

	"github.com/couchcryptid/hazard-intake-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mock for cache tests ---

type countingGeocoder struct {
	calls  int
	result domain.GeocodingResult
	err    error
}

func (m *countingGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (domain.GeocodingResult, error) {
	m.calls++
	return m.result, m.err
}

// --- CachedGeocoder tests ---

func TestCachedGeocoder_CacheHit(t *testing.T) {
	inner := &countingGeocoder{
		result: domain.GeocodingResult{Road: "проспект Абая", Locality: "Алматы"},
	}
	cached := NewCachedGeocoder(inner, 10, testMetrics())

	r1, err := cached.ReverseGeocode(context.Background(), 43.238949, 76.889709)
	require.NoError(t, err)
	assert.Equal(t, "проспект Абая", r1.Road)

	r2, err := cached.ReverseGeocode(context.Background(), 43.238949, 76.889709)
	require.NoError(t, err)
	assert.Equal(t, "проспект Абая", r2.Road)

	assert.Equal(t, 1, inner.calls, "should only call inner once")
}

func TestCachedGeocoder_KeyRoundsToFiveDecimals(t *testing.T) {
	inner := &countingGeocoder{
		result: domain.GeocodingResult{Road: "улица"},
	}
	cached := NewCachedGeocoder(inner, 10, testMetrics())

	_, _ = cached.ReverseGeocode(context.Background(), 43.2389491, 76.8897091)
	_, _ = cached.ReverseGeocode(context.Background(), 43.2389493, 76.8897093)

	assert.Equal(t, 1, inner.calls, "coordinates within 1e-5 share a key")
}

func TestCachedGeocoder_DifferentKeysMiss(t *testing.T) {
	inner := &countingGeocoder{
		result: domain.GeocodingResult{Road: "улица"},
	}
	cached := NewCachedGeocoder(inner, 10, testMetrics())

	_, _ = cached.ReverseGeocode(context.Background(), 43.23, 76.88)
	_, _ = cached.ReverseGeocode(context.Background(), 51.16, 71.47)

	assert.Equal(t, 2, inner.calls)
}

func TestCachedGeocoder_DoesNotCacheEmptyResults(t *testing.T) {
	inner := &countingGeocoder{}
	cached := NewCachedGeocoder(inner, 10, testMetrics())

	_, _ = cached.ReverseGeocode(context.Background(), 0.0, 0.0)
	_, _ = cached.ReverseGeocode(context.Background(), 0.0, 0.0)

	assert.Equal(t, 2, inner.calls, "empty results should be retried")
}

func TestCachedGeocoder_DoesNotCacheErrors(t *testing.T) {
	inner := &countingGeocoder{err: errors.New("upstream down")}
	cached := NewCachedGeocoder(inner, 10, testMetrics())

	_, err := cached.ReverseGeocode(context.Background(), 43.23, 76.88)
	require.Error(t, err)
	_, err = cached.ReverseGeocode(context.Background(), 43.23, 76.88)
	require.Error(t, err)

	assert.Equal(t, 2, inner.calls)
}

// --- LRU cache unit tests ---

func TestLRUCache_BasicGetPut(t *testing.T) {
	c := newLRUCache(3)

	c.put("a", domain.GeocodingResult{Road: "A"})
	got, ok := c.get("a")
	require.True(t, ok)
	assert.Equal(t, "A", got.Road)

	_, ok = c.get("missing")
	assert.False(t, ok)
}

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", domain.GeocodingResult{Road: "A"})
	c.put("b", domain.GeocodingResult{Road: "B"})

	// Touch "a" so "b" becomes the eviction candidate.
	_, ok := c.get("a")
	require.True(t, ok)

	c.put("c", domain.GeocodingResult{Road: "C"})

	_, ok = c.get("b")
	assert.False(t, ok, "least recently used entry should be evicted")
	_, ok = c.get("a")
	assert.True(t, ok)
	_, ok = c.get("c")
	assert.True(t, ok)
}

func TestLRUCache_UpdateExistingKey(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", domain.GeocodingResult{Road: "old"})
	c.put("a", domain.GeocodingResult{Road: "new"})

	got, ok := c.get("a")
	require.True(t, ok)
	assert.Equal(t, "new", got.Road)
}
