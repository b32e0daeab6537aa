package domain

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

// --- mock geocoder ---

type mockGeocoder struct {
	result GeocodingResult
	err    error
	calls  int
}

func (m *mockGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (GeocodingResult, error) {
	m.calls++
	return m.result, m.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- tests ---

func TestResolveAddress_NilGeocoder(t *testing.T) {
	addr := ResolveAddress(context.Background(), nil, 43.238949, 76.889709, discardLogger())

	assert.Equal(t, "43.23895, 76.88971", addr)
}

func TestResolveAddress_FullAddress(t *testing.T) {
	geo := &mockGeocoder{
		result: GeocodingResult{
			Road:        "проспект Абая",
			HouseNumber: "12",
			Locality:    "Алматы",
		},
	}

	addr := ResolveAddress(context.Background(), geo, 43.238949, 76.889709, discardLogger())

	assert.Equal(t, "проспект Абая 12, Алматы", addr)
	assert.Equal(t, 1, geo.calls)
}

func TestResolveAddress_RoadWithoutHouseNumber(t *testing.T) {
	geo := &mockGeocoder{
		result: GeocodingResult{Road: "проспект Абая", Locality: "Алматы"},
	}

	addr := ResolveAddress(context.Background(), geo, 43.238949, 76.889709, discardLogger())

	assert.Equal(t, "проспект Абая, Алматы", addr)
}

func TestResolveAddress_DisplayNameFallback(t *testing.T) {
	geo := &mockGeocoder{
		result: GeocodingResult{DisplayName: "Алматы, Казахстан"},
	}

	addr := ResolveAddress(context.Background(), geo, 43.238949, 76.889709, discardLogger())

	assert.Equal(t, "Алматы, Казахстан", addr)
}

func TestResolveAddress_ErrorDegradesToNumeric(t *testing.T) {
	geo := &mockGeocoder{err: errors.New("connection refused")}

	addr := ResolveAddress(context.Background(), geo, 43.238949, 76.889709, discardLogger())

	assert.Equal(t, "43.23895, 76.88971", addr)
}

func TestResolveAddress_EmptyPayloadDegradesToNumeric(t *testing.T) {
	geo := &mockGeocoder{}

	addr := ResolveAddress(context.Background(), geo, 1.5, -2.25, discardLogger())

	assert.Equal(t, "1.50000, -2.25000", addr)
}
