package domain

import (
	"context"
	"fmt"
	"log/slog"
)

// FallbackAddress formats coordinates as the fixed-precision numeric
// address used whenever resolution fails or is skipped.
func FallbackAddress(lat, lon float64) string {
	return fmt.Sprintf("%.5f, %.5f", lat, lon)
}

// ResolveAddress turns a coordinate pair into a human-readable address.
// It never fails outward: a nil geocoder, a transport error, or an empty
// payload all degrade to the numeric fallback (graceful degradation).
// Preference order: named road + house number + locality, then the
// provider's display name, then the numeric form.
func ResolveAddress(ctx context.Context, geocoder Geocoder, lat, lon float64, logger *slog.Logger) string {
	fallback := FallbackAddress(lat, lon)
	if geocoder == nil {
		return fallback
	}

	result, err := geocoder.ReverseGeocode(ctx, lat, lon)
	if err != nil {
		logger.Warn("reverse geocoding failed",
			"lat", lat,
			"lon", lon,
			"error", err,
		)
		return fallback
	}

	if result.Road != "" {
		addr := result.Road
		if result.HouseNumber != "" {
			addr += " " + result.HouseNumber
		}
		if result.Locality != "" {
			addr += ", " + result.Locality
		}
		return addr
	}
	if result.DisplayName != "" {
		return result.DisplayName
	}
	return fallback
}
