package domain

import "context"

// GeocodingResult contains the structured address payload returned by a
// reverse-geocoding provider.
type GeocodingResult struct {
	Road        string
	HouseNumber string
	Locality    string
	DisplayName string // provider's generic formatted name
}

// Geocoder resolves coordinates to address details.
type Geocoder interface {
	// ReverseGeocode converts a coordinate pair to address details.
	ReverseGeocode(ctx context.Context, lat, lon float64) (GeocodingResult, error)
}
