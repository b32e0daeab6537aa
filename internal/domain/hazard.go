package domain

import (
	"encoding/json"
	"fmt"
)

// DangerLevel is the three-tier severity signal derived from a hazard
// description.
type DangerLevel string

const (
	DangerLow    DangerLevel = "low"
	DangerMedium DangerLevel = "medium"
	DangerHigh   DangerLevel = "high"
)

// Valid reports whether the level is one of the three known tiers.
func (d DangerLevel) Valid() bool {
	switch d {
	case DangerLow, DangerMedium, DangerHigh:
		return true
	}
	return false
}

// Coords is a WGS-84 latitude/longitude pair. Records either carry both
// components or no coordinates at all, never half of them, which is why the
// wire form is a 2-element array rather than an object with optional fields.
type Coords struct {
	Lat float64
	Lon float64
}

// MarshalJSON encodes the pair as [lat, lon], the shape the shared hazard
// collection has always used.
func (c Coords) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{c.Lat, c.Lon})
}

// UnmarshalJSON decodes a [lat, lon] array, rejecting anything that is not
// exactly two numbers.
func (c *Coords) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("parse coords: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("parse coords: expected 2 elements, got %d", len(pair))
	}
	c.Lat = pair[0]
	c.Lon = pair[1]
	return nil
}

// HazardRecord is the durable unit: one voice-reported road hazard.
// Records are immutable after creation; the only lifecycle transition is
// full deletion. Field names follow the shared hazard collection schema.
type HazardRecord struct {
	// ID is assigned by the store: the backend document id, or a
	// "local-" prefixed id when the record exists only in the fallback cache.
	ID string `json:"id,omitempty"`

	// Text is the free-form description extracted from the transcript.
	Text string `json:"text"`

	// Coords is the reported location, nil when no fix was available.
	Coords *Coords `json:"coords,omitempty"`

	// Danger is computed once at creation and persisted verbatim; it is
	// only recomputed on read when a stored document is missing it.
	Danger DangerLevel `json:"danger"`

	// Address is the resolved street address, or the numeric
	// "lat, lon" fallback when resolution failed or was skipped.
	Address string `json:"address"`

	// Reason names the explicit hazard cause found in the text
	// (e.g. "лед", "пожар"), empty when none was detected.
	Reason string `json:"reason,omitempty"`

	// CreatedAt is an epoch millisecond timestamp assigned once at
	// creation. It is the sole sort key: listings are newest first.
	CreatedAt int64 `json:"createdAt"`
}
