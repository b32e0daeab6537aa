package domain

import (
	"context"
	"log/slog"
	"strings"
)

// Builder assembles canonical hazard records from interpreted voice input.
// Building never fails: address resolution degrades to the numeric fallback
// and classification is total.
type Builder struct {
	geocoder Geocoder
	logger   *slog.Logger
}

// NewBuilder creates a Builder. Pass a nil geocoder to skip address
// resolution entirely.
func NewBuilder(geocoder Geocoder, logger *slog.Logger) *Builder {
	return &Builder{geocoder: geocoder, logger: logger}
}

// Build resolves the address, classifies the description, extracts an
// explicit cause, and stamps CreatedAt from the package clock. The id is
// left empty; the store assigns it on create.
func (b *Builder) Build(ctx context.Context, description string, coords Coords) HazardRecord {
	if strings.TrimSpace(description) == "" {
		description = defaultDescription
	}

	address := ResolveAddress(ctx, b.geocoder, coords.Lat, coords.Lon, b.logger)
	classification := Classify(description)

	return HazardRecord{
		Text:      description,
		Coords:    &coords,
		Danger:    classification.Level,
		Address:   address,
		Reason:    ExtractReason(description),
		CreatedAt: clock.Now().UnixMilli(),
	}
}

// causeStems name explicit hazard causes, tested in order against each
// word of the normalized description.
var causeStems = []string{"лед", "гололед", "туман", "авар", "дтп", "столкнов", "пожар"}

// ExtractReason returns the first cause stem that matches the description
// as a whole-word prefix, case-insensitive. Empty when no explicit cause is
// mentioned; the booster and weight machinery are deliberately not involved.
func ExtractReason(description string) string {
	for _, w := range strings.Fields(normalizeText(description)) {
		for _, stem := range causeStems {
			if strings.HasPrefix(w, stem) {
				return stem
			}
		}
	}
	return ""
}
