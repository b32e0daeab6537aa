// Package domain models voice-reported road hazards.
//
// # Data Source
//
// Hazard reports originate from a mobile map client: the user speaks a
// command, the client's speech recognizer produces exactly one final
// transcript per session (non-continuous, no interim results), and the
// transcript is submitted together with the device's location fix. The
// pipeline turns that pair into a scored, geocoded, durably stored record.
//
// # Voice Commands
//
// Commands are recognized in Russian, matching the spoken language the
// client configures its recognizer for:
//
//	"зафиксируй <описание>"  →  record a hazard; the text after the trigger
//	                            word becomes the description. An empty
//	                            description defaults to "инцидент".
//	"удали"                  →  request deletion; the actual delete runs
//	                            through the store API under a privilege flag.
//
// Anything else is unrecognized and answered with guidance text, not an
// error. Interpretation is single-shot: no dialogue state survives between
// utterances.
//
// # Danger Scoring
//
// Severity is derived lexically from the description. Text is normalized
// (lowercased, ё folded to е, everything but Cyrillic letters and spaces
// stripped) and matched against an ordered list of hazard word stems, each
// carrying a weight between 1 (litter) and 10 (collision, fire, explosion).
// A stem matches as a whole-word prefix first, so inflected forms count
// ("аварию", "аварией" → "авари"); failing that, plain substring
// containment is tried. Each stem contributes its weight at most once.
// Urgency adverbs (очень, срочно, немедленно, критично, опасно) add a
// fixed +3 booster.
//
// The total score maps to three tiers:
//
//	score ≥ 9  →  high
//	score ≥ 5  →  medium
//	otherwise  →  low
//
// Three coarse tiers are deliberate: consumers only need a coloring signal,
// not a numeric score. Weights and thresholds are configuration constants
// in the default [Lexicon], compiled once at startup.
//
// # Addresses
//
// Coordinates resolve to a human-readable address through an injected
// [Geocoder]. Resolution is total: any network error, non-success response,
// or malformed payload degrades silently to the fixed-precision numeric
// form "lat, lon" (5 decimal places). Callers never see a resolution error.
//
// # Record Identity
//
// Record ids are assigned by the store layer: remote-backed records carry
// the backend-generated document id, records written only to the local
// fallback cache carry a "local-" prefixed id. CreatedAt is an epoch
// millisecond timestamp assigned once from the package clock at build time
// and is the sole sort key (descending, newest first).
package domain
