package domain

import (
	"strings"
	"unicode"
)

// MatchMethod records how a stem matched the normalized text.
type MatchMethod string

const (
	// MatchWord is a whole-word prefix match: the stem starts a word and
	// the rest of the word is inflection ("авари" matches "аварию").
	MatchWord MatchMethod = "word"
	// MatchSubstring is the plain containment fallback.
	MatchSubstring MatchMethod = "substring"
	// MatchBooster marks the urgency adverb bonus.
	MatchBooster MatchMethod = "booster"
)

// Evidence is a single scoring contribution, kept for debugging and tests.
// Evidence is transient: it is never persisted with the record.
type Evidence struct {
	Stem   string
	Weight int
	Method MatchMethod
}

// Classification is the outcome of scoring a description.
type Classification struct {
	Level    DangerLevel
	Score    int
	Evidence []Evidence
}

type stemWeight struct {
	stem   string
	weight int
}

// Lexicon holds the scoring configuration: an ordered stem/weight list,
// urgency boosters, and tier thresholds. It is static data compiled once,
// not rebuilt per classification.
type Lexicon struct {
	stems         []stemWeight
	boosters      []string
	boosterWeight int
	highAt        int
	mediumAt      int
}

// defaultLexicon carries the production weights. The range runs from 1 for
// trivial nuisances up to 10 for severe incidents.
var defaultLexicon = &Lexicon{
	stems: []stemWeight{
		{"дтп", 10},
		{"авари", 10},
		{"столкнов", 10},
		{"пожар", 10},
		{"взрыв", 10},
		{"ранен", 8},
		{"травм", 8},
		{"перекрыт", 8},
		{"убит", 9},
		{"затор", 6},
		{"пробк", 6},
		{"ремонт", 6},
		{"обвал", 7},
		{"опрокинул", 7},
		{"скольз", 5},
		{"лед", 5},
		{"гололед", 6},
		{"ям", 3},
		{"выбоин", 3},
		{"гряз", 2},
		{"луж", 2},
		{"мусор", 1},
	},
	boosters:      []string{"очень", "срочно", "немедленно", "критично", "опасно"},
	boosterWeight: 3,
	highAt:        9,
	mediumAt:      5,
}

// DefaultLexicon returns the production scoring configuration.
func DefaultLexicon() *Lexicon { return defaultLexicon }

// Classify scores a description with the default lexicon.
func Classify(text string) Classification { return defaultLexicon.Classify(text) }

// Classify derives the danger tier for a free-form description. It is total
// and deterministic: empty input and input without recognized stems yield
// DangerLow with no evidence.
func (l *Lexicon) Classify(text string) Classification {
	c := Classification{Level: DangerLow}

	norm := normalizeText(text)
	if norm == "" {
		return c
	}
	words := strings.Fields(norm)

	for _, sw := range l.stems {
		method, ok := matchStem(words, norm, sw.stem)
		if !ok {
			continue
		}
		c.Score += sw.weight
		c.Evidence = append(c.Evidence, Evidence{Stem: sw.stem, Weight: sw.weight, Method: method})
	}

	for _, booster := range l.boosters {
		if !containsWord(words, booster) {
			continue
		}
		c.Score += l.boosterWeight
		c.Evidence = append(c.Evidence, Evidence{Stem: "urgency_booster", Weight: l.boosterWeight, Method: MatchBooster})
		break
	}

	switch {
	case c.Score >= l.highAt:
		c.Level = DangerHigh
	case c.Score >= l.mediumAt:
		c.Level = DangerMedium
	}
	return c
}

// matchStem tries the whole-word prefix match before falling back to
// substring containment. Either way the stem counts exactly once.
func matchStem(words []string, norm, stem string) (MatchMethod, bool) {
	for _, w := range words {
		if strings.HasPrefix(w, stem) {
			return MatchWord, true
		}
	}
	if strings.Contains(norm, stem) {
		return MatchSubstring, true
	}
	return "", false
}

func containsWord(words []string, want string) bool {
	for _, w := range words {
		if w == want {
			return true
		}
	}
	return false
}

// normalizeText lowercases, folds ё to е, strips everything that is not a
// Cyrillic letter or whitespace, and collapses whitespace runs.
func normalizeText(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		case r == 'ё':
			b.WriteRune('е')
		case unicode.Is(unicode.Cyrillic, r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
