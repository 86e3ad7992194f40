// Package scoring ranks free-text feedback quotes for the highlight section.
package scoring

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Default scoring configuration constants.
const (
	defaultMinLength   = 50
	defaultBonusMin    = 80
	defaultBonusMax    = 300
	defaultLengthBonus = 2
	defaultLimit       = 5
	longQuotePenalty   = 1
	longQuoteLength    = 500
)

// DefaultPositiveKeywords reward concrete outcomes and actions.
func DefaultPositiveKeywords() map[string]float64 {
	return map[string]float64{
		"helped":         2,
		"learned":        2,
		"confidence":     2,
		"confident":      2,
		"clarity":        2,
		"improved":       2,
		"valuable":       2,
		"practical":      1.5,
		"tools":          1,
		"strategies":     1.5,
		"insight":        1,
		"growth":         1,
		"grateful":       1,
		"transformative": 3,
		"recommend":      1.5,
		"applied":        2,
		"team":           1,
	}
}

// DefaultNegativeKeywords penalize complaints.
func DefaultNegativeKeywords() map[string]float64 {
	return map[string]float64{
		"waste":        -3,
		"boring":       -2,
		"disappointed": -3,
		"not helpful":  -3,
		"rushed":       -2,
		"cancelled":    -1,
		"frustrating":  -2,
	}
}

// DefaultBoilerplate lists low-content answers.
func DefaultBoilerplate() []string {
	return []string{"n/a", "na", "none", "nothing", "not sure", "no comment", "no comments", "nothing to add", "all good", "-"}
}

// Quote is a ranked feedback highlight.
type Quote struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// Scorer ranks candidate quotes.
type Scorer interface {
	// Score returns the heuristic score and whether the text qualifies at all.
	Score(text string) (float64, bool)
	// Rank filters, scores, dedupes and keeps the top limit quotes.
	Rank(candidates []string, limit int) []Quote
}

// QuoteScorer implements Scorer with a weighted keyword heuristic.
type QuoteScorer struct {
	weights     map[string]float64
	boilerplate []string
	minLength   int
	bonusMin    int
	bonusMax    int
	lengthBonus float64
	limit       int
}

// NewQuoteScorer creates a scorer with configuration options.
func NewQuoteScorer(opts ...Option) *QuoteScorer {
	weights := DefaultPositiveKeywords()
	for k, v := range DefaultNegativeKeywords() {
		weights[k] = v
	}
	s := &QuoteScorer{
		minLength:   defaultMinLength,
		bonusMin:    defaultBonusMin,
		bonusMax:    defaultBonusMax,
		lengthBonus: defaultLengthBonus,
		limit:       defaultLimit,
	}
	WithKeywordWeights(weights)(s)
	WithBoilerplate(DefaultBoilerplate())(s)

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Score computes the heuristic score for text.
func (s *QuoteScorer) Score(text string) (float64, bool) {
	norm := normalize(text)
	n := utf8.RuneCountInString(strings.TrimSpace(text))
	if n < s.minLength || s.isBoilerplate(norm) {
		return 0, false
	}

	var score float64
	for kw, w := range s.weights {
		if strings.Contains(norm, kw) {
			score += w
		}
	}
	if n >= s.bonusMin && n <= s.bonusMax {
		score += s.lengthBonus
	}
	if n > longQuoteLength {
		score -= longQuotePenalty
	}
	return score, true
}

// Rank filters, scores, dedupes and keeps the top limit quotes (the
// configured default when limit <= 0). Ties keep input order.
func (s *QuoteScorer) Rank(candidates []string, limit int) []Quote {
	if limit <= 0 {
		limit = s.limit
	}
	seen := make(map[string]struct{}, len(candidates))
	quotes := make([]Quote, 0, len(candidates))
	for _, c := range candidates {
		key := normalize(c)
		if _, dup := seen[key]; dup {
			continue
		}
		score, ok := s.Score(c)
		if !ok {
			continue
		}
		seen[key] = struct{}{}
		quotes = append(quotes, Quote{Text: strings.TrimSpace(c), Score: score})
	}
	sort.SliceStable(quotes, func(i, j int) bool { return quotes[i].Score > quotes[j].Score })
	if len(quotes) > limit {
		quotes = quotes[:limit]
	}
	return quotes
}

func (s *QuoteScorer) isBoilerplate(norm string) bool {
	for _, b := range s.boilerplate {
		if norm == b {
			return true
		}
		if strings.HasPrefix(norm, b) && len(norm) > len(b) {
			switch norm[len(b)] {
			case ' ', '.', ',', '!', ';', ':':
				return true
			}
		}
	}
	return false
}

// normalize lower-cases text and collapses whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
