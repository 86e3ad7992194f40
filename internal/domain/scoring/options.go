package scoring

// Option applies a configuration option to the QuoteScorer.
type Option func(*QuoteScorer)

// WithKeywordWeights sets keyword weights. Positive weights reward action and
// outcome words; negative weights penalize complaints.
func WithKeywordWeights(weights map[string]float64) Option {
	return func(s *QuoteScorer) {
		// Copy the weights map to avoid external modifications
		s.weights = make(map[string]float64, len(weights))
		for kw, w := range weights {
			if kw = normalize(kw); kw != "" && w != 0 {
				s.weights[kw] = w
			}
		}
	}
}

// WithBoilerplate sets the low-content phrases that disqualify a quote.
func WithBoilerplate(phrases []string) Option {
	return func(s *QuoteScorer) {
		if len(phrases) > 0 {
			s.boilerplate = make([]string, 0, len(phrases))
			for _, p := range phrases {
				if p = normalize(p); p != "" {
					s.boilerplate = append(s.boilerplate, p)
				}
			}
		}
	}
}

// WithMinLength sets the minimum quote length in characters.
func WithMinLength(n int) Option {
	return func(s *QuoteScorer) {
		if n > 0 {
			s.minLength = n
		}
	}
}

// WithLengthBonus rewards quotes whose length falls in [lo, hi].
func WithLengthBonus(lo, hi int, bonus float64) Option {
	return func(s *QuoteScorer) {
		if lo > 0 && hi > lo {
			s.bonusMin, s.bonusMax, s.lengthBonus = lo, hi, bonus
		}
	}
}

// WithLimit sets how many quotes Rank keeps by default.
func WithLimit(n int) Option {
	return func(s *QuoteScorer) {
		if n > 0 {
			s.limit = n
		}
	}
}
