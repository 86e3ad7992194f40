package aggregate

import (
	"sort"
	"strings"

	"github.com/okian/cohortinsights/internal/domain/model"
	"github.com/okian/cohortinsights/internal/domain/scoring"
	"github.com/samber/lo"
)

// Session theme categories.
const (
	ThemeLeadership    = "Leadership"
	ThemeCommunication = "Communication"
	ThemeWellbeing     = "Wellbeing"
)

// Count is a labelled tally.
type Count struct {
	Label string  `json:"label"`
	Count int     `json:"count"`
	Pct   float64 `json:"pct"`
}

// Theme is the frequency of one session theme category.
type Theme struct {
	Category  string  `json:"category"`
	Sessions  int     `json:"sessions"`
	Pct       float64 `json:"pct"`
	SubThemes []Count `json:"sub_themes,omitempty"`
}

// Themes computes theme frequency over the in-window sessions. Sub-themes are
// tallied independently and the top n of each category are kept.
func Themes(sessions []model.Session, w model.Window, topN int) []Theme {
	categories := []struct {
		name string
		tag  func(model.Session) model.ThemeTag
	}{
		{ThemeLeadership, func(s model.Session) model.ThemeTag { return s.Leadership }},
		{ThemeCommunication, func(s model.Session) model.ThemeTag { return s.Communication }},
		{ThemeWellbeing, func(s model.Session) model.ThemeTag { return s.Wellbeing }},
	}

	total := 0
	for _, s := range sessions {
		if w.Contains(s.SessionDate) {
			total++
		}
	}

	out := make([]Theme, 0, len(categories))
	for _, c := range categories {
		th := Theme{Category: c.name}
		subs := newTally()
		for _, s := range sessions {
			if !w.Contains(s.SessionDate) {
				continue
			}
			tag := c.tag(s)
			if !tag.Present() {
				continue
			}
			th.Sessions++
			for _, v := range tag.Values() {
				subs.add(v)
			}
		}
		th.Pct = percent(th.Sessions, total)
		th.SubThemes = subs.top(topN, th.Sessions)
		out = append(out, th)
	}
	return out
}

// DefaultThemeKeywords classifies free-text feedback into themes.
func DefaultThemeKeywords() map[string][]string {
	return map[string][]string{
		"Confidence":        {"confidence", "confident", "self-assur", "believe in myself"},
		"Communication":     {"communicat", "listen", "conversation", "feedback", "speak"},
		"Leadership":        {"lead", "manag", "delegat", "team", "decision"},
		"Work-life balance": {"balance", "stress", "burnout", "boundar", "overwhelm", "wellbeing"},
		"Career growth":     {"career", "promotion", "growth", "goal", "develop"},
		"Coach experience":  {"coach", "session", "support"},
	}
}

// FeedbackThemes counts survey free-text answers mentioning each theme
// category's keywords, sorted descending.
func FeedbackThemes(responses []model.SurveyResponse, keywords map[string][]string) []Count {
	categories := lo.Keys(keywords)
	sort.Strings(categories)
	tally := newTally()
	answers := 0
	for _, r := range responses {
		for _, text := range r.FreeText() {
			answers++
			lower := strings.ToLower(text)
			for _, category := range categories {
				for _, w := range keywords[category] {
					if w != "" && strings.Contains(lower, strings.ToLower(w)) {
						tally.add(category)
						break
					}
				}
			}
		}
	}
	return tally.top(0, answers)
}

// Quotes collects feedback free text and ranks it.
func Quotes(responses []model.SurveyResponse, scorer scoring.Scorer, limit int) []scoring.Quote {
	var candidates []string
	for _, r := range responses {
		candidates = append(candidates, r.FreeText()...)
	}
	return scorer.Rank(candidates, limit)
}

// tally counts labels case-insensitively, keeping the first spelling seen.
type tally struct {
	order  []string
	counts map[string]int
	labels map[string]string
}

func newTally() *tally {
	return &tally{counts: make(map[string]int), labels: make(map[string]string)}
}

func (t *tally) add(label string) {
	label = strings.TrimSpace(label)
	if label == "" {
		return
	}
	key := strings.ToLower(label)
	if _, ok := t.counts[key]; !ok {
		t.order = append(t.order, key)
		t.labels[key] = label
	}
	t.counts[key]++
}

// top returns counts sorted descending, ties in first-seen order; n <= 0 keeps all.
func (t *tally) top(n, total int) []Count {
	out := make([]Count, 0, len(t.order))
	for _, key := range t.order {
		out = append(out, Count{Label: t.labels[key], Count: t.counts[key], Pct: percent(t.counts[key], total)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
