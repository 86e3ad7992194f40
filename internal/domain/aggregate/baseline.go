package aggregate

import (
	"strings"

	"github.com/okian/cohortinsights/internal/domain/model"
	"github.com/samber/lo"
)

// Wellbeing metric names.
const (
	MetricSatisfaction    = "Satisfaction"
	MetricProductivity    = "Productivity"
	MetricWorkLifeBalance = "Work-life balance"
)

// NormalizeScale rescales a sample to 1-10 when its observed maximum is at
// most 5. Samples already on a 1-10 scale are returned unchanged.
func NormalizeScale(values []float64) []float64 {
	if len(values) == 0 {
		return values
	}
	if lo.Max(values) > 5 {
		return values
	}
	return lo.Map(values, func(v float64, _ int) float64 { return v * 2 })
}

// WellbeingDelta compares baseline and current averages of one metric on a
// 1-10 scale. Either side is nil when no sample exists.
type WellbeingDelta struct {
	Metric   string   `json:"metric"`
	Baseline *float64 `json:"baseline"`
	Current  *float64 `json:"current"`
	Delta    *float64 `json:"delta"`
}

type wellbeingField struct {
	name     string
	baseline func(model.BaselineEntry) *float64
	current  func(model.SurveyResponse) *float64
}

var wellbeingFields = []wellbeingField{
	{MetricSatisfaction, func(b model.BaselineEntry) *float64 { return b.Satisfaction }, func(r model.SurveyResponse) *float64 { return r.Satisfaction }},
	{MetricProductivity, func(b model.BaselineEntry) *float64 { return b.Productivity }, func(r model.SurveyResponse) *float64 { return r.Productivity }},
	{MetricWorkLifeBalance, func(b model.BaselineEntry) *float64 { return b.WorkLifeBalance }, func(r model.SurveyResponse) *float64 { return r.WorkLifeBalance }},
}

// Wellbeing computes the baseline-vs-current delta per wellbeing metric. Each
// metric's samples are normalized independently.
func Wellbeing(baselines []model.BaselineEntry, responses []model.SurveyResponse) []WellbeingDelta {
	out := make([]WellbeingDelta, 0, len(wellbeingFields))
	for _, f := range wellbeingFields {
		before := NormalizeScale(lo.FilterMap(baselines, func(b model.BaselineEntry, _ int) (float64, bool) {
			v := f.baseline(b)
			return deref(v), v != nil
		}))
		after := NormalizeScale(lo.FilterMap(responses, func(r model.SurveyResponse, _ int) (float64, bool) {
			v := f.current(r)
			return deref(v), v != nil
		}))
		d := WellbeingDelta{Metric: f.name, Baseline: mean(before), Current: mean(after)}
		if d.Baseline != nil && d.Current != nil {
			delta := Round1(*d.Current - *d.Baseline)
			d.Delta = &delta
		}
		out = append(out, d)
	}
	return out
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// Demographics tallies baseline demographic fields.
type Demographics struct {
	AgeRange []Count `json:"age_range"`
	Gender   []Count `json:"gender"`
	Tenure   []Count `json:"tenure"`
	Role     []Count `json:"role"`
}

// Demographic builds the demographic tallies of the baseline entries.
func Demographic(baselines []model.BaselineEntry) Demographics {
	field := func(get func(model.BaselineEntry) string) []Count {
		t := newTally()
		for _, b := range baselines {
			t.add(get(b))
		}
		return t.top(0, len(baselines))
	}
	return Demographics{
		AgeRange: field(func(b model.BaselineEntry) string { return b.AgeRange }),
		Gender:   field(func(b model.BaselineEntry) string { return b.Gender }),
		Tenure:   field(func(b model.BaselineEntry) string { return b.Tenure }),
		Role:     field(func(b model.BaselineEntry) string { return b.Role }),
	}
}

// FocusAreas counts focus areas from baseline flags and focus selections. A
// participant counts once per area. Percentages are over distinct participants.
func FocusAreas(baselines []model.BaselineEntry, selections []model.FocusSelection) []Count {
	t := newTally()
	seen := make(map[string]struct{})
	people := make(map[string]struct{})
	add := func(email, area string) {
		person := strings.ToLower(strings.TrimSpace(email))
		key := person + "\x00" + strings.ToLower(strings.TrimSpace(area))
		if person != "" {
			if _, dup := seen[key]; dup {
				return
			}
			seen[key] = struct{}{}
			people[person] = struct{}{}
		}
		t.add(area)
	}
	for _, b := range baselines {
		for _, area := range b.FocusAreas.Selected() {
			add(b.Email, area)
		}
	}
	for _, s := range selections {
		add(s.Email, s.Area)
	}
	return t.top(0, len(people))
}
