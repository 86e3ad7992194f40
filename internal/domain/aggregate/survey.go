package aggregate

import (
	"math"

	"github.com/okian/cohortinsights/internal/domain/model"
	"github.com/samber/lo"
)

// NPS returns the Net Promoter Score over responses that carry a score, and
// the number of scored responses. The score is nil when none exist.
func NPS(responses []model.SurveyResponse) (*int, int) {
	scores := lo.FilterMap(responses, func(r model.SurveyResponse, _ int) (float64, bool) {
		if r.NPS == nil {
			return 0, false
		}
		return *r.NPS, true
	})
	if len(scores) == 0 {
		return nil, 0
	}
	promoters := lo.CountBy(scores, func(s float64) bool { return s >= 9 })
	detractors := lo.CountBy(scores, func(s float64) bool { return s <= 6 })
	nps := int(math.Round(float64(promoters-detractors) / float64(len(scores)) * 100))
	return &nps, len(scores)
}

// CoachSatisfaction averages the coach-satisfaction scores; nil when none exist.
func CoachSatisfaction(responses []model.SurveyResponse) *float64 {
	return mean(lo.FilterMap(responses, func(r model.SurveyResponse, _ int) (float64, bool) {
		if r.CoachSatisfaction == nil {
			return 0, false
		}
		return *r.CoachSatisfaction, true
	}))
}

// ByType keeps responses of the given survey subtypes.
func ByType(responses []model.SurveyResponse, types ...string) []model.SurveyResponse {
	return lo.Filter(responses, func(r model.SurveyResponse, _ int) bool {
		return lo.Contains(types, r.SurveyType)
	})
}

// InWindow keeps responses submitted inside w. Undated responses are kept
// only for an open window.
func InWindow(responses []model.SurveyResponse, w model.Window) []model.SurveyResponse {
	return lo.Filter(responses, func(r model.SurveyResponse, _ int) bool { return w.Contains(r.SubmittedAt) })
}

func mean(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	m := Round1(lo.Sum(values) / float64(len(values)))
	return &m
}
