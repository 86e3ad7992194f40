package aggregate

import (
	"math"
	"strings"

	"github.com/okian/cohortinsights/internal/domain/model"
	"github.com/samber/lo"
)

// DefaultSessionsPerEmployee applies when no program configuration matches.
const DefaultSessionsPerEmployee = 5

// Round1 rounds to one decimal.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// percent returns num/den*100 rounded to one decimal, or 0 for an empty denominator.
func percent(num, den int) float64 {
	if den <= 0 {
		return 0
	}
	return Round1(float64(num) / float64(den) * 100)
}

func clamp100(v float64) float64 {
	return math.Min(v, 100)
}

// ActiveRoster returns the employees eligible for the program.
func ActiveRoster(employees []model.Employee) []model.Employee {
	return lo.Filter(employees, func(e model.Employee, _ int) bool { return e.Active() })
}

// AdoptionRate is the share of the roster with at least one completed session
// in the window. Coachees outside the roster are not counted. An empty roster
// yields 0.
func AdoptionRate(sessions []model.Session, roster []model.Employee, w model.Window) float64 {
	per := completedPerEmployee(sessions, w)
	adopted := lo.CountBy(lo.Uniq(lo.Map(roster, func(e model.Employee, _ int) string { return e.Key() })), func(key string) bool {
		return key != "" && per[key] > 0
	})
	return clamp100(percent(adopted, len(roster)))
}

// UtilizationRate is the share of the roster that completed the welcome
// survey, clamped to 100.
func UtilizationRate(baselines []model.BaselineEntry, roster []model.Employee) float64 {
	completions := lo.Uniq(lo.FilterMap(baselines, func(b model.BaselineEntry, _ int) (string, bool) {
		email := strings.ToLower(strings.TrimSpace(b.Email))
		return email, email != ""
	}))
	return clamp100(percent(len(completions), len(roster)))
}

// EngagementRate is the share of active participants (at least one completed
// session in the window) that completed two or more.
func EngagementRate(sessions []model.Session, w model.Window) float64 {
	per := completedPerEmployee(sessions, w)
	repeat := lo.CountBy(lo.Values(per), func(n int) bool { return n >= 2 })
	return percent(repeat, len(per))
}

// ProgressPct is sessions used over the roster's session allotment, clamped to 100.
func ProgressPct(used, rosterSize, perEmployee int) float64 {
	if perEmployee <= 0 {
		perEmployee = DefaultSessionsPerEmployee
	}
	return clamp100(percent(used, rosterSize*perEmployee))
}
