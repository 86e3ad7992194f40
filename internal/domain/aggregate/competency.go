package aggregate

import (
	"sort"
	"strings"

	"github.com/okian/cohortinsights/internal/domain/model"
	"github.com/samber/lo"
)

// CompetencyGrowth is the pre/post comparison for one competency.
type CompetencyGrowth struct {
	Competency   string  `json:"competency"`
	Participants int     `json:"participants"`
	AvgPre       float64 `json:"avg_pre"`
	AvgPost      float64 `json:"avg_post"`
	GrowthPct    float64 `json:"growth_pct"`
}

// CompetencyReport aggregates competency growth across a cohort.
type CompetencyReport struct {
	// Participants counts distinct participants with at least one complete row.
	Participants int                `json:"participants"`
	Competencies []CompetencyGrowth `json:"competencies"`
	// GrowthPct is computed over the sums of all complete pre and post scores;
	// nil when no row is complete.
	GrowthPct *float64 `json:"growth_pct"`
}

// Empty reports whether there is no qualifying competency data.
func (r CompetencyReport) Empty() bool { return r.Participants == 0 }

// Growth computes competency growth over rows where both scores are present
// and nonzero. Partial rows are excluded from every statistic.
func Growth(rows []model.CompetencyScore) CompetencyReport {
	complete := lo.Filter(rows, func(r model.CompetencyScore, _ int) bool { return r.Complete() })
	if len(complete) == 0 {
		return CompetencyReport{}
	}

	type acc struct {
		label     string
		rows      int
		pre, post float64
		people    map[string]struct{}
	}
	byName := make(map[string]*acc)
	participants := make(map[string]struct{})
	var totalPre, totalPost float64

	for _, r := range complete {
		name := strings.TrimSpace(r.Competency)
		key := strings.ToLower(name)
		a, ok := byName[key]
		if !ok {
			a = &acc{label: name, people: make(map[string]struct{})}
			byName[key] = a
		}
		a.rows++
		a.pre += *r.Pre
		a.post += *r.Post
		pk := r.ParticipantKey()
		a.people[pk] = struct{}{}
		participants[pk] = struct{}{}
		totalPre += *r.Pre
		totalPost += *r.Post
	}

	out := CompetencyReport{Participants: len(participants)}
	for _, a := range byName {
		avgPre, avgPost := a.pre/float64(a.rows), a.post/float64(a.rows)
		out.Competencies = append(out.Competencies, CompetencyGrowth{
			Competency:   a.label,
			Participants: len(a.people),
			AvgPre:       Round1(avgPre),
			AvgPost:      Round1(avgPost),
			GrowthPct:    Round1((avgPost - avgPre) / avgPre * 100),
		})
	}
	sort.Slice(out.Competencies, func(i, j int) bool {
		ci, cj := out.Competencies[i], out.Competencies[j]
		if ci.GrowthPct != cj.GrowthPct {
			return ci.GrowthPct > cj.GrowthPct
		}
		return ci.Competency < cj.Competency
	})
	g := Round1((totalPost - totalPre) / totalPre * 100)
	out.GrowthPct = &g
	return out
}
