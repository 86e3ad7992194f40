// Package prompt renders cohort statistics into the text document sent to the
// insight model.
//
// Sections always appear in the same order: Program Overview, Session Themes,
// Satisfaction Metrics, Personal Effectiveness / Competency Growth, Sample
// Feedback. Optional sections without data are omitted; the satisfaction
// scalars always render, with "Not available" when absent.
package prompt

import (
	"fmt"
	"strings"

	"github.com/okian/cohortinsights/internal/domain/aggregate"
	"github.com/okian/cohortinsights/internal/domain/matcher"
)

// NotAvailable marks a scalar metric without data.
const NotAvailable = "Not available"

// NoContext is the company context used when the lookup fails.
const NoContext = "No external context available."

// Section headings in render order.
const (
	SectionOverview   = "Program Overview"
	SectionThemes     = "Session Themes"
	SectionSatisfy    = "Satisfaction Metrics"
	SectionCompetency = "Personal Effectiveness / Competency Growth"
	SectionFeedback   = "Sample Feedback"
)

// Build renders s as the internal-data document.
func Build(s aggregate.Summary) string {
	var b strings.Builder
	writeOverview(&b, s)
	writeThemes(&b, s)
	writeSatisfaction(&b, s)
	writeCompetency(&b, s)
	writeFeedback(&b, s)
	return strings.TrimRight(b.String(), "\n") + "\n"
}

func heading(b *strings.Builder, title string) {
	b.WriteString("## " + title + "\n")
}

func line(b *strings.Builder, format string, args ...any) {
	b.WriteString("- " + fmt.Sprintf(format, args...) + "\n")
}

func writeOverview(b *strings.Builder, s aggregate.Summary) {
	heading(b, SectionOverview)
	if s.CompanyName != "" {
		line(b, "Company: %s", s.CompanyName)
	}
	line(b, "Program: %s", s.ProgramType)
	cohort := s.Cohort
	if matcher.IsAllCohorts(cohort) {
		cohort = "All cohorts"
	}
	line(b, "Cohort: %s", cohort)
	line(b, "Time period: %s", s.Window)
	line(b, "Eligible employees: %d", s.RosterSize)
	line(b, "Sessions: %d used (%d completed, %d no-show), %d scheduled in period",
		s.Sessions.Used, s.Sessions.Completed, s.Sessions.NoShow, s.Sessions.Scheduled)
	line(b, "Adoption rate: %s", pct(s.AdoptionRate))
	line(b, "Utilization rate: %s", pct(s.UtilizationRate))
	line(b, "Engagement rate: %s", pct(s.EngagementRate))
	if s.ProgressPct != nil {
		line(b, "Program progress: %s", pct(*s.ProgressPct))
	}
	if s.Phase != "" {
		line(b, "Program phase: %s. %s", s.Phase, s.PhaseDescription)
	}
	if len(s.FocusAreas) > 0 {
		line(b, "Top focus areas: %s", joinCounts(s.FocusAreas, 5))
	}
	for _, c := range s.Benchmarks {
		line(b, "%s vs average: %+.1f (benchmark %.1f)", c.Metric, c.VsAverage, c.Benchmark)
	}
	b.WriteString("\n")
}

func writeThemes(b *strings.Builder, s aggregate.Summary) {
	var tagged bool
	for _, t := range s.Themes {
		if t.Sessions > 0 {
			tagged = true
			break
		}
	}
	if !tagged {
		return
	}
	heading(b, SectionThemes)
	for _, t := range s.Themes {
		if t.Sessions == 0 {
			continue
		}
		if len(t.SubThemes) > 0 {
			line(b, "%s: %s of sessions (%s)", t.Category, pct(t.Pct), joinCounts(t.SubThemes, 0))
		} else {
			line(b, "%s: %s of sessions", t.Category, pct(t.Pct))
		}
	}
	b.WriteString("\n")
}

func writeSatisfaction(b *strings.Builder, s aggregate.Summary) {
	heading(b, SectionSatisfy)
	if s.NPS != nil {
		line(b, "NPS: %d (%d responses)", *s.NPS, s.NPSResponses)
	} else {
		line(b, "NPS: %s", NotAvailable)
	}
	line(b, "Coach satisfaction: %s", scalar(s.CoachSatisfaction, "/10"))
	for _, w := range s.Wellbeing {
		if w.Baseline == nil && w.Current == nil {
			continue
		}
		if w.Delta != nil {
			line(b, "%s: baseline %s, current %s (%+.1f)", w.Metric, scalar(w.Baseline, "/10"), scalar(w.Current, "/10"), *w.Delta)
		} else {
			line(b, "%s: baseline %s, current %s", w.Metric, scalar(w.Baseline, "/10"), scalar(w.Current, "/10"))
		}
	}
	b.WriteString("\n")
}

func writeCompetency(b *strings.Builder, s aggregate.Summary) {
	if s.Competency.Empty() {
		return
	}
	heading(b, SectionCompetency)
	line(b, "Participants with pre and post assessments: %d", s.Competency.Participants)
	line(b, "Overall growth: %s", scalar(s.Competency.GrowthPct, "%"))
	for _, c := range s.Competency.Competencies {
		line(b, "%s: %.1f -> %.1f (%+.1f%%)", c.Competency, c.AvgPre, c.AvgPost, c.GrowthPct)
	}
	b.WriteString("\n")
}

func writeFeedback(b *strings.Builder, s aggregate.Summary) {
	if len(s.Quotes) == 0 && len(s.FeedbackThemes) == 0 {
		return
	}
	heading(b, SectionFeedback)
	if len(s.FeedbackThemes) > 0 {
		line(b, "Recurring themes: %s", joinCounts(s.FeedbackThemes, 5))
	}
	for _, q := range s.Quotes {
		line(b, "%q", q.Text)
	}
	b.WriteString("\n")
}

func pct(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

func scalar(v *float64, unit string) string {
	if v == nil {
		return NotAvailable
	}
	return fmt.Sprintf("%.1f%s", *v, unit)
}

func joinCounts(cs []aggregate.Count, n int) string {
	if n > 0 && len(cs) > n {
		cs = cs[:n]
	}
	parts := make([]string, 0, len(cs))
	for _, c := range cs {
		parts = append(parts, fmt.Sprintf("%s %d", c.Label, c.Count))
	}
	return strings.Join(parts, ", ")
}
