// Package report renders a finished insight as a downloadable text document.
package report

import (
	"regexp"
	"strings"
	"time"

	"github.com/okian/cohortinsights/internal/domain/matcher"
)

// Footer is the attribution line closing every export.
const Footer = "Generated by Cohort Insights. Figures reflect program data available at the time of generation."

const rule = "========================================"

// Document is an export artifact.
type Document struct {
	Filename string
	Body     string
}

var unsafeChars = regexp.MustCompile(`[^a-z0-9]+`)

// Sanitize turns a display name into a filename fragment.
func Sanitize(name string) string {
	s := unsafeChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "_")
	return strings.Trim(s, "_")
}

// Filename builds <company>[_<cohort>]_insights_<YYYY-MM-DD>.txt. The cohort
// part is left out for the all-cohorts view.
func Filename(company, cohort string, at time.Time) string {
	parts := []string{Sanitize(company)}
	if parts[0] == "" {
		parts[0] = "company"
	}
	if !matcher.IsAllCohorts(cohort) {
		if c := Sanitize(cohort); c != "" {
			parts = append(parts, c)
		}
	}
	parts = append(parts, "insights", at.Format("2006-01-02"))
	return strings.Join(parts, "_") + ".txt"
}

// Build combines the narrative, the company context and the footer.
func Build(company, cohort, insights, companyContext string, at time.Time) Document {
	var b strings.Builder
	title := "Executive Insights: " + company
	if !matcher.IsAllCohorts(cohort) {
		title += " (" + cohort + ")"
	}
	b.WriteString(title + "\n")
	b.WriteString("Generated " + at.Format("January 2, 2006") + "\n")
	b.WriteString(rule + "\n\n")
	b.WriteString(strings.TrimSpace(insights) + "\n\n")
	b.WriteString(rule + "\n")
	b.WriteString("Company Context\n")
	b.WriteString(rule + "\n\n")
	b.WriteString(strings.TrimSpace(companyContext) + "\n\n")
	b.WriteString("---\n")
	b.WriteString(Footer + "\n")
	return Document{Filename: Filename(company, cohort, at), Body: b.String()}
}
