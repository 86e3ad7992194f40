package prompt

import (
	"strings"
	"testing"

	"github.com/okian/cohortinsights/internal/domain/aggregate"
	"github.com/okian/cohortinsights/internal/domain/model"
	"github.com/okian/cohortinsights/internal/domain/scoring"
	"github.com/smartystreets/goconvey/convey"
)

func ptr(v float64) *float64 { return &v }

func TestBuild(t *testing.T) {
	convey.Convey("Given a summary without optional data", t, func() {
		s := aggregate.Summary{CompanyName: "Acme", ProgramType: model.ProgramScale, Cohort: "all", Window: "All time"}
		doc := Build(s)

		convey.Convey("Scalars render as Not available", func() {
			convey.So(doc, convey.ShouldContainSubstring, "NPS: Not available")
			convey.So(doc, convey.ShouldContainSubstring, "Coach satisfaction: Not available")
			convey.So(doc, convey.ShouldContainSubstring, "Cohort: All cohorts")
		})

		convey.Convey("Optional sections are omitted", func() {
			convey.So(doc, convey.ShouldNotContainSubstring, SectionThemes)
			convey.So(doc, convey.ShouldNotContainSubstring, SectionCompetency)
			convey.So(doc, convey.ShouldNotContainSubstring, SectionFeedback)
		})
	})

	convey.Convey("Given a full summary", t, func() {
		nps := 42
		s := aggregate.Summary{
			CompanyName:       "Acme",
			ProgramType:       model.ProgramGrow,
			Cohort:            "GROW - Cohort 1",
			Window:            "All time",
			NPS:               &nps,
			CoachSatisfaction: ptr(9.1),
			Themes:            []aggregate.Theme{{Category: "Leadership", Sessions: 3, Pct: 30}},
			Competency: aggregate.CompetencyReport{
				Participants: 2,
				GrowthPct:    ptr(40),
				Competencies: []aggregate.CompetencyGrowth{{Competency: "Delegation", AvgPre: 5, AvgPost: 7, GrowthPct: 40}},
			},
			Quotes: []scoring.Quote{{Text: "My coach helped me delegate."}},
		}
		doc := Build(s)

		convey.Convey("Sections appear in fixed order", func() {
			order := []string{SectionOverview, SectionThemes, SectionSatisfy, SectionCompetency, SectionFeedback}
			last := -1
			for _, h := range order {
				i := strings.Index(doc, "## "+h)
				convey.So(i, convey.ShouldBeGreaterThan, last)
				last = i
			}
			convey.So(doc, convey.ShouldContainSubstring, "NPS: 42")
			convey.So(doc, convey.ShouldContainSubstring, "Overall growth: 40.0%")
		})
	})
}

func TestSystemPrompt(t *testing.T) {
	convey.Convey("Each program type has its own template", t, func() {
		convey.So(SystemPrompt(model.ProgramGrow), convey.ShouldContainSubstring, "GROW")
		convey.So(SystemPrompt(model.ProgramScale), convey.ShouldContainSubstring, "SCALE")
		convey.So(ContextPrompt("Acme"), convey.ShouldContainSubstring, NoContext)
		convey.So(GenerationPrompt("Acme", "data", NoContext, "Early"), convey.ShouldContainSubstring, "Program phase: Early")
	})
}
