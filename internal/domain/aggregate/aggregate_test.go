package aggregate

import (
	"testing"
	"time"

	"github.com/okian/cohortinsights/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func f(v float64) *float64 { return &v }

func day(d int) time.Time { return time.Date(2024, 3, d, 10, 0, 0, 0, time.UTC) }

func TestSessionCounts(t *testing.T) {
	Convey("Given 10 sessions in the window", t, func() {
		var sessions []model.Session
		add := func(n int, status string) {
			for i := 0; i < n; i++ {
				sessions = append(sessions, model.Session{EmployeeID: status + string(rune('a'+i)), Status: status, SessionDate: day(5)})
			}
		}
		add(4, "No Show")
		add(3, "completed")
		add(3, "scheduled")
		sessions = append(sessions, model.Session{Status: "completed", SessionDate: day(28)})

		w := model.Window{From: day(1), To: day(20)}
		c := CountSessions(sessions, w)

		Convey("Used counts completed and no-show sessions", func() {
			So(c.Used, ShouldEqual, 7)
			So(c.Scheduled, ShouldEqual, 10)
			So(c.Completed, ShouldEqual, 3)
			So(c.NoShow, ShouldEqual, 4)
			So(c.Upcoming, ShouldEqual, 3)
		})
	})

	Convey("Status classification", t, func() {
		So(ClassifyStatus("Coach No Show"), ShouldEqual, StatusCoachNoShow)
		So(ClassifyStatus("Late Cancel"), ShouldEqual, StatusNoShow)
		So(ClassifyStatus("Cancelled"), ShouldEqual, StatusCancelled)
		So(ClassifyStatus(" COMPLETED "), ShouldEqual, StatusCompleted)
		So(ClassifyStatus("something else"), ShouldEqual, StatusOther)
	})
}

func TestRates(t *testing.T) {
	Convey("Given a roster and sessions", t, func() {
		roster := []model.Employee{{ID: "1"}, {ID: "2"}, {ID: "3"}}
		sessions := []model.Session{
			{EmployeeID: "1", Status: "completed", SessionDate: day(2)},
			{EmployeeID: "1", Status: "completed", SessionDate: day(3)},
			{EmployeeID: "2", Status: "completed", SessionDate: day(3)},
			{EmployeeID: "3", Status: "scheduled", SessionDate: day(4)},
		}

		Convey("Adoption rounds to one decimal", func() {
			So(AdoptionRate(sessions, roster, model.Window{}), ShouldEqual, 66.7)
		})

		Convey("Adoption only counts coachees on the eligible roster", func() {
			all := []model.Employee{{ID: "1"}, {ID: "3", Status: "Inactive"}, {ID: "5"}}
			withOutsider := append(sessions[:len(sessions):len(sessions)],
				model.Session{EmployeeID: "3", Status: "completed", SessionDate: day(5)},
				model.Session{EmployeeID: "x9", Status: "completed", SessionDate: day(5)},
			)
			So(AdoptionRate(withOutsider, ActiveRoster(all), model.Window{}), ShouldEqual, 50)
			So(AdoptionRate(withOutsider, []model.Employee{{ID: "1"}, {ID: "4"}}, model.Window{}), ShouldEqual, 50)
		})

		Convey("Adoption is 0 for an empty roster", func() {
			So(AdoptionRate(sessions, nil, model.Window{}), ShouldEqual, 0)
		})

		Convey("Engagement is repeat participants over active participants", func() {
			So(EngagementRate(sessions, model.Window{}), ShouldEqual, 50)
			So(EngagementRate(nil, model.Window{}), ShouldEqual, 0)
		})

		Convey("Utilization is clamped to 100", func() {
			baselines := []model.BaselineEntry{{Email: "a@x"}, {Email: "b@x"}, {Email: "c@x"}, {Email: "d@x"}}
			So(UtilizationRate(baselines, roster[:2]), ShouldEqual, 100)
			So(UtilizationRate(baselines, nil), ShouldEqual, 0)
		})

		Convey("Progress defaults to five sessions per employee and is clamped", func() {
			So(ProgressPct(3, 2, 0), ShouldEqual, 30)
			So(ProgressPct(50, 2, 5), ShouldEqual, 100)
			So(ProgressPct(3, 0, 5), ShouldEqual, 0)
		})

		Convey("Inactive employees are not eligible", func() {
			all := append(roster, model.Employee{ID: "4", Status: "Inactive"})
			So(ActiveRoster(all), ShouldHaveLength, 3)
		})
	})
}

func TestCompetencyGrowth(t *testing.T) {
	Convey("Given competency rows", t, func() {
		rows := []model.CompetencyScore{
			{Email: "a@x", Competency: "Delegation", Pre: f(4), Post: f(5)},
			{Email: "b@x", Competency: "Delegation", Pre: f(6), Post: f(9)},
			{Email: "c@x", Competency: "Delegation", Pre: f(0), Post: f(8)},
			{Email: "d@x", Competency: "Delegation", Pre: f(6), Post: f(0)},
			{Email: "e@x", Competency: "Delegation", Pre: f(6)},
		}
		r := Growth(rows)

		Convey("Only complete rows count", func() {
			So(r.Participants, ShouldEqual, 2)
			So(r.Competencies, ShouldHaveLength, 1)
			So(r.Competencies[0].Participants, ShouldEqual, 2)
		})

		Convey("Overall growth uses the sums of pre and post", func() {
			So(r.GrowthPct, ShouldNotBeNil)
			So(*r.GrowthPct, ShouldEqual, 40.0)
		})

		Convey("No complete rows yields nil growth", func() {
			empty := Growth(rows[2:])
			So(empty.Empty(), ShouldBeTrue)
			So(empty.GrowthPct, ShouldBeNil)
		})
	})
}

func TestNPS(t *testing.T) {
	Convey("NPS over scored responses", t, func() {
		var rs []model.SurveyResponse
		for _, s := range []float64{9, 10, 6, 3, 7} {
			rs = append(rs, model.SurveyResponse{NPS: f(s)})
		}
		rs = append(rs, model.SurveyResponse{})
		nps, n := NPS(rs)
		So(nps, ShouldNotBeNil)
		So(*nps, ShouldEqual, 0)
		So(n, ShouldEqual, 5)

		Convey("is nil without scored responses", func() {
			nps, n := NPS([]model.SurveyResponse{{}})
			So(nps, ShouldBeNil)
			So(n, ShouldEqual, 0)
		})
	})
}

func TestBaselineNormalization(t *testing.T) {
	Convey("A 1-5 sample is rescaled", t, func() {
		So(NormalizeScale([]float64{2, 3, 4}), ShouldResemble, []float64{4, 6, 8})
	})
	Convey("A 1-10 sample is left alone", t, func() {
		So(NormalizeScale([]float64{6, 7, 8}), ShouldResemble, []float64{6, 7, 8})
	})
	Convey("Wellbeing deltas compare normalized averages", t, func() {
		baselines := []model.BaselineEntry{{Satisfaction: f(2)}, {Satisfaction: f(4)}}
		current := []model.SurveyResponse{{Satisfaction: f(8)}, {Satisfaction: f(8)}}
		d := Wellbeing(baselines, current)
		So(d, ShouldHaveLength, 3)
		So(d[0].Metric, ShouldEqual, MetricSatisfaction)
		So(*d[0].Baseline, ShouldEqual, 6)
		So(*d[0].Delta, ShouldEqual, 2)
		So(d[1].Baseline, ShouldBeNil)
		So(d[1].Delta, ShouldBeNil)
	})
}

func TestThemes(t *testing.T) {
	Convey("Given tagged sessions", t, func() {
		sessions := []model.Session{
			{Leadership: "Delegation; Feedback", SessionDate: day(1)},
			{Leadership: "delegation", Communication: "true", SessionDate: day(2)},
			{Wellbeing: "false", SessionDate: day(3)},
			{SessionDate: day(4)},
		}
		themes := Themes(sessions, model.Window{}, 1)

		Convey("Categories count any non-empty tag", func() {
			So(themes[0].Category, ShouldEqual, ThemeLeadership)
			So(themes[0].Sessions, ShouldEqual, 2)
			So(themes[0].Pct, ShouldEqual, 50)
			So(themes[1].Sessions, ShouldEqual, 1)
			So(themes[2].Sessions, ShouldEqual, 0)
		})

		Convey("Sub-themes are tallied and trimmed to top N", func() {
			So(themes[0].SubThemes, ShouldHaveLength, 1)
			So(themes[0].SubThemes[0].Label, ShouldEqual, "Delegation")
			So(themes[0].SubThemes[0].Count, ShouldEqual, 2)
			So(themes[1].SubThemes, ShouldBeEmpty)
		})
	})

	Convey("Feedback themes come from keyword lists", t, func() {
		rs := []model.SurveyResponse{{WhatWentWell: "I feel more confident leading my team"}, {Comments: "less stress"}}
		got := FeedbackThemes(rs, map[string][]string{"Confidence": {"confident"}, "Balance": {"stress"}, "Career": {"promotion"}})
		So(got, ShouldHaveLength, 2)
		So(got[0].Count, ShouldEqual, 1)
	})
}

func TestProgramPhase(t *testing.T) {
	start := day(1)
	Convey("Phases follow elapsed weeks and progress", t, func() {
		So(ProgramPhase(&start, start.AddDate(0, 0, 3), 5), ShouldEqual, PhaseLaunch)
		So(ProgramPhase(&start, start.AddDate(0, 0, 21), 50), ShouldEqual, PhaseEarly)
		So(ProgramPhase(&start, start.AddDate(0, 0, 77), 30), ShouldEqual, PhaseMidEarly)
		So(ProgramPhase(&start, start.AddDate(0, 0, 91), 60), ShouldEqual, PhaseMidProgram)
		So(ProgramPhase(&start, start.AddDate(0, 0, 140), 80), ShouldEqual, PhaseLate)
		So(ProgramPhase(&start, start.AddDate(0, 0, 3), 100), ShouldEqual, PhaseCompleted)
		So(ProgramPhase(nil, start, 10), ShouldEqual, PhaseEarly)
		So(PhaseLate.Description(), ShouldNotBeBlank)
	})
}

func TestSummarize(t *testing.T) {
	Convey("Given a GROW cohort", t, func() {
		start := day(1)
		agg := New(WithClock(func() time.Time { return day(10) }))
		in := Input{
			CompanyName: "Acme",
			ProgramType: model.ProgramGrow,
			Cohort:      "GROW - Cohort 1",
			Employees:   []model.Employee{{ID: "1"}, {ID: "2"}},
			Sessions: []model.Session{
				{EmployeeID: "1", Status: "completed", SessionDate: day(2)},
				{EmployeeID: "2", Status: "no show", SessionDate: day(3)},
			},
			Surveys: []model.SurveyResponse{
				{SurveyType: model.SurveyFirstSession, NPS: f(10), CoachSatisfaction: f(9),
					WhatWentWell: "My coach helped me gain clarity on my goals and I learned practical tools."},
				{SurveyType: model.SurveyFirstSession, Comments: "n/a"},
			},
			Config:     &model.ProgramConfig{SessionsPerEmployee: 2, StartDate: &start},
			Benchmarks: []model.Benchmark{{Metric: BenchAdoption, Value: 40}, {Metric: BenchNPS, ProgramType: "GROW", Value: 50}},
		}
		s := agg.Summarize(in)

		So(s.RosterSize, ShouldEqual, 2)
		So(s.AdoptionRate, ShouldEqual, 50)
		So(*s.ProgressPct, ShouldEqual, 50)
		So(s.Phase, ShouldEqual, PhaseLaunch)
		So(*s.NPS, ShouldEqual, 100)
		So(*s.CoachSatisfaction, ShouldEqual, 9)
		So(s.Competency.GrowthPct, ShouldBeNil)
		So(s.Quotes, ShouldHaveLength, 1)
		So(s.Benchmarks, ShouldHaveLength, 2)
		So(s.Benchmarks[0].VsAverage, ShouldEqual, 10)
		So(s.Benchmarks[1].VsAverage, ShouldEqual, 50)

		Convey("SCALE cohorts carry no progress or phase", func() {
			in.ProgramType = model.ProgramScale
			s := agg.Summarize(in)
			So(s.ProgressPct, ShouldBeNil)
			So(s.Phase, ShouldEqual, Phase(""))
		})
	})
}
