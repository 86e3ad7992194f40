// Package aggregate reduces cohort-filtered rows into ready-to-render
// statistics. Every reduction is pure and never fails: empty denominators
// yield 0, and metrics without data are nil so absence is distinguishable
// from zero.
package aggregate

import (
	"time"

	"github.com/okian/cohortinsights/internal/domain/model"
	"github.com/okian/cohortinsights/internal/domain/scoring"
)

const (
	defaultThemeTopN  = 5
	defaultQuoteLimit = 5
)

// Input holds the rows of one cohort, already partitioned by the matcher.
type Input struct {
	CompanyName     string
	ProgramType     model.ProgramType
	Cohort          string
	Window          model.Window
	Sessions        []model.Session
	Employees       []model.Employee
	Surveys         []model.SurveyResponse
	Competencies    []model.CompetencyScore
	Baselines       []model.BaselineEntry
	FocusSelections []model.FocusSelection
	Config          *model.ProgramConfig
	Benchmarks      []model.Benchmark
}

// Summary is the full set of statistics of a cohort.
type Summary struct {
	CompanyName       string            `json:"company_name"`
	ProgramType       model.ProgramType `json:"program_type"`
	Cohort            string            `json:"cohort"`
	Window            string            `json:"window"`
	RosterSize        int               `json:"roster_size"`
	Sessions          SessionCounts     `json:"sessions"`
	AdoptionRate      float64           `json:"adoption_rate"`
	UtilizationRate   float64           `json:"utilization_rate"`
	EngagementRate    float64           `json:"engagement_rate"`
	ProgressPct       *float64          `json:"progress_pct"`
	Phase             Phase             `json:"phase,omitempty"`
	PhaseDescription  string            `json:"phase_description,omitempty"`
	Competency        CompetencyReport  `json:"competency"`
	NPS               *int              `json:"nps"`
	NPSResponses      int               `json:"nps_responses"`
	CoachSatisfaction *float64          `json:"coach_satisfaction"`
	Wellbeing         []WellbeingDelta  `json:"wellbeing"`
	Themes            []Theme           `json:"themes"`
	FeedbackThemes    []Count           `json:"feedback_themes"`
	Quotes            []scoring.Quote   `json:"quotes"`
	Demographics      Demographics      `json:"demographics"`
	FocusAreas        []Count           `json:"focus_areas"`
	Benchmarks        []Comparison      `json:"benchmarks"`
}

// Aggregator computes cohort summaries.
type Aggregator struct {
	themeTopN           int
	sessionsPerEmployee int
	quoteLimit          int
	scorer              scoring.Scorer
	themeKeywords       map[string][]string
	now                 func() time.Time
}

// New creates an Aggregator with configuration options.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{
		themeTopN:           defaultThemeTopN,
		sessionsPerEmployee: DefaultSessionsPerEmployee,
		quoteLimit:          defaultQuoteLimit,
		scorer:              scoring.NewQuoteScorer(),
		themeKeywords:       DefaultThemeKeywords(),
		now:                 time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Summarize reduces in into a Summary.
func (a *Aggregator) Summarize(in Input) Summary {
	roster := ActiveRoster(in.Employees)
	surveys := InWindow(in.Surveys, in.Window)
	feedback := ByType(surveys, model.SurveyFirstSession, model.SurveyEndOfProgram, model.SurveyTouchpoint)

	s := Summary{
		CompanyName:       in.CompanyName,
		ProgramType:       in.ProgramType,
		Cohort:            in.Cohort,
		Window:            in.Window.String(),
		RosterSize:        len(roster),
		Sessions:          CountSessions(in.Sessions, in.Window),
		AdoptionRate:      AdoptionRate(in.Sessions, roster, in.Window),
		UtilizationRate:   UtilizationRate(in.Baselines, roster),
		EngagementRate:    EngagementRate(in.Sessions, in.Window),
		Competency:        Growth(in.Competencies),
		CoachSatisfaction: CoachSatisfaction(feedback),
		Wellbeing:         Wellbeing(in.Baselines, ByType(surveys, model.SurveyEndOfProgram, model.SurveyTouchpoint)),
		Themes:            Themes(in.Sessions, in.Window, a.themeTopN),
		FeedbackThemes:    FeedbackThemes(feedback, a.themeKeywords),
		Quotes:            Quotes(feedback, a.scorer, a.quoteLimit),
		Demographics:      Demographic(in.Baselines),
		FocusAreas:        FocusAreas(in.Baselines, in.FocusSelections),
	}
	s.NPS, s.NPSResponses = NPS(feedback)

	if in.ProgramType == model.ProgramGrow {
		perEmployee := a.sessionsPerEmployee
		var start *time.Time
		if in.Config != nil {
			if in.Config.SessionsPerEmployee > 0 {
				perEmployee = in.Config.SessionsPerEmployee
			}
			start = in.Config.StartDate
		}
		progress := ProgressPct(s.Sessions.Used, s.RosterSize, perEmployee)
		s.ProgressPct = &progress
		s.Phase = ProgramPhase(start, a.now(), progress)
		s.PhaseDescription = s.Phase.Description()
	}

	var nps *float64
	if s.NPS != nil {
		v := float64(*s.NPS)
		nps = &v
	}
	s.Benchmarks = Compare(map[string]*float64{
		BenchAdoption:          &s.AdoptionRate,
		BenchUtilization:       &s.UtilizationRate,
		BenchNPS:               nps,
		BenchCoachSatisfaction: s.CoachSatisfaction,
		BenchCompetencyGrowth:  s.Competency.GrowthPct,
	}, in.Benchmarks, in.ProgramType)
	return s
}
