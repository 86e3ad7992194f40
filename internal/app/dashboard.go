package service

import (
	"context"
	"strings"
	"time"

	"github.com/okian/cohortinsights/internal/adapters/repository"
	"github.com/okian/cohortinsights/internal/domain/aggregate"
	"github.com/okian/cohortinsights/internal/domain/matcher"
	"github.com/okian/cohortinsights/internal/domain/model"
	"github.com/okian/cohortinsights/internal/domain/prompt"
	"github.com/okian/cohortinsights/pkg/logger"
	"github.com/okian/cohortinsights/pkg/metrics"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// Query selects one dashboard view.
type Query struct {
	Company model.CompanyFilter
	Program model.ProgramType
	Cohort  string
	Window  model.Window
}

// Dashboard is a computed cohort view.
type Dashboard struct {
	Summary      aggregate.Summary `json:"summary"`
	Cohorts      []string          `json:"cohorts"`
	Prompt       string            `json:"prompt"`
	AliasVersion string            `json:"alias_version"`
}

// rows holds every row set of one company.
type rows struct {
	sessions     []model.Session
	employees    []model.Employee
	surveys      []model.SurveyResponse
	competencies []model.CompetencyScore
	baselines    []model.BaselineEntry
	focus        []model.FocusSelection
	configs      []model.ProgramConfig
	benchmarks   []model.Benchmark
}

// Dashboard loads, partitions and aggregates the rows of q. Rows are kept
// when they belong to the company and to q.Program. Individual row sets that
// fail to load are logged and treated as empty.
func (s *Service) Dashboard(ctx context.Context, q Query) (Dashboard, error) {
	all, err := s.load(ctx, q.Company)
	if err != nil {
		return Dashboard{}, err
	}

	start := time.Now()
	company := inProgram(s.matcher, s.partition(ctx, all, q.Company), q.Program)
	cohorts := matcher.Cohorts(s.matcher, company.sessions)
	cohort := inCohort(s.matcher, company, q.Cohort)

	label := q.Cohort
	if matcher.IsAllCohorts(label) {
		label = matcher.AllCohorts
	} else {
		label = s.matcher.DisplayName(label)
	}

	summary := s.aggregator.Summarize(aggregate.Input{
		CompanyName:     companyName(q.Company),
		ProgramType:     q.Program,
		Cohort:          label,
		Window:          q.Window,
		Sessions:        cohort.sessions,
		Employees:       cohort.employees,
		Surveys:         cohort.surveys,
		Competencies:    cohort.competencies,
		Baselines:       cohort.baselines,
		FocusSelections: cohort.focus,
		Config:          pickConfig(cohort.configs, q.Program),
		Benchmarks:      all.benchmarks,
	})
	metrics.RecordAggregationLatency(float64(time.Since(start).Milliseconds()))
	metrics.RecordDashboardLoad(string(q.Program))

	return Dashboard{
		Summary:      summary,
		Cohorts:      cohorts,
		Prompt:       prompt.Build(summary),
		AliasVersion: s.matcher.Version(),
	}, nil
}

// load fetches the eight row sets concurrently.
func (s *Service) load(ctx context.Context, f model.CompanyFilter) (rows, error) {
	var r rows
	g, gctx := errgroup.WithContext(ctx)

	g.Go(fetch(gctx, s, repository.TableSessions, f, s.store.Sessions, &r.sessions))
	g.Go(fetch(gctx, s, repository.TableEmployees, f, s.store.Employees, &r.employees))
	g.Go(fetch(gctx, s, repository.TableSurveys, f, s.store.Surveys, &r.surveys))
	g.Go(fetch(gctx, s, repository.TableCompetencies, f, s.store.Competencies, &r.competencies))
	g.Go(fetch(gctx, s, repository.TableBaselines, f, s.store.Baselines, &r.baselines))
	g.Go(fetch(gctx, s, repository.TableFocus, f, s.store.FocusSelections, &r.focus))
	g.Go(fetch(gctx, s, repository.TablePrograms, f, s.store.ProgramConfigs, &r.configs))
	g.Go(fetch(gctx, s, repository.TableBenchmarks, f, func(ctx context.Context, _ model.CompanyFilter) ([]model.Benchmark, error) {
		return s.store.Benchmarks(ctx)
	}, &r.benchmarks))

	if err := g.Wait(); err != nil {
		return rows{}, err
	}
	return r, nil
}

// fetch runs one load into dst. Store failures degrade to an empty row set;
// only cancellation of the request aborts the dashboard.
func fetch[T any](ctx context.Context, s *Service, table repository.Table, f model.CompanyFilter, load func(context.Context, model.CompanyFilter) ([]T, error), dst *[]T) func() error {
	return func() error {
		got, err := load(ctx, f)
		if err == nil {
			*dst = got
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		metrics.RecordErrorByComponent("service", "fetch_error")
		s.logger.Error(ctx, "data fetch failed, continuing with empty rows",
			logger.String("table", string(table)),
			logger.Error(err),
		)
		return nil
	}
}

// partition keeps the rows that belong to the company.
func (s *Service) partition(ctx context.Context, all rows, f model.CompanyFilter) rows {
	return rows{
		sessions:     filterTable(ctx, s, repository.TableSessions, all.sessions, f),
		employees:    filterTable(ctx, s, repository.TableEmployees, all.employees, f),
		surveys:      filterTable(ctx, s, repository.TableSurveys, all.surveys, f),
		competencies: filterTable(ctx, s, repository.TableCompetencies, all.competencies, f),
		baselines:    filterTable(ctx, s, repository.TableBaselines, all.baselines, f),
		focus:        filterTable(ctx, s, repository.TableFocus, all.focus, f),
		configs:      filterTable(ctx, s, repository.TablePrograms, all.configs, f),
		benchmarks:   all.benchmarks,
	}
}

func filterTable[T model.Identified](ctx context.Context, s *Service, table repository.Table, in []T, f model.CompanyFilter) []T {
	kept, st := matcher.Filter(s.matcher, in, f, matcher.AllCohorts, func(ids model.Identifiers, res matcher.Result) {
		s.logger.Warn(ctx, "row matched through multiple heuristics",
			logger.String("table", string(table)),
			logger.Any("via", res.Via),
			logger.String("account_name", ids.AccountName),
			logger.String("program_title", ids.ProgramTitle),
			logger.String("alias_version", s.matcher.Version()),
		)
	})
	metrics.RecordRowsPartitioned(string(table), st.Matched, st.Excluded, st.Ambiguous)
	return kept
}

// inProgram drops rows whose cohort belongs to another program type.
func inProgram(m *matcher.Matcher, r rows, pt model.ProgramType) rows {
	if pt == "" {
		return r
	}
	known := m.ProgramTypesOf(r.configs)
	of := func(ids model.Identifiers) bool { return m.InProgram(ids, pt, known) }
	return rows{
		sessions:     keepBy(r.sessions, of),
		employees:    keepBy(r.employees, of),
		surveys:      keepBy(r.surveys, of),
		competencies: keepBy(r.competencies, of),
		baselines:    keepBy(r.baselines, of),
		focus:        keepBy(r.focus, of),
		configs:      keepBy(r.configs, of),
		benchmarks:   r.benchmarks,
	}
}

func keepBy[T model.Identified](in []T, pred func(model.Identifiers) bool) []T {
	return lo.Filter(in, func(r T, _ int) bool { return pred(r.Identifiers()) })
}

func inCohort(m *matcher.Matcher, r rows, cohort string) rows {
	if matcher.IsAllCohorts(cohort) {
		return r
	}
	return rows{
		sessions:     keep(m, r.sessions, cohort),
		employees:    keep(m, r.employees, cohort),
		surveys:      keep(m, r.surveys, cohort),
		competencies: keep(m, r.competencies, cohort),
		baselines:    keep(m, r.baselines, cohort),
		focus:        keep(m, r.focus, cohort),
		configs:      keep(m, r.configs, cohort),
		benchmarks:   r.benchmarks,
	}
}

func keep[T model.Identified](m *matcher.Matcher, in []T, cohort string) []T {
	return keepBy(in, func(ids model.Identifiers) bool { return m.InCohort(ids, cohort) })
}

// pickConfig returns the configuration of the earliest-starting cohort of
// the program type, or nil.
func pickConfig(cfgs []model.ProgramConfig, pt model.ProgramType) *model.ProgramConfig {
	var best *model.ProgramConfig
	for i := range cfgs {
		c := &cfgs[i]
		if model.ParseProgramType(c.ProgramType) != pt {
			continue
		}
		if best == nil || (c.StartDate != nil && (best.StartDate == nil || c.StartDate.Before(*best.StartDate))) {
			best = c
		}
	}
	return best
}

func companyName(f model.CompanyFilter) string {
	if name := matcher.StripQualifier(f.CompanyName); name != "" {
		return name
	}
	return strings.TrimSpace(f.AccountName)
}
