// Package repository is the inbound data source: row sets of coaching data
// coarsely scoped by company identifiers.
package repository

import (
	"context"

	"github.com/okian/cohortinsights/internal/domain/model"
)

// Table names the row sets the store exposes.
type Table string

// Tables.
const (
	TableSessions     Table = "sessions"
	TableEmployees    Table = "employees"
	TableSurveys      Table = "survey_responses"
	TableCompetencies Table = "competency_scores"
	TableBaselines    Table = "baseline_entries"
	TableFocus        Table = "focus_selections"
	TablePrograms     Table = "program_configs"
	TableBenchmarks   Table = "benchmarks"
)

// Store provides read access to the coaching data. Filters are coarse: the
// matcher refines rows by fuzzy identifiers afterwards.
type Store interface {
	Sessions(ctx context.Context, f model.CompanyFilter) ([]model.Session, error)
	Employees(ctx context.Context, f model.CompanyFilter) ([]model.Employee, error)
	Surveys(ctx context.Context, f model.CompanyFilter) ([]model.SurveyResponse, error)
	Competencies(ctx context.Context, f model.CompanyFilter) ([]model.CompetencyScore, error)
	Baselines(ctx context.Context, f model.CompanyFilter) ([]model.BaselineEntry, error)
	FocusSelections(ctx context.Context, f model.CompanyFilter) ([]model.FocusSelection, error)
	ProgramConfigs(ctx context.Context, f model.CompanyFilter) ([]model.ProgramConfig, error)
	// Benchmarks are company-external and not filtered.
	Benchmarks(ctx context.Context) ([]model.Benchmark, error)
	Close() error
}

// Dataset is a complete set of rows, used for fixtures and seeding.
type Dataset struct {
	Sessions        []model.Session         `yaml:"sessions"`
	Employees       []model.Employee        `yaml:"employees"`
	Surveys         []model.SurveyResponse  `yaml:"survey_responses"`
	Competencies    []model.CompetencyScore `yaml:"competency_scores"`
	Baselines       []model.BaselineEntry   `yaml:"baseline_entries"`
	FocusSelections []model.FocusSelection  `yaml:"focus_selections"`
	ProgramConfigs  []model.ProgramConfig   `yaml:"program_configs"`
	Benchmarks      []model.Benchmark       `yaml:"benchmarks"`
}

// scope reports whether a row's company_id passes the coarse filter. With a
// company_id and no names only exact ids pass; with names, rows lacking an
// id also pass so the matcher can decide.
func scope(f model.CompanyFilter, companyID string) bool {
	if f.CompanyID == "" {
		return true
	}
	if companyID == f.CompanyID {
		return true
	}
	return companyID == "" && (f.AccountName != "" || f.CompanyName != "")
}
