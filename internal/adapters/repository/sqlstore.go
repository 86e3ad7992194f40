package repository

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // postgres driver "pgx"
	"github.com/jmoiron/sqlx"
	"github.com/okian/cohortinsights/internal/domain/model"
	"github.com/okian/cohortinsights/pkg/metrics"
	_ "modernc.org/sqlite" // sqlite driver "sqlite"
)

//go:embed schema.sql
var schema string

// Supported data drivers.
const (
	DriverPgx    = "pgx"
	DriverSQLite = "sqlite"
)

// Default SQL store configuration constants.
const (
	defaultMaxOpenConns    = 10
	defaultQueryTimeout    = 10 * time.Second
	defaultConnMaxLifetime = 30 * time.Minute
)

// Column lists per table, in schema order.
var columns = map[Table]string{
	TableSessions:     "id, employee_id, employee_name, account_name, program_title, company_id, session_date, status, leadership, communication, wellbeing",
	TableEmployees:    "id, name, email, company_id, company_name, account_name, program, job_title, status",
	TableSurveys:      "id, survey_type, email, participant_name, company_id, account_name, program_title, company_name, cohort, submitted_at, nps, coach_satisfaction, what_went_well, improvement, comments, satisfaction, productivity, work_life_balance",
	TableCompetencies: "email, participant_name, company_id, account_name, program_title, competency, pre, post",
	TableBaselines:    "email, company_id, account_name, program_title, company_name, cohort, submitted_at, satisfaction, productivity, work_life_balance, focus_areas, age_range, gender, tenure, role",
	TableFocus:        "email, company_id, account_name, program_title, company_name, area",
	TablePrograms:     "company_id, account_name, program_title, program_type, sessions_per_employee, start_date, end_date",
	TableBenchmarks:   "metric, program_type, value",
}

// SQLStore reads rows from Postgres (pgx) or SQLite through sqlx.
type SQLStore struct {
	db              *sqlx.DB
	driver          string
	maxOpenConns    int
	queryTimeout    time.Duration
	connMaxLifetime time.Duration
}

// OpenSQL connects to the database and pings it.
func OpenSQL(ctx context.Context, driver, dsn string, opts ...Option) (*SQLStore, error) {
	if driver != DriverPgx && driver != DriverSQLite {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
	s := &SQLStore{
		driver:          driver,
		maxOpenConns:    defaultMaxOpenConns,
		queryTimeout:    defaultQueryTimeout,
		connMaxLifetime: defaultConnMaxLifetime,
	}
	for _, opt := range opts {
		opt(s)
	}

	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// one writer; in-memory databases live and die with their connection
		s.maxOpenConns = 1
		s.connMaxLifetime = 0
	}
	db.SetMaxOpenConns(s.maxOpenConns)
	db.SetConnMaxLifetime(s.connMaxLifetime)
	s.db = db
	return s, nil
}

// Migrate creates the tables if they do not exist.
func (s *SQLStore) Migrate(ctx context.Context) error {
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// Seed inserts every row of ds.
func (s *SQLStore) Seed(ctx context.Context, ds Dataset) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	inserts := []struct {
		table Table
		rows  any
		n     int
	}{
		{TableSessions, ds.Sessions, len(ds.Sessions)},
		{TableEmployees, ds.Employees, len(ds.Employees)},
		{TableSurveys, ds.Surveys, len(ds.Surveys)},
		{TableCompetencies, ds.Competencies, len(ds.Competencies)},
		{TableBaselines, ds.Baselines, len(ds.Baselines)},
		{TableFocus, ds.FocusSelections, len(ds.FocusSelections)},
		{TablePrograms, ds.ProgramConfigs, len(ds.ProgramConfigs)},
		{TableBenchmarks, ds.Benchmarks, len(ds.Benchmarks)},
	}
	for _, in := range inserts {
		if in.n == 0 {
			continue
		}
		cols := strings.Split(columns[in.table], ", ")
		named := make([]string, len(cols))
		for i, c := range cols {
			named[i] = ":" + c
		}
		q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", in.table, columns[in.table], strings.Join(named, ", "))
		if _, err := tx.NamedExecContext(ctx, q, in.rows); err != nil {
			return fmt.Errorf("seed %s: %w", in.table, err)
		}
	}
	return tx.Commit()
}

// where renders the coarse company filter for a table.
func (s *SQLStore) where(f model.CompanyFilter) (string, []any) {
	switch {
	case f.CompanyID == "":
		return "", nil
	case f.AccountName == "" && f.CompanyName == "":
		return " WHERE company_id = ?", []any{f.CompanyID}
	default:
		return " WHERE (company_id = ? OR company_id = '')", []any{f.CompanyID}
	}
}

func selectRows[T any](ctx context.Context, s *SQLStore, table Table, f *model.CompanyFilter) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	q := fmt.Sprintf("SELECT %s FROM %s", columns[table], table)
	var args []any
	if f != nil {
		clause, a := s.where(*f)
		q += clause
		args = a
	}

	start := time.Now()
	var rows []T
	err := s.db.SelectContext(ctx, &rows, s.db.Rebind(q), args...)
	metrics.RecordRepositoryQueryLatency(string(table), float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordFetchError(string(table))
		return nil, fmt.Errorf("select %s: %w", table, err)
	}
	return rows, nil
}

func (s *SQLStore) Sessions(ctx context.Context, f model.CompanyFilter) ([]model.Session, error) {
	return selectRows[model.Session](ctx, s, TableSessions, &f)
}

func (s *SQLStore) Employees(ctx context.Context, f model.CompanyFilter) ([]model.Employee, error) {
	return selectRows[model.Employee](ctx, s, TableEmployees, &f)
}

func (s *SQLStore) Surveys(ctx context.Context, f model.CompanyFilter) ([]model.SurveyResponse, error) {
	return selectRows[model.SurveyResponse](ctx, s, TableSurveys, &f)
}

func (s *SQLStore) Competencies(ctx context.Context, f model.CompanyFilter) ([]model.CompetencyScore, error) {
	return selectRows[model.CompetencyScore](ctx, s, TableCompetencies, &f)
}

func (s *SQLStore) Baselines(ctx context.Context, f model.CompanyFilter) ([]model.BaselineEntry, error) {
	return selectRows[model.BaselineEntry](ctx, s, TableBaselines, &f)
}

func (s *SQLStore) FocusSelections(ctx context.Context, f model.CompanyFilter) ([]model.FocusSelection, error) {
	return selectRows[model.FocusSelection](ctx, s, TableFocus, &f)
}

func (s *SQLStore) ProgramConfigs(ctx context.Context, f model.CompanyFilter) ([]model.ProgramConfig, error) {
	return selectRows[model.ProgramConfig](ctx, s, TablePrograms, &f)
}

func (s *SQLStore) Benchmarks(ctx context.Context) ([]model.Benchmark, error) {
	return selectRows[model.Benchmark](ctx, s, TableBenchmarks, nil)
}

// Close closes the connection pool.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
