package repository

import (
	"context"
	"fmt"
	"os"

	"github.com/okian/cohortinsights/internal/domain/model"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// MemoryStore serves a Dataset held in memory.
type MemoryStore struct {
	ds Dataset
}

// NewMemoryStore wraps ds.
func NewMemoryStore(ds Dataset) *MemoryStore {
	return &MemoryStore{ds: ds}
}

// LoadDataset reads a YAML fixture file.
func LoadDataset(path string) (Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("read fixture: %w", err)
	}
	var ds Dataset
	if err := yaml.Unmarshal(raw, &ds); err != nil {
		return Dataset{}, fmt.Errorf("%w: %w", ErrFixture, err)
	}
	return ds, nil
}

// LoadMemoryStore reads a YAML fixture file into a MemoryStore.
func LoadMemoryStore(path string) (*MemoryStore, error) {
	ds, err := LoadDataset(path)
	if err != nil {
		return nil, err
	}
	return NewMemoryStore(ds), nil
}

func filterByCompany[T any](rows []T, f model.CompanyFilter, id func(T) string) []T {
	return lo.Filter(rows, func(r T, _ int) bool { return scope(f, id(r)) })
}

func (m *MemoryStore) Sessions(_ context.Context, f model.CompanyFilter) ([]model.Session, error) {
	return filterByCompany(m.ds.Sessions, f, func(r model.Session) string { return r.CompanyID }), nil
}

func (m *MemoryStore) Employees(_ context.Context, f model.CompanyFilter) ([]model.Employee, error) {
	return filterByCompany(m.ds.Employees, f, func(r model.Employee) string { return r.CompanyID }), nil
}

func (m *MemoryStore) Surveys(_ context.Context, f model.CompanyFilter) ([]model.SurveyResponse, error) {
	return filterByCompany(m.ds.Surveys, f, func(r model.SurveyResponse) string { return r.CompanyID }), nil
}

func (m *MemoryStore) Competencies(_ context.Context, f model.CompanyFilter) ([]model.CompetencyScore, error) {
	return filterByCompany(m.ds.Competencies, f, func(r model.CompetencyScore) string { return r.CompanyID }), nil
}

func (m *MemoryStore) Baselines(_ context.Context, f model.CompanyFilter) ([]model.BaselineEntry, error) {
	return filterByCompany(m.ds.Baselines, f, func(r model.BaselineEntry) string { return r.CompanyID }), nil
}

func (m *MemoryStore) FocusSelections(_ context.Context, f model.CompanyFilter) ([]model.FocusSelection, error) {
	return filterByCompany(m.ds.FocusSelections, f, func(r model.FocusSelection) string { return r.CompanyID }), nil
}

func (m *MemoryStore) ProgramConfigs(_ context.Context, f model.CompanyFilter) ([]model.ProgramConfig, error) {
	return filterByCompany(m.ds.ProgramConfigs, f, func(r model.ProgramConfig) string { return r.CompanyID }), nil
}

func (m *MemoryStore) Benchmarks(_ context.Context) ([]model.Benchmark, error) {
	return m.ds.Benchmarks, nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error { return nil }
