package matcher

import "github.com/okian/cohortinsights/internal/domain/model"

// Stats counts the outcome of filtering one row set.
type Stats struct {
	Matched   int
	Excluded  int
	Ambiguous int
}

// Add accumulates other into s.
func (s *Stats) Add(other Stats) {
	s.Matched += other.Matched
	s.Excluded += other.Excluded
	s.Ambiguous += other.Ambiguous
}

// AuditFunc receives every row matched through more than one heuristic.
type AuditFunc func(row model.Identifiers, res Result)

// Filter keeps the rows that belong to the company in ctx and to cohort.
// Rows carrying no identifier are kept only in the all-cohorts view, since
// the store already scoped them to the company.
func Filter[T model.Identified](m *Matcher, rows []T, ctx model.CompanyFilter, cohort string, audit AuditFunc) ([]T, Stats) {
	var st Stats
	kept := make([]T, 0, len(rows))
	for _, r := range rows {
		ids := r.Identifiers()
		if ids.Empty() {
			if IsAllCohorts(cohort) {
				kept = append(kept, r)
				st.Matched++
			} else {
				st.Excluded++
			}
			continue
		}
		res := m.MatchesAccount(ids, ctx)
		if !res.Matched || !m.InCohort(ids, cohort) {
			st.Excluded++
			continue
		}
		if res.Ambiguous() {
			st.Ambiguous++
			if audit != nil {
				audit(ids, res)
			}
		}
		kept = append(kept, r)
		st.Matched++
	}
	return kept, st
}
