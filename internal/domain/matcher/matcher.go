// Package matcher decides whether a loosely identified row belongs to a
// company and, if so, which cohort it belongs to.
//
// Matching is best effort. The heuristics are evaluated in one documented
// precedence list:
//
//  1. account_name: when the context carries an account name, a row matches
//     if a normalized identifier contains the account name, the account name
//     contains the row's account/company value, or the identifier contains the
//     first token of the account name.
//  2. company_name: only when no account name is set, the same containment
//     rule against the company display name with any " - SUFFIX" qualifier
//     stripped.
//  3. alias: an entry of the versioned AliasTable declares member names and
//     program-title prefixes that belong to a company.
//
// A row matched by more than one heuristic is reported as ambiguous so it can
// be audited. A context without any name (company_id only) matches every
// row, relying on the store's server-side scoping.
package matcher

import (
	"sort"
	"strings"

	"github.com/okian/cohortinsights/internal/domain/model"
	"github.com/samber/lo"
)

// AllCohorts selects the aggregate view across every cohort.
const AllCohorts = "all"

// Heuristic names the rule that matched a row.
type Heuristic string

// Matching heuristics in precedence order.
const (
	ViaAccount Heuristic = "account_name"
	ViaCompany Heuristic = "company_name"
	ViaAlias   Heuristic = "alias"
)

// Result is the outcome of a company match.
type Result struct {
	Matched bool
	Via     []Heuristic
}

// Ambiguous reports whether more than one heuristic matched.
func (r Result) Ambiguous() bool { return len(r.Via) > 1 }

// Matcher applies an AliasTable to rows.
type Matcher struct {
	table        AliasTable
	programNames map[string]string
	ignored      map[string]struct{}
}

// New builds a Matcher from an alias table.
func New(table AliasTable) *Matcher {
	m := &Matcher{
		table:        table,
		programNames: make(map[string]string, len(table.ProgramNames)),
		ignored:      make(map[string]struct{}, len(table.IgnoredTokens)),
	}
	for code, name := range table.ProgramNames {
		m.programNames[Normalize(code)] = name
	}
	for _, tok := range table.IgnoredTokens {
		m.ignored[Normalize(tok)] = struct{}{}
	}
	return m
}

// Version returns the alias table version in use.
func (m *Matcher) Version() string { return m.table.Version }

// Normalize lower-cases and trims s.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// IsAllCohorts reports whether cohort selects the aggregate view.
func IsAllCohorts(cohort string) bool {
	c := Normalize(cohort)
	return c == "" || c == AllCohorts || c == "all cohorts" || c == "all programs"
}

// StripQualifier removes a trailing " - SUFFIX" qualifier, e.g. "Acme - SCALE" -> "Acme".
func StripQualifier(name string) string {
	if i := strings.LastIndex(name, " - "); i > 0 {
		return strings.TrimSpace(name[:i])
	}
	return strings.TrimSpace(name)
}

// MatchesAccount decides whether row belongs to the company in ctx.
func (m *Matcher) MatchesAccount(row model.Identifiers, ctx model.CompanyFilter) Result {
	var res Result
	if row.Empty() {
		return res
	}
	if strings.TrimSpace(ctx.AccountName) == "" && strings.TrimSpace(ctx.CompanyName) == "" {
		// nothing to compare; the store's company_id scoping is authoritative
		res.Matched = true
		return res
	}

	if account := Normalize(ctx.AccountName); account != "" {
		if m.containsEither(row, account, m.firstToken(account)) {
			res.Via = append(res.Via, ViaAccount)
		}
	} else if company := Normalize(StripQualifier(ctx.CompanyName)); company != "" {
		if m.containsEither(row, company, "") {
			res.Via = append(res.Via, ViaCompany)
		}
	}

	if m.matchesAlias(row, ctx) {
		res.Via = append(res.Via, ViaAlias)
	}

	res.Matched = len(res.Via) > 0
	return res
}

// containsEither applies the containment rule. Owner fields (account and
// company name) may be contained in the target; cohort-like fields only
// match forward so that short program labels do not match every account.
func (m *Matcher) containsEither(row model.Identifiers, target, token string) bool {
	for _, v := range []string{row.AccountName, row.CompanyName} {
		v = Normalize(v)
		if v == "" {
			continue
		}
		if strings.Contains(v, target) || strings.Contains(target, v) {
			return true
		}
		if token != "" && strings.Contains(v, token) {
			return true
		}
	}
	for _, v := range []string{row.ProgramTitle, row.Cohort, row.Program} {
		v = Normalize(v)
		if v == "" {
			continue
		}
		if strings.Contains(v, target) || (token != "" && strings.Contains(v, token)) {
			return true
		}
	}
	return false
}

func (m *Matcher) firstToken(account string) string {
	fields := strings.Fields(account)
	if len(fields) < 2 {
		// a single-word account is already covered by full containment
		return ""
	}
	if _, skip := m.ignored[fields[0]]; skip {
		return ""
	}
	return fields[0]
}

func (m *Matcher) matchesAlias(row model.Identifiers, ctx model.CompanyFilter) bool {
	names := lo.Compact([]string{Normalize(ctx.AccountName), Normalize(StripQualifier(ctx.CompanyName))})
	if len(names) == 0 {
		return false
	}
	for _, alias := range m.table.Companies {
		owner := Normalize(alias.Company)
		if owner == "" {
			continue
		}
		if !lo.SomeBy(names, func(n string) bool { return strings.Contains(n, owner) || strings.Contains(owner, n) }) {
			continue
		}
		for _, v := range []string{row.AccountName, row.CompanyName, row.ProgramTitle, row.Cohort, row.Program} {
			v = Normalize(v)
			if v == "" {
				continue
			}
			for _, member := range alias.Members {
				if member = Normalize(member); member != "" && strings.Contains(v, member) {
					return true
				}
			}
		}
		title := Normalize(row.ProgramTitle)
		for _, prefix := range alias.ProgramPrefixes {
			if prefix = Normalize(prefix); prefix != "" && strings.HasPrefix(title, prefix) {
				return true
			}
		}
	}
	return false
}

// DisplayName maps an internal program code to its display name.
func (m *Matcher) DisplayName(program string) string {
	if name, ok := m.programNames[Normalize(program)]; ok {
		return name
	}
	return strings.TrimSpace(program)
}

// CohortOf returns the display name of the row's cohort, or "".
func (m *Matcher) CohortOf(row model.Identifiers) string {
	for _, v := range []string{row.ProgramTitle, row.Cohort, row.Program} {
		if strings.TrimSpace(v) != "" {
			return m.DisplayName(v)
		}
	}
	return ""
}

// InCohort reports whether row belongs to cohort. In the all-cohorts view
// every row passes; otherwise rows without any identifier are excluded.
func (m *Matcher) InCohort(row model.Identifiers, cohort string) bool {
	if IsAllCohorts(cohort) {
		return true
	}
	got := m.CohortOf(row)
	if got == "" {
		return false
	}
	return Normalize(got) == Normalize(m.DisplayName(cohort))
}

// Cohorts returns the distinct cohort display names found in rows, sorted.
func Cohorts[T model.Identified](m *Matcher, rows []T) []string {
	names := lo.Uniq(lo.Compact(lo.Map(rows, func(r T, _ int) string {
		return m.CohortOf(r.Identifiers())
	})))
	sort.Strings(names)
	return names
}
