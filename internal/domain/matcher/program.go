package matcher

import (
	"strings"
	"unicode"

	"github.com/okian/cohortinsights/internal/domain/model"
	"github.com/samber/lo"
)

// ProgramTypes maps normalized cohort display names to their program type.
type ProgramTypes map[string]model.ProgramType

// ProgramTypesOf indexes the program configurations by cohort.
func (m *Matcher) ProgramTypesOf(cfgs []model.ProgramConfig) ProgramTypes {
	known := make(ProgramTypes, len(cfgs))
	for _, c := range cfgs {
		cohort := m.CohortOf(c.Identifiers())
		if cohort == "" || strings.TrimSpace(c.ProgramType) == "" {
			continue
		}
		known[Normalize(cohort)] = model.ParseProgramType(c.ProgramType)
	}
	return known
}

// ProgramOf classifies the row's cohort. A cohort with a program
// configuration takes the configured type; otherwise a cohort name naming
// exactly one program ("GROW - Cohort 1", "Acme - SCALE") decides. ok is
// false when the program cannot be determined.
func (m *Matcher) ProgramOf(row model.Identifiers, known ProgramTypes) (model.ProgramType, bool) {
	cohort := m.CohortOf(row)
	if cohort == "" {
		return "", false
	}
	if pt, ok := known[Normalize(cohort)]; ok {
		return pt, true
	}
	words := strings.FieldsFunc(Normalize(cohort), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	grow := lo.Contains(words, Normalize(string(model.ProgramGrow)))
	scale := lo.Contains(words, Normalize(string(model.ProgramScale)))
	switch {
	case grow && !scale:
		return model.ProgramGrow, true
	case scale && !grow:
		return model.ProgramScale, true
	default:
		return "", false
	}
}

// InProgram reports whether row belongs to program pt. Rows whose program
// cannot be determined are kept, as is every row when pt is empty.
func (m *Matcher) InProgram(row model.Identifiers, pt model.ProgramType, known ProgramTypes) bool {
	if pt == "" {
		return true
	}
	got, ok := m.ProgramOf(row, known)
	return !ok || got == pt
}
