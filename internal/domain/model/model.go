// Package model contains the coaching-program rows read from the data store
// and passed between the matcher, the aggregator and the prompt builder.
package model

import (
	"strings"
	"time"
)

// ProgramType distinguishes the two coaching programs.
type ProgramType string

// Known program types.
const (
	ProgramScale ProgramType = "SCALE"
	ProgramGrow  ProgramType = "GROW"
)

// ParseProgramType normalizes a free-text program type. Unknown values map to SCALE.
func ParseProgramType(s string) ProgramType {
	if strings.EqualFold(strings.TrimSpace(s), string(ProgramGrow)) {
		return ProgramGrow
	}
	return ProgramScale
}

// CompanyFilter is the tuple of identifiers that scopes queries to one customer.
// It doubles as the matcher context.
type CompanyFilter struct {
	CompanyID   string `json:"company_id,omitempty" yaml:"company_id"`
	AccountName string `json:"account_name,omitempty" yaml:"account_name"`
	CompanyName string `json:"company_name,omitempty" yaml:"company_name"`
}

// IsZero reports whether no identifier is set.
func (f CompanyFilter) IsZero() bool {
	return f.CompanyID == "" && f.AccountName == "" && f.CompanyName == ""
}

// Window bounds the dates considered by an aggregation. Zero bounds are open.
type Window struct {
	From time.Time `json:"from,omitempty"`
	To   time.Time `json:"to,omitempty"`
}

// Contains reports whether t falls inside the window (inclusive).
func (w Window) Contains(t time.Time) bool {
	if t.IsZero() {
		return w.From.IsZero() && w.To.IsZero()
	}
	if !w.From.IsZero() && t.Before(w.From) {
		return false
	}
	if !w.To.IsZero() && t.After(w.To) {
		return false
	}
	return true
}

// String renders the window for prompts, e.g. "2024-01-01 to 2024-03-31".
func (w Window) String() string {
	const layout = "2006-01-02"
	switch {
	case w.From.IsZero() && w.To.IsZero():
		return "All time"
	case w.From.IsZero():
		return "Through " + w.To.Format(layout)
	case w.To.IsZero():
		return "Since " + w.From.Format(layout)
	default:
		return w.From.Format(layout) + " to " + w.To.Format(layout)
	}
}

// Identifiers are the free-text fields used to associate a row with a
// company and a cohort.
type Identifiers struct {
	AccountName  string
	ProgramTitle string
	CompanyName  string
	Cohort       string
	Program      string
}

// Empty reports whether the row carries no identifier at all.
func (i Identifiers) Empty() bool {
	return strings.TrimSpace(i.AccountName+i.ProgramTitle+i.CompanyName+i.Cohort+i.Program) == ""
}

// Identified is implemented by every row type the matcher can partition.
type Identified interface {
	Identifiers() Identifiers
}

// Session is a coaching session record.
type Session struct {
	ID            string    `db:"id" json:"id" yaml:"id"`
	EmployeeID    string    `db:"employee_id" json:"employee_id" yaml:"employee_id"`
	EmployeeName  string    `db:"employee_name" json:"employee_name" yaml:"employee_name"`
	AccountName   string    `db:"account_name" json:"account_name" yaml:"account_name"`
	ProgramTitle  string    `db:"program_title" json:"program_title" yaml:"program_title"`
	CompanyID     string    `db:"company_id" json:"company_id" yaml:"company_id"`
	SessionDate   time.Time `db:"session_date" json:"session_date" yaml:"session_date"`
	Status        string    `db:"status" json:"status" yaml:"status"`
	Leadership    ThemeTag  `db:"leadership" json:"leadership" yaml:"leadership"`
	Communication ThemeTag  `db:"communication" json:"communication" yaml:"communication"`
	Wellbeing     ThemeTag  `db:"wellbeing" json:"wellbeing" yaml:"wellbeing"`
}

func (s Session) Identifiers() Identifiers {
	return Identifiers{AccountName: s.AccountName, ProgramTitle: s.ProgramTitle}
}

// EmployeeKey identifies the coachee across rows.
func (s Session) EmployeeKey() string {
	if s.EmployeeID != "" {
		return strings.ToLower(strings.TrimSpace(s.EmployeeID))
	}
	return strings.ToLower(strings.TrimSpace(s.EmployeeName))
}

// Employee is a roster entry.
type Employee struct {
	ID          string `db:"id" json:"id" yaml:"id"`
	Name        string `db:"name" json:"name" yaml:"name"`
	Email       string `db:"email" json:"email" yaml:"email"`
	CompanyID   string `db:"company_id" json:"company_id" yaml:"company_id"`
	CompanyName string `db:"company_name" json:"company_name" yaml:"company_name"`
	AccountName string `db:"account_name" json:"account_name" yaml:"account_name"`
	Program     string `db:"program" json:"program" yaml:"program"`
	JobTitle    string `db:"job_title" json:"job_title" yaml:"job_title"`
	Status      string `db:"status" json:"status" yaml:"status"`
}

func (e Employee) Identifiers() Identifiers {
	return Identifiers{AccountName: e.AccountName, CompanyName: e.CompanyName, Program: e.Program}
}

// Active reports whether the employee is eligible for the program.
func (e Employee) Active() bool {
	return !strings.EqualFold(strings.TrimSpace(e.Status), "inactive")
}

// Key identifies the employee across rows; sessions use the same form.
func (e Employee) Key() string {
	if e.ID != "" {
		return strings.ToLower(strings.TrimSpace(e.ID))
	}
	return strings.ToLower(strings.TrimSpace(e.Name))
}

// Survey subtypes.
const (
	SurveyFirstSession = "first_session"
	SurveyEndOfProgram = "end_of_program"
	SurveyTouchpoint   = "touchpoint"
	SurveyWelcome      = "welcome"
)

// SurveyResponse is a unified survey row.
type SurveyResponse struct {
	ID                string    `db:"id" json:"id" yaml:"id"`
	SurveyType        string    `db:"survey_type" json:"survey_type" yaml:"survey_type"`
	Email             string    `db:"email" json:"email" yaml:"email"`
	ParticipantName   string    `db:"participant_name" json:"participant_name" yaml:"participant_name"`
	CompanyID         string    `db:"company_id" json:"company_id" yaml:"company_id"`
	AccountName       string    `db:"account_name" json:"account_name" yaml:"account_name"`
	ProgramTitle      string    `db:"program_title" json:"program_title" yaml:"program_title"`
	CompanyName       string    `db:"company_name" json:"company_name" yaml:"company_name"`
	Cohort            string    `db:"cohort" json:"cohort" yaml:"cohort"`
	SubmittedAt       time.Time `db:"submitted_at" json:"submitted_at" yaml:"submitted_at"`
	NPS               *float64  `db:"nps" json:"nps" yaml:"nps"`
	CoachSatisfaction *float64  `db:"coach_satisfaction" json:"coach_satisfaction" yaml:"coach_satisfaction"`
	WhatWentWell      string    `db:"what_went_well" json:"what_went_well" yaml:"what_went_well"`
	Improvement       string    `db:"improvement" json:"improvement" yaml:"improvement"`
	Comments          string    `db:"comments" json:"comments" yaml:"comments"`
	Satisfaction      *float64  `db:"satisfaction" json:"satisfaction" yaml:"satisfaction"`
	Productivity      *float64  `db:"productivity" json:"productivity" yaml:"productivity"`
	WorkLifeBalance   *float64  `db:"work_life_balance" json:"work_life_balance" yaml:"work_life_balance"`
}

func (s SurveyResponse) Identifiers() Identifiers {
	return Identifiers{AccountName: s.AccountName, ProgramTitle: s.ProgramTitle, CompanyName: s.CompanyName, Cohort: s.Cohort}
}

// FreeText returns the non-empty feedback fields in a stable order.
func (s SurveyResponse) FreeText() []string {
	out := make([]string, 0, 3)
	for _, t := range []string{s.WhatWentWell, s.Comments, s.Improvement} {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// CompetencyScore is one (participant, competency) pair of pre/post scores.
type CompetencyScore struct {
	Email           string   `db:"email" json:"email" yaml:"email"`
	ParticipantName string   `db:"participant_name" json:"participant_name" yaml:"participant_name"`
	CompanyID       string   `db:"company_id" json:"company_id" yaml:"company_id"`
	AccountName     string   `db:"account_name" json:"account_name" yaml:"account_name"`
	ProgramTitle    string   `db:"program_title" json:"program_title" yaml:"program_title"`
	Competency      string   `db:"competency" json:"competency" yaml:"competency"`
	Pre             *float64 `db:"pre" json:"pre" yaml:"pre"`
	Post            *float64 `db:"post" json:"post" yaml:"post"`
}

func (c CompetencyScore) Identifiers() Identifiers {
	return Identifiers{AccountName: c.AccountName, ProgramTitle: c.ProgramTitle}
}

// Complete reports whether both scores are present and nonzero.
func (c CompetencyScore) Complete() bool {
	return c.Pre != nil && c.Post != nil && *c.Pre > 0 && *c.Post > 0
}

// ParticipantKey identifies the participant across competency rows.
func (c CompetencyScore) ParticipantKey() string {
	if c.Email != "" {
		return strings.ToLower(strings.TrimSpace(c.Email))
	}
	return strings.ToLower(strings.TrimSpace(c.ParticipantName))
}

// BaselineEntry is the welcome-survey baseline collected at program start.
type BaselineEntry struct {
	Email           string     `db:"email" json:"email" yaml:"email"`
	CompanyID       string     `db:"company_id" json:"company_id" yaml:"company_id"`
	AccountName     string     `db:"account_name" json:"account_name" yaml:"account_name"`
	ProgramTitle    string     `db:"program_title" json:"program_title" yaml:"program_title"`
	CompanyName     string     `db:"company_name" json:"company_name" yaml:"company_name"`
	Cohort          string     `db:"cohort" json:"cohort" yaml:"cohort"`
	SubmittedAt     time.Time  `db:"submitted_at" json:"submitted_at" yaml:"submitted_at"`
	Satisfaction    *float64   `db:"satisfaction" json:"satisfaction" yaml:"satisfaction"`
	Productivity    *float64   `db:"productivity" json:"productivity" yaml:"productivity"`
	WorkLifeBalance *float64   `db:"work_life_balance" json:"work_life_balance" yaml:"work_life_balance"`
	FocusAreas      FocusFlags `db:"focus_areas" json:"focus_areas" yaml:"focus_areas"`
	AgeRange        string     `db:"age_range" json:"age_range" yaml:"age_range"`
	Gender          string     `db:"gender" json:"gender" yaml:"gender"`
	Tenure          string     `db:"tenure" json:"tenure" yaml:"tenure"`
	Role            string     `db:"role" json:"role" yaml:"role"`
}

func (b BaselineEntry) Identifiers() Identifiers {
	return Identifiers{AccountName: b.AccountName, ProgramTitle: b.ProgramTitle, CompanyName: b.CompanyName, Cohort: b.Cohort}
}

// FocusSelection is a single focus area picked by a participant.
type FocusSelection struct {
	Email        string `db:"email" json:"email" yaml:"email"`
	CompanyID    string `db:"company_id" json:"company_id" yaml:"company_id"`
	AccountName  string `db:"account_name" json:"account_name" yaml:"account_name"`
	ProgramTitle string `db:"program_title" json:"program_title" yaml:"program_title"`
	CompanyName  string `db:"company_name" json:"company_name" yaml:"company_name"`
	Area         string `db:"area" json:"area" yaml:"area"`
}

func (f FocusSelection) Identifiers() Identifiers {
	return Identifiers{AccountName: f.AccountName, ProgramTitle: f.ProgramTitle, CompanyName: f.CompanyName}
}

// ProgramConfig is the per-cohort configuration.
type ProgramConfig struct {
	CompanyID           string     `db:"company_id" json:"company_id" yaml:"company_id"`
	AccountName         string     `db:"account_name" json:"account_name" yaml:"account_name"`
	ProgramTitle        string     `db:"program_title" json:"program_title" yaml:"program_title"`
	ProgramType         string     `db:"program_type" json:"program_type" yaml:"program_type"`
	SessionsPerEmployee int        `db:"sessions_per_employee" json:"sessions_per_employee" yaml:"sessions_per_employee"`
	StartDate           *time.Time `db:"start_date" json:"start_date" yaml:"start_date"`
	EndDate             *time.Time `db:"end_date" json:"end_date" yaml:"end_date"`
}

func (p ProgramConfig) Identifiers() Identifiers {
	return Identifiers{AccountName: p.AccountName, ProgramTitle: p.ProgramTitle}
}

// Benchmark is an external reference value for one metric.
type Benchmark struct {
	Metric      string  `db:"metric" json:"metric" yaml:"metric"`
	ProgramType string  `db:"program_type" json:"program_type" yaml:"program_type"`
	Value       float64 `db:"value" json:"value" yaml:"value"`
}
