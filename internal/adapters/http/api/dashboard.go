package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	service "github.com/okian/cohortinsights/internal/app"
	"github.com/okian/cohortinsights/internal/auth"
	"github.com/okian/cohortinsights/internal/domain/model"
)

const dateLayout = "2006-01-02"

// selection mirrors the OpenAPI schema shared by GET /v1/dashboard (query
// parameters) and POST /v1/insight-jobs (JSON body).
type selection struct {
	CompanyID   string `json:"company_id"`
	AccountName string `json:"account_name"`
	CompanyName string `json:"company_name"`
	Program     string `json:"program"`
	Cohort      string `json:"cohort"`
	From        string `json:"from"`
	To          string `json:"to"`
}

func selectionFromQuery(v url.Values) selection {
	return selection{
		CompanyID:   v.Get("company_id"),
		AccountName: v.Get("account_name"),
		CompanyName: v.Get("company_name"),
		Program:     v.Get("program"),
		Cohort:      v.Get("cohort"),
		From:        v.Get("from"),
		To:          v.Get("to"),
	}
}

// query resolves the selection for p into a service query.
func (s selection) query(op string, p auth.Principal) (service.Query, error) {
	company, err := s.company(p)
	if err != nil {
		return service.Query{}, err
	}

	program := strings.ToUpper(strings.TrimSpace(s.Program))
	if program != "" && program != string(model.ProgramScale) && program != string(model.ProgramGrow) {
		return service.Query{}, badRequest(op, fmt.Errorf("unknown program %q", s.Program))
	}

	var w model.Window
	if w.From, err = parseDate(s.From, false); err != nil {
		return service.Query{}, badRequest(op, fmt.Errorf("from: %w", err))
	}
	if w.To, err = parseDate(s.To, true); err != nil {
		return service.Query{}, badRequest(op, fmt.Errorf("to: %w", err))
	}
	if !w.From.IsZero() && !w.To.IsZero() && w.To.Before(w.From) {
		return service.Query{}, badRequest(op, errors.New("to is before from"))
	}

	return service.Query{
		Company: company,
		Program: model.ParseProgramType(program),
		Cohort:  strings.TrimSpace(s.Cohort),
		Window:  w,
	}, nil
}

// company picks the company a request acts for. Administrators that are not
// impersonating may name any company; everyone else acts for their own.
func (s selection) company(p auth.Principal) (model.CompanyFilter, error) {
	f := p.Company
	requested := strings.TrimSpace(s.CompanyID)
	switch {
	case p.IsAdmin() && !p.Impersonating && requested != "":
		f = model.CompanyFilter{CompanyID: requested, AccountName: s.AccountName, CompanyName: s.CompanyName}
	case requested != "" && requested != f.CompanyID:
		return model.CompanyFilter{}, fmt.Errorf("company %q: %w", requested, auth.ErrForbidden)
	}
	if f.IsZero() {
		return model.CompanyFilter{}, badRequest("resolve company", errors.New("company_id is required"))
	}
	if err := auth.Authorize(p, f.CompanyID); err != nil {
		return model.CompanyFilter{}, err
	}
	return f, nil
}

// parseDate accepts YYYY-MM-DD or RFC 3339. A date-only upper bound covers
// the whole day.
func parseDate(s string, end bool) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		if end {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q; use YYYY-MM-DD or RFC3339", s)
	}
	return t, nil
}

// DashboardHandler serves cohort dashboards.
type DashboardHandler struct {
	deps Dependencies
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(deps Dependencies) *DashboardHandler {
	return &DashboardHandler{deps: deps}
}

// HandleGetDashboard handles GET /v1/dashboard requests.
func (h *DashboardHandler) HandleGetDashboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_dashboard"
	p, _ := auth.FromContext(r.Context())

	q, err := selectionFromQuery(r.URL.Query()).query(op, p)
	if err != nil {
		fail(w, writeError, err)
		return
	}
	d, err := h.deps.Dashboard(r.Context(), q)
	if err != nil {
		fail(w, writeError, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}
