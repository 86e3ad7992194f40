// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/okian/cohortinsights/internal/app"
	"github.com/okian/cohortinsights/internal/auth"
	"github.com/okian/cohortinsights/internal/domain/insight"
	"github.com/okian/cohortinsights/internal/domain/model"
	"github.com/okian/cohortinsights/internal/domain/report"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Dashboard(ctx context.Context, q service.Query) (service.Dashboard, error)
	SubmitInsight(ctx context.Context, owner string, q service.Query) (insight.Job, error)
	Job(ctx context.Context, id string) (insight.Job, error)
	Export(ctx context.Context, id string) (report.Document, error)
	GenerateInsight(ctx context.Context, req insight.Request) (insight.Result, error)
}

// Authenticator validates bearer tokens and impersonation grants.
type Authenticator interface {
	Authenticate(token string) (auth.Principal, error)
	Impersonate(p auth.Principal, grant string) (auth.Principal, error)
	IssueGrant(admin auth.Principal, target model.CompanyFilter) (auth.Grant, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	authn            Authenticator
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	dashboardHandler *DashboardHandler
	insightsHandler  *InsightsHandler
	grantsHandler    *GrantsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, authn Authenticator) *Server {
	return &Server{
		authn:            authn,
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		dashboardHandler: NewDashboardHandler(deps),
		insightsHandler:  NewInsightsHandler(deps),
		grantsHandler:    NewGrantsHandler(authn),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("GET /v1/dashboard",
		MetricsMiddleware(s.authenticated(s.dashboardHandler.HandleGetDashboard, writeError), "dashboard"))
	mux.HandleFunc("POST /v1/insights",
		MetricsMiddleware(s.authenticated(s.insightsHandler.HandleGenerate, writeEdgeError), "insights"))
	mux.HandleFunc("POST /v1/insight-jobs",
		MetricsMiddleware(s.authenticated(s.insightsHandler.HandleSubmitJob, writeError), "insight_jobs"))
	mux.HandleFunc("GET /v1/insight-jobs/{id}",
		MetricsMiddleware(s.authenticated(s.insightsHandler.HandleGetJob, writeError), "insight_job"))
	mux.HandleFunc("GET /v1/insight-jobs/{id}/export",
		MetricsMiddleware(s.authenticated(s.insightsHandler.HandleExport, writeError), "insight_export"))
	mux.HandleFunc("POST /v1/admin/impersonation-grants",
		MetricsMiddleware(s.authenticated(s.grantsHandler.HandleIssue, writeError), "impersonation_grants"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// edgeResponse is the insight service contract shared with its callers.
type edgeResponse struct {
	Success        bool   `json:"success"`
	Insights       string `json:"insights,omitempty"`
	CompanyContext string `json:"companyContext,omitempty"`
	Error          string `json:"error,omitempty"`
}

type errorWriter func(w http.ResponseWriter, status int, code string, err error)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

func writeEdgeError(w http.ResponseWriter, status int, _ string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, edgeResponse{Success: false, Error: msg})
}

// classify maps service errors to a status and an error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, auth.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, auth.ErrForbidden), errors.Is(err, auth.ErrInvalidGrant):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, ErrNotFound), errors.Is(err, insight.ErrJobNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, insight.ErrInFlight):
		return http.StatusConflict, "in_flight"
	case errors.Is(err, insight.ErrNotReady):
		return http.StatusConflict, "not_ready"
	case errors.Is(err, service.ErrBackpressure):
		return http.StatusTooManyRequests, "backpressure"
	case errors.Is(err, insight.ErrRateLimited):
		return http.StatusBadGateway, "rate_limited"
	case errors.Is(err, insight.ErrGenerationFailed):
		return http.StatusBadGateway, "generation_failed"
	case errors.Is(err, service.ErrNotStarted):
		return http.StatusServiceUnavailable, "unavailable"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	}
	return http.StatusInternalServerError, "internal_error"
}

func fail(w http.ResponseWriter, write errorWriter, err error) {
	status, code := classify(err)
	write(w, status, code, err)
}
