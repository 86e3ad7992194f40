package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/okian/cohortinsights/internal/auth"
	"github.com/okian/cohortinsights/internal/domain/insight"
	"github.com/okian/cohortinsights/internal/domain/model"
)

// InsightsHandler serves synchronous generation and insight jobs.
type InsightsHandler struct {
	deps Dependencies
}

// NewInsightsHandler creates a new insights handler.
func NewInsightsHandler(deps Dependencies) *InsightsHandler {
	return &InsightsHandler{deps: deps}
}

// HandleGenerate handles POST /v1/insights, the synchronous insight service
// contract. Every response carries the {success, ...} envelope.
func (h *InsightsHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	const op = "api.generate_insights"
	p, _ := auth.FromContext(r.Context())

	var req insight.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, writeEdgeError, badRequest(op, err))
		return
	}
	switch {
	case strings.TrimSpace(req.CompanyID) == "":
		fail(w, writeEdgeError, badRequest(op, errors.New("missing companyId")))
		return
	case strings.TrimSpace(req.CompanyName) == "":
		fail(w, writeEdgeError, badRequest(op, errors.New("missing companyName")))
		return
	case strings.TrimSpace(req.InternalData) == "":
		fail(w, writeEdgeError, badRequest(op, errors.New("missing internalData")))
		return
	}
	if err := auth.Authorize(p, req.CompanyID); err != nil {
		fail(w, writeEdgeError, err)
		return
	}
	if req.ProgramType != "" {
		req.ProgramType = model.ParseProgramType(string(req.ProgramType))
	}

	res, err := h.deps.GenerateInsight(r.Context(), req)
	if err != nil {
		fail(w, writeEdgeError, err)
		return
	}
	writeJSON(w, http.StatusOK, edgeResponse{
		Success:        true,
		Insights:       res.Insights,
		CompanyContext: res.CompanyContext,
	})
}

// HandleSubmitJob handles POST /v1/insight-jobs requests.
func (h *InsightsHandler) HandleSubmitJob(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit_insight_job"
	p, _ := auth.FromContext(r.Context())

	var sel selection
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&sel); err != nil {
			fail(w, writeError, badRequest(op, err))
			return
		}
	}
	q, err := sel.query(op, p)
	if err != nil {
		fail(w, writeError, err)
		return
	}

	job, err := h.deps.SubmitInsight(r.Context(), p.Subject, q)
	if err != nil {
		fail(w, writeError, err)
		return
	}
	w.Header().Set("Location", "/v1/insight-jobs/"+job.ID)
	writeJSON(w, http.StatusAccepted, job)
}

// HandleGetJob handles GET /v1/insight-jobs/{id} requests.
func (h *InsightsHandler) HandleGetJob(w http.ResponseWriter, r *http.Request) {
	job, err := h.visibleJob(r)
	if err != nil {
		fail(w, writeError, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// HandleExport handles GET /v1/insight-jobs/{id}/export requests.
func (h *InsightsHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	job, err := h.visibleJob(r)
	if err != nil {
		fail(w, writeError, err)
		return
	}
	doc, err := h.deps.Export(r.Context(), job.ID)
	if err != nil {
		fail(w, writeError, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.Filename}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc.Body))
}

// visibleJob loads the job named in the path. Jobs of other companies are
// reported as not found.
func (h *InsightsHandler) visibleJob(r *http.Request) (insight.Job, error) {
	p, _ := auth.FromContext(r.Context())
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		return insight.Job{}, badRequest("api.get_insight_job", errors.New("missing job id"))
	}
	job, err := h.deps.Job(r.Context(), id)
	if err != nil {
		return insight.Job{}, err
	}
	if job.Owner != p.Subject && auth.Authorize(p, job.Request.CompanyID) != nil {
		return insight.Job{}, fmt.Errorf("job %s: %w", id, ErrNotFound)
	}
	return job, nil
}
