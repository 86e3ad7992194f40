package api

import (
	"encoding/json"
	"net/http"

	"github.com/okian/cohortinsights/internal/auth"
	"github.com/okian/cohortinsights/internal/domain/model"
)

// GrantsHandler issues impersonation grants to administrators.
type GrantsHandler struct {
	authn Authenticator
}

// NewGrantsHandler creates a new grants handler.
func NewGrantsHandler(authn Authenticator) *GrantsHandler {
	return &GrantsHandler{authn: authn}
}

// HandleIssue handles POST /v1/admin/impersonation-grants requests.
func (h *GrantsHandler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	const op = "api.issue_grant"
	p, _ := auth.FromContext(r.Context())

	var target model.CompanyFilter
	if err := json.NewDecoder(r.Body).Decode(&target); err != nil {
		fail(w, writeError, badRequest(op, err))
		return
	}
	grant, err := h.authn.IssueGrant(p, target)
	if err != nil {
		fail(w, writeError, err)
		return
	}
	writeJSON(w, http.StatusCreated, grant)
}
