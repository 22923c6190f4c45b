package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nyayasankalan/case-api/api"
	"github.com/nyayasankalan/case-api/services"
)

// Audit exported for testing purposes
type Audit struct {
	Service *services.AuditService
}

// CaseAuditLogsHandler returns a page of the audit trail of a case, newest first
func (a Audit) CaseAuditLogsHandler(w http.ResponseWriter, r *http.Request) {
	caseID := mux.Vars(r)["caseId"]
	actor, _ := api.ActorFrom(r.Context())

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	logs, err := a.Service.ListCaseAuditLogs(ctx, caseID, actor.Role, actor.OrganizationID, getQueryInt(r, "page"), getQueryInt(r, "limit"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, logs)
}
