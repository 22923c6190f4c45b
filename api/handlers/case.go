package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/nyayasankalan/case-api/api"
	"github.com/nyayasankalan/case-api/config"
	"github.com/nyayasankalan/case-api/services"
)

const defaultAssignmentReason = "Assigned by SHO"

// Case exported for testing purposes
type Case struct {
	Service *services.CaseService
}

type assignCaseRequest struct {
	OfficerID        string `json:"officerId" validate:"required"`
	AssignmentReason string `json:"assignmentReason"`
}

type updateCaseStateRequest struct {
	NewState     string `json:"newState" validate:"required"`
	ChangeReason string `json:"changeReason"`
}

// MyCasesHandler returns a page of the cases visible to the caller
func (c Case) MyCasesHandler(w http.ResponseWriter, r *http.Request) {
	c.listCases(w, r)
}

// AllCasesHandler returns a page of all cases visible to SHOs and court staff
func (c Case) AllCasesHandler(w http.ResponseWriter, r *http.Request) {
	c.listCases(w, r)
}

func (c Case) listCases(w http.ResponseWriter, r *http.Request) {
	actor, _ := api.ActorFrom(r.Context())

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	result, err := c.Service.GetCases(ctx, actor.OrganizationID, actor.Role, getQueryInt(r, "page"), getQueryInt(r, "limit"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// CaseByIDHandler returns a case with its history, assignments and sub-records
func (c Case) CaseByIDHandler(w http.ResponseWriter, r *http.Request) {
	caseID := mux.Vars(r)["caseId"]
	actor, _ := api.ActorFrom(r.Context())

	zap.S().Debugw("get case", "caseId", caseID, "user", actor.UserID)

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	record, err := c.Service.GetCaseByID(ctx, caseID, actor.Role, actor.OrganizationID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, record)
}

// AssignCaseHandler assigns a case to an officer
func (c Case) AssignCaseHandler(w http.ResponseWriter, r *http.Request) {
	caseID := mux.Vars(r)["caseId"]
	actor, _ := api.ActorFrom(r.Context())

	var body assignCaseRequest
	if msg, err := decodeBody(r, &body); err != nil {
		config.ErrorStatus(msg, http.StatusBadRequest, w, err)
		return
	}
	reason := body.AssignmentReason
	if reason == "" {
		reason = defaultAssignmentReason
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	assignment, err := c.Service.AssignCase(ctx, caseID, body.OfficerID, reason, actor.UserID, actor.OrganizationID)
	if err != nil {
		respondError(w, err)
		return
	}
	zap.S().Infow("case assigned",
		"caseId", caseID,
		"officerId", body.OfficerID,
		"by", actor.UserID)
	respondJSON(w, http.StatusOK, assignment)
}

// UpdateCaseStateHandler moves a case to a new workflow state
func (c Case) UpdateCaseStateHandler(w http.ResponseWriter, r *http.Request) {
	caseID := mux.Vars(r)["caseId"]
	actor, _ := api.ActorFrom(r.Context())

	var body updateCaseStateRequest
	if msg, err := decodeBody(r, &body); err != nil {
		config.ErrorStatus(msg, http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	transition, err := c.Service.UpdateCaseState(ctx, caseID, body.NewState, body.ChangeReason, actor.UserID, actor.OrganizationID)
	if err != nil {
		respondError(w, err)
		return
	}
	zap.S().Infow("case state changed",
		"caseId", caseID,
		"from", transition.PreviousState,
		"to", transition.NewState,
		"by", actor.UserID)
	respondJSON(w, http.StatusOK, transition)
}
