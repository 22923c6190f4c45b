// Package docs Nyaya Case API.
//
// Documentation of the Nyaya case management API.
//
//     Schemes: https
//     BasePath: /
//     Version: 1.0.0
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
//     Security:
//     - bearer
//
//    SecurityDefinitions:
//    bearer:
//      type: apiKey
//      name: Authorization
//      in: header
//
// swagger:meta
package docs

import (
	"github.com/nyayasankalan/case-api/models"
)

// swagger:route GET /health health healthEndpointID
// Lists the healthchex of the web service api.
// responses:
//   200: healthResponse

// Shows the current health of the api. true means it is alive, false means it is not.
// swagger:response healthResponse
type healthResponseWrapper struct {
	// in:body
	Body models.HealthCheckResponse
}

// swagger:route GET /api/cases/my cases myCases
// Lists the cases visible to the caller, newest first. Station roles only see
// their own station.
// responses:
//   200: caseListResponse
//   400: errorResponse
//   401: errorResponse

// swagger:route GET /api/cases/all cases allCases
// Lists all cases. SHO and court roles only.
// responses:
//   200: caseListResponse
//   400: errorResponse
//   403: errorResponse

// A page of cases
// swagger:response caseListResponse
type caseListResponseWrapper struct {
	// in:body
	Body struct {
		Success bool            `json:"success"`
		Data    models.CaseList `json:"data"`
	}
}

// swagger:parameters myCases allCases caseAuditLogs
type pageParams struct {
	// in:query
	Page int `json:"page"`
	// Page size, 20 when absent. Values above 100 are capped at 100 and the
	// applied size is echoed in pagination.limit.
	// in:query
	// maximum: 100
	Limit int `json:"limit"`
}

// swagger:route GET /api/cases/{caseId} cases caseByID
// Gets a single case with its FIR, history, assignments and sub-records.
// responses:
//   200: caseResponse
//   403: errorResponse
//   404: errorResponse

// A single case
// swagger:response caseResponse
type caseResponseWrapper struct {
	// in:body
	Body struct {
		Success bool              `json:"success"`
		Data    models.CaseRecord `json:"data"`
	}
}

// swagger:parameters caseByID assignCase updateCaseState caseAuditLogs
type caseIDParam struct {
	// in:path
	// required: true
	CaseID string `json:"caseId"`
}

// swagger:route POST /api/cases/{caseId}/assign cases assignCase
// Assigns a case to an officer. SHO only.
// responses:
//   200: assignmentResponse
//   400: errorResponse
//   403: errorResponse
//   404: errorResponse
//   409: errorResponse

// swagger:parameters assignCase
type assignCaseParams struct {
	// in:body
	Body struct {
		// required: true
		OfficerID        string `json:"officerId"`
		AssignmentReason string `json:"assignmentReason"`
	}
}

// The new assignment
// swagger:response assignmentResponse
type assignmentResponseWrapper struct {
	// in:body
	Body struct {
		Success bool                  `json:"success"`
		Data    models.CaseAssignment `json:"data"`
	}
}

// swagger:route POST /api/cases/{caseId}/state cases updateCaseState
// Moves a case to a new state. POLICE and SHO only.
// responses:
//   200: stateTransitionResponse
//   400: errorResponse
//   403: errorResponse
//   404: errorResponse
//   409: errorResponse

// swagger:parameters updateCaseState
type updateCaseStateParams struct {
	// in:body
	Body struct {
		// required: true
		NewState     models.CaseState `json:"newState"`
		ChangeReason string           `json:"changeReason"`
	}
}

// The applied transition
// swagger:response stateTransitionResponse
type stateTransitionResponseWrapper struct {
	// in:body
	Body struct {
		Success bool                   `json:"success"`
		Data    models.StateTransition `json:"data"`
	}
}

// swagger:route GET /api/cases/{caseId}/audit-logs audit caseAuditLogs
// Lists the audit trail of a case, newest first. SHO and court roles only.
// responses:
//   200: auditLogListResponse
//   403: errorResponse
//   404: errorResponse

// A page of audit rows
// swagger:response auditLogListResponse
type auditLogListResponseWrapper struct {
	// in:body
	Body struct {
		Success bool                `json:"success"`
		Data    models.AuditLogList `json:"data"`
	}
}

// swagger:route GET /api/organizations/police-stations organizations policeStations
// Lists every police station sorted by name.
// responses:
//   200: policeStationsResponse

// swagger:response policeStationsResponse
type policeStationsResponseWrapper struct {
	// in:body
	Body struct {
		Success bool                   `json:"success"`
		Data    []models.PoliceStation `json:"data"`
	}
}

// swagger:route GET /api/organizations/courts organizations courts
// Lists every court sorted by name.
// responses:
//   200: courtsResponse

// swagger:response courtsResponse
type courtsResponseWrapper struct {
	// in:body
	Body struct {
		Success bool           `json:"success"`
		Data    []models.Court `json:"data"`
	}
}

// Failure envelope
// swagger:response errorResponse
type errorResponseWrapper struct {
	// in:body
	Body models.Response
}
