package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyayasankalan/case-api/models"
)

func TestPolicyAllowed(t *testing.T) {
	p, err := NewPolicy()
	require.NoError(t, err)

	tests := []struct {
		role models.Role
		obj  string
		act  string
		want bool
	}{
		{models.RolePolice, PermCasesOwn, ActRead, true},
		{models.RolePolice, PermCasesAll, ActRead, false},
		{models.RoleSHO, PermCasesAll, ActRead, true},
		{models.RoleJudge, PermCasesAll, ActRead, true},
		{models.RoleSHO, PermCaseAssign, ActWrite, true},
		{models.RolePolice, PermCaseAssign, ActWrite, false},
		{models.RoleCourtClerk, PermCaseAssign, ActWrite, false},
		{models.RolePolice, PermCaseState, ActWrite, true},
		{models.RoleSHO, PermCaseState, ActWrite, true},
		{models.RoleJudge, PermCaseState, ActWrite, false},
		{models.RolePolice, PermCaseAudit, ActRead, false},
		{models.RoleCourtClerk, PermCaseAudit, ActRead, true},
		{models.RoleJudge, PermOrganizations, ActRead, true},
		{models.RoleJudge, PermCaseDetail, ActRead, true},
		{models.Role("ADMIN"), PermCasesOwn, ActRead, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.role)+" "+tt.obj, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Allowed(tt.role, tt.obj, tt.act))
		})
	}
}

func TestPolicyRequire(t *testing.T) {
	p, err := NewPolicy()
	require.NoError(t, err)
	h := p.Require(PermCaseAssign, ActWrite)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	serve := func(ctxActor *Actor) int {
		req := httptest.NewRequest(http.MethodPost, "/api/cases/c1/assign", nil)
		if ctxActor != nil {
			req = req.WithContext(WithActor(req.Context(), *ctxActor))
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusUnauthorized, serve(nil))
	assert.Equal(t, http.StatusForbidden, serve(&Actor{UserID: "u1", Role: models.RolePolice}))
	assert.Equal(t, http.StatusNoContent, serve(&Actor{UserID: "u1", Role: models.RoleSHO}))
}
