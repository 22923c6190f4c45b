package api

import (
	"net/http"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"go.uber.org/zap"

	"github.com/nyayasankalan/case-api/config"
	"github.com/nyayasankalan/case-api/models"
)

// Permissions checked by the routes
const (
	PermCasesOwn      = "cases:own"
	PermCasesAll      = "cases:all"
	PermCaseDetail    = "cases:detail"
	PermCaseAssign    = "cases:assign"
	PermCaseState     = "cases:state"
	PermCaseAudit     = "cases:audit"
	PermOrganizations = "organizations"

	ActRead  = "read"
	ActWrite = "write"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && r.act == p.act
`

// Policy decides which roles may use which routes
type Policy struct {
	enforcer *casbin.SyncedEnforcer
}

// NewPolicy loads the route permissions of every role
func NewPolicy() (*Policy, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, err
	}
	e, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, err
	}

	var rules [][]string
	for _, role := range models.Roles() {
		rules = append(rules,
			[]string{string(role), PermCasesOwn, ActRead},
			[]string{string(role), PermCaseDetail, ActRead},
			[]string{string(role), PermOrganizations, ActRead},
		)
		if role == models.RoleSHO || role.Elevated() {
			rules = append(rules,
				[]string{string(role), PermCasesAll, ActRead},
				[]string{string(role), PermCaseAudit, ActRead},
			)
		}
		if role.StationScoped() {
			rules = append(rules, []string{string(role), PermCaseState, ActWrite})
		}
	}
	rules = append(rules, []string{string(models.RoleSHO), PermCaseAssign, ActWrite})

	if _, err := e.AddPolicies(rules); err != nil {
		return nil, err
	}
	return &Policy{enforcer: e}, nil
}

// Allowed reports whether role may perform act on obj
func (p *Policy) Allowed(role models.Role, obj, act string) bool {
	ok, err := p.enforcer.Enforce(string(role), obj, act)
	if err != nil {
		zap.S().Errorw("policy check failed", "role", role, "obj", obj, "act", act, "error", err)
		return false
	}
	return ok
}

// Require only lets actors whose role is allowed obj/act through
func (p *Policy) Require(obj, act string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFrom(r.Context())
			if !ok {
				config.ErrorStatus("Unauthorized", http.StatusUnauthorized, w, nil)
				return
			}
			if !p.Allowed(actor.Role, obj, act) {
				config.ErrorStatus("Insufficient permissions", http.StatusForbidden, w, nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
