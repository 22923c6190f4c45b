package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/nyayasankalan/case-api/api"
	"github.com/nyayasankalan/case-api/config"
	"github.com/nyayasankalan/case-api/databases"
	"github.com/nyayasankalan/case-api/services"
)

const defaultAuthCacheTTL = 5 * time.Minute

// App stores the router and the database gateway, so they can be reused
type App struct {
	Router  *mux.Router
	Config  config.Config
	Gateway *databases.Gateway
	Auth    *api.Auth
	Policy  *api.Policy
	Metrics *api.Metrics
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	c := Case{Service: services.NewCaseService(a.Gateway.Cases)}
	al := Audit{Service: services.NewAuditService(a.Gateway.Cases, a.Gateway.AuditLogs)}
	o := Organization{Service: services.NewOrganizationService(a.Gateway.Organizations)}

	r := mux.NewRouter()
	r.Use(a.Metrics.Middleware)

	// healthchex
	r.HandleFunc("/health", api.HealthCheckHandler).Methods("GET")
	r.Handle("/metrics", a.Metrics.Handler()).Methods("GET")

	timeout := a.Config.RequestTimeout
	if timeout <= 0 {
		timeout = api.QueryTimeout
	}
	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.Use(api.TimeoutMiddleware(timeout), a.Auth.Middleware)

	guard := func(obj, act string, h http.HandlerFunc) http.Handler {
		return a.Policy.Require(obj, act)(h)
	}

	// /cases/my and /cases/all must be registered before /cases/{caseId}
	apiRouter.Handle("/cases/my", guard(api.PermCasesOwn, api.ActRead, c.MyCasesHandler)).Methods("GET")
	apiRouter.Handle("/cases/all", guard(api.PermCasesAll, api.ActRead, c.AllCasesHandler)).Methods("GET")
	apiRouter.Handle("/cases/{caseId}", guard(api.PermCaseDetail, api.ActRead, c.CaseByIDHandler)).Methods("GET")
	apiRouter.Handle("/cases/{caseId}/assign", guard(api.PermCaseAssign, api.ActWrite, c.AssignCaseHandler)).Methods("POST")
	apiRouter.Handle("/cases/{caseId}/state", guard(api.PermCaseState, api.ActWrite, c.UpdateCaseStateHandler)).Methods("POST")
	apiRouter.Handle("/cases/{caseId}/audit-logs", guard(api.PermCaseAudit, api.ActRead, al.CaseAuditLogsHandler)).Methods("GET")

	apiRouter.Handle("/organizations/police-stations", guard(api.PermOrganizations, api.ActRead, o.PoliceStationsHandler)).Methods("GET")
	apiRouter.Handle("/organizations/courts", guard(api.PermOrganizations, api.ActRead, o.CourtsHandler)).Methods("GET")

	return r
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize(ctx context.Context) error {
	gw, err := databases.Open(ctx, &a.Config)
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().Errorw("failed to connect to database",
			"driver", a.Config.DBDriver,
			"error", err)
		return err
	}
	a.Gateway = gw
	zap.S().Infow("nyaya-api has connected to the database", "driver", a.Config.DBDriver)

	return a.Build()
}

// Build creates the auth, policy and metrics components that are not set yet
// and the router over a.Gateway
func (a *App) Build() error {
	if a.Auth == nil {
		ttl := a.Config.AuthCacheTTL
		if ttl <= 0 {
			ttl = defaultAuthCacheTTL
		}
		a.Auth = api.NewAuth(a.Config.JWTSecret, ttl)
	}
	if a.Policy == nil {
		policy, err := api.NewPolicy()
		if err != nil {
			return err
		}
		a.Policy = policy
	}
	if a.Metrics == nil {
		a.Metrics = api.NewMetrics()
	}

	a.Router = a.New()
	return nil
}

// Close releases the database gateway
func (a *App) Close(ctx context.Context) error {
	return a.Gateway.Close(ctx)
}
