package handlers

import (
	"net/http"

	"github.com/nyayasankalan/case-api/api"
	"github.com/nyayasankalan/case-api/services"
)

// Organization exported for testing purposes
type Organization struct {
	Service *services.OrganizationService
}

// PoliceStationsHandler returns every police station sorted by name
func (o Organization) PoliceStationsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	stations, err := o.Service.ListPoliceStations(ctx)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stations)
}

// CourtsHandler returns every court sorted by name
func (o Organization) CourtsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	courts, err := o.Service.ListCourts(ctx)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, courts)
}
