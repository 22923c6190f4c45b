package services

import (
	"context"

	"github.com/nyayasankalan/case-api/databases"
	"github.com/nyayasankalan/case-api/models"
)

// OrganizationService lists the reference organizations
type OrganizationService struct {
	DB databases.OrganizationDatabase
}

// NewOrganizationService returns an OrganizationService over db
func NewOrganizationService(db databases.OrganizationDatabase) *OrganizationService {
	return &OrganizationService{DB: db}
}

// ListPoliceStations returns every police station sorted by name
func (s *OrganizationService) ListPoliceStations(ctx context.Context) ([]models.PoliceStation, error) {
	return s.DB.PoliceStations(ctx)
}

// ListCourts returns every court sorted by name
func (s *OrganizationService) ListCourts(ctx context.Context) ([]models.Court, error) {
	return s.DB.Courts(ctx)
}
