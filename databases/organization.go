package databases

import (
	"context"

	"gorm.io/gorm"

	"github.com/nyayasankalan/case-api/models"
)

type organizationDatabase struct {
	db *gorm.DB
}

// NewOrganizationDatabase initializes a new instance of organization database with the provided db connection
func NewOrganizationDatabase(db *gorm.DB) OrganizationDatabase {
	return &organizationDatabase{
		db: db,
	}
}

func (o *organizationDatabase) PoliceStations(ctx context.Context) ([]models.PoliceStation, error) {
	stations := []models.PoliceStation{}
	if err := o.db.WithContext(ctx).Order("name ASC").Find(&stations).Error; err != nil {
		return nil, translateError(err)
	}
	return stations, nil
}

func (o *organizationDatabase) Courts(ctx context.Context) ([]models.Court, error) {
	courts := []models.Court{}
	if err := o.db.WithContext(ctx).Order("name ASC").Find(&courts).Error; err != nil {
		return nil, translateError(err)
	}
	return courts, nil
}
