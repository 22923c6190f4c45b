package databases

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nyayasankalan/case-api/models"
)

type mongoOrganizationDatabase struct {
	db DatabaseHelper
}

// NewMongoOrganizationDatabase initializes the document store organization database
func NewMongoOrganizationDatabase(db DatabaseHelper) OrganizationDatabase {
	return &mongoOrganizationDatabase{
		db: db,
	}
}

func (o *mongoOrganizationDatabase) PoliceStations(ctx context.Context) ([]models.PoliceStation, error) {
	stations := []models.PoliceStation{}
	if err := findAll(ctx, o.db.Collection(policeStationName), bson.M{}, &stations, byName()); err != nil {
		return nil, err
	}
	return stations, nil
}

func (o *mongoOrganizationDatabase) Courts(ctx context.Context) ([]models.Court, error) {
	courts := []models.Court{}
	if err := findAll(ctx, o.db.Collection(courtName), bson.M{}, &courts, byName()); err != nil {
		return nil, err
	}
	return courts, nil
}

func byName() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
}
