package databases

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/nyayasankalan/case-api/models"
)

type mongoAuditLogDatabase struct {
	db DatabaseHelper
}

// NewMongoAuditLogDatabase initializes the document store audit log database
func NewMongoAuditLogDatabase(db DatabaseHelper) AuditLogDatabase {
	return &mongoAuditLogDatabase{
		db: db,
	}
}

func (a *mongoAuditLogDatabase) FindByEntity(ctx context.Context, entity, entityID string, offset, limit int) ([]models.AuditLog, int64, error) {
	filter := bson.M{"entity": entity, "entityId": entityID}
	total, err := a.db.Collection(auditLogName).CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	logs := []models.AuditLog{}
	opts := newMongoPage(offset, limit).newestFirst("createdAt")
	if err := findAll(ctx, a.db.Collection(auditLogName), filter, &logs, opts); err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}
