package databases

import (
	"context"

	"gorm.io/gorm"

	"github.com/nyayasankalan/case-api/models"
)

type auditLogDatabase struct {
	db     *gorm.DB
	driver string
}

// NewAuditLogDatabase initializes a new instance of audit log database with the provided db connection
func NewAuditLogDatabase(db *gorm.DB, driver string) AuditLogDatabase {
	return &auditLogDatabase{
		db:     db,
		driver: driver,
	}
}

func (a *auditLogDatabase) FindByEntity(ctx context.Context, entity, entityID string, offset, limit int) ([]models.AuditLog, int64, error) {
	var (
		logs  []models.AuditLog
		total int64
	)
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Model(&models.AuditLog{}).Where("entity = ? AND entity_id = ?", entity, entityID)
		if err := q.Count(&total).Error; err != nil {
			return err
		}
		return tx.Where("entity = ? AND entity_id = ?", entity, entityID).
			Order("created_at DESC").
			Order("id DESC").
			Offset(offset).
			Limit(limit).
			Find(&logs).Error
	}, readTxOptions(a.driver))
	if err != nil {
		return nil, 0, translateError(err)
	}
	if logs == nil {
		logs = []models.AuditLog{}
	}
	return logs, total, nil
}
