package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Audit actions written by the case workflows
const (
	AuditActionCaseAssigned = "CASE_ASSIGNED"
	AuditActionStateChanged = "STATE_CHANGED"
)

// AuditEntityCase is the entity type of case audit rows
const AuditEntityCase = "CASE"

// AuditLog is an append-only record of who did what to which entity
type AuditLog struct {
	ID        string    `json:"id" bson:"_id" gorm:"primaryKey"`
	UserID    string    `json:"userId" bson:"userId"`
	Action    string    `json:"action" bson:"action"`
	Entity    string    `json:"entity" bson:"entity"`
	EntityID  string    `json:"entityId" bson:"entityId"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// TableName maps AuditLog to the audit_logs table
func (AuditLog) TableName() string { return "audit_logs" }

// BeforeCreate generates the row id
func (l *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}
