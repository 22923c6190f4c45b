package services

import (
	"context"
	"errors"

	"github.com/nyayasankalan/case-api/databases"
	"github.com/nyayasankalan/case-api/models"
)

// AuditService reads the audit trail of cases
type AuditService struct {
	Cases databases.CaseDatabase
	Logs  databases.AuditLogDatabase
}

// NewAuditService returns an AuditService over the given databases
func NewAuditService(cases databases.CaseDatabase, logs databases.AuditLogDatabase) *AuditService {
	return &AuditService{Cases: cases, Logs: logs}
}

// ListCaseAuditLogs returns a page of the audit entries of caseID, newest first.
// Station-scoped roles may only read cases of their own station.
func (s *AuditService) ListCaseAuditLogs(ctx context.Context, caseID string, role models.Role, orgID string, page, limit int) (*models.AuditLogList, error) {
	scope, err := s.Cases.FindCaseScope(ctx, caseID)
	if errors.Is(err, databases.ErrNotFound) {
		return nil, NotFound(msgCaseNotFound)
	}
	if err != nil {
		return nil, err
	}
	if role.StationScoped() && scope.PoliceStationID != orgID {
		return nil, Forbidden(msgAccessDenied)
	}

	page, limit, offset := NormalizePage(page, limit)
	logs, total, err := s.Logs.FindByEntity(ctx, models.AuditEntityCase, caseID, offset, limit)
	if err != nil {
		return nil, err
	}
	return &models.AuditLogList{
		Logs:       logs,
		Pagination: models.NewPagination(page, limit, total),
	}, nil
}
