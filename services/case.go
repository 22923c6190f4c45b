package services

import (
	"context"
	"errors"
	"time"

	"github.com/nyayasankalan/case-api/databases"
	"github.com/nyayasankalan/case-api/models"
)

// CaseService serves case reads and runs the assignment and state workflows
type CaseService struct {
	DB  databases.CaseDatabase
	Now func() time.Time
}

// NewCaseService returns a CaseService over db using the wall clock
func NewCaseService(db databases.CaseDatabase) *CaseService {
	return &CaseService{DB: db, Now: time.Now}
}

func (s *CaseService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

// GetCaseByID returns the full case. Station-scoped roles may only read cases
// registered at their own station.
func (s *CaseService) GetCaseByID(ctx context.Context, caseID string, role models.Role, orgID string) (*models.CaseRecord, error) {
	record, err := s.DB.FindCase(ctx, caseID)
	if errors.Is(err, databases.ErrNotFound) {
		return nil, NotFound(msgCaseNotFound)
	}
	if err != nil {
		return nil, err
	}

	if role.StationScoped() && (record.FIR == nil || record.FIR.PoliceStationID != orgID) {
		return nil, Forbidden(msgAccessDenied)
	}
	return record, nil
}

// GetCases returns a page of cases, newest first. Station-scoped roles only see
// the cases of orgID, every other role sees all cases.
func (s *CaseService) GetCases(ctx context.Context, orgID string, role models.Role, page, limit int) (*models.CaseList, error) {
	if orgID == "" {
		return nil, BadRequest(msgNoOrganization)
	}
	page, limit, offset := NormalizePage(page, limit)

	filter := databases.CaseFilter{Offset: offset, Limit: limit}
	if role.StationScoped() {
		filter.PoliceStationID = orgID
	}

	cases, total, err := s.DB.FindCases(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &models.CaseList{
		Cases:      cases,
		Pagination: models.NewPagination(page, limit, total),
	}, nil
}

// AssignCase closes the open assignment of the case, assigns it to officerID,
// moves it to CASE_ASSIGNED and records the audit entry in one transaction.
func (s *CaseService) AssignCase(ctx context.Context, caseID, officerID, reason, actorUserID, orgID string) (*models.CaseAssignment, error) {
	if orgID == "" {
		return nil, BadRequest(msgSHONoStation)
	}

	var assignment *models.CaseAssignment
	err := s.DB.WithTx(ctx, func(ctx context.Context, tx databases.CaseTx) error {
		if _, err := authorizeCase(ctx, tx, caseID, orgID); err != nil {
			return err
		}

		officer, err := tx.FindUser(ctx, officerID)
		if errors.Is(err, databases.ErrNotFound) {
			return NotFound(msgOfficerNotFound)
		}
		if err != nil {
			return err
		}

		now := s.now()
		if _, err := tx.CloseOpenAssignments(ctx, caseID, now); err != nil {
			return err
		}

		a := &models.CaseAssignment{
			CaseID:           caseID,
			AssignedTo:       officerID,
			AssignedBy:       actorUserID,
			AssignmentReason: reason,
			AssignedAt:       now,
		}
		if err := tx.CreateAssignment(ctx, a); err != nil {
			return err
		}
		a.AssignedUser = officer

		if err := tx.UpsertCurrentState(ctx, caseID, models.StateCaseAssigned, now); err != nil {
			return err
		}
		if err := tx.InsertAuditLog(ctx, &models.AuditLog{
			UserID:    actorUserID,
			Action:    models.AuditActionCaseAssigned,
			Entity:    models.AuditEntityCase,
			EntityID:  caseID,
			CreatedAt: now,
		}); err != nil {
			return err
		}

		assignment = a
		return nil
	})
	if err != nil {
		return nil, workflowError(err)
	}
	return assignment, nil
}

// UpdateCaseState moves the case to newState, appending the history row and
// the audit entry in one transaction. Any enumerated state may follow any other.
func (s *CaseService) UpdateCaseState(ctx context.Context, caseID, newState, reason, actorUserID, orgID string) (*models.StateTransition, error) {
	next, ok := models.ParseCaseState(newState)
	if !ok {
		return nil, BadRequest(msgInvalidState)
	}
	if orgID == "" {
		return nil, BadRequest(msgNoOrganization)
	}

	var transition *models.StateTransition
	err := s.DB.WithTx(ctx, func(ctx context.Context, tx databases.CaseTx) error {
		scope, err := authorizeCase(ctx, tx, caseID, orgID)
		if err != nil {
			return err
		}

		previous := models.StateFIRRegistered
		if scope.CurrentState != nil {
			previous = *scope.CurrentState
		}

		now := s.now()
		if err := tx.AppendStateHistory(ctx, &models.CaseStateHistory{
			CaseID:       caseID,
			FromState:    previous,
			ToState:      next,
			ChangedBy:    actorUserID,
			ChangeReason: reason,
			ChangedAt:    now,
		}); err != nil {
			return err
		}
		if err := tx.UpsertCurrentState(ctx, caseID, next, now); err != nil {
			return err
		}
		if err := tx.InsertAuditLog(ctx, &models.AuditLog{
			UserID:    actorUserID,
			Action:    models.AuditActionStateChanged,
			Entity:    models.AuditEntityCase,
			EntityID:  caseID,
			CreatedAt: now,
		}); err != nil {
			return err
		}

		transition = &models.StateTransition{CaseID: caseID, PreviousState: previous, NewState: next}
		return nil
	})
	if err != nil {
		return nil, workflowError(err)
	}
	return transition, nil
}

// authorizeCase loads the scope of caseID inside tx and checks it belongs to orgID
func authorizeCase(ctx context.Context, tx databases.CaseTx, caseID, orgID string) (*models.CaseScope, error) {
	scope, err := tx.FindCaseScope(ctx, caseID)
	if errors.Is(err, databases.ErrNotFound) {
		return nil, NotFound(msgCaseNotFound)
	}
	if err != nil {
		return nil, err
	}
	if scope.PoliceStationID != orgID {
		return nil, Forbidden(msgAccessDenied)
	}
	return scope, nil
}

func workflowError(err error) error {
	if _, ok := KindOf(err); ok {
		return err
	}
	if errors.Is(err, databases.ErrConflict) {
		return Conflict(msgConcurrentChange, err)
	}
	return err
}
