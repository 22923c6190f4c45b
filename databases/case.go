package databases

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nyayasankalan/case-api/models"
)

type caseDatabase struct {
	db     *gorm.DB
	driver string
}

// NewCaseDatabase initializes the relational case database with the provided connection
func NewCaseDatabase(db *gorm.DB, driver string) CaseDatabase {
	return &caseDatabase{
		db:     db,
		driver: driver,
	}
}

func (c *caseDatabase) FindCase(ctx context.Context, caseID string) (*models.CaseRecord, error) {
	record := &models.CaseRecord{}
	err := c.db.WithContext(ctx).
		Preload("FIR.PoliceStation").
		Preload("State").
		Preload("StateHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("changed_at DESC").Limit(recentHistoryLimit)
		}).
		Preload("Assignments", func(db *gorm.DB) *gorm.DB {
			return db.Order("assigned_at DESC")
		}).
		Preload("Assignments.AssignedUser", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "email")
		}).
		Preload("Accused", orderBy("created_at ASC")).
		Preload("Evidence", orderBy("created_at ASC")).
		Preload("Witnesses", orderBy("created_at ASC")).
		Preload("Documents", orderBy("created_at ASC")).
		Preload("CourtSubmissions", orderBy("submitted_at DESC")).
		Preload("CourtSubmissions.Court").
		First(record, "id = ?", caseID).Error
	if err != nil {
		return nil, translateError(err)
	}
	return record, nil
}

func (c *caseDatabase) FindCases(ctx context.Context, filter CaseFilter) ([]models.CaseSummary, int64, error) {
	var (
		cases []models.CaseSummary
		total int64
	)
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.CaseSummary{}).
			Scopes(atStation(filter.PoliceStationID)).
			Count(&total).Error; err != nil {
			return err
		}
		return tx.Scopes(atStation(filter.PoliceStationID)).
			Preload("FIR.PoliceStation").
			Preload("State").
			Preload("Assignments", "unassigned_at IS NULL").
			Preload("Assignments.AssignedUser", func(db *gorm.DB) *gorm.DB {
				return db.Select("id", "name")
			}).
			Order("created_at DESC").
			Order("id DESC").
			Offset(filter.Offset).
			Limit(filter.Limit).
			Find(&cases).Error
	}, readTxOptions(c.driver))
	if err != nil {
		return nil, 0, translateError(err)
	}
	if cases == nil {
		cases = []models.CaseSummary{}
	}
	return cases, total, nil
}

func (c *caseDatabase) FindCaseScope(ctx context.Context, caseID string) (*models.CaseScope, error) {
	return findCaseScope(c.db.WithContext(ctx), caseID)
}

func (c *caseDatabase) CountByState(ctx context.Context) (map[models.CaseState]int64, error) {
	var rows []struct {
		State string
		Total int64
	}
	err := c.db.WithContext(ctx).Raw(`
		SELECT COALESCE(s.current_state, ?) AS state, COUNT(*) AS total
		FROM cases c
		LEFT JOIN current_case_states s ON s.case_id = c.id
		GROUP BY 1`, string(models.StateFIRRegistered)).
		Scan(&rows).Error
	if err != nil {
		return nil, translateError(err)
	}

	counts := make(map[models.CaseState]int64, len(rows))
	for _, r := range rows {
		counts[models.CaseState(r.State)] += r.Total
	}
	return counts, nil
}

func (c *caseDatabase) WithTx(ctx context.Context, fn func(ctx context.Context, tx CaseTx) error) error {
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &caseTx{db: tx})
	})
	return translateError(err)
}

// caseTx runs the workflow writes on an open gorm transaction
type caseTx struct {
	db *gorm.DB
}

func (t *caseTx) FindCaseScope(ctx context.Context, caseID string) (*models.CaseScope, error) {
	return findCaseScope(t.db.WithContext(ctx), caseID)
}

func (t *caseTx) FindUser(ctx context.Context, userID string) (*models.UserSummary, error) {
	user := &models.UserSummary{}
	err := t.db.WithContext(ctx).Select("id", "name", "email").First(user, "id = ?", userID).Error
	if err != nil {
		return nil, translateError(err)
	}
	return user, nil
}

func (t *caseTx) CloseOpenAssignments(ctx context.Context, caseID string, at time.Time) (int64, error) {
	res := t.db.WithContext(ctx).
		Model(&models.CaseAssignment{}).
		Where("case_id = ? AND unassigned_at IS NULL", caseID).
		Update("unassigned_at", at)
	return res.RowsAffected, translateError(res.Error)
}

func (t *caseTx) CreateAssignment(ctx context.Context, assignment *models.CaseAssignment) error {
	return translateError(t.db.WithContext(ctx).Omit(clause.Associations).Create(assignment).Error)
}

func (t *caseTx) UpsertCurrentState(ctx context.Context, caseID string, state models.CaseState, at time.Time) error {
	row := &models.CurrentCaseState{CaseID: caseID, CurrentState: state, UpdatedAt: at}
	err := t.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "case_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"current_state", "updated_at"}),
	}).Create(row).Error
	return translateError(err)
}

func (t *caseTx) AppendStateHistory(ctx context.Context, entry *models.CaseStateHistory) error {
	return translateError(t.db.WithContext(ctx).Create(entry).Error)
}

func (t *caseTx) InsertAuditLog(ctx context.Context, entry *models.AuditLog) error {
	return translateError(t.db.WithContext(ctx).Create(entry).Error)
}

func findCaseScope(db *gorm.DB, caseID string) (*models.CaseScope, error) {
	var row struct {
		CaseID          string
		PoliceStationID string
		CurrentState    *string
	}
	res := db.Raw(`
		SELECT c.id AS case_id, f.police_station_id AS police_station_id, s.current_state AS current_state
		FROM cases c
		JOIN firs f ON f.id = c.fir_id
		LEFT JOIN current_case_states s ON s.case_id = c.id
		WHERE c.id = ?`, caseID).Scan(&row)
	if res.Error != nil {
		return nil, translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	scope := &models.CaseScope{CaseID: row.CaseID, PoliceStationID: row.PoliceStationID}
	if row.CurrentState != nil {
		st := models.CaseState(*row.CurrentState)
		scope.CurrentState = &st
	}
	return scope, nil
}

// atStation limits a case query to the cases whose FIR was registered at
// stationID. An empty stationID leaves the query unscoped.
func atStation(stationID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if stationID == "" {
			return db
		}
		return db.Where("fir_id IN (?)", db.Session(&gorm.Session{NewDB: true}).
			Model(&models.FIR{}).Select("id").Where("police_station_id = ?", stationID))
	}
}

func orderBy(order string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(order)
	}
}
