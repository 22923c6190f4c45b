package testhelpers

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nyayasankalan/case-api/databases"
	"github.com/nyayasankalan/case-api/models"
)

// OpenSQLite opens a migrated sqlite database in the test's temp dir
func OpenSQLite(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "nyaya.db") + "?_pragma=busy_timeout(5000)"
	db, err := databases.OpenGorm(databases.DriverSQLite, dsn)
	require.NoError(t, err)
	require.NoError(t, databases.RunMigrations(context.Background(), db, databases.DriverSQLite))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// Fixture seeds rows the case workflows read
type Fixture struct {
	T       *testing.T
	DB      *gorm.DB
	Gateway *databases.Gateway
}

// NewFixture opens a sqlite gateway for the test
func NewFixture(t *testing.T) *Fixture {
	db := OpenSQLite(t)
	return &Fixture{T: t, DB: db, Gateway: databases.NewGormGateway(db, databases.DriverSQLite)}
}

func (f *Fixture) create(value interface{}) {
	f.T.Helper()
	require.NoError(f.T, f.DB.Omit(clause.Associations).Create(value).Error)
}

// Station inserts a police station
func (f *Fixture) Station(id, name string) models.PoliceStation {
	s := models.PoliceStation{ID: id, Name: name, District: "Central", State: "Delhi"}
	f.create(&s)
	return s
}

// Court inserts a court
func (f *Fixture) Court(id, name string) models.Court {
	c := models.Court{ID: id, Name: name, CourtType: "SESSIONS", District: "Central", State: "Delhi"}
	f.create(&c)
	return c
}

// User inserts a user. An empty orgID leaves the organization unset.
func (f *Fixture) User(id, name string, role models.Role, orgID string) models.User {
	u := models.User{ID: id, Name: name, Email: id + "@nyaya.test", Role: role}
	if orgID != "" {
		u.OrganizationID = &orgID
	}
	f.create(&u)
	return u
}

// Case inserts a case and its FIR registered at stationID
func (f *Fixture) Case(id, stationID string, createdAt time.Time) models.CaseSummary {
	fir := models.FIR{
		ID:              "fir-" + id,
		FIRNumber:       fmt.Sprintf("FIR/%s", id),
		PoliceStationID: stationID,
		IncidentDate:    createdAt.Add(-24 * time.Hour),
		SectionsApplied: "IPC 379",
		CreatedAt:       createdAt,
	}
	f.create(&fir)

	c := models.CaseSummary{ID: id, FIRID: fir.ID, CreatedAt: createdAt}
	f.create(&c)
	return c
}

// Assignment inserts an assignment; open leaves UnassignedAt nil
func (f *Fixture) Assignment(caseID, userID string, at time.Time, open bool) models.CaseAssignment {
	a := models.CaseAssignment{
		CaseID:           caseID,
		AssignedTo:       userID,
		AssignedBy:       "seed",
		AssignmentReason: "seed",
		AssignedAt:       at,
	}
	if !open {
		closed := at.Add(time.Hour)
		a.UnassignedAt = &closed
	}
	f.create(&a)
	return a
}

// State sets the projected state of a case
func (f *Fixture) State(caseID string, state models.CaseState, at time.Time) {
	f.create(&models.CurrentCaseState{CaseID: caseID, CurrentState: state, UpdatedAt: at})
}

// Count returns the number of rows in the table of model
func (f *Fixture) Count(model interface{}, query string, args ...interface{}) int64 {
	f.T.Helper()
	var n int64
	q := f.DB.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(f.T, q.Count(&n).Error)
	return n
}
