package databases

// go generate: mockery --name CaseDatabase
// go generate: mockery --name CaseTx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nyayasankalan/case-api/config"
	"github.com/nyayasankalan/case-api/models"
)

// Supported values of DB_DRIVER
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
)

// recentHistoryLimit is how many state history entries a case detail carries
const recentHistoryLimit = 10

var (
	// ErrNotFound is returned when the requested row does not exist
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a write violates a uniqueness guarantee,
	// e.g. two open assignments for the same case
	ErrConflict = errors.New("conflicting write")
)

// CaseFilter narrows a case listing. An empty PoliceStationID lists every case.
type CaseFilter struct {
	PoliceStationID string
	Offset          int
	Limit           int
}

// CaseDatabase contains the read queries over cases and the transactional
// entry point for the mutating workflows
type CaseDatabase interface {
	FindCase(ctx context.Context, caseID string) (*models.CaseRecord, error)
	FindCases(ctx context.Context, filter CaseFilter) ([]models.CaseSummary, int64, error)
	FindCaseScope(ctx context.Context, caseID string) (*models.CaseScope, error)
	CountByState(ctx context.Context) (map[models.CaseState]int64, error)
	// WithTx runs fn inside one transaction. The transaction commits when fn
	// returns nil and rolls back otherwise. fn must use the context it is given.
	WithTx(ctx context.Context, fn func(ctx context.Context, tx CaseTx) error) error
}

// CaseTx is the set of writes a case workflow performs atomically
type CaseTx interface {
	FindCaseScope(ctx context.Context, caseID string) (*models.CaseScope, error)
	FindUser(ctx context.Context, userID string) (*models.UserSummary, error)
	CloseOpenAssignments(ctx context.Context, caseID string, at time.Time) (int64, error)
	CreateAssignment(ctx context.Context, assignment *models.CaseAssignment) error
	UpsertCurrentState(ctx context.Context, caseID string, state models.CaseState, at time.Time) error
	AppendStateHistory(ctx context.Context, entry *models.CaseStateHistory) error
	InsertAuditLog(ctx context.Context, entry *models.AuditLog) error
}

// OrganizationDatabase lists reference organizations
type OrganizationDatabase interface {
	PoliceStations(ctx context.Context) ([]models.PoliceStation, error)
	Courts(ctx context.Context) ([]models.Court, error)
}

// AuditLogDatabase reads the audit trail
type AuditLogDatabase interface {
	FindByEntity(ctx context.Context, entity, entityID string, offset, limit int) ([]models.AuditLog, int64, error)
}

// Gateway bundles the databases backed by one connection
type Gateway struct {
	Cases         CaseDatabase
	Organizations OrganizationDatabase
	AuditLogs     AuditLogDatabase
	close         func(ctx context.Context) error
}

// Close releases the underlying connection
func (g *Gateway) Close(ctx context.Context) error {
	if g == nil || g.close == nil {
		return nil
	}
	return g.close(ctx)
}

// Open connects to the store selected by conf.DBDriver
func Open(ctx context.Context, conf *config.Config) (*Gateway, error) {
	switch conf.DBDriver {
	case DriverPostgres, DriverSQLite:
		db, err := OpenGorm(conf.DBDriver, conf.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return openGormGateway(ctx, db, conf)
	case DriverMongo:
		client, err := NewClient(conf)
		if err != nil {
			return nil, err
		}
		return openMongoGateway(ctx, client, conf)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", conf.DBDriver)
	}
}

// Migrate brings the schema of the configured store up to date
func Migrate(ctx context.Context, conf *config.Config) error {
	switch conf.DBDriver {
	case DriverPostgres, DriverSQLite:
		db, err := OpenGorm(conf.DBDriver, conf.DatabaseURL)
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		defer sqlDB.Close()
		return RunMigrations(ctx, db, conf.DBDriver)
	case DriverMongo:
		client, err := NewClient(conf)
		if err != nil {
			return err
		}
		if err := client.Connect(ctx); err != nil {
			return err
		}
		defer client.Disconnect(ctx)
		return EnsureMongoIndexes(ctx, NewDatabase(conf, client))
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", conf.DBDriver)
	}
}
