package databases

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pressly/goose/v3"
	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	moderncsqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/nyayasankalan/case-api/config"
	"github.com/nyayasankalan/case-api/logging"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// goose keeps its dialect and filesystem in package state
var gooseMu sync.Mutex

const pgUniqueViolation = "23505"

// OpenGorm opens a relational connection for the postgres or sqlite driver.
// The sqlite DSN is a file path handed to modernc.org/sqlite.
func OpenGorm(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	case DriverSQLite:
		dialector = gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}
	default:
		return nil, fmt.Errorf("unsupported relational driver %q", driver)
	}
	return gorm.Open(dialector, &gorm.Config{
		Logger: logger.New(logging.GormWriter{}, logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
}

// RunMigrations applies the embedded goose migrations
func RunMigrations(ctx context.Context, db *gorm.DB, driver string) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	dialect := "postgres"
	if driver == DriverSQLite {
		dialect = "sqlite3"
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.UpContext(ctx, sqlDB, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// openGormGateway applies the migrations when AutoMigrate is set. The pool is
// closed when the gateway cannot be returned.
func openGormGateway(ctx context.Context, db *gorm.DB, conf *config.Config) (*Gateway, error) {
	if conf.AutoMigrate {
		if err := RunMigrations(ctx, db, conf.DBDriver); err != nil {
			if sqlDB, dbErr := db.DB(); dbErr == nil {
				_ = sqlDB.Close()
			}
			return nil, err
		}
	}
	return NewGormGateway(db, conf.DBDriver), nil
}

// NewGormGateway builds the relational gateway over db
func NewGormGateway(db *gorm.DB, driver string) *Gateway {
	return &Gateway{
		Cases:         NewCaseDatabase(db, driver),
		Organizations: NewOrganizationDatabase(db),
		AuditLogs:     NewAuditLogDatabase(db, driver),
		close: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}
}

// readTxOptions returns the options for multi-statement reads that must see one
// snapshot. SQLite serializes everything already and rejects isolation levels.
func readTxOptions(driver string) *sql.TxOptions {
	if driver != DriverPostgres {
		return nil
	}
	return &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
}

// translateError maps driver errors onto the package sentinels
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("%w: %s", ErrConflict, pgErr.ConstraintName)
	}
	var liteErr *moderncsqlite.Error
	if errors.As(err, &liteErr) && liteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT &&
		strings.Contains(liteErr.Error(), "UNIQUE") {
		return fmt.Errorf("%w: %s", ErrConflict, liteErr.Error())
	}
	return err
}
