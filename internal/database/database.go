// Package database opens the relational store shared by the gorm repositories
// and the sqlx reporting queries.
package database

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/frahmantamala/finance-dashboard/internal"
	budgetdm "github.com/frahmantamala/finance-dashboard/internal/core/datamodel/budget"
	categorydm "github.com/frahmantamala/finance-dashboard/internal/core/datamodel/category"
	recurrencedm "github.com/frahmantamala/finance-dashboard/internal/core/datamodel/recurrence"
	transactiondm "github.com/frahmantamala/finance-dashboard/internal/core/datamodel/transaction"
	userdm "github.com/frahmantamala/finance-dashboard/internal/core/datamodel/user"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DB holds one connection pool exposed through both gorm and sqlx.
type DB struct {
	Driver string
	Gorm   *gorm.DB
	SQL    *sqlx.DB
}

// SQLDriverName maps a configured driver to its database/sql driver name.
func SQLDriverName(driver string) (string, error) {
	switch driver {
	case DriverPostgres:
		return "pgx", nil
	case DriverSQLite:
		return "sqlite3", nil
	}
	return "", fmt.Errorf("unsupported database driver %q", driver)
}

func Open(cfg internal.DatabaseConfig) (*DB, error) {
	sqlDriver, err := SQLDriverName(cfg.Driver)
	if err != nil {
		return nil, err
	}

	conn, err := sqlx.Connect(sqlDriver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	if cfg.Driver == DriverSQLite && strings.Contains(cfg.Source, ":memory:") {
		// every new connection would see its own empty database
		conn.SetMaxOpenConns(1)
	} else {
		conn.SetMaxOpenConns(cfg.MaxOpenConns)
		conn.SetMaxIdleConns(cfg.MaxIdleConns)
		conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		conn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverPostgres:
		dialector = postgres.New(postgres.Config{Conn: conn.DB})
	case DriverSQLite:
		dialector = sqlite.Dialector{DriverName: sqlDriver, DSN: cfg.Source, Conn: conn.DB}
	}

	gormDB, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open gorm: %w", err)
	}

	return &DB{Driver: cfg.Driver, Gorm: gormDB, SQL: conn}, nil
}

func (db *DB) Close() error {
	return db.SQL.Close()
}

// Models lists every table the service owns, in dependency order.
func Models() []any {
	return []any{
		&userdm.User{},
		&categorydm.Category{},
		&recurrencedm.Rule{},
		&transactiondm.Transaction{},
		&budgetdm.Budget{},
	}
}

// AutoMigrate creates the schema from the gorm models. PostgreSQL deployments use
// the goose migrations instead.
func AutoMigrate(gormDB *gorm.DB) error {
	return gormDB.AutoMigrate(Models()...)
}
