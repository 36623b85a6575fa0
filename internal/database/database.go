// Package database provides the shared GORM connection and a generic
// record gateway used by every entity repository.
package database

import (
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/causeway-org/causeway/internal/entities"
	applog "github.com/causeway-org/causeway/internal/logger"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrStorage is the sanitized error surfaced for any underlying driver
	// failure. The raw error is logged, never returned.
	ErrStorage = errors.New("storage operation failed")
)

type Database struct {
	DB  *gorm.DB
	log *applog.Logger
}

// New opens (or creates) the SQLite database at dbPath and migrates every
// entity table. A connection failure here is fatal to startup by contract;
// callers are expected to abort on error.
func New(dbPath string, log *applog.Logger) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Setting{},
		&entities.Category{},
		&entities.Post{},
		&entities.Event{},
		&entities.Campaign{},
		&entities.Grant{},
		&entities.GrantApplication{},
		&entities.Donation{},
		&entities.Program{},
		&entities.ProgramSession{},
		&entities.Project{},
		&entities.Media{},
		&entities.Menu{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Info("database initialized at {path}", map[string]any{"path": dbPath})

	return &Database{DB: db, log: log}, nil
}

// Transaction runs fn inside one transaction, rolling back on error.
// Nesting is not supported; transactions are expected to be short-lived.
func (d *Database) Transaction(fn func(tx *gorm.DB) error) error {
	return d.DB.Transaction(fn)
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Logger exposes the app logger so repositories share the audit trail.
func (d *Database) Logger() *applog.Logger {
	return d.log
}
