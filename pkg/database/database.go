package database

import (
	"fmt"
	"strings"

	contactdomain "contacthub-backend/internal/contact/domain"
	duplicatedomain "contacthub-backend/internal/duplicate/domain"
	sourcedomain "contacthub-backend/internal/source/domain"
	statusdomain "contacthub-backend/internal/status/domain"
	taskdomain "contacthub-backend/internal/task/domain"
	"contacthub-backend/pkg/config"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewConnection opens the database selected by cfg.DBDriver
func NewConnection(cfg *config.Config) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	switch cfg.DBDriver {
	case "postgres":
		return gorm.Open(postgres.Open(cfg.DatabaseURL), gormConfig)
	case "sqlite", "":
		return OpenSQLite(cfg.DatabaseURL, gormConfig)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// OpenSQLite opens a SQLite file shared by the interactive server and the
// refresh worker. WAL lets readers proceed during the worker's cache rewrite.
func OpenSQLite(path string, gormConfig *gorm.Config) (*gorm.DB, error) {
	if gormConfig == nil {
		gormConfig = &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	}

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	dsn := path + sep + "_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"

	db, err := gorm.Open(sqlite.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	return db, nil
}

// Migrate creates or updates every table the two processes share
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&contactdomain.Contact{},
		&duplicatedomain.DuplicateCacheEntry{},
		&statusdomain.ProcessStatus{},
		&taskdomain.Task{},
		&sourcedomain.SourceConfig{},
	)
}
