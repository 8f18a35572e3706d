// Package db provides the GORM-based store for studydeck.
// A postgres:// DSN selects the Postgres driver; anything else is a path to a
// pure-Go SQLite file.
package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/asteroid-belt/studydeck/internal/models"
)

// DB wraps the GORM connection with studydeck repository methods.
type DB struct {
	*gorm.DB
	dsn     string
	dialect string
}

// Config holds database configuration options.
type Config struct {
	DSN         string
	Debug       bool
	MaxIdleConn int
	MaxOpenConn int
}

// DefaultConfig returns sensible defaults. SQLite gets a single connection,
// Postgres a small pool.
func DefaultConfig(dsn string) Config {
	cfg := Config{
		DSN:         dsn,
		MaxIdleConn: 1,
		MaxOpenConn: 1,
	}
	if IsPostgresDSN(dsn) {
		cfg.MaxIdleConn = 2
		cfg.MaxOpenConn = 8
	}
	return cfg
}

// IsPostgresDSN reports whether dsn addresses a Postgres server.
func IsPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// New opens the store and runs migrations.
func New(cfg Config) (*DB, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, errors.New("database DSN is empty")
	}

	logLevel := logger.Silent
	if cfg.Debug {
		logLevel = logger.Info
	}
	gormCfg := &gorm.Config{
		Logger:                 logger.Default.LogMode(logLevel),
		SkipDefaultTransaction: true,
	}

	var (
		dialector gorm.Dialector
		dialect   string
	)
	if IsPostgresDSN(cfg.DSN) {
		dialector = postgres.Open(cfg.DSN)
		dialect = "postgres"
	} else {
		path := strings.TrimPrefix(cfg.DSN, "sqlite://")
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("create db directory: %w", err)
			}
		}
		// DELETE journal mode: WAL has visibility issues with the pure-Go driver.
		dialector = sqlite.Open(fmt.Sprintf("%s?_pragma=journal_mode(DELETE)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)", path))
		dialect = "sqlite"
	}

	gdb, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConn)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConn)
	sqlDB.SetConnMaxLifetime(time.Hour)

	wrapped := &DB{DB: gdb, dsn: cfg.DSN, dialect: dialect}

	if err := wrapped.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return wrapped, nil
}

func (db *DB) migrate() error {
	return db.AutoMigrate(
		&models.UserProfile{},
		&models.TopicProgress{},
		&models.QuestionEntry{},
		&models.ActivityEntry{},
		&models.StudySession{},
		&models.AudioAsset{},
		&models.AiConversation{},
		&models.AppState{},
	)
}

// Dialect returns "postgres" or "sqlite".
func (db *DB) Dialect() string {
	return db.dialect
}

// Close closes the database connection.
func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Transaction executes fc within a database transaction.
// The callback receives a *DB wrapper that uses the transaction.
func (db *DB) Transaction(fc func(tx *DB) error) error {
	return db.DB.Transaction(func(tx *gorm.DB) error {
		return fc(&DB{DB: tx, dsn: db.dsn, dialect: db.dialect})
	})
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
