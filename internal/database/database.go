package database

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Database struct {
	DB *gorm.DB
}

// Row IDs are filled by the model uuid hooks, so neither schema needs a
// database-side default.
const postgresSchema = `
	CREATE TABLE IF NOT EXISTS tracked_orders (
		id UUID PRIMARY KEY,
		order_id TEXT UNIQUE NOT NULL,
		platform TEXT,
		created_at TIMESTAMPTZ DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS session_entries (
		id UUID PRIMARY KEY,
		session_id TEXT NOT NULL,
		entry_key TEXT NOT NULL,
		value TEXT,
		updated_at TIMESTAMPTZ DEFAULT NOW(),
		UNIQUE (session_id, entry_key)
	);
	`

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS tracked_orders (
		id TEXT PRIMARY KEY,
		order_id TEXT UNIQUE NOT NULL,
		platform TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS session_entries (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		entry_key TEXT NOT NULL,
		value TEXT,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (session_id, entry_key)
	);
	`

func New(databaseURL string) (*Database, error) {
	var db *gorm.DB
	var err error

	createTablesSQL := postgresSchema
	if strings.HasPrefix(databaseURL, "sqlite://") {
		// SQLite for development
		dbPath := strings.TrimPrefix(databaseURL, "sqlite://")
		db, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
		createTablesSQL = sqliteSchema
	} else {
		// PostgreSQL for production
		db, err = gorm.Open(postgres.Open(databaseURL), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Exec(createTablesSQL).Error; err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
