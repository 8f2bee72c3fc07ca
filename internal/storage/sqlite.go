// Package storage implements the pipeline's collaborator interfaces on
// a single SQLite database: platform profiles, the feedback log, and
// accepted-order analytics.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/orderpilot/orderpilot/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// profileCacheTTL bounds how long a cached profile may serve gating
// checks before being re-read.
const profileCacheTTL = 5 * time.Second

// SQLiteStore implements PlatformStore, FeedbackLog, and AnalyticsSink.
type SQLiteStore struct {
	cacheExpiry  time.Time
	db           *sql.DB
	profileCache map[model.Platform]*model.PlatformProfile
	dbPath       string
	cacheMutex   sync.RWMutex
}

// NewSQLiteStore creates a store at the given path, creating parent
// directories as needed.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("dbPath must not be empty")
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStore{
		db:           db,
		dbPath:       dbPath,
		profileCache: make(map[model.Platform]*model.PlatformProfile),
	}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Migrate creates the schema when missing.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS platform_profiles (
			platform TEXT PRIMARY KEY,
			package_identifiers TEXT NOT NULL,
			is_enabled INTEGER NOT NULL DEFAULT 1,
			auto_accept_enabled INTEGER NOT NULL DEFAULT 0,
			minimum_amount REAL NOT NULL DEFAULT 0,
			priority_weight REAL NOT NULL DEFAULT 1.0,
			should_remove INTEGER NOT NULL DEFAULT 0,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS feedback (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			signal_id TEXT NOT NULL,
			assigned_priority TEXT NOT NULL,
			recorded_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS accepted_orders (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			platform TEXT NOT NULL,
			amount REAL NOT NULL,
			observed_at TIMESTAMP NOT NULL,
			recorded_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_accepted_orders_platform ON accepted_orders(platform)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}
