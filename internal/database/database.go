// Package database opens pooled SQL connections for the credential store.
// Both supported drivers register themselves through their blank imports.
package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
)

// Registered sql driver names for the supported databases.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Config holds the connection settings for the credential database.
type Config struct {
	Driver             string
	ConnectionString   string
	MaxOpenConnections int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration
}

// NormalizeDriver collapses configured driver names onto the registered
// sql driver names. mysql in any casing selects MySQL; everything else,
// including the postgresql alias, selects Postgres.
func NormalizeDriver(driver string) string {
	if strings.EqualFold(strings.TrimSpace(driver), DriverMySQL) {
		return DriverMySQL
	}
	return DriverPostgres
}

// Connect opens a pooled connection for the configured driver and
// verifies it with a ping.
func Connect(cfg Config) (*sql.DB, error) {
	db, err := sql.Open(NormalizeDriver(cfg.Driver), cfg.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConnections)
	db.SetMaxIdleConns(cfg.MaxIdleConnections)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
