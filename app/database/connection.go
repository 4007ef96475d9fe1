package database

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

type DB struct {
	*sql.DB
}

// NewConnection opens the SQLite database at the given path. WAL mode
// keeps the RSS output endpoint readable while an ingestion cycle is
// writing; busy_timeout covers the remaining write contention.
func NewConnection(path string) (*DB, error) {
	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// SQLite allows a single writer; funneling all writes through one
	// connection avoids SQLITE_BUSY churn under the worker pool.
	db.SetMaxOpenConns(1)

	return &DB{DB: db}, nil
}
