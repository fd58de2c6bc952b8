package database

import (
	"database/sql"
	"errors"
	"fmt"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type DB struct {
	*sql.DB
}

// NewConnection opens the sqlite database at path, creating it on first
// run. Foreign keys and WAL are enabled; busy_timeout covers the manual
// import run overlapping a scheduled sync.
func NewConnection(path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// modernc sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY churn between the importer and the sync workers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &DB{DB: db}, nil
}

// IsUniqueViolation reports whether err is a sqlite unique-constraint
// failure. Repositories rely on the schema's UNIQUE constraints to close
// the check-then-insert race; callers map violations to the duplicate
// outcome instead of surfacing a crash.
func IsUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}
