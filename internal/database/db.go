package database

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
)

// Sentinel errors returned by the repositories. Callers check these with
// errors.Is instead of matching driver error codes.
var (
	// ErrAlreadyTracked signals a uniqueness violation on the URL column.
	ErrAlreadyTracked = errors.New("url is already tracked")
	// ErrNotFound signals that the requested tracked URL does not exist.
	ErrNotFound = errors.New("tracked url not found")
)

// DB wraps the PostgreSQL connection
type DB struct {
	conn *sql.DB
}

// New opens a connection to PostgreSQL and verifies it
func New(connStr string) (*DB, error) {
	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{conn: conn}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}
