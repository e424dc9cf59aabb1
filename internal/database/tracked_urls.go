package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/mwalton/price-tracker/internal/models"
)

// uniqueViolation is the PostgreSQL error code for unique constraint violations
const uniqueViolation = "23505"

// CreateTrackedURL inserts a new tracked URL. Returns ErrAlreadyTracked
// when the URL is already present, so callers can treat duplicates as a
// distinct outcome rather than a generic failure.
func (db *DB) CreateTrackedURL(url string) (*models.TrackedURL, error) {
	query := `
		INSERT INTO tracked_urls (url, created_at)
		VALUES ($1, $2)
		RETURNING id
	`
	t := &models.TrackedURL{URL: url, CreatedAt: time.Now()}
	err := db.conn.QueryRow(query, t.URL, t.CreatedAt).Scan(&t.ID)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyTracked, url)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create tracked url: %w", err)
	}
	return t, nil
}

// GetTrackedURL retrieves a tracked URL by its URL string
func (db *DB) GetTrackedURL(url string) (*models.TrackedURL, error) {
	query := `
		SELECT id, url, created_at
		FROM tracked_urls
		WHERE url = $1
	`
	var t models.TrackedURL
	err := db.conn.QueryRow(query, url).Scan(&t.ID, &t.URL, &t.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, url)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tracked url: %w", err)
	}
	return &t, nil
}

// DeleteTrackedURL removes a tracked URL. Its observations are removed by
// the ON DELETE CASCADE constraint. Returns ErrNotFound when the URL is
// not tracked.
func (db *DB) DeleteTrackedURL(url string) error {
	query := `DELETE FROM tracked_urls WHERE url = $1`
	result, err := db.conn.Exec(query, url)
	if err != nil {
		return fmt.Errorf("failed to delete tracked url: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, url)
	}
	return nil
}

// ListTrackedURLs retrieves all tracked URLs, each with up to historyLimit
// most recent observations, newest first.
func (db *DB) ListTrackedURLs(historyLimit int) ([]*models.TrackedURLWithHistory, error) {
	query := `
		SELECT id, url, created_at
		FROM tracked_urls
		ORDER BY created_at ASC, id ASC
	`
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracked urls: %w", err)
	}
	defer rows.Close()

	var tracked []*models.TrackedURLWithHistory
	for rows.Next() {
		var t models.TrackedURLWithHistory
		if err := rows.Scan(&t.ID, &t.URL, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tracked url: %w", err)
		}
		tracked = append(tracked, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tracked urls: %w", err)
	}

	for _, t := range tracked {
		observations, err := db.GetObservations(t.ID, historyLimit)
		if err != nil {
			return nil, err
		}
		t.Observations = observations
	}

	return tracked, nil
}
