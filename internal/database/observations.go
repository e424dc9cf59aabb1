package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mwalton/price-tracker/internal/models"
	"github.com/shopspring/decimal"
)

// CreateObservation appends a new price observation for a tracked URL.
// Observations are never updated in place.
func (db *DB) CreateObservation(o *models.PriceObservation) error {
	query := `
		INSERT INTO price_observations (tracked_url_id, title, price, currency, is_available, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	o.CreatedAt = time.Now()
	var metadata sql.NullString
	if o.Metadata != "" {
		metadata = sql.NullString{String: o.Metadata, Valid: true}
	}

	err := db.conn.QueryRow(query,
		o.TrackedURLID, o.Title, o.Price, o.Currency, o.IsAvailable, metadata, o.CreatedAt,
	).Scan(&o.ID)

	if err != nil {
		return fmt.Errorf("failed to create price observation: %w", err)
	}
	return nil
}

// GetObservations retrieves up to limit observations for a tracked URL,
// ordered newest first.
func (db *DB) GetObservations(trackedURLID, limit int) ([]*models.PriceObservation, error) {
	query := `
		SELECT id, tracked_url_id, title, price, currency, is_available, metadata, created_at
		FROM price_observations
		WHERE tracked_url_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
	rows, err := db.conn.Query(query, trackedURLID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query price observations: %w", err)
	}
	defer rows.Close()

	var observations []*models.PriceObservation
	for rows.Next() {
		var o models.PriceObservation
		var price string
		var metadata sql.NullString

		err := rows.Scan(
			&o.ID, &o.TrackedURLID, &o.Title, &price, &o.Currency, &o.IsAvailable, &metadata, &o.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan price observation: %w", err)
		}

		o.Price, err = decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("invalid stored price %q: %w", price, err)
		}
		if metadata.Valid {
			o.Metadata = metadata.String
		}
		observations = append(observations, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate price observations: %w", err)
	}

	return observations, nil
}

// CountObservations returns the number of observations stored for a tracked URL
func (db *DB) CountObservations(trackedURLID int) (int, error) {
	query := `SELECT COUNT(*) FROM price_observations WHERE tracked_url_id = $1`
	var count int
	if err := db.conn.QueryRow(query, trackedURLID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count price observations: %w", err)
	}
	return count, nil
}
