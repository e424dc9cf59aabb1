package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceObservation is one point-in-time scrape result for a tracked URL.
// Observations are append-only: they are never updated or deleted
// individually, only removed when the owning URL is untracked.
type PriceObservation struct {
	ID           int             `json:"id"`
	TrackedURLID int             `json:"tracked_url_id"`
	Title        string          `json:"title"`
	Price        decimal.Decimal `json:"price"`
	Currency     string          `json:"currency"`
	IsAvailable  bool            `json:"is_available"`
	Metadata     string          `json:"metadata,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ObservationMetadata holds the free-form product fields serialized
// into PriceObservation.Metadata.
type ObservationMetadata struct {
	Brand       string `json:"brand,omitempty"`
	Description string `json:"description,omitempty"`
}
