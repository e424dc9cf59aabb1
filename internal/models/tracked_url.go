package models

import "time"

// TrackedURL represents a product page URL being monitored for price changes
type TrackedURL struct {
	ID        int       `json:"id"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

// TrackedURLWithHistory bundles a tracked URL with its most recent
// price observations, ordered newest first.
type TrackedURLWithHistory struct {
	TrackedURL
	Observations []*PriceObservation `json:"observations"`
}
