package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Change event type constants
const (
	EventTypeNewItem     = "NEW_ITEM"
	EventTypePriceUpdate = "PRICE_UPDATE"
)

// NewItem reports a tracked URL whose second-ever observation was just
// recorded. It is a cold-start classification, not a price comparison.
type NewItem struct {
	Title    string          `json:"title"`
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency"`
}

// PriceUpdate reports a tracked URL whose newest price differs from the
// immediately preceding observation.
type PriceUpdate struct {
	Title         string          `json:"title"`
	OldPrice      decimal.Decimal `json:"old_price"`
	NewPrice      decimal.Decimal `json:"new_price"`
	PercentChange float64         `json:"percent_change"`
	Currency      string          `json:"currency"`
}

// CheckResult aggregates everything one check cycle detected.
type CheckResult struct {
	Updates  []PriceUpdate `json:"updates"`
	NewItems []NewItem     `json:"new_items"`
}

// Empty reports whether the cycle detected no changes at all.
func (r *CheckResult) Empty() bool {
	return len(r.Updates) == 0 && len(r.NewItems) == 0
}

// ChangeEvent is the envelope published to the notification topic for
// each detected change.
type ChangeEvent struct {
	EventType string       `json:"event_type"`
	NewItem   *NewItem     `json:"new_item,omitempty"`
	Update    *PriceUpdate `json:"update,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}
