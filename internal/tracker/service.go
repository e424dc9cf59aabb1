package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/mwalton/price-tracker/internal/database"
	"github.com/mwalton/price-tracker/internal/extract"
	"github.com/mwalton/price-tracker/internal/models"
	"github.com/shopspring/decimal"
)

// HistoryLimit is how many recent observations are loaded per URL when
// listing and when classifying changes.
const HistoryLimit = 3

// Store defines the persistence operations the tracker needs
type Store interface {
	CreateTrackedURL(url string) (*models.TrackedURL, error)
	DeleteTrackedURL(url string) error
	ListTrackedURLs(historyLimit int) ([]*models.TrackedURLWithHistory, error)
	CreateObservation(o *models.PriceObservation) error
}

// Service orchestrates add/remove/list/check operations over the store
// and the extraction client. Both dependencies are injected; the service
// holds no other state.
type Service struct {
	store     Store
	extractor extract.Client
}

// New creates a tracker service
func New(store Store, extractor extract.Client) *Service {
	return &Service{
		store:     store,
		extractor: extractor,
	}
}

// AddURL starts tracking a product page. It verifies the URL is
// extractable first, then creates the tracked URL and its initial
// observation. Tracking an already-tracked URL is a no-op: it logs and
// returns created=false without an error.
func (s *Service) AddURL(ctx context.Context, url string) (*models.TrackedURL, bool, error) {
	if url == "" {
		return nil, false, fmt.Errorf("url must not be empty")
	}

	product, err := s.extractor.Extract(ctx, url)
	if err != nil {
		return nil, false, fmt.Errorf("failed to scrape %s: %w", url, err)
	}

	tracked, err := s.store.CreateTrackedURL(url)
	if errors.Is(err, database.ErrAlreadyTracked) {
		log.Printf("URL %s is already being tracked", url)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	log.Printf("Added URL %s to database", url)

	if err := s.store.CreateObservation(newObservation(tracked.ID, product)); err != nil {
		return nil, false, err
	}

	return tracked, true, nil
}

// RemoveURL stops tracking a URL. Returns database.ErrNotFound when the
// URL was not tracked.
func (s *Service) RemoveURL(ctx context.Context, url string) error {
	return s.store.DeleteTrackedURL(url)
}

// ListURLs returns all tracked URLs with their most recent observations,
// newest first.
func (s *Service) ListURLs(ctx context.Context) ([]*models.TrackedURLWithHistory, error) {
	return s.store.ListTrackedURLs(HistoryLimit)
}

// CheckAllPrices runs one check cycle: every tracked URL is scraped in
// turn, a new observation is recorded, and the result is classified as a
// new item, a price update, or no change. A failure on one URL never
// aborts the cycle for the others; the whole pass cannot fail once the
// tracked list is loaded.
func (s *Service) CheckAllPrices(ctx context.Context) (*models.CheckResult, error) {
	tracked, err := s.store.ListTrackedURLs(HistoryLimit)
	if err != nil {
		return nil, err
	}

	log.Printf("Checking %d URLs...", len(tracked))
	result := &models.CheckResult{}

	for _, t := range tracked {
		product, err := s.extractor.Extract(ctx, t.URL)
		if err != nil {
			log.Printf("Failed to scrape %s: %v", t.URL, err)
			continue
		}

		if err := s.store.CreateObservation(newObservation(t.ID, product)); err != nil {
			log.Printf("Failed to record observation for %s: %v", t.URL, err)
			continue
		}

		newPrice := decimal.NewFromFloat(product.Price)
		currency := product.CurrencyOrDefault()

		// A URL normally has at least one observation from AddURL. If
		// history is empty anyway, this observation becomes the first.
		if len(t.Observations) == 0 {
			continue
		}

		// Second observation ever: report as newly tracked, no delta.
		if len(t.Observations) == 1 {
			result.NewItems = append(result.NewItems, models.NewItem{
				Title:    product.Title,
				Price:    newPrice,
				Currency: currency,
			})
			continue
		}

		lastPrice := t.Observations[0].Price
		if lastPrice.Equal(newPrice) {
			continue
		}
		if lastPrice.IsZero() {
			log.Printf("Skipping percent change for %s: previous price is zero", t.URL)
			continue
		}

		percentChange, _ := newPrice.Sub(lastPrice).Div(lastPrice).Mul(decimal.NewFromInt(100)).Float64()
		result.Updates = append(result.Updates, models.PriceUpdate{
			Title:         product.Title,
			OldPrice:      lastPrice,
			NewPrice:      newPrice,
			PercentChange: percentChange,
			Currency:      currency,
		})
	}

	return result, nil
}

func newObservation(trackedURLID int, product *models.ProductData) *models.PriceObservation {
	var metadata string
	if product.Brand != nil || product.Description != nil {
		meta := models.ObservationMetadata{}
		if product.Brand != nil {
			meta.Brand = *product.Brand
		}
		if product.Description != nil {
			meta.Description = *product.Description
		}
		if data, err := json.Marshal(meta); err == nil {
			metadata = string(data)
		}
	}

	return &models.PriceObservation{
		TrackedURLID: trackedURLID,
		Title:        product.Title,
		Price:        decimal.NewFromFloat(product.Price),
		Currency:     product.CurrencyOrDefault(),
		IsAvailable:  product.Available(),
		Metadata:     metadata,
	}
}
