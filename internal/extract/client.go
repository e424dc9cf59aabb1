package extract

import (
	"context"
	"errors"

	"github.com/mwalton/price-tracker/internal/models"
)

// ErrExtractionFailed signals that the extraction service could not
// produce a valid product record for a URL. During AddURL it aborts the
// operation; during a check cycle the URL is skipped.
var ErrExtractionFailed = errors.New("extraction failed")

// Client extracts structured product data from a product page URL.
// Implementations delegate the actual scraping to an external service.
type Client interface {
	Extract(ctx context.Context, url string) (*models.ProductData, error)
}
