package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"

	"github.com/mwalton/price-tracker/internal/models"
)

// productSchema describes the fields we ask the extraction service to
// pull out of a product page.
var productSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"title":        map[string]string{"type": "string"},
		"price":        map[string]string{"type": "number"},
		"currency":     map[string]string{"type": "string"},
		"availability": map[string]string{"type": "boolean"},
		"brand":        map[string]string{"type": "string"},
		"description":  map[string]string{"type": "string"},
	},
	"required": []string{"title", "price"},
}

// HTTPClient talks to a Firecrawl-compatible extraction API
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPClient creates an extraction client for the given API endpoint.
// No request timeout is imposed here; callers control deadlines through
// the context.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  http.DefaultClient,
	}
}

type scrapeRequest struct {
	URL     string        `json:"url"`
	Formats []string      `json:"formats"`
	Extract extractParams `json:"extract"`
}

type extractParams struct {
	Schema map[string]interface{} `json:"schema"`
}

type scrapeResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Data    struct {
		Extract *models.ProductData `json:"extract"`
	} `json:"data"`
}

// Extract fetches a structured product record for url
func (c *HTTPClient) Extract(ctx context.Context, url string) (*models.ProductData, error) {
	payload, err := json.Marshal(scrapeRequest{
		URL:     url,
		Formats: []string{"extract"},
		Extract: extractParams{Schema: productSchema},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal scrape request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/scrape", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build scrape request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}
	defer resp.Body.Close()

	var result scrapeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: invalid response: %v", ErrExtractionFailed, err)
	}

	if resp.StatusCode != http.StatusOK || !result.Success {
		reason := result.Error
		if reason == "" {
			reason = resp.Status
		}
		return nil, fmt.Errorf("%w: %s", ErrExtractionFailed, reason)
	}

	if err := Validate(result.Data.Extract); err != nil {
		return nil, err
	}
	return result.Data.Extract, nil
}

// Validate checks an extracted record against the schema contract.
// A record that fails validation is treated the same as a failed
// extraction: no observation is recorded for it.
func Validate(p *models.ProductData) error {
	if p == nil {
		return fmt.Errorf("%w: empty extraction result", ErrExtractionFailed)
	}
	if p.Title == "" {
		return fmt.Errorf("%w: missing title", ErrExtractionFailed)
	}
	if math.IsNaN(p.Price) || math.IsInf(p.Price, 0) {
		return fmt.Errorf("%w: price is not a finite number", ErrExtractionFailed)
	}
	if p.Price < 0 {
		return fmt.Errorf("%w: negative price %v", ErrExtractionFailed, p.Price)
	}
	return nil
}
