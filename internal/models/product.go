package models

// DefaultCurrency is assumed when a product page does not state one.
const DefaultCurrency = "USD"

// ProductData is the structured record extracted from a product page.
// Optional fields are pointers so "absent" is distinguishable from a
// zero value.
type ProductData struct {
	Title        string  `json:"title"`
	Price        float64 `json:"price"`
	Currency     *string `json:"currency,omitempty"`
	Availability *bool   `json:"availability,omitempty"`
	Brand        *string `json:"brand,omitempty"`
	Description  *string `json:"description,omitempty"`
}

// CurrencyOrDefault returns the extracted currency code, or DefaultCurrency
// when the page did not provide one.
func (p *ProductData) CurrencyOrDefault() string {
	if p.Currency != nil && *p.Currency != "" {
		return *p.Currency
	}
	return DefaultCurrency
}

// Available returns the extracted availability flag, defaulting to true.
func (p *ProductData) Available() bool {
	if p.Availability != nil {
		return *p.Availability
	}
	return true
}
