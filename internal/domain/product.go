package domain

import "time"

// Product is a catalog item. PriceID references the product's price in the
// payment provider's price list; products without one cannot be checked out
// and are silently dropped from sessions.
type Product struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	PriceID   string    `json:"price_id,omitempty"`
	Price     int64     `json:"price"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Priced reports whether the product carries a provider price reference.
func (p *Product) Priced() bool {
	return p.PriceID != ""
}

// FilterPriced returns the subset of products that can appear on a
// checkout session.
func FilterPriced(products []Product) []Product {
	priced := make([]Product, 0, len(products))
	for _, p := range products {
		if p.Priced() {
			priced = append(priced, p)
		}
	}
	return priced
}
