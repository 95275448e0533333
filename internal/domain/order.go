package domain

import "time"

// Order represents a customer order. Orders are created unpaid when a
// checkout session is opened and flip to paid exactly once, when the
// payment provider reports the session completed. Orders are never deleted.
type Order struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	IsPaid    bool      `json:"is_paid"`
	Products  []Product `json:"products"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Total returns the order total in the smallest currency unit, excluding
// the checkout service fee.
func (o *Order) Total() int64 {
	var total int64
	for _, p := range o.Products {
		total += p.Price
	}
	return total
}
