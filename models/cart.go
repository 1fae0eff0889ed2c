package models

import (
	"time"

	"github.com/google/uuid"
)

// CartLine is one purchasable entry in the cart. Its identity key is
// (product ID, variation ID, complete-set flag); at most one line exists per
// key. UnitPrice is frozen at the moment the line was created.
type CartLine struct {
	Product       Product           `json:"product"`
	Variation     *ProductVariation `json:"variation,omitempty"`
	Quantity      int               `json:"quantity"`
	UnitPrice     float64           `json:"unit_price"`
	IsCompleteSet bool              `json:"is_complete_set"`
}

// Total returns the line total (frozen unit price times quantity).
func (l CartLine) Total() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// Matches reports whether the line has the given identity key.
func (l CartLine) Matches(productID uuid.UUID, variationID *uuid.UUID, isCompleteSet bool) bool {
	if l.Product.ID != productID || l.IsCompleteSet != isCompleteSet {
		return false
	}
	if variationID == nil {
		return l.Variation == nil
	}
	return l.Variation != nil && l.Variation.ID == *variationID
}

// Cart is the per-session cart ledger persisted in Redis as a JSON blob.
type Cart struct {
	SessionID string     `json:"session_id"`
	Lines     []CartLine `json:"lines"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TotalPrice sums unit_price * quantity over all lines.
func (c *Cart) TotalPrice() float64 {
	var total float64
	for _, l := range c.Lines {
		total += l.Total()
	}
	return total
}

// TotalItems sums quantities over all lines.
func (c *Cart) TotalItems() int {
	var n int
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// AddItemRequest is the payload for adding a line to the cart.
type AddItemRequest struct {
	ProductID     uuid.UUID  `json:"product_id" binding:"required"`
	VariationID   *uuid.UUID `json:"variation_id"`
	Quantity      int        `json:"quantity"`
	IsCompleteSet bool       `json:"is_complete_set"`
}

// UpdateQuantityRequest is the payload for changing a line's quantity.
// A quantity of zero or below removes the line.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}
