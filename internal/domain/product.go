package domain

import "time"

// Product is a catalog entry. Inside the cart the same struct acts as a cart line:
// Quantity and Selected then carry per-line state and ID stays the catalog identity.
type Product struct {
	ID          string    `json:"id"`
	Image       string    `json:"image"`
	Name        string    `json:"name"`
	Price       string    `json:"price"`
	Description string    `json:"description,omitempty"`
	Quantity    int       `json:"quantity"`
	Selected    bool      `json:"isSelected"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
}

// CartLine returns a fresh cart-line copy of p with the default line state.
func (p Product) CartLine() Product {
	line := p
	line.Quantity = 1
	line.Selected = false
	return line
}
