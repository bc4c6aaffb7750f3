package domain

import "time"

// Purchase is one order line written at checkout. It is never modified afterwards.
type Purchase struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Price       string    `json:"price"`
	Image       string    `json:"image"`
	PurchasedAt time.Time `json:"purchaseDate"`
}
