package models

import "time"

// Product is a sellable catalog item. Stock is the only field concurrently
// mutated by unrelated requests; it is decremented through a conditional
// UPDATE so it can never go negative. Version is an optimistic-lock counter
// bumped on every write. Active=false is a soft delete: products that took
// part in an order are never physically removed.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       float64
	Stock       int
	Category    string
	ImageURL    string
	Active      bool
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
