// Package queue defines message payloads exchanged over the message broker.
package queue

// ListingCreatedEvent is published when a farmer creates a product
// listing.  It carries enough information for downstream consumers to
// log, notify, or feed analytics without querying the primary database.
type ListingCreatedEvent struct {
	ListingID    string `json:"listing_id"`
	FarmerID     string `json:"farmer_id"`
	UserID       uint64 `json:"user_id"`
	ProductName  string `json:"product_name"`
	Quantity     string `json:"quantity"`
	PricePerUnit string `json:"price_per_unit"`
	CreatedAt    string `json:"created_at"`
}
