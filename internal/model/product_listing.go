package model

import "time"

// ProductListing records a product offered for sale by a farmer.
// Listings belong to exactly one farmer profile and are removed when
// that profile is deleted.  Quantity and price are decimal strings to
// round-trip DECIMAL columns without float precision loss.
//
// Fields:
//  ID           – UUID primary key (char 36).
//  FarmerID     – owning farmer profile.
//  ProductName  – name of the product.
//  Quantity     – available quantity as a decimal string, >= 0.
//  PricePerUnit – unit price as a decimal string, >= 0.
//  Description  – optional free-text description (nullable).
//  ProductImage – optional image URL (nullable).
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type ProductListing struct {
	ID           string    // product_listings.id
	FarmerID     string    // product_listings.farmer_id
	ProductName  string    // product_listings.product_name
	Quantity     string    // product_listings.quantity (DECIMAL(10,2))
	PricePerUnit string    // product_listings.price_per_unit (DECIMAL(10,2))
	Description  *string   // product_listings.description (nullable)
	ProductImage *string   // product_listings.product_image (nullable)
	CreatedAt    time.Time // product_listings.created_at
	UpdatedAt    time.Time // product_listings.updated_at
}
