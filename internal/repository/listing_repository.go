package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/farmbora/farmbora-api/internal/model"
)

// ListingRepo persists product listings in `product_listings`.  Listings
// are created and read through the API; the observed surface exposes no
// update or delete for them, they disappear only when the owning farmer
// profile is removed.
type ListingRepo struct{ DB *sql.DB }

func NewListingRepo(db *sql.DB) *ListingRepo { return &ListingRepo{DB: db} }

const listingCols = "id,farmer_id,product_name,quantity,price_per_unit,description,product_image,created_at,updated_at"

// Create inserts a listing for a farmer profile and fills in the
// generated UUID.
func (r *ListingRepo) Create(ctx context.Context, l *model.ProductListing) error {
	l.ID = uuid.NewString()
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO product_listings (id, farmer_id, product_name, quantity, price_per_unit, description, product_image) VALUES (?,?,?,?,?,?,?)",
		l.ID, l.FarmerID, l.ProductName, l.Quantity, l.PricePerUnit, l.Description, l.ProductImage)
	return err
}

// GetByID fetches a listing by its UUID.
func (r *ListingRepo) GetByID(ctx context.Context, id string) (model.ProductListing, error) {
	var l model.ProductListing
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+listingCols+" FROM product_listings WHERE id=? LIMIT 1",
		id).Scan(&l.ID, &l.FarmerID, &l.ProductName, &l.Quantity, &l.PricePerUnit, &l.Description, &l.ProductImage, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

// List returns every listing, unfiltered and unpaginated.
func (r *ListingRepo) List(ctx context.Context) ([]model.ProductListing, error) {
	return r.scanMany(ctx, "SELECT "+listingCols+" FROM product_listings ORDER BY created_at")
}

// ListByFarmer returns the listings owned by one farmer profile.
func (r *ListingRepo) ListByFarmer(ctx context.Context, farmerID string) ([]model.ProductListing, error) {
	return r.scanMany(ctx, "SELECT "+listingCols+" FROM product_listings WHERE farmer_id=? ORDER BY created_at", farmerID)
}

func (r *ListingRepo) scanMany(ctx context.Context, query string, args ...any) ([]model.ProductListing, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ProductListing
	for rows.Next() {
		var l model.ProductListing
		if err := rows.Scan(&l.ID, &l.FarmerID, &l.ProductName, &l.Quantity, &l.PricePerUnit, &l.Description, &l.ProductImage, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
