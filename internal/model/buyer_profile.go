package model

import "time"

// BuyerProfile is the purchasing-side profile attached one-to-one to
// a user.  It corresponds to a row in the `buyer_profiles` table and
// mirrors FarmerProfile structurally.  A UNIQUE constraint on UserID
// enforces at most one buyer profile per user.
//
// Fields:
//  ID                 – UUID primary key (char 36).
//  UserID             – owning user, unique.
//  CompanyName        – registered company name.
//  CompanyAddress     – company address.
//  CompanyDescription – optional free-text description (nullable).
//  CompanyImage       – optional image URL (nullable).
//  CreatedAt          – creation timestamp.
//  UpdatedAt          – last update timestamp.
type BuyerProfile struct {
	ID                 string    // buyer_profiles.id
	UserID             uint64    // buyer_profiles.user_id
	CompanyName        string    // buyer_profiles.company_name
	CompanyAddress     string    // buyer_profiles.company_address
	CompanyDescription *string   // buyer_profiles.company_description (nullable)
	CompanyImage       *string   // buyer_profiles.company_image (nullable)
	CreatedAt          time.Time // buyer_profiles.created_at
	UpdatedAt          time.Time // buyer_profiles.updated_at
}
