package model

import "time"

// FarmerProfile is the seller-side profile attached one-to-one to a
// user.  It corresponds to a row in the `farmer_profiles` table.
// The primary key is a UUID string so profiles can be referenced in
// public URLs without exposing sequential identifiers.  A UNIQUE
// constraint on UserID enforces at most one farmer profile per user
// at write time.
//
// Fields:
//  ID              – UUID primary key (char 36).
//  UserID          – owning user, unique.
//  FarmName        – display name of the farm.
//  FarmLocation    – free-text location of the farm.
//  FarmSize        – size of the farm as a decimal string (e.g. "12.50").
//  FarmImage       – optional image URL (nullable).
//  FarmDescription – optional free-text description (nullable).
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type FarmerProfile struct {
	ID              string    // farmer_profiles.id
	UserID          uint64    // farmer_profiles.user_id
	FarmName        string    // farmer_profiles.farm_name
	FarmLocation    string    // farmer_profiles.farm_location
	FarmSize        string    // farmer_profiles.farm_size (DECIMAL(10,2))
	FarmImage       *string   // farmer_profiles.farm_image (nullable)
	FarmDescription *string   // farmer_profiles.farm_description (nullable)
	CreatedAt       time.Time // farmer_profiles.created_at
	UpdatedAt       time.Time // farmer_profiles.updated_at
}
