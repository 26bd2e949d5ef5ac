package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/farmbora/farmbora-api/internal/model"
)

// FarmerProfileRepo persists farmer profiles in `farmer_profiles`.
type FarmerProfileRepo struct{ DB *sql.DB }

func NewFarmerProfileRepo(db *sql.DB) *FarmerProfileRepo { return &FarmerProfileRepo{DB: db} }

const farmerProfileCols = "id,user_id,farm_name,farm_location,farm_size,farm_image,farm_description,created_at,updated_at"

// Create inserts a profile for the user and fills in the generated UUID.
// The unique user_id constraint rejects a second profile atomically, so
// the insert itself is the existence check.
func (r *FarmerProfileRepo) Create(ctx context.Context, p *model.FarmerProfile) error {
	p.ID = uuid.NewString()
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO farmer_profiles (id, user_id, farm_name, farm_location, farm_size, farm_image, farm_description) VALUES (?,?,?,?,?,?,?)",
		p.ID, p.UserID, p.FarmName, p.FarmLocation, p.FarmSize, p.FarmImage, p.FarmDescription)
	if err != nil {
		if isDuplicateEntry(err) {
			return ErrProfileExists
		}
		return err
	}
	return nil
}

// Update overwrites the mutable columns of the user's profile.  Callers
// merge partial input into the stored record first, so unset fields keep
// their prior values.
func (r *FarmerProfileRepo) Update(ctx context.Context, p *model.FarmerProfile) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE farmer_profiles SET farm_name=?, farm_location=?, farm_size=?, farm_image=?, farm_description=? WHERE user_id=?",
		p.FarmName, p.FarmLocation, p.FarmSize, p.FarmImage, p.FarmDescription, p.UserID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Row may exist with identical values; only report missing profiles.
		var one int
		if qerr := r.DB.QueryRowContext(ctx,
			"SELECT 1 FROM farmer_profiles WHERE user_id=? LIMIT 1", p.UserID).Scan(&one); qerr != nil {
			return qerr
		}
	}
	return nil
}

// GetByUserID fetches the profile owned by a user.
func (r *FarmerProfileRepo) GetByUserID(ctx context.Context, userID uint64) (model.FarmerProfile, error) {
	var p model.FarmerProfile
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+farmerProfileCols+" FROM farmer_profiles WHERE user_id=? LIMIT 1",
		userID).Scan(&p.ID, &p.UserID, &p.FarmName, &p.FarmLocation, &p.FarmSize, &p.FarmImage, &p.FarmDescription, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// GetByID fetches a profile by its UUID.  Readable by any authenticated
// caller, not only the owner.
func (r *FarmerProfileRepo) GetByID(ctx context.Context, id string) (model.FarmerProfile, error) {
	var p model.FarmerProfile
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+farmerProfileCols+" FROM farmer_profiles WHERE id=? LIMIT 1",
		id).Scan(&p.ID, &p.UserID, &p.FarmName, &p.FarmLocation, &p.FarmSize, &p.FarmImage, &p.FarmDescription, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// List returns every farmer profile, unfiltered and unpaginated.
func (r *FarmerProfileRepo) List(ctx context.Context) ([]model.FarmerProfile, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+farmerProfileCols+" FROM farmer_profiles ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.FarmerProfile
	for rows.Next() {
		var p model.FarmerProfile
		if err := rows.Scan(&p.ID, &p.UserID, &p.FarmName, &p.FarmLocation, &p.FarmSize, &p.FarmImage, &p.FarmDescription, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// DeleteByUserID removes the user's profile together with all of its
// product listings in one transaction.  Returns sql.ErrNoRows when the
// user owns no farmer profile.
func (r *FarmerProfileRepo) DeleteByUserID(ctx context.Context, userID uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var profileID string
	if err := tx.QueryRowContext(ctx,
		"SELECT id FROM farmer_profiles WHERE user_id=? LIMIT 1", userID).Scan(&profileID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM product_listings WHERE farmer_id=?", profileID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM farmer_profiles WHERE id=?", profileID); err != nil {
		return err
	}
	return tx.Commit()
}
