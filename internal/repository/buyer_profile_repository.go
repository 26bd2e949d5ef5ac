package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/farmbora/farmbora-api/internal/model"
)

// BuyerProfileRepo persists buyer profiles in `buyer_profiles`.  It is
// structurally identical to FarmerProfileRepo except that buyer profiles
// own no dependent records, so deletion is a single statement.
type BuyerProfileRepo struct{ DB *sql.DB }

func NewBuyerProfileRepo(db *sql.DB) *BuyerProfileRepo { return &BuyerProfileRepo{DB: db} }

const buyerProfileCols = "id,user_id,company_name,company_address,company_description,company_image,created_at,updated_at"

// Create inserts a profile for the user and fills in the generated UUID.
func (r *BuyerProfileRepo) Create(ctx context.Context, p *model.BuyerProfile) error {
	p.ID = uuid.NewString()
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO buyer_profiles (id, user_id, company_name, company_address, company_description, company_image) VALUES (?,?,?,?,?,?)",
		p.ID, p.UserID, p.CompanyName, p.CompanyAddress, p.CompanyDescription, p.CompanyImage)
	if err != nil {
		if isDuplicateEntry(err) {
			return ErrProfileExists
		}
		return err
	}
	return nil
}

// Update overwrites the mutable columns of the user's profile.
func (r *BuyerProfileRepo) Update(ctx context.Context, p *model.BuyerProfile) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE buyer_profiles SET company_name=?, company_address=?, company_description=?, company_image=? WHERE user_id=?",
		p.CompanyName, p.CompanyAddress, p.CompanyDescription, p.CompanyImage, p.UserID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		var one int
		if qerr := r.DB.QueryRowContext(ctx,
			"SELECT 1 FROM buyer_profiles WHERE user_id=? LIMIT 1", p.UserID).Scan(&one); qerr != nil {
			return qerr
		}
	}
	return nil
}

// GetByUserID fetches the profile owned by a user.
func (r *BuyerProfileRepo) GetByUserID(ctx context.Context, userID uint64) (model.BuyerProfile, error) {
	var p model.BuyerProfile
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+buyerProfileCols+" FROM buyer_profiles WHERE user_id=? LIMIT 1",
		userID).Scan(&p.ID, &p.UserID, &p.CompanyName, &p.CompanyAddress, &p.CompanyDescription, &p.CompanyImage, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// GetByID fetches a profile by its UUID.
func (r *BuyerProfileRepo) GetByID(ctx context.Context, id string) (model.BuyerProfile, error) {
	var p model.BuyerProfile
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+buyerProfileCols+" FROM buyer_profiles WHERE id=? LIMIT 1",
		id).Scan(&p.ID, &p.UserID, &p.CompanyName, &p.CompanyAddress, &p.CompanyDescription, &p.CompanyImage, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// List returns every buyer profile, unfiltered and unpaginated.
func (r *BuyerProfileRepo) List(ctx context.Context) ([]model.BuyerProfile, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+buyerProfileCols+" FROM buyer_profiles ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.BuyerProfile
	for rows.Next() {
		var p model.BuyerProfile
		if err := rows.Scan(&p.ID, &p.UserID, &p.CompanyName, &p.CompanyAddress, &p.CompanyDescription, &p.CompanyImage, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// DeleteByUserID removes the user's buyer profile.  Returns sql.ErrNoRows
// when the user owns none.
func (r *BuyerProfileRepo) DeleteByUserID(ctx context.Context, userID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM buyer_profiles WHERE user_id=?", userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
