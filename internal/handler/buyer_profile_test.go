package handler

import (
	"database/sql"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmbora/farmbora-api/internal/repository"
)

const (
	buyerByUserQuery = "SELECT id,user_id,company_name,company_address,company_description,company_image,created_at,updated_at FROM buyer_profiles WHERE user_id=? LIMIT 1"
	buyerInsertQuery = "INSERT INTO buyer_profiles (id, user_id, company_name, company_address, company_description, company_image) VALUES (?,?,?,?,?,?)"
	buyerDeleteQuery = "DELETE FROM buyer_profiles WHERE user_id=?"
)

func newBuyerEnv(t *testing.T) (*BuyerProfileHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewBuyerProfileHandler(repository.NewBuyerProfileRepo(db)), mock
}

func TestBuyerCreate_Success(t *testing.T) {
	h, mock := newBuyerEnv(t)

	mock.ExpectQuery(buyerByUserQuery).WithArgs(uint64(9)).WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(buyerInsertQuery).
		WithArgs(sqlmock.AnyArg(), uint64(9), "Fresh Foods Ltd", "Mombasa Road", nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec, body := doAuthJSON(t, h.Create, http.MethodPost,
		`{"company_name":"Fresh Foods Ltd","company_address":"Mombasa Road"}`, 9)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Buyer profile created successfully.", body["message"])

	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Fresh Foods Ltd", data["company_name"])
}

func TestBuyerCreate_MissingFields(t *testing.T) {
	h, mock := newBuyerEnv(t)

	mock.ExpectQuery(buyerByUserQuery).WithArgs(uint64(9)).WillReturnError(sql.ErrNoRows)

	rec, body := doAuthJSON(t, h.Create, http.MethodPost, `{}`, 9)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	errs, ok := body["errors"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, errs, "company_name")
	assert.Contains(t, errs, "company_address")
}

func TestBuyerDetails_Success(t *testing.T) {
	h, mock := newBuyerEnv(t)

	now := time.Now().UTC()
	id := uuid.NewString()
	mock.ExpectQuery(buyerByUserQuery).WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "company_name", "company_address", "company_description", "company_image", "created_at", "updated_at"}).
			AddRow(id, 9, "Fresh Foods Ltd", "Mombasa Road", nil, nil, now, now))

	rec, body := doAuthJSON(t, h.Details, http.MethodGet, ``, 9)
	assert.Equal(t, http.StatusOK, rec.Code)

	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, id, data["id"])
}

func TestBuyerDelete(t *testing.T) {
	h, mock := newBuyerEnv(t)

	mock.ExpectExec(buyerDeleteQuery).WithArgs(uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec, body := doAuthJSON(t, h.Delete, http.MethodDelete, ``, 9)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Buyer profile deleted successfully.", body["message"])

	// Deleting again finds nothing.
	mock.ExpectExec(buyerDeleteQuery).WithArgs(uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	rec2, body2 := doAuthJSON(t, h.Delete, http.MethodDelete, ``, 9)
	assert.Equal(t, http.StatusNotFound, rec2.Code)
	assert.Equal(t, "Buyer profile not found.", body2["message"])
}
