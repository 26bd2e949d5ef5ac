package handler

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmbora/farmbora-api/internal/config"
	"github.com/farmbora/farmbora-api/internal/repository"
	"github.com/farmbora/farmbora-api/internal/utils"
)

const (
	userByUsernameQuery = "SELECT id,username,email,phone_number,password_hash,is_active,is_staff,created_at,updated_at FROM users WHERE username=? LIMIT 1"
	userByIDQuery       = "SELECT id,username,email,phone_number,password_hash,is_active,is_staff,created_at,updated_at FROM users WHERE id=? LIMIT 1"
	insertUserQuery     = "INSERT INTO users (username, email, phone_number, password_hash) VALUES (?,?,?,?)"
	insertRefreshQuery  = "INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?,?,?)"
	validateTokenQuery  = "SELECT user_id, expires_at, revoked_at FROM refresh_tokens WHERE token_hash=? LIMIT 1"
	revokeTokenQuery    = "UPDATE refresh_tokens SET revoked_at=NOW() WHERE token_hash=? AND revoked_at IS NULL"
)

func testConfig() config.Config {
	return config.Config{JWTSecret: "test-secret", AccessTTLMin: 15, RefreshTTLDays: 7, BcryptCost: 4}
}

func newAuthEnv(t *testing.T) (*AuthHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	h := NewAuthHandler(testConfig(), repository.NewUserRepo(db), repository.NewTokenRepo(db))
	return h, mock
}

// doJSON runs a handler against a JSON request body and decodes the
// envelope it writes.
func doJSON(t *testing.T, h echo.HandlerFunc, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h(c))

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return rec, out
}

func userRow(hash string, active bool) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{"id", "username", "email", "phone_number", "password_hash", "is_active", "is_staff", "created_at", "updated_at"}).
		AddRow(7, "alice", nil, nil, hash, active, false, now, now)
}

func TestRegister_ValidationErrors(t *testing.T) {
	h, _ := newAuthEnv(t)

	rec, body := doJSON(t, h.Register, `{"username":"","password":"short"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "fail", body["status"])

	errs, ok := body["errors"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, errs, "username")
	assert.Contains(t, errs, "password")
}

func TestRegister_Success(t *testing.T) {
	h, mock := newAuthEnv(t)

	mock.ExpectExec(insertUserQuery).
		WithArgs("alice", nil, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(7, 1))

	rec, body := doJSON(t, h.Register, `{"username":"alice","password":"secretpw1"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "User registered successfully.", body["message"])

	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(7), data["id"])
	assert.Equal(t, "alice", data["username"])
	assert.Equal(t, true, data["is_active"])
	assert.NotContains(t, data, "password")
	assert.NotContains(t, data, "password_hash")
}

func TestRegister_DuplicateUsername(t *testing.T) {
	h, mock := newAuthEnv(t)

	mock.ExpectExec(insertUserQuery).
		WithArgs("alice", nil, nil, sqlmock.AnyArg()).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'alice'"})

	rec, body := doJSON(t, h.Register, `{"username":"alice","password":"secretpw1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "Username already exists.", body["message"])
}

func TestLogin_UnknownUserAndWrongPasswordLookIdentical(t *testing.T) {
	hash, err := utils.HashPassword("secretpw1", 4)
	require.NoError(t, err)

	// Unknown username.
	h, mock := newAuthEnv(t)
	mock.ExpectQuery(userByUsernameQuery).WithArgs("ghost").WillReturnError(sql.ErrNoRows)
	rec1, body1 := doJSON(t, h.Login, `{"username":"ghost","password":"secretpw1"}`)

	// Known username, wrong password.
	h2, mock2 := newAuthEnv(t)
	mock2.ExpectQuery(userByUsernameQuery).WithArgs("alice").WillReturnRows(userRow(hash, true))
	rec2, body2 := doJSON(t, h2.Login, `{"username":"alice","password":"wrongpass"}`)

	assert.Equal(t, http.StatusUnauthorized, rec1.Code)
	assert.Equal(t, rec1.Code, rec2.Code)
	assert.Equal(t, body1["status"], body2["status"])
	assert.Equal(t, body1["message"], body2["message"])
	assert.Equal(t, "Invalid login credentials!", body1["message"])
}

func TestLogin_DisabledAccount(t *testing.T) {
	hash, err := utils.HashPassword("secretpw1", 4)
	require.NoError(t, err)

	h, mock := newAuthEnv(t)
	mock.ExpectQuery(userByUsernameQuery).WithArgs("alice").WillReturnRows(userRow(hash, false))

	rec, body := doJSON(t, h.Login, `{"username":"alice","password":"secretpw1"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "User account is disabled!", body["message"])
}

func TestLogin_Success(t *testing.T) {
	hash, err := utils.HashPassword("secretpw1", 4)
	require.NoError(t, err)

	h, mock := newAuthEnv(t)
	mock.ExpectQuery(userByUsernameQuery).WithArgs("alice").WillReturnRows(userRow(hash, true))
	mock.ExpectExec(insertRefreshQuery).
		WithArgs(uint64(7), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	rec, body := doJSON(t, h.Login, `{"username":"alice","password":"secretpw1"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Login successful.", body["message"])

	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	access, _ := data["access_token"].(string)
	refresh, _ := data["refresh_token"].(string)
	assert.NotEmpty(t, access)
	assert.Len(t, refresh, 96)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogout_MissingToken(t *testing.T) {
	h, _ := newAuthEnv(t)

	rec, body := doJSON(t, h.Logout, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "refresh_token is required.", body["message"])
}

func TestLogout_ThenReuseRejected(t *testing.T) {
	raw := strings.Repeat("ab", 48)
	hash := utils.HashRefreshRaw(raw)

	h, mock := newAuthEnv(t)
	mock.ExpectQuery(validateTokenQuery).WithArgs(hash).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
			AddRow(7, time.Now().UTC().Add(time.Hour), nil))
	mock.ExpectExec(revokeTokenQuery).WithArgs(hash).WillReturnResult(sqlmock.NewResult(0, 1))

	rec, body := doJSON(t, h.Logout, `{"refresh_token":"`+raw+`"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Logout successful.", body["message"])

	// Replaying the same token after revocation fails validation.
	mock.ExpectQuery(validateTokenQuery).WithArgs(hash).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
			AddRow(7, time.Now().UTC().Add(time.Hour), time.Now().UTC()))

	rec2, body2 := doJSON(t, h.Logout, `{"refresh_token":"`+raw+`"}`)
	assert.Equal(t, http.StatusBadRequest, rec2.Code)
	assert.Equal(t, "Invalid or expired token.", body2["message"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefresh_RotatesToken(t *testing.T) {
	raw := strings.Repeat("cd", 48)
	hash := utils.HashRefreshRaw(raw)

	h, mock := newAuthEnv(t)
	mock.ExpectQuery(validateTokenQuery).WithArgs(hash).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
			AddRow(7, time.Now().UTC().Add(time.Hour), nil))
	mock.ExpectExec(revokeTokenQuery).WithArgs(hash).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(userByIDQuery).WithArgs(uint64(7)).WillReturnRows(userRow("x", true))
	mock.ExpectExec(insertRefreshQuery).
		WithArgs(uint64(7), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(2, 1))

	rec, body := doJSON(t, h.Refresh, `{"refresh_token":"`+raw+`"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Tokens refreshed successfully.", body["message"])

	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.NotEqual(t, raw, data["refresh_token"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefresh_RevokedTokenRejected(t *testing.T) {
	raw := strings.Repeat("ef", 48)
	hash := utils.HashRefreshRaw(raw)

	h, mock := newAuthEnv(t)
	mock.ExpectQuery(validateTokenQuery).WithArgs(hash).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
			AddRow(7, time.Now().UTC().Add(time.Hour), time.Now().UTC()))

	rec, body := doJSON(t, h.Refresh, `{"refresh_token":"`+raw+`"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid or expired token.", body["message"])
}
