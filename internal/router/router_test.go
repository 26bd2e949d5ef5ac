package router

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmbora/farmbora-api/internal/config"
	"github.com/farmbora/farmbora-api/internal/handler"
	"github.com/farmbora/farmbora-api/internal/middleware"
	"github.com/farmbora/farmbora-api/internal/repository"
	"github.com/farmbora/farmbora-api/internal/utils"
)

// newServer wires the full route table against a sqlmock database, the
// same shape cmd/server builds at startup.  Redis is absent, so the rate
// limiter and cache middlewares run in passthrough mode.
func newServer(t *testing.T) (*echo.Echo, sqlmock.Sqlmock, config.Config) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cfg := config.Config{JWTSecret: "test-secret", AccessTTLMin: 15, RefreshTTLDays: 7, BcryptCost: 4}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	farmers := repository.NewFarmerProfileRepo(db)
	buyers := repository.NewBuyerProfileRepo(db)
	listings := repository.NewListingRepo(db)

	e := echo.New()
	RegisterRoutes(e)
	RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), middleware.NewTokenBucket(config.RateLimitConfig{}, nil))
	RegisterProtected(e,
		handler.NewFarmerProfileHandler(farmers),
		handler.NewBuyerProfileHandler(buyers),
		handler.NewListingHandler(listings, farmers),
		cfg.JWTSecret,
		middleware.NewRedisCache(config.CacheConfig{}, nil))
	return e, mock, cfg
}

func request(e *echo.Echo, method, path, body, bearer string) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var out map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func TestHealthz(t *testing.T) {
	e, _, _ := newServer(t)
	rec, _ := request(e, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	e, _, _ := newServer(t)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/farmer/profile/details"},
		{http.MethodPost, "/api/v1/product/create"},
		{http.MethodGet, "/api/v1/buyer/profiles/list"},
	} {
		rec, body := request(e, route.method, route.path, "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, route.path)
		assert.Equal(t, "Missing bearer token.", body["message"], route.path)
	}
}

func TestRegisterLoginAndCreateProfileFlow(t *testing.T) {
	e, mock, _ := newServer(t)

	// Register.
	mock.ExpectExec("INSERT INTO users (username, email, phone_number, password_hash) VALUES (?,?,?,?)").
		WithArgs("alice", nil, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(7, 1))

	rec, body := request(e, http.MethodPost, "/api/v1/auth/register",
		`{"username":"alice","password":"secretpw1"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "success", body["status"])

	// Login.
	hash, err := utils.HashPassword("secretpw1", 4)
	require.NoError(t, err)
	now := time.Now().UTC()
	mock.ExpectQuery("SELECT id,username,email,phone_number,password_hash,is_active,is_staff,created_at,updated_at FROM users WHERE username=? LIMIT 1").
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "phone_number", "password_hash", "is_active", "is_staff", "created_at", "updated_at"}).
			AddRow(7, "alice", nil, nil, hash, true, false, now, now))
	mock.ExpectExec("INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?,?,?)").
		WithArgs(uint64(7), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	rec, body = request(e, http.MethodPost, "/api/v1/auth/login",
		`{"username":"alice","password":"secretpw1"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	tokens := body["data"].(map[string]any)
	access := tokens["access_token"].(string)
	require.NotEmpty(t, access)

	// Create the farmer profile with the issued access token.
	mock.ExpectQuery("SELECT id,user_id,farm_name,farm_location,farm_size,farm_image,farm_description,created_at,updated_at FROM farmer_profiles WHERE user_id=? LIMIT 1").
		WithArgs(uint64(7)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO farmer_profiles (id, user_id, farm_name, farm_location, farm_size, farm_image, farm_description) VALUES (?,?,?,?,?,?,?)").
		WithArgs(sqlmock.AnyArg(), uint64(7), "Green Acres", "Nakuru", "12.5", nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec, body = request(e, http.MethodPost, "/api/v1/farmer/profile/create",
		`{"farm_name":"Green Acres","farm_location":"Nakuru","farm_size":"12.5"}`, access)
	require.Equal(t, http.StatusCreated, rec.Code)
	data := body["data"].(map[string]any)
	profileID := data["id"].(string)

	// Read it back through the own-profile endpoint.
	mock.ExpectQuery("SELECT id,user_id,farm_name,farm_location,farm_size,farm_image,farm_description,created_at,updated_at FROM farmer_profiles WHERE user_id=? LIMIT 1").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "farm_name", "farm_location", "farm_size", "farm_image", "farm_description", "created_at", "updated_at"}).
			AddRow(profileID, 7, "Green Acres", "Nakuru", "12.5", nil, nil, now, now))

	rec, body = request(e, http.MethodGet, "/api/v1/farmer/profile/details", "", access)
	require.Equal(t, http.StatusOK, rec.Code)
	data = body["data"].(map[string]any)
	assert.Equal(t, profileID, data["id"])
	assert.Equal(t, "12.5", data["farm_size"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccessTokenSurvivesRefreshRevocation(t *testing.T) {
	e, mock, cfg := newServer(t)

	access, err := utils.NewAccessToken(cfg.JWTSecret, 7, "alice", cfg.AccessTTLMin)
	require.NoError(t, err)
	raw := strings.Repeat("ab", 48)
	hashed := utils.HashRefreshRaw(raw)

	// Logout revokes the refresh token.
	mock.ExpectQuery("SELECT user_id, expires_at, revoked_at FROM refresh_tokens WHERE token_hash=? LIMIT 1").
		WithArgs(hashed).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
			AddRow(7, time.Now().UTC().Add(time.Hour), nil))
	mock.ExpectExec("UPDATE refresh_tokens SET revoked_at=NOW() WHERE token_hash=? AND revoked_at IS NULL").
		WithArgs(hashed).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec, _ := request(e, http.MethodPost, "/api/v1/auth/logout",
		`{"refresh_token":"`+raw+`"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	// The access token keeps working until it expires on its own.
	mock.ExpectQuery("SELECT id,user_id,farm_name,farm_location,farm_size,farm_image,farm_description,created_at,updated_at FROM farmer_profiles WHERE user_id=? LIMIT 1").
		WithArgs(uint64(7)).
		WillReturnError(sql.ErrNoRows)

	rec, body := request(e, http.MethodGet, "/api/v1/farmer/profile/details", "", access.Token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Farmer profile not found.", body["message"])
}
