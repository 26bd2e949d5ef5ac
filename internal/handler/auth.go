package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/farmbora/farmbora-api/internal/config"
	"github.com/farmbora/farmbora-api/internal/repository"
	"github.com/farmbora/farmbora-api/internal/response"
	"github.com/farmbora/farmbora-api/internal/utils"
	"github.com/farmbora/farmbora-api/internal/validate"
)

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, t *repository.TokenRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Tokens: t}
}

// ----- DTOs -----

type registerReq struct {
	Username    string  `json:"username"`
	Password    string  `json:"password"`
	Email       *string `json:"email"`
	PhoneNumber *string `json:"phone_number"`
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

// identityView is the public shape of an account.  The password hash is
// never part of any response.
type identityView struct {
	ID          uint64  `json:"id"`
	Username    string  `json:"username"`
	Email       *string `json:"email"`
	PhoneNumber *string `json:"phone_number"`
	IsActive    bool    `json:"is_active"`
	IsStaff     bool    `json:"is_staff"`
}

type tokenPairView struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Register creates an account.  The username must be unique and the
// password at least eight characters; the stored credential is only the
// bcrypt hash.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid request body.", nil)
	}
	req.Username = strings.TrimSpace(req.Username)

	fe := validate.FieldErrors{}
	validate.Required(fe, "username", req.Username)
	validate.Required(fe, "password", req.Password)
	if req.Password != "" {
		validate.MinLen(fe, "password", req.Password, validate.MinPasswordLen)
	}
	if !fe.Empty() {
		return response.ValidationFail(c, fe)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Username, req.Password, req.Email, req.PhoneNumber, h.Cfg.BcryptCost)
	if err != nil {
		if err == repository.ErrUsernameExists {
			return response.Error(c, http.StatusBadRequest, "Username already exists.", nil)
		}
		return response.Error(c, http.StatusInternalServerError, "An error occurred while registering the user.", nil)
	}

	return response.Success(c, http.StatusCreated, "User registered successfully.", identityView{
		ID:          uid,
		Username:    req.Username,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		IsActive:    true,
	})
}

// Login verifies credentials and returns a fresh access/refresh pair.
// Unknown usernames and wrong passwords produce the identical response so
// the API does not leak which check failed.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid request body.", nil)
	}
	req.Username = strings.TrimSpace(req.Username)

	fe := validate.FieldErrors{}
	validate.Required(fe, "username", req.Username)
	validate.Required(fe, "password", req.Password)
	if !fe.Empty() {
		return response.ValidationFail(c, fe)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, req.Username)
	if err != nil {
		if err == sql.ErrNoRows {
			return response.Error(c, http.StatusUnauthorized, "Invalid login credentials!", nil)
		}
		return response.Error(c, http.StatusInternalServerError, "An error occurred while logging in.", nil)
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return response.Error(c, http.StatusUnauthorized, "Invalid login credentials!", nil)
	}
	if !u.IsActive {
		return response.Error(c, http.StatusUnauthorized, "User account is disabled!", nil)
	}

	pair, err := h.issuePair(ctx, u.ID, u.Username)
	if err != nil {
		return response.Error(c, http.StatusInternalServerError, "An error occurred while issuing tokens.", nil)
	}
	return response.Success(c, http.StatusOK, "Login successful.", pair)
}

// Logout revokes the refresh token carried in the request body.  The
// revocation is permanent: replaying the same token, including a second
// logout, yields the same error.  Access tokens are not individually
// revocable and simply expire.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return response.Error(c, http.StatusBadRequest, "refresh_token is required.", nil)
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if _, err := h.Tokens.ValidateRefresh(ctx, hash); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid or expired token.", nil)
	}
	if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
		return response.Error(c, http.StatusInternalServerError, "An error occurred while logging out.", nil)
	}
	return response.Success(c, http.StatusOK, "Logout successful.", nil)
}

// Refresh validates a refresh token, revokes it and returns a new pair.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return response.Error(c, http.StatusBadRequest, "refresh_token is required.", nil)
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	userID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return response.Error(c, http.StatusUnauthorized, "Invalid or expired token.", nil)
	}
	_ = h.Tokens.RevokeByHash(ctx, hash)

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		return response.Error(c, http.StatusInternalServerError, "An error occurred while refreshing tokens.", nil)
	}

	pair, err := h.issuePair(ctx, u.ID, u.Username)
	if err != nil {
		return response.Error(c, http.StatusInternalServerError, "An error occurred while issuing tokens.", nil)
	}
	return response.Success(c, http.StatusOK, "Tokens refreshed successfully.", pair)
}

// issuePair mints an access token and a refresh token for the user and
// stores the refresh token hash.
func (h *AuthHandler) issuePair(ctx context.Context, userID uint64, username string) (tokenPairView, error) {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, userID, username, h.Cfg.AccessTTLMin)
	if err != nil {
		return tokenPairView{}, err
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return tokenPairView{}, err
	}
	if err := h.Tokens.StoreRefresh(ctx, userID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return tokenPairView{}, err
	}
	return tokenPairView{AccessToken: access.Token, RefreshToken: refresh.Raw}, nil
}
