package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/farmbora/farmbora-api/internal/model"
	"github.com/farmbora/farmbora-api/internal/repository"
	"github.com/farmbora/farmbora-api/internal/response"
	"github.com/farmbora/farmbora-api/internal/validate"
)

// FarmerProfileHandler serves the farmer profile endpoints.  Every route
// runs behind JWT auth; ownership checks key queries on the caller's
// user id, so one account can never touch another account's profile.
type FarmerProfileHandler struct {
	Profiles *repository.FarmerProfileRepo
}

func NewFarmerProfileHandler(p *repository.FarmerProfileRepo) *FarmerProfileHandler {
	return &FarmerProfileHandler{Profiles: p}
}

// farmerProfileReq is the create/update request shape.  Pointer fields
// distinguish "absent" from "empty" so PATCH only overwrites what the
// client sent.
type farmerProfileReq struct {
	FarmName        *string `json:"farm_name"`
	FarmLocation    *string `json:"farm_location"`
	FarmSize        *string `json:"farm_size"`
	FarmImage       *string `json:"farm_image"`
	FarmDescription *string `json:"farm_description"`
}

type farmerProfileView struct {
	ID              string    `json:"id"`
	FarmName        string    `json:"farm_name"`
	FarmLocation    string    `json:"farm_location"`
	FarmSize        string    `json:"farm_size"`
	FarmImage       *string   `json:"farm_image"`
	FarmDescription *string   `json:"farm_description"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func farmerProfileToView(p model.FarmerProfile) farmerProfileView {
	return farmerProfileView{
		ID:              p.ID,
		FarmName:        p.FarmName,
		FarmLocation:    p.FarmLocation,
		FarmSize:        p.FarmSize,
		FarmImage:       p.FarmImage,
		FarmDescription: p.FarmDescription,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Create handles POST /farmer/profile/create.  The already-exists check
// runs before validation; the unique user_id constraint backs it up
// atomically at insert time.
func (h *FarmerProfileHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return response.Error(c, http.StatusUnauthorized, "Unauthorized.", nil)
	}
	var req farmerProfileReq
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid request body.", nil)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if _, err := h.Profiles.GetByUserID(ctx, userID); err == nil {
		return response.Error(c, http.StatusBadRequest, "Farmer profile already exists.", nil)
	} else if err != sql.ErrNoRows {
		return response.Error(c, http.StatusInternalServerError, "An error occurred while creating the farmer profile.", nil)
	}

	fe := validate.FieldErrors{}
	validate.Required(fe, "farm_name", deref(req.FarmName))
	validate.Required(fe, "farm_location", deref(req.FarmLocation))
	validate.Required(fe, "farm_size", deref(req.FarmSize))
	if deref(req.FarmSize) != "" {
		validate.NonNegativeDecimal(fe, "farm_size", *req.FarmSize)
	}
	if !fe.Empty() {
		return response.ValidationFail(c, fe)
	}

	p := model.FarmerProfile{
		UserID:          userID,
		FarmName:        *req.FarmName,
		FarmLocation:    *req.FarmLocation,
		FarmSize:        *req.FarmSize,
		FarmImage:       req.FarmImage,
		FarmDescription: req.FarmDescription,
	}
	if err := h.Profiles.Create(ctx, &p); err != nil {
		if err == repository.ErrProfileExists {
			return response.Error(c, http.StatusBadRequest, "Farmer profile already exists.", nil)
		}
		return response.Error(c, http.StatusInternalServerError, "An error occurred while creating the farmer profile.", nil)
	}
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	return response.Success(c, http.StatusCreated, "Farmer profile created successfully.", farmerProfileToView(p))
}

// Update handles PATCH /farmer/profile/update.  Only fields present in
// the body overwrite stored values; everything else keeps its prior value.
func (h *FarmerProfileHandler) Update(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return response.Error(c, http.StatusUnauthorized, "Unauthorized.", nil)
	}
	var req farmerProfileReq
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid request body.", nil)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	p, err := h.Profiles.GetByUserID(ctx, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return response.NotFound(c, "Farmer profile not found.")
		}
		return response.Error(c, http.StatusInternalServerError, "An error occurred while updating the farmer profile.", nil)
	}

	fe := validate.FieldErrors{}
	if req.FarmName != nil {
		validate.Required(fe, "farm_name", *req.FarmName)
	}
	if req.FarmLocation != nil {
		validate.Required(fe, "farm_location", *req.FarmLocation)
	}
	if req.FarmSize != nil {
		validate.NonNegativeDecimal(fe, "farm_size", *req.FarmSize)
	}
	if !fe.Empty() {
		return response.ValidationFail(c, fe)
	}

	if req.FarmName != nil {
		p.FarmName = *req.FarmName
	}
	if req.FarmLocation != nil {
		p.FarmLocation = *req.FarmLocation
	}
	if req.FarmSize != nil {
		p.FarmSize = *req.FarmSize
	}
	if req.FarmImage != nil {
		p.FarmImage = req.FarmImage
	}
	if req.FarmDescription != nil {
		p.FarmDescription = req.FarmDescription
	}

	if err := h.Profiles.Update(ctx, &p); err != nil {
		return response.Error(c, http.StatusInternalServerError, "An error occurred while updating the farmer profile.", nil)
	}
	p.UpdatedAt = time.Now().UTC()
	return response.Success(c, http.StatusOK, "Farmer profile updated successfully.", farmerProfileToView(p))
}

// Details handles GET /farmer/profile/details and returns the caller's
// own profile.
func (h *FarmerProfileHandler) Details(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return response.Error(c, http.StatusUnauthorized, "Unauthorized.", nil)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	p, err := h.Profiles.GetByUserID(ctx, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return response.NotFound(c, "Farmer profile not found.")
		}
		return response.Error(c, http.StatusInternalServerError, "An error occurred while retrieving the farmer profile.", nil)
	}
	return response.Success(c, http.StatusOK, "Farmer profile retrieved successfully.", farmerProfileToView(p))
}

// DetailsByID handles GET /farmer/profile/:id/details.  Any authenticated
// caller may read any profile by its UUID.
func (h *FarmerProfileHandler) DetailsByID(c echo.Context) error {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		return response.NotFound(c, "Farmer profile not found.")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	p, err := h.Profiles.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return response.NotFound(c, "Farmer profile not found.")
		}
		return response.Error(c, http.StatusInternalServerError, "An error occurred while retrieving the farmer profile.", nil)
	}
	return response.Success(c, http.StatusOK, "Farmer profile retrieved successfully.", farmerProfileToView(p))
}

// List handles GET /farmer/profiles/list and returns every farmer
// profile.  The result is unpaginated; the response cache middleware
// absorbs repeated reads.
func (h *FarmerProfileHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	items, err := h.Profiles.List(ctx)
	if err != nil {
		return response.Error(c, http.StatusInternalServerError, "An error occurred while retrieving farmer profiles.", nil)
	}
	views := make([]farmerProfileView, 0, len(items))
	for _, p := range items {
		views = append(views, farmerProfileToView(p))
	}
	return response.Success(c, http.StatusOK, "Farmer profiles retrieved successfully.", views)
}

// Delete handles DELETE /farmer/profile/delete.  Removing a profile also
// removes all of its product listings.
func (h *FarmerProfileHandler) Delete(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return response.Error(c, http.StatusUnauthorized, "Unauthorized.", nil)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Profiles.DeleteByUserID(ctx, userID); err != nil {
		if err == sql.ErrNoRows {
			return response.NotFound(c, "Farmer profile not found.")
		}
		return response.Error(c, http.StatusInternalServerError, "An error occurred while deleting the farmer profile.", nil)
	}
	return response.Success(c, http.StatusOK, "Farmer profile deleted successfully.", nil)
}
