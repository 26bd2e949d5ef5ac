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

// BuyerProfileHandler serves the buyer profile endpoints.  The operations
// mirror the farmer profile surface; buyer profiles own no listings, so
// deletion has nothing to cascade.
type BuyerProfileHandler struct {
	Profiles *repository.BuyerProfileRepo
}

func NewBuyerProfileHandler(p *repository.BuyerProfileRepo) *BuyerProfileHandler {
	return &BuyerProfileHandler{Profiles: p}
}

type buyerProfileReq struct {
	CompanyName        *string `json:"company_name"`
	CompanyAddress     *string `json:"company_address"`
	CompanyDescription *string `json:"company_description"`
	CompanyImage       *string `json:"company_image"`
}

type buyerProfileView struct {
	ID                 string    `json:"id"`
	CompanyName        string    `json:"company_name"`
	CompanyAddress     string    `json:"company_address"`
	CompanyDescription *string   `json:"company_description"`
	CompanyImage       *string   `json:"company_image"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func buyerProfileToView(p model.BuyerProfile) buyerProfileView {
	return buyerProfileView{
		ID:                 p.ID,
		CompanyName:        p.CompanyName,
		CompanyAddress:     p.CompanyAddress,
		CompanyDescription: p.CompanyDescription,
		CompanyImage:       p.CompanyImage,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

// Create handles POST /buyer/profile/create.
func (h *BuyerProfileHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return response.Error(c, http.StatusUnauthorized, "Unauthorized.", nil)
	}
	var req buyerProfileReq
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid request body.", nil)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if _, err := h.Profiles.GetByUserID(ctx, userID); err == nil {
		return response.Error(c, http.StatusBadRequest, "Buyer profile already exists.", nil)
	} else if err != sql.ErrNoRows {
		return response.Error(c, http.StatusInternalServerError, "An error occurred while creating the buyer profile.", nil)
	}

	fe := validate.FieldErrors{}
	validate.Required(fe, "company_name", deref(req.CompanyName))
	validate.Required(fe, "company_address", deref(req.CompanyAddress))
	if !fe.Empty() {
		return response.ValidationFail(c, fe)
	}

	p := model.BuyerProfile{
		UserID:             userID,
		CompanyName:        *req.CompanyName,
		CompanyAddress:     *req.CompanyAddress,
		CompanyDescription: req.CompanyDescription,
		CompanyImage:       req.CompanyImage,
	}
	if err := h.Profiles.Create(ctx, &p); err != nil {
		if err == repository.ErrProfileExists {
			return response.Error(c, http.StatusBadRequest, "Buyer profile already exists.", nil)
		}
		return response.Error(c, http.StatusInternalServerError, "An error occurred while creating the buyer profile.", nil)
	}
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	return response.Success(c, http.StatusCreated, "Buyer profile created successfully.", buyerProfileToView(p))
}

// Update handles PATCH /buyer/profile/update with partial semantics.
func (h *BuyerProfileHandler) Update(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return response.Error(c, http.StatusUnauthorized, "Unauthorized.", nil)
	}
	var req buyerProfileReq
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid request body.", nil)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	p, err := h.Profiles.GetByUserID(ctx, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return response.NotFound(c, "Buyer profile not found.")
		}
		return response.Error(c, http.StatusInternalServerError, "An error occurred while updating the buyer profile.", nil)
	}

	fe := validate.FieldErrors{}
	if req.CompanyName != nil {
		validate.Required(fe, "company_name", *req.CompanyName)
	}
	if req.CompanyAddress != nil {
		validate.Required(fe, "company_address", *req.CompanyAddress)
	}
	if !fe.Empty() {
		return response.ValidationFail(c, fe)
	}

	if req.CompanyName != nil {
		p.CompanyName = *req.CompanyName
	}
	if req.CompanyAddress != nil {
		p.CompanyAddress = *req.CompanyAddress
	}
	if req.CompanyDescription != nil {
		p.CompanyDescription = req.CompanyDescription
	}
	if req.CompanyImage != nil {
		p.CompanyImage = req.CompanyImage
	}

	if err := h.Profiles.Update(ctx, &p); err != nil {
		return response.Error(c, http.StatusInternalServerError, "An error occurred while updating the buyer profile.", nil)
	}
	p.UpdatedAt = time.Now().UTC()
	return response.Success(c, http.StatusOK, "Buyer profile updated successfully.", buyerProfileToView(p))
}

// Details handles GET /buyer/profile/details.
func (h *BuyerProfileHandler) Details(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return response.Error(c, http.StatusUnauthorized, "Unauthorized.", nil)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	p, err := h.Profiles.GetByUserID(ctx, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return response.NotFound(c, "Buyer profile not found.")
		}
		return response.Error(c, http.StatusInternalServerError, "An error occurred while retrieving the buyer profile.", nil)
	}
	return response.Success(c, http.StatusOK, "Buyer profile retrieved successfully.", buyerProfileToView(p))
}

// DetailsByID handles GET /buyer/profile/:id/details.
func (h *BuyerProfileHandler) DetailsByID(c echo.Context) error {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		return response.NotFound(c, "Buyer profile not found.")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	p, err := h.Profiles.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return response.NotFound(c, "Buyer profile not found.")
		}
		return response.Error(c, http.StatusInternalServerError, "An error occurred while retrieving the buyer profile.", nil)
	}
	return response.Success(c, http.StatusOK, "Buyer profile retrieved successfully.", buyerProfileToView(p))
}

// List handles GET /buyer/profiles/list.
func (h *BuyerProfileHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	items, err := h.Profiles.List(ctx)
	if err != nil {
		return response.Error(c, http.StatusInternalServerError, "An error occurred while retrieving buyer profiles.", nil)
	}
	views := make([]buyerProfileView, 0, len(items))
	for _, p := range items {
		views = append(views, buyerProfileToView(p))
	}
	return response.Success(c, http.StatusOK, "Buyer profiles retrieved successfully.", views)
}

// Delete handles DELETE /buyer/profile/delete.
func (h *BuyerProfileHandler) Delete(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return response.Error(c, http.StatusUnauthorized, "Unauthorized.", nil)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Profiles.DeleteByUserID(ctx, userID); err != nil {
		if err == sql.ErrNoRows {
			return response.NotFound(c, "Buyer profile not found.")
		}
		return response.Error(c, http.StatusInternalServerError, "An error occurred while deleting the buyer profile.", nil)
	}
	return response.Success(c, http.StatusOK, "Buyer profile deleted successfully.", nil)
}
