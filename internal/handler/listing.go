package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/farmbora/farmbora-api/internal/model"
	"github.com/farmbora/farmbora-api/internal/queue"
	"github.com/farmbora/farmbora-api/internal/repository"
	"github.com/farmbora/farmbora-api/internal/response"
	queue_publisher "github.com/farmbora/farmbora-api/internal/service"
	"github.com/farmbora/farmbora-api/internal/validate"
)

// ListingHandler serves the product listing endpoints.  Listings expose
// create/get/list only; they are removed solely through the cascade when
// the owning farmer profile is deleted.
type ListingHandler struct {
	Listings *repository.ListingRepo
	Farmers  *repository.FarmerProfileRepo
}

func NewListingHandler(l *repository.ListingRepo, f *repository.FarmerProfileRepo) *ListingHandler {
	return &ListingHandler{Listings: l, Farmers: f}
}

type listingReq struct {
	ProductName  *string `json:"product_name"`
	Quantity     *string `json:"quantity"`
	PricePerUnit *string `json:"price_per_unit"`
	Description  *string `json:"description"`
	ProductImage *string `json:"product_image"`
}

type listingView struct {
	ID           string    `json:"id"`
	FarmerID     string    `json:"farmer_id"`
	ProductName  string    `json:"product_name"`
	Quantity     string    `json:"quantity"`
	PricePerUnit string    `json:"price_per_unit"`
	Description  *string   `json:"description"`
	ProductImage *string   `json:"product_image"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func listingToView(l model.ProductListing) listingView {
	return listingView{
		ID:           l.ID,
		FarmerID:     l.FarmerID,
		ProductName:  l.ProductName,
		Quantity:     l.Quantity,
		PricePerUnit: l.PricePerUnit,
		Description:  l.Description,
		ProductImage: l.ProductImage,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}

// Create handles POST /product/create.  The caller must own a farmer
// profile; the new listing belongs to that profile.  Quantity and price
// must be non-negative decimals.
func (h *ListingHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return response.Error(c, http.StatusUnauthorized, "Unauthorized.", nil)
	}
	var req listingReq
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid request body.", nil)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	farmer, err := h.Farmers.GetByUserID(ctx, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return response.Error(c, http.StatusBadRequest, "A farmer profile is required to create listings.", nil)
		}
		return response.Error(c, http.StatusInternalServerError, "An error occurred while creating the product listing.", nil)
	}

	fe := validate.FieldErrors{}
	validate.Required(fe, "product_name", deref(req.ProductName))
	validate.Required(fe, "quantity", deref(req.Quantity))
	validate.Required(fe, "price_per_unit", deref(req.PricePerUnit))
	if deref(req.Quantity) != "" {
		validate.NonNegativeDecimal(fe, "quantity", *req.Quantity)
	}
	if deref(req.PricePerUnit) != "" {
		validate.NonNegativeDecimal(fe, "price_per_unit", *req.PricePerUnit)
	}
	if !fe.Empty() {
		return response.ValidationFail(c, fe)
	}

	l := model.ProductListing{
		FarmerID:     farmer.ID,
		ProductName:  *req.ProductName,
		Quantity:     *req.Quantity,
		PricePerUnit: *req.PricePerUnit,
		Description:  req.Description,
		ProductImage: req.ProductImage,
	}
	if err := h.Listings.Create(ctx, &l); err != nil {
		return response.Error(c, http.StatusInternalServerError, "An error occurred while creating the product listing.", nil)
	}
	l.CreatedAt = time.Now().UTC()
	l.UpdatedAt = l.CreatedAt

	// Broker failures must not fail the request; the publisher logs them.
	_ = queue_publisher.PublishListingCreated(ctx, queue.ListingCreatedEvent{
		ListingID:    l.ID,
		FarmerID:     farmer.ID,
		UserID:       userID,
		ProductName:  l.ProductName,
		Quantity:     l.Quantity,
		PricePerUnit: l.PricePerUnit,
		CreatedAt:    l.CreatedAt.Format(time.RFC3339),
	})

	return response.Success(c, http.StatusCreated, "Product listing created successfully.", listingToView(l))
}

// Details handles GET /product/:id/details.
func (h *ListingHandler) Details(c echo.Context) error {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		return response.NotFound(c, "Product listing not found.")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	l, err := h.Listings.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return response.NotFound(c, "Product listing not found.")
		}
		return response.Error(c, http.StatusInternalServerError, "An error occurred while retrieving the product listing.", nil)
	}
	return response.Success(c, http.StatusOK, "Product listing retrieved successfully.", listingToView(l))
}

// List handles GET /products/list and returns every listing.
func (h *ListingHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	items, err := h.Listings.List(ctx)
	if err != nil {
		return response.Error(c, http.StatusInternalServerError, "An error occurred while retrieving product listings.", nil)
	}
	views := make([]listingView, 0, len(items))
	for _, l := range items {
		views = append(views, listingToView(l))
	}
	return response.Success(c, http.StatusOK, "Product listings retrieved successfully.", views)
}
