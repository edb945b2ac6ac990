package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Egxr41k/volosmeister-backend/internal/domain"
	"github.com/Egxr41k/volosmeister-backend/internal/service"
	"github.com/Egxr41k/volosmeister-backend/pkg/httputil"
	"github.com/Egxr41k/volosmeister-backend/pkg/pagination"
	"github.com/Egxr41k/volosmeister-backend/pkg/validator"
)

// ProductHandler handles HTTP requests for product endpoints.
type ProductHandler struct {
	service *service.ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new product HTTP handler.
func NewProductHandler(svc *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// CreateProductRequest is the JSON request body for creating a product.
type CreateProductRequest struct {
	Name           string   `json:"name" validate:"required,min=1,max=255"`
	Description    string   `json:"description" validate:"max=10000"`
	Price          int64    `json:"price" validate:"required,gt=0"`
	Images         []string `json:"images" validate:"omitempty,dive,min=1"`
	CategoryID     *int64   `json:"category_id" validate:"omitempty,gt=0"`
	ManufacturerID *int64   `json:"manufacturer_id" validate:"omitempty,gt=0"`
}

// UpdateProductRequest is the JSON request body for updating a product.
// All fields are optional; only the provided ones are applied.
type UpdateProductRequest struct {
	Name           *string  `json:"name" validate:"omitempty,min=1,max=255"`
	Description    *string  `json:"description" validate:"omitempty,max=10000"`
	Price          *int64   `json:"price" validate:"omitempty,gt=0"`
	Images         []string `json:"images" validate:"omitempty,dive,min=1"`
	CategoryID     *int64   `json:"category_id" validate:"omitempty,gt=0"`
	ManufacturerID *int64   `json:"manufacturer_id" validate:"omitempty,gt=0"`
}

// --- Handlers ---

// ListProducts handles GET /api/v1/products
// Query parameters: page, per_page, category_id, search, sort.
// When category_id is set, products from the whole category subtree are
// included.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	input := &service.ListProductsInput{
		Search: r.URL.Query().Get("search"),
		Sort:   r.URL.Query().Get("sort"),
		Page:   pagination.FromRequest(r),
	}

	if raw := r.URL.Query().Get("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "invalid category_id: " + raw},
			})
			return
		}
		input.CategoryID = &id
	}

	result, err := h.service.ListProducts(r.Context(), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// GetProduct handles GET /api/v1/products/{idOrSlug}
// It accepts both a numeric id and a slug for lookup.
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	idOrSlug := chi.URLParam(r, "idOrSlug")

	var (
		product *domain.Product
		err     error
	)

	if id, parseErr := strconv.ParseInt(idOrSlug, 10, 64); parseErr == nil {
		product, err = h.service.GetProduct(r.Context(), id)
	} else {
		product, err = h.service.GetProductBySlug(r.Context(), idOrSlug)
	}

	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// ListSimilar handles GET /api/v1/products/{id}/similar
func (h *ProductHandler) ListSimilar(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	products, err := h.service.ListSimilar(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: products})
}

// ListByCategory handles GET /api/v1/products/by-category/{categoryId}
// It returns every product in the category's subtree, without pagination.
func (h *ProductHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := httputil.ParseID(w, chi.URLParam(r, "categoryId"))
	if !ok {
		return
	}

	products, err := h.service.ListByCategory(r.Context(), categoryID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: products})
}

// CreateProduct handles POST /api/v1/products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.service.CreateProduct(r.Context(), &service.CreateProductInput{
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		Images:         req.Images,
		CategoryID:     req.CategoryID,
		ManufacturerID: req.ManufacturerID,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: product})
}

// UpdateProduct handles PUT /api/v1/products/{id}
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), id, &service.UpdateProductInput{
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		Images:         req.Images,
		CategoryID:     req.CategoryID,
		ManufacturerID: req.ManufacturerID,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// DeleteProduct handles DELETE /api/v1/products/{id}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "deleted"}})
}
