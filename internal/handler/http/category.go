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
	"github.com/Egxr41k/volosmeister-backend/pkg/validator"
)

// CategoryHandler handles HTTP requests for category endpoints.
type CategoryHandler struct {
	service *service.CategoryService
	logger  *slog.Logger
}

// NewCategoryHandler creates a new category HTTP handler.
func NewCategoryHandler(svc *service.CategoryService, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// CreateCategoryRequest is the JSON request body for creating a category.
type CreateCategoryRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=255"`
	ParentID *int64 `json:"parent_id" validate:"omitempty,gt=0"`
}

// UpdateCategoryRequest is the JSON request body for updating a category.
type UpdateCategoryRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=255"`
	ParentID *int64  `json:"parent_id" validate:"omitempty,gt=0"`
}

// --- Handlers ---

// ListCategories handles GET /api/v1/categories
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: categories})
}

// ListTree handles GET /api/v1/categories/tree
func (h *CategoryHandler) ListTree(w http.ResponseWriter, r *http.Request) {
	forest, err := h.service.ListTree(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: forest})
}

// ListRoots handles GET /api/v1/categories/roots
func (h *CategoryHandler) ListRoots(w http.ResponseWriter, r *http.Request) {
	roots, err := h.service.ListRootCategories(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: roots})
}

// GetCategory handles GET /api/v1/categories/{idOrSlug}
// It accepts both a numeric id and a slug for lookup.
func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	idOrSlug := chi.URLParam(r, "idOrSlug")

	var (
		category *domain.Category
		err      error
	)

	if id, parseErr := strconv.ParseInt(idOrSlug, 10, 64); parseErr == nil {
		category, err = h.service.GetCategory(r.Context(), id)
	} else {
		category, err = h.service.GetCategoryBySlug(r.Context(), idOrSlug)
	}

	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: category})
}

// GetSubtree handles GET /api/v1/categories/{id}/tree
func (h *CategoryHandler) GetSubtree(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	tree, err := h.service.BuildSubtree(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: tree})
}

// GetChain handles GET /api/v1/categories/{id}/chain
// It returns the ancestor chain from the category up to its root, with the
// sibling context at every level.
func (h *CategoryHandler) GetChain(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	chain, err := h.service.BuildChainToRoot(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: chain})
}

// GetChildren handles GET /api/v1/categories/{id}/children
func (h *CategoryHandler) GetChildren(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	children, err := h.service.GetChildren(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: children})
}

// CreateCategory handles POST /api/v1/categories
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CreateCategoryRequest
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

	category, err := h.service.CreateCategory(r.Context(), &service.CreateCategoryInput{
		Name:     req.Name,
		ParentID: req.ParentID,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: category})
}

// UpdateCategory handles PUT /api/v1/categories/{id}
func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req UpdateCategoryRequest
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

	category, err := h.service.UpdateCategory(r.Context(), id, &service.UpdateCategoryInput{
		Name:     req.Name,
		ParentID: req.ParentID,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: category})
}

// DeleteCategory handles DELETE /api/v1/categories/{id}
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.DeleteCategory(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "deleted"}})
}
