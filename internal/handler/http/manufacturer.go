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

// ManufacturerHandler handles HTTP requests for manufacturer endpoints.
type ManufacturerHandler struct {
	service *service.ManufacturerService
	logger  *slog.Logger
}

// NewManufacturerHandler creates a new manufacturer HTTP handler.
func NewManufacturerHandler(svc *service.ManufacturerService, logger *slog.Logger) *ManufacturerHandler {
	return &ManufacturerHandler{
		service: svc,
		logger:  logger,
	}
}

// ManufacturerRequest is the JSON request body for creating or updating a
// manufacturer.
type ManufacturerRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
}

// ListManufacturers handles GET /api/v1/manufacturers
func (h *ManufacturerHandler) ListManufacturers(w http.ResponseWriter, r *http.Request) {
	manufacturers, err := h.service.ListManufacturers(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: manufacturers})
}

// GetManufacturer handles GET /api/v1/manufacturers/{idOrSlug}
func (h *ManufacturerHandler) GetManufacturer(w http.ResponseWriter, r *http.Request) {
	idOrSlug := chi.URLParam(r, "idOrSlug")

	var (
		manufacturer *domain.Manufacturer
		err          error
	)

	if id, parseErr := strconv.ParseInt(idOrSlug, 10, 64); parseErr == nil {
		manufacturer, err = h.service.GetManufacturer(r.Context(), id)
	} else {
		manufacturer, err = h.service.GetManufacturerBySlug(r.Context(), idOrSlug)
	}

	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: manufacturer})
}

// CreateManufacturer handles POST /api/v1/manufacturers
func (h *ManufacturerHandler) CreateManufacturer(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req ManufacturerRequest
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

	manufacturer, err := h.service.CreateManufacturer(r.Context(), req.Name)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: manufacturer})
}

// UpdateManufacturer handles PUT /api/v1/manufacturers/{id}
func (h *ManufacturerHandler) UpdateManufacturer(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req ManufacturerRequest
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

	manufacturer, err := h.service.UpdateManufacturer(r.Context(), id, req.Name)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: manufacturer})
}

// DeleteManufacturer handles DELETE /api/v1/manufacturers/{id}
func (h *ManufacturerHandler) DeleteManufacturer(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.DeleteManufacturer(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "deleted"}})
}
