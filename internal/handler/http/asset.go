package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Egxr41k/volosmeister-backend/internal/storage"
	"github.com/Egxr41k/volosmeister-backend/pkg/httputil"
)

// maxAssetSize limits uploaded asset size to 10 MB.
const maxAssetSize = 10 << 20

// AssetHandler handles HTTP requests for asset storage endpoints.
type AssetHandler struct {
	store  storage.Storage
	logger *slog.Logger
}

// NewAssetHandler creates a new asset HTTP handler.
func NewAssetHandler(store storage.Storage, logger *slog.Logger) *AssetHandler {
	return &AssetHandler{
		store:  store,
		logger: logger,
	}
}

// ListAssets handles GET /api/v1/assets
func (h *AssetHandler) ListAssets(w http.ResponseWriter, r *http.Request) {
	keys, err := h.store.List(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: keys})
}

// UploadAsset handles POST /api/v1/assets
// The file comes in as the multipart form field "file"; the stored key is the
// uploaded file's name.
func (h *AssetHandler) UploadAsset(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAssetSize)

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "missing file field: " + err.Error()},
		})
		return
	}
	defer file.Close()

	if header.Filename == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "uploaded file has no name"},
		})
		return
	}

	result, err := h.store.Upload(r.Context(), &storage.UploadInput{
		Key:         header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        file,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: result})
}

// GetAsset handles GET /api/v1/assets/{name}
// It serves the raw stored bytes.
func (h *AssetHandler) GetAsset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	data, err := h.store.Get(r.Context(), name)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// GetAssetURL handles GET /api/v1/assets/{name}/url
func (h *AssetHandler) GetAssetURL(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	exists, err := h.store.Exists(r.Context(), name)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if !exists {
		httputil.WriteJSON(w, http.StatusNotFound, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "NOT_FOUND", Message: "asset not found: " + name},
		})
		return
	}

	url, err := h.store.GetURL(r.Context(), name)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"key": name, "url": url}})
}

// DeleteAsset handles DELETE /api/v1/assets/{name}
func (h *AssetHandler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if err := h.store.Delete(r.Context(), name); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "deleted"}})
}
