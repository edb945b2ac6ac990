package http

import (
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"github.com/Egxr41k/volosmeister-backend/internal/service"
	"github.com/Egxr41k/volosmeister-backend/pkg/httputil"
)

// maxBundleSize limits uploaded import archives to 100 MB.
const maxBundleSize = 100 << 20

// DataHandler handles HTTP requests for catalog import and export.
type DataHandler struct {
	service *service.DataService
	logger  *slog.Logger
}

// NewDataHandler creates a new data HTTP handler.
func NewDataHandler(svc *service.DataService, logger *slog.Logger) *DataHandler {
	return &DataHandler{
		service: svc,
		logger:  logger,
	}
}

// Import handles POST /api/v1/data/import
// The archive comes in as the multipart form field "file". Query parameters:
// mode ("safe" or "force", defaults to safe) and strict (bool, defaults to
// false).
func (h *DataHandler) Import(w http.ResponseWriter, r *http.Request) {
	mode, err := service.ParseImportMode(r.URL.Query().Get("mode"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	strict := false
	if raw := r.URL.Query().Get("strict"); raw != "" {
		strict, err = strconv.ParseBool(raw)
		if err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "invalid strict: " + raw},
			})
			return
		}
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBundleSize)

	file, _, err := r.FormFile("file")
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "missing file field: " + err.Error()},
		})
		return
	}
	defer file.Close()

	tmp, err := os.CreateTemp("", "catalog-import-*.zip")
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if _, err := io.Copy(tmp, file); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if err := tmp.Close(); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	summary, err := h.service.Import(r.Context(), tmp.Name(), service.ImportOptions{
		Mode:   mode,
		Strict: strict,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: summary})
}

// Export handles GET /api/v1/data/export
// It streams the full catalog as a zip archive.
func (h *DataHandler) Export(w http.ResponseWriter, r *http.Request) {
	zipPath, err := h.service.Export(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	defer os.Remove(zipPath)

	f, err := os.Open(zipPath)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="catalog-export.zip"`)

	if info, err := f.Stat(); err == nil {
		w.Header().Set("Content-Length", strconv.FormatInt(info.Size(), 10))
	}

	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, f); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to stream export archive",
			slog.String("error", err.Error()),
		)
	}
}
