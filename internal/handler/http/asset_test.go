package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Egxr41k/volosmeister-backend/internal/storage/memory"
)

func assetTestRouter(store *memory.Storage) *chi.Mux {
	handler := NewAssetHandler(store, testLogger())

	r := chi.NewRouter()
	r.Route("/api/v1/assets", func(r chi.Router) {
		r.Get("/", handler.ListAssets)
		r.Post("/", handler.UploadAsset)
		r.Get("/{name}", handler.GetAsset)
		r.Get("/{name}/url", handler.GetAssetURL)
		r.Delete("/{name}", handler.DeleteAsset)
	})
	return r
}

func TestUploadAsset_Success(t *testing.T) {
	store := memory.New("http://assets.local")
	router := assetTestRouter(store)

	body, contentType := multipartBody(t, "magic-clip.jpg", []byte("jpeg-bytes"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/assets", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	keys, err := store.List(req.Context())
	require.NoError(t, err)
	assert.Equal(t, []string{"magic-clip.jpg"}, keys)
}

func TestUploadAsset_MissingFile(t *testing.T) {
	router := assetTestRouter(memory.New("http://assets.local"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/assets", nil)
	req.Header.Set("Content-Type", "multipart/form-data; boundary=xxx")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetAsset_ServesStoredBytes(t *testing.T) {
	store := memory.New("http://assets.local")
	router := assetTestRouter(store)

	body, contentType := multipartBody(t, "readme.txt", []byte("plain text content"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/assets", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/assets/readme.txt", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "plain text content", rec.Body.String())
}

func TestGetAssetURL_Success(t *testing.T) {
	store := memory.New("http://assets.local")
	router := assetTestRouter(store)

	body, contentType := multipartBody(t, "magic-clip.jpg", []byte("jpeg-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/assets", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/assets/magic-clip.jpg/url", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "http://assets.local/assets/magic-clip.jpg", resp.Data["url"])
}

func TestGetAssetURL_NotFound(t *testing.T) {
	router := assetTestRouter(memory.New("http://assets.local"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/assets/missing.jpg/url", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteAsset_Success(t *testing.T) {
	store := memory.New("http://assets.local")
	router := assetTestRouter(store)

	body, contentType := multipartBody(t, "magic-clip.jpg", []byte("jpeg-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/assets", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/assets/magic-clip.jpg", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	keys, err := store.List(req.Context())
	require.NoError(t, err)
	assert.Empty(t, keys)
}
