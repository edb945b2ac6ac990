package http

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Egxr41k/volosmeister-backend/internal/domain"
	"github.com/Egxr41k/volosmeister-backend/internal/service"
	"github.com/Egxr41k/volosmeister-backend/internal/storage/memory"
)

// =============================================================================
// Mock ManufacturerRepository and UserRepository
// =============================================================================

type mockManufacturerRepo struct {
	mock.Mock
}

func (m *mockManufacturerRepo) Create(ctx context.Context, manufacturer *domain.Manufacturer) error {
	args := m.Called(ctx, manufacturer)
	return args.Error(0)
}

func (m *mockManufacturerRepo) CreateMany(ctx context.Context, manufacturers []domain.Manufacturer) error {
	args := m.Called(ctx, manufacturers)
	return args.Error(0)
}

func (m *mockManufacturerRepo) GetByID(ctx context.Context, id int64) (*domain.Manufacturer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Manufacturer), args.Error(1)
}

func (m *mockManufacturerRepo) GetByName(ctx context.Context, name string) (*domain.Manufacturer, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Manufacturer), args.Error(1)
}

func (m *mockManufacturerRepo) GetBySlug(ctx context.Context, slug string) (*domain.Manufacturer, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Manufacturer), args.Error(1)
}

func (m *mockManufacturerRepo) ListAll(ctx context.Context) ([]domain.Manufacturer, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Manufacturer), args.Error(1)
}

func (m *mockManufacturerRepo) Update(ctx context.Context, manufacturer *domain.Manufacturer) error {
	args := m.Called(ctx, manufacturer)
	return args.Error(0)
}

func (m *mockManufacturerRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockManufacturerRepo) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockManufacturerRepo) ResetIDSequence(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) CreateMany(ctx context.Context, users []domain.User) error {
	args := m.Called(ctx, users)
	return args.Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) ListAll(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *mockUserRepo) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockUserRepo) ResetIDSequence(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// =============================================================================
// Test helpers
// =============================================================================

func dataTestRouter() *chi.Mux {
	logger := testLogger()
	producer := testEventProducer()

	categories := service.NewCategoryService(new(mockCategoryRepo), nil, producer, logger)
	manufacturers := service.NewManufacturerService(new(mockManufacturerRepo), logger)
	users := service.NewUserService(new(mockUserRepo), logger)
	products := service.NewProductService(new(mockProductRepo), categories, producer, logger)
	store := memory.New("http://assets.local")

	svc := service.NewDataService(categories, manufacturers, users, products, store, producer, logger)
	handler := NewDataHandler(svc, logger)

	r := chi.NewRouter()
	r.Route("/api/v1/data", func(r chi.Router) {
		r.Post("/import", handler.Import)
		r.Get("/export", handler.Export)
	})
	return r
}

// multipartBody builds a multipart request body with a single "file" field.
func multipartBody(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

// =============================================================================
// POST /api/v1/data/import - parameter validation
// =============================================================================

func TestImport_InvalidMode(t *testing.T) {
	router := dataTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/data/import?mode=merge", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
}

func TestImport_InvalidStrict(t *testing.T) {
	router := dataTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/data/import?strict=maybe", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_PARAMETER", resp.Error.Code)
}

func TestImport_MissingFile(t *testing.T) {
	router := dataTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/data/import", strings.NewReader(""))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=xxx")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
}

func TestImport_NotAZipArchive(t *testing.T) {
	router := dataTestRouter()

	body, contentType := multipartBody(t, "bundle.zip", []byte("this is not a zip"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/data/import", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_FORMAT", resp.Error.Code)
}
