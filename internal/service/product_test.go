package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Egxr41k/volosmeister-backend/internal/domain"
	apperrors "github.com/Egxr41k/volosmeister-backend/pkg/errors"
	"github.com/Egxr41k/volosmeister-backend/pkg/pagination"
)

// --- Mock Repository ---

type mockProductRepository struct {
	mock.Mock
}

func (m *mockProductRepository) Create(ctx context.Context, p *domain.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockProductRepository) CreateMany(ctx context.Context, products []domain.Product) error {
	args := m.Called(ctx, products)
	return args.Error(0)
}

func (m *mockProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepository) GetByName(ctx context.Context, name string) (*domain.Product, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepository) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepository) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Product), args.Int(1), args.Error(2)
}

func (m *mockProductRepository) ListAll(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockProductRepository) ListSimilar(ctx context.Context, categoryID, excludeID int64) ([]domain.Product, error) {
	args := m.Called(ctx, categoryID, excludeID)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockProductRepository) Update(ctx context.Context, p *domain.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockProductRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockProductRepository) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockProductRepository) ResetIDSequence(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func newProductService(repo *mockProductRepository, categoryRepo *mockCategoryRepository) *ProductService {
	logger := newTestLogger()
	producer := newTestProducer()
	categories := NewCategoryService(categoryRepo, nil, producer, logger)
	return NewProductService(repo, categories, producer, logger)
}

// --- Tests ---

func TestCreateProduct_Validation(t *testing.T) {
	svc := newProductService(new(mockProductRepository), new(mockCategoryRepository))
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, &CreateProductInput{Name: ""})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = svc.CreateProduct(ctx, &CreateProductInput{Name: "Clipper", Price: -1})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestCreateProduct_DerivesSlugAndDefaultsImages(t *testing.T) {
	repo := new(mockProductRepository)
	svc := newProductService(repo, new(mockCategoryRepository))
	ctx := context.Background()

	repo.On("Create", ctx, mock.MatchedBy(func(p *domain.Product) bool {
		return p.Slug == "wahl-magic-clip" && p.Images != nil && len(p.Images) == 0
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Product).ID = 1
	}).Return(nil).Once()

	product, err := svc.CreateProduct(ctx, &CreateProductInput{Name: "Wahl Magic Clip", Price: 4599})
	require.NoError(t, err)
	assert.Equal(t, int64(1), product.ID)
	repo.AssertExpectations(t)
}

func TestListProducts_ExpandsCategorySubtree(t *testing.T) {
	repo := new(mockProductRepository)
	categoryRepo := new(mockCategoryRepository)
	svc := newProductService(repo, categoryRepo)
	ctx := context.Background()

	root := domain.Category{ID: 1, Name: "Clippers", Slug: "clippers"}
	child := domain.Category{ID: 2, Name: "Cordless", Slug: "cordless", ParentID: int64Ptr(1)}

	categoryRepo.On("GetByID", ctx, int64(1)).Return(&root, nil)
	categoryRepo.On("ListByParent", ctx, int64(1)).Return([]domain.Category{child}, nil)
	categoryRepo.On("ListByParent", ctx, int64(2)).Return([]domain.Category{}, nil)

	repo.On("List", ctx, mock.MatchedBy(func(f domain.ProductFilter) bool {
		return len(f.CategoryIDs) == 2 && f.CategoryIDs[0] == 1 && f.CategoryIDs[1] == 2
	})).Return([]domain.Product{{ID: 7, Name: "Clipper"}}, 1, nil)

	result, err := svc.ListProducts(ctx, &ListProductsInput{
		CategoryID: int64Ptr(1),
		Page:       pagination.DefaultParams(),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalCount)
	require.Len(t, result.Data, 1)
	assert.Equal(t, int64(7), result.Data[0].ID)
}

func TestListProducts_RejectsUnknownSort(t *testing.T) {
	svc := newProductService(new(mockProductRepository), new(mockCategoryRepository))

	_, err := svc.ListProducts(context.Background(), &ListProductsInput{
		Sort: "alphabetical",
		Page: pagination.DefaultParams(),
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestListSimilar_NoCategoryMeansNoMatches(t *testing.T) {
	repo := new(mockProductRepository)
	svc := newProductService(repo, new(mockCategoryRepository))
	ctx := context.Background()

	repo.On("GetByID", ctx, int64(3)).Return(&domain.Product{ID: 3, Name: "Oil"}, nil)

	similar, err := svc.ListSimilar(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, similar)
	repo.AssertNotCalled(t, "ListSimilar", mock.Anything, mock.Anything, mock.Anything)
}

func TestListSimilar_DelegatesWithCategoryAndExclusion(t *testing.T) {
	repo := new(mockProductRepository)
	svc := newProductService(repo, new(mockCategoryRepository))
	ctx := context.Background()

	product := domain.Product{ID: 3, Name: "Clipper", CategoryID: int64Ptr(9)}
	repo.On("GetByID", ctx, int64(3)).Return(&product, nil)
	repo.On("ListSimilar", ctx, int64(9), int64(3)).
		Return([]domain.Product{{ID: 4, Name: "Other Clipper"}}, nil)

	similar, err := svc.ListSimilar(ctx, 3)
	require.NoError(t, err)
	require.Len(t, similar, 1)
	assert.Equal(t, int64(4), similar[0].ID)
	repo.AssertExpectations(t)
}

func TestResolveOrCreate_ReusesExistingProduct(t *testing.T) {
	repo := new(mockProductRepository)
	svc := newProductService(repo, new(mockCategoryRepository))
	ctx := context.Background()

	existing := domain.Product{ID: 5, Name: "Clipper", Slug: "clipper"}
	repo.On("GetByName", ctx, "Clipper").Return(&existing, nil).Once()

	product, err := svc.ResolveOrCreate(ctx, &CreateProductInput{Name: "Clipper"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), product.ID)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
