package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Egxr41k/volosmeister-backend/internal/domain"
	"github.com/Egxr41k/volosmeister-backend/internal/event"
	apperrors "github.com/Egxr41k/volosmeister-backend/pkg/errors"
	"github.com/Egxr41k/volosmeister-backend/pkg/pagination"
	"github.com/Egxr41k/volosmeister-backend/pkg/slug"
)

// ProductService implements the business logic for product operations.
type ProductService struct {
	repo       domain.ProductRepository
	categories *CategoryService
	producer   *event.Producer
	logger     *slog.Logger
}

// NewProductService creates a new product service. The category service is
// used to expand a category into its descendant set for listing queries.
func NewProductService(
	repo domain.ProductRepository,
	categories *CategoryService,
	producer *event.Producer,
	logger *slog.Logger,
) *ProductService {
	return &ProductService{
		repo:       repo,
		categories: categories,
		producer:   producer,
		logger:     logger,
	}
}

// CreateProductInput holds the parameters for creating a product.
type CreateProductInput struct {
	Name           string
	Description    string
	Price          int64
	Images         []string
	CategoryID     *int64
	ManufacturerID *int64
}

// UpdateProductInput holds the parameters for updating a product.
type UpdateProductInput struct {
	Name           *string
	Description    *string
	Price          *int64
	Images         []string
	CategoryID     *int64
	ManufacturerID *int64
}

// ListProductsInput holds the parameters for paginated product listing.
type ListProductsInput struct {
	CategoryID *int64
	Search     string
	Sort       string
	Page       pagination.Params
}

// CreateProduct creates a new product with a derived slug.
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*domain.Product, error) {
	if input.Name == "" {
		return nil, apperrors.InvalidInput("product name is required")
	}
	if input.Price < 0 {
		return nil, apperrors.InvalidInput("price must not be negative")
	}

	now := time.Now().UTC()
	product := &domain.Product{
		Name:           input.Name,
		Slug:           slug.Generate(input.Name),
		Description:    input.Description,
		Price:          input.Price,
		Images:         input.Images,
		CategoryID:     input.CategoryID,
		ManufacturerID: input.ManufacturerID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if product.Images == nil {
		product.Images = []string{}
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	if err := s.producer.PublishProductCreated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.created event",
			slog.Int64("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product created",
		slog.Int64("product_id", product.ID),
		slog.String("slug", product.Slug),
	)

	return product, nil
}

// GetProduct retrieves a product by its ID.
func (s *ProductService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product by id: %w", err)
	}
	return product, nil
}

// GetProductBySlug retrieves a product by its slug.
func (s *ProductService) GetProductBySlug(ctx context.Context, productSlug string) (*domain.Product, error) {
	product, err := s.repo.GetBySlug(ctx, productSlug)
	if err != nil {
		return nil, fmt.Errorf("get product by slug: %w", err)
	}
	return product, nil
}

// ListProducts returns a filtered, sorted page of products. A category
// filter includes the category's whole descendant subtree.
func (s *ProductService) ListProducts(ctx context.Context, input *ListProductsInput) (*pagination.Result[domain.Product], error) {
	if input.Sort != "" && !domain.IsValidProductSort(input.Sort) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("sort must be one of %v", domain.ValidProductSorts()))
	}

	filter := domain.ProductFilter{
		Search:  input.Search,
		Sort:    input.Sort,
		PerPage: input.Page.PerPage,
		Offset:  input.Page.Offset,
	}

	if input.CategoryID != nil {
		tree, err := s.categories.BuildSubtree(ctx, *input.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("expand category subtree: %w", err)
		}
		filter.CategoryIDs = domain.CollectIDs(tree)
	}

	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	result := pagination.NewResult(products, total, input.Page)
	return &result, nil
}

// ListByCategory returns every product in the category's subtree, unpaged.
func (s *ProductService) ListByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error) {
	tree, err := s.categories.BuildSubtree(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("expand category subtree: %w", err)
	}

	filter := domain.ProductFilter{
		CategoryIDs: domain.CollectIDs(tree),
		PerPage:     listAllPageSize,
	}

	products, _, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products by category: %w", err)
	}

	return products, nil
}

// listAllPageSize bounds unpaged by-category listings.
const listAllPageSize = 1000

// ListSimilar returns products sharing a category with the given product,
// newest first. A product without a category has no similar products.
func (s *ProductService) ListSimilar(ctx context.Context, id int64) ([]domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	if product.CategoryID == nil {
		return []domain.Product{}, nil
	}

	similar, err := s.repo.ListSimilar(ctx, *product.CategoryID, product.ID)
	if err != nil {
		return nil, fmt.Errorf("list similar products: %w", err)
	}

	return similar, nil
}

// UpdateProduct applies a partial update to an existing product. A name
// change re-derives the slug.
func (s *ProductService) UpdateProduct(ctx context.Context, id int64, input *UpdateProductInput) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product for update: %w", err)
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperrors.InvalidInput("product name must not be empty")
		}
		product.Name = *input.Name
		product.Slug = slug.Generate(*input.Name)
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, apperrors.InvalidInput("price must not be negative")
		}
		product.Price = *input.Price
	}
	if input.Images != nil {
		product.Images = input.Images
	}
	if input.CategoryID != nil {
		product.CategoryID = input.CategoryID
	}
	if input.ManufacturerID != nil {
		product.ManufacturerID = input.ManufacturerID
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	return product, nil
}

// DeleteProduct removes a product by id.
func (s *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if err := s.producer.PublishProductDeleted(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.deleted event",
			slog.Int64("product_id", id),
			slog.String("error", err.Error()),
		)
	}

	return nil
}

// ListAllProducts returns every product in ascending id order.
func (s *ProductService) ListAllProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list all products: %w", err)
	}
	return products, nil
}

// ForceCreateMany replaces the whole product set with the batch verbatim,
// then moves the id sequence past the highest inserted id.
func (s *ProductService) ForceCreateMany(ctx context.Context, batch []domain.Product) error {
	// Ids are inserted verbatim. Checked before anything is deleted.
	for _, p := range batch {
		if p.ID <= 0 {
			return apperrors.InvalidInput(fmt.Sprintf("product %q has no id; force import requires explicit ids", p.Name))
		}
	}

	if err := s.repo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("clear products: %w", err)
	}

	if err := s.repo.CreateMany(ctx, batch); err != nil {
		return fmt.Errorf("bulk insert products: %w", err)
	}

	if err := s.repo.ResetIDSequence(ctx); err != nil {
		return fmt.Errorf("reset product sequence: %w", err)
	}

	return nil
}

// ResolveOrCreate finds a product by name, creating one from the input when
// absent. A unique-violation race resolves to the winning row.
func (s *ProductService) ResolveOrCreate(ctx context.Context, input *CreateProductInput) (*domain.Product, error) {
	existing, err := s.repo.GetByName(ctx, input.Name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("get product by name: %w", err)
	}

	product, err := s.CreateProduct(ctx, input)
	if err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			return s.repo.GetByName(ctx, input.Name)
		}
		return nil, err
	}

	return product, nil
}
