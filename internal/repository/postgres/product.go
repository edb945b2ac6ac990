package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Egxr41k/volosmeister-backend/internal/domain"
	"github.com/Egxr41k/volosmeister-backend/pkg/database"
	apperrors "github.com/Egxr41k/volosmeister-backend/pkg/errors"
)

const productColumns = `id, name, slug, description, price, images, category_id, manufacturer_id, created_at, updated_at`

// ProductRepository implements product persistence operations using PostgreSQL.
type ProductRepository struct {
	pool database.DBTX
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool database.DBTX) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// Create inserts a new product and fills in its store-assigned id.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	query := `
		INSERT INTO products (name, slug, description, price, images, category_id, manufacturer_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	err := r.pool.QueryRow(ctx, query,
		p.Name, p.Slug, p.Description, p.Price, p.Images,
		p.CategoryID, p.ManufacturerID, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("product", "name", p.Name)
		}
		return fmt.Errorf("insert product: %w", err)
	}

	return nil
}

// CreateMany bulk-inserts products verbatim, preserving their ids.
func (r *ProductRepository) CreateMany(ctx context.Context, products []domain.Product) error {
	query := `
		INSERT INTO products (id, name, slug, description, price, images, category_id, manufacturer_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	for _, p := range products {
		_, err := r.pool.Exec(ctx, query,
			p.ID, p.Name, p.Slug, p.Description, p.Price, p.Images,
			p.CategoryID, p.ManufacturerID, p.CreatedAt, p.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return apperrors.AlreadyExists("product", "name", p.Name)
			}
			return fmt.Errorf("bulk insert product %q: %w", p.Name, err)
		}
	}

	return nil
}

// GetByID retrieves a product by its unique identifier.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)
	return r.scanProduct(ctx, query, id)
}

// GetByName retrieves a product by its unique name.
func (r *ProductRepository) GetByName(ctx context.Context, name string) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE name = $1`, productColumns)
	return r.scanProduct(ctx, query, name)
}

// GetBySlug retrieves a product by its URL-friendly slug.
func (r *ProductRepository) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE slug = $1`, productColumns)
	return r.scanProduct(ctx, query, slug)
}

// List returns a filtered page of products plus the total match count. The
// count is computed with a window function so filter and page stay in one
// round trip.
func (r *ProductRepository) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int, error) {
	var (
		conditions []string
		args       []any
	)

	if len(filter.CategoryIDs) > 0 {
		args = append(args, filter.CategoryIDs)
		conditions = append(conditions, fmt.Sprintf("category_id = ANY($%d)", len(args)))
	}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	var orderBy string
	switch filter.Sort {
	case domain.ProductSortOldest:
		orderBy = "created_at ASC"
	case domain.ProductSortPriceAsc:
		orderBy = "price ASC"
	case domain.ProductSortPriceDesc:
		orderBy = "price DESC"
	default:
		orderBy = "created_at DESC"
	}

	args = append(args, filter.PerPage)
	limitArg := len(args)
	args = append(args, filter.Offset)
	offsetArg := len(args)

	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		FROM products
		%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`,
		productColumns, whereClause, orderBy, limitArg, offsetArg)

	ctx, end := database.TraceQuery(ctx, "ListProducts", query)
	products, total, err := r.listProductsWithCount(ctx, query, args...)
	end(err)
	return products, total, err
}

func (r *ProductRepository) listProductsWithCount(ctx context.Context, query string, args ...any) ([]domain.Product, int, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	total := 0

	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.Images,
			&p.CategoryID, &p.ManufacturerID, &p.CreatedAt, &p.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate product rows: %w", err)
	}

	return products, total, nil
}

// ListAll returns all products ordered by ascending id.
func (r *ProductRepository) ListAll(ctx context.Context) ([]domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products ORDER BY id`, productColumns)
	return r.listProducts(ctx, query)
}

// ListSimilar returns products sharing the given category, excluding the
// product itself, newest first.
func (r *ProductRepository) ListSimilar(ctx context.Context, categoryID, excludeID int64) ([]domain.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM products
		WHERE category_id = $1 AND id <> $2
		ORDER BY created_at DESC`, productColumns)

	return r.listProducts(ctx, query, categoryID, excludeID)
}

// Update modifies an existing product.
func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	p.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE products
		SET name = $1, slug = $2, description = $3, price = $4, images = $5,
		    category_id = $6, manufacturer_id = $7, updated_at = $8
		WHERE id = $9`

	ct, err := r.pool.Exec(ctx, query,
		p.Name, p.Slug, p.Description, p.Price, p.Images,
		p.CategoryID, p.ManufacturerID, p.UpdatedAt, p.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("product", "name", p.Name)
		}
		return fmt.Errorf("update product: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", fmt.Sprint(p.ID))
	}

	return nil
}

// Delete removes a product by id.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", fmt.Sprint(id))
	}

	return nil
}

// DeleteAll removes every product.
func (r *ProductRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM products`); err != nil {
		return fmt.Errorf("delete all products: %w", err)
	}
	return nil
}

// ResetIDSequence restarts the product id sequence after the current maximum id.
func (r *ProductRepository) ResetIDSequence(ctx context.Context) error {
	query := `SELECT setval(pg_get_serial_sequence('products', 'id'), COALESCE((SELECT MAX(id) FROM products), 0) + 1, false)`
	if _, err := r.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("reset product id sequence: %w", err)
	}
	return nil
}

func (r *ProductRepository) scanProduct(ctx context.Context, query string, args ...any) (*domain.Product, error) {
	var p domain.Product

	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.Images,
		&p.CategoryID, &p.ManufacturerID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}

	return &p, nil
}

func (r *ProductRepository) listProducts(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}

	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.Images,
			&p.CategoryID, &p.ManufacturerID, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	return products, nil
}
