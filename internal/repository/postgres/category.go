package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Egxr41k/volosmeister-backend/internal/domain"
	"github.com/Egxr41k/volosmeister-backend/pkg/database"
	apperrors "github.com/Egxr41k/volosmeister-backend/pkg/errors"
)

// categoryColumns is the standard SELECT column list for categories.
const categoryColumns = `id, name, slug, parent_id, created_at, updated_at`

// CategoryRepository implements category persistence operations using PostgreSQL.
type CategoryRepository struct {
	pool database.DBTX
}

// NewCategoryRepository creates a new PostgreSQL-backed category repository.
func NewCategoryRepository(pool database.DBTX) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

// Create inserts a new category and fills in its store-assigned id.
func (r *CategoryRepository) Create(ctx context.Context, c *domain.Category) error {
	query := `
		INSERT INTO categories (name, slug, parent_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err := r.pool.QueryRow(ctx, query,
		c.Name,
		c.Slug,
		c.ParentID,
		c.CreatedAt,
		c.UpdatedAt,
	).Scan(&c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("category", "name", c.Name)
		}
		return fmt.Errorf("insert category: %w", err)
	}

	return nil
}

// CreateMany bulk-inserts categories verbatim, preserving their ids.
func (r *CategoryRepository) CreateMany(ctx context.Context, categories []domain.Category) error {
	query := `
		INSERT INTO categories (id, name, slug, parent_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	for _, c := range categories {
		_, err := r.pool.Exec(ctx, query, c.ID, c.Name, c.Slug, c.ParentID, c.CreatedAt, c.UpdatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return apperrors.AlreadyExists("category", "name", c.Name)
			}
			return fmt.Errorf("bulk insert category %q: %w", c.Name, err)
		}
	}

	return nil
}

// GetByID retrieves a category by its unique identifier.
func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM categories WHERE id = $1`, categoryColumns)
	return r.scanCategory(ctx, query, id)
}

// GetByName retrieves a category by its unique name.
func (r *CategoryRepository) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM categories WHERE name = $1`, categoryColumns)
	return r.scanCategory(ctx, query, name)
}

// GetBySlug retrieves a category by its URL-friendly slug.
func (r *CategoryRepository) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM categories WHERE slug = $1`, categoryColumns)
	return r.scanCategory(ctx, query, slug)
}

// ListAll returns all categories ordered by ascending id.
func (r *CategoryRepository) ListAll(ctx context.Context) ([]domain.Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM categories ORDER BY id`, categoryColumns)

	ctx, end := database.TraceQuery(ctx, "ListCategories", query)
	categories, err := r.listCategories(ctx, query)
	end(err)
	return categories, err
}

// ListRoots returns all categories without a parent, ordered by ascending id.
func (r *CategoryRepository) ListRoots(ctx context.Context) ([]domain.Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM categories WHERE parent_id IS NULL ORDER BY id`, categoryColumns)
	return r.listCategories(ctx, query)
}

// ListByParent returns the direct children of the given category, ordered by
// ascending id.
func (r *CategoryRepository) ListByParent(ctx context.Context, parentID int64) ([]domain.Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM categories WHERE parent_id = $1 ORDER BY id`, categoryColumns)
	return r.listCategories(ctx, query, parentID)
}

// Update modifies an existing category.
func (r *CategoryRepository) Update(ctx context.Context, c *domain.Category) error {
	c.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE categories
		SET name = $1, slug = $2, parent_id = $3, updated_at = $4
		WHERE id = $5`

	ct, err := r.pool.Exec(ctx, query, c.Name, c.Slug, c.ParentID, c.UpdatedAt, c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("category", "name", c.Name)
		}
		return fmt.Errorf("update category: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("category", fmt.Sprint(c.ID))
	}

	return nil
}

// Delete removes a category by id, re-parenting its children to the deleted
// category's own parent so the forest stays connected.
func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	category, err := r.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get category for delete: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`UPDATE categories SET parent_id = $1 WHERE parent_id = $2`,
		category.ParentID, id,
	)
	if err != nil {
		return fmt.Errorf("reparent child categories: %w", err)
	}

	ct, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("category", fmt.Sprint(id))
	}

	return nil
}

// DeleteAll removes every category.
func (r *CategoryRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM categories`); err != nil {
		return fmt.Errorf("delete all categories: %w", err)
	}
	return nil
}

// ResetIDSequence restarts the category id sequence after the current maximum id.
func (r *CategoryRepository) ResetIDSequence(ctx context.Context) error {
	query := `SELECT setval(pg_get_serial_sequence('categories', 'id'), COALESCE((SELECT MAX(id) FROM categories), 0) + 1, false)`
	if _, err := r.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("reset category id sequence: %w", err)
	}
	return nil
}

// scanCategory executes a query expected to return a single category row.
func (r *CategoryRepository) scanCategory(ctx context.Context, query string, args ...any) (*domain.Category, error) {
	var c domain.Category

	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&c.ID,
		&c.Name,
		&c.Slug,
		&c.ParentID,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan category: %w", err)
	}

	return &c, nil
}

// listCategories executes a query returning zero or more category rows.
func (r *CategoryRepository) listCategories(ctx context.Context, query string, args ...any) ([]domain.Category, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}

	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.ParentID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category row: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category rows: %w", err)
	}

	return categories, nil
}
