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

const manufacturerColumns = `id, name, slug, created_at, updated_at`

// ManufacturerRepository implements manufacturer persistence operations using PostgreSQL.
type ManufacturerRepository struct {
	pool database.DBTX
}

// NewManufacturerRepository creates a new PostgreSQL-backed manufacturer repository.
func NewManufacturerRepository(pool database.DBTX) *ManufacturerRepository {
	return &ManufacturerRepository{pool: pool}
}

// Create inserts a new manufacturer and fills in its store-assigned id.
func (r *ManufacturerRepository) Create(ctx context.Context, m *domain.Manufacturer) error {
	query := `
		INSERT INTO manufacturers (name, slug, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := r.pool.QueryRow(ctx, query, m.Name, m.Slug, m.CreatedAt, m.UpdatedAt).Scan(&m.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("manufacturer", "name", m.Name)
		}
		return fmt.Errorf("insert manufacturer: %w", err)
	}

	return nil
}

// CreateMany bulk-inserts manufacturers verbatim, preserving their ids.
func (r *ManufacturerRepository) CreateMany(ctx context.Context, manufacturers []domain.Manufacturer) error {
	query := `
		INSERT INTO manufacturers (id, name, slug, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`

	for _, m := range manufacturers {
		_, err := r.pool.Exec(ctx, query, m.ID, m.Name, m.Slug, m.CreatedAt, m.UpdatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return apperrors.AlreadyExists("manufacturer", "name", m.Name)
			}
			return fmt.Errorf("bulk insert manufacturer %q: %w", m.Name, err)
		}
	}

	return nil
}

// GetByID retrieves a manufacturer by its unique identifier.
func (r *ManufacturerRepository) GetByID(ctx context.Context, id int64) (*domain.Manufacturer, error) {
	query := fmt.Sprintf(`SELECT %s FROM manufacturers WHERE id = $1`, manufacturerColumns)
	return r.scanManufacturer(ctx, query, id)
}

// GetByName retrieves a manufacturer by its unique name.
func (r *ManufacturerRepository) GetByName(ctx context.Context, name string) (*domain.Manufacturer, error) {
	query := fmt.Sprintf(`SELECT %s FROM manufacturers WHERE name = $1`, manufacturerColumns)
	return r.scanManufacturer(ctx, query, name)
}

// GetBySlug retrieves a manufacturer by its URL-friendly slug.
func (r *ManufacturerRepository) GetBySlug(ctx context.Context, slug string) (*domain.Manufacturer, error) {
	query := fmt.Sprintf(`SELECT %s FROM manufacturers WHERE slug = $1`, manufacturerColumns)
	return r.scanManufacturer(ctx, query, slug)
}

// ListAll returns all manufacturers ordered by ascending id.
func (r *ManufacturerRepository) ListAll(ctx context.Context) ([]domain.Manufacturer, error) {
	query := fmt.Sprintf(`SELECT %s FROM manufacturers ORDER BY id`, manufacturerColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list manufacturers: %w", err)
	}
	defer rows.Close()

	manufacturers := []domain.Manufacturer{}

	for rows.Next() {
		var m domain.Manufacturer
		if err := rows.Scan(&m.ID, &m.Name, &m.Slug, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan manufacturer row: %w", err)
		}
		manufacturers = append(manufacturers, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate manufacturer rows: %w", err)
	}

	return manufacturers, nil
}

// Update modifies an existing manufacturer.
func (r *ManufacturerRepository) Update(ctx context.Context, m *domain.Manufacturer) error {
	m.UpdatedAt = time.Now().UTC()

	query := `UPDATE manufacturers SET name = $1, slug = $2, updated_at = $3 WHERE id = $4`

	ct, err := r.pool.Exec(ctx, query, m.Name, m.Slug, m.UpdatedAt, m.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("manufacturer", "name", m.Name)
		}
		return fmt.Errorf("update manufacturer: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("manufacturer", fmt.Sprint(m.ID))
	}

	return nil
}

// Delete removes a manufacturer by id.
func (r *ManufacturerRepository) Delete(ctx context.Context, id int64) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM manufacturers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete manufacturer: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("manufacturer", fmt.Sprint(id))
	}

	return nil
}

// DeleteAll removes every manufacturer.
func (r *ManufacturerRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM manufacturers`); err != nil {
		return fmt.Errorf("delete all manufacturers: %w", err)
	}
	return nil
}

// ResetIDSequence restarts the manufacturer id sequence after the current maximum id.
func (r *ManufacturerRepository) ResetIDSequence(ctx context.Context) error {
	query := `SELECT setval(pg_get_serial_sequence('manufacturers', 'id'), COALESCE((SELECT MAX(id) FROM manufacturers), 0) + 1, false)`
	if _, err := r.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("reset manufacturer id sequence: %w", err)
	}
	return nil
}

func (r *ManufacturerRepository) scanManufacturer(ctx context.Context, query string, args ...any) (*domain.Manufacturer, error) {
	var m domain.Manufacturer

	err := r.pool.QueryRow(ctx, query, args...).Scan(&m.ID, &m.Name, &m.Slug, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan manufacturer: %w", err)
	}

	return &m, nil
}
