package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Egxr41k/volosmeister-backend/internal/domain"
	"github.com/Egxr41k/volosmeister-backend/pkg/database"
	apperrors "github.com/Egxr41k/volosmeister-backend/pkg/errors"
)

const userColumns = `id, email, name, created_at, updated_at`

// UserRepository implements user persistence operations using PostgreSQL.
type UserRepository struct {
	pool database.DBTX
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(pool database.DBTX) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create inserts a new user and fills in its store-assigned id.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (email, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := r.pool.QueryRow(ctx, query, u.Email, u.Name, u.CreatedAt, u.UpdatedAt).Scan(&u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("user", "email", u.Email)
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// CreateMany bulk-inserts users verbatim, preserving their ids.
func (r *UserRepository) CreateMany(ctx context.Context, users []domain.User) error {
	query := `
		INSERT INTO users (id, email, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`

	for _, u := range users {
		_, err := r.pool.Exec(ctx, query, u.ID, u.Email, u.Name, u.CreatedAt, u.UpdatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return apperrors.AlreadyExists("user", "email", u.Email)
			}
			return fmt.Errorf("bulk insert user %q: %w", u.Email, err)
		}
	}

	return nil
}

// GetByID retrieves a user by its unique identifier.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	return r.scanUser(ctx, query, id)
}

// GetByEmail retrieves a user by its unique email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)
	return r.scanUser(ctx, query, email)
}

// ListAll returns all users ordered by ascending id.
func (r *UserRepository) ListAll(ctx context.Context) ([]domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users ORDER BY id`, userColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []domain.User{}

	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user rows: %w", err)
	}

	return users, nil
}

// DeleteAll removes every user.
func (r *UserRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM users`); err != nil {
		return fmt.Errorf("delete all users: %w", err)
	}
	return nil
}

// ResetIDSequence restarts the user id sequence after the current maximum id.
func (r *UserRepository) ResetIDSequence(ctx context.Context) error {
	query := `SELECT setval(pg_get_serial_sequence('users', 'id'), COALESCE((SELECT MAX(id) FROM users), 0) + 1, false)`
	if _, err := r.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("reset user id sequence: %w", err)
	}
	return nil
}

func (r *UserRepository) scanUser(ctx context.Context, query string, args ...any) (*domain.User, error) {
	var u domain.User

	err := r.pool.QueryRow(ctx, query, args...).Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	return &u, nil
}
