package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Egxr41k/volosmeister-backend/internal/domain"
	apperrors "github.com/Egxr41k/volosmeister-backend/pkg/errors"
)

// UserService implements the business logic for user operations.
type UserService struct {
	repo   domain.UserRepository
	logger *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(repo domain.UserRepository, logger *slog.Logger) *UserService {
	return &UserService{
		repo:   repo,
		logger: logger,
	}
}

// GetUser retrieves a user by its ID.
func (s *UserService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return user, nil
}

// GetUserByEmail retrieves a user by its email.
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return user, nil
}

// ListUsers returns all users in ascending id order.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// ForceCreateMany replaces the whole user set with the batch verbatim, then
// moves the id sequence past the highest inserted id.
func (s *UserService) ForceCreateMany(ctx context.Context, batch []domain.User) error {
	// Ids are inserted verbatim. Checked before anything is deleted.
	for _, u := range batch {
		if u.ID <= 0 {
			return apperrors.InvalidInput(fmt.Sprintf("user %q has no id; force import requires explicit ids", u.Email))
		}
	}

	if err := s.repo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("clear users: %w", err)
	}

	if err := s.repo.CreateMany(ctx, batch); err != nil {
		return fmt.Errorf("bulk insert users: %w", err)
	}

	if err := s.repo.ResetIDSequence(ctx); err != nil {
		return fmt.Errorf("reset user sequence: %w", err)
	}

	return nil
}

// ResolveOrCreate finds a user by email, creating one when absent. A
// unique-violation race resolves to the winning row.
func (s *UserService) ResolveOrCreate(ctx context.Context, email, name string) (*domain.User, error) {
	if email == "" {
		return nil, apperrors.InvalidInput("user email is required")
	}

	existing, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:     email,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			return s.repo.GetByEmail(ctx, email)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.InfoContext(ctx, "user created",
		slog.Int64("user_id", user.ID),
	)

	return user, nil
}
