package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Egxr41k/volosmeister-backend/internal/domain"
	apperrors "github.com/Egxr41k/volosmeister-backend/pkg/errors"
	"github.com/Egxr41k/volosmeister-backend/pkg/slug"
)

// ManufacturerService implements the business logic for manufacturer
// operations.
type ManufacturerService struct {
	repo   domain.ManufacturerRepository
	logger *slog.Logger
}

// NewManufacturerService creates a new manufacturer service.
func NewManufacturerService(repo domain.ManufacturerRepository, logger *slog.Logger) *ManufacturerService {
	return &ManufacturerService{
		repo:   repo,
		logger: logger,
	}
}

// CreateManufacturer creates a new manufacturer with a derived slug.
func (s *ManufacturerService) CreateManufacturer(ctx context.Context, name string) (*domain.Manufacturer, error) {
	if name == "" {
		return nil, apperrors.InvalidInput("manufacturer name is required")
	}

	now := time.Now().UTC()
	manufacturer := &domain.Manufacturer{
		Name:      name,
		Slug:      slug.Generate(name),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, manufacturer); err != nil {
		return nil, fmt.Errorf("create manufacturer: %w", err)
	}

	s.logger.InfoContext(ctx, "manufacturer created",
		slog.Int64("manufacturer_id", manufacturer.ID),
		slog.String("slug", manufacturer.Slug),
	)

	return manufacturer, nil
}

// GetManufacturer retrieves a manufacturer by its ID.
func (s *ManufacturerService) GetManufacturer(ctx context.Context, id int64) (*domain.Manufacturer, error) {
	manufacturer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get manufacturer by id: %w", err)
	}
	return manufacturer, nil
}

// GetManufacturerBySlug retrieves a manufacturer by its slug.
func (s *ManufacturerService) GetManufacturerBySlug(ctx context.Context, manufacturerSlug string) (*domain.Manufacturer, error) {
	manufacturer, err := s.repo.GetBySlug(ctx, manufacturerSlug)
	if err != nil {
		return nil, fmt.Errorf("get manufacturer by slug: %w", err)
	}
	return manufacturer, nil
}

// GetManufacturerByName retrieves a manufacturer by its name.
func (s *ManufacturerService) GetManufacturerByName(ctx context.Context, name string) (*domain.Manufacturer, error) {
	manufacturer, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("get manufacturer by name: %w", err)
	}
	return manufacturer, nil
}

// ListManufacturers returns all manufacturers in ascending id order.
func (s *ManufacturerService) ListManufacturers(ctx context.Context) ([]domain.Manufacturer, error) {
	manufacturers, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list manufacturers: %w", err)
	}
	return manufacturers, nil
}

// UpdateManufacturer renames a manufacturer, re-deriving its slug.
func (s *ManufacturerService) UpdateManufacturer(ctx context.Context, id int64, name string) (*domain.Manufacturer, error) {
	if name == "" {
		return nil, apperrors.InvalidInput("manufacturer name is required")
	}

	manufacturer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get manufacturer for update: %w", err)
	}

	manufacturer.Name = name
	manufacturer.Slug = slug.Generate(name)

	if err := s.repo.Update(ctx, manufacturer); err != nil {
		return nil, fmt.Errorf("update manufacturer: %w", err)
	}

	return manufacturer, nil
}

// DeleteManufacturer removes a manufacturer by id.
func (s *ManufacturerService) DeleteManufacturer(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete manufacturer: %w", err)
	}
	return nil
}

// ForceCreateMany replaces the whole manufacturer set with the batch
// verbatim, then moves the id sequence past the highest inserted id.
func (s *ManufacturerService) ForceCreateMany(ctx context.Context, batch []domain.Manufacturer) error {
	// Ids are inserted verbatim. Checked before anything is deleted.
	for _, m := range batch {
		if m.ID <= 0 {
			return apperrors.InvalidInput(fmt.Sprintf("manufacturer %q has no id; force import requires explicit ids", m.Name))
		}
	}

	if err := s.repo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("clear manufacturers: %w", err)
	}

	if err := s.repo.CreateMany(ctx, batch); err != nil {
		return fmt.Errorf("bulk insert manufacturers: %w", err)
	}

	if err := s.repo.ResetIDSequence(ctx); err != nil {
		return fmt.Errorf("reset manufacturer sequence: %w", err)
	}

	return nil
}

// ResolveOrCreate finds a manufacturer by name, creating one when absent. A
// unique-violation race resolves to the winning row.
func (s *ManufacturerService) ResolveOrCreate(ctx context.Context, name string) (*domain.Manufacturer, error) {
	if name == "" {
		return nil, apperrors.InvalidInput("manufacturer name is required")
	}

	existing, err := s.repo.GetByName(ctx, name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("get manufacturer by name: %w", err)
	}

	manufacturer, err := s.CreateManufacturer(ctx, name)
	if err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			return s.repo.GetByName(ctx, name)
		}
		return nil, err
	}

	return manufacturer, nil
}
