package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Egxr41k/volosmeister-backend/internal/domain"
	"github.com/Egxr41k/volosmeister-backend/internal/event"
	apperrors "github.com/Egxr41k/volosmeister-backend/pkg/errors"
	"github.com/Egxr41k/volosmeister-backend/pkg/slug"
)

// treeCacheKey holds the cached full category forest.
const treeCacheKey = "catalog:category-tree"

// treeCacheTTL bounds staleness if an invalidation is ever missed.
const treeCacheTTL = 5 * time.Minute

// CategoryService implements the business logic for category operations,
// including hierarchy resolution and dependency-ordered bulk creation.
type CategoryService struct {
	repo     domain.CategoryRepository
	cache    *redis.Client
	producer *event.Producer
	logger   *slog.Logger
}

// NewCategoryService creates a new category service. The cache client is
// optional; a nil client disables tree caching.
func NewCategoryService(
	repo domain.CategoryRepository,
	cache *redis.Client,
	producer *event.Producer,
	logger *slog.Logger,
) *CategoryService {
	return &CategoryService{
		repo:     repo,
		cache:    cache,
		producer: producer,
		logger:   logger,
	}
}

// CreateCategoryInput holds the parameters for creating a category.
type CreateCategoryInput struct {
	Name     string
	ParentID *int64
}

// UpdateCategoryInput holds the parameters for updating a category.
type UpdateCategoryInput struct {
	Name     *string
	ParentID *int64
}

// CreateCategory creates a new category with a derived slug.
func (s *CategoryService) CreateCategory(ctx context.Context, input *CreateCategoryInput) (*domain.Category, error) {
	if input.Name == "" {
		return nil, apperrors.InvalidInput("category name is required")
	}

	if input.ParentID != nil {
		if _, err := s.repo.GetByID(ctx, *input.ParentID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.InvalidInput(fmt.Sprintf("parent category %d does not exist", *input.ParentID))
			}
			return nil, fmt.Errorf("check parent category: %w", err)
		}
	}

	now := time.Now().UTC()
	category := &domain.Category{
		Name:      input.Name,
		Slug:      slug.Generate(input.Name),
		ParentID:  input.ParentID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	s.invalidateTreeCache(ctx)

	if err := s.producer.PublishCategoryCreated(ctx, category); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish category.created event",
			slog.Int64("category_id", category.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "category created",
		slog.Int64("category_id", category.ID),
		slog.String("slug", category.Slug),
	)

	return category, nil
}

// GetCategory retrieves a category by its ID.
func (s *CategoryService) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get category by id: %w", err)
	}
	return category, nil
}

// GetCategoryBySlug retrieves a category by its slug.
func (s *CategoryService) GetCategoryBySlug(ctx context.Context, categorySlug string) (*domain.Category, error) {
	category, err := s.repo.GetBySlug(ctx, categorySlug)
	if err != nil {
		return nil, fmt.Errorf("get category by slug: %w", err)
	}
	return category, nil
}

// GetCategoryByName retrieves a category by its name.
func (s *CategoryService) GetCategoryByName(ctx context.Context, name string) (*domain.Category, error) {
	category, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("get category by name: %w", err)
	}
	return category, nil
}

// ListCategories returns all categories in ascending id order.
func (s *CategoryService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// ListRootCategories returns all categories without a parent.
func (s *CategoryService) ListRootCategories(ctx context.Context) ([]domain.Category, error) {
	roots, err := s.repo.ListRoots(ctx)
	if err != nil {
		return nil, fmt.Errorf("list root categories: %w", err)
	}
	return roots, nil
}

// GetChildren returns the direct children of a category.
func (s *CategoryService) GetChildren(ctx context.Context, id int64) ([]domain.Category, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}

	children, err := s.repo.ListByParent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list child categories: %w", err)
	}
	return children, nil
}

// UpdateCategory applies a partial update to an existing category. A name
// change re-derives the slug.
func (s *CategoryService) UpdateCategory(ctx context.Context, id int64, input *UpdateCategoryInput) (*domain.Category, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get category for update: %w", err)
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperrors.InvalidInput("category name must not be empty")
		}
		category.Name = *input.Name
		category.Slug = slug.Generate(*input.Name)
	}

	if input.ParentID != nil {
		if *input.ParentID == id {
			return nil, apperrors.InvalidInput("category cannot be its own parent")
		}
		if _, err := s.repo.GetByID(ctx, *input.ParentID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.InvalidInput(fmt.Sprintf("parent category %d does not exist", *input.ParentID))
			}
			return nil, fmt.Errorf("check parent category: %w", err)
		}
		category.ParentID = input.ParentID
	}

	if err := s.repo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}

	s.invalidateTreeCache(ctx)

	return category, nil
}

// DeleteCategory removes a category; its children are re-parented upward.
func (s *CategoryService) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	s.invalidateTreeCache(ctx)

	if err := s.producer.PublishCategoryDeleted(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish category.deleted event",
			slog.Int64("category_id", id),
			slog.String("error", err.Error()),
		)
	}

	return nil
}

// BuildSubtree expands the category rooted at rootID into a full tree via an
// iterative worklist of child lookups.
func (s *CategoryService) BuildSubtree(ctx context.Context, rootID int64) (*domain.CategoryTree, error) {
	root, err := s.repo.GetByID(ctx, rootID)
	if err != nil {
		return nil, fmt.Errorf("get subtree root: %w", err)
	}

	tree := &domain.CategoryTree{Category: *root}
	queue := []*domain.CategoryTree{tree}

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]

		children, err := s.repo.ListByParent(ctx, node.ID)
		if err != nil {
			return nil, fmt.Errorf("list children of category %d: %w", node.ID, err)
		}

		for _, child := range children {
			childNode := &domain.CategoryTree{Category: child}
			node.Children = append(node.Children, childNode)
			queue = append(queue, childNode)
		}
	}

	return tree, nil
}

// BuildChainToRoot builds the ancestor chain from a leaf up to its root. At
// each level the full sibling set is present: the already-built subtree is
// spliced in place of the matching child and the other siblings appear as
// childless leaves.
func (s *CategoryService) BuildChainToRoot(ctx context.Context, leafID int64) (*domain.CategoryTree, error) {
	leaf, err := s.repo.GetByID(ctx, leafID)
	if err != nil {
		return nil, fmt.Errorf("get chain leaf: %w", err)
	}

	current := &domain.CategoryTree{Category: *leaf}

	for current.ParentID != nil {
		parent, err := s.repo.GetByID(ctx, *current.ParentID)
		if err != nil {
			return nil, fmt.Errorf("get ancestor category %d: %w", *current.ParentID, err)
		}

		siblings, err := s.repo.ListByParent(ctx, parent.ID)
		if err != nil {
			return nil, fmt.Errorf("list children of category %d: %w", parent.ID, err)
		}

		parentNode := &domain.CategoryTree{Category: *parent}
		for _, sibling := range siblings {
			if sibling.ID == current.ID {
				parentNode.Children = append(parentNode.Children, current)
			} else {
				parentNode.Children = append(parentNode.Children, &domain.CategoryTree{Category: sibling})
			}
		}

		current = parentNode
	}

	return current, nil
}

// ListTree returns every root category expanded into its full subtree. The
// assembled forest is cached with a short TTL and invalidated on writes.
func (s *CategoryService) ListTree(ctx context.Context) ([]*domain.CategoryTree, error) {
	if forest, ok := s.cachedTree(ctx); ok {
		return forest, nil
	}

	roots, err := s.repo.ListRoots(ctx)
	if err != nil {
		return nil, fmt.Errorf("list root categories: %w", err)
	}

	forest := []*domain.CategoryTree{}
	for _, root := range roots {
		tree, err := s.BuildSubtree(ctx, root.ID)
		if err != nil {
			return nil, err
		}
		forest = append(forest, tree)
	}

	s.storeTreeCache(ctx, forest)

	return forest, nil
}

// SafeCreateMany reconciles an unordered category batch against the store.
// Records are swept repeatedly: a record is applied once its declared parent
// resolves, either to another record in the batch or to an already-persisted
// category. A sweep that applies nothing means the remaining records form a
// cycle or reference parents that do not exist anywhere.
func (s *CategoryService) SafeCreateMany(ctx context.Context, batch []domain.Category) ([]domain.Category, error) {
	// resolved is the name-keyed ledger: first resolution for a name wins.
	resolved := make(map[string]*domain.Category)
	// idMap translates batch-declared ids to persisted ids.
	idMap := make(map[int64]int64)

	pending := make([]domain.Category, len(batch))
	copy(pending, batch)

	result := []domain.Category{}

	for len(pending) > 0 {
		var deferred []domain.Category
		progressed := false

		for _, record := range pending {
			if record.Name == "" {
				return nil, apperrors.InvalidInput("category name is required")
			}

			if existing, seen := resolved[record.Name]; seen {
				if record.ID != 0 {
					idMap[record.ID] = existing.ID
				}
				progressed = true
				continue
			}

			parentID, ready, err := s.resolveParentRef(ctx, record.ParentID, idMap)
			if err != nil {
				return nil, err
			}
			if !ready {
				deferred = append(deferred, record)
				continue
			}

			category, err := s.findOrCreate(ctx, record.Name, parentID)
			if err != nil {
				return nil, err
			}

			resolved[record.Name] = category
			if record.ID != 0 {
				idMap[record.ID] = category.ID
			}
			result = append(result, *category)
			progressed = true
		}

		if !progressed {
			return nil, apperrors.UnresolvedDependency("category")
		}

		pending = deferred
	}

	s.invalidateTreeCache(ctx)

	return result, nil
}

// ForceCreateMany replaces the whole category set with the batch verbatim,
// then moves the id sequence past the highest inserted id.
func (s *CategoryService) ForceCreateMany(ctx context.Context, batch []domain.Category) error {
	// Ids are inserted verbatim; a zero id would collide with the next
	// zero-id record. Checked before anything is deleted.
	for _, c := range batch {
		if c.ID <= 0 {
			return apperrors.InvalidInput(fmt.Sprintf("category %q has no id; force import requires explicit ids", c.Name))
		}
	}

	if err := s.repo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("clear categories: %w", err)
	}

	if err := s.repo.CreateMany(ctx, batch); err != nil {
		return fmt.Errorf("bulk insert categories: %w", err)
	}

	if err := s.repo.ResetIDSequence(ctx); err != nil {
		return fmt.Errorf("reset category sequence: %w", err)
	}

	s.invalidateTreeCache(ctx)

	return nil
}

// ResolveOrCreate finds a category by name, creating a root-level one when
// absent. A unique-violation race resolves to the winning row.
func (s *CategoryService) ResolveOrCreate(ctx context.Context, name string) (*domain.Category, error) {
	if name == "" {
		return nil, apperrors.InvalidInput("category name is required")
	}
	return s.findOrCreate(ctx, name, nil)
}

// resolveParentRef maps a declared parent reference to a persisted id.
// Returns ready=false when the reference might still be satisfied by a later
// sweep.
func (s *CategoryService) resolveParentRef(ctx context.Context, declared *int64, idMap map[int64]int64) (*int64, bool, error) {
	if declared == nil {
		return nil, true, nil
	}

	if mapped, ok := idMap[*declared]; ok {
		return &mapped, true, nil
	}

	existing, err := s.repo.GetByID(ctx, *declared)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("resolve parent category %d: %w", *declared, err)
	}

	idMap[*declared] = existing.ID
	return &existing.ID, true, nil
}

// findOrCreate reuses the category with the given name or creates it under
// the given parent.
func (s *CategoryService) findOrCreate(ctx context.Context, name string, parentID *int64) (*domain.Category, error) {
	existing, err := s.repo.GetByName(ctx, name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("get category by name: %w", err)
	}

	now := time.Now().UTC()
	category := &domain.Category{
		Name:      name,
		Slug:      slug.Generate(name),
		ParentID:  parentID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, category); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			// Lost a create race; the winner is the record to reuse.
			return s.repo.GetByName(ctx, name)
		}
		return nil, fmt.Errorf("create category %q: %w", name, err)
	}

	return category, nil
}

func (s *CategoryService) cachedTree(ctx context.Context) ([]*domain.CategoryTree, bool) {
	if s.cache == nil {
		return nil, false
	}

	data, err := s.cache.Get(ctx, treeCacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.WarnContext(ctx, "category tree cache read failed",
				slog.String("error", err.Error()),
			)
		}
		return nil, false
	}

	var forest []*domain.CategoryTree
	if err := json.Unmarshal(data, &forest); err != nil {
		s.logger.WarnContext(ctx, "category tree cache entry corrupt",
			slog.String("error", err.Error()),
		)
		return nil, false
	}

	return forest, true
}

func (s *CategoryService) storeTreeCache(ctx context.Context, forest []*domain.CategoryTree) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(forest)
	if err != nil {
		return
	}

	if err := s.cache.Set(ctx, treeCacheKey, data, treeCacheTTL).Err(); err != nil {
		s.logger.WarnContext(ctx, "category tree cache write failed",
			slog.String("error", err.Error()),
		)
	}
}

func (s *CategoryService) invalidateTreeCache(ctx context.Context) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Del(ctx, treeCacheKey).Err(); err != nil {
		s.logger.WarnContext(ctx, "category tree cache invalidation failed",
			slog.String("error", err.Error()),
		)
	}
}
