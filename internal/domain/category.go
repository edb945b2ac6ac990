package domain

import (
	"context"
	"time"
)

// Category represents a product category. Categories form a forest via the
// nullable parent reference; Name and Slug are unique natural keys.
type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	ParentID  *int64    `json:"parent_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CategoryTree is a category with its children attached. Trees are built on
// demand per request and discarded after traversal or serialization; they are
// never persisted.
type CategoryTree struct {
	Category
	Children []*CategoryTree `json:"children"`
}

// CollectIDs walks the tree breadth-first and returns all category ids in
// level order. Used to expand "category X and its descendants" into a filter
// set for product queries. The builder upstream guarantees the input is a
// tree, so no cycle guard is needed.
func CollectIDs(root *CategoryTree) []int64 {
	if root == nil {
		return nil
	}

	var ids []int64
	queue := []*CategoryTree{root}

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]

		ids = append(ids, node.ID)
		queue = append(queue, node.Children...)
	}

	return ids
}

// CategoryRepository defines the interface for category persistence operations.
type CategoryRepository interface {
	// Create inserts a new category and fills in its store-assigned id.
	Create(ctx context.Context, category *Category) error

	// CreateMany bulk-inserts categories verbatim, preserving their ids.
	// Used only by the destructive force-import path.
	CreateMany(ctx context.Context, categories []Category) error

	// GetByID retrieves a category by its unique identifier.
	GetByID(ctx context.Context, id int64) (*Category, error)

	// GetByName retrieves a category by its unique name.
	GetByName(ctx context.Context, name string) (*Category, error)

	// GetBySlug retrieves a category by its URL-friendly slug.
	GetBySlug(ctx context.Context, slug string) (*Category, error)

	// ListAll returns all categories ordered by ascending id.
	ListAll(ctx context.Context) ([]Category, error)

	// ListRoots returns all categories without a parent.
	ListRoots(ctx context.Context) ([]Category, error)

	// ListByParent returns the direct children of the given category.
	ListByParent(ctx context.Context, parentID int64) ([]Category, error)

	// Update modifies an existing category.
	Update(ctx context.Context, category *Category) error

	// Delete removes a category by id.
	Delete(ctx context.Context, id int64) error

	// DeleteAll removes every category. Used only by the force-import path.
	DeleteAll(ctx context.Context) error

	// ResetIDSequence restarts the id sequence after the current maximum id.
	ResetIDSequence(ctx context.Context) error
}
