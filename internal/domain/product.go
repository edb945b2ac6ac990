package domain

import (
	"context"
	"time"
)

// Product sort orders for listing queries.
const (
	ProductSortNewest    = "newest"
	ProductSortOldest    = "oldest"
	ProductSortPriceAsc  = "price_asc"
	ProductSortPriceDesc = "price_desc"
)

// ValidProductSorts returns the accepted sort values.
func ValidProductSorts() []string {
	return []string{ProductSortNewest, ProductSortOldest, ProductSortPriceAsc, ProductSortPriceDesc}
}

// IsValidProductSort checks whether the given sort value is accepted.
func IsValidProductSort(sort string) bool {
	for _, s := range ValidProductSorts() {
		if s == sort {
			return true
		}
	}
	return false
}

// Product represents a catalog product. Name and Slug are unique natural
// keys; Images holds asset store URLs.
type Product struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	Description    string    `json:"description"`
	Price          int64     `json:"price"`
	Images         []string  `json:"images"`
	CategoryID     *int64    `json:"category_id,omitempty"`
	ManufacturerID *int64    `json:"manufacturer_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ProductFilter holds filtering, searching, sorting, and pagination
// parameters for product listing queries.
type ProductFilter struct {
	// CategoryIDs restricts results to products in any of the given
	// categories (a category plus its descendants, expanded upstream).
	CategoryIDs []int64
	Search      string
	Sort        string
	PerPage     int
	Offset      int
}

// ProductRepository defines the interface for product persistence operations.
type ProductRepository interface {
	// Create inserts a new product and fills in its store-assigned id.
	Create(ctx context.Context, product *Product) error

	// CreateMany bulk-inserts products verbatim, preserving their ids.
	CreateMany(ctx context.Context, products []Product) error

	// GetByID retrieves a product by its unique identifier.
	GetByID(ctx context.Context, id int64) (*Product, error)

	// GetByName retrieves a product by its unique name.
	GetByName(ctx context.Context, name string) (*Product, error)

	// GetBySlug retrieves a product by its URL-friendly slug.
	GetBySlug(ctx context.Context, slug string) (*Product, error)

	// List returns a filtered page of products plus the total match count.
	List(ctx context.Context, filter ProductFilter) ([]Product, int, error)

	// ListAll returns all products ordered by ascending id.
	ListAll(ctx context.Context) ([]Product, error)

	// ListSimilar returns products sharing the given category, excluding the
	// product itself, newest first.
	ListSimilar(ctx context.Context, categoryID, excludeID int64) ([]Product, error)

	// Update modifies an existing product.
	Update(ctx context.Context, product *Product) error

	// Delete removes a product by id.
	Delete(ctx context.Context, id int64) error

	// DeleteAll removes every product. Used only by the force-import path.
	DeleteAll(ctx context.Context) error

	// ResetIDSequence restarts the id sequence after the current maximum id.
	ResetIDSequence(ctx context.Context) error
}
