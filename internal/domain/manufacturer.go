package domain

import (
	"context"
	"time"
)

// Manufacturer represents a product manufacturer. Name is the unique natural key.
type Manufacturer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ManufacturerRepository defines the interface for manufacturer persistence operations.
type ManufacturerRepository interface {
	Create(ctx context.Context, manufacturer *Manufacturer) error
	CreateMany(ctx context.Context, manufacturers []Manufacturer) error
	GetByID(ctx context.Context, id int64) (*Manufacturer, error)
	GetByName(ctx context.Context, name string) (*Manufacturer, error)
	GetBySlug(ctx context.Context, slug string) (*Manufacturer, error)
	ListAll(ctx context.Context) ([]Manufacturer, error)
	Update(ctx context.Context, manufacturer *Manufacturer) error
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) error
	ResetIDSequence(ctx context.Context) error
}
