package domain

import (
	"context"
	"time"
)

// User represents a catalog user. Email is the unique natural key.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	CreateMany(ctx context.Context, users []User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	ListAll(ctx context.Context) ([]User, error)
	DeleteAll(ctx context.Context) error
	ResetIDSequence(ctx context.Context) error
}
