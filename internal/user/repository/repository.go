package repository

import (
	"context"

	"recipe-sharing-platform/backend/internal/user/domain"
)

// Repository defines persistence for users.
type Repository interface {
	// GetByID returns the user for id, or nil if not found.
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	// GetByUsername returns the user with the given username, or nil if not found.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	// GetByEmail returns the user with the given email, or nil if not found.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// Create persists the user and sets its database-assigned id.
	Create(ctx context.Context, u *domain.User) error
}
