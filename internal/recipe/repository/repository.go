package repository

import (
	"context"

	"recipe-sharing-platform/backend/internal/recipe/domain"
)

// Repository defines persistence for recipes.
type Repository interface {
	// GetByID returns the recipe for id, or nil if not found.
	GetByID(ctx context.Context, id int64) (*domain.Recipe, error)
	// List returns recipes ordered by id, skipping skip rows and returning at
	// most limit.
	List(ctx context.Context, skip, limit int) ([]*domain.Recipe, error)
	// Create persists the recipe and sets its database-assigned id.
	Create(ctx context.Context, r *domain.Recipe) error
	// Update applies the patch to the stored recipe inside a single
	// transaction and returns the updated row, or nil if the recipe is gone.
	Update(ctx context.Context, id int64, p domain.Patch) (*domain.Recipe, error)
	// Delete removes the recipe. Returns false if no row was deleted.
	Delete(ctx context.Context, id int64) (bool, error)
}
