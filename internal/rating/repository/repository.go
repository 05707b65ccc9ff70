package repository

import (
	"context"
	"errors"

	"recipe-sharing-platform/backend/internal/rating/domain"
)

// ErrDuplicate is returned by Create when the (user, recipe) pair already has
// a rating (storage uniqueness constraint).
var ErrDuplicate = errors.New("rating already exists for this user and recipe")

// Repository defines persistence for ratings.
type Repository interface {
	// GetByID returns the rating for id, or nil if not found.
	GetByID(ctx context.Context, id int64) (*domain.Rating, error)
	// GetByUserAndRecipe returns the caller's rating for the recipe, or nil.
	GetByUserAndRecipe(ctx context.Context, userID, recipeID int64) (*domain.Rating, error)
	// ListByRecipe returns the recipe's ratings ordered by id with skip/limit
	// pagination.
	ListByRecipe(ctx context.Context, recipeID int64, skip, limit int) ([]*domain.Rating, error)
	// Create persists the rating and sets its database-assigned id.
	// Returns ErrDuplicate when the uniqueness constraint rejects the row.
	Create(ctx context.Context, r *domain.Rating) error
	// Update applies the patch inside a single transaction and returns the
	// updated row, or nil if the rating is gone.
	Update(ctx context.Context, id int64, p domain.Patch) (*domain.Rating, error)
	// Delete removes the rating. Returns false if no row was deleted.
	Delete(ctx context.Context, id int64) (bool, error)
}
