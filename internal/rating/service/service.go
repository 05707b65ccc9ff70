package service

import (
	"context"
	"errors"
	"fmt"

	"recipe-sharing-platform/backend/internal/authz"
	"recipe-sharing-platform/backend/internal/peer"
	"recipe-sharing-platform/backend/internal/rating/domain"
	"recipe-sharing-platform/backend/internal/rating/repository"
)

// Sentinel errors for the rating service; the handler maps them to HTTP status codes.
var (
	ErrNotFound = errors.New("rating not found")
	// ErrRecipeNotFound covers both a genuinely missing recipe and an
	// unreachable recipe service: the existence check fails closed either way.
	ErrRecipeNotFound = errors.New("recipe not found")
	ErrAlreadyRated   = errors.New("you have already rated this recipe")
	// ErrInvalidInput wraps request-shape validation failures.
	ErrInvalidInput = errors.New("invalid input")
)

// Service implements rating CRUD. A create introduces a new cross-service
// reference, so it re-verifies the recipe with the owning service every time
// (no caching), then checks per-(user, recipe) uniqueness before insert. The
// storage constraint backstops the racy read-then-write check.
type Service struct {
	ratings repository.Repository
	recipes peer.RecipeChecker
	gate    *authz.Gate
}

// New returns a rating service with the given dependencies.
func New(ratings repository.Repository, recipes peer.RecipeChecker, gate *authz.Gate) *Service {
	return &Service{ratings: ratings, recipes: recipes, gate: gate}
}

// Create persists a rating owned by callerID after confirming the referenced
// recipe is live and the caller has not already rated it.
func (s *Service) Create(ctx context.Context, callerID int64, rating *domain.Rating) error {
	if err := rating.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	rating.UserID = callerID

	if !s.recipes.RecipeExists(ctx, rating.RecipeID) {
		return ErrRecipeNotFound
	}

	existing, err := s.ratings.GetByUserAndRecipe(ctx, callerID, rating.RecipeID)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrAlreadyRated
	}

	if err := s.ratings.Create(ctx, rating); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrAlreadyRated
		}
		return err
	}
	return nil
}

// ListByRecipe returns the recipe's ratings with skip/limit pagination.
// Public read; no existence check on the recipe — an unknown id just lists
// empty.
func (s *Service) ListByRecipe(ctx context.Context, recipeID int64, skip, limit int) ([]*domain.Rating, error) {
	return s.ratings.ListByRecipe(ctx, recipeID, skip, limit)
}

// Update applies the patch to the rating when callerID owns it. Existence is
// checked before ownership, matching the mutation flow everywhere else.
func (s *Service) Update(ctx context.Context, callerID, id int64, p domain.Patch) (*domain.Rating, error) {
	rating, err := s.ratings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rating == nil {
		return nil, ErrNotFound
	}
	if err := s.gate.RequireOwner(ctx, callerID, rating.UserID); err != nil {
		return nil, err
	}

	if p.Rating != nil && (*p.Rating < 1 || *p.Rating > 5) {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidInput)
	}

	updated, err := s.ratings.Update(ctx, id, p)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	return updated, nil
}

// Delete removes the rating when callerID owns it.
func (s *Service) Delete(ctx context.Context, callerID, id int64) error {
	rating, err := s.ratings.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if rating == nil {
		return ErrNotFound
	}
	if err := s.gate.RequireOwner(ctx, callerID, rating.UserID); err != nil {
		return err
	}

	deleted, err := s.ratings.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}
