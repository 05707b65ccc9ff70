package service

import (
	"context"
	"errors"
	"fmt"

	"recipe-sharing-platform/backend/internal/authz"
	"recipe-sharing-platform/backend/internal/recipe/domain"
	"recipe-sharing-platform/backend/internal/recipe/repository"
)

// Sentinel errors for the recipe service; the handler maps them to HTTP status codes.
var (
	ErrNotFound = errors.New("recipe not found")
	// ErrInvalidInput wraps request-shape validation failures.
	ErrInvalidInput = errors.New("invalid input")
)

// Service implements recipe CRUD with the owner-gated mutation flow:
// existence is confirmed first, then ownership. The order leaks existence to
// non-owners; it is kept deliberately so rejection reasons stay precise.
type Service struct {
	recipes repository.Repository
	gate    *authz.Gate
}

// New returns a recipe service with the given dependencies.
func New(recipes repository.Repository, gate *authz.Gate) *Service {
	return &Service{recipes: recipes, gate: gate}
}

// Create persists a recipe owned by callerID. The owner is always the
// resolved identity; a client-supplied owner field is never trusted.
func (s *Service) Create(ctx context.Context, callerID int64, rec *domain.Recipe) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	rec.UserID = callerID
	return s.recipes.Create(ctx, rec)
}

// Get returns the recipe for id. Public read.
func (s *Service) Get(ctx context.Context, id int64) (*domain.Recipe, error) {
	rec, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNotFound
	}
	return rec, nil
}

// List returns recipes with skip/limit pagination. Public read.
func (s *Service) List(ctx context.Context, skip, limit int) ([]*domain.Recipe, error) {
	return s.recipes.List(ctx, skip, limit)
}

// Update applies the patch to the recipe when callerID owns it.
// ErrNotFound when the recipe is absent; authz.ErrForbidden when the caller
// is not the owner.
func (s *Service) Update(ctx context.Context, callerID, id int64, p domain.Patch) (*domain.Recipe, error) {
	rec, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNotFound
	}
	if err := s.gate.RequireOwner(ctx, callerID, rec.UserID); err != nil {
		return nil, err
	}

	updated, err := s.recipes.Update(ctx, id, p)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	return updated, nil
}

// Delete removes the recipe when callerID owns it.
func (s *Service) Delete(ctx context.Context, callerID, id int64) error {
	rec, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if rec == nil {
		return ErrNotFound
	}
	if err := s.gate.RequireOwner(ctx, callerID, rec.UserID); err != nil {
		return err
	}

	deleted, err := s.recipes.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}
