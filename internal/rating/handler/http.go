// Package handler exposes the rating service HTTP surface. Listing a recipe's
// ratings is public; creating and mutating ratings requires a resolved
// identity.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"recipe-sharing-platform/backend/internal/authz"
	"recipe-sharing-platform/backend/internal/rating/domain"
	"recipe-sharing-platform/backend/internal/rating/service"
	"recipe-sharing-platform/backend/internal/server/middleware"
)

// Handler serves the rating service routes.
type Handler struct {
	ratings *service.Service
}

// New returns a rating handler backed by the given service.
func New(ratings *service.Service) *Handler {
	return &Handler{ratings: ratings}
}

// Mount registers the rating routes on r. requireAuth guards the mutating
// endpoints.
func (h *Handler) Mount(r chi.Router, requireAuth func(http.Handler) http.Handler) {
	r.Get("/recipes/{id}/ratings", h.ListByRecipe)
	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/ratings", h.Create)
		r.Put("/ratings/{id}", h.Update)
		r.Delete("/ratings/{id}", h.Delete)
	})
}

type createRequest struct {
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
	RecipeID int64  `json:"recipe_id"`
}

type patchRequest struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

type ratingResponse struct {
	ID        int64     `json:"id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	UserID    int64     `json:"user_id"`
	RecipeID  int64     `json:"recipe_id"`
	CreatedAt time.Time `json:"created_at"`
}

func toRatingResponse(rt *domain.Rating) ratingResponse {
	return ratingResponse{
		ID:        rt.ID,
		Rating:    rt.Rating,
		Comment:   rt.Comment,
		UserID:    rt.UserID,
		RecipeID:  rt.RecipeID,
		CreatedAt: rt.CreatedAt,
	}
}

// Create handles POST /ratings. The referenced recipe must exist in the
// recipe service at the time of the call; a missing or unreachable recipe
// rejects the request without persisting anything.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rt := &domain.Rating{
		Rating:   req.Rating,
		Comment:  req.Comment,
		RecipeID: req.RecipeID,
	}
	if err := h.ratings.Create(r.Context(), id.ID, rt); err != nil {
		switch {
		case errors.Is(err, service.ErrRecipeNotFound):
			middleware.WriteError(w, http.StatusNotFound, "Recipe not found")
		case errors.Is(err, service.ErrAlreadyRated):
			middleware.WriteError(w, http.StatusBadRequest, "You have already rated this recipe")
		case errors.Is(err, service.ErrInvalidInput):
			middleware.WriteError(w, http.StatusBadRequest, err.Error())
		default:
			middleware.WriteError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, toRatingResponse(rt))
}

// ListByRecipe handles GET /recipes/{id}/ratings. Public, paginated via
// skip/limit; an unknown recipe id lists empty rather than 404.
func (h *Handler) ListByRecipe(w http.ResponseWriter, r *http.Request) {
	recipeID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, "Recipe not found")
		return
	}
	skip, limit := pagination(r)
	ratings, err := h.ratings.ListByRecipe(r.Context(), recipeID, skip, limit)
	if err != nil {
		middleware.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	out := make([]ratingResponse, 0, len(ratings))
	for _, rt := range ratings {
		out = append(out, toRatingResponse(rt))
	}
	middleware.WriteJSON(w, http.StatusOK, out)
}

// Update handles PUT /ratings/{id} with merge-patch semantics: only fields
// present in the body overwrite stored values.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	ratingID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, "Rating not found")
		return
	}

	var req patchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	patch := domain.Patch{
		Rating:  req.Rating,
		Comment: req.Comment,
	}

	rt, err := h.ratings.Update(r.Context(), id.ID, ratingID, patch)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			middleware.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeMutationError(w, err, "update")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, toRatingResponse(rt))
}

// Delete handles DELETE /ratings/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	ratingID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, "Rating not found")
		return
	}

	if err := h.ratings.Delete(r.Context(), id.ID, ratingID); err != nil {
		writeMutationError(w, err, "delete")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"message": "Rating deleted successfully"})
}

func writeMutationError(w http.ResponseWriter, err error, verb string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		middleware.WriteError(w, http.StatusNotFound, "Rating not found")
	case errors.Is(err, authz.ErrForbidden):
		middleware.WriteError(w, http.StatusForbidden, "Not authorized to "+verb+" this rating")
	default:
		middleware.WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// pagination reads skip/limit query parameters with the original defaults
// (skip 0, limit 100).
func pagination(r *http.Request) (skip, limit int) {
	skip, limit = 0, 100
	if v := r.URL.Query().Get("skip"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			skip = n
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			limit = n
		}
	}
	return skip, limit
}
