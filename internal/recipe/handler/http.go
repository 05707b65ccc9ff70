// Package handler exposes the recipe service HTTP surface. Reads are public;
// mutations pass through the authorization gate via the resolved identity.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"recipe-sharing-platform/backend/internal/authz"
	"recipe-sharing-platform/backend/internal/recipe/domain"
	"recipe-sharing-platform/backend/internal/recipe/service"
	"recipe-sharing-platform/backend/internal/server/middleware"
)

// Handler serves the recipe service routes.
type Handler struct {
	recipes *service.Service
}

// New returns a recipe handler backed by the given service.
func New(recipes *service.Service) *Handler {
	return &Handler{recipes: recipes}
}

// Mount registers the recipe routes on r. requireAuth guards the mutating
// endpoints.
func (h *Handler) Mount(r chi.Router, requireAuth func(http.Handler) http.Handler) {
	r.Get("/recipes", h.List)
	r.Get("/recipes/{id}", h.GetByID)
	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/recipes", h.Create)
		r.Put("/recipes/{id}", h.Update)
		r.Delete("/recipes/{id}", h.Delete)
	})
}

type createRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Ingredients  string `json:"ingredients"`
	Instructions string `json:"instructions"`
	CookingTime  int    `json:"cooking_time"`
}

type patchRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	Ingredients  *string `json:"ingredients"`
	Instructions *string `json:"instructions"`
	CookingTime  *int    `json:"cooking_time"`
}

type recipeResponse struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Ingredients  string    `json:"ingredients"`
	Instructions string    `json:"instructions"`
	CookingTime  int       `json:"cooking_time"`
	UserID       int64     `json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
}

func toRecipeResponse(rec *domain.Recipe) recipeResponse {
	return recipeResponse{
		ID:           rec.ID,
		Title:        rec.Title,
		Description:  rec.Description,
		Ingredients:  rec.Ingredients,
		Instructions: rec.Instructions,
		CookingTime:  rec.CookingTime,
		UserID:       rec.UserID,
		CreatedAt:    rec.CreatedAt,
	}
}

// Create handles POST /recipes.
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

	rec := &domain.Recipe{
		Title:        req.Title,
		Description:  req.Description,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
		CookingTime:  req.CookingTime,
	}
	if err := h.recipes.Create(r.Context(), id.ID, rec); err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			middleware.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		middleware.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, toRecipeResponse(rec))
}

// List handles GET /recipes. Public, paginated via skip/limit.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)
	recipes, err := h.recipes.List(r.Context(), skip, limit)
	if err != nil {
		middleware.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	out := make([]recipeResponse, 0, len(recipes))
	for _, rec := range recipes {
		out = append(out, toRecipeResponse(rec))
	}
	middleware.WriteJSON(w, http.StatusOK, out)
}

// GetByID handles GET /recipes/{id}. Public; also serves peers' existence
// checks.
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	recipeID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, "Recipe not found")
		return
	}
	rec, err := h.recipes.Get(r.Context(), recipeID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			middleware.WriteError(w, http.StatusNotFound, "Recipe not found")
			return
		}
		middleware.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, toRecipeResponse(rec))
}

// Update handles PUT /recipes/{id} with merge-patch semantics: only fields
// present in the body overwrite stored values.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	recipeID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, "Recipe not found")
		return
	}

	var req patchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	patch := domain.Patch{
		Title:        req.Title,
		Description:  req.Description,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
		CookingTime:  req.CookingTime,
	}

	rec, err := h.recipes.Update(r.Context(), id.ID, recipeID, patch)
	if err != nil {
		writeMutationError(w, err, "update")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, toRecipeResponse(rec))
}

// Delete handles DELETE /recipes/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	recipeID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, "Recipe not found")
		return
	}

	if err := h.recipes.Delete(r.Context(), id.ID, recipeID); err != nil {
		writeMutationError(w, err, "delete")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"message": "Recipe deleted successfully"})
}

func writeMutationError(w http.ResponseWriter, err error, verb string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		middleware.WriteError(w, http.StatusNotFound, "Recipe not found")
	case errors.Is(err, authz.ErrForbidden):
		middleware.WriteError(w, http.StatusForbidden, "Not authorized to "+verb+" this recipe")
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
